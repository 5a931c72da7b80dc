package trade

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/catalog"
	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/luminform/atelier/internal/domain/trade"
)

// linePricer turns requested lines into snapshotted, priced line inputs
type linePricer struct {
	productRepo    catalog.ProductRepository
	collectionRepo catalog.CollectionRepository
}

// resolve prices each line. The unit price comes from, in order: an explicit
// price when allowCustom is set, the collection's override, the product's
// base price. Catalog-derived prices must be in the document currency.
func (p linePricer) resolve(
	ctx context.Context,
	partnerID uuid.UUID,
	currency string,
	collectionID *uuid.UUID,
	lines []LineRequest,
	allowCustom bool,
) ([]trade.LineInput, error) {
	if len(lines) == 0 {
		return []trade.LineInput{}, nil
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))

	var collection *catalog.Collection
	if collectionID != nil && *collectionID != uuid.Nil {
		c, err := p.collectionRepo.FindByIDForPartner(ctx, partnerID, *collectionID)
		if err != nil {
			return nil, err
		}
		collection = c
	}

	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	products, err := p.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	out := make([]trade.LineInput, 0, len(lines))
	for _, l := range lines {
		product, ok := byID[l.ProductID]
		if !ok {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Product "+l.ProductID.String()+" does not exist")
		}
		if !product.IsActive {
			return nil, shared.NewDomainError("PRODUCT_INACTIVE", "Product "+product.SKU+" is not available")
		}

		price := product.BasePrice
		switch {
		case allowCustom && l.UnitPrice != nil:
			price = *l.UnitPrice
		default:
			if product.Currency != currency {
				return nil, shared.NewDomainError("CURRENCY_MISMATCH",
					"Product "+product.SKU+" is priced in "+product.Currency)
			}
			if collection != nil {
				price = collection.PriceFor(product)
			}
		}

		out = append(out, trade.LineInput{
			ProductID:   product.ID,
			ProductName: product.Name,
			SKU:         product.SKU,
			Quantity:    l.Quantity,
			UnitPrice:   price,
		})
	}
	return out, nil
}
