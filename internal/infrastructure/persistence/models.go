package persistence

import (
	"github.com/luminform/atelier/internal/domain/admin"
	"github.com/luminform/atelier/internal/domain/brandkit"
	"github.com/luminform/atelier/internal/domain/catalog"
	"github.com/luminform/atelier/internal/domain/microsite"
	"github.com/luminform/atelier/internal/domain/partner"
	"github.com/luminform/atelier/internal/domain/trade"
)

// Models lists every persisted model in dependency order. SQL migrations
// own the production schema; AutoMigrate with this list is used for
// in-memory databases.
func Models() []any {
	return []any{
		&partner.Partner{},
		&partner.User{},
		&catalog.Product{},
		&catalog.Collection{},
		&catalog.CollectionItem{},
		&trade.Quote{},
		&trade.QuoteItem{},
		&trade.Order{},
		&trade.OrderItem{},
		&microsite.Microsite{},
		&brandkit.BrandKit{},
		&admin.User{},
		&admin.AuditLog{},
	}
}
