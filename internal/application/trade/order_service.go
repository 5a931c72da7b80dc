package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/catalog"
	"github.com/luminform/atelier/internal/domain/partner"
	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/luminform/atelier/internal/domain/trade"
	"github.com/luminform/atelier/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// OrderService handles order placement and fulfilment for partners and admins
type OrderService struct {
	orderRepo   trade.OrderRepository
	partnerRepo partner.Repository
	pricer      linePricer
	tx          Transactor
	publisher   shared.EventPublisher
	metrics     *telemetry.BusinessMetrics
	logger      *zap.Logger
	now         func() time.Time
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo trade.OrderRepository,
	partnerRepo partner.Repository,
	productRepo catalog.ProductRepository,
	collectionRepo catalog.CollectionRepository,
	tx Transactor,
	publisher shared.EventPublisher,
	metrics *telemetry.BusinessMetrics,
	logger *zap.Logger,
) *OrderService {
	if tx == nil {
		tx = NoOpTransactor{}
	}
	return &OrderService{
		orderRepo:   orderRepo,
		partnerRepo: partnerRepo,
		pricer:      linePricer{productRepo: productRepo, collectionRepo: collectionRepo},
		tx:          tx,
		publisher:   publisher,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// Create places an order priced from the catalog. Only active partners can order.
func (s *OrderService) Create(ctx context.Context, partnerID, userID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	p, err := s.partnerRepo.FindByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive() {
		return nil, shared.NewDomainError("PARTNER_INACTIVE", "Only active partners can place orders")
	}

	lines, err := s.pricer.resolve(ctx, partnerID, req.Currency, req.CollectionID, req.Lines, false)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	var order *trade.Order
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		seq, err := s.orderRepo.LastSequenceInMonth(ctx, partnerID, now)
		if err != nil {
			return err
		}
		o, err := trade.NewOrder(partnerID, trade.FormatNumber(trade.OrderNumberPrefix, now, seq+1), trade.OrderDraft{
			ClientName:      req.ClientName,
			ClientEmail:     req.ClientEmail,
			EventDate:       req.EventDate,
			Currency:        req.Currency,
			ShippingAddress: req.ShippingAddress,
			Notes:           req.Notes,
			Lines:           lines,
			Discount:        decimalOrZero(req.Discount),
			TaxRate:         decimalOrZero(req.TaxRate),
		})
		if err != nil {
			return err
		}
		if userID != uuid.Nil {
			o.SetCreatedBy(userID)
		}
		if err := s.orderRepo.Save(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishEvents(ctx, s.publisher, s.logger, order)
	s.metrics.OrderPlaced(ctx, partnerID, order.Currency, order.Total, false)
	s.logger.Info("Order placed",
		zap.String("partner_id", partnerID.String()),
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber))

	response := ToOrderResponse(order)
	return &response, nil
}

// GetByID returns one of the partner's orders
func (s *OrderService) GetByID(ctx context.Context, partnerID, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForPartner(ctx, partnerID, id)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List returns a page of the partner's orders
func (s *OrderService) List(ctx context.Context, partnerID uuid.UUID, filter shared.Filter) ([]OrderListResponse, int64, error) {
	orders, total, err := s.orderRepo.FindAllForPartner(ctx, partnerID, filter.Normalize())
	if err != nil {
		return nil, 0, err
	}
	return toOrderList(orders), total, nil
}

// Cancel cancels one of the partner's orders before it ships
func (s *OrderService) Cancel(ctx context.Context, partnerID, id uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForPartner(ctx, partnerID, id)
	if err != nil {
		return nil, err
	}
	if err := order.Cancel(req.Reason, s.now()); err != nil {
		return nil, err
	}
	return s.save(ctx, order)
}

// AdminList lists orders across all partners. Supports filters "status",
// "partner_id" and the filter's date range.
func (s *OrderService) AdminList(ctx context.Context, filter shared.Filter) ([]OrderListResponse, int64, error) {
	orders, total, err := s.orderRepo.FindAll(ctx, filter.Normalize())
	if err != nil {
		return nil, 0, err
	}
	return toOrderList(orders), total, nil
}

// AdminGet returns any order
func (s *OrderService) AdminGet(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// AdminCreate places an order on behalf of a partner
func (s *OrderService) AdminCreate(ctx context.Context, req AdminCreateOrderRequest) (*OrderResponse, error) {
	return s.Create(ctx, req.PartnerID, uuid.Nil, req.CreateOrderRequest)
}

// AdminUpdate applies an admin PATCH. It returns the updated order and the
// status it had before.
func (s *OrderService) AdminUpdate(ctx context.Context, id uuid.UUID, req UpdateOrderRequest) (*OrderResponse, trade.OrderStatus, error) {
	if req.Status == nil && req.ShippingAddress == nil {
		return nil, "", shared.InvalidInput("Nothing to update")
	}
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	from := order.Status

	if req.ShippingAddress != nil {
		if err := order.UpdateShipping(*req.ShippingAddress); err != nil {
			return nil, from, err
		}
	}
	if req.Status != nil {
		target := trade.OrderStatus(*req.Status)
		if target == trade.OrderStatusCancelled {
			err = order.Cancel(req.Reason, s.now())
		} else {
			err = order.TransitionTo(target, s.now())
		}
		if err != nil {
			return nil, from, err
		}
	}
	response, err := s.save(ctx, order)
	return response, from, err
}

func (s *OrderService) save(ctx context.Context, order *trade.Order) (*OrderResponse, error) {
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	events := order.GetDomainEvents()
	publishEvents(ctx, s.publisher, s.logger, order)
	if len(events) > 0 {
		s.metrics.OrderTransitioned(ctx, string(order.Status))
	}

	response := ToOrderResponse(order)
	return &response, nil
}

func toOrderList(orders []trade.Order) []OrderListResponse {
	out := make([]OrderListResponse, 0, len(orders))
	for i := range orders {
		out = append(out, ToOrderListResponse(&orders[i]))
	}
	return out
}
