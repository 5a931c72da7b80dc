package handler

import (
	"testing"

	"github.com/google/uuid"
	tradeapp "github.com/luminform/atelier/internal/application/trade"
	"github.com/luminform/atelier/internal/domain/admin"
	"github.com/luminform/atelier/internal/domain/trade"
	"github.com/stretchr/testify/assert"
)

func TestOrderUpdateAudit(t *testing.T) {
	id := uuid.New()
	address := "1 Rue X, Paris"
	confirmed := "confirmed"

	tests := []struct {
		name   string
		to     string
		req    tradeapp.UpdateOrderRequest
		action string
		meta   admin.Metadata
	}{
		{
			name:   "shipping only",
			to:     "pending",
			req:    tradeapp.UpdateOrderRequest{ShippingAddress: &address},
			action: admin.ActionOrderUpdate,
			meta:   admin.Metadata{"shipping_changed": true},
		},
		{
			name:   "status change",
			to:     "confirmed",
			req:    tradeapp.UpdateOrderRequest{Status: &confirmed},
			action: admin.ActionOrderStatus,
			meta:   admin.Metadata{"shipping_changed": false, "from": "pending", "to": "confirmed"},
		},
		{
			name:   "status and shipping",
			to:     "confirmed",
			req:    tradeapp.UpdateOrderRequest{Status: &confirmed, ShippingAddress: &address},
			action: admin.ActionOrderStatus,
			meta:   admin.Metadata{"shipping_changed": true, "from": "pending", "to": "confirmed"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := orderUpdateAudit(id, trade.OrderStatusPending, tt.to, tt.req)
			assert.Equal(t, tt.action, entry.Action)
			assert.Equal(t, admin.TargetTypeOrder, entry.TargetType)
			assert.Equal(t, &id, entry.TargetID)
			assert.Equal(t, tt.meta, entry.Metadata)
		})
	}
}
