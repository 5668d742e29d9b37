package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lapak/internal/models"
)

func TestCanTransitionOrderStatus(t *testing.T) {
	cases := []struct {
		from, to string
		allowed  bool
	}{
		{models.OrderStatusPlaced, models.OrderStatusPaid, true},
		{models.OrderStatusPaid, models.OrderStatusShipped, true},
		{models.OrderStatusShipped, models.OrderStatusDelivered, true},
		{models.OrderStatusPlaced, models.OrderStatusCancelled, true},
		{models.OrderStatusPaid, models.OrderStatusCancelled, true},
		{models.OrderStatusShipped, models.OrderStatusCancelled, true},
		// No skipping forward.
		{models.OrderStatusPlaced, models.OrderStatusShipped, false},
		{models.OrderStatusPaid, models.OrderStatusDelivered, false},
		// No moving backwards.
		{models.OrderStatusPaid, models.OrderStatusPlaced, false},
		// Terminal states stay terminal.
		{models.OrderStatusDelivered, models.OrderStatusCancelled, false},
		{models.OrderStatusCancelled, models.OrderStatusPlaced, false},
		{models.OrderStatusCancelled, models.OrderStatusPaid, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.allowed, models.CanTransitionOrderStatus(c.from, c.to),
			"%s -> %s", c.from, c.to)
	}
}

func TestValidOrderStatus(t *testing.T) {
	assert.True(t, models.ValidOrderStatus(models.OrderStatusPlaced))
	assert.True(t, models.ValidOrderStatus(models.OrderStatusCancelled))
	assert.False(t, models.ValidOrderStatus("Refunded"))
	assert.False(t, models.ValidOrderStatus(""))
}
