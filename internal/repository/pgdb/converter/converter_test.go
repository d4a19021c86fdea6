package converter

import (
	"testing"
	"time"

	"github.com/expressimports/backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestProductConverter_ToEntity(t *testing.T) {
	ship := "24H"
	now := time.Now()
	m := &ProductModel{
		ID: 2, Name: "AirPods Pro 3", Price: 18999, OriginalPrice: 24999,
		Category: "electronica", ImageEmoji: "🎧", StockQuantity: 15, InStock: true,
		IsOffer: true, ShippingInfo: &ship, CreatedAt: now, UpdatedAt: now,
	}

	p := NewProductConverter().ToEntity(m)
	assert.Equal(t, int64(2), p.ID)
	assert.Equal(t, int64(18999), p.Price)
	assert.Equal(t, &ship, p.ShippingInfo)
	assert.True(t, p.IsOffer)
	assert.Nil(t, p.ImageKey)

	back := NewProductConverter().ToModel(p)
	assert.Equal(t, m, back)
}

func TestOrderConverter_Summaries(t *testing.T) {
	c := NewOrderConverter()

	q := c.QuoteToSummary(&QuoteModel{ID: 1, Status: "reviewed", Items: "A (x2), B (x1)"})
	assert.Equal(t, domain.QuoteStatusReviewed, q.Status)
	assert.Equal(t, "A (x2), B (x1)", q.ItemsSummary)

	o := c.StockOrderToSummary(&StockOrderModel{ID: 3, Total: 3000, Status: "shipped"})
	assert.Equal(t, domain.OrderStatusShipped, o.Status)
	assert.Equal(t, int64(3000), o.Total)
}
