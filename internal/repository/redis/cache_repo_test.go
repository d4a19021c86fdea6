package redis

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/expressimports/backend/internal/domain"
	"github.com/expressimports/backend/internal/repository/redis/converter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductKey(t *testing.T) {
	assert.Equal(t, "product:42", productKey(42))
}

func TestCachedProductSurvivesJSON(t *testing.T) {
	conv := converter.NewProductConverter()
	ship := "48H"
	p := &domain.Product{
		ID: 8, Name: "Robot Aspiradora Roomba i7+", Price: 59999, OriginalPrice: 79999,
		Category: "hogar", ImageEmoji: "🤖", StockQuantity: 5, InStock: true, IsOffer: true,
		ShippingInfo: &ship, CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := json.Marshal(conv.ToRedisModel(p))
	require.NoError(t, err)

	model, err := unmarshalProduct(data)
	require.NoError(t, err)
	got := conv.ToEntity(model)

	assert.Equal(t, p.Price, got.Price)
	assert.Equal(t, *p.ShippingInfo, *got.ShippingInfo)
	assert.Nil(t, got.ImageKey)
	assert.True(t, p.CreatedAt.Equal(got.CreatedAt))
}

func TestUnmarshalProduct_Garbage(t *testing.T) {
	_, err := unmarshalProduct([]byte("{not json"))
	assert.Error(t, err)
}
