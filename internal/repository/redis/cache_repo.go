package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/expressimports/backend/internal/cfg"
	"github.com/expressimports/backend/internal/domain"
	"github.com/expressimports/backend/internal/repository/redis/converter"
	"github.com/expressimports/backend/pkg/clients"
	"github.com/expressimports/backend/pkg/e"
	"github.com/expressimports/backend/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.ProductConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.ProductConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetProduct возвращает товар из кэша. Промах - (nil, nil).
// Повреждённая или чужая запись удаляется и считается промахом.
func (c *CacheRepo) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	key := productKey(id)

	val, err := c.client.Client.Get(ctx, key).Bytes()
	if errors.Is(err, r.Nil) {
		return nil, nil // cache miss
	}
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := unmarshalProduct(val)
	if err != nil || model.ID != id {
		c.logger.Warnf("Dropping invalid cache entry %s: %v", key, err)
		if err := c.client.Client.Del(ctx, key).Err(); err != nil {
			c.logger.Warnf("Redis DEL failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		return nil, nil
	}

	return c.conv.ToEntity(model), nil
}

// SetProducts кэширует товары одним pipeline с TTL из конфигурации.
// Ошибки сериализации и записи логируются.
func (c *CacheRepo) SetProducts(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	pipeline := c.client.Client.Pipeline()
	for i := range products {
		data, err := json.Marshal(c.conv.ToRedisModel(&products[i]))
		if err != nil {
			c.logger.Warnf("Failed to marshal product for caching (Product ID: %d): %v", products[i].ID, e.Wrap(whereami.WhereAmI(), err))
			continue
		}

		pipeline.Set(ctx, productKey(products[i].ID), data, c.cfg.ProductTTL)
	}

	if _, err := pipeline.Exec(ctx); err != nil {
		c.logger.Warnf("Cache pipeline failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}

	return nil
}

// DeleteProducts удаляет товары из кэша по ID.
func (c *CacheRepo) DeleteProducts(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}

	if err := c.client.Client.Del(ctx, keys...).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func unmarshalProduct(data []byte) (*converter.ProductRedisModel, error) {
	var model converter.ProductRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, err
	}

	return &model, nil
}

// productKey возвращает Redis-ключ для одного продукта
func productKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}
