package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"product-catalog/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	productCachePrefix = "catalog:product:"

	// generationTTL outlives any lookup that could still be racing an eviction
	generationTTL = 24 * time.Hour
)

var errStaleFill = errors.New("product changed while it was being read")

// cachedProductRepository serves FindByID from Redis and drops the entry on every write to that product.
// Each product has a generation counter that evictions bump; a lookup only fills the cache when the
// generation it saw before reading the store is still current, so a write that lands mid-lookup
// is never shadowed by the older row. Redis failures are logged and the call falls through to the
// wrapped store.
type cachedProductRepository struct {
	ProductRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedProductRepository wraps inner with a read-through Redis cache for single-product lookups
func NewCachedProductRepository(inner ProductRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) ProductRepository {
	return &cachedProductRepository{
		ProductRepository: inner,
		client:            client,
		ttl:               ttl,
		logger:            logger,
	}
}

func productCacheKey(id uuid.UUID) string {
	return productCachePrefix + id.String()
}

func productGenerationKey(id uuid.UUID) string {
	return productCachePrefix + id.String() + ":gen"
}

func (r *cachedProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	key := productCacheKey(id)

	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		product := &domain.Product{}
		if err := json.Unmarshal(raw, product); err == nil {
			return product, nil
		}
		r.logger.Warn("Discarding unreadable cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("Product cache read failed", zap.String("key", key), zap.Error(err))
	}

	// read before the store so a concurrent eviction is visible to fill
	gen, genErr := r.generation(ctx, id)

	product, err := r.ProductRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if genErr != nil {
		r.logger.Warn("Product cache generation read failed", zap.String("key", key), zap.Error(genErr))
		return product, nil
	}

	r.fill(ctx, id, gen, product)
	return product, nil
}

func (r *cachedProductRepository) Update(ctx context.Context, product *domain.Product) error {
	err := r.ProductRepository.Update(ctx, product)
	r.evict(ctx, product.ID)
	return err
}

func (r *cachedProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.ProductRepository.Delete(ctx, id)
	r.evict(ctx, id)
	return err
}

func (r *cachedProductRepository) generation(ctx context.Context, id uuid.UUID) (int64, error) {
	gen, err := r.client.Get(ctx, productGenerationKey(id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// fill stores product only if no eviction happened since gen was read
func (r *cachedProductRepository) fill(ctx context.Context, id uuid.UUID, gen int64, product *domain.Product) {
	key := productCacheKey(id)
	genKey := productGenerationKey(id)

	raw, err := json.Marshal(product)
	if err != nil {
		return
	}

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if errors.Is(err, redis.Nil) {
			current = 0
		} else if err != nil {
			return err
		}
		if current != gen {
			return errStaleFill
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, r.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
		r.logger.Debug("Skipping cache fill for a product written during lookup", zap.String("key", key))
	default:
		r.logger.Warn("Product cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (r *cachedProductRepository) evict(ctx context.Context, id uuid.UUID) {
	genKey := productGenerationKey(id)

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, generationTTL)
		pipe.Del(ctx, productCacheKey(id))
		return nil
	})
	if err != nil {
		r.logger.Warn("Product cache eviction failed", zap.String("product_id", id.String()), zap.Error(err))
	}
}
