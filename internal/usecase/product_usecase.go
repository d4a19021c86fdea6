package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/expressimports/backend/internal/domain"
	"github.com/expressimports/backend/pkg/e"
	"github.com/expressimports/backend/pkg/logger"
	"github.com/expressimports/backend/pkg/money"
)

// categoryAll - значения category, которые означают "все категории".
var categoryAll = []string{"todos", "all"}

// ProductUseCase реализует управление каталогом.
type ProductUseCase struct {
	productRepo ProductRepository
	cacheRepo   CacheRepository
	imagesInfra ImagesInfra
	logger      logger.Logger
}

func NewProductUC(
	productRepo ProductRepository,
	cacheRepo CacheRepository,
	imagesInfra ImagesInfra,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		cacheRepo:   cacheRepo,
		imagesInfra: imagesInfra,
		logger:      logger,
	}
}

// ListProducts возвращает товары по фильтру, новые первыми.
func (p *ProductUseCase) ListProducts(ctx context.Context, filter ProductListFilter) ([]domain.Product, error) {
	const op = "ProductUseCase.ListProducts"

	filter.Search = strings.TrimSpace(filter.Search)
	filter.Category = strings.TrimSpace(filter.Category)
	for _, all := range categoryAll {
		if strings.EqualFold(filter.Category, all) {
			filter.Category = ""
		}
	}

	products, err := p.productRepo.List(ctx, filter)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return products, nil
}

// GetProduct ищет товар сначала в кэше, затем в БД.
func (p *ProductUseCase) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	const op = "ProductUseCase.GetProduct"

	if id <= 0 {
		return nil, e.Wrap(op, e.ErrInvalidID)
	}

	cached, err := p.cacheRepo.GetProduct(ctx, id)
	if err != nil {
		p.logger.Warnf("Cache lookup failed, falling back to DB: %v", e.Wrap(op, err))
	}
	if cached != nil {
		return cached, nil
	}

	product, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Фоновое добавление продукта в кэш
	go func(pr domain.Product) {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := p.cacheRepo.SetProducts(bgCtx, []domain.Product{pr}); err != nil {
			p.logger.Warnf("Failed to cache product in background: %v", e.Wrap(op, err))
		}
	}(*product)

	return product, nil
}

// CreateProduct валидирует данные, применяет значения по умолчанию и сохраняет товар.
func (p *ProductUseCase) CreateProduct(ctx context.Context, req *ProductInput) (int64, error) {
	const op = "ProductUseCase.CreateProduct"

	product, err := buildProduct(req)
	if err != nil {
		return 0, e.Wrap(op, err)
	}

	id, err := p.productRepo.Create(ctx, product)
	if err != nil {
		return 0, e.Wrap(op, err)
	}

	p.logger.Infof("product created: id=%d name=%q", id, product.Name)
	return id, nil
}

// UpdateProduct полностью заменяет поля товара. Изображение не меняется.
func (p *ProductUseCase) UpdateProduct(ctx context.Context, id int64, req *ProductInput) error {
	const op = "ProductUseCase.UpdateProduct"

	if id <= 0 {
		return e.Wrap(op, e.ErrInvalidID)
	}

	product, err := buildProduct(req)
	if err != nil {
		return e.Wrap(op, err)
	}
	product.ID = id

	if err := p.productRepo.Update(ctx, product); err != nil {
		return e.Wrap(op, err)
	}

	p.invalidate(ctx, op, id)
	return nil
}

// DeleteProduct удаляет товар. Позиции старых заказов сохраняют снимок названия.
func (p *ProductUseCase) DeleteProduct(ctx context.Context, id int64) error {
	const op = "ProductUseCase.DeleteProduct"

	if id <= 0 {
		return e.Wrap(op, e.ErrInvalidID)
	}

	imageKey, err := p.productRepo.Delete(ctx, id)
	if err != nil {
		return e.Wrap(op, err)
	}

	p.invalidate(ctx, op, id)
	if imageKey != nil {
		p.imagesInfra.CleanupImages([]string{*imageKey})
	}

	return nil
}

// UploadImage сохраняет изображение товара в MinIO и заменяет ссылку на него.
// Старый объект и объект, не попавший в БД, удаляются в фоне.
func (p *ProductUseCase) UploadImage(ctx context.Context, id int64, image ProductImage) (string, error) {
	const op = "ProductUseCase.UploadImage"

	if id <= 0 {
		return "", e.Wrap(op, e.ErrInvalidID)
	}
	if len(image.Data) == 0 {
		return "", e.Wrap(op, e.ErrNoImages)
	}

	// Проверка существования до загрузки, чтобы не плодить сирот в бакете
	if _, err := p.productRepo.GetByID(ctx, id); err != nil {
		return "", e.Wrap(op, err)
	}

	key, err := p.imagesInfra.UploadProductImage(ctx, id, image)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	prev, err := p.productRepo.SetImageKey(ctx, id, key)
	if err != nil {
		p.logger.Warnf("Cleaning up orphaned image after DB failure. product_id: %d, error: %v", id, e.Wrap(op, err))
		p.imagesInfra.CleanupImages([]string{key})
		return "", e.Wrap(op, err)
	}

	if prev != nil && *prev != key {
		p.imagesInfra.CleanupImages([]string{*prev})
	}
	p.invalidate(ctx, op, id)

	return key, nil
}

// GetImage возвращает поток изображения товара. Body закрывает вызывающий.
func (p *ProductUseCase) GetImage(ctx context.Context, id int64) (*domain.ImageObject, error) {
	const op = "ProductUseCase.GetImage"

	product, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if product.ImageKey == nil {
		return nil, e.Wrap(op, e.ErrImageNotFound)
	}

	obj, err := p.imagesInfra.GetImage(ctx, *product.ImageKey)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return obj, nil
}

// invalidate удаляет товар из кэша. Ошибка кэша не ломает запрос.
func (p *ProductUseCase) invalidate(ctx context.Context, op string, ids ...int64) {
	if err := p.cacheRepo.DeleteProducts(ctx, ids); err != nil {
		p.logger.Warnf("Failed to delete products from cache: %v", e.Wrap(op, err))
	}
}

// buildProduct проверяет входные данные и собирает товар с подставленными значениями по умолчанию.
func buildProduct(req *ProductInput) (*domain.Product, error) {
	if req == nil {
		return nil, e.ErrMissingFields
	}

	name := strings.TrimSpace(req.Name)
	category := strings.TrimSpace(req.Category)
	if name == "" || category == "" || strings.TrimSpace(req.Price) == "" {
		return nil, e.ErrMissingFields
	}

	price, err := money.ParseCents(req.Price)
	if err != nil {
		return nil, e.Wrap("price", err)
	}

	var originalPrice int64
	if strings.TrimSpace(req.OriginalPrice) == "" {
		originalPrice = money.MarkUp(price, domain.OriginalPriceMarkUp)
	} else {
		originalPrice, err = money.ParseCents(req.OriginalPrice)
		if err != nil {
			return nil, e.Wrap("original_price", err)
		}
	}

	if req.StockQuantity < 0 || req.StockQuantity > maxQuantity {
		return nil, e.ErrInvalidStockQuantity
	}

	emoji := strings.TrimSpace(req.ImageEmoji)
	if emoji == "" {
		emoji = domain.DefaultImageEmoji
	}

	var shipping *string
	if req.ShippingInfo != nil && strings.TrimSpace(*req.ShippingInfo) != "" {
		s := strings.TrimSpace(*req.ShippingInfo)
		shipping = &s
	}

	product := &domain.Product{
		Name:          name,
		Description:   strings.TrimSpace(req.Description),
		Price:         price,
		OriginalPrice: originalPrice,
		Category:      category,
		ImageEmoji:    emoji,
		StockQuantity: req.StockQuantity,
		IsOffer:       req.IsOffer,
		IsNew:         req.IsNew,
		IsPremium:     req.IsPremium,
		ShippingInfo:  shipping,
	}
	product.RecalcAvailability()

	return product, nil
}
