package converter

import "github.com/expressimports/backend/internal/domain"

// ProductConverter преобразует товар между domain и моделью кэша.
type ProductConverter interface {
	ToRedisModel(entity *domain.Product) *ProductRedisModel
	ToEntity(model *ProductRedisModel) *domain.Product
}

type productConverter struct{}

func NewProductConverter() ProductConverter {
	return productConverter{}
}

func (productConverter) ToRedisModel(entity *domain.Product) *ProductRedisModel {
	return &ProductRedisModel{
		ID:            entity.ID,
		Name:          entity.Name,
		Description:   entity.Description,
		Price:         entity.Price,
		OriginalPrice: entity.OriginalPrice,
		Category:      entity.Category,
		ImageEmoji:    entity.ImageEmoji,
		StockQuantity: entity.StockQuantity,
		InStock:       entity.InStock,
		IsOffer:       entity.IsOffer,
		IsNew:         entity.IsNew,
		IsPremium:     entity.IsPremium,
		ShippingInfo:  entity.ShippingInfo,
		ImageKey:      entity.ImageKey,
		CreatedAt:     entity.CreatedAt,
		UpdatedAt:     entity.UpdatedAt,
	}
}

func (productConverter) ToEntity(model *ProductRedisModel) *domain.Product {
	return &domain.Product{
		ID:            model.ID,
		Name:          model.Name,
		Description:   model.Description,
		Price:         model.Price,
		OriginalPrice: model.OriginalPrice,
		Category:      model.Category,
		ImageEmoji:    model.ImageEmoji,
		StockQuantity: model.StockQuantity,
		InStock:       model.InStock,
		IsOffer:       model.IsOffer,
		IsNew:         model.IsNew,
		IsPremium:     model.IsPremium,
		ShippingInfo:  model.ShippingInfo,
		ImageKey:      model.ImageKey,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}
