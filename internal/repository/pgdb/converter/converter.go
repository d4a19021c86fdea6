package converter

import (
	"github.com/expressimports/backend/internal/domain"
	"github.com/expressimports/backend/internal/usecase"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
	ToArrEntity(models []ProductModel) []domain.Product
}

// OrderConverter собирает сводки запросов и заказов из строк списка.
type OrderConverter interface {
	QuoteToSummary(model *QuoteModel) usecase.QuoteSummary
	StockOrderToSummary(model *StockOrderModel) usecase.StockOrderSummary
}

type productConverter struct{}

func NewProductConverter() ProductConverter {
	return productConverter{}
}

func (productConverter) ToModel(entity *domain.Product) *ProductModel {
	if entity == nil {
		return nil
	}

	return &ProductModel{
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

func (productConverter) ToEntity(model *ProductModel) *domain.Product {
	if model == nil {
		return nil
	}

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

func (c productConverter) ToArrEntity(models []ProductModel) []domain.Product {
	out := make([]domain.Product, 0, len(models))
	for i := range models {
		out = append(out, *c.ToEntity(&models[i]))
	}

	return out
}

type orderConverter struct{}

func NewOrderConverter() OrderConverter {
	return orderConverter{}
}

func (orderConverter) QuoteToSummary(model *QuoteModel) usecase.QuoteSummary {
	return usecase.QuoteSummary{
		Quote: domain.Quote{
			ID:            model.ID,
			CustomerName:  model.CustomerName,
			CustomerEmail: model.CustomerEmail,
			Message:       model.Message,
			Status:        domain.QuoteStatus(model.Status),
			CreatedAt:     model.CreatedAt,
			UpdatedAt:     model.UpdatedAt,
		},
		ItemsSummary: model.Items,
	}
}

func (orderConverter) StockOrderToSummary(model *StockOrderModel) usecase.StockOrderSummary {
	return usecase.StockOrderSummary{
		StockOrder: domain.StockOrder{
			ID:              model.ID,
			CustomerName:    model.CustomerName,
			CustomerEmail:   model.CustomerEmail,
			ShippingAddress: model.ShippingAddress,
			Total:           model.Total,
			Status:          domain.OrderStatus(model.Status),
			TrackingNumber:  model.TrackingNumber,
			CreatedAt:       model.CreatedAt,
			UpdatedAt:       model.UpdatedAt,
		},
		ItemsSummary: model.Items,
	}
}
