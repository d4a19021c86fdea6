package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/expressimports/backend/internal/usecase"
	"github.com/expressimports/backend/pkg/logger"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
	maxImageSize   int64
}

func NewProductHandler(productUsecase usecase.ProductUC, maxImageSize int64, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, maxImageSize: maxImageSize, logger: logger}
}

// listProducts
//
//	@Summary		Каталог товаров
//	@Description	Возвращает товары, новые первыми. Фильтры комбинируются через AND.
//	@Tags			products
//	@Produce		json
//	@Param			search		query		string	false	"Подстрока в названии, описании или категории"
//	@Param			category	query		string	false	"Категория (todos - все)"
//	@Param			in_stock	query		bool	false	"Только товары в наличии"
//	@Success		200			{array}		ProductResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	inStock, _ := strconv.ParseBool(q.Get("in_stock"))

	products, err := p.productUsecase.ListProducts(r.Context(), usecase.ProductListFilter{
		Search:      q.Get("search"),
		Category:    q.Get("category"),
		InStockOnly: inStock,
	})
	if err != nil {
		p.logger.Errorf(err, "failed to list products")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponses(products))
}

// getProduct
//
//	@Summary	Товар по id
//	@Tags		products
//	@Produce	json
//	@Param		id	path		int	true	"ID товара"
//	@Success	200	{object}	ProductResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.GetProduct(r.Context(), id)
	if err != nil {
		p.logError(err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// createProduct
//
//	@Summary		Создание товара
//	@Description	Цены принимаются числом или строкой. original_price по умолчанию price*1.3.
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			product	body		ProductRequest	true	"Товар"
//	@Success		201		{object}	CreatedResponse
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		p.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	id, err := p.productUsecase.CreateProduct(r.Context(), req.toInput())
	if err != nil {
		p.logError(err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, CreatedResponse{ID: id, Message: msgProductCreated})
}

// updateProduct
//
//	@Summary		Полная замена товара
//	@Description	Применяются те же проверки и значения по умолчанию, что и при создании.
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int				true	"ID товара"
//	@Param			product	body		ProductRequest	true	"Товар"
//	@Success		200		{object}	MessageResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/products/{id} [put]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req ProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		p.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	if err := p.productUsecase.UpdateProduct(r.Context(), id, req.toInput()); err != nil {
		p.logError(err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, MessageResponse{Message: msgProductUpdated})
}

// deleteProduct
//
//	@Summary	Удаление товара
//	@Tags		products
//	@Produce	json
//	@Param		id	path		int	true	"ID товара"
//	@Success	200	{object}	MessageResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := p.productUsecase.DeleteProduct(r.Context(), id); err != nil {
		p.logError(err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, MessageResponse{Message: msgProductDeleted})
}

// uploadImage
//
//	@Summary		Загрузка изображения товара
//	@Description	Заменяет текущее изображение. Старый объект удаляется в фоне.
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id		path		int		true	"ID товара"
//	@Param			image	formData	file	true	"jpeg, png или webp"
//	@Success		201		{object}	ImageUploadedResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/products/{id}/image [post]
func (p *ProductHandler) uploadImage(w http.ResponseWriter, r *http.Request) {
	const (
		multipartOverhead = 1 << 20
		maxMemory         = 8 << 20
	)

	id, err := parseID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, p.maxImageSize+multipartOverhead)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, err.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	image, err := parseImage(r.MultipartForm.File["image"], p.maxImageSize)
	if err != nil {
		p.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	key, err := p.productUsecase.UploadImage(r.Context(), id, *image)
	if err != nil {
		p.logError(err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, ImageUploadedResponse{Key: key, Message: msgImageUploaded})
}

// getImage
//
//	@Summary	Изображение товара
//	@Tags		products
//	@Produce	image/jpeg,image/png,image/webp
//	@Param		id	path	int	true	"ID товара"
//	@Success	200
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id}/image [get]
func (p *ProductHandler) getImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	obj, err := p.productUsecase.GetImage(r.Context(), id)
	if err != nil {
		p.logError(err)
		WriteError(w, err)
		return
	}
	defer obj.Body.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, obj.Body); err != nil {
		p.logger.Warnf("image stream interrupted: product_id=%d error=%v", id, err)
	}
}

func (p *ProductHandler) logError(err error) {
	logResult(p.logger, err)
}
