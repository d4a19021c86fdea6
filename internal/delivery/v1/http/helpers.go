package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/expressimports/backend/internal/usecase"
	"github.com/expressimports/backend/pkg/e"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{Error: message}
}

var badRequestErrs = []error{
	e.ErrStatusBadRequest,
	e.ErrBadJSON,
	e.ErrExpectedMultipart,
	e.ErrMissingFields,
	e.ErrEmptyItems,
	e.ErrInvalidQuantity,
	e.ErrInvalidID,
	e.ErrInvalidPrice,
	e.ErrPricePrecision,
	e.ErrInvalidStockQuantity,
	e.ErrInvalidStatus,
	e.ErrNoImages,
	e.ErrFileTooLarge,
	e.ErrUnsupportedMediaType,
}

var notFoundErrs = []error{
	e.ErrProductNotFound,
	e.ErrQuoteNotFound,
	e.ErrStockOrderNotFound,
	e.ErrImageNotFound,
}

// ToHTTPResponse переводит ошибку в код ответа и текст для клиента.
// Текст внутренних ошибок наружу не попадает.
func ToHTTPResponse(err error) (int, string) {
	var stockErr *e.StockError
	if errors.As(err, &stockErr) {
		if errors.Is(stockErr.Err, e.ErrProductNotFound) {
			return http.StatusNotFound, stockErr.Error()
		}
		return http.StatusConflict, stockErr.Error()
	}

	for _, target := range badRequestErrs {
		if errors.Is(err, target) {
			return http.StatusBadRequest, target.Error()
		}
	}

	for _, target := range notFoundErrs {
		if errors.Is(err, target) {
			return http.StatusNotFound, target.Error()
		}
	}

	switch {
	case errors.Is(err, e.ErrProductNotAvailable), errors.Is(err, e.ErrInsufficientStock):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	WriteSuccess(w, code, NewErrorResponse(msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Amount принимает сумму числом (189.99) или строкой ("189.99").
// Проверка формата выполняется в usecase.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("amount must be a number or a string: %w", err)
		}
		*a = Amount(n.String())
	}

	return nil
}

// decodeJSON читает тело запроса ограниченного размера.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	const maxBodySize = 1 << 20

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return e.Wrap(err.Error(), e.ErrBadJSON)
	}

	return nil
}

func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, e.Wrap(fmt.Sprintf("id %q", raw), e.ErrInvalidID)
	}

	return id, nil
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return e.Wrap(whereami.WhereAmI(), e.ErrFileTooLarge)
		}
		return e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}

	return nil
}

func parseImage(files []*multipart.FileHeader, maxSize int64) (*usecase.ProductImage, error) {
	if len(files) == 0 {
		return nil, e.ErrNoImages
	}

	fh := files[0]
	data, mimeType, err := readFile(fh, maxSize)
	if err != nil {
		return nil, err
	}

	return usecase.NewProductImage(data, mimeType, int64(len(data)), fh.Filename), nil
}

func readFile(fh *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	if fh.Size > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, "", e.Wrap(whereami.WhereAmI(), err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxSize+1))
	if err != nil {
		return nil, "", e.Wrap(whereami.WhereAmI(), err)
	}
	if int64(len(data)) > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}
	if len(data) == 0 {
		return nil, "", e.Wrap(fh.Filename, e.ErrNoImages)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	return data, mimeType, nil
}
