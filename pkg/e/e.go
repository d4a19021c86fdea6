package e

import (
	"fmt"
)

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound  = fmt.Errorf("transaction not found")
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// 400 Bad Request
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrBadJSON              = fmt.Errorf("malformed JSON body")
	ErrMissingFields        = fmt.Errorf("missing required fields")
	ErrEmptyItems           = fmt.Errorf("items must not be empty")
	ErrInvalidQuantity      = fmt.Errorf("quantity must be positive")
	ErrInvalidID            = fmt.Errorf("invalid id")
	ErrInvalidPrice         = fmt.Errorf("invalid price")
	ErrPricePrecision       = fmt.Errorf("price must have at most 2 decimal places")
	ErrInvalidStockQuantity = fmt.Errorf("stock quantity must not be negative")
	ErrInvalidStatus        = fmt.Errorf("invalid status")
	ErrExpectedMultipart    = fmt.Errorf("expected multipart/form-data")
	ErrNoImages             = fmt.Errorf("no image provided")
	ErrFileTooLarge         = fmt.Errorf("file too large")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")

	// 404 Not Found
	ErrProductNotFound    = fmt.Errorf("product not found")
	ErrQuoteNotFound      = fmt.Errorf("quote not found")
	ErrStockOrderNotFound = fmt.Errorf("stock order not found")
	ErrImageNotFound      = fmt.Errorf("product has no image")

	// 409 Conflict
	ErrProductNotAvailable = fmt.Errorf("product not available in stock")
	ErrInsufficientStock   = fmt.Errorf("insufficient stock")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// StockError описывает нарушение бизнес-правила при оформлении заказа
// и указывает, какой товар его вызвал.
type StockError struct {
	ProductID   int64
	ProductName string
	Err         error
}

func NewStockError(productID int64, productName string, err error) *StockError {
	return &StockError{ProductID: productID, ProductName: productName, Err: err}
}

func (s *StockError) Error() string {
	if s.ProductName == "" {
		return fmt.Sprintf("product %d: %v", s.ProductID, s.Err)
	}

	return fmt.Sprintf("%v for %s (product %d)", s.Err, s.ProductName, s.ProductID)
}

func (s *StockError) Unwrap() error {
	return s.Err
}

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
