package domain

import "time"

// QuoteStatus - этап обработки запроса на расчёт стоимости.
type QuoteStatus string

const (
	QuoteStatusPending  QuoteStatus = "pending"
	QuoteStatusReviewed QuoteStatus = "reviewed"
	QuoteStatusQuoted   QuoteStatus = "quoted"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusRejected QuoteStatus = "rejected"
)

// Valid сообщает, входит ли статус в допустимый набор.
func (s QuoteStatus) Valid() bool {
	switch s {
	case QuoteStatusPending, QuoteStatusReviewed, QuoteStatusQuoted, QuoteStatusAccepted, QuoteStatusRejected:
		return true
	}

	return false
}

// Quote - запрос клиента на расчёт стоимости импортных товаров.
type Quote struct {
	ID            int64
	CustomerName  string
	CustomerEmail string
	Message       string
	Status        QuoteStatus
	Items         []QuoteItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// QuoteItem - позиция запроса. ProductID равен nil, если товар удалён из каталога.
type QuoteItem struct {
	ID          int64
	QuoteID     int64
	ProductID   *int64
	ProductName string
	Quantity    int
}

func NewQuote(customerName, customerEmail, message string, items []QuoteItem) *Quote {
	return &Quote{
		CustomerName:  customerName,
		CustomerEmail: customerEmail,
		Message:       message,
		Status:        QuoteStatusPending,
		Items:         items,
	}
}
