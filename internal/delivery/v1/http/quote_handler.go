package http

import (
	"net/http"

	"github.com/expressimports/backend/internal/usecase"
	"github.com/expressimports/backend/pkg/logger"
)

type QuoteHandler struct {
	quoteUsecase usecase.QuoteUC
	logger       logger.Logger
}

func NewQuoteHandler(quoteUsecase usecase.QuoteUC, logger logger.Logger) *QuoteHandler {
	return &QuoteHandler{quoteUsecase: quoteUsecase, logger: logger}
}

// listQuotes
//
//	@Summary	Запросы на расчёт стоимости
//	@Tags		quotes
//	@Produce	json
//	@Success	200	{array}		QuoteResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/quotes [get]
func (h *QuoteHandler) listQuotes(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.quoteUsecase.ListQuotes(r.Context())
	if err != nil {
		h.logger.Errorf(err, "failed to list quotes")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toQuoteResponses(quotes))
}

// createQuote
//
//	@Summary		Новый запрос на расчёт стоимости
//	@Description	Наличие на складе не проверяется. Администратор получает письмо.
//	@Tags			quotes
//	@Accept			json
//	@Produce		json
//	@Param			quote	body		CreateQuoteRequest	true	"Запрос"
//	@Success		201		{object}	CreatedResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse	"Товар не найден"
//	@Router			/quotes [post]
func (h *QuoteHandler) createQuote(w http.ResponseWriter, r *http.Request) {
	var req CreateQuoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	id, err := h.quoteUsecase.CreateQuote(r.Context(), req.toReq())
	if err != nil {
		logResult(h.logger, err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, CreatedResponse{ID: id, Message: msgQuoteCreated})
}

// updateQuoteStatus
//
//	@Summary	Смена статуса запроса
//	@Tags		quotes
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int					true	"ID запроса"
//	@Param		status	body		UpdateStatusRequest	true	"pending, reviewed, quoted, accepted или rejected"
//	@Success	200		{object}	MessageResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/quotes/{id}/status [put]
func (h *QuoteHandler) updateQuoteStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req UpdateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if err := h.quoteUsecase.UpdateQuoteStatus(r.Context(), id, req.Status); err != nil {
		logResult(h.logger, err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, MessageResponse{Message: msgStatusUpdated})
}
