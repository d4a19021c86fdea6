package http

import (
	"net/http"
	"time"

	"github.com/expressimports/backend/pkg/logger"
)

// healthCheck
//
//	@Summary	Проверка доступности API
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Router		/test [get]
func healthCheck(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, http.StatusOK, HealthResponse{
		Message:   "Express Imports API funcionando correctamente",
		Server:    "Express Imports Backend",
		Timestamp: time.Now().UTC(),
		Status:    "online",
	})
}

// logResult пишет 4xx как предупреждение, 5xx как ошибку.
func logResult(l logger.Logger, err error) {
	code, _ := ToHTTPResponse(err)
	if code >= http.StatusInternalServerError {
		l.Errorf(err, "request failed")
		return
	}
	l.Warnf("%d %s", code, err.Error())
}
