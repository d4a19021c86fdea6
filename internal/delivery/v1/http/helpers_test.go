package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/expressimports/backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTTPResponse(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"validation", e.Wrap("op", e.ErrEmptyItems), http.StatusBadRequest, "items must not be empty"},
		{"not found", e.Wrap("op", e.ErrQuoteNotFound), http.StatusNotFound, "quote not found"},
		{"stock conflict", e.Wrap("op", e.NewStockError(3, "Drone", e.ErrInsufficientStock)), http.StatusConflict, "insufficient stock for Drone (product 3)"},
		{"not available", e.NewStockError(3, "Drone", e.ErrProductNotAvailable), http.StatusConflict, "product not available in stock for Drone (product 3)"},
		{"unknown product in cart", e.NewStockError(9, "", e.ErrProductNotFound), http.StatusNotFound, "product 9: product not found"},
		{"internal", errors.New("pq: connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := ToHTTPResponse(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestAmount_UnmarshalJSON(t *testing.T) {
	var v struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
		C Amount `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":189.99,"b":"12.50","c":null}`), &v))

	assert.Equal(t, Amount("189.99"), v.A)
	assert.Equal(t, Amount("12.50"), v.B)
	assert.Equal(t, Amount(""), v.C)

	assert.Error(t, json.Unmarshal([]byte(`{"a":true}`), &v))
}
