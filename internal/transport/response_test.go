package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront-be/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := map[string]int{
		apperr.EINVALID:      http.StatusBadRequest,
		apperr.EUNAUTHORIZED: http.StatusUnauthorized,
		apperr.EFORBIDDEN:    http.StatusForbidden,
		apperr.ENOTFOUND:     http.StatusNotFound,
		apperr.ECONFLICT:     http.StatusConflict,
		apperr.ERATELIMIT:    http.StatusTooManyRequests,
		apperr.EINTERNAL:     http.StatusInternalServerError,
		"unknown":            http.StatusInternalServerError,
	}

	for code, want := range tests {
		t.Run(code, func(t *testing.T) {
			assert.Equal(t, want, StatusFor(code))
		})
	}
}

type sample struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantErr  bool
		wantCode string
	}{
		{"valid", `{"name":"tea","quantity":2}`, false, ""},
		{"empty", ``, true, apperr.EINVALID},
		{"malformed", `{"name":`, true, apperr.EINVALID},
		{"wrong type", `{"quantity":"two"}`, true, apperr.EINVALID},
		{"unknown field", `{"foo":1}`, true, apperr.EINVALID},
		{"trailing object", `{"name":"a"}{"name":"b"}`, true, apperr.EINVALID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst sample

			err := DecodeJSON(req, &dst)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, sample{Name: "tea", Quantity: 2}, dst)
				return
			}
			assert.Equal(t, tt.wantCode, apperr.Code(err))
		})
	}

	t.Run("wrong type reports field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity":"two"}`))
		var dst sample
		err := DecodeJSON(req, &dst)
		assert.Equal(t, "has the wrong type", apperr.Fields(err)["quantity"])
	})
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusCreated, map[string]string{"id": "1"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"data":{"id":"1"}}`, w.Body.String())
}

func TestWritePage(t *testing.T) {
	w := httptest.NewRecorder()
	WritePage(w, []int{1, 2}, 2, 10, 12)

	assert.JSONEq(t, `{"success":true,"data":[1,2],"meta":{"page":2,"limit":10,"total":12}}`, w.Body.String())
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"not found", apperr.NotFound("order.get", "order", "1"), http.StatusNotFound, apperr.ENOTFOUND, "order not found: 1"},
		{"internal hides cause", errors.New("pq: boom"), http.StatusInternalServerError, apperr.EINTERNAL, "An internal error occurred. Please try again later."},
		{"conflict", apperr.Conflict("checkout", "cart changed"), http.StatusConflict, apperr.ECONFLICT, "cart changed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)

			var body Envelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Equal(t, tt.wantMsg, body.Error.Message)
		})
	}

	t.Run("validation fields", func(t *testing.T) {
		w := httptest.NewRecorder()
		err := apperr.Validation("order.create", map[string]string{"items": "must contain at least 1 item(s)"})
		WriteError(w, httptest.NewRequest(http.MethodPost, "/orders", nil), err)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t,
			`{"success":false,"error":{"code":"invalid","message":"validation failed","fields":{"items":"must contain at least 1 item(s)"}}}`,
			w.Body.String(),
		)
	})
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=3&limit=x", nil)

	page, err := QueryInt(req, "page", 1)
	assert.NoError(t, err)
	assert.Equal(t, 3, page)

	def, err := QueryInt(req, "missing", 10)
	assert.NoError(t, err)
	assert.Equal(t, 10, def)

	_, err = QueryInt(req, "limit", 10)
	assert.True(t, apperr.Is(err, apperr.EINVALID))
}
