package transport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"storefront-be/internal/apperr"
	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies read by DecodeJSON.
const maxBodyBytes = 1 << 20

type Meta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// StatusFor maps an apperr code to its HTTP status.
func StatusFor(code string) int {
	switch code {
	case apperr.EINVALID:
		return http.StatusBadRequest
	case apperr.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case apperr.EFORBIDDEN:
		return http.StatusForbidden
	case apperr.ENOTFOUND:
		return http.StatusNotFound
	case apperr.ECONFLICT:
		return http.StatusConflict
	case apperr.ERATELIMIT:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// DecodeJSON reads a single JSON object from r into dst. Unknown fields are
// rejected.
func DecodeJSON(r *http.Request, dst any) error {
	const op = "transport.decode"

	if r.Body == nil {
		return apperr.Invalid(op, "request body is required")
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			return apperr.Invalid(op, "request body is required")
		case errors.As(err, &syntaxErr):
			return apperr.Invalidf(op, "malformed JSON at position %d", syntaxErr.Offset)
		case errors.As(err, &typeErr):
			return apperr.Validation(op, map[string]string{typeErr.Field: "has the wrong type"})
		default:
			return apperr.Invalidf(op, "invalid request body: %v", err)
		}
	}

	if dec.More() {
		return apperr.Invalid(op, "request body must contain a single JSON object")
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Envelope{Success: true, Data: data})
}

func WritePage(w http.ResponseWriter, data any, page, limit, total int) {
	write(w, http.StatusOK, Envelope{
		Success: true,
		Data:    data,
		Meta:    &Meta{Page: page, Limit: limit, Total: total},
	})
}

// WriteError is the single place domain errors become HTTP responses.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.Code(err)
	status := StatusFor(code)

	log := logger.FromCtx(r.Context()).With(
		zap.String("layer", "transport"),
		zap.String("op", apperr.Op(err)),
		zap.String("code", code),
		zap.Int("status", status),
	)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.Error(err))
	} else {
		log.Debug("request rejected", zap.Error(err))
	}

	write(w, status, Envelope{
		Success: false,
		Error: &ErrorBody{
			Code:    code,
			Message: apperr.Message(err),
			Fields:  apperr.Fields(err),
		},
	})
}

func write(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.L().Warn("failed to encode response", zap.Error(err))
	}
}

// QueryInt reads an integer query parameter, returning def when absent.
func QueryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation("transport.query", map[string]string{key: "must be an integer"})
	}
	return n, nil
}
