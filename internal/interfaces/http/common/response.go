package common

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sngm3741/storecatalog/api/internal/catalog/domain"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

// WriteJSON serializes payload to JSON with status and logs on failure.
func WriteJSON(logger *zap.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Warn("JSON エンコードに失敗", zap.Error(err))
	}
}

// WriteError maps a service error onto an HTTP status and writes it.
// Server-side failures are logged with msg.
func WriteError(logger *zap.Logger, w http.ResponseWriter, err error, msg string) {
	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.Error(msg, zap.Error(err), zap.Int("status", status))
	}
	WriteJSON(logger, w, status, body)
}

func errorResponse(err error) (int, ErrorResponse) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, ErrorResponse{Error: "入力内容に誤りがあります", Fields: verr.Fields}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "対象が見つかりません"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, ErrorResponse{Error: "この店舗を編集する権限がありません"}
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, ErrorResponse{Error: "同じスラッグの店舗が既に存在します"}
	case domain.IsAdapterError(err):
		return http.StatusServiceUnavailable, ErrorResponse{Error: "データストアに接続できません"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "内部エラーが発生しました"}
	}
}
