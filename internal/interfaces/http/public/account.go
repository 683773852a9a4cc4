package public

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sngm3741/storecatalog/api/internal/catalog/domain"
	"github.com/sngm3741/storecatalog/api/internal/interfaces/http/common"
)

func (h *Handler) resetTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		user, err := h.users.ResetTokenOwner(ctx, chi.URLParam(r, "token"))
		if errors.Is(err, domain.ErrNotFound) {
			common.WriteJSON(h.logger, w, http.StatusNotFound, common.ErrorResponse{Error: "パスワードリセットのリンクが無効か期限切れです"})
			return
		}
		if err != nil {
			common.WriteError(h.logger, w, err, "リセットトークンの確認に失敗しました")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildUserResponse(user))
	}
}
