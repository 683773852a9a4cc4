package public

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sngm3741/storecatalog/api/internal/catalog/domain"
	"github.com/sngm3741/storecatalog/api/internal/interfaces/http/common"
)

func (h *Handler) reviewCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.requireUser(w, r)
		if !ok {
			return
		}
		var req reviewRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, common.ErrorResponse{Error: "リクエストボディの形式が不正です"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		storeID := strings.TrimSpace(chi.URLParam(r, "storeId"))
		review, err := h.reviews.Create(ctx, storeID, userID, domain.ReviewInput{Text: req.Text, Rating: req.Rating})
		if err != nil {
			common.WriteError(h.logger, w, err, "レビューの投稿に失敗しました")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, buildReviewResponse(*review))
	}
}
