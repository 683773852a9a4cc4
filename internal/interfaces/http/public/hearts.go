package public

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sngm3741/storecatalog/api/internal/interfaces/http/common"
)

func (h *Handler) heartToggleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.requireUser(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		user, err := h.users.ToggleHeart(ctx, userID, strings.TrimSpace(chi.URLParam(r, "id")))
		if err != nil {
			common.WriteError(h.logger, w, err, "お気に入りの更新に失敗しました")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, heartsResponse{Hearts: user.Hearts})
	}
}

func (h *Handler) heartsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.requireUser(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		stores, err := h.catalog.HeartedStores(ctx, userID)
		if err != nil {
			common.WriteError(h.logger, w, err, "お気に入り店舗の取得に失敗しました")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildStoreResponses(stores))
	}
}
