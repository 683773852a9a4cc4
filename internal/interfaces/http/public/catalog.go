package public

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sngm3741/storecatalog/api/internal/catalog/application"
	"github.com/sngm3741/storecatalog/api/internal/interfaces/http/common"
)

func (h *Handler) tagViewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		view, err := h.catalog.TagView(ctx, chi.URLParam(r, "tag"))
		if err != nil {
			common.WriteError(h.logger, w, err, "タグ一覧の取得に失敗しました")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, tagViewResponse{
			Tag:    view.Tag,
			Tags:   buildTagCounts(view.Tags),
			Stores: buildStoreResponses(view.Stores),
		})
	}
}

func (h *Handler) topStoresHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		limit, _ := common.ParsePositiveInt(r.URL.Query().Get("limit"), application.DefaultTopLimit)
		top, err := h.catalog.TopStores(ctx, limit)
		if err != nil {
			common.WriteError(h.logger, w, err, "ランキングの取得に失敗しました")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildStoreSummaries(top))
	}
}

func (h *Handler) searchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		stores, err := h.catalog.Search(ctx, strings.TrimSpace(r.URL.Query().Get("q")))
		if err != nil {
			common.WriteError(h.logger, w, err, "検索に失敗しました")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildStoreResponses(stores))
	}
}

func (h *Handler) nearHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		query := r.URL.Query()
		lng := common.ParseFloat(query.Get("lng"))
		lat := common.ParseFloat(query.Get("lat"))

		stores, err := h.catalog.ProximitySearch(ctx, lng, lat)
		if err != nil {
			common.WriteError(h.logger, w, err, "周辺店舗の取得に失敗しました")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildStoreResponses(stores))
	}
}
