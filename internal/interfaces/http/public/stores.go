package public

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sngm3741/storecatalog/api/internal/interfaces/http/common"
)

const requestTimeout = 5 * time.Second

func (h *Handler) storeListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		page, _ := common.ParsePositiveInt(r.URL.Query().Get("page"), 1)
		result, err := h.catalog.ListStores(ctx, page)
		if err != nil {
			common.WriteError(h.logger, w, err, "店舗一覧の取得に失敗しました")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, storeListResponse{
			Stores: buildStoreResponses(result.Stores),
			Page:   result.Page,
			Pages:  result.Pages,
			Count:  result.Count,
		})
	}
}

func (h *Handler) storeDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		store, err := h.stores.GetBySlug(ctx, slug)
		if err != nil {
			common.WriteError(h.logger, w, err, "店舗情報の取得に失敗しました")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildStoreResponse(*store))
	}
}

func (h *Handler) storeCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.requireUser(w, r)
		if !ok {
			return
		}
		req, ok := h.decodeStoreRequest(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		store, err := h.stores.Create(ctx, req.input(), userID)
		if err != nil {
			common.WriteError(h.logger, w, err, "店舗の作成に失敗しました")
			return
		}
		h.logger.Info("店舗を作成しました", zap.String("slug", store.Slug), zap.String("author", userID))
		common.WriteJSON(h.logger, w, http.StatusCreated, buildStoreResponse(*store))
	}
}

func (h *Handler) storeEditHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.requireUser(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		store, err := h.stores.GetForEdit(ctx, strings.TrimSpace(chi.URLParam(r, "id")), userID)
		if err != nil {
			common.WriteError(h.logger, w, err, "店舗情報の取得に失敗しました")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildStoreResponse(*store))
	}
}

func (h *Handler) storeUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.requireUser(w, r)
		if !ok {
			return
		}
		req, ok := h.decodeStoreRequest(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		store, err := h.stores.Update(ctx, id, req.input(), userID)
		if err != nil {
			common.WriteError(h.logger, w, err, "店舗の更新に失敗しました")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildStoreResponse(*store))
	}
}

func (h *Handler) decodeStoreRequest(w http.ResponseWriter, r *http.Request) (storeRequest, bool) {
	var req storeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		common.WriteJSON(h.logger, w, http.StatusBadRequest, common.ErrorResponse{Error: "リクエストボディの形式が不正です"})
		return storeRequest{}, false
	}
	return req, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, common.MaxRequestBody)
	return json.NewDecoder(r.Body).Decode(dst)
}
