package public

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/sngm3741/storecatalog/api/internal/interfaces/http/common"
)

func (h *Handler) photoUploadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := h.requireUser(w, r); !ok {
			return
		}
		if h.photos == nil {
			common.WriteJSON(h.logger, w, http.StatusServiceUnavailable, common.ErrorResponse{Error: "画像アップロードは無効です"})
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, common.MaxUploadBody)
		file, header, err := r.FormFile("photo")
		if err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, common.ErrorResponse{Error: "photo フィールドに画像を指定してください"})
			return
		}
		defer file.Close()

		ref, err := h.photos.Save(r.Context(), header.Header.Get("Content-Type"), file)
		if err != nil {
			common.WriteError(h.logger, w, err, "画像の保存に失敗しました")
			return
		}
		h.logger.Info("画像を保存しました", zap.String("photo", ref), zap.Int64("size", header.Size))
		common.WriteJSON(h.logger, w, http.StatusCreated, photoResponse{Photo: ref})
	}
}
