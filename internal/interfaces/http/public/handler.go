package public

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sngm3741/storecatalog/api/internal/catalog/application"
)

// PhotoStore issues photo references for uploaded images.
type PhotoStore interface {
	Save(ctx context.Context, contentType string, r io.Reader) (string, error)
}

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger  *zap.Logger
	stores  *application.StoreService
	catalog *application.CatalogService
	reviews *application.ReviewService
	users   *application.UserService
	photos  PhotoStore
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger  *zap.Logger
	Stores  *application.StoreService
	Catalog *application.CatalogService
	Reviews *application.ReviewService
	Users   *application.UserService
	Photos  PhotoStore
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		logger:  logger,
		stores:  cfg.Stores,
		catalog: cfg.Catalog,
		reviews: cfg.Reviews,
		users:   cfg.Users,
		photos:  cfg.Photos,
	}
}

// Register mounts all public routes onto the router.
func (h *Handler) Register(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/stores", h.storeListHandler())
	r.Get("/stores/{slug}", h.storeDetailHandler())
	r.Get("/tags", h.tagViewHandler())
	r.Get("/tags/{tag}", h.tagViewHandler())
	r.Get("/top", h.topStoresHandler())
	r.Get("/api/search", h.searchHandler())
	r.Get("/api/stores/near", h.nearHandler())
	r.Get("/account/reset/{token}", h.resetTokenHandler())

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/stores", h.storeCreateHandler())
		r.Get("/stores/{id}/edit", h.storeEditHandler())
		r.Patch("/stores/{id}", h.storeUpdateHandler())
		r.Post("/reviews/{storeId}", h.reviewCreateHandler())
		r.Post("/api/stores/{id}/heart", h.heartToggleHandler())
		r.Get("/hearts", h.heartsHandler())
		r.Post("/photos", h.photoUploadHandler())
		r.Get("/auth/verify", h.authVerifyHandler())
	})
}
