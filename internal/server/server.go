// Package server はストアカタログ API のコンポジションルート。
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sngm3741/storecatalog/api/internal/config"
	"github.com/sngm3741/storecatalog/api/internal/infrastructure/media"
	commonhttp "github.com/sngm3741/storecatalog/api/internal/interfaces/http/common"
	publichttp "github.com/sngm3741/storecatalog/api/internal/interfaces/http/public"
	"github.com/sngm3741/storecatalog/api/internal/metrics"
)

// Server は HTTP サーバーのライフサイクルを管理し、公開ハンドラへ依存注入する。
type Server struct {
	logger         *zap.Logger
	backend        *Backend
	services       Services
	photos         *media.LocalStore
	jwtConfigs     []config.JWTConfig
	jwtAudience    string
	addr           string
	allowedOrigins []string
}

// New は Config とバックエンドを受け取り、アプリケーションサービスを組み立てた Server を返す。
// メディアディレクトリを作成できない場合は画像アップロードを無効にして起動する。
func New(cfg config.Config, backend *Backend, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := &Server{
		logger:         logger,
		backend:        backend,
		services:       backend.Services(),
		jwtConfigs:     cfg.JWTConfigs(),
		jwtAudience:    cfg.JWTAudience,
		addr:           cfg.Addr,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
	}

	if cfg.MediaDir != "" {
		photos, err := media.NewLocalStore(cfg.MediaDir)
		if err != nil {
			logger.Warn("メディアディレクトリの作成に失敗しました。画像アップロードを無効にします", zap.String("dir", cfg.MediaDir), zap.Error(err))
		} else {
			srv.photos = photos
		}
	}
	return srv
}

// Router はミドルウェアとルーティングを組み立てる。
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(metrics.Middleware())
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())
	router.Handle("/metrics", promhttp.Handler())

	cfg := publichttp.Config{
		Logger:  s.logger,
		Stores:  s.services.Stores,
		Catalog: s.services.Catalog,
		Reviews: s.services.Reviews,
		Users:   s.services.Users,
	}
	if s.photos != nil {
		cfg.Photos = s.photos
		router.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.photos.Dir()))))
	}
	publichttp.NewHandler(cfg).Register(router, s.authMiddleware)

	return router
}

// Run はHTTPサーバーを起動し、シグナル受信か異常終了まで待機する。
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP サーバー起動", zap.String("addr", s.addr))
		errChan <- httpServer.ListenAndServe()
	}()

	return s.waitForShutdown(ctx, httpServer, errChan)
}

// healthHandler はデータストアへの疎通確認を行い、インフラ状態のみを返す。
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.backend.Ping(ctx); err != nil {
			commonhttp.WriteJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}

		commonhttp.WriteJSON(s.logger, w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

// waitForShutdown は ListenAndServe の終了と OS シグナルを監視し、graceful shutdown を行う。
func (s *Server) waitForShutdown(ctx context.Context, httpServer *http.Server, errChan <-chan error) error {
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var runErr error
	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("サーバーが異常終了", zap.Error(err))
			runErr = err
		}
	case <-sigCtx.Done():
		s.logger.Info("停止シグナルを受信。サーバー停止処理を開始します")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("サーバー停止時にエラー", zap.Error(err))
		}
	}

	s.backend.Close(context.Background())
	return runErr
}
