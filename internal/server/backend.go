package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/rueidis"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/sngm3741/storecatalog/api/internal/catalog/application"
	"github.com/sngm3741/storecatalog/api/internal/config"
	"github.com/sngm3741/storecatalog/api/internal/infrastructure/cache"
	"github.com/sngm3741/storecatalog/api/internal/infrastructure/memory"
	mongodoc "github.com/sngm3741/storecatalog/api/internal/infrastructure/mongo"
)

// Backend はストレージドライバの選択結果をまとめ、リポジトリ群とクライアントの寿命を管理する。
type Backend struct {
	Stores      application.StoreRepository
	Reviews     application.ReviewRepository
	Users       application.UserRepository
	Catalog     application.CatalogAggregator
	Invalidator application.ViewInvalidator

	driver      string
	client      *mongo.Client
	database    *mongo.Database
	collections mongodoc.Collections
	memory      *memory.DB
	redis       rueidis.Client
	logger      *zap.Logger
}

// Services はアプリケーションサービス一式。
type Services struct {
	Stores  *application.StoreService
	Catalog *application.CatalogService
	Reviews *application.ReviewService
	Users   *application.UserService
}

// OpenBackend は設定されたドライバに接続し、キャッシュが有効なら集計ビューを Redis で包む。
// Mongo クライアントはプロセス内で一度だけ生成され、Close で切断される。
func OpenBackend(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Backend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Backend{driver: cfg.Driver, logger: logger}

	switch cfg.Driver {
	case config.DriverMongo:
		connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()

		clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
		client, err := mongo.Connect(connectCtx, clientOptions)
		if err != nil {
			return nil, fmt.Errorf("MongoDB 接続に失敗しました: %w", err)
		}
		if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("MongoDB への疎通確認に失敗しました: %w", err)
		}

		b.client = client
		b.database = client.Database(cfg.MongoDatabase)
		b.collections = mongodoc.Collections{
			Stores:  cfg.StoreCollection,
			Reviews: cfg.ReviewCollection,
			Users:   cfg.UserCollection,
		}
		b.Stores = mongodoc.NewStoreRepository(b.database, cfg.StoreCollection)
		b.Reviews = mongodoc.NewReviewRepository(b.database, cfg.ReviewCollection)
		b.Users = mongodoc.NewUserRepository(b.database, cfg.UserCollection)
		b.Catalog = mongodoc.NewCatalogAggregator(b.database, cfg.StoreCollection, cfg.ReviewCollection)
	case config.DriverMemory:
		b.memory = memory.New()
		b.Stores = b.memory.Stores()
		b.Reviews = b.memory.Reviews()
		b.Users = b.memory.Users()
		b.Catalog = b.memory.Catalog()
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}

	if cfg.CacheEnabled() {
		client, err := cache.NewClient(ctx, cache.Config{Addrs: cfg.RedisAddrs, Password: cfg.RedisPassword})
		if err != nil {
			b.Close(ctx)
			return nil, fmt.Errorf("Redis 接続に失敗しました: %w", err)
		}
		b.redis = client
		views := cache.NewCatalogCache(client, b.Catalog, cfg.ViewCacheTTL, logger)
		b.Catalog = views
		b.Invalidator = views
	}

	logger.Info("ストレージを初期化しました",
		zap.String("driver", cfg.Driver),
		zap.Bool("view_cache", b.redis != nil),
	)
	return b, nil
}

// NewBackendFromMemory wraps an existing in-memory database.
func NewBackendFromMemory(db *memory.DB, logger *zap.Logger) *Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backend{
		Stores:  db.Stores(),
		Reviews: db.Reviews(),
		Users:   db.Users(),
		Catalog: db.Catalog(),
		driver:  config.DriverMemory,
		memory:  db,
		logger:  logger,
	}
}

// Services はバックエンドのリポジトリからアプリケーションサービスを組み立てる。
func (b *Backend) Services() Services {
	resolver := application.NewResolver(b.Reviews, b.Users)
	storeOpts := []application.StoreServiceOption{}
	if b.Invalidator != nil {
		storeOpts = append(storeOpts, application.WithStoreInvalidator(b.Invalidator))
	}
	return Services{
		Stores:  application.NewStoreService(b.Stores, resolver, b.logger, storeOpts...),
		Catalog: application.NewCatalogService(b.Stores, b.Catalog, b.Users, resolver, b.logger),
		Reviews: application.NewReviewService(b.Reviews, b.Stores, b.Users, resolver, b.Invalidator, b.logger),
		Users:   application.NewUserService(b.Users, b.Stores),
	}
}

// Ping はデータストアの疎通を確認する。メモリドライバは常に成功する。
func (b *Backend) Ping(ctx context.Context) error {
	if b.client == nil {
		return nil
	}
	return b.client.Ping(ctx, readpref.Primary())
}

// EnsureIndexes は Mongo のインデックスを作成する。
func (b *Backend) EnsureIndexes(ctx context.Context) error {
	if b.database == nil {
		return nil
	}
	return mongodoc.EnsureIndexes(ctx, b.database, b.collections)
}

// Drop は全コレクションを削除し、キャッシュ済みビューも破棄する。
func (b *Backend) Drop(ctx context.Context) error {
	if b.memory != nil {
		b.memory.Drop()
	}
	if b.database != nil {
		if err := mongodoc.Drop(ctx, b.database, b.collections); err != nil {
			return err
		}
	}
	if b.Invalidator != nil {
		b.Invalidator.Invalidate(ctx)
	}
	return nil
}

// Close は Redis と MongoDB をタイムアウト付きで切断する。
func (b *Backend) Close(ctx context.Context) {
	if b.redis != nil {
		b.redis.Close()
	}
	if b.client == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := b.client.Disconnect(shutdownCtx); err != nil && !errors.Is(err, mongo.ErrClientDisconnected) {
		b.logger.Warn("MongoDB 切断時にエラー", zap.Error(err))
	}
}
