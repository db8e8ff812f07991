package main

import (
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"RecordStore/internal/app"
	"RecordStore/internal/config"
	"RecordStore/internal/password"
	"RecordStore/internal/products"
	"RecordStore/internal/users"
	"RecordStore/pkg/kit"
)

const service = "recordstore"

func main() {
	cfg := config.Load()

	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	hasher := password.NewHasher(cfg.BcryptCost)

	userStore, productStore := buildStores(cfg, hasher, log)

	us := &users.Server{
		Log:   log,
		Store: userStore,
		JWT:   users.NewTokenMaker(cfg.JWTSecret),
	}
	ps := &products.Server{
		Log:   log,
		Store: productStore,
	}

	h := app.NewHandler(us, ps, app.Deps{
		Log:            log,
		Service:        service,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
	})

	if err := kit.RunHTTPServer(cfg.Addr, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func buildStores(cfg config.Config, hasher *password.Hasher, log *zap.Logger) (users.Store, products.Store) {
	switch cfg.StoreBackend {
	case "postgres":
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			log.Fatal("open database", zap.Error(err))
		}
		log.Info("using postgres stores")
		return users.NewPostgresStore(db, hasher), products.NewPostgresStore(db)

	default:
		log.Info("using file stores",
			zap.String("users_file", cfg.UsersFile),
			zap.String("products_file", cfg.ProductsFile),
		)
		return users.NewFileStore(cfg.UsersFile, hasher, log),
			products.NewFileStore(cfg.ProductsFile, log)
	}
}
