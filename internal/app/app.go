package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"bookstore/internal/app/server"
	"bookstore/internal/app_errors"
	"bookstore/internal/config"
	httpdelivery "bookstore/internal/delivery/http"
	"bookstore/internal/delivery/http/controllers"
	"bookstore/internal/models"
	"bookstore/internal/service"
	"bookstore/internal/service/auth"
	"bookstore/internal/service/book"
	"bookstore/internal/service/user"
	"bookstore/internal/storage/elastic"
	"bookstore/internal/storage/minio_storage"
	"bookstore/internal/storage/postgres"
	"bookstore/pkg/logger"
)

func Run(cfg *config.Config) {
	log := logger.New(cfg.Env)
	log.Info("Starting with Env: " + cfg.Env)

	pg, err := postgres.NewPostgresPool(cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DBName)
	if err != nil {
		log.FatalErr("error connecting to database", err)
	}
	defer pg.Close()

	minioStorage, err := minio_storage.NewMinioStorage(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
	if err != nil {
		log.FatalErr("error connecting to minio", err)
	}
	coverStorage, err := minio_storage.NewCoverStorage(minioStorage, cfg.Minio.Bucket, cfg.Minio.PresignTTL)
	if err != nil {
		log.FatalErr("error preparing cover bucket", err)
	}

	esClient, err := elastic.NewElasticClient(cfg.ES.Password, cfg.ES.Hosts)
	if err != nil {
		log.FatalErr("error connecting to elasticsearch", err)
	}
	searchRepo := elastic.NewBookSearchRepository(esClient, cfg.ES.Index)
	if err := searchRepo.CreateIndexIfNotExist(context.Background()); err != nil {
		log.FatalErr("error creating search index", err)
	}

	userRepo := postgres.NewUserPostgres(pg.Pool)
	tokenRepo := postgres.NewTokensPostgres(pg.Pool)
	bookRepo := postgres.NewBookPostgres(pg.Pool)

	jwtManager := auth.NewJWTManager(cfg.Auth.AccessToken.Secret, cfg.Auth.AccessToken.TTL)
	authService := auth.NewAuthService(log, jwtManager, userRepo, tokenRepo, cfg.Auth.RefreshToken.TTL)
	userService := user.NewUserService(log, userRepo)
	bookService := book.NewBookService(log, bookRepo, searchRepo, coverStorage)

	seedRootUser(log, authService)

	u := service.Collection{
		AuthService: authService,
		UserService: userService,
		BookService: bookService,
	}

	cookies := controllers.CookieConfig{
		AccessName:  cfg.Auth.AccessToken.CookieName,
		RefreshName: cfg.Auth.RefreshToken.CookieName,
		AccessTTL:   cfg.Auth.AccessToken.TTL,
		RefreshTTL:  cfg.Auth.RefreshToken.TTL,
	}

	r := httpdelivery.InitRoutes(log, u, cookies)

	srv := server.New(cfg.HTTPServer.Address, cfg.HTTPServer.Timeout, cfg.HTTPServer.IdleTimeout, r)
	srv.Start()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("app signal: " + s.String())
	case err := <-srv.Notify():
		log.ErrorErr("server error", err)
	}
	if err := srv.Shutdown(); err != nil {
		log.ErrorErr("shutdown error", err)
	}
}

// seedRootUser creates the default account on first start so a fresh
// deployment can log in immediately.
func seedRootUser(log logger.Log, authService *auth.AuthService) {
	_, err := authService.Register(context.Background(), models.User{
		Username: "root",
		Email:    "root@bookstore.local",
		Password: "toor",
	})
	if err != nil {
		if errors.Is(err, app_errors.ErrUserExists) {
			return
		}
		log.ErrorErr("error seeding root user", err)
		return
	}
	log.Info("seeded default root user")
}
