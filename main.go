package main

import (
	"CourseShelf/config"
	"CourseShelf/controllers"
	"CourseShelf/jobs"
	"CourseShelf/repositories"
	"CourseShelf/routes"
	"CourseShelf/services"
	"CourseShelf/storage"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func init() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("Failed to load configurations: ", err)
	}

	db, err := repositories.InitDB(cfg.DSN())
	if err != nil {
		logrus.Fatal("Error connecting to database: ", err)
	}

	contentRepo := repositories.NewContentRepository(db)
	credentialRepo := repositories.NewCredentialRepository(db)

	// Initialize file storage
	var blobStorage storage.Storage
	switch cfg.StorageType {
	case "s3":
		s3Storage, err := storage.NewS3Storage(cfg.S3Bucket)
		if err != nil {
			logrus.Fatal("Error configuring S3 storage: ", err)
		}
		blobStorage = s3Storage
	default:
		localStorage, err := storage.NewLocalStorage(cfg.UploadDir)
		if err != nil {
			logrus.Fatal("Error configuring local storage: ", err)
		}
		blobStorage = localStorage
	}

	contentService := services.NewContentService(contentRepo, blobStorage)
	credentialService := services.NewCredentialService(credentialRepo)
	if err := credentialService.Initialize(context.Background()); err != nil {
		logrus.Fatal("Error initializing admin credential: ", err)
	}

	contentController := controllers.NewContentController(contentService, blobStorage)
	authController := controllers.NewAuthController(credentialService)

	e := echo.New()
	e.HideBanner = true
	routes.RegisterRoutes(e, cfg, contentController, authController, credentialService)

	sweeper := jobs.NewOrphanSweeper(contentService, blobStorage, cfg.SweepInterval, cfg.SweepGrace)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logrus.Info("Starting server on ", cfg.ListenAddr)
		if err := e.Start(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		sweeper.Run(ctx)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logrus.Error("Server terminated with error: ", err)
	}
	if err := repositories.CloseDB(db); err != nil {
		logrus.Error("Error closing database connection: ", err)
	}
	logrus.Info("Server stopped")
}
