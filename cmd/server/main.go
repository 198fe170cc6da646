package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"folio/internal/auth"
	"folio/internal/config"
	contentRepo "folio/internal/domain/repositories/content"
	"folio/internal/domain/repositories"
	"folio/internal/handler"
	"folio/internal/middleware"
	"folio/internal/repository/memory"
	"folio/internal/repository/postgres"
	postgresContent "folio/internal/repository/postgres/content"
	serviceContent "folio/internal/service/content"
	"folio/internal/service/content/converter"
	"folio/internal/service/content/render"
	"folio/internal/service/upload"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

// storage bundles the repositories for one database driver
type storage struct {
	articles  contentRepo.ArticleRepository
	chapters  contentRepo.ChapterRepository
	sections  contentRepo.SectionRepository
	tags      contentRepo.TagRepository
	revisions contentRepo.RevisionRepository
	search    contentRepo.SearchRepository
	txManager repositories.TransactionManager
	ping      handler.Pinger
	close     func()
}

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Log to stdout, and also to a timestamped file when LOG_DIR is set
	var logOutput io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}
	logger := config.NewLogger(cfg, logOutput)
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"database_driver", cfg.DatabaseDriver,
	)

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer store.close()

	// Content services
	importer := converter.NewHTMLConverter()
	renderer := render.NewMarkdownRenderer()
	slugResolver := serviceContent.NewSlugResolver(store.articles, logger)
	tagResolver := serviceContent.NewTagResolver(store.tags, logger)
	articleService := serviceContent.NewArticleService(store.articles, store.txManager, slugResolver, tagResolver, importer, renderer, logger)
	chapterService := serviceContent.NewChapterService(store.articles, store.chapters, store.txManager, logger)
	sectionService := serviceContent.NewSectionService(store.articles, store.chapters, store.sections, store.txManager, importer, logger)
	publicationService := serviceContent.NewPublicationService(store.articles, store.revisions, store.txManager, serviceContent.NewSnapshotCodec(), logger)
	searchService := serviceContent.NewSearchService(store.search, logger)

	// Uploads
	maxUploadBytes := cfg.MaxUploadMB << 20
	limiter := upload.NewSlidingWindowLimiter(cfg.UploadPerMin, config.UploadWindow)
	pruneCtx, stopPruning := context.WithCancel(ctx)
	defer stopPruning()
	go limiter.Run(pruneCtx, config.UploadWindow)
	blobStore := upload.NewLocalBlobStore(cfg.UploadDir, "/uploads")
	uploadService := upload.NewService(blobStore, limiter, maxUploadBytes, logger)

	logger.Info("services initialized")

	mux := handler.NewRouter(&handler.Handlers{
		Articles:    handler.NewArticleHandler(articleService, logger),
		Structure:   handler.NewStructureHandler(chapterService, sectionService, logger),
		Publication: handler.NewPublicationHandler(publicationService, logger),
		Search:      handler.NewSearchHandler(searchService, logger),
		Uploads:     handler.NewUploadHandler(uploadService, maxUploadBytes, logger),
		Health:      handler.NewHealthHandler(store.ping, logger),
	}, middleware.RequireRole(cfg.AdminRole))

	// Stored images are served straight from disk
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	authMiddleware, closeAuth, err := buildAuth(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer closeAuth()

	// Build middleware chain
	// Order: CORS → Recovery → Auth → Routes
	var h http.Handler = mux
	h = authMiddleware(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// openStorage connects the configured database driver and migrates it
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storage, error) {
	switch cfg.DatabaseDriver {
	case "memory":
		logger.Warn("using in-memory storage; data is lost on restart")
		s := memory.NewStore(logger)
		return &storage{
			articles:  memory.NewArticleRepository(s),
			chapters:  memory.NewChapterRepository(s),
			sections:  memory.NewSectionRepository(s),
			tags:      memory.NewTagRepository(s),
			revisions: memory.NewRevisionRepository(s),
			search:    memory.NewSearchRepository(s),
			txManager: memory.NewTransactionManager(s),
			close:     func() {},
		}, nil

	case "postgres":
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("database connected")

		if cfg.AutoMigrate {
			migrator, err := postgres.NewMigrator(pool, logger)
			if err != nil {
				pool.Close()
				return nil, err
			}
			err = migrator.Up()
			migrator.Close()
			if err != nil {
				pool.Close()
				return nil, err
			}
		}

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Logger: logger,
		}
		return &storage{
			articles:  postgresContent.NewArticleRepository(repoConfig),
			chapters:  postgresContent.NewChapterRepository(repoConfig),
			sections:  postgresContent.NewSectionRepository(repoConfig),
			tags:      postgresContent.NewTagRepository(repoConfig),
			revisions: postgresContent.NewRevisionRepository(repoConfig),
			search:    postgresContent.NewSearchRepository(repoConfig),
			txManager: postgres.NewTransactionManager(pool, logger),
			ping:      pool.Ping,
			close:     pool.Close,
		}, nil

	default:
		return nil, errors.New("DATABASE_DRIVER must be postgres or memory")
	}
}

// buildAuth picks the token verifier: JWKS, then HMAC secret, then the
// fixed dev identity
func buildAuth(cfg *config.Config, logger *slog.Logger) (func(http.Handler) http.Handler, func(), error) {
	var (
		verifier auth.JWTVerifier
		err      error
	)
	switch {
	case cfg.JWKSURL != "":
		verifier, err = auth.NewJWTVerifier(cfg.JWKSURL, logger)
	case cfg.JWTSecret != "":
		verifier, err = auth.NewHMACVerifier(cfg.JWTSecret, logger)
	case cfg.Environment == "dev":
		logger.Warn("DEV MODE: every request authenticates as the dev user", "user_id", cfg.DevUserID)
		return middleware.DevAuthMiddleware(cfg.DevUserID, cfg.AdminRole), func() {}, nil
	default:
		return nil, nil, errors.New("AUTH_JWKS_URL or AUTH_JWT_SECRET must be set outside dev")
	}
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() {
		if err := verifier.Close(); err != nil {
			logger.Warn("failed to close JWT verifier", "error", err)
		}
	}
	return middleware.AuthMiddleware(verifier, logger), closeFn, nil
}
