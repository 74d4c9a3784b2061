package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"mangashelf/database"
	"mangashelf/internal/catalog"
	"mangashelf/internal/config"
	"mangashelf/internal/docstore"
	"mangashelf/internal/httpapi/handler"
	"mangashelf/internal/httpapi/middleware"
	"mangashelf/internal/identity"
	"mangashelf/internal/importer"
	"mangashelf/internal/library"
	"mangashelf/internal/lifecycle"
	"mangashelf/internal/session"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	rdb, err := database.ConnectRedis(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to redis: %v", err)
	}
	defer rdb.Close()

	// Engine wiring: session transitions drive the library binding, the
	// import pipeline funnels catalog details into the bound library.
	sess := session.NewState()
	records := docstore.NewStore(db, rdb)
	store := library.NewStore(records)
	defer store.Close()

	controller := lifecycle.NewController(sess, store)

	users := identity.NewUserRepository(db)
	provider := identity.NewProvider(users, sess, cfg)

	catalogClient := catalog.NewClient(cfg.MALAPIURL, cfg.MALClientID)
	pipeline := importer.NewPipeline(sess, catalogClient, store)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	authHandler := handler.NewAuthHandler(provider, int64(cfg.AccessTokenTTL.Seconds()))
	catalogHandler := handler.NewCatalogHandler(catalogClient)
	libraryHandler := handler.NewLibraryHandler(store, pipeline, controller)

	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", middleware.AuthMiddleware(provider, sess), authHandler.Logout)
	}

	authorized := r.Group("/", middleware.AuthMiddleware(provider, sess))
	{
		authorized.GET("/catalog/search", catalogHandler.Search)
		libraryHandler.RegisterRoutes(authorized.Group("/library"))
	}

	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("Server starting", "addr", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
