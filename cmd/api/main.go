package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/diegoa-rodriguezc/sistemas-recomendacion/docs" // swagger docs

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/cache"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/catalog"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/config"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/db"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/handler"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/logging"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/models"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/oracle"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/recommend"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/repository"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/service"
)

// @title Sistema de Recomendación de Películas API
// @version 1.0
// @description Recomendaciones MovieLens con vecinos por usuario y por ítem
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Mongo sólo si algún componente lo usa
	var mdb *mongo.Database
	if cfg.StoreBackend == "mongo" || (cfg.OracleMode == "local" && cfg.ModelSource == "mongo") {
		client, database, err := db.Connect(ctx, cfg)
		if err != nil {
			logging.Fatal().Err(err).Msg("no se pudo conectar a Mongo")
		}
		defer db.Disconnect(client)
		mdb = database
	}

	// catálogo
	var store catalog.Store
	var history service.HistoryRecorder
	switch cfg.StoreBackend {
	case "mongo":
		store = catalog.NewMongoStore(mdb)
		history = repository.NewRecommendationRepository(mdb)
	default:
		fs, err := catalog.NewFileStore(cfg.DataDir, cfg.AdminUserIDs)
		if err != nil {
			logging.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("no se pudo leer el dataset")
		}
		store = fs
	}

	// caché
	var recCache recommend.Cache
	switch cfg.CacheBackend {
	case "redis":
		rdb, err := cache.NewRedisClient(ctx, cfg)
		if err != nil {
			logging.Fatal().Err(err).Msg("no se pudo conectar a Redis")
		}
		defer rdb.Close()
		recCache = cache.NewRedisCache(rdb)
	default:
		recCache = recommend.NewMemoryCache()
	}

	// oráculos
	reg := oracle.NewRegistry()
	switch cfg.OracleMode {
	case "remote":
		for _, kind := range []models.OracleKind{models.KindUser, models.KindItem} {
			reg.Register(kind, oracle.NewRemote(kind, cfg.MLNodeAddrs, oracle.DefaultRemoteTimeout))
		}
		logging.Info().Strs("nodes", cfg.MLNodeAddrs).Msg("oráculo remoto")
	default:
		var src oracle.Source = oracle.FileSource{Dir: cfg.ModelDir}
		if cfg.ModelSource == "mongo" {
			src = oracle.MongoSource{
				RatingRepo:     repository.NewRatingRepository(mdb),
				SimilarityRepo: repository.NewSimilarityRepository(mdb),
			}
		}
		oracle.LoadAll(ctx, reg, src, cfg.NeighborK)
	}

	// services
	recSvc := service.NewRecommendService(store, reg, recCache, history, cfg.MaxResults)
	router := handler.NewRouter(handler.Deps{
		Auth:         service.NewAuthService(store, recSvc, cfg.JWTSecret),
		Users:        service.NewUserService(store),
		Movies:       service.NewMovieService(store),
		Ratings:      service.NewRatingService(store, recSvc),
		Recommend:    recSvc,
		Oracles:      reg,
		CacheBackend: cfg.CacheBackend,
		JWTSecret:    cfg.JWTSecret,
		CORSOrigins:  cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logging.Info().
		Str("port", cfg.HTTPPort).
		Str("store", cfg.StoreBackend).
		Str("cache", cfg.CacheBackend).
		Str("oracle", cfg.OracleMode).
		Msg("HTTP escuchando")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Error().Err(err).Msg("servidor HTTP terminó con error")
	}
}
