package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/cluster"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/config"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/db"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/logging"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/oracle"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/repository"
)

// Nodo ML: carga los modelos de vecinos y responde tareas de predicción por TCP.
func main() {
	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log := logging.With("mlnode").With().Str("node", cfg.NodeID).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var src oracle.Source = oracle.FileSource{Dir: cfg.ModelDir}
	if cfg.ModelSource == "mongo" {
		client, database, err := db.Connect(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("no se pudo conectar a Mongo")
		}
		defer db.Disconnect(client)
		src = oracle.MongoSource{
			RatingRepo:     repository.NewRatingRepository(database),
			SimilarityRepo: repository.NewSimilarityRepository(database),
		}
	}

	reg := oracle.NewRegistry()
	oracle.LoadAll(ctx, reg, src, cfg.NeighborK)

	ln, err := net.Listen("tcp", cfg.MLNodeAddr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.MLNodeAddr).Msg("listen")
	}
	log.Info().Str("addr", cfg.MLNodeAddr).Msg("escuchando")

	if err := cluster.Serve(ctx, ln, oracle.NodeHandler(cfg.NodeID, reg), log); err != nil {
		log.Error().Err(err).Msg("serve")
	}
	log.Info().Msg("nodo detenido")
}
