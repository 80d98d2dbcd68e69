package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/config"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/logging"
)

// Connect abre el cliente, hace ping y devuelve la base configurada.
// El llamador cierra el cliente con Disconnect.
func Connect(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	logging.Info().Str("uri", cfg.MongoURI).Str("db", cfg.MongoDB).Msg("[mongo] conectado")
	return client, client.Database(cfg.MongoDB), nil
}

func Disconnect(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		logging.Warn().Err(err).Msg("[mongo] error al desconectar")
	}
}
