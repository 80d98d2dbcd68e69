package cluster

import (
	"bufio"
	"context"
	"errors"
	"net"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// HandlerFunc resuelve una tarea en el nodo.
type HandlerFunc func(ctx context.Context, task *PredictTask) *PredictResponse

// Serve acepta conexiones hasta que ctx se cancele; cada conexión lleva una tarea.
func Serve(ctx context.Context, ln net.Listener, h HandlerFunc, log zerolog.Logger) error {
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Warn().Err(err).Msg("accept error")
			continue
		}
		go handleConn(ctx, conn, h, log)
	}
}

func handleConn(ctx context.Context, conn net.Conn, h HandlerFunc, log zerolog.Logger) {
	defer conn.Close()

	var task PredictTask
	if err := json.NewDecoder(bufio.NewReader(conn)).Decode(&task); err != nil {
		log.Warn().Err(err).Msg("decode task error")
		return
	}

	start := time.Now()
	resp := h(ctx, &task)

	log.Info().
		Str("kind", task.Kind).
		Int("user", task.UserID).
		Int("movies", len(task.MovieIDs)).
		Dur("elapsed", time.Since(start)).
		Msg("tarea completada")

	if err := json.NewEncoder(conn).Encode(resp); err != nil {
		log.Warn().Err(err).Msg("encode resp error")
	}
}
