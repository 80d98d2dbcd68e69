package cluster

import (
	"bufio"
	"context"
	"net"

	"github.com/goccy/go-json"
)

// SendTask abre una conexión TCP, envía la tarea como JSON y espera una respuesta.
func SendTask(ctx context.Context, addr string, task *PredictTask) (*PredictResponse, error) {
	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if err := json.NewEncoder(conn).Encode(task); err != nil {
		return nil, err
	}

	var resp PredictResponse
	if err := json.NewDecoder(bufio.NewReader(conn)).Decode(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
