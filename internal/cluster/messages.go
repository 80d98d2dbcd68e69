package cluster

// Tarea enviada desde la API a un nodo ML: predecir un lote de películas para un usuario.
type PredictTask struct {
	Kind     string `json:"kind"` // user | item
	UserID   int    `json:"userId"`
	MovieIDs []int  `json:"movieIds"`
}

// NodePrediction: Est nil o Impossible = el modelo no pudo estimar.
// Error no vacío = falló sólo este candidato.
type NodePrediction struct {
	MovieID    int      `json:"movieId"`
	Est        *float64 `json:"est,omitempty"`
	Impossible bool     `json:"impossible,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// Respuesta de un nodo ML a la API.
type PredictResponse struct {
	NodeID      string           `json:"nodeId"`
	Predictions []NodePrediction `json:"predictions"`
	// Error a nivel de tarea (p. ej. tipo de modelo no cargado en el nodo).
	Error string `json:"error,omitempty"`
}
