// Package dataset lee y escribe los CSV de MovieLens (movie.csv, rating.csv)
// y las listas de vecinos precalculadas (id,neighbor,sim).
package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/models"
)

const (
	MoviesFile        = "movie.csv"
	RatingsFile       = "rating.csv"
	UserNeighborsFile = "user_neighbors.csv"
	ItemNeighborsFile = "item_neighbors.csv"
)

// ReadMovies lee movieId,title,genres.
func ReadMovies(path string) ([]models.Movie, error) {
	var out []models.Movie
	err := readRows(path, 3, func(rec []string) error {
		id, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			return fmt.Errorf("movieId %q: %w", rec[0], err)
		}
		out = append(out, models.Movie{MovieID: id, Title: rec[1], Genres: rec[2]})
		return nil
	})
	return out, err
}

// ReadRatings lee userId,movieId,rating,timestamp. El timestamp puede faltar o
// venir como fecha (export de Postgres); en ese caso queda en 0.
func ReadRatings(path string) ([]models.RatingDoc, error) {
	var out []models.RatingDoc
	err := readRows(path, 3, func(rec []string) error {
		u, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			return fmt.Errorf("userId %q: %w", rec[0], err)
		}
		m, err := strconv.Atoi(strings.TrimSpace(rec[1]))
		if err != nil {
			return fmt.Errorf("movieId %q: %w", rec[1], err)
		}
		r, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err != nil {
			return fmt.Errorf("rating %q: %w", rec[2], err)
		}
		var ts int64
		if len(rec) > 3 {
			ts, _ = strconv.ParseInt(strings.TrimSpace(rec[3]), 10, 64)
		}
		out = append(out, models.RatingDoc{UserID: u, MovieID: m, Rating: r, Timestamp: ts})
		return nil
	})
	return out, err
}

// AppendRatings agrega filas al final de rating.csv sin reescribir el archivo.
func AppendRatings(path string, rows []models.RatingDoc) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.UserID),
			strconv.Itoa(r.MovieID),
			strconv.FormatFloat(r.Rating, 'f', -1, 64),
			strconv.FormatInt(r.Timestamp, 10),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ReadNeighbors lee id,neighbor,sim y devuelve, por id, los vecinos ordenados
// por similitud descendente (empates por id ascendente).
func ReadNeighbors(path string) (map[int][]models.Neighbor, error) {
	out := make(map[int][]models.Neighbor)
	err := readRows(path, 3, func(rec []string) error {
		id, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			return fmt.Errorf("id %q: %w", rec[0], err)
		}
		nb, err := strconv.Atoi(strings.TrimSpace(rec[1]))
		if err != nil {
			return fmt.Errorf("neighbor %q: %w", rec[1], err)
		}
		sim, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err != nil {
			return fmt.Errorf("sim %q: %w", rec[2], err)
		}
		out[id] = append(out[id], models.Neighbor{ID: nb, Sim: sim})
		return nil
	})
	if err != nil {
		return nil, err
	}
	for id := range out {
		SortNeighbors(out[id])
	}
	return out, nil
}

func SortNeighbors(ns []models.Neighbor) {
	sort.SliceStable(ns, func(i, j int) bool {
		if ns[i].Sim != ns[j].Sim {
			return ns[i].Sim > ns[j].Sim
		}
		return ns[i].ID < ns[j].ID
	})
}

// readRows salta el encabezado y llama fn por cada fila con al menos minCols columnas.
func readRows(path string, minCols int, fn func(rec []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rd := csv.NewReader(bufio.NewReader(f))
	rd.FieldsPerRecord = -1
	rd.ReuseRecord = true

	if _, err := rd.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%s: header: %w", path, err)
	}

	line := 1
	for {
		rec, err := rd.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("%s:%d: %w", path, line, err)
		}
		if len(rec) < minCols {
			return fmt.Errorf("%s:%d: se esperaban %d columnas, hay %d", path, line, minCols, len(rec))
		}
		if err := fn(rec); err != nil {
			return fmt.Errorf("%s:%d: %w", path, line, err)
		}
	}
}
