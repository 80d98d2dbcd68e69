package oracle

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/dataset"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/models"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadFromFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, dataset.RatingsFile, "userId,movieId,rating,timestamp\n1,10,4,0\n1,11,2,0\n2,12,5,0\n")
	writeFile(t, dir, dataset.ItemNeighborsFile, "movieId,neighbor,sim\n12,10,0.5\n12,11,0.5\n")

	m, err := Load(context.Background(), models.KindItem, FileSource{Dir: dir})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	res := NewKNN(m, 0).Predict(context.Background(), 1, 12)
	if res.Status != StatusFeasible || !almostEqual(res.Estimate, 3) {
		t.Errorf("result = %+v, want feasible 3", res)
	}
}

func TestLoadMissingNeighborsFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, dataset.RatingsFile, "userId,movieId,rating\n1,10,4\n")

	if _, err := Load(context.Background(), models.KindUser, FileSource{Dir: dir}); err == nil {
		t.Error("expected error when user_neighbors.csv is missing")
	}

	writeFile(t, dir, dataset.UserNeighborsFile, "userId,neighbor,sim\n")
	if _, err := Load(context.Background(), models.KindUser, FileSource{Dir: dir}); err == nil {
		t.Error("expected error for empty neighbor lists")
	}
}

func TestLoadAllRegistersWhatLoads(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, dataset.RatingsFile, "userId,movieId,rating,timestamp\n1,10,4,0\n1,11,2,0\n2,12,5,0\n")
	writeFile(t, dir, dataset.ItemNeighborsFile, "movieId,neighbor,sim\n12,10,0.5\n12,11,0.5\n")

	reg := NewRegistry()
	LoadAll(context.Background(), reg, FileSource{Dir: dir}, 40)

	if _, err := reg.Get(models.KindItem); err != nil {
		t.Errorf("item model: %v", err)
	}
	if _, err := reg.Get(models.KindUser); !errors.Is(err, ErrUnavailable) {
		t.Errorf("user model err = %v, want ErrUnavailable", err)
	}
}
