package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/models"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestReadMoviesQuotedTitle(t *testing.T) {
	p := writeFile(t, t.TempDir(), MoviesFile,
		"movieId,title,genres\n1,Toy Story (1995),Adventure|Animation\n2,\"American President, The (1995)\",Comedy|Drama\n")

	movies, err := ReadMovies(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(movies) != 2 {
		t.Fatalf("got %d movies, want 2", len(movies))
	}
	if movies[1].Title != "American President, The (1995)" {
		t.Errorf("title = %q", movies[1].Title)
	}
}

func TestReadRatingsAndAppend(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, RatingsFile, "userId,movieId,rating,timestamp\n1,10,4.5,1112486027\n")

	if err := AppendRatings(p, []models.RatingDoc{{UserID: 2, MovieID: 11, Rating: 3, Timestamp: 5}}); err != nil {
		t.Fatal(err)
	}

	rs, err := ReadRatings(p)
	if err != nil {
		t.Fatal(err)
	}
	want := []models.RatingDoc{
		{UserID: 1, MovieID: 10, Rating: 4.5, Timestamp: 1112486027},
		{UserID: 2, MovieID: 11, Rating: 3, Timestamp: 5},
	}
	if len(rs) != len(want) {
		t.Fatalf("got %d ratings, want %d", len(rs), len(want))
	}
	for i := range want {
		if rs[i] != want[i] {
			t.Errorf("rating[%d] = %+v, want %+v", i, rs[i], want[i])
		}
	}
}

func TestReadRatingsBadValue(t *testing.T) {
	p := writeFile(t, t.TempDir(), RatingsFile, "userId,movieId,rating\n1,x,4\n")
	if _, err := ReadRatings(p); err == nil {
		t.Fatal("expected error for non numeric movieId")
	}
}

func TestReadNeighborsSorted(t *testing.T) {
	p := writeFile(t, t.TempDir(), ItemNeighborsFile, "id,neighbor,sim\n1,3,0.2\n1,2,0.9\n1,4,0.2\n5,1,0.5\n")

	nb, err := ReadNeighbors(p)
	if err != nil {
		t.Fatal(err)
	}
	got := nb[1]
	want := []models.Neighbor{{ID: 2, Sim: 0.9}, {ID: 3, Sim: 0.2}, {ID: 4, Sim: 0.2}}
	if len(got) != len(want) {
		t.Fatalf("neighbors = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("neighbor[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
	if len(nb[5]) != 1 {
		t.Errorf("neighbors of 5 = %v", nb[5])
	}
}
