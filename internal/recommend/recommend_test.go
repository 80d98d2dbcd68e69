package recommend

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/models"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/oracle"
)

type fakeCatalog struct {
	users  map[int]bool
	movies map[int]models.MovieInfo
	rated  map[int][]int
	pop    map[int]int
	err    error
}

func (f *fakeCatalog) UserExists(_ context.Context, id int) (bool, error) {
	return f.users[id], f.err
}

func (f *fakeCatalog) AllMovieIDs(context.Context) ([]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	ids := make([]int, 0, len(f.movies))
	for id := range f.movies {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeCatalog) RatedMovieIDs(_ context.Context, id int) ([]int, error) {
	return f.rated[id], f.err
}

func (f *fakeCatalog) Popularity(context.Context) (map[int]int, error) {
	return f.pop, f.err
}

func (f *fakeCatalog) MovieInfo(_ context.Context, ids []int) (map[int]models.MovieInfo, error) {
	out := make(map[int]models.MovieInfo, len(ids))
	for _, id := range ids {
		if mi, ok := f.movies[id]; ok {
			out[id] = mi
		}
	}
	return out, f.err
}

// scriptedOracle responde según el mapa y cuenta invocaciones.
type scriptedOracle struct {
	results map[int]oracle.Result
	calls   atomic.Int64
}

func (o *scriptedOracle) Predict(_ context.Context, _ int, movieID int) oracle.Result {
	o.calls.Add(1)
	if r, ok := o.results[movieID]; ok {
		return r
	}
	return oracle.Infeasible()
}

// scenarioCatalog: usuario 1 calificó {1,2}; catálogo {1..5}.
func scenarioCatalog() *fakeCatalog {
	movies := map[int]models.MovieInfo{}
	for id := 1; id <= 5; id++ {
		movies[id] = models.MovieInfo{Title: "Movie " + string(rune('A'+id-1)), Genres: "Drama"}
	}
	return &fakeCatalog{
		users:  map[int]bool{1: true},
		movies: movies,
		rated:  map[int][]int{1: {1, 2}},
		pop:    map[int]int{},
	}
}

func scenarioOracle() *scriptedOracle {
	return &scriptedOracle{results: map[int]oracle.Result{
		3: oracle.Feasible(4.5),
		4: oracle.Feasible(3.1),
		5: oracle.Feasible(2.0),
	}}
}

func movieIDs(preds []models.RatingPrediction) []int {
	out := make([]int, len(preds))
	for i, p := range preds {
		out[i] = p.MovieID
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestComputeUnfilteredScenario(t *testing.T) {
	got, err := Compute(context.Background(), scenarioCatalog(), scenarioOracle(), Request{Kind: models.KindUser, UserID: 1})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if want := []int{3, 4, 5}; !equalInts(movieIDs(got), want) {
		t.Fatalf("order = %v, want %v", movieIDs(got), want)
	}
	wantRatings := []float64{4.5, 3.1, 2.0}
	for i, p := range got {
		if p.PredictedRating != wantRatings[i] {
			t.Errorf("movie %d rating = %v, want %v", p.MovieID, p.PredictedRating, wantRatings[i])
		}
	}
	if got[0].Title != "Movie C" || got[0].Genres != "Drama" {
		t.Errorf("movie 3 info = %+v", got[0])
	}
}

func TestComputeFilteredScenario(t *testing.T) {
	tests := []struct {
		filter models.FilterSpec
		want   []int
	}{
		{models.FilterSpec{2}, []int{5}},
		{models.FilterSpec{3}, []int{4}},
		{models.FilterSpec{4}, []int{3}},
		{models.FilterSpec{4, 2}, []int{3, 5}},
		{models.FilterSpec{1}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.filter.String(), func(t *testing.T) {
			got, err := Compute(context.Background(), scenarioCatalog(), scenarioOracle(),
				Request{Kind: models.KindItem, UserID: 1, Filter: tt.filter})
			if err != nil {
				t.Fatalf("Compute: %v", err)
			}
			if !equalInts(movieIDs(got), tt.want) {
				t.Errorf("got %v, want %v", movieIDs(got), tt.want)
			}
		})
	}
}

func TestComputeUnknownUser(t *testing.T) {
	o := scenarioOracle()
	_, err := Compute(context.Background(), scenarioCatalog(), o, Request{Kind: models.KindUser, UserID: 99})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if o.calls.Load() != 0 {
		t.Errorf("oracle called %d times for unknown user", o.calls.Load())
	}
}

func TestComputeCatalogError(t *testing.T) {
	cat := scenarioCatalog()
	cat.err = errors.New("db down")
	if _, err := Compute(context.Background(), cat, scenarioOracle(), Request{UserID: 1}); err == nil {
		t.Error("expected catalog error to propagate")
	}
}

// snapshotCatalog sólo responde por Snapshot; las lecturas sueltas fallan.
type snapshotCatalog struct {
	*fakeCatalog
	snap  Snapshot
	calls int
}

func (c *snapshotCatalog) Snapshot(_ context.Context, userID int) (Snapshot, error) {
	c.calls++
	if userID != 1 {
		return Snapshot{}, nil
	}
	return c.snap, nil
}

func TestComputeUsesCatalogSnapshot(t *testing.T) {
	base := scenarioCatalog()
	info := map[int]models.MovieInfo{3: base.movies[3], 4: base.movies[4], 5: base.movies[5]}
	base.err = errors.New("piecewise read")
	cat := &snapshotCatalog{fakeCatalog: base, snap: Snapshot{UserExists: true, Candidates: []int{3, 4, 5}, Info: info}}

	got, err := Compute(context.Background(), cat, scenarioOracle(), Request{Kind: models.KindUser, UserID: 1})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if want := []int{3, 4, 5}; !equalInts(movieIDs(got), want) {
		t.Errorf("order = %v, want %v", movieIDs(got), want)
	}
	if got[0].Title != "Movie C" {
		t.Errorf("movie 3 info = %+v", got[0])
	}

	_, err = Compute(context.Background(), cat, scenarioOracle(), Request{Kind: models.KindUser, UserID: 99})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown user err = %v, want ErrNotFound", err)
	}
	if cat.calls != 2 {
		t.Errorf("snapshot calls = %d, want 2", cat.calls)
	}
}

func TestComputeAllFailedIsUnavailable(t *testing.T) {
	down := errors.New("connection refused")
	tests := []struct {
		name    string
		results map[int]oracle.Result
		wantErr bool
		want    []int
	}{
		{"all failed", map[int]oracle.Result{3: oracle.Failed(down), 4: oracle.Failed(down), 5: oracle.Failed(down)}, true, nil},
		{"one answered", map[int]oracle.Result{3: oracle.Failed(down), 4: oracle.Feasible(3.5), 5: oracle.Failed(down)}, false, []int{4}},
		{"all infeasible", map[int]oracle.Result{}, false, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &scriptedOracle{results: tt.results}
			got, err := Compute(context.Background(), scenarioCatalog(), o, Request{Kind: models.KindUser, UserID: 1})
			if tt.wantErr {
				if !errors.Is(err, oracle.ErrUnavailable) {
					t.Fatalf("err = %v, want ErrUnavailable", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Compute: %v", err)
			}
			if !equalInts(movieIDs(got), tt.want) {
				t.Errorf("got %v, want %v", movieIDs(got), tt.want)
			}
		})
	}
}

func TestComputeNoCandidatesIsNotAnOutage(t *testing.T) {
	cat := scenarioCatalog()
	cat.rated[1] = []int{1, 2, 3, 4, 5}
	got, err := Compute(context.Background(), cat, scenarioOracle(), Request{Kind: models.KindItem, UserID: 1})
	if err != nil || len(got) != 0 {
		t.Errorf("got %v, %v; want empty list and nil error", got, err)
	}
}

func TestComputeBoundsOracleCalls(t *testing.T) {
	cat := &fakeCatalog{
		users:  map[int]bool{1: true},
		movies: map[int]models.MovieInfo{},
		rated:  map[int][]int{1: {1}},
		pop:    map[int]int{},
	}
	o := &scriptedOracle{results: map[int]oracle.Result{}}
	for id := 1; id <= 2000; id++ {
		cat.movies[id] = models.MovieInfo{Title: "m"}
		o.results[id] = oracle.Feasible(3)
	}

	got, err := Compute(context.Background(), cat, o, Request{Kind: models.KindItem, UserID: 1, MaxResults: DefaultMaxResults})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if n := o.calls.Load(); n != MaxCandidates {
		t.Errorf("oracle calls = %d, want %d", n, MaxCandidates)
	}
	if len(got) != DefaultMaxResults {
		t.Errorf("len = %d, want %d", len(got), DefaultMaxResults)
	}
	// Todos empatan en 3.0: el desempate por movieId deja 2..101.
	if got[0].MovieID != 2 || got[len(got)-1].MovieID != 101 {
		t.Errorf("first/last = %d/%d, want 2/101", got[0].MovieID, got[len(got)-1].MovieID)
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	cat := scenarioCatalog()
	o := scenarioOracle()
	o.results[3] = oracle.Feasible(3.1)

	first, err := Compute(context.Background(), cat, o, Request{UserID: 1})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		again, _ := Compute(context.Background(), cat, o, Request{UserID: 1})
		if !equalInts(movieIDs(first), movieIDs(again)) {
			t.Fatalf("run %d: %v != %v", i, movieIDs(again), movieIDs(first))
		}
	}
	if want := []int{3, 4, 5}; !equalInts(movieIDs(first), want) {
		t.Errorf("tie order = %v, want %v", movieIDs(first), want)
	}
}
