package recommend

import "sort"

// MaxCandidates acota las llamadas al oráculo por request.
const MaxCandidates = 500

// SelectCandidates devuelve all − rated. Si quedan más de MaxCandidates se
// conservan las más populares (más ratings), empates por movieId ascendente;
// en ese caso el orden es el de popularidad. Si no, el orden es por movieId.
// Una película sin entrada en popularity cuenta como 0.
func SelectCandidates(all, rated []int, popularity map[int]int) []int {
	seen := make(map[int]struct{}, len(rated))
	for _, id := range rated {
		seen[id] = struct{}{}
	}

	out := make([]int, 0, len(all))
	for _, id := range all {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	if len(out) <= MaxCandidates {
		sort.Ints(out)
		return out
	}

	sort.Slice(out, func(i, j int) bool {
		pi, pj := popularity[out[i]], popularity[out[j]]
		if pi != pj {
			return pi > pj
		}
		return out[i] < out[j]
	})
	return out[:MaxCandidates]
}
