package analytics

import "convolog/pkg/models"

// BuildMatrix derives the directed participant interaction matrix from
// replies and reactions. A reply whose thread root was authored by a
// different participant counts one matrix[replier][rootAuthor]; a
// reaction on a different participant's message counts one
// matrix[user][author]. Self-interactions are excluded by definition,
// so matrix[u][u] is always absent (reads as zero). The matrix is
// asymmetric in general.
func BuildMatrix(msgs []models.Message, reactions []models.Reaction) map[string]map[string]int {
	matrix := make(map[string]map[string]int)
	inc := func(from, to string) {
		if from == to {
			return
		}
		row := matrix[from]
		if row == nil {
			row = make(map[string]int)
			matrix[from] = row
		}
		row[to]++
	}
	for _, m := range msgs {
		if m.ThreadID == nil {
			continue
		}
		root := *m.ThreadID
		if root < 0 || root >= len(msgs) {
			continue
		}
		inc(m.Sender, msgs[root].Sender)
	}
	for _, rx := range reactions {
		if rx.MessageIndex < 0 || rx.MessageIndex >= len(msgs) {
			continue
		}
		inc(rx.User, msgs[rx.MessageIndex].Sender)
	}
	return matrix
}

// Undirected folds a directed matrix into symmetric pair weights:
// weight[a][b] == weight[b][a] == matrix[a][b] + matrix[b][a]. Useful
// for callers that only care how much two participants talk, not who
// initiates.
func Undirected(matrix map[string]map[string]int) map[string]map[string]int {
	out := make(map[string]map[string]int)
	set := func(a, b string, n int) {
		row := out[a]
		if row == nil {
			row = make(map[string]int)
			out[a] = row
		}
		row[b] += n
	}
	for from, row := range matrix {
		for to, n := range row {
			set(from, to, n)
			set(to, from, n)
		}
	}
	return out
}
