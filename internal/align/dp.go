package align

import (
	"context"
	"fmt"
)

// step is one traceback move expressed as index deltas: {1,0} consumes a
// target character against a gap, {0,1} consumes a query character against a
// gap, {1,1} pairs a target and a query character.
type step struct {
	di, dj int
}

// matrix is a dense (len(target)+1) x (len(query)+1) score matrix.
type matrix struct {
	cols  int
	cells []float64
}

func newMatrix(rows, cols int) *matrix {
	return &matrix{cols: cols, cells: make([]float64, rows*cols)}
}

func (m *matrix) at(i, j int) float64     { return m.cells[i*m.cols+j] }
func (m *matrix) set(i, j int, v float64) { m.cells[i*m.cols+j] = v }

func (a *Aligner) alignGlobal(ctx context.Context, target, query string) (Result, error) {
	n, mlen := len(target), len(query)
	h, err := a.fill(ctx, target, query, false)
	if err != nil {
		return Result{}, err
	}

	tb := &traceback{
		target: target,
		query:  query,
		sc:     a.Scoring,
		h:      h,
		limit:  a.maxAlignments(),
	}
	tb.walk(n, mlen)
	return Result{Alignments: tb.found, Score: h.at(n, mlen)}, nil
}

func (a *Aligner) alignLocal(ctx context.Context, target, query string) (Result, error) {
	n, mlen := len(target), len(query)
	h, err := a.fill(ctx, target, query, true)
	if err != nil {
		return Result{}, err
	}

	best := 0.0
	for i := 1; i <= n; i++ {
		for j := 1; j <= mlen; j++ {
			if v := h.at(i, j); v > best {
				best = v
			}
		}
	}
	if best == 0 {
		// Nothing scored above the empty alignment.
		return Result{}, nil
	}

	// End cells are visited in row-major order so output is deterministic.
	type cell struct{ i, j int }
	var ends []cell
	for i := 1; i <= n; i++ {
		for j := 1; j <= mlen; j++ {
			if h.at(i, j) == best {
				ends = append(ends, cell{i, j})
			}
		}
	}

	tb := &traceback{
		target: target,
		query:  query,
		sc:     a.Scoring,
		h:      h,
		local:  true,
		limit:  a.maxAlignments(),
	}
	for _, e := range ends {
		tb.walk(e.i, e.j)
		if len(tb.found) >= tb.limit {
			break
		}
	}
	return Result{Alignments: tb.found, Score: best}, nil
}

// fill computes the dynamic-programming score matrix. When local is set the
// recurrence clamps at zero (Smith-Waterman); otherwise the first row and
// column accumulate gap scores (Needleman-Wunsch).
func (a *Aligner) fill(ctx context.Context, target, query string, local bool) (*matrix, error) {
	n, mlen := len(target), len(query)
	sc := a.Scoring
	h := newMatrix(n+1, mlen+1)

	if !local {
		for i := 1; i <= n; i++ {
			h.set(i, 0, float64(i)*sc.Gap)
		}
		for j := 1; j <= mlen; j++ {
			h.set(0, j, float64(j)*sc.Gap)
		}
	}

	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j := 1; j <= mlen; j++ {
			v := h.at(i-1, j-1) + sc.substitution(target[i-1], query[j-1])
			if up := h.at(i-1, j) + sc.Gap; up > v {
				v = up
			}
			if left := h.at(i, j-1) + sc.Gap; left > v {
				v = left
			}
			if local && v < 0 {
				v = 0
			}
			h.set(i, j, v)
		}
	}
	return h, nil
}

// traceback enumerates optimal paths through a filled score matrix by
// depth-first search from an end cell. Predecessors are explored in a fixed
// order (target gap, query gap, diagonal) so enumeration is deterministic.
type traceback struct {
	target, query string
	sc            Scoring
	h             *matrix
	local         bool
	limit         int

	path  []step // reverse order: end cell towards start cell
	found []Alignment
	seen  map[string]bool
}

func (t *traceback) walk(i, j int) {
	if len(t.found) >= t.limit {
		return
	}
	if t.done(i, j) {
		t.emit(i, j)
		return
	}

	v := t.h.at(i, j)
	if i > 0 && t.h.at(i-1, j)+t.sc.Gap == v {
		t.path = append(t.path, step{1, 0})
		t.walk(i-1, j)
		t.path = t.path[:len(t.path)-1]
	}
	if j > 0 && t.h.at(i, j-1)+t.sc.Gap == v {
		t.path = append(t.path, step{0, 1})
		t.walk(i, j-1)
		t.path = t.path[:len(t.path)-1]
	}
	if i > 0 && j > 0 && t.h.at(i-1, j-1)+t.sc.substitution(t.target[i-1], t.query[j-1]) == v {
		t.path = append(t.path, step{1, 1})
		t.walk(i-1, j-1)
		t.path = t.path[:len(t.path)-1]
	}
}

func (t *traceback) done(i, j int) bool {
	if t.local {
		return t.h.at(i, j) == 0
	}
	return i == 0 && j == 0
}

func (t *traceback) emit(startI, startJ int) {
	// t.path runs backwards from the end cell; reverse into forward order.
	forward := make([]step, len(t.path))
	for k, s := range t.path {
		forward[len(t.path)-1-k] = s
	}
	al := blocksFromSteps(forward, startI, startJ)

	// Paths that differ only by leading or trailing gaps collapse to the
	// same block structure; keep one copy.
	key := fmt.Sprintf("%v|%v", al.Target, al.Query)
	if t.seen == nil {
		t.seen = make(map[string]bool)
	}
	if t.seen[key] {
		return
	}
	t.seen[key] = true
	t.found = append(t.found, al)
}

// blocksFromSteps converts a forward move sequence starting at matrix cell
// (startI, startJ) into aligned block lists. Consecutive diagonal moves merge
// into one block per sequence.
func blocksFromSteps(steps []step, startI, startJ int) Alignment {
	var al Alignment
	i, j := startI, startJ
	open := false
	var tb, qb [2]int
	for _, s := range steps {
		if s.di == 1 && s.dj == 1 {
			if open && tb[1] == i && qb[1] == j {
				tb[1]++
				qb[1]++
			} else {
				if open {
					al.Target = append(al.Target, tb)
					al.Query = append(al.Query, qb)
				}
				tb = [2]int{i, i + 1}
				qb = [2]int{j, j + 1}
				open = true
			}
		}
		i += s.di
		j += s.dj
	}
	if open {
		al.Target = append(al.Target, tb)
		al.Query = append(al.Query, qb)
	}
	return al
}
