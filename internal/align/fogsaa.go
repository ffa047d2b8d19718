package align

import (
	"container/heap"
	"context"
	"fmt"
	"math"
)

// alignFogsaa implements the Fast Optimal Global Sequence Alignment
// Algorithm: a best-first branch-and-bound search over the alignment lattice.
// Each partial alignment carries an optimistic and a pessimistic bound on its
// final score; the most promising branch is expanded first and branches whose
// optimistic bound cannot beat the best complete alignment are pruned. Unlike
// the full dynamic program it returns a single optimal alignment.
func (a *Aligner) alignFogsaa(ctx context.Context, target, query string) (Result, error) {
	sc := a.Scoring
	if sc.Match <= sc.Mismatch || sc.Match <= sc.Gap {
		return Result{}, fmt.Errorf(
			"%w: fogsaa requires the match score (%g) to exceed the mismatch (%g) and gap (%g) scores",
			ErrInvalidScoring, sc.Match, sc.Mismatch, sc.Gap)
	}

	n, mlen := len(target), len(query)

	// Optimistic and pessimistic bounds on the score still obtainable from
	// cell (i, j): pair up as much as possible, gap the length difference.
	futureMax := func(i, j int) float64 {
		p, q := n-i, mlen-j
		d := p - q
		if d < 0 {
			d = -d
		}
		return float64(min(p, q))*sc.Match + float64(d)*sc.Gap
	}
	futureMin := func(i, j int) float64 {
		p, q := n-i, mlen-j
		d := p - q
		if d < 0 {
			d = -d
		}
		return float64(min(p, q))*sc.Mismatch + float64(d)*sc.Gap
	}

	root := &fogsaaNode{}
	root.tmax = futureMax(0, 0)
	root.tmin = futureMin(0, 0)

	pq := &fogsaaQueue{root}
	heap.Init(pq)

	// Per-cell best present score; a branch reaching a cell with no better
	// score than a previous visit is dominated and dropped.
	visited := make(map[[2]int]float64)
	visited[[2]int{0, 0}] = 0

	bestScore := math.Inf(-1)
	var bestLeaf *fogsaaNode

	for steps := 0; pq.Len() > 0; steps++ {
		if steps%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
		}

		cur := heap.Pop(pq).(*fogsaaNode)
		if bestLeaf != nil && cur.tmax <= bestScore {
			break
		}
		if cur.i == n && cur.j == mlen {
			if cur.score > bestScore {
				bestScore = cur.score
				bestLeaf = cur
			}
			continue
		}

		expand := func(di, dj int, gain float64) {
			i, j := cur.i+di, cur.j+dj
			score := cur.score + gain
			if prev, ok := visited[[2]int{i, j}]; ok && score <= prev {
				return
			}
			visited[[2]int{i, j}] = score
			child := &fogsaaNode{
				i:      i,
				j:      j,
				score:  score,
				tmax:   score + futureMax(i, j),
				tmin:   score + futureMin(i, j),
				parent: cur,
				move:   step{di, dj},
			}
			if bestLeaf != nil && child.tmax <= bestScore {
				return
			}
			heap.Push(pq, child)
		}

		if cur.i < n && cur.j < mlen {
			expand(1, 1, sc.substitution(target[cur.i], query[cur.j]))
		}
		if cur.i < n {
			expand(1, 0, sc.Gap)
		}
		if cur.j < mlen {
			expand(0, 1, sc.Gap)
		}
	}

	if bestLeaf == nil {
		return Result{}, fmt.Errorf("fogsaa search exhausted without a complete alignment")
	}

	// Rebuild the move sequence root-to-leaf.
	var rev []step
	for node := bestLeaf; node.parent != nil; node = node.parent {
		rev = append(rev, node.move)
	}
	forward := make([]step, len(rev))
	for k, s := range rev {
		forward[len(rev)-1-k] = s
	}

	return Result{
		Alignments: []Alignment{blocksFromSteps(forward, 0, 0)},
		Score:      bestScore,
	}, nil
}

type fogsaaNode struct {
	i, j   int
	score  float64
	tmax   float64 // optimistic final score
	tmin   float64 // pessimistic final score
	parent *fogsaaNode
	move   step
}

// fogsaaQueue orders nodes by optimistic bound, breaking ties on the
// pessimistic bound.
type fogsaaQueue []*fogsaaNode

func (q fogsaaQueue) Len() int { return len(q) }
func (q fogsaaQueue) Less(x, y int) bool {
	if q[x].tmax != q[y].tmax {
		return q[x].tmax > q[y].tmax
	}
	return q[x].tmin > q[y].tmin
}
func (q fogsaaQueue) Swap(x, y int) { q[x], q[y] = q[y], q[x] }

func (q *fogsaaQueue) Push(v any) { *q = append(*q, v.(*fogsaaNode)) }
func (q *fogsaaQueue) Pop() any {
	old := *q
	n := len(old)
	v := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return v
}
