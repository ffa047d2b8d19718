// Package align implements pairwise sequence alignment. It provides
// Needleman-Wunsch global and Smith-Waterman local alignment with full
// enumeration of co-optimal alignments, and the FOGSAA branch-and-bound
// global aligner. Sequences are plain strings; the scoring scheme is a
// match/mismatch/gap triple.
package align

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidScoring reports a scoring scheme the selected mode cannot use.
var ErrInvalidScoring = errors.New("invalid scoring scheme")

// Mode selects the alignment algorithm variant.
type Mode string

const (
	// ModeGlobal aligns both sequences end to end (Needleman-Wunsch).
	ModeGlobal Mode = "global"
	// ModeLocal finds the best-scoring subsequence alignment (Smith-Waterman).
	ModeLocal Mode = "local"
	// ModeFogsaa computes a single optimal global alignment via the Fast
	// Optimal Global Sequence Alignment Algorithm.
	ModeFogsaa Mode = "fogsaa"
)

// ParseMode converts a mode string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeGlobal, ModeLocal, ModeFogsaa:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown alignment mode %q (want global, local or fogsaa)", s)
}

// Scoring is the similarity scheme applied per alignment column.
// The zero value scores everything zero; DefaultScoring matches the
// conventional match=1, mismatch=0, gap=0 scheme.
type Scoring struct {
	Match    float64
	Mismatch float64
	Gap      float64
}

// DefaultScoring returns the default scheme: match 1, mismatch 0, gap 0.
func DefaultScoring() Scoring {
	return Scoring{Match: 1}
}

func (sc Scoring) substitution(a, b byte) float64 {
	if a == b {
		return sc.Match
	}
	return sc.Mismatch
}

// Alignment maps intervals of the target sequence onto intervals of the
// query. Blocks are half-open [start,end) index pairs; the k-th target
// block is aligned column by column to the k-th query block. Gaps fall
// between blocks.
type Alignment struct {
	Target [][2]int
	Query  [][2]int
}

// Result holds the co-optimal alignments of one target/query pair and the
// score they share.
type Result struct {
	Alignments []Alignment
	Score      float64
}

// DefaultMaxAlignments bounds how many co-optimal alignments a single call
// enumerates. Degenerate scoring schemes (zero gap and mismatch scores)
// admit combinatorially many optimal paths.
const DefaultMaxAlignments = 64

// Aligner computes pairwise alignments under a fixed mode and scoring
// scheme. The zero value is not usable; construct with New.
type Aligner struct {
	Mode    Mode
	Scoring Scoring

	// MaxAlignments caps co-optimal enumeration; zero means
	// DefaultMaxAlignments.
	MaxAlignments int
}

// New returns an Aligner for the given mode and scoring scheme.
func New(mode Mode, sc Scoring) *Aligner {
	return &Aligner{Mode: mode, Scoring: sc}
}

func (a *Aligner) maxAlignments() int {
	if a.MaxAlignments > 0 {
		return a.MaxAlignments
	}
	return DefaultMaxAlignments
}

// Align aligns query against target and returns every optimal alignment (up
// to MaxAlignments) together with the optimal score. An empty target or
// query yields an empty result with score zero. The context is checked
// between matrix rows so long-running alignments can be cancelled.
func (a *Aligner) Align(ctx context.Context, target, query string) (Result, error) {
	if target == "" || query == "" {
		return Result{}, nil
	}
	switch a.Mode {
	case ModeGlobal:
		return a.alignGlobal(ctx, target, query)
	case ModeLocal:
		return a.alignLocal(ctx, target, query)
	case ModeFogsaa:
		return a.alignFogsaa(ctx, target, query)
	}
	return Result{}, fmt.Errorf("unknown alignment mode %q", a.Mode)
}
