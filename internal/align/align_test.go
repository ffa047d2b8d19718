package align

import (
	"context"
	"reflect"
	"testing"
)

func TestParseMode(t *testing.T) {
	for _, s := range []string{"global", "local", "fogsaa"} {
		m, err := ParseMode(s)
		if err != nil {
			t.Fatalf("ParseMode(%q) error: %v", s, err)
		}
		if string(m) != s {
			t.Fatalf("ParseMode(%q) = %q", s, m)
		}
	}
	if _, err := ParseMode("semiglobal"); err == nil {
		t.Fatal("ParseMode(semiglobal) expected error")
	}
	if _, err := ParseMode(""); err == nil {
		t.Fatal("ParseMode(empty) expected error")
	}
}

func TestLocalAlignDefaultScores(t *testing.T) {
	a := New(ModeLocal, DefaultScoring())
	res, err := a.Align(context.Background(), "GAAT", "GAT")
	if err != nil {
		t.Fatalf("Align error: %v", err)
	}
	if res.Score != 3.0 {
		t.Fatalf("score = %v, want 3.0", res.Score)
	}

	want := []Alignment{
		{Target: [][2]int{{0, 2}, {3, 4}}, Query: [][2]int{{0, 2}, {2, 3}}},
		{Target: [][2]int{{0, 1}, {2, 4}}, Query: [][2]int{{0, 1}, {1, 3}}},
	}
	if !reflect.DeepEqual(res.Alignments, want) {
		t.Fatalf("alignments = %v, want %v", res.Alignments, want)
	}
}

func TestAlignDeterministic(t *testing.T) {
	a := New(ModeLocal, DefaultScoring())
	first, err := a.Align(context.Background(), "GAAT", "GAT")
	if err != nil {
		t.Fatalf("first Align error: %v", err)
	}
	second, err := a.Align(context.Background(), "GAAT", "GAT")
	if err != nil {
		t.Fatalf("second Align error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated alignment differs: %v vs %v", first, second)
	}
}

func TestGlobalAlignDefaultScores(t *testing.T) {
	a := New(ModeGlobal, DefaultScoring())
	res, err := a.Align(context.Background(), "GATT", "GAT")
	if err != nil {
		t.Fatalf("Align error: %v", err)
	}
	if res.Score != 3.0 {
		t.Fatalf("score = %v, want 3.0", res.Score)
	}

	want := []Alignment{
		{Target: [][2]int{{0, 3}}, Query: [][2]int{{0, 3}}},
		{Target: [][2]int{{0, 2}, {3, 4}}, Query: [][2]int{{0, 2}, {2, 3}}},
	}
	if !reflect.DeepEqual(res.Alignments, want) {
		t.Fatalf("alignments = %v, want %v", res.Alignments, want)
	}
}

func TestGlobalAlignWithGapPenalty(t *testing.T) {
	a := New(ModeGlobal, Scoring{Match: 2, Mismatch: -1, Gap: -2})
	res, err := a.Align(context.Background(), "ACGT", "AGT")
	if err != nil {
		t.Fatalf("Align error: %v", err)
	}
	if res.Score != 4.0 {
		t.Fatalf("score = %v, want 4.0", res.Score)
	}
	want := []Alignment{
		{Target: [][2]int{{0, 1}, {2, 4}}, Query: [][2]int{{0, 1}, {1, 3}}},
	}
	if !reflect.DeepEqual(res.Alignments, want) {
		t.Fatalf("alignments = %v, want %v", res.Alignments, want)
	}
}

func TestLocalAlignNoDuplicateFromTrailingGaps(t *testing.T) {
	// With zero gap scores the plateau after the match produces extra
	// maximum cells whose tracebacks collapse to the same alignment.
	a := New(ModeLocal, DefaultScoring())
	res, err := a.Align(context.Background(), "GA", "G")
	if err != nil {
		t.Fatalf("Align error: %v", err)
	}
	if res.Score != 1.0 {
		t.Fatalf("score = %v, want 1.0", res.Score)
	}
	want := []Alignment{
		{Target: [][2]int{{0, 1}}, Query: [][2]int{{0, 1}}},
	}
	if !reflect.DeepEqual(res.Alignments, want) {
		t.Fatalf("alignments = %v, want %v", res.Alignments, want)
	}
}

func TestFogsaaMatchesGlobalScore(t *testing.T) {
	sc := Scoring{Match: 2, Mismatch: -1, Gap: -2}

	global, err := New(ModeGlobal, sc).Align(context.Background(), "ACGT", "AGT")
	if err != nil {
		t.Fatalf("global Align error: %v", err)
	}
	fogsaa, err := New(ModeFogsaa, sc).Align(context.Background(), "ACGT", "AGT")
	if err != nil {
		t.Fatalf("fogsaa Align error: %v", err)
	}

	if fogsaa.Score != global.Score {
		t.Fatalf("fogsaa score = %v, global score = %v", fogsaa.Score, global.Score)
	}
	if len(fogsaa.Alignments) != 1 {
		t.Fatalf("fogsaa returned %d alignments, want 1", len(fogsaa.Alignments))
	}
	// The optimum is unique for this pair, so the block structure must match.
	if !reflect.DeepEqual(fogsaa.Alignments[0], global.Alignments[0]) {
		t.Fatalf("fogsaa alignment = %v, want %v", fogsaa.Alignments[0], global.Alignments[0])
	}
}

func TestFogsaaDefaultScores(t *testing.T) {
	a := New(ModeFogsaa, DefaultScoring())
	res, err := a.Align(context.Background(), "GATT", "GAT")
	if err != nil {
		t.Fatalf("Align error: %v", err)
	}
	if res.Score != 3.0 {
		t.Fatalf("score = %v, want 3.0", res.Score)
	}
	if len(res.Alignments) != 1 {
		t.Fatalf("got %d alignments, want 1", len(res.Alignments))
	}
	checkBlocks(t, res.Alignments[0], len("GATT"), len("GAT"))
}

func TestFogsaaRejectsDegenerateScoring(t *testing.T) {
	cases := []Scoring{
		{Match: 0, Mismatch: 0, Gap: 0},
		{Match: 1, Mismatch: 1, Gap: 0},
		{Match: 1, Mismatch: 0, Gap: 1},
		{Match: -1, Mismatch: 0, Gap: 0},
	}
	for _, sc := range cases {
		if _, err := New(ModeFogsaa, sc).Align(context.Background(), "AC", "AC"); err == nil {
			t.Fatalf("scoring %+v: expected error", sc)
		}
	}
}

func TestAlignEmptySequences(t *testing.T) {
	for _, mode := range []Mode{ModeGlobal, ModeLocal, ModeFogsaa} {
		a := New(mode, DefaultScoring())
		for _, pair := range [][2]string{{"", "GAT"}, {"GAAT", ""}, {"", ""}} {
			res, err := a.Align(context.Background(), pair[0], pair[1])
			if err != nil {
				t.Fatalf("mode %s %q/%q: error %v", mode, pair[0], pair[1], err)
			}
			if res.Score != 0 || len(res.Alignments) != 0 {
				t.Fatalf("mode %s %q/%q: got %+v, want empty result", mode, pair[0], pair[1], res)
			}
		}
	}
}

func TestMaxAlignmentsCap(t *testing.T) {
	a := New(ModeLocal, DefaultScoring())
	a.MaxAlignments = 1
	res, err := a.Align(context.Background(), "GAAT", "GAT")
	if err != nil {
		t.Fatalf("Align error: %v", err)
	}
	if len(res.Alignments) != 1 {
		t.Fatalf("got %d alignments, want 1", len(res.Alignments))
	}
	want := Alignment{Target: [][2]int{{0, 2}, {3, 4}}, Query: [][2]int{{0, 2}, {2, 3}}}
	if !reflect.DeepEqual(res.Alignments[0], want) {
		t.Fatalf("alignment = %v, want %v", res.Alignments[0], want)
	}
}

func TestAlignCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, mode := range []Mode{ModeGlobal, ModeLocal, ModeFogsaa} {
		if _, err := New(mode, DefaultScoring()).Align(ctx, "GAAT", "GAT"); err == nil {
			t.Fatalf("mode %s: expected context error", mode)
		}
	}
}

func TestLocalAlignAllMismatches(t *testing.T) {
	a := New(ModeLocal, Scoring{Match: 1, Mismatch: -1, Gap: -1})
	res, err := a.Align(context.Background(), "AAAA", "TTTT")
	if err != nil {
		t.Fatalf("Align error: %v", err)
	}
	if res.Score != 0 || len(res.Alignments) != 0 {
		t.Fatalf("got %+v, want empty result for disjoint sequences", res)
	}
}

// checkBlocks asserts the structural invariants of an alignment: equal block
// counts, equal column widths per block pair, strictly increasing in-bound
// intervals.
func checkBlocks(t *testing.T, al Alignment, targetLen, queryLen int) {
	t.Helper()
	if len(al.Target) != len(al.Query) {
		t.Fatalf("block count mismatch: %d target vs %d query", len(al.Target), len(al.Query))
	}
	prevT, prevQ := 0, 0
	for k := range al.Target {
		tb, qb := al.Target[k], al.Query[k]
		if tb[0] < prevT || tb[1] <= tb[0] || tb[1] > targetLen {
			t.Fatalf("bad target block %v", tb)
		}
		if qb[0] < prevQ || qb[1] <= qb[0] || qb[1] > queryLen {
			t.Fatalf("bad query block %v", qb)
		}
		if tb[1]-tb[0] != qb[1]-qb[0] {
			t.Fatalf("block width mismatch: %v vs %v", tb, qb)
		}
		prevT, prevQ = tb[1], qb[1]
	}
}
