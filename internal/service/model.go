package service

import (
	"fmt"

	"github.com/ivcap-works/pairwise-align/internal/align"
	"github.com/ivcap-works/pairwise-align/internal/schema"
)

// Service identity, reused by the IVCAP descriptor generator.
const (
	Title   = "Pairwise sequence alignment"
	Summary = "Aligns two sequences to each other by optimizing the similarity score between them."

	Description = `Pairwise sequence alignment

Pairwise sequence alignment is the process of aligning two sequences to each
other by optimizing the similarity score between them. This service supports
global and local alignments (Needleman-Wunsch and Smith-Waterman) as well as
the FOGSAA branch-and-bound global aligner, with options to change the
alignment parameters.`
)

// Schema URNs tagging the request and response payloads.
const (
	RequestSchemaURN  = "urn:sd.ivcap:schema.pairwise-align.request.1"
	ResponseSchemaURN = "urn:sd.ivcap:schema.pairwise-align.response.1"
)

// AlignRequest is the wire shape of an alignment request. Target and query
// are pointers so missing fields are distinguishable from empty strings.
type AlignRequest struct {
	Schema        string   `json:"$schema,omitempty"`
	Target        *string  `json:"target"`
	Query         *string  `json:"query"`
	Mode          string   `json:"mode,omitempty"`
	MatchScore    *float64 `json:"match_score,omitempty"`
	MismatchScore *float64 `json:"mismatch_score,omitempty"`
}

// AlignResponse is the wire shape of an alignment response. Each element of
// Alignments is a [targetBlocks, queryBlocks] pair; blocks are half-open
// [start,end) index pairs.
type AlignResponse struct {
	Schema     string        `json:"$schema"`
	Target     string        `json:"target"`
	Query      string        `json:"query"`
	Alignments [][2][][2]int `json:"alignments"`
	Score      float64       `json:"score"`
}

// alignParams is a validated alignment request.
type alignParams struct {
	target  string
	query   string
	mode    align.Mode
	scoring align.Scoring
}

// validate resolves defaults and checks the request, returning the resolved
// parameters.
func (r *AlignRequest) validate() (alignParams, error) {
	if r.Target == nil {
		return alignParams{}, fmt.Errorf("target is required")
	}
	if r.Query == nil {
		return alignParams{}, fmt.Errorf("query is required")
	}

	mode := align.ModeLocal
	if r.Mode != "" {
		parsed, err := align.ParseMode(r.Mode)
		if err != nil {
			return alignParams{}, err
		}
		mode = parsed
	}

	sc := align.DefaultScoring()
	if r.MatchScore != nil {
		sc.Match = *r.MatchScore
	}
	if r.MismatchScore != nil {
		sc.Mismatch = *r.MismatchScore
	}

	return alignParams{
		target:  *r.Target,
		query:   *r.Query,
		mode:    mode,
		scoring: sc,
	}, nil
}

// RequestDefinition describes the request payload for schema tooling.
func RequestDefinition() schema.Definition {
	return schema.Definition{
		ID: RequestSchemaURN,
		Fields: []schema.Field{
			{Name: "target", Type: "string", Description: "The target sequence as a string", Example: "GAACT", Required: true},
			{Name: "query", Type: "string", Description: "The sequence to align as a string", Example: "GAT", Required: true},
			{Name: "mode", Type: "string", Description: "Alignment mode: global, local or fogsaa", Default: "local"},
			{Name: "match_score", Type: "number", Description: "Score added per matching position", Default: 1.0},
			{Name: "mismatch_score", Type: "number", Description: "Score added per mismatching position", Default: 0.0},
		},
	}
}

// ResponseDefinition describes the response payload for schema tooling.
func ResponseDefinition() schema.Definition {
	return schema.Definition{
		ID: ResponseSchemaURN,
		Fields: []schema.Field{
			{Name: "target", Type: "string", Description: "The target sequence as a string", Example: "GAACT", Required: true},
			{Name: "query", Type: "string", Description: "The sequence to align as a string", Example: "GAT", Required: true},
			{Name: "alignments", Type: "array", Description: "Aligned block intervals, one [target, query] pair of interval lists per optimal alignment", Required: true},
			{Name: "score", Type: "number", Description: "Optimal score shared by all returned alignments", Required: true},
		},
	}
}
