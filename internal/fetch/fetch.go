// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch runs the two-stage PubMed retrieval: one ESearch for ranked
// PMIDs, then EFetch in fixed-size batches until enough papers with a
// commercially affiliated author have been collected.
package fetch

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pdiddy/get-papers-list/internal/classify"
	"github.com/pdiddy/get-papers-list/internal/logging"
	"github.com/pdiddy/get-papers-list/internal/normalize"
	"github.com/pdiddy/get-papers-list/internal/pubmed"
	"github.com/pdiddy/get-papers-list/pkg/types"
)

// ErrSearch wraps every Stage 1 failure. A fetch cannot proceed without
// the identifier list, so these errors are fatal to the call.
var ErrSearch = errors.New("search stage failed")

// Source is the remote record database. *pubmed.Client implements it.
type Source interface {
	Search(ctx context.Context, term string, retMax int) (pubmed.SearchResult, error)
	Fetch(ctx context.Context, ids []string) ([]pubmed.Article, error)
}

// Result holds retained papers and run statistics.
type Result struct {
	Papers []types.Paper
	// TotalMatches is the match count PubMed reported for the query.
	TotalMatches int
	// Candidates is the number of PMIDs returned by ESearch.
	Candidates int
	// Batches is the number of EFetch requests issued.
	Batches int
	// FailedBatches counts batches dropped after a transport or parse error.
	FailedBatches int
	// Examined counts normalized records tested for commercial authors.
	Examined int
}

// Engine wires a Source to the classifier.
type Engine struct {
	source     Source
	classifier *classify.Classifier
	cfg        types.FetchConfig
	log        logging.Logger
}

// NewEngine returns an Engine. Zero fields of cfg take their defaults.
func NewEngine(source Source, classifier *classify.Classifier, cfg types.FetchConfig, log logging.Logger) *Engine {
	if log == nil {
		log = logging.NewNop()
	}
	return &Engine{
		source:     source,
		classifier: classifier,
		cfg:        cfg.WithDefaults(),
		log:        log,
	}
}

// session is the mutable state of one Fetch call.
type session struct {
	id        string
	batchSize int
	ids       []string
	cursor    int
	acc       *Accumulator
	result    Result
}

// next returns the next batch of IDs, or nil when none remain.
func (s *session) next() []string {
	if s.cursor >= len(s.ids) {
		return nil
	}
	end := s.cursor + s.batchSize
	if end > len(s.ids) {
		end = len(s.ids)
	}
	batch := s.ids[s.cursor:end]
	s.cursor = end
	return batch
}

// done reports whether the session should stop issuing batches.
func (s *session) done() bool {
	return s.acc.IsSatisfied() || s.cursor >= len(s.ids)
}

// searchSize is the ESearch retmax for a result cap: an overshoot of the
// cap to absorb filtering losses, bounded by the endpoint limit.
func (e *Engine) searchSize(maxResults int) int {
	n := maxResults * e.cfg.Overshoot
	if n > e.cfg.SearchCap || n < 0 {
		n = e.cfg.SearchCap
	}
	return n
}

// Fetch returns up to maxResults papers matching query that have at least
// one commercially affiliated author, in ESearch relevance order.
//
// A Stage 1 failure returns an error wrapping ErrSearch. Stage 2 batch
// failures are logged and skipped. Cancellation is honored between batches
// and returns the papers collected so far together with ctx.Err().
func (e *Engine) Fetch(ctx context.Context, query string, maxResults int) (Result, error) {
	if maxResults <= 0 {
		return Result{Papers: []types.Paper{}}, nil
	}

	s := &session{
		id:        uuid.NewString(),
		batchSize: e.cfg.BatchSize,
		acc:       NewAccumulator(maxResults),
	}
	log := e.log.With(logging.String("session", s.id))

	retMax := e.searchSize(maxResults)
	log.Info("searching PubMed", logging.String("query", query), logging.Int("retmax", retMax))
	sr, err := e.source.Search(ctx, query, retMax)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrSearch, err)
	}
	s.ids = sr.IDs
	s.result.TotalMatches = sr.Count
	s.result.Candidates = len(sr.IDs)
	log.Info("search complete", logging.Int("total_matches", sr.Count), logging.Int("candidates", len(sr.IDs)))

	for !s.done() {
		if err := ctx.Err(); err != nil {
			return s.finish(), err
		}
		e.runBatch(ctx, s, log)
	}

	result := s.finish()
	log.Info("fetch complete",
		logging.Int("retained", len(result.Papers)),
		logging.Int("batches", result.Batches),
		logging.Int("failed_batches", result.FailedBatches),
		logging.Int("examined", result.Examined))
	return result, nil
}

// runBatch fetches and filters one batch. Every record in the batch is
// examined before the accumulator cap applies.
func (e *Engine) runBatch(ctx context.Context, s *session, log logging.Logger) {
	start := s.cursor
	batch := s.next()
	index := s.result.Batches
	s.result.Batches++
	blog := log.With(logging.Int("batch", index), logging.Int("from", start), logging.Int("size", len(batch)))

	articles, err := e.source.Fetch(ctx, batch)
	if err != nil {
		s.result.FailedBatches++
		blog.Warn("skipping batch", logging.Error(err))
		return
	}

	byPMID := make(map[string]types.Paper, len(articles))
	for i := range articles {
		p, ok := normalize.Paper(&articles[i], e.classifier)
		if !ok {
			blog.Debug("skipping record without PMID")
			continue
		}
		if _, dup := byPMID[p.PMID]; !dup {
			byPMID[p.PMID] = p
		}
	}

	kept := 0
	for _, id := range batch {
		p, ok := byPMID[id]
		if !ok {
			continue
		}
		s.result.Examined++
		if !p.IsCommercial() {
			continue
		}
		if s.acc.Add(p) {
			kept++
		}
	}
	if missing := len(batch) - len(byPMID); missing > 0 {
		blog.Debug("records missing from batch response", logging.Int("missing", missing))
	}
	blog.Debug("batch processed", logging.Int("records", len(articles)), logging.Int("kept", kept))
}

func (s *session) finish() Result {
	r := s.result
	r.Papers = s.acc.Papers()
	return r
}
