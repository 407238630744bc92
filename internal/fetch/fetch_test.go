// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/get-papers-list/internal/classify"
	"github.com/pdiddy/get-papers-list/internal/logging"
	"github.com/pdiddy/get-papers-list/internal/pubmed"
	"github.com/pdiddy/get-papers-list/pkg/types"
)

const (
	companyAffiliation  = "Moderna Therapeutics, Cambridge, MA"
	academicAffiliation = "Dept. of Biology, Stanford University"
)

// --- fake E-utilities server ---

// eutils serves ESearch over ids and EFetch from affiliations. An
// affiliation of "" produces an author without AffiliationInfo.
type eutils struct {
	ids          []string
	affiliations map[string]string
	reverse      bool            // return EFetch records in reverse order
	malformed    map[int]bool    // EFetch call index -> send broken XML
	drop         map[string]bool // PMIDs PubMed "does not know"

	mu         sync.Mutex
	searches   int
	fetchSizes []int
	lastRetMax int
}

func (e *eutils) handler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e.mu.Lock()
		defer e.mu.Unlock()

		switch r.URL.Path {
		case "/esearch.fcgi":
			e.searches++
			retMax, err := strconv.Atoi(r.URL.Query().Get("retmax"))
			require.NoError(t, err)
			e.lastRetMax = retMax
			ids := e.ids
			if len(ids) > retMax {
				ids = ids[:retMax]
			}
			resp := map[string]any{"esearchresult": map[string]any{
				"count":  strconv.Itoa(len(e.ids)),
				"retmax": strconv.Itoa(retMax),
				"idlist": ids,
			}}
			require.NoError(t, json.NewEncoder(w).Encode(resp))
		case "/efetch.fcgi":
			call := len(e.fetchSizes)
			ids := strings.Split(r.URL.Query().Get("id"), ",")
			e.fetchSizes = append(e.fetchSizes, len(ids))
			if e.malformed[call] {
				w.Write([]byte("<PubmedArticleSet><PubmedArticle><MedlineCitation>"))
				return
			}
			if e.reverse {
				for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
					ids[i], ids[j] = ids[j], ids[i]
				}
			}
			var b strings.Builder
			b.WriteString("<PubmedArticleSet>")
			for _, id := range ids {
				if e.drop[id] {
					continue
				}
				b.WriteString(articleXML(id, e.affiliations[id]))
			}
			b.WriteString("</PubmedArticleSet>")
			w.Write([]byte(b.String()))
		default:
			http.NotFound(w, r)
		}
	})
}

func articleXML(pmid, affiliation string) string {
	aff := ""
	if affiliation != "" {
		aff = "<AffiliationInfo><Affiliation>" + affiliation + "</Affiliation></AffiliationInfo>"
	}
	return fmt.Sprintf(`<PubmedArticle><MedlineCitation><PMID>%s</PMID><Article>
<Journal><Title>Test Journal</Title><JournalIssue><PubDate><Year>2024</Year></PubDate></JournalIssue></Journal>
<ArticleTitle>Paper %s</ArticleTitle>
<AuthorList><Author><LastName>Author%s</LastName><ForeName>A</ForeName>%s</Author></AuthorList>
</Article></MedlineCitation></PubmedArticle>`, pmid, pmid, pmid, aff)
}

// newEutils builds n sequential PMIDs starting at 1000; commercial(i)
// decides which positions get a company affiliation.
func newEutils(n int, commercial func(i int) bool) *eutils {
	e := &eutils{affiliations: make(map[string]string)}
	for i := 0; i < n; i++ {
		id := strconv.Itoa(1000 + i)
		e.ids = append(e.ids, id)
		if commercial(i) {
			e.affiliations[id] = companyAffiliation
		} else {
			e.affiliations[id] = academicAffiliation
		}
	}
	return e
}

func (e *eutils) commercialIDs() []string {
	var out []string
	for _, id := range e.ids {
		if e.affiliations[id] == companyAffiliation && !e.drop[id] {
			out = append(out, id)
		}
	}
	return out
}

func startEngine(t *testing.T, e *eutils) *Engine {
	t.Helper()
	ts := httptest.NewServer(e.handler(t))
	t.Cleanup(ts.Close)

	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "test/0.1"},
		BaseURL:    ts.URL,
		RateLimit:  1000,
	}
	client := pubmed.NewClient(ts.Client(), cfg, logging.NewNop())
	return NewEngine(client, classify.MustDefault(), cfg, logging.NewNop())
}

func pmids(papers []types.Paper) []string {
	out := make([]string, len(papers))
	for i, p := range papers {
		out[i] = p.PMID
	}
	return out
}

// --- Fetch over HTTP ---

func TestFetchReturnsMinOfRetainedAndCap(t *testing.T) {
	tests := []struct {
		name string
		max  int
		want int
	}{
		{"cap below retained", 4, 4},
		{"cap above retained", 20, 10},
		{"cap equals retained", 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEutils(30, func(i int) bool { return i%3 == 0 })
			engine := startEngine(t, e)

			res, err := engine.Fetch(context.Background(), "mrna", tt.max)
			require.NoError(t, err)
			require.Len(t, res.Papers, tt.want)
			assert.Equal(t, e.commercialIDs()[:tt.want], pmids(res.Papers), "search order preserved")
			for _, p := range res.Papers {
				assert.True(t, p.IsCommercial())
			}
		})
	}
}

func TestFetchPreservesSearchOrderWhenEFetchReorders(t *testing.T) {
	e := newEutils(12, func(i int) bool { return i%2 == 1 })
	e.reverse = true
	engine := startEngine(t, e)

	res, err := engine.Fetch(context.Background(), "q", 6)
	require.NoError(t, err)
	assert.Equal(t, e.commercialIDs(), pmids(res.Papers))
}

func TestFetchIsIdempotent(t *testing.T) {
	e := newEutils(40, func(i int) bool { return i%4 == 1 })
	engine := startEngine(t, e)

	first, err := engine.Fetch(context.Background(), "q", 5)
	require.NoError(t, err)
	second, err := engine.Fetch(context.Background(), "q", 5)
	require.NoError(t, err)
	assert.Equal(t, first.Papers, second.Papers)
}

func TestFetchZeroMaxIssuesNoRequests(t *testing.T) {
	e := newEutils(10, func(int) bool { return true })
	engine := startEngine(t, e)

	res, err := engine.Fetch(context.Background(), "q", 0)
	require.NoError(t, err)
	assert.Empty(t, res.Papers)
	assert.NotNil(t, res.Papers)
	assert.Empty(t, e.fetchSizes)
	assert.Zero(t, e.searches)
}

func TestFetchBatchPartition(t *testing.T) {
	e := newEutils(250, func(int) bool { return false })
	engine := startEngine(t, e)

	res, err := engine.Fetch(context.Background(), "q", 50)
	require.NoError(t, err)
	assert.Equal(t, 250, e.lastRetMax, "5x overshoot")
	assert.Equal(t, []int{100, 100, 50}, e.fetchSizes)
	assert.Equal(t, 3, res.Batches)
	assert.Equal(t, 250, res.Examined)
	assert.Empty(t, res.Papers)
}

func TestFetchStopsWhenSatisfied(t *testing.T) {
	e := newEutils(250, func(int) bool { return true })
	engine := startEngine(t, e)

	res, err := engine.Fetch(context.Background(), "q", 50)
	require.NoError(t, err)
	assert.Equal(t, []int{100}, e.fetchSizes, "one batch fills the cap")
	assert.Len(t, res.Papers, 50)
	assert.Equal(t, 100, res.Examined, "whole batch is examined before the cut")
	assert.Equal(t, e.ids[:50], pmids(res.Papers))
}

func TestFetchSkipsMalformedBatch(t *testing.T) {
	e := newEutils(250, func(i int) bool { return i%10 == 0 })
	e.malformed = map[int]bool{0: true}
	engine := startEngine(t, e)

	res, err := engine.Fetch(context.Background(), "q", 50)
	require.NoError(t, err)
	assert.Equal(t, 1, res.FailedBatches)
	assert.Equal(t, 3, res.Batches)
	// Batch 0 (positions 0-99) is lost; positions 100-249 contribute 15.
	assert.Len(t, res.Papers, 15)
	assert.Equal(t, "1100", res.Papers[0].PMID)
}

func TestFetchToleratesMissingRecords(t *testing.T) {
	e := newEutils(20, func(int) bool { return true })
	e.drop = map[string]bool{"1000": true, "1003": true}
	engine := startEngine(t, e)

	res, err := engine.Fetch(context.Background(), "q", 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"1001", "1002", "1004", "1005"}, pmids(res.Papers))
}

func TestFetchExcludesRecordsWithoutAffiliations(t *testing.T) {
	e := newEutils(5, func(int) bool { return true })
	e.affiliations["1002"] = ""
	engine := startEngine(t, e)

	res, err := engine.Fetch(context.Background(), "q", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"1000", "1001", "1003", "1004"}, pmids(res.Papers))
}

func TestFetchSearchFailureIsFatal(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	cfg := types.FetchConfig{BaseURL: ts.URL, RateLimit: 1000}
	engine := NewEngine(pubmed.NewClient(ts.Client(), cfg, nil), classify.MustDefault(), cfg, nil)

	_, err := engine.Fetch(context.Background(), "q", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSearch)
	assert.ErrorIs(t, err, pubmed.ErrStatus)
}

// --- Fetch with a stub source ---

type stubSource struct {
	search    pubmed.SearchResult
	searchErr error
	batches   map[int][]pubmed.Article
	batchErr  map[int]error
	calls     int
	onFetch   func(call int)
}

func (s *stubSource) Search(_ context.Context, _ string, retMax int) (pubmed.SearchResult, error) {
	if s.searchErr != nil {
		return pubmed.SearchResult{}, s.searchErr
	}
	r := s.search
	r.RetMax = retMax
	return r, nil
}

func (s *stubSource) Fetch(_ context.Context, _ []string) ([]pubmed.Article, error) {
	call := s.calls
	s.calls++
	if s.onFetch != nil {
		s.onFetch(call)
	}
	if err := s.batchErr[call]; err != nil {
		return nil, err
	}
	return s.batches[call], nil
}

func parseArticles(t *testing.T, e *eutils, ids ...string) []pubmed.Article {
	t.Helper()
	var b strings.Builder
	b.WriteString("<PubmedArticleSet>")
	for _, id := range ids {
		b.WriteString(articleXML(id, e.affiliations[id]))
	}
	b.WriteString("</PubmedArticleSet>")
	articles, err := pubmed.ParseArticles(strings.NewReader(b.String()))
	require.NoError(t, err)
	return articles
}

func TestFetchTransportErrorOnBatchDegrades(t *testing.T) {
	e := newEutils(4, func(int) bool { return true })
	src := &stubSource{
		search:   pubmed.SearchResult{IDs: e.ids, Count: 4},
		batchErr: map[int]error{0: errors.New("connection reset")},
		batches:  map[int][]pubmed.Article{1: parseArticles(t, e, "1002", "1003")},
	}
	engine := NewEngine(src, classify.MustDefault(), types.FetchConfig{BatchSize: 2}, nil)

	res, err := engine.Fetch(context.Background(), "q", 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"1002", "1003"}, pmids(res.Papers))
	assert.Equal(t, 1, res.FailedBatches)
	assert.Equal(t, 2, res.Batches)
	assert.Equal(t, 4, res.TotalMatches)
	assert.Equal(t, 4, res.Candidates)
}

func TestFetchSearchErrorWrapped(t *testing.T) {
	src := &stubSource{searchErr: errors.New("dial tcp: no such host")}
	engine := NewEngine(src, classify.MustDefault(), types.FetchConfig{}, nil)

	_, err := engine.Fetch(context.Background(), "q", 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSearch)
	assert.Contains(t, err.Error(), "no such host")
	assert.Zero(t, src.calls)
}

func TestFetchCancelledBetweenBatches(t *testing.T) {
	e := newEutils(6, func(int) bool { return true })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &stubSource{
		search:  pubmed.SearchResult{IDs: e.ids},
		batches: map[int][]pubmed.Article{0: parseArticles(t, e, "1000", "1001")},
		onFetch: func(int) { cancel() },
	}
	engine := NewEngine(src, classify.MustDefault(), types.FetchConfig{BatchSize: 2}, nil)

	res, err := engine.Fetch(ctx, "q", 6)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, src.calls, "the in-flight batch completes, the next is not started")
	assert.Equal(t, []string{"1000", "1001"}, pmids(res.Papers))
}

func TestSearchSize(t *testing.T) {
	engine := NewEngine(&stubSource{}, classify.MustDefault(), types.FetchConfig{}, nil)
	assert.Equal(t, 100, engine.searchSize(20))
	assert.Equal(t, types.DefaultSearchCap, engine.searchSize(5000))
}

func TestFetchRequestsCappedSearchSize(t *testing.T) {
	src := &stubSource{}
	engine := NewEngine(src, classify.MustDefault(), types.FetchConfig{}, nil)

	var got int
	wrapped := searchRecorder{stubSource: src, retMax: &got}
	engine.source = wrapped
	_, err := engine.Fetch(context.Background(), "q", 3000)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultSearchCap, got)
}

type searchRecorder struct {
	*stubSource
	retMax *int
}

func (r searchRecorder) Search(ctx context.Context, term string, retMax int) (pubmed.SearchResult, error) {
	*r.retMax = retMax
	return r.stubSource.Search(ctx, term, retMax)
}

// --- Accumulator ---

func TestAccumulator(t *testing.T) {
	acc := NewAccumulator(2)
	assert.False(t, acc.IsSatisfied())

	assert.True(t, acc.Add(types.Paper{PMID: "1"}))
	assert.False(t, acc.Add(types.Paper{PMID: "1"}), "duplicate PMID rejected")
	assert.True(t, acc.Add(types.Paper{PMID: "2"}))
	assert.True(t, acc.IsSatisfied())
	assert.False(t, acc.Add(types.Paper{PMID: "3"}), "cap reached")
	assert.Equal(t, 2, acc.Len())

	papers := acc.Papers()
	assert.Equal(t, []string{"1", "2"}, pmids(papers))
	papers[0].PMID = "changed"
	assert.Equal(t, "1", acc.Papers()[0].PMID, "Papers returns a copy")
}

func TestAccumulatorZeroCap(t *testing.T) {
	for _, n := range []int{0, -3} {
		acc := NewAccumulator(n)
		assert.True(t, acc.IsSatisfied())
		assert.False(t, acc.Add(types.Paper{PMID: "1"}))
		assert.Empty(t, acc.Papers())
	}
}
