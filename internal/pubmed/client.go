// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed is a minimal NCBI E-utilities client: ESearch for ranked
// PMIDs and EFetch for PubMed XML records.
package pubmed

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/get-papers-list/internal/httputil"
	"github.com/pdiddy/get-papers-list/internal/logging"
	"github.com/pdiddy/get-papers-list/pkg/types"
)

// DefaultBaseURL is the E-utilities root.
const DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// ErrStatus reports a non-200 response that survived retries.
var ErrStatus = errors.New("unexpected HTTP status")

// SearchResult is the outcome of an ESearch call.
type SearchResult struct {
	// IDs are PMIDs in relevance order.
	IDs []string
	// Count is the total number of matches PubMed reports.
	Count int
	// RetMax is the maximum number of IDs requested.
	RetMax int
}

// Client talks to ESearch and EFetch. One Client, and its *http.Client, is
// reused for every request in a run. Requests are sequential.
type Client struct {
	HTTP       *http.Client
	BaseURL    string
	APIKey     string
	Email      string
	Tool       string
	UserAgent  string
	MaxRetries int
	Limiter    *httputil.Limiter
	Log        logging.Logger
}

// NewClient builds a Client from cfg. A nil httpClient gets one with cfg.Timeout.
func NewClient(httpClient *http.Client, cfg types.FetchConfig, log logging.Logger) *Client {
	cfg = cfg.WithDefaults()
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if log == nil {
		log = logging.NewNop()
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		HTTP:       httpClient,
		BaseURL:    strings.TrimRight(base, "/"),
		APIKey:     cfg.APIKey,
		Email:      cfg.Email,
		Tool:       cfg.Tool,
		UserAgent:  cfg.UserAgent,
		MaxRetries: cfg.MaxRetries,
		Limiter:    httputil.NewLimiter(cfg.RateLimit),
		Log:        log,
	}
}

// Search runs ESearch for term and returns up to retMax PMIDs in relevance order.
func (c *Client) Search(ctx context.Context, term string, retMax int) (SearchResult, error) {
	if strings.TrimSpace(term) == "" {
		return SearchResult{}, fmt.Errorf("empty search term")
	}
	params := c.params()
	params.Set("term", term)
	params.Set("retmax", strconv.Itoa(retMax))
	params.Set("retmode", "json")
	params.Set("sort", "relevance")

	body, err := c.get(ctx, "esearch.fcgi", params)
	if err != nil {
		return SearchResult{}, fmt.Errorf("ESearch request: %w", err)
	}
	defer body.Close()

	var esr esearchResponse
	if err := json.NewDecoder(body).Decode(&esr); err != nil {
		return SearchResult{}, fmt.Errorf("parsing ESearch response: %w", err)
	}
	if esr.Error != "" {
		return SearchResult{}, fmt.Errorf("ESearch error: %s", esr.Error)
	}
	if esr.Result.Error != "" {
		return SearchResult{}, fmt.Errorf("ESearch error: %s", esr.Result.Error)
	}

	ids := esr.Result.IDList
	if retMax >= 0 && len(ids) > retMax {
		ids = ids[:retMax]
	}
	count, err := strconv.Atoi(esr.Result.Count)
	if err != nil {
		c.Log.Debug("ESearch count not numeric", logging.String("count", esr.Result.Count), logging.Error(err))
		count = 0
	}
	return SearchResult{IDs: ids, Count: count, RetMax: retMax}, nil
}

// Fetch runs EFetch for ids and returns the parsed records. PubMed may
// return fewer records than ids when some are invalid; that is not an error.
func (c *Client) Fetch(ctx context.Context, ids []string) ([]Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	params := c.params()
	params.Set("id", strings.Join(ids, ","))
	params.Set("retmode", "xml")

	body, err := c.get(ctx, "efetch.fcgi", params)
	if err != nil {
		return nil, fmt.Errorf("EFetch request: %w", err)
	}
	defer body.Close()

	articles, err := ParseArticles(body)
	if err != nil {
		return nil, fmt.Errorf("parsing EFetch response: %w", err)
	}
	return articles, nil
}

// ParseArticles decodes a PubmedArticleSet document.
func ParseArticles(r io.Reader) ([]Article, error) {
	var set articleSet
	if err := xml.NewDecoder(r).Decode(&set); err != nil {
		return nil, err
	}
	return set.Articles, nil
}

func (c *Client) params() url.Values {
	params := url.Values{"db": {"pubmed"}}
	if c.APIKey != "" {
		params.Set("api_key", c.APIKey)
	}
	if c.Tool != "" {
		params.Set("tool", c.Tool)
	}
	if c.Email != "" {
		params.Set("email", c.Email)
	}
	return params
}

// get waits for the rate limiter, issues the request with retry on 429/503,
// and returns the body of a 200 response.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (io.ReadCloser, error) {
	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := c.BaseURL + "/" + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	c.Log.Debug("E-utilities request", logging.String("endpoint", endpoint))
	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, c.MaxRetries, c.Log)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s returned HTTP %d", ErrStatus, endpoint, resp.StatusCode)
	}
	return resp.Body, nil
}

// ESearch JSON structures.
type esearchResponse struct {
	Error  string        `json:"error"`
	Result esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	Count    string   `json:"count"`
	RetMax   string   `json:"retmax"`
	RetStart string   `json:"retstart"`
	IDList   []string `json:"idlist"`
	Error    string   `json:"ERROR"`
}
