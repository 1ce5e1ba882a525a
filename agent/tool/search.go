package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
)

const ToolWebSearch = "web_search"

const maxSearchResponseBytes = 2 << 20

// SearchConfig configures the Tavily-compatible web search capability.
type SearchConfig struct {
	BaseURL    string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.tavily.com"`
	APIKey     string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Depth      string        `envconfig:"DEPTH" split_words:"true" default:"basic"`
	MaxResults int           `envconfig:"MAX_RESULTS" split_words:"true" default:"5"`
	Timeout    time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
}

// SearchClient posts queries to a Tavily-style search API.
type SearchClient struct {
	baseURL    string
	apiKey     string
	depth      string
	maxResults int
	httpClient *http.Client
}

type searchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

func NewSearchClient(cfg SearchConfig) (*SearchClient, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("search base url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid search base url: %w", err)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("search api key is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}
	depth := strings.TrimSpace(cfg.Depth)
	if depth == "" {
		depth = "basic"
	}

	return &SearchClient{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		depth:      depth,
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// SearchToolInfo describes the web_search capability for model binding.
func SearchToolInfo() *schema.ToolInfo {
	return &schema.ToolInfo{
		Name: ToolWebSearch,
		Desc: "Search the web for up-to-date information and return a digest of results.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"query": {Type: schema.String, Desc: "Natural language search query", Required: true},
		}),
	}
}

// Handler adapts the client to the dispatcher's Handler contract.
func (c *SearchClient) Handler() Handler {
	return func(ctx context.Context, args map[string]any) (string, error) {
		query, err := stringArg(args, "query")
		if err != nil {
			return "", err
		}
		results, err := c.Search(ctx, query)
		if err != nil {
			return "", err
		}
		return formatSearchDigest(query, results), nil
	}
}

// Search posts a query and returns up to maxResults results.
func (c *SearchClient) Search(ctx context.Context, query string) ([]searchResult, error) {
	payload, err := json.Marshal(map[string]any{
		"api_key":      c.apiKey,
		"query":        query,
		"search_depth": c.depth,
		"max_results":  c.maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute search request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxSearchResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search http status=%d body=%s", resp.StatusCode, string(raw))
	}

	var parsed struct {
		Results []searchResult `json:"results"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	if len(parsed.Results) > c.maxResults {
		parsed.Results = parsed.Results[:c.maxResults]
	}
	return parsed.Results, nil
}

func formatSearchDigest(query string, results []searchResult) string {
	if len(results) == 0 {
		return fmt.Sprintf("No results found for query: %s", query)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Search results for: %s\n", query)
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s | %s\n%s\n", i+1,
			strings.TrimSpace(r.Title), strings.TrimSpace(r.URL), strings.TrimSpace(r.Content))
	}
	return strings.TrimRight(b.String(), "\n")
}

func stringArg(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", fmt.Errorf("%s is required", key)
	}
	val, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	val = strings.TrimSpace(val)
	if val == "" {
		return "", fmt.Errorf("%s is empty", key)
	}
	return val, nil
}
