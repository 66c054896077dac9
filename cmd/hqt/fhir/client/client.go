package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"

	"github.com/ireish/healthcare-query-tool/models/fhir"
)

var (
	queryLinePattern = regexp.MustCompile(`^GET\s+(\S+)$`)
	subjectPattern   = regexp.MustCompile(`^Patient/([A-Za-z0-9\-\.]{1,64})$`)
)

// Client fetches search results from the FHIR repository. Transport errors
// are returned to the caller; the pipeline treats them as "no identifiers
// available" rather than fatal.
type Client struct {
	httpClient *http.Client
	today      func() time.Time
	log        zerolog.Logger
}

// NewClient creates a repository client with bounded retries and a request
// timeout, so lookups fail rather than hang.
func NewClient(log zerolog.Logger) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.Logger = nil
	retryClient.HTTPClient = &http.Client{
		Timeout: 30 * time.Second,
	}

	return &Client{
		httpClient: retryClient.StandardClient(),
		today:      time.Now,
		log:        log,
	}
}

// parseQueryLine validates a "GET <url>" query line and returns the URL.
func parseQueryLine(query string) (string, error) {
	m := queryLinePattern.FindStringSubmatch(strings.TrimSpace(query))
	if m == nil {
		return "", fmt.Errorf("invalid query line: %q", query)
	}
	return m[1], nil
}

// appendParam adds a query parameter to a URL that may or may not already
// carry a query string.
func appendParam(url, param string) string {
	if strings.Contains(url, "?") {
		return url + "&" + param
	}
	return url + "?" + param
}

func (c *Client) fetchBundle(ctx context.Context, url string) (*fhir.Bundle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/fhir+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, url, string(body))
	}

	var bundle fhir.Bundle
	if err := json.NewDecoder(resp.Body).Decode(&bundle); err != nil {
		return nil, fmt.Errorf("failed to decode bundle: %w", err)
	}
	if bundle.ResourceType != "Bundle" {
		return nil, fmt.Errorf("expected a Bundle, got %q", bundle.ResourceType)
	}
	return &bundle, nil
}

// SubjectIDs executes a condition-lookup query and returns the distinct
// patient identifiers referenced by the matched conditions. The result is
// non-nil whenever the fetch succeeded, even when nothing matched.
func (c *Client) SubjectIDs(ctx context.Context, conditionQuery string) ([]string, error) {
	url, err := parseQueryLine(conditionQuery)
	if err != nil {
		return nil, err
	}

	bundle, err := c.fetchBundle(ctx, url)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	ids := []string{}
	for _, entry := range bundle.Entry {
		if entry.ResourceType() != "Condition" {
			continue
		}
		var condition fhir.Condition
		if err := json.Unmarshal(entry.Resource, &condition); err != nil {
			c.log.Debug().Err(err).Msg("Skipping undecodable Condition entry")
			continue
		}
		if condition.Subject == nil || condition.Subject.Reference == nil {
			continue
		}
		m := subjectPattern.FindStringSubmatch(*condition.Subject.Reference)
		if m == nil || seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		ids = append(ids, m[1])
	}

	slices.Sort(ids)
	c.log.Debug().
		Int("entries", len(bundle.Entry)).
		Int("subjects", len(ids)).
		Msg("Resolved condition lookup to subject identifiers")
	return ids, nil
}
