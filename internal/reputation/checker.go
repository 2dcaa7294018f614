package reputation

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"phishguard/internal/config"
	"phishguard/internal/domain"
)

const maxResponseBytes = 1 << 20

// Checker classifies a single link.
type Checker interface {
	Check(ctx context.Context, link string) domain.Verdict
}

// HTTPChecker queries a PhishTank-style verdict endpoint. Every failure
// path resolves to VerdictUnknown so a reputation outage can never abort a
// scan.
type HTTPChecker struct {
	endpoint string
	appKey   string
	client   *http.Client
}

func NewHTTPChecker(cfg *config.Config) *HTTPChecker {
	return &HTTPChecker{
		endpoint: cfg.PhishTankURL,
		appKey:   cfg.PhishTankKey,
		client: &http.Client{
			Timeout: time.Duration(cfg.CheckTimeoutSeconds) * time.Second,
		},
	}
}

type checkResponse struct {
	Errortext string `json:"errortext"`
	Results   *struct {
		InDatabase bool `json:"in_database"`
		Valid      bool `json:"valid"`
	} `json:"results"`
}

func (c *HTTPChecker) Check(ctx context.Context, link string) domain.Verdict {
	if c.appKey == "" {
		return domain.VerdictUnknown
	}

	form := url.Values{}
	form.Set("format", "json")
	form.Set("app_key", c.appKey)
	form.Set("url", link)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		log.Printf("reputation: build request for %s: %v", link, err)
		return domain.VerdictUnknown
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("reputation: check %s: %v", link, err)
		return domain.VerdictUnknown
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("reputation: check %s: status %d", link, resp.StatusCode)
		return domain.VerdictUnknown
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		log.Printf("reputation: read response for %s: %v", link, err)
		return domain.VerdictUnknown
	}

	return classify(body)
}

// classify maps the service response onto the three-state verdict. The
// structured JSON shape is inspected first; the keyword match remains as a
// compatibility shim for the plain-text response mode. A response in
// neither shape is inconclusive, not safe.
func classify(body []byte) domain.Verdict {
	var cr checkResponse
	if err := json.Unmarshal(body, &cr); err == nil {
		if cr.Errortext != "" {
			return domain.VerdictUnknown
		}
		if cr.Results != nil {
			if cr.Results.InDatabase && cr.Results.Valid {
				return domain.VerdictMalicious
			}
			return domain.VerdictSafe
		}
	}

	if strings.Contains(strings.ToLower(string(body)), "phishing") {
		return domain.VerdictMalicious
	}
	return domain.VerdictUnknown
}
