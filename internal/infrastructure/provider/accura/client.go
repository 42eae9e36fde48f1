// Package accura implements ports.IdentityProvider against the Accurascan
// HTTP API (OCR document scanning and face matching).
package accura

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/solofunds/kyc-service/internal/api/metrics"
	"github.com/solofunds/kyc-service/internal/core/domain"
	"github.com/solofunds/kyc-service/internal/core/ports"
)

const (
	defaultBaseURL   = "https://accurascan.com"
	defaultTimeout   = 30 * time.Second
	maxResponseBytes = 16 << 20 // responses carry base64 images
)

// Config carries the adapter settings. The two capabilities are keyed
// separately on the Accurascan side.
type Config struct {
	BaseURL      string
	OCRKey       string
	FaceMatchKey string
	Timeout      time.Duration
}

// Client is an IdentityProvider backed by Accurascan. Calls are synchronous
// and unretried; any transport or response-shape failure is reported as
// domain.ErrProviderFailure.
type Client struct {
	httpClient *http.Client
	cfg        Config
	log        zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		cfg:        cfg,
		log:        log,
	}
}

type ocrCardData struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FaceImage string `json:"face_image"` // empty / null when no face was found
}

type ocrResponse struct {
	Data map[string]ocrCardData `json:"data"`
}

// ScanDocument submits the document image for OCR extraction. A document in
// which no face was found yields an empty FaceImageBase64, not an error.
func (c *Client) ScanDocument(ctx context.Context, in ports.DocumentScanInput) (*ports.DocumentScanResult, error) {
	form := url.Values{
		"country_code":      {in.CountryCode},
		"card_code":         {in.TemplateCode},
		"scan_image_base64": {in.ImageBase64},
	}

	body, err := c.postForm(ctx, "ocr", "/api/v4/ocr", c.cfg.OCRKey, form)
	if err != nil {
		return nil, err
	}

	var resp ocrResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("accura ocr: decode response: %w", domain.ErrProviderFailure)
	}
	// The payload is keyed by template: "MRZdata" or "PDF417data".
	card, ok := resp.Data[in.TemplateCode+"data"]
	if !ok {
		return nil, fmt.Errorf("accura ocr: response missing %sdata: %w", in.TemplateCode, domain.ErrProviderFailure)
	}

	return &ports.DocumentScanResult{
		FirstName:       card.FirstName,
		LastName:        card.LastName,
		FaceImageBase64: card.FaceImage,
	}, nil
}

type faceMatchResponse struct {
	Data struct {
		Score float64 `json:"score"`
	} `json:"data"`
}

// MatchFaces submits the reference and live images for similarity scoring.
func (c *Client) MatchFaces(ctx context.Context, in ports.FaceMatchInput) (*ports.FaceMatchResult, error) {
	form := url.Values{
		"source_image_base64": {in.SourceImageBase64},
		"target_image_base64": {in.TargetImageBase64},
	}

	body, err := c.postForm(ctx, "face_match", "/v2/api/facematch", c.cfg.FaceMatchKey, form)
	if err != nil {
		return nil, err
	}

	var resp faceMatchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("accura facematch: decode response: %w", domain.ErrProviderFailure)
	}
	if resp.Data.Score < 0 || resp.Data.Score > 1 {
		return nil, fmt.Errorf("accura facematch: score %v out of range: %w", resp.Data.Score, domain.ErrProviderFailure)
	}

	return &ports.FaceMatchResult{Score: resp.Data.Score}, nil
}

// postForm sends a form-encoded POST with the capability's API key and
// returns the raw body of a 200 response.
func (c *Client) postForm(ctx context.Context, capability, path, apiKey string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("accura %s: build request: %w", capability, err)
	}
	req.Header.Set("Api-Key", apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ProviderRequestDuration.WithLabelValues(capability).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(capability, "error").Inc()
		c.log.Error().Err(err).Str("capability", capability).Msg("provider request failed")
		return nil, fmt.Errorf("accura %s: %w", capability, domain.ErrProviderFailure)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(capability, "error").Inc()
		return nil, fmt.Errorf("accura %s: read response: %w", capability, domain.ErrProviderFailure)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.ProviderRequestsTotal.WithLabelValues(capability, "error").Inc()
		c.log.Error().Int("status", resp.StatusCode).Str("capability", capability).Msg("provider returned non-200")
		return nil, fmt.Errorf("accura %s: status %d: %w", capability, resp.StatusCode, domain.ErrProviderFailure)
	}

	metrics.ProviderRequestsTotal.WithLabelValues(capability, "ok").Inc()
	return body, nil
}
