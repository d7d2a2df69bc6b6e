package holiday

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	NagerBaseURL       = "https://date.nager.at"
	defaultHTTPTimeout = 10 * time.Second
	defaultRetries     = 3
)

// statusError is a non-200 answer; 5xx answers are retried
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("API returned status %d", e.code)
}

// NagerSource fetches public holidays from the date.nager.at API
type NagerSource struct {
	baseURL    string
	httpClient *http.Client
	retries    int
	retryDelay time.Duration
	logger     *zap.Logger
}

// nagerHoliday is one element of the PublicHolidays response
type nagerHoliday struct {
	Date      string   `json:"date"`
	LocalName string   `json:"localName"`
	Name      string   `json:"name"`
	Types     []string `json:"types"`
}

// NewNagerSource creates a source against baseURL (NagerBaseURL when empty)
func NewNagerSource(baseURL string, logger *zap.Logger) *NagerSource {
	if baseURL == "" {
		baseURL = NagerBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &NagerSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		retries:    defaultRetries,
		retryDelay: time.Second,
		logger:     logger,
	}
}

// Holidays implements Source
func (s *NagerSource) Holidays(ctx context.Context, year int, region string) ([]Holiday, error) {
	// https://date.nager.at/api/v3/PublicHolidays/2024/KR
	url := fmt.Sprintf("%s/api/v3/PublicHolidays/%d/%s",
		s.baseURL, year, strings.ToUpper(region))

	s.logger.Debug("Fetching holidays from nager",
		zap.String("url", url),
		zap.Int("year", year),
		zap.String("region", region))

	body, err := s.doRequest(ctx, url)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrNoData
	}

	holidays, err := parseNagerResponse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	s.logger.Debug("Holidays received",
		zap.Int("year", year),
		zap.String("region", region),
		zap.Int("count", len(holidays)))

	return holidays, nil
}

func parseNagerResponse(body []byte) ([]Holiday, error) {
	var decoded []nagerHoliday
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, err
	}

	holidays := make([]Holiday, 0, len(decoded))
	for _, h := range decoded {
		name := h.LocalName
		if name == "" {
			name = h.Name
		}
		holidays = append(holidays, Holiday{Date: h.Date, Name: name})
	}
	return holidays, nil
}

// doRequest performs the GET, retrying transport failures and 5xx answers
func (s *NagerSource) doRequest(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= s.retries; attempt++ {
		body, err := s.doRequestOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var se *statusError
		if errors.As(err, &se) && se.code < 500 {
			return nil, err
		}
		if ctx.Err() != nil || attempt == s.retries {
			break
		}

		s.logger.Warn("Request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", s.retries),
			zap.Error(err))

		select {
		case <-time.After(s.retryDelay * time.Duration(attempt)):
		case <-ctx.Done():
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", s.retries, lastErr)
}

// doRequestOnce performs a single HTTP request
func (s *NagerSource) doRequestOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holidays: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}
