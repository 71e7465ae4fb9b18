package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"favorite-rates-service/internal/domain/model"
	"favorite-rates-service/pkg/logger"
)

var errRetryable = errors.New("retryable upstream failure")

// ExchangeAPI talks to an open.er-api.com compatible endpoint:
// GET {baseURL}/v6/latest/{BASE}.
type ExchangeAPI struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
	log        *logger.Logger
}

func NewExchangeAPI(baseURL string, timeout time.Duration, maxRetries int, backoff time.Duration, log *logger.Logger) *ExchangeAPI {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &ExchangeAPI{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries: maxRetries,
		backoff:    backoff,
		log:        log,
	}
}

// FetchRates returns every rate quoted from base. Network errors, 429 and 5xx
// are retried with exponential backoff; anything else fails at once.
func (e *ExchangeAPI) FetchRates(ctx context.Context, base model.Currency) (*model.RateSnapshot, error) {
	backoff := e.backoff
	var lastErr error

	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if attempt > 0 {
			e.log.Warn("Retrying upstream fetch", "base", base, "attempt", attempt, "backoff", backoff, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		snapshot, err := e.fetchOnce(ctx, base)
		if err == nil {
			return snapshot, nil
		}

		lastErr = err
		if !errors.Is(err, errRetryable) || ctx.Err() != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

func (e *ExchangeAPI) fetchOnce(ctx context.Context, base model.Currency) (*model.RateSnapshot, error) {
	endpoint := fmt.Sprintf("%s/v6/latest/%s", e.baseURL, url.PathEscape(base.String()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to send request: %v", errRetryable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: API returned status %d", errRetryable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned non-OK status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", errRetryable, err)
	}

	snapshot, err := parseLatest(base, body)
	if err != nil {
		return nil, err
	}

	e.log.Debug("Fetched rates", "base", base, "count", len(snapshot.Rates), "as_of", snapshot.AsOfUTC)
	return snapshot, nil
}

// parseLatest maps the loosely typed upstream body onto a snapshot or an
// *model.UpstreamError. Rates that are not positive numbers are dropped.
func parseLatest(base model.Currency, body []byte) (*model.RateSnapshot, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("failed to decode response: invalid JSON")
	}

	doc := gjson.ParseBytes(body)
	if doc.Get("result").String() != "success" {
		return nil, &model.UpstreamError{Base: base, Kind: doc.Get("error-type").String()}
	}

	rates := make(map[model.Currency]float64)
	doc.Get("rates").ForEach(func(key, value gjson.Result) bool {
		code := model.Currency(key.String())
		if code.IsValid() && value.Type == gjson.Number && value.Float() > 0 {
			rates[code] = value.Float()
		}
		return true
	})

	return &model.RateSnapshot{
		Base:    base,
		Rates:   rates,
		AsOfUTC: doc.Get("time_last_update_utc").String(),
	}, nil
}
