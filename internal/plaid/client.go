// Package plaid fetches transactions from the Plaid API and
// normalizes them into the same Transaction shape the statement
// parsers produce.
package plaid

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"

	"github.com/finview-dev/finview/internal/config"
	"github.com/finview-dev/finview/internal/model"
)

// envHosts maps the environment selector to the API host.
var envHosts = map[string]string{
	"sandbox":     "https://sandbox.plaid.com",
	"development": "https://development.plaid.com",
	"production":  "https://production.plaid.com",
}

const (
	transactionsPath = "/transactions/get"
	defaultTimeout   = 30 * time.Second
	defaultDays      = 30
	pageCount        = 100
	dateLayout       = "2006-01-02"
)

// ExternalServiceError reports a failed call to the Plaid API. It is
// propagated, never retried here.
type ExternalServiceError struct {
	Op   string
	Code string // Plaid error_code when the API answered, else empty
	Err  error
}

func (e *ExternalServiceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("plaid %s: %s: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("plaid %s: %v", e.Op, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// Client talks to the Plaid transactions API. Credentials come from
// process-wide configuration built once at startup.
type Client struct {
	cfg        config.PlaidConfig
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	now        func() time.Time
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the environment-derived host. Tests use this.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithClock overrides the date-window clock. Tests use this.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a Plaid client for the configured environment.
func NewClient(cfg config.PlaidConfig, opts ...Option) (*Client, error) {
	host, ok := envHosts[cfg.Environment]
	if !ok {
		return nil, fmt.Errorf("unknown plaid environment %q", cfg.Environment)
	}

	c := &Client{
		cfg:        cfg,
		baseURL:    host,
		httpClient: &http.Client{Timeout: defaultTimeout},
		now:        time.Now,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "plaid",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type transactionsRequest struct {
	ClientID    string           `json:"client_id"`
	Secret      string           `json:"secret"`
	AccessToken string           `json:"access_token"`
	StartDate   string           `json:"start_date"`
	EndDate     string           `json:"end_date"`
	Options     transactionsOpts `json:"options"`
}

type transactionsOpts struct {
	Count int `json:"count"`
}

type transactionsResponse struct {
	Transactions []apiTransaction `json:"transactions"`
	Total        int              `json:"total_transactions"`
}

type apiTransaction struct {
	Date   string      `json:"date"`
	Name   string      `json:"name"`
	Amount json.Number `json:"amount"`
}

type apiError struct {
	ErrorType    string `json:"error_type"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// RecentTransactions fetches transactions posted in the last days days
// and returns them in API order. days <= 0 means 30.
func (c *Client) RecentTransactions(ctx context.Context, accessToken string, days int) ([]model.Transaction, error) {
	if days <= 0 {
		days = defaultDays
	}
	end := c.now()
	start := end.AddDate(0, 0, -days)

	reqBody := transactionsRequest{
		ClientID:    c.cfg.ClientID,
		Secret:      c.cfg.Secret,
		AccessToken: accessToken,
		StartDate:   start.Format(dateLayout),
		EndDate:     end.Format(dateLayout),
		Options:     transactionsOpts{Count: pageCount},
	}

	resp, err := c.post(ctx, transactionsPath, reqBody)
	if err != nil {
		return nil, err
	}

	var parsed transactionsResponse
	if err := json.Unmarshal(resp, &parsed); err != nil {
		return nil, &ExternalServiceError{Op: "transactions/get", Err: fmt.Errorf("decoding response: %w", err)}
	}

	txns := make([]model.Transaction, 0, len(parsed.Transactions))
	for _, t := range parsed.Transactions {
		txn, err := normalize(t)
		if err != nil {
			return nil, &ExternalServiceError{Op: "transactions/get", Err: err}
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// post sends a JSON request through the circuit breaker.
func (c *Client) post(ctx context.Context, path string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	result, err := c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusOK {
			var apiErr apiError
			if json.Unmarshal(data, &apiErr) == nil && apiErr.ErrorCode != "" {
				return nil, &ExternalServiceError{
					Op:   path,
					Code: apiErr.ErrorCode,
					Err:  fmt.Errorf("%s: %s", apiErr.ErrorType, apiErr.ErrorMessage),
				}
			}
			return nil, &ExternalServiceError{Op: path, Err: fmt.Errorf("status %d", resp.StatusCode)}
		}
		return data, nil
	})
	if err != nil {
		var ese *ExternalServiceError
		if errors.As(err, &ese) {
			return nil, ese
		}
		return nil, &ExternalServiceError{Op: path, Err: err}
	}
	return result.([]byte), nil
}

// normalize converts a Plaid transaction to the statement sign
// convention: Plaid reports money leaving the account as positive, the
// statements print debits as negative.
func normalize(t apiTransaction) (model.Transaction, error) {
	date, err := time.Parse(dateLayout, t.Date)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", t.Date, err)
	}

	amount, err := decimal.NewFromString(t.Amount.String())
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", t.Amount, err)
	}

	return model.Transaction{
		Date:        date,
		Description: t.Name,
		Amount:      amount.Neg(),
		SourceKind:  model.SourcePlaid,
	}, nil
}
