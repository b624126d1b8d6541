package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is an HTTP implementation of Gateway for a Stripe-style charges API.
type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

// NewClient constructs a gateway client. Credentials are injected, never
// read from ambient process state.
func NewClient(baseURL, secretKey string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		http:      &http.Client{Timeout: timeout},
	}
}

var _ Gateway = (*Client)(nil)

type chargeResponse struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Charge submits a single charge. The idempotency key lets the processor
// deduplicate a resubmitted attempt after an ambiguous network failure.
func (c *Client) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.AmountCents, 10))
	form.Set("currency", req.Currency)
	form.Set("source", req.PaymentToken)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/charges", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	if req.IdempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	// A failing processor may answer with a non-JSON body; the status alone
	// is enough to classify the error, so decode failures only matter on 200.
	var body chargeResponse
	decErr := json.NewDecoder(resp.Body).Decode(&body)
	if resp.StatusCode != http.StatusOK || body.Error != nil {
		ge := &Error{Code: "processor_error", Message: http.StatusText(resp.StatusCode)}
		if body.Error != nil {
			ge.Code, ge.Message = body.Error.Code, body.Error.Message
		}
		return nil, ge
	}
	if decErr != nil {
		return nil, fmt.Errorf("gateway response: %w", decErr)
	}
	return &ChargeResult{ID: body.ID, AmountCents: body.Amount}, nil
}
