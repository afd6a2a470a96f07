package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ChargeRequest is the amount (in minor units) and card token handed to the
// payment provider.
type ChargeRequest struct {
	AmountMinor int64
	Currency    string
	Token       string
	Description string
}

type ChargeResult struct {
	ID     string
	Status string
}

// Gateway authorizes charges against an external payment provider. Charges
// are irreversible once reported successful.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// GatewayConfig carries the provider credentials. It is injected at
// construction; business logic never touches the environment.
type GatewayConfig struct {
	SecretKey string
	APIURL    string // e.g. https://api.stripe.com/v1
	Timeout   time.Duration
}

type stripeChargeResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  *struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// StripeGateway talks to the Stripe charges API over plain HTTP.
type StripeGateway struct {
	config GatewayConfig
	client *http.Client
}

func NewStripeGateway(config GatewayConfig) (*StripeGateway, error) {
	if config.SecretKey == "" || config.APIURL == "" {
		return nil, fmt.Errorf("stripe configuration missing")
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	return &StripeGateway{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}, nil
}

func (g *StripeGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.AmountMinor, 10))
	form.Set("currency", req.Currency)
	form.Set("source", req.Token)
	form.Set("description", req.Description)

	ctx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.config.APIURL+"/charges", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, wrapError(KindGatewayError, "failed to build charge request", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "Bearer "+g.config.SecretKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, newError(KindGatewayError, "timeout")
		}
		return nil, wrapError(KindGatewayError, "failed to reach payment provider", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapError(KindGatewayError, "failed to read provider response", err)
	}

	var charge stripeChargeResponse
	if err := json.Unmarshal(body, &charge); err != nil {
		return nil, wrapError(KindGatewayError, "failed to parse provider response", err)
	}

	if charge.Error != nil {
		if charge.Error.Type == "card_error" {
			return nil, newError(KindGatewayDeclined, "Payment failed. %s", charge.Error.Message)
		}
		return nil, newError(KindGatewayError, "Payment failed. %s", charge.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, newError(KindGatewayError, "provider returned status %d", resp.StatusCode)
	}
	if charge.ID == "" {
		return nil, newError(KindGatewayError, "provider returned empty charge id")
	}

	return &ChargeResult{ID: charge.ID, Status: charge.Status}, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
