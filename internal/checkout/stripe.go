package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/seekstruth-backend/internal/domain"
	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
)

const DefaultStripeBaseURL = "https://api.stripe.com"

type StripeConfig struct {
	SecretKey    string
	BaseURL      string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

// stripe creates payment intents. The client finishes payment with the returned
// client secret; Confirm reads the intent status back.
type stripe struct {
	api *apiClient
}

func NewStripe(log *logger.Logger, cfg StripeConfig) (Gateway, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	key := strings.TrimSpace(cfg.SecretKey)
	if key == "" {
		return nil, fmt.Errorf("missing STRIPE_SECRET_KEY")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultStripeBaseURL
	}
	api := newAPIClient(log, ProviderStripe, cfg.BaseURL, cfg.Timeout, cfg.MaxRetries, cfg.RetryBackoff)
	api.authorize = func(_ context.Context, req *http.Request) error {
		req.Header.Set("Authorization", "Bearer "+key)
		return nil
	}
	return &stripe{api: api}, nil
}

func (s *stripe) Name() string { return ProviderStripe }

type stripeIntent struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	ClientSecret string `json:"client_secret"`
}

func (s *stripe) Charge(ctx context.Context, order domain.Order) (Charge, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(order.AmountCents, 10))
	form.Set("currency", strings.ToLower(order.Currency))
	form.Set("automatic_payment_methods[enabled]", "true")
	form.Set("description", fmt.Sprintf("Audio bundle (%d items)", len(order.Items)))
	form.Set("metadata[user_id]", order.UserID)
	form.Set("metadata[chapter_id]", order.ChapterID)
	req := apiRequest{
		method:      http.MethodPost,
		path:        "/v1/payment_intents",
		body:        []byte(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
		// One key per charge so retries cannot create a second intent.
		header: http.Header{"Idempotency-Key": {uuid.NewString()}},
	}
	var out stripeIntent
	if err := s.api.doJSON(ctx, req, &out); err != nil {
		return Charge{}, err
	}
	if out.ID == "" {
		return Charge{}, errors.New("stripe: payment intent id missing from response")
	}
	return Charge{ProviderRef: out.ID, Status: stripeStatus(out.Status), ClientSecret: out.ClientSecret}, nil
}

func (s *stripe) Confirm(ctx context.Context, intentID string) (string, error) {
	if strings.TrimSpace(intentID) == "" {
		return "", errors.New("stripe: payment intent id required")
	}
	var out stripeIntent
	req := apiRequest{method: http.MethodGet, path: "/v1/payment_intents/" + url.PathEscape(intentID)}
	if err := s.api.doJSON(ctx, req, &out); err != nil {
		return "", err
	}
	return stripeStatus(out.Status), nil
}

func stripeStatus(s string) string {
	switch s {
	case "succeeded":
		return domain.PurchaseStatusCompleted
	case "canceled":
		return domain.PurchaseStatusFailed
	default:
		return domain.PurchaseStatusPending
	}
}
