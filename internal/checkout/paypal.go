package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/seekstruth-backend/internal/domain"
	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
)

const DefaultPayPalBaseURL = "https://api-m.paypal.com"

type PayPalConfig struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	ReturnURL    string
	CancelURL    string
	BrandName    string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

// paypal creates v2 orders with intent CAPTURE. A charge stays pending until the
// buyer approves it and Confirm captures it.
type paypal struct {
	cfg PayPalConfig
	api *apiClient

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewPayPal(log *logger.Logger, cfg PayPalConfig) (Gateway, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.ClientID) == "" || strings.TrimSpace(cfg.ClientSecret) == "" {
		return nil, fmt.Errorf("missing PAYPAL_CLIENT_ID or PAYPAL_CLIENT_SECRET")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultPayPalBaseURL
	}
	p := &paypal{cfg: cfg}
	p.api = newAPIClient(log, ProviderPayPal, cfg.BaseURL, cfg.Timeout, cfg.MaxRetries, cfg.RetryBackoff)
	p.api.authorize = p.authorize
	return p, nil
}

func (p *paypal) Name() string { return ProviderPayPal }

type paypalAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type paypalPurchaseUnit struct {
	ReferenceID string       `json:"reference_id,omitempty"`
	Description string       `json:"description,omitempty"`
	CustomID    string       `json:"custom_id,omitempty"`
	Amount      paypalAmount `json:"amount"`
}

type paypalAppContext struct {
	BrandName string `json:"brand_name,omitempty"`
	ReturnURL string `json:"return_url,omitempty"`
	CancelURL string `json:"cancel_url,omitempty"`
}

type paypalCreateOrder struct {
	Intent             string               `json:"intent"`
	PurchaseUnits      []paypalPurchaseUnit `json:"purchase_units"`
	ApplicationContext *paypalAppContext    `json:"application_context,omitempty"`
}

type paypalLink struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

type paypalOrder struct {
	ID     string       `json:"id"`
	Status string       `json:"status"`
	Links  []paypalLink `json:"links"`
}

func (p *paypal) Charge(ctx context.Context, order domain.Order) (Charge, error) {
	currency := strings.ToUpper(order.Currency)
	body := paypalCreateOrder{
		Intent: "CAPTURE",
		PurchaseUnits: []paypalPurchaseUnit{{
			ReferenceID: order.ChapterID,
			Description: fmt.Sprintf("Audio bundle (%d items)", len(order.Items)),
			CustomID:    order.UserID,
			Amount:      paypalAmount{CurrencyCode: currency, Value: FormatAmount(order.AmountCents)},
		}},
	}
	if p.cfg.ReturnURL != "" || p.cfg.CancelURL != "" || p.cfg.BrandName != "" {
		body.ApplicationContext = &paypalAppContext{
			BrandName: p.cfg.BrandName,
			ReturnURL: p.cfg.ReturnURL,
			CancelURL: p.cfg.CancelURL,
		}
	}
	req, err := jsonRequest(http.MethodPost, "/v2/checkout/orders", body)
	if err != nil {
		return Charge{}, err
	}
	var out paypalOrder
	if err := p.api.doJSON(ctx, req, &out); err != nil {
		return Charge{}, err
	}
	if out.ID == "" {
		return Charge{}, errors.New("paypal: order id missing from response")
	}
	c := Charge{ProviderRef: out.ID, Status: paypalStatus(out.Status)}
	for _, l := range out.Links {
		if l.Rel == "approve" || l.Rel == "payer-action" {
			c.ApproveURL = l.Href
			break
		}
	}
	return c, nil
}

// Confirm captures an approved order. Orders the buyer has not approved yet
// stay pending.
func (p *paypal) Confirm(ctx context.Context, orderID string) (string, error) {
	if strings.TrimSpace(orderID) == "" {
		return "", errors.New("paypal: order id required")
	}
	path := "/v2/checkout/orders/" + url.PathEscape(orderID)
	var current paypalOrder
	if err := p.api.doJSON(ctx, apiRequest{method: http.MethodGet, path: path}, &current); err != nil {
		return "", err
	}
	if current.Status != "APPROVED" {
		return paypalStatus(current.Status), nil
	}
	req, _ := jsonRequest(http.MethodPost, path+"/capture", map[string]any{})
	var captured paypalOrder
	if err := p.api.doJSON(ctx, req, &captured); err != nil {
		return "", err
	}
	return paypalStatus(captured.Status), nil
}

func paypalStatus(s string) string {
	switch strings.ToUpper(s) {
	case "COMPLETED":
		return domain.PurchaseStatusCompleted
	case "VOIDED":
		return domain.PurchaseStatusFailed
	default:
		return domain.PurchaseStatusPending
	}
}

type paypalToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (p *paypal) authorize(ctx context.Context, req *http.Request) error {
	if strings.HasSuffix(req.URL.Path, "/v1/oauth2/token") {
		req.SetBasicAuth(p.cfg.ClientID, p.cfg.ClientSecret)
		return nil
	}
	tok, err := p.accessToken(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	return nil
}

func (p *paypal) accessToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.token != "" && time.Now().Before(p.tokenExpiry) {
		return p.token, nil
	}
	form := url.Values{"grant_type": {"client_credentials"}}
	req := apiRequest{
		method:      http.MethodPost,
		path:        "/v1/oauth2/token",
		body:        []byte(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	}
	var tok paypalToken
	if err := p.api.doJSON(ctx, req, &tok); err != nil {
		return "", fmt.Errorf("paypal: access token: %w", err)
	}
	if tok.AccessToken == "" {
		return "", errors.New("paypal: empty access token")
	}
	ttl := time.Duration(tok.ExpiresIn) * time.Second
	if ttl > time.Minute {
		ttl -= time.Minute
	}
	p.token = tok.AccessToken
	p.tokenExpiry = time.Now().Add(ttl)
	return p.token, nil
}
