// Package checkout charges bundle orders through a payment provider and records
// the resulting purchase in the user's library.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/seekstruth-backend/internal/domain"
	"github.com/yungbote/seekstruth-backend/internal/library"
	"github.com/yungbote/seekstruth-backend/internal/platform/apierr"
	"github.com/yungbote/seekstruth-backend/internal/platform/ctxutil"
	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
)

const (
	ProviderManual = "manual"
	ProviderPayPal = "paypal"
	ProviderStripe = "stripe"
)

var (
	ErrInvalidOrder     = errors.New("invalid order")
	ErrProviderMismatch = errors.New("purchase belongs to another provider")
)

// Charge is the provider's answer to a charge request.
type Charge struct {
	ProviderRef  string
	Status       string
	ApproveURL   string
	ClientSecret string
}

// Gateway is one payment provider.
type Gateway interface {
	Name() string
	Charge(ctx context.Context, order domain.Order) (Charge, error)
	// Confirm reports the current status of an earlier charge.
	Confirm(ctx context.Context, providerRef string) (string, error)
}

type Config struct {
	Provider string
	PayPal   PayPalConfig
	Stripe   StripeConfig
}

// NewGateway builds the gateway named by cfg.Provider; empty means manual.
func NewGateway(log *logger.Logger, cfg Config) (Gateway, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderManual:
		return NewManual(), nil
	case ProviderPayPal:
		return NewPayPal(log, cfg.PayPal)
	case ProviderStripe:
		return NewStripe(log, cfg.Stripe)
	default:
		return nil, fmt.Errorf("unknown checkout provider %q", cfg.Provider)
	}
}

type Service struct {
	log     *logger.Logger
	gateway Gateway
	library library.Service
}

func NewService(log *logger.Logger, gateway Gateway, lib library.Service) *Service {
	return &Service{log: log.With("service", "CheckoutService"), gateway: gateway, library: lib}
}

func (s *Service) Provider() string { return s.gateway.Name() }

// Checkout charges the order and records the purchase. Orders without a user
// take the caller's identity from ctx.
func (s *Service) Checkout(ctx context.Context, order domain.Order) (domain.Receipt, error) {
	if strings.TrimSpace(order.UserID) == "" {
		order.UserID = ctxutil.UserID(ctx)
	}
	switch {
	case order.UserID == "":
		return domain.Receipt{}, apierr.BadRequest("missing_user", fmt.Errorf("%w: no user", ErrInvalidOrder))
	case len(order.Items) == 0:
		return domain.Receipt{}, apierr.BadRequest("empty_order", fmt.Errorf("%w: no items", ErrInvalidOrder))
	case order.AmountCents <= 0:
		return domain.Receipt{}, apierr.BadRequest("invalid_amount", fmt.Errorf("%w: amount %d", ErrInvalidOrder, order.AmountCents))
	}
	if order.Currency == "" {
		order.Currency = domain.DefaultPricing().Currency
	}

	start := time.Now()
	charge, err := s.gateway.Charge(ctx, order)
	if err != nil {
		s.log.Warn("Charge failed",
			"provider", s.gateway.Name(),
			"user_id", order.UserID,
			"chapter_id", order.ChapterID,
			"error", err,
		)
		return domain.Receipt{}, apierr.New(http.StatusBadGateway, "checkout_failed", err)
	}
	p, err := s.library.RecordPurchase(ctx, library.PurchaseRecord{
		Order:       order,
		Provider:    s.gateway.Name(),
		ProviderRef: charge.ProviderRef,
		Status:      charge.Status,
	})
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("record purchase: %w", err)
	}
	s.log.Info("Checkout finished",
		"provider", s.gateway.Name(),
		"purchase_id", p.ID.String(),
		"status", p.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	r := receipt(p)
	r.ApproveURL = charge.ApproveURL
	r.ClientSecret = charge.ClientSecret
	return r, nil
}

// Confirm asks the provider about a pending purchase and settles it.
func (s *Service) Confirm(ctx context.Context, userID string, purchaseID uuid.UUID) (domain.Receipt, error) {
	p, err := s.library.GetPurchase(ctx, userID, purchaseID)
	if err != nil {
		return domain.Receipt{}, err
	}
	if p.Status != domain.PurchaseStatusPending {
		return receipt(p), nil
	}
	if p.Provider != s.gateway.Name() {
		return domain.Receipt{}, apierr.Conflict("provider_mismatch", ErrProviderMismatch)
	}
	status, err := s.gateway.Confirm(ctx, p.ProviderRef)
	if err != nil {
		return domain.Receipt{}, apierr.New(http.StatusBadGateway, "confirm_failed", err)
	}
	switch status {
	case domain.PurchaseStatusCompleted:
		if p, err = s.library.CompletePurchase(ctx, p.ID); err != nil {
			return domain.Receipt{}, err
		}
	case domain.PurchaseStatusFailed:
		if err := s.library.FailPurchase(ctx, p.ID); err != nil {
			return domain.Receipt{}, err
		}
		p.Status = domain.PurchaseStatusFailed
	}
	return receipt(p), nil
}

func receipt(p *domain.Purchase) domain.Receipt {
	return domain.Receipt{
		PurchaseID:  p.ID.String(),
		ChapterID:   p.ChapterID,
		Provider:    p.Provider,
		ProviderRef: p.ProviderRef,
		Status:      p.Status,
		AmountCents: p.AmountCents,
		Currency:    p.Currency,
	}
}

// FormatAmount renders cents as a decimal string, e.g. 8500 -> "85.00".
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
