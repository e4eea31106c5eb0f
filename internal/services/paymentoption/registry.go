// Package paymentoption decides which payment options a checkout may offer.
package paymentoption

import (
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/kevin07696/checkout-bridge/internal/domain"
)

// Filter narrows the options to those valid for one checkout
type Filter struct {
	Currency    string
	Country     string
	AmountCents int64
}

// Registry holds the declared payment options.
// Gateway code and transaction type always come from here, never from the
// client.
type Registry struct {
	options   []domain.PaymentOption
	byCode    map[string]domain.PaymentOption
	enabled   map[string]bool
	hasAPIKey bool
	logger    *zap.Logger
}

// NewRegistry creates a registry over catalogue. An empty enabled list
// enables every option. Without an API key no option is offered.
func NewRegistry(catalogue []domain.PaymentOption, enabled []string, hasAPIKey bool, logger *zap.Logger) *Registry {
	r := &Registry{
		options:   catalogue,
		byCode:    lo.KeyBy(catalogue, func(o domain.PaymentOption) string { return strings.ToUpper(o.Code) }),
		hasAPIKey: hasAPIKey,
		logger:    logger,
	}
	if len(enabled) > 0 {
		r.enabled = lo.SliceToMap(enabled, func(code string) (string, bool) {
			return strings.ToUpper(strings.TrimSpace(code)), true
		})
	}
	return r
}

// Available returns the options that can be offered for f, in catalogue order
func (r *Registry) Available(f Filter) []domain.PaymentOption {
	if !r.hasAPIKey {
		r.logger.Warn("Gateway API key not configured, hiding all payment options")
		return nil
	}
	return lo.Filter(r.options, func(o domain.PaymentOption, _ int) bool {
		return r.isEnabled(o.Code) && matches(o, f)
	})
}

// Get returns the declared option for code
func (r *Registry) Get(code string) (domain.PaymentOption, error) {
	if !r.hasAPIKey {
		return domain.PaymentOption{}, domain.WrapError(domain.ErrorCodeConfigMissingAPIKey, "payment options unavailable", domain.ErrMissingAPIKey)
	}
	opt, ok := r.byCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return domain.PaymentOption{}, domain.NewDomainError(domain.ErrorCodeOptionNotFound, "payment option not found").
			WithDetail("code", code)
	}
	if !r.isEnabled(opt.Code) {
		return domain.PaymentOption{}, domain.NewDomainError(domain.ErrorCodeOptionUnavailable, "payment option is disabled").
			WithDetail("code", code)
	}
	return opt, nil
}

// CheckAvailable returns OPTION_UNAVAILABLE when opt cannot be used for f
func (r *Registry) CheckAvailable(opt domain.PaymentOption, f Filter) error {
	if !matches(opt, f) {
		return domain.NewDomainError(domain.ErrorCodeOptionUnavailable, "payment option not available for this checkout").
			WithDetail("code", opt.Code).
			WithDetail("currency", f.Currency).
			WithDetail("country", f.Country)
	}
	return nil
}

// All returns the full catalogue regardless of filters
func (r *Registry) All() []domain.PaymentOption {
	return r.options
}

func (r *Registry) isEnabled(code string) bool {
	return r.enabled == nil || r.enabled[strings.ToUpper(code)]
}

func matches(o domain.PaymentOption, f Filter) bool {
	if len(o.Currencies) > 0 && f.Currency != "" &&
		!lo.ContainsBy(o.Currencies, func(c string) bool { return strings.EqualFold(c, f.Currency) }) {
		return false
	}
	if len(o.Countries) > 0 && f.Country != "" &&
		!lo.ContainsBy(o.Countries, func(c string) bool { return strings.EqualFold(c, f.Country) }) {
		return false
	}
	if o.MinAmountCents > 0 && f.AmountCents < o.MinAmountCents {
		return false
	}
	if o.MaxAmountCents > 0 && f.AmountCents > o.MaxAmountCents {
		return false
	}
	return true
}
