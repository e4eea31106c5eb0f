package paymentoption

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kevin07696/checkout-bridge/internal/domain"
)

var eurOnly = []string{"EUR"}

// DefaultCatalogue returns the payment options the gateway offers
func DefaultCatalogue() []domain.PaymentOption {
	return []domain.PaymentOption{
		{Code: "IDEAL", Name: "iDEAL", Type: domain.TransactionTypeRedirect, SupportsTokenization: true, Currencies: eurOnly, Countries: []string{"NL"}},
		{Code: "CREDITCARD", Name: "Card payment", Type: domain.TransactionTypeRedirect, SupportsTokenization: true, SupportsPaymentComponent: true},
		{Code: "VISA", Name: "Visa", Type: domain.TransactionTypeRedirect, SupportsTokenization: true, SupportsPaymentComponent: true},
		{Code: "MASTERCARD", Name: "Mastercard", Type: domain.TransactionTypeRedirect, SupportsTokenization: true, SupportsPaymentComponent: true},
		{Code: "AMEX", Name: "American Express", Type: domain.TransactionTypeRedirect, SupportsTokenization: true, SupportsPaymentComponent: true},
		{Code: "BNCMC", Name: "Bancontact", Type: domain.TransactionTypeRedirect, Currencies: eurOnly, Countries: []string{"BE"}},
		{Code: "PAYPAL", Name: "PayPal", Type: domain.TransactionTypeRedirect},
		{Code: "BANKTRANS", Name: "Bank transfer", Type: domain.TransactionTypeRedirect, Currencies: eurOnly},
		{Code: "DIRDEB", Name: "SEPA Direct Debit", Type: domain.TransactionTypeDirect, GatewayInfoFields: []string{"account_holder_name", "account_holder_iban"}, Currencies: eurOnly},
		{Code: "AFTERPAY", Name: "Riverty", Type: domain.TransactionTypeDirect, GatewayInfoFields: []string{"birthday", "gender", "phone", "email"}, MinAmountCents: 500, MaxAmountCents: 1000000, Currencies: eurOnly, Countries: []string{"NL", "BE", "DE", "AT"}},
		{Code: "IN3", Name: "in3", Type: domain.TransactionTypeDirect, GatewayInfoFields: []string{"birthday", "phone", "email"}, MinAmountCents: 10000, MaxAmountCents: 300000, Currencies: eurOnly, Countries: []string{"NL"}},
		{Code: "KLARNA", Name: "Klarna", Type: domain.TransactionTypeRedirect, Currencies: []string{"EUR", "GBP", "SEK", "NOK", "DKK"}},
		{Code: "APPLEPAY", Name: "Apple Pay", Type: domain.TransactionTypeRedirect},
		{Code: "EPS", Name: "EPS", Type: domain.TransactionTypeRedirect, Currencies: eurOnly, Countries: []string{"AT"}},
	}
}

type catalogueFile struct {
	Options []domain.PaymentOption `yaml:"options"`
}

// LoadCatalogue reads a YAML catalogue:
//
//	options:
//	  - code: IDEAL
//	    name: iDEAL
//	    type: redirect
func LoadCatalogue(r io.Reader) ([]domain.PaymentOption, error) {
	var file catalogueFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode catalogue: %w", err)
	}

	seen := make(map[string]bool, len(file.Options))
	for i, opt := range file.Options {
		code := strings.ToUpper(strings.TrimSpace(opt.Code))
		if code == "" {
			return nil, fmt.Errorf("option %d: code is required", i)
		}
		if seen[code] {
			return nil, fmt.Errorf("option %s: duplicate code", code)
		}
		seen[code] = true

		switch opt.Type {
		case domain.TransactionTypeRedirect, domain.TransactionTypeDirect:
		case "":
			opt.Type = domain.TransactionTypeRedirect
		default:
			return nil, fmt.Errorf("option %s: unknown type %q", code, opt.Type)
		}
		opt.Code = code
		file.Options[i] = opt
	}
	return file.Options, nil
}
