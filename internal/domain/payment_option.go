package domain

// PaymentOption is a payment method offered at checkout.
// Gateway code and transaction type are declared here and never taken from
// client input.
type PaymentOption struct {
	Code                     string          `json:"code" yaml:"code"`
	Name                     string          `json:"name" yaml:"name"`
	Type                     TransactionType `json:"type" yaml:"type"`
	SupportsTokenization     bool            `json:"supports_tokenization" yaml:"supports_tokenization"`
	SupportsPaymentComponent bool            `json:"supports_payment_component" yaml:"supports_payment_component"`
	GatewayInfoFields        []string        `json:"gateway_info_fields,omitempty" yaml:"gateway_info_fields"`
	MinAmountCents           int64           `json:"min_amount_cents,omitempty" yaml:"min_amount_cents"`
	MaxAmountCents           int64           `json:"max_amount_cents,omitempty" yaml:"max_amount_cents"`
	Currencies               []string        `json:"currencies,omitempty" yaml:"currencies"`
	Countries                []string        `json:"countries,omitempty" yaml:"countries"`
}

// RequiresGatewayInfo reports whether the option needs a gateway_info block
func (p PaymentOption) RequiresGatewayInfo() bool {
	return len(p.GatewayInfoFields) > 0
}
