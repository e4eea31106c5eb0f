package orderrequest

import (
	"net/url"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/kevin07696/checkout-bridge/internal/address"
	"github.com/kevin07696/checkout-bridge/internal/config"
	"github.com/kevin07696/checkout-bridge/internal/domain"
	"github.com/kevin07696/checkout-bridge/internal/money"
	"github.com/kevin07696/checkout-bridge/internal/orderrequest/shoppingcart"
)

const (
	recurringModelCardOnFile = "cardOnFile"
	amountTolerance          = 1
)

// Step adds one section to the request and returns the new request.
// A step that has nothing to contribute returns req unchanged.
type Step func(in Input, req OrderRequest) (OrderRequest, error)

// Builder assembles order requests by folding a fixed list of steps over an
// initial request
type Builder struct {
	cfg           config.CheckoutConfig
	publicBaseURL string
	logger        *zap.Logger
	steps         []Step
}

// NewBuilder creates a builder. publicBaseURL is this service's externally
// reachable base URL, used for the notification and redirect URLs.
func NewBuilder(cfg config.CheckoutConfig, publicBaseURL string, logger *zap.Logger) *Builder {
	b := &Builder{
		cfg:           cfg,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}
	// shopping cart first: later steps must see final totals
	b.steps = []Step{
		b.shoppingCart,
		b.customer,
		b.delivery,
		b.description,
		b.paymentOptions,
		b.plugin,
		b.tokenization,
		b.paymentComponent,
		b.gatewayInfo,
		b.secondChance,
		b.timeActive,
	}
	return b
}

// Build assembles the order request for in
func (b *Builder) Build(in Input) (OrderRequest, error) {
	if in.Cart == nil {
		return OrderRequest{}, domain.NewDomainError(domain.ErrorCodeValidationMissingField, "cart is required")
	}

	req := initial(in)
	for _, step := range b.steps {
		next, err := step(in, req)
		if err != nil {
			return OrderRequest{}, err
		}
		req = next
	}

	if req.ShoppingCart != nil {
		if diff := req.Amount - req.ShoppingCart.Total(); diff > amountTolerance || diff < -amountTolerance {
			b.logger.Warn("Shopping cart does not add up to order amount",
				zap.String("order_id", req.OrderID),
				zap.Int64("amount", req.Amount),
				zap.Int64("cart_total", req.ShoppingCart.Total()))
		}
	}

	return req, nil
}

func initial(in Input) OrderRequest {
	txType := in.Option.Type
	if txType == "" {
		txType = domain.TransactionTypeRedirect
	}
	return OrderRequest{
		Type:     txType,
		OrderID:  in.OrderKey(),
		Gateway:  in.Option.Code,
		Currency: strings.ToUpper(in.Cart.Currency),
		Amount:   money.PriceToCents(in.Cart.Summary.OrderTotal),
	}
}

func (b *Builder) shoppingCart(in Input, req OrderRequest) (OrderRequest, error) {
	snap := lo.ContainsBy(b.cfg.TaxRoundingGateways, func(code string) bool {
		return strings.EqualFold(code, in.Option.Code)
	})
	sc, opts := shoppingcart.Assemble(in.Cart, shoppingcart.Options{SnapTaxRates: snap})
	req.ShoppingCart = &sc
	req.CheckoutOptions = &opts
	return req, nil
}

func (b *Builder) customer(in Input, req OrderRequest) (OrderRequest, error) {
	if in.Customer == nil {
		return req, nil
	}

	c := &Customer{
		Email:       in.Customer.Email,
		Birthday:    in.Customer.Birthday,
		Gender:      in.Customer.Gender,
		IPAddress:   in.Client.IPAddress,
		ForwardedIP: in.Client.ForwardedIP,
		Referrer:    in.Client.Referrer,
		UserAgent:   in.Client.UserAgent,
	}
	if !in.Customer.IsGuest {
		c.Reference = in.Customer.ID
	}

	country := ""
	if in.Cart.InvoiceAddress != nil {
		block, err := address.FromHost(*in.Cart.InvoiceAddress)
		if err != nil {
			return req, domain.WrapError(domain.ErrorCodeAddressInvalid, "invoice address", err)
		}
		c.Block = block
		country = block.Country
	} else {
		c.Block = address.Block{FirstName: in.Customer.FirstName, LastName: in.Customer.LastName, CompanyName: in.Customer.Company}
	}

	lang := lo.Ternary(in.Customer.LanguageISO != "", in.Customer.LanguageISO, in.Cart.LanguageISO)
	c.Locale = address.Locale(lang, country)

	req.Customer = c
	return req, nil
}

func (b *Builder) delivery(in Input, req OrderRequest) (OrderRequest, error) {
	if !in.Cart.HasDelivery() {
		return req, nil
	}
	block, err := address.FromHost(*in.Cart.DeliveryAddress)
	if err != nil {
		return req, domain.WrapError(domain.ErrorCodeAddressInvalid, "delivery address", err)
	}
	req.Delivery = &block
	return req, nil
}

func (b *Builder) description(_ Input, req OrderRequest) (OrderRequest, error) {
	if b.cfg.DescriptionTemplate == "" {
		return req, nil
	}
	req.Description = strings.ReplaceAll(b.cfg.DescriptionTemplate, "%s", req.OrderID)
	return req, nil
}

func (b *Builder) paymentOptions(_ Input, req OrderRequest) (OrderRequest, error) {
	if b.publicBaseURL == "" {
		return req, nil
	}
	query := url.Values{"order_id": {req.OrderID}}.Encode()
	req.PaymentOptions = &PaymentOptions{
		NotificationURL:    b.publicBaseURL + "/api/v1/notification",
		NotificationMethod: "POST",
		RedirectURL:        b.publicBaseURL + "/api/v1/callback?" + query,
		CancelURL:          b.cfg.CancelURL,
		CloseWindow:        true,
	}
	return req, nil
}

func (b *Builder) plugin(_ Input, req OrderRequest) (OrderRequest, error) {
	req.Plugin = &Plugin{
		Shop:          b.cfg.ShopName,
		ShopVersion:   b.cfg.ShopVersion,
		PluginVersion: b.cfg.PluginVersion,
		Partner:       b.cfg.Partner,
		ShopRootURL:   b.publicBaseURL,
	}
	return req, nil
}

// tokenization only applies to registered customers; guests have nothing to
// attach a token to
func (b *Builder) tokenization(in Input, req OrderRequest) (OrderRequest, error) {
	if !b.cfg.TokenizationEnabled || !in.Option.SupportsTokenization {
		return req, nil
	}
	if in.Customer == nil || in.Customer.IsGuest {
		return req, nil
	}

	switch {
	case in.TokenID != "":
		req.RecurringModel = recurringModelCardOnFile
		req.RecurringID = in.TokenID
		req.Type = domain.TransactionTypeDirect
	case in.SaveToken:
		req.RecurringModel = recurringModelCardOnFile
	}
	return req, nil
}

func (b *Builder) paymentComponent(in Input, req OrderRequest) (OrderRequest, error) {
	if !b.cfg.PaymentComponentsEnabled || !in.Option.SupportsPaymentComponent || in.PaymentComponentPayload == "" {
		return req, nil
	}
	req.PaymentData = &PaymentData{Payload: in.PaymentComponentPayload}
	req.Type = domain.TransactionTypeDirect
	return req, nil
}

// gatewayInfo copies the option's declared fields, falling back to customer
// data the shopper already entered
func (b *Builder) gatewayInfo(in Input, req OrderRequest) (OrderRequest, error) {
	if !in.Option.RequiresGatewayInfo() {
		return req, nil
	}

	fallback := map[string]string{}
	if in.Customer != nil {
		fallback["birthday"] = in.Customer.Birthday
		fallback["email"] = in.Customer.Email
		fallback["gender"] = in.Customer.Gender
	}
	if in.Cart.InvoiceAddress != nil {
		fallback["phone"] = in.Cart.InvoiceAddress.PreferredPhone()
	}

	info := make(map[string]string, len(in.Option.GatewayInfoFields))
	for _, field := range in.Option.GatewayInfoFields {
		value := strings.TrimSpace(in.GatewayInfo[field])
		if value == "" {
			value = fallback[field]
		}
		if value != "" {
			info[field] = value
		}
	}
	if len(info) == 0 {
		return req, nil
	}
	req.GatewayInfo = info
	return req, nil
}

func (b *Builder) secondChance(_ Input, req OrderRequest) (OrderRequest, error) {
	req.SecondChance = &SecondChance{SendEmail: b.cfg.SecondChance}
	return req, nil
}

func (b *Builder) timeActive(_ Input, req OrderRequest) (OrderRequest, error) {
	if b.cfg.TimeActive <= 0 {
		return req, nil
	}
	if b.cfg.TimeActiveUnit == "days" {
		req.DaysActive = b.cfg.TimeActive
		return req, nil
	}
	req.SecondsActive = b.cfg.TimeActiveSeconds()
	return req, nil
}
