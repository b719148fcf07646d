package quotation

import (
	"context"
	"fmt"
	"time"

	"github.com/d5/tengo/v2"
)

// DefaultPricingScript is the built-in rule used when an organization has
// not stored its own. Scripts receive list_price, discount_pct,
// commission_pct and role, and must set valid, message and final_price.
const DefaultPricingScript = `
max_discount := 10.0
if role == "sales_manager" || role == "corporate_manager" {
	max_discount = 15.0
}
if role == "admin" {
	max_discount = 100.0
}

valid := true
message := "ok"

if discount_pct < 0.0 || discount_pct > max_discount {
	valid = false
	message = "discount out of range for role"
}
if valid && (commission_pct < 0.0 || commission_pct > 6.0) {
	valid = false
	message = "commission out of range"
}
if valid && list_price <= 0.0 {
	valid = false
	message = "list price must be positive"
}

final_price := list_price * (100.0 - discount_pct) / 100.0
`

// PricingInput is what a rule script sees.
type PricingInput struct {
	ListPriceUF   float64
	DiscountPct   float64
	CommissionPct float64
	Role          string
}

// PricingOutcome is what a rule script must produce.
type PricingOutcome struct {
	Valid        bool    `json:"valid"`
	Message      string  `json:"message"`
	FinalPriceUF float64 `json:"final_price_uf"`
}

const scriptTimeout = 2 * time.Second

// EvaluatePricing compiles and runs one rule script against a quotation.
// Script errors surface to the caller; they do not silently approve.
func EvaluatePricing(ctx context.Context, source string, in PricingInput) (*PricingOutcome, error) {
	script := tengo.NewScript([]byte(source))

	script.Add("list_price", in.ListPriceUF)
	script.Add("discount_pct", in.DiscountPct)
	script.Add("commission_pct", in.CommissionPct)
	script.Add("role", in.Role)

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to compile pricing rule: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, scriptTimeout)
	defer cancel()
	if err := compiled.RunContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to run pricing rule: %w", err)
	}

	outcome := &PricingOutcome{
		Valid:        compiled.Get("valid").Bool(),
		Message:      compiled.Get("message").String(),
		FinalPriceUF: compiled.Get("final_price").Float(),
	}
	return outcome, nil
}

// ValidatePricingScript compiles a candidate script with dummy inputs so a
// broken rule is rejected at save time, not at quoting time.
func ValidatePricingScript(source string) error {
	_, err := EvaluatePricing(context.Background(), source, PricingInput{
		ListPriceUF:   1000,
		DiscountPct:   5,
		CommissionPct: 2,
		Role:          "sales_agent",
	})
	return err
}
