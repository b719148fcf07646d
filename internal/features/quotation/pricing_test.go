package quotation

import (
	"context"
	"testing"
)

func TestDefaultPricingComputesFinalPrice(t *testing.T) {
	out, err := EvaluatePricing(context.Background(), DefaultPricingScript, PricingInput{
		ListPriceUF:   4000,
		DiscountPct:   5,
		CommissionPct: 2,
		Role:          "sales_agent",
	})
	if err != nil {
		t.Fatalf("EvaluatePricing: %v", err)
	}
	if !out.Valid {
		t.Fatalf("expected valid, got %q", out.Message)
	}
	if out.FinalPriceUF != 3800 {
		t.Errorf("FinalPriceUF = %v, want 3800", out.FinalPriceUF)
	}
}

func TestDefaultPricingDiscountCaps(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		discount float64
		valid    bool
	}{
		{"agent within cap", "sales_agent", 10, true},
		{"agent over cap", "sales_agent", 12, false},
		{"manager within cap", "sales_manager", 12, true},
		{"manager over cap", "sales_manager", 20, false},
		{"admin deep discount", "admin", 50, true},
		{"negative discount", "sales_agent", -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := EvaluatePricing(context.Background(), DefaultPricingScript, PricingInput{
				ListPriceUF:   1000,
				DiscountPct:   tt.discount,
				CommissionPct: 2,
				Role:          tt.role,
			})
			if err != nil {
				t.Fatalf("EvaluatePricing: %v", err)
			}
			if out.Valid != tt.valid {
				t.Errorf("Valid = %v (%q), want %v", out.Valid, out.Message, tt.valid)
			}
		})
	}
}

func TestDefaultPricingRejectsBadInputs(t *testing.T) {
	out, err := EvaluatePricing(context.Background(), DefaultPricingScript, PricingInput{
		ListPriceUF:   0,
		DiscountPct:   0,
		CommissionPct: 2,
		Role:          "sales_agent",
	})
	if err != nil {
		t.Fatalf("EvaluatePricing: %v", err)
	}
	if out.Valid {
		t.Error("zero list price should be rejected")
	}

	out, err = EvaluatePricing(context.Background(), DefaultPricingScript, PricingInput{
		ListPriceUF:   1000,
		DiscountPct:   0,
		CommissionPct: 8,
		Role:          "sales_agent",
	})
	if err != nil {
		t.Fatalf("EvaluatePricing: %v", err)
	}
	if out.Valid {
		t.Error("commission over cap should be rejected")
	}
}

func TestCustomScript(t *testing.T) {
	script := `
valid := discount_pct <= 2.0
message := valid ? "ok" : "house rule: max 2%"
final_price := list_price - 100.0
`
	out, err := EvaluatePricing(context.Background(), script, PricingInput{
		ListPriceUF: 1000,
		DiscountPct: 1,
	})
	if err != nil {
		t.Fatalf("EvaluatePricing: %v", err)
	}
	if !out.Valid || out.FinalPriceUF != 900 {
		t.Errorf("outcome = %+v", out)
	}
}

func TestValidatePricingScript(t *testing.T) {
	if err := ValidatePricingScript(DefaultPricingScript); err != nil {
		t.Errorf("default script should validate: %v", err)
	}
	if err := ValidatePricingScript("this is not tengo ::"); err == nil {
		t.Error("garbage script should fail validation")
	}
}
