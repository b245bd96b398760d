package core

import "testing"

// Every category must carry a color and icon; adding a category without
// updating the attribute table is a bug this test catches.
func TestCategoryAttributesExhaustive(t *testing.T) {
	for _, c := range Categories() {
		if !c.IsValid() {
			t.Errorf("category %q missing from attribute table", c)
		}
		if c.Color() == "" {
			t.Errorf("category %q has no color", c)
		}
		if c.Icon() == "" {
			t.Errorf("category %q has no icon", c)
		}
	}
	if len(Categories()) != len(categoryTable) {
		t.Fatalf("Categories() lists %d entries, table has %d", len(Categories()), len(categoryTable))
	}
}

func TestCategoryUnknownFallback(t *testing.T) {
	unknown := Category("Cryptozoology")
	if unknown.Color() != Uncategorized.Color() {
		t.Errorf("unknown color = %s, want Uncategorized fallback", unknown.Color())
	}
	if unknown.Icon() != Uncategorized.Icon() {
		t.Errorf("unknown icon = %s, want Uncategorized fallback", unknown.Icon())
	}
}

func TestParseCategory(t *testing.T) {
	if got, err := ParseCategory("Food & Drinks"); err != nil || got != FoodDrinks {
		t.Fatalf("ParseCategory = %q, %v", got, err)
	}
	if _, err := ParseCategory("Groceries"); err == nil {
		t.Fatal("expected error for unknown label")
	}
}

func TestPaymentMethodsExhaustive(t *testing.T) {
	for _, p := range PaymentMethods() {
		if !p.IsValid() {
			t.Errorf("payment method %q missing from color table", p)
		}
		if p.Color() == "" {
			t.Errorf("payment method %q has no color", p)
		}
	}
	if len(PaymentMethods()) != len(paymentMethodColors) {
		t.Fatalf("PaymentMethods() lists %d entries, table has %d", len(PaymentMethods()), len(paymentMethodColors))
	}
	if PaymentMethod("Cheque").Color() != OtherMethod.Color() {
		t.Error("unknown payment method should fall back to Other Method color")
	}
}
