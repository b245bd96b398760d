package core

import "strings"

// Category is a transaction tag. A transaction can carry several at once.
type Category string

const (
	// Expense categories
	Shopping       Category = "Shopping"
	FoodDrinks     Category = "Food & Drinks"
	Transport      Category = "Transport"
	BillsUtilities Category = "Bills & Utilities"
	Rent           Category = "Rent/Mortgage"
	Travel         Category = "Travel"
	Health         Category = "Health"

	// Income categories
	Salary      Category = "Salary"
	Investments Category = "Investments"
	Freelance   Category = "Freelance/Side Job"
	Gift        Category = "Gift"

	// General
	OtherIncome   Category = "Other Income"
	Uncategorized Category = "Uncategorized"
)

// categoryAttrs carries the presentational attributes of a category.
// Keeping color and icon in one table makes adding a category a
// single-point change; TestCategoryAttributesExhaustive guards it.
type categoryAttrs struct {
	color string
	icon  string
}

var categoryTable = map[Category]categoryAttrs{
	Shopping:       {color: "#FF6384", icon: "shopping-bag"},
	FoodDrinks:     {color: "#FF9F40", icon: "utensils"},
	Transport:      {color: "#FFCD56", icon: "car"},
	BillsUtilities: {color: "#4BC0C0", icon: "receipt"},
	Rent:           {color: "#A32C2C", icon: "home"},
	Travel:         {color: "#9966FF", icon: "plane"},
	Health:         {color: "#C9CB30", icon: "heart-pulse"},
	Salary:         {color: "#36A2EB", icon: "banknote"},
	Investments:    {color: "#2E8B57", icon: "trending-up"},
	Freelance:      {color: "#00CED1", icon: "briefcase"},
	Gift:           {color: "#6A5ACD", icon: "gift"},
	OtherIncome:    {color: "#778899", icon: "wallet"},
	Uncategorized:  {color: "#B3B3B3", icon: "help-circle"},
}

// Categories returns every known category in display order.
func Categories() []Category {
	return []Category{
		Shopping, FoodDrinks, Transport, BillsUtilities, Rent, Travel, Health,
		Salary, Investments, Freelance, Gift,
		OtherIncome, Uncategorized,
	}
}

func (c Category) IsValid() bool {
	_, ok := categoryTable[c]
	return ok
}

func (c Category) String() string {
	return string(c)
}

// Color returns the category's display color. Unknown labels fall back to
// the Uncategorized color so the mapping stays total.
func (c Category) Color() string {
	if a, ok := categoryTable[c]; ok {
		return a.color
	}
	return categoryTable[Uncategorized].color
}

// Icon returns the category's icon name, with the same total-mapping
// fallback as Color.
func (c Category) Icon() string {
	if a, ok := categoryTable[c]; ok {
		return a.icon
	}
	return categoryTable[Uncategorized].icon
}

// ParseCategory validates a raw label. Aggregators group by whatever label
// appears; parsing is only for the submission boundary.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSpace(s))
	if !c.IsValid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

// PaymentMethod tags how the money moved.
type PaymentMethod string

const (
	Visa         PaymentMethod = "Visa"
	Mastercard   PaymentMethod = "Mastercard"
	Cash         PaymentMethod = "Cash"
	BankTransfer PaymentMethod = "Bank Transfer"
	Atome        PaymentMethod = "Atome"
	GCash        PaymentMethod = "GCash"
	MariBank     PaymentMethod = "MariBank"
	PayMaya      PaymentMethod = "PayMaya"
	OtherMethod  PaymentMethod = "Other Method"
)

var paymentMethodColors = map[PaymentMethod]string{
	Visa:         "#1E41B8",
	Mastercard:   "#FF6900",
	Cash:         "#4CAF50",
	BankTransfer: "#607D8B",
	Atome:        "#A2AAAD",
	GCash:        "#009CDE",
	MariBank:     "#FFA500",
	PayMaya:      "#008000",
	OtherMethod:  "#BDBDBD",
}

// PaymentMethods returns every known method in display order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		Visa, Mastercard, Cash, BankTransfer, Atome,
		GCash, MariBank, PayMaya, OtherMethod,
	}
}

func (p PaymentMethod) IsValid() bool {
	_, ok := paymentMethodColors[p]
	return ok
}

func (p PaymentMethod) String() string {
	return string(p)
}

// Color returns the method's display color, falling back to Other Method.
func (p PaymentMethod) Color() string {
	if c, ok := paymentMethodColors[p]; ok {
		return c
	}
	return paymentMethodColors[OtherMethod]
}

// ParsePaymentMethod validates a raw label.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	p := PaymentMethod(strings.TrimSpace(s))
	if !p.IsValid() {
		return "", ErrInvalidPayment
	}
	return p, nil
}
