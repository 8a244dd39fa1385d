package model

import "errors"

// ErrInvalidReceipt marks a receipt body that decoded but cannot be printed.
var ErrInvalidReceipt = errors.New("invalid receipt")

// --- Receipt Structures (Matching the POS JSON) ---

type Receipt struct {
	BusinessName string `json:"businessName,omitempty"`
	HeaderText   string `json:"headerText,omitempty"`
	FooterText   string `json:"footerText,omitempty"`
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
	TaxID        string `json:"taxId,omitempty"`

	OrderNumber string `json:"orderNumber,omitempty"`
	Date        string `json:"date,omitempty"`
	Cashier     string `json:"cashier,omitempty"`
	Customer    string `json:"customer,omitempty"`

	Items []LineItem `json:"items,omitempty"`

	Subtotal        float64 `json:"subtotal,omitempty"`
	Discount        float64 `json:"discount,omitempty"`
	DiscountPercent float64 `json:"discountPercent,omitempty"`
	Tax             float64 `json:"tax,omitempty"`
	TaxRate         float64 `json:"taxRate,omitempty"`
	Total           float64 `json:"total,omitempty"`

	Payments     []Payment `json:"payments,omitempty"`
	ChangeAmount float64   `json:"changeAmount,omitempty"`

	Currency string `json:"currency,omitempty"`

	FontSize   int    `json:"fontSize,omitempty"`
	FontFamily string `json:"fontFamily,omitempty"`
	LogoURL    string `json:"logoUrl,omitempty"`
	LogoWidth  int    `json:"logoWidth,omitempty"`

	OpenCashDrawer bool   `json:"openCashDrawer,omitempty"`
	CutPaper       *bool  `json:"cutPaper,omitempty"` // nil means cut
	CouponEnabled  bool   `json:"couponEnabled,omitempty"`
	CouponText     string `json:"couponText,omitempty"`
}

type LineItem struct {
	Name      string   `json:"name"`
	Quantity  int      `json:"quantity"`
	UnitPrice *float64 `json:"unitPrice,omitempty"`
	Total     float64  `json:"total"`
	Modifiers string   `json:"modifiers,omitempty"`
}

type Payment struct {
	Type          string  `json:"type"`
	Amount        float64 `json:"amount"`
	TransactionID string  `json:"transactionId,omitempty"`
}

// ShouldCut reports whether the compiled payload ends with a paper cut.
// The flag is optional on the wire; absence means cut.
func (r *Receipt) ShouldCut() bool {
	return r.CutPaper == nil || *r.CutPaper
}

// Validate enforces the invariants the compiler relies on. Amounts are
// checked for sign, item quantities for the >= 1 invariant.
func (r *Receipt) Validate() error {
	if r == nil {
		return ErrInvalidReceipt
	}
	for _, it := range r.Items {
		if it.Quantity < 1 {
			return ErrInvalidReceipt
		}
		if it.Total < 0 {
			return ErrInvalidReceipt
		}
	}
	if r.Subtotal < 0 || r.Discount < 0 || r.Tax < 0 || r.Total < 0 || r.ChangeAmount < 0 {
		return ErrInvalidReceipt
	}
	for _, p := range r.Payments {
		if p.Amount < 0 {
			return ErrInvalidReceipt
		}
	}
	return nil
}
