package escpos

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/lunapos/print-bridge/internal/model"
)

// Compile turns a receipt into a printer-ready payload for the given column
// width. It is pure: the same receipt, width and logo raster always produce
// byte-identical output. Missing optional fields omit their section. logo,
// when non-nil, is a pre-built GS v 0 raster block (see Raster).
func Compile(r *model.Receipt, width int, logo []byte) ([]byte, error) {
	if r == nil {
		return nil, model.ErrInvalidReceipt
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	cur := r.Currency
	rule := strings.Repeat("-", width)

	var buf bytes.Buffer
	line := func(s string) {
		buf.WriteString(s)
		buf.WriteByte('\n')
	}

	// Header: reset state, centered business identity block.
	buf.Write(cmdInit)
	buf.Write(cmdAlignCenter)
	if len(logo) > 0 {
		buf.Write(logo)
		buf.WriteByte('\n')
	}
	if r.BusinessName != "" {
		buf.Write(cmdSizeDouble)
		buf.Write(cmdBoldOn)
		line(r.BusinessName)
		buf.Write(cmdBoldOff)
		buf.Write(cmdSizeNormal)
	}
	if r.HeaderText != "" {
		line(r.HeaderText)
	}
	if r.Address != "" {
		line(r.Address)
	}
	if r.Phone != "" {
		line("Tel: " + r.Phone)
	}
	if r.TaxID != "" {
		line("Tax ID: " + r.TaxID)
	}
	line(rule)

	// Order metadata, one line each when provided.
	buf.Write(cmdAlignLeft)
	if r.OrderNumber != "" {
		line("Order: " + r.OrderNumber)
	}
	if r.Date != "" {
		line("Date: " + r.Date)
	}
	if r.Cashier != "" {
		line("Cashier: " + r.Cashier)
	}
	if r.Customer != "" {
		line("Customer: " + r.Customer)
	}
	line(rule)

	// Line items with totals flush right at the last column.
	for _, it := range r.Items {
		total := FormatMoney(it.Total, cur)
		prefix := strconv.Itoa(it.Quantity) + "x "
		name := TruncateItemName(it.Name, prefix, total, width)
		line(PadLine(prefix+name, total, width))
		if it.Modifiers != "" {
			line("  " + it.Modifiers)
		}
	}
	line(rule)

	// Monetary summary.
	line(PadLine("Subtotal:", FormatMoney(r.Subtotal, cur), width))
	if r.Discount > 0 {
		label := "Discount:"
		if r.DiscountPercent > 0 {
			label = fmt.Sprintf("Discount (%s%%):", formatRate(r.DiscountPercent))
		}
		line(PadLine(label, "-"+FormatMoney(r.Discount, cur), width))
	}
	if r.Tax > 0 {
		label := "Tax:"
		if r.TaxRate > 0 {
			label = fmt.Sprintf("Tax (%s%%):", formatRate(r.TaxRate))
		}
		line(PadLine(label, FormatMoney(r.Tax, cur), width))
	}
	buf.Write(cmdBoldOn)
	buf.Write(cmdSizeDouble)
	line(PadLine("TOTAL:", FormatMoney(r.Total, cur), width))
	buf.Write(cmdSizeNormal)
	buf.Write(cmdBoldOff)
	line(rule)

	// Payments and change.
	for _, p := range r.Payments {
		line(PadLine(capitalize(p.Type)+":", FormatMoney(p.Amount, cur), width))
	}
	if r.ChangeAmount > 0 {
		line(PadLine("Change:", FormatMoney(r.ChangeAmount, cur), width))
	}

	// Footer and feed for tear-off.
	line("")
	buf.Write(cmdAlignCenter)
	if r.FooterText != "" {
		line(r.FooterText)
	}
	if r.CouponEnabled && r.CouponText != "" {
		line(r.CouponText)
	}
	line("")
	line("")
	line("")

	if r.ShouldCut() {
		buf.Write(cmdFeed3)
		buf.Write(cmdCut)
	}
	if r.OpenCashDrawer {
		buf.Write(DrawerKick)
	}
	return buf.Bytes(), nil
}

// formatRate prints a percentage without trailing zeros: 10 -> "10",
// 7.5 -> "7.5".
func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
