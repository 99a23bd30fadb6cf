// Package order is the order aggregator: pure functions that combine the
// customization spec, the fabric selection, and the cart into a priced
// summary and a serialized outbound message.
package order

import (
	"net/url"
	"strconv"
	"strings"

	"yarmouktailor/backend/internal/domain"
)

// Options are the recognized storefront variant knobs. One parameterized
// composer replaces the near-duplicate message builders of the storefront
// variants.
type Options struct {
	ShopName            string
	CurrencyLabel       string
	ServiceFee          float64
	DepositPercent      float64 // 0 disables the cash-deposit annotation
	CollectDeliveryDate bool
	IncludeOrderID      bool
	PaymentMethods      []string
}

// Line is a cart line resolved against the catalog.
type Line struct {
	Name     string
	Price    float64
	Quantity int
}

// Summarize derives the priced order summary. It never fails: absent
// selections contribute 0. The service fee is charged only when the
// customization spec has an active tailoring order.
func Summarize(spec domain.CustomizationSpec, fabric *domain.FabricOffering, lines []Line, serviceFee float64) domain.OrderSummary {
	summary := domain.OrderSummary{}
	if fabric != nil {
		summary.TailoringBasePrice = fabric.Price
	}
	if spec.HasActiveOrder() {
		summary.TailoringServiceFee = serviceFee
	}
	for _, line := range lines {
		summary.ReadymadeTotal += line.Price * float64(line.Quantity)
	}
	summary.GrandTotal = summary.TailoringBasePrice + summary.TailoringServiceFee + summary.ReadymadeTotal
	return summary
}

// ComposeMessage serializes the aggregate order into the outbound text
// message. The layout is deterministic: measurements appear in their fixed
// field order, unset style fields are omitted, and the emphasis markers are
// passed through verbatim for the destination channel to render.
func ComposeMessage(
	opts Options,
	spec domain.CustomizationSpec,
	fabric *domain.FabricOffering,
	lines []Line,
	summary domain.OrderSummary,
	customerName string,
	customerPhone string,
	paymentMethod string,
	deliveryDate string,
	orderID string,
) string {
	var b strings.Builder

	b.WriteString("*طلب جديد - " + opts.ShopName + "*\n")
	if opts.IncludeOrderID && orderID != "" {
		b.WriteString("رقم الطلب: " + orderID + "\n")
	}
	b.WriteString("\n")

	b.WriteString("*اسم العميل:* " + customerName + "\n")
	b.WriteString("*رقم الجوال:* " + customerPhone + "\n")
	if deliveryDate != "" {
		b.WriteString("*موعد التسليم:* " + deliveryDate + "\n")
	}
	b.WriteString("\n")

	if spec.HasActiveOrder() {
		b.WriteString("*--- قسم التفصيل ---*\n")
		for _, key := range domain.MeasurementKeys {
			value := spec.Measurements[key]
			if value == "" {
				continue
			}
			label := domain.MeasurementLabels[key]
			if label == "" {
				label = key
			}
			b.WriteString(label + ": " + value + " إنش\n")
		}
		if spec.NeckType != "" {
			b.WriteString("نوع الرقبة: " + spec.NeckType + "\n")
		}
		if spec.CuffType != "" {
			b.WriteString("نوع الكبك: " + spec.CuffType + "\n")
		}
		if spec.ChestType != "" {
			b.WriteString("نوع جبزور الصدر: " + spec.ChestType + "\n")
		}
		if spec.TailorType != "" {
			b.WriteString("نوع الخياطة: " + spec.TailorType + "\n")
		}
		if fabric != nil {
			b.WriteString("القماش: " + fabric.Name + " - " + FormatAmount(fabric.Price) + " " + opts.CurrencyLabel + "\n")
		}
		if spec.Notes != "" {
			b.WriteString("ملاحظات: " + spec.Notes + "\n")
		}
		b.WriteString("أجرة التفصيل: " + FormatAmount(summary.TailoringServiceFee) + " " + opts.CurrencyLabel + "\n\n")
	}

	if len(lines) > 0 {
		b.WriteString("*--- ملابس جاهزة ---*\n")
		for _, line := range lines {
			total := line.Price * float64(line.Quantity)
			b.WriteString(line.Name + " × " + strconv.Itoa(line.Quantity) + " = " + FormatAmount(total) + " " + opts.CurrencyLabel + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("*الإجمالي: " + FormatAmount(summary.GrandTotal) + " " + opts.CurrencyLabel + "*\n")
	b.WriteString("*طريقة الدفع:* " + paymentLabel(paymentMethod) + "\n")
	if paymentMethod == domain.PaymentCash && opts.DepositPercent > 0 {
		deposit := summary.GrandTotal * opts.DepositPercent
		b.WriteString("*العربون المطلوب:* " + FormatAmount(deposit) + " " + opts.CurrencyLabel + "\n")
	}

	return b.String()
}

// Encode percent-encodes a message for inclusion in a URL query parameter.
// Spaces become %20 (not '+') so that decoding reproduces the message
// exactly and the destination channel renders it as written.
func Encode(msg string) string {
	return strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
}

// Decode reverses Encode. Exposed for tests and previews.
func Decode(encoded string) (string, error) {
	return url.QueryUnescape(encoded)
}

// FormatAmount renders a currency amount the way the storefront displays
// prices: no decimals for whole amounts, minimal decimals otherwise.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func paymentLabel(method string) string {
	if label, ok := domain.PaymentMethodLabels[method]; ok {
		return label
	}
	return method
}
