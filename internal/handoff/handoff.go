// Package handoff turns a settled order into an outbound WhatsApp handoff:
// it validates the dispatch request, composes and encodes the order message,
// and builds the chat URL the customer is sent to. Nothing is transmitted
// from the backend; opening the URL is the submission.
package handoff

import (
	"errors"
	"strings"

	"yarmouktailor/backend/internal/domain"
	"yarmouktailor/backend/internal/order"
	"yarmouktailor/backend/internal/xid"
)

// Validation failures carry the customer-facing message verbatim.
var (
	ErrMissingContact = errors.New("يرجى إدخال الاسم ورقم الجوال")
	ErrMissingPayment = errors.New("يرجى اختيار طريقة الدفع")
	ErrEmptyOrder     = errors.New("السلة فارغة")
)

// Dispatcher builds handoff URLs for a configured destination number.
type Dispatcher struct {
	// Destination is the shop's WhatsApp number as configured; it is
	// normalized to bare digits when the URL is built.
	Destination string
	Options     order.Options
}

// Result is a completed handoff.
type Result struct {
	OrderID string
	URL     string
	Message string
}

// Dispatch validates the request against the current order and, when valid,
// produces the order identifier, the composed message, and the chat URL.
// Validations run in a fixed order so the customer always sees the first
// unmet requirement: contact details, then payment method, then a non-empty
// order.
func (d *Dispatcher) Dispatch(
	req domain.DispatchRequest,
	spec domain.CustomizationSpec,
	fabric *domain.FabricOffering,
	lines []order.Line,
	summary domain.OrderSummary,
) (*Result, error) {
	if strings.TrimSpace(req.CustomerName) == "" || strings.TrimSpace(req.CustomerPhone) == "" {
		return nil, ErrMissingContact
	}
	if req.PaymentMethod == "" || !d.acceptsPayment(req.PaymentMethod) {
		return nil, ErrMissingPayment
	}
	if summary.GrandTotal <= 0 {
		return nil, ErrEmptyOrder
	}
	deliveryDate := req.DeliveryDate
	if !d.Options.CollectDeliveryDate {
		deliveryDate = ""
	}

	orderID := xid.OrderID("YT")
	msg := order.ComposeMessage(
		d.Options,
		spec,
		fabric,
		lines,
		summary,
		strings.TrimSpace(req.CustomerName),
		strings.TrimSpace(req.CustomerPhone),
		req.PaymentMethod,
		deliveryDate,
		orderID,
	)
	return &Result{
		OrderID: orderID,
		URL:     "https://wa.me/" + NormalizeDestination(d.Destination) + "?text=" + order.Encode(msg),
		Message: msg,
	}, nil
}

// acceptsPayment reports whether the method is offered by this storefront
// variant. An empty configured list accepts any method.
func (d *Dispatcher) acceptsPayment(method string) bool {
	if len(d.Options.PaymentMethods) == 0 {
		return true
	}
	for _, m := range d.Options.PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

// NormalizeDestination strips everything but digits from a configured phone
// number, so "+966 50 000 0000" and "966500000000" address the same chat.
func NormalizeDestination(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
