package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"yarmouktailor/backend/internal/domain"
	"yarmouktailor/backend/internal/gate"
	"yarmouktailor/backend/internal/handoff"
	"yarmouktailor/backend/internal/order"
	"yarmouktailor/backend/internal/service"
	"yarmouktailor/backend/internal/session"
	"yarmouktailor/backend/internal/store/memory"
)

func newTestHandler() http.Handler {
	catalog := memory.NewSeeded()
	sessions := session.NewManager(session.NewMemoryStore(time.Hour))
	dispatcher := &handoff.Dispatcher{
		Destination: "966500000000",
		Options: order.Options{
			ShopName:      "خياط اليرموك",
			CurrencyLabel: "ر.س",
			ServiceFee:    150,
		},
	}
	svc := service.New(catalog, sessions, dispatcher, 150, 0)
	return New(svc, "*").Handler()
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return out
}

func createSession(t *testing.T, handler http.Handler) string {
	t.Helper()
	rec := doJSON(t, handler, http.MethodPost, "/api/v1/sessions", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session: status %d body %s", rec.Code, rec.Body.String())
	}
	view := decodeBody[domain.SessionView](t, rec)
	if view.SessionID == "" {
		t.Fatalf("expected session id in response")
	}
	return view.SessionID
}

func TestHealthz(t *testing.T) {
	handler := newTestHandler()
	rec := doJSON(t, handler, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestCatalogEndpoint(t *testing.T) {
	handler := newTestHandler()
	rec := doJSON(t, handler, http.MethodGet, "/api/v1/catalog", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
	catalog := decodeBody[domain.CatalogResponse](t, rec)
	if len(catalog.Fabrics) != 4 {
		t.Fatalf("expected 4 fabrics, got %d", len(catalog.Fabrics))
	}
	if len(catalog.Products) != 3 {
		t.Fatalf("expected 3 product groups, got %d", len(catalog.Products))
	}

	if rec := doJSON(t, handler, http.MethodPost, "/api/v1/catalog", nil); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestOrderFlowOverHTTP(t *testing.T) {
	handler := newTestHandler()
	id := createSession(t, handler)
	base := "/api/v1/sessions/" + id

	rec := doJSON(t, handler, http.MethodPut, base+"/measurements", domain.MeasurementSetRequest{Key: "height", Value: "58"})
	if rec.Code != http.StatusOK {
		t.Fatalf("set measurement: status %d body %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, handler, http.MethodPut, base+"/fabric", domain.FabricSelectRequest{FabricID: "f2"})
	if rec.Code != http.StatusOK {
		t.Fatalf("select fabric: status %d body %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, handler, http.MethodPost, base+"/cart", domain.CartAddRequest{ProductID: "shawl-1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("add to cart: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodGet, base+"/summary", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary: status %d body %s", rec.Code, rec.Body.String())
	}
	summary := decodeBody[domain.OrderSummary](t, rec)
	if summary.GrandTotal != 220+150+180 {
		t.Fatalf("expected grand total 550, got %v", summary.GrandTotal)
	}

	rec = doJSON(t, handler, http.MethodPost, base+"/dispatch", domain.DispatchRequest{
		CustomerName:  "أحمد",
		CustomerPhone: "0501234567",
		PaymentMethod: "cash",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("dispatch: status %d body %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody[domain.DispatchResponse](t, rec)
	if !strings.HasPrefix(resp.HandoffURL, "https://wa.me/966500000000?text=") {
		t.Fatalf("unexpected handoff URL %q", resp.HandoffURL)
	}
	if !strings.HasPrefix(resp.OrderID, "YT-") {
		t.Fatalf("unexpected order id %q", resp.OrderID)
	}
}

func TestDispatchValidationOverHTTP(t *testing.T) {
	handler := newTestHandler()
	id := createSession(t, handler)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/sessions/"+id+"/dispatch", domain.DispatchRequest{})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody[map[string]string](t, rec)
	if body["error"] != "يرجى إدخال الاسم ورقم الجوال" {
		t.Fatalf("expected contact validation message, got %q", body["error"])
	}
}

func TestUnknownSessionReturns404(t *testing.T) {
	handler := newTestHandler()
	rec := doJSON(t, handler, http.MethodGet, "/api/v1/sessions/sess-missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body %s", rec.Code, rec.Body.String())
	}
}

func TestGateFlowAndPrivilegedEditing(t *testing.T) {
	handler := newTestHandler()
	id := createSession(t, handler)
	gateBase := "/api/v1/sessions/" + id + "/gate/"

	var status domain.GateStatus
	for i := 0; i < gate.TapThreshold; i++ {
		rec := doJSON(t, handler, http.MethodPost, gateBase+"tap", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("tap: status %d body %s", rec.Code, rec.Body.String())
		}
		status = decodeBody[domain.GateStatus](t, rec)
	}
	if !status.PinPromptOpen {
		t.Fatalf("expected prompt after %d taps, got %+v", gate.TapThreshold, status)
	}

	rec := doJSON(t, handler, http.MethodPost, gateBase+"pin", domain.GatePinRequest{PIN: "0000"})
	status = decodeBody[domain.GateStatus](t, rec)
	if status.Unlocked || !status.PinPromptOpen {
		t.Fatalf("wrong PIN must keep the prompt open, got %+v", status)
	}

	rec = doJSON(t, handler, http.MethodPost, gateBase+"pin", domain.GatePinRequest{PIN: gate.Secret})
	status = decodeBody[domain.GateStatus](t, rec)
	if !status.Unlocked {
		t.Fatalf("expected unlock, got %+v", status)
	}

	// Catalog edits carry the session through a header.
	payload, _ := json.Marshal(domain.FabricCreateRequest{Name: "قماش جديد", Price: 200})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/fabrics", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", id)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create fabric: status %d body %s", rr.Code, rr.Body.String())
	}

	// Without the header the edit has no unlocked session behind it.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/fabrics", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without session header, got %d", rr.Code)
	}
}

func TestUnknownFieldsRejected(t *testing.T) {
	handler := newTestHandler()
	id := createSession(t, handler)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/sessions/"+id+"/notes", strings.NewReader(`{"notes":"x","bogus":true}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown fields, got %d", rec.Code)
	}
}

func TestCartAdjustOverHTTP(t *testing.T) {
	handler := newTestHandler()
	id := createSession(t, handler)
	base := "/api/v1/sessions/" + id

	rec := doJSON(t, handler, http.MethodPost, base+"/cart", domain.CartAddRequest{ProductID: "thobe-2"})
	if rec.Code != http.StatusOK {
		t.Fatalf("add: status %d", rec.Code)
	}
	rec = doJSON(t, handler, http.MethodPatch, base+"/cart/thobe-2", domain.CartAdjustRequest{Delta: 2})
	if rec.Code != http.StatusOK {
		t.Fatalf("adjust: status %d body %s", rec.Code, rec.Body.String())
	}
	view := decodeBody[domain.SessionView](t, rec)
	if len(view.Cart) != 1 || view.Cart[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %+v", view.Cart)
	}

	rec = doJSON(t, handler, http.MethodPatch, base+"/cart/thobe-2", domain.CartAdjustRequest{Delta: -3})
	view = decodeBody[domain.SessionView](t, rec)
	if len(view.Cart) != 0 {
		t.Fatalf("expected empty cart, got %+v", view.Cart)
	}
}
