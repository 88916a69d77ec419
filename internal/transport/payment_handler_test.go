package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"milka-pos/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func postPrompt(router http.Handler, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/mpesa/prompt", strings.NewReader(body)))
	return w
}

func TestPromptReturnsSTKPayload(t *testing.T) {
	router, store, _ := newTestRouter(t, 1<<20)

	w := postPrompt(router, `{"customer_phone":"0712 345 678","amount":150,"product_id":1,"requested_by":"cashier1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var response domain.STKPushResponse
	json.Unmarshal(w.Body.Bytes(), &response)

	if response.ResponseCode != "0" || !strings.HasPrefix(response.MerchantRequestID, "MILKA") || !strings.HasPrefix(response.CheckoutRequestID, "ws_CO_") {
		t.Errorf("Unexpected response %+v", response)
	}
	if !strings.Contains(response.CustomerMessage, "KES 150 to Milka Shop Juja") {
		t.Errorf("Unexpected customer message %q", response.CustomerMessage)
	}

	if len(store.payments) != 1 {
		t.Fatalf("Expected one audit row, got %d", len(store.payments))
	}
	if store.payments[0].CustomerPhone != "0712345678" || store.payments[0].RequestedBy != "cashier1" {
		t.Errorf("Unexpected audit row %+v", store.payments[0])
	}
}

func TestPromptAcceptsPhoneNumberAlias(t *testing.T) {
	router, store, _ := newTestRouter(t, 1<<20)

	w := postPrompt(router, `{"phone_number":"254712345678","amount":20}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if store.payments[0].CustomerPhone != "254712345678" || store.payments[0].RequestedBy != "system" {
		t.Errorf("Unexpected audit row %+v", store.payments[0])
	}
}

// Invalid prompts never write a payment row
func TestProperty_InvalidPromptsWriteNothing(t *testing.T) {
	bodies := []string{
		`{"customer_phone":"0712345678"}`,
		`{"customer_phone":"0712345678","amount":0}`,
		`{"customer_phone":"0712345678","amount":-10}`,
		`{"customer_phone":"0712345678","amount":10.005}`,
		`{"customer_phone":"0712345678","amount":1e12}`,
		`{"amount":100}`,
		`{"customer_phone":"12345","amount":100}`,
		`{"customer_phone":"0712345678","amount":100,"product_id":0}`,
		`not json`,
	}

	properties := gopter.NewProperties(nil)

	properties.Property("invalid prompts return 400 and leave no audit row", prop.ForAll(
		func(pick int) bool {
			router, store, _ := newTestRouter(t, 1<<20)

			w := postPrompt(router, bodies[pick%len(bodies)])
			return w.Code == http.StatusBadRequest && len(store.payments) == 0
		},
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestPromptMissingAmountNamesField(t *testing.T) {
	router, _, _ := newTestRouter(t, 1<<20)

	w := postPrompt(router, `{"customer_phone":"0712345678"}`)
	if !invalidFields(t, w)["amount"] {
		t.Errorf("Expected amount violation, got %s", w.Body.String())
	}
}

func TestPromptSucceedsWhenAuditFails(t *testing.T) {
	router, store, _ := newTestRouter(t, 1<<20)
	store.paymentErr = errors.New("connection refused")

	w := postPrompt(router, `{"customer_phone":"0712345678","amount":100}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 despite audit failure, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "connection refused") {
		t.Error("Audit failure leaked into the response")
	}
}

func TestListPayments(t *testing.T) {
	router, _, _ := newTestRouter(t, 1<<20)

	postPrompt(router, `{"customer_phone":"0712345678","amount":100}`)
	postPrompt(router, `{"customer_phone":"0712345679","amount":200}`)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payments", nil))

	var body struct {
		Payments []domain.Payment `json:"payments"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(body.Payments) != 2 || body.Payments[0].Amount != 200 {
		t.Errorf("Expected most recent first, got %+v", body.Payments)
	}
}
