package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/vdh-servicedesk/backend/internal/db"
	"github.com/vdh-servicedesk/backend/internal/gateway"
	"github.com/vdh-servicedesk/backend/internal/report"
	"github.com/vdh-servicedesk/backend/internal/workflow"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	gw := gateway.NewMock()
	h := &Handler{
		Store:     db.New(gw),
		Engine:    workflow.NewEngine(gw, 4000, zerolog.Nop()),
		Reports:   report.NewRunner(gw, true, zerolog.Nop()),
		Validator: validator.New(),
		Logger:    zerolog.Nop(),
	}
	r := gin.New()
	r.GET("/public/forms", h.PublicForms)
	r.POST("/public/submit", h.PublicSubmit)
	r.POST("/api/reports/query", h.ReportsQuery)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, url string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitTicketMockMode(t *testing.T) {
	r := newTestRouter()

	w := postJSON(t, r, "/public/submit?page=helpdesk_ticket/submit", gin.H{
		"name":              "Jane Doe",
		"email":             "jane@x.org",
		"location":          "Petersburg",
		"short_description": "printer jam",
		"priority":          "Medium",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.ID == 0 {
		t.Fatalf("expected non-null ticket id")
	}
	if resp.Status != "New" {
		t.Fatalf("expected status New, got %q", resp.Status)
	}

	// Identical submissions yield the same fabricated id in mock mode.
	w2 := postJSON(t, r, "/public/submit?page=helpdesk_ticket-submit", gin.H{
		"name":              "Jane Doe",
		"email":             "jane@x.org",
		"location":          "Petersburg",
		"short_description": "printer jam",
		"priority":          "Medium",
	})
	var resp2 struct {
		ID int64 `json:"id"`
	}
	_ = json.Unmarshal(w2.Body.Bytes(), &resp2)
	if resp2.ID != resp.ID {
		t.Fatalf("mock ids differ for identical submissions: %d vs %d", resp.ID, resp2.ID)
	}
}

func TestSubmitTicketMissingRequiredFields(t *testing.T) {
	r := newTestRouter()

	w := postJSON(t, r, "/public/submit?page=helpdesk_ticket/submit", gin.H{
		"email": "jane@x.org",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestSubmitVehicleRequestMockMode(t *testing.T) {
	r := newTestRouter()

	w := postJSON(t, r, "/public/submit?page=fleetmanagement/requestavehicle", gin.H{
		"requester_first":  "Sam",
		"requester_last":   "Blake",
		"requester_email":  "sam@x.org",
		"destination":      "Richmond district office",
		"departure_date":   "2026-03-02",
		"return_date":      "2026-03-03",
		"starting_mileage": 1000,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Status string `json:"status"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != "Requested" {
		t.Fatalf("expected status Requested, got %q", resp.Status)
	}
}

func TestSubmitVehicleRequestReturnBeforeDeparture(t *testing.T) {
	r := newTestRouter()

	w := postJSON(t, r, "/public/submit?page=fleetmanagement/requestavehicle", gin.H{
		"requester_first": "Sam",
		"requester_last":  "Blake",
		"requester_email": "sam@x.org",
		"destination":     "Richmond",
		"departure_date":  "2026-03-03",
		"return_date":     "2026-03-02",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestSubmitProcurementMockMode(t *testing.T) {
	r := newTestRouter()

	w := postJSON(t, r, "/public/submit?page=procurement/submitrequisition", gin.H{
		"requester_name":   "Pat Lee",
		"requester_email":  "pat@x.org",
		"location":         "Building 4",
		"department":       "IT",
		"item_description": "USB-C docks",
		"quantity":         3,
		"unit_price":       129.99,
		"justification":    "replacement hardware",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		RequestNumber string `json:"request_number"`
		Status        string `json:"status"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != "Requested" {
		t.Fatalf("expected status Requested, got %q", resp.Status)
	}
	if len(resp.RequestNumber) == 0 || resp.RequestNumber[:3] != "PR-" {
		t.Fatalf("expected PR-prefixed request number, got %q", resp.RequestNumber)
	}
}

func TestUnknownPageTokenFallsThrough(t *testing.T) {
	r := newTestRouter()

	for _, token := range []string{"", "helpdesk_ticket", "reports/query", "api/tickets"} {
		w := postJSON(t, r, "/public/submit?page="+token, gin.H{})
		if w.Code != http.StatusNotFound {
			t.Fatalf("token %q: expected 404, got %d", token, w.Code)
		}
	}
}

func TestPublicFormsDescriptor(t *testing.T) {
	r := newTestRouter()

	req, _ := http.NewRequest(http.MethodGet, "/public/forms?page=procurement-submitrequisition", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Form string `json:"form"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Form != "procurement" {
		t.Fatalf("expected procurement form, got %q", resp.Form)
	}
}
