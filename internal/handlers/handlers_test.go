package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"

	"smartwaste-dashboard/internal/middleware"
	"smartwaste-dashboard/internal/models"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("response is not an envelope: %v", err)
	}
	return resp
}

// Every case is rejected before the database is touched, so a nil handle
// is enough.
func TestValidationRejectsBeforeDatabase(t *testing.T) {
	admin := middleware.UserClaims{UserID: "u1", Username: "admin", Role: models.RoleAdmin}
	tests := []struct {
		name    string
		handler http.HandlerFunc
		method  string
		target  string
		body    string
		want    string
	}{
		{"bad json", Authenticate(nil), http.MethodPost, "/api/auth/authenticate", "{", "Invalid request body"},
		{"login missing password", Authenticate(nil), http.MethodPost, "/api/auth/authenticate", `{"username":"a"}`, "Username and password are required"},
		{"register blank username", Register(nil), http.MethodPost, "/api/auth/register", `{"username":"  ","password":"x"}`, "Username and password are required"},
		{"bin status filter", ListBins(nil), http.MethodGet, "/api/bins?status=FULL", "", "Unknown bin status: FULL"},
		{"empty bin id", AddBin(nil), http.MethodPost, "/api/bins/add", `{"binId":" "}`, "Bin ID cannot be empty"},
		{"latitude range", UpdateBinLocation(nil), http.MethodPut, "/api/bins/B-1", `{"latitude":91,"longitude":0}`, "Latitude must be within ±90 and longitude within ±180"},
		{"truck registration", AddTruck(nil), http.MethodPost, "/api/admin/trucks/add", `{"registrationNumber":"","capacity":10}`, "Registration number is required"},
		{"truck capacity", AddTruck(nil), http.MethodPost, "/api/admin/trucks/add", `{"registrationNumber":"WP-1","capacity":0}`, "Capacity must be a positive number"},
		{"collector pairing", AssignCollector(nil), http.MethodPost, "/api/admin/trucks/assign-collector", `{"truckId":"t1"}`, "truckId and collectorId are required"},
		{"route name", CreateRoute(nil), http.MethodPost, "/api/routes", `{"name":"","binIds":["B-1"]}`, "Route name is required"},
		{"route only blank bins", CreateRoute(nil), http.MethodPost, "/api/routes", `{"name":"North","binIds":[" ",""]}`, "At least one bin is required"},
		{"route assign ids", AssignRoute(nil, nil, nil), http.MethodPost, "/api/routes/assign", `{"routeId":"r1"}`, "routeId and collectorId are required"},
		{"mark collected ids", MarkCollected(nil, nil), http.MethodPost, "/api/routes/mark-collected", `{"binId":"B-1"}`, "routeId and binId are required"},
		{"maintenance description", CreateMaintenance(nil, nil), http.MethodPost, "/api/maintenance-requests", `{"binId":"B-1"}`, "Description is required"},
		{"maintenance priority", CreateMaintenance(nil, nil), http.MethodPost, "/api/maintenance-requests", `{"binId":"B-1","description":"lid","priority":"SOON"}`, "Invalid priority"},
		{"maintenance status", UpdateMaintenanceStatus(nil), http.MethodPut, "/api/maintenance-requests/m1/status?status=DONE", "", "Invalid status"},
		{"profile name", UpdateProfile(nil), http.MethodPut, "/api/admin/users/profile", `{"name":" "}`, "Name cannot be empty"},
		{"fcm token", RegisterFCMToken(nil), http.MethodPost, "/api/collector/fcm-token", `{"token":""}`, "Token is required"},
		{"sensor level", IngestBinStatus(nil, nil, nil), http.MethodPost, "/api/bin-status", `{"binId":"B-1","glassLevel":101}`, "glassLevel must be between 0 and 100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			req = req.WithContext(middleware.WithUser(req.Context(), admin))
			rec := httptest.NewRecorder()

			tt.handler(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			resp := decodeEnvelope(t, rec)
			if resp.Success || resp.Message != tt.want {
				t.Errorf("envelope = %+v, want message %q", resp, tt.want)
			}
		})
	}
}

func TestHandlersNeedingCallerRejectAnonymous(t *testing.T) {
	for name, h := range map[string]http.HandlerFunc{
		"maintenance":   CreateMaintenance(nil, nil),
		"notifications": ListNotifications(nil),
		"profile":       GetProfile(nil),
	} {
		req := httptest.NewRequest(http.MethodGet, "/", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		h(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", name, rec.Code)
		}
	}
}

func TestNormalizeMaintenanceDefaults(t *testing.T) {
	body := models.MaintenanceRequestBody{BinID: " B-2 ", Description: " cracked lid "}
	if msg := normalizeMaintenance(&body); msg != "" {
		t.Fatalf("rejected: %s", msg)
	}
	if body.BinID != "B-2" || body.Description != "cracked lid" {
		t.Errorf("not trimmed: %+v", body)
	}
	if body.RequestType != "Repair" || body.Priority != models.PriorityMedium {
		t.Errorf("defaults = %q/%q", body.RequestType, body.Priority)
	}
}

func TestNormalizeRouteTrimsBins(t *testing.T) {
	req := models.RouteRequest{Name: " Coast ", BinIDs: []string{" B-1", "", "B-2 "}}
	if msg := normalizeRoute(&req); msg != "" {
		t.Fatalf("rejected: %s", msg)
	}
	if req.Name != "Coast" || len(req.BinIDs) != 2 || req.BinIDs[0] != "B-1" || req.BinIDs[1] != "B-2" {
		t.Errorf("normalized = %+v", req)
	}
}

func TestValidateBinStatus(t *testing.T) {
	if err := ValidateBinStatus(models.BinStatusUpdate{BinID: "B-1", PlasticLevel: 100}); err != nil {
		t.Errorf("valid reading rejected: %v", err)
	}
	if err := ValidateBinStatus(models.BinStatusUpdate{BinID: " "}); err == nil {
		t.Error("blank bin id accepted")
	}
	if err := ValidateBinStatus(models.BinStatusUpdate{BinID: "B-1", PaperLevel: -1}); err == nil {
		t.Error("negative level accepted")
	}
}

func TestBinFullNotification(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	if _, full := BinFullNotification("n1", models.BinStatusUpdate{BinID: "B-3", PaperLevel: 79}, now); full {
		t.Error("79% should not raise a notification")
	}

	n, full := BinFullNotification("n1", models.BinStatusUpdate{BinID: "B-3", PlasticLevel: 40, GlassLevel: 80}, now)
	if !full {
		t.Fatal("80% should raise a notification")
	}
	if n.Message != "Bin B-3 is 80% full" {
		t.Errorf("message = %q", n.Message)
	}
	if n.Type != models.NotificationBinFull || n.Priority != models.PriorityHigh || n.RecipientType != string(models.RoleAdmin) {
		t.Errorf("notification = %+v", n)
	}
	if n.CreatedAt != "2024-03-01 09:30:00" || n.BinID != "B-3" || n.ID != "n1" {
		t.Errorf("notification = %+v", n)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})) {
		t.Error("wrapped 23505 not detected")
	}
	if isUniqueViolation(&pq.Error{Code: "23503"}) || isUniqueViolation(nil) {
		t.Error("false positive")
	}
	if !isForeignKeyViolation(&pq.Error{Code: "23503"}) || isForeignKeyViolation(fmt.Errorf("plain")) {
		t.Error("foreign key detection mismatch")
	}
}
