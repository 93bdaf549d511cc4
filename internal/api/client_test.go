package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, "test-token")
}

func TestBearerTokenIsSent(t *testing.T) {
	var got string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		io.WriteString(w, `{"success":true,"data":[]}`)
	})

	if _, err := client.ListRoutes(context.Background()); err != nil {
		t.Fatalf("ListRoutes: %v", err)
	}
	if got != "Bearer test-token" {
		t.Errorf("Authorization = %q", got)
	}
}

func TestListBinsStatusFilter(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/bins" || r.URL.Query().Get("status") != "AVAILABLE" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		io.WriteString(w, `{"success":true,"data":[{"binId":"B-1","status":"AVAILABLE","latitude":6.9,"longitude":79.8}]}`)
	})

	bins, err := client.ListBins(context.Background(), "AVAILABLE")
	if err != nil {
		t.Fatalf("ListBins: %v", err)
	}
	if len(bins) != 1 || bins[0].BinID != "B-1" || !bins[0].HasLocation() {
		t.Errorf("bins = %+v", bins)
	}
}

func TestListDecodingIsDefensive(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing data", `{"success":true}`},
		{"null data", `{"success":true,"data":null}`},
		{"object data", `{"success":true,"data":{"binId":"B-1"}}`},
		{"string data", `{"success":true,"data":"nope"}`},
		{"not json", `<html>oops</html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, tt.body)
			})
			bins, err := client.ListBins(context.Background(), "")
			if err != nil {
				t.Fatalf("ListBins: %v", err)
			}
			if bins == nil || len(bins) != 0 {
				t.Errorf("expected empty non-nil slice, got %#v", bins)
			}
		})
	}
}

func TestListMaintenanceReadsPageContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true,"data":{"content":[{"id":"m1","binId":"B-1","priority":"HIGH"}],"totalElements":1}}`)
	})

	requests, err := client.ListMaintenance(context.Background())
	if err != nil {
		t.Fatalf("ListMaintenance: %v", err)
	}
	if len(requests) != 1 || requests[0].ID != "m1" {
		t.Errorf("requests = %+v", requests)
	}
}

func TestErrorNormalization(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"message field", http.StatusBadRequest, `{"success":false,"message":"Bin already exists"}`, "Bin already exists"},
		{"error field", http.StatusForbidden, `{"error":"Forbidden"}`, "Forbidden"},
		{"unparseable body", http.StatusInternalServerError, `Internal Server Error`, "Failed to fetch routes"},
		{"empty json", http.StatusNotFound, `{}`, "Failed to fetch routes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})
			_, err := client.ListRoutes(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			var apiErr *Error
			if !errors.As(err, &apiErr) || apiErr.Status != tt.status {
				t.Fatalf("err = %#v", err)
			}
			if got := Message(err, "Failed to fetch routes"); got != tt.want {
				t.Errorf("Message = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTransportErrorKeepsItsText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := New(server.URL, "")
	server.Close()

	_, err := client.ListRoutes(context.Background())
	if err == nil {
		t.Fatal("expected transport error")
	}
	if got := Message(err, "fallback"); got == "fallback" || got == "" {
		t.Errorf("transport error should keep its own text, got %q", got)
	}
}

func TestIsUnauthorized(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	_, err := client.ListNotifications(context.Background())
	if !IsUnauthorized(err) {
		t.Errorf("IsUnauthorized(%v) = false", err)
	}
	if IsUnauthorized(errors.New("plain")) {
		t.Error("plain errors are not unauthorized")
	}
}

func TestUpdateMaintenanceStatusUsesQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/maintenance-requests/m1/status" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if r.URL.Query().Get("status") != "COMPLETED" {
			t.Errorf("status query = %q", r.URL.Query().Get("status"))
		}
		io.WriteString(w, `{"success":true}`)
	})
	if err := client.UpdateMaintenanceStatus(context.Background(), "m1", "COMPLETED"); err != nil {
		t.Fatalf("UpdateMaintenanceStatus: %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true,"data":{"token":"abc","username":"admin@smartwaste.lk","role":"ROLE_ADMIN"}}`)
	})
	data, err := client.Authenticate(context.Background(), "admin@smartwaste.lk", "secret")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if data.Token != "abc" || data.Role != "ROLE_ADMIN" {
		t.Errorf("data = %+v", data)
	}
}
