package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, http.StatusBadRequest, "Bin ID cannot be empty")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("content type = %q", got)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
	if body["message"] != "Bin ID cannot be empty" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestRespondPage(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondPage(rec, []string{"a", "b"}, 2)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Content       []string `json:"content"`
			TotalElements int      `json:"totalElements"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || len(body.Data.Content) != 2 || body.Data.TotalElements != 2 {
		t.Errorf("unexpected page body: %+v", body)
	}
}
