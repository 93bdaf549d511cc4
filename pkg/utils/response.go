package utils

import (
	"encoding/json"
	"net/http"

	"smartwaste-dashboard/internal/models"
)

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondSuccess wraps data in the success envelope
func RespondSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	RespondJSON(w, status, models.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RespondError sends an error envelope; clients read its message field
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, models.APIResponse{
		Success: false,
		Message: message,
	})
}

// RespondPage wraps a full listing as a single page
func RespondPage(w http.ResponseWriter, content interface{}, total int) {
	size := total
	if size == 0 {
		size = 20
	}
	RespondSuccess(w, http.StatusOK, "", models.Page{
		Content:       content,
		TotalElements: total,
		TotalPages:    1,
		Number:        0,
		Size:          size,
	})
}
