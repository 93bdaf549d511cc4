// Package handlers serves the SmartWaste REST API. Every response uses the
// {success, message, data} envelope from pkg/utils.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lib/pq"

	"smartwaste-dashboard/internal/middleware"
	"smartwaste-dashboard/internal/models"
	"smartwaste-dashboard/pkg/utils"
)

// Pusher delivers mobile push notifications. It is nil when the server has
// no Firebase credentials.
type Pusher interface {
	SendRouteAssignedNotification(ctx context.Context, token, routeID string, totalBins int) error
	SendBinFullNotification(ctx context.Context, token, binID string, level int) error
}

// Broadcaster is the part of the WebSocket hub the handlers publish to.
type Broadcaster interface {
	PublishBinStatus(ownerID string, u models.BinStatusUpdate)
	BroadcastToRole(role models.Role, data interface{})
	BroadcastToUser(userID string, data interface{})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func currentUser(w http.ResponseWriter, r *http.Request) (middleware.UserClaims, bool) {
	claims, ok := middleware.GetUserFromContext(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
	}
	return claims, ok
}

func isUniqueViolation(err error) bool {
	return pqCode(err) == "23505"
}

// isForeignKeyViolation reports a reference to a row that does not exist.
func isForeignKeyViolation(err error) bool {
	return pqCode(err) == "23503"
}

func pqCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}
