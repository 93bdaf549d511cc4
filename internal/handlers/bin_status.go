package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"smartwaste-dashboard/internal/database"
	"smartwaste-dashboard/internal/models"
	"smartwaste-dashboard/pkg/utils"
)

// ValidateBinStatus checks a sensor reading before it is stored.
func ValidateBinStatus(u models.BinStatusUpdate) error {
	if strings.TrimSpace(u.BinID) == "" {
		return errors.New("binId is required")
	}
	for name, v := range map[string]int{"plasticLevel": u.PlasticLevel, "paperLevel": u.PaperLevel, "glassLevel": u.GlassLevel} {
		if v < 0 || v > 100 {
			return fmt.Errorf("%s must be between 0 and 100", name)
		}
	}
	return nil
}

// BinFullNotification is the admin notification raised for a reading at or
// above models.FullLevelThreshold.
func BinFullNotification(id string, u models.BinStatusUpdate, now time.Time) (models.Notification, bool) {
	level := u.MaxLevel()
	if level < models.FullLevelThreshold {
		return models.Notification{}, false
	}
	return models.Notification{
		ID:            id,
		Type:          models.NotificationBinFull,
		Title:         "Bin nearly full",
		Message:       fmt.Sprintf("Bin %s is %d%% full", u.BinID, level),
		Priority:      models.PriorityHigh,
		RecipientType: string(models.RoleAdmin),
		CreatedAt:     now.Format(models.MaintenanceTimeLayout),
		BinID:         u.BinID,
	}, true
}

// IngestBinStatus receives sensor readings, stores them and fans them out
// over the bin-status WebSocket.
func IngestBinStatus(db *sqlx.DB, hub Broadcaster, pusher Pusher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var u models.BinStatusUpdate
		if !decodeBody(w, r, &u) {
			return
		}
		if err := ValidateBinStatus(u); err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		owner, err := database.RecordBinStatus(db, u)
		if errors.Is(err, database.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Bin not found")
			return
		}
		if err != nil {
			log.Printf("❌ Failed to store reading for %s: %v", u.BinID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to store reading")
			return
		}

		ownerID := ""
		if owner != nil {
			ownerID = *owner
		}
		hub.PublishBinStatus(ownerID, u)

		if n, full := BinFullNotification(newID(), u, time.Now()); full {
			log.Printf("⚠️ Bin %s nearly full (%d%%)", u.BinID, u.MaxLevel())
			notify(db, hub, n)
			if pusher != nil && ownerID != "" {
				go pushBinFull(db, pusher, ownerID, u)
			}
		}

		utils.RespondSuccess(w, http.StatusAccepted, "Reading stored", nil)
	}
}

func pushBinFull(db *sqlx.DB, pusher Pusher, ownerID string, u models.BinStatusUpdate) {
	owner, err := database.GetUser(db, ownerID)
	if err != nil || owner.FCMToken == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := pusher.SendBinFullNotification(ctx, owner.FCMToken, u.BinID, u.MaxLevel()); err != nil {
		log.Printf("⚠️ Failed to push bin-full notice to %s: %v", ownerID, err)
	}
}
