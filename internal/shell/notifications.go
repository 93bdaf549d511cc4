package shell

import (
	"slices"

	"smartwaste-dashboard/internal/models"
)

// Notifications is the header feed, newest first as received.
func (s *Shell) Notifications() []models.Notification {
	return slices.Clone(s.notifications)
}

// UnreadCount counts notifications not yet marked read.
func (s *Shell) UnreadCount() int {
	n := 0
	for _, item := range s.notifications {
		if !item.IsRead {
			n++
		}
	}
	return n
}

// PushNotification prepends a locally raised notification.
func (s *Shell) PushNotification(n models.Notification) {
	s.notifications = append([]models.Notification{n}, s.notifications...)
}

// SeedNotifications loads the initial feed once; later calls are ignored so
// that local dismissals stick.
func (s *Shell) SeedNotifications(n []models.Notification) bool {
	if s.seeded {
		return false
	}
	s.seeded = true
	s.notifications = append(s.notifications, n...)
	return true
}

func (s *Shell) dismiss(id string) {
	s.notifications = slices.DeleteFunc(s.notifications, func(n models.Notification) bool {
		return n.ID == id
	})
}
