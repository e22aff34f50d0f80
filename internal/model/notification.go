package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification is one mailbox message. Messages are appended by services and
// marked read when the owning user views the mailbox.
type Notification struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	Message   string    `json:"message" db:"message"`
	IsRead    bool      `json:"isRead" db:"is_read"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
