package model

import (
	"time"

	"github.com/google/uuid"
)

// Payment types.
const (
	PaymentOneTime      = "one-time"
	PaymentSubscription = "subscription"
)

// Subscription durations.
const (
	DurationWeek  = "week"
	DurationMonth = "month"
	DurationYear  = "year"
)

// StudentProfile holds the balance, dietary tags and stored card of a student.
// The card number is kept encrypted at rest; the expiry is stored as entered.
type StudentProfile struct {
	UserID              uuid.UUID `json:"userId" db:"user_id"`
	Allergies           string    `json:"allergies" db:"allergies"`
	Preferences         string    `json:"preferences" db:"preferences"`
	Balance             float64   `json:"balance" db:"balance"`
	EncryptedCardNumber *string   `json:"-" db:"encrypted_card_number"`
	CardExpiry          *string   `json:"cardExpiry,omitempty" db:"card_expiry"`
}

// Payment is an immutable audit log entry. Rows are appended, never mutated.
type Payment struct {
	ID          uuid.UUID `json:"id" db:"id"`
	StudentID   uuid.UUID `json:"studentId" db:"student_id"`
	Amount      float64   `json:"amount" db:"amount"`
	PaymentType string    `json:"paymentType" db:"payment_type"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Subscription covers a date range of free meals. A subscription is active if
// its status is active and today falls within [StartDate, EndDate].
type Subscription struct {
	ID        uuid.UUID `json:"id" db:"id"`
	StudentID uuid.UUID `json:"studentId" db:"student_id"`
	Duration  string    `json:"duration" db:"duration"`
	StartDate time.Time `json:"startDate" db:"start_date"`
	EndDate   time.Time `json:"endDate" db:"end_date"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// TopUpRequest represents a card top-up submission. The CVV is accepted for
// form compatibility but never stored.
type TopUpRequest struct {
	Amount     string `json:"amount"`
	CardNumber string `json:"cardNumber"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

// SubscribeRequest represents a subscription purchase.
type SubscribeRequest struct {
	Duration string `json:"duration"`
}

// ProfileUpdateRequest updates the dietary tags of a student.
type ProfileUpdateRequest struct {
	Allergies   string `json:"allergies"`
	Preferences string `json:"preferences"`
}

// ProfileView is the student-facing projection of a profile. MaskedCard shows
// only the last four digits of the stored card.
type ProfileView struct {
	Profile      StudentProfile `json:"profile"`
	Subscription *Subscription  `json:"subscription,omitempty"`
	MaskedCard   string         `json:"maskedCard,omitempty"`
}
