package model

import (
	"time"

	"github.com/google/uuid"
)

// Review is a student's rating of a dish.
type Review struct {
	ID        uuid.UUID `json:"id" db:"id"`
	StudentID uuid.UUID `json:"studentId" db:"student_id"`
	DishName  string    `json:"dishName" db:"dish_name"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ReviewRequest submits a dish review.
type ReviewRequest struct {
	DishName string `json:"dishName"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}
