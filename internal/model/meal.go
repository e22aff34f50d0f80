package model

import (
	"time"

	"github.com/google/uuid"
)

// MealRecord is one meal-taking event. Confirmed is flipped by a cook once
// the meal is actually handed out.
type MealRecord struct {
	ID        uuid.UUID `json:"id" db:"id"`
	StudentID uuid.UUID `json:"studentId" db:"student_id"`
	MenuID    uuid.UUID `json:"menuId" db:"menu_id"`
	MealType  string    `json:"mealType" db:"meal_type"`
	TakenAt   time.Time `json:"takenAt" db:"taken_at"`
	Confirmed bool      `json:"confirmed" db:"confirmed"`
}

// MealRecordDetail is a meal record joined with the student name and menu date
// for the cook's daily board.
type MealRecordDetail struct {
	ID          uuid.UUID `json:"id"`
	StudentName string    `json:"studentName"`
	MealDate    time.Time `json:"mealDate"`
	MealType    string    `json:"mealType"`
	TakenAt     time.Time `json:"takenAt"`
	Confirmed   bool      `json:"confirmed"`
}

// MealReceipt summarises a settled meal-taking for the student.
type MealReceipt struct {
	MealType           string   `json:"mealType"`
	Dishes             []string `json:"dishes"`
	Charged            float64  `json:"charged"`
	PaidBySubscription bool     `json:"paidBySubscription"`
}

// PreparedBatch records one preparation of N portions of a dish. Batches are
// additive facts and are never merged.
type PreparedBatch struct {
	ID         uuid.UUID `json:"id" db:"id"`
	DishName   string    `json:"dishName" db:"dish_name"`
	Quantity   int       `json:"quantity" db:"quantity"`
	PreparedAt time.Time `json:"preparedAt" db:"prepared_at"`
}

// PreparedTotal is the derived prepared-to-date sum for a dish.
type PreparedTotal struct {
	DishName string `json:"dishName"`
	Total    int    `json:"total"`
}

// PreparableDish is a dish with its deduplicated recipe and whether current
// stock covers a single portion.
type PreparableDish struct {
	Dish      Dish         `json:"dish"`
	Recipe    []RecipeLine `json:"recipe"`
	Available bool         `json:"available"`
}

// PrepareRequest asks for N portions of a dish to be prepared.
type PrepareRequest struct {
	DishName string `json:"dishName"`
	Portions string `json:"portions"`
}
