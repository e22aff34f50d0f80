package model

import (
	"time"

	"github.com/google/uuid"
)

// Meal types.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
)

// Dish represents a priced dish on the canteen price list.
type Dish struct {
	Name  string  `json:"name" db:"name"`
	Price float64 `json:"price" db:"price"`
}

// RecipeLine is a single ingredient requirement belonging to a dish.
type RecipeLine struct {
	DishName   string  `json:"dishName" db:"dish_name"`
	Ingredient string  `json:"ingredient" db:"ingredient"`
	Quantity   float64 `json:"quantity" db:"quantity"`
	Unit       string  `json:"unit" db:"unit"`
}

// MenuSet is the offering for one calendar date: two breakfast dishes and
// three lunch dishes.
type MenuSet struct {
	ID             uuid.UUID `json:"id" db:"id"`
	MealDate       time.Time `json:"mealDate" db:"meal_date"`
	BreakfastMain  string    `json:"breakfastMain" db:"breakfast_main"`
	BreakfastDrink string    `json:"breakfastDrink" db:"breakfast_drink"`
	LunchFirst     string    `json:"lunchFirst" db:"lunch_first"`
	LunchSecond    string    `json:"lunchSecond" db:"lunch_second"`
	LunchDrink     string    `json:"lunchDrink" db:"lunch_drink"`
}

// DishesFor returns the dish list of the requested meal type.
func (m *MenuSet) DishesFor(mealType string) []string {
	if mealType == MealBreakfast {
		return []string{m.BreakfastMain, m.BreakfastDrink}
	}
	return []string{m.LunchFirst, m.LunchSecond, m.LunchDrink}
}

// MenuView is the student-facing projection of today's menu.
type MenuView struct {
	Menu              *MenuSet        `json:"menu"`
	Date              string          `json:"date"`
	TakenMealTypes    []string        `json:"takenMealTypes"`
	BreakfastPrice    float64         `json:"breakfastPrice"`
	LunchPrice        float64         `json:"lunchPrice"`
	AllergenWarnings  map[string]bool `json:"allergenWarnings"`
	PreferenceMatches map[string]bool `json:"preferenceMatches"`
	Allergies         string          `json:"allergies,omitempty"`
	Preferences       string          `json:"preferences,omitempty"`
}

// NewDishRequest creates a dish together with its recipe lines.
type NewDishRequest struct {
	Name        string          `json:"name"`
	Price       float64         `json:"price"`
	Ingredients []NewRecipeLine `json:"ingredients"`
}

// NewRecipeLine is one ingredient row of a dish creation request.
type NewRecipeLine struct {
	Ingredient string  `json:"ingredient"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit"`
}
