package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrCodeUserExists          = "USER_EXISTS"
	ErrCodeDishExists          = "DISH_EXISTS"
	ErrCodeDishNotFound        = "DISH_NOT_FOUND"
	ErrCodeInvalidMealType     = "INVALID_MEAL_TYPE"
	ErrCodeMealAlreadyTaken    = "MEAL_ALREADY_TAKEN"
	ErrCodeNoMenuToday         = "NO_MENU_TODAY"
	ErrCodeInsufficientStock   = "INSUFFICIENT_STOCK"
	ErrCodeIngredientMissing   = "INGREDIENT_MISSING"
	ErrCodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	ErrCodeInvalidDuration     = "INVALID_DURATION"
	ErrCodeTooManyPortions     = "TOO_MANY_PORTIONS"
	ErrCodeEmptyRecipe         = "EMPTY_RECIPE"
	ErrCodeInvalidPrice        = "INVALID_PRICE"
	ErrCodeInvalidRating       = "INVALID_RATING"
	ErrCodeRecordNotFound      = "RECORD_NOT_FOUND"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidCredentials = NewDomainError(ErrCodeInvalidCredentials, "Incorrect name or password")
	ErrUserExists         = NewDomainError(ErrCodeUserExists, "A user with this name already exists")
	ErrDishExists         = NewDomainError(ErrCodeDishExists, "A dish with this name already exists")
	ErrDishNotFound       = NewDomainError(ErrCodeDishNotFound, "Dish not found")
	ErrInvalidMealType    = NewDomainError(ErrCodeInvalidMealType, "Meal type must be breakfast or lunch")
	ErrNoMenuToday        = NewDomainError(ErrCodeNoMenuToday, "No menu has been set for today")
	ErrInvalidDuration    = NewDomainError(ErrCodeInvalidDuration, "Subscription duration must be week, month or year")
	ErrTooManyPortions    = NewDomainError(ErrCodeTooManyPortions, "At most 100 portions can be prepared at once")
	ErrEmptyRecipe        = NewDomainError(ErrCodeEmptyRecipe, "A dish needs at least one ingredient")
	ErrInvalidPrice       = NewDomainError(ErrCodeInvalidPrice, "Dish name and a positive price are required")
	ErrInvalidRating      = NewDomainError(ErrCodeInvalidRating, "Rating must be between 1 and 5")
	ErrRecordNotFound     = NewDomainError(ErrCodeRecordNotFound, "Record not found")
)

// NewMealAlreadyTakenError reports a duplicate meal-taking for the day.
func NewMealAlreadyTakenError(mealType string) *DomainError {
	return NewDomainError(ErrCodeMealAlreadyTaken, fmt.Sprintf("You have already received %s today", mealType))
}

// NewInsufficientStockError names the first insufficient ingredient and its dish.
func NewInsufficientStockError(ingredient, dish string) *DomainError {
	return NewDomainError(ErrCodeInsufficientStock, fmt.Sprintf("Not enough %q for %q", ingredient, dish))
}

// NewInsufficientPortionStockError is the preparation variant of the stock rejection.
func NewInsufficientPortionStockError(ingredient, dish string, portions int) *DomainError {
	return NewDomainError(ErrCodeInsufficientStock,
		fmt.Sprintf("Not enough %q for %d portions of %q", ingredient, portions, dish))
}

// NewIngredientMissingError reports a recipe ingredient absent from inventory.
func NewIngredientMissingError(ingredient string) *DomainError {
	return NewDomainError(ErrCodeIngredientMissing, fmt.Sprintf("Ingredient %q is not stocked", ingredient))
}

// NewInsufficientBalanceError reports the required and available amounts.
func NewInsufficientBalanceError(required, available float64) *DomainError {
	return NewDomainError(ErrCodeInsufficientBalance,
		fmt.Sprintf("Insufficient funds: need %.2f, you have %.2f", required, available))
}
