package model

// InventoryItem is the stock level of one product. Quantities are fractional
// and must never go negative as a result of a settlement.
type InventoryItem struct {
	ProductName string  `json:"productName" db:"product_name"`
	Quantity    float64 `json:"quantity" db:"quantity"`
	Unit        string  `json:"unit" db:"unit"`
}

// IngredientDemand pairs a recipe requirement with the current stock level of
// the ingredient, as read under lock during a settlement.
type IngredientDemand struct {
	Ingredient string
	Quantity   float64
	Unit       string
	Stock      float64
}
