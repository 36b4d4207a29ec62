package domain

import "time"

// BusinessCompliance describes the formation profile of an owner's business.
// It drives bulk task seeding and is otherwise informational.
type BusinessCompliance struct {
	UserID           string    `json:"user_id"`
	StateOfFormation string    `json:"state_of_formation"`
	EntityType       string    `json:"entity_type"`
	FiscalYearEnd    string    `json:"fiscal_year_end,omitempty"`
	HasEmployees     bool      `json:"has_employees"`
	HasRetailSales   bool      `json:"has_retail_sales"`
	Industry         string    `json:"industry,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
