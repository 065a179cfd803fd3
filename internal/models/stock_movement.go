package models

import "time"

// Movement types.
const (
	MovementApproval    = "APPROVAL"
	MovementConsumption = "CONSUMPTION"
	MovementAdjustment  = "ADJUSTMENT"
)

// StockMovement is a single ledger entry for a filament.
type StockMovement struct {
	ID          string    `json:"id"`
	AccountID   int       `json:"-"`
	FilamentID  string    `json:"filamentId"`
	ProjectID   string    `json:"projectId,omitempty"`
	Type        string    `json:"type"`  // APPROVAL | CONSUMPTION | ADJUSTMENT
	Grams       float64   `json:"grams"` // negative = out of stock
	StockBefore float64   `json:"stockBefore"`
	StockAfter  float64   `json:"stockAfter"`
	Note        string    `json:"note,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}
