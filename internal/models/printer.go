package models

import "time"

type Printer struct {
	ID           string    `json:"id"`
	AccountID    int       `json:"-"`
	Name         string    `json:"nome"`
	Model        string    `json:"modelo"`
	PowerWatts   float64   `json:"potenciaW"`       // average draw while printing
	TotalHours   float64   `json:"horasTotais"`     // only ever incremented
	TotalRevenue float64   `json:"rendimentoTotal"` // accumulated revenue
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
