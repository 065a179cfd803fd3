package service

import (
	"errors"
	"time"
)

// ErrInvalidInput marks a request the caller must fix; handlers answer 400.
var ErrInvalidInput = errors.New("invalid input")

// LogFilter supports ledger filtering by time range, type and filament.
type LogFilter struct {
	From       time.Time // inclusive; zero means no lower bound
	To         time.Time // inclusive; zero means no upper bound
	Type       string    // "", "APPROVAL", "CONSUMPTION", "ADJUSTMENT"
	FilamentID string
}

// QuoteRequest describes a print to price. Zero-valued rates fall back to
// the shop defaults from configuration.
type QuoteRequest struct {
	PrinterID  string          `json:"printerId"`
	PrintHours float64         `json:"horas" binding:"gte=0"`
	LaborHours float64         `json:"horasMaoDeObra" binding:"gte=0"`
	Extras     float64         `json:"extras" binding:"gte=0"`
	Materials  []QuoteMaterial `json:"filamentos" binding:"dive"`

	EnergyPriceKWh      *float64 `json:"precoKwh,omitempty"`
	LaborRate           *float64 `json:"valorHora,omitempty"`
	DepreciationPerHour *float64 `json:"depreciacaoHora,omitempty"`
	FailureRatePct      *float64 `json:"taxaFalha,omitempty"`
	MarginPct           *float64 `json:"margem,omitempty"`
}

// QuoteMaterial is one filament line of a quote. PricePerGram overrides the
// stock price and is required for the manual id.
type QuoteMaterial struct {
	ID           string   `json:"id"`
	Grams        float64  `json:"peso" binding:"gte=0"`
	PricePerGram *float64 `json:"precoGrama,omitempty"`
}
