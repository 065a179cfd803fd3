// Package slicer recovers print time and filament weight from sliced files.
//
// G-code files are scanned for the comments slicers write into their output.
// 3MF containers are unwrapped first: embedded g-code wins, then the slicer
// metadata XML/config files, and an unsliced model is reported as such.
// Nothing in this package returns an error; every failure is encoded in the
// Report so callers can fall back to manual entry.
package slicer

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// File types reported to the caller.
const (
	FileTypeEmbeddedGcode = "gcode_embutido"
	FileTypeSliced        = "fatiado"
	FileType3DModel       = "modelo_3d"
	FileTypeUnknown       = "desconhecido"
	FileTypeError         = "erro"
	FileTypeUnsupported   = "nao_suportado"
)

// Report is the outcome of analysing one uploaded file.
type Report struct {
	TimeSeconds    int     `json:"timeSeconds"`
	WeightGrams    float64 `json:"weightGrams"`
	Success        bool    `json:"success"`
	DetectedSlicer string  `json:"detectedSlicer"`
	FileType       string  `json:"fileType"`
	Message        string  `json:"message"`
	Details        Details `json:"details"`
}

// Details says which fields were found, formatted for display.
type Details struct {
	TimeFound       bool   `json:"timeFound"`
	WeightFound     bool   `json:"weightFound"`
	TimeFormatted   string `json:"timeFormatted,omitempty"`
	WeightFormatted string `json:"weightFormatted,omitempty"`
}

// newReport fills the derived fields from what was found.
func newReport(seconds int, grams float64, timeFound, weightFound bool, slicerName, fileType string) Report {
	if !timeFound {
		seconds = 0
	}
	if !weightFound {
		grams = 0
	}
	r := Report{
		TimeSeconds:    seconds,
		WeightGrams:    round2(grams),
		Success:        timeFound || weightFound,
		DetectedSlicer: slicerName,
		FileType:       fileType,
		Details: Details{
			TimeFound:   timeFound,
			WeightFound: weightFound,
		},
	}
	if timeFound {
		r.Details.TimeFormatted = FormatDuration(r.TimeSeconds)
	}
	if weightFound {
		r.Details.WeightFormatted = FormatGrams(r.WeightGrams)
	}
	r.Message = summary(r)
	return r
}

func failure(fileType, message string) Report {
	return Report{
		DetectedSlicer: SlicerUnknown,
		FileType:       fileType,
		Message:        message,
	}
}

func summary(r Report) string {
	switch {
	case r.Details.TimeFound && r.Details.WeightFound:
		return fmt.Sprintf("Tempo (%s) e peso (%s) detectados", r.Details.TimeFormatted, r.Details.WeightFormatted)
	case r.Details.TimeFound:
		return fmt.Sprintf("Tempo detectado (%s); peso não encontrado", r.Details.TimeFormatted)
	case r.Details.WeightFound:
		return fmt.Sprintf("Peso detectado (%s); tempo não encontrado", r.Details.WeightFormatted)
	default:
		return "Não foi possível detectar tempo ou peso no arquivo"
	}
}

// FormatDuration renders seconds as "1h 30m" (or "45m" below one hour).
func FormatDuration(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// FormatGrams renders grams with two decimals.
func FormatGrams(g float64) string {
	return decimal.NewFromFloat(g).StringFixed(2) + "g"
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
