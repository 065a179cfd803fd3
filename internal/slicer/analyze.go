package slicer

import (
	"path/filepath"
	"strings"
)

// Analyze dispatches on the file extension. Unsupported extensions are
// rejected without looking at data.
func Analyze(filename string, data []byte) Report {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".gcode", ".gco":
		return Extract(string(data))
	case ".3mf":
		return ExtractFromContainer(data)
	default:
		return failure(FileTypeUnsupported, "Formato não suportado. Envie um arquivo .gcode, .gco ou .3mf")
	}
}

// Supported reports whether Analyze understands the file extension.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".gcode", ".gco", ".3mf":
		return true
	}
	return false
}
