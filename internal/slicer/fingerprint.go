package slicer

import "strings"

// Slicer labels shown to the user.
const (
	SlicerCura        = "Cura"
	SlicerPrusa       = "PrusaSlicer"
	SlicerOrca        = "OrcaSlicer"
	SlicerBambu       = "Bambu Studio"
	SlicerSimplify3D  = "Simplify3D"
	SlicerIdeaMaker   = "IdeaMaker"
	SlicerKISSlicer   = "KISSlicer"
	SlicerSuperSlicer = "SuperSlicer"
	SlicerUnknown     = "Desconhecido"
)

// fingerprints are checked in order; forks that also mention their parent
// (SuperSlicer, OrcaSlicer) come before PrusaSlicer.
var fingerprints = []struct {
	marker string // lower case
	label  string
}{
	{"cura_steamengine", SlicerCura},
	{"superslicer", SlicerSuperSlicer},
	{"orcaslicer", SlicerOrca},
	{"bambustudio", SlicerBambu},
	{"bambu studio", SlicerBambu},
	{"prusaslicer", SlicerPrusa},
	{"simplify3d", SlicerSimplify3D},
	{"ideamaker", SlicerIdeaMaker},
	{"kisslicer", SlicerKISSlicer},
}

// fingerprintWindow bounds how much of a large g-code file is searched for
// markers. Slicers write them in the header or in the trailing config block.
const fingerprintWindow = 256 << 10

// detectSlicer returns the label of the first known slicer marker found in
// content. It is display only and never gates the rules.
func detectSlicer(content string) (string, bool) {
	for _, part := range searchWindows(content) {
		lower := strings.ToLower(part)
		for _, fp := range fingerprints {
			if strings.Contains(lower, fp.marker) {
				return fp.label, true
			}
		}
	}
	return "", false
}

func searchWindows(content string) []string {
	if len(content) <= 2*fingerprintWindow {
		return []string{content}
	}
	return []string{content[:fingerprintWindow], content[len(content)-fingerprintWindow:]}
}
