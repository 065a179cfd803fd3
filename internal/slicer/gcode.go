package slicer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Assumptions used when only a length or a volume is known.
const (
	filamentDiameterMM = 1.75
	plaDensity         = 1.24 // g/cm³

	fallbackScanLines = 100
	maxSeconds        = math.MaxInt32
)

// A rule recovers one value from g-code text. Rules are tried in order and
// the first one that matches wins; time and weight are searched separately.
type rule struct {
	family string
	match  func(content string) (float64, bool)
}

var (
	reCuraTime      = regexp.MustCompile(`(?m)^[ \t]*;TIME:(\d+(?:\.\d+)?)[ \t\r]*$`)
	reEstimatedTime = regexp.MustCompile(`(?im)^[ \t]*;[ \t]*estimated printing time[^=\n]*=[ \t]*([^\n]+)$`)
	reDurationToken = regexp.MustCompile(`(?i)(\d+)\s*([dhms])`)
	reBuildTime     = regexp.MustCompile(`(?i);\s*Build time:\s*(\d+)\s*hours?\s*(\d+)\s*minutes?`)
	reIdeaMakerTime = regexp.MustCompile(`;TIME:(\d+):(\d+):(\d+)`)
	reKISSTime      = regexp.MustCompile(`(?i);\s*Estimated Build Time:\s*(\d+(?:\.\d+)?)\s*minutes`)
	reM73           = regexp.MustCompile(`M73\s+P0\s+R(\d+)`)
	rePrintTime     = regexp.MustCompile(`(?i);\s*Print time:\s*(\d+(?:\.\d+)?)`)
	reLooseHM       = regexp.MustCompile(`(?i)(\d+)\s*h\s*(\d+)\s*m`)
	reLooseClock    = regexp.MustCompile(`(\d+):(\d+)`)

	reCuraWeight     = regexp.MustCompile(`(?i);\s*Filament weight[^:\n]*:\s*(\d+(?:\.\d+)?)\s*g`)
	rePrusaWeight    = regexp.MustCompile(`(?im)^[ \t]*;[ \t]*filament used \[g\][ \t]*=[ \t]*(\d+(?:\.\d+)?)[ \t\r]*$`)
	reTotalWeight    = regexp.MustCompile(`(?i);\s*total filament used \[g\]\s*=\s*(\d+(?:\.\d+)?)`)
	reFilamentLength = regexp.MustCompile(`(?i);\s*Filament length:\s*(\d+(?:\.\d+)?)\s*mm`)
	reMaterialWeight = regexp.MustCompile(`;MATERIAL_WEIGHT:\s*(\d+(?:\.\d+)?)`)
	reBuildVolume    = regexp.MustCompile(`(?i);\s*Estimated Build Volume:\s*(\d+(?:\.\d+)?)\s*cm\^3`)
	reFilamentWeight = regexp.MustCompile(`(?i);\s*filament_weight\s*=\s*(\d+(?:\.\d+)?)`)
	reWeightList     = regexp.MustCompile(`(?im)^[ \t]*;[ \t]*filament used \[g\][ \t]*=[ \t]*([\d., \t]+?)[ \t\r]*$`)
	reLooseGrams     = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*g\b`)
)

var timeRules = []rule{
	{SlicerCura, firstFloat(reCuraTime)},
	{SlicerPrusa, estimatedPrintingTime},
	{SlicerSimplify3D, func(s string) (float64, bool) {
		m := reBuildTime.FindStringSubmatch(s)
		if m == nil {
			return 0, false
		}
		return atof(m[1])*3600 + atof(m[2])*60, true
	}},
	{SlicerIdeaMaker, func(s string) (float64, bool) {
		m := reIdeaMakerTime.FindStringSubmatch(s)
		if m == nil {
			return 0, false
		}
		return atof(m[1])*3600 + atof(m[2])*60 + atof(m[3]), true
	}},
	{SlicerKISSlicer, scaled(firstFloat(reKISSTime), 60)},
	{"Marlin M73", scaled(firstFloat(reM73), 60)},
	{"", scaled(firstFloat(rePrintTime), 3600)},
	{"", looseTime},
}

var weightRules = []rule{
	{SlicerCura, firstFloat(reCuraWeight)},
	// Single-value lines only: a multi-material list is summed by weightList
	// further down, so a later single-value line outranks an earlier list.
	{SlicerPrusa, firstFloat(rePrusaWeight)},
	{SlicerBambu, firstFloat(reTotalWeight)},
	{"", func(s string) (float64, bool) {
		mm, ok := firstFloat(reFilamentLength)(s)
		if !ok {
			return 0, false
		}
		return WeightFromLength(mm), true
	}},
	{SlicerIdeaMaker, firstFloat(reMaterialWeight)},
	{SlicerKISSlicer, scaled(firstFloat(reBuildVolume), plaDensity)},
	{SlicerSuperSlicer, firstFloat(reFilamentWeight)},
	{"", weightList},
	{"", looseGrams},
}

// Extract reads print time and filament weight from g-code text.
// It never fails: content without any known marker yields Success=false.
func Extract(content string) Report {
	seconds, timeFamily, timeFound := firstMatch(timeRules, content)
	grams, weightFamily, weightFound := firstMatch(weightRules, content)
	if timeFound && seconds > maxSeconds {
		timeFound, timeFamily = false, ""
	}

	fileType := FileTypeSliced
	if !timeFound && !weightFound {
		fileType = FileTypeUnknown
	}
	return newReport(int(math.Round(seconds)), grams, timeFound, weightFound,
		slicerLabel(content, timeFamily, weightFamily), fileType)
}

func firstMatch(rules []rule, content string) (float64, string, bool) {
	for _, r := range rules {
		if v, ok := r.match(content); ok {
			return v, r.family, true
		}
	}
	return 0, "", false
}

// slicerLabel prefers an explicit marker; without one it names the family of
// the rule that fired, for display only.
func slicerLabel(content string, families ...string) string {
	if label, ok := detectSlicer(content); ok {
		return label
	}
	for _, f := range families {
		if f != "" {
			return f
		}
	}
	return SlicerUnknown
}

// WeightFromLength converts a 1.75 mm filament length to PLA grams.
func WeightFromLength(mm float64) float64 {
	radiusCM := filamentDiameterMM / 2 / 10
	volumeCM3 := math.Pi * radiusCM * radiusCM * (mm / 10)
	return round2(volumeCM3 * plaDensity)
}

func firstFloat(re *regexp.Regexp) func(string) (float64, bool) {
	return func(s string) (float64, bool) {
		return submatchFloat(re, s)
	}
}

func scaled(match func(string) (float64, bool), factor float64) func(string) (float64, bool) {
	return func(s string) (float64, bool) {
		v, ok := match(s)
		return v * factor, ok
	}
}

// estimatedPrintingTime handles "1d 2h 3m 4s" style values; at least one
// token must be present.
func estimatedPrintingTime(s string) (float64, bool) {
	m := reEstimatedTime.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	tokens := reDurationToken.FindAllStringSubmatch(m[1], -1)
	if len(tokens) == 0 {
		return 0, false
	}
	var total float64
	for _, tok := range tokens {
		n := atof(tok[1])
		switch strings.ToLower(tok[2]) {
		case "d":
			total += n * 86400
		case "h":
			total += n * 3600
		case "m":
			total += n * 60
		case "s":
			total += n
		}
	}
	return total, true
}

func weightList(s string) (float64, bool) {
	m := reWeightList.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	fields := strings.FieldsFunc(m[1], func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	var (
		total float64
		found bool
	)
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			continue
		}
		total += v
		found = true
	}
	return total, found
}

func looseTime(s string) (float64, bool) {
	for _, line := range headLines(s, fallbackScanLines) {
		if !strings.Contains(strings.ToLower(line), "time") {
			continue
		}
		if m := reLooseHM.FindStringSubmatch(line); m != nil {
			if v := atof(m[1])*3600 + atof(m[2])*60; v > 0 {
				return v, true
			}
		}
		if m := reLooseClock.FindStringSubmatch(line); m != nil {
			if v := atof(m[1])*3600 + atof(m[2])*60; v > 0 {
				return v, true
			}
		}
	}
	return 0, false
}

func looseGrams(s string) (float64, bool) {
	for _, line := range headLines(s, fallbackScanLines) {
		for _, m := range reLooseGrams.FindAllStringSubmatch(line, -1) {
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			if v > 0.1 && v < 10000 {
				return v, true
			}
		}
	}
	return 0, false
}

// headLines returns at most n leading lines without splitting the whole text.
func headLines(s string, n int) []string {
	lines := make([]string, 0, n)
	for len(lines) < n && s != "" {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			lines = append(lines, s)
			break
		}
		lines = append(lines, s[:i])
		s = s[i+1:]
	}
	return lines
}

func atof(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
