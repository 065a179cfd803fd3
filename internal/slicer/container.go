package slicer

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"math"
	"path"
	"regexp"
	"strconv"
	"strings"
)

// Decompression limits. An archive may inflate to at most
// inflateRatio times its own size, never less than minInflateBytes and never
// more than maxInflateBytes in total.
const (
	inflateRatio    = 20
	minInflateBytes = 16 << 20
	maxInflateBytes = 256 << 20
)

var (
	reXMLWeight   = regexp.MustCompile(`<filament_weight[^>]*>\s*(\d+(?:\.\d+)?)\s*</filament_weight>`)
	reXMLWeightKG = regexp.MustCompile(`<filament_weight[^>]*>\s*(\d+(?:\.\d+)?)\s*kg\s*</filament_weight>`)
	reConsumed    = regexp.MustCompile(`consumeds_grams="(\d+(?:\.\d+)?)"`)
	reXMLPrint    = regexp.MustCompile(`<print_time[^>]*>\s*(\d+(?:\.\d+)?)\s*</print_time>`)
	reXMLTime     = regexp.MustCompile(`<time[^>]*>\s*(\d+(?:\.\d+)?)\s*</time>`)

	// Bambu Studio / OrcaSlicer slice_info.config plate metadata.
	rePrediction = regexp.MustCompile(`key="prediction"\s+value="(\d+(?:\.\d+)?)"`)
	rePlateGrams = regexp.MustCompile(`key="weight"\s+value="(\d+(?:\.\d+)?)"`)
)

// ExtractFromContainer analyses a 3MF (zip) archive. A corrupt archive is
// reported with FileTypeError; it is never returned as an error.
func ExtractFromContainer(data []byte) (report Report) {
	defer func() {
		if r := recover(); r != nil {
			report = failure(FileTypeError, fmt.Sprintf("Erro ao ler o arquivo 3MF: %v", r))
		}
	}()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return failure(FileTypeError, "Erro ao ler o arquivo 3MF: "+err.Error())
	}

	budget := newInflateBudget(len(data))
	var gcode, metadata []*zip.File
	hasModel := false
	for _, f := range zr.File {
		name := strings.ToLower(f.Name)
		switch {
		case isGcodeEntry(name):
			gcode = append(gcode, f)
		case isMetadataEntry(name):
			metadata = append(metadata, f)
		}
		if strings.HasSuffix(name, ".model") || strings.Contains(name, "3dmodel") {
			hasModel = true
		}
	}

	if len(gcode) > 0 {
		text, err := budget.read(gcode[0])
		if err != nil {
			return failure(FileTypeError, "Erro ao ler o G-code embutido: "+err.Error())
		}
		if r := Extract(text); r.Success {
			r.FileType = FileTypeEmbeddedGcode
			return r
		}
	}

	meta, err := scanMetadata(metadata, budget)
	if err != nil {
		return failure(FileTypeError, "Erro ao ler os metadados do 3MF: "+err.Error())
	}
	if meta.timeFound || meta.weightFound {
		label := meta.slicer
		if label == "" {
			label = SlicerUnknown
		}
		return newReport(int(math.Round(meta.seconds)), meta.grams, meta.timeFound, meta.weightFound, label, FileTypeSliced)
	}

	if len(gcode) == 0 && hasModel && len(metadata) == 0 {
		return failure(FileType3DModel,
			"Arquivo 3MF contém apenas o modelo 3D. Fatie o arquivo no seu slicer e envie o G-code ou o 3MF fatiado.")
	}
	return failure(FileTypeUnknown, "Não foi possível encontrar informações de fatiamento no arquivo 3MF")
}

func isGcodeEntry(name string) bool {
	if strings.HasSuffix(name, ".gcode") || strings.HasSuffix(name, ".gco") {
		return true
	}
	ok, _ := path.Match("metadata/plate_*.gcode", name)
	return ok
}

// isMetadataEntry matches xml/config files under any Metadata/ directory;
// some exporters nest the whole package one level deep.
func isMetadataEntry(name string) bool {
	underMetadata := strings.HasPrefix(name, "metadata/") || strings.Contains(name, "/metadata/")
	return underMetadata && (strings.HasSuffix(name, ".xml") || strings.HasSuffix(name, ".config"))
}

type metadataResult struct {
	slicer      string
	seconds     float64
	grams       float64
	timeFound   bool
	weightFound bool
	weightInKG  bool
}

// scanMetadata keeps the first value found per field across all files, in
// archive order. A kilogram weight replaces a plain gram weight.
func scanMetadata(files []*zip.File, budget *inflateBudget) (metadataResult, error) {
	var res metadataResult
	for _, f := range files {
		text, err := budget.read(f)
		if err != nil {
			return res, err
		}
		if res.slicer == "" {
			if label, ok := detectSlicer(text); ok {
				res.slicer = label
			}
		}
		if !res.weightFound {
			if v, ok := submatchFloat(reXMLWeight, text); ok {
				res.grams, res.weightFound = v, true
			} else if v, ok := submatchFloat(reConsumed, text); ok {
				res.grams, res.weightFound = v, true
			}
		}
		if !res.timeFound {
			if v, ok := submatchFloat(reXMLPrint, text); ok {
				res.seconds, res.timeFound = v, true
			} else if v, ok := submatchFloat(reXMLTime, text); ok {
				res.seconds, res.timeFound = v, true
			}
		}
		if !res.weightInKG {
			if v, ok := submatchFloat(reXMLWeightKG, text); ok {
				res.grams, res.weightFound, res.weightInKG = v*1000, true, true
			}
		}
		if !res.timeFound {
			if v, ok := submatchFloat(rePrediction, text); ok {
				res.seconds, res.timeFound = v, true
			}
		}
		if !res.weightFound {
			if v, ok := submatchFloat(rePlateGrams, text); ok {
				res.grams, res.weightFound = v, true
			}
		}
	}
	return res, nil
}

// inflateBudget tracks how many decompressed bytes an archive may still use.
type inflateBudget struct {
	remaining int64
}

func newInflateBudget(archiveSize int) *inflateBudget {
	n := int64(archiveSize) * inflateRatio
	if n < minInflateBytes {
		n = minInflateBytes
	}
	if n > maxInflateBytes {
		n = maxInflateBytes
	}
	return &inflateBudget{remaining: n}
}

// read decompresses f within the budget. The declared size is checked
// before opening; the actual size is enforced while reading.
func (b *inflateBudget) read(f *zip.File) (string, error) {
	if f.UncompressedSize64 > uint64(b.remaining) {
		return "", fmt.Errorf("entry %s exceeds the decompression limit (%d bytes left)", f.Name, b.remaining)
	}
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	buf, err := io.ReadAll(io.LimitReader(rc, b.remaining+1))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.Name, err)
	}
	if int64(len(buf)) > b.remaining {
		return "", fmt.Errorf("entry %s exceeds the decompression limit (%d bytes left)", f.Name, b.remaining)
	}
	b.remaining -= int64(len(buf))
	return string(buf), nil
}

func submatchFloat(re *regexp.Regexp, s string) (float64, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
