package measurement

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	SystemMetric   = "metric"
	SystemImperial = "imperial"

	inchesPerFoot = 12
	cmPerInch     = 2.54
	kgPerPound    = 0.45359237
)

var (
	feetMarkerRe  = regexp.MustCompile(`feet|ft`)
	inchMarkerRe  = regexp.MustCompile(`inches|inch|in`)
	feetInchesRe  = regexp.MustCompile(`^(\d+)\s*'\s*(\d+(?:\.\d+)?)?\s*"?$`)
	inchesOnlyRe  = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*"?$`)
	weightUnitsRe = regexp.MustCompile(`lbs?|pounds?`)
)

// Params carries the raw survey measurement fields: free-text inputs plus
// any canonical values already on the record.
type Params struct {
	HeightInput string
	WeightInput string
	HeightCm    *int
	WeightKg    *float64
}

// Result is always structurally complete; unparseable fields come back nil.
type Result struct {
	HeightCm *int
	WeightKg *float64
}

// Normalize converts free-form height/weight text into integer centimeters
// and kilograms rounded to one decimal. system is "metric" or "imperial";
// anything blank or unknown is treated as metric. A canonical value already
// present and positive is passed through untouched when no free-text
// alternative was supplied. Malformed input never produces an error, only a
// nil field.
func Normalize(p Params, system string) Result {
	imperial := strings.TrimSpace(system) == SystemImperial

	out := Result{}

	if strings.TrimSpace(p.HeightInput) == "" && p.HeightCm != nil && *p.HeightCm > 0 {
		out.HeightCm = p.HeightCm
	} else if imperial {
		out.HeightCm = imperialHeightCm(p.HeightInput)
	} else {
		out.HeightCm = metricHeightCm(p.HeightInput)
	}

	if strings.TrimSpace(p.WeightInput) == "" && p.WeightKg != nil && *p.WeightKg > 0 {
		out.WeightKg = p.WeightKg
	} else if imperial {
		out.WeightKg = imperialWeightKg(p.WeightInput)
	} else {
		out.WeightKg = metricWeightKg(p.WeightInput)
	}

	return out
}

func parseNumber(input string) (float64, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func metricHeightCm(input string) *int {
	value, ok := parseNumber(input)
	if !ok {
		return nil
	}
	cm := int(math.Round(value))
	return &cm
}

func metricWeightKg(input string) *float64 {
	value, ok := parseNumber(input)
	if !ok {
		return nil
	}
	kg := roundTenth(value)
	return &kg
}

func imperialHeightCm(input string) *int {
	inches, ok := imperialHeightInches(input)
	if !ok {
		return nil
	}
	cm := int(math.Round(inches * cmPerInch))
	return &cm
}

// imperialHeightInches accepts three shapes, tried in order: feet-and-inches
// (5'11"), inches-only (72in, 71"), and bare decimal feet (5.5). A bare
// number with no unit marker always lands in the decimal-feet branch, so
// "70" parses as 70 feet; callers rely on this precedence.
func imperialHeightInches(input string) (float64, bool) {
	str := strings.ToLower(strings.TrimSpace(input))
	if str == "" {
		return 0, false
	}

	str = feetMarkerRe.ReplaceAllString(str, "'")
	str = inchMarkerRe.ReplaceAllString(str, `"`)

	if strings.Contains(str, "'") {
		match := feetInchesRe.FindStringSubmatch(str)
		if match == nil {
			return 0, false
		}
		feet, _ := strconv.ParseFloat(match[1], 64)
		inches := 0.0
		if match[2] != "" {
			inches, _ = strconv.ParseFloat(match[2], 64)
		}
		return feet*inchesPerFoot + inches, true
	}

	if strings.Contains(str, `"`) {
		match := inchesOnlyRe.FindStringSubmatch(str)
		if match == nil {
			return 0, false
		}
		inches, _ := strconv.ParseFloat(match[1], 64)
		return inches, true
	}

	feet, ok := parseNumber(str)
	if !ok {
		return 0, false
	}
	return feet * inchesPerFoot, true
}

func imperialWeightKg(input string) *float64 {
	stripped := weightUnitsRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(input)), "")
	pounds, ok := parseNumber(stripped)
	if !ok {
		return nil
	}
	kg := roundTenth(pounds * kgPerPound)
	return &kg
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// FormatHeight renders a stored height back into the given system for form
// defaults: feet'inches" for imperial, whole centimeters for metric.
func FormatHeight(heightCm *int, system string) string {
	if heightCm == nil || *heightCm <= 0 {
		return ""
	}
	if system == SystemImperial {
		totalInches := int(math.Round(float64(*heightCm) / cmPerInch))
		return fmt.Sprintf("%d'%d\"", totalInches/inchesPerFoot, totalInches%inchesPerFoot)
	}
	return strconv.Itoa(*heightCm)
}

// FormatWeight renders a stored weight back into the given system with one
// decimal place.
func FormatWeight(weightKg *float64, system string) string {
	if weightKg == nil || *weightKg <= 0 {
		return ""
	}
	if system == SystemImperial {
		return fmt.Sprintf("%.1f", *weightKg/kgPerPound)
	}
	return fmt.Sprintf("%.1f", *weightKg)
}
