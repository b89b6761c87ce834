package nutrition

import (
	"math"
	"strconv"
	"strings"
)

// ServingUnitLabel pluralizes a serving unit by appending "s" when count is a
// whole number greater than one and stripping a trailing "s" otherwise.
// Irregular plurals ("slices of bread", "loaves") are not handled; screens
// depend on this exact rule, including 1.5 rendering as singular.
func ServingUnitLabel(count float64, unit string) string {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return unit
	}
	if count > 1 && count == math.Trunc(count) {
		if strings.HasSuffix(unit, "s") {
			return unit
		}
		return unit + "s"
	}
	return strings.TrimSuffix(unit, "s")
}

// FormatServings renders a count with its unit label, e.g. "2 cups" or "1.5 cup".
func FormatServings(count float64, unit string) string {
	n := strconv.FormatFloat(count, 'f', -1, 64)
	label := ServingUnitLabel(count, unit)
	if label == "" {
		return n
	}
	return n + " " + label
}
