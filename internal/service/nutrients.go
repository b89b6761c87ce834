package service

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var nutrientKeyPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// ParseNutrientsJSON decodes a JSON object of nutrient key to amount.
func ParseNutrientsJSON(value string) (map[string]float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return map[string]float64{}, nil
	}
	var decoded map[string]float64
	if err := json.Unmarshal([]byte(value), &decoded); err != nil {
		return nil, fmt.Errorf("nutrients must be a JSON object of numbers: %w", err)
	}
	return normalizeNutrients(decoded)
}

// ParseNutrientAssignments reads key=value pairs such as "fiber=3.5".
func ParseNutrientAssignments(pairs []string) (map[string]float64, error) {
	raw := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid nutrient %q (expected key=value)", pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid amount for nutrient %q: %w", key, err)
		}
		raw[key] = v
	}
	return normalizeNutrients(raw)
}

func EncodeNutrientsJSON(m map[string]float64) (string, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshal nutrients: %w", err)
	}
	return string(b), nil
}

func normalizeNutrients(in map[string]float64) (map[string]float64, error) {
	out := make(map[string]float64, len(in))
	for rawKey, v := range in {
		key := normalizeNutrientKey(rawKey)
		if key == "" || !nutrientKeyPattern.MatchString(key) {
			return nil, fmt.Errorf("invalid nutrient key %q (expected lowercase snake_case)", rawKey)
		}
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("nutrient %q value must be >= 0", rawKey)
		}
		out[key] = v
	}
	return out, nil
}

func normalizeNutrientKey(raw string) string {
	k := strings.TrimSpace(strings.ToLower(raw))
	k = strings.ReplaceAll(k, "-", "_")
	k = strings.ReplaceAll(k, " ", "_")
	k = strings.Trim(k, "_")
	for strings.Contains(k, "__") {
		k = strings.ReplaceAll(k, "__", "_")
	}
	return k
}

// SortedNutrientKeys returns the keys of m in lexical order.
func SortedNutrientKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
