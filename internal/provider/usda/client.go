package usda

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/saadjs/nutrigoal/internal/model"
	"github.com/saadjs/nutrigoal/internal/nutrition"
)

const (
	DefaultBaseURL = "https://api.nal.usda.gov"
	SourceType     = "usda"
)

type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// LookupBarcode searches branded FoodData Central records for a GTIN/UPC and
// returns the best match as a Food with amounts per 100 g.
func (c *Client) LookupBarcode(ctx context.Context, barcode string) (model.Food, []byte, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return model.Food{}, nil, fmt.Errorf("missing USDA API key")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}

	reqBody := map[string]any{
		"query":    barcode,
		"dataType": []string{"Branded"},
		"pageSize": 20,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return model.Food{}, nil, fmt.Errorf("marshal USDA search payload: %w", err)
	}

	url := fmt.Sprintf("%s/fdc/v1/foods/search?api_key=%s", baseURL, c.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return model.Food{}, nil, fmt.Errorf("create USDA request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return model.Food{}, nil, fmt.Errorf("execute USDA request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Food{}, nil, fmt.Errorf("read USDA response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.Food{}, body, fmt.Errorf("USDA request failed with status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return model.Food{}, body, fmt.Errorf("decode USDA response: %w", err)
	}

	match, ok := selectBarcodeMatch(parsed.Foods, barcode)
	if !ok {
		return model.Food{}, body, fmt.Errorf("no USDA branded food found for barcode %q", barcode)
	}
	return toFood(match), body, nil
}

func toFood(f usdaFood) model.Food {
	servings := 1.0
	out := model.Food{
		Name:        strings.TrimSpace(f.Description),
		Brand:       strings.TrimSpace(f.BrandOwner),
		Servings:    &servings,
		ServingSize: "100 g",
		Nutrients:   map[string]float64{},
		SourceType:  SourceType,
		SourceRef:   strconv.FormatInt(f.FDCID, 10),
	}
	for _, n := range f.FoodNutrients {
		name := strings.ToLower(strings.TrimSpace(n.NutrientName))
		unit := strings.ToLower(strings.TrimSpace(n.UnitName))
		if name == "energy" {
			if unit == "kj" {
				continue
			}
			kcal := n.Value
			out.Calories = &kcal
			continue
		}
		key, ok := nutrientKeys[name]
		if !ok {
			continue
		}
		if _, seen := out.Nutrients[key]; seen {
			continue
		}
		target, _ := nutrition.Lookup(key)
		v, ok := convert(n.Value, unit, target.Unit)
		if !ok {
			continue
		}
		out.Nutrients[key] = v
	}
	return out
}

// nutrientKeys maps FoodData Central nutrient names to nutrient keys. When a
// food lists more than one variant, the first one reported wins.
var nutrientKeys = map[string]string{
	"protein":                        nutrition.Protein,
	"carbohydrate, by difference":    nutrition.TotalCarbs,
	"total lipid (fat)":              nutrition.TotalFats,
	"fiber, total dietary":           nutrition.Fiber,
	"sugars, total including nlea":   nutrition.Sugar,
	"sugars, total":                  nutrition.Sugar,
	"sugars, added":                  nutrition.AddedSugar,
	"fatty acids, total saturated":   nutrition.SaturatedFats,
	"fatty acids, total trans":       nutrition.TransFats,
	"cholesterol":                    nutrition.Cholesterol,
	"pufa 18:3 n-3 c,c,c (ala)":      nutrition.Omega3,
	"pufa 18:2 n-6 c,c":              nutrition.Omega6,
	"water":                          nutrition.Water,
	"vitamin a, rae":                 nutrition.VitaminA,
	"vitamin b-6":                    nutrition.VitaminB6,
	"vitamin b-12":                   nutrition.VitaminB12,
	"vitamin c, total ascorbic acid": nutrition.VitaminC,
	"vitamin d (d2 + d3)":            nutrition.VitaminD,
	"vitamin e (alpha-tocopherol)":   nutrition.VitaminE,
	"vitamin k (phylloquinone)":      nutrition.VitaminK,
	"thiamin":                        nutrition.Thiamin,
	"riboflavin":                     nutrition.Riboflavin,
	"niacin":                         nutrition.Niacin,
	"folate, dfe":                    nutrition.Folate,
	"folate, total":                  nutrition.Folate,
	"pantothenic acid":               nutrition.PantothenicAcid,
	"biotin":                         nutrition.Biotin,
	"choline, total":                 nutrition.Choline,
	"calcium, ca":                    nutrition.Calcium,
	"chromium, cr":                   nutrition.Chromium,
	"copper, cu":                     nutrition.Copper,
	"fluoride, f":                    nutrition.Fluoride,
	"iodine, i":                      nutrition.Iodine,
	"iron, fe":                       nutrition.Iron,
	"magnesium, mg":                  nutrition.Magnesium,
	"manganese, mn":                  nutrition.Manganese,
	"molybdenum, mo":                 nutrition.Molybdenum,
	"phosphorus, p":                  nutrition.Phosphorus,
	"selenium, se":                   nutrition.Selenium,
	"zinc, zn":                       nutrition.Zinc,
	"potassium, k":                   nutrition.Potassium,
	"sodium, na":                     nutrition.Sodium,
	"chlorine, cl":                   nutrition.Chloride,
}

var microgramsPer = map[string]float64{
	"g":   1e6,
	"mg":  1e3,
	"ug":  1,
	"µg":  1,
	"mcg": 1,
}

// convert rescales a mass amount between units. Water is reported in grams and
// tracked in litres.
func convert(v float64, from, to string) (float64, bool) {
	to = strings.ToLower(to)
	if to == "l" {
		if from != "g" {
			return 0, false
		}
		return v / 1000, true
	}
	src, ok := microgramsPer[from]
	if !ok {
		return 0, false
	}
	dst, ok := microgramsPer[to]
	if !ok {
		return 0, false
	}
	if src == dst {
		return v, true
	}
	return v * src / dst, true
}

func selectBarcodeMatch(foods []usdaFood, barcode string) (usdaFood, bool) {
	for _, f := range foods {
		if strings.TrimLeft(strings.TrimSpace(f.GTINUPC), "0") == strings.TrimLeft(barcode, "0") {
			return f, true
		}
	}
	if len(foods) > 0 {
		return foods[0], true
	}
	return usdaFood{}, false
}

type searchResponse struct {
	Foods []usdaFood `json:"foods"`
}

type usdaFood struct {
	FDCID         int64          `json:"fdcId"`
	Description   string         `json:"description"`
	BrandOwner    string         `json:"brandOwner"`
	GTINUPC       string         `json:"gtinUpc"`
	FoodNutrients []usdaNutrient `json:"foodNutrients"`
}

type usdaNutrient struct {
	NutrientName string  `json:"nutrientName"`
	UnitName     string  `json:"unitName"`
	Value        float64 `json:"value"`
}
