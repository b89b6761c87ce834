package service

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/saadjs/nutrigoal/internal/model"
	"github.com/saadjs/nutrigoal/internal/provider/openfoodfacts"
	"github.com/saadjs/nutrigoal/internal/provider/usda"
)

const (
	BarcodeProviderOpenFoodFacts = openfoodfacts.SourceType
	BarcodeProviderUSDA          = usda.SourceType
	defaultBarcodeProviders      = BarcodeProviderOpenFoodFacts + "," + BarcodeProviderUSDA
	lookupTimeout                = 15 * time.Second
)

var barcodePattern = regexp.MustCompile(`^\d{8,14}$`)

// BarcodeClient fetches one product by barcode along with the raw provider payload.
type BarcodeClient interface {
	LookupBarcode(ctx context.Context, barcode string) (model.Food, []byte, error)
}

type LookupResult struct {
	Food      model.Food `json:"food"`
	Provider  string     `json:"provider"`
	FromCache bool       `json:"from_cache"`
	Trail     []string   `json:"lookup_trail,omitempty"`
}

// LookupBarcode returns the stored food for barcode, or tries each configured
// provider in order and stores the first hit. A non-empty provider restricts
// the lookup to that provider.
func LookupBarcode(ctx context.Context, db *sql.DB, barcode, provider string) (LookupResult, error) {
	providers, err := barcodeProviders(db, provider)
	if err != nil {
		return LookupResult{}, err
	}
	clients := make(map[string]BarcodeClient, len(providers))
	for _, p := range providers {
		c, err := newBarcodeClient(db, p)
		if err != nil {
			return LookupResult{}, err
		}
		clients[p] = c
	}
	return LookupBarcodeWith(ctx, db, barcode, providers, clients)
}

// LookupBarcodeWith runs the cache check and provider fallback with explicit clients.
func LookupBarcodeWith(ctx context.Context, db *sql.DB, barcode string, providers []string, clients map[string]BarcodeClient) (LookupResult, error) {
	barcode = strings.TrimSpace(barcode)
	if !isValidBarcode(barcode) {
		return LookupResult{}, fmt.Errorf("invalid barcode %q (expected 8-14 digits)", barcode)
	}
	if len(providers) == 0 {
		return LookupResult{}, fmt.Errorf("no lookup providers configured")
	}

	for _, p := range providers {
		cached, err := FindFoodBySource(db, p, barcode)
		if err != nil {
			return LookupResult{}, err
		}
		if cached != nil {
			return LookupResult{Food: *cached, Provider: p, FromCache: true}, nil
		}
	}

	trail := make([]string, 0, len(providers))
	errs := make([]string, 0, len(providers))
	for _, p := range providers {
		client, ok := clients[p]
		if !ok {
			return LookupResult{}, fmt.Errorf("unsupported barcode provider %q", p)
		}
		trail = append(trail, p)
		lctx, cancel := context.WithTimeout(ctx, lookupTimeout)
		food, raw, err := client.LookupBarcode(lctx, barcode)
		cancel()
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", p, err))
			continue
		}
		food.SourceType = p
		food.SourceRef = barcode
		id, err := insertFood(db, food, raw)
		if err != nil {
			return LookupResult{}, err
		}
		stored, err := GetFood(db, id)
		if err != nil {
			return LookupResult{}, err
		}
		if stored == nil {
			return LookupResult{}, fmt.Errorf("food %d vanished after insert", id)
		}
		return LookupResult{Food: *stored, Provider: p, Trail: trail}, nil
	}
	return LookupResult{}, fmt.Errorf("lookup failed for %q across providers [%s]", barcode, strings.Join(errs, "; "))
}

// SearchOpenFoodFacts runs a text search without storing any results.
func SearchOpenFoodFacts(ctx context.Context, db *sql.DB, query string, limit int) ([]model.Food, error) {
	base, err := configOr(db, ConfigOpenFoodFactsBaseURL, openfoodfacts.DefaultBaseURL)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()
	client := &openfoodfacts.Client{BaseURL: base}
	return client.SearchFoods(ctx, query, limit)
}

func barcodeProviders(db *sql.DB, explicit string) ([]string, error) {
	raw := explicit
	if strings.TrimSpace(raw) == "" {
		v, err := configOr(db, ConfigBarcodeProviders, defaultBarcodeProviders)
		if err != nil {
			return nil, err
		}
		raw = v
	}
	out := make([]string, 0, 2)
	seen := map[string]bool{}
	for _, part := range strings.Split(raw, ",") {
		p := normalizeBarcodeProvider(part)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out, nil
}

func newBarcodeClient(db *sql.DB, provider string) (BarcodeClient, error) {
	switch provider {
	case BarcodeProviderOpenFoodFacts:
		base, err := configOr(db, ConfigOpenFoodFactsBaseURL, openfoodfacts.DefaultBaseURL)
		if err != nil {
			return nil, err
		}
		return &openfoodfacts.Client{BaseURL: base}, nil
	case BarcodeProviderUSDA:
		key, err := configOr(db, ConfigUSDAAPIKey, "")
		if err != nil {
			return nil, err
		}
		return &usda.Client{APIKey: key}, nil
	default:
		return nil, fmt.Errorf("unsupported barcode provider %q", provider)
	}
}

func normalizeBarcodeProvider(v string) string {
	switch p := normalizeName(v); p {
	case "off", "open_food_facts", "open-food-facts":
		return BarcodeProviderOpenFoodFacts
	case "fdc":
		return BarcodeProviderUSDA
	default:
		return p
	}
}

func isValidBarcode(v string) bool {
	return barcodePattern.MatchString(v)
}
