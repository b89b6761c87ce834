package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/saadjs/nutrigoal/internal/model"
	"github.com/saadjs/nutrigoal/internal/service"
)

type fakeBarcodeClient struct {
	food  model.Food
	err   error
	calls int
}

func (f *fakeBarcodeClient) LookupBarcode(_ context.Context, _ string) (model.Food, []byte, error) {
	f.calls++
	if f.err != nil {
		return model.Food{}, nil, f.err
	}
	return f.food, []byte(`{"ok":true}`), nil
}

func TestLookupBarcodeFallsBackAndCaches(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	off := &fakeBarcodeClient{err: errors.New("product not found")}
	fdc := &fakeBarcodeClient{food: model.Food{Name: "Peanut Butter", SourceRef: "98765", Calories: floatPtr(590), Nutrients: map[string]float64{"protein": 25}}}
	providers := []string{service.BarcodeProviderOpenFoodFacts, service.BarcodeProviderUSDA}
	clients := map[string]service.BarcodeClient{
		service.BarcodeProviderOpenFoodFacts: off,
		service.BarcodeProviderUSDA:          fdc,
	}

	res, err := service.LookupBarcodeWith(context.Background(), db, "0012345678905", providers, clients)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if res.Provider != service.BarcodeProviderUSDA || res.FromCache {
		t.Fatalf("expected fresh usda result, got %+v", res)
	}
	if strings.Join(res.Trail, ",") != "openfoodfacts,usda" {
		t.Fatalf("unexpected lookup trail %v", res.Trail)
	}
	if res.Food.ID <= 0 || res.Food.SourceRef != "0012345678905" || res.Food.SourceType != "usda" {
		t.Fatalf("expected stored food keyed by barcode, got %+v", res.Food)
	}

	cached, err := service.LookupBarcodeWith(context.Background(), db, "0012345678905", providers, clients)
	if err != nil {
		t.Fatalf("cached lookup: %v", err)
	}
	if !cached.FromCache || cached.Food.ID != res.Food.ID {
		t.Fatalf("expected cached food %d, got %+v", res.Food.ID, cached)
	}
	if off.calls != 1 || fdc.calls != 1 {
		t.Fatalf("expected providers to be called once each, got off=%d usda=%d", off.calls, fdc.calls)
	}
}

func TestLookupBarcodeErrors(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	failing := map[string]service.BarcodeClient{
		service.BarcodeProviderOpenFoodFacts: &fakeBarcodeClient{err: errors.New("boom")},
	}
	if _, err := service.LookupBarcodeWith(context.Background(), db, "12ab", []string{service.BarcodeProviderOpenFoodFacts}, failing); err == nil {
		t.Fatalf("expected invalid barcode error")
	}
	if _, err := service.LookupBarcodeWith(context.Background(), db, "12345678", nil, failing); err == nil {
		t.Fatalf("expected no providers error")
	}
	_, err := service.LookupBarcodeWith(context.Background(), db, "12345678", []string{service.BarcodeProviderOpenFoodFacts}, failing)
	if err == nil || !strings.Contains(err.Error(), "openfoodfacts: boom") {
		t.Fatalf("expected aggregated provider error, got %v", err)
	}
	if _, err := service.LookupBarcodeWith(context.Background(), db, "12345678", []string{"upc"}, failing); err == nil {
		t.Fatalf("expected unsupported provider error")
	}
}

func TestLookupBarcodeRejectsUnknownConfiguredProvider(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	if _, err := service.LookupBarcode(context.Background(), db, "12345678", "nutritionix"); err == nil {
		t.Fatalf("expected unsupported provider error")
	}
}
