package openfoodfacts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/saadjs/nutrigoal/internal/model"
)

const (
	DefaultBaseURL = "https://world.openfoodfacts.org"
	userAgent      = "nutrigoal/1.0 (+https://github.com/saadjs/nutrigoal)"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// LookupBarcode fetches one product and returns it as a Food along with the raw response body.
func (c *Client) LookupBarcode(ctx context.Context, barcode string) (model.Food, []byte, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return model.Food{}, nil, fmt.Errorf("barcode is required")
	}
	body, err := c.get(ctx, fmt.Sprintf("%s/api/v2/product/%s.json", c.base(), url.PathEscape(barcode)))
	if err != nil {
		return model.Food{}, body, err
	}

	var parsed offResponse
	if err := decode(body, &parsed); err != nil {
		return model.Food{}, body, fmt.Errorf("decode openfoodfacts response: %w", err)
	}
	if parsed.Status != 1 || strings.TrimSpace(parsed.Product.ProductName) == "" {
		return model.Food{}, body, fmt.Errorf("no openfoodfacts product found for barcode %q", barcode)
	}
	if parsed.Product.Code == "" {
		parsed.Product.Code = barcode
	}
	food, _ := ToFood(parsed.Product.record())
	return food, body, nil
}

// SearchFoods runs a text search and converts every named product.
func (c *Client) SearchFoods(ctx context.Context, query string, limit int) ([]model.Food, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query is required")
	}
	if limit <= 0 {
		limit = 10
	}
	u := fmt.Sprintf("%s/cgi/search.pl?search_terms=%s&search_simple=1&action=process&json=1&page_size=%d",
		c.base(), url.QueryEscape(query), limit)
	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	var parsed offSearchResponse
	if err := decode(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode openfoodfacts search response: %w", err)
	}
	out := make([]model.Food, 0, len(parsed.Products))
	for _, p := range parsed.Products {
		if strings.TrimSpace(p.ProductName) == "" {
			continue
		}
		food, _ := ToFood(p.record())
		out = append(out, food)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no openfoodfacts product found for query %q", query)
	}
	return out, nil
}

func (c *Client) base() string {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		return DefaultBaseURL
	}
	return base
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create openfoodfacts request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute openfoodfacts request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read openfoodfacts response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return body, fmt.Errorf("openfoodfacts request failed with status %d", resp.StatusCode)
	}
	return body, nil
}

func decode(body []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	return dec.Decode(v)
}

type offResponse struct {
	Status  int        `json:"status"`
	Product offProduct `json:"product"`
}

type offProduct struct {
	Code            string         `json:"code"`
	ProductName     string         `json:"product_name"`
	Brands          string         `json:"brands"`
	ServingSize     string         `json:"serving_size"`
	ServingQuantity any            `json:"serving_quantity"`
	Nutriments      map[string]any `json:"nutriments"`
}

func (p offProduct) record() Record {
	r := make(Record, len(p.Nutriments)+5)
	for k, v := range p.Nutriments {
		r[k] = v
	}
	r["code"] = p.Code
	r["product_name"] = p.ProductName
	r["brands"] = p.Brands
	r["serving_size"] = p.ServingSize
	r["serving_quantity"] = p.ServingQuantity
	return r
}

type offSearchResponse struct {
	Products []offProduct `json:"products"`
}
