package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/koki198977/recomiendame-coach-app-sub001/models"
)

// Resolver error taxonomy. ErrProductNotFound is authoritative, meaning the
// catalog answered and the barcode does not exist; the rest are transport
// categories surfaced after every endpoint failed.
var (
	ErrProductNotFound   = errors.New("product not found in catalog")
	ErrNoConnection      = errors.New("no internet connection")
	ErrRequestTimeout    = errors.New("catalog request timed out")
	ErrServerUnavailable = errors.New("catalog temporarily unavailable")
	ErrConnection        = errors.New("could not reach the product catalog")
)

// defaultEndpoints are tried in priority order. The .net host is the
// project's staging mirror and answers when the main host is degraded.
var defaultEndpoints = []string{
	"https://world.openfoodfacts.org/api/v0/product",
	"https://es.openfoodfacts.org/api/v0/product",
	"https://world.openfoodfacts.net/api/v0/product",
}

// OpenFoodFactsService resolves barcodes against the Open Food Facts catalog
// with multi-endpoint retry and an in-memory sample dataset as last-resort
// fallback for offline/demo conditions. No caching across calls.
type OpenFoodFactsService struct {
	endpoints []string
	client    *http.Client
	mock      map[string]*models.Product
}

func NewOpenFoodFactsService() *OpenFoodFactsService {
	return &OpenFoodFactsService{
		endpoints: defaultEndpoints,
		client:    &http.Client{Timeout: 10 * time.Second},
		mock:      sampleProducts(),
	}
}

// NewOpenFoodFactsServiceWithEndpoints overrides the endpoint list and client
// (tests point this at httptest servers).
func NewOpenFoodFactsServiceWithEndpoints(endpoints []string, client *http.Client) *OpenFoodFactsService {
	return &OpenFoodFactsService{
		endpoints: endpoints,
		client:    client,
		mock:      sampleProducts(),
	}
}

// offEnvelope is the catalog's response shape: status 0 means "no such
// product" (authoritative), 1 means found.
type offEnvelope struct {
	Status        int            `json:"status"`
	StatusVerbose string         `json:"status_verbose"`
	Product       *offProductDoc `json:"product"`
}

type offProductDoc struct {
	Code            string         `json:"code"`
	ProductName     string         `json:"product_name"`
	ProductNameEs   string         `json:"product_name_es"`
	GenericName     string         `json:"generic_name"`
	Brands          string         `json:"brands"`
	Nutriments      map[string]any `json:"nutriments"`
	NutriscoreGrade string         `json:"nutriscore_grade"`
	NutriscoreScore int            `json:"nutriscore_score"`
	NovaGroup       int            `json:"nova_group"`
	IngredientsText string         `json:"ingredients_text"`
	AllergensTags   []string       `json:"allergens_tags"`
	LabelsTags      []string       `json:"labels_tags"`
	ServingSize     string         `json:"serving_size"`
	ImageURL        string         `json:"image_url"`
}

// Resolve tries each catalog endpoint in order. An explicit not-found answer
// stops the sequence immediately; transport failures fall through to the next
// endpoint, then to the sample dataset, then to a categorized error.
func (s *OpenFoodFactsService) Resolve(ctx context.Context, barcode string) (*models.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, fmt.Errorf("empty barcode: %w", ErrProductNotFound)
	}

	var lastTransportErr error
	for _, base := range s.endpoints {
		product, err := s.fetchOne(ctx, base, barcode)
		if err == nil {
			return product, nil
		}
		if errors.Is(err, ErrProductNotFound) {
			// The catalog answered; no further fallback.
			return nil, err
		}
		lastTransportErr = err
	}

	if p, ok := s.mock[barcode]; ok {
		cp := *p
		return &cp, nil
	}

	if lastTransportErr != nil {
		return nil, lastTransportErr
	}
	return nil, ErrConnection
}

func (s *OpenFoodFactsService) fetchOne(ctx context.Context, base, barcode string) (*models.Product, error) {
	url := fmt.Sprintf("%s/%s.json", base, barcode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("User-Agent", "RecomiendameCoach/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("catalog %d: %w", resp.StatusCode, ErrServerUnavailable)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog status %d: %w", resp.StatusCode, ErrConnection)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read catalog response: %w", classifyTransportError(err))
	}

	var env offEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("parse catalog JSON: %w", ErrConnection)
	}
	if env.Status == 0 || env.Product == nil {
		return nil, ErrProductNotFound
	}

	return normalizeProduct(barcode, env.Product), nil
}

func classifyTransportError(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%v: %w", err, ErrRequestTimeout)
	case errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%v: %w", err, ErrRequestTimeout)
	}
	var dnsErr *net.DNSError
	var opErr *net.OpError
	if errors.As(err, &dnsErr) || errors.As(err, &opErr) {
		return fmt.Errorf("%v: %w", err, ErrNoConnection)
	}
	return fmt.Errorf("%v: %w", err, ErrConnection)
}

// normalizeProduct is the single place the catalog's loose document shape is
// mapped onto the canonical Product: every historical field variant is
// resolved here so the rest of the core never sees the raw envelope.
func normalizeProduct(barcode string, doc *offProductDoc) *models.Product {
	name := doc.ProductName
	if name == "" {
		name = doc.ProductNameEs
	}
	if name == "" {
		name = doc.GenericName
	}

	per100 := models.NutritionFacts{
		Calories:      kcalPer100(doc.Nutriments),
		Protein:       nutriment(doc.Nutriments, "proteins_100g"),
		Carbohydrates: nutriment(doc.Nutriments, "carbohydrates_100g"),
		Fat:           nutriment(doc.Nutriments, "fat_100g"),
		SaturatedFat:  nutriment(doc.Nutriments, "saturated-fat_100g"),
		Sugar:         nutriment(doc.Nutriments, "sugars_100g"),
		Fiber:         nutriment(doc.Nutriments, "fiber_100g"),
		Sodium:        nutriment(doc.Nutriments, "sodium_100g") * 1000.0, // g → mg
		Salt:          nutriment(doc.Nutriments, "salt_100g"),
	}

	var perServing *models.NutritionFacts
	if kcal := nutriment(doc.Nutriments, "energy-kcal_serving"); kcal > 0 {
		perServing = &models.NutritionFacts{
			Calories:      kcal,
			Protein:       nutriment(doc.Nutriments, "proteins_serving"),
			Carbohydrates: nutriment(doc.Nutriments, "carbohydrates_serving"),
			Fat:           nutriment(doc.Nutriments, "fat_serving"),
			SaturatedFat:  nutriment(doc.Nutriments, "saturated-fat_serving"),
			Sugar:         nutriment(doc.Nutriments, "sugars_serving"),
			Fiber:         nutriment(doc.Nutriments, "fiber_serving"),
			Sodium:        nutriment(doc.Nutriments, "sodium_serving") * 1000.0,
			Salt:          nutriment(doc.Nutriments, "salt_serving"),
		}
	}

	nova := doc.NovaGroup
	if nova == 0 {
		nova = int(nutriment(doc.Nutriments, "nova-group"))
	}

	return &models.Product{
		Barcode:         barcode,
		Name:            name,
		Brands:          doc.Brands,
		Per100g:         per100,
		PerServing:      perServing,
		ServingSize:     doc.ServingSize,
		NutriScoreGrade: strings.ToLower(doc.NutriscoreGrade),
		NutriScoreValue: doc.NutriscoreScore,
		NovaGroup:       nova,
		IngredientsText: doc.IngredientsText,
		AllergenTags:    doc.AllergensTags,
		LabelTags:       doc.LabelsTags,
		ImageURL:        doc.ImageURL,
	}
}

// kcalPer100 prefers energy-kcal_100g and falls back to kJ / 4.184.
func kcalPer100(n map[string]any) float64 {
	if v := nutriment(n, "energy-kcal_100g"); v > 0 {
		return v
	}
	if v := nutriment(n, "energy-kj_100g"); v > 0 {
		return v / 4.184
	}
	if v := nutriment(n, "energy_100g"); v > 0 {
		return v / 4.184
	}
	return 0
}

// nutriment coerces a nutriments map value: the catalog emits numbers and
// numeric strings interchangeably.
func nutriment(n map[string]any, key string) float64 {
	v, ok := n[key]
	if !ok {
		return 0
	}
	switch x := v.(type) {
	case float64:
		return x
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return f
		}
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return f
		}
	}
	return 0
}

// sampleProducts is the offline/demo fallback dataset keyed by barcode.
func sampleProducts() map[string]*models.Product {
	return map[string]*models.Product{
		"7501000135028": {
			Barcode: "7501000135028",
			Name:    "Galletas Marías",
			Brands:  "Gamesa",
			Per100g: models.NutritionFacts{
				Calories: 436, Protein: 7.1, Carbohydrates: 75, Fat: 11,
				SaturatedFat: 5.2, Sugar: 20, Fiber: 2.1, Sodium: 390, Salt: 0.98,
			},
			NutriScoreGrade: "d",
			NovaGroup:       4,
			AllergenTags:    []string{"en:gluten"},
		},
		"7802900000127": {
			Barcode: "7802900000127",
			Name:    "Yogur natural",
			Brands:  "Soprole",
			Per100g: models.NutritionFacts{
				Calories: 61, Protein: 3.5, Carbohydrates: 4.7, Fat: 3.3,
				SaturatedFat: 2.1, Sugar: 4.7, Sodium: 46, Salt: 0.12,
			},
			ServingSize:     "125g",
			NutriScoreGrade: "b",
			NovaGroup:       1,
			AllergenTags:    []string{"en:milk"},
		},
		"0737628064502": {
			Barcode: "0737628064502",
			Name:    "Rice noodles",
			Brands:  "Thai Kitchen",
			Per100g: models.NutritionFacts{
				Calories: 355, Protein: 6.2, Carbohydrates: 81, Fat: 0.9,
				Sugar: 0.9, Fiber: 1.8, Sodium: 12, Salt: 0.03,
			},
			NutriScoreGrade: "a",
			NovaGroup:       3,
		},
	}
}
