package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func offServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func foundHandler(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"status":1,"product":{"product_name":%q,"nutriments":{"energy-kcal_100g":250,"proteins_100g":10}}}`, name)
	}
}

func TestResolveFirstEndpointWins(t *testing.T) {
	primary := offServer(t, foundHandler("Primary hit"))
	secondary := offServer(t, foundHandler("Secondary hit"))

	svc := NewOpenFoodFactsServiceWithEndpoints(
		[]string{primary.URL, secondary.URL},
		primary.Client(),
	)
	p, err := svc.Resolve(context.Background(), "1234567890123")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.Name != "Primary hit" {
		t.Errorf("expected the first endpoint's answer, got %q", p.Name)
	}
	if p.Barcode != "1234567890123" {
		t.Errorf("barcode = %q", p.Barcode)
	}
}

func TestResolveFallsThroughServerErrors(t *testing.T) {
	broken := offServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	working := offServer(t, foundHandler("Backup hit"))

	svc := NewOpenFoodFactsServiceWithEndpoints(
		[]string{broken.URL, working.URL},
		working.Client(),
	)
	p, err := svc.Resolve(context.Background(), "1234567890123")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.Name != "Backup hit" {
		t.Errorf("expected the backup endpoint's answer, got %q", p.Name)
	}
}

func TestResolveNotFoundIsAuthoritative(t *testing.T) {
	// slow endpoints time out, then the last one answers with status 0;
	// the explicit answer must win even for a barcode the sample dataset has
	slow := func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, `{"status":1,"product":{"product_name":"too late"}}`)
	}
	slow1 := offServer(t, slow)
	slow2 := offServer(t, slow)
	answering := offServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":0,"status_verbose":"product not found"}`)
	})

	svc := NewOpenFoodFactsServiceWithEndpoints(
		[]string{slow1.URL, slow2.URL, answering.URL},
		&http.Client{Timeout: 50 * time.Millisecond},
	)
	p, err := svc.Resolve(context.Background(), "7501000135028")
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("err = %v, want ErrProductNotFound", err)
	}
	if p != nil {
		t.Errorf("mock dataset must not override an authoritative not-found, got %+v", p)
	}
}

func TestResolveHTTP404IsNotFound(t *testing.T) {
	srv := offServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	svc := NewOpenFoodFactsServiceWithEndpoints([]string{srv.URL}, srv.Client())
	_, err := svc.Resolve(context.Background(), "9999999999999")
	if !errors.Is(err, ErrProductNotFound) {
		t.Errorf("err = %v, want ErrProductNotFound", err)
	}
}

func TestResolveMockFallbackWhenAllEndpointsDown(t *testing.T) {
	svc := NewOpenFoodFactsServiceWithEndpoints(
		[]string{"http://127.0.0.1:1", "http://127.0.0.1:2"},
		&http.Client{Timeout: 100 * time.Millisecond},
	)
	p, err := svc.Resolve(context.Background(), "7501000135028")
	if err != nil {
		t.Fatalf("expected sample dataset fallback, got %v", err)
	}
	if p.Name != "Galletas Marías" || p.NovaGroup != 4 {
		t.Errorf("unexpected sample product: %+v", p)
	}
}

func TestResolveTransportErrorForUnknownBarcode(t *testing.T) {
	svc := NewOpenFoodFactsServiceWithEndpoints(
		[]string{"http://127.0.0.1:1"},
		&http.Client{Timeout: 100 * time.Millisecond},
	)
	_, err := svc.Resolve(context.Background(), "0000000000000")
	if err == nil {
		t.Fatal("expected an error when offline with no sample match")
	}
	if errors.Is(err, ErrProductNotFound) {
		t.Errorf("transport failure must not be reported as not-found: %v", err)
	}
	if !errors.Is(err, ErrNoConnection) && !errors.Is(err, ErrRequestTimeout) && !errors.Is(err, ErrConnection) {
		t.Errorf("err = %v, want a transport category", err)
	}
}

func TestResolveServerErrorCategory(t *testing.T) {
	srv := offServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	svc := NewOpenFoodFactsServiceWithEndpoints([]string{srv.URL}, srv.Client())
	_, err := svc.Resolve(context.Background(), "0000000000000")
	if !errors.Is(err, ErrServerUnavailable) {
		t.Errorf("err = %v, want ErrServerUnavailable", err)
	}
}

func TestResolveEmptyBarcode(t *testing.T) {
	svc := NewOpenFoodFactsService()
	_, err := svc.Resolve(context.Background(), "   ")
	if !errors.Is(err, ErrProductNotFound) {
		t.Errorf("err = %v, want ErrProductNotFound", err)
	}
}

func TestNormalizeProductFieldMapping(t *testing.T) {
	doc := &offProductDoc{
		ProductNameEs:   "Avena integral",
		Brands:          "Quaker",
		NutriscoreGrade: "B",
		NovaGroup:       1,
		ServingSize:     "40g",
		Nutriments: map[string]any{
			"energy-kcal_100g":    "389",
			"proteins_100g":       16.9,
			"carbohydrates_100g":  66.3,
			"sodium_100g":         0.002,
			"energy-kcal_serving": 156.0,
			"proteins_serving":    6.8,
			"sodium_serving":      0.0008,
		},
	}
	p := normalizeProduct("0030000010204", doc)

	if p.Name != "Avena integral" {
		t.Errorf("name fallback to product_name_es failed: %q", p.Name)
	}
	if p.NutriScoreGrade != "b" {
		t.Errorf("grade should be lower-cased, got %q", p.NutriScoreGrade)
	}
	if p.Per100g.Calories != 389 {
		t.Errorf("string-typed kcal not coerced: %v", p.Per100g.Calories)
	}
	if math.Abs(p.Per100g.Sodium-2.0) > 0.001 {
		t.Errorf("sodium should convert g to mg: %v", p.Per100g.Sodium)
	}
	if p.PerServing == nil {
		t.Fatal("per-serving facts missing despite energy-kcal_serving")
	}
	if p.PerServing.Calories != 156 || p.PerServing.Protein != 6.8 {
		t.Errorf("per-serving mapping wrong: %+v", p.PerServing)
	}
	if math.Abs(p.PerServing.Sodium-0.8) > 0.001 {
		t.Errorf("per-serving sodium g to mg: %v", p.PerServing.Sodium)
	}
}

func TestNormalizeProductEnergyFallbacks(t *testing.T) {
	doc := &offProductDoc{
		ProductName: "Solo kilojulios",
		Nutriments:  map[string]any{"energy-kj_100g": 1046.0},
	}
	p := normalizeProduct("1", doc)
	if math.Abs(p.Per100g.Calories-250) > 0.5 {
		t.Errorf("kJ fallback: got %v kcal, want ~250", p.Per100g.Calories)
	}

	doc = &offProductDoc{
		ProductName: "Sin serving",
		Nutriments:  map[string]any{"energy-kcal_100g": 100.0},
	}
	p = normalizeProduct("2", doc)
	if p.PerServing != nil {
		t.Errorf("no serving kcal should mean nil per-serving, got %+v", p.PerServing)
	}
}

func TestNormalizeProductNovaFromNutriments(t *testing.T) {
	doc := &offProductDoc{
		ProductName: "Cereal",
		Nutriments:  map[string]any{"nova-group": 4.0},
	}
	p := normalizeProduct("3", doc)
	if p.NovaGroup != 4 {
		t.Errorf("nova-group nutriment fallback: got %d", p.NovaGroup)
	}
}
