package models

// NutritionFacts holds nutrient amounts for a fixed reference quantity
// (per 100g or per labeled serving). Units: kcal for Calories, grams for
// macros, milligrams for Sodium, grams for Salt.
type NutritionFacts struct {
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
	SaturatedFat  float64 `json:"saturated_fat"`
	Sugar         float64 `json:"sugar"`
	Fiber         float64 `json:"fiber"`
	Sodium        float64 `json:"sodium"`
	Salt          float64 `json:"salt"`
}

// Product is the normalized catalog entry produced by the barcode resolver.
// It is built once from the raw catalog document and never mutated; it lives
// only for the scan session and is not persisted (meal items keep their own
// nutrition snapshot).
type Product struct {
	Barcode string `json:"barcode"`
	Name    string `json:"name"`
	Brands  string `json:"brands,omitempty"`

	Per100g     NutritionFacts  `json:"per_100g"`
	PerServing  *NutritionFacts `json:"per_serving,omitempty"`
	ServingSize string          `json:"serving_size,omitempty"`

	// Nutri-Score-like quality grade "a".."e" ("" when unknown) and its
	// numeric score; NOVA-like processing group 1..4 (0 when unknown).
	NutriScoreGrade string `json:"nutriscore_grade,omitempty"`
	NutriScoreValue int    `json:"nutriscore_value,omitempty"`
	NovaGroup       int    `json:"nova_group,omitempty"`

	IngredientsText string   `json:"ingredients_text,omitempty"`
	AllergenTags    []string `json:"allergen_tags,omitempty"`
	LabelTags       []string `json:"label_tags,omitempty"`
	ImageURL        string   `json:"image_url,omitempty"`
}
