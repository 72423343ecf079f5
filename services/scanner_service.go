package services

import (
	"context"
	"log"

	"github.com/koki198977/recomiendame-coach-app-sub001/models"
)

// ScanResult is everything a single barcode scan produces for the client.
// ChapiAnalysis is nil when the assistant call failed; the scan itself is
// still reported successful in that case.
type ScanResult struct {
	Product       *models.Product       `json:"product"`
	Analysis      *PersonalizedAnalysis `json:"analysis,omitempty"`
	ChapiAnalysis *ChapiProductAnalysis `json:"chapi_analysis,omitempty"`
}

// ScannerService orchestrates one scan: catalog lookup, personalized
// scoring, then the optional assistant verdict.
type ScannerService struct {
	resolver *OpenFoodFactsService
	analysis *NutritionAnalysisService
	chapi    *ChapiService
}

func NewScannerService(resolver *OpenFoodFactsService, analysis *NutritionAnalysisService, chapi *ChapiService) *ScannerService {
	return &ScannerService{resolver: resolver, analysis: analysis, chapi: chapi}
}

// AnalyzeBarcode resolves the barcode and scores the product for the given
// user context. Resolver errors propagate with their category intact; a
// failing assistant call only drops the assistant section.
func (s *ScannerService) AnalyzeBarcode(ctx context.Context, barcode string, restrictions *RestrictionContext) (*ScanResult, error) {
	product, err := s.resolver.Resolve(ctx, barcode)
	if err != nil {
		return nil, err
	}

	result := &ScanResult{
		Product:  product,
		Analysis: s.analysis.Analyze(product, restrictions),
	}

	if s.chapi != nil {
		chapiAnalysis := s.chapi.GetProductAnalysis(ctx, product, restrictions)
		if chapiAnalysis != nil {
			result.ChapiAnalysis = chapiAnalysis
		} else {
			log.Printf("assistant analysis unavailable for barcode %s", barcode)
		}
	}
	return result, nil
}
