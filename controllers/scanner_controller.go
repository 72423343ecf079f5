package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/koki198977/recomiendame-coach-app-sub001/services"
)

type ScannerController struct {
	Scanner *services.ScannerService
}

func NewScannerController(scanner *services.ScannerService) *ScannerController {
	return &ScannerController{Scanner: scanner}
}

// Analyze resolves a barcode and returns the personalized analysis. Failure
// responses carry a stable category the client can map to retry messaging.
func (sc *ScannerController) Analyze(c *gin.Context) {
	var body struct {
		Barcode string `json:"barcode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := sc.Scanner.AnalyzeBarcode(c.Request.Context(), body.Barcode, restrictionContext(c))
	if err != nil {
		status, category := scanErrorCategory(err)
		c.JSON(status, gin.H{"error": err.Error(), "category": category})
		return
	}
	c.JSON(http.StatusOK, result)
}

func scanErrorCategory(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, services.ErrNoConnection):
		return http.StatusServiceUnavailable, "no_connection"
	case errors.Is(err, services.ErrRequestTimeout):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, services.ErrServerUnavailable):
		return http.StatusBadGateway, "server_unavailable"
	default:
		return http.StatusBadGateway, "connection_error"
	}
}
