package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/stockroom-backend/internal/services"
)

type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (ah *AnalyticsHandler) CompareFiles(c *gin.Context) {
	comparison, err := ah.analyticsService.CompareFiles(c.Request.Context())
	if err != nil {
		RespondMapped(c, err)
		return
	}
	RespondOK(c, comparison)
}

func (ah *AnalyticsHandler) FileBreakdown(c *gin.Context) {
	breakdown, err := ah.analyticsService.GetFileBreakdown(c.Request.Context(), c.Param("filename"))
	if err != nil {
		RespondMapped(c, err)
		return
	}
	RespondOK(c, breakdown)
}

func (ah *AnalyticsHandler) FileOverlaps(c *gin.Context) {
	overlaps, err := ah.analyticsService.GetFileOverlaps(c.Request.Context())
	if err != nil {
		RespondMapped(c, err)
		return
	}
	RespondOK(c, gin.H{"overlaps": overlaps})
}

func (ah *AnalyticsHandler) FileItems(c *gin.Context) {
	items, err := ah.analyticsService.GetFileItems(c.Request.Context(), c.Param("filename"))
	if err != nil {
		RespondMapped(c, err)
		return
	}
	RespondOK(c, gin.H{"items": items})
}
