package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/stockroom-backend/internal/services"
)

type SeasonalHandler struct {
	lifecycleService services.LifecycleService
}

func NewSeasonalHandler(lifecycleService services.LifecycleService) *SeasonalHandler {
	return &SeasonalHandler{lifecycleService: lifecycleService}
}

// Run merges the posted snapshot and then reconciles the whole store against
// it: absent items drop, dropped items present in the snapshot come back as
// pending.
func (sh *SeasonalHandler) Run(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "missing_file", fmt.Errorf("multipart field 'file' is required: %w", err))
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_file", err)
		return
	}
	defer src.Close()

	result, err := sh.lifecycleService.RunSeasonalDrop(c.Request.Context(), src, fileHeader.Filename)
	if err != nil {
		RespondMapped(c, err)
		return
	}
	RespondOK(c, result)
}
