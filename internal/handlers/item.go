package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/stockroom-backend/internal/services"
)

type ItemHandler struct {
	itemService      services.ItemService
	lifecycleService services.LifecycleService
}

func NewItemHandler(itemService services.ItemService, lifecycleService services.LifecycleService) *ItemHandler {
	return &ItemHandler{
		itemService:      itemService,
		lifecycleService: lifecycleService,
	}
}

func (ih *ItemHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	items, err := ih.itemService.SearchItems(c.Request.Context(), c.Query("style"), c.Query("color"), limit)
	if err != nil {
		RespondMapped(c, err)
		return
	}
	RespondOK(c, gin.H{"items": items, "count": len(items)})
}

func (ih *ItemHandler) ListByStatus(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	page, err := ih.itemService.GetItemsByStatus(c.Request.Context(), c.Param("status"), limit, offset)
	if err != nil {
		RespondMapped(c, err)
		return
	}
	RespondOK(c, page)
}

func (ih *ItemHandler) GetProfile(c *gin.Context) {
	profile, err := ih.itemService.GetItemProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondMapped(c, err)
		return
	}
	RespondOK(c, profile)
}

func (ih *ItemHandler) GetActions(c *gin.Context) {
	actions, err := ih.itemService.GetItemActions(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondMapped(c, err)
		return
	}
	RespondOK(c, gin.H{"actions": actions})
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
	User   string `json:"user"`
	Notes  string `json:"notes"`
}

func (ih *ItemHandler) SetStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	item, err := ih.lifecycleService.SetItemStatus(c.Request.Context(), c.Param("id"), req.Status, req.User, req.Notes)
	if err != nil {
		RespondMapped(c, err)
		return
	}
	RespondOK(c, item)
}

type bulkStatusRequest struct {
	FromStatus string `json:"from_status" binding:"required"`
	ToStatus   string `json:"to_status" binding:"required"`
}

func (ih *ItemHandler) BulkSetStatus(c *gin.Context) {
	var req bulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := ih.lifecycleService.BulkSetStatus(c.Request.Context(), req.FromStatus, req.ToStatus)
	if err != nil {
		RespondMapped(c, err)
		return
	}
	RespondOK(c, result)
}

func (ih *ItemHandler) Stats(c *gin.Context) {
	stats, err := ih.itemService.GetInventoryStats(c.Request.Context())
	if err != nil {
		RespondMapped(c, err)
		return
	}
	RespondOK(c, stats)
}
