package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/stockroom-backend/internal/services"
)

type LocationHandler struct {
	locationService services.LocationService
}

func NewLocationHandler(locationService services.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

type createLocationRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (lh *LocationHandler) CreateRoom(c *gin.Context) {
	var req createLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	room, err := lh.locationService.CreateRoom(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		RespondMapped(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

func (lh *LocationHandler) CreateShelf(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req createLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	shelf, err := lh.locationService.CreateShelf(c.Request.Context(), roomID, req.Name, req.Description)
	if err != nil {
		RespondMapped(c, err)
		return
	}
	c.JSON(http.StatusCreated, shelf)
}

func (lh *LocationHandler) CreateRow(c *gin.Context) {
	shelfID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req createLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	row, err := lh.locationService.CreateRow(c.Request.Context(), shelfID, req.Name, req.Description)
	if err != nil {
		RespondMapped(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (lh *LocationHandler) ListRooms(c *gin.Context) {
	rooms, err := lh.locationService.ListRooms(c.Request.Context())
	if err != nil {
		RespondMapped(c, err)
		return
	}
	RespondOK(c, gin.H{"rooms": rooms})
}

func (lh *LocationHandler) ListShelves(c *gin.Context) {
	var roomID *uuid.UUID
	if raw := c.Query("room_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_id", err)
			return
		}
		roomID = &id
	}
	shelves, err := lh.locationService.ListShelves(c.Request.Context(), roomID)
	if err != nil {
		RespondMapped(c, err)
		return
	}
	RespondOK(c, gin.H{"shelves": shelves})
}

func (lh *LocationHandler) ListRows(c *gin.Context) {
	var shelfID *uuid.UUID
	if raw := c.Query("shelf_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_id", err)
			return
		}
		shelfID = &id
	}
	rows, err := lh.locationService.ListRows(c.Request.Context(), shelfID)
	if err != nil {
		RespondMapped(c, err)
		return
	}
	RespondOK(c, gin.H{"rows": rows})
}

func (lh *LocationHandler) DeleteRoom(c *gin.Context) {
	lh.deleteByID(c, lh.locationService.DeleteRoom)
}

func (lh *LocationHandler) DeleteShelf(c *gin.Context) {
	lh.deleteByID(c, lh.locationService.DeleteShelf)
}

func (lh *LocationHandler) DeleteRow(c *gin.Context) {
	lh.deleteByID(c, lh.locationService.DeleteRow)
}

func (lh *LocationHandler) deleteByID(c *gin.Context, del func(ctx context.Context, id uuid.UUID) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := del(c.Request.Context(), id); err != nil {
		RespondMapped(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}

type assignLocationRequest struct {
	RowID *uuid.UUID `json:"row_id"`
}

// AssignLocation binds the item to a row, or clears the binding when row_id
// is null.
func (lh *LocationHandler) AssignLocation(c *gin.Context) {
	var req assignLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	itemID := c.Param("id")
	var err error
	if req.RowID == nil {
		err = lh.locationService.UnassignLocation(c.Request.Context(), itemID)
	} else {
		err = lh.locationService.AssignLocation(c.Request.Context(), itemID, *req.RowID)
	}
	if err != nil {
		RespondMapped(c, err)
		return
	}
	RespondOK(c, gin.H{"item_id": itemID, "row_id": req.RowID})
}

func (lh *LocationHandler) ListRowItems(c *gin.Context) {
	rowID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	items, err := lh.locationService.ListRowItems(c.Request.Context(), rowID)
	if err != nil {
		RespondMapped(c, err)
		return
	}
	RespondOK(c, gin.H{"items": items})
}

func (lh *LocationHandler) WarehouseLayout(c *gin.Context) {
	layout, err := lh.locationService.GetWarehouseLayout(c.Request.Context())
	if err != nil {
		RespondMapped(c, err)
		return
	}
	RespondOK(c, gin.H{"rooms": layout})
}

func (lh *LocationHandler) DroppedReport(c *gin.Context) {
	report, err := lh.locationService.GetDroppedReport(c.Request.Context())
	if err != nil {
		RespondMapped(c, err)
		return
	}
	RespondOK(c, report)
}
