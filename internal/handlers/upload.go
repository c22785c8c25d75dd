package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/stockroom-backend/internal/services"
	"github.com/yungbote/stockroom-backend/internal/sse"
)

type UploadHandler struct {
	mergeService services.MergeService
	itemService  services.ItemService
	hub          *sse.Hub
}

func NewUploadHandler(mergeService services.MergeService, itemService services.ItemService, hub *sse.Hub) *UploadHandler {
	return &UploadHandler{
		mergeService: mergeService,
		itemService:  itemService,
		hub:          hub,
	}
}

// Upload accepts a multipart spreadsheet and merges it into the store. The
// response carries the completed upload record; live progress is on the SSE
// endpoint keyed by filename.
func (uh *UploadHandler) Upload(c *gin.Context) {
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

	result, err := uh.mergeService.UploadSnapshot(c.Request.Context(), src, fileHeader.Filename)
	if err != nil {
		RespondMapped(c, err)
		return
	}
	RespondOK(c, result)
}

func (uh *UploadHandler) ListUploads(c *gin.Context) {
	uploads, err := uh.itemService.ListUploads(c.Request.Context())
	if err != nil {
		RespondMapped(c, err)
		return
	}
	RespondOK(c, gin.H{"uploads": uploads})
}

func (uh *UploadHandler) DeleteUpload(c *gin.Context) {
	result, err := uh.itemService.DeleteUpload(c.Request.Context(), c.Param("filename"))
	if err != nil {
		RespondMapped(c, err)
		return
	}
	RespondOK(c, result)
}

// StreamProgress is the SSE feed for one upload job, keyed by upload id
// (the filename). The client subscribes before posting the file to avoid
// missing early events.
func (uh *UploadHandler) StreamProgress(c *gin.Context) {
	uploadID := c.Param("id")
	client := uh.hub.Subscribe(uploadID)
	defer uh.hub.Unsubscribe(client)

	w := c.Writer
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.Flush()

	ctx := c.Request.Context()
	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			w.Flush()
		case ev, ok := <-client.Outbound:
			if !ok {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: progress\ndata: %s\n\n", payload)
			w.Flush()
			if ev.Stage == sse.StageCompleted || ev.Stage == sse.StageFailed {
				return
			}
		}
	}
}
