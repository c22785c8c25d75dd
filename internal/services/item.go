package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/stockroom-backend/internal/identity"
	"github.com/yungbote/stockroom-backend/internal/logger"
	"github.com/yungbote/stockroom-backend/internal/repos"
	"github.com/yungbote/stockroom-backend/internal/types"
)

// ItemProfile is a single item together with its resolved location names and
// full audit trail.
type ItemProfile struct {
	Item    *types.Item         `json:"item"`
	Room    string              `json:"room,omitempty"`
	Shelf   string              `json:"shelf,omitempty"`
	Row     string              `json:"row,omitempty"`
	Actions []*types.ItemAction `json:"actions"`
}

type StatusPage struct {
	Items  []*types.Item `json:"items"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

type InventoryStats struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"by_status"`
	ByDivision map[string]int64 `json:"by_division"`
	ByGender   map[string]int64 `json:"by_gender"`
	ByWidth    map[string]int64 `json:"by_width"`
}

type DeleteUploadResult struct {
	Filename     string `json:"filename"`
	ItemsDeleted int    `json:"items_deleted"`
	ItemsUpdated int    `json:"items_updated"`
}

// ItemService covers read paths over the store plus upload bookkeeping.
type ItemService interface {
	SearchItems(ctx context.Context, style, color string, limit int) ([]*types.Item, error)
	GetItemsByStatus(ctx context.Context, status string, limit, offset int) (*StatusPage, error)
	GetItemProfile(ctx context.Context, id string) (*ItemProfile, error)
	GetItemActions(ctx context.Context, id string) ([]*types.ItemAction, error)
	GetInventoryStats(ctx context.Context) (*InventoryStats, error)
	ListUploads(ctx context.Context) ([]*types.FileUpload, error)
	DeleteUpload(ctx context.Context, filename string) (*DeleteUploadResult, error)
}

type itemService struct {
	db         *gorm.DB
	log        *logger.Logger
	gate       *StoreGate
	itemRepo   repos.ItemRepo
	uploadRepo repos.FileUploadRepo
	actionRepo repos.ItemActionRepo
	rowRepo    repos.RowRepo
	shelfRepo  repos.ShelfRepo
	roomRepo   repos.RoomRepo
}

func NewItemService(
	db *gorm.DB,
	baseLog *logger.Logger,
	gate *StoreGate,
	itemRepo repos.ItemRepo,
	uploadRepo repos.FileUploadRepo,
	actionRepo repos.ItemActionRepo,
	rowRepo repos.RowRepo,
	shelfRepo repos.ShelfRepo,
	roomRepo repos.RoomRepo,
) ItemService {
	return &itemService{
		db:         db,
		log:        baseLog.With("service", "ItemService"),
		gate:       gate,
		itemRepo:   itemRepo,
		uploadRepo: uploadRepo,
		actionRepo: actionRepo,
		rowRepo:    rowRepo,
		shelfRepo:  shelfRepo,
		roomRepo:   roomRepo,
	}
}

// SearchItems matches style as a prefix and color as a case-insensitive
// substring. A bare 5-digit style query is padded the same way ingest pads
// it, so "45123" finds "045123".
func (s *itemService) SearchItems(ctx context.Context, style, color string, limit int) ([]*types.Item, error) {
	style = strings.TrimSpace(style)
	color = strings.TrimSpace(color)
	if style != "" {
		if normalized, err := identity.NormalizeStyle(style); err == nil {
			style = normalized
		}
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.itemRepo.Search(ctx, nil, style, color, limit)
}

func (s *itemService) GetItemsByStatus(ctx context.Context, status string, limit, offset int) (*StatusPage, error) {
	if !types.ValidStatus(status) {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidStatus, status)
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	items, total, err := s.itemRepo.ListByStatus(ctx, nil, status, limit, offset)
	if err != nil {
		return nil, err
	}
	return &StatusPage{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *itemService) GetItemProfile(ctx context.Context, id string) (*ItemProfile, error) {
	item, err := s.itemRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %q", types.ErrItemNotFound, id)
	}
	actions, err := s.actionRepo.ListByItemID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	profile := &ItemProfile{Item: item, Actions: actions}
	if item.RowID != nil {
		if err := s.resolveLocation(ctx, *item.RowID, profile); err != nil {
			return nil, err
		}
	}
	return profile, nil
}

func (s *itemService) resolveLocation(ctx context.Context, rowID uuid.UUID, profile *ItemProfile) error {
	row, err := s.rowRepo.GetByID(ctx, nil, rowID)
	if err != nil || row == nil {
		return err
	}
	profile.Row = row.Name
	shelf, err := s.shelfRepo.GetByID(ctx, nil, row.ShelfID)
	if err != nil || shelf == nil {
		return err
	}
	profile.Shelf = shelf.Name
	room, err := s.roomRepo.GetByID(ctx, nil, shelf.RoomID)
	if err != nil || room == nil {
		return err
	}
	profile.Room = room.Name
	return nil
}

func (s *itemService) GetItemActions(ctx context.Context, id string) ([]*types.ItemAction, error) {
	item, err := s.itemRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %q", types.ErrItemNotFound, id)
	}
	return s.actionRepo.ListByItemID(ctx, nil, id)
}

func (s *itemService) GetInventoryStats(ctx context.Context) (*InventoryStats, error) {
	byStatus, err := s.itemRepo.CountByStatus(ctx, nil)
	if err != nil {
		return nil, err
	}
	stats := &InventoryStats{
		ByStatus:   byStatus,
		ByDivision: map[string]int64{},
		ByGender:   map[string]int64{},
		ByWidth:    map[string]int64{},
	}
	for _, n := range byStatus {
		stats.Total += n
	}
	items, err := s.itemRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		stats.ByDivision[item.Division]++
		stats.ByGender[item.Gender]++
		stats.ByWidth[string(identity.ParseWidth(item.Color))]++
	}
	return stats, nil
}

func (s *itemService) ListUploads(ctx context.Context) ([]*types.FileUpload, error) {
	return s.uploadRepo.ListAll(ctx, nil)
}

// DeleteUpload removes a file from every item's provenance. Items whose
// provenance becomes empty are deleted outright; the rest keep their data
// since surviving field values are not attributable to a single upload.
func (s *itemService) DeleteUpload(ctx context.Context, filename string) (*DeleteUploadResult, error) {
	s.gate.Lock()
	defer s.gate.Unlock()

	result := &DeleteUploadResult{Filename: filename}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		upload, err := s.uploadRepo.GetByFilename(ctx, tx, filename)
		if err != nil {
			return err
		}
		if upload == nil {
			return fmt.Errorf("%w: %q", types.ErrUploadNotFound, filename)
		}
		items, err := s.itemRepo.ListAll(ctx, tx)
		if err != nil {
			return err
		}
		var toDelete []string
		for _, item := range items {
			if !item.RemoveSourceFile(filename) {
				continue
			}
			if len(item.SourceFileList()) == 0 {
				toDelete = append(toDelete, item.ID)
				continue
			}
			if err := s.itemRepo.Save(ctx, tx, item); err != nil {
				return err
			}
			result.ItemsUpdated++
		}
		if err := s.itemRepo.DeleteByIDs(ctx, tx, toDelete); err != nil {
			return err
		}
		result.ItemsDeleted = len(toDelete)
		return s.uploadRepo.DeleteByFilename(ctx, tx, filename)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("deleted upload",
		"filename", filename,
		"items_deleted", result.ItemsDeleted,
		"items_updated", result.ItemsUpdated)
	return result, nil
}
