package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/stockroom-backend/internal/logger"
	"github.com/yungbote/stockroom-backend/internal/repos"
	"github.com/yungbote/stockroom-backend/internal/types"
)

type SeasonalDropResult struct {
	Upload        *UploadResult  `json:"upload"`
	DroppedCount  int            `json:"dropped_count"`
	RestoredCount int            `json:"restored_count"`
	DroppedIDs    []string       `json:"dropped_ids"`
	RestoredIDs   []string       `json:"restored_ids"`
	Report        *DroppedReport `json:"report"`
}

type BulkStatusResult struct {
	FromStatus   string `json:"from_status"`
	ToStatus     string `json:"to_status"`
	UpdatedCount int64  `json:"updated_count"`
}

// LifecycleService owns the item status field. Any status may move to any
// other status through an explicit action; there is no terminal state.
type LifecycleService interface {
	SetItemStatus(ctx context.Context, id, status, user, notes string) (*types.Item, error)
	BulkSetStatus(ctx context.Context, from, to string) (*BulkStatusResult, error)
	RunSeasonalDrop(ctx context.Context, src io.Reader, filename string) (*SeasonalDropResult, error)
}

type lifecycleService struct {
	db         *gorm.DB
	log        *logger.Logger
	gate       *StoreGate
	itemRepo   repos.ItemRepo
	actionRepo repos.ItemActionRepo
	merge      MergeService
	location   LocationService
}

func NewLifecycleService(
	db *gorm.DB,
	baseLog *logger.Logger,
	gate *StoreGate,
	itemRepo repos.ItemRepo,
	actionRepo repos.ItemActionRepo,
	merge MergeService,
	location LocationService,
) LifecycleService {
	return &lifecycleService{
		db:         db,
		log:        baseLog.With("service", "LifecycleService"),
		gate:       gate,
		itemRepo:   itemRepo,
		actionRepo: actionRepo,
		merge:      merge,
		location:   location,
	}
}

func (ls *lifecycleService) SetItemStatus(ctx context.Context, id, status, user, notes string) (*types.Item, error) {
	if !types.ValidStatus(status) {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidStatus, status)
	}
	if user == "" {
		user = "unknown"
	}

	ls.gate.Lock()
	defer ls.gate.Unlock()

	var updated *types.Item
	err := ls.db.Transaction(func(tx *gorm.DB) error {
		item, err := ls.itemRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: %q", types.ErrItemNotFound, id)
		}
		item.Status = status
		if err := ls.itemRepo.Save(ctx, tx, item); err != nil {
			return err
		}
		updated = item
		return ls.actionRepo.Create(ctx, tx, &types.ItemAction{
			ID:        uuid.New(),
			ItemID:    item.ID,
			Style:     item.Style,
			Color:     item.Color,
			Action:    status,
			Notes:     notes,
			User:      user,
			Timestamp: time.Now().UTC(),
		})
	})
	if err != nil {
		return nil, err
	}
	ls.log.Info("SetItemStatus", "item", id, "status", status)
	return updated, nil
}

func (ls *lifecycleService) BulkSetStatus(ctx context.Context, from, to string) (*BulkStatusResult, error) {
	if !types.ValidStatus(from) {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidStatus, from)
	}
	if !types.ValidStatus(to) {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidStatus, to)
	}

	ls.gate.Lock()
	defer ls.gate.Unlock()

	updated, err := ls.itemRepo.UpdateStatusFromTo(ctx, nil, from, to)
	if err != nil {
		return nil, err
	}
	ls.log.Info("BulkSetStatus", "from", from, "to", to, "updated", updated)
	return &BulkStatusResult{FromStatus: from, ToStatus: to, UpdatedCount: updated}, nil
}

// RunSeasonalDrop merges the seasonal snapshot first, then compares the full
// identity space against it: identities missing from the snapshot drop,
// dropped identities that reappear are restored to pending. Items in a
// non-dropped status that still appear are left alone.
func (ls *lifecycleService) RunSeasonalDrop(ctx context.Context, src io.Reader, filename string) (*SeasonalDropResult, error) {
	uploadResult, err := ls.merge.UploadSnapshot(ctx, src, filename)
	if err != nil {
		return nil, err
	}

	snapshot := make(map[string]bool, len(uploadResult.Identities))
	for _, id := range uploadResult.Identities {
		snapshot[id] = true
	}

	ls.gate.Lock()
	defer ls.gate.Unlock()

	result := &SeasonalDropResult{Upload: uploadResult}
	err = ls.db.Transaction(func(tx *gorm.DB) error {
		existing, err := ls.itemRepo.ListIdentities(ctx, tx)
		if err != nil {
			return err
		}

		var toDrop, toRestore []string
		for _, item := range existing {
			if !snapshot[item.ID] {
				if item.Status != types.StatusDropped {
					toDrop = append(toDrop, item.ID)
				}
				continue
			}
			if item.Status == types.StatusDropped {
				toRestore = append(toRestore, item.ID)
			}
		}

		dropped, err := ls.itemRepo.UpdateStatusByIDs(ctx, tx, toDrop, types.StatusDropped)
		if err != nil {
			return err
		}
		restored, err := ls.itemRepo.UpdateStatusByIDs(ctx, tx, toRestore, types.StatusPending)
		if err != nil {
			return err
		}
		result.DroppedCount = int(dropped)
		result.RestoredCount = int(restored)
		result.DroppedIDs = toDrop
		result.RestoredIDs = toRestore
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Snapshot the dropped partition while the gate is still held so the
	// report reflects exactly this run.
	result.Report, err = ls.location.GetDroppedReport(ctx)
	if err != nil {
		return nil, err
	}

	ls.log.Info("RunSeasonalDrop", "filename", filename, "dropped", result.DroppedCount, "restored", result.RestoredCount)
	return result, nil
}
