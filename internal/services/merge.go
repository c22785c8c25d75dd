package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/stockroom-backend/internal/identity"
	"github.com/yungbote/stockroom-backend/internal/ingest"
	"github.com/yungbote/stockroom-backend/internal/logger"
	"github.com/yungbote/stockroom-backend/internal/repos"
	"github.com/yungbote/stockroom-backend/internal/sse"
	"github.com/yungbote/stockroom-backend/internal/types"
)

// SnapshotRow is one normalized row of an upload after identity
// normalization and first-occurrence dedup. Descriptive fields keep their
// raw (possibly empty) values; the "N/A" default applies only on insert.
type SnapshotRow struct {
	Key      identity.Key
	Division string
	Outsole  string
	Gender   string
}

type UploadResult struct {
	UploadID    uuid.UUID `json:"upload_id"`
	Filename    string    `json:"filename"`
	Status      string    `json:"status"`
	StylesCount int       `json:"styles_count"`
	ItemsCount  int       `json:"items_count"`
	ImagesBound int       `json:"images_bound"`
	Identities  []string  `json:"-"`
}

// MergeService reconciles one snapshot upload against the item store as a
// single atomic unit. Parsing, normalization and image binding happen before
// the store gate is taken; only the apply phase holds it. A failure anywhere
// leaves the store exactly as it was and marks the upload failed.
type MergeService interface {
	UploadSnapshot(ctx context.Context, src io.Reader, filename string) (*UploadResult, error)
}

type mergeService struct {
	db         *gorm.DB
	log        *logger.Logger
	gate       *StoreGate
	itemRepo   repos.ItemRepo
	uploadRepo repos.FileUploadRepo
	binder     *ingest.Binder
	notifier   ProgressNotifier
}

func NewMergeService(
	db *gorm.DB,
	baseLog *logger.Logger,
	gate *StoreGate,
	itemRepo repos.ItemRepo,
	uploadRepo repos.FileUploadRepo,
	binder *ingest.Binder,
	notifier ProgressNotifier,
) MergeService {
	return &mergeService{
		db:         db,
		log:        baseLog.With("service", "MergeService"),
		gate:       gate,
		itemRepo:   itemRepo,
		uploadRepo: uploadRepo,
		binder:     binder,
		notifier:   notifier,
	}
}

func (ms *mergeService) UploadSnapshot(ctx context.Context, src io.Reader, filename string) (*UploadResult, error) {
	ms.log.Info("UploadSnapshot", "filename", filename)

	upload, err := ms.beginUpload(ctx, filename)
	if err != nil {
		return nil, err
	}

	result, err := ms.process(ctx, upload, src, filename)
	if err != nil {
		ms.failUpload(ctx, upload, err)
		return nil, err
	}
	return result, nil
}

// beginUpload creates the FileUpload record, or resets the existing one when
// the same filename comes in again.
func (ms *mergeService) beginUpload(ctx context.Context, filename string) (*types.FileUpload, error) {
	upload, err := ms.uploadRepo.GetByFilename(ctx, nil, filename)
	if err != nil {
		return nil, fmt.Errorf("lookup upload %q: %w", filename, err)
	}
	if upload == nil {
		upload = &types.FileUpload{
			ID:         uuid.New(),
			Filename:   filename,
			UploadedAt: time.Now().UTC(),
			Status:     types.UploadProcessing,
		}
		if err := ms.uploadRepo.Create(ctx, nil, upload); err != nil {
			return nil, fmt.Errorf("create upload %q: %w", filename, err)
		}
		return upload, nil
	}
	upload.Status = types.UploadProcessing
	upload.UploadedAt = time.Now().UTC()
	upload.StylesCount = 0
	upload.ItemsCount = 0
	upload.ImagesBound = 0
	if err := ms.uploadRepo.Save(ctx, nil, upload); err != nil {
		return nil, fmt.Errorf("reset upload %q: %w", filename, err)
	}
	return upload, nil
}

func (ms *mergeService) process(ctx context.Context, upload *types.FileUpload, src io.Reader, filename string) (*UploadResult, error) {
	ms.notify(ctx, upload, sse.StageParsing, "Parsing workbook", 0, 0)

	wb, err := ingest.ParseWorkbook(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrJobFailed, err)
	}

	rows, targets, err := normalizeRows(wb.Rows)
	if err != nil {
		// Fail-fast: a malformed identity rejects the whole snapshot rather
		// than ingesting a partial one.
		return nil, err
	}

	ms.notify(ctx, upload, sse.StageBinding, "Binding images", 0, len(targets))
	urls, err := ms.binder.Bind(ctx, targets, wb.Pictures)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrJobFailed, err)
	}

	ms.notify(ctx, upload, sse.StageApplying, "Applying snapshot", 0, len(rows))
	if err := ms.apply(ctx, rows, urls, filename); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrJobFailed, err)
	}

	styles := make(map[string]bool, len(rows))
	identities := make([]string, 0, len(rows))
	for _, row := range rows {
		styles[row.Key.Style] = true
		identities = append(identities, row.Key.ID())
	}

	upload.Status = types.UploadCompleted
	upload.StylesCount = len(styles)
	upload.ItemsCount = len(rows)
	upload.ImagesBound = len(urls)
	if err := ms.uploadRepo.Save(ctx, nil, upload); err != nil {
		return nil, fmt.Errorf("finalize upload %q: %w", filename, err)
	}
	ms.notify(ctx, upload, sse.StageCompleted, "Upload complete", len(rows), len(rows))

	return &UploadResult{
		UploadID:    upload.ID,
		Filename:    filename,
		Status:      upload.Status,
		StylesCount: upload.StylesCount,
		ItemsCount:  upload.ItemsCount,
		ImagesBound: upload.ImagesBound,
		Identities:  identities,
	}, nil
}

// apply is the only phase that holds the store gate. Everything inside runs
// in one transaction: either the whole snapshot lands or none of it does.
func (ms *mergeService) apply(ctx context.Context, rows []SnapshotRow, urls map[string]string, filename string) error {
	ms.gate.Lock()
	defer ms.gate.Unlock()

	return ms.db.Transaction(func(tx *gorm.DB) error {
		ids := make([]string, 0, len(rows))
		for _, row := range rows {
			ids = append(ids, row.Key.ID())
		}
		existing, err := ms.itemRepo.GetByIDs(ctx, tx, ids)
		if err != nil {
			return err
		}
		byID := make(map[string]*types.Item, len(existing))
		for _, item := range existing {
			byID[item.ID] = item
		}

		var inserts []*types.Item
		for _, row := range rows {
			if err := ctx.Err(); err != nil {
				return err
			}
			id := row.Key.ID()
			url, hasURL := urls[id]

			item, ok := byID[id]
			if !ok {
				newItem := &types.Item{
					ID:       id,
					Style:    row.Key.Style,
					Color:    row.Key.Color,
					Division: orDefault(row.Division),
					Outsole:  orDefault(row.Outsole),
					Gender:   orDefault(row.Gender),
					Status:   types.StatusPending,
				}
				if hasURL && url != "" {
					newItem.ImageURL = &url
				}
				newItem.SetSourceFiles([]string{filename})
				inserts = append(inserts, newItem)
				continue
			}

			// Last-write-wins per field, but only for non-empty incoming
			// values. Status is never touched by a routine merge.
			changed := false
			if row.Division != "" && row.Division != item.Division {
				item.Division = row.Division
				changed = true
			}
			if row.Outsole != "" && row.Outsole != item.Outsole {
				item.Outsole = row.Outsole
				changed = true
			}
			if row.Gender != "" && row.Gender != item.Gender {
				item.Gender = row.Gender
				changed = true
			}
			if hasURL && url != "" && (item.ImageURL == nil || *item.ImageURL != url) {
				item.ImageURL = &url
				changed = true
			}
			if item.AddSourceFile(filename) {
				changed = true
			}
			if changed {
				if err := ms.itemRepo.Save(ctx, tx, item); err != nil {
					return err
				}
			}
		}
		return ms.itemRepo.Create(ctx, tx, inserts)
	})
}

func (ms *mergeService) failUpload(ctx context.Context, upload *types.FileUpload, cause error) {
	ms.log.Error("Upload failed", "filename", upload.Filename, "error", cause)
	upload.Status = types.UploadFailed
	if err := ms.uploadRepo.Save(context.WithoutCancel(ctx), nil, upload); err != nil {
		ms.log.Error("Could not mark upload failed", "filename", upload.Filename, "error", err)
	}
	ms.notify(context.WithoutCancel(ctx), upload, sse.StageFailed, cause.Error(), 0, 0)
}

func (ms *mergeService) notify(ctx context.Context, upload *types.FileUpload, stage, message string, current, total int) {
	if ms.notifier == nil {
		return
	}
	ms.notifier.Notify(ctx, sse.ProgressEvent{
		UploadID: upload.Filename,
		Stage:    stage,
		Message:  message,
		Current:  current,
		Total:    total,
	})
}

// normalizeRows canonicalizes every raw row, failing fast on the first
// malformed identity. Duplicate identities within one file keep their first
// occurrence in document order.
func normalizeRows(raw []ingest.RawRow) ([]SnapshotRow, []ingest.Target, error) {
	var rows []SnapshotRow
	var targets []ingest.Target
	seen := make(map[string]bool, len(raw))

	for _, r := range raw {
		key, err := identity.Normalize(r.Style, r.Color)
		if err != nil {
			return nil, nil, fmt.Errorf("sheet row %d: %w", r.SheetRow, err)
		}
		targets = append(targets, ingest.Target{
			ID:          key.ID(),
			SheetRow:    r.SheetRow,
			ExplicitURL: r.ImageURL,
		})
		if seen[key.ID()] {
			continue
		}
		seen[key.ID()] = true
		rows = append(rows, SnapshotRow{
			Key:      key,
			Division: r.Division,
			Outsole:  r.Outsole,
			Gender:   r.Gender,
		})
	}
	return rows, targets, nil
}

func orDefault(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}
