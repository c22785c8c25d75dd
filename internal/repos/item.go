package repos

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/stockroom-backend/internal/logger"
	"github.com/yungbote/stockroom-backend/internal/types"
)

type ItemRepo interface {
	Create(ctx context.Context, tx *gorm.DB, items []*types.Item) error
	Save(ctx context.Context, tx *gorm.DB, item *types.Item) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Item, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*types.Item, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Item, error)
	ListIdentities(ctx context.Context, tx *gorm.DB) ([]*types.Item, error)
	Search(ctx context.Context, tx *gorm.DB, style, color string, limit int) ([]*types.Item, error)
	ListByStatus(ctx context.Context, tx *gorm.DB, status string, limit, offset int) ([]*types.Item, int64, error)
	ListByRowIDs(ctx context.Context, tx *gorm.DB, rowIDs []uuid.UUID) ([]*types.Item, error)
	ListDropped(ctx context.Context, tx *gorm.DB) ([]*types.Item, error)
	UpdateStatusByIDs(ctx context.Context, tx *gorm.DB, ids []string, status string) (int64, error)
	UpdateStatusFromTo(ctx context.Context, tx *gorm.DB, from, to string) (int64, error)
	SetRowID(ctx context.Context, tx *gorm.DB, id string, rowID *uuid.UUID) error
	ClearRowIDByRowIDs(ctx context.Context, tx *gorm.DB, rowIDs []uuid.UUID) (int64, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []string) error
	CountByStatus(ctx context.Context, tx *gorm.DB) (map[string]int64, error)
}

type itemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewItemRepo(db *gorm.DB, baseLog *logger.Logger) ItemRepo {
	return &itemRepo{db: db, log: baseLog.With("repo", "ItemRepo")}
}

func (r *itemRepo) Create(ctx context.Context, tx *gorm.DB, items []*types.Item) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(items) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&items).Error
}

func (r *itemRepo) Save(ctx context.Context, tx *gorm.DB, item *types.Item) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(item).Error
}

func (r *itemRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var item types.Item
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Item
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *itemRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Item
	if err := transaction.WithContext(ctx).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListIdentities loads only id and status, for set operations over the full
// identity space.
func (r *itemRepo) ListIdentities(ctx context.Context, tx *gorm.DB) ([]*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Item
	if err := transaction.WithContext(ctx).
		Select("id", "status", "row_id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *itemRepo) Search(ctx context.Context, tx *gorm.DB, style, color string, limit int) ([]*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Model(&types.Item{})
	if style != "" {
		q = q.Where("style LIKE ?", style+"%")
	}
	if color != "" {
		q = q.Where("lower(color) LIKE ?", "%"+strings.ToLower(color)+"%")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var results []*types.Item
	if err := q.Order("id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *itemRepo) ListByStatus(ctx context.Context, tx *gorm.DB, status string, limit, offset int) ([]*types.Item, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var total int64
	if err := transaction.WithContext(ctx).
		Model(&types.Item{}).
		Where("status = ?", status).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var results []*types.Item
	if err := transaction.WithContext(ctx).
		Where("status = ?", status).
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (r *itemRepo) ListByRowIDs(ctx context.Context, tx *gorm.DB, rowIDs []uuid.UUID) ([]*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Item
	if len(rowIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("row_id IN ?", rowIDs).
		Order("id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *itemRepo) ListDropped(ctx context.Context, tx *gorm.DB) ([]*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Item
	if err := transaction.WithContext(ctx).
		Where("status = ?", types.StatusDropped).
		Order("id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *itemRepo) UpdateStatusByIDs(ctx context.Context, tx *gorm.DB, ids []string, status string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(ctx).
		Model(&types.Item{}).
		Where("id IN ?", ids).
		Update("status", status)
	return res.RowsAffected, res.Error
}

func (r *itemRepo) UpdateStatusFromTo(ctx context.Context, tx *gorm.DB, from, to string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.Item{}).
		Where("status = ?", from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

func (r *itemRepo) SetRowID(ctx context.Context, tx *gorm.DB, id string, rowID *uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Item{}).
		Where("id = ?", id).
		Update("row_id", rowID).Error
}

func (r *itemRepo) ClearRowIDByRowIDs(ctx context.Context, tx *gorm.DB, rowIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rowIDs) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(ctx).
		Model(&types.Item{}).
		Where("row_id IN ?", rowIDs).
		Update("row_id", nil)
	return res.RowsAffected, res.Error
}

func (r *itemRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Item{}).Error
}

func (r *itemRepo) CountByStatus(ctx context.Context, tx *gorm.DB) (map[string]int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	type bucket struct {
		Status string
		N      int64
	}
	var buckets []bucket
	if err := transaction.WithContext(ctx).
		Model(&types.Item{}).
		Select("status, count(*) as n").
		Group("status").
		Scan(&buckets).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(buckets))
	for _, b := range buckets {
		counts[b.Status] = b.N
	}
	return counts, nil
}
