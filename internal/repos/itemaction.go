package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/stockroom-backend/internal/logger"
	"github.com/yungbote/stockroom-backend/internal/types"
)

type ItemActionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, action *types.ItemAction) error
	ListByItemID(ctx context.Context, tx *gorm.DB, itemID string) ([]*types.ItemAction, error)
	ListByStyle(ctx context.Context, tx *gorm.DB, style string) ([]*types.ItemAction, error)
}

type itemActionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewItemActionRepo(db *gorm.DB, baseLog *logger.Logger) ItemActionRepo {
	return &itemActionRepo{db: db, log: baseLog.With("repo", "ItemActionRepo")}
}

func (r *itemActionRepo) Create(ctx context.Context, tx *gorm.DB, action *types.ItemAction) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(action).Error
}

func (r *itemActionRepo) ListByItemID(ctx context.Context, tx *gorm.DB, itemID string) ([]*types.ItemAction, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ItemAction
	if err := transaction.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("timestamp DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *itemActionRepo) ListByStyle(ctx context.Context, tx *gorm.DB, style string) ([]*types.ItemAction, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ItemAction
	if err := transaction.WithContext(ctx).
		Where("style = ?", style).
		Order("timestamp DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
