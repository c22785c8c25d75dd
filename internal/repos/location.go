package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/stockroom-backend/internal/logger"
	"github.com/yungbote/stockroom-backend/internal/types"
)

type RoomRepo interface {
	Create(ctx context.Context, tx *gorm.DB, room *types.Room) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Room, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Room, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Room, error)
	DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type ShelfRepo interface {
	Create(ctx context.Context, tx *gorm.DB, shelf *types.Shelf) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Shelf, error)
	ListByRoomIDs(ctx context.Context, tx *gorm.DB, roomIDs []uuid.UUID) ([]*types.Shelf, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Shelf, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type RowRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Row) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Row, error)
	ListByShelfIDs(ctx context.Context, tx *gorm.DB, shelfIDs []uuid.UUID) ([]*types.Row, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Row, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type roomRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoomRepo(db *gorm.DB, baseLog *logger.Logger) RoomRepo {
	return &roomRepo{db: db, log: baseLog.With("repo", "RoomRepo")}
}

func (r *roomRepo) Create(ctx context.Context, tx *gorm.DB, room *types.Room) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(room).Error
}

func (r *roomRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Room, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var room types.Room
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Room, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var room types.Room
	err := transaction.WithContext(ctx).Where("name = ?", name).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Room, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Room
	if err := transaction.WithContext(ctx).Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *roomRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Where("id = ?", id).Delete(&types.Room{}).Error
}

type shelfRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewShelfRepo(db *gorm.DB, baseLog *logger.Logger) ShelfRepo {
	return &shelfRepo{db: db, log: baseLog.With("repo", "ShelfRepo")}
}

func (r *shelfRepo) Create(ctx context.Context, tx *gorm.DB, shelf *types.Shelf) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(shelf).Error
}

func (r *shelfRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Shelf, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var shelf types.Shelf
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&shelf).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &shelf, nil
}

func (r *shelfRepo) ListByRoomIDs(ctx context.Context, tx *gorm.DB, roomIDs []uuid.UUID) ([]*types.Shelf, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Shelf
	if len(roomIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("room_id IN ?", roomIDs).
		Order("name").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *shelfRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Shelf, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Shelf
	if err := transaction.WithContext(ctx).Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *shelfRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Where("id IN ?", ids).Delete(&types.Shelf{}).Error
}

type rowRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRowRepo(db *gorm.DB, baseLog *logger.Logger) RowRepo {
	return &rowRepo{db: db, log: baseLog.With("repo", "RowRepo")}
}

func (r *rowRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Row) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(row).Error
}

func (r *rowRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Row, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.Row
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *rowRepo) ListByShelfIDs(ctx context.Context, tx *gorm.DB, shelfIDs []uuid.UUID) ([]*types.Row, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Row
	if len(shelfIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("shelf_id IN ?", shelfIDs).
		Order("name").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *rowRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Row, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Row
	if err := transaction.WithContext(ctx).Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *rowRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Where("id IN ?", ids).Delete(&types.Row{}).Error
}
