package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/stockroom-backend/internal/logger"
	"github.com/yungbote/stockroom-backend/internal/types"
)

type FileUploadRepo interface {
	Create(ctx context.Context, tx *gorm.DB, upload *types.FileUpload) error
	Save(ctx context.Context, tx *gorm.DB, upload *types.FileUpload) error
	GetByFilename(ctx context.Context, tx *gorm.DB, filename string) (*types.FileUpload, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.FileUpload, error)
	DeleteByFilename(ctx context.Context, tx *gorm.DB, filename string) error
}

type fileUploadRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFileUploadRepo(db *gorm.DB, baseLog *logger.Logger) FileUploadRepo {
	return &fileUploadRepo{db: db, log: baseLog.With("repo", "FileUploadRepo")}
}

func (r *fileUploadRepo) Create(ctx context.Context, tx *gorm.DB, upload *types.FileUpload) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(upload).Error
}

func (r *fileUploadRepo) Save(ctx context.Context, tx *gorm.DB, upload *types.FileUpload) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(upload).Error
}

func (r *fileUploadRepo) GetByFilename(ctx context.Context, tx *gorm.DB, filename string) (*types.FileUpload, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var upload types.FileUpload
	err := transaction.WithContext(ctx).Where("filename = ?", filename).First(&upload).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &upload, nil
}

func (r *fileUploadRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.FileUpload, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.FileUpload
	if err := transaction.WithContext(ctx).
		Order("uploaded_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *fileUploadRepo) DeleteByFilename(ctx context.Context, tx *gorm.DB, filename string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Where("filename = ?", filename).Delete(&types.FileUpload{}).Error
}
