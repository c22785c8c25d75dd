package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/stockroom-backend/internal/identity"
	"github.com/yungbote/stockroom-backend/internal/logger"
	"github.com/yungbote/stockroom-backend/internal/repos"
	"github.com/yungbote/stockroom-backend/internal/types"
)

// FileBreakdown summarizes one upload through the provenance lens: which
// items it touched, which of those it alone vouches for, and how they break
// down across the store dimensions.
type FileBreakdown struct {
	Filename      string         `json:"filename"`
	UploadedAt    time.Time      `json:"uploaded_at"`
	Status        string         `json:"status"`
	TotalItems    int            `json:"total_items"`
	UniqueItems   int            `json:"unique_items"`
	SharedItems   int            `json:"shared_items"`
	UniqueStyles  int            `json:"unique_styles"`
	PlacedItems   int            `json:"placed_items"`
	PlacementRate float64        `json:"placement_rate"`
	ByDivision    map[string]int `json:"by_division"`
	ByGender      map[string]int `json:"by_gender"`
	ByStatus      map[string]int `json:"by_status"`
	ByWidth       map[string]int `json:"by_width"`
}

type FileComparison struct {
	TotalFiles int              `json:"total_files"`
	Files      []*FileBreakdown `json:"files"`
}

// FileOverlap measures how much two uploads cover the same identities.
// Percent is shared identities over the union of both files.
type FileOverlap struct {
	FileA          string  `json:"file_a"`
	FileB          string  `json:"file_b"`
	SharedItems    int     `json:"shared_items"`
	OnlyFileA      int     `json:"only_file_a"`
	OnlyFileB      int     `json:"only_file_b"`
	OverlapPercent float64 `json:"overlap_percent"`
}

// AnalyticsService is read-only reporting over item provenance. It never
// takes the store gate; a concurrent merge just means the report reflects a
// moment in time.
type AnalyticsService interface {
	CompareFiles(ctx context.Context) (*FileComparison, error)
	GetFileBreakdown(ctx context.Context, filename string) (*FileBreakdown, error)
	GetFileOverlaps(ctx context.Context) ([]*FileOverlap, error)
	GetFileItems(ctx context.Context, filename string) ([]*types.Item, error)
}

type analyticsService struct {
	db         *gorm.DB
	log        *logger.Logger
	itemRepo   repos.ItemRepo
	uploadRepo repos.FileUploadRepo
}

func NewAnalyticsService(
	db *gorm.DB,
	baseLog *logger.Logger,
	itemRepo repos.ItemRepo,
	uploadRepo repos.FileUploadRepo,
) AnalyticsService {
	return &analyticsService{
		db:         db,
		log:        baseLog.With("service", "AnalyticsService"),
		itemRepo:   itemRepo,
		uploadRepo: uploadRepo,
	}
}

func (s *analyticsService) CompareFiles(ctx context.Context) (*FileComparison, error) {
	uploads, err := s.uploadRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	byFile, err := s.itemsByFile(ctx)
	if err != nil {
		return nil, err
	}
	comparison := &FileComparison{TotalFiles: len(uploads), Files: []*FileBreakdown{}}
	for _, upload := range uploads {
		comparison.Files = append(comparison.Files, buildBreakdown(upload, byFile[upload.Filename]))
	}
	return comparison, nil
}

func (s *analyticsService) GetFileBreakdown(ctx context.Context, filename string) (*FileBreakdown, error) {
	upload, err := s.uploadRepo.GetByFilename(ctx, nil, filename)
	if err != nil {
		return nil, err
	}
	if upload == nil {
		return nil, fmt.Errorf("%w: %q", types.ErrUploadNotFound, filename)
	}
	byFile, err := s.itemsByFile(ctx)
	if err != nil {
		return nil, err
	}
	return buildBreakdown(upload, byFile[filename]), nil
}

// GetFileOverlaps compares every pair of uploads, newest pairs first in the
// order uploads list.
func (s *analyticsService) GetFileOverlaps(ctx context.Context) ([]*FileOverlap, error) {
	uploads, err := s.uploadRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	byFile, err := s.itemsByFile(ctx)
	if err != nil {
		return nil, err
	}
	overlaps := []*FileOverlap{}
	for i := 0; i < len(uploads); i++ {
		for j := i + 1; j < len(uploads); j++ {
			a, b := uploads[i].Filename, uploads[j].Filename
			overlaps = append(overlaps, buildOverlap(a, b, byFile[a], byFile[b]))
		}
	}
	return overlaps, nil
}

func (s *analyticsService) GetFileItems(ctx context.Context, filename string) ([]*types.Item, error) {
	upload, err := s.uploadRepo.GetByFilename(ctx, nil, filename)
	if err != nil {
		return nil, err
	}
	if upload == nil {
		return nil, fmt.Errorf("%w: %q", types.ErrUploadNotFound, filename)
	}
	items, err := s.itemRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	matched := []*types.Item{}
	for _, item := range items {
		for _, f := range item.SourceFileList() {
			if f == filename {
				matched = append(matched, item)
				break
			}
		}
	}
	return matched, nil
}

// itemsByFile inverts provenance: filename → every item that file touched.
func (s *analyticsService) itemsByFile(ctx context.Context) (map[string][]*types.Item, error) {
	items, err := s.itemRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	byFile := map[string][]*types.Item{}
	for _, item := range items {
		for _, f := range item.SourceFileList() {
			byFile[f] = append(byFile[f], item)
		}
	}
	return byFile, nil
}

func buildBreakdown(upload *types.FileUpload, items []*types.Item) *FileBreakdown {
	b := &FileBreakdown{
		Filename:   upload.Filename,
		UploadedAt: upload.UploadedAt,
		Status:     upload.Status,
		TotalItems: len(items),
		ByDivision: map[string]int{},
		ByGender:   map[string]int{},
		ByStatus:   map[string]int{},
		ByWidth:    map[string]int{},
	}
	styles := map[string]bool{}
	for _, item := range items {
		if len(item.SourceFileList()) == 1 {
			b.UniqueItems++
		} else {
			b.SharedItems++
		}
		if item.RowID != nil {
			b.PlacedItems++
		}
		styles[item.Style] = true
		b.ByDivision[item.Division]++
		b.ByGender[item.Gender]++
		b.ByStatus[item.Status]++
		b.ByWidth[string(identity.ParseWidth(item.Color))]++
	}
	b.UniqueStyles = len(styles)
	if b.TotalItems > 0 {
		b.PlacementRate = roundPct(float64(b.PlacedItems) / float64(b.TotalItems) * 100)
	}
	return b
}

func buildOverlap(a, b string, itemsA, itemsB []*types.Item) *FileOverlap {
	inA := map[string]bool{}
	for _, item := range itemsA {
		inA[item.ID] = true
	}
	overlap := &FileOverlap{FileA: a, FileB: b}
	union := len(inA)
	for _, item := range itemsB {
		if inA[item.ID] {
			overlap.SharedItems++
		} else {
			overlap.OnlyFileB++
			union++
		}
	}
	overlap.OnlyFileA = len(inA) - overlap.SharedItems
	if union > 0 {
		overlap.OverlapPercent = roundPct(float64(overlap.SharedItems) / float64(union) * 100)
	}
	return overlap
}

func roundPct(v float64) float64 {
	return math.Round(v*100) / 100
}
