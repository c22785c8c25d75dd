package services

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yungbote/stockroom-backend/internal/ingest"
	"github.com/yungbote/stockroom-backend/internal/logger"
	"github.com/yungbote/stockroom-backend/internal/repos"
	"github.com/yungbote/stockroom-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&types.Room{},
		&types.Shelf{},
		&types.Row{},
		&types.Item{},
		&types.FileUpload{},
		&types.ItemAction{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

type testEnv struct {
	db         *gorm.DB
	gate       *StoreGate
	itemRepo   repos.ItemRepo
	uploadRepo repos.FileUploadRepo
	actionRepo repos.ItemActionRepo
	roomRepo   repos.RoomRepo
	shelfRepo  repos.ShelfRepo
	rowRepo    repos.RowRepo
	merge      MergeService
	lifecycle  LifecycleService
	location   LocationService
	items      ItemService
	analytics  AnalyticsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	log := logger.NewNop()
	gate := NewStoreGate()

	itemRepo := repos.NewItemRepo(db, log)
	uploadRepo := repos.NewFileUploadRepo(db, log)
	actionRepo := repos.NewItemActionRepo(db, log)
	roomRepo := repos.NewRoomRepo(db, log)
	shelfRepo := repos.NewShelfRepo(db, log)
	rowRepo := repos.NewRowRepo(db, log)

	binder := ingest.NewBinder(log, nil)
	merge := NewMergeService(db, log, gate, itemRepo, uploadRepo, binder, nil)
	location := NewLocationService(db, log, gate, itemRepo, roomRepo, shelfRepo, rowRepo)
	lifecycle := NewLifecycleService(db, log, gate, itemRepo, actionRepo, merge, location)
	items := NewItemService(db, log, gate, itemRepo, uploadRepo, actionRepo, rowRepo, shelfRepo, roomRepo)
	analytics := NewAnalyticsService(db, log, itemRepo, uploadRepo)

	return &testEnv{
		db:         db,
		gate:       gate,
		itemRepo:   itemRepo,
		uploadRepo: uploadRepo,
		actionRepo: actionRepo,
		roomRepo:   roomRepo,
		shelfRepo:  shelfRepo,
		rowRepo:    rowRepo,
		merge:      merge,
		lifecycle:  lifecycle,
		location:   location,
		items:      items,
		analytics:  analytics,
	}
}

// snapRow mirrors one spreadsheet data row of a snapshot fixture.
type snapRow struct {
	style    string
	color    string
	division string
	outsole  string
	gender   string
	imageURL string
}

func snapshotXLSX(t *testing.T, rows []snapRow) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []interface{}{"Style", "Color", "Division", "Outsole", "Gender", "Image_URL"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatalf("set header: %v", err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		vals := []interface{}{r.style, r.color, r.division, r.outsole, r.gender, r.imageURL}
		if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
			t.Fatalf("set row %d: %v", i, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func bytesReader(s string) *bytes.Reader {
	return bytes.NewReader([]byte(s))
}

func mustItem(t *testing.T, env *testEnv, id string) *types.Item {
	t.Helper()
	item, err := env.itemRepo.GetByID(t.Context(), nil, id)
	if err != nil {
		t.Fatalf("GetByID(%q): %v", id, err)
	}
	if item == nil {
		t.Fatalf("item %q not found", id)
	}
	return item
}
