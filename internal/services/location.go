package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/stockroom-backend/internal/logger"
	"github.com/yungbote/stockroom-backend/internal/repos"
	"github.com/yungbote/stockroom-backend/internal/types"
)

type RowLayout struct {
	Row   *types.Row    `json:"row"`
	Items []*types.Item `json:"items"`
}

type ShelfLayout struct {
	Shelf *types.Shelf `json:"shelf"`
	Rows  []*RowLayout `json:"rows"`
}

type RoomLayout struct {
	Room    *types.Room    `json:"room"`
	Shelves []*ShelfLayout `json:"shelves"`
}

// LocatedItem is an item together with the resolved names of its location.
type LocatedItem struct {
	Item  *types.Item `json:"item"`
	Room  string      `json:"room"`
	Shelf string      `json:"shelf"`
	Row   string      `json:"row"`
}

type DroppedReport struct {
	Total           int            `json:"total"`
	WithLocation    []*LocatedItem `json:"with_location"`
	WithoutLocation []*types.Item  `json:"without_location"`
}

// LocationService manages the room→shelf→row tree and the weak item→row
// binding. Assignment never touches item status; that stays with the
// lifecycle service.
type LocationService interface {
	CreateRoom(ctx context.Context, name, description string) (*types.Room, error)
	CreateShelf(ctx context.Context, roomID uuid.UUID, name, description string) (*types.Shelf, error)
	CreateRow(ctx context.Context, shelfID uuid.UUID, name, description string) (*types.Row, error)
	ListRooms(ctx context.Context) ([]*types.Room, error)
	ListShelves(ctx context.Context, roomID *uuid.UUID) ([]*types.Shelf, error)
	ListRows(ctx context.Context, shelfID *uuid.UUID) ([]*types.Row, error)
	DeleteRoom(ctx context.Context, id uuid.UUID) error
	DeleteShelf(ctx context.Context, id uuid.UUID) error
	DeleteRow(ctx context.Context, id uuid.UUID) error
	AssignLocation(ctx context.Context, itemID string, rowID uuid.UUID) error
	UnassignLocation(ctx context.Context, itemID string) error
	ListRowItems(ctx context.Context, rowID uuid.UUID) ([]*types.Item, error)
	GetWarehouseLayout(ctx context.Context) ([]*RoomLayout, error)
	GetDroppedReport(ctx context.Context) (*DroppedReport, error)
}

type locationService struct {
	db        *gorm.DB
	log       *logger.Logger
	gate      *StoreGate
	itemRepo  repos.ItemRepo
	roomRepo  repos.RoomRepo
	shelfRepo repos.ShelfRepo
	rowRepo   repos.RowRepo
}

func NewLocationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	gate *StoreGate,
	itemRepo repos.ItemRepo,
	roomRepo repos.RoomRepo,
	shelfRepo repos.ShelfRepo,
	rowRepo repos.RowRepo,
) LocationService {
	return &locationService{
		db:        db,
		log:       baseLog.With("service", "LocationService"),
		gate:      gate,
		itemRepo:  itemRepo,
		roomRepo:  roomRepo,
		shelfRepo: shelfRepo,
		rowRepo:   rowRepo,
	}
}

func (s *locationService) CreateRoom(ctx context.Context, name, description string) (*types.Room, error) {
	s.gate.Lock()
	defer s.gate.Unlock()

	existing, err := s.roomRepo.GetByName(ctx, nil, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("room %q already exists", name)
	}
	room := &types.Room{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.roomRepo.Create(ctx, nil, room); err != nil {
		return nil, fmt.Errorf("create room %q: %w", name, err)
	}
	return room, nil
}

func (s *locationService) CreateShelf(ctx context.Context, roomID uuid.UUID, name, description string) (*types.Shelf, error) {
	s.gate.Lock()
	defer s.gate.Unlock()

	room, err := s.roomRepo.GetByID(ctx, nil, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, fmt.Errorf("%w: %s", types.ErrRoomNotFound, roomID)
	}
	shelf := &types.Shelf{
		ID:          uuid.New(),
		RoomID:      roomID,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.shelfRepo.Create(ctx, nil, shelf); err != nil {
		return nil, fmt.Errorf("create shelf %q: %w", name, err)
	}
	return shelf, nil
}

func (s *locationService) CreateRow(ctx context.Context, shelfID uuid.UUID, name, description string) (*types.Row, error) {
	s.gate.Lock()
	defer s.gate.Unlock()

	shelf, err := s.shelfRepo.GetByID(ctx, nil, shelfID)
	if err != nil {
		return nil, err
	}
	if shelf == nil {
		return nil, fmt.Errorf("%w: %s", types.ErrShelfNotFound, shelfID)
	}
	row := &types.Row{
		ID:          uuid.New(),
		ShelfID:     shelfID,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.rowRepo.Create(ctx, nil, row); err != nil {
		return nil, fmt.Errorf("create row %q: %w", name, err)
	}
	return row, nil
}

func (s *locationService) ListRooms(ctx context.Context) ([]*types.Room, error) {
	return s.roomRepo.ListAll(ctx, nil)
}

func (s *locationService) ListShelves(ctx context.Context, roomID *uuid.UUID) ([]*types.Shelf, error) {
	if roomID == nil {
		return s.shelfRepo.ListAll(ctx, nil)
	}
	return s.shelfRepo.ListByRoomIDs(ctx, nil, []uuid.UUID{*roomID})
}

func (s *locationService) ListRows(ctx context.Context, shelfID *uuid.UUID) ([]*types.Row, error) {
	if shelfID == nil {
		return s.rowRepo.ListAll(ctx, nil)
	}
	return s.rowRepo.ListByShelfIDs(ctx, nil, []uuid.UUID{*shelfID})
}

// DeleteRoom removes the room with its shelves and rows, clearing the weak
// reference of every item that pointed into the deleted subtree. One
// transaction, so readers never observe a dangling row id.
func (s *locationService) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	s.gate.Lock()
	defer s.gate.Unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		room, err := s.roomRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if room == nil {
			return fmt.Errorf("%w: %s", types.ErrRoomNotFound, id)
		}
		shelves, err := s.shelfRepo.ListByRoomIDs(ctx, tx, []uuid.UUID{id})
		if err != nil {
			return err
		}
		shelfIDs := make([]uuid.UUID, 0, len(shelves))
		for _, shelf := range shelves {
			shelfIDs = append(shelfIDs, shelf.ID)
		}
		if err := s.deleteRowsOfShelves(ctx, tx, shelfIDs); err != nil {
			return err
		}
		if err := s.shelfRepo.DeleteByIDs(ctx, tx, shelfIDs); err != nil {
			return err
		}
		return s.roomRepo.DeleteByID(ctx, tx, id)
	})
}

func (s *locationService) DeleteShelf(ctx context.Context, id uuid.UUID) error {
	s.gate.Lock()
	defer s.gate.Unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		shelf, err := s.shelfRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if shelf == nil {
			return fmt.Errorf("%w: %s", types.ErrShelfNotFound, id)
		}
		if err := s.deleteRowsOfShelves(ctx, tx, []uuid.UUID{id}); err != nil {
			return err
		}
		return s.shelfRepo.DeleteByIDs(ctx, tx, []uuid.UUID{id})
	})
}

func (s *locationService) DeleteRow(ctx context.Context, id uuid.UUID) error {
	s.gate.Lock()
	defer s.gate.Unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		row, err := s.rowRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if row == nil {
			return fmt.Errorf("%w: %s", types.ErrRowNotFound, id)
		}
		if _, err := s.itemRepo.ClearRowIDByRowIDs(ctx, tx, []uuid.UUID{id}); err != nil {
			return err
		}
		return s.rowRepo.DeleteByIDs(ctx, tx, []uuid.UUID{id})
	})
}

func (s *locationService) deleteRowsOfShelves(ctx context.Context, tx *gorm.DB, shelfIDs []uuid.UUID) error {
	rows, err := s.rowRepo.ListByShelfIDs(ctx, tx, shelfIDs)
	if err != nil {
		return err
	}
	rowIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		rowIDs = append(rowIDs, row.ID)
	}
	if _, err := s.itemRepo.ClearRowIDByRowIDs(ctx, tx, rowIDs); err != nil {
		return err
	}
	return s.rowRepo.DeleteByIDs(ctx, tx, rowIDs)
}

// AssignLocation binds an item to a row; an item assigned elsewhere is
// silently reassigned, last assignment wins. Status is deliberately not
// touched here.
func (s *locationService) AssignLocation(ctx context.Context, itemID string, rowID uuid.UUID) error {
	s.gate.Lock()
	defer s.gate.Unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		item, err := s.itemRepo.GetByID(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: %q", types.ErrItemNotFound, itemID)
		}
		row, err := s.rowRepo.GetByID(ctx, tx, rowID)
		if err != nil {
			return err
		}
		if row == nil {
			return fmt.Errorf("%w: %s", types.ErrRowNotFound, rowID)
		}
		return s.itemRepo.SetRowID(ctx, tx, itemID, &rowID)
	})
}

func (s *locationService) UnassignLocation(ctx context.Context, itemID string) error {
	s.gate.Lock()
	defer s.gate.Unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		item, err := s.itemRepo.GetByID(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: %q", types.ErrItemNotFound, itemID)
		}
		return s.itemRepo.SetRowID(ctx, tx, itemID, nil)
	})
}

func (s *locationService) ListRowItems(ctx context.Context, rowID uuid.UUID) ([]*types.Item, error) {
	row, err := s.rowRepo.GetByID(ctx, nil, rowID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("%w: %s", types.ErrRowNotFound, rowID)
	}
	return s.itemRepo.ListByRowIDs(ctx, nil, []uuid.UUID{rowID})
}

func (s *locationService) GetWarehouseLayout(ctx context.Context) ([]*RoomLayout, error) {
	var layout []*RoomLayout
	err := s.db.Transaction(func(tx *gorm.DB) error {
		rooms, err := s.roomRepo.ListAll(ctx, tx)
		if err != nil {
			return err
		}
		shelves, err := s.shelfRepo.ListAll(ctx, tx)
		if err != nil {
			return err
		}
		rows, err := s.rowRepo.ListAll(ctx, tx)
		if err != nil {
			return err
		}
		rowIDs := make([]uuid.UUID, 0, len(rows))
		for _, row := range rows {
			rowIDs = append(rowIDs, row.ID)
		}
		items, err := s.itemRepo.ListByRowIDs(ctx, tx, rowIDs)
		if err != nil {
			return err
		}

		itemsByRow := make(map[uuid.UUID][]*types.Item)
		for _, item := range items {
			if item.RowID != nil {
				itemsByRow[*item.RowID] = append(itemsByRow[*item.RowID], item)
			}
		}
		rowsByShelf := make(map[uuid.UUID][]*RowLayout)
		for _, row := range rows {
			rowsByShelf[row.ShelfID] = append(rowsByShelf[row.ShelfID], &RowLayout{
				Row:   row,
				Items: itemsByRow[row.ID],
			})
		}
		shelvesByRoom := make(map[uuid.UUID][]*ShelfLayout)
		for _, shelf := range shelves {
			shelvesByRoom[shelf.RoomID] = append(shelvesByRoom[shelf.RoomID], &ShelfLayout{
				Shelf: shelf,
				Rows:  rowsByShelf[shelf.ID],
			})
		}
		for _, room := range rooms {
			layout = append(layout, &RoomLayout{
				Room:    room,
				Shelves: shelvesByRoom[room.ID],
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return layout, nil
}

// GetDroppedReport partitions all dropped items into those with a resolved
// location and those without one.
func (s *locationService) GetDroppedReport(ctx context.Context) (*DroppedReport, error) {
	report := &DroppedReport{
		WithLocation:    []*LocatedItem{},
		WithoutLocation: []*types.Item{},
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		dropped, err := s.itemRepo.ListDropped(ctx, tx)
		if err != nil {
			return err
		}
		report.Total = len(dropped)

		rows, err := s.rowRepo.ListAll(ctx, tx)
		if err != nil {
			return err
		}
		shelves, err := s.shelfRepo.ListAll(ctx, tx)
		if err != nil {
			return err
		}
		rooms, err := s.roomRepo.ListAll(ctx, tx)
		if err != nil {
			return err
		}
		rowByID := make(map[uuid.UUID]*types.Row, len(rows))
		for _, row := range rows {
			rowByID[row.ID] = row
		}
		shelfByID := make(map[uuid.UUID]*types.Shelf, len(shelves))
		for _, shelf := range shelves {
			shelfByID[shelf.ID] = shelf
		}
		roomByID := make(map[uuid.UUID]*types.Room, len(rooms))
		for _, room := range rooms {
			roomByID[room.ID] = room
		}

		for _, item := range dropped {
			if item.RowID == nil {
				report.WithoutLocation = append(report.WithoutLocation, item)
				continue
			}
			row, ok := rowByID[*item.RowID]
			if !ok {
				report.WithoutLocation = append(report.WithoutLocation, item)
				continue
			}
			located := &LocatedItem{Item: item, Row: row.Name}
			if shelf, ok := shelfByID[row.ShelfID]; ok {
				located.Shelf = shelf.Name
				if room, ok := roomByID[shelf.RoomID]; ok {
					located.Room = room.Name
				}
			}
			report.WithLocation = append(report.WithLocation, located)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}
