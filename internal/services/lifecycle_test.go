package services

import (
	"errors"
	"testing"

	"github.com/yungbote/stockroom-backend/internal/types"
)

func TestSetItemStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	src := snapshotXLSX(t, []snapRow{{style: "104437", color: "Black"}})
	if _, err := env.merge.UploadSnapshot(ctx, src, "fall.xlsx"); err != nil {
		t.Fatalf("seed upload: %v", err)
	}

	item, err := env.lifecycle.SetItemStatus(ctx, "104437_Black", types.StatusPlaced, "alex", "placed on arrival")
	if err != nil {
		t.Fatalf("SetItemStatus: %v", err)
	}
	if item.Status != types.StatusPlaced {
		t.Errorf("returned status = %q", item.Status)
	}
	if got := mustItem(t, env, "104437_Black"); got.Status != types.StatusPlaced {
		t.Errorf("stored status = %q", got.Status)
	}

	actions, err := env.actionRepo.ListByItemID(ctx, nil, "104437_Black")
	if err != nil {
		t.Fatalf("ListByItemID: %v", err)
	}
	if len(actions) != 1 {
		t.Fatalf("got %d audit rows, want 1", len(actions))
	}
	a := actions[0]
	if a.Action != types.StatusPlaced || a.User != "alex" || a.Notes != "placed on arrival" {
		t.Errorf("audit row = %+v", a)
	}
	if a.Style != "104437" || a.Color != "Black" {
		t.Errorf("audit row identity = %q/%q", a.Style, a.Color)
	}
}

func TestSetItemStatusAnyTransitionAllowed(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	src := snapshotXLSX(t, []snapRow{{style: "104437", color: "Black"}})
	if _, err := env.merge.UploadSnapshot(ctx, src, "fall.xlsx"); err != nil {
		t.Fatalf("seed upload: %v", err)
	}

	// No terminal state: dropped → showroom is a legal explicit action.
	for _, status := range []string{types.StatusDropped, types.StatusShowroom, types.StatusWaitlist, types.StatusPending} {
		if _, err := env.lifecycle.SetItemStatus(ctx, "104437_Black", status, "", ""); err != nil {
			t.Fatalf("transition to %q: %v", status, err)
		}
	}
}

func TestSetItemStatusErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	if _, err := env.lifecycle.SetItemStatus(ctx, "104437_Black", "archived", "", ""); !errors.Is(err, types.ErrInvalidStatus) {
		t.Errorf("invalid status err = %v", err)
	}
	if _, err := env.lifecycle.SetItemStatus(ctx, "missing_Black", types.StatusPlaced, "", ""); !errors.Is(err, types.ErrItemNotFound) {
		t.Errorf("unknown item err = %v", err)
	}
}

func TestBulkSetStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	src := snapshotXLSX(t, []snapRow{
		{style: "104437", color: "Black"},
		{style: "104437", color: "Navy"},
		{style: "104438", color: "Red"},
	})
	if _, err := env.merge.UploadSnapshot(ctx, src, "fall.xlsx"); err != nil {
		t.Fatalf("seed upload: %v", err)
	}
	if _, err := env.lifecycle.SetItemStatus(ctx, "104438_Red", types.StatusShowroom, "", ""); err != nil {
		t.Fatalf("SetItemStatus: %v", err)
	}

	result, err := env.lifecycle.BulkSetStatus(ctx, types.StatusPending, types.StatusWaitlist)
	if err != nil {
		t.Fatalf("BulkSetStatus: %v", err)
	}
	if result.UpdatedCount != 2 {
		t.Errorf("updated = %d, want 2", result.UpdatedCount)
	}
	if item := mustItem(t, env, "104438_Red"); item.Status != types.StatusShowroom {
		t.Errorf("item outside from-status was touched: %q", item.Status)
	}
	if item := mustItem(t, env, "104437_Black"); item.Status != types.StatusWaitlist {
		t.Errorf("bulk target status = %q", item.Status)
	}

	if _, err := env.lifecycle.BulkSetStatus(ctx, "bogus", types.StatusPending); !errors.Is(err, types.ErrInvalidStatus) {
		t.Errorf("invalid from err = %v", err)
	}
	if _, err := env.lifecycle.BulkSetStatus(ctx, types.StatusPending, "bogus"); !errors.Is(err, types.ErrInvalidStatus) {
		t.Errorf("invalid to err = %v", err)
	}
}

func TestRunSeasonalDrop(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	seed := snapshotXLSX(t, []snapRow{
		{style: "104437", color: "Black"},
		{style: "104437", color: "Navy"},
		{style: "104438", color: "Red"},
		{style: "104439", color: "Green"},
	})
	if _, err := env.merge.UploadSnapshot(ctx, seed, "spring.xlsx"); err != nil {
		t.Fatalf("seed upload: %v", err)
	}
	// Green was already dropped last season; Red is out on the floor.
	if _, err := env.lifecycle.SetItemStatus(ctx, "104439_Green", types.StatusDropped, "", ""); err != nil {
		t.Fatalf("SetItemStatus: %v", err)
	}
	if _, err := env.lifecycle.SetItemStatus(ctx, "104438_Red", types.StatusShowroom, "", ""); err != nil {
		t.Fatalf("SetItemStatus: %v", err)
	}
	room, err := env.location.CreateRoom(ctx, "Back Room", "")
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	shelf, err := env.location.CreateShelf(ctx, room.ID, "A", "")
	if err != nil {
		t.Fatalf("CreateShelf: %v", err)
	}
	row, err := env.location.CreateRow(ctx, shelf.ID, "A1", "")
	if err != nil {
		t.Fatalf("CreateRow: %v", err)
	}
	if err := env.location.AssignLocation(ctx, "104438_Red", row.ID); err != nil {
		t.Fatalf("AssignLocation: %v", err)
	}

	// Fall season keeps Black, restores Green, introduces White; Navy and
	// Red are gone from the lineup.
	fall := snapshotXLSX(t, []snapRow{
		{style: "104437", color: "Black"},
		{style: "104439", color: "Green"},
		{style: "104440", color: "White"},
	})
	result, err := env.lifecycle.RunSeasonalDrop(ctx, fall, "fall.xlsx")
	if err != nil {
		t.Fatalf("RunSeasonalDrop: %v", err)
	}

	if result.DroppedCount != 2 {
		t.Errorf("dropped = %d (%v), want 2", result.DroppedCount, result.DroppedIDs)
	}
	if result.RestoredCount != 1 {
		t.Errorf("restored = %d (%v), want 1", result.RestoredCount, result.RestoredIDs)
	}

	checks := map[string]string{
		"104437_Black": types.StatusPending,  // present, untouched
		"104437_Navy":  types.StatusDropped,  // absent from snapshot
		"104438_Red":   types.StatusDropped,  // absent, showroom status does not protect it
		"104439_Green": types.StatusPending,  // dropped item restored
		"104440_White": types.StatusPending,  // brand new identity
	}
	for id, want := range checks {
		if item := mustItem(t, env, id); item.Status != want {
			t.Errorf("%s status = %q, want %q", id, item.Status, want)
		}
	}

	// The snapshot merged like any upload: provenance on kept items grew.
	if got := mustItem(t, env, "104437_Black").SourceFileList(); len(got) != 2 {
		t.Errorf("kept item provenance = %v, want both files", got)
	}

	// The result carries the dropped partition so callers can see what is
	// still on the floor after the run.
	if result.Report == nil {
		t.Fatal("result carries no dropped report")
	}
	if result.Report.Total != 2 {
		t.Errorf("report total = %d, want 2", result.Report.Total)
	}
	if len(result.Report.WithLocation) != 1 || result.Report.WithLocation[0].Item.ID != "104438_Red" {
		t.Errorf("report with-location partition = %+v", result.Report.WithLocation)
	} else if loc := result.Report.WithLocation[0]; loc.Room != "Back Room" || loc.Shelf != "A" || loc.Row != "A1" {
		t.Errorf("located item resolved to %q / %q / %q", loc.Room, loc.Shelf, loc.Row)
	}
	if len(result.Report.WithoutLocation) != 1 || result.Report.WithoutLocation[0].ID != "104437_Navy" {
		t.Errorf("report without-location partition = %+v", result.Report.WithoutLocation)
	}
}

func TestRunSeasonalDropIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	seed := snapshotXLSX(t, []snapRow{
		{style: "104437", color: "Black"},
		{style: "104437", color: "Navy"},
	})
	if _, err := env.merge.UploadSnapshot(ctx, seed, "spring.xlsx"); err != nil {
		t.Fatalf("seed upload: %v", err)
	}

	fallRows := []snapRow{{style: "104437", color: "Black"}}
	if _, err := env.lifecycle.RunSeasonalDrop(ctx, snapshotXLSX(t, fallRows), "fall.xlsx"); err != nil {
		t.Fatalf("first drop: %v", err)
	}
	result, err := env.lifecycle.RunSeasonalDrop(ctx, snapshotXLSX(t, fallRows), "fall.xlsx")
	if err != nil {
		t.Fatalf("second drop: %v", err)
	}
	if result.DroppedCount != 0 || result.RestoredCount != 0 {
		t.Fatalf("re-run changed state: %+v", result)
	}
}

func TestRunSeasonalDropFailedUploadChangesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	seed := snapshotXLSX(t, []snapRow{{style: "104437", color: "Black"}})
	if _, err := env.merge.UploadSnapshot(ctx, seed, "spring.xlsx"); err != nil {
		t.Fatalf("seed upload: %v", err)
	}

	bad := snapshotXLSX(t, []snapRow{{style: "nope", color: "Black"}})
	if _, err := env.lifecycle.RunSeasonalDrop(ctx, bad, "fall.xlsx"); err == nil {
		t.Fatal("expected drop with malformed snapshot to fail")
	}
	if item := mustItem(t, env, "104437_Black"); item.Status != types.StatusPending {
		t.Fatalf("failed drop mutated status: %q", item.Status)
	}
}
