package services

import (
	"errors"
	"testing"

	"github.com/yungbote/stockroom-backend/internal/types"
)

func TestSearchItems(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	seedItems(t, env, []snapRow{
		{style: "104437", color: "Black/White"},
		{style: "104437", color: "Navy"},
		{style: "45123", color: "Jet Black"},
	}, "fall.xlsx")

	// Bare 5-digit query is padded before matching.
	items, err := env.items.SearchItems(ctx, "45123", "", 0)
	if err != nil {
		t.Fatalf("SearchItems: %v", err)
	}
	if len(items) != 1 || items[0].ID != "045123_Jet Black" {
		t.Fatalf("style search = %+v", items)
	}

	// Style prefix.
	items, err = env.items.SearchItems(ctx, "1044", "", 0)
	if err != nil {
		t.Fatalf("SearchItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("prefix search = %d items, want 2", len(items))
	}

	// Color is a case-insensitive substring, combined with style.
	items, err = env.items.SearchItems(ctx, "104437", "black", 0)
	if err != nil {
		t.Fatalf("SearchItems: %v", err)
	}
	if len(items) != 1 || items[0].ID != "104437_Black/White" {
		t.Fatalf("combined search = %+v", items)
	}

	items, err = env.items.SearchItems(ctx, "", "black", 0)
	if err != nil {
		t.Fatalf("SearchItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("color search = %d items, want 2", len(items))
	}
}

func TestGetItemsByStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	seedItems(t, env, []snapRow{
		{style: "104437", color: "Black"},
		{style: "104437", color: "Navy"},
		{style: "104438", color: "Red"},
	}, "fall.xlsx")
	if _, err := env.lifecycle.SetItemStatus(ctx, "104438_Red", types.StatusShowroom, "", ""); err != nil {
		t.Fatalf("SetItemStatus: %v", err)
	}

	page, err := env.items.GetItemsByStatus(ctx, types.StatusPending, 1, 0)
	if err != nil {
		t.Fatalf("GetItemsByStatus: %v", err)
	}
	if page.Total != 2 || len(page.Items) != 1 {
		t.Fatalf("page = total %d / %d items, want 2 / 1", page.Total, len(page.Items))
	}

	if _, err := env.items.GetItemsByStatus(ctx, "archived", 10, 0); !errors.Is(err, types.ErrInvalidStatus) {
		t.Errorf("invalid status err = %v", err)
	}
}

func TestGetItemProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	seedItems(t, env, []snapRow{{style: "104437", color: "Black"}}, "fall.xlsx")

	room, _ := env.location.CreateRoom(ctx, "Back Room", "")
	shelf, _ := env.location.CreateShelf(ctx, room.ID, "A", "")
	row, _ := env.location.CreateRow(ctx, shelf.ID, "A1", "")
	if err := env.location.AssignLocation(ctx, "104437_Black", row.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := env.lifecycle.SetItemStatus(ctx, "104437_Black", types.StatusPlaced, "alex", ""); err != nil {
		t.Fatalf("SetItemStatus: %v", err)
	}

	profile, err := env.items.GetItemProfile(ctx, "104437_Black")
	if err != nil {
		t.Fatalf("GetItemProfile: %v", err)
	}
	if profile.Item.ID != "104437_Black" {
		t.Errorf("profile item = %+v", profile.Item)
	}
	if profile.Room != "Back Room" || profile.Shelf != "A" || profile.Row != "A1" {
		t.Errorf("profile location = %q/%q/%q", profile.Room, profile.Shelf, profile.Row)
	}
	if len(profile.Actions) != 1 {
		t.Errorf("profile actions = %d, want 1", len(profile.Actions))
	}

	if _, err := env.items.GetItemProfile(ctx, "missing_Black"); !errors.Is(err, types.ErrItemNotFound) {
		t.Errorf("unknown item err = %v", err)
	}
}

func TestGetInventoryStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	seedItems(t, env, []snapRow{
		{style: "104437", color: "Black", division: "Running", gender: "Mens"},
		{style: "104437", color: "Black (W)", division: "Running", gender: "Womens"},
		{style: "104438", color: "Red (WW)", division: "Court", gender: "Mens"},
	}, "fall.xlsx")
	if _, err := env.lifecycle.SetItemStatus(ctx, "104438_Red (WW)", types.StatusDropped, "", ""); err != nil {
		t.Fatalf("SetItemStatus: %v", err)
	}

	stats, err := env.items.GetInventoryStats(ctx)
	if err != nil {
		t.Fatalf("GetInventoryStats: %v", err)
	}
	if stats.Total != 3 {
		t.Errorf("total = %d", stats.Total)
	}
	if stats.ByStatus[types.StatusPending] != 2 || stats.ByStatus[types.StatusDropped] != 1 {
		t.Errorf("by status = %v", stats.ByStatus)
	}
	if stats.ByDivision["Running"] != 2 || stats.ByDivision["Court"] != 1 {
		t.Errorf("by division = %v", stats.ByDivision)
	}
	if stats.ByGender["Mens"] != 2 || stats.ByGender["Womens"] != 1 {
		t.Errorf("by gender = %v", stats.ByGender)
	}
	if stats.ByWidth["regular"] != 1 || stats.ByWidth["wide"] != 1 || stats.ByWidth["extra_wide"] != 1 {
		t.Errorf("by width = %v", stats.ByWidth)
	}
}

func TestDeleteUpload(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	seedItems(t, env, []snapRow{
		{style: "104437", color: "Black"},
		{style: "104437", color: "Navy"},
	}, "first.xlsx")
	seedItems(t, env, []snapRow{
		{style: "104437", color: "Black"},
		{style: "104438", color: "Red"},
	}, "second.xlsx")

	result, err := env.items.DeleteUpload(ctx, "second.xlsx")
	if err != nil {
		t.Fatalf("DeleteUpload: %v", err)
	}
	if result.ItemsDeleted != 1 {
		t.Errorf("items deleted = %d, want 1 (Red only lived in second.xlsx)", result.ItemsDeleted)
	}
	if result.ItemsUpdated != 1 {
		t.Errorf("items updated = %d, want 1 (Black loses one provenance entry)", result.ItemsUpdated)
	}

	if item, err := env.itemRepo.GetByID(ctx, nil, "104438_Red"); err != nil || item != nil {
		t.Errorf("orphaned item should be gone, got %v / %v", item, err)
	}
	black := mustItem(t, env, "104437_Black")
	if got := black.SourceFileList(); len(got) != 1 || got[0] != "first.xlsx" {
		t.Errorf("provenance after delete = %v", got)
	}

	uploads, err := env.items.ListUploads(ctx)
	if err != nil {
		t.Fatalf("ListUploads: %v", err)
	}
	if len(uploads) != 1 || uploads[0].Filename != "first.xlsx" {
		t.Errorf("uploads after delete = %+v", uploads)
	}

	if _, err := env.items.DeleteUpload(ctx, "second.xlsx"); !errors.Is(err, types.ErrUploadNotFound) {
		t.Errorf("double delete err = %v", err)
	}
}
