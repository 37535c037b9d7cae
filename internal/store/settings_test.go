package store

import (
	"errors"
	"testing"
	"time"
)

func TestSettingsRepository_GetSet(t *testing.T) {
	repo := newTestStore(t).Settings()

	t.Run("missing key", func(t *testing.T) {
		if _, err := repo.Get(SettingBrushColor); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("set then get", func(t *testing.T) {
		if err := repo.Set(SettingBrushColor, "red"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got, err := repo.Get(SettingBrushColor)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != "red" {
			t.Errorf("Get() = %q, want %q", got, "red")
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		if err := repo.Set(SettingBrushColor, "blue"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got, _ := repo.Get(SettingBrushColor)
		if got != "blue" {
			t.Errorf("Get() = %q, want %q", got, "blue")
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := repo.Delete(SettingBrushColor); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := repo.Get(SettingBrushColor); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
		}
		if err := repo.Delete("never-set"); err != nil {
			t.Errorf("Delete() of missing key error = %v", err)
		}
	})
}

func TestSettingsRepository_SetManyAndAll(t *testing.T) {
	repo := newTestStore(t).Settings()

	err := repo.SetMany(map[string]string{
		SettingBrushColor: "green",
		SettingBrushSize:  "20",
		SettingTool:       "erase",
	})
	if err != nil {
		t.Fatalf("SetMany() error = %v", err)
	}

	all, err := repo.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("All() returned %d settings, want 3", len(all))
	}
	if all[SettingBrushSize] != "20" || all[SettingTool] != "erase" || all[SettingBrushColor] != "green" {
		t.Errorf("All() = %v", all)
	}
}

func TestSelectionRepository(t *testing.T) {
	repo := newTestStore(t).Selections()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("record generates id", func(t *testing.T) {
		sel := &Selection{TargetID: "color-red", Label: "Color: red", SelectedAt: base}
		if err := repo.Record(sel); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		if sel.ID == "" {
			t.Fatal("Record() should assign an ID")
		}

		got, err := repo.GetByID(sel.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.TargetID != "color-red" || got.Label != "Color: red" {
			t.Errorf("GetByID() = %+v", got)
		}
		if !got.SelectedAt.Equal(base) {
			t.Errorf("SelectedAt = %v, want %v", got.SelectedAt, base)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		if _, err := repo.GetByID("nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetByID() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("recent is newest first", func(t *testing.T) {
		for i, id := range []string{"tool-draw", "size-large", "tool-erase"} {
			sel := &Selection{TargetID: id, SelectedAt: base.Add(time.Duration(i+1) * time.Minute)}
			if err := repo.Record(sel); err != nil {
				t.Fatalf("Record() error = %v", err)
			}
		}

		recent, err := repo.Recent(2)
		if err != nil {
			t.Fatalf("Recent() error = %v", err)
		}
		if len(recent) != 2 {
			t.Fatalf("Recent(2) returned %d rows", len(recent))
		}
		if recent[0].TargetID != "tool-erase" || recent[1].TargetID != "size-large" {
			t.Errorf("Recent() order = %s, %s", recent[0].TargetID, recent[1].TargetID)
		}

		all, err := repo.Recent(0)
		if err != nil {
			t.Fatalf("Recent(0) error = %v", err)
		}
		if len(all) != 4 {
			t.Errorf("Recent(0) returned %d rows, want 4", len(all))
		}
	})

	t.Run("count", func(t *testing.T) {
		repo.Record(&Selection{TargetID: "tool-draw"})
		n, err := repo.Count("tool-draw")
		if err != nil {
			t.Fatalf("Count() error = %v", err)
		}
		if n != 2 {
			t.Errorf("Count() = %d, want 2", n)
		}
	})
}
