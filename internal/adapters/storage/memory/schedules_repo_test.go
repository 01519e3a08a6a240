package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"medipin-ocr/internal/domain/medications"
	"medipin-ocr/internal/domain/schedules"
)

func rec(id, user string, day int, clock string) schedules.Record {
	return schedules.Record{
		ID:           id,
		UserID:       user,
		PillName:     "타이레놀",
		Dose:         1,
		Date:         time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC),
		Time:         clock,
		MealRelation: medications.AfterMeal,
	}
}

func TestScheduleRepo_ExistsAndList(t *testing.T) {
	ctx := context.Background()
	r := NewScheduleRepo()

	for _, x := range []schedules.Record{
		rec("c", "u-1", 2, "09:30"),
		rec("a", "u-1", 1, "19:30"),
		rec("b", "u-1", 1, "09:30"),
		rec("z", "u-2", 1, "09:30"),
	} {
		if err := r.Create(ctx, x); err != nil {
			t.Fatalf("Create %s: %v", x.ID, err)
		}
	}
	if err := r.Create(ctx, rec("a", "u-1", 5, "09:30")); err == nil {
		t.Fatalf("expected duplicate id error")
	}

	ok, _ := r.Exists(ctx, "u-1", "타이레놀", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), "09:30")
	if !ok {
		t.Fatalf("expected existing slot")
	}
	ok, _ = r.Exists(ctx, "u-1", "타이레놀", time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), "09:30")
	if ok {
		t.Fatalf("unexpected existing slot")
	}

	items, _ := r.ListByUser(ctx, "u-1", nil, nil)
	if len(items) != 3 || items[0].ID != "b" || items[1].ID != "a" || items[2].ID != "c" {
		t.Fatalf("unexpected order %+v", items)
	}

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	items, _ = r.ListByUser(ctx, "u-1", &from, nil)
	if len(items) != 1 || items[0].ID != "c" {
		t.Fatalf("unexpected filtered list %+v", items)
	}
}

func TestScheduleRepo_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	r := NewScheduleRepo()
	x := rec("a", "u-1", 1, "09:30")
	_ = r.Create(ctx, x)

	x.Taken = true
	if err := r.Update(ctx, x); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := r.GetByID(ctx, "a")
	if !got.Taken {
		t.Fatalf("expected taken")
	}

	if err := r.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := r.GetByID(ctx, "a"); !errors.Is(err, schedules.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	ok, _ := r.Exists(ctx, "u-1", "타이레놀", x.Date, "09:30")
	if ok {
		t.Fatalf("deleted record should free its slot")
	}
	if err := r.Update(ctx, x); !errors.Is(err, schedules.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
}
