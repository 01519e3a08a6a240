package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"medipin-ocr/internal/domain/schedules"
)

type scheduleRepo struct {
	mu    sync.RWMutex
	byID  map[string]schedules.Record
	byKey map[string]string // Record.Key() => id
}

func NewScheduleRepo() schedules.Repository {
	return &scheduleRepo{
		byID:  make(map[string]schedules.Record),
		byKey: make(map[string]string),
	}
}

func (r *scheduleRepo) Create(ctx context.Context, rec schedules.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("schedule id required")
	}
	if _, exists := r.byID[rec.ID]; exists {
		return errors.New("schedule already exists")
	}
	r.byID[rec.ID] = rec
	r.byKey[rec.Key()] = rec.ID
	return nil
}

func (r *scheduleRepo) Exists(ctx context.Context, userID, pillName string, date time.Time, clock string) (bool, error) {
	key := schedules.Record{UserID: userID, PillName: pillName, Date: date, Time: clock}.Key()

	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byKey[key]
	return ok, nil
}

func (r *scheduleRepo) GetByID(ctx context.Context, id string) (schedules.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return schedules.Record{}, schedules.ErrNotFound
	}
	return rec, nil
}

func (r *scheduleRepo) ListByUser(ctx context.Context, userID string, from, to *time.Time) ([]schedules.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]schedules.Record, 0)
	for _, rec := range r.byID {
		if rec.UserID != userID {
			continue
		}
		if from != nil && rec.Date.Before(*from) {
			continue
		}
		if to != nil && rec.Date.After(*to) {
			continue
		}
		out = append(out, rec)
	}

	// Orden por fecha + hora, como lo pide el calendario
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].PillName < out[j].PillName
	})

	return out, nil
}

func (r *scheduleRepo) Update(ctx context.Context, rec schedules.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, exists := r.byID[rec.ID]
	if !exists {
		return schedules.ErrNotFound
	}
	delete(r.byKey, prev.Key())
	r.byID[rec.ID] = rec
	r.byKey[rec.Key()] = rec.ID
	return nil
}

func (r *scheduleRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.byID[id]
	if !exists {
		return schedules.ErrNotFound
	}
	delete(r.byID, id)
	delete(r.byKey, rec.Key())
	return nil
}
