package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"medipin-ocr/internal/domain/medications"
	"medipin-ocr/internal/domain/schedules"
)

// Tabla esperada:
//
//	CREATE TABLE medication_schedules (
//		id            TEXT PRIMARY KEY,
//		user_id       TEXT NOT NULL,
//		pill_name     TEXT NOT NULL,
//		dose          DOUBLE PRECISION NOT NULL,
//		take_date     DATE NOT NULL,
//		take_time     TEXT NOT NULL,
//		slot          TEXT NOT NULL DEFAULT '',
//		meal_relation TEXT NOT NULL,
//		memo          TEXT NOT NULL DEFAULT '',
//		notify        BOOLEAN NOT NULL DEFAULT TRUE,
//		is_taken      BOOLEAN NOT NULL DEFAULT FALSE,
//		created_at    TIMESTAMPTZ NOT NULL,
//		updated_at    TIMESTAMPTZ NOT NULL,
//		UNIQUE (user_id, pill_name, take_date, take_time)
//	);
type SchedulesRepo struct {
	db *sql.DB
}

func NewSchedulesRepo(db *sql.DB) *SchedulesRepo {
	return &SchedulesRepo{db: db}
}

const scheduleColumns = `
	id, user_id, pill_name, dose,
	take_date, take_time, slot, meal_relation,
	memo, notify, is_taken,
	created_at, updated_at`

func (r *SchedulesRepo) Create(ctx context.Context, rec schedules.Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medication_schedules (`+scheduleColumns+`
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		rec.ID,
		rec.UserID,
		rec.PillName,
		rec.Dose,
		rec.Date,
		rec.Time,
		string(rec.Slot),
		string(rec.MealRelation),
		rec.Memo,
		rec.Notify,
		rec.Taken,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	return err
}

func (r *SchedulesRepo) Exists(ctx context.Context, userID, pillName string, date time.Time, clock string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM medication_schedules
			WHERE user_id = $1 AND pill_name = $2 AND take_date = $3 AND take_time = $4
		)
	`, userID, pillName, date, clock).Scan(&exists)
	return exists, err
}

func (r *SchedulesRepo) GetByID(ctx context.Context, id string) (schedules.Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return schedules.Record{}, schedules.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT`+scheduleColumns+`
		FROM medication_schedules
		WHERE id = $1
	`, id)

	rec, err := scanSchedule(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return schedules.Record{}, schedules.ErrNotFound
		}
		return schedules.Record{}, err
	}
	return rec, nil
}

func (r *SchedulesRepo) ListByUser(ctx context.Context, userID string, from, to *time.Time) ([]schedules.Record, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT`+scheduleColumns+`
		FROM medication_schedules
		WHERE user_id = $1
		  AND ($2::date IS NULL OR take_date >= $2::date)
		  AND ($3::date IS NULL OR take_date <= $3::date)
		ORDER BY take_date ASC, take_time ASC, pill_name ASC
	`, userID, toNullDate(from), toNullDate(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]schedules.Record, 0)
	for rows.Next() {
		rec, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SchedulesRepo) Update(ctx context.Context, rec schedules.Record) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE medication_schedules
		SET
			memo = $2,
			notify = $3,
			is_taken = $4,
			updated_at = $5
		WHERE id = $1
	`,
		rec.ID,
		rec.Memo,
		rec.Notify,
		rec.Taken,
		rec.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return schedules.ErrNotFound
	}
	return nil
}

func (r *SchedulesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM medication_schedules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return schedules.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(s rowScanner) (schedules.Record, error) {
	var (
		rec       schedules.Record
		slot, rel string
	)
	if err := s.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.PillName,
		&rec.Dose,
		&rec.Date,
		&rec.Time,
		&slot,
		&rel,
		&rec.Memo,
		&rec.Notify,
		&rec.Taken,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return schedules.Record{}, err
	}
	rec.Slot = medications.TimingSlot(slot)
	rec.MealRelation = medications.MealRelation(rel)
	// take_date es DATE; pgx lo devuelve a medianoche UTC
	rec.Date = rec.Date.UTC()
	return rec, nil
}

func toNullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
