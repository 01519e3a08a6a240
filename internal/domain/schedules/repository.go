package schedules

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, r Record) error
	// Exists reporta si ya hay una toma para (usuario, medicamento, fecha, hora).
	Exists(ctx context.Context, userID, pillName string, date time.Time, clock string) (bool, error)
	GetByID(ctx context.Context, id string) (Record, error)
	// ListByUser filtra por fecha inclusiva; from/to nil => sin límite.
	ListByUser(ctx context.Context, userID string, from, to *time.Time) ([]Record, error)
	Update(ctx context.Context, r Record) error
	Delete(ctx context.Context, id string) error
}
