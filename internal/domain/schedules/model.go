package schedules

import (
	"time"

	"medipin-ocr/internal/domain/medications"
)

// Record es una toma concreta guardada para un usuario: una fila por
// (usuario, medicamento, fecha, hora).
type Record struct {
	ID           string
	UserID       string
	PillName     string
	Dose         float64
	Date         time.Time // solo fecha, 00:00 UTC
	Time         string    // HH:MM
	Slot         medications.TimingSlot
	MealRelation medications.MealRelation
	Memo         string
	Notify       bool
	Taken        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Key identifica duplicados.
func (r Record) Key() string {
	return r.UserID + "|" + r.PillName + "|" + r.Date.Format(dateLayout) + "|" + r.Time
}

const dateLayout = "2006-01-02"
