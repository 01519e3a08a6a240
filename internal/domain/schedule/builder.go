package schedule

import (
	"errors"
	"fmt"
	"time"

	"medipin-ocr/internal/domain/medications"
)

var (
	ErrInvalidStartDate = errors.New("invalid start date")
	ErrInvalidEntry     = errors.New("invalid medication entry")
)

const fallbackClock = "09:00"

// Horario base por franja, antes de ajustar por comida.
var baseTimes = map[medications.TimingSlot][2]int{
	medications.SlotMorning: {9, 0},
	medications.SlotLunch:   {13, 0},
	medications.SlotEvening: {19, 0},
	medications.SlotBedtime: {22, 30},
}

const mealOffsetMinutes = 30

type Occurrence struct {
	DrugName     string                   `json:"drug_name"`
	Label        string                   `json:"label"`
	Dose         float64                  `json:"dose"`
	Slot         medications.TimingSlot   `json:"timing,omitempty"`
	MealRelation medications.MealRelation `json:"meal_relation"`
	At           time.Time                `json:"datetime"`
	Time         string                   `json:"time"` // HH:MM
	Notify       bool                     `json:"notify"`
}

// AdjustMealTime corre la hora 30 minutos antes/después de la comida. El
// minuto resultante siempre queda en [0,59], también con entradas fuera de rango.
func AdjustMealTime(hour, minute int, rel medications.MealRelation) (int, int) {
	switch rel {
	case medications.BeforeMeal:
		minute -= mealOffsetMinutes
	case medications.AfterMeal:
		minute += mealOffsetMinutes
	}

	carry := floorDiv(minute, 60)
	return hour + carry, minute - carry*60
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// SlotClock devuelve la hora ajustada de una franja. ok=false si la franja no
// está en la tabla.
func SlotClock(slot medications.TimingSlot, rel medications.MealRelation) (hour, minute int, ok bool) {
	base, ok := baseTimes[slot]
	if !ok {
		return 0, 0, false
	}
	hour, minute = AdjustMealTime(base[0], base[1], rel)
	return hour, minute, true
}

// BuildOccurrences expande cada entrada día por día: DurationDays × franjas.
// Una entrada sin franjas genera una toma a las 09:00 por día.
func BuildOccurrences(entries []medications.Entry, start time.Time) ([]Occurrence, error) {
	if start.IsZero() {
		return nil, ErrInvalidStartDate
	}
	day0 := dateOnly(start)

	out := make([]Occurrence, 0)
	for _, e := range entries {
		if e.DurationDays < 1 {
			return nil, fmt.Errorf("%w: %q has duration %d", ErrInvalidEntry, e.Name, e.DurationDays)
		}
		for offset := 0; offset < e.DurationDays; offset++ {
			out = append(out, entryOccurrences(e, day0.AddDate(0, 0, offset))...)
		}
	}
	return out, nil
}

// BuildFlat arma una toma por franja solo para el día de inicio. Es lo que se
// muestra apenas se escanea un documento.
func BuildFlat(entries []medications.Entry, start time.Time) ([]Occurrence, error) {
	if start.IsZero() {
		return nil, ErrInvalidStartDate
	}
	day := dateOnly(start)

	out := make([]Occurrence, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryOccurrences(e, day)...)
	}
	return out, nil
}

func entryOccurrences(e medications.Entry, day time.Time) []Occurrence {
	out := make([]Occurrence, 0, len(e.Slots))
	for _, slot := range e.Slots {
		h, m, ok := SlotClock(slot, e.MealRelation)
		if !ok {
			continue
		}
		out = append(out, Occurrence{
			DrugName:     e.Name,
			Label:        fmt.Sprintf("%s (%s)", e.Name, slot.Label()),
			Dose:         e.Dose,
			Slot:         slot,
			MealRelation: e.MealRelation,
			At:           atClock(day, h, m),
			Time:         formatClock(h, m),
			Notify:       true,
		})
	}

	if len(out) == 0 {
		out = append(out, Occurrence{
			DrugName:     e.Name,
			Label:        e.Name,
			Dose:         e.Dose,
			MealRelation: e.MealRelation,
			At:           atClock(day, 9, 0),
			Time:         fallbackClock,
			Notify:       true,
		})
	}
	return out
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func atClock(day time.Time, hour, minute int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, day.Location())
}

func formatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
