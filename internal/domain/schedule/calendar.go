package schedule

import (
	"strconv"
	"strings"
	"time"

	"medipin-ocr/internal/domain/alerts"
)

const defaultTitle = "약 복용"

type CalendarEvent struct {
	DateTime    string       `json:"datetime"`
	Date        string       `json:"date"`
	Time        string       `json:"time"`
	Title       string       `json:"title"`
	Notify      bool         `json:"notify"`
	AlertLevel  alerts.Level `json:"alert_level"`
	AlertReason *string      `json:"alert_reason"`
}

// ValidOccurrences descarta tomas sin hora resoluble y sin ningún nombre.
func ValidOccurrences(occs []Occurrence) []Occurrence {
	out := make([]Occurrence, 0, len(occs))
	for _, o := range occs {
		_, _, timeOK := parseClock(o.Time)
		hasLabel := strings.TrimSpace(o.Label) != "" || strings.TrimSpace(o.DrugName) != ""
		if !timeOK && !hasLabel {
			continue
		}
		out = append(out, o)
	}
	return out
}

// Expand proyecta las tomas sobre `days` días desde start. Todas las
// entradas llevan la misma alerta: se calcula una vez por ejecución.
func Expand(occs []Occurrence, start time.Time, days int, alert alerts.Alert) []CalendarEvent {
	if days < 1 {
		days = 1
	}
	day0 := dateOnly(start)

	out := make([]CalendarEvent, 0, days*len(occs))
	for offset := 0; offset < days; offset++ {
		day := day0.AddDate(0, 0, offset)

		for _, o := range occs {
			h, m, ok := parseClock(o.Time)
			if !ok {
				h, m = 9, 0
			}
			at := atClock(day, h, m)

			out = append(out, CalendarEvent{
				DateTime:    at.Format("2006-01-02T15:04:05"),
				Date:        at.Format("2006-01-02"),
				Time:        formatClock(h, m),
				Title:       eventTitle(o),
				Notify:      o.Notify,
				AlertLevel:  alert.Level,
				AlertReason: alert.Reason,
			})
		}
	}
	return out
}

func eventTitle(o Occurrence) string {
	if s := strings.TrimSpace(o.Label); s != "" {
		return s
	}
	if s := strings.TrimSpace(o.DrugName); s != "" {
		return s
	}
	return defaultTitle
}

func parseClock(s string) (int, int, bool) {
	hs, ms, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		return 0, 0, false
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(ms)
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}
