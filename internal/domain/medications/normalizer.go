package medications

import (
	"regexp"
	"strconv"
	"strings"

	"medipin-ocr/internal/domain/documents"
)

const DefaultDurationDays = 3

var (
	parenRe      = regexp.MustCompile(`\(.*?\)`)
	firstNumRe   = regexp.MustCompile(`\d+\.?\d*`)
	dailyCountRe = regexp.MustCompile(`(?:1일|하루)\s*(\d+)\s*회`)
)

var slotKeywords = []struct {
	keyword string
	slot    TimingSlot
}{
	{"아침", SlotMorning},
	{"점심", SlotLunch},
	{"저녁", SlotEvening},
	{"취침", SlotBedtime},
}

// Normalize canoniza las entradas crudas. Entradas sin nombre se descartan.
func Normalize(entries []documents.ParsedEntry, defaults Defaults) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		name := CleanName(e.Name)
		if name == "" {
			continue
		}

		out = append(out, Entry{
			Name:            name,
			Dose:            NormalizeDose(e.Dose),
			FrequencyPerDay: DetectFrequency(e.Timing),
			Slots:           DetectSlots(e.Timing),
			MealRelation:    resolveMealRelation(e, defaults),
			DurationDays:    resolveDuration(e, defaults),
		})
	}
	return out
}

// CleanName quita anotaciones entre paréntesis y la unidad final (정 / 정제).
func CleanName(name string) string {
	name = parenRe.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)
	for _, suffix := range []string{"정제", "정"} {
		if strings.HasSuffix(name, suffix) {
			name = strings.TrimSpace(strings.TrimSuffix(name, suffix))
			break
		}
	}
	return name
}

// NormalizeDose devuelve la cantidad de comprimidos.
func NormalizeDose(raw string) float64 {
	if strings.Contains(raw, "½") || strings.Contains(raw, "0.5") {
		return 0.5
	}
	if m := firstNumRe.FindString(raw); m != "" {
		if v, err := strconv.ParseFloat(m, 64); err == nil && v > 0 {
			return v
		}
	}
	return 1
}

// DetectSlots arma el set de horarios por keywords; sin keywords => mañana.
func DetectSlots(timing string) []TimingSlot {
	out := make([]TimingSlot, 0, len(slotKeywords))
	for _, k := range slotKeywords {
		if strings.Contains(timing, k.keyword) {
			out = append(out, k.slot)
		}
	}
	if len(out) == 0 {
		out = append(out, SlotMorning)
	}
	return out
}

// DetectFrequency lee la frecuencia explícita. Es informativa: el horario
// real lo definen los slots.
func DetectFrequency(timing string) int {
	if m := dailyCountRe.FindStringSubmatch(timing); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 {
			return n
		}
	}
	switch {
	case strings.Contains(timing, "BID"):
		return 2
	case strings.Contains(timing, "TID"):
		return 3
	case strings.Contains(timing, "QID"):
		return 4
	case strings.Contains(timing, "QD"):
		return 1
	}
	return 1
}

// ParseMealRelation: 식전 => antes, 식후 => después, otro texto => NONE.
// Texto vacío devuelve ok=false.
func ParseMealRelation(text string) (MealRelation, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	if rel := MealRelation(strings.ToUpper(text)); rel.Valid() {
		return rel, true
	}
	switch {
	case strings.Contains(text, "식전"):
		return BeforeMeal, true
	case strings.Contains(text, "식후"):
		return AfterMeal, true
	default:
		return NoMeal, true
	}
}

func resolveMealRelation(e documents.ParsedEntry, defaults Defaults) MealRelation {
	if rel, ok := ParseMealRelation(e.MealRelation); ok {
		return rel
	}
	if rel, ok := ParseMealRelation(defaults.MealRelation); ok {
		return rel
	}
	// Sin relación explícita, el horario a veces la trae ("식후 30분").
	if strings.Contains(e.Timing, "식전") {
		return BeforeMeal
	}
	if strings.Contains(e.Timing, "식후") {
		return AfterMeal
	}
	return AfterMeal
}

func resolveDuration(e documents.ParsedEntry, defaults Defaults) int {
	if defaults.DurationDays > 0 {
		return defaults.DurationDays
	}
	if e.Days > 0 {
		return e.Days
	}
	return DefaultDurationDays
}
