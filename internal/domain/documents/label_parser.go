package documents

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	labelMarker      = "약품명"
	defaultLabelDose = "1정"
	defaultTiming    = "식후 30분"
	DefaultDays      = 3
)

var (
	// Nombre: arranca con letra (no dígito, así "1정씩" no se toma como fármaco)
	// y termina en la primera unidad.
	labelNameRe = regexp.MustCompile(`([가-힣A-Za-z][가-힣A-Za-z0-9]*?(?:정제|정|캡슐|시럽|액))`)
	labelDoseRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:정|캡슐|알)씩`)
	labelFreqRe = regexp.MustCompile(`(\d+)\s*회`)
	labelDaysRe = regexp.MustCompile(`(\d+)\s*일분`)
)

var slotKeywords = []string{"아침", "점심", "저녁", "취침"}

// ParseLabel extrae medicamentos de un sobre de farmacia, línea por línea.
func ParseLabel(text string) Label {
	text = NormalizeText(text)
	found := make([]ParsedEntry, 0)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) < 2 {
			continue
		}

		if i := strings.Index(line, labelMarker); i >= 0 {
			rest := strings.TrimLeft(strings.TrimSpace(line[i+len(labelMarker):]), ":：")
			if tokens := strings.Fields(rest); len(tokens) > 0 {
				found = append(found, ParsedEntry{
					Name:         tokens[0],
					Dose:         defaultLabelDose,
					Timing:       defaultTiming,
					MealRelation: "식후",
					Days:         DefaultDays,
				})
				continue
			}
		}

		m := labelNameRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		e := ParsedEntry{
			Name:   strings.TrimSpace(m[1]),
			Dose:   defaultLabelDose,
			Timing: defaultTiming,
			Days:   DefaultDays,
		}
		if dm := labelDoseRe.FindStringSubmatch(line); dm != nil {
			e.Dose = dm[1] + "정"
		}
		if fm := labelFreqRe.FindStringSubmatch(line); fm != nil {
			e.Timing = "하루 " + fm[1] + "회"
		}
		if slots := lineSlots(line); slots != "" {
			e.Timing += " " + slots
		}
		if dm := labelDaysRe.FindStringSubmatch(line); dm != nil {
			if n, err := strconv.Atoi(dm[1]); err == nil && n > 0 {
				e.Days = n
			}
		}
		switch {
		case strings.Contains(line, "식후"):
			e.MealRelation = "식후"
		case strings.Contains(line, "식전"):
			e.MealRelation = "식전"
		}

		found = append(found, e)
	}

	return Label{Entries: dedupeByName(found)}
}

func lineSlots(line string) string {
	out := make([]string, 0, len(slotKeywords))
	for _, k := range slotKeywords {
		if strings.Contains(line, k) {
			out = append(out, k)
		}
	}
	return strings.Join(out, " ")
}

// dedupeByName conserva la primera aparición y descarta nombres de 1 carácter.
func dedupeByName(in []ParsedEntry) []ParsedEntry {
	seen := make(map[string]struct{}, len(in))
	out := make([]ParsedEntry, 0, len(in))
	for _, e := range in {
		if utf8.RuneCountInString(e.Name) <= 1 {
			continue
		}
		if _, ok := seen[e.Name]; ok {
			continue
		}
		seen[e.Name] = struct{}{}
		out = append(out, e)
	}
	return out
}
