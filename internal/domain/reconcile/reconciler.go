package reconcile

import (
	"strings"
	"unicode"

	"medipin-ocr/internal/domain/medications"
)

type Pair struct {
	Prescription     string  `json:"prescription"`
	Bag              string  `json:"medicine_bag"`
	PrescriptionDose float64 `json:"prescription_dose"`
	BagDose          float64 `json:"bag_dose"`
	DoseMatch        bool    `json:"dose_match"`
}

type Result struct {
	Matched      []Pair   `json:"matched"`
	MissingInBag []string `json:"missing_in_bag"`
	ExtraInBag   []string `json:"extra_in_bag"`
	IsSafe       bool     `json:"is_safe"`
}

// DoseMismatches cuenta los pares cuya dosis no coincide.
func (r Result) DoseMismatches() int {
	n := 0
	for _, p := range r.Matched {
		if !p.DoseMatch {
			n++
		}
	}
	return n
}

// Reconcile compara receta vs sobre. El match es por nombre normalizado
// (minúsculas, sin espacios): primero exacto, después por substring.
// Cada entrada del sobre se usa una sola vez.
func Reconcile(prescription, bag []medications.Entry) Result {
	rxKeys := keys(prescription)
	bagKeys := keys(bag)

	rxMatch := make([]int, len(prescription))
	for i := range rxMatch {
		rxMatch[i] = -1
	}
	bagUsed := make([]bool, len(bag))

	pass := func(match func(a, b string) bool) {
		for i, rk := range rxKeys {
			if rxMatch[i] >= 0 {
				continue
			}
			for j, bk := range bagKeys {
				if bagUsed[j] || !match(rk, bk) {
					continue
				}
				rxMatch[i] = j
				bagUsed[j] = true
				break
			}
		}
	}
	pass(func(a, b string) bool { return a == b })
	pass(func(a, b string) bool {
		if a == "" || b == "" {
			return false
		}
		return strings.Contains(a, b) || strings.Contains(b, a)
	})

	out := Result{
		Matched:      make([]Pair, 0),
		MissingInBag: make([]string, 0),
		ExtraInBag:   make([]string, 0),
	}

	for i, rx := range prescription {
		j := rxMatch[i]
		if j < 0 {
			out.MissingInBag = append(out.MissingInBag, rx.Name)
			continue
		}
		b := bag[j]
		out.Matched = append(out.Matched, Pair{
			Prescription:     rx.Name,
			Bag:              b.Name,
			PrescriptionDose: rx.Dose,
			BagDose:          b.Dose,
			DoseMatch:        rx.Dose == b.Dose,
		})
	}
	for j, b := range bag {
		if !bagUsed[j] {
			out.ExtraInBag = append(out.ExtraInBag, b.Name)
		}
	}

	out.IsSafe = len(out.MissingInBag) == 0 &&
		len(out.ExtraInBag) == 0 &&
		out.DoseMismatches() == 0

	return out
}

func keys(entries []medications.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = matchKey(e.Name)
	}
	return out
}

func matchKey(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsSpace(r) {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
