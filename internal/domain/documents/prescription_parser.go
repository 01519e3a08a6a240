package documents

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultInstitutions es la lista de hospitales reconocidos en el encabezado.
// TODO: reemplazar por un catálogo de instituciones; hoy solo cubre el hospital de la demo.
var DefaultInstitutions = []string{"울산대학교병원"}

var (
	rxDateRe     = regexp.MustCompile(`(\d{4})년\s*(\d{1,2})월\s*(\d{1,2})일`)
	rxDoctorRe   = regexp.MustCompile(`의\s*사\s*([\w가-힣]+)`)
	rxNameRe     = regexp.MustCompile(`([가-힣A-Za-z\-]+)\s*정`)
	rxLineDoseRe = regexp.MustCompile(`(\d+(?:\.\d+)?|½)\s*정`)
)

type PrescriptionParser struct {
	Institutions []string

	hospitalRe *regexp.Regexp
}

func NewPrescriptionParser(institutions ...string) *PrescriptionParser {
	if len(institutions) == 0 {
		institutions = DefaultInstitutions
	}
	return &PrescriptionParser{
		Institutions: institutions,
		hospitalRe:   institutionPattern(institutions),
	}
}

// institutionPattern tolera espacios entre sílabas ("울산 대학교병원").
func institutionPattern(names []string) *regexp.Regexp {
	alts := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.Join(strings.Fields(n), "")
		if n == "" {
			continue
		}
		runes := []rune(n)
		parts := make([]string, 0, len(runes))
		for _, r := range runes {
			parts = append(parts, regexp.QuoteMeta(string(r)))
		}
		alts = append(alts, strings.Join(parts, `\s*`))
	}
	if len(alts) == 0 {
		return nil
	}
	return regexp.MustCompile("(" + strings.Join(alts, "|") + ")")
}

// ParsePrescription usa los hospitales por defecto.
func ParsePrescription(text string) Prescription {
	return NewPrescriptionParser().Parse(text)
}

// Parse es conservador: una línea solo cuenta como medicamento si trae la
// unidad "정" y una pista de horario (아침/BID/QD). No hay fallback difuso.
func (p *PrescriptionParser) Parse(text string) Prescription {
	text = NormalizeText(text)
	out := Prescription{Entries: []ParsedEntry{}}

	if p.hospitalRe != nil {
		if m := p.hospitalRe.FindStringSubmatch(text); m != nil {
			h := m[1]
			out.Hospital = &h
		}
	}

	if m := rxDateRe.FindStringSubmatch(text); m != nil {
		d := m[0]
		out.Date = &d
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if mo >= 1 && mo <= 12 && day >= 1 && day <= 31 {
			t := time.Date(y, time.Month(mo), day, 0, 0, 0, 0, time.UTC)
			out.IssuedOn = &t
		}
	}

	if m := rxDoctorRe.FindStringSubmatch(text); m != nil {
		d := m[1]
		out.Doctor = &d
	}

	for _, line := range strings.Split(text, "\n") {
		if !isPrescriptionMedicineLine(line) {
			continue
		}

		loc := rxNameRe.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}

		e := ParsedEntry{
			Name: line[loc[2]:loc[3]] + " 정",
		}
		if m := rxLineDoseRe.FindStringSubmatch(line[loc[1]:]); m != nil {
			e.Dose = m[1] + "정"
		}

		switch {
		case strings.Contains(line, "식후"):
			e.Timing = "식후 30분"
		case strings.Contains(line, "아침"):
			e.Timing = "아침"
		}

		out.Entries = append(out.Entries, e)
	}

	return out
}

func isPrescriptionMedicineLine(line string) bool {
	if !strings.Contains(line, "정") {
		return false
	}
	return strings.Contains(line, "아침") ||
		strings.Contains(line, "BID") ||
		strings.Contains(line, "QD")
}
