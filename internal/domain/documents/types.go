package documents

import "time"

type DocumentType string

const (
	TypePrescription DocumentType = "prescription"
	TypeMedicineBag  DocumentType = "medicine_bag"
	TypeUnknown      DocumentType = "unknown"
)

// ParsedEntry es una línea de medicamento tal como sale del OCR, sin validar.
type ParsedEntry struct {
	Name         string `json:"name"`
	Dose         string `json:"dose,omitempty"`
	Timing       string `json:"timing,omitempty"`
	MealRelation string `json:"meal_relation,omitempty"`
	Days         int    `json:"days,omitempty"` // 0 = no informado
}

type Prescription struct {
	Hospital *string       `json:"hospital"`
	Doctor   *string       `json:"doctor"`
	Date     *string       `json:"date"`
	IssuedOn *time.Time    `json:"-"`
	Entries  []ParsedEntry `json:"medicines"`
}

type Label struct {
	Entries []ParsedEntry `json:"medicines"`
}
