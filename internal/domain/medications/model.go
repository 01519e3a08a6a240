package medications

type TimingSlot string

const (
	SlotMorning TimingSlot = "MORNING"
	SlotLunch   TimingSlot = "LUNCH"
	SlotEvening TimingSlot = "EVENING"
	SlotBedtime TimingSlot = "BEDTIME"
)

// AllSlots en orden del día.
var AllSlots = []TimingSlot{SlotMorning, SlotLunch, SlotEvening, SlotBedtime}

// Label devuelve el nombre que se muestra al usuario.
func (s TimingSlot) Label() string {
	switch s {
	case SlotMorning:
		return "아침"
	case SlotLunch:
		return "점심"
	case SlotEvening:
		return "저녁"
	case SlotBedtime:
		return "취침전"
	default:
		return string(s)
	}
}

func (s TimingSlot) Valid() bool {
	switch s {
	case SlotMorning, SlotLunch, SlotEvening, SlotBedtime:
		return true
	}
	return false
}

type MealRelation string

const (
	BeforeMeal MealRelation = "BEFORE_MEAL"
	AfterMeal  MealRelation = "AFTER_MEAL"
	NoMeal     MealRelation = "NONE"
)

func (m MealRelation) Valid() bool {
	switch m {
	case BeforeMeal, AfterMeal, NoMeal:
		return true
	}
	return false
}

// Entry es un medicamento ya canonizado. No se modifica después de Normalize.
type Entry struct {
	Name            string       `json:"name"`
	Dose            float64      `json:"dose"` // comprimidos
	FrequencyPerDay int          `json:"frequency_per_day"`
	Slots           []TimingSlot `json:"timing"`
	MealRelation    MealRelation `json:"meal_relation"`
	DurationDays    int          `json:"days"`
}

// Defaults son los valores a nivel documento.
type Defaults struct {
	MealRelation string
	DurationDays int
}
