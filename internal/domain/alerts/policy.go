package alerts

import "medipin-ocr/internal/domain/reconcile"

const (
	DefaultLowThreshold = 0.4
	DefaultMidThreshold = 0.7
)

type Policy struct {
	Low float64
	Mid float64
}

func NewPolicy(low, mid float64) Policy {
	if low <= 0 {
		low = DefaultLowThreshold
	}
	if mid <= 0 {
		mid = DefaultMidThreshold
	}
	if mid < low {
		mid = low
	}
	return Policy{Low: low, Mid: mid}
}

// Decide calcula el nivel por confianza. Si hay comparación receta/sobre y no
// es segura, manda la comparación: como mínimo WARNING, DANGER si falta un
// medicamento recetado.
func (p Policy) Decide(confidence float64, rec *reconcile.Result) Alert {
	alert := p.fromConfidence(confidence)

	if rec == nil || rec.IsSafe {
		return alert
	}

	recAlert := New(LevelWarning, ReasonBagMismatch)
	if len(rec.MissingInBag) > 0 {
		recAlert = New(LevelDanger, ReasonMissingMedicine)
	}

	if recAlert.Level.AtLeast(alert.Level) {
		return recAlert
	}
	return alert
}

func (p Policy) fromConfidence(confidence float64) Alert {
	switch {
	case confidence < p.Low:
		return New(LevelDanger, ReasonLowConfidence)
	case confidence < p.Mid:
		return New(LevelWarning, ReasonMediumConfidence)
	default:
		return Normal()
	}
}
