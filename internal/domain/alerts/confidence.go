package alerts

import "math"

// Scorer convierte una señal de calidad de imagen en un score de legibilidad
// en [0,1]. Debe ser determinista y no decreciente respecto de la señal.
type Scorer interface {
	Score(signal float64) float64
}

// LinearScorer mapea [Floor, Ceil] a [0,1] y satura fuera del rango.
type LinearScorer struct {
	Floor float64
	Ceil  float64
}

func NewLinearScorer() LinearScorer {
	return LinearScorer{Floor: 0, Ceil: 1}
}

func (s LinearScorer) Score(signal float64) float64 {
	if math.IsNaN(signal) {
		return 0
	}
	span := s.Ceil - s.Floor
	if span <= 0 {
		if signal >= s.Ceil {
			return 1
		}
		return 0
	}
	v := (signal - s.Floor) / span
	return clamp01(v)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
