package ocr

import "context"

// Result es el texto crudo que devuelve el motor.
type Result struct {
	Text string
	// Confidence promedio por palabra en [0,1]; 0 si el motor no la informa.
	Confidence float64
}

// Engine convierte una imagen (png/jpeg) en texto.
type Engine interface {
	Recognize(ctx context.Context, image []byte) (Result, error)
}
