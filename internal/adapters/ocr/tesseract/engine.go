package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"medipin-ocr/internal/ports/ocr"
)

// Idiomas por defecto: recetas y sobres mezclan hangul con nombres en latín.
var DefaultLanguages = []string{"kor", "eng"}

// Engine corre Tesseract vía gosseract. Un cliente por llamada: el cliente
// no es seguro para uso concurrente.
type Engine struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

func NewEngine(languages ...string) *Engine {
	if len(languages) == 0 {
		languages = DefaultLanguages
	}
	return &Engine{languages: languages, clientFactory: gosseract.NewClient}
}

func (e *Engine) Recognize(ctx context.Context, image []byte) (ocr.Result, error) {
	if err := ctx.Err(); err != nil {
		return ocr.Result{}, err
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetLanguage(e.languages...); err != nil {
		return ocr.Result{}, fmt.Errorf("set languages: %w", err)
	}
	if err := c.SetImageFromBytes(image); err != nil {
		return ocr.Result{}, fmt.Errorf("set image: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return ocr.Result{}, fmt.Errorf("recognize text: %w", err)
	}

	return ocr.Result{
		Text:       strings.TrimSpace(text),
		Confidence: averageWordConfidence(c),
	}, nil
}

// averageWordConfidence promedia la confianza por palabra (0-100 => 0-1).
func averageWordConfidence(c *gosseract.Client) float64 {
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return 0
	}
	var sum float64
	for _, b := range boxes {
		sum += b.Confidence / 100.0
	}
	return sum / float64(len(boxes))
}
