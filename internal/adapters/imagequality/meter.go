package imagequality

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"

	// decoders registrados para image.Decode
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	ErrEmptyImage    = errors.New("empty image")
	ErrImageTooLarge = errors.New("image too large")
)

const (
	DefaultMaxSide   = 640
	DefaultMaxPixels = 40_000_000

	// Varianza del laplaciano a partir de la cual la foto se considera nítida.
	sharpVariance = 500.0
	// Desvío de luminancia de una foto con buen contraste.
	goodStdDev = 60.0
)

// Meter estima qué tan legible es una foto: mezcla nitidez (varianza del
// laplaciano) y contraste (desvío de la luminancia). Devuelve [0,1].
type Meter struct {
	MaxSide int
	// Tope de ancho*alto antes de decodificar; <= 0 => DefaultMaxPixels.
	MaxPixels int
}

func NewMeter() *Meter {
	return &Meter{MaxSide: DefaultMaxSide, MaxPixels: DefaultMaxPixels}
}

func (m *Meter) Measure(data []byte) (float64, error) {
	if len(data) == 0 {
		return 0, ErrEmptyImage
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("decode image config: %w", err)
	}
	limit := m.MaxPixels
	if limit <= 0 {
		limit = DefaultMaxPixels
	}
	if cfg.Height > 0 && cfg.Width > limit/cfg.Height {
		return 0, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("decode image: %w", err)
	}

	gray := m.grayscale(img)
	b := gray.Bounds()
	if b.Dx() < 3 || b.Dy() < 3 {
		return 0, nil
	}

	sharp := math.Min(laplacianVariance(gray)/sharpVariance, 1)
	contrast := math.Min(luminanceStdDev(gray)/goodStdDev, 1)

	return 0.6*sharp + 0.4*contrast, nil
}

// grayscale reduce la imagen para que el lado mayor no supere MaxSide.
func (m *Meter) grayscale(src image.Image) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	maxSide := m.MaxSide
	if maxSide <= 0 {
		maxSide = DefaultMaxSide
	}
	if side := max(w, h); side > maxSide {
		w = max(1, w*maxSide/side)
		h = max(1, h*maxSide/side)
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func laplacianVariance(g *image.Gray) float64 {
	b := g.Bounds()
	var sum, sumSq float64
	n := 0
	for y := b.Min.Y + 1; y < b.Max.Y-1; y++ {
		for x := b.Min.X + 1; x < b.Max.X-1; x++ {
			v := 4*lum(g, x, y) - lum(g, x-1, y) - lum(g, x+1, y) - lum(g, x, y-1) - lum(g, x, y+1)
			sum += v
			sumSq += v * v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	mean := sum / float64(n)
	return sumSq/float64(n) - mean*mean
}

func luminanceStdDev(g *image.Gray) float64 {
	var sum, sumSq float64
	for _, p := range g.Pix {
		v := float64(p)
		sum += v
		sumSq += v * v
	}
	n := float64(len(g.Pix))
	if n == 0 {
		return 0
	}
	mean := sum / n
	return math.Sqrt(math.Max(sumSq/n-mean*mean, 0))
}

func lum(g *image.Gray, x, y int) float64 {
	return float64(g.GrayAt(x, y).Y)
}
