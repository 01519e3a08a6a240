package scans

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"medipin-ocr/internal/domain/alerts"
	"medipin-ocr/internal/domain/documents"
	"medipin-ocr/internal/domain/medications"
	"medipin-ocr/internal/domain/reconcile"
	"medipin-ocr/internal/domain/schedule"
)

const (
	CodeOK               = "OK"
	CodeOCREmpty         = "OCR_EMPTY"
	CodeUnknownDocument  = "UNKNOWN_DOCUMENT"
	CodeInvalidFileCount = "INVALID_FILE_COUNT"
	CodeMissingDocument  = "MISSING_DOCUMENT"
)

// Envelope es el formato común de respuesta.
type Envelope[T any] struct {
	Success bool         `json:"success"`
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Data    *T           `json:"data"`
	Alert   alerts.Alert `json:"alert"`
}

type ReadResponse = Envelope[ReadData]
type CompareResponse = Envelope[CompareData]

type ReadData struct {
	Type             documents.DocumentType   `json:"type"`
	Confidence       float64                  `json:"confidence"`
	ParsedMedication []documents.ParsedEntry  `json:"parsed_medication"`
	Medications      []medications.Entry      `json:"medications"`
	Schedule         []schedule.Occurrence    `json:"schedule"`
	CalendarEvents   []schedule.CalendarEvent `json:"calendar_events"`
	Prescription     *PrescriptionInfo        `json:"prescription_info,omitempty"`
	RawText          string                   `json:"raw_text,omitempty"`
	Filename         string                   `json:"filename,omitempty"`
}

type PrescriptionInfo struct {
	Hospital *string `json:"hospital"`
	Doctor   *string `json:"doctor"`
	Date     *string `json:"date"`
	// IssuedOn es Date en YYYY-MM-DD; sirve de start_date al registrar.
	IssuedOn *string `json:"issued_on,omitempty"`
}

type CompareData struct {
	Comparison     reconcile.Result         `json:"comparison"`
	Prescription   []medications.Entry      `json:"prescription"`
	MedicineBag    []medications.Entry      `json:"medicine_bag"`
	Schedule       []schedule.Occurrence    `json:"schedule,omitempty"`
	CalendarEvents []schedule.CalendarEvent `json:"calendar_events,omitempty"`
}

// Upload es un archivo tal como llegó del cliente.
type Upload struct {
	Filename string
	Data     []byte
}

// CacheEntry es lo que se memoriza por hash de contenido.
type CacheEntry struct {
	Response  ReadResponse `json:"response"`
	Alert     alerts.Alert `json:"alert"`
	CreatedAt time.Time    `json:"created_at"`
}

// Cache memoriza la salida completa del pipeline por hash de los bytes
// subidos. Set pisa cualquier entrada previa del mismo hash.
type Cache interface {
	Get(ctx context.Context, hash string) (CacheEntry, bool, error)
	Set(ctx context.Context, hash string, entry CacheEntry) error
}

// QualityMeter produce la señal de calidad de imagen que consume el Scorer.
type QualityMeter interface {
	Measure(image []byte) (float64, error)
}

// ContentHash es el SHA-256 hex de los bytes originales.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

type noCache struct{}

func (noCache) Get(context.Context, string) (CacheEntry, bool, error) {
	return CacheEntry{}, false, nil
}

func (noCache) Set(context.Context, string, CacheEntry) error { return nil }
