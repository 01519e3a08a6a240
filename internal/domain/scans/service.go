package scans

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"medipin-ocr/internal/domain/alerts"
	"medipin-ocr/internal/domain/documents"
	"medipin-ocr/internal/domain/medications"
	"medipin-ocr/internal/domain/reconcile"
	"medipin-ocr/internal/domain/schedule"
	"medipin-ocr/internal/platform/logger"
	"medipin-ocr/internal/ports/ocr"
)

var (
	ErrInvalidUpload  = errors.New("only png/jpg/jpeg images are accepted")
	ErrUploadTooLarge = errors.New("upload too large")
	ErrOCRFailed      = errors.New("ocr failed")
)

const (
	DefaultMaxUploadBytes = 5 << 20
	DefaultCalendarDays   = 3
	minLegibleRunes       = 5
)

var allowedExt = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

type Service struct {
	engine ocr.Engine
	meter  QualityMeter
	scorer alerts.Scorer
	policy alerts.Policy
	cache  Cache
	log    logger.Logger

	rxParser *documents.PrescriptionParser

	calendarDays   int
	maxUploadBytes int64

	now func() time.Time
}

type Options struct {
	Engine ocr.Engine
	Meter  QualityMeter // opcional; sin meter se usa la confianza del motor
	Scorer alerts.Scorer
	Policy alerts.Policy
	Cache  Cache // opcional; nil => siempre miss
	Logger logger.Logger

	// Hospitales reconocidos en recetas; vacío => documents.DefaultInstitutions.
	Institutions []string

	CalendarDays   int
	MaxUploadBytes int64
}

func NewService(opts Options) *Service {
	s := &Service{
		engine:         opts.Engine,
		meter:          opts.Meter,
		scorer:         opts.Scorer,
		policy:         opts.Policy,
		cache:          opts.Cache,
		log:            opts.Logger,
		rxParser:       documents.NewPrescriptionParser(opts.Institutions...),
		calendarDays:   opts.CalendarDays,
		maxUploadBytes: opts.MaxUploadBytes,
		now:            time.Now,
	}
	if s.scorer == nil {
		s.scorer = alerts.NewLinearScorer()
	}
	if s.policy == (alerts.Policy{}) {
		s.policy = alerts.NewPolicy(alerts.DefaultLowThreshold, alerts.DefaultMidThreshold)
	}
	if s.cache == nil {
		s.cache = noCache{}
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.calendarDays <= 0 {
		s.calendarDays = DefaultCalendarDays
	}
	if s.maxUploadBytes <= 0 {
		s.maxUploadBytes = DefaultMaxUploadBytes
	}
	return s
}

// Read procesa un documento. Bytes idénticos se resuelven desde la caché sin
// volver a correr OCR, clasificación ni alertas.
func (s *Service) Read(ctx context.Context, up Upload) (ReadResponse, error) {
	started := s.now()
	log := s.log.With(map[string]any{"filename": up.Filename})

	if err := s.validate(up); err != nil {
		log.Warn("invalid upload", map[string]any{"error": err, "size": len(up.Data)})
		return ReadResponse{}, err
	}

	hash := ContentHash(up.Data)
	log = log.With(map[string]any{"hash": hash})

	cached, ok, err := s.cache.Get(ctx, hash)
	if err != nil {
		// Caché caída => se comporta como miss.
		log.Warn("cache get failed", map[string]any{"error": err})
	}
	if err == nil && ok {
		log.Info("ocr cache hit", map[string]any{"elapsed_ms": s.now().Sub(started).Milliseconds()})
		resp := cached.Response
		resp.Alert = cached.Alert
		if resp.Success {
			resp.Message = "캐시된 OCR 결과 반환"
		}
		return resp, nil
	}

	text, confidence, err := s.recognize(ctx, up.Data)
	if err != nil {
		log.Error("ocr engine failed", map[string]any{"error": err})
		return ReadResponse{}, err
	}

	resp := s.Analyze(text, confidence)
	if resp.Code == CodeOCREmpty {
		resp.Data.Filename = up.Filename
	}

	if err := s.cache.Set(ctx, hash, CacheEntry{
		Response:  resp,
		Alert:     resp.Alert,
		CreatedAt: s.now(),
	}); err != nil {
		log.Warn("cache set failed", map[string]any{"error": err})
	}

	log.Info("ocr done", map[string]any{
		"code":       resp.Code,
		"type":       docType(resp),
		"elapsed_ms": s.now().Sub(started).Milliseconds(),
	})
	return resp, nil
}

// Analyze corre el pipeline sobre texto ya reconocido: clasificar, parsear,
// normalizar, armar horario y calendario.
func (s *Service) Analyze(text string, confidence float64) ReadResponse {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minLegibleRunes {
		return ReadResponse{
			Success: false,
			Code:    CodeOCREmpty,
			Message: "텍스트 인식에 실패했습니다. 다시 촬영해 주세요.",
			Data: &ReadData{
				Type:             documents.TypeUnknown,
				ParsedMedication: []documents.ParsedEntry{},
			},
			Alert: alerts.New(alerts.LevelWarning, "OCR 결과 부족"),
		}
	}

	docType := documents.Classify(text)
	alert := s.policy.Decide(confidence, nil)

	data := &ReadData{
		Type:       docType,
		Confidence: confidence,
	}

	var entries []documents.ParsedEntry
	switch docType {
	case documents.TypePrescription:
		p := s.rxParser.Parse(text)
		entries = p.Entries
		data.Prescription = &PrescriptionInfo{Hospital: p.Hospital, Doctor: p.Doctor, Date: p.Date}
		if p.IssuedOn != nil {
			d := p.IssuedOn.Format("2006-01-02")
			data.Prescription.IssuedOn = &d
		}
	case documents.TypeMedicineBag:
		entries = documents.ParseLabel(text).Entries
	default:
		// Documento no reconocido: igual se intenta leerlo como sobre.
		entries = documents.ParseLabel(text).Entries
		data.RawText = text
	}

	meds := medications.Normalize(entries, medications.Defaults{})
	occs := s.flatSchedule(meds)

	data.ParsedMedication = entries
	data.Medications = meds
	data.Schedule = occs
	data.CalendarEvents = s.calendar(occs, alert)

	resp := ReadResponse{Success: true, Code: CodeOK, Data: data, Alert: alert}
	switch docType {
	case documents.TypePrescription:
		resp.Message = "처방전 OCR 분석 성공"
	case documents.TypeMedicineBag:
		resp.Message = "약봉투 OCR 분석 성공"
	default:
		if len(entries) > 0 {
			resp.Message = "문서 유형이 불분명하지만 데이터를 추출했습니다."
		} else {
			resp.Success = false
			resp.Code = CodeUnknownDocument
			resp.Message = "문서 유형을 인식하지 못했습니다."
		}
	}
	return resp
}

// Compare cruza receta y sobre. Requiere exactamente dos archivos.
func (s *Service) Compare(ctx context.Context, uploads []Upload) (CompareResponse, error) {
	if len(uploads) != 2 {
		return CompareResponse{
			Success: false,
			Code:    CodeInvalidFileCount,
			Message: "이미지 2개(처방전 + 약봉투)를 업로드해야 합니다.",
			Alert:   alerts.New(alerts.LevelWarning, "입력 부족"),
		}, nil
	}

	var (
		rx      *documents.Prescription
		bag     *documents.Label
		bagConf float64
	)

	for _, up := range uploads {
		if err := s.validate(up); err != nil {
			if errors.Is(err, ErrUploadTooLarge) {
				return CompareResponse{}, fmt.Errorf("%s: %w", up.Filename, err)
			}
			s.log.Warn("compare: skipping file", map[string]any{"filename": up.Filename, "error": err})
			continue
		}

		text, confidence, err := s.recognize(ctx, up.Data)
		if err != nil {
			return CompareResponse{}, err
		}

		switch documents.Classify(text) {
		case documents.TypePrescription:
			p := s.rxParser.Parse(text)
			rx = &p
		case documents.TypeMedicineBag:
			l := documents.ParseLabel(text)
			bag = &l
			bagConf = confidence
		}
	}

	if rx == nil || bag == nil {
		return CompareResponse{
			Success: false,
			Code:    CodeMissingDocument,
			Message: "처방전과 약봉투가 모두 필요합니다.",
			Alert:   alerts.New(alerts.LevelWarning, "비교 불가"),
		}, nil
	}

	rxMeds := medications.Normalize(rx.Entries, medications.Defaults{})
	bagMeds := medications.Normalize(bag.Entries, medications.Defaults{})

	result := reconcile.Reconcile(rxMeds, bagMeds)
	alert := s.policy.Decide(bagConf, &result)

	data := &CompareData{
		Comparison:   result,
		Prescription: rxMeds,
		MedicineBag:  bagMeds,
	}
	if result.IsSafe {
		occs := s.flatSchedule(bagMeds)
		data.Schedule = occs
		data.CalendarEvents = s.calendar(occs, alert)
	}

	s.log.Info("compare done", map[string]any{
		"is_safe":        result.IsSafe,
		"missing_in_bag": len(result.MissingInBag),
		"extra_in_bag":   len(result.ExtraInBag),
		"alert":          alert.Level,
	})

	return CompareResponse{
		Success: true,
		Code:    CodeOK,
		Message: "처방전-약봉투 비교 완료",
		Data:    data,
		Alert:   alert,
	}, nil
}

func (s *Service) validate(up Upload) error {
	ext := strings.ToLower(filepath.Ext(up.Filename))
	if !allowedExt[ext] {
		return ErrInvalidUpload
	}
	if int64(len(up.Data)) > s.maxUploadBytes {
		return ErrUploadTooLarge
	}
	return nil
}

// recognize devuelve texto + confianza ya escalada a [0,1].
func (s *Service) recognize(ctx context.Context, image []byte) (string, float64, error) {
	if s.engine == nil {
		return "", 0, fmt.Errorf("%w: no engine configured", ErrOCRFailed)
	}
	res, err := s.engine.Recognize(ctx, image)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrOCRFailed, err)
	}

	signal := res.Confidence
	if s.meter != nil {
		if v, err := s.meter.Measure(image); err == nil {
			signal = v
		} else {
			s.log.Warn("image quality measure failed", map[string]any{"error": err})
		}
	}
	return res.Text, s.scorer.Score(signal), nil
}

// flatSchedule nunca falla hacia afuera: un error del builder deja la lista vacía.
func (s *Service) flatSchedule(meds []medications.Entry) []schedule.Occurrence {
	occs, err := schedule.BuildFlat(meds, s.now())
	if err != nil {
		s.log.Error("schedule building failed", map[string]any{"error": err})
		return []schedule.Occurrence{}
	}
	return occs
}

func (s *Service) calendar(occs []schedule.Occurrence, alert alerts.Alert) []schedule.CalendarEvent {
	valid := schedule.ValidOccurrences(occs)
	if dropped := len(occs) - len(valid); dropped > 0 {
		s.log.Warn("filtered invalid schedule items", map[string]any{"count": dropped})
	}
	return schedule.Expand(valid, s.now(), s.calendarDays, alert)
}

func docType(resp ReadResponse) string {
	if resp.Data == nil {
		return ""
	}
	return string(resp.Data.Type)
}
