package schedules

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"medipin-ocr/internal/domain/medications"
	"medipin-ocr/internal/domain/schedule"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("schedule not found")
	ErrAllDuplicates = errors.New("all schedule items already registered")
)

// MaxDurationDays acota cuántos días se expanden por medicamento.
const MaxDurationDays = 365

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type RegisterInput struct {
	Medications []medications.Entry
	StartDate   time.Time // zero => hoy
	Memo        string
	Notify      *bool // nil => true
}

type RegisterResult struct {
	Created []Record
	Skipped int
}

// Register expande los medicamentos día por día y guarda una fila por toma.
// Las tomas ya registradas se saltean y se cuentan.
func (s *Service) Register(ctx context.Context, userID string, in RegisterInput) (RegisterResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || len(in.Medications) == 0 {
		return RegisterResult{}, ErrInvalidInput
	}
	for _, m := range in.Medications {
		if err := validateEntry(m); err != nil {
			return RegisterResult{}, err
		}
	}

	start := in.StartDate
	if start.IsZero() {
		start = s.now()
	}
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	occs, err := schedule.BuildOccurrences(in.Medications, start)
	if err != nil {
		return RegisterResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	notify := true
	if in.Notify != nil {
		notify = *in.Notify
	}

	res := RegisterResult{Created: make([]Record, 0, len(occs))}
	for _, o := range occs {
		day := time.Date(o.At.Year(), o.At.Month(), o.At.Day(), 0, 0, 0, 0, time.UTC)

		exists, err := s.repo.Exists(ctx, userID, o.DrugName, day, o.Time)
		if err != nil {
			return RegisterResult{}, err
		}
		if exists {
			res.Skipped++
			continue
		}

		now := s.now()
		rec := Record{
			ID:           uuid.NewString(),
			UserID:       userID,
			PillName:     o.DrugName,
			Dose:         o.Dose,
			Date:         day,
			Time:         o.Time,
			Slot:         o.Slot,
			MealRelation: o.MealRelation,
			Memo:         strings.TrimSpace(in.Memo),
			Notify:       notify && o.Notify,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.repo.Create(ctx, rec); err != nil {
			return RegisterResult{}, err
		}
		res.Created = append(res.Created, rec)
	}

	if len(res.Created) == 0 {
		return res, ErrAllDuplicates
	}
	return res, nil
}

// ListByUser devuelve las tomas del usuario. Con year+month filtra por mes
// calendario; year=0 y month=0 => todo.
func (s *Service) ListByUser(ctx context.Context, userID string, year, month int) ([]Record, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	if year == 0 && month == 0 {
		return s.repo.ListByUser(ctx, userID, nil, nil)
	}
	if year < 1 || month < 1 || month > 12 {
		return nil, ErrInvalidInput
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	return s.repo.ListByUser(ctx, userID, &from, &to)
}

// MarkTaken marca (o desmarca) una toma. Una toma de otro usuario se trata
// como inexistente.
func (s *Service) MarkTaken(ctx context.Context, userID, id string, taken bool) (Record, error) {
	rec, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return Record{}, err
	}
	if rec.Taken == taken {
		return rec, nil
	}

	rec.Taken = taken
	rec.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) getOwned(ctx context.Context, userID, id string) (Record, error) {
	userID = strings.TrimSpace(userID)
	id = strings.TrimSpace(id)
	if userID == "" || id == "" {
		return Record{}, ErrInvalidInput
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if rec.UserID != userID {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func validateEntry(m medications.Entry) error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: medication name required", ErrInvalidInput)
	}
	if m.DurationDays < 1 || m.DurationDays > MaxDurationDays {
		return fmt.Errorf("%w: %s: days must be between 1 and %d", ErrInvalidInput, m.Name, MaxDurationDays)
	}
	if m.Dose < 0 {
		return fmt.Errorf("%w: %s: negative dose", ErrInvalidInput, m.Name)
	}
	if !m.MealRelation.Valid() {
		return fmt.Errorf("%w: %s: unknown meal relation %q", ErrInvalidInput, m.Name, m.MealRelation)
	}
	for _, slot := range m.Slots {
		if !slot.Valid() {
			return fmt.Errorf("%w: %s: unknown timing %q", ErrInvalidInput, m.Name, slot)
		}
	}
	return nil
}
