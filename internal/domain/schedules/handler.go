package schedules

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"medipin-ocr/internal/domain/medications"
	"medipin-ocr/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/medication/schedule", func(sr chi.Router) {
		sr.Post("/", registerHandler(svc))
		sr.Get("/", listHandler(svc))
		sr.Patch("/{scheduleID}/taken", markTakenHandler(svc))
		sr.Delete("/{scheduleID}", deleteHandler(svc))
	})
}

type medicationRequest struct {
	Name         string   `json:"name"`
	Dose         float64  `json:"dose"`
	Timing       []string `json:"timing"` // MORNING|LUNCH|EVENING|BEDTIME
	MealRelation string   `json:"meal_relation"`
	Days         int      `json:"days"`
}

type registerRequest struct {
	StartDate   string              `json:"start_date"` // YYYY-MM-DD opcional
	Memo        string              `json:"memo"`
	Notify      *bool               `json:"notify"`
	Medications []medicationRequest `json:"medications"`
}

type registerResponse struct {
	Created int              `json:"created"`
	Skipped int              `json:"skipped"`
	Message string           `json:"message"`
	Items   []recordResponse `json:"items"`
}

type takenRequest struct {
	Taken *bool `json:"taken"`
}

type recordResponse struct {
	ID           string    `json:"id"`
	PillName     string    `json:"pill_name"`
	Dose         float64   `json:"dose"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	Timing       string    `json:"timing,omitempty"`
	MealRelation string    `json:"meal_relation"`
	Memo         string    `json:"memo"`
	Notify       bool      `json:"notify"`
	IsTaken      bool      `json:"is_taken"`
	CreatedAt    time.Time `json:"created_at"`
}

// registerHandler godoc
// @Summary Registrar horario de medicación
// @Description Expande los medicamentos (normalmente los devueltos por /ocr/read) día por día desde start_date y guarda una toma por medicamento, fecha y hora. Las tomas ya registradas se saltean. Usuario: header `X-User-ID` (lo setea el gateway).
// @Tags medication
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ID del usuario"
// @Param payload body registerRequest true "Medicamentos y fecha de inicio"
// @Success 201 {object} registerResponse
// @Failure 400 {string} string "invalid json / datos inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 409 {string} string "todas las tomas ya estaban registradas"
// @Router /medication/schedule [post]
func registerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var start time.Time
		if strings.TrimSpace(req.StartDate) != "" {
			t, err := time.Parse(dateLayout, req.StartDate)
			if err != nil {
				http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			start = t
		}

		res, err := svc.Register(r.Context(), userID, RegisterInput{
			Medications: toEntries(req.Medications),
			StartDate:   start,
			Memo:        req.Memo,
			Notify:      req.Notify,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrAllDuplicates):
				http.Error(w, fmt.Sprintf("모든 일정이 이미 등록되어 있습니다. (중복 제외: %d건)", res.Skipped), http.StatusConflict)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		items := make([]recordResponse, 0, len(res.Created))
		for _, rec := range res.Created {
			items = append(items, toRecordResponse(rec))
		}

		writeJSON(w, http.StatusCreated, registerResponse{
			Created: len(res.Created),
			Skipped: res.Skipped,
			Message: fmt.Sprintf("총 %d건의 복약 일정이 등록되었습니다. (중복 제외: %d건)", len(res.Created), res.Skipped),
			Items:   items,
		})
	}
}

// listHandler godoc
// @Summary Listar horario de medicación
// @Description Lista las tomas registradas del usuario. Con year y month filtra por ese mes.
// @Tags medication
// @Produce json
// @Param X-User-ID header string true "ID del usuario"
// @Param year query int false "Año (requiere month)"
// @Param month query int false "Mes 1-12 (requiere year)"
// @Success 200 {array} recordResponse
// @Failure 400 {string} string "year/month inválidos"
// @Failure 401 {string} string "unauthorized"
// @Router /medication/schedule [get]
func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		q := r.URL.Query()
		year, errY := atoiOptional(q.Get("year"))
		month, errM := atoiOptional(q.Get("month"))
		if errY != nil || errM != nil || (year == 0) != (month == 0) {
			http.Error(w, "year and month must be provided together as integers", http.StatusBadRequest)
			return
		}

		items, err := svc.ListByUser(r.Context(), userID, year, month)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "invalid year/month", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]recordResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, toRecordResponse(rec))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// markTakenHandler godoc
// @Summary Marcar toma como realizada
// @Tags medication
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ID del usuario"
// @Param scheduleID path string true "ID de la toma"
// @Param payload body takenRequest false "taken (default true)"
// @Success 200 {object} recordResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "schedule not found"
// @Router /medication/schedule/{scheduleID}/taken [patch]
func markTakenHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		taken := true
		if r.ContentLength != 0 {
			var req takenRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
			if req.Taken != nil {
				taken = *req.Taken
			}
		}

		rec, err := svc.MarkTaken(r.Context(), userID, chi.URLParam(r, "scheduleID"), taken)
		if err != nil {
			writeLookupError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRecordResponse(rec))
	}
}

// deleteHandler godoc
// @Summary Borrar toma
// @Tags medication
// @Param X-User-ID header string true "ID del usuario"
// @Param scheduleID path string true "ID de la toma"
// @Success 204 {string} string "deleted"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "schedule not found"
// @Router /medication/schedule/{scheduleID} [delete]
func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), userID, chi.URLParam(r, "scheduleID")); err != nil {
			writeLookupError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toEntries(in []medicationRequest) []medications.Entry {
	out := make([]medications.Entry, 0, len(in))
	for _, m := range in {
		slots := make([]medications.TimingSlot, 0, len(m.Timing))
		for _, t := range m.Timing {
			slots = append(slots, medications.TimingSlot(strings.ToUpper(strings.TrimSpace(t))))
		}

		rel := medications.MealRelation(strings.ToUpper(strings.TrimSpace(m.MealRelation)))
		if rel == "" {
			rel = medications.AfterMeal
		}
		days := m.Days
		if days == 0 {
			days = medications.DefaultDurationDays
		}

		out = append(out, medications.Entry{
			Name:            strings.TrimSpace(m.Name),
			Dose:            m.Dose,
			FrequencyPerDay: max(1, len(slots)),
			Slots:           slots,
			MealRelation:    rel,
			DurationDays:    days,
		})
	}
	return out
}

func toRecordResponse(r Record) recordResponse {
	return recordResponse{
		ID:           r.ID,
		PillName:     r.PillName,
		Dose:         r.Dose,
		Date:         r.Date.Format(dateLayout),
		Time:         r.Time,
		Timing:       string(r.Slot),
		MealRelation: string(r.MealRelation),
		Memo:         r.Memo,
		Notify:       r.Notify,
		IsTaken:      r.Taken,
		CreatedAt:    r.CreatedAt,
	}
}

func atoiOptional(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func writeLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "schedule not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, "invalid input", http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
