package scans

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// multipart en memoria; lo que exceda va a disco temporal.
const multipartMemory = 8 << 20

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/ocr", func(or chi.Router) {
		or.Post("/read", readHandler(svc))
		or.Post("/compare", compareHandler(svc))
	})
}

// readHandler godoc
// @Summary Leer receta o sobre de medicamentos
// @Description Corre OCR sobre la imagen, clasifica el documento (receta / sobre), extrae los medicamentos y arma horario + eventos de calendario. Imágenes idénticas se devuelven desde la caché.
// @Tags ocr
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Imagen png/jpg/jpeg (máx. 5 MB)"
// @Success 200 {object} ReadResponse
// @Failure 400 {string} string "archivo faltante o formato inválido"
// @Failure 413 {string} string "archivo demasiado grande"
// @Failure 502 {string} string "falla del motor OCR"
// @Router /ocr/read [post]
func readHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, svc.maxUploadBytes+(1<<20))
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			writeUploadError(w, err)
			return
		}

		fh := firstFile(r.MultipartForm, "file")
		if fh == nil {
			http.Error(w, "file is required", http.StatusBadRequest)
			return
		}

		up, err := readUpload(fh)
		if err != nil {
			http.Error(w, "cannot read file", http.StatusBadRequest)
			return
		}

		resp, err := svc.Read(r.Context(), up)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// compareHandler godoc
// @Summary Comparar receta contra sobre
// @Description Recibe exactamente dos imágenes (receta + sobre), las cruza por nombre y dosis y devuelve el nivel de alerta. Si coinciden, incluye horario y calendario armados desde el sobre.
// @Tags ocr
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Dos imágenes png/jpg/jpeg"
// @Success 200 {object} CompareResponse
// @Failure 400 {string} string "formulario inválido"
// @Failure 413 {string} string "archivo demasiado grande"
// @Failure 502 {string} string "falla del motor OCR"
// @Router /ocr/compare [post]
func compareHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 2*svc.maxUploadBytes+(1<<20))
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			writeUploadError(w, err)
			return
		}

		var files []*multipart.FileHeader
		if r.MultipartForm != nil {
			files = r.MultipartForm.File["files"]
		}

		uploads := make([]Upload, 0, len(files))
		for _, fh := range files {
			up, err := readUpload(fh)
			if err != nil {
				http.Error(w, "cannot read file", http.StatusBadRequest)
				return
			}
			uploads = append(uploads, up)
		}

		resp, err := svc.Compare(r.Context(), uploads)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func firstFile(form *multipart.Form, field string) *multipart.FileHeader {
	if form == nil {
		return nil
	}
	files := form.File[field]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

func readUpload(fh *multipart.FileHeader) (Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return Upload{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return Upload{}, err
	}
	return Upload{Filename: fh.Filename, Data: data}, nil
}

func writeUploadError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		http.Error(w, ErrUploadTooLarge.Error(), http.StatusRequestEntityTooLarge)
		return
	}
	http.Error(w, "invalid multipart form", http.StatusBadRequest)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidUpload):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrUploadTooLarge):
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
	case errors.Is(err, ErrOCRFailed):
		http.Error(w, "ocr failed", http.StatusBadGateway)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
