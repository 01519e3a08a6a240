package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"

	"medipin-ocr/internal/platform/config"
	"medipin-ocr/internal/ports/ocr"
	"medipin-ocr/internal/router"
)

const (
	bagText = "복약안내\n타이레놀정 500mg 1정씩 3회 3일분 아침 점심 저녁 식후\n"
	rxText  = "처방전\n의사 김철수\n타이레놀정 500mg 1정 아침 식후\n"
)

// fakeEngine devuelve el texto asociado al contenido de la imagen.
type fakeEngine struct {
	mu    sync.Mutex
	texts map[string]string
	calls int
}

func (f *fakeEngine) Recognize(_ context.Context, image []byte) (ocr.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return ocr.Result{Text: f.texts[string(image)], Confidence: 0.9}, nil
}

func (f *fakeEngine) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fixedMeter float64

func (m fixedMeter) Measure([]byte) (float64, error) { return float64(m), nil }

func newEngine() *fakeEngine {
	return &fakeEngine{texts: map[string]string{
		"bag-image": bagText,
		"rx-image":  rxText,
	}}
}

func newServer(t *testing.T, opts router.Options) *httptest.Server {
	t.Helper()
	if opts.Config.Port == "" {
		opts.Config = config.Default()
		opts.Config.RateLimitRPS = 1000
		opts.Config.RateLimitBurst = 1000
	}
	if opts.Meter == nil {
		opts.Meter = fixedMeter(0.9)
	}
	ts := httptest.NewServer(router.NewRouter(opts))
	t.Cleanup(ts.Close)
	return ts
}

type file struct {
	name string
	data string
}

type envelope struct {
	Success bool            `json:"success"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Alert   struct {
		Level string `json:"level"`
	} `json:"alert"`
}

func TestHTTP_Health(t *testing.T) {
	ts := newServer(t, router.Options{Engine: newEngine()})

	st, body := doReq(t, ts.URL, "GET", "/health", "", nil)
	if st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("expected 200 ok, got %d body=%s", st, string(body))
	}
}

func TestHTTP_ReadThenRegisterSchedule(t *testing.T) {
	engine := newEngine()
	ts := newServer(t, router.Options{Engine: engine})
	userID := "user-1"

	// 1) OCR del sobre
	st, body := doUpload(t, ts.URL, "/ocr/read", "file", file{"bag.png", "bag-image"})
	if st != http.StatusOK {
		t.Fatalf("expected 200 read, got %d body=%s", st, string(body))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !env.Success || env.Code != "OK" || env.Alert.Level != "NORMAL" {
		t.Fatalf("unexpected envelope: %+v", env)
	}

	var data struct {
		Type           string           `json:"type"`
		Medications    []map[string]any `json:"medications"`
		Schedule       []map[string]any `json:"schedule"`
		CalendarEvents []map[string]any `json:"calendar_events"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Type != "medicine_bag" {
		t.Fatalf("expected medicine_bag, got %q", data.Type)
	}
	if len(data.Medications) != 1 || len(data.Schedule) != 3 || len(data.CalendarEvents) != 9 {
		t.Fatalf("unexpected sizes meds=%d schedule=%d events=%d",
			len(data.Medications), len(data.Schedule), len(data.CalendarEvents))
	}

	// 2) Misma imagen otra vez => caché
	st, body = doUpload(t, ts.URL, "/ocr/read", "file", file{"bag.png", "bag-image"})
	if st != http.StatusOK {
		t.Fatalf("expected 200 cached read, got %d", st)
	}
	_ = json.Unmarshal(body, &env)
	if env.Message != "캐시된 OCR 결과 반환" {
		t.Fatalf("expected cached message, got %q", env.Message)
	}
	if engine.Calls() != 1 {
		t.Fatalf("expected 1 engine call, got %d", engine.Calls())
	}

	// 3) Registrar lo leído
	payload := map[string]any{
		"start_date":  "2026-03-01",
		"medications": data.Medications,
	}
	st, body = doReq(t, ts.URL, "POST", "/medication/schedule", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 register, got %d body=%s", st, string(body))
	}
	var reg struct {
		Created int `json:"created"`
		Items   []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	_ = json.Unmarshal(body, &reg)
	if reg.Created != 9 || len(reg.Items) != 9 {
		t.Fatalf("expected 9 created, got %d body=%s", reg.Created, string(body))
	}

	// 4) Repetir => todo duplicado
	st, _ = doReq(t, ts.URL, "POST", "/medication/schedule", userID, payload)
	if st != http.StatusConflict {
		t.Fatalf("expected 409 duplicates, got %d", st)
	}

	// 5) Listar el mes
	st, body = doReq(t, ts.URL, "GET", "/medication/schedule?year=2026&month=3", userID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 list, got %d", st)
	}
	var list []map[string]any
	_ = json.Unmarshal(body, &list)
	if len(list) != 9 {
		t.Fatalf("expected 9 items, got %d", len(list))
	}

	id := reg.Items[0].ID

	// 6) Otro usuario no ve la toma
	st, _ = doReq(t, ts.URL, "PATCH", "/medication/schedule/"+id+"/taken", "user-2", nil)
	if st != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign schedule, got %d", st)
	}

	// 7) Marcar tomada
	st, body = doReq(t, ts.URL, "PATCH", "/medication/schedule/"+id+"/taken", userID, map[string]any{"taken": true})
	if st != http.StatusOK {
		t.Fatalf("expected 200 mark taken, got %d body=%s", st, string(body))
	}
	var rec struct {
		IsTaken bool `json:"is_taken"`
	}
	_ = json.Unmarshal(body, &rec)
	if !rec.IsTaken {
		t.Fatalf("expected is_taken=true body=%s", string(body))
	}

	// 8) Borrar
	st, _ = doReq(t, ts.URL, "DELETE", "/medication/schedule/"+id, userID, nil)
	if st != http.StatusNoContent {
		t.Fatalf("expected 204 delete, got %d", st)
	}
	st, _ = doReq(t, ts.URL, "DELETE", "/medication/schedule/"+id, userID, nil)
	if st != http.StatusNotFound {
		t.Fatalf("expected 404 second delete, got %d", st)
	}
}

func TestHTTP_ScheduleRequiresUser(t *testing.T) {
	ts := newServer(t, router.Options{Engine: newEngine()})

	st, _ := doReq(t, ts.URL, "GET", "/medication/schedule", "", nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without user, got %d", st)
	}
}

func TestHTTP_ReadRejectsBadUploads(t *testing.T) {
	ts := newServer(t, router.Options{Engine: newEngine()})

	st, _ := doUpload(t, ts.URL, "/ocr/read", "file", file{"notes.txt", "bag-image"})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for txt, got %d", st)
	}

	st, _ = doUpload(t, ts.URL, "/ocr/read", "other", file{"bag.png", "bag-image"})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 without file field, got %d", st)
	}
}

func TestHTTP_Compare(t *testing.T) {
	ts := newServer(t, router.Options{Engine: newEngine()})

	st, body := doUpload(t, ts.URL, "/ocr/compare", "files",
		file{"rx.jpg", "rx-image"}, file{"bag.jpg", "bag-image"})
	if st != http.StatusOK {
		t.Fatalf("expected 200 compare, got %d body=%s", st, string(body))
	}

	var env envelope
	_ = json.Unmarshal(body, &env)
	if !env.Success || env.Code != "OK" || env.Alert.Level != "NORMAL" {
		t.Fatalf("unexpected envelope: %s", string(body))
	}

	var data struct {
		Comparison struct {
			IsSafe bool `json:"is_safe"`
		} `json:"comparison"`
		Schedule []map[string]any `json:"schedule"`
	}
	_ = json.Unmarshal(env.Data, &data)
	if !data.Comparison.IsSafe || len(data.Schedule) != 3 {
		t.Fatalf("expected safe comparison with schedule, got %s", string(body))
	}

	// un solo archivo
	st, body = doUpload(t, ts.URL, "/ocr/compare", "files", file{"rx.jpg", "rx-image"})
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d", st)
	}
	_ = json.Unmarshal(body, &env)
	if env.Success || env.Code != "INVALID_FILE_COUNT" {
		t.Fatalf("expected INVALID_FILE_COUNT, got %s", string(body))
	}
}

func TestHTTP_RedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	engine := newEngine()
	ts := newServer(t, router.Options{Engine: engine, Redis: rdb})

	for i := 0; i < 2; i++ {
		st, body := doUpload(t, ts.URL, "/ocr/read", "file", file{"bag.png", "bag-image"})
		if st != http.StatusOK {
			t.Fatalf("read %d: got %d body=%s", i, st, string(body))
		}
	}
	if engine.Calls() != 1 {
		t.Fatalf("expected 1 engine call, got %d", engine.Calls())
	}
	if len(mr.Keys()) != 1 {
		t.Fatalf("expected 1 redis key, got %v", mr.Keys())
	}
}

func TestHTTP_RateLimitOnOCR(t *testing.T) {
	cfg := config.Default()
	cfg.RateLimitRPS = 0.001
	cfg.RateLimitBurst = 1
	ts := newServer(t, router.Options{Config: cfg, Engine: newEngine()})

	st, _ := doUpload(t, ts.URL, "/ocr/read", "file", file{"bag.png", "bag-image"})
	if st != http.StatusOK {
		t.Fatalf("expected first request 200, got %d", st)
	}
	st, _ = doUpload(t, ts.URL, "/ocr/read", "file", file{"bag.png", "bag-image"})
	if st != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", st)
	}

	// /health no pasa por el limitador
	st, _ = doReq(t, ts.URL, "GET", "/health", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 health, got %d", st)
	}
}

func doUpload(t *testing.T, baseURL, path, field string, files ...file) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		fw, err := mw.CreateFormFile(field, f.name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		_, _ = fw.Write([]byte(f.data))
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req, err := http.NewRequest("POST", baseURL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}

func doReq(t *testing.T, baseURL, method, path, userID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
