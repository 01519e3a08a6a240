package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config del servicio. Todo sale de variables de entorno; los valores vacíos
// quedan en sus defaults.
type Config struct {
	Port  string
	DBDSN string // vacío => repos in-memory

	Redis RedisConfig
	Cache CacheConfig
	OCR   OCRConfig
	Alert AlertConfig

	CalendarDays   int
	MaxUploadBytes int64
	Institutions   []string

	RateLimitRPS   float64
	RateLimitBurst int
}

type RedisConfig struct {
	Addr     string // vacío => caché en memoria
	Password string
	DB       int
}

type CacheConfig struct {
	TTL        time.Duration
	MaxEntries int
}

type OCRConfig struct {
	Engine    string // tesseract | remote
	RemoteURL string
	APIKey    string
	Languages []string
	Timeout   time.Duration
}

type AlertConfig struct {
	LowThreshold float64
	MidThreshold float64
}

func Default() Config {
	return Config{
		Port: "8080",
		Cache: CacheConfig{
			TTL:        24 * time.Hour,
			MaxEntries: 1000,
		},
		OCR: OCRConfig{
			Engine:    "tesseract",
			Languages: []string{"kor", "eng"},
			Timeout:   30 * time.Second,
		},
		Alert: AlertConfig{
			LowThreshold: 0.4,
			MidThreshold: 0.7,
		},
		CalendarDays:   3,
		MaxUploadBytes: 5 << 20,
		RateLimitRPS:   5,
		RateLimitBurst: 10,
	}
}

// Load lee la configuración del entorno:
//   - PORT, DB_DSN
//   - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB
//   - CACHE_TTL (duración Go, p.ej. 12h), CACHE_MAX_ENTRIES
//   - OCR_ENGINE, OCR_REMOTE_URL, OCR_API_KEY, OCR_LANGUAGES (csv), OCR_TIMEOUT
//   - ALERT_LOW_THRESHOLD, ALERT_MID_THRESHOLD
//   - CALENDAR_DAYS, MAX_UPLOAD_BYTES, RX_INSTITUTIONS (csv)
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	c := Default()
	p := parser{getenv: getenv}

	p.str("PORT", &c.Port)
	p.str("DB_DSN", &c.DBDSN)

	p.str("REDIS_ADDR", &c.Redis.Addr)
	p.str("REDIS_PASSWORD", &c.Redis.Password)
	p.integer("REDIS_DB", &c.Redis.DB)

	p.duration("CACHE_TTL", &c.Cache.TTL)
	p.integer("CACHE_MAX_ENTRIES", &c.Cache.MaxEntries)

	p.str("OCR_ENGINE", &c.OCR.Engine)
	p.str("OCR_REMOTE_URL", &c.OCR.RemoteURL)
	p.str("OCR_API_KEY", &c.OCR.APIKey)
	p.list("OCR_LANGUAGES", &c.OCR.Languages)
	p.duration("OCR_TIMEOUT", &c.OCR.Timeout)

	p.float("ALERT_LOW_THRESHOLD", &c.Alert.LowThreshold)
	p.float("ALERT_MID_THRESHOLD", &c.Alert.MidThreshold)

	p.integer("CALENDAR_DAYS", &c.CalendarDays)
	p.integer64("MAX_UPLOAD_BYTES", &c.MaxUploadBytes)
	p.list("RX_INSTITUTIONS", &c.Institutions)

	p.float("RATE_LIMIT_RPS", &c.RateLimitRPS)
	p.integer("RATE_LIMIT_BURST", &c.RateLimitBurst)

	if p.err != nil {
		return Config{}, p.err
	}

	c.OCR.Engine = strings.ToLower(c.OCR.Engine)
	switch c.OCR.Engine {
	case "tesseract":
	case "remote":
		if c.OCR.RemoteURL == "" {
			return Config{}, fmt.Errorf("config: OCR_REMOTE_URL is required when OCR_ENGINE=remote")
		}
	default:
		return Config{}, fmt.Errorf("config: unknown OCR_ENGINE %q", c.OCR.Engine)
	}
	if c.Alert.MidThreshold < c.Alert.LowThreshold {
		return Config{}, fmt.Errorf("config: ALERT_MID_THRESHOLD (%v) below ALERT_LOW_THRESHOLD (%v)",
			c.Alert.MidThreshold, c.Alert.LowThreshold)
	}
	return c, nil
}

// parser guarda el primer error y saltea el resto.
type parser struct {
	getenv func(string) string
	err    error
}

func (p *parser) lookup(key string) (string, bool) {
	if p.err != nil {
		return "", false
	}
	v := strings.TrimSpace(p.getenv(key))
	return v, v != ""
}

func (p *parser) str(key string, dst *string) {
	if v, ok := p.lookup(key); ok {
		*dst = v
	}
}

func (p *parser) integer(key string, dst *int) {
	if v, ok := p.lookup(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			p.err = fmt.Errorf("config: %s: %w", key, err)
			return
		}
		*dst = n
	}
}

func (p *parser) integer64(key string, dst *int64) {
	if v, ok := p.lookup(key); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			p.err = fmt.Errorf("config: %s: %w", key, err)
			return
		}
		*dst = n
	}
}

func (p *parser) float(key string, dst *float64) {
	if v, ok := p.lookup(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			p.err = fmt.Errorf("config: %s: %w", key, err)
			return
		}
		*dst = f
	}
}

func (p *parser) duration(key string, dst *time.Duration) {
	if v, ok := p.lookup(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			p.err = fmt.Errorf("config: %s: %w", key, err)
			return
		}
		*dst = d
	}
}

func (p *parser) list(key string, dst *[]string) {
	if v, ok := p.lookup(key); ok {
		out := make([]string, 0)
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		*dst = out
	}
}
