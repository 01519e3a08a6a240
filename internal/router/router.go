package router

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	goredis "github.com/go-redis/redis/v8"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "medipin-ocr/docs"
	memcache "medipin-ocr/internal/adapters/cache/memory"
	rediscache "medipin-ocr/internal/adapters/cache/redis"
	"medipin-ocr/internal/adapters/imagequality"
	"medipin-ocr/internal/adapters/ocr/remote"
	"medipin-ocr/internal/adapters/ocr/tesseract"
	mem "medipin-ocr/internal/adapters/storage/memory"
	pg "medipin-ocr/internal/adapters/storage/postgres"
	"medipin-ocr/internal/domain/alerts"
	"medipin-ocr/internal/domain/scans"
	"medipin-ocr/internal/domain/schedules"
	"medipin-ocr/internal/middleware"
	"medipin-ocr/internal/platform/config"
	"medipin-ocr/internal/platform/logger"
	"medipin-ocr/internal/ports/ocr"
)

type Options struct {
	Config config.Config
	Logger logger.Logger // nil => Nop

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: si viene, la caché de OCR vive en Redis. Si no, en memoria.
	Redis *goredis.Client

	// Opcional: si no viene se arma desde Config.OCR.
	Engine ocr.Engine
	Meter  scans.QualityMeter
}

func NewRouter(opts Options) http.Handler {
	cfg := opts.Config
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.UserContext)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Si no te pasan DB explícita, intenta con DB_DSN
	db := opts.DB
	if db == nil && cfg.DBDSN != "" {
		opened, err := pg.Open(cfg.DBDSN)
		if err != nil {
			log.Error("postgres unavailable, using in-memory schedules", map[string]any{"error": err})
		} else {
			db = opened
		}
	}

	var scheduleRepo schedules.Repository
	if db != nil {
		scheduleRepo = pg.NewSchedulesRepo(db)
	} else {
		scheduleRepo = mem.NewScheduleRepo()
	}

	rdb := opts.Redis
	if rdb == nil && cfg.Redis.Addr != "" {
		rdb = rediscache.NewClient(rediscache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var cache scans.Cache
	if rdb != nil {
		cache = rediscache.NewCache(rdb, rediscache.DefaultKeyPrefix, cfg.Cache.TTL)
	} else {
		cache = memcache.NewCache(cfg.Cache.MaxEntries, cfg.Cache.TTL)
	}

	engine := opts.Engine
	if engine == nil {
		engine = newEngine(cfg.OCR, log)
	}
	meter := opts.Meter
	if meter == nil {
		meter = imagequality.NewMeter()
	}

	// Services por módulo
	scansSvc := scans.NewService(scans.Options{
		Engine:         engine,
		Meter:          meter,
		Scorer:         alerts.NewLinearScorer(),
		Policy:         alerts.NewPolicy(cfg.Alert.LowThreshold, cfg.Alert.MidThreshold),
		Cache:          cache,
		Logger:         log,
		Institutions:   cfg.Institutions,
		CalendarDays:   cfg.CalendarDays,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})
	schedulesSvc := schedules.NewService(scheduleRepo)

	// Rutas por módulo
	r.Group(func(g chi.Router) {
		g.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
		scans.RegisterRoutes(g, scansSvc)
	})
	schedules.RegisterRoutes(r, schedulesSvc)

	return r
}

func newEngine(cfg config.OCRConfig, log logger.Logger) ocr.Engine {
	switch cfg.Engine {
	case "remote":
		e, err := remote.NewEngine(remote.Config{
			BaseURL:   cfg.RemoteURL,
			APIKey:    cfg.APIKey,
			Languages: cfg.Languages,
			Timeout:   cfg.Timeout,
		})
		if err != nil {
			log.Error("remote ocr engine misconfigured", map[string]any{"error": err})
			return nil
		}
		return e
	case "tesseract", "":
		return tesseract.NewEngine(cfg.Languages...)
	default:
		log.Error("unknown ocr engine", map[string]any{"engine": cfg.Engine})
		return nil
	}
}
