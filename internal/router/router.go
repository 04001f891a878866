package router

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "pet-care-records/docs"
	membus "pet-care-records/internal/adapters/changes/memory"
	mem "pet-care-records/internal/adapters/storage/memory"
	pg "pet-care-records/internal/adapters/storage/postgres"
	"pet-care-records/internal/domain/careevents"
	"pet-care-records/internal/domain/collaborators"
	"pet-care-records/internal/domain/feeds"
	"pet-care-records/internal/domain/pets"
	"pet-care-records/internal/domain/vaccinations"
	"pet-care-records/internal/middleware"
	"pet-care-records/internal/platform/logger"
	"pet-care-records/internal/platform/metrics"
	"pet-care-records/internal/ports/auth"
	"pet-care-records/internal/ports/changes"
	"pet-care-records/internal/realtime"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: bus de cambios (NATS). Si no, in-memory.
	Bus changes.Bus

	Logger  logger.Logger
	Metrics *metrics.Metrics

	// PublicBaseURL arma las URLs de suscripción; vacío = se deriva del request.
	// En producción conviene fijarlo.
	PublicBaseURL string

	// TrustProxy habilita X-Forwarded-Proto / X-Real-IP / X-Forwarded-For.
	// Solo detrás de un proxy que reescriba esos headers.
	TrustProxy bool
}

// App expone lo que cmd/api necesita además del handler (jobs, shutdown).
type App struct {
	Handler      http.Handler
	Bus          changes.Bus
	Vaccinations *vaccinations.Service
}

func NewRouter(opts Options) http.Handler {
	return Build(opts).Handler
}

func Build(opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New("")
	}
	if opts.Bus == nil {
		opts.Bus = membus.NewBus()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	if opts.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestLog(opts.Logger, opts.Metrics))
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", opts.Metrics.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		petRepo    pets.Repository
		collabRepo collaborators.Repository
		careRepo   careevents.Repository
		vaxRepo    vaccinations.Repository
		feedRepo   feeds.Repository
	)

	if opts.DB != nil {
		petRepo = pg.NewPetsRepo(opts.DB)
		collabRepo = pg.NewCollaboratorsRepo(opts.DB)
		careRepo = pg.NewCareEventsRepo(opts.DB)
		vaxRepo = pg.NewVaccinationsRepo(opts.DB)
		feedRepo = pg.NewFeedsRepo(opts.DB)
	} else {
		petRepo = mem.NewPetRepo()
		collabRepo = mem.NewCollaboratorRepo()
		careRepo = mem.NewCareEventRepo()
		vaxRepo = mem.NewVaccinationRepo()
		feedRepo = mem.NewFeedRepo()
	}

	// Services por módulo
	petsSvc := pets.NewService(petRepo)
	collabSvc := collaborators.NewService(collabRepo)
	careSvc := careevents.NewService(careRepo, opts.Bus, opts.Logger.With(map[string]any{"component": "careevents"}))
	vaxSvc := vaccinations.NewService(vaxRepo, opts.Bus, opts.Logger.With(map[string]any{"component": "vaccinations"}))

	access := collaborators.NewAccess(petsSvc, collabSvc)

	loader := &feeds.Loader{
		Pets:         petsSvc,
		Shared:       collabSvc,
		CareEvents:   careSvc,
		Vaccinations: vaxSvc,
	}
	feedsSvc := feeds.NewService(feedRepo, loader, access, feeds.Options{
		Metrics: opts.Metrics,
		Logger:  opts.Logger.With(map[string]any{"component": "feeds"}),
	})

	// Rutas por módulo
	pets.RegisterRoutes(r, petsSvc, collabSvc, access)
	collaborators.RegisterRoutes(r, collabSvc, access)
	careevents.RegisterRoutes(r, careSvc, access)
	vaccinations.RegisterRoutes(r, vaxSvc, access)
	feeds.RegisterRoutes(r, feedsSvc, feeds.HandlerOptions{
		PublicBaseURL:       opts.PublicBaseURL,
		TrustForwardedProto: opts.TrustProxy,
	})
	realtime.RegisterRoutes(r, opts.Bus, loader, realtime.Options{
		Logger: opts.Logger.With(map[string]any{"component": "realtime"}),
	})

	return &App{
		Handler:      r,
		Bus:          opts.Bus,
		Vaccinations: vaxSvc,
	}
}
