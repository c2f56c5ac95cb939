package router

import (
	"context"
	"database/sql"
	"net/http"
	"net/netip"
	"strings"
	"time"

	_ "dogpass-api/docs"
	mem "dogpass-api/internal/adapters/storage/memory"
	pg "dogpass-api/internal/adapters/storage/postgres"
	"dogpass-api/internal/domain/clinics"
	"dogpass-api/internal/domain/login"
	"dogpass-api/internal/domain/offerings"
	"dogpass-api/internal/domain/pets"
	"dogpass-api/internal/domain/timeline"
	"dogpass-api/internal/domain/users"
	"dogpass-api/internal/domain/vets"
	"dogpass-api/internal/middleware"
	"dogpass-api/internal/platform/eventbus"
	"dogpass-api/internal/platform/logger"
	"dogpass-api/internal/platform/metrics"
	"dogpass-api/internal/ports/auth"
	"dogpass-api/internal/ports/tx"
	"dogpass-api/internal/seed"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	TokenIssuer  auth.TokenIssuer  // sin issuer /login responde 500

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger  logger.Logger
	Metrics *metrics.Metrics
	Events  eventbus.Publisher

	// AuthRequired exige claims en todo salvo login, registro y ops.
	AuthRequired       bool
	CORSAllowedOrigins []string

	// TrustedProxies: solo de estos peers se aceptan X-Forwarded-For / X-Real-IP.
	TrustedProxies []netip.Prefix

	// LoginLimiter por IP; nil => limiter local con LoginPerMinute.
	LoginLimiter      middleware.Limiter
	LoginPerMinute    int
	RateLimitFailOpen bool

	PopulateEnabled bool
}

// Services agrupa los servicios armados por NewServices (lo usa también el CLI).
type Services struct {
	Users     *users.Service
	Pets      *pets.Service
	Offerings *offerings.Service
	Clinics   *clinics.Service
	Vets      *vets.Service
	Timeline  *timeline.Service
	Access    *timeline.Access
	Tx        tx.Runner
}

// NewServices arma repos y servicios. db nil => repos in-memory.
func NewServices(db *sql.DB, events eventbus.Publisher, log logger.Logger) Services {
	var (
		userRepo     users.Repository
		petRepo      pets.Repository
		offeringRepo offerings.Repository
		clinicRepo   clinics.Repository
		vetRepo      vets.Repository
		timelineRepo timeline.Repository
		txr          tx.Runner
	)

	if db != nil {
		userRepo = pg.NewUsersRepo(db)
		petRepo = pg.NewPetsRepo(db)
		offeringRepo = pg.NewOfferingsRepo(db)
		clinicRepo = pg.NewClinicsRepo(db)
		vetRepo = pg.NewVetsRepo(db)
		timelineRepo = pg.NewTimelineRepo(db)
		txr = pg.NewTxRunner(db)
	} else {
		userRepo = mem.NewUserRepo()
		petRepo = mem.NewPetRepo()
		offeringRepo = mem.NewOfferingRepo()
		clinicRepo = mem.NewClinicRepo()
		vetRepo = mem.NewVetRepo()
		timelineRepo = mem.NewTimelineRepo()
		txr = mem.TxRunner{}
	}

	// Services por módulo (en orden de dependencia)
	usersSvc := users.NewService(userRepo)
	petsSvc := pets.NewService(petRepo, usersSvc)
	offeringsSvc := offerings.NewService(offeringRepo)
	clinicsSvc := clinics.NewService(clinicRepo, offeringsSvc, petsSvc, txr)
	vetsSvc := vets.NewService(vetRepo, clinicsSvc)
	timelineSvc := timeline.NewService(timelineRepo, events, log)

	return Services{
		Users:     usersSvc,
		Pets:      petsSvc,
		Offerings: offeringsSvc,
		Clinics:   clinicsSvc,
		Vets:      vetsSvc,
		Timeline:  timelineSvc,
		Access:    timeline.NewAccess(petsSvc, clinicsSvc, vetsSvc),
		Tx:        txr,
	}
}

// SeedDeps adapta Services a lo que necesita el seed.
func (s Services) SeedDeps(log logger.Logger) seed.Deps {
	return seed.Deps{
		Users:     s.Users,
		Pets:      s.Pets,
		Clinics:   s.Clinics,
		Vets:      s.Vets,
		Offerings: s.Offerings,
		Timeline:  s.Timeline,
		Tx:        s.Tx,
		Log:       log,
	}
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.ClientIP(opts.TrustedProxies))
	r.Use(middleware.Recover(log))
	r.Use(middleware.AccessLog(log))
	r.Use(m.Middleware)
	r.Use(middleware.CORS(middleware.DefaultCORSPolicy(opts.CORSAllowedOrigins)))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	// Ops
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/ready", readyHandler(opts.DB))
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	svc := NewServices(opts.DB, opts.Events, log)
	svc.Timeline.OnPublish = m.EventPublished

	// Login con rate limit por IP
	limiter := opts.LoginLimiter
	if limiter == nil {
		perMinute := opts.LoginPerMinute
		if perMinute <= 0 {
			perMinute = 20
		}
		limiter = middleware.NewLocalLimiter(perMinute)
	}
	loginSvc := login.NewService(svc.Users, svc.Clinics, svc.Vets, opts.TokenIssuer)
	loginSvc.OnAttempt = m.LoginAttempt
	login.RegisterRoutes(r, loginSvc, log, middleware.RateLimit(limiter, log, opts.RateLimitFailOpen))

	seed.RegisterRoutes(r, svc.SeedDeps(log), opts.PopulateEnabled, log)

	// Rutas por módulo
	r.Group(func(gr chi.Router) {
		if opts.AuthRequired {
			gr.Use(middleware.RequireAuthExcept("POST /users", "POST /clinics"))
		}
		users.RegisterRoutes(gr, svc.Users, log)
		pets.RegisterRoutes(gr, svc.Pets, log)
		offerings.RegisterRoutes(gr, svc.Offerings, log)
		clinics.RegisterRoutes(gr, svc.Clinics, log)
		vets.RegisterRoutes(gr, svc.Vets, log)
		timeline.RegisterRoutes(gr, svc.Timeline, svc.Access, log)
	})

	return r
}

// readyHandler responde 503 con la lista de checks que fallan.
func readyHandler(db *sql.DB) http.HandlerFunc {
	checks := map[string]func(context.Context) error{}
	if db != nil {
		checks["database"] = pg.ReadyCheck(db)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		var failed []string
		for name, check := range checks {
			if err := check(ctx); err != nil {
				failed = append(failed, name+": "+err.Error())
			}
		}
		if len(failed) > 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(strings.Join(failed, "\n")))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
