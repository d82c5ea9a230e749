package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/AFARIMINTAH/Safehaven/internal/api/middleware"
	"github.com/AFARIMINTAH/Safehaven/internal/api/recovery"
	"github.com/AFARIMINTAH/Safehaven/internal/chat"
	"github.com/AFARIMINTAH/Safehaven/internal/services"
)

// Deps are the services the router dispatches to.
type Deps struct {
	Auth      *services.AuthService
	Moods     *services.MoodService
	Journal   *services.JournalService
	Referrals *services.ReferralService
	Chat      *chat.Manager
	Health    HealthReporter
	// Limiter throttles the routes that call the completion API; nil disables it.
	Limiter         *middleware.RateLimiter
	LegacyOpenMoods bool
	CORSOrigins     []string
	Log             zerolog.Logger
}

// NewRouter wires every route and wraps the result in the global middleware chain.
func NewRouter(d Deps) http.Handler {
	root := mux.NewRouter()
	root.Use(middleware.Metrics)

	requireAuth := middleware.RequireAuth(d.Auth)
	optionalAuth := middleware.OptionalAuth(d.Auth)
	throttled := func(h http.HandlerFunc) http.Handler {
		if d.Limiter == nil {
			return requireAuth(h)
		}
		return requireAuth(d.Limiter.Handler(h))
	}

	// Users
	users := NewUserHandler(d.Auth)
	root.HandleFunc("/user/register", users.Register).Methods(http.MethodPost)
	root.HandleFunc("/user/login", users.Login).Methods(http.MethodPost)

	// Chat
	chatHandler := NewChatHandler(d.Chat)
	root.Handle("/chat", throttled(chatHandler.Chat)).Methods(http.MethodPost)

	// Moods
	moods := NewMoodHandler(d.Moods, d.LegacyOpenMoods)
	root.Handle("/api/moods", optionalAuth(http.HandlerFunc(moods.Record))).Methods(http.MethodPost)
	root.Handle("/api/moods/add", requireAuth(http.HandlerFunc(moods.Add))).Methods(http.MethodPost)
	root.Handle("/api/moods/{userId}", optionalAuth(http.HandlerFunc(moods.List))).Methods(http.MethodGet)

	// Journal
	journal := NewJournalHandler(d.Journal)
	root.Handle("/api/journal", requireAuth(http.HandlerFunc(journal.List))).Methods(http.MethodGet)
	root.Handle("/api/journal", throttled(journal.Create)).Methods(http.MethodPost)

	// Counselors
	referrals := NewReferralHandler(d.Referrals)
	root.HandleFunc("/api/counselors", referrals.Counselors).Methods(http.MethodGet)
	root.Handle("/api/referrals", throttled(referrals.Refer)).Methods(http.MethodPost)

	// Health & metrics
	healthHandler := NewHealthHandler(d.Health)
	root.HandleFunc("/api/health", healthHandler.CheckHealth).Methods(http.MethodGet)
	root.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	var h http.Handler = root
	h = middleware.CORS(d.CORSOrigins)(h)
	h = middleware.Logging(d.Log)(h)
	h = recovery.Middleware(h)
	return h
}
