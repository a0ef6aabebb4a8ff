package api

import (
	"net/http"

	"github.com/alexivanou/cityshare-api/internal/service"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouterConfig carries what the router needs besides the service
type RouterConfig struct {
	Health         HealthReporter
	Stats          StatsCollector
	Cookie         CookieSettings
	AllowedOrigins []string
	Logger         *zap.Logger
}

// NewRouter creates the HTTP handler. Recovery, access logging and metrics wrap the whole
// router so they also see requests that match no route.
func NewRouter(svc service.ServiceInterface, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	handler := NewHandler(svc, cfg.Health, cfg.Cookie, logger)

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(handler.NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(handler.MethodNotAllowed)

	// Ops
	router.HandleFunc("/health", handler.HealthCheck).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Public API v1
	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.Use(cors(cfg.AllowedOrigins))
	v1.HandleFunc("/cities", handler.UserCities).Methods(http.MethodGet, http.MethodOptions)
	v1.HandleFunc("/cities/{cityId:[0-9]+}", handler.GetCity).Methods(http.MethodGet, http.MethodOptions)
	v1.HandleFunc("/hof-creator", handler.withAPIKey(handler.GetCreator)).Methods(http.MethodGet, http.MethodOptions)
	v1.HandleFunc("/hof-creator", handler.withAPIKey(handler.CreateCreatorCity)).Methods(http.MethodPost)

	// Browser API
	api := router.PathPrefix("/api").Subrouter()
	api.Use(handler.session)

	api.HandleFunc("/auth/register", handler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", handler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", handler.Logout).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", handler.authed(handler.Me)).Methods(http.MethodGet)
	api.HandleFunc("/auth/cookie-consent", handler.authed(handler.CookieConsent)).Methods(http.MethodPost)

	api.HandleFunc("/cities/search", handler.SearchCities).Methods(http.MethodGet)
	api.HandleFunc("/cities/recent", handler.RecentCities).Methods(http.MethodGet)
	api.HandleFunc("/stats/community", handler.CommunityStats).Methods(http.MethodGet)

	api.HandleFunc("/cities", handler.authed(handler.CreateCity)).Methods(http.MethodPost)
	api.HandleFunc("/cities/{id:[0-9]+}", handler.authed(handler.UpdateCity)).Methods(http.MethodPut)
	api.HandleFunc("/cities/{id:[0-9]+}", handler.authed(handler.DeleteCity)).Methods(http.MethodDelete)
	api.HandleFunc("/cities/{id:[0-9]+}/images", handler.authed(handler.AddImage)).Methods(http.MethodPost)
	api.HandleFunc("/cities/{id:[0-9]+}/images/{imageId:[0-9]+}/primary", handler.authed(handler.SetPrimaryImage)).Methods(http.MethodPut)
	api.HandleFunc("/cities/{id:[0-9]+}/images/{imageId:[0-9]+}", handler.authed(handler.DeleteImage)).Methods(http.MethodDelete)

	api.HandleFunc("/cities/{id:[0-9]+}/like", handler.authed(handler.ToggleLike)).Methods(http.MethodPost)
	api.HandleFunc("/cities/{id:[0-9]+}/favorite", handler.authed(handler.ToggleFavorite)).Methods(http.MethodPost)
	api.HandleFunc("/cities/{id:[0-9]+}/comments", handler.ListComments).Methods(http.MethodGet)
	api.HandleFunc("/cities/{id:[0-9]+}/comments", handler.authed(handler.AddComment)).Methods(http.MethodPost)
	api.HandleFunc("/comments/{id:[0-9]+}", handler.authed(handler.DeleteOwnComment)).Methods(http.MethodDelete)

	api.HandleFunc("/users/{id:[0-9]+}/follow", handler.authed(handler.ToggleFollow)).Methods(http.MethodPost)
	api.HandleFunc("/notifications", handler.authed(handler.ListNotifications)).Methods(http.MethodGet)
	api.HandleFunc("/notifications/read-all", handler.authed(handler.MarkAllNotificationsRead)).Methods(http.MethodPost)
	api.HandleFunc("/notifications/{id:[0-9]+}/read", handler.authed(handler.MarkNotificationRead)).Methods(http.MethodPost)

	// Admin API
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(handler.requireAdmin)

	admin.HandleFunc("/users", handler.ListUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id:[0-9]+}/toggle-admin", handler.authed(handler.ToggleAdmin)).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id:[0-9]+}/toggle-content-creator", handler.ToggleContentCreator).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id:[0-9]+}", handler.authed(handler.DeleteUser)).Methods(http.MethodDelete)

	admin.HandleFunc("/api-keys", handler.ListAPIKeys).Methods(http.MethodGet)
	admin.HandleFunc("/api-keys", handler.CreateAPIKey).Methods(http.MethodPost)
	admin.HandleFunc("/api-keys/{id:[0-9]+}/toggle", handler.ToggleAPIKey).Methods(http.MethodPost)
	admin.HandleFunc("/api-keys/{id:[0-9]+}", handler.DeleteAPIKey).Methods(http.MethodDelete)

	admin.HandleFunc("/comments", handler.ListAllComments).Methods(http.MethodGet)
	admin.HandleFunc("/comments/{id:[0-9]+}", handler.DeleteComment).Methods(http.MethodDelete)

	admin.HandleFunc("/moderation", handler.GetModeration).Methods(http.MethodGet)
	admin.HandleFunc("/moderation", handler.UpdateModeration).Methods(http.MethodPut)
	admin.HandleFunc("/maintenance/fix-primary-images", handler.FixPrimaryImages).Methods(http.MethodPost)

	if cfg.Stats != nil {
		statsHandler := NewStatsHandler(cfg.Stats, logger)
		admin.HandleFunc("/stats", statsHandler.GetStats).Methods(http.MethodGet)
	}

	return recoverer(logger)(requestLogger(logger)(instrument(router)(router)))
}
