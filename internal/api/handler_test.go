package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alexivanou/cityshare-api/internal/apperror"
	"github.com/alexivanou/cityshare-api/internal/database"
	"github.com/alexivanou/cityshare-api/internal/metrics"
	"github.com/alexivanou/cityshare-api/internal/model"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type stubHealth struct {
	status database.HealthStatus
}

func (s stubHealth) Status() database.HealthStatus { return s.status }

func newTestRouter(svc *MockService, health HealthReporter) http.Handler {
	return NewRouter(svc, RouterConfig{
		Health: health,
		Cookie: CookieSettings{Name: "session"},
		Logger: zap.NewNop(),
	})
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperror.Unauthorized("no"), http.StatusUnauthorized},
		{apperror.Forbidden("no"), http.StatusForbidden},
		{apperror.NotFound("city", 1), http.StatusNotFound},
		{apperror.ValidationFailed("name", "bad"), http.StatusBadRequest},
		{apperror.Conflict("user", "email"), http.StatusConflict},
		{apperror.Timeout("search"), http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestHandler_WriteErrorHidesInternalErrors(t *testing.T) {
	h := NewHandler(new(MockService), nil, CookieSettings{}, nil)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	h.writeError(w, r, errors.New("pq: relation does not exist"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body model.ErrorResponse
	decodeBody(t, w, &body)
	assert.Equal(t, "internal server error", body.Error)
}

func TestHandler_SearchCities(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setupMock      func(*MockService)
		expectedStatus int
	}{
		{
			name:  "filters and paging are parsed",
			query: "q=harbor&theme=european&minPopulation=1000&maxPopulation=5000&hasImages=true&sortBy=population&sortOrder=desc&limit=10&offset=20",
			setupMock: func(m *MockService) {
				m.On("SearchCities", mock.Anything, mock.MatchedBy(func(f model.CitySearchFilters) bool {
					return f.Query == "harbor" && f.Theme == "european" &&
						f.MinPopulation != nil && *f.MinPopulation == 1000 &&
						f.MaxPopulation != nil && *f.MaxPopulation == 5000 &&
						f.HasImages != nil && *f.HasImages &&
						f.ContentCreator == nil &&
						f.SortBy == "population" && f.SortOrder == "desc"
				}), 10, 20).Return(&model.SearchResponse{Cities: []model.CitySummary{}, Total: 0, Limit: 10, Offset: 20}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "non-numeric range",
			query:          "minMoney=lots",
			setupMock:      func(m *MockService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "non-boolean flag",
			query:          "contentCreator=maybe",
			setupMock:      func(m *MockService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "service validation error",
			query: "sortBy=random",
			setupMock: func(m *MockService) {
				m.On("SearchCities", mock.Anything, mock.Anything, 0, 0).
					Return(nil, apperror.ValidationFailed("sortBy", "invalid sort field"))
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, "/api/cities/search?"+tt.query, nil)
			w := httptest.NewRecorder()
			newTestRouter(svc, nil).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_UserCities(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedError  string
	}{
		{
			name:  "known user",
			query: "?username=ana",
			setupMock: func(m *MockService) {
				m.On("GetUserCities", mock.Anything, "ana").Return(&model.UserCitiesResponse{
					User:   model.PublicUser{ID: 1, Username: "ana"},
					Cities: []model.CitySummary{},
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "missing username",
			query: "",
			setupMock: func(m *MockService) {
				m.On("GetUserCities", mock.Anything, "").
					Return(nil, apperror.ValidationFailed("username", "username is required"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "username is required",
		},
		{
			name:  "unknown user",
			query: "?username=ghost",
			setupMock: func(m *MockService) {
				m.On("GetUserCities", mock.Anything, "ghost").
					Return(nil, apperror.NotFoundMessage("user ghost not found"))
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "user ghost not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/cities"+tt.query, nil)
			w := httptest.NewRecorder()
			newTestRouter(svc, nil).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			if tt.expectedError != "" {
				var body model.ErrorResponse
				decodeBody(t, w, &body)
				assert.Equal(t, tt.expectedError, body.Error)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_GetCity(t *testing.T) {
	svc := new(MockService)
	svc.On("GetCityDetail", mock.Anything, int64(7)).Return(&model.CityDetail{
		City:   model.CitySummary{City: model.City{ID: 7, Name: "Harbor"}},
		Images: []model.CityImage{},
	}, nil)
	svc.On("GetCityDetail", mock.Anything, int64(8)).Return(nil, apperror.NotFound("city", int64(8)))

	router := newTestRouter(svc, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cities/7", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	var detail model.CityDetail
	decodeBody(t, w, &detail)
	assert.Equal(t, "Harbor", detail.City.Name)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cities/8", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cities/abc", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	svc.AssertExpectations(t)
}

func TestHandler_SessionAndRoles(t *testing.T) {
	member := &model.User{ID: 1, Username: "ana"}
	admin := &model.User{ID: 2, Username: "root", IsAdmin: true}

	tests := []struct {
		name           string
		method         string
		path           string
		cookie         string
		setupMock      func(*MockService)
		expectedStatus int
	}{
		{
			name:           "create city without session",
			method:         http.MethodPost,
			path:           "/api/cities",
			setupMock:      func(m *MockService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "expired session is treated as anonymous",
			method: http.MethodGet,
			path:   "/api/auth/me",
			cookie: "stale",
			setupMock: func(m *MockService) {
				m.On("Authenticate", mock.Anything, "stale").Return(nil, apperror.Unauthorized("session expired"))
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "me with session",
			method: http.MethodGet,
			path:   "/api/auth/me",
			cookie: "good",
			setupMock: func(m *MockService) {
				m.On("Authenticate", mock.Anything, "good").Return(member, nil)
				m.On("UnreadNotificationCount", mock.Anything, int64(1)).Return(int64(3), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "admin route without session",
			method:         http.MethodGet,
			path:           "/api/admin/users",
			setupMock:      func(m *MockService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "admin route as member",
			method: http.MethodGet,
			path:   "/api/admin/users",
			cookie: "good",
			setupMock: func(m *MockService) {
				m.On("Authenticate", mock.Anything, "good").Return(member, nil)
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:   "admin route as admin",
			method: http.MethodGet,
			path:   "/api/admin/users?limit=5",
			cookie: "admin",
			setupMock: func(m *MockService) {
				m.On("Authenticate", mock.Anything, "admin").Return(admin, nil)
				m.On("ListUsers", mock.Anything, 5, 0).Return(&model.AdminUsersResponse{Users: []model.AdminUser{}, Limit: 5}, nil)
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "session", Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			newTestRouter(svc, nil).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_WithAPIKey(t *testing.T) {
	key := &model.APIKey{ID: 4, UserID: 9, IsActive: true}
	profile := &model.UserCitiesResponse{User: model.PublicUser{ID: 9, Username: "creator"}, Cities: []model.CitySummary{}}

	tests := []struct {
		name           string
		headers        map[string]string
		setupMock      func(*MockService)
		expectedStatus int
	}{
		{
			name:    "X-API-Key header",
			headers: map[string]string{"X-API-Key": "csk_abc"},
			setupMock: func(m *MockService) {
				m.On("AuthenticateAPIKey", mock.Anything, "csk_abc").Return(key, nil)
				m.On("GetCreatorProfile", mock.Anything, int64(9)).Return(profile, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:    "bearer token",
			headers: map[string]string{"Authorization": "Bearer csk_abc"},
			setupMock: func(m *MockService) {
				m.On("AuthenticateAPIKey", mock.Anything, "csk_abc").Return(key, nil)
				m.On("GetCreatorProfile", mock.Anything, int64(9)).Return(profile, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:    "no key",
			headers: map[string]string{},
			setupMock: func(m *MockService) {
				m.On("AuthenticateAPIKey", mock.Anything, "").Return(nil, apperror.Unauthorized("API key required"))
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:    "deactivated key",
			headers: map[string]string{"X-API-Key": "csk_old"},
			setupMock: func(m *MockService) {
				m.On("AuthenticateAPIKey", mock.Anything, "csk_old").Return(nil, apperror.Unauthorized("invalid API key"))
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/hof-creator", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			newTestRouter(svc, nil).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_CORSPreflight(t *testing.T) {
	svc := new(MockService)
	router := NewRouter(svc, RouterConfig{AllowedOrigins: []string{"https://maps.example.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/cities", nil)
	req.Header.Set("Origin", "https://maps.example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://maps.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-API-Key")

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/cities", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	svc.AssertNotCalled(t, "GetUserCities", mock.Anything, mock.Anything)
}

func TestHandler_CreateCityRejectsUnknownFields(t *testing.T) {
	svc := new(MockService)
	svc.On("Authenticate", mock.Anything, "good").Return(&model.User{ID: 1}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/cities", strings.NewReader(`{"name":"Harbor","owner":5}`))
	req.AddCookie(&http.Cookie{Name: "session", Value: "good"})
	w := httptest.NewRecorder()
	newTestRouter(svc, nil).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "CreateCity", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_LoginSetsSessionCookie(t *testing.T) {
	svc := new(MockService)
	svc.On("Login", mock.Anything, model.LoginRequest{Login: "ana", Password: "secret123"}).
		Return(&model.AuthResponse{User: model.User{ID: 1, Username: "ana"}, Token: "tok"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"login":"ana","password":"secret123"}`))
	w := httptest.NewRecorder()
	newTestRouter(svc, nil).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.NotContains(t, w.Body.String(), "tok\"")
}

func TestHandler_HealthCheck(t *testing.T) {
	tests := []struct {
		name           string
		health         HealthReporter
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "no checker",
			health:         nil,
			expectedStatus: http.StatusOK,
			expectedBody:   "ok",
		},
		{
			name:           "not checked yet",
			health:         stubHealth{},
			expectedStatus: http.StatusOK,
			expectedBody:   "ok",
		},
		{
			name:           "healthy",
			health:         stubHealth{database.HealthStatus{Healthy: true, CheckedAt: time.Now()}},
			expectedStatus: http.StatusOK,
			expectedBody:   "ok",
		},
		{
			name:           "unhealthy",
			health:         stubHealth{database.HealthStatus{Healthy: false, CheckedAt: time.Now(), Error: "connection refused"}},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   "unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			newTestRouter(new(MockService), tt.health).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			var body struct {
				Status string `json:"status"`
			}
			decodeBody(t, w, &body)
			assert.Equal(t, tt.expectedBody, body.Status)
		})
	}
}

func TestHandler_NotFoundIsJSON(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(new(MockService), nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestHandler_RequestIDIsEchoed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	newTestRouter(new(MockService), nil).ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	newTestRouter(new(MockService), nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestHandler_UnmatchedRequestsAreLoggedAndCounted(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
		expectedRoute  string
	}{
		{"unknown path", http.MethodGet, "/nope", http.StatusNotFound, "unmatched"},
		{"unsupported method", http.MethodPatch, "/api/cities/5", http.StatusMethodNotAllowed, "unmatched"},
		{"matched route", http.MethodGet, "/health", http.StatusOK, "/health"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.InfoLevel)
			router := NewRouter(new(MockService), RouterConfig{Cookie: CookieSettings{Name: "session"}, Logger: zap.New(core)})
			counter := metrics.HTTPRequestsTotal.WithLabelValues(tt.expectedRoute, tt.method, strconv.Itoa(tt.expectedStatus))
			before := testutil.ToFloat64(counter)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set("X-Request-ID", "req-"+tt.method)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
			assert.Equal(t, "req-"+tt.method, w.Header().Get("X-Request-ID"))
			assert.Equal(t, before+1, testutil.ToFloat64(counter))

			entries := logs.FilterMessage("request completed").All()
			require.Len(t, entries, 1)
			fields := entries[0].ContextMap()
			assert.Equal(t, int64(tt.expectedStatus), fields["status"])
			assert.Equal(t, "req-"+tt.method, fields["request_id"])
		})
	}
}
