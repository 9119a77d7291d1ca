package handlers

import (
	"bufio"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MitsuruMe/momomoving-fe/internal/config"
	"github.com/MitsuruMe/momomoving-fe/internal/device"
	"github.com/MitsuruMe/momomoving-fe/internal/middleware"
	"github.com/MitsuruMe/momomoving-fe/internal/models"
	"github.com/MitsuruMe/momomoving-fe/internal/momoapi"
	"github.com/MitsuruMe/momomoving-fe/internal/storage"
	"github.com/MitsuruMe/momomoving-fe/internal/validation"
)

// fakeRemote is a minimal stand-in for the Momo Moving REST API.
type fakeRemote struct {
	mu      sync.Mutex
	tasks   []models.Task
	revoked bool
	queries []string
}

func (f *fakeRemote) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		require.NoError(t, json.NewEncoder(w).Encode(v))
	}
	authed := func(w http.ResponseWriter, r *http.Request) bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.revoked || r.Header.Get("Authorization") != "Bearer tok-momo" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
			return false
		}
		return true
	}

	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("password") != "secret1" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect username or password"})
			return
		}
		writeJSON(w, http.StatusOK, models.Token{AccessToken: "tok-" + r.PostForm.Get("username"), TokenType: "bearer"})
	})
	mux.HandleFunc("POST /api/v1/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Username == "taken" {
			writeJSON(w, http.StatusConflict, map[string]string{"detail": "Username already registered"})
			return
		}
		writeJSON(w, http.StatusCreated, models.RegisterResponse{UserID: "u2", Username: req.Username})
	})
	mux.HandleFunc("GET /api/v1/users/me", func(w http.ResponseWriter, r *http.Request) {
		if !authed(w, r) {
			return
		}
		writeJSON(w, http.StatusOK, models.User{
			UserID:   "u1",
			Username: "momo",
			FullName: "桃 太郎",
			MoveDate: time.Now().AddDate(0, 0, 10).Format("2006-01-02"),
		})
	})
	mux.HandleFunc("GET /api/v1/tasks", func(w http.ResponseWriter, r *http.Request) {
		if !authed(w, r) {
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, f.tasks)
	})
	mux.HandleFunc("PUT /api/v1/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !authed(w, r) {
			return
		}
		var req models.UpdateTaskRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.tasks {
			if f.tasks[i].UserTaskID == r.PathValue("id") {
				f.tasks[i].Status = *req.Status
				writeJSON(w, http.StatusOK, f.tasks[i])
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Task not found"})
	})
	mux.HandleFunc("GET /api/v1/properties", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.queries = append(f.queries, r.URL.RawQuery)
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, []models.Property{{PropertyID: "p1"}, {PropertyID: "p2"}, {PropertyID: "p1"}})
	})
	mux.HandleFunc("GET /api/v1/properties/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "p1" {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Property not found"})
			return
		}
		writeJSON(w, http.StatusOK, models.PropertyDetails{Property: models.Property{PropertyID: "p1"}, Address: "東京都渋谷区"})
	})
	mux.HandleFunc("GET /api/v1/ai/suggestions", func(w http.ResponseWriter, r *http.Request) {
		if !authed(w, r) {
			return
		}
		writeJSON(w, http.StatusOK, models.AISuggestion{Title: "tip", Message: strings.Repeat("準", 60)})
	})
	return mux
}

type testApp struct {
	remote   *fakeRemote
	registry *device.Registry
	server   *httptest.Server
	client   *http.Client
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validation.RegisterGin())

	remote := &fakeRemote{tasks: []models.Task{
		{UserTaskID: "t1", Status: models.TaskStatusCompleted, DueDate: "2026-03-01"},
		{UserTaskID: "t2", Status: models.TaskStatusPending, DueDate: "2026-03-05"},
	}}
	remoteSrv := httptest.NewServer(remote.handler(t))
	t.Cleanup(remoteSrv.Close)

	cfg := &config.AppConfig{
		Environment: "test",
		Remote:      config.RemoteConfig{BaseURL: remoteSrv.URL, Timeout: 5 * time.Second},
		Security:    config.SecurityConfig{DeviceSecret: "device-secret", DeviceTTL: time.Hour},
		Session:     config.SessionConfig{ResolveWait: time.Second},
		Advice:      config.AdviceConfig{Timeout: time.Second},
		Cookie:      config.CookieConfig{Name: "momo_device"},
	}

	api := momoapi.NewClient(cfg.Remote.BaseURL, cfg.Remote.Timeout, zerolog.Nop())
	backend := storage.NewMemoryBackend()
	registry := device.NewRegistry(backend, api, device.Options{}, zerolog.Nop())
	h := NewHandlerSet(zerolog.Nop(), cfg, api, registry, backend)

	engine := gin.New()
	engine.Use(middleware.RequestID(), middleware.Recovery(zerolog.Nop()))
	h.Register(engine)

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &testApp{remote: remote, registry: registry, server: srv, client: client}
}

func (a *testApp) do(t *testing.T, method, path, contentType, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, a.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := a.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

func (a *testApp) login(t *testing.T) {
	t.Helper()
	form := url.Values{"username": {"momo"}, "password": {"secret1"}}.Encode()
	resp, body := a.do(t, http.MethodPost, "/auth/login", "application/x-www-form-urlencoded", form)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
}

func TestGuardedRouteRedirectsAnonymousDevice(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.do(t, http.MethodGet, "/tasks", "", "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.Empty(t, body)

	resp, body = app.do(t, http.MethodGet, "/login", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"status":"unauthenticated"`)
}

func TestLoginFailureThenSuccess(t *testing.T) {
	app := newTestApp(t)

	form := url.Values{"username": {"momo"}, "password": {"wrong!!"}}.Encode()
	resp, body := app.do(t, http.MethodPost, "/auth/login", "application/x-www-form-urlencoded", form)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "Incorrect username or password")

	resp, _ = app.do(t, http.MethodDelete, "/auth/error", "", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_, body = app.do(t, http.MethodGet, "/session", "", "")
	assert.Contains(t, body, `"error":null`)

	app.login(t)

	resp, _ = app.do(t, http.MethodGet, "/login", "", "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestLoginValidation(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.do(t, http.MethodPost, "/auth/login", "application/json", `{"username":"momo","password":"123"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "パスワードは6文字以上で入力してください")
}

func TestHomeDashboard(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	resp, body := app.do(t, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var view struct {
		DaysUntilMove  int  `json:"days_until_move"`
		CompletionRate int  `json:"completion_rate"`
		HasPreferences bool `json:"has_preferences"`
		Tasks          []struct {
			UserTaskID string `json:"user_task_id"`
			DueDateJP  string `json:"due_date_jp"`
		} `json:"tasks"`
		Tip struct {
			Message  string `json:"message"`
			Fallback bool   `json:"fallback"`
		} `json:"tip"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &view))
	assert.Equal(t, 50, view.CompletionRate)
	assert.Equal(t, 10, view.DaysUntilMove)
	assert.False(t, view.HasPreferences)
	require.Len(t, view.Tasks, 2)
	assert.Equal(t, "2026年3月1日", view.Tasks[0].DueDateJP)
	assert.False(t, view.Tip.Fallback)
	assert.Equal(t, strings.Repeat("準", 47)+"...", view.Tip.Message)
}

func TestTaskUpdateReportsNewBadges(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	resp, body := app.do(t, http.MethodPut, "/tasks/t2", "application/json", `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body, `"completion_rate":100`)
	assert.Contains(t, body, `"id":"complete"`)

	resp, body = app.do(t, http.MethodPut, "/tasks/t9", "application/json", `{"status":"completed"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, notFoundMessage)

	resp, _ = app.do(t, http.MethodPut, "/tasks/t2", "application/json", `{"status":"done"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	_, body = app.do(t, http.MethodGet, "/tasks?status=pending", "", "")
	assert.Contains(t, body, `"tasks":[]`)
}

func TestPreferencesDriveRecommendations(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	resp, body := app.do(t, http.MethodPut, "/preferences/tags", "application/json", `{"selectedTags":["pet","pet","quiet"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body, `"selectedTags":["pet","quiet"]`)

	resp, body = app.do(t, http.MethodPut, "/preferences/destination", "application/json", `{"destinationPostalCode":"1500001"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "郵便番号は xxx-xxxx の形式で入力してください")

	resp, _ = app.do(t, http.MethodPut, "/preferences/conditions", "application/json", `{"maxRent":90000}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = app.do(t, http.MethodGet, "/properties/recommended", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body, `"maxRent":90000`)

	var out struct {
		Properties []models.Property `json:"properties"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Len(t, out.Properties, 2)

	app.remote.mu.Lock()
	assert.Equal(t, []string{""}, app.remote.queries)
	app.remote.mu.Unlock()

	resp, _ = app.do(t, http.MethodDelete, "/preferences", "", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_, body = app.do(t, http.MethodGet, "/preferences", "", "")
	assert.Contains(t, body, `"has_preferences":false`)
}

func TestSelection(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	_, body := app.do(t, http.MethodGet, "/selection", "", "")
	assert.JSONEq(t, `{"property_id":null}`, body)

	app.do(t, http.MethodPut, "/selection", "application/json", `{"property_id":"p2"}`)
	resp, body := app.do(t, http.MethodPut, "/selection", "application/json", `{"property_id":"p1"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"property_id":"p1"`)

	_, body = app.do(t, http.MethodGet, "/properties/p1", "", "")
	assert.Contains(t, body, `"selected":true`)

	resp, _ = app.do(t, http.MethodGet, "/properties/nope", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = app.do(t, http.MethodDelete, "/selection", "", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_, body = app.do(t, http.MethodGet, "/selection", "", "")
	assert.JSONEq(t, `{"property_id":null}`, body)
}

func TestRemote401ExpiresSession(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	app.remote.mu.Lock()
	app.remote.revoked = true
	app.remote.mu.Unlock()

	resp, _ := app.do(t, http.MethodGet, "/tasks", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = app.do(t, http.MethodGet, "/tasks", "", "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	_, body := app.do(t, http.MethodGet, "/session", "", "")
	assert.Contains(t, body, "authentication expired")
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	resp, _ := app.do(t, http.MethodPost, "/auth/logout", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = app.do(t, http.MethodGet, "/badges", "", "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestRegisterSignsIn(t *testing.T) {
	app := newTestApp(t)

	payload := `{"username":"momo","password":"secret1","full_name":"桃 太郎","move_date":"` +
		time.Now().AddDate(0, 1, 0).Format("2006-01-02") + `","current_postal_code":"150-0001"}`
	resp, body := app.do(t, http.MethodPost, "/auth/register", "application/json", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Contains(t, body, `"redirect":"/destination"`)
	assert.Contains(t, body, `"status":"authenticated"`)

	taken := strings.Replace(payload, `"username":"momo"`, `"username":"taken"`, 1)
	resp, _ = app.do(t, http.MethodPost, "/auth/register", "application/json", taken)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestMissionsAndBadges(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	_, body := app.do(t, http.MethodGet, "/missions", "", "")
	assert.Contains(t, body, "nuro_internet")

	_, body = app.do(t, http.MethodGet, "/badges", "", "")
	assert.Contains(t, body, `"completion_rate":50`)
	assert.Contains(t, body, `"id":"first_task"`)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"store":"ok"`)
}

func TestSessionEventsStreamRedirectOnLogout(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	req, err := http.NewRequest(http.MethodGet, app.server.URL+"/session/events", nil)
	require.NoError(t, err)
	resp, err := app.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	reader := bufio.NewReader(resp.Body)
	readEvent := func() string {
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if strings.HasPrefix(line, "event:") {
				return strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			}
		}
	}

	assert.Equal(t, "render", readEvent())
	assert.Equal(t, 1, app.registry.Len())

	app.do(t, http.MethodPost, "/auth/logout", "", "")
	assert.Equal(t, "redirect", readEvent())

	_, err = io.ReadAll(reader)
	assert.NoError(t, err)
}
