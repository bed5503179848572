package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"ballot-ui/database"
	"ballot-ui/database/model"
	"ballot-ui/logger"
	"ballot-ui/util/crypto"
	"ballot-ui/web/entity"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var initLoggerOnce sync.Once

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("VOTE_UPLOAD_FOLDER", filepath.Join(dir, "uploads"))
	t.Setenv("VOTE_LOG_FOLDER", filepath.Join(dir, "log"))
	initLoggerOnce.Do(func() {
		logger.InitLogger(logging.ERROR)
	})
	require.NoError(t, database.InitDB(filepath.Join(dir, "test.db")))
	t.Cleanup(func() {
		_ = database.CloseDB()
	})

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(sessions.Sessions("ballot-ui", cookie.NewStore([]byte("test-secret"))))

	g := engine.Group("/")
	NewIndexController(g)
	NewPanelController(g)
	NewAdminController(g)
	return engine
}

func postForm(engine *gin.Engine, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func get(engine *gin.Engine, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, engine *gin.Engine, username, password string) []*http.Cookie {
	t.Helper()
	w := postForm(engine, "/login", url.Values{
		"username": {username},
		"password": {password},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var msg entity.Msg
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msg))
	require.True(t, msg.Success, "login should succeed: %s", msg.Msg)
	return w.Result().Cookies()
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	engine := newTestEngine(t)

	w := postForm(engine, "/login", url.Values{
		"username": {"admin"},
		"password": {"nope"},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var msg entity.Msg
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msg))
	assert.False(t, msg.Success)
}

func TestAdminGate(t *testing.T) {
	engine := newTestEngine(t)

	// No session at all.
	w := get(engine, "/admin/users", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A verified voter is logged in but not an admin.
	hash, err := crypto.HashPassword("pw")
	require.NoError(t, err)
	require.NoError(t, database.GetDB().Create(&model.User{
		Username: "voter",
		Password: hash,
		Verified: true,
		Role:     model.RoleUser,
	}).Error)

	voterCookies := login(t, engine, "voter", "pw")
	w = get(engine, "/admin/users", voterCookies)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The seeded admin passes both gates.
	adminCookies := login(t, engine, "admin", "admin")
	w = get(engine, "/admin/users", adminCookies)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestElectionLifecycleOverHTTP(t *testing.T) {
	engine := newTestEngine(t)
	adminCookies := login(t, engine, "admin", "admin")

	w := postForm(engine, "/admin/elections", url.Values{
		"title":      {"Board 2024"},
		"start_date": {"2024-01-01T00:00:00"},
		"end_date":   {"2024-01-31T23:59:00"},
	}, adminCookies)
	require.Equal(t, http.StatusOK, w.Code)

	var msg entity.Msg
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msg))
	require.True(t, msg.Success, msg.Msg)

	w = postForm(engine, "/admin/candidates", url.Values{
		"name":        {"X"},
		"party":       {"P"},
		"election_id": {"1"},
	}, adminCookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = get(engine, "/admin/elections", adminCookies)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msg))
	assert.True(t, msg.Success)

	w = postForm(engine, "/admin/elections/1/delete", nil, adminCookies)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msg))
	assert.True(t, msg.Success)
}

func TestLogoutClearsSession(t *testing.T) {
	engine := newTestEngine(t)
	adminCookies := login(t, engine, "admin", "admin")

	w := get(engine, "/logout", adminCookies)
	require.Equal(t, http.StatusOK, w.Code)

	// The cleared cookie replaces the login cookie.
	cleared := w.Result().Cookies()
	w = get(engine, "/admin/users", cleared)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
