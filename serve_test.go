package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/utpal74/ai-task-scheduler/config"
	"github.com/utpal74/ai-task-scheduler/db"
	"github.com/utpal74/ai-task-scheduler/notify"
	"github.com/utpal74/ai-task-scheduler/oauth"
	"github.com/utpal74/ai-task-scheduler/service"
	"go.uber.org/zap"
)

func TestNewServerUsesConfiguredPort(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if srv := newServer(gin.New(), cfg.Port); srv.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", srv.Addr)
	}
}

func TestSetupRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := db.NewMemoryStore()
	a := &app{
		cfg:       &config.Config{Port: "3000", CORSOrigins: []string{"http://localhost:5173"}},
		logger:    zap.NewNop(),
		store:     store,
		provider:  oauth.NewGoogleProvider(oauth.NewConfig(config.GoogleConfig{ClientID: "id"})),
		tasks:     service.NewTaskService(service.NewOwnerResolver(store, false), store, nil, nil),
		summaries: service.NewSummaryService(nil, nil, nil),
		notifier:  notify.NewDispatcher(zap.NewNop()),
	}
	router := setupRouter(a)

	for path, want := range map[string]int{
		"/":            http.StatusOK,
		"/healthz":     http.StatusOK,
		"/metrics":     http.StatusOK,
		"/api/tasks":   http.StatusOK,
		"/auth/google": http.StatusOK,
		"/not-a-route": http.StatusNotFound,
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != want {
			t.Errorf("GET %s = %d, want %d", path, w.Code, want)
		}
	}
}
