package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"intranet/internal/app/server"
	"intranet/internal/domain/auth"
	"intranet/internal/platform/config"
	"intranet/internal/platform/db"
)

// Full request journey against a real database. Set TEST_DATABASE_URL to run.
func TestRequestJourney(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := config.Config{
		DatabaseURL:        dbURL,
		JWTSecret:          "integration-secret",
		Environment:        "test",
		MaxBodyBytes:       1 << 20,
		RateLimitPerMinute: 1000,
		TokenTTL:           time.Hour,
		CORSOrigins:        []string{"http://localhost"},
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, "../../../migrations"); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	for _, table := range []string{"request_hidden", "permission_requests", "vacation_requests", "shift_change_requests", "notifications", "audit_events", "idempotency_keys", "users"} {
		if _, err := pool.Exec(ctx, "DELETE FROM "+table); err != nil {
			t.Fatalf("clean %s: %v", table, err)
		}
	}

	seedUser := func(username, role, department string) {
		hash, err := auth.HashPassword("secret123")
		if err != nil {
			t.Fatalf("hash: %v", err)
		}
		if _, err := pool.Exec(ctx, `
      INSERT INTO users (username, password_hash, first_name, last_name, role, department, active)
      VALUES ($1, $2, '', '', $3, $4, true)
    `, username, hash, role, department); err != nil {
			t.Fatalf("seed %s: %v", username, err)
		}
	}
	seedUser("alice", auth.RoleWorker, "kitchen")
	seedUser("boss", auth.RoleManager, "kitchen")

	router := server.NewRouter(cfg, pool)

	login := func(username string) string {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
			strings.NewReader(`{"username":"`+username+`","password":"secret123"}`))
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("login %s: %d %s", username, rec.Code, rec.Body.String())
		}
		var envelope struct {
			Data struct {
				Token string `json:"token"`
			} `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decode login: %v", err)
		}
		return envelope.Data.Token
	}

	call := func(method, path, token, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, path, nil)
		} else {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	workerToken := login("alice")
	managerToken := login("boss")

	created := call(http.MethodPost, "/api/v1/permission-requests", workerToken,
		`{"start_date":"2026-04-01","end_date":"2026-04-02","reason":"appointment"}`)
	if created.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", created.Code, created.Body.String())
	}
	var createdEnv struct {
		Data struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(created.Body.Bytes(), &createdEnv); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	if createdEnv.Data.Status != "pending" {
		t.Fatalf("expected pending, got %s", createdEnv.Data.Status)
	}

	approved := call(http.MethodPost, "/api/v1/permission-requests/"+createdEnv.Data.ID+"/approve", managerToken, "")
	if approved.Code != http.StatusOK {
		t.Fatalf("approve: %d %s", approved.Code, approved.Body.String())
	}

	unread := call(http.MethodGet, "/api/v1/notifications/unread-count", workerToken, "")
	if unread.Code != http.StatusOK {
		t.Fatalf("unread count: %d %s", unread.Code, unread.Body.String())
	}
	var unreadEnv struct {
		Data struct {
			Unread int `json:"unread"`
		} `json:"data"`
	}
	if err := json.Unmarshal(unread.Body.Bytes(), &unreadEnv); err != nil {
		t.Fatalf("decode unread: %v", err)
	}
	if unreadEnv.Data.Unread == 0 {
		t.Fatal("expected an unread notification after approval")
	}

	hidden := call(http.MethodPost, "/api/v1/permission-requests/"+createdEnv.Data.ID+"/hide", workerToken, "")
	if hidden.Code != http.StatusOK {
		t.Fatalf("hide: %d %s", hidden.Code, hidden.Body.String())
	}

	listed := call(http.MethodGet, "/api/v1/permission-requests", workerToken, "")
	if listed.Code != http.StatusOK {
		t.Fatalf("list: %d %s", listed.Code, listed.Body.String())
	}
	var listEnv struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(listed.Body.Bytes(), &listEnv); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listEnv.Data) != 0 {
		t.Fatalf("expected hidden request to be filtered, got %d rows", len(listEnv.Data))
	}

	audits := call(http.MethodGet, "/api/v1/audit/events", managerToken, "")
	if audits.Code != http.StatusOK {
		t.Fatalf("audit list: %d %s", audits.Code, audits.Body.String())
	}
}
