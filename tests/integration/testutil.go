//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/voxgate/voxgate/internal/api"
	"github.com/voxgate/voxgate/internal/audit"
	"github.com/voxgate/voxgate/internal/config"
	"github.com/voxgate/voxgate/internal/credentials"
	"github.com/voxgate/voxgate/internal/quota"
	"github.com/voxgate/voxgate/internal/speech"
	"github.com/voxgate/voxgate/internal/tts"
)

const testAdminToken = "test-admin-token"

type TestEnv struct {
	Pool        *pgxpool.Pool
	RedisClient *redis.Client
	Server      *httptest.Server
	Provider    *httptest.Server
	Orch        *speech.Orchestrator
	Daily       *quota.DailyStore
	Minute      *quota.MinuteWindow
	Ring        *credentials.Ring
}

var testEnv *TestEnv

func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	if testEnv != nil {
		return testEnv
	}

	ctx := context.Background()

	// Start PostgreSQL container
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "voxgate_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("starting postgres container: %v", err)
	}
	t.Cleanup(func() { pgContainer.Terminate(ctx) })

	pgHost, _ := pgContainer.Host(ctx)
	pgPort, _ := pgContainer.MappedPort(ctx, "5432")

	// Start Redis container
	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("starting redis container: %v", err)
	}
	t.Cleanup(func() { redisContainer.Terminate(ctx) })

	redisHost, _ := redisContainer.Host(ctx)
	redisPort, _ := redisContainer.MappedPort(ctx, "6379")

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://test:test@%s:%s/voxgate_test?sslmode=disable", pgHost, pgPort.Port())
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connecting to postgres: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	// Run migrations
	m, err := migrate.New(fmt.Sprintf("file://%s", getMigrationsPath()), dsn)
	if err != nil {
		t.Fatalf("creating migrator: %v", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		t.Fatalf("running migrations: %v", err)
	}

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", redisHost, redisPort.Port()),
	})
	t.Cleanup(func() { redisClient.Close() })

	// Fake synthesis provider speaking the generateContent wire format
	provider := httptest.NewServer(http.HandlerFunc(fakeProviderHandler))
	t.Cleanup(provider.Close)

	ring, err := credentials.NewRing([]string{"test-key-one-ring", "test-key-two-ring"})
	if err != nil {
		t.Fatalf("building credential ring: %v", err)
	}

	dailyStore := quota.NewDailyStore(pool)
	minuteWindow := quota.NewMinuteWindow(15)

	synth := tts.NewGeminiClient(config.TTSConfig{
		Endpoint: provider.URL,
		Model:    "gemini-2.5-flash-preview-tts",
		Timeout:  10 * time.Second,
	}, ring)

	orch := speech.NewOrchestrator(speech.Deps{
		Daily:  dailyStore,
		Minute: minuteWindow,
		Synth:  synth,
		Creds:  ring,
		Cache:  speech.NewAudioCache(redisClient, time.Hour),
		Limits: speech.Limits{Daily: 1500, Minute: 15},
	})
	speechHandler := speech.NewHandler(orch)

	auditRepo := audit.NewRepository(pool)
	auditHandler := audit.NewHandler(auditRepo)

	router := api.NewRouter(pool, nil, api.RouterConfig{
		AdminToken: testAdminToken,
	}, api.HandlerSet{
		Generate:   speechHandler.Generate,
		GetStatus:  speechHandler.GetStatus,
		GetQuota:   speechHandler.GetQuota,
		ListVoices: speechHandler.ListVoices,

		RotateCredential: speechHandler.RotateCredential,

		ListAudit: auditHandler.List,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	testEnv = &TestEnv{
		Pool:        pool,
		RedisClient: redisClient,
		Server:      server,
		Provider:    provider,
		Orch:        orch,
		Daily:       dailyStore,
		Minute:      minuteWindow,
		Ring:        ring,
	}

	return testEnv
}

// fakeProviderHandler mimics the generateContent endpoint: it returns a short
// base64 PCM payload for any request carrying an api key, and the provider's
// error JSON otherwise.
func fakeProviderHandler(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("x-goog-api-key") == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"code":401,"message":"API key missing","status":"UNAUTHENTICATED"}}`)
		return
	}

	pcm := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x01, 0x02}, 32))
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"audio/L16;codec=pcm;rate=24000","data":"%s"}}]}}]}`, pcm)
}

func getMigrationsPath() string {
	paths := []string{
		"../../migrations",
		"../../../migrations",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	log.Fatal("migrations directory not found")
	return ""
}

// Helper functions

func DoRequest(t *testing.T, env *TestEnv, method, path string, body any, token string) *http.Response {
	t.Helper()
	var bodyReader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, env.Server.URL+path, bodyReader)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("doing request: %v", err)
	}
	return resp
}

func ParseResponse(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("parsing response: %v", err)
	}
	return result
}
