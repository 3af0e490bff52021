package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"productsapi/internal/config"
	"productsapi/internal/repositories"
	"productsapi/internal/server"
	"productsapi/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPublisher captures published events in memory.
type recordingPublisher struct {
	mu     sync.Mutex
	events []services.ProductEvent
}

func (p *recordingPublisher) Publish(routingKey string, body []byte) error {
	var event services.ProductEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           ":0",
			FrontendURL:    "http://localhost:5173",
			MetricsEnabled: true,
		},
	}
}

func send(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestNewApp_PublishesProductEvents(t *testing.T) {
	publisher := &recordingPublisher{}
	app := server.NewApp(testConfig(), repositories.NewMemoryProductRepository(), publisher, zerolog.Nop())

	resp := send(t, app, http.MethodPost, "/api/products", `{"name":"mouse","price":50}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = send(t, app, http.MethodPut, "/api/products/1", `{"name":"mouse","price":55,"aviability":"true"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = send(t, app, http.MethodPatch, "/api/products/1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = send(t, app, http.MethodDelete, "/api/products/1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Failed operations publish nothing.
	resp = send(t, app, http.MethodDelete, "/api/products/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	assert.Equal(t, []string{
		services.EventProductCreated,
		services.EventProductUpdated,
		services.EventProductAvailabilityToggled,
		services.EventProductDeleted,
	}, publisher.types())
}

func TestNewApp_Metrics(t *testing.T) {
	app := server.NewApp(testConfig(), repositories.NewMemoryProductRepository(), nil, zerolog.Nop())

	send(t, app, http.MethodGet, "/api/products", "")
	send(t, app, http.MethodGet, "/api/products/42", "")

	resp := send(t, app, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(raw)

	assert.Contains(t, body, "products_http_requests_total")
	assert.Contains(t, body, `route="/api/products/:id"`)
	assert.Contains(t, body, `products_operations_total{operation="get",outcome="not_found"}`)
}

func TestNewApp_CORS(t *testing.T) {
	app := server.NewApp(testConfig(), repositories.NewMemoryProductRepository(), nil, zerolog.Nop())

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.True(t, strings.Contains(resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPatch))
}

func TestNewApp_UnknownRoute(t *testing.T) {
	app := server.NewApp(testConfig(), repositories.NewMemoryProductRepository(), nil, zerolog.Nop())

	resp := send(t, app, http.MethodGet, "/api/orders", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNewApp_ConcurrentCreates(t *testing.T) {
	app := server.NewApp(testConfig(), repositories.NewMemoryProductRepository(), nil, zerolog.Nop())

	// First request builds the routing tree.
	resp := send(t, app, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{"name":"cable","price":3}`))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req, -1)
			if assert.NoError(t, err) {
				assert.Equal(t, http.StatusCreated, resp.StatusCode)
			}
		}()
	}
	wg.Wait()

	resp = send(t, app, http.MethodGet, "/api/products", "")
	var out struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Len(t, out.Data, n)
}
