package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"courier-tracker/internal/core/config"
	"courier-tracker/internal/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNew verifies that New creates a Server with the correct configuration.
func TestNew(t *testing.T) {
	cfg := &config.AppConfig{
		ServerPort: 8080,
	}

	logger.Init("development", "debug")
	srv := New(cfg)

	require.NotNil(t, srv)
	assert.NotNil(t, srv.App)
	assert.NotNil(t, srv.API)
	assert.Equal(t, cfg, srv.cfg)
}

// TestServer_Run_Error verifies that Run returns an error when binding fails (e.g., privileged port).
func TestServer_Run_Error(t *testing.T) {
	// Privileged port 1 should fail
	cfg := &config.AppConfig{
		ServerPort: 1,
	}
	logger.Init("development", "error")

	srv := New(cfg)

	errCh := make(chan error)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		assert.Error(t, err)
	case <-time.After(1 * time.Second):
		srv.App.Shutdown()
		t.Log("Server unexpectedly started or timed out on Error test")
	}
}

func TestServer_Healthz(t *testing.T) {
	logger.Init("development", "error")
	srv := New(&config.AppConfig{})

	resp, err := srv.App.Test(httptest.NewRequest("GET", "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(RayIDHeader))
}

func TestServer_APIGroup(t *testing.T) {
	logger.Init("development", "error")
	srv := New(&config.AppConfig{})

	srv.API.Get("/ok", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ray_id": RayID(c)})
	})
	srv.API.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("database exploded")
	})
	srv.API.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	t.Run("NoStoreAndRayID", func(t *testing.T) {
		resp, err := srv.App.Test(httptest.NewRequest("GET", "/api/ok", nil))
		require.NoError(t, err)
		assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, resp.Header.Get(RayIDHeader), body["ray_id"])
		assert.Len(t, body["ray_id"], 36)
	})

	t.Run("IncomingRayIDKept", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/ok", nil)
		req.Header.Set(RayIDHeader, "ray-123")
		resp, err := srv.App.Test(req)
		require.NoError(t, err)
		assert.Equal(t, "ray-123", resp.Header.Get(RayIDHeader))
	})

	t.Run("UnhandledErrorCarriesMessage", func(t *testing.T) {
		resp, err := srv.App.Test(httptest.NewRequest("GET", "/api/boom", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))

		var body ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "database exploded", body.Error)
		assert.NotEmpty(t, body.RayID)
	})

	t.Run("FiberErrorKeepsStatus", func(t *testing.T) {
		resp, err := srv.App.Test(httptest.NewRequest("GET", "/api/teapot", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)

		var body ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "short and stout", body.Error)
	})
}

func TestDecodeBody(t *testing.T) {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		body, err := DecodeBody(c)
		if err != nil {
			return SendError(c, fiber.StatusBadRequest, "Invalid request body")
		}
		return c.JSON(fiber.Map{
			"mobile": body.String("mobile", "phone"),
			"ids":    body.Value("docIds", "docId"),
		})
	})

	post := func(body string) (int, string) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		out, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(out)
	}

	code, out := post(`{"phone": 9876543210, "docIds": "", "docId": [1698979542]}`)
	assert.Equal(t, fiber.StatusOK, code)
	assert.JSONEq(t, `{"mobile":"9876543210","ids":[1698979542]}`, out)

	code, out = post(``)
	assert.Equal(t, fiber.StatusOK, code)
	assert.JSONEq(t, `{"mobile":"","ids":null}`, out)

	code, _ = post(`{broken`)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestQueryValues(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"v": QueryValues(c, "docId", "docIds")})
	})

	get := func(query string) string {
		resp, err := app.Test(httptest.NewRequest("GET", "/?"+query, nil))
		require.NoError(t, err)
		out, _ := io.ReadAll(resp.Body)
		return string(out)
	}

	assert.JSONEq(t, `{"v":"1,2"}`, get("docIds=1,2"))
	assert.JSONEq(t, `{"v":["1","2"]}`, get("docIds=1&docIds=2"))
	assert.JSONEq(t, `{"v":"9"}`, get("docId=9&docIds=1"))
	assert.JSONEq(t, `{"v":"1"}`, get("docId=&docIds=1"))
	assert.JSONEq(t, `{"v":null}`, get(""))
}
