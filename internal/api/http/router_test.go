package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-desk/internal/api/http/handlers"
	"github.com/spec-kit/complaint-desk/internal/domain"
	"github.com/spec-kit/complaint-desk/internal/observability"
	"github.com/spec-kit/complaint-desk/internal/service"
	"github.com/spec-kit/complaint-desk/internal/storage"
)

type stubPinger struct {
	enabled bool
	err     error
}

func (p stubPinger) Enabled() bool                { return p.enabled }
func (p stubPinger) Ping(_ context.Context) error { return p.err }

type testServer struct {
	app      *fiber.App
	registry *service.Registry
}

func newTestServer(t *testing.T, deps map[string]handlers.Pinger) *testServer {
	t.Helper()

	metrics := observability.NewMetrics()
	registry := service.NewRegistry(service.RegistryDependencies{})
	require.NoError(t, registry.Seed([]domain.Department{
		{ID: "zabita", Name: "Zabıta", Email: "zabita@x.gov"},
		{ID: "fen_isleri", Name: "Fen İşleri"},
	}, nil))

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), metrics, 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:      handlers.NewHealthHandler("complaint-desk", "test", deps),
		Complaints:  handlers.NewComplaintsHandler(registry, storage.NewDataURLStore(1024)),
		Departments: handlers.NewDepartmentsHandler(registry),
		Metrics:     metrics.Handler(),
	})
	return &testServer{app: app, registry: registry}
}

func (s *testServer) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.send(t, req)
}

func (s *testServer) send(t *testing.T, req *nethttp.Request) (int, map[string]any) {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func errorCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func data(body map[string]any) map[string]any {
	d, _ := body["data"].(map[string]any)
	return d
}

func TestDepartmentsRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	status, body := s.do(t, nethttp.MethodPost, "/api/departments", map[string]string{"name": "Temizlik", "email": "temizlik@x.gov"})
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "temizlik", data(body)["id"])
	assert.Equal(t, "Department 'Temizlik' added.", body["message"])

	status, body = s.do(t, nethttp.MethodPost, "/api/departments", map[string]string{"name": "zabıta"})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "DUPLICATE", errorCode(body))

	status, body = s.do(t, nethttp.MethodPost, "/api/departments", map[string]string{"name": "Parks", "email": "nope"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	status, body = s.do(t, nethttp.MethodGet, "/api/departments", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"], 3)
}

func TestComplaintLifecycle(t *testing.T) {
	s := newTestServer(t, nil)

	status, body := s.do(t, nethttp.MethodPost, "/api/complaints", map[string]string{
		"title": "T", "description": "D", "location": "L", "department_id": "zabita",
	})
	require.Equal(t, fiber.StatusCreated, status)
	created := data(body)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "New", created["status"])
	assert.Equal(t, "Zabıta", created["department_name"])
	assert.Equal(t, "Zabıta has been notified by e-mail.", body["message"])
	assert.Len(t, created["history"], 1)

	status, body = s.do(t, nethttp.MethodPost, "/api/complaints/"+id+"/actions", map[string]string{
		"description": "Patrol dispatched", "assigned_to": "Patrol Team 3",
	})
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "InProgress", data(body)["status"])
	assert.Equal(t, "In progress", data(body)["status_label"])

	status, body = s.do(t, nethttp.MethodPut, "/api/complaints/"+id+"/status", map[string]string{"status": "completed"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["changed"])
	assert.Equal(t, "Completed", data(body)["status"])
	assert.Len(t, data(body)["history"], 3)

	status, body = s.do(t, nethttp.MethodPut, "/api/complaints/"+id+"/status", map[string]string{"status": "Completed"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, body["changed"])
	assert.NotContains(t, body, "message")
	assert.Len(t, data(body)["history"], 3)

	status, body = s.do(t, nethttp.MethodGet, "/api/complaints/"+id, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Completed", data(body)["status"])
}

func TestComplaintErrors(t *testing.T) {
	s := newTestServer(t, nil)

	status, body := s.do(t, nethttp.MethodPost, "/api/complaints", map[string]string{"title": "T"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	details, _ := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Contains(t, details, "location")

	status, body = s.do(t, nethttp.MethodPost, "/api/complaints", map[string]string{
		"title": "T", "description": "D", "location": "L", "department_id": "parks",
	})
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))

	status, _ = s.do(t, nethttp.MethodGet, "/api/complaints/S-404", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = s.do(t, nethttp.MethodPut, "/api/complaints/S-404/status", map[string]string{"status": "Archived"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	status, body = s.do(t, nethttp.MethodPost, "/api/complaints/S-404/actions", map[string]string{"description": "x"})
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))

	status, body = s.do(t, nethttp.MethodGet, "/api/unknown", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))

	assert.Empty(t, s.registry.Complaints())
}

func TestListComplaintsFilters(t *testing.T) {
	s := newTestServer(t, nil)
	for _, dept := range []string{"zabita", "fen_isleri", "zabita"} {
		status, _ := s.do(t, nethttp.MethodPost, "/api/complaints", map[string]string{
			"title": "T", "description": "D", "location": "L", "department_id": dept,
		})
		require.Equal(t, fiber.StatusCreated, status)
	}
	first := s.registry.Complaints()[0]
	_, err := s.registry.SetStatus(context.Background(), first.ID, domain.StatusCompleted)
	require.NoError(t, err)

	_, body := s.do(t, nethttp.MethodGet, "/api/complaints", nil)
	assert.Len(t, body["data"], 3)

	_, body = s.do(t, nethttp.MethodGet, "/api/complaints?department_id=zabita", nil)
	assert.Len(t, body["data"], 2)

	_, body = s.do(t, nethttp.MethodGet, "/api/complaints?status=completed", nil)
	assert.Len(t, body["data"], 1)

	status, body := s.do(t, nethttp.MethodGet, "/api/complaints?status=Closed", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
}

func TestCreateComplaintWithImage(t *testing.T) {
	s := newTestServer(t, nil)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range map[string]string{"title": "Swing", "description": "Broken", "location": "Park", "department_id": "fen_isleri"} {
		require.NoError(t, w.WriteField(k, v))
	}
	part, err := w.CreateFormFile("image", "swing.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(nethttp.MethodPost, "/api/complaints", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	status, body := s.send(t, req)

	require.Equal(t, fiber.StatusCreated, status)
	url, _ := data(body)["image_url"].(string)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
	assert.Equal(t, "Complaint created and routed to Fen İşleri.", body["message"])
}

func TestCreateComplaintRejectsBadImagePart(t *testing.T) {
	tests := []struct {
		name   string
		write  func(w *multipart.Writer) error
		reason string
	}{
		{
			name:   "image sent as text field",
			write:  func(w *multipart.Writer) error { return w.WriteField("image", "not a file") },
			reason: "not_a_file",
		},
		{
			name: "two image files",
			write: func(w *multipart.Writer) error {
				for _, name := range []string{"a.png", "b.png"} {
					part, err := w.CreateFormFile("image", name)
					if err != nil {
						return err
					}
					if _, err := part.Write([]byte("\x89PNG\r\n\x1a\n")); err != nil {
						return err
					}
				}
				return nil
			},
			reason: "too_many",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil)

			var buf bytes.Buffer
			w := multipart.NewWriter(&buf)
			for k, v := range map[string]string{"title": "Swing", "description": "Broken", "location": "Park", "department_id": "fen_isleri"} {
				require.NoError(t, w.WriteField(k, v))
			}
			require.NoError(t, tt.write(w))
			require.NoError(t, w.Close())

			req := httptest.NewRequest(nethttp.MethodPost, "/api/complaints", &buf)
			req.Header.Set("Content-Type", w.FormDataContentType())
			status, body := s.send(t, req)

			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
			details, _ := body["error"].(map[string]any)["details"].(map[string]any)
			assert.Equal(t, tt.reason, details["image"])
			assert.Empty(t, s.registry.Complaints())
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, map[string]handlers.Pinger{
		"postgres": stubPinger{enabled: false},
		"redis":    stubPinger{enabled: true},
	})

	status, body := s.do(t, nethttp.MethodGet, "/health/live", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "alive", body["status"])

	status, body = s.do(t, nethttp.MethodGet, "/health/ready", nil)
	assert.Equal(t, fiber.StatusOK, status)
	deps, _ := body["dependencies"].(map[string]any)
	assert.Equal(t, "disabled", deps["postgres"])
	assert.Equal(t, "ok", deps["redis"])

	resp, err := s.app.Test(httptest.NewRequest(nethttp.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "complaint_desk_http_requests_total")
}

func TestReadinessFailure(t *testing.T) {
	s := newTestServer(t, map[string]handlers.Pinger{
		"redis": stubPinger{enabled: true, err: errors.New("dial tcp: connection refused")},
	})

	status, body := s.do(t, nethttp.MethodGet, "/health/ready", nil)

	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, "DEPENDENCY_UNAVAILABLE", errorCode(body))
}
