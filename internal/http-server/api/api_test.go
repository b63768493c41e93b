package api

import (
	"SmartBus/entity"
	"SmartBus/impl/core"
	"SmartBus/internal/config"
	"SmartBus/internal/database/memory"
	"SmartBus/internal/service/auth"
	"SmartBus/internal/storage/uploads"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type testServer struct {
	t          *testing.T
	handler    http.Handler
	adminToken string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	conf := &config.Config{}
	conf.Listen.Timeout = 5
	conf.Uploads.Dir = t.TempDir()
	conf.Uploads.MaxSize = 1 << 20

	c := core.New(log)
	c.SetRepository(memory.New())
	c.SetAuthService(auth.NewAuthService(auth.Options{Secret: "test-secret", BcryptCost: 4}, log))
	files, err := uploads.New(conf.Uploads.Dir, conf.Uploads.MaxSize, log)
	if err != nil {
		t.Fatalf("uploads: %v", err)
	}
	c.SetFileStore(files)

	if err = c.EnsureAdmin(context.Background(), "admin", "admin@x.com", "secret"); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	_, token, err := c.Login(context.Background(), "admin", "secret")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}

	return &testServer{t: t, handler: NewRouter(conf, log, c), adminToken: token}
}

func (s *testServer) send(req *http.Request, token string) (int, map[string]interface{}) {
	s.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	body := map[string]interface{}{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			s.t.Fatalf("%s %s: decode body: %v", req.Method, req.URL.Path, err)
		}
	}
	return rec.Code, body
}

func (s *testServer) json(method, path, token string, payload interface{}) (int, map[string]interface{}) {
	s.t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			s.t.Fatalf("marshal: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	return s.send(req, token)
}

func (s *testServer) multipart(method, path, token string, fields map[string]string, image []byte) (int, map[string]interface{}) {
	s.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", "photo.png")
		if err != nil {
			s.t.Fatalf("form file: %v", err)
		}
		_, _ = fw.Write(image)
	}
	_ = mw.Close()

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.send(req, token)
}

func (s *testServer) register(payload map[string]interface{}) string {
	s.t.Helper()
	status, body := s.json(http.MethodPost, "/api/users/register", "", payload)
	if status != http.StatusCreated {
		s.t.Fatalf("register: status %d, body %v", status, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		s.t.Fatalf("register: no token in %v", body)
	}
	return token
}

func parentPayload() map[string]interface{} {
	return map[string]interface{}{
		"username":    "p1",
		"email":       "p1@x.com",
		"password":    "pw",
		"role":        "parent",
		"cin":         "12345678",
		"phoneNumber": "12345678",
	}
}

var pngImage = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 64)...)

func TestAdminRoutesRequireCredentials(t *testing.T) {
	s := newTestServer(t)
	parentToken := s.register(parentPayload())

	for _, path := range []string{"/api/buses", "/api/drivers", "/api/students", "/api/presences", "/api/users/parents"} {
		if status, body := s.json(http.MethodGet, path, "", nil); status != http.StatusUnauthorized || body["message"] != "missing credentials" {
			t.Fatalf("%s without token: %d %v", path, status, body)
		}
		if status, _ := s.json(http.MethodGet, path, "garbage", nil); status != http.StatusUnauthorized {
			t.Fatalf("%s with bad token: %d", path, status)
		}
		if status, body := s.json(http.MethodGet, path, parentToken, nil); status != http.StatusForbidden || body["error"] != "forbidden" {
			t.Fatalf("%s with parent token: %d %v", path, status, body)
		}
		if status, _ := s.json(http.MethodGet, path, s.adminToken, nil); status != http.StatusOK {
			t.Fatalf("%s with admin token: %d", path, status)
		}
	}
}

func TestStudentScenario(t *testing.T) {
	s := newTestServer(t)
	s.register(parentPayload())

	fields := map[string]string{"studentId": "RFID0001", "name": "Ali", "parentId": "12345678"}

	status, body := s.json(http.MethodPost, "/api/students/add", s.adminToken, fields)
	if status != http.StatusBadRequest || !strings.Contains(body["message"].(string), "image is required") {
		t.Fatalf("json without image: %d %v", status, body)
	}
	status, body = s.multipart(http.MethodPost, "/api/students/add", s.adminToken, fields, nil)
	if status != http.StatusBadRequest || body["error"] != "invalid_input" {
		t.Fatalf("multipart without image: %d %v", status, body)
	}

	status, body = s.multipart(http.MethodPost, "/api/students/add", s.adminToken, fields, pngImage)
	if status != http.StatusCreated {
		t.Fatalf("add student: %d %v", status, body)
	}
	created := body["student"].(map[string]interface{})
	id := created["id"].(string)

	status, body = s.json(http.MethodGet, "/api/students/"+id, s.adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("get student: %d %v", status, body)
	}
	got := body["student"].(map[string]interface{})
	for _, k := range []string{"studentId", "name", "parentId", "imagePath"} {
		if got[k] != created[k] {
			t.Fatalf("field %s: got %v, want %v", k, got[k], created[k])
		}
	}

	req := httptest.NewRequest(http.MethodGet, got["imagePath"].(string), nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !bytes.Equal(rec.Body.Bytes(), pngImage) {
		t.Fatalf("serve image: %d, %d bytes", rec.Code, rec.Body.Len())
	}
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/", nil))
	if rec.Code != http.StatusNotFound || strings.Contains(rec.Body.String(), ".png") {
		t.Fatalf("uploads listing: %d %s", rec.Code, rec.Body.String())
	}

	status, body = s.multipart(http.MethodPost, "/api/students/add", s.adminToken, fields, pngImage)
	if status != http.StatusBadRequest || body["error"] != "conflict" {
		t.Fatalf("duplicate studentId: %d %v", status, body)
	}
}

func TestStudentBodyLimit(t *testing.T) {
	s := newTestServer(t)
	s.register(parentPayload())

	fields := map[string]string{"studentId": "RFID0002", "name": "Omar", "parentId": "12345678"}
	huge := append(append([]byte{}, pngImage...), bytes.Repeat([]byte{0}, 3<<20)...)

	status, body := s.multipart(http.MethodPost, "/api/students/add", s.adminToken, fields, huge)
	if status != http.StatusBadRequest || body["error"] != "invalid_input" {
		t.Fatalf("oversized form: %d %v", status, body)
	}
	if status, _ = s.json(http.MethodGet, "/api/students/RFID0002", s.adminToken, nil); status != http.StatusNotFound {
		t.Fatalf("oversized form created a student: %d", status)
	}
}

func TestBusScenario(t *testing.T) {
	s := newTestServer(t)

	bus := map[string]interface{}{"busId": "B1", "name": "Bus1", "capacity": 40, "driverId1": "00000000"}
	if status, body := s.json(http.MethodPost, "/api/buses/add", s.adminToken, bus); status != http.StatusNotFound || body["error"] != "not_found" {
		t.Fatalf("bus with unknown driver: %d %v", status, body)
	}

	driver := map[string]interface{}{"firstName": "Sami", "lastName": "Ben", "cin": "00000000", "phoneNumber": "98765432"}
	if status, body := s.json(http.MethodPost, "/api/drivers/add", s.adminToken, driver); status != http.StatusCreated {
		t.Fatalf("add driver: %d %v", status, body)
	}
	if status, body := s.json(http.MethodPost, "/api/drivers/add", s.adminToken, driver); status != http.StatusBadRequest || body["error"] != "conflict" {
		t.Fatalf("duplicate driver cin: %d %v", status, body)
	}

	bus["driverId2"] = "00000000"
	if status, body := s.json(http.MethodPost, "/api/buses/add", s.adminToken, bus); status != http.StatusBadRequest || body["error"] != "invalid_input" {
		t.Fatalf("same driver twice: %d %v", status, body)
	}
	delete(bus, "driverId2")

	status, body := s.json(http.MethodPost, "/api/buses/add", s.adminToken, bus)
	if status != http.StatusCreated {
		t.Fatalf("add bus: %d %v", status, body)
	}
	if status, body = s.json(http.MethodGet, "/api/buses/B1", s.adminToken, nil); status != http.StatusOK {
		t.Fatalf("get bus by busId: %d %v", status, body)
	}

	if status, body = s.json(http.MethodDelete, "/api/drivers/00000000", s.adminToken, nil); status != http.StatusBadRequest || body["error"] != "conflict" {
		t.Fatalf("delete driver with bus: %d %v", status, body)
	}

	if status, body = s.json(http.MethodPut, "/api/buses/B1", s.adminToken, map[string]interface{}{"capacity": 50}); status != http.StatusOK {
		t.Fatalf("update bus: %d %v", status, body)
	}
	if got := body["bus"].(map[string]interface{})["capacity"]; got != float64(50) {
		t.Fatalf("capacity not updated: %v", got)
	}

	if status, body = s.json(http.MethodDelete, "/api/buses/B1", s.adminToken, nil); status != http.StatusOK {
		t.Fatalf("delete bus: %d %v", status, body)
	}
	if status, _ = s.json(http.MethodDelete, "/api/drivers/00000000", s.adminToken, nil); status != http.StatusOK {
		t.Fatalf("delete driver: %d", status)
	}
}

func TestRoleSpecificRoutes(t *testing.T) {
	s := newTestServer(t)
	parentToken := s.register(parentPayload())
	driverToken := s.register(map[string]interface{}{
		"username": "d1", "email": "d1@x.com", "password": "pw", "role": "driver", "cin": "11111111",
	})
	strangerToken := s.register(map[string]interface{}{
		"username": "d2", "email": "d2@x.com", "password": "pw", "role": "driver",
	})

	if status, body := s.json(http.MethodPost, "/api/users/register", "", map[string]interface{}{
		"username": "root", "email": "root@x.com", "password": "pw", "role": "admin",
	}); status != http.StatusForbidden {
		t.Fatalf("admin self-registration: %d %v", status, body)
	}

	status, body := s.json(http.MethodGet, "/api/users/me", parentToken, nil)
	if status != http.StatusOK || body["user"].(map[string]interface{})["username"] != "p1" {
		t.Fatalf("me: %d %v", status, body)
	}
	if _, leaked := body["user"].(map[string]interface{})["password"]; leaked {
		t.Fatalf("password hash exposed: %v", body)
	}

	if status, body = s.json(http.MethodPut, "/api/users/me", parentToken, map[string]interface{}{"role": "admin"}); status != http.StatusOK {
		t.Fatalf("me update: %d %v", status, body)
	}
	if role := body["user"].(map[string]interface{})["role"]; role != "parent" {
		t.Fatalf("role changed through me update: %v", role)
	}
	if status, _ = s.json(http.MethodGet, "/api/users/parents", parentToken, nil); status != http.StatusForbidden {
		t.Fatalf("parent on admin route after role update: %d", status)
	}

	if status, _ = s.json(http.MethodGet, "/api/users/me/students", parentToken, nil); status != http.StatusOK {
		t.Fatalf("parent students: %d", status)
	}
	if status, _ = s.json(http.MethodGet, "/api/users/me/students", driverToken, nil); status != http.StatusForbidden {
		t.Fatalf("driver on parent route: %d", status)
	}

	driver := map[string]interface{}{"firstName": "Sami", "lastName": "Ben", "cin": "11111111", "phoneNumber": "98765432"}
	s.json(http.MethodPost, "/api/drivers/add", s.adminToken, driver)
	s.json(http.MethodPost, "/api/buses/add", s.adminToken, map[string]interface{}{
		"busId": "B1", "name": "Bus1", "capacity": 40, "driverId1": "11111111",
	})

	location := map[string]interface{}{"latitude": 36.8, "longitude": 10.18}
	if status, body = s.json(http.MethodPut, "/api/buses/B1/location", driverToken, location); status != http.StatusOK {
		t.Fatalf("driver location update: %d %v", status, body)
	}
	if status, body = s.json(http.MethodPut, "/api/buses/B1/location", strangerToken, location); status != http.StatusForbidden {
		t.Fatalf("unassigned driver location update: %d %v", status, body)
	}
	if status, _ = s.json(http.MethodPut, "/api/buses/B1/location", parentToken, location); status != http.StatusForbidden {
		t.Fatalf("parent location update: %d", status)
	}
	if status, _ = s.json(http.MethodPut, "/api/buses/B1", driverToken, map[string]interface{}{"capacity": 10}); status != http.StatusForbidden {
		t.Fatalf("driver bus update: %d", status)
	}

	status, body = s.json(http.MethodPost, "/api/users/login", "", map[string]interface{}{"login": "p1", "password": "wrong"})
	if status != http.StatusBadRequest || body["message"] != "invalid credentials" {
		t.Fatalf("bad login: %d %v", status, body)
	}
	if status, body = s.json(http.MethodPost, "/api/users/login", "", map[string]interface{}{"email": "p1@x.com", "password": "pw"}); status != http.StatusOK {
		t.Fatalf("login: %d %v", status, body)
	}
}

func TestPresenceRoutes(t *testing.T) {
	s := newTestServer(t)
	parentToken := s.register(parentPayload())
	s.json(http.MethodPost, "/api/drivers/add", s.adminToken, map[string]interface{}{
		"firstName": "Sami", "lastName": "Ben", "cin": "11111111", "phoneNumber": "98765432",
	})
	s.json(http.MethodPost, "/api/buses/add", s.adminToken, map[string]interface{}{
		"busId": "B1", "name": "Bus1", "capacity": 40, "driverId1": "11111111",
	})
	s.multipart(http.MethodPost, "/api/students/add", s.adminToken, map[string]string{
		"studentId": "RFID0001", "name": "Ali", "parentId": "12345678", "busId": "B1",
	}, pngImage)

	for _, status := range []string{entity.StatusBoarded, entity.StatusAlighted} {
		code, body := s.json(http.MethodPost, "/api/presences/add", s.adminToken, map[string]interface{}{
			"studentId": "RFID0001", "busId": "B1", "status": status,
		})
		if code != http.StatusCreated {
			t.Fatalf("add presence: %d %v", code, body)
		}
	}

	status, body := s.json(http.MethodGet, "/api/presences?studentId=RFID0001", s.adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("list presences: %d %v", status, body)
	}
	if list := body["presences"].([]interface{}); len(list) != 2 {
		t.Fatalf("expected 2 presences, got %d", len(list))
	}

	status, body = s.json(http.MethodGet, "/api/users/me/presences", parentToken, nil)
	if status != http.StatusOK || len(body["presences"].([]interface{})) != 2 {
		t.Fatalf("parent presences: %d %v", status, body)
	}

	if status, body = s.json(http.MethodDelete, "/api/students/RFID0001", s.adminToken, nil); status != http.StatusBadRequest || body["error"] != "conflict" {
		t.Fatalf("delete student with presences: %d %v", status, body)
	}
}

func TestHealthAndFallbacks(t *testing.T) {
	s := newTestServer(t)

	if status, _ := s.json(http.MethodGet, "/health", "", nil); status != http.StatusOK {
		t.Fatalf("health: %d", status)
	}
	if status, _ := s.json(http.MethodGet, "/nope", "", nil); status != http.StatusNotFound {
		t.Fatalf("unknown route: %d", status)
	}
}
