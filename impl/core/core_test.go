package core

import (
	"SmartBus/entity"
	"SmartBus/internal/database/memory"
	"SmartBus/internal/lib/errs"
	"SmartBus/internal/service/auth"
	"SmartBus/internal/storage/uploads"
	"bytes"
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"testing"
)

type sentMessage struct {
	chatId int64
	text   string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (n *recordingNotifier) Notify(chatId int64, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMessage{chatId, text})
	return nil
}

func newCore(t *testing.T) (*Core, *recordingNotifier) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	c := New(log)
	c.SetRepository(memory.New())
	c.SetAuthService(auth.NewAuthService(auth.Options{
		Secret:     "test-secret",
		BcryptCost: 4,
	}, log))

	files, err := uploads.New(t.TempDir(), 1<<20, log)
	if err != nil {
		t.Fatalf("uploads: %v", err)
	}
	c.SetFileStore(files)

	n := &recordingNotifier{}
	c.SetNotifier(n)
	return c, n
}

func pngUpload() *entity.Upload {
	content := append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 64)...)
	return &entity.Upload{Filename: "photo.png", Size: int64(len(content)), Content: bytes.NewReader(content)}
}

func strPtr(s string) *string { return &s }

func parentInput(username, cin string) entity.AccountInput {
	return entity.AccountInput{
		Username:    username,
		Email:       username + "@x.com",
		Password:    "pw",
		Role:        entity.RoleParent,
		Cin:         cin,
		PhoneNumber: "12345678",
	}
}

// seed creates a parent, a driver and a bus B1 driven by that driver.
func seed(t *testing.T, c *Core) (*entity.Account, *entity.Driver, *entity.Bus) {
	t.Helper()
	ctx := context.Background()

	parent, _, err := c.Register(ctx, parentInput("p1", "12345678"))
	if err != nil {
		t.Fatalf("register parent: %v", err)
	}
	driver, err := c.CreateDriver(ctx, entity.DriverInput{
		FirstName: "Sami", LastName: "Ben", Cin: "11111111", PhoneNumber: "98765432",
	})
	if err != nil {
		t.Fatalf("create driver: %v", err)
	}
	bus, err := c.CreateBus(ctx, entity.BusInput{
		BusId: "B1", Name: "Bus1", Capacity: 40, DriverId1: driver.Cin,
	})
	if err != nil {
		t.Fatalf("create bus: %v", err)
	}
	return parent, driver, bus
}

func TestRegister(t *testing.T) {
	c, _ := newCore(t)
	ctx := context.Background()

	account, token, err := c.Register(ctx, parentInput("p1", "12345678"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if token == "" || account.Password == "pw" {
		t.Fatalf("expected token and hashed password, got %q / %q", token, account.Password)
	}

	_, _, err = c.Register(ctx, parentInput("p2", "12345678"))
	if !errs.Is(err, errs.Conflict) {
		t.Fatalf("duplicate cin: expected conflict, got %v", err)
	}

	admin := parentInput("root", "")
	admin.Role = entity.RoleAdmin
	if _, _, err = c.Register(ctx, admin); !errs.Is(err, errs.Forbidden) {
		t.Fatalf("admin registration: expected forbidden, got %v", err)
	}

	noCin := parentInput("p3", "")
	_, _, err = c.Register(ctx, noCin)
	if !errs.Is(err, errs.InvalidInput) || !slices.Contains(errs.Fields(err), "cin is required") {
		t.Fatalf("parent without cin: got %v", err)
	}

	driver := entity.AccountInput{Username: "d1", Email: "d1@x.com", Password: "pw", Role: entity.RoleDriver}
	if _, _, err = c.Register(ctx, driver); err != nil {
		t.Fatalf("driver account needs no cin: %v", err)
	}
}

func TestLogin(t *testing.T) {
	c, _ := newCore(t)
	ctx := context.Background()
	if _, _, err := c.Register(ctx, parentInput("p1", "12345678")); err != nil {
		t.Fatalf("register: %v", err)
	}

	for _, login := range []string{"p1", "P1@X.com"} {
		if _, token, err := c.Login(ctx, login, "pw"); err != nil || token == "" {
			t.Fatalf("login %s: %v", login, err)
		}
	}

	_, _, wrongPassword := c.Login(ctx, "p1", "nope")
	_, _, unknownUser := c.Login(ctx, "ghost", "pw")
	for _, err := range []error{wrongPassword, unknownUser} {
		if !errs.Is(err, errs.InvalidInput) || errs.Message(err) != "invalid credentials" {
			t.Fatalf("expected invalid credentials, got %v", err)
		}
	}
}

func TestBusReferences(t *testing.T) {
	c, _ := newCore(t)
	ctx := context.Background()
	_, driver, _ := seed(t, c)

	_, err := c.CreateBus(ctx, entity.BusInput{BusId: "B2", Name: "Bus2", Capacity: 30, DriverId1: "00000000"})
	if !errs.Is(err, errs.NotFound) {
		t.Fatalf("missing driver: expected not found, got %v", err)
	}

	_, err = c.CreateBus(ctx, entity.BusInput{
		BusId: "B2", Name: "Bus2", Capacity: 30, DriverId1: driver.Cin, DriverId2: strPtr(driver.Cin),
	})
	if !errs.Is(err, errs.InvalidInput) {
		t.Fatalf("same driver twice: expected invalid input, got %v", err)
	}

	_, err = c.CreateBus(ctx, entity.BusInput{BusId: "B1", Name: "Dup", Capacity: 30, DriverId1: driver.Cin})
	if !errs.Is(err, errs.Conflict) {
		t.Fatalf("duplicate busId: expected conflict, got %v", err)
	}

	if err = c.DeleteDriver(ctx, driver.Cin); !errs.Is(err, errs.Conflict) {
		t.Fatalf("driver with bus: expected conflict, got %v", err)
	}
	if _, err = c.UpdateDriver(ctx, driver.ID, entity.DriverInput{Cin: "22222222"}); !errs.Is(err, errs.Conflict) {
		t.Fatalf("driver cin rename with bus: expected conflict, got %v", err)
	}

	if err = c.DeleteBus(ctx, "B1"); err != nil {
		t.Fatalf("delete bus: %v", err)
	}
	if err = c.DeleteDriver(ctx, driver.ID); err != nil {
		t.Fatalf("delete driver without buses: %v", err)
	}
}

func TestBusLocation(t *testing.T) {
	c, _ := newCore(t)
	ctx := context.Background()
	parent, driver, bus := seed(t, c)
	admin := &entity.UserAuth{Role: entity.RoleAdmin}

	moved, err := c.UpdateBusLocation(ctx, admin, bus.ID, entity.Coordinates{Latitude: 36.8, Longitude: 10.18})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved.Location == nil || moved.Location.Latitude != 36.8 || moved.Location.UpdatedAt.IsZero() {
		t.Fatalf("unexpected location %+v", moved.Location)
	}

	if _, err = c.UpdateBusLocation(ctx, admin, "B1", entity.Coordinates{Latitude: 91}); !errs.Is(err, errs.InvalidInput) {
		t.Fatalf("latitude out of range: expected invalid input, got %v", err)
	}

	assigned, _, err := c.Register(ctx, entity.AccountInput{
		Username: "d1", Email: "d1@x.com", Password: "pw", Role: entity.RoleDriver, Cin: driver.Cin,
	})
	if err != nil {
		t.Fatalf("register assigned driver: %v", err)
	}
	other, _, err := c.Register(ctx, entity.AccountInput{
		Username: "d2", Email: "d2@x.com", Password: "pw", Role: entity.RoleDriver,
	})
	if err != nil {
		t.Fatalf("register other driver: %v", err)
	}

	at := entity.Coordinates{Latitude: 36.9, Longitude: 10.2}
	if _, err = c.UpdateBusLocation(ctx, &entity.UserAuth{AccountId: assigned.ID, Role: entity.RoleDriver}, "B1", at); err != nil {
		t.Fatalf("assigned driver: %v", err)
	}
	denied := []*entity.UserAuth{
		{AccountId: other.ID, Role: entity.RoleDriver},
		{AccountId: parent.ID, Role: entity.RoleParent},
		nil,
	}
	for _, caller := range denied {
		if _, err = c.UpdateBusLocation(ctx, caller, "B1", at); !errs.Is(err, errs.Forbidden) {
			t.Fatalf("caller %+v: expected forbidden, got %v", caller, err)
		}
	}
}

func TestStudentLifecycle(t *testing.T) {
	c, _ := newCore(t)
	ctx := context.Background()
	parent, _, bus := seed(t, c)

	in := entity.StudentInput{StudentId: "RFID0001", Name: "Ali", ParentId: parent.Cin}
	_, err := c.CreateStudent(ctx, in, nil)
	if !errs.Is(err, errs.InvalidInput) || !slices.Contains(errs.Fields(err), "image is required") {
		t.Fatalf("no image: got %v", err)
	}

	orphan := in
	orphan.ParentId = "99999999"
	if _, err = c.CreateStudent(ctx, orphan, pngUpload()); !errs.Is(err, errs.NotFound) {
		t.Fatalf("unknown parent: expected not found, got %v", err)
	}

	in.BusId = strPtr(bus.BusId)
	student, err := c.CreateStudent(ctx, in, pngUpload())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasPrefix(student.ImagePath, uploads.URLPrefix) {
		t.Fatalf("unexpected image path %q", student.ImagePath)
	}

	got, err := c.GetStudent(ctx, "RFID0001")
	if err != nil || got.ID != student.ID || got.Name != "Ali" {
		t.Fatalf("get by rfid: %+v, %v", got, err)
	}

	if err = c.DeleteParent(ctx, parent.Cin); !errs.Is(err, errs.Conflict) {
		t.Fatalf("parent with student: expected conflict, got %v", err)
	}
	if err = c.DeleteBus(ctx, bus.BusId); !errs.Is(err, errs.Conflict) {
		t.Fatalf("bus with student: expected conflict, got %v", err)
	}

	updated, err := c.UpdateStudent(ctx, student.ID, entity.StudentInput{Name: "Ali B", BusId: strPtr("")}, nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Ali B" || updated.BusId != "" || updated.ImagePath != student.ImagePath {
		t.Fatalf("unexpected update result %+v", updated)
	}

	if err = c.DeleteStudent(ctx, student.StudentId); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err = c.DeleteParent(ctx, parent.ID); err != nil {
		t.Fatalf("delete parent without students: %v", err)
	}
}

func TestPresence(t *testing.T) {
	c, n := newCore(t)
	ctx := context.Background()
	parent, _, bus := seed(t, c)

	if _, err := c.UpdateAccount(ctx, parent.ID, entity.AccountInput{TelegramId: 4242}); err != nil {
		t.Fatalf("link telegram: %v", err)
	}
	student, err := c.CreateStudent(ctx, entity.StudentInput{
		StudentId: "RFID0001", Name: "Ali", ParentId: parent.Cin, BusId: strPtr(bus.BusId),
	}, pngUpload())
	if err != nil {
		t.Fatalf("create student: %v", err)
	}

	_, err = c.CreatePresence(ctx, entity.PresenceInput{StudentId: "RFID9999", BusId: bus.BusId, Status: "boarded"})
	if !errs.Is(err, errs.NotFound) {
		t.Fatalf("unknown student: expected not found, got %v", err)
	}
	_, err = c.CreatePresence(ctx, entity.PresenceInput{StudentId: student.StudentId, BusId: bus.BusId, Status: "late"})
	if !errs.Is(err, errs.InvalidInput) {
		t.Fatalf("bad status: expected invalid input, got %v", err)
	}

	presence, err := c.CreatePresence(ctx, entity.PresenceInput{StudentId: student.StudentId, BusId: bus.BusId, Status: "monté"})
	if err != nil {
		t.Fatalf("create presence: %v", err)
	}
	if presence.Status != entity.StatusBoarded {
		t.Fatalf("legacy status not mapped: %s", presence.Status)
	}
	if len(n.sent) != 1 || n.sent[0].chatId != 4242 || !strings.Contains(n.sent[0].text, "Ali boarded bus Bus1") {
		t.Fatalf("unexpected notifications %+v", n.sent)
	}

	if err = c.DeleteStudent(ctx, student.ID); !errs.Is(err, errs.Conflict) {
		t.Fatalf("student with presences: expected conflict, got %v", err)
	}

	own, err := c.ParentPresences(ctx, parent.ID)
	if err != nil || len(own) != 1 || own[0].ID != presence.ID {
		t.Fatalf("parent presences: %+v, %v", own, err)
	}

	updated, err := c.UpdatePresence(ctx, presence.ID, entity.PresenceInput{Status: "alighted"})
	if err != nil || updated.Status != entity.StatusAlighted {
		t.Fatalf("update presence: %+v, %v", updated, err)
	}

	if err = c.DeletePresence(ctx, presence.ID); err != nil {
		t.Fatalf("delete presence: %v", err)
	}
	if _, err = c.GetPresence(ctx, presence.ID); !errs.Is(err, errs.NotFound) {
		t.Fatalf("deleted presence: expected not found, got %v", err)
	}
}

func TestParentStudentsRequiresParent(t *testing.T) {
	c, _ := newCore(t)
	ctx := context.Background()
	driver, _, err := c.Register(ctx, entity.AccountInput{Username: "d1", Email: "d1@x.com", Password: "pw", Role: entity.RoleDriver})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err = c.ParentStudents(ctx, driver.ID); !errs.Is(err, errs.Forbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestEnsureAdmin(t *testing.T) {
	c, _ := newCore(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := c.EnsureAdmin(ctx, "admin", "admin@x.com", "secret"); err != nil {
			t.Fatalf("ensure admin (run %d): %v", i+1, err)
		}
	}

	account, token, err := c.Login(ctx, "admin@x.com", "secret")
	if err != nil || token == "" || !account.IsAdmin() {
		t.Fatalf("admin login: %+v, %v", account, err)
	}

	admins, err := c.repo.ListAccounts(ctx, entity.RoleAdmin)
	if err != nil || len(admins) != 1 {
		t.Fatalf("expected exactly one admin, got %d (%v)", len(admins), err)
	}
}
