package core

import (
	"SmartBus/entity"
	"SmartBus/internal/lib/sl"
	"context"
	"log/slog"
)

// Repository is the persistence gateway. Get* and Find* return nil, nil
// when nothing matches; Create* reports a unique index violation as
// errs.Conflict; Update* and Delete* report a missing record as
// errs.NotFound.
type Repository interface {
	CreateAccount(ctx context.Context, account *entity.Account) error
	UpdateAccount(ctx context.Context, account *entity.Account) error
	DeleteAccount(ctx context.Context, id string) error
	GetAccount(ctx context.Context, id string) (*entity.Account, error)
	FindAccount(ctx context.Context, field, value string) (*entity.Account, error)
	ListAccounts(ctx context.Context, role string) ([]entity.Account, error)

	CreateDriver(ctx context.Context, driver *entity.Driver) error
	UpdateDriver(ctx context.Context, driver *entity.Driver) error
	DeleteDriver(ctx context.Context, id string) error
	GetDriver(ctx context.Context, id string) (*entity.Driver, error)
	FindDriver(ctx context.Context, field, value string) (*entity.Driver, error)
	ListDrivers(ctx context.Context) ([]entity.Driver, error)

	CreateBus(ctx context.Context, bus *entity.Bus) error
	UpdateBus(ctx context.Context, bus *entity.Bus) error
	DeleteBus(ctx context.Context, id string) error
	GetBus(ctx context.Context, id string) (*entity.Bus, error)
	FindBus(ctx context.Context, field, value string) (*entity.Bus, error)
	ListBuses(ctx context.Context) ([]entity.Bus, error)
	CountBusesByDriver(ctx context.Context, cin string) (int64, error)

	CreateStudent(ctx context.Context, student *entity.Student) error
	UpdateStudent(ctx context.Context, student *entity.Student) error
	DeleteStudent(ctx context.Context, id string) error
	GetStudent(ctx context.Context, id string) (*entity.Student, error)
	FindStudent(ctx context.Context, field, value string) (*entity.Student, error)
	ListStudents(ctx context.Context, filter entity.StudentFilter) ([]entity.Student, error)
	CountStudents(ctx context.Context, field, value string) (int64, error)

	CreatePresence(ctx context.Context, presence *entity.Presence) error
	UpdatePresence(ctx context.Context, presence *entity.Presence) error
	DeletePresence(ctx context.Context, id string) error
	GetPresence(ctx context.Context, id string) (*entity.Presence, error)
	ListPresences(ctx context.Context, filter entity.PresenceFilter) ([]entity.Presence, error)
	CountPresences(ctx context.Context, field, value string) (int64, error)
}

type AuthService interface {
	IssueToken(account *entity.Account) (string, error)
	AuthenticateByToken(token string) (*entity.UserAuth, error)
	HashPassword(plain string) (string, error)
	CheckPassword(hash, plain string) bool
}

type FileStore interface {
	Save(upload *entity.Upload) (string, error)
	Remove(publicPath string) error
}

// Notifier delivers a text message to a parent's chat.
type Notifier interface {
	Notify(chatId int64, text string) error
}

type Core struct {
	repo     Repository
	auth     AuthService
	files    FileStore
	notifier Notifier
	log      *slog.Logger
}

func New(log *slog.Logger) *Core {
	return &Core{
		log: log.With(sl.Module("core")),
	}
}

func (c *Core) SetRepository(repo Repository) {
	c.repo = repo
}

func (c *Core) SetAuthService(auth AuthService) {
	c.auth = auth
}

func (c *Core) SetFileStore(files FileStore) {
	c.files = files
}

func (c *Core) SetNotifier(notifier Notifier) {
	c.notifier = notifier
}

func (c *Core) AuthenticateByToken(token string) (*entity.UserAuth, error) {
	return c.auth.AuthenticateByToken(token)
}
