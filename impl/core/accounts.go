package core

import (
	"SmartBus/entity"
	"SmartBus/internal/lib/errs"
	"SmartBus/internal/lib/sl"
	"SmartBus/internal/lib/validate"
	"context"
	"fmt"
	"github.com/google/uuid"
	"log/slog"
	"strings"
)

func accountId(a *entity.Account) string { return a.ID }

// Register creates a parent or driver account and returns it with a token.
func (c *Core) Register(ctx context.Context, in entity.AccountInput) (*entity.Account, string, error) {
	in.Normalize()
	if in.Role == entity.RoleAdmin {
		return nil, "", errs.Forbiddenf("admin accounts cannot be registered")
	}
	return c.createWithToken(ctx, in)
}

// AddParent provisions a parent account on behalf of an admin.
func (c *Core) AddParent(ctx context.Context, in entity.AccountInput) (*entity.Account, string, error) {
	in.Role = entity.RoleParent
	return c.createWithToken(ctx, in)
}

func (c *Core) createWithToken(ctx context.Context, in entity.AccountInput) (*entity.Account, string, error) {
	account, err := c.createAccount(ctx, in)
	if err != nil {
		return nil, "", err
	}
	token, err := c.auth.IssueToken(account)
	if err != nil {
		return nil, "", err
	}
	return account, token, nil
}

func (c *Core) createAccount(ctx context.Context, in entity.AccountInput) (*entity.Account, error) {
	account := entity.NewAccount(in)

	var invalid []string
	if err := validate.Struct(account); err != nil {
		if !errs.Is(err, errs.InvalidInput) {
			return nil, err
		}
		invalid = errs.Fields(err)
	}
	if in.Password == "" {
		invalid = append(invalid, "password is required")
	}
	if len(invalid) > 0 {
		return nil, errs.Invalid(invalid...)
	}

	if err := c.checkAccountUnique(ctx, account); err != nil {
		return nil, err
	}

	hash, err := c.auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	account.Password = hash

	if err = c.repo.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	c.log.With(
		slog.String("id", account.ID),
		slog.String("role", account.Role),
	).Info("account created")

	return account, nil
}

func (c *Core) checkAccountUnique(ctx context.Context, account *entity.Account) error {
	return checkUnique(ctx, c.repo.FindAccount, accountId, account.ID,
		uniqueField{entity.AccountUsername, account.Username},
		uniqueField{entity.AccountEmail, account.Email},
		uniqueField{entity.AccountCin, account.Cin},
	)
}

// Login accepts an email or a username. Unknown users and wrong passwords
// fail the same way.
func (c *Core) Login(ctx context.Context, login, password string) (*entity.Account, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", errs.Invalid("login and password are required")
	}

	field := entity.AccountUsername
	if strings.Contains(login, "@") {
		field = entity.AccountEmail
		login = strings.ToLower(login)
	}
	account, err := c.repo.FindAccount(ctx, field, login)
	if err != nil {
		return nil, "", fmt.Errorf("find account: %w", err)
	}
	if account == nil || !c.auth.CheckPassword(account.Password, password) {
		return nil, "", errs.Invalidf("invalid credentials")
	}

	token, err := c.auth.IssueToken(account)
	if err != nil {
		return nil, "", err
	}
	return account, token, nil
}

func (c *Core) GetAccount(ctx context.Context, id string) (*entity.Account, error) {
	account, err := c.repo.GetAccount(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	if account == nil {
		return nil, errs.NotFoundf("account not found")
	}
	return account, nil
}

// UpdateAccount is the self-service update; the role never changes here.
func (c *Core) UpdateAccount(ctx context.Context, id string, in entity.AccountInput) (*entity.Account, error) {
	account, err := c.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.updateAccount(ctx, account, in)
}

func (c *Core) updateAccount(ctx context.Context, account *entity.Account, in entity.AccountInput) (*entity.Account, error) {
	oldCin := account.Cin
	account.Apply(in)

	if err := validate.Struct(account); err != nil {
		return nil, err
	}
	if err := c.checkAccountUnique(ctx, account); err != nil {
		return nil, err
	}
	if oldCin != "" && oldCin != account.Cin {
		n, err := c.repo.CountStudents(ctx, entity.StudentParentId, oldCin)
		if err = noDependents(n, err, "parent "+oldCin, "student(s)"); err != nil {
			return nil, err
		}
	}
	if in.Password != "" {
		hash, err := c.auth.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		account.Password = hash
	}

	if err := c.repo.UpdateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	return account, nil
}

func (c *Core) ListParents(ctx context.Context) ([]entity.Account, error) {
	parents, err := c.repo.ListAccounts(ctx, entity.RoleParent)
	if err != nil {
		return nil, fmt.Errorf("list parents: %w", err)
	}
	return parents, nil
}

// GetParent resolves key as an account id or a parent cin.
func (c *Core) GetParent(ctx context.Context, key string) (*entity.Account, error) {
	account, err := lookup(ctx, key, c.repo.GetAccount, c.repo.FindAccount, entity.AccountCin)
	if err != nil {
		return nil, fmt.Errorf("get parent: %w", err)
	}
	if account == nil || !account.IsParent() {
		return nil, errs.NotFoundf("parent %s not found", key)
	}
	return account, nil
}

func (c *Core) UpdateParent(ctx context.Context, key string, in entity.AccountInput) (*entity.Account, error) {
	parent, err := c.GetParent(ctx, key)
	if err != nil {
		return nil, err
	}
	return c.updateAccount(ctx, parent, in)
}

// DeleteParent refuses while any student names the parent.
func (c *Core) DeleteParent(ctx context.Context, key string) error {
	parent, err := c.GetParent(ctx, key)
	if err != nil {
		return err
	}
	n, err := c.repo.CountStudents(ctx, entity.StudentParentId, parent.Cin)
	if err = noDependents(n, err, "parent "+parent.Cin, "student(s)"); err != nil {
		return err
	}
	if err = c.repo.DeleteAccount(ctx, parent.ID); err != nil {
		return fmt.Errorf("delete parent: %w", err)
	}
	return nil
}

// ParentStudents lists the children of the parent account id.
func (c *Core) ParentStudents(ctx context.Context, id string) ([]entity.Student, error) {
	account, err := c.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if !account.IsParent() {
		return nil, errs.Forbiddenf("parent role required")
	}
	students, err := c.repo.ListStudents(ctx, entity.StudentFilter{ParentId: account.Cin})
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// ParentPresences lists the presence events of the parent's children.
func (c *Core) ParentPresences(ctx context.Context, id string) ([]entity.Presence, error) {
	students, err := c.ParentStudents(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return []entity.Presence{}, nil
	}
	ids := make([]string, 0, len(students))
	for _, s := range students {
		ids = append(ids, s.StudentId)
	}
	presences, err := c.repo.ListPresences(ctx, entity.PresenceFilter{StudentIds: ids})
	if err != nil {
		return nil, fmt.Errorf("list presences: %w", err)
	}
	return presences, nil
}

// EnsureAdmin creates the admin account unless one already exists. An empty
// password is replaced by a random one that is logged once.
func (c *Core) EnsureAdmin(ctx context.Context, username, email, password string) error {
	existing, err := c.repo.FindAccount(ctx, entity.AccountRole, entity.RoleAdmin)
	if err != nil {
		return fmt.Errorf("find admin: %w", err)
	}
	if existing != nil {
		c.log.With(slog.String("username", existing.Username)).Debug("admin account present")
		return nil
	}

	generated := password == ""
	if generated {
		password = uuid.NewString()
	}
	admin, err := c.createAccount(ctx, entity.AccountInput{
		Username: username,
		Email:    email,
		Password: password,
		Role:     entity.RoleAdmin,
	})
	if errs.Is(err, errs.Conflict) {
		// another instance won the race
		return nil
	}
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	logger := c.log.With(slog.String("username", admin.Username), slog.String("email", admin.Email))
	if generated {
		logger.With(slog.String("password", password)).Warn("admin account created with a generated password")
	} else {
		logger.With(sl.Secret("password", password)).Info("admin account created")
	}
	return nil
}
