// Package memory is an in-process persistence gateway. It enforces the same
// unique keys as the MongoDB indexes and hands out copies, so callers never
// share records.
package memory

import (
	"SmartBus/entity"
	"SmartBus/internal/lib/errs"
	"context"
	"slices"
	"sort"
	"sync"
)

type Store struct {
	mu        sync.RWMutex
	accounts  map[string]entity.Account
	drivers   map[string]entity.Driver
	buses     map[string]entity.Bus
	students  map[string]entity.Student
	presences map[string]entity.Presence
}

func New() *Store {
	return &Store{
		accounts:  make(map[string]entity.Account),
		drivers:   make(map[string]entity.Driver),
		buses:     make(map[string]entity.Bus),
		students:  make(map[string]entity.Student),
		presences: make(map[string]entity.Presence),
	}
}

func accountField(a *entity.Account, field string) string {
	switch field {
	case entity.AccountUsername:
		return a.Username
	case entity.AccountEmail:
		return a.Email
	case entity.AccountCin:
		return a.Cin
	case entity.AccountRole:
		return a.Role
	}
	return ""
}

func driverField(d *entity.Driver, field string) string {
	switch field {
	case entity.DriverCin:
		return d.Cin
	case entity.DriverEmail:
		return d.Email
	}
	return ""
}

func busField(b *entity.Bus, field string) string {
	if field == entity.BusBusId {
		return b.BusId
	}
	return ""
}

func studentField(s *entity.Student, field string) string {
	switch field {
	case entity.StudentStudentId:
		return s.StudentId
	case entity.StudentParentId:
		return s.ParentId
	case entity.StudentBusId:
		return s.BusId
	}
	return ""
}

func presenceField(p *entity.Presence, field string) string {
	switch field {
	case entity.PresenceStudentId:
		return p.StudentId
	case entity.PresenceBusId:
		return p.BusId
	}
	return ""
}

// duplicate reports the first unique field of v already held by another
// record in table.
func duplicate[T any](table map[string]T, id string, v *T, field func(*T, string) string, unique ...string) error {
	for _, name := range unique {
		value := field(v, name)
		if value == "" {
			continue
		}
		for otherId, other := range table {
			if otherId != id && field(&other, name) == value {
				return errs.Conflictf("%s %q already exists", name, value)
			}
		}
	}
	return nil
}

func find[T any](table map[string]T, field func(*T, string) string, name, value string) *T {
	for _, v := range table {
		if field(&v, name) == value {
			found := v
			return &found
		}
	}
	return nil
}

func count[T any](table map[string]T, field func(*T, string) string, name, value string) int64 {
	var n int64
	for _, v := range table {
		if field(&v, name) == value {
			n++
		}
	}
	return n
}

func get[T any](table map[string]T, id string) *T {
	v, ok := table[id]
	if !ok {
		return nil
	}
	return &v
}

func insert[T any](table map[string]T, id string, v *T, field func(*T, string) string, unique ...string) error {
	if _, ok := table[id]; ok {
		return errs.Conflictf("id %s already exists", id)
	}
	if err := duplicate(table, id, v, field, unique...); err != nil {
		return err
	}
	table[id] = *v
	return nil
}

func replace[T any](table map[string]T, id string, v *T, field func(*T, string) string, unique ...string) error {
	if _, ok := table[id]; !ok {
		return errs.NotFoundf("record %s not found", id)
	}
	if err := duplicate(table, id, v, field, unique...); err != nil {
		return err
	}
	table[id] = *v
	return nil
}

func remove[T any](table map[string]T, id string) error {
	if _, ok := table[id]; !ok {
		return errs.NotFoundf("record %s not found", id)
	}
	delete(table, id)
	return nil
}

func (s *Store) CreateAccount(_ context.Context, account *entity.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insert(s.accounts, account.ID, account, accountField, entity.AccountUsername, entity.AccountEmail, entity.AccountCin)
}

func (s *Store) UpdateAccount(_ context.Context, account *entity.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return replace(s.accounts, account.ID, account, accountField, entity.AccountUsername, entity.AccountEmail, entity.AccountCin)
}

func (s *Store) DeleteAccount(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return remove(s.accounts, id)
}

func (s *Store) GetAccount(_ context.Context, id string) (*entity.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return get(s.accounts, id), nil
}

func (s *Store) FindAccount(_ context.Context, field, value string) (*entity.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.accounts, accountField, field, value), nil
}

func (s *Store) ListAccounts(_ context.Context, role string) ([]entity.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]entity.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		if role == "" || a.Role == role {
			list = append(list, a)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (s *Store) CreateDriver(_ context.Context, driver *entity.Driver) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insert(s.drivers, driver.ID, driver, driverField, entity.DriverCin, entity.DriverEmail)
}

func (s *Store) UpdateDriver(_ context.Context, driver *entity.Driver) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return replace(s.drivers, driver.ID, driver, driverField, entity.DriverCin, entity.DriverEmail)
}

func (s *Store) DeleteDriver(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return remove(s.drivers, id)
}

func (s *Store) GetDriver(_ context.Context, id string) (*entity.Driver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return get(s.drivers, id), nil
}

func (s *Store) FindDriver(_ context.Context, field, value string) (*entity.Driver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.drivers, driverField, field, value), nil
}

func (s *Store) ListDrivers(_ context.Context) ([]entity.Driver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]entity.Driver, 0, len(s.drivers))
	for _, d := range s.drivers {
		list = append(list, d)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (s *Store) CreateBus(_ context.Context, bus *entity.Bus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insert(s.buses, bus.ID, copyBus(bus), busField, entity.BusBusId)
}

func (s *Store) UpdateBus(_ context.Context, bus *entity.Bus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return replace(s.buses, bus.ID, copyBus(bus), busField, entity.BusBusId)
}

func (s *Store) DeleteBus(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return remove(s.buses, id)
}

func (s *Store) GetBus(_ context.Context, id string) (*entity.Bus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyBus(get(s.buses, id)), nil
}

func (s *Store) FindBus(_ context.Context, field, value string) (*entity.Bus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyBus(find(s.buses, busField, field, value)), nil
}

func (s *Store) ListBuses(_ context.Context) ([]entity.Bus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]entity.Bus, 0, len(s.buses))
	for _, b := range s.buses {
		list = append(list, *copyBus(&b))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (s *Store) CountBusesByDriver(_ context.Context, cin string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, b := range s.buses {
		if slices.Contains(b.DriverIds(), cin) {
			n++
		}
	}
	return n, nil
}

// copyBus detaches the location pointer from the stored record.
func copyBus(bus *entity.Bus) *entity.Bus {
	if bus == nil {
		return nil
	}
	c := *bus
	if bus.Location != nil {
		loc := *bus.Location
		c.Location = &loc
	}
	return &c
}

func (s *Store) CreateStudent(_ context.Context, student *entity.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insert(s.students, student.ID, student, studentField, entity.StudentStudentId)
}

func (s *Store) UpdateStudent(_ context.Context, student *entity.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return replace(s.students, student.ID, student, studentField, entity.StudentStudentId)
}

func (s *Store) DeleteStudent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return remove(s.students, id)
}

func (s *Store) GetStudent(_ context.Context, id string) (*entity.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return get(s.students, id), nil
}

func (s *Store) FindStudent(_ context.Context, field, value string) (*entity.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.students, studentField, field, value), nil
}

func (s *Store) ListStudents(_ context.Context, filter entity.StudentFilter) ([]entity.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]entity.Student, 0)
	for _, st := range s.students {
		if filter.ParentId != "" && st.ParentId != filter.ParentId {
			continue
		}
		if filter.BusId != "" && st.BusId != filter.BusId {
			continue
		}
		list = append(list, st)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (s *Store) CountStudents(_ context.Context, field, value string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return count(s.students, studentField, field, value), nil
}

func (s *Store) CreatePresence(_ context.Context, presence *entity.Presence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insert(s.presences, presence.ID, presence, presenceField)
}

func (s *Store) UpdatePresence(_ context.Context, presence *entity.Presence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return replace(s.presences, presence.ID, presence, presenceField)
}

func (s *Store) DeletePresence(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return remove(s.presences, id)
}

func (s *Store) GetPresence(_ context.Context, id string) (*entity.Presence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return get(s.presences, id), nil
}

// ListPresences returns the newest events first.
func (s *Store) ListPresences(_ context.Context, filter entity.PresenceFilter) ([]entity.Presence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]entity.Presence, 0)
	for _, p := range s.presences {
		if len(filter.StudentIds) > 0 && !slices.Contains(filter.StudentIds, p.StudentId) {
			continue
		}
		if filter.BusId != "" && p.BusId != filter.BusId {
			continue
		}
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Timestamp.After(list[j].Timestamp) })
	return list, nil
}

func (s *Store) CountPresences(_ context.Context, field, value string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return count(s.presences, presenceField, field, value), nil
}
