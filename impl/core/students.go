package core

import (
	"SmartBus/entity"
	"SmartBus/internal/lib/errs"
	"SmartBus/internal/lib/sl"
	"SmartBus/internal/lib/validate"
	"context"
	"fmt"
	"log/slog"
)

func studentId(s *entity.Student) string { return s.ID }

// CreateStudent requires an identification image, a parent account with
// the given cin and, when set, an existing bus.
func (c *Core) CreateStudent(ctx context.Context, in entity.StudentInput, image *entity.Upload) (*entity.Student, error) {
	student := entity.NewStudent(in)

	var invalid []string
	if err := validate.Struct(student); err != nil {
		if !errs.Is(err, errs.InvalidInput) {
			return nil, err
		}
		invalid = errs.Fields(err)
	}
	if image == nil {
		invalid = append(invalid, "image is required")
	}
	if len(invalid) > 0 {
		return nil, errs.Invalid(invalid...)
	}

	if err := c.checkStudentRefs(ctx, student, nil); err != nil {
		return nil, err
	}

	path, err := c.files.Save(image)
	if err != nil {
		return nil, err
	}
	student.ImagePath = path

	if err = c.repo.CreateStudent(ctx, student); err != nil {
		c.removeImage(path)
		return nil, fmt.Errorf("create student: %w", err)
	}
	c.log.With(slog.String("student_id", student.StudentId)).Info("student created")
	return student, nil
}

// checkStudentRefs checks uniqueness and resolves the parent and bus
// references; with old set, only changed references are resolved.
func (c *Core) checkStudentRefs(ctx context.Context, student, old *entity.Student) error {
	if err := checkUnique(ctx, c.repo.FindStudent, studentId, student.ID,
		uniqueField{entity.StudentStudentId, student.StudentId},
	); err != nil {
		return err
	}
	if old == nil || old.ParentId != student.ParentId {
		if _, err := c.resolveParent(ctx, student.ParentId); err != nil {
			return err
		}
	}
	if student.BusId != "" && (old == nil || old.BusId != student.BusId) {
		if _, err := c.resolveBus(ctx, student.BusId); err != nil {
			return err
		}
	}
	return nil
}

func (c *Core) ListStudents(ctx context.Context, filter entity.StudentFilter) ([]entity.Student, error) {
	students, err := c.repo.ListStudents(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// GetStudent resolves key as an internal id or an RFID identifier.
func (c *Core) GetStudent(ctx context.Context, key string) (*entity.Student, error) {
	student, err := lookup(ctx, key, c.repo.GetStudent, c.repo.FindStudent, entity.StudentStudentId)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if student == nil {
		return nil, errs.NotFoundf("student %s not found", key)
	}
	return student, nil
}

// UpdateStudent applies in and, when image is set, replaces the stored
// identification image.
func (c *Core) UpdateStudent(ctx context.Context, key string, in entity.StudentInput, image *entity.Upload) (*entity.Student, error) {
	student, err := c.GetStudent(ctx, key)
	if err != nil {
		return nil, err
	}
	old := *student
	student.Apply(in)

	if err = validate.Struct(student); err != nil {
		return nil, err
	}
	if err = c.checkStudentRefs(ctx, student, &old); err != nil {
		return nil, err
	}
	if old.StudentId != student.StudentId {
		n, err := c.repo.CountPresences(ctx, entity.PresenceStudentId, old.StudentId)
		if err = noDependents(n, err, "student "+old.StudentId, "presence record(s)"); err != nil {
			return nil, err
		}
	}

	if image != nil {
		path, err := c.files.Save(image)
		if err != nil {
			return nil, err
		}
		student.ImagePath = path
	}

	if err = c.repo.UpdateStudent(ctx, student); err != nil {
		if student.ImagePath != old.ImagePath {
			c.removeImage(student.ImagePath)
		}
		return nil, fmt.Errorf("update student: %w", err)
	}
	if student.ImagePath != old.ImagePath {
		c.removeImage(old.ImagePath)
	}
	return student, nil
}

// DeleteStudent refuses while presence records name the student.
func (c *Core) DeleteStudent(ctx context.Context, key string) error {
	student, err := c.GetStudent(ctx, key)
	if err != nil {
		return err
	}
	n, err := c.repo.CountPresences(ctx, entity.PresenceStudentId, student.StudentId)
	if err = noDependents(n, err, "student "+student.StudentId, "presence record(s)"); err != nil {
		return err
	}
	if err = c.repo.DeleteStudent(ctx, student.ID); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	c.removeImage(student.ImagePath)
	return nil
}

func (c *Core) removeImage(path string) {
	if path == "" {
		return
	}
	if err := c.files.Remove(path); err != nil {
		c.log.With(slog.String("path", path)).Warn("remove image", sl.Err(err))
	}
}
