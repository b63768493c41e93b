package student

import (
	"SmartBus/entity"
	"context"
)

type Core interface {
	CreateStudent(ctx context.Context, in entity.StudentInput, image *entity.Upload) (*entity.Student, error)
	ListStudents(ctx context.Context, filter entity.StudentFilter) ([]entity.Student, error)
	GetStudent(ctx context.Context, key string) (*entity.Student, error)
	UpdateStudent(ctx context.Context, key string, in entity.StudentInput, image *entity.Upload) (*entity.Student, error)
	DeleteStudent(ctx context.Context, key string) error
}
