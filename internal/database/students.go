package repository

import (
	"SmartBus/entity"
	"context"
	"go.mongodb.org/mongo-driver/bson"
)

func (m *MongoDB) CreateStudent(ctx context.Context, student *entity.Student) error {
	return insertOne(ctx, m.collection(studentsCollection), student)
}

func (m *MongoDB) UpdateStudent(ctx context.Context, student *entity.Student) error {
	return replaceOne(ctx, m.collection(studentsCollection), student.ID, student)
}

func (m *MongoDB) DeleteStudent(ctx context.Context, id string) error {
	return deleteOne(ctx, m.collection(studentsCollection), id)
}

func (m *MongoDB) GetStudent(ctx context.Context, id string) (*entity.Student, error) {
	return findOne[entity.Student](ctx, m.collection(studentsCollection), bson.D{{"_id", id}})
}

func (m *MongoDB) FindStudent(ctx context.Context, field, value string) (*entity.Student, error) {
	return findOne[entity.Student](ctx, m.collection(studentsCollection), bson.D{{field, value}})
}

func (m *MongoDB) ListStudents(ctx context.Context, filter entity.StudentFilter) ([]entity.Student, error) {
	query := bson.D{}
	if filter.ParentId != "" {
		query = append(query, bson.E{Key: entity.StudentParentId, Value: filter.ParentId})
	}
	if filter.BusId != "" {
		query = append(query, bson.E{Key: entity.StudentBusId, Value: filter.BusId})
	}
	return findAll[entity.Student](ctx, m.collection(studentsCollection), query, byCreation())
}

func (m *MongoDB) CountStudents(ctx context.Context, field, value string) (int64, error) {
	return countDocuments(ctx, m.collection(studentsCollection), bson.D{{field, value}})
}
