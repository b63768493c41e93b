package entity

import (
	"strings"
	"time"
)

// Student fields used for lookups.
const (
	StudentStudentId = "studentId"
	StudentParentId  = "parentId"
	StudentBusId     = "busId"
)

type Student struct {
	ID        string    `json:"id" bson:"_id"`
	StudentId string    `json:"studentId" bson:"studentId" validate:"required,rfid"`
	Name      string    `json:"name" bson:"name" validate:"required"`
	Birthday  string    `json:"birthday,omitempty" bson:"birthday,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ParentId  string    `json:"parentId" bson:"parentId" validate:"required,cin"`
	BusId     string    `json:"busId,omitempty" bson:"busId,omitempty"`
	ImagePath string    `json:"imagePath" bson:"imagePath"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type StudentInput struct {
	StudentId string  `json:"studentId"`
	Name      string  `json:"name"`
	Birthday  string  `json:"birthday"`
	ParentId  string  `json:"parentId"`
	BusId     *string `json:"busId"`
}

type StudentFilter struct {
	ParentId string
	BusId    string
}

func (in *StudentInput) Normalize() {
	in.StudentId = strings.TrimSpace(in.StudentId)
	in.Name = strings.TrimSpace(in.Name)
	in.Birthday = strings.TrimSpace(in.Birthday)
	in.ParentId = strings.TrimSpace(in.ParentId)
	if in.BusId != nil {
		b := strings.TrimSpace(*in.BusId)
		in.BusId = &b
	}
}

func NewStudent(in StudentInput) *Student {
	in.Normalize()
	student := &Student{
		ID:        NewId(),
		StudentId: in.StudentId,
		Name:      in.Name,
		Birthday:  in.Birthday,
		ParentId:  in.ParentId,
		CreatedAt: time.Now().UTC(),
	}
	if in.BusId != nil {
		student.BusId = *in.BusId
	}
	return student
}

func (s *Student) Apply(in StudentInput) {
	in.Normalize()
	if in.StudentId != "" {
		s.StudentId = in.StudentId
	}
	if in.Name != "" {
		s.Name = in.Name
	}
	if in.Birthday != "" {
		s.Birthday = in.Birthday
	}
	if in.ParentId != "" {
		s.ParentId = in.ParentId
	}
	if in.BusId != nil {
		s.BusId = *in.BusId
	}
}
