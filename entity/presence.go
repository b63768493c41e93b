package entity

import (
	"strings"
	"time"
)

// Presence status values. Any value may follow any other.
const (
	StatusBoarded  = "boarded"
	StatusAlighted = "alighted"
)

// Presence fields used for lookups.
const (
	PresenceStudentId = "studentId"
	PresenceBusId     = "busId"
)

type Presence struct {
	ID        string    `json:"id" bson:"_id"`
	StudentId string    `json:"studentId" bson:"studentId" validate:"required"`
	BusId     string    `json:"busId" bson:"busId" validate:"required"`
	Status    string    `json:"status" bson:"status" validate:"required,oneof=boarded alighted"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

type PresenceInput struct {
	StudentId string     `json:"studentId"`
	BusId     string     `json:"busId"`
	Status    string     `json:"status"`
	Timestamp *time.Time `json:"timestamp"`
}

// PresenceFilter narrows a presence listing; empty fields match everything.
type PresenceFilter struct {
	StudentIds []string
	BusId      string
}

// legacyStatus maps the status names stored by older clients.
var legacyStatus = map[string]string{
	"monté":    StatusBoarded,
	"descendu": StatusAlighted,
}

func (in *PresenceInput) Normalize() {
	in.StudentId = strings.TrimSpace(in.StudentId)
	in.BusId = strings.TrimSpace(in.BusId)
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	if status, ok := legacyStatus[in.Status]; ok {
		in.Status = status
	}
}

func NewPresence(in PresenceInput) *Presence {
	in.Normalize()
	ts := time.Now().UTC()
	if in.Timestamp != nil && !in.Timestamp.IsZero() {
		ts = in.Timestamp.UTC()
	}
	return &Presence{
		ID:        NewId(),
		StudentId: in.StudentId,
		BusId:     in.BusId,
		Status:    in.Status,
		Timestamp: ts,
	}
}

func (p *Presence) Apply(in PresenceInput) {
	in.Normalize()
	if in.StudentId != "" {
		p.StudentId = in.StudentId
	}
	if in.BusId != "" {
		p.BusId = in.BusId
	}
	if in.Status != "" {
		p.Status = in.Status
	}
	if in.Timestamp != nil && !in.Timestamp.IsZero() {
		p.Timestamp = in.Timestamp.UTC()
	}
}

func (p *Presence) Verb() string {
	if p.Status == StatusAlighted {
		return "got off"
	}
	return "boarded"
}
