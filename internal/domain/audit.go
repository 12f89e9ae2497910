package domain

import (
	"fmt"
	"time"
)

type AuditEventType string

const (
	AuditAssignmentCreated AuditEventType = "ASSIGNMENT_CREATED"
	AuditAssignmentUpdated AuditEventType = "ASSIGNMENT_UPDATED"
	AuditAssignmentDeleted AuditEventType = "ASSIGNMENT_DELETED"
	AuditRotaPublished     AuditEventType = "ROTA_PUBLISHED"
)

// AssignmentSnapshot is the before/after image recorded with every audit
// event. It carries names so the trail stays readable after staff or rooms
// are renamed.
type AssignmentSnapshot struct {
	StaffID     int64      `json:"staffID"`
	StaffName   string     `json:"staffName"`
	RoomID      int64      `json:"roomID"`
	RoomName    string     `json:"roomName"`
	SectionID   *int64     `json:"sectionID"`
	SectionName string     `json:"sectionName,omitempty"`
	ShiftID     int64      `json:"shiftID"`
	ShiftName   string     `json:"shiftName"`
	Block       ShiftBlock `json:"block"`
	Notes       string     `json:"notes,omitempty"`
}

func SnapshotAssignment(a *Assignment) *AssignmentSnapshot {
	return &AssignmentSnapshot{
		StaffID:     a.StaffID,
		StaffName:   a.StaffName,
		RoomID:      a.CleanRoomID,
		RoomName:    a.RoomName,
		SectionID:   a.IsolatorSectionID,
		SectionName: a.SectionName,
		ShiftID:     a.ShiftTemplateID,
		ShiftName:   a.ShiftName,
		Block:       a.Block,
		Notes:       a.Notes,
	}
}

func (s *AssignmentSnapshot) target() string {
	if s.SectionName != "" {
		return s.RoomName + " - " + s.SectionName
	}
	return s.RoomName
}

func (s *AssignmentSnapshot) equal(o *AssignmentSnapshot) bool {
	if s.StaffID != o.StaffID || s.RoomID != o.RoomID || s.ShiftID != o.ShiftID || s.Notes != o.Notes {
		return false
	}
	if (s.SectionID == nil) != (o.SectionID == nil) {
		return false
	}
	if s.SectionID != nil && *s.SectionID != *o.SectionID {
		return false
	}
	return true
}

// RotaDayAuditEvent is append-only: rows are inserted alongside the mutation
// that caused them and are never updated or deleted.
type RotaDayAuditEvent struct {
	ID        int64               `json:"id"`
	RotaDayID int64               `json:"rotaDayID"`
	EventType AuditEventType      `json:"eventType"`
	Actor     string              `json:"actor"`
	Summary   string              `json:"summary"`
	Before    *AssignmentSnapshot `json:"before"`
	After     *AssignmentSnapshot `json:"after"`
	CreatedAt time.Time           `json:"createdAt"`
}

// DiffAssignments derives the audit events for replacing a day's assignment
// set. Assignments are matched by (staff, shift block); a matched pair whose
// target changed yields an update event.
func DiffAssignments(rotaDayID int64, actor string, before, after []*Assignment) []*RotaDayAuditEvent {
	type key struct {
		staffID int64
		block   ShiftBlock
	}

	beforeByKey := make(map[key]*Assignment, len(before))
	for _, a := range before {
		beforeByKey[key{a.StaffID, a.Block}] = a
	}

	events := []*RotaDayAuditEvent{}
	seen := make(map[key]bool, len(after))

	for _, a := range after {
		k := key{a.StaffID, a.Block}
		seen[k] = true
		afterSnap := SnapshotAssignment(a)

		old, ok := beforeByKey[k]
		if !ok {
			events = append(events, &RotaDayAuditEvent{
				RotaDayID: rotaDayID,
				EventType: AuditAssignmentCreated,
				Actor:     actor,
				Summary:   fmt.Sprintf("Assigned %s to %s (%s)", afterSnap.StaffName, afterSnap.target(), afterSnap.ShiftName),
				After:     afterSnap,
			})
			continue
		}

		beforeSnap := SnapshotAssignment(old)
		if !beforeSnap.equal(afterSnap) {
			events = append(events, &RotaDayAuditEvent{
				RotaDayID: rotaDayID,
				EventType: AuditAssignmentUpdated,
				Actor:     actor,
				Summary:   fmt.Sprintf("Updated assignment for %s (%s -> %s)", afterSnap.StaffName, beforeSnap.target(), afterSnap.target()),
				Before:    beforeSnap,
				After:     afterSnap,
			})
		}
	}

	for _, a := range before {
		k := key{a.StaffID, a.Block}
		if seen[k] {
			continue
		}
		beforeSnap := SnapshotAssignment(a)
		events = append(events, &RotaDayAuditEvent{
			RotaDayID: rotaDayID,
			EventType: AuditAssignmentDeleted,
			Actor:     actor,
			Summary:   fmt.Sprintf("Removed assignment for %s from %s", beforeSnap.StaffName, beforeSnap.target()),
			Before:    beforeSnap,
		})
	}

	return events
}
