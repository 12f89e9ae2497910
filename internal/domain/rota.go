package domain

import "time"

type RotaDayStatus string

const (
	RotaDayDraft     RotaDayStatus = "DRAFT"
	RotaDayPublished RotaDayStatus = "PUBLISHED"
)

type RotaDay struct {
	ID             int64         `json:"id"`
	Date           time.Time     `json:"date"`
	Status         RotaDayStatus `json:"status"`
	PublishVersion int32         `json:"publishVersion"`
	PublishedAt    *time.Time    `json:"publishedAt"`
	CreatedAt      time.Time     `json:"createdAt"`
	Version        int32         `json:"-"`
}

// Assignment places a staff member in a clean room for one shift on one day.
// IsolatorSectionID nil means room-supervision duty; otherwise the member
// works the named isolator section.
type Assignment struct {
	ID                int64  `json:"id"`
	RotaDayID         int64  `json:"rotaDayID"`
	StaffID           int64  `json:"staffID"`
	ShiftTemplateID   int64  `json:"shiftTemplateID"`
	CleanRoomID       int64  `json:"cleanRoomID"`
	IsolatorSectionID *int64 `json:"isolatorSectionID"`
	Notes             string `json:"notes"`

	// Display fields assembled by joins; also feed audit snapshots.
	StaffName   string     `json:"staffName,omitempty"`
	RoomName    string     `json:"roomName,omitempty"`
	SectionName string     `json:"sectionName,omitempty"`
	ShiftName   string     `json:"shiftName,omitempty"`
	Block       ShiftBlock `json:"block,omitempty"`
}

// IsRoomDuty reports whether this is a room-supervision assignment.
func (a *Assignment) IsRoomDuty() bool {
	return a.IsolatorSectionID == nil
}
