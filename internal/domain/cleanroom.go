package domain

import "time"

type CleanRoom struct {
	ID          int64     `json:"id"`
	Number      int32     `json:"number"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	Version     int32     `json:"-"`
}

type Isolator struct {
	ID          int64     `json:"id"`
	CleanRoomID int64     `json:"cleanRoomID"`
	Name        string    `json:"name"`
	SortOrder   int32     `json:"sortOrder"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	Version     int32     `json:"-"`
}

type SectionSide string

const (
	SectionLeft  SectionSide = "L"
	SectionRight SectionSide = "R"
)

// IsolatorSection is one side (L/R) of an isolator. APS validation and
// isolator-duty assignments are applied at this level.
type IsolatorSection struct {
	ID           int64       `json:"id"`
	IsolatorID   int64       `json:"isolatorID"`
	Section      SectionSide `json:"section"`
	IsActive     bool        `json:"isActive"`
	IsolatorName string      `json:"isolatorName,omitempty"`
	CleanRoomID  int64       `json:"cleanRoomID,omitempty"`
	RoomName     string      `json:"roomName,omitempty"`
}

// DisplayName is the label used in rota grids and audit summaries,
// e.g. "Twin 1 L".
func (s *IsolatorSection) DisplayName() string {
	return s.IsolatorName + " " + string(s.Section)
}
