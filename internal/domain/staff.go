package domain

import "time"

type StaffRole string

const (
	StaffRoleOperative  StaffRole = "OPERATIVE"
	StaffRoleSupervisor StaffRole = "SUPERVISOR"
)

type Crew struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	SortOrder int32     `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

type StaffMember struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	MobileNumber string    `json:"mobileNumber"`
	Role         StaffRole `json:"role"`
	CrewID       *int64    `json:"crewID"`
	CrewName     string    `json:"crewName,omitempty"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}

func (s *StaffMember) FullName() string {
	return s.FirstName + " " + s.LastName
}
