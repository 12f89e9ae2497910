package utils

import (
	"fmt"
	"time"

	"github.com/FraserR1188/Skedaddle/internal/domain"
)

// The checks below run against a fully hydrated proposed assignment set for
// one rota day (names, blocks and targets resolved by the handler). The
// database unique constraints remain as a safety net behind them.

// ValidateNoDoubleBooking rejects a staff member holding more than one
// assignment in the same shift block.
func ValidateNoDoubleBooking(assignments []*domain.Assignment) error {
	type key struct {
		staffID int64
		block   domain.ShiftBlock
	}

	seen := make(map[key]bool)
	for _, a := range assignments {
		k := key{a.StaffID, a.Block}
		if seen[k] {
			return fmt.Errorf("%s is assigned more than once in the %s block", a.StaffName, a.Block)
		}
		seen[k] = true
	}
	return nil
}

// ValidateTargets checks role eligibility and target consistency: isolator
// duty requires an operative and a section belonging to the assignment's
// room, room-supervision duty requires a supervisor.
func ValidateTargets(assignments []*domain.Assignment, staffByID map[int64]*domain.StaffMember, sectionsByID map[int64]*domain.IsolatorSection) error {
	for _, a := range assignments {
		staff, ok := staffByID[a.StaffID]
		if !ok {
			return fmt.Errorf("staff member %d does not exist", a.StaffID)
		}
		if !staff.IsActive {
			return fmt.Errorf("%s is inactive and cannot be scheduled", staff.FullName())
		}

		if a.IsRoomDuty() {
			if staff.Role != domain.StaffRoleSupervisor {
				return fmt.Errorf("%s is not a supervisor and cannot take room duty", staff.FullName())
			}
			continue
		}

		if staff.Role != domain.StaffRoleOperative {
			return fmt.Errorf("%s is not an operative and cannot work an isolator", staff.FullName())
		}

		section, ok := sectionsByID[*a.IsolatorSectionID]
		if !ok {
			return fmt.Errorf("isolator section %d does not exist", *a.IsolatorSectionID)
		}
		if section.CleanRoomID != a.CleanRoomID {
			return fmt.Errorf("section %s is not in the assigned clean room", section.DisplayName())
		}
	}
	return nil
}

// ValidateRoomSupervision rejects more than one supervisor per room and
// shift block.
func ValidateRoomSupervision(assignments []*domain.Assignment) error {
	type key struct {
		roomID int64
		block  domain.ShiftBlock
	}

	seen := make(map[key]string)
	for _, a := range assignments {
		if !a.IsRoomDuty() {
			continue
		}
		k := key{a.CleanRoomID, a.Block}
		if other, ok := seen[k]; ok {
			return fmt.Errorf("%s already supervises %s in the %s block; cannot also assign %s", other, a.RoomName, a.Block, a.StaffName)
		}
		seen[k] = a.StaffName
	}
	return nil
}

// ValidateIsolatorCapacity enforces the per-isolator headcount cap per shift
// block, counted across both sections.
func ValidateIsolatorCapacity(assignments []*domain.Assignment, sectionsByID map[int64]*domain.IsolatorSection, capacity int) error {
	type key struct {
		isolatorID int64
		block      domain.ShiftBlock
	}

	counts := make(map[key]int)
	for _, a := range assignments {
		if a.IsRoomDuty() {
			continue
		}
		section, ok := sectionsByID[*a.IsolatorSectionID]
		if !ok {
			return fmt.Errorf("isolator section %d does not exist", *a.IsolatorSectionID)
		}
		k := key{section.IsolatorID, a.Block}
		counts[k]++
		if counts[k] > capacity {
			return fmt.Errorf("isolator %s exceeds its headcount cap of %d in the %s block", section.IsolatorName, capacity, a.Block)
		}
	}
	return nil
}

// ValidateOperatorQualifications requires an effective APS validation for
// every isolator-duty assignment on the rota date.
func ValidateOperatorQualifications(
	date time.Time,
	assignments []*domain.Assignment,
	staffByID map[int64]*domain.StaffMember,
	sectionsByID map[int64]*domain.IsolatorSection,
	isolatorsByID map[int64]*domain.Isolator,
	validations []*domain.OperatorValidation,
) error {
	type key struct {
		staffID   int64
		sectionID int64
	}

	byPair := make(map[key]*domain.OperatorValidation, len(validations))
	for _, v := range validations {
		byPair[key{v.StaffID, v.IsolatorSectionID}] = v
	}

	for _, a := range assignments {
		if a.IsRoomDuty() {
			continue
		}
		staff := staffByID[a.StaffID]
		section := sectionsByID[*a.IsolatorSectionID]
		if staff == nil || section == nil {
			return fmt.Errorf("assignment references unknown staff or section")
		}

		res := domain.CheckOperatorForSection(staff, section, isolatorsByID[section.IsolatorID], byPair[key{staff.ID, section.ID}], date)
		if !res.OK {
			return fmt.Errorf("%s cannot work %s: %s", staff.FullName(), section.DisplayName(), res.Reason)
		}
	}
	return nil
}
