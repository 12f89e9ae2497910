package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/FraserR1188/Skedaddle/internal/domain"
)

func sectionID(id int64) *int64 {
	return &id
}

func testFixtures() (map[int64]*domain.StaffMember, map[int64]*domain.IsolatorSection, map[int64]*domain.Isolator) {
	staff := map[int64]*domain.StaffMember{
		1: {ID: 1, FirstName: "James", LastName: "Smith", Role: domain.StaffRoleOperative, IsActive: true},
		2: {ID: 2, FirstName: "Sarah", LastName: "Jones", Role: domain.StaffRoleSupervisor, IsActive: true},
		3: {ID: 3, FirstName: "Emma", LastName: "Taylor", Role: domain.StaffRoleOperative, IsActive: true},
	}
	sections := map[int64]*domain.IsolatorSection{
		10: {ID: 10, IsolatorID: 5, CleanRoomID: 1, Section: domain.SectionLeft, IsolatorName: "Isolator A", IsActive: true},
		11: {ID: 11, IsolatorID: 5, CleanRoomID: 1, Section: domain.SectionRight, IsolatorName: "Isolator A", IsActive: true},
	}
	isolators := map[int64]*domain.Isolator{
		5: {ID: 5, CleanRoomID: 1, Name: "Isolator A", IsActive: true},
	}
	return staff, sections, isolators
}

func TestValidateNoDoubleBooking(t *testing.T) {
	a1 := &domain.Assignment{StaffID: 1, StaffName: "James Smith", Block: domain.BlockAM}
	a2 := &domain.Assignment{StaffID: 1, StaffName: "James Smith", Block: domain.BlockPM}

	assert.NoError(t, ValidateNoDoubleBooking([]*domain.Assignment{a1, a2}), "different blocks are fine")

	dup := &domain.Assignment{StaffID: 1, StaffName: "James Smith", Block: domain.BlockAM}
	err := ValidateNoDoubleBooking([]*domain.Assignment{a1, dup})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "more than once")
}

func TestValidateTargets(t *testing.T) {
	staff, sections, _ := testFixtures()

	t.Run("operative on a section passes", func(t *testing.T) {
		a := &domain.Assignment{StaffID: 1, CleanRoomID: 1, IsolatorSectionID: sectionID(10), Block: domain.BlockAM}
		assert.NoError(t, ValidateTargets([]*domain.Assignment{a}, staff, sections))
	})

	t.Run("supervisor on room duty passes", func(t *testing.T) {
		a := &domain.Assignment{StaffID: 2, CleanRoomID: 1, Block: domain.BlockAM}
		assert.NoError(t, ValidateTargets([]*domain.Assignment{a}, staff, sections))
	})

	t.Run("operative cannot take room duty", func(t *testing.T) {
		a := &domain.Assignment{StaffID: 1, CleanRoomID: 1, Block: domain.BlockAM}
		err := ValidateTargets([]*domain.Assignment{a}, staff, sections)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not a supervisor")
	})

	t.Run("supervisor cannot work an isolator", func(t *testing.T) {
		a := &domain.Assignment{StaffID: 2, CleanRoomID: 1, IsolatorSectionID: sectionID(10), Block: domain.BlockAM}
		err := ValidateTargets([]*domain.Assignment{a}, staff, sections)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not an operative")
	})

	t.Run("section must belong to the assigned room", func(t *testing.T) {
		a := &domain.Assignment{StaffID: 1, CleanRoomID: 2, IsolatorSectionID: sectionID(10), Block: domain.BlockAM}
		err := ValidateTargets([]*domain.Assignment{a}, staff, sections)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not in the assigned clean room")
	})

	t.Run("inactive staff member is rejected", func(t *testing.T) {
		benched := *staff[1]
		benched.IsActive = false
		withBenched := map[int64]*domain.StaffMember{1: &benched}

		a := &domain.Assignment{StaffID: 1, CleanRoomID: 1, IsolatorSectionID: sectionID(10), Block: domain.BlockAM}
		err := ValidateTargets([]*domain.Assignment{a}, withBenched, sections)
		assert.Error(t, err)
	})

	t.Run("unknown staff member is rejected", func(t *testing.T) {
		a := &domain.Assignment{StaffID: 999, CleanRoomID: 1, Block: domain.BlockAM}
		assert.Error(t, ValidateTargets([]*domain.Assignment{a}, staff, sections))
	})
}

func TestValidateRoomSupervision(t *testing.T) {
	first := &domain.Assignment{StaffID: 2, StaffName: "Sarah Jones", CleanRoomID: 1, RoomName: "Aseptic Suite 1", Block: domain.BlockAM}
	second := &domain.Assignment{StaffID: 3, StaffName: "Emma Taylor", CleanRoomID: 1, RoomName: "Aseptic Suite 1", Block: domain.BlockAM}

	err := ValidateRoomSupervision([]*domain.Assignment{first, second})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already supervises")

	otherBlock := &domain.Assignment{StaffID: 3, StaffName: "Emma Taylor", CleanRoomID: 1, RoomName: "Aseptic Suite 1", Block: domain.BlockPM}
	assert.NoError(t, ValidateRoomSupervision([]*domain.Assignment{first, otherBlock}))

	otherRoom := &domain.Assignment{StaffID: 3, StaffName: "Emma Taylor", CleanRoomID: 2, RoomName: "Aseptic Suite 2", Block: domain.BlockAM}
	assert.NoError(t, ValidateRoomSupervision([]*domain.Assignment{first, otherRoom}))
}

func TestValidateIsolatorCapacity(t *testing.T) {
	_, sections, _ := testFixtures()

	build := func(n int, block domain.ShiftBlock) []*domain.Assignment {
		assignments := make([]*domain.Assignment, 0, n)
		for i := 0; i < n; i++ {
			// alternate the two sections of the same isolator
			sec := int64(10 + i%2)
			assignments = append(assignments, &domain.Assignment{
				StaffID:           int64(100 + i),
				IsolatorSectionID: sectionID(sec),
				Block:             block,
			})
		}
		return assignments
	}

	assert.NoError(t, ValidateIsolatorCapacity(build(2, domain.BlockAM), sections, 2))

	err := ValidateIsolatorCapacity(build(3, domain.BlockAM), sections, 2)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "headcount cap")

	// the cap applies per block, so AM and PM each get their own count
	mixed := append(build(2, domain.BlockAM), build(2, domain.BlockPM)...)
	assert.NoError(t, ValidateIsolatorCapacity(mixed, sections, 2))
}

func TestValidateOperatorQualifications(t *testing.T) {
	staff, sections, isolators := testFixtures()
	on := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	valid := []*domain.OperatorValidation{
		{StaffID: 1, IsolatorSectionID: 10, Status: domain.ValidationValid, ValidFrom: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	t.Run("validated operative passes", func(t *testing.T) {
		a := &domain.Assignment{StaffID: 1, CleanRoomID: 1, IsolatorSectionID: sectionID(10), Block: domain.BlockAM}
		assert.NoError(t, ValidateOperatorQualifications(on, []*domain.Assignment{a}, staff, sections, isolators, valid))
	})

	t.Run("room duty needs no validation", func(t *testing.T) {
		a := &domain.Assignment{StaffID: 2, CleanRoomID: 1, Block: domain.BlockAM}
		assert.NoError(t, ValidateOperatorQualifications(on, []*domain.Assignment{a}, staff, sections, isolators, nil))
	})

	t.Run("unvalidated section is rejected", func(t *testing.T) {
		a := &domain.Assignment{StaffID: 1, CleanRoomID: 1, IsolatorSectionID: sectionID(11), Block: domain.BlockAM}
		err := ValidateOperatorQualifications(on, []*domain.Assignment{a}, staff, sections, isolators, valid)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no APS validation")
	})

	t.Run("expired validation is rejected", func(t *testing.T) {
		expiry := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
		lapsed := []*domain.OperatorValidation{
			{StaffID: 1, IsolatorSectionID: 10, Status: domain.ValidationValid, ValidFrom: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), ExpiresOn: &expiry},
		}
		a := &domain.Assignment{StaffID: 1, CleanRoomID: 1, IsolatorSectionID: sectionID(10), Block: domain.BlockAM}
		assert.Error(t, ValidateOperatorQualifications(on, []*domain.Assignment{a}, staff, sections, isolators, lapsed))
	})
}
