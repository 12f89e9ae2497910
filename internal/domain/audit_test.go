package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sectionID(id int64) *int64 {
	return &id
}

func TestDiffAssignments(t *testing.T) {
	smith := &Assignment{
		StaffID: 1, StaffName: "James Smith",
		CleanRoomID: 1, RoomName: "Aseptic Suite 1",
		IsolatorSectionID: sectionID(10), SectionName: "Isolator A Left",
		ShiftTemplateID: 1, ShiftName: "Early", Block: BlockAM,
	}
	jones := &Assignment{
		StaffID: 2, StaffName: "Sarah Jones",
		CleanRoomID: 1, RoomName: "Aseptic Suite 1",
		ShiftTemplateID: 1, ShiftName: "Early", Block: BlockAM,
	}

	t.Run("no changes yields no events", func(t *testing.T) {
		events := DiffAssignments(99, "planner1", []*Assignment{smith, jones}, []*Assignment{smith, jones})
		assert.Empty(t, events)
	})

	t.Run("new assignment yields a created event", func(t *testing.T) {
		events := DiffAssignments(99, "planner1", nil, []*Assignment{smith})
		require.Len(t, events, 1)
		assert.Equal(t, AuditAssignmentCreated, events[0].EventType)
		assert.Equal(t, "planner1", events[0].Actor)
		assert.Equal(t, int64(99), events[0].RotaDayID)
		assert.Nil(t, events[0].Before)
		require.NotNil(t, events[0].After)
		assert.Equal(t, "Assigned James Smith to Aseptic Suite 1 - Isolator A Left (Early)", events[0].Summary)
	})

	t.Run("removed assignment yields a deleted event", func(t *testing.T) {
		events := DiffAssignments(99, "planner1", []*Assignment{smith, jones}, []*Assignment{smith})
		require.Len(t, events, 1)
		assert.Equal(t, AuditAssignmentDeleted, events[0].EventType)
		require.NotNil(t, events[0].Before)
		assert.Nil(t, events[0].After)
		assert.Equal(t, int64(2), events[0].Before.StaffID)
	})

	t.Run("moved assignment yields an updated event", func(t *testing.T) {
		moved := *smith
		moved.IsolatorSectionID = sectionID(11)
		moved.SectionName = "Isolator A Right"

		events := DiffAssignments(99, "planner1", []*Assignment{smith}, []*Assignment{&moved})
		require.Len(t, events, 1)
		assert.Equal(t, AuditAssignmentUpdated, events[0].EventType)
		require.NotNil(t, events[0].Before)
		require.NotNil(t, events[0].After)
		assert.Equal(t, "Isolator A Left", events[0].Before.SectionName)
		assert.Equal(t, "Isolator A Right", events[0].After.SectionName)
	})

	t.Run("same staff in a different block is a separate assignment", func(t *testing.T) {
		pmDuty := *smith
		pmDuty.Block = BlockPM
		pmDuty.ShiftName = "Late"
		pmDuty.ShiftTemplateID = 2

		events := DiffAssignments(99, "planner1", []*Assignment{smith}, []*Assignment{smith, &pmDuty})
		require.Len(t, events, 1)
		assert.Equal(t, AuditAssignmentCreated, events[0].EventType)
	})

	t.Run("notes change is an update", func(t *testing.T) {
		annotated := *jones
		annotated.Notes = "covering for training"

		events := DiffAssignments(99, "planner1", []*Assignment{jones}, []*Assignment{&annotated})
		require.Len(t, events, 1)
		assert.Equal(t, AuditAssignmentUpdated, events[0].EventType)
	})
}

func TestSnapshotAssignmentRoomDuty(t *testing.T) {
	duty := &Assignment{
		StaffID: 2, StaffName: "Sarah Jones",
		CleanRoomID: 1, RoomName: "Aseptic Suite 1",
		ShiftTemplateID: 1, ShiftName: "Early", Block: BlockAM,
	}

	snap := SnapshotAssignment(duty)
	assert.Nil(t, snap.SectionID)
	assert.Equal(t, "Aseptic Suite 1", snap.target())
}
