package domain

import (
	"fmt"
	"time"
)

type ShiftBlock string

const (
	BlockAM ShiftBlock = "AM"
	BlockPM ShiftBlock = "PM"
)

type ShiftTemplate struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	StartTime string     `json:"startTime"` // "HH:MM:SS"
	EndTime   string     `json:"endTime"`
	Block     ShiftBlock `json:"block"`
	CreatedAt time.Time  `json:"createdAt"`
	Version   int32      `json:"-"`
}

// ValidateShiftTemplateTime checks the HH:MM:SS window of a template.
func ValidateShiftTemplateTime(st *ShiftTemplate) error {
	startTime, err := time.Parse("15:04:05", st.StartTime)
	if err != nil {
		return fmt.Errorf("shift %q has a malformed start time", st.Name)
	}
	endTime, err := time.Parse("15:04:05", st.EndTime)
	if err != nil {
		return fmt.Errorf("shift %q has a malformed end time", st.Name)
	}
	if !endTime.After(startTime) {
		return fmt.Errorf("shift %q must end after it starts", st.Name)
	}
	return nil
}
