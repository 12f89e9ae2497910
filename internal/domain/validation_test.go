package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOperatorValidationEffectiveOn(t *testing.T) {
	expiry := date(2026, 6, 30)

	tests := []struct {
		name string
		v    OperatorValidation
		on   time.Time
		want bool
	}{
		{
			name: "valid within window",
			v:    OperatorValidation{Status: ValidationValid, ValidFrom: date(2026, 1, 1), ExpiresOn: &expiry},
			on:   date(2026, 3, 15),
			want: true,
		},
		{
			name: "valid with no expiry",
			v:    OperatorValidation{Status: ValidationValid, ValidFrom: date(2026, 1, 1)},
			on:   date(2030, 1, 1),
			want: true,
		},
		{
			name: "effective on the expiry date itself",
			v:    OperatorValidation{Status: ValidationValid, ValidFrom: date(2026, 1, 1), ExpiresOn: &expiry},
			on:   date(2026, 6, 30),
			want: true,
		},
		{
			name: "effective on the valid-from date itself",
			v:    OperatorValidation{Status: ValidationValid, ValidFrom: date(2026, 1, 1), ExpiresOn: &expiry},
			on:   date(2026, 1, 1),
			want: true,
		},
		{
			name: "before valid-from",
			v:    OperatorValidation{Status: ValidationValid, ValidFrom: date(2026, 1, 1), ExpiresOn: &expiry},
			on:   date(2025, 12, 31),
			want: false,
		},
		{
			name: "after expiry",
			v:    OperatorValidation{Status: ValidationValid, ValidFrom: date(2026, 1, 1), ExpiresOn: &expiry},
			on:   date(2026, 7, 1),
			want: false,
		},
		{
			name: "in training is never effective",
			v:    OperatorValidation{Status: ValidationInTraining, ValidFrom: date(2026, 1, 1)},
			on:   date(2026, 3, 15),
			want: false,
		},
		{
			name: "suspended is never effective",
			v:    OperatorValidation{Status: ValidationSuspended, ValidFrom: date(2026, 1, 1)},
			on:   date(2026, 3, 15),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.EffectiveOn(tt.on))
		})
	}
}

func TestOperatorValidationValidateWindow(t *testing.T) {
	early := date(2026, 1, 1)

	v := OperatorValidation{ValidFrom: date(2026, 2, 1), ExpiresOn: &early}
	assert.Error(t, v.ValidateWindow())

	v = OperatorValidation{ValidFrom: date(2026, 1, 1), ExpiresOn: &early}
	assert.NoError(t, v.ValidateWindow(), "expiry equal to valid-from is allowed")

	v = OperatorValidation{ValidFrom: date(2026, 1, 1)}
	assert.NoError(t, v.ValidateWindow())
}

func TestCheckOperatorForSection(t *testing.T) {
	operator := &StaffMember{ID: 1, FirstName: "James", LastName: "Smith", Role: StaffRoleOperative, IsActive: true}
	section := &IsolatorSection{ID: 10, IsolatorID: 5, IsActive: true}
	isolator := &Isolator{ID: 5, IsActive: true}
	on := date(2026, 3, 15)

	valid := &OperatorValidation{Status: ValidationValid, ValidFrom: date(2026, 1, 1)}

	t.Run("valid operator passes", func(t *testing.T) {
		res := CheckOperatorForSection(operator, section, isolator, valid, on)
		assert.True(t, res.OK)
	})

	t.Run("inactive staff member", func(t *testing.T) {
		inactive := *operator
		inactive.IsActive = false
		res := CheckOperatorForSection(&inactive, section, isolator, valid, on)
		assert.False(t, res.OK)
		assert.Contains(t, res.Reason, "inactive")
	})

	t.Run("inactive section", func(t *testing.T) {
		dormant := *section
		dormant.IsActive = false
		res := CheckOperatorForSection(operator, &dormant, isolator, valid, on)
		assert.False(t, res.OK)
	})

	t.Run("inactive isolator", func(t *testing.T) {
		retired := *isolator
		retired.IsActive = false
		res := CheckOperatorForSection(operator, section, &retired, valid, on)
		assert.False(t, res.OK)
	})

	t.Run("missing validation record", func(t *testing.T) {
		res := CheckOperatorForSection(operator, section, isolator, nil, on)
		assert.False(t, res.OK)
		assert.Contains(t, res.Reason, "no APS validation")
	})

	t.Run("non-valid status", func(t *testing.T) {
		restricted := &OperatorValidation{Status: ValidationRestricted, ValidFrom: date(2026, 1, 1)}
		res := CheckOperatorForSection(operator, section, isolator, restricted, on)
		assert.False(t, res.OK)
		assert.Contains(t, res.Reason, "RESTRICTED")
	})

	t.Run("expired validation", func(t *testing.T) {
		expiry := date(2026, 2, 1)
		expired := &OperatorValidation{Status: ValidationValid, ValidFrom: date(2026, 1, 1), ExpiresOn: &expiry}
		res := CheckOperatorForSection(operator, section, isolator, expired, on)
		assert.False(t, res.OK)
		assert.Contains(t, res.Reason, "expired")
	})

	t.Run("not yet effective", func(t *testing.T) {
		future := &OperatorValidation{Status: ValidationValid, ValidFrom: date(2026, 6, 1)}
		res := CheckOperatorForSection(operator, section, isolator, future, on)
		assert.False(t, res.OK)
		assert.Contains(t, res.Reason, "not effective")
	})
}
