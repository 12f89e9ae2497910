package domain

import (
	"fmt"
	"time"
)

type ValidationStatus string

const (
	ValidationValid      ValidationStatus = "VALID"
	ValidationInTraining ValidationStatus = "IN_TRAINING"
	ValidationRestricted ValidationStatus = "RESTRICTED"
	ValidationSuspended  ValidationStatus = "SUSPENDED"
)

// OperatorValidation is the APS qualification record mapping a staff member
// to an isolator section.
type OperatorValidation struct {
	ID                int64            `json:"id"`
	StaffID           int64            `json:"staffID"`
	IsolatorSectionID int64            `json:"isolatorSectionID"`
	Status            ValidationStatus `json:"status"`
	ValidFrom         time.Time        `json:"validFrom"`
	ExpiresOn         *time.Time       `json:"expiresOn"`
	AssessedBy        string           `json:"assessedBy"`
	EvidenceRef       string           `json:"evidenceRef"`
	Notes             string           `json:"notes"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
	Version           int32            `json:"-"`

	StaffName   string `json:"staffName,omitempty"`
	SectionName string `json:"sectionName,omitempty"`
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ValidateWindow rejects an expiry date before the valid-from date.
func (v *OperatorValidation) ValidateWindow() error {
	if v.ExpiresOn != nil && dateOnly(*v.ExpiresOn).Before(dateOnly(v.ValidFrom)) {
		return fmt.Errorf("expiry date cannot be before the valid-from date")
	}
	return nil
}

// EffectiveOn reports whether the validation covers the given date.
func (v *OperatorValidation) EffectiveOn(on time.Time) bool {
	d := dateOnly(on)
	if v.Status != ValidationValid {
		return false
	}
	if d.Before(dateOnly(v.ValidFrom)) {
		return false
	}
	if v.ExpiresOn != nil && d.After(dateOnly(*v.ExpiresOn)) {
		return false
	}
	return true
}

type EligibilityResult struct {
	OK         bool                `json:"ok"`
	Reason     string              `json:"reason"`
	Validation *OperatorValidation `json:"validation,omitempty"`
}

// CheckOperatorForSection is the core eligibility check used everywhere:
// candidate listings, save-time enforcement and publish-time revalidation.
// v may be nil when no validation record exists for the pair.
func CheckOperatorForSection(operator *StaffMember, section *IsolatorSection, isolator *Isolator, v *OperatorValidation, on time.Time) EligibilityResult {
	if !operator.IsActive {
		return EligibilityResult{Reason: "staff member is inactive"}
	}
	if !section.IsActive {
		return EligibilityResult{Reason: "isolator section is inactive"}
	}
	if isolator != nil && !isolator.IsActive {
		return EligibilityResult{Reason: "isolator is inactive"}
	}
	if v == nil {
		return EligibilityResult{Reason: "no APS validation record found"}
	}
	if v.Status != ValidationValid {
		return EligibilityResult{Reason: fmt.Sprintf("APS status is %s", v.Status), Validation: v}
	}
	if dateOnly(on).Before(dateOnly(v.ValidFrom)) {
		return EligibilityResult{Reason: fmt.Sprintf("APS not effective until %s", v.ValidFrom.Format("2006-01-02")), Validation: v}
	}
	if v.ExpiresOn != nil && dateOnly(on).After(dateOnly(*v.ExpiresOn)) {
		return EligibilityResult{Reason: fmt.Sprintf("APS expired on %s", v.ExpiresOn.Format("2006-01-02")), Validation: v}
	}
	return EligibilityResult{OK: true, Reason: "OK", Validation: v}
}
