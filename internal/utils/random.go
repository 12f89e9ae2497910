package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/FraserR1188/Skedaddle/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonFirstNames = []string{
	"James", "Sarah", "Thomas", "Emma", "Daniel", "Lucy", "Michael", "Hannah",
	"David", "Chloe", "Robert", "Grace", "Joseph", "Amy", "Andrew", "Kate",
	"Peter", "Laura", "Mark", "Jessica",
}

var commonLastNames = []string{
	"Smith", "Jones", "Taylor", "Brown", "Williams", "Wilson", "Johnson",
	"Davies", "Robinson", "Wright", "Thompson", "Evans", "Walker", "White",
	"Roberts", "Green", "Hall", "Wood", "Clarke", "Harris",
}

func GenerateRandomName() (string, string) {
	return commonFirstNames[rand.Intn(len(commonFirstNames))],
		commonLastNames[rand.Intn(len(commonLastNames))]
}

var digits = "0123456789"

// GenerateUsernameFromName builds a login like "jsmith42" from a full name.
func GenerateUsernameFromName(firstName, lastName string) string {
	username := strings.ToLower(firstName[:1] + lastName)

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	firstName, lastName := GenerateRandomName()
	username := GenerateUsernameFromName(firstName, lastName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := domain.RolePlanner
	if rand.Intn(4) == 0 {
		role = domain.RoleManager
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     firstName + " " + lastName,
		Email:        username + "@" + emailDomainName,
		Role:         role,
	}

	return user, nil
}

var staffRoles = []domain.StaffRole{
	domain.StaffRoleOperative,
	domain.StaffRoleOperative,
	domain.StaffRoleOperative,
	domain.StaffRoleSupervisor,
}

// GenerateRandomStaffMember produces roughly three operatives per supervisor.
func GenerateRandomStaffMember(crewID *int64, emailDomainName string) *domain.StaffMember {
	firstName, lastName := GenerateRandomName()
	username := GenerateUsernameFromName(firstName, lastName)

	return &domain.StaffMember{
		FirstName: firstName,
		LastName:  lastName,
		Email:     username + "@" + emailDomainName,
		Role:      staffRoles[rand.Intn(len(staffRoles))],
		CrewID:    crewID,
		IsActive:  true,
	}
}

var validationStatuses = []domain.ValidationStatus{
	domain.ValidationValid,
	domain.ValidationValid,
	domain.ValidationValid,
	domain.ValidationInTraining,
	domain.ValidationRestricted,
	domain.ValidationSuspended,
}

// GenerateRandomValidation biases towards VALID records so seeded rotas have
// schedulable operators.
func GenerateRandomValidation(staffID, sectionID int64) *domain.OperatorValidation {
	v := &domain.OperatorValidation{
		StaffID:           staffID,
		IsolatorSectionID: sectionID,
		Status:            validationStatuses[rand.Intn(len(validationStatuses))],
		ValidFrom:         time.Now().AddDate(0, -rand.Intn(12), 0),
		AssessedBy:        "QA " + commonLastNames[rand.Intn(len(commonLastNames))],
		EvidenceRef:       fmt.Sprintf("APS-%04d", rand.Intn(10000)),
	}

	if rand.Intn(2) == 0 {
		expires := v.ValidFrom.AddDate(1, 0, 0)
		v.ExpiresOn = &expires
	}

	return v
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}
