package seed

import (
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/FraserR1188/Skedaddle/internal/domain"
	"github.com/FraserR1188/Skedaddle/internal/repository"
)

// referenceRooms describes the cleanroom suite seeded into an empty
// database, with the isolators each room contains.
var referenceRooms = []struct {
	Number    int32
	Name      string
	Isolators []string
}{
	{1, "Aseptic Suite 1", []string{"Isolator A", "Isolator B", "Isolator C"}},
	{2, "Aseptic Suite 2", []string{"Isolator D", "Isolator E"}},
	{3, "CIVAS Suite", []string{"Isolator F", "Isolator G", "Isolator H"}},
}

var referenceShifts = []domain.ShiftTemplate{
	{Name: "Early", StartTime: "07:00:00", EndTime: "13:00:00", Block: domain.BlockAM},
	{Name: "Late", StartTime: "13:00:00", EndTime: "19:00:00", Block: domain.BlockPM},
	{Name: "Twilight", StartTime: "16:00:00", EndTime: "22:00:00", Block: domain.BlockPM},
}

var referenceCrews = []string{"Crew A", "Crew B", "Crew C", "Crew D"}

// SeedReferenceData inserts the crews, clean rooms, isolators and shift
// templates a fresh deployment starts from. Existing rows make the
// corresponding insert fail, which is logged and skipped.
func SeedReferenceData(r *repository.Repository) {
	for i, name := range referenceCrews {
		crew := &domain.Crew{Name: name, SortOrder: int32(i + 1)}
		if err := r.CreateCrew(crew); err != nil {
			slog.Error("unable to insert crew", "name", name, "error", err)
			continue
		}
		slog.Info("crew inserted", "name", name)
	}

	for _, room := range referenceRooms {
		cr := &domain.CleanRoom{Number: room.Number, Name: room.Name}
		if err := r.CreateCleanRoom(cr); err != nil {
			slog.Error("unable to insert clean room", "name", room.Name, "error", err)
			continue
		}
		slog.Info("clean room inserted", "name", room.Name)

		for i, isoName := range room.Isolators {
			iso := &domain.Isolator{CleanRoomID: cr.ID, Name: isoName, SortOrder: int32(i + 1)}
			if err := r.CreateIsolator(iso); err != nil {
				slog.Error("unable to insert isolator", "name", isoName, "error", err)
				continue
			}
			slog.Info("isolator inserted", "room", room.Name, "name", isoName)
		}
	}

	for _, shift := range referenceShifts {
		st := shift
		if err := r.CreateShiftTemplate(&st); err != nil {
			slog.Error("unable to insert shift template", "name", st.Name, "error", err)
			continue
		}
		slog.Info("shift template inserted", "name", st.Name)
	}
}

var rosterRoleMap = map[string]domain.StaffRole{
	"operative":  domain.StaffRoleOperative,
	"supervisor": domain.StaffRoleSupervisor,
}

// ImportRoster loads staff members from a CSV with the columns
// first_name, last_name, email, role, crew. Crews are matched by name and
// created on demand.
func ImportRoster(r *repository.Repository, path string) {
	file, err := os.Open(path)
	if err != nil {
		slog.Error("unable to open the roster file", "error", err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)

	headers, err := reader.Read()
	if err != nil {
		slog.Error("unable to read the roster header", "error", err)
		return
	}

	columns := make(map[string]int, len(headers))
	for i, header := range headers {
		columns[strings.TrimSpace(strings.ToLower(header))] = i
	}
	for _, required := range []string{"first_name", "last_name", "email", "role"} {
		if _, ok := columns[required]; !ok {
			slog.Error("roster file is missing a column", "column", required)
			return
		}
	}

	crews, err := r.GetAllCrews()
	if err != nil {
		slog.Error("unable to load crews", "error", err)
		return
	}
	crewsByName := make(map[string]*domain.Crew, len(crews))
	for _, crew := range crews {
		crewsByName[strings.ToLower(crew.Name)] = crew
	}

	inserted := 0
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.Error("unable to read a roster row", "line", line, "error", err)
			continue
		}

		role, ok := rosterRoleMap[strings.ToLower(strings.TrimSpace(record[columns["role"]]))]
		if !ok {
			slog.Error("unknown role in roster row", "line", line, "role", record[columns["role"]])
			continue
		}

		member := &domain.StaffMember{
			FirstName: strings.TrimSpace(record[columns["first_name"]]),
			LastName:  strings.TrimSpace(record[columns["last_name"]]),
			Email:     strings.TrimSpace(record[columns["email"]]),
			Role:      role,
			IsActive:  true,
		}

		if idx, ok := columns["crew"]; ok && strings.TrimSpace(record[idx]) != "" {
			crewName := strings.TrimSpace(record[idx])
			crew, ok := crewsByName[strings.ToLower(crewName)]
			if !ok {
				crew = &domain.Crew{Name: crewName, SortOrder: int32(len(crewsByName) + 1)}
				if err := r.CreateCrew(crew); err != nil {
					slog.Error("unable to create crew from roster", "line", line, "crew", crewName, "error", err)
					continue
				}
				crewsByName[strings.ToLower(crewName)] = crew
			}
			member.CrewID = &crew.ID
		}

		if err := r.CreateStaffMember(member); err != nil {
			slog.Error("unable to insert staff member", "line", line, "email", member.Email, "error", err)
			continue
		}
		inserted++
	}

	slog.Info("roster imported", "count", inserted)
}

// SeedDemoDay fills today's rota with one supervisor per room and one
// eligible operative per active section, then leaves it in DRAFT.
func SeedDemoDay(r *repository.Repository) {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	members, err := r.GetAllStaffMembers()
	if err != nil {
		slog.Error("unable to load staff members", "error", err)
		return
	}
	rooms, err := r.GetAllCleanRooms()
	if err != nil {
		slog.Error("unable to load clean rooms", "error", err)
		return
	}
	sections, err := r.GetAllIsolatorSections()
	if err != nil {
		slog.Error("unable to load isolator sections", "error", err)
		return
	}
	templates, err := r.GetAllShiftTemplates()
	if err != nil {
		slog.Error("unable to load shift templates", "error", err)
		return
	}

	var amShift *domain.ShiftTemplate
	for _, st := range templates {
		if st.Block == domain.BlockAM {
			amShift = st
			break
		}
	}
	if amShift == nil {
		slog.Error("no AM shift template available, seed reference data first")
		return
	}

	supervisors := make([]*domain.StaffMember, 0)
	for _, m := range members {
		if m.IsActive && m.Role == domain.StaffRoleSupervisor {
			supervisors = append(supervisors, m)
		}
	}

	assignments := []*domain.Assignment{}

	for i, room := range rooms {
		if i >= len(supervisors) {
			break
		}
		assignments = append(assignments, &domain.Assignment{
			StaffID:         supervisors[i].ID,
			ShiftTemplateID: amShift.ID,
			CleanRoomID:     room.ID,
			StaffName:       supervisors[i].FullName(),
			RoomName:        room.Name,
			ShiftName:       amShift.Name,
			Block:           amShift.Block,
		})
	}

	assigned := make(map[int64]bool)
	for _, sec := range sections {
		if !sec.IsActive {
			continue
		}

		candidates, err := r.GetEligibleStaffForSection(sec.ID, today)
		if err != nil {
			slog.Error("unable to load eligible operators", "section", sec.DisplayName(), "error", err)
			continue
		}

		for _, candidate := range candidates {
			if assigned[candidate.ID] {
				continue
			}
			sectionID := sec.ID
			assignments = append(assignments, &domain.Assignment{
				StaffID:           candidate.ID,
				ShiftTemplateID:   amShift.ID,
				CleanRoomID:       sec.CleanRoomID,
				IsolatorSectionID: &sectionID,
				StaffName:         candidate.FullName(),
				RoomName:          sec.RoomName,
				SectionName:       sec.DisplayName(),
				ShiftName:         amShift.Name,
				Block:             amShift.Block,
			})
			assigned[candidate.ID] = true
			break
		}
	}

	if len(assignments) == 0 {
		slog.Error("nothing to assign, seed staff and validations first")
		return
	}

	day, err := r.GetOrCreateRotaDay(today)
	if err != nil {
		slog.Error("unable to create the rota day", "error", err)
		return
	}

	events, err := r.ReplaceRotaDayAssignments(day, "seed", assignments)
	if err != nil {
		slog.Error("unable to insert demo assignments", "error", err)
		return
	}

	slog.Info("demo day seeded", "date", today.Format("2006-01-02"), "assignments", len(assignments), "auditEvents", len(events))
}
