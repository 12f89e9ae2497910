package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/FraserR1188/Skedaddle/internal/config"
	"github.com/FraserR1188/Skedaddle/internal/domain"
	"github.com/FraserR1188/Skedaddle/internal/repository"
	"github.com/FraserR1188/Skedaddle/internal/seed"
	"github.com/FraserR1188/Skedaddle/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var emailDomain string
	var rosterPath string

	flag.IntVar(&op, "op", 0, "operation to run (1: random users, 2: reference data, 3: random staff members, 4: random validations, 5: demo rota day, 6: roster CSV import)")
	flag.IntVar(&n, "n", 5, "number of records to insert")
	flag.StringVar(&emailDomain, "email-domain", "example.com", "email domain for generated accounts")
	flag.StringVar(&rosterPath, "roster", "./internal/seed/data/roster.csv", "path to the roster CSV for op 6")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("unable to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("unable to create database pool", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open does not establish a connection, so ping explicitly
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("unable to reach the database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	switch op {
	case 0:
		slog.Error("no operation specified")
	case 1:
		if n <= 0 {
			slog.Error("number of users must be positive")
			return
		}
		cnt := 0
		for i := 0; i < n; i++ {
			user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, emailDomain)
			if err != nil {
				slog.Error("unable to generate a random user", slog.String("error", err.Error()))
				continue
			}
			if err := repo.CreateUser(user); err != nil {
				slog.Error("unable to insert user", slog.String("error", err.Error()))
				continue
			}
			cnt++
		}
		slog.Info("users inserted", slog.Int("count", cnt))
	case 2:
		seed.SeedReferenceData(repo)
	case 3:
		if n <= 0 {
			slog.Error("number of staff members must be positive")
			return
		}
		crews, err := repo.GetAllCrews()
		if err != nil {
			slog.Error("unable to load crews", slog.String("error", err.Error()))
			return
		}
		cnt := 0
		for i := 0; i < n; i++ {
			var crewID *int64
			if len(crews) > 0 {
				crewID = &crews[rand.Intn(len(crews))].ID
			}
			member := utils.GenerateRandomStaffMember(crewID, emailDomain)
			if err := repo.CreateStaffMember(member); err != nil {
				slog.Error("unable to insert staff member", slog.String("error", err.Error()))
				continue
			}
			cnt++
		}
		slog.Info("staff members inserted", slog.Int("count", cnt))
	case 4:
		members, err := repo.GetAllStaffMembers()
		if err != nil {
			slog.Error("unable to load staff members", slog.String("error", err.Error()))
			return
		}
		sections, err := repo.GetAllIsolatorSections()
		if err != nil {
			slog.Error("unable to load isolator sections", slog.String("error", err.Error()))
			return
		}
		if len(sections) == 0 {
			slog.Error("no isolator sections, seed reference data first")
			return
		}

		cnt := 0
		for _, member := range members {
			if !member.IsActive || member.Role != domain.StaffRoleOperative {
				continue
			}
			// every operative gets a validation record for a couple of sections
			for i := 0; i < 2; i++ {
				section := sections[rand.Intn(len(sections))]
				v := utils.GenerateRandomValidation(member.ID, section.ID)
				if err := repo.UpsertOperatorValidation(v); err != nil {
					slog.Error("unable to insert validation", slog.String("error", err.Error()))
					continue
				}
				cnt++
			}
		}
		slog.Info("validations inserted", slog.Int("count", cnt))
	case 5:
		seed.SeedDemoDay(repo)
	case 6:
		seed.ImportRoster(repo, rosterPath)
	default:
		slog.Error("unknown operation")
	}
}
