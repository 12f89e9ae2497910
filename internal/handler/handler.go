package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/FraserR1188/Skedaddle/internal/config"
	"github.com/FraserR1188/Skedaddle/internal/domain"
	"github.com/FraserR1188/Skedaddle/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// everything below requires a logged-in user
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/users", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleManager})).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleManager})).Delete("/", h.DeleteUser)
			})
		})

		r.Route("/crews", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/", h.CreateCrew)
			r.Get("/", h.GetAllCrews)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.crewInfo)
				r.Get("/", h.GetCrew)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Patch("/", h.UpdateCrew)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Delete("/", h.DeleteCrew)
			})
		})

		r.Route("/staff-members", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/", h.CreateStaffMember)
			r.Get("/", h.GetAllStaffMembers)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.staffMember)
				r.Get("/", h.GetStaffMember)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Patch("/", h.UpdateStaffMember)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Delete("/", h.DeleteStaffMember)
			})
		})

		r.Route("/clean-rooms", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/", h.CreateCleanRoom)
			r.Get("/", h.GetAllCleanRooms)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.cleanRoom)
				r.Get("/", h.GetCleanRoom)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Patch("/", h.UpdateCleanRoom)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Delete("/", h.DeleteCleanRoom)
				r.Get("/isolators", h.GetCleanRoomIsolators)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/isolators", h.CreateIsolator)
			})
		})

		r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Patch("/isolators/{id}", h.UpdateIsolator)

		r.Route("/isolator-sections", func(r chi.Router) {
			r.Get("/", h.GetAllIsolatorSections)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.isolatorSection)
				r.Get("/eligible-operators", h.GetEligibleOperators)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Patch("/", h.UpdateIsolatorSection)
			})
		})

		r.Route("/shift-templates", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/", h.CreateShiftTemplate)
			r.Get("/", h.GetAllShiftTemplates)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.shiftTemplate)
				r.Get("/", h.GetShiftTemplate)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Patch("/", h.UpdateShiftTemplate)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Delete("/", h.DeleteShiftTemplate)
			})
		})

		r.Route("/validations", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/", h.CreateValidation)
			r.Get("/", h.GetValidations)
			r.Get("/matrix", h.GetValidationMatrix)
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/quick", h.QuickUpdateValidation)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.operatorValidation)
				r.Get("/", h.GetValidation)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Patch("/", h.UpdateValidation)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Delete("/", h.DeleteValidation)
			})
		})

		r.Route("/rota", func(r chi.Router) {
			r.Get("/calendar/{year}/{month}", h.GetMonthlyCalendar)
			r.Route("/days/{date}", func(r chi.Router) {
				r.Use(h.rotaDate)
				r.Get("/", h.GetDailyRota)
				r.Get("/audit", h.GetRotaDayAudit)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Put("/assignments", h.ReplaceDayAssignments)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/publish", h.PublishRotaDay)
			})
		})
	})
}
