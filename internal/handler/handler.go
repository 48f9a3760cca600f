package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/config"
	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/importer"
	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/repository"
	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/roster"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	roster      *roster.Service
	importer    *importer.Importer
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		roster:      roster.NewService(repo),
		importer:    importer.NewImporter(repo, repo, repo, repo),
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.With(h.myInfo).Get("/my-info", h.GetMyInfo)

		r.Route("/users", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateUser)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Get("/", h.GetAllUsers)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteUser)
			})
		})

		// 排班数据都挂在租户下
		r.Route("/tenants/{tenantID}", func(r chi.Router) {
			r.Use(h.tenant)

			r.Route("/skills", func(r chi.Router) {
				r.Get("/", h.GetAllSkills)
				r.Post("/resolve", h.ResolveSkill)
			})

			r.Route("/spots", func(r chi.Router) {
				r.Get("/", h.GetAllSpots)
				r.Post("/", h.CreateSpot)
				r.Post("/import", h.ImportSpots)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.spot)
					r.Get("/", h.GetSpot)
					r.Patch("/", h.UpdateSpot)
					r.Delete("/", h.DeleteSpot)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.GetAllEmployees)
				r.Post("/", h.CreateEmployee)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.employee)
					r.Get("/", h.GetEmployee)
					r.Patch("/", h.UpdateEmployee)
					r.Delete("/", h.DeleteEmployee)
				})
			})

			r.Route("/vehicles", func(r chi.Router) {
				r.Get("/", h.GetAllVehicles)
				r.Post("/", h.CreateVehicle)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.vehicle)
					r.Get("/", h.GetVehicle)
					r.Delete("/", h.DeleteVehicle)
				})
			})

			r.Route("/rotation-templates", func(r chi.Router) {
				r.Get("/", h.GetAllRotationTemplates)
				r.Post("/", h.CreateRotationTemplate)
				r.Post("/import", h.ImportRotationTemplates)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.rotationTemplate)
					r.Get("/", h.GetRotationTemplate)
					r.Delete("/", h.DeleteRotationTemplate)
				})
			})

			r.Route("/roster-state", func(r chi.Router) {
				r.Get("/", h.GetRosterState)
				r.Put("/", h.PutRosterState)
			})

			r.Route("/roster", func(r chi.Router) {
				r.Get("/view", h.GetRosterView)
				r.With(h.RequiredRole([]domain.Role{domain.RoleDispatcher, domain.RoleAdmin})).Post("/generate", h.GenerateShifts)
				r.With(h.RequiredRole([]domain.Role{domain.RoleDispatcher, domain.RoleAdmin})).Post("/publish", h.PublishRoster)
				r.Route("/shifts", func(r chi.Router) {
					r.Get("/", h.GetShiftInstances)
					r.Route("/{id}", func(r chi.Router) {
						r.Use(h.shiftInstance)
						r.Get("/", h.GetShiftInstance)
						r.With(h.RequiredRole([]domain.Role{domain.RoleDispatcher, domain.RoleAdmin})).Patch("/assignment", h.UpdateShiftAssignment)
					})
				})
			})
		})
	})
}
