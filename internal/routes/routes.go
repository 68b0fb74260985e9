package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/BruuAmorim/eva-agendmento-sub000/internal/handlers"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/middleware"
)

type Deps struct {
	Appointments *handlers.AppointmentHandler
	Health       *handlers.HealthHandler
	Metrics      http.Handler
	JWTSecret    string
	CORSOrigins  []string
	Log          *logrus.Entry
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.CORSMiddleware(d.CORSOrigins))

	// ======================================================
	// 🔧 INFRA
	// ======================================================
	r.GET("/health", d.Health.Health)
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics))
	}

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(d.JWTSecret))
	{
		staff := middleware.RequireRoles(middleware.RoleAdmin, middleware.RoleModerator)
		admin := middleware.RequireRoles(middleware.RoleAdmin)

		// ------------------------------
		// APPOINTMENTS
		// ------------------------------
		api.POST("/appointments", d.Appointments.Create)
		api.GET("/appointments", d.Appointments.List)
		api.GET("/appointments/:id", d.Appointments.Get)
		api.PATCH("/appointments/:id", staff, d.Appointments.Update)
		api.PATCH("/appointments/:id/confirm", staff, d.Appointments.Confirm)
		api.PATCH("/appointments/:id/complete", staff, d.Appointments.Complete)
		api.PATCH("/appointments/:id/cancel", d.Appointments.Cancel)
		api.DELETE("/appointments/:id", admin, d.Appointments.Delete)

		// ------------------------------
		// AVAILABILITY
		// ------------------------------
		api.GET("/availability", d.Appointments.Availability)
	}
}
