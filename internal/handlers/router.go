package handlers

import (
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/middleware"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// RouterOptions configures NewRouter
type RouterOptions struct {
	JWTSecret string
	Sentry    bool
}

// NewRouter wires every route under /api/v1. Everything except the health
// check requires a bearer token scoped to a group.
func NewRouter(h *Handlers, opts RouterOptions) *gin.Engine {
	router := gin.New()

	if opts.Sentry {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", h.Health.Index)

		protected := v1.Group("")
		protected.Use(middleware.Auth(opts.JWTSecret))
		{
			records := protected.Group("/monthly-records")
			{
				records.GET("", h.Record.Index)
				records.GET("/:record_id", h.Record.Show)
				records.GET("/:record_id/punitory-preview", h.Record.PunitoryPreview)
				records.POST("/:record_id/services", h.Record.AddService)
				records.POST("/:record_id/payments", h.Payment.Create)
			}
			protected.PUT("/monthly-services/:service_id", h.Record.UpdateService)
			protected.DELETE("/monthly-services/:service_id", h.Record.RemoveService)
			protected.DELETE("/transactions/:transaction_id", h.Payment.Delete)

			debts := protected.Group("/debts")
			{
				debts.GET("", h.Debt.Index)
				debts.GET("/:debt_id", h.Debt.Show)
				debts.POST("/:debt_id/payments", h.Debt.Pay)
				debts.DELETE("/:debt_id/payments/:payment_id", h.Debt.CancelPayment)
			}

			protected.GET("/monthly-close/preview", h.Close.Preview)
			protected.POST("/monthly-close", h.Close.Close)

			contracts := protected.Group("/contracts")
			{
				contracts.POST("", h.Contract.Create)
				contracts.GET("/:contract_id", h.Contract.Show)
				contracts.POST("/:contract_id/end", h.Contract.End)
				contracts.GET("/:contract_id/can-pay", h.Debt.CanPay)
			}

			protected.POST("/adjustment-indices/apply-all", h.Adjustment.ApplyAll)
			protected.POST("/adjustment-indices/:index_id/apply", h.Adjustment.Apply)

			protected.POST("/holidays", h.Holiday.Create)
			protected.GET("/audits", h.Audit.Index)
			protected.GET("/jobs/status", h.Job.Status)
		}
	}

	return router
}
