package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/lionnelpat/svs-backend-sub002/internal/auth"
	authdomain "github.com/lionnelpat/svs-backend-sub002/internal/auth/domain"
	"github.com/lionnelpat/svs-backend-sub002/internal/auth/session"
	"github.com/lionnelpat/svs-backend-sub002/internal/authorization"
	"github.com/lionnelpat/svs-backend-sub002/internal/company"
	companydomain "github.com/lionnelpat/svs-backend-sub002/internal/company/domain"
	"github.com/lionnelpat/svs-backend-sub002/internal/config"
	"github.com/lionnelpat/svs-backend-sub002/internal/expense"
	expensedomain "github.com/lionnelpat/svs-backend-sub002/internal/expense/domain"
	"github.com/lionnelpat/svs-backend-sub002/internal/expensecategory"
	categorydomain "github.com/lionnelpat/svs-backend-sub002/internal/expensecategory/domain"
	"github.com/lionnelpat/svs-backend-sub002/internal/export"
	"github.com/lionnelpat/svs-backend-sub002/internal/invoice"
	invoicedomain "github.com/lionnelpat/svs-backend-sub002/internal/invoice/domain"
	"github.com/lionnelpat/svs-backend-sub002/internal/observability"
	obsmiddleware "github.com/lionnelpat/svs-backend-sub002/internal/observability/logger"
	obsmetrics "github.com/lionnelpat/svs-backend-sub002/internal/observability/metrics"
	"github.com/lionnelpat/svs-backend-sub002/internal/operation"
	operationdomain "github.com/lionnelpat/svs-backend-sub002/internal/operation/domain"
	"github.com/lionnelpat/svs-backend-sub002/internal/paymentmethod"
	paymentmethoddomain "github.com/lionnelpat/svs-backend-sub002/internal/paymentmethod/domain"
	"github.com/lionnelpat/svs-backend-sub002/internal/ship"
	shipdomain "github.com/lionnelpat/svs-backend-sub002/internal/ship/domain"
	"github.com/lionnelpat/svs-backend-sub002/internal/user"
	userdomain "github.com/lionnelpat/svs-backend-sub002/internal/user/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	authorization.Module,
	auth.Module,
	user.Module,
	company.Module,
	ship.Module,
	operation.Module,
	paymentmethod.Module,
	expensecategory.Module,
	expense.Module,
	invoice.Module,
	export.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine   *gin.Engine
	cfg      config.Config
	genID    *snowflake.Node
	sessions *session.Manager

	authSvc            authdomain.Service
	authzSvc           authorization.Service
	userSvc            userdomain.Service
	companySvc         companydomain.Service
	shipSvc            shipdomain.Service
	operationSvc       operationdomain.Service
	paymentMethodSvc   paymentmethoddomain.Service
	expenseCategorySvc categorydomain.Service
	expenseSvc         expensedomain.Service
	invoiceSvc         invoicedomain.Service
	exportSvc          export.Service
}

type ServerParams struct {
	fx.In

	Gin      *gin.Engine
	Cfg      config.Config
	GenID    *snowflake.Node
	Sessions *session.Manager

	AuthSvc            authdomain.Service
	AuthzSvc           authorization.Service
	UserSvc            userdomain.Service
	CompanySvc         companydomain.Service
	ShipSvc            shipdomain.Service
	OperationSvc       operationdomain.Service
	PaymentMethodSvc   paymentmethoddomain.Service
	ExpenseCategorySvc categorydomain.Service
	ExpenseSvc         expensedomain.Service
	InvoiceSvc         invoicedomain.Service
	ExportSvc          export.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:             p.Gin,
		cfg:                p.Cfg,
		genID:              p.GenID,
		sessions:           p.Sessions,
		authSvc:            p.AuthSvc,
		authzSvc:           p.AuthzSvc,
		userSvc:            p.UserSvc,
		companySvc:         p.CompanySvc,
		shipSvc:            p.ShipSvc,
		operationSvc:       p.OperationSvc,
		paymentMethodSvc:   p.PaymentMethodSvc,
		expenseCategorySvc: p.ExpenseCategorySvc,
		expenseSvc:         p.ExpenseSvc,
		invoiceSvc:         p.InvoiceSvc,
		exportSvc:          p.ExportSvc,
	}

	s.registerAuthRoutes()
	s.registerAPIRoutes()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	authGroup := s.engine.Group("/auth")

	authGroup.POST("/login", s.Login)
	authGroup.POST("/logout", s.Logout)
	authGroup.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1", s.AuthRequired())

	companies := api.Group("/companies")
	{
		companies.POST("", s.CreateCompany)
		companies.GET("", s.ListCompanies)
		companies.GET("/:id", s.GetCompany)
		companies.PATCH("/:id", s.UpdateCompany)
		companies.POST("/:id/activate", s.ActivateCompany)
		companies.POST("/:id/deactivate", s.DeactivateCompany)
	}

	ships := api.Group("/ships")
	{
		ships.POST("", s.CreateShip)
		ships.GET("", s.ListShips)
		ships.GET("/:id", s.GetShip)
		ships.PATCH("/:id", s.UpdateShip)
		ships.POST("/:id/activate", s.ActivateShip)
		ships.POST("/:id/deactivate", s.DeactivateShip)
	}

	operations := api.Group("/operations")
	{
		operations.POST("", s.CreateOperation)
		operations.GET("", s.ListOperations)
		operations.GET("/:id", s.GetOperation)
		operations.PATCH("/:id", s.UpdateOperation)
		operations.POST("/:id/activate", s.ActivateOperation)
		operations.POST("/:id/deactivate", s.DeactivateOperation)
	}

	paymentMethods := api.Group("/payment-methods")
	{
		paymentMethods.POST("", s.CreatePaymentMethod)
		paymentMethods.GET("", s.ListPaymentMethods)
		paymentMethods.GET("/:id", s.GetPaymentMethod)
		paymentMethods.PATCH("/:id", s.UpdatePaymentMethod)
		paymentMethods.POST("/:id/activate", s.ActivatePaymentMethod)
		paymentMethods.POST("/:id/deactivate", s.DeactivatePaymentMethod)
	}

	categories := api.Group("/expense-categories")
	{
		categories.POST("", s.CreateExpenseCategory)
		categories.GET("", s.ListExpenseCategories)
		categories.GET("/:id", s.GetExpenseCategory)
		categories.PATCH("/:id", s.UpdateExpenseCategory)
		categories.POST("/:id/activate", s.ActivateExpenseCategory)
		categories.POST("/:id/deactivate", s.DeactivateExpenseCategory)
	}

	expenses := api.Group("/expenses")
	{
		expenses.POST("", s.CreateExpense)
		expenses.GET("", s.ListExpenses)
		expenses.GET("/:id", s.GetExpense)
		expenses.PATCH("/:id", s.UpdateExpense)
		expenses.POST("/:id/transition", s.TransitionExpense)
		expenses.POST("/:id/activate", s.ActivateExpense)
		expenses.POST("/:id/deactivate", s.DeactivateExpense)
	}

	invoices := api.Group("/invoices")
	{
		invoices.POST("", s.CreateInvoice)
		invoices.GET("", s.ListInvoices)
		invoices.GET("/:id", s.GetInvoice)
		invoices.PATCH("/:id", s.UpdateInvoice)
		invoices.POST("/:id/issue", s.IssueInvoice)
		invoices.POST("/:id/cancel", s.CancelInvoice)
		invoices.POST("/:id/payments", s.RecordInvoicePayment)
		invoices.POST("/:id/activate", s.ActivateInvoice)
		invoices.POST("/:id/deactivate", s.DeactivateInvoice)
		invoices.GET("/:id/pdf", s.ExportInvoicePDF)
	}

	users := api.Group("/users")
	{
		users.POST("", s.CreateUser)
		users.GET("", s.ListUsers)
		users.GET("/:id", s.GetUser)
		users.PATCH("/:id", s.UpdateUser)
		users.POST("/:id/activate", s.ActivateUser)
		users.POST("/:id/deactivate", s.DeactivateUser)
	}

	exports := api.Group("/exports")
	{
		exports.GET("/invoices.xlsx", s.ExportInvoicesExcel)
		exports.GET("/expenses.xlsx", s.ExportExpensesExcel)
	}
}
