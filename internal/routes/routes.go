package routes

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/slot-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/slot-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/slot-scheduler/internal/handlers"
	"github.com/BruksfildServices01/slot-scheduler/internal/identity"
	"github.com/BruksfildServices01/slot-scheduler/internal/middleware"
	"github.com/BruksfildServices01/slot-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/slot-scheduler/internal/usecase/appointment"
	ucProvider "github.com/BruksfildServices01/slot-scheduler/internal/usecase/provider"
	"github.com/BruksfildServices01/slot-scheduler/internal/validators"
)

// Dependencies are the singletons the routes are built from. AuditLogs and
// HealthChecks are optional.
type Dependencies struct {
	Providers domain.ProviderDirectory
	Calendar  domain.CalendarStore
	Ledger    domain.Ledger
	Audit     *audit.Dispatcher
	Tokens    middleware.RequesterResolver
	Clock     timezone.Clock
	Logger    *slog.Logger

	CORSOrigins  []string
	AuditLogs    handlers.AuditLogLister
	HealthChecks map[string]handlers.Pinger
}

func RegisterRoutes(r *gin.Engine, deps Dependencies) error {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	if deps.Logger != nil {
		r.Use(middleware.RequestLogger(deps.Logger))
	}
	r.Use(middleware.CORSMiddleware(deps.CORSOrigins))

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := validators.Register(v); err != nil {
			return fmt.Errorf("register validators: %w", err)
		}
	}

	clock := deps.Clock
	if clock == nil {
		clock = timezone.Now
	}

	// ======================================================
	// USE CASES: APPOINTMENTS
	// ======================================================
	bookUC := ucAppointment.NewBookAppointment(
		deps.Providers,
		deps.Calendar,
		deps.Ledger,
		deps.Audit,
		clock,
	)

	cancelUC := ucAppointment.NewCancelAppointment(
		deps.Calendar,
		deps.Ledger,
		deps.Audit,
		clock,
	)

	listUC := ucAppointment.NewListAppointments(deps.Ledger)
	getUC := ucAppointment.NewGetAppointment(deps.Ledger)

	// ======================================================
	// USE CASES: PROVIDERS
	// ======================================================
	createProviderUC := ucProvider.NewCreateProvider(
		deps.Providers,
		deps.Calendar,
		deps.Audit,
	)

	availabilityUC := ucProvider.NewSetAvailability(
		deps.Providers,
		deps.Calendar,
		deps.Audit,
	)

	feeUC := ucProvider.NewUpdateFee(deps.Providers, deps.Audit)
	getProviderUC := ucProvider.NewGetProvider(deps.Providers)
	slotsUC := ucProvider.NewListBookedSlots(deps.Calendar)

	// ======================================================
	// HANDLERS
	// ======================================================
	appointmentHandler := handlers.NewAppointmentHandler(
		bookUC,
		cancelUC,
		listUC,
		getUC,
	)

	providerHandler := handlers.NewProviderHandler(
		createProviderUC,
		availabilityUC,
		feeUC,
		getProviderUC,
		slotsUC,
	)

	healthHandler := handlers.NewHealthHandler(deps.HealthChecks)

	// ======================================================
	// PUBLIC
	// ======================================================
	r.GET("/health", healthHandler.Health)

	// ======================================================
	// AUTHENTICATED
	// ======================================================
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(deps.Tokens))

	appointments := api.Group("/appointments")
	{
		appointments.POST("", appointmentHandler.Book)
		appointments.GET("", appointmentHandler.List)
		appointments.GET("/:id", appointmentHandler.Get)
		appointments.POST("/:id/cancel", appointmentHandler.Cancel)
	}

	providers := api.Group("/providers")
	{
		providers.GET("/:id", providerHandler.Get)
		providers.GET("/:id/slots", providerHandler.Slots)
	}

	// ======================================================
	// ADMIN
	// ======================================================
	admin := api.Group("")
	admin.Use(middleware.RequireRole(identity.RoleAdmin))
	{
		admin.POST("/providers", providerHandler.Create)
		admin.PATCH("/providers/:id/availability", providerHandler.SetAvailability)
		admin.PATCH("/providers/:id/fee", providerHandler.UpdateFee)

		if deps.AuditLogs != nil {
			admin.GET("/audit-logs", handlers.NewAuditLogsHandler(deps.AuditLogs).List)
		}
	}

	return nil
}
