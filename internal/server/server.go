package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Leganyst/salon-platform/internal/apperr"
	"github.com/Leganyst/salon-platform/internal/config"
	"github.com/Leganyst/salon-platform/internal/service"
)

// Server — тонкая HTTP-обвязка ядра: биндинг запросов, маппинг ошибок.
// Бизнес-логики здесь нет.
type Server struct {
	organizations *service.OrganizationService
	scheduling    *service.SchedulingService
	appointments  *service.AppointmentService
	ledger        *service.LedgerService
	orders        *service.OrderService
	availability  *service.AvailabilityService
	staff         *service.StaffDirectory
	catalog       *service.CatalogService
	logger        *logrus.Logger
}

func New(
	organizations *service.OrganizationService,
	scheduling *service.SchedulingService,
	appointments *service.AppointmentService,
	ledger *service.LedgerService,
	orders *service.OrderService,
	availability *service.AvailabilityService,
	staff *service.StaffDirectory,
	catalog *service.CatalogService,
	logger *logrus.Logger,
) *Server {
	return &Server{
		organizations: organizations,
		scheduling:    scheduling,
		appointments:  appointments,
		ledger:        ledger,
		orders:        orders,
		availability:  availability,
		staff:         staff,
		catalog:       catalog,
		logger:        logger,
	}
}

// Router собирает gin-маршруты. jwtSecret — секрет identity-коллаборатора.
func (s *Server) Router(jwtSecret string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	api := r.Group("/api", AuthMiddleware(jwtSecret))

	api.POST("/orgs", RequireAdmin(), s.createOrganization)

	org := api.Group("/orgs/:orgId")
	{
		org.GET("", s.getOrganization)

		org.POST("/appointments", s.scheduleAppointment)
		org.GET("/queue", s.queue)
		org.POST("/appointments/:id/cancel", s.cancelAppointment)
		org.POST("/lines/:lineId/start", s.startLine)
		org.POST("/lines/:lineId/complete", s.completeLine)
		org.POST("/lines/:lineId/assign", s.assignLine)

		org.GET("/availability", s.getWindow)
		org.PUT("/availability", RequireAdmin(), s.setWindow)

		org.GET("/staff/capable", s.listCapable)
		org.POST("/staff", RequireAdmin(), s.createStaff)

		org.GET("/services", s.listServices)
		org.GET("/services/:id", s.getService)
		org.POST("/services", RequireAdmin(), s.createService)
		org.GET("/products/:id", s.getProduct)
		org.POST("/products", RequireAdmin(), s.createProduct)

		org.GET("/balance", s.balance)
		org.GET("/finance/daily", s.dailyAggregate)
		org.GET("/transactions", s.listTransactions)
		org.POST("/expenses", RequireAdmin(), s.postExpense)
		org.POST("/withdrawals", RequireAdmin(), s.postWithdrawal)

		org.GET("/orders", s.listOrders)
		org.POST("/orders", s.createOrder)
		org.POST("/orders/:id/processing", s.markOrderProcessing)
		org.POST("/orders/:id/deliver", s.markOrderDelivered)
		org.POST("/orders/:id/cancel", s.cancelOrder)
	}

	return r
}

// respondError — единая точка маппинга типизированных ошибок ядра на HTTP.
func (s *Server) respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindConflict, apperr.KindAlreadyStarted:
		status = http.StatusConflict
	case apperr.KindCapacityExceeded, apperr.KindInvalidTransition,
		apperr.KindTerminalState, apperr.KindInsufficientStock:
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		// Инфраструктурная ошибка: логируем с контекстом, наружу — без деталей.
		config.LogError(s.logger, "server", c.Request.Method, c.FullPath(), nil, err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}

	c.JSON(status, gin.H{"error": err.Error(), "kind": kind.String()})
}
