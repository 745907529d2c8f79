package routes

import (
	"github.com/gin-gonic/gin"

	"maidscentre/internal/authz"
	"maidscentre/internal/handlers"
	"maidscentre/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	clientHandler *handlers.ClientHandler,
	accessHandler *handlers.AccessHandler,
	transactionHandler *handlers.TransactionHandler,
	employeeHandler *handlers.EmployeeHandler,
	corporateHandler *handlers.CorporateHandler,
	ticketHandler *handlers.TicketHandler,
	adminHandler *handlers.AdminHandler,
) *gin.Engine {

	// ---- public
	r.GET("/healthz", healthHandler.Health)
	r.POST("/login", middleware.RateLimit(middleware.StrictLimit), authHandler.Login)
	r.POST("/register", middleware.RateLimit(middleware.StrictLimit), authHandler.Register)
	r.POST("/refresh", authHandler.RefreshToken)

	// ---- protected
	r.Use(middleware.AuthMiddleware())

	r.POST("/logout", authHandler.Logout)

	// CLIENT (корпоративные клиенты нанимают так же)
	client := r.Group("/client", middleware.RequireRoles(authz.RoleClient, authz.RoleCorporate))
	{
		client.GET("/profile", clientHandler.GetProfile)
		client.PUT("/profile", clientHandler.UpdateProfile)
		client.GET("/access", clientHandler.AccessStatus)
		client.POST("/subscription/upgrade", clientHandler.UpgradeSubscription)
		client.GET("/team", clientHandler.Team)

		client.GET("/employees", clientHandler.ListEmployees)
		client.GET("/employees/:id", accessHandler.ViewEmployee)
		client.POST("/employees/:id/hire", accessHandler.AttemptHire)

		client.POST("/payments/access", accessHandler.PayAccess)
		client.POST("/payments/hire", accessHandler.PayHire)

		client.GET("/transactions", transactionHandler.List)
		client.GET("/transactions/:id/receipt", transactionHandler.Receipt)
		client.POST("/transactions/:id/refund", transactionHandler.RequestRefund)
	}

	// EMPLOYEE
	employee := r.Group("/employee", middleware.RequireRoles(authz.RoleEmployee))
	{
		employee.GET("/profile", employeeHandler.GetProfile)
		employee.PUT("/profile", employeeHandler.UpdateProfile)
	}

	// CORPORATE
	corporate := r.Group("/corporate", middleware.RequireRoles(authz.RoleCorporate))
	{
		corporate.GET("/profile", corporateHandler.GetProfile)
		corporate.PUT("/profile", corporateHandler.UpdateProfile)
	}

	// SUPPORT
	tickets := r.Group("/tickets",
		middleware.RequireRoles(authz.RoleClient, authz.RoleEmployee, authz.RoleCorporate),
	)
	{
		tickets.POST("", ticketHandler.Create)
		tickets.GET("", ticketHandler.ListOwn)
		tickets.GET("/:id", ticketHandler.Get)
		tickets.POST("/:id/messages", ticketHandler.Reply)
	}

	// ADMIN
	admin := r.Group("/admin", middleware.RequireRoles(authz.RoleAdmin))
	{
		admin.GET("/tickets", adminHandler.ListTickets)
		admin.GET("/tickets/:id", adminHandler.GetTicket)
		admin.PUT("/tickets/:id", adminHandler.UpdateTicket)
		admin.POST("/tickets/:id/messages", adminHandler.ReplyTicket)

		admin.GET("/users", adminHandler.ListUsers)

		admin.GET("/refunds", adminHandler.ListRefunds)
		admin.POST("/transactions/:id/refund", adminHandler.DecideRefund)

		admin.GET("/audit-logs", adminHandler.AuditLogs)
	}

	return r
}
