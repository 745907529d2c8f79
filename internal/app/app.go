package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"maidscentre/internal/config"
	"maidscentre/internal/db"
	"maidscentre/internal/handlers"
	"maidscentre/internal/middleware"
	"maidscentre/internal/pdf"
	"maidscentre/internal/repositories"
	"maidscentre/internal/routes"
	"maidscentre/internal/services"

	"github.com/gin-gonic/gin"

	_ "maidscentre/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func Run() {
	cfg := config.LoadConfig()
	if cfg.InsecureJWTSecret() {
		// в release без своего секрета не стартуем
		if gin.Mode() == gin.ReleaseMode {
			log.Fatal("JWT_SECRET не задан: задайте его через env или auth.jwt_secret")
		}
		log.Printf("[app][warn] auth.jwt_secret is the default dev value, set JWT_SECRET")
	}
	middleware.SetJWTKey(cfg.Auth.JWTSecret)

	// === DB (миграции внутри Open) ===
	conn, err := db.Open(cfg.Database.DSN)
	if err != nil {
		log.Fatal("Ошибка подключения к БД: ", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Printf("Ошибка закрытия БД: %v", err)
		}
	}()

	// === Repos ===
	txRunner := repositories.NewTxRunner(conn)
	userRepo := repositories.NewUserRepository(conn)
	clientRepo := repositories.NewClientRepository(conn)
	employeeRepo := repositories.NewEmployeeRepository(conn)
	corporateRepo := repositories.NewCorporateRepository(conn)
	transactionRepo := repositories.NewTransactionRepository(conn)
	ticketRepo := repositories.NewTicketRepository(conn)
	auditRepo := repositories.NewAuditLogRepository(conn)

	// === Services ===
	authService := services.NewAuthService(cfg.Auth.AccessTTL)
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	notifier := services.NewAdminNotifier(cfg.Telegram)

	// без font_path квитанции рисуются core-шрифтом
	pdfGen := pdf.NewReceiptGenerator(cfg.Files.RootDir, cfg.Files.FontPath)

	userService := services.NewUserService(txRunner, userRepo, clientRepo, employeeRepo, corporateRepo, emailService, authService, cfg.Auth.RefreshTTL)
	clientService := services.NewClientService(clientRepo, cfg.Fees)
	employeeService := services.NewEmployeeService(employeeRepo)
	corporateService := services.NewCorporateService(corporateRepo)
	accessService := services.NewAccessService(txRunner, clientRepo, employeeRepo, transactionRepo, userRepo, emailService, cfg.Gating, cfg.Fees)
	auditService := services.NewAuditService(auditRepo, userRepo)
	transactionService := services.NewTransactionService(transactionRepo, clientRepo, userRepo, pdfGen, notifier, auditService)
	ticketService := services.NewTicketService(ticketRepo, userRepo, auditService, notifier)

	if err := userService.EnsureAdmin(context.Background(), cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name); err != nil {
		log.Printf("[app][seed][err] admin: %v", err)
	}

	housekeeping := services.NewHousekeepingService(accessService, cfg.Server.HousekeepingInterval)
	housekeeping.Start()

	// === Handlers ===
	healthHandler := handlers.NewHealthHandler(conn)
	authHandler := handlers.NewAuthHandler(userService)
	clientHandler := handlers.NewClientHandler(clientService, employeeService, accessService)
	accessHandler := handlers.NewAccessHandler(accessService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	employeeHandler := handlers.NewEmployeeHandler(employeeService)
	corporateHandler := handlers.NewCorporateHandler(corporateService)
	ticketHandler := handlers.NewTicketHandler(ticketService)
	adminHandler := handlers.NewAdminHandler(userService, ticketService, transactionService, auditService)

	// === Gin ===
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Роуты (JWT/RBAC — внутри SetupRoutes)
	routes.SetupRoutes(
		router,
		healthHandler,
		authHandler,
		clientHandler,
		accessHandler,
		transactionHandler,
		employeeHandler,
		corporateHandler,
		ticketHandler,
		adminHandler,
	)

	// === Run ===
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("Сервер запущен на %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Ошибка запуска сервера: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Остановка сервера...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Ошибка остановки сервера: %v", err)
	}
	housekeeping.Stop()
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
