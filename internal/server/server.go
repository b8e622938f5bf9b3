package server

import (
	"context"
	"net/http"
	"time"

	"tripmarket/internal/auth"
	"tripmarket/internal/booking"
	"tripmarket/internal/claim"
	"tripmarket/internal/config"
	"tripmarket/internal/email"
	"tripmarket/internal/report"
	"tripmarket/internal/tour"
	"tripmarket/internal/user"
	"tripmarket/internal/wallet"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization"},
	}))

	var notifier booking.Notifier
	if emailService != nil {
		notifier = emailService
	}

	walletRepo := wallet.NewRepository(db)
	bookingRepo := booking.NewRepository(db, walletRepo)
	bookingService := booking.NewService(bookingRepo, notifier)
	claimService := claim.NewService(claim.NewRepository(db))
	tourService := tour.NewService(tour.NewRepository(db))
	userRepo := user.NewRepository(db, walletRepo)

	userHandler := user.NewHandler(userRepo, cfg.JWTSecret, cfg.SettlementCurrency)
	tourHandler := tour.NewHandler(tourService)
	bookingHandler := booking.NewHandler(bookingService)
	claimHandler := claim.NewHandler(claimService)
	walletHandler := wallet.NewHandlerWithRepository(walletRepo)
	reportHandler := report.NewHandler(report.NewService(bookingService, walletRepo))

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	router.GET("/tours", tourHandler.ListTours)
	router.GET("/tours/:tourID", tourHandler.GetTour)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.GET("/me/wallet", walletHandler.GetMyWallet)
		protected.GET("/me/wallet/transactions", walletHandler.ListMyTransactions)

		protected.POST("/bookings", bookingHandler.CreateBooking)
		protected.GET("/bookings", bookingHandler.ListBookings)
		protected.GET("/bookings/:bookingID", bookingHandler.GetBooking)
		protected.POST("/bookings/:bookingID/cancel", bookingHandler.CancelBooking)

		protected.POST("/claims", auth.RequireRole(auth.RoleAgent), claimHandler.SubmitClaim)
		protected.GET("/claims", auth.RequireRole(auth.RoleAgent, auth.RoleAdmin), claimHandler.ListClaims)
		protected.GET("/claims/:claimID", auth.RequireRole(auth.RoleAgent, auth.RoleAdmin), claimHandler.GetClaim)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole(auth.RoleAdmin))
	{
		admin.POST("/bookings/:bookingID/claim-payment", bookingHandler.ClaimPayment)
		admin.GET("/bookings/:bookingID/receipt", reportHandler.BookingReceipt)

		admin.GET("/wallets/:agentID", walletHandler.GetWallet)
		admin.GET("/wallets/:agentID/transactions", walletHandler.ListTransactions)
		admin.PUT("/wallets/:agentID/credit-limit", walletHandler.UpdateCreditLimit)
		admin.POST("/wallets/:agentID/transaction", walletHandler.PostManualTransaction)
		admin.GET("/wallets/:agentID/statement", reportHandler.WalletStatement)

		admin.GET("/claims", claimHandler.ListClaims)
		admin.GET("/claims/stats", claimHandler.ClaimStats)
		admin.PUT("/claims/:claimID/status", claimHandler.ReviewClaim)

		admin.POST("/tours", tourHandler.CreateTour)
		admin.POST("/tours/:tourID/deactivate", tourHandler.DeactivateTour)

		admin.GET("/agents", userHandler.ListAgents)
		admin.POST("/agents/:agentID/approve", userHandler.ApproveAgent)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
