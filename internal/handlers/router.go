package handlers

import (
	"net/http"

	"github.com/chachabrian/sewo-backend/internal/database"
	"github.com/chachabrian/sewo-backend/internal/middleware"
	"github.com/chachabrian/sewo-backend/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps are the collaborators the API is built from.
type Deps struct {
	DB            *gorm.DB
	JWTSecret     string
	Bookings      *services.BookingService
	QRCodes       *services.QRService
	Conversations *services.ConversationService
	Hub           *services.Hub
}

// NewRouter wires every route under /api.
func NewRouter(d Deps) *gin.Engine {
	RegisterValidators()

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	r.Use(cors.New(config))

	api := r.Group("/api")
	{
		api.GET("/health", Health(d.DB))

		auth := api.Group("/auth")
		{
			auth.POST("/register", Register(d.DB, d.JWTSecret))
			auth.POST("/login", Login(d.DB, d.JWTSecret))
		}

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(d.JWTSecret))
		{
			users := protected.Group("/users")
			{
				users.GET("/profile", GetProfile(d.DB))
				users.PUT("/profile", UpdateProfile(d.DB))
				users.GET("/:id", GetUser(d.DB))
			}

			vehicles := protected.Group("/vehicles")
			{
				vehicles.GET("", ListVehicles(d.DB))
				vehicles.POST("", CreateVehicle(d.DB))
				vehicles.GET("/:id", GetVehicle(d.DB))
				vehicles.PUT("/:id", UpdateVehicle(d.DB))
				vehicles.DELETE("/:id", DeleteVehicle(d.DB))
				vehicles.GET("/:id/reviews", ListVehicleReviews(d.DB))
			}

			bookings := protected.Group("/bookings")
			{
				bookings.POST("", CreateBooking(d.Bookings))
				bookings.GET("", ListBookings(d.Bookings))
				bookings.GET("/:id", GetBooking(d.Bookings))
				bookings.POST("/:id/change_status", ChangeBookingStatus(d.Bookings))
				bookings.GET("/:id/logs", GetBookingLogs(d.Bookings))
				bookings.GET("/:id/qrcode", GetBookingQRCode(d.QRCodes))
				bookings.GET("/:id/payments", ListBookingPayments(d.DB, d.Bookings))
			}

			protected.POST("/qrcodes/verify", VerifyQRCode(d.QRCodes))

			payments := protected.Group("/payments")
			{
				payments.POST("", CreatePayment(d.DB, d.Bookings))
				payments.GET("/:id", GetPayment(d.DB, d.Bookings))
				payments.PATCH("/:id/status", UpdatePaymentStatus(d.DB, d.Bookings))
			}

			protected.POST("/reviews", CreateReview(d.DB, d.Bookings))

			conversations := protected.Group("/conversations")
			{
				conversations.GET("", ListConversations(d.Conversations))
				conversations.POST("/start", StartConversation(d.Conversations))
				conversations.GET("/:id", GetConversation(d.Conversations))
				conversations.GET("/:id/messages", ListMessages(d.Conversations))
				conversations.POST("/:id/messages", PostMessage(d.Conversations))
				conversations.PATCH("/:id/mark-read", MarkConversationRead(d.Conversations))
				conversations.POST("/:id/mark-read", MarkConversationRead(d.Conversations))
			}

			protected.GET("/messages/:id", GetMessage(d.Conversations))
			protected.GET("/ws", WebSocketHandler(d.Hub))
		}
	}

	return r
}

func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := database.Ping(db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
