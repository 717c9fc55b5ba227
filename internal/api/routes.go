package api

import (
	"net/http"

	"github.com/flackattacker/trainertracker-sub001/internal/domain"
	"github.com/flackattacker/trainertracker-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires all handlers into the Gin engine.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	trainerService service.TrainerService,
	availabilityService service.AvailabilityService,
	bookingService service.BookingService,
	programService service.ProgramService,
	clientService service.ClientService,
) {
	authHandler := NewAuthHandler(authService)
	trainerHandler := NewTrainerHandler(trainerService)
	availabilityHandler := NewAvailabilityHandler(availabilityService)
	sessionHandler := NewSessionHandler(bookingService)
	programHandler := NewProgramHandler(programService)
	clientHandler := NewClientHandler(clientService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userID.Hex(), "role": role})
		})

		// --- Shared Session Routes ---
		// Trainers see what they booked, clients what was booked for them.
		protected.GET("/sessions", sessionHandler.GetMySessions)
		protected.GET("/sessions/:id", sessionHandler.GetSession)

		// --- Slot Lookup ---
		// Any authenticated user can browse a trainer's open slots.
		protected.GET("/trainers/:trainerId/slots", availabilityHandler.GetAvailableSlots)

		// --- Program Viewing (both participants) ---
		protected.GET("/programs/:id", programHandler.GetProgram)

		// --- Trainer Routes ---
		trainerGroup := protected.Group("/trainer")
		trainerGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			trainerGroup.POST("/clients", trainerHandler.AddClientByEmail)
			trainerGroup.GET("/clients", trainerHandler.GetManagedClients)

			trainerGroup.POST("/clients/:clientId/performance", trainerHandler.RecordPerformance)
			trainerGroup.GET("/clients/:clientId/performance", trainerHandler.GetClientPerformance)
			trainerGroup.GET("/clients/:clientId/programs", programHandler.GetClientPrograms)
			trainerGroup.GET("/clients/:clientId/photos", clientHandler.GetClientPhotos)

			trainerGroup.PUT("/availability", availabilityHandler.SetWeeklyTemplate)
			trainerGroup.GET("/availability", availabilityHandler.GetWeeklyTemplate)
			trainerGroup.PUT("/availability/exceptions", availabilityHandler.SetException)
			trainerGroup.GET("/availability/exceptions", availabilityHandler.GetExceptions)
			trainerGroup.DELETE("/availability/exceptions/:date", availabilityHandler.DeleteException)

			trainerGroup.POST("/sessions", sessionHandler.ScheduleSession)
			trainerGroup.PATCH("/sessions/:id/status", sessionHandler.UpdateSessionStatus)

			trainerGroup.POST("/programs", programHandler.CreateProgram)
			trainerGroup.PUT("/programs/:id", programHandler.UpdateProgram)
			trainerGroup.GET("/programs/:id/progression", programHandler.GetProgressionReport)
		}

		// --- Client Routes ---
		clientGroup := protected.Group("/client")
		clientGroup.Use(RoleMiddleware(domain.RoleClient))
		{
			clientGroup.POST("/photos/upload-url", clientHandler.RequestPhotoUploadURL)
			clientGroup.POST("/photos", clientHandler.ConfirmPhotoUpload)
			clientGroup.GET("/photos", clientHandler.GetMyPhotos)
			clientGroup.GET("/performance", clientHandler.GetMyPerformance)
		}
	}
}
