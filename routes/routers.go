package routes

import (
	"net/http"

	"market/constants"
	"market/controllers"
	middlewares "market/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers gom các controller cho router
type Handlers struct {
	Auth      *controllers.AuthController
	Services  *controllers.ServiceController
	Discounts *controllers.DiscountController
	Bookings  *controllers.BookingController
	Chat      *controllers.ChatController
	Locations *controllers.LocationController
	Uploads   *controllers.UploadController
	Admin     *controllers.AdminController
	WS        *controllers.WSController
}

func SetupRoutes(router *gin.Engine, h Handlers, tokens middlewares.TokenParser) {
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	auth := middlewares.AuthMiddleware(tokens)
	customer := middlewares.AuthMiddleware(tokens, constants.RoleCustomer)
	provider := middlewares.AuthMiddleware(tokens, constants.RoleProvider, constants.RoleAdmin)
	admin := middlewares.AuthMiddleware(tokens, constants.RoleAdmin)

	v1 := router.Group("/api/v1")

	v1.POST("/auth/register", h.Auth.Register)
	v1.POST("/auth/login", h.Auth.Login)
	v1.POST("/auth/google", h.Auth.AuthGoogle)
	v1.GET("/me", auth, h.Auth.GetProfile)
	v1.PUT("/me", auth, h.Auth.UpdateProfile)

	v1.GET("/locations/provinces", h.Locations.Provinces)
	v1.GET("/locations/provinces/:id/districts", h.Locations.Districts)
	v1.GET("/locations/districts/:id/wards", h.Locations.Wards)

	v1.GET("/services", middlewares.OptionalAuth(tokens), h.Services.List)
	v1.GET("/services/:id", middlewares.OptionalAuth(tokens), h.Services.Get)
	v1.GET("/services/:id/reviews", h.Services.ListReviews)
	v1.POST("/services", provider, h.Services.Create)
	v1.PUT("/services/:id", provider, h.Services.Update)
	v1.DELETE("/services/:id", provider, h.Services.Delete)

	v1.POST("/reviews", customer, h.Services.CreateReview)
	v1.PUT("/reviews/:id", customer, h.Services.UpdateReview)
	v1.DELETE("/reviews/:id", customer, h.Services.DeleteReview)

	v1.GET("/discounts", h.Discounts.List)
	v1.GET("/discounts/:id", h.Discounts.Get)
	v1.POST("/discounts", provider, h.Discounts.Create)
	v1.PUT("/discounts/:id", provider, h.Discounts.Update)
	v1.DELETE("/discounts/:id", provider, h.Discounts.Delete)
	v1.GET("/discounts/:id/interests", provider, h.Discounts.ListDiscountInterests)
	v1.POST("/discounts/:id/interests", customer, h.Discounts.AddInterest)

	v1.GET("/interests", customer, h.Discounts.ListMyInterests)
	v1.DELETE("/interests/:id", customer, h.Discounts.RemoveInterest)
	v1.PUT("/interests/:id/booking", customer, h.Discounts.RequestBooking)
	v1.PUT("/interests/:id/booking/status", provider, h.Discounts.UpdateBookingStatus)
	v1.GET("/promo-codes", customer, h.Discounts.ListMyPromoCodes)

	v1.GET("/bookings", auth, h.Bookings.List)
	v1.POST("/bookings", auth, h.Bookings.Create)
	v1.GET("/bookings/:id", auth, h.Bookings.Get)
	v1.PUT("/bookings/:id/status", auth, h.Bookings.ChangeStatus)
	v1.DELETE("/bookings/:id", auth, h.Bookings.Cancel)

	v1.GET("/messages", auth, h.Chat.Conversations)
	v1.POST("/messages", auth, h.Chat.Send)
	v1.GET("/messages/conversations", auth, h.Chat.Conversations)
	v1.GET("/messages/:userId", auth, h.Chat.Messages)
	v1.PUT("/messages/:userId/read", auth, h.Chat.MarkRead)

	v1.POST("/uploads/image", auth, h.Uploads.UploadImages)
	v1.GET("/ws", auth, h.WS.Connect)

	adm := v1.Group("/admin", admin)
	adm.GET("/users", h.Admin.ListUsers)
	adm.PUT("/users/:id/status", h.Admin.ChangeUserStatus)
	adm.GET("/bookings", h.Bookings.List)
	adm.DELETE("/services/:id", h.Services.Delete)
	adm.DELETE("/discounts/:id", h.Discounts.Delete)
	adm.DELETE("/reviews/:id", h.Services.DeleteReview)
	adm.POST("/jobs/:name", h.Admin.RunJob)
}
