package router

import (
	"time"

	"purchase-orders-backend/db/models"
	"purchase-orders-backend/middleware"
	"purchase-orders-backend/users/controllers"
	"purchase-orders-backend/users/repositories"

	"github.com/gofiber/fiber/v2"
)

func InitRoutes(
	app fiber.Router,
	userRepo repositories.UserRepository,
	auth *middleware.AppContext,
) {
	loginController := &controllers.LoginController{UserRepo: userRepo, Auth: auth}
	userController := &controllers.UserController{UserRepo: userRepo}

	loginLimiter := middleware.NewIPRateLimiter(time.Minute, 5)

	authRoutes := app.Group("/auth")
	authRoutes.Post("/login", loginLimiter.Handler("Too many login attempts"), loginController.LoginUser)
	authRoutes.Post("/logout", loginController.LogoutUser)
	authRoutes.Get("/me", middleware.ProtectedRoute(auth), loginController.CurrentUser)

	userRoutes := app.Group("/users", middleware.ProtectedRoute(auth), middleware.RequireRoles(string(models.AdminRole)))
	userRoutes.Post("/", userController.CreateUser)
}
