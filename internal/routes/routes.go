package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/seidik/internal/config"
	"github.com/example/seidik/internal/handlers"
	"github.com/example/seidik/internal/middleware"
	"github.com/example/seidik/internal/services"
)

// Register mounts all API routes onto the app.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, blacklist services.TokenBlacklist) {
	otpService := services.NewOTPService(db)
	mailService := services.NewMailService(cfg)

	registration := handlers.NewRegistrationHandler(db, cfg, otpService, mailService)
	auth := handlers.NewAuthHandler(db, cfg, blacklist)
	password := handlers.NewPasswordHandler(db, otpService, mailService)
	profile := handlers.NewProfileHandler(db)
	catalog := handlers.NewCatalogHandler(db)
	product := handlers.NewProductHandler(db)
	contact := handlers.NewContactHandler(db, mailService)

	api := app.Group("/api")

	accounts := api.Group("/accounts")
	accounts.Post("/register", registration.Register)
	accounts.Post("/register/billing-address", registration.AddBillingAddress)
	accounts.Post("/register/delivery-address", registration.AddDeliveryAddress)
	accounts.Post("/register/trade-info", registration.AddTradeInformation)
	accounts.Post("/verify-email", registration.VerifyEmail)
	accounts.Post("/resend-otp", registration.ResendOTP)
	accounts.Post("/login", auth.Login)
	accounts.Post("/token/refresh", auth.Refresh)
	accounts.Post("/forgot-password", password.ForgotPassword)
	accounts.Post("/verify-reset-otp", password.VerifyResetOTP)
	accounts.Post("/reset-password", password.ResetPassword)

	protected := accounts.Group("", middleware.AuthMiddleware(cfg))
	protected.Post("/logout", auth.Logout)
	protected.Post("/change-password", password.ChangePassword)
	protected.Get("/profile", profile.GetProfile)
	protected.Patch("/profile/update", profile.UpdateProfile)

	products := api.Group("/products")
	products.Get("/categories", catalog.ListCategories)
	products.Get("/categories/:category_id/subcategories", catalog.ListSubCategories)
	products.Get("/categories/:category_id/subcategories/:subcategory_id/products", product.ListSubCategoryProducts)
	products.Get("/", product.ListProducts)
	// Static segments must register before the :product_id wildcard.
	products.Get("/search", product.SearchProducts)
	products.Get("/brands", product.ListBrands)
	products.Get("/:product_id", product.GetProduct)

	api.Post("/contact", contact.Create)
}
