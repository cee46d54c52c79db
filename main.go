package main

import (
	"fmt"
	"log"
	"os"

	"github.com/prosenjithdash/rentwheels-bd-server/routes"
	"github.com/prosenjithdash/rentwheels-bd-server/services"
	"github.com/prosenjithdash/rentwheels-bd-server/storage"
	"github.com/prosenjithdash/rentwheels-bd-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	// Initialize collaborators; handlers receive them at construction
	db := storage.InitializeDB()
	rds := storage.InitializeRedis()
	payments := services.NewStripeProvider(os.Getenv("STRIPE_SECRET_KEY"))
	mailer := services.NewSMTPMailer()

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	// Minimal middleware - compression only
	app.Use(iris.Compression)

	// Authorization chain: authenticate, then check revocation, then role
	gate := utils.NewGate(db, rds)
	auth := gate.Verify()
	live := gate.SessionAlive()

	authHandler := routes.NewAuthHandler(rds)
	users := routes.NewUserHandler(db)
	vehicles := routes.NewVehicleHandler(db)
	bookings := routes.NewBookingHandler(db, payments, mailer)
	stats := routes.NewStatsHandler(db)

	// Health check endpoint - CRITICAL for Render
	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	// Session
	app.Post("/jwt", authHandler.CreateSession)
	app.Get("/logout", authHandler.DestroySession)

	// Users
	app.Put("/user", auth, live, users.UpsertUser)
	app.Get("/users", auth, live, gate.RequireRole("admin"), users.GetUsers)
	app.Get("/user/{email}", users.GetUserByEmail)
	app.Patch("/users/update/{email}", auth, live, gate.RequireRole("admin"), users.PromoteUser)
	app.Delete("/users/{email}", auth, live, gate.RequireRole("admin"), users.DeleteUser)

	// Payments
	app.Post("/create-payment-intent", auth, live, bookings.CreatePaymentIntent)

	// Vehicles
	app.Get("/vehicles", vehicles.GetVehicles)
	app.Get("/vehicle/{id}", vehicles.GetVehicle)
	app.Post("/vehicle", auth, live, gate.RequireRole("host"), vehicles.CreateVehicle)
	app.Put("/vehicle/update/{id}", auth, live, gate.RequireRole("host"), vehicles.UpdateVehicle)
	app.Patch("/vehicle/status/{id}", auth, live, vehicles.SetVehicleStatus)
	app.Delete("/vehicle/{id}", auth, live, vehicles.DeleteVehicle)
	app.Get("/my_listings/{email}", auth, live, gate.RequireSelf("email"), vehicles.GetVehiclesByHost)

	// Bookings
	app.Post("/booking", auth, live, gate.RequireRole("render"), bookings.CreateBooking)
	app.Delete("/booking/{id}", auth, live, bookings.DeleteBooking)
	app.Get("/my_bookings/{email}", auth, live, gate.RequireSelf("email"), bookings.GetBookingsByRender)
	app.Get("/manage_bookings/{email}", auth, live, gate.RequireRole("host"), gate.RequireSelf("email"), bookings.GetBookingsByHost)

	// Statistics
	app.Get("/admin_stat", auth, live, gate.RequireRole("admin"), stats.AdminStats)
	app.Get("/host_stat", auth, live, gate.RequireRole("host"), stats.HostStats)
	app.Get("/render_stat", auth, live, stats.RenderStats)

	// Get port from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := "0.0.0.0:" + port

	fmt.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
