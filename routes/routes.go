package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/hsn8086/re-hcat-server/config"
	"github.com/hsn8086/re-hcat-server/middlewares"
	"github.com/hsn8086/re-hcat-server/services"
	"github.com/hsn8086/re-hcat-server/socket"
)

// SetRoutes sets all routes of server
func SetRoutes(app *fiber.App) {
	if config.Config.EnableCORS {
		app.Use(cors.New(cors.Config{
			AllowCredentials: true,
		}))
	}

	app.Use("/stream", socket.UpgradeGate, websocket.New(socket.Stream))

	api := app.Group("/api")
	api.Use(middlewares.TryAuthenticate)
	api.Get("/*", services.API)
	api.Post("/*", services.API)

	if config.Config.EnableStatic {
		app.Static("/", config.Config.StaticFolder)
	}
}
