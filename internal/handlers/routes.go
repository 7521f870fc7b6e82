package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Handlers struct {
	Upload *UploadHandler
	Screen *ScreenHandler
	Result *ResultHandler
}

type AppOptions struct {
	Name         string
	BodyLimit    int
	RequestLog   bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewApp builds the fiber app with middleware and the /api/v1 routes.
func NewApp(h Handlers, opts AppOptions) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      opts.Name,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		BodyLimit:    opts.BodyLimit,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	if opts.RequestLog {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "2006-01-02 15:04:05",
		}))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/upload", h.Upload.HandleUpload)
	api.Post("/screen", h.Screen.HandleScreen)
	api.Post("/screen/sync", h.Screen.HandleScreenSync)
	api.Get("/result/:id", h.Result.HandleGetResult)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": opts.Name,
			"endpoints": []string{
				"POST /api/v1/upload",
				"POST /api/v1/screen",
				"POST /api/v1/screen/sync",
				"GET /api/v1/result/:id",
			},
		})
	})

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
