package stubapi

import (
	"fmt"
	"os"
	"time"

	"talentify-client/internal/pkg/logger"
	"talentify-client/internal/pkg/serverutils"
	"talentify-client/internal/validation"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/patrickmn/go-cache"
)

type Config struct {
	JWTSecret string
	OTPTTL    time.Duration
	UploadDir string
	TokenTTL  time.Duration
}

// Server is an in-memory stand-in for the Talentify backend. OTPs are written
// to the log instead of being emailed.
type Server struct {
	app       *fiber.App
	cfg       Config
	db        *memoryDB
	otps      *cache.Cache
	validator *validation.Validator
	log       logger.ILogger
}

func New(cfg Config, log logger.ILogger) (*Server, error) {
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = 15 * time.Minute
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 256 * 1024 * 1024,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Type, Content-Disposition",
	}))
	app.Use(otelfiber.Middleware())

	s := &Server{
		app:       app,
		cfg:       cfg,
		db:        newMemoryDB(),
		otps:      cache.New(cfg.OTPTTL, 2*cfg.OTPTTL),
		validator: validation.NewValidator(),
		log:       log,
	}

	api := app.Group("/api", serverutils.JwtMiddleware(cfg.JWTSecret))
	newAuthHandler(s).RegisterRoutes(api)
	newJobHandler(s).RegisterRoutes(api)
	newResumeHandler(s).RegisterRoutes(api)
	newNotificationHandler(s).RegisterRoutes(api)

	app.Use(func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusNotFound).SendString("Page not found")
	})
	return s, nil
}

func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	s.log.Info("StubAPI", "Sandbox backend listening", map[string]interface{}{"addr": addr})
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// PendingOTP returns the code last issued to email for action, if it is still valid.
func (s *Server) PendingOTP(email, action string) (string, bool) {
	v, ok := s.otps.Get(otpKey(action, email))
	if !ok {
		return "", false
	}
	return v.(string), true
}

func otpKey(action, email string) string {
	return "otp:" + action + ":" + email
}

func resetKey(email string) string {
	return "reset:" + email
}

func fail(ctx *fiber.Ctx, status int, message string) error {
	return ctx.Status(status).JSON(fiber.Map{"message": message})
}

// parse decodes and validates a JSON body. When it reports false the 400
// response has already been written and err is what the handler returns.
func (s *Server) parse(ctx *fiber.Ctx, out any) (bool, error) {
	if err := ctx.BodyParser(out); err != nil {
		return false, fail(ctx, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := s.validator.Struct(out); err != nil {
		if fields, ok := err.(validation.FieldErrors); ok {
			return false, fail(ctx, fiber.StatusBadRequest, fields.First())
		}
		return false, fail(ctx, fiber.StatusBadRequest, err.Error())
	}
	return true, nil
}
