// Package server wires storage, services and routes into one echo instance.
package server

import (
	"context"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
	"net"
	"slotly/cmd/internal/config"
	"slotly/cmd/internal/domain/entity"
	"slotly/cmd/internal/domain/sqlite"
	"slotly/cmd/internal/domain/sqlite/repository"
	"slotly/cmd/internal/metrics"
	"slotly/cmd/internal/middleware"
	"slotly/cmd/internal/routes"
	"slotly/cmd/internal/security"
	"slotly/cmd/internal/service"
	"slotly/cmd/internal/utils/validators"
)

// Server holds the wired services and the echo instance serving them.
type Server struct {
	Echo         *echo.Echo
	Users        *service.DefaultUserService
	Appointments *service.DefaultAppointmentService
	Tokens       service.TokenService
	Metrics      *metrics.Metrics

	db *gorm.DB
}

// New opens storage, builds every service and registers the routes. The
// provider account is seeded here when configured.
func New(cfg *config.Config) (*Server, error) {
	validate := validator.New()
	validators.Register(validate)

	db, err := sqlite.Init(cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	hasher, err := security.NewBcryptHasher(cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	tokens, err := service.NewTokenService(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	m := metrics.New()

	// Getting repositories
	userRepo := repository.NewUserRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)

	// Getting services
	userService := service.NewUserService(userRepo, hasher, tokens, validate, m)
	apptService := service.NewAppointmentService(apptRepo, validate, m)

	s := &Server{
		Users:        userService,
		Appointments: apptService,
		Tokens:       tokens,
		Metrics:      m,
		db:           db,
	}

	if cfg.SeedsProvider() {
		if err := s.seedProvider(cfg); err != nil {
			_ = s.Close()
			return nil, err
		}
	}

	s.Echo = newEcho(cfg, s)
	return s, nil
}

func newEcho(cfg *config.Config, s *Server) *echo.Echo {
	userRoutes := routes.NewUserDefault(s.Users)
	apptRoutes := routes.NewAppointmentDefault(s.Appointments)
	guard := middleware.NewGuard(s.Tokens, s.Metrics)
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	auth := guard.Middleware()

	e := echo.New()
	e.HideBanner = true
	e.IPExtractor = ipExtractor(cfg.TrustedProxies)
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.CORSAllowOrigins}))

	e.GET("/", routes.Liveness)
	e.GET("/metrics", echo.WrapHandler(s.Metrics.Handler()))

	// Users
	e.POST("/register", userRoutes.Register, limiter.Middleware())
	e.POST("/login", userRoutes.Login, limiter.Middleware())

	// Appointments
	e.GET("/appointments", apptRoutes.GetAppointments)
	e.GET("/my-appointments", apptRoutes.GetMyAppointments, auth)
	e.POST("/appointments", apptRoutes.CreateAppointment, auth)
	e.PUT("/appointments/:id", apptRoutes.UpdateAppointment, auth)
	e.DELETE("/appointments/:id", apptRoutes.DeleteAppointment, auth)

	return e
}

// ipExtractor decides which address the rate limiter keys on. Forwarding
// headers are only read when the peer is a configured proxy.
func ipExtractor(trusted []*net.IPNet) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, ipNet := range trusted {
		opts = append(opts, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

func (s *Server) seedProvider(cfg *config.Config) error {
	user, apierr := s.Users.SeedUser(context.Background(), cfg.SeedProviderUsername, cfg.SeedProviderPassword, entity.RoleProvider)
	if apierr != nil {
		return apierr
	}
	log.Infof("seeded provider account %s (%s)", user.Username, user.ID)
	return nil
}

// Close releases the database; with the in-memory default every record goes
// with it.
func (s *Server) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
