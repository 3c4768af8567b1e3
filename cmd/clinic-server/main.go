package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clinichq/clinic-server/internal/config"
	"github.com/clinichq/clinic-server/internal/domain/booking"
	"github.com/clinichq/clinic-server/internal/domain/consultation"
	"github.com/clinichq/clinic-server/internal/domain/identity"
	"github.com/clinichq/clinic-server/internal/domain/notification"
	"github.com/clinichq/clinic-server/internal/domain/patient"
	"github.com/clinichq/clinic-server/internal/domain/prescription"
	"github.com/clinichq/clinic-server/internal/domain/staff"
	"github.com/clinichq/clinic-server/internal/domain/system"
	"github.com/clinichq/clinic-server/internal/platform/apperr"
	"github.com/clinichq/clinic-server/internal/platform/auth"
	"github.com/clinichq/clinic-server/internal/platform/db"
	"github.com/clinichq/clinic-server/internal/platform/middleware"
	"github.com/clinichq/clinic-server/internal/platform/validation"
)

// doctorNotifier adapts the notification service to booking.Notifier. A
// doctor without a linked user account simply receives nothing.
type doctorNotifier struct {
	doctors       staff.DoctorRepository
	notifications *notification.Service
}

func (n *doctorNotifier) NotifyDoctor(ctx context.Context, doctorID int64, title, message string) error {
	d, err := n.doctors.GetByID(ctx, doctorID)
	if err != nil {
		return err
	}
	if d.UserID == nil {
		return nil
	}
	_, err = n.notifications.Notify(ctx, *d.UserID, title, message)
	return err
}

// appointmentGateway adapts the booking service to consultation.AppointmentGateway.
type appointmentGateway struct {
	booking *booking.Service
}

func (g *appointmentGateway) Exists(ctx context.Context, id int64) error {
	_, err := g.booking.Get(ctx, id)
	return err
}

func (g *appointmentGateway) Complete(ctx context.Context, id, actorID int64) error {
	return g.booking.Complete(ctx, id, actorID)
}

// consultationGateway adapts the consultation service to prescription.ConsultationGateway.
type consultationGateway struct {
	consultations *consultation.Service
}

func (g *consultationGateway) Exists(ctx context.Context, id int64) error {
	_, err := g.consultations.Get(ctx, id)
	return err
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "Clinic management API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(adminCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the clinic API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.Migrations
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, db.PoolOptions{MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.Migrations
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, db.PoolOptions{MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative commands",
	}

	createUserCmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			role, _ := cmd.Flags().GetString("role")
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password are required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, db.PoolOptions{MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := identity.NewService(identity.NewRepoPG(pool), auth.JWTConfig{
				Secret: []byte(cfg.JWTSecret),
				Issuer: cfg.JWTIssuer,
				Expiry: cfg.JWTExpiry,
			})
			u, err := svc.Register(ctx, email, password, role)
			if err != nil {
				return err
			}

			fmt.Printf("Created user %d (%s) with role %s\n", u.ID, u.Email, u.Role)
			return nil
		},
	}
	createUserCmd.Flags().String("email", "", "Email address")
	createUserCmd.Flags().String("password", "", "Password")
	createUserCmd.Flags().String("role", "admin", "Role (admin, doctor, nurse, patient)")
	cmd.AddCommand(createUserCmd)

	return cmd
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	if level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && level != zerolog.NoLevel {
		logger = logger.Level(level)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, db.PoolOptions{MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	tx := db.NewTransactor(pool)
	jwtCfg := auth.JWTConfig{
		Secret: []byte(cfg.JWTSecret),
		Issuer: cfg.JWTIssuer,
		Expiry: cfg.JWTExpiry,
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = apperr.HTTPErrorHandler(logger)

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}

	// Repositories
	userRepo := identity.NewRepoPG(pool)
	doctorRepo := staff.NewDoctorRepoPG(pool)
	nurseRepo := staff.NewNurseRepoPG(pool)
	scheduleRepo := staff.NewScheduleRepoPG(pool)
	nurseScheduleRepo := staff.NewNurseScheduleRepoPG(pool)
	patientRepo := patient.NewRepoPG(pool)
	apptRepo := booking.NewAppointmentRepoPG(pool)
	slotRepo := booking.NewSlotRepoPG(pool)
	consultationRepo := consultation.NewRepoPG(pool)
	prescriptionRepo := prescription.NewRepoPG(pool)
	medicationRepo := prescription.NewMedicationRepoPG(pool)
	notificationRepo := notification.NewRepoPG(pool)
	auditRepo := system.NewAuditRepoPG(pool)
	settingRepo := system.NewSettingRepoPG(pool)

	// Services
	identitySvc := identity.NewService(userRepo, jwtCfg)
	notificationSvc := notification.NewService(notificationRepo)
	bookingSvc := booking.NewService(apptRepo, slotRepo, tx, &doctorNotifier{
		doctors:       doctorRepo,
		notifications: notificationSvc,
	})
	staffSvc := staff.NewService(doctorRepo, nurseRepo, scheduleRepo, nurseScheduleRepo, bookingSvc)
	patientSvc := patient.NewService(patientRepo)
	consultationSvc := consultation.NewService(consultationRepo, &appointmentGateway{booking: bookingSvc}, tx)
	prescriptionSvc := prescription.NewService(prescriptionRepo, medicationRepo,
		&consultationGateway{consultations: consultationSvc}, tx)
	systemSvc := system.NewService(auditRepo, settingRepo)

	// Public routes: auth + health
	public := e.Group("")
	public.Use(middleware.RateLimit(rateLimitCfg))
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "version": "0.1.0"})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Authenticated API
	api := e.Group("/api/v1")
	api.Use(middleware.RateLimit(rateLimitCfg))
	if cfg.IsDev() && cfg.JWTSecret == "" {
		logger.Warn().Msg("no JWT secret configured, using development auth")
		api.Use(auth.DevAuthMiddleware())
	} else {
		api.Use(auth.JWTMiddleware(jwtCfg))
	}
	api.Use(middleware.Audit(logger, systemSvc))

	identity.NewHandler(identitySvc).RegisterRoutes(public, api)
	staff.NewHandler(staffSvc).RegisterRoutes(api)
	patient.NewHandler(patientSvc).RegisterRoutes(api)
	booking.NewHandler(bookingSvc).RegisterRoutes(api)
	consultation.NewHandler(consultationSvc).RegisterRoutes(api)
	prescription.NewHandler(prescriptionSvc).RegisterRoutes(api)
	notification.NewHandler(notificationSvc).RegisterRoutes(api)
	system.NewHandler(systemSvc).RegisterRoutes(api)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
