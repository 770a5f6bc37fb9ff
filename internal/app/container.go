package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/rental-booking-backend/internal/api"
	"github.com/nekogravitycat/rental-booking-backend/internal/auth"
	"github.com/nekogravitycat/rental-booking-backend/internal/availability"
	"github.com/nekogravitycat/rental-booking-backend/internal/blockeddate"
	"github.com/nekogravitycat/rental-booking-backend/internal/booking"
	"github.com/nekogravitycat/rental-booking-backend/internal/page"
	"github.com/nekogravitycat/rental-booking-backend/internal/photo"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/cache"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/clock"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/storage"
	"github.com/nekogravitycat/rental-booking-backend/internal/property"
	"github.com/nekogravitycat/rental-booking-backend/internal/report"
	"github.com/nekogravitycat/rental-booking-backend/internal/tracking"
	"github.com/nekogravitycat/rental-booking-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	Logger         zerolog.Logger
	DBPool         *pgxpool.Pool
	Cache          cache.Cache // nil disables availability caching
	CacheTTL       time.Duration
	Storage        storage.Storage
	Clock          clock.Clock // nil means the system clock
	JWTSecret      string
	JWTTTL         time.Duration
	BcryptCost     int
	MaxUploadBytes int64
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	clk := cfg.Clock
	if clk == nil {
		clk = clock.System()
	}

	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL, clk)

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher, clk)

	// Property Module
	propertyRepo := property.NewPgxRepository(cfg.DBPool)
	propertyService := property.NewService(propertyRepo, clk)

	// Availability Module (reads bookings and blocked dates)
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	blockedRepo := blockeddate.NewPgxRepository(cfg.DBPool)
	availabilityService := availability.NewService(bookingRepo, blockedRepo, cfg.Cache, cfg.CacheTTL)

	// Booking Module
	bookingService := booking.NewService(bookingRepo, propertyService, availabilityService, clk)

	// Blocked Date Module
	blockedService := blockeddate.NewService(blockedRepo, propertyService, availabilityService, clk)

	// Tracking Module
	trackingRepo := tracking.NewPgxRepository(cfg.DBPool)
	trackingService := tracking.NewService(trackingRepo, propertyService, clk)

	// Report Module
	reportService := report.NewService(propertyService, bookingService, trackingService)

	// Photo Module
	photoRepo := photo.NewRepository(cfg.DBPool)
	photoService := photo.NewService(photoRepo, propertyService, cfg.Storage, cfg.MaxUploadBytes)

	// Page Module
	pageRepo := page.NewPgxRepository(cfg.DBPool)
	pageService := page.NewService(pageRepo)

	// API Router Config
	routerParams := api.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		Logger:              cfg.Logger,
		Clock:               clk,
		MaxUploadBytes:      cfg.MaxUploadBytes,
		UserService:         userService,
		PropertyService:     propertyService,
		AvailabilityService: availabilityService,
		BookingService:      bookingService,
		BlockedDateService:  blockedService,
		ReportService:       reportService,
		TrackingService:     trackingService,
		PhotoService:        photoService,
		PageService:         pageService,
		JWTManager:          jwtManager,
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}
}
