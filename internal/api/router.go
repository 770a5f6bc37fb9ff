package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/rental-booking-backend/internal/auth"
	"github.com/nekogravitycat/rental-booking-backend/internal/availability"
	availabilityHttp "github.com/nekogravitycat/rental-booking-backend/internal/availability/http"
	"github.com/nekogravitycat/rental-booking-backend/internal/blockeddate"
	blockedDateHttp "github.com/nekogravitycat/rental-booking-backend/internal/blockeddate/http"
	"github.com/nekogravitycat/rental-booking-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/rental-booking-backend/internal/booking/http"
	"github.com/nekogravitycat/rental-booking-backend/internal/page"
	pageHttp "github.com/nekogravitycat/rental-booking-backend/internal/page/http"
	"github.com/nekogravitycat/rental-booking-backend/internal/photo"
	photoHttp "github.com/nekogravitycat/rental-booking-backend/internal/photo/http"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/clock"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/logger"
	"github.com/nekogravitycat/rental-booking-backend/internal/property"
	propertyHttp "github.com/nekogravitycat/rental-booking-backend/internal/property/http"
	"github.com/nekogravitycat/rental-booking-backend/internal/report"
	reportHttp "github.com/nekogravitycat/rental-booking-backend/internal/report/http"
	"github.com/nekogravitycat/rental-booking-backend/internal/tracking"
	trackingHttp "github.com/nekogravitycat/rental-booking-backend/internal/tracking/http"
	"github.com/nekogravitycat/rental-booking-backend/internal/user"
	userHttp "github.com/nekogravitycat/rental-booking-backend/internal/user/http"
)

// Config carries every service the router exposes.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	Logger         zerolog.Logger
	Clock          clock.Clock
	MaxUploadBytes int64

	UserService         user.Service
	PropertyService     property.Service
	AvailabilityService availability.Service
	BookingService      booking.Service
	BlockedDateService  blockeddate.Service
	ReportService       report.Service
	TrackingService     tracking.Service
	PhotoService        photo.Service
	PageService         page.Service
	JWTManager          *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - Logger: one structured line per request, logger attached to the request context.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(logger.Middleware(cfg.Logger), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction {
		corsConfig.AllowOrigins = splitOrigins(cfg.ProdOrigins)
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000", // Frontend dev server
			"http://localhost:8081", // Swagger
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	corsConfig.MaxAge = 12 * time.Hour
	if len(corsConfig.AllowOrigins) > 0 {
		r.Use(cors.New(corsConfig))
	}

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// optionalAuthMiddleware: Identifies the caller when a token is present.
	optionalAuthMiddleware := auth.OptionalAuth(cfg.JWTManager)
	// sysAdminMiddleware: Further checks if the authenticated user has System Admin privileges.
	sysAdminMiddleware := RequireSystemAdmin(cfg.UserService)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	propertyHandler := propertyHttp.NewHandler(cfg.PropertyService, cfg.UserService)
	availabilityHandler := availabilityHttp.NewHandler(cfg.AvailabilityService, cfg.PropertyService, cfg.UserService, cfg.Clock)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService, cfg.UserService)
	blockedDateHandler := blockedDateHttp.NewHandler(cfg.BlockedDateService, cfg.UserService)
	reportHandler := reportHttp.NewHandler(cfg.ReportService, cfg.UserService, cfg.Clock)
	trackingHandler := trackingHttp.NewHandler(cfg.TrackingService, cfg.UserService, cfg.Clock)
	photoHandler := photoHttp.NewHandler(cfg.PhotoService, cfg.UserService, cfg.MaxUploadBytes)
	pageHandler := pageHttp.NewHandler(cfg.PageService)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, sysAdminMiddleware)
		propertyHttp.RegisterRoutes(v1, propertyHandler, authMiddleware, optionalAuthMiddleware)
		availabilityHttp.RegisterRoutes(v1, availabilityHandler, optionalAuthMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
		blockedDateHttp.RegisterRoutes(v1, blockedDateHandler, authMiddleware)
		reportHttp.RegisterRoutes(v1, reportHandler, authMiddleware)
		trackingHttp.RegisterRoutes(v1, trackingHandler, authMiddleware, optionalAuthMiddleware)
		photoHttp.RegisterRoutes(v1, photoHandler, authMiddleware, optionalAuthMiddleware)
		pageHttp.RegisterRoutes(v1, pageHandler, authMiddleware, sysAdminMiddleware)
	}

	return r
}

// splitOrigins parses a comma separated origin list.
func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
