package deps

import (
	"time"

	"github.com/vitrinelabs/vitrine/internal/cache"
	"github.com/vitrinelabs/vitrine/internal/collections"
	"github.com/vitrinelabs/vitrine/internal/index"
	"github.com/vitrinelabs/vitrine/internal/logger"
	"github.com/vitrinelabs/vitrine/internal/sources/gallery"
	redisstore "github.com/vitrinelabs/vitrine/internal/store/redis"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	TrustProxy     bool     // true if running behind a trusted reverse proxy (e.g., cloudflared)
	AllowedCIDRS   []string // IPs allowed to access admin endpoints (refresh, infra)
	AllowedOrigins []string // CORS origins for the browser front end

	Listing        *index.ListingCache // in-memory full-listing cache
	DetailCache    *cache.DetailCache  // per-record detail cache
	Store          *redisstore.Store   // durable tier, nil when redis is disabled
	Gallery        *gallery.Client     // remote gallery API client
	Collections    *collections.Store  // user collections with optimistic mutation
	RefreshTrigger chan struct{}       // feeds the revalidator's manual trigger
	SyncInFlight   func() bool         // reports whether a listing sync is currently running

	PageSize int // default listing page size when per_page is absent
	// Add more shared deps later (metrics, etc.)
}
