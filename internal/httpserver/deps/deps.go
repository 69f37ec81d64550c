package deps

import (
	"time"

	"github.com/MrSnakeDoc/startpage/internal/docstore"
	"github.com/MrSnakeDoc/startpage/internal/logger"
	"github.com/MrSnakeDoc/startpage/internal/scheduler"
	redisstore "github.com/MrSnakeDoc/startpage/internal/store/redis"
	"github.com/MrSnakeDoc/startpage/internal/widgets"
)

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	TimeNow       func() time.Time  // for testing, defaults to time.Now
	AllowedHosts  []string          // Host headers allowed to access /api
	AllowedCIDRS  []string          // IPs allowed to access infra endpoints
	TrustProxy    bool              // true if running behind a trusted reverse proxy (e.g., cloudflared)
	Store         *docstore.Store   // the persisted document
	Widgets       *widgets.Service  // weather, air quality and geolocation
	Cache         *redisstore.Store // nil when redis is disabled or unreachable
	Backup        *scheduler.Backup // nil when backups are disabled
	BackupTrigger chan struct{}     // manual backup trigger (nil if backups disabled)
	MaxBodyBytes  int64             // max size of a POST /api/data body
	StaticDir     string            // built front end, empty to serve the API only
}

// Now returns the configured clock.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
