package widgets

import (
	"context"
	"fmt"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	redisstore "github.com/MrSnakeDoc/startpage/internal/store/redis"
)

// GeoResult is the ip-api.com payload, proxied as-is by GET /api/ip.
type GeoResult struct {
	Status      string  `json:"status"`
	Message     string  `json:"message,omitempty"`
	Country     string  `json:"country,omitempty"`
	CountryCode string  `json:"countryCode,omitempty"`
	Region      string  `json:"region,omitempty"`
	RegionName  string  `json:"regionName,omitempty"`
	City        string  `json:"city,omitempty"`
	Zip         string  `json:"zip,omitempty"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Timezone    string  `json:"timezone,omitempty"`
	ISP         string  `json:"isp,omitempty"`
	Org         string  `json:"org,omitempty"`
	AS          string  `json:"as,omitempty"`
	Query       string  `json:"query,omitempty"`
}

// GeoClient resolves an IP address to a location.
type GeoClient struct {
	baseURL string
	lang    string
	client  *http.Client
	cache   Cache
	ttl     time.Duration
}

// NewGeoClient creates a client for an ip-api.com compatible endpoint.
func NewGeoClient(baseURL string, client *http.Client, cache Cache, ttl time.Duration) *GeoClient {
	return &GeoClient{
		baseURL: strings.TrimSuffix(baseURL, "/") + "/",
		lang:    "zh-CN",
		client:  client,
		cache:   cache,
		ttl:     ttl,
	}
}

// Locate looks up ip. Private, loopback and unparsable addresses are not
// sent upstream: the lookup then resolves the server's own public address.
// A "fail" status is returned as an error wrapping domain.ErrTransport.
func (g *GeoClient) Locate(ctx context.Context, ip string) (*GeoResult, error) {
	ip = publicIP(ip)

	key := "self"
	if ip != "" {
		key = ip
	}

	var result GeoResult
	err := cached(ctx, g.cache, redisstore.WidgetKey("geo", key), g.ttl, &result, func() error {
		if err := getJSON(ctx, g.client, g.lookupURL(ip), &result); err != nil {
			return err
		}
		if result.Status == "fail" {
			return fmt.Errorf("%w: geolocation failed: %s", domain.ErrTransport, result.Message)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (g *GeoClient) lookupURL(ip string) string {
	q := url.Values{}
	q.Set("lang", g.lang)
	return g.baseURL + url.PathEscape(ip) + "?" + q.Encode()
}

func publicIP(ip string) string {
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return ""
	}
	if addr.IsPrivate() || addr.IsLoopback() || addr.IsUnspecified() || addr.IsLinkLocalUnicast() {
		return ""
	}
	return addr.Unmap().String()
}
