package homepage

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/startpage/internal/domain"
)

// GroupIcon is the icon given to categories imported from services.yaml
const GroupIcon = "Cloud"

// Mapper converts Homepage services groups to categories
type Mapper struct{}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapServices converts Homepage ServicesConfig to one category per group
func (m *Mapper) MapServices(config ServicesConfig) ([]domain.Category, error) {
	var categories []domain.Category

	// Iterate through groups
	for _, groupMap := range config {
		for groupName, servicesList := range groupMap {
			links := []domain.Link{}

			// Iterate through services in this group
			for _, serviceMap := range servicesList {
				for serviceName, props := range serviceMap {
					link, ok := toLink(serviceName, props.Href, props.Icon, props.Description)
					if !ok {
						continue
					}
					links = append(links, link)
				}
			}

			if len(links) == 0 {
				continue
			}
			categories = append(categories, domain.Category{
				ID:       domain.NewID("c"),
				Title:    groupName,
				IconName: GroupIcon,
				Items:    links,
			})
		}
	}

	if len(categories) == 0 {
		return nil, fmt.Errorf("no valid services found in homepage config")
	}

	return categories, nil
}

// toLink builds a link from a Homepage entry. Entries whose href has no
// http(s) scheme or no hostname are skipped.
func toLink(name, href, icon, description string) (domain.Link, bool) {
	href = strings.TrimSpace(href)
	parsedURL, err := url.Parse(href)
	if err != nil || parsedURL.Hostname() == "" {
		return domain.Link{}, false
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return domain.Link{}, false
	}

	title := strings.TrimSpace(name)
	if title == "" {
		title = extractServiceName(parsedURL.Hostname())
	}

	return domain.Link{
		ID:          domain.NewID("l"),
		Title:       title,
		URL:         href,
		Icon:        resolveIcon(icon, href),
		Description: strings.TrimSpace(description),
	}, true
}

// resolveIcon keeps absolute icon URLs. Homepage icon names such as
// "adguard-home.svg" or "mdi-server" only resolve inside Homepage, so
// those fall back to the favicon of the link.
func resolveIcon(icon, href string) string {
	if strings.HasPrefix(icon, "http://") || strings.HasPrefix(icon, "https://") {
		return icon
	}
	return domain.FaviconURL(href)
}

// extractServiceName extracts the first DNS label as service name
// Example: "jellyfin.domain.ext" -> "jellyfin"
func extractServiceName(hostname string) string {
	parts := strings.Split(hostname, ".")
	if len(parts) > 0 {
		return parts[0]
	}
	return hostname
}
