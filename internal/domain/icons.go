package domain

import "net/url"

// DefaultIcon is used for unknown or empty icon names.
const DefaultIcon = "LayoutGrid"

// FaviconService is the lookup service used to derive a link icon from its hostname.
const FaviconService = "https://favicon.yandex.net/favicon/"

// Icons is the fixed registry of category icon names understood by the front end.
var Icons = []string{
	"LayoutGrid",
	"Code",
	"Palette",
	"BookOpen",
	"Coffee",
	"Briefcase",
	"Music",
	"Video",
	"ShoppingBag",
	"Heart",
	"Star",
	"Settings",
	"Home",
	"Gamepad2",
	"Folder",
	"Cloud",
	"Zap",
	"Globe",
}

var iconSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Icons))
	for _, name := range Icons {
		m[name] = struct{}{}
	}
	return m
}()

// ResolveIcon returns name when it is registered, DefaultIcon otherwise.
func ResolveIcon(name string) string {
	if _, ok := iconSet[name]; ok {
		return name
	}
	return DefaultIcon
}

// FaviconURL derives an icon URL from the hostname of rawURL.
// It returns "" when rawURL has no hostname.
func FaviconURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return FaviconService + u.Hostname()
}
