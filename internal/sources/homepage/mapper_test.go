package homepage

import (
	"testing"
)

func TestMapperMapServices(t *testing.T) {
	config := ServicesConfig{
		{
			"Infrastructure": []map[string]ServiceProps{
				{
					"AdGuard Home": {
						Icon:        "adguard-home.svg",
						Href:        "https://adguard.domain.ext",
						Description: "Network-wide ads blocking",
					},
				},
				{
					"Traefik": {
						Icon:        "https://cdn.example.com/traefik.png",
						Href:        "https://traefik.domain.ext",
						Description: "Cloud Native Application Proxy",
					},
				},
			},
		},
	}

	mapper := NewMapper()
	categories, err := mapper.MapServices(config)
	if err != nil {
		t.Fatalf("MapServices() error = %v", err)
	}

	if len(categories) != 1 {
		t.Fatalf("MapServices() returned %v categories, want 1", len(categories))
	}

	items := categories[0].Items
	if len(items) != 2 {
		t.Fatalf("MapServices() returned %v links, want 2", len(items))
	}
	if items[0].Title != "AdGuard Home" || items[0].Description != "Network-wide ads blocking" {
		t.Errorf("first link = %+v", items[0])
	}
	if items[0].Icon != "https://favicon.yandex.net/favicon/adguard.domain.ext" {
		t.Errorf("homepage icon names should fall back to the favicon, got %q", items[0].Icon)
	}
	if items[1].Icon != "https://cdn.example.com/traefik.png" {
		t.Errorf("absolute icon URLs should be kept, got %q", items[1].Icon)
	}
}

func TestMapperMapServicesEmptyConfig(t *testing.T) {
	config := ServicesConfig{}
	mapper := NewMapper()
	categories, err := mapper.MapServices(config)

	// Empty config should return an error
	if err == nil {
		t.Error("MapServices() with empty config should return error")
	}

	if categories != nil {
		t.Errorf("MapServices() with empty config should return nil categories, got %v", len(categories))
	}
}

func TestMapperMapServicesInvalidURL(t *testing.T) {
	config := ServicesConfig{
		{
			"Test": []map[string]ServiceProps{
				{
					"Invalid Service": {
						Icon:        "test.svg",
						Href:        "not-a-valid-url",
						Description: "Invalid URL",
					},
				},
				{
					"Stripped Template": {
						Href: "",
					},
				},
			},
		},
	}

	mapper := NewMapper()
	categories, err := mapper.MapServices(config)

	// Should return error if no valid services
	if err == nil {
		t.Error("MapServices() should return error when no valid services found")
	}

	if categories != nil {
		t.Errorf("MapServices() should return nil when no valid services, got %v categories", len(categories))
	}
}

func TestBookmarkMapperMapBookmarks(t *testing.T) {
	config := BookmarksConfig{
		{
			"Developer": []map[string][]BookmarkEntry{
				{"Github": {{Abbr: "GH", Href: "https://github.com/"}}},
				{"Empty": {}},
				{"Broken": {{Abbr: "BR", Href: "ftp://files.example.com"}}},
			},
		},
	}

	categories, err := NewBookmarkMapper().MapBookmarks(config)
	if err != nil {
		t.Fatalf("MapBookmarks() error = %v", err)
	}
	if len(categories) != 1 || len(categories[0].Items) != 1 {
		t.Fatalf("MapBookmarks() = %+v, want one category with one link", categories)
	}
	link := categories[0].Items[0]
	if link.Title != "Github" || link.URL != "https://github.com/" {
		t.Errorf("link = %+v", link)
	}
	if link.ID == "" || categories[0].ID == "" {
		t.Error("imported entries need ids")
	}
}
