package homepage

import (
	"fmt"

	"github.com/MrSnakeDoc/startpage/internal/domain"
)

// BookmarkGroupIcon is the icon given to categories imported from bookmarks.yaml
const BookmarkGroupIcon = "BookOpen"

// BookmarkMapper converts Homepage bookmark config to categories
type BookmarkMapper struct{}

// NewBookmarkMapper creates a new bookmark mapper
func NewBookmarkMapper() *BookmarkMapper {
	return &BookmarkMapper{}
}

// MapBookmarks converts BookmarksConfig to one category per bookmark group
func (m *BookmarkMapper) MapBookmarks(config BookmarksConfig) ([]domain.Category, error) {
	var categories []domain.Category

	for _, category := range config {
		for categoryName, bookmarkList := range category {
			links := []domain.Link{}

			for _, bookmarkMap := range bookmarkList {
				for bookmarkName, entryList := range bookmarkMap {
					// Each bookmark has a list with a single entry
					if len(entryList) == 0 {
						continue
					}
					entry := entryList[0]

					link, ok := toLink(bookmarkName, entry.Href, entry.Icon, entry.Description)
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
				Title:    categoryName,
				IconName: BookmarkGroupIcon,
				Items:    links,
			})
		}
	}

	if len(categories) == 0 {
		return nil, fmt.Errorf("no valid bookmarks found in config")
	}

	return categories, nil
}
