package homepage

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"gopkg.in/yaml.v3"
)

var templateVariable = regexp.MustCompile(`\{\{[^}]+\}\}`)

// ParseServices parses the content of a services.yaml file
func ParseServices(data []byte) (ServicesConfig, error) {
	var config ServicesConfig
	if err := yaml.Unmarshal(stripTemplateVariables(data), &config); err != nil {
		return nil, fmt.Errorf("failed to parse services yaml: %w", err)
	}
	return config, nil
}

// ParseBookmarks parses the content of a bookmarks.yaml file
func ParseBookmarks(data []byte) (BookmarksConfig, error) {
	var config BookmarksConfig
	if err := yaml.Unmarshal(stripTemplateVariables(data), &config); err != nil {
		return nil, fmt.Errorf("failed to parse bookmarks yaml: %w", err)
	}
	return config, nil
}

// Import accepts either file format and returns the categories it describes.
// Both layouts are lists of single-key group maps; they differ one level
// down, so at most one of them decodes.
func Import(data []byte) ([]domain.Category, error) {
	importers := []func([]byte) ([]domain.Category, error){
		func(b []byte) ([]domain.Category, error) {
			config, err := ParseServices(b)
			if err != nil {
				return nil, err
			}
			return NewMapper().MapServices(config)
		},
		func(b []byte) ([]domain.Category, error) {
			config, err := ParseBookmarks(b)
			if err != nil {
				return nil, err
			}
			return NewBookmarkMapper().MapBookmarks(config)
		},
	}

	var errs []error
	for _, importFn := range importers {
		cats, err := importFn(data)
		if err == nil {
			return cats, nil
		}
		errs = append(errs, err)
	}

	return nil, fmt.Errorf("%w: %w", domain.ErrParse, errors.Join(errs...))
}

// stripTemplateVariables removes Homepage template variables from YAML
// Example: {{HOMEPAGE_VAR_ADGUARD_USER}} -> ""
func stripTemplateVariables(data []byte) []byte {
	return templateVariable.ReplaceAll(data, []byte(`""`))
}
