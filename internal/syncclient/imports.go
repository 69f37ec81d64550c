package syncclient

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/importer"
	"github.com/MrSnakeDoc/startpage/internal/sources/homepage"
)

// ParseImport turns an import file into the edit it stands for:
// JSON with array categories -> domain.ReplaceAll, any other JSON -> error,
// anything else is read as bookmark HTML -> domain.AppendImported.
func ParseImport(data []byte) (domain.Edit, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty file", domain.ErrParse)
	}

	if json.Valid(trimmed) {
		doc, err := domain.ParseCandidate(trimmed)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
		}
		return domain.ReplaceAll{Document: *doc}, nil
	}

	cats, err := importer.ParseBookmarks(bytes.NewReader(trimmed))
	if err != nil {
		return nil, err
	}
	return domain.AppendImported{Categories: cats}, nil
}

// ParseHomepage reads a Homepage YAML file into an append edit.
func ParseHomepage(data []byte) (domain.AppendImported, error) {
	cats, err := homepage.Import(data)
	if err != nil {
		return domain.AppendImported{}, err
	}
	return domain.AppendImported{Categories: cats}, nil
}
