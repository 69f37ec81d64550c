package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Document is the single persisted aggregate: the admin credential and the
// ordered categories shown on the start page.
type Document struct {
	Credential Credential `json:"adminPassword,omitzero"`
	Categories []Category `json:"categories"`
}

// Category groups links under a title. Its position in Document.Categories
// is the display order.
type Category struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	IconName string `json:"iconName"`
	Items    []Link `json:"items"`
}

// Link is a single bookmark. Items keep append order.
type Link struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
}

// Seed returns a fresh copy of the document served when nothing is persisted.
func Seed() Document {
	return Document{
		Credential: PlainCredential(DefaultPassword),
		Categories: []Category{
			{
				ID:       "c1",
				Title:    "日常办公",
				IconName: "Coffee",
				Items: []Link{
					{ID: "l1", Title: "Gmail", URL: "https://mail.google.com", Icon: FaviconURL("https://mail.google.com")},
					{ID: "l2", Title: "Bilibili", URL: "https://www.bilibili.com", Icon: FaviconURL("https://www.bilibili.com")},
				},
			},
		},
	}
}

// NewID returns an opaque unique id carrying prefix ("c" for categories, "l" for links).
func NewID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Normalize replaces nil category and item slices with empty ones.
func (d Document) Normalize() Document {
	if d.Categories == nil {
		d.Categories = []Category{}
	}
	for i := range d.Categories {
		if d.Categories[i].Items == nil {
			d.Categories[i].Items = []Link{}
		}
	}
	return d
}

// Clone returns a deep copy so edits never alias another document's slices.
func (d Document) Clone() Document {
	out := Document{Credential: d.Credential}
	if d.Categories == nil {
		return out
	}
	out.Categories = make([]Category, len(d.Categories))
	for i, c := range d.Categories {
		out.Categories[i] = c.clone()
	}
	return out
}

func (c Category) clone() Category {
	if c.Items != nil {
		items := make([]Link, len(c.Items))
		copy(items, c.Items)
		c.Items = items
	}
	return c
}

// CategoryIndex returns the position of the category with id, or -1.
func (d Document) CategoryIndex(id string) int {
	for i, c := range d.Categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// LinkCount returns the number of links across all categories.
func (d Document) LinkCount() int {
	n := 0
	for _, c := range d.Categories {
		n += len(c.Items)
	}
	return n
}

// BackupPrefix and BackupExt frame every export and snapshot file name.
const (
	BackupPrefix = "flatnav-backup-"
	BackupExt    = ".json"
)

// BackupFilename names the export of a document taken at now (UTC day).
func BackupFilename(now time.Time) string {
	return BackupPrefix + now.UTC().Format("2006-01-02") + BackupExt
}

// MarshalIndent renders the document the way it is persisted and exported.
func (d Document) MarshalIndent() ([]byte, error) {
	data, err := json.MarshalIndent(d.Normalize(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return data, nil
}

// ParseCandidate decodes a document and checks that "categories" is present
// and array-typed. Any shape failure is reported as ErrInvalidDocument.
func ParseCandidate(data []byte) (*Document, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	raw, ok := fields["categories"]
	if !ok {
		return nil, fmt.Errorf("%w: missing categories", ErrInvalidDocument)
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: categories must be an array", ErrInvalidDocument)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	doc = doc.Normalize()
	return &doc, nil
}
