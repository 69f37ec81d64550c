package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// Edit describes one mutation of a Document. Apply is pure: it never
// modifies its argument and returns a new value.
type Edit interface {
	Apply(doc Document) (Document, error)
	Name() string
}

// Direction of a MoveCategory edit.
type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// ParseDirection accepts "up" or "down".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	default:
		return Up, fmt.Errorf("unknown direction %q", s)
	}
}

// AddLink appends a link to a category.
type AddLink struct {
	CategoryID string
	Link       Link
}

func (e AddLink) Name() string { return "add_link" }

func (e AddLink) Apply(doc Document) (Document, error) {
	link, err := prepareLink(e.Link)
	if err != nil {
		return doc, err
	}
	if link.ID == "" {
		link.ID = NewID("l")
	}

	out := doc.Clone().Normalize()
	i := out.CategoryIndex(e.CategoryID)
	if i < 0 {
		return doc, fmt.Errorf("%w: %s", ErrCategoryNotFound, e.CategoryID)
	}
	out.Categories[i].Items = append(out.Categories[i].Items, link)
	return out, nil
}

// EditLink replaces the link with the same id in a category.
type EditLink struct {
	CategoryID string
	Link       Link
}

func (e EditLink) Name() string { return "edit_link" }

func (e EditLink) Apply(doc Document) (Document, error) {
	link, err := prepareLink(e.Link)
	if err != nil {
		return doc, err
	}

	out := doc.Clone().Normalize()
	i := out.CategoryIndex(e.CategoryID)
	if i < 0 {
		return doc, fmt.Errorf("%w: %s", ErrCategoryNotFound, e.CategoryID)
	}
	items := out.Categories[i].Items
	for j := range items {
		if items[j].ID == link.ID {
			items[j] = link
			return out, nil
		}
	}
	return doc, fmt.Errorf("%w: %s", ErrLinkNotFound, link.ID)
}

// DeleteLink removes a link from a category.
type DeleteLink struct {
	CategoryID string
	LinkID     string
}

func (e DeleteLink) Name() string { return "delete_link" }

func (e DeleteLink) Apply(doc Document) (Document, error) {
	out := doc.Clone().Normalize()
	i := out.CategoryIndex(e.CategoryID)
	if i < 0 {
		return doc, fmt.Errorf("%w: %s", ErrCategoryNotFound, e.CategoryID)
	}
	items := out.Categories[i].Items
	kept := make([]Link, 0, len(items))
	for _, l := range items {
		if l.ID != e.LinkID {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(items) {
		return doc, fmt.Errorf("%w: %s", ErrLinkNotFound, e.LinkID)
	}
	out.Categories[i].Items = kept
	return out, nil
}

// AddCategory appends an empty category.
type AddCategory struct {
	ID       string // optional, generated when empty
	Title    string
	IconName string
}

func (e AddCategory) Name() string { return "add_category" }

func (e AddCategory) Apply(doc Document) (Document, error) {
	title := strings.TrimSpace(e.Title)
	if title == "" {
		return doc, ErrEmptyTitle
	}
	out := doc.Clone().Normalize()
	id := e.ID
	if id == "" || out.CategoryIndex(id) >= 0 {
		id = NewID("c")
	}
	out.Categories = append(out.Categories, Category{
		ID:       id,
		Title:    title,
		IconName: ResolveIcon(e.IconName),
		Items:    []Link{},
	})
	return out, nil
}

// EditCategory changes the title and icon of a category, keeping its links.
type EditCategory struct {
	ID       string
	Title    string
	IconName string
}

func (e EditCategory) Name() string { return "edit_category" }

func (e EditCategory) Apply(doc Document) (Document, error) {
	title := strings.TrimSpace(e.Title)
	if title == "" {
		return doc, ErrEmptyTitle
	}
	out := doc.Clone().Normalize()
	i := out.CategoryIndex(e.ID)
	if i < 0 {
		return doc, fmt.Errorf("%w: %s", ErrCategoryNotFound, e.ID)
	}
	out.Categories[i].Title = title
	out.Categories[i].IconName = ResolveIcon(e.IconName)
	return out, nil
}

// DeleteCategory removes a category and all of its links.
type DeleteCategory struct {
	ID string
}

func (e DeleteCategory) Name() string { return "delete_category" }

func (e DeleteCategory) Apply(doc Document) (Document, error) {
	out := doc.Clone().Normalize()
	i := out.CategoryIndex(e.ID)
	if i < 0 {
		return doc, fmt.Errorf("%w: %s", ErrCategoryNotFound, e.ID)
	}
	out.Categories = append(out.Categories[:i], out.Categories[i+1:]...)
	return out, nil
}

// MoveCategory swaps the category at Index with its neighbour. Moving the
// first category up or the last one down is a no-op.
type MoveCategory struct {
	Index     int
	Direction Direction
}

func (e MoveCategory) Name() string { return "move_category" }

func (e MoveCategory) Apply(doc Document) (Document, error) {
	out := doc.Clone().Normalize()
	n := len(out.Categories)
	if e.Index < 0 || e.Index >= n {
		return doc, fmt.Errorf("%w: index %d", ErrCategoryNotFound, e.Index)
	}
	target := e.Index + 1
	if e.Direction == Up {
		target = e.Index - 1
	}
	if target < 0 || target >= n {
		return out, nil
	}
	out.Categories[e.Index], out.Categories[target] = out.Categories[target], out.Categories[e.Index]
	return out, nil
}

// ChangeCredential sets a new plaintext password. The store hashes it on write.
type ChangeCredential struct {
	Password string
}

func (e ChangeCredential) Name() string { return "change_credential" }

func (e ChangeCredential) Apply(doc Document) (Document, error) {
	if len(e.Password) < MinPasswordLength {
		return doc, ErrCredentialTooShort
	}
	if len(e.Password) > MaxPasswordLength {
		return doc, ErrCredentialTooLong
	}
	out := doc.Clone().Normalize()
	out.Credential = PlainCredential(e.Password)
	return out, nil
}

// ReplaceAll swaps the whole document, credential included.
type ReplaceAll struct {
	Document Document
}

func (e ReplaceAll) Name() string { return "replace_all" }

func (e ReplaceAll) Apply(Document) (Document, error) {
	return e.Document.Clone().Normalize(), nil
}

// AppendImported appends imported categories after the existing ones.
// Colliding or missing category ids are replaced with fresh ones.
type AppendImported struct {
	Categories []Category
}

func (e AppendImported) Name() string { return "append_imported" }

func (e AppendImported) Apply(doc Document) (Document, error) {
	out := doc.Clone().Normalize()
	for _, c := range e.Categories {
		c = c.clone()
		if c.ID == "" || out.CategoryIndex(c.ID) >= 0 {
			c.ID = NewID("c")
		}
		c.IconName = ResolveIcon(c.IconName)
		if c.Items == nil {
			c.Items = []Link{}
		}
		out.Categories = append(out.Categories, c)
	}
	return out, nil
}

// prepareLink validates a link and fills its icon from the favicon service.
func prepareLink(l Link) (Link, error) {
	l.Title = strings.TrimSpace(l.Title)
	l.URL = strings.TrimSpace(l.URL)
	if l.Title == "" {
		return l, ErrEmptyTitle
	}
	u, err := url.Parse(l.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return l, fmt.Errorf("%w: %q", ErrInvalidURL, l.URL)
	}
	if strings.TrimSpace(l.Icon) == "" {
		l.Icon = FaviconURL(l.URL)
	}
	return l, nil
}
