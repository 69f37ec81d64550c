// Package importer turns browser bookmark exports into start page categories.
package importer

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// FolderIcon is the icon given to imported categories.
const FolderIcon = "Folder"

// ParseBookmarks reads a bookmark HTML export (the Netscape format every
// browser writes, or any page of headings followed by link lists).
//
// Each heading is a category title and claims the first dl/ul/ol that
// follows it. An anchor belongs to the heading whose list is its closest
// enclosing claimed list, so nested folders become categories of their own
// and links listed after a nested folder stay with the parent. Headings
// that end up with no http(s) link are dropped.
func ParseBookmarks(r io.Reader) ([]domain.Category, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	var nodes []*html.Node
	flatten(doc, &nodes)

	type folder struct {
		heading *html.Node
		list    *html.Node
	}
	var folders []folder
	claimed := make(map[*html.Node]*html.Node) // list -> heading
	for i, n := range nodes {
		if !isHeading(n) || collectText(n) == "" {
			continue
		}
		list := followingList(nodes[i+1:], n)
		if list == nil {
			continue
		}
		if _, taken := claimed[list]; taken {
			continue
		}
		claimed[list] = n
		folders = append(folders, folder{heading: n, list: list})
	}

	var categories []domain.Category
	for _, f := range folders {
		links := []domain.Link{}
		for _, a := range anchorsIn(f.list) {
			if ownerOf(a, claimed) != f.heading {
				continue
			}
			if link, ok := toLink(a); ok {
				links = append(links, link)
			}
		}
		if len(links) == 0 {
			continue
		}

		categories = append(categories, domain.Category{
			ID:       domain.NewID("c"),
			Title:    collectText(f.heading),
			IconName: FolderIcon,
			Items:    links,
		})
	}

	if len(categories) == 0 {
		return nil, fmt.Errorf("%w: no bookmark folders found", domain.ErrParse)
	}
	return categories, nil
}

// flatten lists element nodes in document order.
func flatten(n *html.Node, out *[]*html.Node) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Noscript:
			return
		}
		*out = append(*out, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		flatten(c, out)
	}
}

func isHeading(n *html.Node) bool {
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}

func isList(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Dl, atom.Ul, atom.Ol:
		return true
	}
	return false
}

// followingList returns the first list after heading, or nil when another
// heading comes first.
func followingList(rest []*html.Node, heading *html.Node) *html.Node {
	for _, n := range rest {
		if isDescendant(n, heading) {
			continue
		}
		if isHeading(n) {
			return nil
		}
		if isList(n) {
			return n
		}
	}
	return nil
}

// ownerOf returns the heading of the closest claimed list enclosing a.
func ownerOf(a *html.Node, claimed map[*html.Node]*html.Node) *html.Node {
	for p := a.Parent; p != nil; p = p.Parent {
		if heading, ok := claimed[p]; ok {
			return heading
		}
	}
	return nil
}

func isDescendant(n, ancestor *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

func anchorsIn(n *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func toLink(a *html.Node) (domain.Link, bool) {
	href := strings.TrimSpace(attr(a, "href"))
	u, err := url.Parse(href)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.Link{}, false
	}

	title := collectText(a)
	if title == "" {
		title = u.Hostname()
	}

	return domain.Link{
		ID:    domain.NewID("l"),
		Title: title,
		URL:   href,
		Icon:  domain.FaviconURL(href),
	}, true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// collectText joins the trimmed text nodes of a subtree with single spaces.
func collectText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
