package importer

import (
	"errors"
	"strings"
	"testing"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const netscapeExport = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
    <DT><H3 ADD_DATE="1700000000">Dev</H3>
    <DL><p>
        <DT><A HREF="https://github.com" ICON="data:image/png;base64,AAAA">GitHub</A>
        <DT><A HREF="https://go.dev/doc/">Go docs</A>
        <DT><H3>Nested</H3>
        <DL><p>
            <DT><A HREF="https://pkg.go.dev">pkg.go.dev</A>
        </DL><p>
    </DL><p>
    <DT><H3>Media</H3>
    <DL><p>
        <DT><A HREF="https://www.bilibili.com">Bilibili</A>
        <DT><A HREF="javascript:alert(1)">Bookmarklet</A>
        <DT><A HREF="place:sort=8">Smart folder</A>
    </DL><p>
    <DT><H3>Empty</H3>
    <DL><p>
    </DL><p>
</DL><p>
`

func TestParseBookmarksNetscape(t *testing.T) {
	cats, err := ParseBookmarks(strings.NewReader(netscapeExport))
	require.NoError(t, err)

	titles := make([]string, 0, len(cats))
	for _, c := range cats {
		titles = append(titles, c.Title)
	}
	assert.Equal(t, []string{"Dev", "Nested", "Media"}, titles)

	dev := cats[0]
	require.Len(t, dev.Items, 2, "nested folder links belong to the nested category")
	assert.Equal(t, "GitHub", dev.Items[0].Title)
	assert.Equal(t, "https://github.com", dev.Items[0].URL)
	assert.Equal(t, "https://favicon.yandex.net/favicon/github.com", dev.Items[0].Icon, "ICON attribute is ignored")
	assert.Equal(t, FolderIcon, dev.IconName)
	assert.NotEmpty(t, dev.ID)
	assert.NotEqual(t, dev.Items[0].ID, dev.Items[1].ID)

	require.Len(t, cats[1].Items, 1)
	assert.Equal(t, "https://pkg.go.dev", cats[1].Items[0].URL)

	require.Len(t, cats[2].Items, 1, "non-http anchors are skipped")
	assert.Equal(t, "Bilibili", cats[2].Items[0].Title)
}

func TestParseBookmarksLinkAfterNestedFolder(t *testing.T) {
	export := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
    <DT><H3>Work</H3>
    <DL><p>
        <DT><A HREF="https://a1.example">a1</A>
        <DT><H3>Sub</H3>
        <DL><p>
            <DT><A HREF="https://b1.example">b1</A>
        </DL><p>
        <DT><A HREF="https://a2.example">a2</A>
    </DL><p>
</DL><p>
`
	cats, err := ParseBookmarks(strings.NewReader(export))
	require.NoError(t, err)
	require.Len(t, cats, 2)

	urls := func(c domain.Category) []string {
		out := make([]string, 0, len(c.Items))
		for _, l := range c.Items {
			out = append(out, l.URL)
		}
		return out
	}
	assert.Equal(t, "Work", cats[0].Title)
	assert.Equal(t, []string{"https://a1.example", "https://a2.example"}, urls(cats[0]))
	assert.Equal(t, "Sub", cats[1].Title)
	assert.Equal(t, []string{"https://b1.example"}, urls(cats[1]))
}

func TestParseBookmarksPlainLists(t *testing.T) {
	page := `<html><body>
<h2>Reading</h2>
<p>Things to read</p>
<ul>
  <li><a href="https://news.ycombinator.com">HN</a></li>
  <li><a href="https://lobste.rs"></a></li>
</ul>
<h2>Tools</h2>
<ol><li><a href="https://regex101.com">regex101</a></li></ol>
</body></html>`

	cats, err := ParseBookmarks(strings.NewReader(page))
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Reading", cats[0].Title)
	require.Len(t, cats[0].Items, 2)
	assert.Equal(t, "lobste.rs", cats[0].Items[1].Title, "empty anchor text falls back to the hostname")
	assert.Equal(t, "Tools", cats[1].Title)
}

func TestParseBookmarksNothingRecognized(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "plain text", body: "just some text"},
		{name: "links without headings", body: `<ul><li><a href="https://a.com">a</a></li></ul>`},
		{name: "heading without list", body: `<h3>Lonely</h3><p><a href="https://a.com">a</a></p>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBookmarks(strings.NewReader(tt.body))
			if !errors.Is(err, domain.ErrParse) {
				t.Errorf("ParseBookmarks() error = %v, want ErrParse", err)
			}
		})
	}
}
