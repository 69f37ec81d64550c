package cmd

import (
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/startpage/internal/config"
	"github.com/MrSnakeDoc/startpage/internal/docstore"
	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/httpserver"
	"github.com/MrSnakeDoc/startpage/internal/httpserver/deps"
	"github.com/MrSnakeDoc/startpage/internal/logger"
	"github.com/MrSnakeDoc/startpage/internal/widgets"
)

func startServer(t *testing.T) *docstore.Store {
	t.Helper()
	log := logger.Nop()
	store := docstore.New(filepath.Join(t.TempDir(), "data.json"), log)
	cfg := &config.Config{RequestTimeout: 5 * time.Second, UpstreamTimeout: time.Second}
	d := deps.Deps{
		Logger:       log,
		StartTime:    time.Now(),
		Store:        store,
		Widgets:      widgets.NewServiceFromConfig(cfg, nil, log),
		MaxBodyBytes: 5 << 20,
	}
	srv := httptest.NewServer(httpserver.NewRouter(cfg, log, d))
	t.Cleanup(srv.Close)
	t.Setenv("STARTPAGE_SERVER", srv.URL)
	serverURL = srv.URL
	return store
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(append([]string{"--server", serverURL}, args...))
	return rootCmd.Execute()
}

func TestCategoryAddAndMove(t *testing.T) {
	store := startServer(t)

	require.NoError(t, run(t, "--password", domain.DefaultPassword, "category", "add", "Media", "--icon", "Video"))

	doc, err := store.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Categories, 2)
	assert.Equal(t, "Media", doc.Categories[1].Title)
	assert.Equal(t, "Video", doc.Categories[1].IconName)

	require.NoError(t, run(t, "--password", domain.DefaultPassword, "category", "move", doc.Categories[1].ID, "up"))
	doc, err = store.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Media", doc.Categories[0].Title)
}

func TestEditWithWrongPasswordIsRefused(t *testing.T) {
	store := startServer(t)

	err := run(t, "--password", "wrong", "link", "delete", "c1", "l1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	doc, err := store.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, doc.LinkCount())
}

func writeBackup(t *testing.T, titles ...string) string {
	t.Helper()
	doc := domain.Document{Categories: []domain.Category{}}
	for i, title := range titles {
		doc.Categories = append(doc.Categories, domain.Category{ID: fmt.Sprintf("r%d", i), Title: title, IconName: "Folder", Items: []domain.Link{}})
	}
	data, err := doc.MarshalIndent()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestImportReplaceNeedsConfirmation(t *testing.T) {
	store := startServer(t)
	backup := writeBackup(t, "Restored A", "Restored B")
	importYes = false
	t.Cleanup(func() {
		importYes = false
		rootCmd.SetIn(nil)
	})

	for _, answer := range []string{"n\n", "", "maybe\n"} {
		rootCmd.SetIn(strings.NewReader(answer))
		err := run(t, "--password", domain.DefaultPassword, "import", backup)
		assert.ErrorIs(t, err, errImportDeclined, "answer %q", answer)
	}

	doc, err := store.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Categories, 1, "declined import leaves the document alone")
	assert.Equal(t, domain.Seed().Categories[0].Title, doc.Categories[0].Title)

	rootCmd.SetIn(strings.NewReader("y\n"))
	require.NoError(t, run(t, "--password", domain.DefaultPassword, "import", backup))
	doc, err = store.Read(context.Background())
	require.NoError(t, err)
	assert.Len(t, doc.Categories, 2)
}

func TestImportReplaceWithYesFlag(t *testing.T) {
	store := startServer(t)
	backup := writeBackup(t, "Only")
	t.Cleanup(func() { importYes = false })
	rootCmd.SetIn(strings.NewReader(""))
	t.Cleanup(func() { rootCmd.SetIn(nil) })

	require.NoError(t, run(t, "--password", domain.DefaultPassword, "import", "--yes", backup))

	doc, err := store.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Categories, 1)
	assert.Equal(t, "Only", doc.Categories[0].Title)
}

func TestExportWritesBackup(t *testing.T) {
	startServer(t)
	out := filepath.Join(t.TempDir(), "backup.json")

	require.NoError(t, run(t, "export", "--output", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	doc, err := domain.ParseCandidate(data)
	require.NoError(t, err)
	assert.Len(t, doc.Categories, 1)
}
