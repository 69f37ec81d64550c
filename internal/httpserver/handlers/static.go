package handlers

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/MrSnakeDoc/startpage/internal/httpserver/deps"
	"github.com/MrSnakeDoc/startpage/internal/utils"
)

// Static serves the built front end from d.StaticDir. Unknown paths fall
// back to index.html so client-side routes survive a reload.
func Static(d deps.Deps) http.HandlerFunc {
	root := http.Dir(d.StaticDir)
	files := http.FileServer(root)
	index := filepath.Join(d.StaticDir, "index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		name := path.Clean("/" + r.URL.Path)
		if strings.HasPrefix(name, "/api/") {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}

		f, err := root.Open(name)
		if err == nil {
			info, statErr := f.Stat()
			utils.Close(f)
			if statErr == nil && !info.IsDir() {
				files.ServeHTTP(w, r)
				return
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		if _, err := os.Stat(index); err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFile(w, r, index)
	}
}
