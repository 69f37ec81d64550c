// Package syncclient keeps a local copy of the document and pushes every
// mutation back to the store, rolling back to the stored state on failure.
package syncclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/logger"
)

// SaveError reports a mutation that was applied locally but rejected by
// the store. The local state has been reloaded when it is returned.
type SaveError struct {
	Edit string
	Err  error
}

func (e *SaveError) Error() string { return fmt.Sprintf("save %s: %v", e.Edit, e.Err) }
func (e *SaveError) Unwrap() error { return e.Err }

// Session is the client state: the local document, admin mode and the
// password used to authorize pushes. Apply is the only mutation path.
type Session struct {
	remote Remote
	log    logger.Logger

	applyMu sync.Mutex // serializes Apply

	mu       sync.RWMutex
	doc      domain.Document
	admin    bool
	password string
}

// New creates a session holding the seed until Load is called.
func New(remote Remote, log logger.Logger) *Session {
	return &Session{
		remote: remote,
		log:    log.With(logger.String("component", "syncclient")),
		doc:    domain.Seed(),
	}
}

// Load fetches the stored document. On failure the session holds the seed
// and the error is returned for reporting only: the session stays usable.
func (s *Session) Load(ctx context.Context) error {
	doc, err := s.remote.Fetch(ctx)
	if err != nil {
		s.log.Warn("failed to load document, using seed", logger.Error(err))
		s.setDocument(domain.Seed())
		return err
	}
	s.setDocument(doc.Normalize())
	return nil
}

// Document returns a copy of the local document.
func (s *Session) Document() domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

func (s *Session) setDocument(doc domain.Document) {
	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
}

// Login enters admin mode when password matches the local credential.
func (s *Session) Login(password string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred := s.doc.Credential
	if cred.IsZero() {
		cred = domain.PlainCredential(domain.DefaultPassword)
	}
	if !cred.Verify(password) {
		return false
	}
	s.admin = true
	s.password = password
	return true
}

// Logout leaves admin mode and forgets the password.
func (s *Session) Logout() {
	s.mu.Lock()
	s.admin = false
	s.password = ""
	s.mu.Unlock()
}

// IsAdmin reports whether Login succeeded.
func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.admin
}

// Apply computes edit against the local document, adopts the result and
// pushes it. A push failure reloads the stored document (or the seed when
// that fails too) and returns a *SaveError. Edit validation errors are
// returned as-is with no state change.
func (s *Session) Apply(ctx context.Context, edit domain.Edit) error {
	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	s.mu.RLock()
	admin, password, current := s.admin, s.password, s.doc
	s.mu.RUnlock()

	if !admin {
		return domain.ErrUnauthorized
	}

	next, err := edit.Apply(current)
	if err != nil {
		return err
	}
	s.setDocument(next)

	if err := s.remote.Push(ctx, next, password); err != nil {
		s.log.Warn("push rejected, rolling back",
			logger.String("edit", edit.Name()),
			logger.Error(err))
		_ = s.Load(ctx)
		return &SaveError{Edit: edit.Name(), Err: err}
	}

	s.log.Debug("edit saved", logger.String("edit", edit.Name()))
	return nil
}

// ChangePassword pushes a new credential. The session keeps authorizing
// with the old password until the push succeeds.
func (s *Session) ChangePassword(ctx context.Context, newPassword string) error {
	if err := s.Apply(ctx, domain.ChangeCredential{Password: newPassword}); err != nil {
		return err
	}
	s.mu.Lock()
	s.password = newPassword
	s.mu.Unlock()
	return nil
}

// ImportMode says how an import changed the document.
type ImportMode string

const (
	ImportReplaced ImportMode = "replaced"
	ImportAppended ImportMode = "appended"
)

// ImportResult summarizes an import.
type ImportResult struct {
	Mode       ImportMode
	Categories int // categories read from the file
	Links      int // links read from the file
}

// Import applies a backup or bookmark file. A JSON document replaces
// everything, a bookmark HTML export is appended. Unrecognized input
// returns an error wrapping domain.ErrParse and nothing is applied.
func (s *Session) Import(ctx context.Context, data []byte) (ImportResult, error) {
	edit, err := ParseImport(data)
	if err != nil {
		return ImportResult{}, err
	}

	var result ImportResult
	switch e := edit.(type) {
	case domain.ReplaceAll:
		if e.Document.Credential.IsZero() {
			e.Document.Credential = s.Document().Credential
		}
		edit = e
		result = ImportResult{Mode: ImportReplaced, Categories: len(e.Document.Categories), Links: e.Document.LinkCount()}
	case domain.AppendImported:
		result = ImportResult{Mode: ImportAppended, Categories: len(e.Categories), Links: domain.Document{Categories: e.Categories}.LinkCount()}
	}

	if err := s.Apply(ctx, edit); err != nil {
		return ImportResult{}, err
	}
	return result, nil
}

// ImportHomepage appends the groups of a Homepage services.yaml or bookmarks.yaml.
func (s *Session) ImportHomepage(ctx context.Context, data []byte) (ImportResult, error) {
	edit, err := ParseHomepage(data)
	if err != nil {
		return ImportResult{}, err
	}
	if err := s.Apply(ctx, edit); err != nil {
		return ImportResult{}, err
	}
	return ImportResult{
		Mode:       ImportAppended,
		Categories: len(edit.Categories),
		Links:      domain.Document{Categories: edit.Categories}.LinkCount(),
	}, nil
}

// Export writes the local document as indented JSON.
func (s *Session) Export(w io.Writer) error {
	data, err := s.Document().MarshalIndent()
	if err != nil {
		return err
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// ExportFilename is the suggested backup file name for now.
func ExportFilename(now time.Time) string {
	return domain.BackupFilename(now)
}

// SearchResult is either a filtered view (local engine) or a URL to open.
type SearchResult struct {
	Categories []domain.Category
	URL        string
}

// Search filters the local document for EngineLocal and builds a web
// search URL for the other engines.
func (s *Session) Search(query, engine string) (SearchResult, error) {
	if engine == "" || engine == domain.EngineLocal {
		return SearchResult{Categories: domain.FilterCategories(s.Document().Categories, query)}, nil
	}
	u, err := domain.SearchURL(engine, query)
	if err != nil {
		return SearchResult{}, err
	}
	return SearchResult{URL: u}, nil
}

// IsSaveError reports whether err came from a rejected push.
func IsSaveError(err error) bool {
	var se *SaveError
	return errors.As(err, &se)
}
