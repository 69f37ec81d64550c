// Package docstore persists the start page document as one JSON file.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/logger"
)

// Store reads and overwrites the document file at path. Each Write replaces
// the whole file. There is no lock across the read-verify-write sequence:
// two concurrent authorized writers race and the last rename wins.
type Store struct {
	path string
	log  logger.Logger
}

// New creates a Store backed by the file at path.
func New(path string, log logger.Logger) *Store {
	return &Store{
		path: path,
		log:  log.With(logger.String("component", "docstore"), logger.String("path", path)),
	}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

type loadState int

const (
	loadOK loadState = iota
	loadAbsent
	loadCorrupt
)

// load reads the file without side effects. Absent and corrupt files
// yield the seed document together with the state that explains it.
func (s *Store) load() (domain.Document, loadState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Seed(), loadAbsent, nil
		}
		s.log.Warn("document unreadable, serving seed", logger.Error(err))
		return domain.Seed(), loadCorrupt, nil
	}

	doc, err := domain.ParseCandidate(data)
	if err != nil {
		s.log.Warn("document corrupt, serving seed", logger.Error(err))
		return domain.Seed(), loadCorrupt, nil
	}
	return *doc, loadOK, nil
}

// Read returns the stored document. An absent file is created from the
// seed. A corrupt file is left untouched and the seed is returned.
func (s *Store) Read(ctx context.Context) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return domain.Document{}, err
	}

	doc, state, err := s.load()
	if err != nil {
		return domain.Document{}, err
	}

	if state == loadAbsent {
		data, err := doc.MarshalIndent()
		if err != nil {
			return domain.Document{}, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
		}
		if err := writeFileAtomic(s.path, data); err != nil {
			s.log.Error("failed to create document from seed", logger.Error(err))
			return domain.Document{}, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
		}
		s.log.Info("document created from seed")
	}

	return doc, nil
}

// Credential returns the credential a Write is checked against.
func (s *Store) Credential(ctx context.Context) (domain.Credential, error) {
	if err := ctx.Err(); err != nil {
		return domain.Credential{}, err
	}
	doc, _, err := s.load()
	if err != nil {
		return domain.Credential{}, err
	}
	return storedCredential(doc), nil
}

func storedCredential(doc domain.Document) domain.Credential {
	if doc.Credential.IsZero() {
		return domain.PlainCredential(domain.DefaultPassword)
	}
	return doc.Credential
}

// Write replaces the stored document with candidate when provided matches
// the stored credential. A Plain candidate credential is hashed before it
// is persisted, a Hashed one is kept verbatim and a missing one keeps the
// stored credential. A corrupt or unreadable file is never overwritten:
// its real credential is unknown, so every Write fails until it is repaired.
func (s *Store) Write(ctx context.Context, candidate *domain.Document, provided string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	current, state, err := s.load()
	if err != nil {
		return err
	}
	if state == loadCorrupt {
		s.log.Error("write refused: stored document is unreadable")
		return fmt.Errorf("%w: stored document is unreadable", domain.ErrStorageUnavailable)
	}
	stored := storedCredential(current)

	if !stored.Verify(provided) {
		s.log.Warn("write rejected: wrong credential")
		return domain.ErrUnauthorized
	}

	if candidate == nil || candidate.Categories == nil {
		return domain.ErrInvalidDocument
	}

	next := candidate.Clone().Normalize()
	if next.Credential.IsZero() {
		next.Credential = stored
	}
	next.Credential, err = next.Credential.Normalize()
	if err != nil {
		// Only a Plain credential is hashed here; bcrypt refuses it as input.
		return fmt.Errorf("%w: %v", domain.ErrInvalidDocument, err)
	}

	data, err := next.MarshalIndent()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		s.log.Error("failed to persist document", logger.Error(err))
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	s.log.Info("document saved",
		logger.Int("categories", len(next.Categories)),
		logger.Int("links", next.LinkCount()))
	return nil
}

// Check reports whether the document can be served: either the file is
// readable or its directory exists so the seed can be created.
func (s *Store) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Open(s.path)
	if err == nil {
		return f.Close()
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	info, err := os.Stat(filepath.Dir(s.path))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrStorageUnavailable, filepath.Dir(s.path))
	}
	return nil
}

// Snapshot copies the current document to dst, atomically. The copy uses
// the export format, so it can be imported back as a full replacement.
func (s *Store) Snapshot(ctx context.Context, dst string) error {
	doc, err := s.Read(ctx)
	if err != nil {
		return err
	}
	data, err := doc.MarshalIndent()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	if err := writeFileAtomic(dst, append(data, '\n')); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}
