package domain

import (
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHeader is the HTTP header carrying the admin password on writes.
const PasswordHeader = "x-admin-password"

// DefaultPassword is the credential of the seed document and of a fresh client session.
const DefaultPassword = "666333"

// Password length bounds of a credential change. bcrypt rejects inputs
// longer than 72 bytes.
const (
	MinPasswordLength = 4
	MaxPasswordLength = 72
)

// CredentialKind tags the representation held by a Credential.
type CredentialKind int

const (
	// CredentialNone is the zero value: the document carries no credential.
	CredentialNone CredentialKind = iota
	// CredentialPlain is a legacy plaintext shared secret.
	CredentialPlain
	// CredentialHashed is a bcrypt hash of the shared secret.
	CredentialHashed
)

// Credential is the single shared secret gating write access.
//
// It is stored on the wire as one JSON string. Which variant a stored
// string is decided once, at decode time, by ParseCredential.
type Credential struct {
	kind  CredentialKind
	value string
}

// PlainCredential wraps a plaintext password.
func PlainCredential(password string) Credential {
	return Credential{kind: CredentialPlain, value: password}
}

// HashedCredential wraps an existing bcrypt hash.
func HashedCredential(hash string) Credential {
	return Credential{kind: CredentialHashed, value: hash}
}

// HashCredential hashes password with bcrypt.
func HashCredential(password string) (Credential, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Credential{}, fmt.Errorf("failed to hash credential: %w", err)
	}
	return HashedCredential(string(hash)), nil
}

// ParseCredential classifies a stored string. A value bcrypt accepts as a
// well-formed hash is Hashed, anything else non-empty is Plain.
func ParseCredential(s string) Credential {
	if s == "" {
		return Credential{}
	}
	if _, err := bcrypt.Cost([]byte(s)); err == nil {
		return HashedCredential(s)
	}
	return PlainCredential(s)
}

func (c Credential) Kind() CredentialKind { return c.kind }
func (c Credential) IsZero() bool         { return c.kind == CredentialNone }
func (c Credential) IsHashed() bool       { return c.kind == CredentialHashed }

// String returns the stored representation (the hash for Hashed credentials).
func (c Credential) String() string { return c.value }

// Verify reports whether password matches the credential.
func (c Credential) Verify(password string) bool {
	switch c.kind {
	case CredentialHashed:
		return bcrypt.CompareHashAndPassword([]byte(c.value), []byte(password)) == nil
	case CredentialPlain:
		return c.value == password
	default:
		return false
	}
}

// Normalize returns the persisted form: Plain is hashed, Hashed and None
// are returned unchanged.
func (c Credential) Normalize() (Credential, error) {
	if c.kind != CredentialPlain {
		return c, nil
	}
	return HashCredential(c.value)
}

func (c Credential) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.value)
}

func (c *Credential) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Credential{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("credential must be a string: %w", err)
	}
	*c = ParseCredential(s)
	return nil
}
