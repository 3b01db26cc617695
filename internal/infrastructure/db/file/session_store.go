// Package file persists sessions as one JSON file per scope, optionally sealed
// with XChaCha20-Poly1305. It is the CLI's default store.
package file

import (
	"bytes"
	"context"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"github.com/artisthub/ams-client/internal/core/domain"
	"github.com/artisthub/ams-client/internal/core/ports"
)

const (
	fileMode = 0o600
	dirMode  = 0o700
	hkdfInfo = "ams-client session file v1"
)

// sealedMagic prefixes encrypted files so a plaintext file is never fed to the
// cipher and vice versa.
var sealedMagic = []byte("AMS1")

var safeScope = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ErrSealed is returned when a sealed file is found but no secret is configured,
// or the secret does not open it.
var ErrSealed = errors.New("session file is sealed with a different secret")

type record struct {
	SavedAt time.Time      `json:"saved_at"`
	Session domain.Session `json:"session"`
}

// Provider stores sessions under one directory.
type Provider struct {
	dir  string
	aead cipher.AEAD
	mu   sync.Mutex
}

// NewProvider returns a file-backed provider rooted at dir. A non-empty secret
// enables sealing; the key is derived from it with HKDF-SHA256.
func NewProvider(dir, secret string) (*Provider, error) {
	if dir == "" {
		return nil, errors.New("file store: directory is required")
	}
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return nil, fmt.Errorf("file store: create dir: %w", err)
	}
	p := &Provider{dir: dir}
	if secret != "" {
		key := make([]byte, chacha20poly1305.KeySize)
		if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(hkdfInfo)), key); err != nil {
			return nil, fmt.Errorf("file store: derive key: %w", err)
		}
		aead, err := chacha20poly1305.NewX(key)
		if err != nil {
			return nil, fmt.Errorf("file store: cipher: %w", err)
		}
		p.aead = aead
	}
	return p, nil
}

// DefaultDir is ~/.ams-client/sessions, or a relative fallback when the home
// directory cannot be resolved.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".ams-client", "sessions")
	}
	return filepath.Join(home, ".ams-client", "sessions")
}

func (p *Provider) Scope(id string) ports.SessionStore {
	return &SessionStore{p: p, path: filepath.Join(p.dir, fileName(id))}
}

// Ping verifies the directory is still writable.
func (p *Provider) Ping(context.Context) error {
	f, err := os.CreateTemp(p.dir, ".ping-*")
	if err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

func fileName(scope string) string {
	if !safeScope.MatchString(scope) {
		sum := sha256.Sum256([]byte(scope))
		scope = hex.EncodeToString(sum[:12])
	}
	return scope + ".session"
}

// SessionStore is one scope's file.
type SessionStore struct {
	p    *Provider
	path string
}

func (s *SessionStore) Get(_ context.Context) (*domain.Session, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("file store: read: %w", err)
	}

	plain, err := s.p.open(data)
	if err != nil {
		return nil, err
	}

	var rec record
	if err := json.Unmarshal(plain, &rec); err != nil {
		return nil, fmt.Errorf("file store: decode: %w", err)
	}
	if !rec.Session.Valid() {
		return nil, domain.ErrSessionNotFound
	}
	return &rec.Session, nil
}

// Set writes to a temp file in the same directory and renames it over the
// target, so readers see either the old or the new session.
func (s *SessionStore) Set(_ context.Context, session domain.Session) error {
	plain, err := json.Marshal(record{SavedAt: time.Now().UTC(), Session: session})
	if err != nil {
		return fmt.Errorf("file store: encode: %w", err)
	}
	data, err := s.p.seal(plain)
	if err != nil {
		return err
	}

	s.p.mu.Lock()
	defer s.p.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return fmt.Errorf("file store: temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(fileMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("file store: chmod: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("file store: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("file store: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file store: close: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("file store: rename: %w", err)
	}
	return nil
}

func (s *SessionStore) Clear(_ context.Context) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("file store: remove: %w", err)
	}
	return nil
}

func (p *Provider) seal(plain []byte) ([]byte, error) {
	if p.aead == nil {
		return plain, nil
	}
	nonce := make([]byte, p.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("file store: nonce: %w", err)
	}
	out := append([]byte{}, sealedMagic...)
	out = append(out, nonce...)
	return p.aead.Seal(out, nonce, plain, sealedMagic), nil
}

func (p *Provider) open(data []byte) ([]byte, error) {
	sealed := bytes.HasPrefix(data, sealedMagic)
	switch {
	case !sealed && p.aead == nil:
		return data, nil
	case !sealed:
		return nil, fmt.Errorf("file store: expected sealed file, found plaintext")
	case p.aead == nil:
		return nil, ErrSealed
	}

	body := data[len(sealedMagic):]
	ns := p.aead.NonceSize()
	if len(body) < ns+p.aead.Overhead() {
		return nil, fmt.Errorf("file store: sealed file truncated")
	}
	plain, err := p.aead.Open(nil, body[:ns], body[ns:], sealedMagic)
	if err != nil {
		return nil, ErrSealed
	}
	return plain, nil
}
