package unas

import (
	"context"
	"sync"
	"time"
)

// refreshMargin el token se renueva este margen antes de su expiración real,
// para que ninguna llamada en vuelo lo use ya caducado.
const refreshMargin = 2 * time.Minute

// loginer lo implementa *Client; interfaz interna para poder inyectar un
// doble en tests.
type loginer interface {
	Login(ctx context.Context) (string, time.Time, error)
}

// Session cache explícito del bearer token con expiración. Sustituye el
// estado global mutable por un objeto con dueño que se pasa por referencia a
// toda llamada que necesite el sistema remoto.
type Session struct {
	c loginer

	mu     sync.Mutex
	token  string
	expiry time.Time
	now    func() time.Time // inyectable en tests
}

// NewSession construye la sesión sin token; el primer EnsureValid hace login.
func NewSession(c loginer) *Session {
	return &Session{c: c, now: time.Now}
}

// EnsureValid devuelve un token vigente, renovándolo solo si falta o está
// por expirar (read-check-refresh bajo el mutex: un único login en vuelo).
func (s *Session) EnsureValid(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.now().Before(s.expiry.Add(-refreshMargin)) {
		return s.token, nil
	}

	token, expiry, err := s.c.Login(ctx)
	if err != nil {
		return "", err
	}
	s.token = token
	s.expiry = expiry
	return token, nil
}

// Invalidate descarta el token cacheado; el siguiente EnsureValid vuelve a
// hacer login.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.expiry = time.Time{}
}
