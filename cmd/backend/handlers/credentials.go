package handlers

import (
	"errors"
	"strings"

	"github.com/hairizuan-noorazman/std-generator/session"
	"github.com/hairizuan-noorazman/std-generator/stdgen"
)

// Credential sources reported to the client.
const (
	CredentialSourceSession = "session"
	CredentialSourceConfig  = "config"
	CredentialSourceNone    = "none"
)

// Credentials resolves the generator for a session. A key set on the
// session overrides the configured one.
type Credentials struct {
	factory    stdgen.GeneratorFactory
	defaultKey string
}

// NewCredentials creates a credential resolver.
func NewCredentials(factory stdgen.GeneratorFactory, defaultKey string) *Credentials {
	return &Credentials{
		factory:    factory,
		defaultKey: strings.TrimSpace(defaultKey),
	}
}

func (c *Credentials) key(sess *session.Session) string {
	if sess.APIKey != "" {
		return sess.APIKey
	}
	return c.defaultKey
}

// Generator builds the generator for the session.
func (c *Credentials) Generator(sess *session.Session) (stdgen.Generator, error) {
	return c.factory(c.key(sess))
}

// Missing reports whether generation would fail for lack of a key.
func (c *Credentials) Missing(sess *session.Session) bool {
	_, err := c.Generator(sess)
	return errors.Is(err, stdgen.ErrCredentialMissing)
}

// Source reports where the session's key comes from.
func (c *Credentials) Source(sess *session.Session) string {
	switch {
	case sess.APIKey != "":
		return CredentialSourceSession
	case c.defaultKey != "":
		return CredentialSourceConfig
	default:
		return CredentialSourceNone
	}
}
