package core

import (
	"strings"
	"unicode/utf8"
)

const (
	minNicknameLen = 2
	maxNicknameLen = 20
)

// Registry owns the session to nickname mapping. Nicknames are unique
// across all live sessions, compared case-insensitively, and stored
// verbatim after trimming. Not safe for concurrent use; the hub loop is
// the only caller.
type Registry struct {
	byName map[string]*Client
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Client)}
}

// Assign validates and binds a nickname to the client. A session's
// nickname is immutable once set.
func (r *Registry) Assign(c *Client, proposed string) *CoreError {
	if c.nickname != "" {
		return coreError(ErrCodeNicknameSet, "nickname is already set for this session")
	}
	nick := strings.TrimSpace(proposed)
	switch n := utf8.RuneCountInString(nick); {
	case n < minNicknameLen:
		return coreError(ErrCodeNicknameTooShort, "nickname must be at least 2 characters")
	case n > maxNicknameLen:
		return coreError(ErrCodeNicknameTooLong, "nickname must be at most 20 characters")
	}
	key := strings.ToLower(nick)
	if owner, ok := r.byName[key]; ok && owner != c {
		return coreError(ErrCodeNicknameTaken, "nickname is already in use")
	}
	r.byName[key] = c
	c.nickname = nick
	return nil
}

// Release removes the client's nickname binding. Idempotent.
func (r *Registry) Release(c *Client) {
	if c.nickname == "" {
		return
	}
	key := strings.ToLower(c.nickname)
	if owner, ok := r.byName[key]; ok && owner == c {
		delete(r.byName, key)
	}
	c.nickname = ""
}

// Lookup returns the client's nickname, if one is bound.
func (r *Registry) Lookup(c *Client) (string, bool) {
	if c.nickname == "" {
		return "", false
	}
	return c.nickname, true
}

// Len reports the number of bound nicknames.
func (r *Registry) Len() int {
	return len(r.byName)
}
