package arena

import (
	"crypto/rand"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// codeAlphabet omits 0/O/1/I so codes survive being read aloud.
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 6
)

// InviteRegistry maps short shareable codes to private session ids. A code
// is minted with its session and released when the session is destroyed, so
// a registered code always resolves to a live session.
type InviteRegistry struct {
	mu    sync.Mutex
	codes map[string]uuid.UUID
}

// NewInviteRegistry builds an empty registry.
func NewInviteRegistry() *InviteRegistry {
	return &InviteRegistry{
		codes: make(map[string]uuid.UUID),
	}
}

// Mint generates a fresh code and binds it to the session id, retrying on
// the (unlikely) collision.
func (r *InviteRegistry) Mint(sessionID uuid.UUID) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		code := randomCode()
		if _, taken := r.codes[code]; taken {
			continue
		}
		r.codes[code] = sessionID
		return code
	}
}

// Resolve looks up the session id behind a code. Codes are matched
// case-insensitively.
func (r *InviteRegistry) Resolve(code string) (uuid.UUID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.codes[strings.ToUpper(strings.TrimSpace(code))]
	return id, ok
}

// Release removes a code. No-op if the code is unknown.
func (r *InviteRegistry) Release(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.codes, code)
}

func randomCode() string {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf)
}
