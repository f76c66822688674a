package player

import "sync"

// Session serializes access to a Player shared by the UI loop and the
// autosave service.
type Session struct {
	mu     sync.Mutex
	player *Player
}

// NewSession wraps p.
func NewSession(p *Player) *Session {
	return &Session{player: p}
}

// Do runs fn with exclusive access to the player.
//
// Precondition: fn must not call Do on the same Session.
func (s *Session) Do(fn func(p *Player)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.player)
}

// DoErr is Do for functions that fail.
func (s *Session) DoErr(fn func(p *Player) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.player)
}
