// Package dialogue runs a line-by-line conversation with a typewriter reveal.
package dialogue

import (
	"time"
	"unicode/utf8"
)

// DefaultTypingSpeed is the delay between revealed runes.
const DefaultTypingSpeed = 50 * time.Millisecond

// Conversation steps through an NPC's lines. The zero value is inactive and
// reveals lines instantly; use New for the typewriter effect.
//
// Conversation is not safe for concurrent use.
type Conversation struct {
	// TypingSpeed is the delay per rune. Zero or negative reveals whole lines.
	TypingSpeed time.Duration

	speaker string
	lines   []string
	index   int
	active  bool

	revealed int
	elapsed  time.Duration
}

// New returns an inactive Conversation using DefaultTypingSpeed.
func New() *Conversation {
	return &Conversation{TypingSpeed: DefaultTypingSpeed}
}

// Start opens a conversation with speaker at its first line.
//
// Postcondition: returns false and leaves the conversation unchanged when
// lines is empty.
func (c *Conversation) Start(speaker string, lines []string) bool {
	if len(lines) == 0 {
		return false
	}
	c.speaker = speaker
	c.lines = append([]string(nil), lines...)
	c.index = 0
	c.active = true
	c.resetReveal()
	return true
}

func (c *Conversation) resetReveal() {
	c.elapsed = 0
	c.revealed = 0
	if c.TypingSpeed <= 0 {
		c.revealed = utf8.RuneCountInString(c.lines[c.index])
	}
}

// Active reports whether a conversation is open.
func (c *Conversation) Active() bool { return c.active }

// Speaker returns the name of the NPC talking.
func (c *Conversation) Speaker() string { return c.speaker }

// Current returns the full current line, or "" when inactive.
func (c *Conversation) Current() string {
	if !c.active {
		return ""
	}
	return c.lines[c.index]
}

// Index returns the zero-based index of the current line.
func (c *Conversation) Index() int { return c.index }

// HasNext reports whether another line follows the current one.
func (c *Conversation) HasNext() bool {
	return c.active && c.index < len(c.lines)-1
}

// Typing reports whether the current line is still being revealed.
func (c *Conversation) Typing() bool {
	return c.active && c.revealed < utf8.RuneCountInString(c.lines[c.index])
}

// Tick advances the typewriter by elapsed.
func (c *Conversation) Tick(elapsed time.Duration) {
	if !c.Typing() || elapsed <= 0 {
		return
	}
	c.elapsed += elapsed
	total := utf8.RuneCountInString(c.lines[c.index])
	c.revealed = min(int(c.elapsed/c.TypingSpeed), total)
}

// Visible returns the revealed prefix of the current line.
func (c *Conversation) Visible() string {
	if !c.active {
		return ""
	}
	line := c.lines[c.index]
	n := 0
	for i := range line {
		if n == c.revealed {
			return line[:i]
		}
		n++
	}
	return line
}

// Advance completes a line that is still typing; otherwise it moves to the
// next line, closing the conversation after the last one.
//
// Postcondition: returns Active().
func (c *Conversation) Advance() bool {
	if !c.active {
		return false
	}
	if c.Typing() {
		c.revealed = utf8.RuneCountInString(c.lines[c.index])
		return true
	}
	if !c.HasNext() {
		c.Close()
		return false
	}
	c.index++
	c.resetReveal()
	return true
}

// Close ends the conversation.
func (c *Conversation) Close() {
	c.active = false
	c.lines = nil
	c.index = 0
	c.revealed = 0
	c.elapsed = 0
}
