package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/cory-johannsen/rpgcore/internal/game/command"
	"github.com/cory-johannsen/rpgcore/internal/game/player"
)

// DefaultTickInterval drives dialogue typing and NPC wandering.
const DefaultTickInterval = 50 * time.Millisecond

// maxInput caps the input line length in runes.
const maxInput = 120

// App runs the terminal front end: it reads keys, runs commands through the
// player's session, advances timers, and redraws the HUD when it is dirty.
// App implements server.Service.
type App struct {
	screen  tcell.Screen
	session *player.Session
	env     *command.Env
	hud     *HUD
	logger  *zap.Logger
	tick    time.Duration

	input []rune

	ready    chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
}

// NewApp wires an App. The screen is initialized by Start.
//
// Precondition: screen, session, env, and logger must be non-nil, and
// env.Player must be the player session guards.
// Postcondition: the HUD is bound to the player.
func NewApp(screen tcell.Screen, session *player.Session, env *command.Env, tick time.Duration, logger *zap.Logger) *App {
	if tick <= 0 {
		tick = DefaultTickInterval
	}
	a := &App{
		screen:  screen,
		session: session,
		env:     env,
		hud:     NewHUD(),
		logger:  logger,
		tick:    tick,
		ready:   make(chan struct{}),
		stop:    make(chan struct{}),
	}
	session.Do(func(p *player.Player) { a.hud.Bind(p) })
	a.hud.AddMessage(fmt.Sprintf("Welcome, %s. Type 'help' for commands.", env.Player.Name))
	return a
}

// HUD returns the App's HUD.
func (a *App) HUD() *HUD { return a.hud }

// Ready is closed once Start has initialized the screen.
func (a *App) Ready() <-chan struct{} { return a.ready }

// Start initializes the screen and runs the event loop until the player
// quits or Stop is called.
//
// Postcondition: the screen is finalized when Start returns.
func (a *App) Start() error {
	if err := a.screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer a.screen.Fini()
	close(a.ready)

	events := make(chan tcell.Event, 32)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(a.tick)
	defer ticker.Stop()
	last := time.Now()
	a.Render()

	for {
		select {
		case <-a.stop:
			a.logger.Info("ui stopped")
			return nil
		case ev := <-events:
			if !a.HandleEvent(ev) {
				a.logger.Info("player quit")
				return nil
			}
		case now := <-ticker.C:
			a.Tick(now.Sub(last))
			last = now
		}
		if a.hud.TakeDirty() {
			a.Render()
		}
	}
}

// Stop ends Start. It is safe to call more than once.
func (a *App) Stop() {
	a.stopOnce.Do(func() { close(a.stop) })
}

// HandleEvent applies one terminal event and reports whether the App should
// keep running.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		a.hud.MarkDirty()
	case *tcell.EventKey:
		return a.handleKey(ev)
	}
	return true
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	defer a.hud.MarkDirty()
	switch ev.Key() {
	case tcell.KeyEnter:
		line := string(a.input)
		a.input = a.input[:0]
		if line == "" {
			if !a.conversationActive() {
				return true
			}
			line = "next"
		}
		return !a.Run(line).Quit
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(a.input) > 0 {
			a.input = a.input[:len(a.input)-1]
		}
	case tcell.KeyEscape:
		a.input = a.input[:0]
	case tcell.KeyCtrlC:
		return false
	case tcell.KeyUp, tcell.KeyDown, tcell.KeyLeft, tcell.KeyRight:
		if len(a.input) == 0 {
			return !a.Run(arrowCommand(ev.Key())).Quit
		}
	case tcell.KeyRune:
		if len(a.input) < maxInput {
			a.input = append(a.input, ev.Rune())
		}
	}
	return true
}

func arrowCommand(k tcell.Key) string {
	switch k {
	case tcell.KeyUp:
		return "north"
	case tcell.KeyDown:
		return "south"
	case tcell.KeyLeft:
		return "west"
	default:
		return "east"
	}
}

func (a *App) conversationActive() bool {
	active := false
	a.session.Do(func(*player.Player) { active = a.env.Conversation.Active() })
	return active
}

// Run executes line as a command under the session lock and logs the echo
// and the output to the HUD.
func (a *App) Run(line string) command.Result {
	var res command.Result
	a.session.Do(func(*player.Player) { res = command.Execute(a.env, line) })
	a.hud.AddMessage("> " + line)
	a.hud.AddMessage(res.Output)
	return res
}

// Tick advances NPC wandering and dialogue typing by dt.
func (a *App) Tick(dt time.Duration) {
	a.env.NPCs.Tick(dt)
	a.session.Do(func(*player.Player) {
		if a.env.Conversation.Typing() {
			a.env.Conversation.Tick(dt)
			a.hud.MarkDirty()
		}
	})
}

// Render draws the current frame and shows it.
func (a *App) Render() {
	a.session.Do(func(p *player.Player) {
		Draw(a.screen, Frame{
			Player:       p,
			Conversation: a.env.Conversation,
			Messages:     a.hud.Recent(LogLines),
			Input:        string(a.input),
		})
	})
	a.screen.Show()
}

// Input returns the pending input line.
func (a *App) Input() string { return string(a.input) }
