package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/rpgcore/internal/game/command"
	"github.com/cory-johannsen/rpgcore/internal/game/dialogue"
	"github.com/cory-johannsen/rpgcore/internal/game/inventory"
	"github.com/cory-johannsen/rpgcore/internal/game/npc"
	"github.com/cory-johannsen/rpgcore/internal/game/player"
	"github.com/cory-johannsen/rpgcore/internal/game/stats"
	"github.com/cory-johannsen/rpgcore/internal/game/world"
	"github.com/cory-johannsen/rpgcore/internal/save"
)

var potion = &inventory.ItemDef{
	ID: "potion", Name: "Potion", Icon: "🧪", Kind: inventory.KindConsumable,
	Stackable: true, MaxStack: 10, HealthRestore: 20,
}

var sword = &inventory.ItemDef{
	ID: "sword", Name: "Iron Sword", Kind: inventory.KindEquipment,
	EquipSlot: inventory.SlotWeapon, MaxStack: 1, AttackBonus: 4,
}

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	ss := tcell.NewSimulationScreen("UTF-8")
	ss.SetSize(80, 24)
	return ss
}

func newTestApp(t *testing.T, screen tcell.Screen) (*App, *command.Env) {
	t.Helper()
	reg, err := inventory.NewRegistryFrom([]*inventory.ItemDef{potion, sword})
	require.NoError(t, err)
	p := player.New(player.Options{
		Name:          "Hero",
		InventorySize: 10,
		Base:          stats.DefaultBase(),
		Spawn:         player.Position{X: 5, Y: 5},
	}, nil, zap.NewNop())

	npcs := npc.NewManager(1)
	_, err = npcs.Spawn(&npc.Template{
		ID: "elder", Name: "Elder", Dialogue: []string{"Hello there.", "Farewell."},
		InteractionRange: 2, Position: player.Position{X: 6, Y: 5},
	})
	require.NoError(t, err)

	env := &command.Env{
		Ctx:          context.Background(),
		Player:       p,
		Items:        reg,
		Field:        world.NewField(20, 20),
		NPCs:         npcs,
		Conversation: dialogue.New(),
		Saves:        save.NewMemoryStore(),
		Slot:         save.DefaultSlot,
		Logger:       zap.NewNop(),
	}
	return NewApp(screen, player.NewSession(p), env, 10*time.Millisecond, zap.NewNop()), env
}

func rowText(s tcell.Screen, y int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func screenText(s tcell.Screen) string {
	_, h := s.Size()
	rows := make([]string, h)
	for y := range rows {
		rows[y] = rowText(s, y)
	}
	return strings.Join(rows, "\n")
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func typeLine(a *App, line string) bool {
	for _, r := range line {
		a.HandleEvent(key(r))
	}
	return a.HandleEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
}

func TestRender_StatusInventoryAndEquipment(t *testing.T) {
	ss := newSimScreen(t)
	require.NoError(t, ss.Init())
	defer ss.Fini()
	a, env := newTestApp(t, ss)
	env.Player.Stats.AddGold(42)
	require.True(t, env.Player.Inventory.AddItem(potion, 3))
	require.True(t, env.Player.Inventory.AddItem(sword, 1))
	require.True(t, env.Player.Equipment.EquipItem(sword))

	a.Render()

	status := rowText(ss, 0)
	assert.Contains(t, status, "HP 100/100")
	assert.Contains(t, status, "MP 50/50")
	assert.Contains(t, status, "LV 1")
	assert.Contains(t, status, "ATK 14")
	assert.Contains(t, status, "Gold 42")

	text := screenText(ss)
	assert.Contains(t, text, "Inventory 1/10")
	assert.Contains(t, text, "3  ]")
	assert.Contains(t, text, "Weapon:")
	assert.Contains(t, text, "Iron Sword")
	assert.Contains(t, rowText(ss, 23), "> ")
}

func TestHandleEvent_TypedCommandRuns(t *testing.T) {
	ss := newSimScreen(t)
	require.NoError(t, ss.Init())
	defer ss.Fini()
	a, _ := newTestApp(t, ss)

	a.HandleEvent(key('s'))
	a.HandleEvent(key('x'))
	a.HandleEvent(tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone))
	assert.Equal(t, "s", a.Input())
	a.HandleEvent(key('t'))

	assert.True(t, a.HandleEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)))
	assert.Equal(t, "", a.Input())

	msgs := a.HUD().Recent(maxLog)
	require.NotEmpty(t, msgs)
	assert.Contains(t, strings.Join(msgs, "\n"), "> st")
	assert.Contains(t, strings.Join(msgs, "\n"), "Gold 0")
}

func TestHandleEvent_ArrowKeysMove(t *testing.T) {
	ss := newSimScreen(t)
	require.NoError(t, ss.Init())
	defer ss.Fini()
	a, env := newTestApp(t, ss)

	a.HandleEvent(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone))
	assert.Equal(t, player.Position{X: 5, Y: 4}, env.Player.Position())
	a.HandleEvent(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
	assert.Equal(t, player.Position{X: 4, Y: 4}, env.Player.Position())
}

func TestHandleEvent_EnterAdvancesConversation(t *testing.T) {
	ss := newSimScreen(t)
	require.NoError(t, ss.Init())
	defer ss.Fini()
	a, env := newTestApp(t, ss)

	require.True(t, typeLine(a, "talk"))
	require.True(t, env.Conversation.Active())
	a.Tick(time.Second)
	require.False(t, env.Conversation.Typing())

	a.Render()
	assert.Contains(t, screenText(ss), "Hello there.")
	assert.Contains(t, screenText(ss), "[Enter] next")

	assert.True(t, a.HandleEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)))
	assert.Equal(t, 1, env.Conversation.Index())
}

func TestHandleEvent_QuitStops(t *testing.T) {
	ss := newSimScreen(t)
	require.NoError(t, ss.Init())
	defer ss.Fini()
	a, _ := newTestApp(t, ss)
	assert.False(t, typeLine(a, "quit"))
	assert.False(t, a.HandleEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)))
}

func TestTick_RevealsDialogue(t *testing.T) {
	ss := newSimScreen(t)
	require.NoError(t, ss.Init())
	defer ss.Fini()
	a, env := newTestApp(t, ss)
	require.True(t, typeLine(a, "talk"))
	a.HUD().TakeDirty()

	a.Tick(dialogue.DefaultTypingSpeed * 5)
	assert.Equal(t, "Hello", env.Conversation.Visible())
	assert.True(t, a.HUD().TakeDirty())
}

func TestHUD_BindMarksDirtyAndLogs(t *testing.T) {
	h := NewHUD()
	p := player.New(player.Options{Name: "Hero", InventorySize: 4, Base: stats.DefaultBase()}, nil, zap.NewNop())
	h.Bind(p)
	require.True(t, h.TakeDirty())
	assert.False(t, h.TakeDirty())

	p.Inventory.AddItem(potion, 1)
	assert.True(t, h.TakeDirty())

	p.Stats.GainExperience(100)
	assert.Contains(t, h.Recent(1)[0], "level 2")

	p.TakeDamage(10_000)
	assert.Contains(t, h.Recent(1)[0], "You have died")

	h.Unbind()
	h.TakeDirty()
	p.Stats.AddGold(5)
	assert.False(t, h.TakeDirty())
}

func TestHUD_RecentKeepsNewest(t *testing.T) {
	h := NewHUD()
	for i := 0; i < 8; i++ {
		h.AddMessage(strings.Repeat("x", i+1))
	}
	h.AddMessage("a\n\nb")
	got := h.Recent(LogLines)
	assert.Equal(t, []string{"xxxxxx", "xxxxxxx", "xxxxxxxx", "a", "b"}, got)
}

func TestIcon_FallsBackToKind(t *testing.T) {
	assert.Equal(t, "🧪", Icon(potion))
	assert.Equal(t, "⚔", Icon(sword))
	assert.Equal(t, " ", Icon(nil))
}

func TestStart_QuitEndsLoop(t *testing.T) {
	ss := newSimScreen(t)
	a, _ := newTestApp(t, ss)

	errCh := make(chan error, 1)
	go func() { errCh <- a.Start() }()
	select {
	case <-a.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("screen never initialized")
	}

	for _, r := range "quit" {
		require.NoError(t, ss.PostEvent(key(r)))
	}
	require.NoError(t, ss.PostEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)))

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after quit")
	}
}

func TestStart_StopEndsLoop(t *testing.T) {
	ss := newSimScreen(t)
	a, _ := newTestApp(t, ss)

	errCh := make(chan error, 1)
	go func() { errCh <- a.Start() }()
	<-a.Ready()
	a.Stop()
	a.Stop()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Stop")
	}
}
