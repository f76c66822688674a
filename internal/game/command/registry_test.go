package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r)
	assert.Greater(t, len(r.Commands()), 0)
}

func TestResolve_CanonicalName(t *testing.T) {
	r := DefaultRegistry()

	cmd, ok := r.Resolve("inventory")
	assert.True(t, ok)
	assert.Equal(t, "inventory", cmd.Name)
	assert.Equal(t, HandlerInventory, cmd.Handler)
}

func TestResolve_Alias(t *testing.T) {
	r := DefaultRegistry()

	cmd, ok := r.Resolve("i")
	assert.True(t, ok)
	assert.Equal(t, "inventory", cmd.Name)
}

func TestResolve_NotFound(t *testing.T) {
	r := DefaultRegistry()

	_, ok := r.Resolve("teleport")
	assert.False(t, ok)
}

func TestResolve_AllBuiltins(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		input   string
		handler string
	}{
		{"n", HandlerMove},
		{"west", HandlerMove},
		{"inventory", HandlerInventory},
		{"i", HandlerInventory},
		{"use", HandlerUse},
		{"equip", HandlerEquip},
		{"unequip", HandlerUnequip},
		{"equipment", HandlerEquipment},
		{"eq", HandlerEquipment},
		{"stats", HandlerStats},
		{"st", HandlerStats},
		{"drop", HandlerDrop},
		{"get", HandlerGet},
		{"pickup", HandlerGet},
		{"look", HandlerLook},
		{"l", HandlerLook},
		{"talk", HandlerTalk},
		{"next", HandlerNext},
		{"buy", HandlerBuy},
		{"sell", HandlerSell},
		{"shop", HandlerShop},
		{"save", HandlerSave},
		{"load", HandlerLoad},
		{"respawn", HandlerRespawn},
		{"help", HandlerHelp},
		{"?", HandlerHelp},
		{"quit", HandlerQuit},
		{"exit", HandlerQuit},
	}

	for _, tt := range tests {
		cmd, ok := r.Resolve(tt.input)
		require.True(t, ok, "input %q not found", tt.input)
		assert.Equal(t, tt.handler, cmd.Handler, "input %q wrong handler", tt.input)
	}
}

func TestNewRegistry_DuplicateName(t *testing.T) {
	cmds := []Command{
		{Name: "test", Handler: "a"},
		{Name: "test", Handler: "b"},
	}
	_, err := NewRegistry(cmds)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate command name")
}

func TestNewRegistry_DuplicateAlias(t *testing.T) {
	cmds := []Command{
		{Name: "test1", Aliases: []string{"t"}, Handler: "a"},
		{Name: "test2", Aliases: []string{"t"}, Handler: "b"},
	}
	_, err := NewRegistry(cmds)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate alias")
}

func TestNewRegistry_EmptyName(t *testing.T) {
	_, err := NewRegistry([]Command{{Handler: "a"}})
	assert.Error(t, err)
}

func TestCommandsByCategory(t *testing.T) {
	r := DefaultRegistry()
	cats := r.CommandsByCategory()

	assert.Contains(t, cats, CategoryMovement)
	assert.Contains(t, cats, CategoryInventory)
	assert.Contains(t, cats, CategoryWorld)
	assert.Contains(t, cats, CategoryNPC)
	assert.Contains(t, cats, CategorySystem)
	assert.Len(t, cats[CategoryMovement], 4)
}

func TestCategories_DisplayOrder(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{
		CategoryMovement, CategoryInventory, CategoryWorld, CategoryNPC, CategorySystem,
	}, r.Categories())

	custom, err := NewRegistry([]Command{
		{Name: "zap", Category: "zeta"},
		{Name: "look", Category: CategoryWorld},
		{Name: "alpha", Category: "alpha"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{CategoryWorld, "alpha", "zeta"}, custom.Categories())
}

func TestCommands_SortedByName(t *testing.T) {
	cmds := DefaultRegistry().Commands()
	for i := 1; i < len(cmds); i++ {
		assert.Less(t, cmds[i-1].Name, cmds[i].Name)
	}
}

func TestPropertyAllAliasesResolveToCanonical(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := DefaultRegistry()
		cmds := r.Commands()
		idx := rapid.IntRange(0, len(cmds)-1).Draw(t, "cmd_idx")
		cmd := cmds[idx]

		resolved, ok := r.Resolve(cmd.Name)
		if !ok {
			t.Fatalf("canonical name %q did not resolve", cmd.Name)
		}
		if resolved.Name != cmd.Name {
			t.Fatalf("canonical name %q resolved to %q", cmd.Name, resolved.Name)
		}

		for _, alias := range cmd.Aliases {
			aliasResolved, ok := r.Resolve(alias)
			if !ok {
				t.Fatalf("alias %q did not resolve", alias)
			}
			if aliasResolved.Name != cmd.Name {
				t.Fatalf("alias %q resolved to %q, expected %q", alias, aliasResolved.Name, cmd.Name)
			}
		}
	})
}

func TestIsMovementCommand(t *testing.T) {
	assert.True(t, IsMovementCommand("north"))
	assert.True(t, IsMovementCommand("south"))
	assert.True(t, IsMovementCommand("east"))
	assert.True(t, IsMovementCommand("west"))
	assert.False(t, IsMovementCommand("n"))
	assert.False(t, IsMovementCommand("look"))
}
