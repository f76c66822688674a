package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/cory-johannsen/rpgcore/internal/game/dialogue"
	"github.com/cory-johannsen/rpgcore/internal/game/inventory"
	"github.com/cory-johannsen/rpgcore/internal/game/player"
)

// Layout constants for the inventory grid.
const (
	gridColumns = 5
	cellWidth   = 8
	equipX      = gridColumns*cellWidth + 3
)

var (
	styleText     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleLabel    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHealth   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleMana     = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleGold     = tcell.StyleDefault.Foreground(tcell.ColorGold)
	styleLog      = tcell.StyleDefault.Foreground(tcell.ColorLightYellow)
	styleDialogue = tcell.StyleDefault.Foreground(tcell.ColorLightCyan)
	styleDead     = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

// kindIcons is the fallback glyph for items without an Icon.
var kindIcons = map[inventory.Kind]string{
	inventory.KindConsumable: "🧪",
	inventory.KindEquipment:  "⚔",
	inventory.KindMaterial:   "🌿",
	inventory.KindQuest:      "🗝",
	inventory.KindMisc:       "📦",
}

// Icon returns the glyph drawn for item.
func Icon(item *inventory.ItemDef) string {
	if item == nil {
		return " "
	}
	if item.Icon != "" {
		return item.Icon
	}
	if icon, ok := kindIcons[item.Kind]; ok {
		return icon
	}
	return "?"
}

// Frame is the state one Draw call renders.
type Frame struct {
	Player       *player.Player
	Conversation *dialogue.Conversation
	Messages     []string
	Input        string
}

// Draw renders f onto s. It does not call Show.
//
// Precondition: the caller holds exclusive access to f.Player and
// f.Conversation.
func Draw(s tcell.Screen, f Frame) {
	s.Clear()
	w, h := s.Size()

	drawStatus(s, 0, f.Player)
	drawHLine(s, 1, w)
	bottom := drawInventory(s, 2, f.Player)
	drawEquipment(s, equipX, 2, f.Player)

	inputY := h - 1
	logY := inputY - LogLines
	for i, msg := range f.Messages {
		drawText(s, 0, logY+i, w, msg, styleLog)
	}
	if f.Conversation != nil && f.Conversation.Active() {
		boxY := max(logY-4, bottom+1)
		drawDialogue(s, boxY, w, f.Conversation)
	}
	x := drawText(s, 0, inputY, w, "> ", styleLabel)
	end := drawText(s, x, inputY, w, f.Input, styleText)
	s.ShowCursor(end, inputY)
}

func drawStatus(s tcell.Screen, y int, p *player.Player) {
	w, _ := s.Size()
	st := p.Stats
	x := drawText(s, 0, y, w, p.Name+"  ", styleText)
	x = drawText(s, x, y, w, fmt.Sprintf("HP %d/%d  ", st.CurrentHealth(), st.MaxHealth()), styleHealth)
	x = drawText(s, x, y, w, fmt.Sprintf("MP %d/%d  ", st.CurrentMana(), st.MaxMana()), styleMana)
	x = drawText(s, x, y, w, fmt.Sprintf("LV %d  XP %d/%d  ATK %d  DEF %d  ",
		st.Level(), st.Experience(), st.ExperienceToNextLevel(), p.Attack(), p.Defense()), styleText)
	x = drawText(s, x, y, w, fmt.Sprintf("Gold %d", st.Gold()), styleGold)
	if !st.Alive() {
		drawText(s, x, y, w, "  DEAD", styleDead)
	}
}

// drawInventory draws one cell per slot and returns the row below the grid.
func drawInventory(s tcell.Screen, y int, p *player.Player) int {
	drawText(s, 0, y, equipX, fmt.Sprintf("Inventory %d/%d", p.Inventory.UsedSlots(), p.Inventory.Size()), styleLabel)
	slots := p.Inventory.Slots()
	for i, slot := range slots {
		cx := (i % gridColumns) * cellWidth
		cy := y + 1 + i/gridColumns
		drawCell(s, cx, cy, i+1, slot)
	}
	rows := (len(slots) + gridColumns - 1) / gridColumns
	return y + 1 + rows
}

// drawCell renders "[icon qty]" within cellWidth columns.
func drawCell(s tcell.Screen, x, y, n int, slot inventory.Slot) {
	limit := x + cellWidth
	cx := drawText(s, x, y, limit, "[", styleLabel)
	if slot.Empty() {
		cx = drawText(s, cx, y, limit, fmt.Sprintf("%-5d", n), styleLabel)
	} else {
		cx = putGlyph(s, cx, y, Icon(slot.Item), styleText)
		qty := ""
		if slot.Quantity > 1 {
			qty = fmt.Sprint(slot.Quantity)
		}
		cx = drawText(s, cx, y, limit, fmt.Sprintf("%-3s", qty), styleText)
	}
	drawText(s, cx, y, limit, "]", styleLabel)
}

func drawEquipment(s tcell.Screen, x, y int, p *player.Player) {
	w, _ := s.Size()
	drawText(s, x, y, w, "Equipment", styleLabel)
	for i, slot := range p.Equipment.Slots() {
		cx := drawText(s, x, y+1+i, w, fmt.Sprintf("%-10s", slot.Slot.DisplayName()+":"), styleLabel)
		if slot.Item == nil {
			drawText(s, cx, y+1+i, w, "-", styleLabel)
			continue
		}
		cx = putGlyph(s, cx, y+1+i, Icon(slot.Item), styleText)
		drawText(s, cx+1, y+1+i, w, slot.Item.Name, styleText)
	}
}

// drawDialogue draws a three-row box with the speaker and the revealed text.
func drawDialogue(s tcell.Screen, y, w int, c *dialogue.Conversation) {
	drawHLine(s, y, w)
	drawText(s, 1, y, w, " "+c.Speaker()+" ", styleLabel)
	drawText(s, 1, y+1, w-1, c.Visible(), styleDialogue)
	hint := ""
	switch {
	case c.Typing():
	case c.HasNext():
		hint = "[Enter] next"
	default:
		hint = "[Enter] close"
	}
	if hint != "" {
		drawText(s, max(w-runewidth.StringWidth(hint)-1, 0), y+2, w, hint, styleLabel)
	}
	drawHLine(s, y+3, w)
}

func drawHLine(s tcell.Screen, y, w int) {
	for x := 0; x < w; x++ {
		s.SetContent(x, y, '─', nil, styleLabel)
	}
}

// drawText writes text from column x, stopping before maxX, and returns the
// column after the last rune drawn. Wide runes take two columns.
func drawText(s tcell.Screen, x, y, maxX int, text string, style tcell.Style) int {
	col := x
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if col+rw > maxX {
			break
		}
		s.SetContent(col, y, r, nil, style)
		if rw == 2 {
			s.SetContent(col+1, y, ' ', nil, style)
		}
		col += rw
	}
	return col
}

// putGlyph draws a single glyph, which may carry combining runes, padded to
// two columns, and returns the next column.
func putGlyph(s tcell.Screen, x, y int, glyph string, style tcell.Style) int {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return x
	}
	var combc []rune
	if len(runes) > 1 {
		combc = runes[1:]
	}
	s.SetContent(x, y, runes[0], combc, style)
	if runewidth.StringWidth(glyph) < 2 {
		s.SetContent(x+1, y, ' ', nil, style)
	}
	return x + 2
}
