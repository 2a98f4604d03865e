package session

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/gridtactics/internal/game/combat"
	"github.com/cory-johannsen/gridtactics/internal/game/grid"
)

// Renderer draws a battle as text. With Color off every ANSI code is omitted.
type Renderer struct {
	Color bool
}

func (r Renderer) paint(color, text string) string {
	if !r.Color {
		return text
	}
	return Colorize(color, text)
}

// PlayerMarker is the board symbol for the character at roster index idx.
func PlayerMarker(idx int) string {
	if idx < 9 {
		return fmt.Sprint(idx + 1)
	}
	return "@"
}

// EnemyMarker is the board symbol for the enemy at roster index idx.
func EnemyMarker(idx int) string {
	if idx < 26 {
		return string(rune('a' + idx))
	}
	return "&"
}

// Board draws the tile grid with every living combatant on it.
func (r Renderer) Board(b *combat.Battle) string {
	field := b.Field()
	size := field.Size()
	var sb strings.Builder
	sb.WriteString("   ")
	for x := 0; x < size.Length; x++ {
		fmt.Fprintf(&sb, "%2d", x%100)
	}
	sb.WriteByte('\n')
	for y := 0; y < size.Height; y++ {
		fmt.Fprintf(&sb, "%2d ", y%100)
		for x := 0; x < size.Length; x++ {
			sb.WriteByte(' ')
			sb.WriteString(r.square(b, grid.Coordinate{X: x, Y: y}))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (r Renderer) square(b *combat.Battle, c grid.Coordinate) string {
	switch occ := b.OccupantAt(c).(type) {
	case *combat.Character:
		return r.paint(BrightGreen, PlayerMarker(occ.Index))
	case *combat.Enemy:
		return r.paint(BrightRed, EnemyMarker(occ.Index))
	}
	if !b.Field().IsWalkable(c) {
		return r.paint(Dim, "#")
	}
	return "."
}

// Roster lists every combatant with health, shield, movement and skill state.
func (r Renderer) Roster(b *combat.Battle) string {
	var sb strings.Builder
	sb.WriteString(r.paint(Cyan, "Characters:"))
	sb.WriteByte('\n')
	for _, p := range b.Roster() {
		fmt.Fprintf(&sb, "  %s %s\n", r.paint(BrightGreen, PlayerMarker(p.Index)), r.line(&p.Entity, p.Pos))
	}
	sb.WriteString(r.paint(Cyan, "Enemies:"))
	sb.WriteByte('\n')
	for _, e := range b.EnemyRoster() {
		fmt.Fprintf(&sb, "  %s %s\n", r.paint(BrightRed, EnemyMarker(e.Index)), r.line(&e.Entity, e.Pos))
	}
	return sb.String()
}

func (r Renderer) line(e *combat.Entity, pos grid.Coordinate) string {
	if !e.IsAlive() {
		return r.paint(Dim, fmt.Sprintf("%-12s down", e.Name))
	}
	s := e.Stats
	out := fmt.Sprintf("%-12s HP %d/%d  SH %d  move %d/%d  at %v",
		e.Name, s.CurrentPrimaryHealth, s.MaxPrimaryHealth, s.CurrentSecondaryHealth,
		e.CurrentMovementRange, e.MovementRange, pos)
	if e.Active != nil {
		out += "  " + e.Active.Name() + " " + skillState(e.Active)
	}
	return out
}

func skillState(s combat.ActiveSkill) string {
	if s.CanActivate() {
		return "ready"
	}
	if cd, ok := s.(interface{ Remaining() int }); ok && cd.Remaining() > 0 {
		return fmt.Sprintf("in %d", cd.Remaining())
	}
	return "used"
}

// Log renders entries one per line, prefixed with their round.
func (r Renderer) Log(entries []combat.LogEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		color := Yellow
		switch e.Kind {
		case combat.KindKilled:
			color = Red
		case combat.KindMoved, combat.KindPassed:
			color = Dim
		}
		fmt.Fprintf(&sb, "[%d] %s\n", e.Round, r.paint(color, e.String()))
	}
	return sb.String()
}

// Status renders the header, board, roster and goal.
func (r Renderer) Status(b *combat.Battle, obj combat.Objective) string {
	var sb strings.Builder
	sb.WriteString(r.paint(Bold, fmt.Sprintf("%s - round %d, %s phase", b.Field().Name(), b.Round(), b.Phase())))
	sb.WriteByte('\n')
	sb.WriteString(r.Board(b))
	sb.WriteString(r.Roster(b))
	if obj != nil {
		fmt.Fprintf(&sb, "Goal: %s\n", obj.Condition(b, true))
	}
	if b.Phase() == combat.PhaseResolved {
		victory := b.Outcome() == combat.OutcomeVictory
		msg := "DEFEAT"
		color := BrightRed
		if victory {
			msg, color = "VICTORY", BrightGreen
		}
		if obj != nil {
			msg += ": " + obj.Condition(b, victory)
		}
		sb.WriteString(r.paint(color, msg))
		sb.WriteByte('\n')
	}
	return sb.String()
}
