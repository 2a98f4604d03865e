package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/cory-johannsen/gridtactics/internal/game/combat"
)

// logTail is how many log entries the log command shows.
const logTail = 12

// Console drives one session from a line-oriented text stream, such as a
// terminal. Input is read on its own goroutine so an idle timeout or context
// cancellation ends the loop even while no line is pending.
type Console struct {
	mgr    *Manager
	render Renderer
	in     io.Reader
	out    io.Writer
}

// NewConsole returns a Console reading commands from in and writing to out.
func NewConsole(mgr *Manager, in io.Reader, out io.Writer, color bool) *Console {
	return &Console{mgr: mgr, render: Renderer{Color: color}, in: in, out: out}
}

// Run plays session id until it resolves, the player quits, the session goes
// idle, input ends or ctx is cancelled.
//
// Precondition: id names a running session of the Console's Manager.
// Postcondition: The session is no longer running when Run returns nil
// after quit or end of input. Returns ctx.Err() on cancellation.
func (c *Console) Run(ctx context.Context, id uuid.UUID) error {
	s, ok := c.mgr.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(c.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-s.Done():
				return
			}
		}
	}()

	c.status(s)
	c.prompt()
	for {
		select {
		case <-ctx.Done():
			_ = c.mgr.Abandon(id)
			return ctx.Err()
		case <-s.Done():
			return c.finish(s)
		case line, open := <-lines:
			if !open {
				_ = c.mgr.Abandon(id)
				fmt.Fprintln(c.out, "input closed, battle abandoned")
				return nil
			}
			if quit := c.handle(ctx, s, line); quit {
				_ = c.mgr.Abandon(id)
				fmt.Fprintln(c.out, "battle abandoned")
				return nil
			}
			select {
			case <-s.Done():
				return c.finish(s)
			default:
			}
			c.prompt()
		}
	}
}

// handle runs one input line and reports whether the player asked to quit.
func (c *Console) handle(ctx context.Context, s *Session, line string) bool {
	action, meta, err := ParseAction(line)
	if err != nil {
		fmt.Fprintln(c.out, c.render.paint(Red, err.Error()))
		return false
	}
	switch meta {
	case MetaQuit:
		return true
	case MetaHelp:
		fmt.Fprint(c.out, Help())
		return false
	case MetaStatus:
		c.status(s)
		return false
	case MetaLog:
		s.View(func(b *combat.Battle, _ combat.Objective) {
			fmt.Fprint(c.out, c.render.Log(b.LogTail(logTail)))
		})
		return false
	}
	if action == nil {
		return false
	}

	entries, err := c.mgr.Apply(ctx, s.ID, action)
	fmt.Fprint(c.out, c.render.Log(entries))
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		fmt.Fprintln(c.out, c.render.paint(Red, err.Error()))
	}
	if _, ok := action.(combat.EndTurnAction); ok {
		c.status(s)
	}
	return false
}

func (c *Console) status(s *Session) {
	s.View(func(b *combat.Battle, obj combat.Objective) {
		fmt.Fprint(c.out, c.render.Status(b, obj))
	})
}

func (c *Console) prompt() {
	fmt.Fprint(c.out, "> ")
}

func (c *Console) finish(s *Session) error {
	if s.Abandoned() {
		fmt.Fprintln(c.out, "battle abandoned after inactivity")
		return nil
	}
	c.status(s)
	return nil
}
