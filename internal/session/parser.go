package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/gridtactics/internal/game/combat"
	"github.com/cory-johannsen/gridtactics/internal/game/grid"
)

// Meta is a text command that does not act on the battle.
type Meta string

const (
	MetaNone   Meta = ""
	MetaStatus Meta = "status"
	MetaLog    Meta = "log"
	MetaHelp   Meta = "help"
	MetaQuit   Meta = "quit"
)

// ErrUnknownCommand is returned by ParseAction for a word that names no command.
var ErrUnknownCommand = errors.New("unknown command")

// command is one entry of the text command table. Exactly one of parse and
// meta is set.
type command struct {
	name    string
	aliases []string
	usage   string
	help    string
	parse   func(args []string) (combat.Action, error)
	meta    Meta
}

var commands = []command{
	{
		name: "move", aliases: []string{"m", "mv"},
		usage: "move <character> <direction>",
		help:  "step one square up/down/left/right (or n/s/w/e)",
		parse: func(args []string) (combat.Action, error) {
			if len(args) != 2 {
				return nil, errUsage
			}
			idx, err := parseIndex(args[0], "character")
			if err != nil {
				return nil, err
			}
			dir, err := grid.ParseDirection(strings.ToLower(args[1]))
			if err != nil {
				return nil, err
			}
			return combat.MoveAction{Player: idx, Dir: dir}, nil
		},
	},
	{
		name: "moveto", aliases: []string{"goto", "mt"},
		usage: "moveto <character> <x> <y>",
		help:  "move straight to a square within range",
		parse: func(args []string) (combat.Action, error) {
			if len(args) != 3 {
				return nil, errUsage
			}
			idx, err := parseIndex(args[0], "character")
			if err != nil {
				return nil, err
			}
			x, errX := strconv.Atoi(args[1])
			y, errY := strconv.Atoi(args[2])
			if errX != nil || errY != nil {
				return nil, fmt.Errorf("coordinates must be whole numbers, got %q %q", args[1], args[2])
			}
			return combat.MoveToAction{Player: idx, Dest: grid.Coordinate{X: x, Y: y}}, nil
		},
	},
	{
		name: "attack", aliases: []string{"a", "atk", "hit"},
		usage: "attack <character> <enemy letter>",
		help:  "attack an adjacent enemy",
		parse: func(args []string) (combat.Action, error) {
			if len(args) != 2 {
				return nil, errUsage
			}
			idx, err := parseIndex(args[0], "character")
			if err != nil {
				return nil, err
			}
			target, err := parseEnemy(args[1])
			if err != nil {
				return nil, err
			}
			return combat.AttackAction{Player: idx, Enemy: target}, nil
		},
	},
	{
		name: "skill", aliases: []string{"use", "sk"},
		usage: "skill <character>",
		help:  "use the character's active skill",
		parse: func(args []string) (combat.Action, error) {
			if len(args) != 1 {
				return nil, errUsage
			}
			idx, err := parseIndex(args[0], "character")
			if err != nil {
				return nil, err
			}
			return combat.SkillAction{Player: idx}, nil
		},
	},
	{
		name: "end", aliases: []string{"done", "pass"},
		usage: "end",
		help:  "end your turn; the enemies act",
		parse: func(args []string) (combat.Action, error) {
			if len(args) != 0 {
				return nil, errUsage
			}
			return combat.EndTurnAction{}, nil
		},
	},
	{name: "status", aliases: []string{"st", "look", "l"}, usage: "status", help: "show the battlefield", meta: MetaStatus},
	{name: "log", aliases: []string{"history"}, usage: "log", help: "show recent actions", meta: MetaLog},
	{name: "help", aliases: []string{"h", "?"}, usage: "help", help: "list commands", meta: MetaHelp},
	{name: "quit", aliases: []string{"q", "exit"}, usage: "quit", help: "abandon the battle", meta: MetaQuit},
}

var errUsage = errors.New("wrong number of arguments")

var commandIndex = buildIndex(commands)

// buildIndex maps every name and alias to its command.
//
// Postcondition: Panics on a name or alias collision.
func buildIndex(cmds []command) map[string]*command {
	idx := make(map[string]*command)
	for i := range cmds {
		c := &cmds[i]
		for _, word := range append([]string{c.name}, c.aliases...) {
			if prev, exists := idx[word]; exists {
				panic(fmt.Sprintf("command word %q used by both %q and %q", word, prev.name, c.name))
			}
			idx[word] = c
		}
	}
	return idx
}

// ParseAction turns one line of player input into a battle action or a meta
// command. Characters are numbered from 1 and enemies lettered from a, as
// shown by Render.
//
// Postcondition: Exactly one of action and meta is set when err is nil. An
// empty line returns (nil, MetaNone, nil).
func ParseAction(line string) (combat.Action, Meta, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, MetaNone, nil
	}
	word := strings.ToLower(fields[0])
	c, ok := commandIndex[word]
	if !ok {
		return nil, MetaNone, fmt.Errorf("%w %q (try help)", ErrUnknownCommand, word)
	}
	if c.meta != MetaNone {
		return nil, c.meta, nil
	}
	a, err := c.parse(fields[1:])
	if errors.Is(err, errUsage) {
		return nil, MetaNone, fmt.Errorf("usage: %s", c.usage)
	}
	if err != nil {
		return nil, MetaNone, fmt.Errorf("%s: %w", c.name, err)
	}
	return a, MetaNone, nil
}

func parseIndex(s, what string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a number from 1, got %q", what, s)
	}
	return n - 1, nil
}

// parseEnemy accepts the board letter (a, b, ...) or a number from 1.
func parseEnemy(s string) (int, error) {
	if len(s) == 1 && s[0] >= 'a' && s[0] <= 'z' {
		return int(s[0] - 'a'), nil
	}
	return parseIndex(s, "enemy")
}

// Help lists every command with its aliases.
func Help() string {
	var sb strings.Builder
	for _, c := range commands {
		fmt.Fprintf(&sb, "  %-28s %s", c.usage, c.help)
		if len(c.aliases) > 0 {
			fmt.Fprintf(&sb, " (%s)", strings.Join(c.aliases, ", "))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
