package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/gridtactics/internal/content"
)

// ErrPlayerNotFound is returned when no player matches the lookup.
var ErrPlayerNotFound = errors.New("player not found")

// ErrPlayerExists is returned when a player name is already taken.
var ErrPlayerExists = errors.New("player already exists")

// Player is a persisted player who owns a roster.
type Player struct {
	ID   int64
	Name string
}

// RosterRepository stores each player's ordered party of loadouts.
type RosterRepository struct {
	db *pgxpool.Pool
}

// NewRosterRepository creates a RosterRepository backed by db.
func NewRosterRepository(db *pgxpool.Pool) *RosterRepository {
	return &RosterRepository{db: db}
}

// CreatePlayer inserts a new player.
//
// Precondition: name must be non-empty after trimming.
// Postcondition: Returns the stored Player, or ErrPlayerExists.
func (r *RosterRepository) CreatePlayer(ctx context.Context, name string) (Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Player{}, errors.New("player name must not be empty")
	}
	p := Player{Name: name}
	err := r.db.QueryRow(ctx,
		`INSERT INTO players (name) VALUES ($1) RETURNING id`, name,
	).Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return Player{}, fmt.Errorf("%q: %w", name, ErrPlayerExists)
		}
		return Player{}, fmt.Errorf("creating player: %w", err)
	}
	return p, nil
}

// PlayerByName looks a player up by name.
//
// Postcondition: Returns the Player or ErrPlayerNotFound.
func (r *RosterRepository) PlayerByName(ctx context.Context, name string) (Player, error) {
	var p Player
	err := r.db.QueryRow(ctx,
		`SELECT id, name FROM players WHERE name = $1`, strings.TrimSpace(name),
	).Scan(&p.ID, &p.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return Player{}, fmt.Errorf("%q: %w", name, ErrPlayerNotFound)
	}
	if err != nil {
		return Player{}, fmt.Errorf("querying player: %w", err)
	}
	return p, nil
}

// LoadRoster returns the player's loadouts in slot order. A player with no
// saved roster yields an empty slice.
func (r *RosterRepository) LoadRoster(ctx context.Context, playerID int64) ([]content.Loadout, error) {
	rows, err := r.db.Query(ctx, `
		SELECT character_id, COALESCE(weapon_id, ''), COALESCE(artefact_id, '')
		FROM roster_slots
		WHERE player_id = $1
		ORDER BY slot`, playerID)
	if err != nil {
		return nil, fmt.Errorf("querying roster: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (content.Loadout, error) {
		var l content.Loadout
		err := row.Scan(&l.Character, &l.Weapon, &l.Artefact)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning roster: %w", err)
	}
	return out, nil
}

// SaveRoster replaces the player's roster with loadouts, in order, within a
// single transaction.
//
// Precondition: every loadout names a character.
// Postcondition: LoadRoster returns loadouts; on error the previous roster is kept.
func (r *RosterRepository) SaveRoster(ctx context.Context, playerID int64, loadouts []content.Loadout) error {
	for i, l := range loadouts {
		if l.Character == "" {
			return fmt.Errorf("roster slot %d: character must not be empty", i)
		}
	}
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM roster_slots WHERE player_id = $1`, playerID); err != nil {
			return fmt.Errorf("clearing roster: %w", err)
		}
		batch := &pgx.Batch{}
		for i, l := range loadouts {
			batch.Queue(`
				INSERT INTO roster_slots (player_id, slot, character_id, weapon_id, artefact_id)
				VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))`,
				playerID, i, l.Character, l.Weapon, l.Artefact)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("player %d: %w", playerID, ErrPlayerNotFound)
			}
			return fmt.Errorf("saving roster: %w", err)
		}
		return nil
	})
}
