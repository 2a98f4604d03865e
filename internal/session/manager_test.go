package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/gridtactics/internal/game/combat"
	"github.com/cory-johannsen/gridtactics/internal/game/grid"
	"github.com/cory-johannsen/gridtactics/internal/game/stats"
	"github.com/cory-johannsen/gridtactics/internal/session"
	sessionmock "github.com/cory-johannsen/gridtactics/internal/session/mock"
)

// duel builds an uninitialised one-on-one battle where the hero kills the
// rat with a single blow.
func duel(t *testing.T, rows ...string) *combat.Battle {
	t.Helper()
	if len(rows) == 0 {
		rows = []string{"PE"}
	}
	hero := combat.NewCharacter(combat.Entity{
		Name:          "hero",
		MovementRange: 2,
		Stats:         stats.Block{PrimaryHealth: stats.Flat(30), PhysicalAttack: stats.Flat(50)},
	}, nil, nil)
	rat := combat.NewEnemy(combat.Entity{
		Name:          "rat",
		MovementRange: 1,
		Stats:         stats.Block{PrimaryHealth: stats.Flat(10), PhysicalAttack: stats.Flat(1)},
	}, "")
	tiles, err := grid.ParseRows(rows)
	require.NoError(t, err)
	field, err := grid.NewBattlefield("arena", "", tiles)
	require.NoError(t, err)
	b, err := combat.NewBattle([]*combat.Character{hero}, []*combat.Enemy{rat}, field, nil, nil)
	require.NoError(t, err)
	return b
}

func TestManager_StartInitialises(t *testing.T) {
	m := session.NewManager(0, nil, nil)
	s, err := m.Start("arena", duel(t), nil)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.Equal(t, 1, m.Count())
	got, ok := m.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)

	st := s.Status()
	assert.Equal(t, 1, st.Round)
	assert.Equal(t, combat.PhasePlayer, st.Phase)
	assert.Equal(t, "Defeat all enemies", st.Goal)
}

func TestManager_StartRejectsBadBattle(t *testing.T) {
	m := session.NewManager(0, nil, nil)
	_, err := m.Start("arena", duel(t, "P.."), nil)
	assert.Error(t, err)
	assert.Equal(t, 0, m.Count())
}

func TestManager_ResolutionRecordsResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	rec := sessionmock.NewMockResultRecorder(ctrl)
	m := session.NewManager(time.Minute, rec, nil)
	s, err := m.Start("arena", duel(t), combat.Standard{})
	require.NoError(t, err)

	rec.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, r session.Result) error {
		assert.Equal(t, s.ID.String(), r.SessionID)
		assert.Equal(t, "arena", r.Battlefield)
		assert.Equal(t, "victory", r.Outcome)
		assert.Equal(t, 1, r.Rounds)
		assert.Equal(t, []string{"hero"}, r.Players)
		assert.Equal(t, 1, r.Survivors)
		assert.False(t, r.FinishedAt.Before(r.StartedAt))
		return nil
	})

	entries, err := m.Apply(context.Background(), s.ID, combat.AttackAction{Player: 0, Enemy: 0})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, combat.KindKilled, entries[0].Kind)

	select {
	case <-s.Done():
	default:
		t.Fatal("session not done after resolution")
	}
	assert.False(t, s.Abandoned())
	assert.Equal(t, 0, m.Count())
	assert.Equal(t, combat.OutcomeVictory, s.Status().Outcome)

	_, err = m.Apply(context.Background(), s.ID, combat.EndTurnAction{})
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestManager_RecorderFailureIsReported(t *testing.T) {
	ctrl := gomock.NewController(t)
	rec := sessionmock.NewMockResultRecorder(ctrl)
	boom := errors.New("store down")
	rec.EXPECT().Record(gomock.Any(), gomock.Any()).Return(boom)

	core, logs := observer.New(zapcore.WarnLevel)
	m := session.NewManager(0, rec, zap.New(core))
	s, err := m.Start("arena", duel(t), nil)
	require.NoError(t, err)

	_, err = m.Apply(context.Background(), s.ID, combat.AttackAction{Player: 0, Enemy: 0})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, logs.FilterMessage("recording battle result failed").Len())
}

func TestManager_IllegalActionKeepsSession(t *testing.T) {
	m := session.NewManager(0, nil, nil)
	s, err := m.Start("arena", duel(t, "P.E"), nil)
	require.NoError(t, err)

	_, err = m.Apply(context.Background(), s.ID, combat.AttackAction{Player: 0, Enemy: 0})
	assert.ErrorIs(t, err, combat.ErrNotAdjacent)
	_, err = m.Apply(context.Background(), s.ID, combat.MoveAction{Player: 0, Dir: grid.Left})
	assert.ErrorIs(t, err, combat.ErrOutOfBounds)
	assert.Equal(t, 1, m.Count())
}

func TestManager_UnknownSession(t *testing.T) {
	m := session.NewManager(0, nil, nil)
	_, err := m.Apply(context.Background(), uuid.New(), combat.EndTurnAction{})
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
	assert.ErrorIs(t, m.Abandon(uuid.New()), session.ErrSessionNotFound)
}

func TestManager_IdleSessionIsAbandoned(t *testing.T) {
	ctrl := gomock.NewController(t)
	rec := sessionmock.NewMockResultRecorder(ctrl)
	core, logs := observer.New(zapcore.InfoLevel)
	m := session.NewManager(20*time.Millisecond, rec, zap.New(core))
	s, err := m.Start("arena", duel(t), nil)
	require.NoError(t, err)

	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("idle session was not abandoned")
	}
	assert.True(t, s.Abandoned())
	assert.Equal(t, 0, m.Count())
	assert.Equal(t, combat.OutcomeNone, s.Status().Outcome)
	assert.Eventually(t, func() bool { return logs.FilterMessage("session abandoned").Len() == 1 }, time.Second, 5*time.Millisecond)
}

func TestManager_ImmediateIdleStillAbandons(t *testing.T) {
	m := session.NewManager(time.Nanosecond, nil, nil)
	for i := 0; i < 20; i++ {
		s, err := m.Start("arena", duel(t), nil)
		require.NoError(t, err)
		select {
		case <-s.Done():
		case <-time.After(2 * time.Second):
			t.Fatalf("session %d was not abandoned", i)
		}
		assert.True(t, s.Abandoned())
	}
	assert.Eventually(t, func() bool { return m.Count() == 0 }, time.Second, 5*time.Millisecond)
}

func TestManager_ActivityPostponesAbandonment(t *testing.T) {
	m := session.NewManager(60*time.Millisecond, nil, nil)
	s, err := m.Start("arena", duel(t, "P.E"), nil)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		time.Sleep(20 * time.Millisecond)
		_, err := m.Apply(context.Background(), s.ID, combat.EndTurnAction{})
		require.NoError(t, err)
	}
	assert.False(t, s.Abandoned())
	assert.Equal(t, 6, s.Status().Round)
	m.Close()
}

func TestManager_AbandonAndClose(t *testing.T) {
	m := session.NewManager(time.Hour, nil, nil)
	a, err := m.Start("arena", duel(t), nil)
	require.NoError(t, err)
	b, err := m.Start("arena", duel(t), nil)
	require.NoError(t, err)

	require.NoError(t, m.Abandon(a.ID))
	assert.ErrorIs(t, m.Abandon(a.ID), session.ErrSessionNotFound)
	assert.True(t, a.Abandoned())
	assert.Equal(t, 1, m.Count())

	m.Close()
	assert.Equal(t, 0, m.Count())
	assert.True(t, b.Abandoned())
}

func TestManager_DoRunsSeveralActions(t *testing.T) {
	m := session.NewManager(0, nil, nil)
	s, err := m.Start("arena", duel(t, "P..E"), nil)
	require.NoError(t, err)

	err = m.Do(context.Background(), s.ID, func(b *combat.Battle, obj combat.Objective) error {
		if _, err := b.Apply(combat.MoveAction{Player: 0, Dir: grid.Right}, obj); err != nil {
			return err
		}
		if _, err := b.Apply(combat.MoveAction{Player: 0, Dir: grid.Right}, obj); err != nil {
			return err
		}
		_, err := b.Apply(combat.AttackAction{Player: 0, Enemy: 0}, obj)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 0, m.Count())
}

func TestManager_ConcurrentActions(t *testing.T) {
	m := session.NewManager(time.Minute, nil, nil)
	s, err := m.Start("arena", duel(t, "P#E"), nil)
	require.NoError(t, err)

	const workers = 8
	const perWorker = 25
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := m.Apply(context.Background(), s.ID, combat.EndTurnAction{})
				assert.NoError(t, err)
				_ = s.Status()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1+workers*perWorker, s.Status().Round)
	m.Close()
}
