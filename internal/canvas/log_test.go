package canvas

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwrk-planet/canvas-service/internal/domain"
)

func stroke(id, userID string) domain.Stroke {
	return domain.Stroke{
		ID:     id,
		UserID: userID,
		Path:   []domain.Point{{X: 1, Y: 1}},
		Tool:   domain.ToolBrush,
		Size:   4,
	}
}

func TestAppendEvictsOldestAboveCap(t *testing.T) {
	t.Parallel()

	l := NewLog(5)
	for i := 0; i < 8; i++ {
		l.Append("global", stroke(fmt.Sprintf("s%d", i), "u1"))
	}

	got := l.Get("global")
	require.Len(t, got, 5)
	// выживают ровно последние cap штрихов, в порядке вставки
	for i, s := range got {
		assert.Equal(t, fmt.Sprintf("s%d", i+3), s.ID)
	}
}

func TestCapScenarioTenThousand(t *testing.T) {
	t.Parallel()

	l := NewLog(DefaultMaxStrokes)
	for i := 0; i < DefaultMaxStrokes+1; i++ {
		l.Append("global", stroke(fmt.Sprintf("s%d", i), "u1"))
	}

	got := l.Get("global")
	require.Len(t, got, DefaultMaxStrokes)
	assert.Equal(t, "s1", got[0].ID, "самый первый штрих должен быть вытеснен")
}

func TestRemoveByID(t *testing.T) {
	t.Parallel()

	l := NewLog(0)
	l.Append("global", stroke("s1", "u1"))
	l.Append("global", stroke("s2", "u2"))

	assert.True(t, l.RemoveByID("global", "s1"))
	for _, s := range l.Get("global") {
		assert.NotEqual(t, "s1", s.ID)
	}

	// неизвестный id / комната — no-op, лог не меняется
	assert.False(t, l.RemoveByID("global", "s1"))
	assert.False(t, l.RemoveByID("nowhere", "s2"))
	assert.Len(t, l.Get("global"), 1)
}

func TestRemoveByAuthorKeepsOthersInOrder(t *testing.T) {
	t.Parallel()

	l := NewLog(0)
	l.Append("global", stroke("a1", "alice"))
	l.Append("global", stroke("b1", "bob"))
	l.Append("global", stroke("a2", "alice"))
	l.Append("global", stroke("b2", "bob"))
	l.Append("global", stroke("a3", "alice"))

	assert.Equal(t, 3, l.RemoveByAuthor("global", "alice"))

	got := l.Get("global")
	require.Len(t, got, 2)
	assert.Equal(t, "b1", got[0].ID)
	assert.Equal(t, "b2", got[1].ID)

	assert.Equal(t, 0, l.RemoveByAuthor("nowhere", "alice"))
}

func TestClearKeepsRoomDropRemovesIt(t *testing.T) {
	t.Parallel()

	l := NewLog(0)
	l.Append("global", stroke("s1", "u1"))

	l.Clear("global")
	assert.Empty(t, l.Get("global"))
	_, ok := l.Snapshot("global")
	assert.True(t, ok, "Clear оставляет запись комнаты")

	l.DropRoom("global")
	_, ok = l.Snapshot("global")
	assert.False(t, ok, "DropRoom убирает комнату целиком")
}

func TestGetUnknownRoomIsEmptyNotNil(t *testing.T) {
	t.Parallel()

	l := NewLog(0)
	got := l.Get("nowhere")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	t.Parallel()

	l := NewLog(0)
	l.Append("global", stroke("s1", "u1"))
	l.Append("global", stroke("s2", "u2"))
	l.Append("global", stroke("s3", "u1"))

	snap, ok := l.Snapshot("global")
	require.True(t, ok)
	assert.Equal(t, "global", snap.RoomID)
	assert.False(t, snap.ExportedAt.IsZero())

	l.Clear("global")
	require.Empty(t, l.Get("global"))

	require.NoError(t, l.Restore(snap))
	got := l.Get("global")
	require.Len(t, got, 3)
	for i, id := range []string{"s1", "s2", "s3"} {
		assert.Equal(t, id, got[i].ID)
	}
}

func TestRestoreRequiresRoomID(t *testing.T) {
	t.Parallel()

	l := NewLog(0)
	err := l.Restore(Snapshot{Strokes: []domain.Stroke{stroke("s1", "u1")}})
	assert.ErrorIs(t, err, domain.ErrInvalidSnapshot)
}

func TestStatsPerRoomAndAuthor(t *testing.T) {
	t.Parallel()

	l := NewLog(0)
	l.Append("global", stroke("s1", "alice"))
	l.Append("global", stroke("s2", "alice"))
	l.Append("global", stroke("s3", "bob"))
	l.Append("other", stroke("s4", "carol"))

	st := l.Stats()
	require.Contains(t, st, "global")
	assert.Equal(t, 3, st["global"].Strokes)
	assert.Equal(t, 2, st["global"].ByAuthor["alice"])
	assert.Equal(t, 1, st["global"].ByAuthor["bob"])
	assert.Equal(t, 1, st["other"].Strokes)
}
