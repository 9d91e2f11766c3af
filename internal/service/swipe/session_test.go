package swipe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/tractor-swipe/backend/internal/model/match"
)

type fakeStore struct {
	items []match.Match
	err   error
}

func (f *fakeStore) Append(_ context.Context, m match.Match) error {
	f.items = append(f.items, m)
	return f.err
}

func (f *fakeStore) Count() int { return len(f.items) }

type recorder struct {
	got []Notification
}

func (r *recorder) Notify(n Notification) { r.got = append(r.got, n) }

// newTestSession builds a session over the unshuffled deck A, B, C.
func newTestSession(store MatchStore, samples ...float64) (*Session, *recorder) {
	rec := &recorder{}
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return NewSession(SessionConfig{
		ID:       "s-1",
		Deck:     Deck{cards: cards("A", "B", "C")},
		Matches:  store,
		Random:   &scripted{floats: samples},
		Notifier: rec,
		Now:      func() time.Time { return fixed },
	}), rec
}

func TestSessionAcceptWithMatch(t *testing.T) {
	store := &fakeStore{}
	sess, rec := newTestSession(store, 0.1)

	turn, err := sess.Handle(context.Background(), Input{Direction: DirectionPrev})
	require.NoError(t, err)

	assert.Equal(t, Accept, turn.Decision)
	assert.Equal(t, Matched, turn.Outcome)
	require.Len(t, store.items, 1)
	assert.Equal(t, "A", store.items[0].Profile.Name)
	assert.NotEmpty(t, store.items[0].ID)
	assert.Empty(t, store.items[0].Messages)
	assert.Equal(t, 1, sess.State().Cursor)
	assert.True(t, sess.State().PopupOpen)
	require.Len(t, rec.got, 1)
	assert.Equal(t, NoticeSuccess, rec.got[0].Kind)
	assert.Equal(t, store.items[0].ID, rec.got[0].MatchID)
	assert.Equal(t, 1, sess.MatchCount())
}

func TestSessionRejectLeavesStoreUntouched(t *testing.T) {
	store := &fakeStore{}
	sess, rec := newTestSession(store, 0.1)

	turn, err := sess.Handle(context.Background(), Input{Direction: DirectionNext})
	require.NoError(t, err)

	assert.Equal(t, Reject, turn.Decision)
	assert.Equal(t, NotResolved, turn.Outcome)
	assert.Empty(t, store.items)
	assert.Equal(t, 1, sess.State().Cursor)
	require.Len(t, rec.got, 1)
	assert.Equal(t, NoticeError, rec.got[0].Kind)
	assert.Equal(t, MessageRejected, rec.got[0].Message)
}

func TestSessionAcceptWithoutMatch(t *testing.T) {
	store := &fakeStore{}
	sess, rec := newTestSession(store, 0.95)

	turn, err := sess.Handle(context.Background(), Input{Button: ButtonAccept})
	require.NoError(t, err)

	assert.Equal(t, NotMatched, turn.Outcome)
	assert.Empty(t, store.items)
	assert.False(t, sess.State().PopupOpen)
	require.Len(t, rec.got, 1)
	assert.Equal(t, NoticeInfo, rec.got[0].Kind)
	assert.Equal(t, MessageNotMatched, rec.got[0].Message)
}

func TestSessionPersistFailureWarnsAndContinues(t *testing.T) {
	store := &fakeStore{err: errors.New("quota exceeded")}
	sess, rec := newTestSession(store, 0.1)

	turn, err := sess.Handle(context.Background(), Input{Direction: DirectionPrev})
	require.NoError(t, err)

	require.NotNil(t, turn.Match)
	require.Len(t, rec.got, 2)
	assert.Equal(t, NoticeSuccess, rec.got[0].Kind)
	assert.Equal(t, NoticeWarning, rec.got[1].Kind)

	_, err = sess.Handle(context.Background(), Input{Direction: DirectionNext})
	assert.NoError(t, err)
	assert.Equal(t, 2, sess.State().Cursor)
}

func TestSessionIgnoresGesturesAfterLastCard(t *testing.T) {
	store := &fakeStore{}
	sess, rec := newTestSession(store, 0.1)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := sess.Handle(ctx, Input{Direction: DirectionPrev})
		require.NoError(t, err)
	}
	require.Len(t, store.items, 3)
	require.True(t, sess.State().Exhausted)

	turn, err := sess.Handle(ctx, Input{Direction: DirectionPrev})
	require.NoError(t, err)
	assert.True(t, turn.Ignored)
	assert.Len(t, store.items, 3)
	assert.Len(t, rec.got, 3)
	assert.Equal(t, 2, turn.State.Cursor)
}

func TestSessionUnknownGesture(t *testing.T) {
	sess, rec := newTestSession(&fakeStore{})

	_, err := sess.Handle(context.Background(), Input{Direction: "sideways"})
	assert.ErrorIs(t, err, ErrUnknownGesture)
	assert.Equal(t, 0, sess.State().Cursor)
	assert.Empty(t, rec.got)
}

func TestSessionSetNotifier(t *testing.T) {
	sess, first := newTestSession(&fakeStore{}, 0.9)
	second := &recorder{}
	sess.SetNotifier(second)

	_, err := sess.Handle(context.Background(), Input{Direction: DirectionNext})
	require.NoError(t, err)
	assert.Empty(t, first.got)
	assert.Len(t, second.got, 1)

	sess.SetNotifier(nil)
	_, err = sess.Handle(context.Background(), Input{Direction: DirectionNext})
	assert.NoError(t, err)
}

func TestSessionStaleDetachKeepsNewerNotifier(t *testing.T) {
	sess, _ := newTestSession(&fakeStore{}, 0.1)
	first, second := &recorder{}, &recorder{}

	detachFirst := sess.AttachNotifier(first)
	detachSecond := sess.AttachNotifier(second)
	detachFirst()

	_, err := sess.Handle(context.Background(), Input{Button: ButtonReject})
	require.NoError(t, err)
	assert.Empty(t, first.got)
	require.Len(t, second.got, 1)

	detachSecond()
	_, err = sess.Handle(context.Background(), Input{Button: ButtonReject})
	require.NoError(t, err)
	assert.Len(t, second.got, 1)
}
