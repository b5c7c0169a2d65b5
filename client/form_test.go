package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type note struct {
	ID    int64
	Title string
}

type noteData struct {
	Title string
}

type fakeBackend struct {
	created []noteData
	updated map[int64]noteData
	err     error
	// gate, when set, blocks each call until it is closed.
	gate    chan struct{}
	started chan struct{}
}

func (b *fakeBackend) wait() {
	if b.started != nil {
		b.started <- struct{}{}
	}
	if b.gate != nil {
		<-b.gate
	}
}

func newNoteForm(b *fakeBackend, logger *zap.Logger) *Form[noteData, note] {
	return NewForm(FormConfig[noteData, note]{
		Defaults: func() noteData { return noteData{} },
		Seed: func(n note) (int64, noteData) {
			return n.ID, noteData{Title: n.Title}
		},
		Check: func(d noteData) map[string]string {
			if d.Title == "" {
				return map[string]string{"title": "The title field is required."}
			}
			return nil
		},
		Create: func(_ context.Context, d noteData) (note, error) {
			b.wait()
			if b.err != nil {
				return note{}, b.err
			}
			b.created = append(b.created, d)
			return note{ID: int64(len(b.created)), Title: d.Title}, nil
		},
		Update: func(_ context.Context, id int64, d noteData) (note, error) {
			b.wait()
			if b.err != nil {
				return note{}, b.err
			}
			if b.updated == nil {
				b.updated = map[int64]noteData{}
			}
			b.updated[id] = d
			return note{ID: id, Title: d.Title}, nil
		},
		Logger: logger,
	})
}

func setTitle(f *Form[noteData, note], title string) {
	f.set("title", func(d *noteData) { d.Title = title })
}

func TestForm_SubmitClosed(t *testing.T) {
	f := newNoteForm(&fakeBackend{}, zap.NewNop())

	assert.Equal(t, StateClosed, f.State())
	assert.ErrorIs(t, f.Submit(context.Background(), nil), ErrFormClosed)
}

func TestForm_CreateSuccess(t *testing.T) {
	b := &fakeBackend{}
	f := newNoteForm(b, zap.NewNop())

	f.OpenCreate()
	setTitle(f, "Groceries")

	var got note
	require.NoError(t, f.Submit(context.Background(), func(n note) { got = n }))

	assert.Equal(t, note{ID: 1, Title: "Groceries"}, got)
	assert.Equal(t, StateClosed, f.State())
	assert.Equal(t, noteData{}, f.Data())
}

func TestForm_EditSeedsAndUpdates(t *testing.T) {
	b := &fakeBackend{}
	f := newNoteForm(b, zap.NewNop())

	f.OpenEdit(note{ID: 7, Title: "Old"})
	assert.Equal(t, ModeEdit, f.Mode())
	assert.Equal(t, "Old", f.Data().Title)

	setTitle(f, "New")
	require.NoError(t, f.Submit(context.Background(), nil))

	assert.Equal(t, noteData{Title: "New"}, b.updated[7])
	assert.Empty(t, b.created)
}

func TestForm_PreValidationBlocksRequest(t *testing.T) {
	b := &fakeBackend{}
	f := newNoteForm(b, zap.NewNop())
	f.OpenCreate()

	err := f.Submit(context.Background(), nil)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "The title field is required.", verr.First("title"))
	assert.Equal(t, "The title field is required.", f.Error("title"))
	assert.Equal(t, StateOpen, f.State())
	assert.Empty(t, b.created)
}

func TestForm_EditingFieldClearsItsError(t *testing.T) {
	f := newNoteForm(&fakeBackend{}, zap.NewNop())
	f.OpenCreate()
	_ = f.Submit(context.Background(), nil)
	require.NotEmpty(t, f.Error("title"))

	setTitle(f, "x")

	assert.Empty(t, f.Errors())
}

func TestForm_ServerValidationErrors(t *testing.T) {
	b := &fakeBackend{err: &ValidationError{
		Message: "The given data was invalid.",
		Fields:  map[string][]string{"title": {"The name has already been taken.", "second"}},
	}}
	f := newNoteForm(b, zap.NewNop())
	f.OpenCreate()
	setTitle(f, "Dup")

	err := f.Submit(context.Background(), func(note) { t.Fatal("onSuccess must not run") })

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"title": "The name has already been taken."}, f.Errors())
	assert.Empty(t, f.GenericError())
	assert.Equal(t, StateOpen, f.State())
	assert.Equal(t, "Dup", f.Data().Title)
}

func TestForm_OtherFailureSetsGenericErrorAndLogs(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	b := &fakeBackend{err: &TransportError{Status: 500, Message: "boom"}}
	f := newNoteForm(b, zap.New(core))
	f.OpenCreate()
	setTitle(f, "x")

	err := f.Submit(context.Background(), nil)

	require.Error(t, err)
	assert.Equal(t, GenericErrorMessage, f.GenericError())
	assert.Empty(t, f.Errors())
	assert.Equal(t, StateOpen, f.State())
	assert.Equal(t, 1, logs.FilterMessage("Form submission failed").Len())
}

func TestForm_RejectsSecondSubmitWhileInFlight(t *testing.T) {
	b := &fakeBackend{gate: make(chan struct{}), started: make(chan struct{}, 1)}
	f := newNoteForm(b, zap.NewNop())
	f.OpenCreate()
	setTitle(f, "once")

	done := make(chan error, 1)
	go func() { done <- f.Submit(context.Background(), nil) }()

	select {
	case <-b.started:
	case <-time.After(time.Second):
		t.Fatal("submission did not start")
	}
	assert.Equal(t, StateSubmitting, f.State())
	assert.ErrorIs(t, f.Submit(context.Background(), nil), ErrSubmitInFlight)

	close(b.gate)
	require.NoError(t, <-done)
	assert.Len(t, b.created, 1)
}

func TestForm_StaleResultDoesNotTouchReopenedForm(t *testing.T) {
	b := &fakeBackend{
		err:     errors.New("network down"),
		gate:    make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	f := newNoteForm(b, zap.NewNop())
	f.OpenCreate()
	setTitle(f, "first")

	done := make(chan error, 1)
	go func() { done <- f.Submit(context.Background(), nil) }()
	<-b.started

	f.Close()
	f.OpenEdit(note{ID: 3, Title: "other"})
	close(b.gate)
	require.Error(t, <-done)

	assert.Equal(t, StateOpen, f.State())
	assert.Equal(t, ModeEdit, f.Mode())
	assert.Empty(t, f.GenericError())
	assert.Equal(t, "other", f.Data().Title)
}
