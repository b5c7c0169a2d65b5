package client

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

type State int

const (
	StateClosed State = iota
	StateOpen
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateSubmitting:
		return "submitting"
	}
	return "closed"
}

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// GenericErrorMessage is shown when a submission fails for any reason other
// than validation.
const GenericErrorMessage = "Something went wrong while saving. Please try again."

// FormConfig describes one entity's form: its blank state, how an entity
// seeds it, what is checked locally and how it is submitted.
type FormConfig[D any, E any] struct {
	Defaults func() D
	Seed     func(E) (int64, D)
	// Check mirrors a subset of the server rules. It is advisory; the
	// server validates again.
	Check  func(D) map[string]string
	Create func(ctx context.Context, data D) (E, error)
	Update func(ctx context.Context, id int64, data D) (E, error)
	Logger *zap.Logger
}

// Form is a modal form: closed, open in create or edit mode, or submitting.
// Field errors are kept one message per field.
type Form[D any, E any] struct {
	cfg FormConfig[D, E]

	mu      sync.Mutex
	state   State
	mode    Mode
	id      int64
	data    D
	errors  map[string]string
	generic string
	// gen changes whenever the form is opened or closed, so a submission
	// that resolves afterwards does not touch the new state.
	gen uint64
}

func NewForm[D any, E any](cfg FormConfig[D, E]) *Form[D, E] {
	if cfg.Logger == nil {
		cfg.Logger = zap.L()
	}
	return &Form[D, E]{
		cfg:    cfg,
		data:   cfg.Defaults(),
		errors: map[string]string{},
	}
}

func (f *Form[D, E]) OpenCreate() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.reset(ModeCreate, 0, f.cfg.Defaults())
}

func (f *Form[D, E]) OpenEdit(entity E) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id, data := f.cfg.Seed(entity)
	f.reset(ModeEdit, id, data)
}

func (f *Form[D, E]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.gen++
	f.state = StateClosed
}

func (f *Form[D, E]) reset(mode Mode, id int64, data D) {
	f.gen++
	f.state = StateOpen
	f.mode = mode
	f.id = id
	f.data = data
	f.errors = map[string]string{}
	f.generic = ""
}

func (f *Form[D, E]) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form[D, E]) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

func (f *Form[D, E]) Data() D {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data
}

// Errors returns a copy of the visible field errors.
func (f *Form[D, E]) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

func (f *Form[D, E]) Error(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors[field]
}

func (f *Form[D, E]) GenericError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.generic
}

// set applies a change to one field and clears that field's error.
func (f *Form[D, E]) set(field string, change func(*D)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	change(&f.data)
	delete(f.errors, field)
}

// Submit runs the local checks, then creates or updates. On success the form
// closes and onSuccess receives the saved entity. A validation failure keeps
// the form open with field errors; any other failure keeps it open with the
// generic error.
func (f *Form[D, E]) Submit(ctx context.Context, onSuccess func(E)) error {
	f.mu.Lock()
	switch f.state {
	case StateClosed:
		f.mu.Unlock()
		return ErrFormClosed
	case StateSubmitting:
		f.mu.Unlock()
		return ErrSubmitInFlight
	}

	if f.cfg.Check != nil {
		if errs := f.cfg.Check(f.data); len(errs) > 0 {
			f.errors = errs
			f.mu.Unlock()
			return localValidationError(errs)
		}
	}

	f.state = StateSubmitting
	f.generic = ""
	gen, mode, id, data := f.gen, f.mode, f.id, f.data
	f.mu.Unlock()

	var saved E
	var err error
	if mode == ModeEdit {
		saved, err = f.cfg.Update(ctx, id, data)
	} else {
		saved, err = f.cfg.Create(ctx, data)
	}

	f.mu.Lock()
	current := f.gen == gen
	if err == nil {
		if current {
			f.state = StateClosed
			f.errors = map[string]string{}
			f.data = f.cfg.Defaults()
		}
		f.mu.Unlock()

		if onSuccess != nil {
			onSuccess(saved)
		}
		return nil
	}

	var verr *ValidationError
	isValidation := errors.As(err, &verr)
	if current {
		f.state = StateOpen
		if isValidation {
			f.errors = firstMessages(verr.Fields)
		} else {
			f.generic = GenericErrorMessage
		}
	}
	f.mu.Unlock()

	if !isValidation {
		f.cfg.Logger.Error("Form submission failed", zap.Error(err))
	}
	return err
}

func firstMessages(fields map[string][]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, msgs := range fields {
		if len(msgs) > 0 {
			out[k] = msgs[0]
		}
	}
	return out
}

func localValidationError(errs map[string]string) *ValidationError {
	fields := make(map[string][]string, len(errs))
	for k, v := range errs {
		fields[k] = []string{v}
	}
	return &ValidationError{Message: "The given data was invalid.", Fields: fields}
}
