// internal/wizard/session.go
package wizard

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "listing-wizard/internal/common/errors"
	"listing-wizard/internal/common/logger"
	"listing-wizard/internal/models"
)

const (
	msgNotAtReview   = "Please review your details before submitting"
	msgIncomplete    = "Please complete all required fields before submitting"
	msgSubmitDefault = "Submission failed. Please try again."
)

// Submitter delivers the assembled sections to the remote endpoint.
type Submitter[S any] interface {
	Submit(ctx context.Context, sections S) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc[S any] func(ctx context.Context, sections S) error

func (f SubmitterFunc[S]) Submit(ctx context.Context, sections S) error {
	return f(ctx, sections)
}

// Recorder observes session events. Implementations must not block for long
// and must swallow their own failures.
type Recorder interface {
	Record(ctx context.Context, e models.WizardEvent)
}

// Options carries the per-session collaborators.
type Options struct {
	SessionID string
	UserID    string
	Logger    logger.Logger
	Recorders []Recorder
}

// View is a read-only snapshot of a session for the presentation layer.
type View[S any] struct {
	Flow        string      `json:"flow"`
	SessionID   string      `json:"sessionId"`
	Position    Position    `json:"position"`
	Screen      string      `json:"screen"`
	Steps       int         `json:"steps"`
	CanProceed  bool        `json:"canProceed"`
	IsTerminal  bool        `json:"isTerminal"`
	Submitting  bool        `json:"submitting"`
	SubmitError string      `json:"submitError,omitempty"`
	Errors      FieldErrors `json:"errors"`
	Sections    S           `json:"sections"`
}

// Session is one mounted wizard: store, position, field errors and the
// collaborators it talks to. All methods are safe for concurrent use.
type Session[S any] struct {
	mu sync.Mutex

	flow      *Flow[S]
	store     *Store[S]
	drafts    *Gateway[S]
	submitter Submitter[S]

	pos         Position
	errs        FieldErrors
	identity    *Identity
	submitting  bool
	submitError string

	id        string
	userID    string
	logger    logger.Logger
	recorders []Recorder
	now       func() time.Time
}

func NewSession[S any](flow *Flow[S], drafts *Gateway[S], submitter Submitter[S], opts Options) *Session[S] {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Session[S]{
		flow:      flow,
		store:     NewStore(flow.Defaults),
		drafts:    drafts,
		submitter: submitter,
		pos:       flow.First(),
		errs:      FieldErrors{},
		id:        opts.SessionID,
		userID:    opts.UserID,
		logger:    logger.ForSession(log, flow.Name, opts.SessionID),
		recorders: opts.Recorders,
		now:       time.Now,
	}
}

// ==========================
// Lifecycle
// ==========================

// Resume rehydrates the session from the stored draft, if any. It reports
// whether a draft was applied.
func (s *Session[S]) Resume(ctx context.Context) bool {
	if s.drafts == nil {
		return false
	}
	snap := s.drafts.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if snap == nil {
		return false
	}
	s.release()
	s.store.Replace(snap.Sections)
	s.pos = snap.Position
	s.errs = FieldErrors{}
	s.applyIdentity()

	s.logger.Info("draft loaded", map[string]interface{}{
		"position": snap.Position.String(),
		"savedAt":  snap.SavedAt,
	})
	s.emit(ctx, models.EventDraftLoaded, "", 0)
	return true
}

// SetIdentity prefills the read-only identity fields. They are re-applied
// after every reset and draft load.
func (s *Session[S]) SetIdentity(id Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = &id
	s.applyIdentity()
}

func (s *Session[S]) applyIdentity() {
	if s.identity == nil || s.flow.ApplyIdentity == nil {
		return
	}
	id := *s.identity
	s.store.mutate(func(st *S) { s.flow.ApplyIdentity(st, id) })
}

// Cancel discards the in-progress state. The stored draft is left alone.
func (s *Session[S]) Cancel(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return
	}
	pos := s.pos
	s.reset()
	s.logger.Info("session cancelled", map[string]interface{}{"position": pos.String()})
	s.emitAt(ctx, pos, models.EventCancelled, "", 0)
}

// reset must be called with mu held.
func (s *Session[S]) reset() {
	s.release()
	s.store.Reset()
	s.pos = s.flow.First()
	s.errs = FieldErrors{}
	s.submitError = ""
	s.applyIdentity()
}

func (s *Session[S]) release() {
	if s.flow.ReleaseAttachments != nil {
		s.flow.ReleaseAttachments(s.store.Get())
	}
}

// ==========================
// Reads
// ==========================

func (s *Session[S]) ID() string {
	return s.id
}

func (s *Session[S]) Flow() *Flow[S] {
	return s.flow
}

func (s *Session[S]) Position() Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

func (s *Session[S]) Sections() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Get()
}

func (s *Session[S]) Errors() FieldErrors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errs.Copy()
}

func (s *Session[S]) SubmitError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitError
}

// CanProceed evaluates the current screen's gate.
func (s *Session[S]) CanProceed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flow.CanProceed(s.pos, s.store.Get())
}

func (s *Session[S]) View() View[S] {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, _ := s.flow.Screen(s.pos)
	sections := s.store.Get()
	return View[S]{
		Flow:        s.flow.Name,
		SessionID:   s.id,
		Position:    s.pos,
		Screen:      sc.Name,
		Steps:       s.flow.StepCount(),
		CanProceed:  s.flow.CanProceed(s.pos, sections),
		IsTerminal:  s.flow.IsTerminal(s.pos),
		Submitting:  s.submitting,
		SubmitError: s.submitError,
		Errors:      s.errs.Copy(),
		Sections:    sections,
	}
}

// ==========================
// Input
// ==========================

// Update merges p into its section. Fields touched by p that carry an error
// are re-checked: the entry goes away when the value is fixed or emptied.
// Updates are ignored while a submission is in flight.
func (s *Session[S]) Update(p Patch[S]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return
	}
	s.store.Update(p)
	s.recheck(p.Fields())
}

func (s *Session[S]) recheck(fields []string) {
	sections := s.store.Get()
	for _, f := range fields {
		if !s.errs.Has(f) {
			continue
		}
		rule, ok := s.rule(f)
		if !ok {
			s.errs.Clear(f)
			continue
		}
		if rule.Value(sections) == "" || rule.Eval(sections) == "" {
			s.errs.Clear(f)
		}
	}
}

func (s *Session[S]) rule(field string) (Rule[S], bool) {
	if s.flow.Rule == nil {
		return Rule[S]{}, false
	}
	return s.flow.Rule(field)
}

// Blur runs the field's rule and returns its message.
func (s *Session[S]) Blur(field string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	rule, ok := s.rule(field)
	if !ok {
		return ""
	}
	msg := rule.Eval(s.store.Get())
	s.errs.Set(field, msg)
	return msg
}

// ValidateScreen runs every rule on the current screen and reports whether
// all of them passed.
func (s *Session[S]) ValidateScreen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validateScreen()
}

func (s *Session[S]) validateScreen() bool {
	sc, ok := s.flow.Screen(s.pos)
	if !ok || sc.Fields == nil {
		return true
	}
	sections := s.store.Get()
	valid := true
	for _, f := range sc.Fields(sections) {
		rule, ok := s.rule(f)
		if !ok {
			continue
		}
		msg := rule.Eval(sections)
		s.errs.Set(f, msg)
		if msg != "" {
			valid = false
		}
	}
	return valid
}

// Attach runs the field's intake policy. A rejected file leaves the section
// untouched and sets the field error; the message is returned.
func (s *Session[S]) Attach(ctx context.Context, field string, f models.File) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.flow.Attachment == nil {
		return "", apperrors.NewInvalidPatchError(field, "flow has no attachment fields")
	}
	slot, ok := s.flow.Attachment(field)
	if !ok {
		return "", apperrors.NewInvalidPatchError(field, "unknown attachment field")
	}
	if s.submitting {
		return "", nil
	}

	var a *models.Attachment
	msg := ""
	if slot.Room != nil {
		msg = slot.Room(s.store.Get())
	}
	if msg == "" {
		a, msg = slot.Policy.Accept(f)
	}
	if msg != "" {
		s.errs.Set(field, msg)
		s.logger.Debug("attachment rejected", map[string]interface{}{
			"field":    field,
			"reason":   msg,
			"size":     len(f.Data),
			"fileName": f.Name,
		})
		s.emit(ctx, models.EventAttachmentRejected, field, 0)
		return msg, nil
	}

	s.store.Update(slot.Patch(a))
	s.errs.Clear(field)
	return "", nil
}

// ==========================
// Navigation
// ==========================

// Next advances when the current gate holds. It is a no-op otherwise and at
// the terminal screen. Flows with SaveOnAdvance write the draft after a
// successful step; a failed write is logged and does not undo the step.
func (s *Session[S]) Next(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return false
	}

	sections := s.store.Get()
	next := s.flow.Advance(s.pos, sections)
	if next == s.pos {
		s.logger.Debug("advance blocked", map[string]interface{}{"position": s.pos.String()})
		return false
	}
	from := s.pos
	s.pos = next
	s.logger.Debug("advanced", map[string]interface{}{
		"from": from.String(),
		"to":   next.String(),
	})
	s.emit(ctx, models.EventAdvanced, from.String(), 0)

	if s.flow.SaveOnAdvance && s.drafts != nil {
		s.saveLocked(ctx)
	}
	return true
}

// Back retreats one screen, clamped at the first.
func (s *Session[S]) Back(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return false
	}
	prev := s.flow.Retreat(s.pos)
	if prev == s.pos {
		return false
	}
	from := s.pos
	s.pos = prev
	s.emit(ctx, models.EventRetreated, from.String(), 0)
	return true
}

// ==========================
// Drafts
// ==========================

// Save writes the draft ("Save & Exit", "Save as Draft").
func (s *Session[S]) Save(ctx context.Context) error {
	if s.drafts == nil {
		return fmt.Errorf("flow %s: no draft slot configured", s.flow.Name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

func (s *Session[S]) saveLocked(ctx context.Context) error {
	if err := s.drafts.Save(ctx, s.pos, s.store.Get()); err != nil {
		s.logger.Warn("draft save failed", map[string]interface{}{"error": err})
		s.emit(ctx, models.EventDraftSaveFailed, err.Error(), 0)
		return err
	}
	s.emit(ctx, models.EventDraftSaved, "", 0)
	return nil
}

// ==========================
// Submission
// ==========================

// Submit is only reachable from the terminal screen. The submitter runs
// without holding the session lock; while it runs, input and navigation
// are ignored. On failure position and sections are untouched and a
// message is recorded. On success the draft is cleared once, attachments
// are released and the session starts over.
func (s *Session[S]) Submit(ctx context.Context) bool {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return false
	}
	if !s.flow.IsTerminal(s.pos) {
		s.submitError = msgNotAtReview
		s.mu.Unlock()
		return false
	}
	if !s.flow.CanProceed(s.pos, s.store.Get()) {
		s.validateScreen()
		s.submitError = msgIncomplete
		s.mu.Unlock()
		return false
	}
	s.submitting = true
	s.submitError = ""
	sections := s.store.Get()
	s.mu.Unlock()

	start := s.now()
	err := s.callSubmitter(ctx, sections)
	elapsed := s.now().Sub(start)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false

	if err != nil {
		s.submitError = submitMessage(err)
		s.logger.Error("submission failed", map[string]interface{}{
			"error":      err,
			"durationMs": elapsed.Milliseconds(),
		})
		s.emit(ctx, models.EventSubmissionFailed, err.Error(), elapsed)
		return false
	}

	s.logger.Info("submission accepted", map[string]interface{}{"durationMs": elapsed.Milliseconds()})
	s.emit(ctx, models.EventSubmitted, "", elapsed)

	if s.drafts != nil {
		if err := s.drafts.Clear(ctx); err != nil {
			s.logger.Warn("draft clear failed", map[string]interface{}{"error": err})
		} else {
			s.emit(ctx, models.EventDraftCleared, "", 0)
		}
	}
	s.reset()
	return true
}

func (s *Session[S]) callSubmitter(ctx context.Context, sections S) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("submitter panic: %v", r)
		}
	}()
	return s.submitter.Submit(ctx, sections)
}

func submitMessage(err error) string {
	if stdErr, ok := apperrors.As(err); ok {
		if stdErr.Code == apperrors.ErrCodeSubmissionRejected || stdErr.Code == apperrors.ErrCodeAttachmentRejected {
			return stdErr.Message + ". Please review your details and try again."
		}
		return stdErr.Message + ". Please try again."
	}
	return msgSubmitDefault
}

// ==========================
// Events
// ==========================

func (s *Session[S]) emit(ctx context.Context, t models.EventType, detail string, d time.Duration) {
	s.emitAt(ctx, s.pos, t, detail, d)
}

func (s *Session[S]) emitAt(ctx context.Context, pos Position, t models.EventType, detail string, d time.Duration) {
	if len(s.recorders) == 0 {
		return
	}
	e := models.WizardEvent{
		Flow:      s.flow.Name,
		SessionID: s.id,
		UserID:    s.userID,
		Type:      t,
		Step:      pos.Step,
		Substep:   pos.Substep,
		Detail:    detail,
		Duration:  d,
		At:        s.now().UTC(),
	}
	for _, r := range s.recorders {
		r.Record(ctx, e)
	}
}
