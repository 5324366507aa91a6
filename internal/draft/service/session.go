package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	catalog "github.com/smallbiznis/mystore/internal/catalog/domain"
	"github.com/smallbiznis/mystore/internal/catalog/schema"
	"github.com/smallbiznis/mystore/internal/clock"
	"github.com/smallbiznis/mystore/internal/draft/domain"
	"github.com/smallbiznis/mystore/internal/media"
	"github.com/smallbiznis/mystore/internal/observability/metrics"
	"go.uber.org/zap"
)

const (
	// AckDelay is how long the success acknowledgement stays visible.
	AckDelay = 5 * time.Second

	MsgCreated       = "Product created successfully!"
	MsgUploadFailed  = "Image upload failed"
	MsgDiscardPrompt = "Are you sure you want to discard all changes?"
)

// Deps are the collaborators shared by every session of a Manager.
type Deps struct {
	Log        *zap.Logger
	Creator    catalog.Creator
	Uploader   media.Uploader
	Clock      clock.Clock
	IDs        domain.IDGenerator
	Categories domain.CategoryResolver
	Navigator  domain.Navigator
	Metrics    *metrics.SubmissionMetrics
	Schema     *schema.Schema
}

// SubmitResult is what one submit gesture produced.
type SubmitResult struct {
	State   domain.State        `json:"state"`
	Errors  catalog.FieldErrors `json:"errors"`
	Created *catalog.Product    `json:"created,omitempty"`
	Notice  string              `json:"notice,omitempty"`
}

// Snapshot is a consistent read of a session.
type Snapshot struct {
	ID     string
	State  domain.State
	Draft  domain.ProductDraft
	Errors catalog.FieldErrors
	Notice string
	Ack    string
}

// Session owns one draft and its submission pipeline. Every entry point
// runs to completion under mu; the upload and the create call run with mu
// released.
type Session struct {
	id   string
	deps Deps
	log  *zap.Logger

	mu         sync.Mutex
	draft      domain.ProductDraft
	generation int
	state      domain.State
	errs       errorIndex
	notice     string
	ack        string
	ackSeq     int
	ackTimer   clock.Timer
	closed     bool
	lastUsed   time.Time
}

func NewSession(deps Deps) *Session {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	if deps.Schema == nil {
		deps.Schema = schema.New()
	}
	id := uuid.NewString()
	return &Session{
		id:    id,
		deps:  deps,
		log:   deps.Log.Named("draft.session").With(zap.String("draft_id", id)),
		draft:    domain.NewDraft(deps.IDs),
		state:    domain.StateEditing,
		lastUsed: deps.Clock.Now(),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) State() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Draft() domain.ProductDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Errors returns the last validation failure keyed by the current row
// positions.
func (s *Session) Errors() catalog.FieldErrors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errs.positional(s.draft.Variants)
}

// RowErrors returns the field errors of one row keyed by field name.
func (s *Session) RowErrors(id domain.LocalID) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errs.row(id)
}

func (s *Session) Notice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notice
}

func (s *Session) Ack() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ack
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:     s.id,
		State:  s.state,
		Draft:  s.draft,
		Errors: s.errs.positional(s.draft.Variants),
		Notice: s.notice,
		Ack:    s.ack,
	}
}

func (s *Session) SetField(field domain.ScalarField, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	next, ok := s.draft.WithField(field, value)
	if !ok {
		return domain.ErrInvalidField
	}
	s.draft = next
	s.errs.clearScalar(string(field))
	s.touchLocked()
	return nil
}

func (s *Session) AddVariant() (domain.LocalID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return 0, err
	}
	id := s.deps.IDs.NextID()
	s.draft.Variants = s.draft.Variants.Add(id)
	s.touchLocked()
	return id, nil
}

// UpdateVariant edits one field of one row. An unknown row is ignored.
func (s *Session) UpdateVariant(id domain.LocalID, field domain.VariantField, value string) error {
	if _, ok := domain.ParseVariantField(string(field)); !ok {
		return domain.ErrInvalidField
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	s.draft.Variants = s.draft.Variants.Update(id, field, value)
	s.errs.clearRowField(id, string(field))
	s.touchLocked()
	return nil
}

// RemoveVariant drops a row unless it is the last one. An unknown row is
// ignored.
func (s *Session) RemoveVariant(id domain.LocalID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	before := len(s.draft.Variants)
	s.draft.Variants = s.draft.Variants.Remove(id)
	if len(s.draft.Variants) < before {
		s.errs.dropRow(id)
	}
	s.touchLocked()
	return nil
}

// UploadImage attaches asset to slot right away and fills in its remote
// URL once the upload finished. A newer attach or a reset in the meantime
// wins over this upload.
func (s *Session) UploadImage(ctx context.Context, slot domain.ImageSlot, asset media.Asset) (domain.ImageRef, error) {
	if !slot.Valid() {
		return domain.ImageRef{}, domain.ErrInvalidSlot
	}
	if err := media.CheckImage(asset); err != nil {
		return domain.ImageRef{}, err
	}
	if s.deps.Uploader == nil {
		return domain.ImageRef{}, errNoUploader
	}

	s.mu.Lock()
	if err := s.editableLocked(); err != nil {
		s.mu.Unlock()
		return domain.ImageRef{}, err
	}
	ref := domain.ImageRef{PreviewID: uuid.NewString(), FileName: asset.Filename}
	s.draft = s.draft.WithImage(slot, ref)
	s.notice = ""
	s.touchLocked()
	generation := s.generation
	s.mu.Unlock()

	url, err := s.deps.Uploader.Upload(ctx, asset)
	s.deps.Metrics.ObserveUpload(err)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ref, domain.ErrSessionClosed
	}
	if s.generation != generation || s.draft.ImageAt(slot).PreviewID != ref.PreviewID {
		return ref, domain.ErrImageReplaced
	}
	if err != nil {
		s.notice = MsgUploadFailed
		s.log.Warn("image upload failed", zap.String("slot", slot.Path()), zap.Error(err))
		return ref, err
	}

	ref.URL = url
	s.draft = s.draft.WithImage(slot, ref)
	s.errs.clearScalar(slot.Path())
	return ref, nil
}

func (s *Session) RemoveImage(slot domain.ImageSlot) error {
	if !slot.Valid() {
		return domain.ErrInvalidSlot
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	s.draft = s.draft.WithImage(slot, domain.ImageRef{})
	s.touchLocked()
	return nil
}

// Submit runs the pipeline for the outcome chosen by the submit control.
// Field failures come back in SubmitResult.Errors; a failed create comes
// back as SubmitResult.Notice. The returned error is reserved for calls
// the session refuses.
func (s *Session) Submit(ctx context.Context, outcome domain.Outcome) (SubmitResult, error) {
	if !outcome.Valid() {
		return SubmitResult{}, domain.ErrInvalidOutcome
	}

	s.mu.Lock()
	if err := s.editableLocked(); err != nil {
		s.mu.Unlock()
		return SubmitResult{}, err
	}
	s.state = domain.StateValidating
	s.notice = ""

	submitted := s.draft.Variants.IDs()
	fields := precondition(s.draft)
	result := metrics.SubmissionValidationFailed
	if !fields.Empty() {
		result = metrics.SubmissionPreconditionFailed
	}
	req, coercion := assemble(s.draft, s.deps.Categories)
	fields.Merge(coercion)
	fields.Merge(s.deps.Schema.Validate(req))

	if !fields.Empty() {
		s.errs = indexErrors(fields, submitted)
		s.state = domain.StateFailed
		s.mu.Unlock()

		s.deps.Metrics.ObserveSubmission(result)
		s.log.Info("draft rejected", zap.Strings("fields", fields.Paths()))
		return SubmitResult{State: domain.StateFailed, Errors: fields}, nil
	}

	s.errs = errorIndex{}
	s.state = domain.StateSubmitting
	s.mu.Unlock()

	created, err := s.deps.Creator.Create(ctx, req)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.log.Warn("session closed while create was in flight", zap.Error(err))
		return SubmitResult{State: domain.StateDiscarded, Errors: catalog.FieldErrors{}, Created: created}, domain.ErrSessionClosed
	}

	if err != nil {
		notice := catalog.UserMessage(err)
		s.state = domain.StateEditing
		s.notice = notice
		s.mu.Unlock()

		s.deps.Metrics.ObserveSubmission(metrics.SubmissionTransportFailed)
		s.log.Warn("create product failed", zap.Error(err))
		return SubmitResult{State: domain.StateEditing, Errors: catalog.FieldErrors{}, Notice: notice}, nil
	}

	res := SubmitResult{Errors: catalog.FieldErrors{}, Created: created}
	switch outcome {
	case domain.OutcomeTerminal:
		res.State = domain.StateSucceededTerminal
		s.state = domain.StateSucceededTerminal
		s.closed = true
		s.stopAckLocked()
		s.mu.Unlock()

		s.deps.Metrics.ObserveSubmission(metrics.SubmissionSucceededTerminal)
		s.log.Info("product published", zap.String("product_id", created.ID))
		if s.deps.Navigator != nil {
			s.deps.Navigator.Leave(ctx, s.id, created)
		}
	case domain.OutcomeReset:
		res.State = domain.StateSucceededReset
		s.draft = domain.NewDraft(s.deps.IDs)
		s.generation++
		s.state = domain.StateSucceededReset
		s.showAckLocked()
		s.mu.Unlock()

		s.deps.Metrics.ObserveSubmission(metrics.SubmissionSucceededReset)
		s.log.Info("product published, draft reset", zap.String("product_id", created.ID))
	}
	return res, nil
}

// Cancel asks for confirmation and, when given, discards the draft and
// leaves the authoring view.
func (s *Session) Cancel(ctx context.Context, confirmer domain.Confirmer) (bool, error) {
	s.mu.Lock()
	err := s.editableLocked()
	s.mu.Unlock()
	if err != nil {
		return false, err
	}

	if confirmer == nil || !confirmer.Confirm(ctx, MsgDiscardPrompt) {
		return false, nil
	}

	s.mu.Lock()
	if err := s.editableLocked(); err != nil {
		s.mu.Unlock()
		return false, err
	}
	s.state = domain.StateDiscarded
	s.closed = true
	s.stopAckLocked()
	s.mu.Unlock()

	s.log.Info("draft discarded")
	if s.deps.Navigator != nil {
		s.deps.Navigator.Leave(ctx, s.id, nil)
	}
	return true, nil
}

// DismissAck hides the success acknowledgement before its timer fires.
func (s *Session) DismissAck() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopAckLocked()
}

// Close tears the session down. A pending acknowledgement timer is
// cancelled and never fires afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.stopAckLocked()
}

func (s *Session) markUsed() {
	now := s.deps.Clock.Now()
	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
}

// idle reports whether the session went unused for ttl. A session with a
// submission in flight is never idle.
func (s *Session) idle(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == domain.StateValidating || s.state == domain.StateSubmitting {
		return false
	}
	return !now.Before(s.lastUsed.Add(ttl))
}

func (s *Session) editableLocked() error {
	switch {
	case s.closed || s.state.Finished():
		return domain.ErrSessionClosed
	case s.state == domain.StateValidating || s.state == domain.StateSubmitting:
		return domain.ErrSubmitInFlight
	}
	return nil
}

// touchLocked returns a failed or just reset session to editing.
func (s *Session) touchLocked() {
	if s.state == domain.StateFailed || s.state == domain.StateSucceededReset {
		s.state = domain.StateEditing
	}
}

func (s *Session) showAckLocked() {
	s.stopAckLocked()
	s.ack = MsgCreated
	s.ackSeq++
	seq := s.ackSeq
	s.ackTimer = s.deps.Clock.AfterFunc(AckDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.ackSeq == seq {
			s.ack = ""
			s.ackTimer = nil
		}
	})
}

func (s *Session) stopAckLocked() {
	if s.ackTimer != nil {
		s.ackTimer.Stop()
		s.ackTimer = nil
	}
	s.ack = ""
	s.ackSeq++
}

var errNoUploader = errors.New("no image uploader configured")
