package composer

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/loomchat/loom/internal/analytics"
	"github.com/loomchat/loom/internal/draft"
	"github.com/loomchat/loom/internal/featureflag"
	"github.com/loomchat/loom/internal/logging"
	"github.com/loomchat/loom/internal/media"
	"github.com/loomchat/loom/internal/permission"
	"github.com/loomchat/loom/internal/prefs"
	"github.com/loomchat/loom/internal/room"
	"github.com/loomchat/loom/internal/snackbar"
)

// Options wires a Controller to its collaborators. Room, Picker,
// PreProcessor, Permissions, Flags, Prefs, Analytics and Snackbar are
// required; Drafts is optional.
type Options struct {
	Room         room.Room
	Picker       media.Picker
	PreProcessor media.PreProcessor
	Permissions  permission.Presenter
	Flags        featureflag.Service
	Prefs        prefs.Store
	Analytics    analytics.Service
	Snackbar     *snackbar.Dispatcher
	Drafts       draft.Store

	SelfUserID room.UserID
	TextKind   TextKind
}

func (o Options) validate() error {
	switch {
	case o.Room == nil:
		return errors.New("composer: Room is required")
	case o.Picker == nil:
		return errors.New("composer: Picker is required")
	case o.PreProcessor == nil:
		return errors.New("composer: PreProcessor is required")
	case o.Permissions == nil:
		return errors.New("composer: Permissions is required")
	case o.Flags == nil:
		return errors.New("composer: Flags is required")
	case o.Prefs == nil:
		return errors.New("composer: Prefs is required")
	case o.Analytics == nil:
		return errors.New("composer: Analytics is required")
	case o.Snackbar == nil:
		return errors.New("composer: Snackbar is required")
	case o.SelfUserID == "":
		return errors.New("composer: SelfUserID is required")
	}
	return nil
}

type observer struct {
	id string
	fn func(ComposerState)
}

// Controller is the composer session for one open room. It owns the
// mutable state cells, serializes event intake, runs at most one
// attachment task at a time, and publishes an immutable ComposerState
// snapshot to observers after every applied transition.
//
// All intake runs under one lock; pipeline goroutines re-enter through
// the same lock, so every externally visible transition is race-free.
// Observers are invoked synchronously under that lock and must not
// call back into the controller.
type Controller struct {
	log      zerolog.Logger
	room     room.Room
	pipeline *attachmentPipeline
	typing   *TypingDispatcher
	sender   *SendCoordinator

	permissions permission.Presenter
	analytics   analytics.Service
	snackbar    *snackbar.Dispatcher
	drafts      draft.Store

	selfUserID room.UserID

	sessionCtx    context.Context
	sessionCancel context.CancelFunc
	wg            sync.WaitGroup

	mu          sync.Mutex
	closed      bool
	seq         uint64
	mode        ComposeMode
	text        TextContent
	attachments AttachmentState
	suggestions []MentionSuggestion

	showSourcePicker bool
	showFormatting   bool
	fullScreen       bool
	canShareLocation bool
	canCreatePoll    bool
	mentionsEnabled  bool

	mentions       IntentionalMentions
	lastSuggestion *Suggestion
	roster         room.RosterState
	canNotify      bool

	attachGen    uint64
	attachCancel context.CancelFunc
	pickInFlight bool
	pendingPick  media.Source
	pickParked   bool

	observers []observer

	unsubRoster func()
	unsubGrant  func()
}

// New configures a composer session: feature flags and the typing
// preference are read once, the roster snapshot and @room permission
// are captured, subscriptions to roster updates and permission grants
// are installed, and any stored draft is restored. Call Close when the
// room is left.
func New(ctx context.Context, opts Options) (*Controller, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.TextKind == "" {
		opts.TextKind = TextKindMarkdown
	}

	log := logging.WithRoom(opts.Room.ID())

	canShareLocation := readFlag(ctx, opts.Flags, featureflag.FlagLocationSharing, log)
	canCreatePoll := readFlag(ctx, opts.Flags, featureflag.FlagPolls, log)
	mentionsEnabled := readFlag(ctx, opts.Flags, featureflag.FlagMentions, log)

	typingEnabled, err := opts.Prefs.TypingNotificationsEnabled(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("typing preference unavailable, defaulting to enabled")
		typingEnabled = true
	}

	canNotify, err := opts.Room.CanTriggerRoomNotification(ctx, opts.SelfUserID)
	if err != nil {
		log.Warn().Err(err).Msg("room notification permission unavailable, defaulting to denied")
		canNotify = false
	}

	sessionCtx, sessionCancel := context.WithCancel(context.WithoutCancel(ctx))

	c := &Controller{
		log:              log,
		room:             opts.Room,
		pipeline:         newAttachmentPipeline(opts.Picker, opts.PreProcessor, opts.Room),
		typing:           NewTypingDispatcher(opts.Room, typingEnabled),
		sender:           NewSendCoordinator(opts.Room, opts.Analytics),
		permissions:      opts.Permissions,
		analytics:        opts.Analytics,
		snackbar:         opts.Snackbar,
		drafts:           opts.Drafts,
		selfUserID:       opts.SelfUserID,
		sessionCtx:       sessionCtx,
		sessionCancel:    sessionCancel,
		mode:             ModeNormal{},
		text:             TextContent{Kind: opts.TextKind},
		attachments:      AttachmentNone{},
		canShareLocation: canShareLocation,
		canCreatePoll:    canCreatePoll,
		mentionsEnabled:  mentionsEnabled,
		roster:           opts.Room.Roster(),
		canNotify:        canNotify,
	}

	if c.drafts != nil {
		if d, ok := c.drafts.Take(c.room.ID()); ok {
			c.text.Body = d.Body
		}
	}

	c.unsubRoster = c.room.SubscribeRoster(c.rosterUpdated)
	c.unsubGrant = c.permissions.OnGrant(c.permissionGranted)

	log.Debug().
		Str("text_kind", string(opts.TextKind)).
		Bool("typing_enabled", typingEnabled).
		Bool("can_notify_room", canNotify).
		Msg("composer session configured")
	return c, nil
}

func readFlag(ctx context.Context, svc featureflag.Service, flag featureflag.Flag, log zerolog.Logger) bool {
	enabled, err := svc.IsEnabled(ctx, flag)
	if err != nil {
		log.Warn().Err(err).Str("flag", string(flag)).Msg("feature flag unavailable, defaulting to disabled")
		return false
	}
	return enabled
}

// State returns the current snapshot.
func (c *Controller) State() ComposerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Observe registers a snapshot observer. Observers run synchronously
// under the intake lock, in registration order, once per applied
// transition; they must not call back into the Controller (Submit,
// State, Observe, Close all take the same lock and would deadlock).
// The returned function removes the observer.
func (c *Controller) Observe(fn func(ComposerState)) (unsubscribe func()) {
	id := uuid.New().String()
	c.mu.Lock()
	c.observers = append(c.observers, observer{id: id, fn: fn})
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, obs := range c.observers {
			if obs.id == id {
				c.observers = append(c.observers[:i], c.observers[i+1:]...)
				return
			}
		}
	}
}

// Submit applies one event. Events are processed strictly in the order
// submitted; a snapshot is published after each applied event.
func (c *Controller) Submit(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	switch e := ev.(type) {
	case ToggleFullScreen:
		c.fullScreen = !c.fullScreen
	case ToggleTextFormatting:
		c.showFormatting = e.Enabled
	case SetMode:
		c.mode, c.text = applyMode(e.Mode, c.text)
	case CloseSpecialMode:
		c.mode, c.text = closeSpecialMode(c.mode, c.text)
	case ChangeText:
		c.text.Body = e.Body
	case SendMessage:
		c.sendMessageLocked()
	case AddAttachment:
		c.showSourcePicker = true
	case DismissAttachmentMenu:
		c.showSourcePicker = false
	case PickAttachmentSource:
		c.pickAttachmentSourceLocked(e.Source)
	case ConfirmSendAttachment:
		c.confirmSendAttachmentLocked()
	case CancelSendAttachment:
		c.resetPipelineLocked()
	case SendLocalMedia:
		c.sendLocalMediaLocked(e.Media)
	case TypingNotice:
		c.typing.Dispatch(c.sessionCtx, e.IsTyping)
	case SuggestionReceived:
		c.lastSuggestion = e.Suggestion
		c.resolveSuggestionsLocked()
	case InsertMention:
		c.insertMentionLocked(e.Suggestion)
	case SetMentions:
		c.mentions = e.Mentions
	case SaveDraft:
		c.saveDraftLocked()
	case ErrorEvent:
		c.analytics.TrackError(e.Err)
	}

	c.publishLocked()
}

// Close tears the session down: the in-flight attachment task is
// cancelled, subscriptions are removed, unsent text is saved as a
// draft, and a final typing false is dispatched. Close blocks until
// pipeline goroutines have exited.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.attachGen++
	if c.attachCancel != nil {
		c.attachCancel()
		c.attachCancel = nil
	}
	if c.unsubRoster != nil {
		c.unsubRoster()
	}
	if c.unsubGrant != nil {
		c.unsubGrant()
	}
	if c.drafts != nil {
		if c.text.Body != "" {
			c.drafts.Save(c.room.ID(), draft.Draft{Body: c.text.Body})
		} else {
			c.drafts.Clear(c.room.ID())
		}
	}
	c.mu.Unlock()

	c.typing.Dispatch(context.Background(), false)
	c.sessionCancel()
	c.wg.Wait()
	c.log.Debug().Msg("composer session closed")
}

func (c *Controller) snapshotLocked() ComposerState {
	return ComposerState{
		Seq:                        c.seq,
		Mode:                       c.mode,
		Text:                       c.text,
		Attachments:                c.attachments,
		MemberSuggestions:          append([]MentionSuggestion(nil), c.suggestions...),
		ShowAttachmentSourcePicker: c.showSourcePicker,
		ShowTextFormatting:         c.showFormatting,
		IsFullScreen:               c.fullScreen,
		CanShareLocation:           c.canShareLocation,
		CanCreatePoll:              c.canCreatePoll,
	}
}

func (c *Controller) publishLocked() {
	c.seq++
	snap := c.snapshotLocked()
	for _, obs := range c.observers {
		obs.fn(snap)
	}
}

func (c *Controller) sendMessageLocked() {
	if c.text.Body == "" {
		return
	}

	mode := c.mode
	text := c.text
	mentions := c.mentions

	if err := c.sender.Send(c.sessionCtx, mode, text, mentions); err != nil {
		return
	}

	c.text.Body = ""
	c.mode = ModeNormal{}
	c.mentions = IntentionalMentions{}
	c.lastSuggestion = nil
	c.suggestions = nil
	if c.drafts != nil {
		c.drafts.Clear(c.room.ID())
	}
	c.typing.Dispatch(c.sessionCtx, false)
}

func (c *Controller) pickAttachmentSourceLocked(source media.Source) {
	c.showSourcePicker = false

	switch source {
	case media.SourcePoll, media.SourceLocation:
		// Navigation targets owned by the rendering collaborator.
		return
	}

	if c.pipelineActiveLocked() {
		c.log.Warn().Stringer("source", source).Msg("attachment pipeline busy, pick rejected")
		return
	}

	if source.NeedsCamera() && !c.permissions.Granted() {
		c.pendingPick = source
		c.pickParked = true
		c.permissions.Request()
		return
	}

	c.startPickLocked(source)
}

func (c *Controller) pipelineActiveLocked() bool {
	if c.pickInFlight {
		return true
	}
	_, idle := c.attachments.(AttachmentNone)
	return !idle
}

func (c *Controller) startPickLocked(source media.Source) {
	c.attachGen++
	gen := c.attachGen
	ctx, cancel := context.WithCancel(c.sessionCtx)
	c.attachCancel = cancel
	c.pickInFlight = true

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.pipeline.runPick(ctx, gen, source, c)
	}()
}

func (c *Controller) confirmSendAttachmentLocked() {
	previewing, ok := c.attachments.(AttachmentPreviewing)
	if !ok {
		return
	}
	c.startSendLocked(previewing.Media)
}

func (c *Controller) sendLocalMediaLocked(local *media.LocalMedia) {
	if local == nil {
		return
	}
	if c.pipelineActiveLocked() {
		c.log.Warn().Msg("attachment pipeline busy, media send rejected")
		return
	}
	c.startSendLocked(local)
}

func (c *Controller) startSendLocked(local *media.LocalMedia) {
	c.attachGen++
	gen := c.attachGen
	ctx, cancel := context.WithCancel(c.sessionCtx)
	c.attachCancel = cancel
	c.attachments = AttachmentProcessing{Media: local}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.pipeline.runSend(ctx, gen, local, c)
	}()
}

// resetPipelineLocked aborts whatever the pipeline is doing and
// returns attachment state to None. Bumping the generation makes any
// late completion from the aborted task a discarded no-op.
func (c *Controller) resetPipelineLocked() {
	c.attachGen++
	if c.attachCancel != nil {
		c.attachCancel()
		c.attachCancel = nil
	}
	c.pickInFlight = false
	c.pickParked = false
	c.attachments = AttachmentNone{}
}

func (c *Controller) insertMentionLocked(s MentionSuggestion) {
	switch sug := s.(type) {
	case SuggestionAtRoom:
		c.mentions.AtRoom = true
	case SuggestionMember:
		for _, id := range c.mentions.UserIDs {
			if id == sug.Member.UserID {
				c.lastSuggestion = nil
				c.suggestions = nil
				return
			}
		}
		c.mentions.UserIDs = append(c.mentions.UserIDs, sug.Member.UserID)
	}
	c.lastSuggestion = nil
	c.suggestions = nil
}

func (c *Controller) resolveSuggestionsLocked() {
	if !c.mentionsEnabled {
		c.suggestions = nil
		return
	}
	c.suggestions = ResolveMentionSuggestions(c.lastSuggestion, c.roster, ResolveOptions{
		SelfUserID:    c.selfUserID,
		IsDirect:      c.room.IsDirect(),
		IsOneToOne:    c.room.IsOneToOne(),
		CanNotifyRoom: c.canNotify,
	})
}

func (c *Controller) saveDraftLocked() {
	if c.drafts == nil {
		return
	}
	if c.text.Body == "" {
		c.drafts.Clear(c.room.ID())
		return
	}
	c.drafts.Save(c.room.ID(), draft.Draft{Body: c.text.Body})
}

// rosterUpdated is the roster subscription callback. An active
// suggestion span is re-resolved against the new roster.
func (c *Controller) rosterUpdated(state room.RosterState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.roster = state
	if c.lastSuggestion != nil {
		c.resolveSuggestionsLocked()
	}
	c.publishLocked()
}

// permissionGranted replays a camera pick that was parked waiting for
// the grant. A grant arriving while another attachment is already in
// flight drops the parked pick instead of starting a second pipeline;
// the user re-picks once the current attachment settles, the same
// outcome a busy pick request gets.
func (c *Controller) permissionGranted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || !c.pickParked {
		return
	}
	source := c.pendingPick
	c.pickParked = false
	if c.pipelineActiveLocked() {
		c.log.Warn().Stringer("source", source).Msg("attachment pipeline busy, parked pick dropped")
		return
	}
	c.startPickLocked(source)
	c.publishLocked()
}

// pickFinished implements pipelineSink.
func (c *Controller) pickFinished(gen uint64, local *media.LocalMedia, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.attachGen {
		return
	}
	c.pickInFlight = false
	c.attachCancel = nil

	switch {
	case err != nil:
		if errors.Is(err, context.Canceled) {
			c.log.Debug().Msg("pick cancelled")
		} else {
			c.log.Warn().Err(err).Msg("pick failed")
			c.analytics.TrackError(err)
		}
		c.attachments = AttachmentNone{}
	case local == nil:
		// User backed out of the picker. Not an error.
		c.attachments = AttachmentNone{}
	case local.Previewable():
		c.attachments = AttachmentPreviewing{Media: local}
	default:
		c.startSendLocked(local)
	}
	c.publishLocked()
}

// uploadProgress implements pipelineSink. Each raw pair becomes its
// own Uploading snapshot; pairs are never coalesced.
func (c *Controller) uploadProgress(gen uint64, sent, total int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.attachGen {
		return
	}
	c.attachments = AttachmentUploading{Progress: uploadFraction(sent, total)}
	c.publishLocked()
}

// sendFinished implements pipelineSink. Failure resets attachment
// state and posts exactly one snackbar message; the error is never
// retained in state.
func (c *Controller) sendFinished(gen uint64, stage string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.attachGen {
		return
	}
	c.attachCancel = nil
	c.attachments = AttachmentNone{}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.log.Debug().Str("stage", stage).Msg("attachment send cancelled")
		} else {
			c.log.Warn().Err(err).Str("stage", stage).Msg("attachment send failed")
			c.analytics.TrackError(err)
			c.snackbar.Post(snackbar.Message{Text: "Failed to send attachment, please try again"})
		}
	} else {
		c.log.Debug().Msg("attachment sent")
	}
	c.publishLocked()
}
