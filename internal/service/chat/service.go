package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zhouzirui/navigator/backend/internal/model/chat"
	"github.com/zhouzirui/navigator/backend/internal/model/component"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrEmptyInput       = errors.New("message text is required")
	ErrAwaitingResponse = errors.New("assistant is still responding")

	errSessionEnded = errors.New("session ended")
)

// WelcomeText opens every transcript.
const WelcomeText = "Hello and welcome"

const subscriberBuffer = 32

// Responder produces the assistant side of a turn.
type Responder interface {
	Reply(ctx context.Context, sessionID string, history []chat.Message, input string) (chat.Reply, error)
}

// Service owns every live conversation. All mutations of a conversation go
// through update, which holds the service lock for the duration of the change.
type Service struct {
	mu        sync.RWMutex
	sessions  map[string]*conversation
	responder Responder
	delay     time.Duration
	logger    *zap.Logger
}

type conversation struct {
	session     chat.Session
	transcript  []chat.Message
	pending     string
	awaiting    bool
	canvas      chat.Canvas
	subscribers map[int]chan chat.Event
	nextSub     int

	// ctx lives as long as the session; EndSession cancels it.
	ctx      context.Context
	cancel   context.CancelFunc
	inflight sync.WaitGroup
}

// NewService creates the in-memory chat service. Replies are delivered delay
// after the user message is accepted.
func NewService(responder Responder, delay time.Duration) *Service {
	return &Service{
		sessions:  make(map[string]*conversation),
		responder: responder,
		delay:     delay,
		logger:    zap.L().Named("chat"),
	}
}

// CreateSession provisions an anonymous session seeded with the welcome message.
func (s *Service) CreateSession(_ context.Context) (chat.Session, error) {
	ctx, cancel := context.WithCancel(context.Background())
	c := &conversation{
		session: chat.Session{
			ID:        uuid.NewString(),
			CreatedAt: time.Now().UTC(),
		},
		transcript:  make([]chat.Message, 0, 16),
		canvas:      chat.Canvas{Descriptors: []component.Descriptor{}},
		subscribers: make(map[int]chan chat.Event),
		ctx:         ctx,
		cancel:      cancel,
	}
	c.append(chat.RoleAssistant, WelcomeText, nil)

	s.mu.Lock()
	s.sessions[c.session.ID] = c
	s.mu.Unlock()

	s.logger.Info("session created", zap.String("session", c.session.ID))
	return c.session, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return c.session, nil
}

// LoadTranscript returns the messages of the session in display order.
func (s *Service) LoadTranscript(_ context.Context, sessionID string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return cloneMessages(c.transcript), nil
}

// Snapshot returns a copy of the full conversation state.
func (s *Service) Snapshot(_ context.Context, sessionID string) (chat.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.sessions[sessionID]
	if !ok {
		return chat.State{}, ErrSessionNotFound
	}
	return chat.State{
		Session:          c.session,
		Transcript:       cloneMessages(c.transcript),
		PendingInput:     c.pending,
		AwaitingResponse: c.awaiting,
		Canvas:           cloneCanvas(c.canvas),
	}, nil
}

// SetDraft records the text currently typed but not yet sent.
func (s *Service) SetDraft(_ context.Context, sessionID, text string) error {
	return s.update(sessionID, func(c *conversation) error {
		c.pending = text
		return nil
	})
}

// Send appends the user's message and schedules the assistant reply. The
// reply is delivered asynchronously; Send never waits for it.
func (s *Service) Send(_ context.Context, sessionID, text string) (chat.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return chat.Message{}, ErrEmptyInput
	}

	var (
		msg     chat.Message
		history []chat.Message
		conv    *conversation
	)
	err := s.update(sessionID, func(c *conversation) error {
		if c.awaiting {
			return ErrAwaitingResponse
		}
		history = cloneMessages(c.transcript)
		msg = c.append(chat.RoleUser, text, nil)
		c.pending = ""
		c.awaiting = true
		c.publish(chat.Event{Type: chat.EventTyping, Typing: true})
		c.inflight.Add(1)
		conv = c
		return nil
	})
	if err != nil {
		return chat.Message{}, err
	}

	go s.deliver(conv, history, text)
	return msg, nil
}

// deliver waits out the response delay, then appends the assistant reply.
// Ending the session while it waits drops the reply without touching state.
func (s *Service) deliver(c *conversation, history []chat.Message, input string) {
	defer c.inflight.Done()
	sessionID := c.session.ID

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-c.ctx.Done():
			s.logger.Debug("reply cancelled", zap.String("session", sessionID))
			return
		case <-timer.C:
		}
	}

	reply, replyErr := s.responder.Reply(c.ctx, sessionID, history, input)

	err := s.update(sessionID, func(cur *conversation) error {
		if cur != c || c.ctx.Err() != nil {
			return errSessionEnded
		}
		c.awaiting = false
		if replyErr != nil {
			c.publish(chat.Event{Type: chat.EventError, Error: "assistant reply failed"})
			c.publish(chat.Event{Type: chat.EventTyping, Typing: false})
			return nil
		}
		c.append(chat.RoleAssistant, reply.Text, reply.Descriptors)
		c.publish(chat.Event{Type: chat.EventTyping, Typing: false})
		if len(reply.Descriptors) > 0 {
			c.toggleCanvas(reply.Descriptors)
		}
		return nil
	})

	switch {
	case replyErr != nil && c.ctx.Err() != nil:
		s.logger.Debug("reply dropped", zap.String("session", sessionID), zap.Error(replyErr))
	case replyErr != nil:
		s.logger.Error("assistant reply failed", zap.String("session", sessionID), zap.Error(replyErr))
	case err != nil:
		s.logger.Debug("reply dropped", zap.String("session", sessionID), zap.Error(err))
	default:
		s.logger.Info("reply delivered",
			zap.String("session", sessionID),
			zap.Int("descriptors", len(reply.Descriptors)),
		)
	}
}

// ToggleCanvas opens the canvas with descriptors; with none it closes it.
func (s *Service) ToggleCanvas(_ context.Context, sessionID string, descriptors []component.Descriptor) (chat.Canvas, error) {
	var canvas chat.Canvas
	err := s.update(sessionID, func(c *conversation) error {
		if len(descriptors) == 0 {
			c.closeCanvas()
		} else {
			c.toggleCanvas(descriptors)
		}
		canvas = cloneCanvas(c.canvas)
		return nil
	})
	return canvas, err
}

// CloseCanvas hides the canvas. The last descriptors are kept.
func (s *Service) CloseCanvas(_ context.Context, sessionID string) (chat.Canvas, error) {
	var canvas chat.Canvas
	err := s.update(sessionID, func(c *conversation) error {
		c.closeCanvas()
		canvas = cloneCanvas(c.canvas)
		return nil
	})
	return canvas, err
}

// Subscribe registers for the session's events. The channel is closed when
// the session ends or cancel is called.
func (s *Service) Subscribe(_ context.Context, sessionID string) (<-chan chat.Event, func(), error) {
	ch := make(chan chat.Event, subscriberBuffer)
	var key int
	err := s.update(sessionID, func(c *conversation) error {
		key = c.nextSub
		c.nextSub++
		c.subscribers[key] = ch
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		c, ok := s.sessions[sessionID]
		if !ok {
			return
		}
		if sub, ok := c.subscribers[key]; ok {
			delete(c.subscribers, key)
			close(sub)
		}
	}
	return ch, cancel, nil
}

// EndSession tears the conversation down. A pending reply is cancelled and
// waited for, so no state changes happen after EndSession returns.
func (s *Service) EndSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	c, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	c.cancel()
	c.publish(chat.Event{Type: chat.EventClosed})
	for key, sub := range c.subscribers {
		delete(c.subscribers, key)
		close(sub)
	}
	s.mu.Unlock()

	c.inflight.Wait()
	s.logger.Info("session ended", zap.String("session", sessionID))
	return nil
}

// Close ends every session.
func (s *Service) Close() {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	for _, id := range ids {
		if err := s.EndSession(context.Background(), id); err != nil && !errors.Is(err, ErrSessionNotFound) {
			s.logger.Warn("end session failed", zap.String("session", id), zap.Error(err))
		}
	}
}

func (s *Service) update(sessionID string, fn func(c *conversation) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	return fn(c)
}

func (c *conversation) append(role chat.Role, text string, descriptors []component.Descriptor) chat.Message {
	msg := chat.Message{
		ID:          uuid.NewString(),
		SessionID:   c.session.ID,
		Role:        role,
		Text:        text,
		Descriptors: cloneDescriptors(descriptors),
		CreatedAt:   time.Now().UTC(),
	}
	c.transcript = append(c.transcript, msg)
	c.publish(chat.Event{Type: chat.EventMessage, Message: &msg})
	return msg
}

func (c *conversation) toggleCanvas(descriptors []component.Descriptor) {
	c.canvas = chat.Canvas{Open: true, Descriptors: cloneDescriptors(descriptors)}
	canvas := cloneCanvas(c.canvas)
	c.publish(chat.Event{Type: chat.EventCanvas, Canvas: &canvas})
}

func (c *conversation) closeCanvas() {
	c.canvas.Open = false
	canvas := cloneCanvas(c.canvas)
	c.publish(chat.Event{Type: chat.EventCanvas, Canvas: &canvas})
}

// publish fans out without blocking; a subscriber that stopped reading loses
// events rather than stalling the conversation.
func (c *conversation) publish(event chat.Event) {
	event.SessionID = c.session.ID
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}
	for _, sub := range c.subscribers {
		select {
		case sub <- event:
		default:
		}
	}
}

func cloneMessages(messages []chat.Message) []chat.Message {
	copied := make([]chat.Message, len(messages))
	for i, msg := range messages {
		msg.Descriptors = cloneDescriptors(msg.Descriptors)
		copied[i] = msg
	}
	return copied
}

func cloneDescriptors(descriptors []component.Descriptor) []component.Descriptor {
	out := make([]component.Descriptor, len(descriptors))
	for i, d := range descriptors {
		out[i] = component.Descriptor{Type: d.Type, Props: d.Props.Clone()}
	}
	return out
}

func cloneCanvas(canvas chat.Canvas) chat.Canvas {
	return chat.Canvas{Open: canvas.Open, Descriptors: cloneDescriptors(canvas.Descriptors)}
}
