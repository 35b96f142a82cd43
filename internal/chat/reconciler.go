package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/unifiedhq/chatcli/internal/api"
	"github.com/unifiedhq/chatcli/internal/models"
	"go.uber.org/zap"
)

var (
	ErrNoActiveSession = errors.New("no active session")
	ErrUnknownSession  = errors.New("unknown session")
)

// Service is the slice of the gateway client the reconciler consumes.
type Service interface {
	Chat(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error)
	GetSessions(ctx context.Context) ([]api.SessionSummary, error)
	GetHistory(ctx context.Context, sessionID string) (*api.HistoryResponse, error)
}

// Reconciler manages the in-memory session list, the active-session
// pointer, and the reconciliation of provisional session ids against the
// ids the server issues once the first message round-trips.
//
// The mutex is released around every network call, so sessions can be
// switched while a send is in flight. Each response is applied to the
// session captured at call time, never to whichever session is active when
// the response arrives; responses for sessions that have since been
// dropped from the list are discarded.
type Reconciler struct {
	mu       sync.Mutex
	svc      Service
	logger   *zap.Logger
	sessions []*Session
	current  SessionID
	titleLen int
}

func NewReconciler(svc Service, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		svc:      svc,
		logger:   logger,
		titleLen: 50,
	}
}

// CreateSession creates an empty provisional session, prepends it to the
// list (most recent first) and makes it active.
func (r *Reconciler) CreateSession() SessionID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createLocked()
}

func (r *Reconciler) createLocked() SessionID {
	sess := newSession()
	r.sessions = append([]*Session{sess}, r.sessions...)
	r.current = sess.ID
	r.logger.Debug("Created provisional session", zap.String("session_id", sess.ID.String()))
	return sess.ID
}

// LoadSessions fetches the server's session summaries and adopts the most
// recent one as active, deferring its history until it is selected. With
// no stored sessions, or when the fetch fails, it falls back to a fresh
// provisional session; the fetch error is still returned so the surface
// can report it.
func (r *Reconciler) LoadSessions(ctx context.Context) error {
	summaries, err := r.svc.GetSessions(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		r.createLocked()
		return fmt.Errorf("failed to load sessions: %w", err)
	}
	if len(summaries) == 0 {
		r.createLocked()
		return nil
	}

	sessions := make([]*Session, 0, len(summaries))
	for _, s := range summaries {
		sessions = append(sessions, &Session{
			ID:    ServerID(s.SessionID),
			Title: s.Title,
		})
	}
	r.sessions = sessions
	r.current = sessions[0].ID
	return nil
}

// SelectSession makes id the active session. A provisional session has
// nothing to fetch, its local message list is cleared. A confirmed session
// has its history re-fetched on every selection and replaced wholesale;
// on a fetch failure the list is left empty, never stale.
func (r *Reconciler) SelectSession(ctx context.Context, id SessionID) error {
	r.mu.Lock()
	sess := r.findLocked(id)
	if sess == nil {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	r.current = sess.ID

	if !sess.ID.Confirmed() {
		sess.Messages = nil
		r.mu.Unlock()
		return nil
	}

	captured := sess.ID
	sess.Messages = nil
	r.mu.Unlock()

	history, err := r.svc.GetHistory(ctx, captured.String())

	r.mu.Lock()
	defer r.mu.Unlock()

	sess = r.findLocked(captured)
	if sess == nil {
		r.logger.Debug("Dropping history for removed session",
			zap.String("session_id", captured.String()))
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		return nil
	}
	if err != nil {
		sess.Messages = nil
		return fmt.Errorf("failed to load history: %w", err)
	}

	messages := make([]models.Message, 0, len(history.Messages))
	for _, m := range history.Messages {
		role := models.RoleAssistant
		if m.IsUser {
			role = models.RoleUser
		}
		messages = append(messages, newMessage(role, m.Content, false))
	}
	sess.Messages = messages
	return nil
}

// SendMessage appends text optimistically to the active session, sends it,
// and appends the assistant's reply on success. If the active session is
// provisional and the response carries a server id, the session is
// confirmed in place; the old provisional id is dead after that and must
// be re-resolved by callers holding it.
//
// On failure the optimistic user message stays visible, marked pending,
// and no id transition happens.
func (r *Reconciler) SendMessage(ctx context.Context, text string) (*models.Message, error) {
	r.mu.Lock()
	sess := r.findLocked(r.current)
	if sess == nil {
		r.mu.Unlock()
		return nil, ErrNoActiveSession
	}

	captured := sess.ID
	userMsg := newMessage(models.RoleUser, text, true)
	sess.Messages = append(sess.Messages, userMsg)

	req := api.ChatRequest{Message: text}
	if captured.Confirmed() {
		req.SessionID = captured.String()
	}
	r.mu.Unlock()

	resp, err := r.svc.Chat(ctx, req)

	r.mu.Lock()
	defer r.mu.Unlock()

	sess = r.findLocked(captured)
	if sess == nil {
		// The originating session is gone; never apply the response to
		// whatever is active now.
		r.logger.Debug("Dropping reply for removed session",
			zap.String("session_id", captured.String()))
		if err != nil {
			return nil, fmt.Errorf("failed to send message: %w", err)
		}
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	for i := range sess.Messages {
		if sess.Messages[i].ID == userMsg.ID {
			sess.Messages[i].Pending = false
			break
		}
	}

	reply := newMessage(models.RoleAssistant, resp.Response, false)
	sess.Messages = append(sess.Messages, reply)

	if !captured.Confirmed() && resp.SessionID != "" {
		confirmed := ServerID(resp.SessionID)
		sess.ID = confirmed
		if r.current == captured {
			r.current = confirmed
		}
		if sess.Title == defaultTitle {
			sess.Title = truncate(text, r.titleLen)
		}
		r.logger.Debug("Confirmed session",
			zap.String("provisional_id", captured.String()),
			zap.String("session_id", confirmed.String()))
	}

	return &reply, nil
}

// ActiveID returns the id of the active session, which may be the zero
// SessionID before any session exists.
func (r *Reconciler) ActiveID() SessionID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Sessions returns a snapshot of the session list, most recent first.
func (r *Reconciler) Sessions() []Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		copied := *s
		copied.Messages = append([]models.Message(nil), s.Messages...)
		out = append(out, copied)
	}
	return out
}

// ActiveMessages returns a snapshot of the active session's message list.
func (r *Reconciler) ActiveMessages() []models.Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess := r.findLocked(r.current)
	if sess == nil {
		return nil
	}
	return append([]models.Message(nil), sess.Messages...)
}

func (r *Reconciler) findLocked(id SessionID) *Session {
	if id.IsZero() {
		return nil
	}
	for _, s := range r.sessions {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
