package internal

import (
	"context"
)

// StudyFlow implements the create / add-question / end transitions of
// a study session. After submitting a question only a running count is
// kept client-side; the authoritative list stays on the server.
type StudyFlow struct {
	store   *SessionStore
	client  *Client
	router  *Router
	pending bool

	questionsAdded int

	// refreshDashboard, when set, is invoked after a session ends so
	// stale dashboard data gets refetched.
	refreshDashboard func(ctx context.Context) error
}

// NewStudyFlow wires the study session transitions.
func NewStudyFlow(store *SessionStore, client *Client, router *Router) *StudyFlow {
	return &StudyFlow{store: store, client: client, router: router}
}

// SetDashboardRefresh registers the refetch run after a session ends.
func (f *StudyFlow) SetDashboardRefresh(fn func(ctx context.Context) error) {
	f.refreshDashboard = fn
}

// QuestionsAdded returns the running count of questions submitted to
// the current session.
func (f *StudyFlow) QuestionsAdded() int {
	return f.questionsAdded
}

// CreateSession requests a new session and routes to the study
// section. Silently a no-op when unauthenticated: the study section
// is not reachable from navigation in that state, so there is nothing
// to report.
func (f *StudyFlow) CreateSession(ctx context.Context) (*StudySession, error) {
	if !f.store.IsAuthenticated() {
		return nil, nil
	}
	if f.pending {
		return nil, ErrPending
	}
	f.pending = true
	defer func() { f.pending = false }()

	sess, err := f.client.CreateSession(ctx)
	if err != nil {
		return nil, err
	}

	if err := f.store.SetSession(sess); err != nil {
		return nil, err
	}
	f.questionsAdded = 0

	if err := f.router.Activate(ctx, SectionStudy); err != nil {
		LogWarn("failed to activate study section: %v", err)
	}

	LogInfo("study session %d started", sess.ID)
	return sess, nil
}

// AddQuestion submits a question to the active session and returns
// the updated client-side count. Text and answer are required;
// difficulty defaults to medium and topic is optional. On failure
// nothing changes locally.
func (f *StudyFlow) AddQuestion(ctx context.Context, text, answer string, difficulty Difficulty, topic string) (int, error) {
	sess := f.store.Session()
	if sess == nil {
		return f.questionsAdded, ErrNoActiveSession
	}
	if text == "" {
		return f.questionsAdded, &ValidationError{Field: "question"}
	}
	if answer == "" {
		return f.questionsAdded, &ValidationError{Field: "answer"}
	}
	if !difficulty.Valid() {
		difficulty = DifficultyMedium
	}
	if f.pending {
		return f.questionsAdded, ErrPending
	}
	f.pending = true
	defer func() { f.pending = false }()

	err := f.client.AddQuestion(ctx, sess.ID, QuestionRequest{
		QuestionText: text,
		AnswerText:   answer,
		Difficulty:   difficulty,
		Topic:        topic,
	})
	if err != nil {
		return f.questionsAdded, err
	}

	f.questionsAdded++
	return f.questionsAdded, nil
}

// EndSession finishes the active session, clears it from the store
// and returns the ended session carrying the final score. A no-op
// when no session is active.
func (f *StudyFlow) EndSession(ctx context.Context) (*StudySession, error) {
	sess := f.store.Session()
	if sess == nil {
		return nil, nil
	}
	if f.pending {
		return nil, ErrPending
	}
	f.pending = true
	defer func() { f.pending = false }()

	ended, err := f.client.EndSession(ctx, sess.ID)
	if err != nil {
		return nil, err
	}

	if err := f.store.ClearSession(); err != nil {
		LogWarn("failed to clear persisted session: %v", err)
	}
	f.questionsAdded = 0

	if f.refreshDashboard != nil {
		if err := f.refreshDashboard(ctx); err != nil {
			LogWarn("dashboard refresh after session end failed: %v", err)
		}
	}

	LogInfo("study session %d ended", ended.ID)
	return ended, nil
}
