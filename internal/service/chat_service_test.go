package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"ai-therapy-be/internal/apperror"
	"ai-therapy-be/internal/dto"
	"ai-therapy-be/internal/entity"
	"ai-therapy-be/internal/model"
	"ai-therapy-be/internal/repository/contract"
	"ai-therapy-be/internal/repository/memory"
	"ai-therapy-be/internal/repository/unitofwork"
	"ai-therapy-be/pkg/events"
	"ai-therapy-be/pkg/therapist"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- in-memory fakes ---

type fakeStore struct {
	mu       sync.Mutex
	users      map[uuid.UUID]*entity.User
	sessions   map[uuid.UUID]*entity.ChatSession
	messages   []*entity.ChatMessage
	moods      []*entity.Mood
	activities []*entity.Activity

	resetTokens  []*entity.PasswordResetToken
	userSessions []*entity.UserSession

	failCreateBulk bool
	failUpdate     bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[uuid.UUID]*entity.User),
		sessions: make(map[uuid.UUID]*entity.ChatSession),
	}
}

type fakeUow struct {
	store *fakeStore

	inTx       bool
	committed  bool
	rolledBack bool

	// staged writes applied on commit
	stagedMessages []*entity.ChatMessage
	stagedSessions []*entity.ChatSession
}

type fakeUowFactory struct {
	store   *fakeStore
	lastUow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	f.lastUow = &fakeUow{store: f.store}
	return f.lastUow
}

func (u *fakeUow) Begin(ctx context.Context) error {
	u.inTx = true
	return nil
}

func (u *fakeUow) Commit() error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	u.store.messages = append(u.store.messages, u.stagedMessages...)
	for _, s := range u.stagedSessions {
		copied := *s
		u.store.sessions[s.Id] = &copied
	}
	u.stagedMessages = nil
	u.stagedSessions = nil
	u.inTx = false
	u.committed = true
	return nil
}

func (u *fakeUow) Rollback() error {
	u.stagedMessages = nil
	u.stagedSessions = nil
	u.inTx = false
	u.rolledBack = true
	return nil
}

func (u *fakeUow) UserRepository() contract.UserRepository {
	return &fakeUserRepo{store: u.store}
}

func (u *fakeUow) ChatSessionRepository() contract.ChatSessionRepository {
	return &fakeSessionRepo{uow: u}
}

func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository {
	return &fakeMessageRepo{uow: u}
}

func (u *fakeUow) MoodRepository() contract.MoodRepository {
	return &fakeMoodRepo{store: u.store}
}

func (u *fakeUow) ActivityRepository() contract.ActivityRepository {
	return &fakeActivityRepo{store: u.store}
}
func (u *fakeUow) EventLogRepository() contract.EventLogRepository {
	return &fakeEventLogRepo{}
}

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	if user.Id == uuid.Nil {
		user.Id = uuid.New()
	}
	r.store.users[user.Id] = user
	return nil
}

func (r *fakeUserRepo) FindById(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.store.users[id], nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range r.store.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, userId uuid.UUID, hash string) error {
	if u, ok := r.store.users[userId]; ok {
		u.PasswordHash = hash
	}
	return nil
}

func (r *fakeUserRepo) CreatePasswordResetToken(ctx context.Context, token *entity.PasswordResetToken) error {
	if token.Id == uuid.Nil {
		token.Id = uuid.New()
	}
	r.store.resetTokens = append(r.store.resetTokens, token)
	return nil
}

func (r *fakeUserRepo) FindPasswordResetToken(ctx context.Context, tokenHash string) (*entity.PasswordResetToken, error) {
	for _, t := range r.store.resetTokens {
		if t.TokenHash == tokenHash {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) MarkTokenUsed(ctx context.Context, id uuid.UUID) error {
	for _, t := range r.store.resetTokens {
		if t.Id == id {
			t.Used = true
		}
	}
	return nil
}

func (r *fakeUserRepo) CreateUserSession(ctx context.Context, session *entity.UserSession) error {
	if session.Id == uuid.Nil {
		session.Id = uuid.New()
	}
	r.store.userSessions = append(r.store.userSessions, session)
	return nil
}

func (r *fakeUserRepo) DeleteUserSessionByTokenHash(ctx context.Context, tokenHash string) error {
	kept := r.store.userSessions[:0]
	for _, s := range r.store.userSessions {
		if s.TokenHash != tokenHash {
			kept = append(kept, s)
		}
	}
	r.store.userSessions = kept
	return nil
}

type fakeSessionRepo struct {
	uow *fakeUow
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	if session.Id == uuid.Nil {
		session.Id = uuid.New()
	}
	copied := *session
	r.uow.store.sessions[session.Id] = &copied
	return nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *entity.ChatSession) error {
	if r.uow.store.failUpdate {
		return errors.New("update failed")
	}
	if r.uow.inTx {
		copied := *session
		r.uow.stagedSessions = append(r.uow.stagedSessions, &copied)
		return nil
	}
	copied := *session
	r.uow.store.sessions[session.Id] = &copied
	return nil
}

func (r *fakeSessionRepo) FindById(ctx context.Context, id uuid.UUID) (*entity.ChatSession, error) {
	s, ok := r.uow.store.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSessionRepo) FindAllByUserId(ctx context.Context, userId uuid.UUID) ([]*entity.ChatSession, error) {
	var res []*entity.ChatSession
	for _, s := range r.uow.store.sessions {
		if s.UserId == userId {
			copied := *s
			res = append(res, &copied)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].StartTime.After(res[j].StartTime)
	})
	return res, nil
}

type fakeMessageRepo struct {
	uow *fakeUow
}

func (r *fakeMessageRepo) CreateBulk(ctx context.Context, messages []*entity.ChatMessage) error {
	if r.uow.store.failCreateBulk {
		return errors.New("insert failed")
	}
	for _, m := range messages {
		if m.Id == uuid.Nil {
			m.Id = uuid.New()
		}
	}
	if r.uow.inTx {
		r.uow.stagedMessages = append(r.uow.stagedMessages, messages...)
		return nil
	}
	r.uow.store.messages = append(r.uow.store.messages, messages...)
	return nil
}

func (r *fakeMessageRepo) FindAllBySessionId(ctx context.Context, sessionId uuid.UUID) ([]*entity.ChatMessage, error) {
	var res []*entity.ChatMessage
	for _, m := range r.uow.store.messages {
		if m.ChatSessionId == sessionId {
			res = append(res, m)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Sequence < res[j].Sequence })
	return res, nil
}

func (r *fakeMessageRepo) CountBySessionId(ctx context.Context, sessionId uuid.UUID) (int64, error) {
	msgs, _ := r.FindAllBySessionId(ctx, sessionId)
	return int64(len(msgs)), nil
}

type fakeMoodRepo struct {
	store *fakeStore
}

func (r *fakeMoodRepo) Create(ctx context.Context, mood *entity.Mood) error {
	if mood.Id == uuid.Nil {
		mood.Id = uuid.New()
	}
	r.store.moods = append(r.store.moods, mood)
	return nil
}

func (r *fakeMoodRepo) FindAllByUserIdBetween(ctx context.Context, userId uuid.UUID, from, to time.Time, desc bool) ([]*entity.Mood, error) {
	var res []*entity.Mood
	for _, m := range r.store.moods {
		if m.UserId == userId && !m.Timestamp.Before(from) && m.Timestamp.Before(to) {
			res = append(res, m)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if desc {
			return res[i].Timestamp.After(res[j].Timestamp)
		}
		return res[i].Timestamp.Before(res[j].Timestamp)
	})
	return res, nil
}

type fakeActivityRepo struct {
	store *fakeStore
}

func (r *fakeActivityRepo) Create(ctx context.Context, activity *entity.Activity) error {
	if activity.Id == uuid.Nil {
		activity.Id = uuid.New()
	}
	r.store.activities = append(r.store.activities, activity)
	return nil
}

func (r *fakeActivityRepo) FindAllByUserId(ctx context.Context, userId uuid.UUID) ([]*entity.Activity, error) {
	var res []*entity.Activity
	for _, a := range r.store.activities {
		if a.UserId == userId {
			res = append(res, a)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Timestamp.After(res[j].Timestamp) })
	return res, nil
}

func (r *fakeActivityRepo) FindAllByUserIdBetween(ctx context.Context, userId uuid.UUID, from, to time.Time) ([]*entity.Activity, error) {
	all, _ := r.FindAllByUserId(ctx, userId)
	var res []*entity.Activity
	for _, a := range all {
		if !a.Timestamp.Before(from) && a.Timestamp.Before(to) {
			res = append(res, a)
		}
	}
	return res, nil
}

type fakeEventLogRepo struct{}

func (r *fakeEventLogRepo) Create(ctx context.Context, eventLog *model.EventLog) error { return nil }

type fakeEngine struct {
	result *therapist.TurnResult
	calls  int
}

func (e *fakeEngine) Respond(ctx context.Context, message string, history []*entity.ChatMessage) *therapist.TurnResult {
	e.calls++
	if e.result != nil {
		return e.result
	}
	return &therapist.TurnResult{
		Reply:    "I hear you.",
		Analysis: therapist.NeutralAnalysis(),
	}
}

type fakeEmitter struct {
	mu     sync.Mutex
	events []events.Event
}

func (e *fakeEmitter) Emit(ctx context.Context, event events.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

func (e *fakeEmitter) types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var res []string
	for _, ev := range e.events {
		res = append(res, ev.EventType())
	}
	return res
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// --- helpers ---

type chatFixture struct {
	store   *fakeStore
	factory *fakeUowFactory
	engine  *fakeEngine
	emitter *fakeEmitter
	service IChatService
	userId  uuid.UUID
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	store := newFakeStore()
	factory := &fakeUowFactory{store: store}
	engine := &fakeEngine{}
	emitter := &fakeEmitter{}

	userId := uuid.New()
	store.users[userId] = &entity.User{Id: userId, Email: "user@example.com"}

	svc := NewChatService(factory, engine, emitter, memory.NewTurnStateRepository(), nopLogger{})
	return &chatFixture{
		store:   store,
		factory: factory,
		engine:  engine,
		emitter: emitter,
		service: svc,
		userId:  userId,
	}
}

func (f *chatFixture) createSession(t *testing.T) uuid.UUID {
	t.Helper()
	res, err := f.service.CreateSession(context.Background(), f.userId)
	require.NoError(t, err)
	return res.SessionId
}

// --- tests ---

func TestCreateSessionUnknownUser(t *testing.T) {
	f := newChatFixture(t)

	_, err := f.service.CreateSession(context.Background(), uuid.New())

	assert.True(t, apperror.IsNotFound(err))
}

func TestCreateSessionEmitsEvent(t *testing.T) {
	f := newChatFixture(t)

	res, err := f.service.CreateSession(context.Background(), f.userId)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, res.SessionId)
	assert.Contains(t, f.emitter.types(), "therapy/session.created")
}

func TestSendMessageEmptyRejectedBeforeModelCall(t *testing.T) {
	f := newChatFixture(t)
	sessionId := f.createSession(t)

	_, err := f.service.SendMessage(context.Background(), f.userId, sessionId, &dto.SendMessageRequest{Message: "   "})

	assert.True(t, apperror.IsValidation(err))
	assert.Equal(t, 0, f.engine.calls)
	assert.Empty(t, f.store.messages)
}

func TestSendMessageUnknownSession(t *testing.T) {
	f := newChatFixture(t)

	_, err := f.service.SendMessage(context.Background(), f.userId, uuid.New(), &dto.SendMessageRequest{Message: "hello"})

	assert.True(t, apperror.IsNotFound(err))
}

func TestSendMessageForeignSessionForbidden(t *testing.T) {
	f := newChatFixture(t)
	sessionId := f.createSession(t)

	otherUser := uuid.New()
	f.store.users[otherUser] = &entity.User{Id: otherUser}

	_, err := f.service.SendMessage(context.Background(), otherUser, sessionId, &dto.SendMessageRequest{Message: "hello"})

	assert.True(t, apperror.IsForbidden(err))
	assert.Equal(t, 0, f.engine.calls)
}

func TestSendMessageArchivedSessionRejected(t *testing.T) {
	f := newChatFixture(t)
	sessionId := f.createSession(t)
	f.store.sessions[sessionId].Status = entity.ChatSessionStatusArchived

	_, err := f.service.SendMessage(context.Background(), f.userId, sessionId, &dto.SendMessageRequest{Message: "hello"})

	assert.True(t, apperror.IsInvalidState(err))
	assert.Equal(t, 0, f.engine.calls)
}

func TestSendMessageAppendsUserThenAssistant(t *testing.T) {
	f := newChatFixture(t)
	sessionId := f.createSession(t)
	f.engine.result = &therapist.TurnResult{
		Reply: "That sounds difficult.",
		Analysis: &entity.Analysis{
			EmotionalState:      "sad",
			Themes:              []string{"loneliness"},
			RiskLevel:           1,
			RecommendedApproach: "supportive",
			ProgressIndicators:  []string{"openness"},
		},
	}

	res, err := f.service.SendMessage(context.Background(), f.userId, sessionId, &dto.SendMessageRequest{Message: "I feel alone"})

	require.NoError(t, err)
	assert.Equal(t, "That sounds difficult.", res.Response)
	assert.Equal(t, "sad", res.Analysis.EmotionalState)
	assert.Equal(t, 1, res.Metadata.Progress.RiskLevel)

	require.Len(t, f.store.messages, 2)
	assert.Equal(t, entity.ChatMessageRoleUser, f.store.messages[0].Role)
	assert.Equal(t, "I feel alone", f.store.messages[0].Content)
	assert.Nil(t, f.store.messages[0].Metadata)
	assert.Equal(t, entity.ChatMessageRoleAssistant, f.store.messages[1].Role)
	require.NotNil(t, f.store.messages[1].Metadata)
	assert.Equal(t, "sad", f.store.messages[1].Metadata.Analysis.EmotionalState)
	assert.Equal(t, 1, f.store.messages[1].Metadata.Progress.RiskLevel)

	assert.Contains(t, f.emitter.types(), "therapy/session.message")

	session := f.store.sessions[sessionId]
	assert.NotNil(t, session.UpdatedAt)
}

func TestSendMessageSequencePreservesInsertionOrder(t *testing.T) {
	f := newChatFixture(t)
	sessionId := f.createSession(t)

	for _, msg := range []string{"first", "second", "third"} {
		_, err := f.service.SendMessage(context.Background(), f.userId, sessionId, &dto.SendMessageRequest{Message: msg})
		require.NoError(t, err)
	}

	history, err := f.service.GetHistory(context.Background(), f.userId, sessionId)
	require.NoError(t, err)
	require.Len(t, history, 6)

	assert.Equal(t, "first", history[0].Content)
	assert.Equal(t, "second", history[2].Content)
	assert.Equal(t, "third", history[4].Content)
	for i, msg := range history {
		if i%2 == 0 {
			assert.Equal(t, entity.ChatMessageRoleUser, msg.Role)
		} else {
			assert.Equal(t, entity.ChatMessageRoleAssistant, msg.Role)
		}
	}
}

func TestSendMessageStorageFailureRollsBack(t *testing.T) {
	f := newChatFixture(t)
	sessionId := f.createSession(t)
	f.store.failCreateBulk = true

	_, err := f.service.SendMessage(context.Background(), f.userId, sessionId, &dto.SendMessageRequest{Message: "hello"})

	assert.True(t, apperror.IsStorage(err))
	assert.Empty(t, f.store.messages)
	assert.True(t, f.factory.lastUow.rolledBack)
	// The turn produced a model reply but nothing durable; no turn event.
	assert.NotContains(t, f.emitter.types(), "therapy/session.message")
}

func TestSendMessageFallbackTurnStillPersisted(t *testing.T) {
	f := newChatFixture(t)
	sessionId := f.createSession(t)
	f.engine.result = &therapist.TurnResult{
		Reply:    "I understand you're reaching out.",
		Analysis: therapist.NeutralAnalysis(),
		Fallback: true,
	}

	res, err := f.service.SendMessage(context.Background(), f.userId, sessionId, &dto.SendMessageRequest{Message: "are you there?"})

	require.NoError(t, err)
	assert.Equal(t, 0, res.Analysis.RiskLevel)
	require.Len(t, f.store.messages, 2)
	assert.Equal(t, "I understand you're reaching out.", f.store.messages[1].Content)
}

func TestSendMessageFallbackReusesCachedAnalysis(t *testing.T) {
	f := newChatFixture(t)
	sessionId := f.createSession(t)
	f.engine.result = &therapist.TurnResult{
		Reply: "That sounds exhausting.",
		Analysis: &entity.Analysis{
			EmotionalState:      "anxious",
			Themes:              []string{"work"},
			RiskLevel:           4,
			RecommendedApproach: "grounding",
			ProgressIndicators:  []string{"openness"},
		},
	}
	_, err := f.service.SendMessage(context.Background(), f.userId, sessionId, &dto.SendMessageRequest{Message: "Work is too much"})
	require.NoError(t, err)

	// The model goes down; the cached analysis carries the progress
	// forward instead of dropping back to neutral.
	f.engine.result = &therapist.TurnResult{
		Reply:    "I understand you're reaching out.",
		Analysis: therapist.NeutralAnalysis(),
		Fallback: true,
	}
	res, err := f.service.SendMessage(context.Background(), f.userId, sessionId, &dto.SendMessageRequest{Message: "still here?"})

	require.NoError(t, err)
	assert.Equal(t, "anxious", res.Analysis.EmotionalState)
	assert.Equal(t, 4, res.Analysis.RiskLevel)
	assert.Equal(t, "anxious", res.Metadata.Progress.EmotionalState)
	require.Len(t, f.store.messages, 4)
	require.NotNil(t, f.store.messages[3].Metadata)
	assert.Equal(t, "anxious", f.store.messages[3].Metadata.Analysis.EmotionalState)
}

func TestGetHistoryForeignSessionForbidden(t *testing.T) {
	f := newChatFixture(t)
	sessionId := f.createSession(t)

	_, err := f.service.GetHistory(context.Background(), uuid.New(), sessionId)

	assert.True(t, apperror.IsForbidden(err))
}

func TestGetHistoryEmptySession(t *testing.T) {
	f := newChatFixture(t)
	sessionId := f.createSession(t)

	history, err := f.service.GetHistory(context.Background(), f.userId, sessionId)

	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestListSessionsNewestFirst(t *testing.T) {
	f := newChatFixture(t)

	first := f.createSession(t)
	f.store.sessions[first].StartTime = time.Now().Add(-time.Hour)
	second := f.createSession(t)

	res, err := f.service.ListSessions(context.Background(), f.userId)

	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, second, res[0].SessionId)
	assert.Equal(t, first, res[1].SessionId)
}

func TestUpdateStatusTransitions(t *testing.T) {
	f := newChatFixture(t)
	sessionId := f.createSession(t)

	res, err := f.service.UpdateStatus(context.Background(), f.userId, sessionId, &dto.UpdateSessionStatusRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, "completed", res.Status)

	res, err = f.service.UpdateStatus(context.Background(), f.userId, sessionId, &dto.UpdateSessionStatusRequest{Status: "archived"})
	require.NoError(t, err)
	assert.Equal(t, "archived", res.Status)
}

func TestUpdateStatusArchivedIsTerminal(t *testing.T) {
	f := newChatFixture(t)
	sessionId := f.createSession(t)
	f.store.sessions[sessionId].Status = entity.ChatSessionStatusArchived

	_, err := f.service.UpdateStatus(context.Background(), f.userId, sessionId, &dto.UpdateSessionStatusRequest{Status: "active"})

	assert.True(t, apperror.IsInvalidState(err))
}
