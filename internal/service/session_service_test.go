package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"vivaai_backend/internal/model"
	"vivaai_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAI struct {
	mu        sync.Mutex
	eval      model.AnswerEvaluation
	evalErr   error
	questions []string
	asked     []model.Difficulty
}

func (f *fakeAI) EvaluateAnswer(ctx context.Context, interviewType model.InterviewType, question, answer string) (model.AnswerEvaluation, error) {
	return f.eval, f.evalErr
}

func (f *fakeAI) NextQuestion(ctx context.Context, interviewType model.InterviewType, nextDifficulty model.Difficulty, tone model.Tone) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.asked = append(f.asked, nextDifficulty)
	if len(f.questions) == 0 {
		return fmt.Sprintf("question at %s", nextDifficulty), nil
	}
	q := f.questions[0]
	f.questions = f.questions[1:]
	return q, nil
}

type fakeRecorder struct {
	mu      sync.Mutex
	created []*model.Interview
	err     error
}

func (f *fakeRecorder) Create(ctx context.Context, interview *model.Interview) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	interview.ID = uint(len(f.created) + 1)
	f.created = append(f.created, interview)
	return nil
}

func newSessionFixture(ai *fakeAI, rec *fakeRecorder) *SessionService {
	return NewSessionService(NewAdaptiveService(), ai, ai, rec)
}

func TestSessionFullTurn(t *testing.T) {
	ai := &fakeAI{eval: model.AnswerEvaluation{
		Score:      8,
		Confidence: model.ConfidenceHigh,
		Summary:    "clear and specific",
	}}
	rec := &fakeRecorder{}
	s := newSessionFixture(ai, rec)

	session, err := s.Start(context.Background(), 1, model.TypeBehavioral, model.DifficultyMedium)
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, model.DifficultyMedium, session.State.CurrentDifficulty)
	assert.Equal(t, model.ToneNeutral, session.Tone)
	firstQuestion := session.CurrentQuestion

	result, err := s.SubmitAnswer(context.Background(), 1, session.ID, "I led the migration project end to end.", "")
	require.NoError(t, err)

	// 高信心高分：medium → hard，新难度 hard + score 8 → challenging
	assert.Equal(t, model.DifficultyHard, result.NextDifficulty)
	assert.Equal(t, model.ToneChallenging, result.Tone)
	assert.NotEmpty(t, result.NextQuestion)

	// 作答按提交时的难度与题目落库
	require.Len(t, rec.created, 1)
	saved := rec.created[0]
	assert.Equal(t, session.ID, saved.SessionID)
	assert.Equal(t, model.DifficultyMedium, saved.Difficulty)
	assert.Equal(t, firstQuestion, saved.Question)
	assert.Equal(t, 8.0, saved.Score)
	assert.Equal(t, result.InterviewID, saved.ID)

	// 会话状态已步进
	updated, err := s.Get(1, session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DifficultyHard, updated.State.CurrentDifficulty)
	assert.Equal(t, 1, updated.QuestionCount)

	// 出题难度：开场 medium，步进后 hard
	assert.Equal(t, []model.Difficulty{model.DifficultyMedium, model.DifficultyHard}, ai.asked)
}

func TestSessionInvalidEvaluationPropagates(t *testing.T) {
	ai := &fakeAI{eval: model.AnswerEvaluation{Score: 27, Confidence: model.ConfidenceHigh}}
	rec := &fakeRecorder{}
	s := newSessionFixture(ai, rec)

	session, err := s.Start(context.Background(), 1, model.TypeHR, model.DifficultyEasy)
	require.NoError(t, err)

	_, err = s.SubmitAnswer(context.Background(), 1, session.ID, "answer", "")
	assert.ErrorIs(t, err, util.ErrInvalidEvaluation)

	// 非法评估不落库，会话状态不变
	assert.Empty(t, rec.created)
	unchanged, err := s.Get(1, session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DifficultyEasy, unchanged.State.CurrentDifficulty)
	assert.Equal(t, 0, unchanged.QuestionCount)
}

func TestSessionUpstreamErrorPropagates(t *testing.T) {
	ai := &fakeAI{evalErr: fmt.Errorf("%w: gateway status 503", util.ErrUpstreamService)}
	s := newSessionFixture(ai, &fakeRecorder{})

	session, err := s.Start(context.Background(), 1, model.TypeTechnical, model.DifficultyMedium)
	require.NoError(t, err)

	_, err = s.SubmitAnswer(context.Background(), 1, session.ID, "answer", "")
	assert.ErrorIs(t, err, util.ErrUpstreamService)

	// 失败后可以直接重试
	ai.evalErr = nil
	ai.eval = model.AnswerEvaluation{Score: 5, Confidence: model.ConfidenceMedium}
	_, err = s.SubmitAnswer(context.Background(), 1, session.ID, "answer", "")
	assert.NoError(t, err)
}

func TestSessionOwnershipAndLifecycle(t *testing.T) {
	ai := &fakeAI{eval: model.AnswerEvaluation{Score: 5, Confidence: model.ConfidenceMedium}}
	s := newSessionFixture(ai, &fakeRecorder{})

	session, err := s.Start(context.Background(), 1, model.TypeHR, "")
	require.NoError(t, err)
	// 未指定难度时从 easy 开始
	assert.Equal(t, model.DifficultyEasy, session.State.CurrentDifficulty)

	// 其他用户不可见
	_, err = s.Get(2, session.ID)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
	_, err = s.SubmitAnswer(context.Background(), 2, session.ID, "answer", "")
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
	err = s.Abandon(2, session.ID)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)

	require.NoError(t, s.Abandon(1, session.ID))
	_, err = s.Get(1, session.ID)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestSessionStartRejectsBadInput(t *testing.T) {
	s := newSessionFixture(&fakeAI{}, &fakeRecorder{})

	_, err := s.Start(context.Background(), 1, "quiz", model.DifficultyEasy)
	assert.ErrorIs(t, err, util.ErrInvalidEvaluation)

	_, err = s.Start(context.Background(), 1, model.TypeHR, "impossible")
	assert.ErrorIs(t, err, util.ErrInvalidEvaluation)
}

func TestSessionBusyRejectsConcurrentAnswer(t *testing.T) {
	s := newSessionFixture(&fakeAI{eval: model.AnswerEvaluation{Score: 5, Confidence: model.ConfidenceMedium}}, &fakeRecorder{})

	session, err := s.Start(context.Background(), 1, model.TypeHR, model.DifficultyEasy)
	require.NoError(t, err)

	acquired, err := s.acquire(session.ID, 1)
	require.NoError(t, err)

	_, err = s.SubmitAnswer(context.Background(), 1, session.ID, "answer", "")
	assert.ErrorIs(t, err, util.ErrSessionBusy)

	s.release(acquired)
	_, err = s.SubmitAnswer(context.Background(), 1, session.ID, "answer", "")
	assert.NoError(t, err)
}

func TestSessionGetReturnsSnapshot(t *testing.T) {
	ai := &fakeAI{eval: model.AnswerEvaluation{Score: 8, Confidence: model.ConfidenceHigh}}
	s := newSessionFixture(ai, &fakeRecorder{})

	session, err := s.Start(context.Background(), 1, model.TypeBehavioral, model.DifficultyMedium)
	require.NoError(t, err)

	before, err := s.Get(1, session.ID)
	require.NoError(t, err)

	_, err = s.SubmitAnswer(context.Background(), 1, session.ID, "answer", "")
	require.NoError(t, err)

	// 已取出的快照不随后续步进改变
	assert.Equal(t, model.DifficultyMedium, before.State.CurrentDifficulty)
	assert.Equal(t, 0, before.QuestionCount)

	after, err := s.Get(1, session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DifficultyHard, after.State.CurrentDifficulty)
	assert.Equal(t, 1, after.QuestionCount)
}

// 面试进行中轮询会话详情是合法的并发路径，快照序列化不得与步进写入竞争
func TestSessionConcurrentGetDuringAnswer(t *testing.T) {
	ai := &fakeAI{eval: model.AnswerEvaluation{Score: 5, Confidence: model.ConfidenceMedium}}
	s := newSessionFixture(ai, &fakeRecorder{})

	session, err := s.Start(context.Background(), 1, model.TypeHR, model.DifficultyMedium)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			snap, err := s.Get(1, session.ID)
			if err != nil {
				continue
			}
			if _, err := json.Marshal(snap); err != nil {
				t.Error(err)
				return
			}
		}
	}()

	for i := 0; i < 20; i++ {
		_, err := s.SubmitAnswer(context.Background(), 1, session.ID, "answer", "")
		require.NoError(t, err)
	}
	<-done
}
