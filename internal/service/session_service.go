package service

import (
	"context"
	"fmt"
	"sync"
	"time"
	"vivaai_backend/internal/model"
	"vivaai_backend/internal/util"
	"vivaai_backend/pkg/logger"

	"go.uber.org/zap"
)

// AnswerEvaluator 评分网关的最小接口，便于测试替换
type AnswerEvaluator interface {
	EvaluateAnswer(ctx context.Context, interviewType model.InterviewType, question, answer string) (model.AnswerEvaluation, error)
}

// QuestionGenerator 出题网关的最小接口
type QuestionGenerator interface {
	NextQuestion(ctx context.Context, interviewType model.InterviewType, nextDifficulty model.Difficulty, tone model.Tone) (string, error)
}

// InterviewRecorder 作答记录的持久化入口
type InterviewRecorder interface {
	Create(ctx context.Context, interview *model.Interview) error
}

// InterviewSession 一场进行中的模拟面试。
// 难度/语气状态只活在会话里，随会话结束丢弃；每道题的作答单独落库。
type InterviewSession struct {
	ID              string              `json:"id"`
	UserID          uint                `json:"userId"`
	InterviewType   model.InterviewType `json:"interviewType"`
	State           AdaptiveState       `json:"-"`
	CurrentQuestion string              `json:"currentQuestion"`
	Tone            model.Tone          `json:"tone"`
	QuestionCount   int                 `json:"questionCount"`
	StartedAt       time.Time           `json:"startedAt"`

	busy bool
}

// TurnResult 一次完整答题步进的输出
type TurnResult struct {
	Evaluation     model.AnswerEvaluation `json:"evaluation"`
	NextDifficulty model.Difficulty       `json:"nextDifficulty"`
	Tone           model.Tone             `json:"tone"`
	NextQuestion   string                 `json:"nextQuestion"`
	InterviewID    uint                   `json:"interviewId"`
}

// SessionService 管理进行中的面试会话：开场出题、答题步进、放弃。
// 会话保存在内存里，进程重启即丢失，与作答记录的持久化互不影响
type SessionService struct {
	Adaptive  *AdaptiveService
	Evaluator AnswerEvaluator
	Generator QuestionGenerator
	Recorder  InterviewRecorder

	mu       sync.Mutex
	sessions map[string]*InterviewSession
}

func NewSessionService(adaptive *AdaptiveService, evaluator AnswerEvaluator, generator QuestionGenerator, recorder InterviewRecorder) *SessionService {
	return &SessionService{
		Adaptive:  adaptive,
		Evaluator: evaluator,
		Generator: generator,
		Recorder:  recorder,
		sessions:  make(map[string]*InterviewSession),
	}
}

// Start 开启一场面试：按请求的起始难度生成第一道题，语气从 neutral 开始
func (s *SessionService) Start(ctx context.Context, userID uint, interviewType model.InterviewType, difficulty model.Difficulty) (*InterviewSession, error) {
	if !interviewType.Valid() {
		return nil, fmt.Errorf("%w: interview type %q", util.ErrInvalidEvaluation, interviewType)
	}
	if difficulty == "" {
		difficulty = model.DifficultyEasy
	}
	if !difficulty.Valid() {
		return nil, fmt.Errorf("%w: difficulty %q", util.ErrInvalidEvaluation, difficulty)
	}

	question, err := s.Generator.NextQuestion(ctx, interviewType, difficulty, model.ToneNeutral)
	if err != nil {
		return nil, err
	}

	session := &InterviewSession{
		ID:              model.GenerateUUID(),
		UserID:          userID,
		InterviewType:   interviewType,
		State:           AdaptiveState{CurrentDifficulty: difficulty},
		CurrentQuestion: question,
		Tone:            model.ToneNeutral,
		StartedAt:       time.Now(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	snapshot := *session
	s.mu.Unlock()

	logger.Log.Info("interview session started",
		zap.String("sessionID", session.ID),
		zap.Uint("userID", userID),
		zap.String("type", string(interviewType)),
		zap.String("difficulty", string(difficulty)))

	return &snapshot, nil
}

// acquire 取出会话并标记忙碌，同一会话同一时刻只允许一次答题在途
func (s *SessionService) acquire(sessionID string, userID uint) (*InterviewSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok || session.UserID != userID {
		return nil, util.ErrSessionNotFound
	}
	if session.busy {
		return nil, util.ErrSessionBusy
	}
	session.busy = true
	return session, nil
}

func (s *SessionService) release(session *InterviewSession) {
	s.mu.Lock()
	session.busy = false
	s.mu.Unlock()
}

// SubmitAnswer 执行一次完整的答题步进：
// 评分 → 校验 → 落库 → 难度/语气步进 → 生成下一题。
// 评分越界或网关失败时整个步进失败，会话状态保持原样。
func (s *SessionService) SubmitAnswer(ctx context.Context, userID uint, sessionID, answer, recordingKey string) (*TurnResult, error) {
	session, err := s.acquire(sessionID, userID)
	if err != nil {
		return nil, err
	}
	defer s.release(session)

	eval, err := s.Evaluator.EvaluateAnswer(ctx, session.InterviewType, session.CurrentQuestion, answer)
	if err != nil {
		return nil, err
	}
	if err := s.Adaptive.ValidateEvaluation(eval); err != nil {
		return nil, err
	}

	interview := &model.Interview{
		UserID:        userID,
		SessionID:     session.ID,
		InterviewType: session.InterviewType,
		Difficulty:    session.State.CurrentDifficulty,
		Question:      session.CurrentQuestion,
		Answer:        answer,
		Score:         eval.Score,
		Confidence:    eval.Confidence,
		Hesitation:    eval.Hesitation,
		AnswerLength:  len([]rune(answer)),
		Summary:       eval.Summary,
		RecordingKey:  recordingKey,
	}
	if err := s.Recorder.Create(ctx, interview); err != nil {
		return nil, err
	}

	newState, tone, err := s.Adaptive.Advance(session.State, eval)
	if err != nil {
		return nil, err
	}

	nextQuestion, err := s.Generator.NextQuestion(ctx, session.InterviewType, newState.CurrentDifficulty, tone)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	session.State = newState
	session.Tone = tone
	session.CurrentQuestion = nextQuestion
	session.QuestionCount++
	s.mu.Unlock()

	return &TurnResult{
		Evaluation:     eval,
		NextDifficulty: newState.CurrentDifficulty,
		Tone:           tone,
		NextQuestion:   nextQuestion,
		InterviewID:    interview.ID,
	}, nil
}

// Abandon 结束并丢弃会话，已落库的作答记录保留
func (s *SessionService) Abandon(userID uint, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok || session.UserID != userID {
		return util.ErrSessionNotFound
	}
	delete(s.sessions, sessionID)

	logger.Log.Info("interview session abandoned",
		zap.String("sessionID", sessionID),
		zap.Uint("userID", userID),
		zap.Int("answered", session.QuestionCount))
	return nil
}

// Get 查询进行中的会话。
// 返回加锁时刻的快照副本，调用方序列化时不会与答题步进的写入竞争
func (s *SessionService) Get(userID uint, sessionID string) (*InterviewSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok || session.UserID != userID {
		return nil, util.ErrSessionNotFound
	}
	snapshot := *session
	return &snapshot, nil
}
