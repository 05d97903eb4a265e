package service

import (
	"fmt"
	"vivaai_backend/internal/model"
	"vivaai_backend/internal/util"
)

// AdaptiveState 单场面试会话内的难度/语气跟踪。
// 会话开始时创建，每答一题步进一次，会话结束即丢弃，从不落库。
type AdaptiveState struct {
	CurrentDifficulty model.Difficulty
	LastEvaluation    *model.AnswerEvaluation
}

// AdaptiveService 规则驱动的难度与语气控制器。
// 纯函数：输出只取决于当前难度与本次评估，没有隐藏状态。
type AdaptiveService struct{}

func NewAdaptiveService() *AdaptiveService {
	return &AdaptiveService{}
}

// ValidateEvaluation 拒绝越界分数与非法枚举。
// 评分服务出 bug 时必须让调用方看到错误，钳制会把问题掩盖掉。
func (s *AdaptiveService) ValidateEvaluation(eval model.AnswerEvaluation) error {
	if eval.Score < 1 || eval.Score > 10 {
		return fmt.Errorf("%w: score %.1f out of range [1,10]", util.ErrInvalidEvaluation, eval.Score)
	}
	if !eval.Confidence.Valid() {
		return fmt.Errorf("%w: confidence %q", util.ErrInvalidEvaluation, eval.Confidence)
	}
	return nil
}

// NextDifficulty 难度转移规则，按优先级匹配：
//  1. 犹豫或得分≤4：降一档（最低 easy）
//  2. 信心 high 且得分≥7：升一档（最高 hard）
//  3. 其余保持不变
//
// 规则1优先于规则2，单次调用最多变动一档。
func (s *AdaptiveService) NextDifficulty(current model.Difficulty, eval model.AnswerEvaluation) (model.Difficulty, error) {
	if !current.Valid() {
		return "", fmt.Errorf("%w: difficulty %q", util.ErrInvalidEvaluation, current)
	}
	if err := s.ValidateEvaluation(eval); err != nil {
		return "", err
	}

	if eval.Hesitation || eval.Score <= 4 {
		return stepDown(current), nil
	}
	if eval.Confidence == model.ConfidenceHigh && eval.Score >= 7 {
		return stepUp(current), nil
	}
	return current, nil
}

// InterviewerTone 语气规则，基于升降档之后的新难度判断。
// 刚被降到 easy 的候选人不可能在同一轮收到 challenging：
// 触发降档的犹豫/低分信号会先命中规则1，而规则2要求新难度为 hard。
func (s *AdaptiveService) InterviewerTone(nextDifficulty model.Difficulty, eval model.AnswerEvaluation) model.Tone {
	if eval.Hesitation || eval.Score <= 4 || eval.Confidence == model.ConfidenceLow {
		return model.ToneSupportive
	}
	if nextDifficulty == model.DifficultyHard && eval.Confidence == model.ConfidenceHigh && eval.Score >= 8 {
		return model.ToneChallenging
	}
	return model.ToneNeutral
}

// Advance 执行一次完整的控制器步进：先定难度，再按新难度定语气
func (s *AdaptiveService) Advance(state AdaptiveState, eval model.AnswerEvaluation) (AdaptiveState, model.Tone, error) {
	next, err := s.NextDifficulty(state.CurrentDifficulty, eval)
	if err != nil {
		return state, "", err
	}
	tone := s.InterviewerTone(next, eval)

	evalCopy := eval
	return AdaptiveState{
		CurrentDifficulty: next,
		LastEvaluation:    &evalCopy,
	}, tone, nil
}

func stepDown(d model.Difficulty) model.Difficulty {
	switch d {
	case model.DifficultyHard:
		return model.DifficultyMedium
	case model.DifficultyMedium:
		return model.DifficultyEasy
	}
	return model.DifficultyEasy
}

func stepUp(d model.Difficulty) model.Difficulty {
	switch d {
	case model.DifficultyEasy:
		return model.DifficultyMedium
	case model.DifficultyMedium:
		return model.DifficultyHard
	}
	return model.DifficultyHard
}
