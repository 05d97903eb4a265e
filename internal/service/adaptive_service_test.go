package service

import (
	"testing"
	"vivaai_backend/internal/model"
	"vivaai_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextDifficultyStepDown(t *testing.T) {
	s := NewAdaptiveService()

	// 犹豫信号在任何难度下都降一档，easy 封底
	cases := []struct {
		current model.Difficulty
		want    model.Difficulty
	}{
		{model.DifficultyHard, model.DifficultyMedium},
		{model.DifficultyMedium, model.DifficultyEasy},
		{model.DifficultyEasy, model.DifficultyEasy},
	}
	for _, tc := range cases {
		got, err := s.NextDifficulty(tc.current, model.AnswerEvaluation{
			Score:      8,
			Confidence: model.ConfidenceHigh,
			Hesitation: true,
		})
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "hesitation from %s", tc.current)
	}

	// 低分同样触发降档
	got, err := s.NextDifficulty(model.DifficultyMedium, model.AnswerEvaluation{
		Score:      4,
		Confidence: model.ConfidenceMedium,
	})
	require.NoError(t, err)
	assert.Equal(t, model.DifficultyEasy, got)
}

func TestNextDifficultyStepUp(t *testing.T) {
	s := NewAdaptiveService()

	cases := []struct {
		current model.Difficulty
		want    model.Difficulty
	}{
		{model.DifficultyEasy, model.DifficultyMedium},
		{model.DifficultyMedium, model.DifficultyHard},
		{model.DifficultyHard, model.DifficultyHard},
	}
	for _, tc := range cases {
		got, err := s.NextDifficulty(tc.current, model.AnswerEvaluation{
			Score:      7,
			Confidence: model.ConfidenceHigh,
		})
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "step up from %s", tc.current)
	}

	// 高分但信心不足不升档
	got, err := s.NextDifficulty(model.DifficultyEasy, model.AnswerEvaluation{
		Score:      9,
		Confidence: model.ConfidenceMedium,
	})
	require.NoError(t, err)
	assert.Equal(t, model.DifficultyEasy, got)
}

func TestNextDifficultyDowngradeWins(t *testing.T) {
	s := NewAdaptiveService()

	// 犹豫 + 高信心高分：降档规则优先
	got, err := s.NextDifficulty(model.DifficultyMedium, model.AnswerEvaluation{
		Score:      9,
		Confidence: model.ConfidenceHigh,
		Hesitation: true,
	})
	require.NoError(t, err)
	assert.Equal(t, model.DifficultyEasy, got)
}

func TestNextDifficultyNeverSkipsLevel(t *testing.T) {
	s := NewAdaptiveService()

	for _, current := range []model.Difficulty{model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard} {
		for _, eval := range []model.AnswerEvaluation{
			{Score: 1, Confidence: model.ConfidenceLow, Hesitation: true},
			{Score: 10, Confidence: model.ConfidenceHigh},
			{Score: 5, Confidence: model.ConfidenceMedium},
		} {
			got, err := s.NextDifficulty(current, eval)
			require.NoError(t, err)
			assert.LessOrEqual(t, levelDistance(current, got), 1)
		}
	}
}

func levelDistance(a, b model.Difficulty) int {
	rank := map[model.Difficulty]int{
		model.DifficultyEasy:   0,
		model.DifficultyMedium: 1,
		model.DifficultyHard:   2,
	}
	d := rank[a] - rank[b]
	if d < 0 {
		d = -d
	}
	return d
}

func TestValidateEvaluationRejectsBadInput(t *testing.T) {
	s := NewAdaptiveService()

	err := s.ValidateEvaluation(model.AnswerEvaluation{Score: 0, Confidence: model.ConfidenceHigh})
	assert.ErrorIs(t, err, util.ErrInvalidEvaluation)

	err = s.ValidateEvaluation(model.AnswerEvaluation{Score: 11, Confidence: model.ConfidenceHigh})
	assert.ErrorIs(t, err, util.ErrInvalidEvaluation)

	err = s.ValidateEvaluation(model.AnswerEvaluation{Score: 5, Confidence: "extreme"})
	assert.ErrorIs(t, err, util.ErrInvalidEvaluation)

	_, err = s.NextDifficulty("impossible", model.AnswerEvaluation{Score: 5, Confidence: model.ConfidenceMedium})
	assert.ErrorIs(t, err, util.ErrInvalidEvaluation)
}

func TestInterviewerTone(t *testing.T) {
	s := NewAdaptiveService()

	// 犹豫、低分或低信心一律 supportive
	assert.Equal(t, model.ToneSupportive, s.InterviewerTone(model.DifficultyHard, model.AnswerEvaluation{
		Score: 9, Confidence: model.ConfidenceHigh, Hesitation: true,
	}))
	assert.Equal(t, model.ToneSupportive, s.InterviewerTone(model.DifficultyMedium, model.AnswerEvaluation{
		Score: 4, Confidence: model.ConfidenceHigh,
	}))
	assert.Equal(t, model.ToneSupportive, s.InterviewerTone(model.DifficultyMedium, model.AnswerEvaluation{
		Score: 7, Confidence: model.ConfidenceLow,
	}))

	// hard + 高信心 + 高分 = challenging
	assert.Equal(t, model.ToneChallenging, s.InterviewerTone(model.DifficultyHard, model.AnswerEvaluation{
		Score: 8, Confidence: model.ConfidenceHigh,
	}))

	// 其余 neutral
	assert.Equal(t, model.ToneNeutral, s.InterviewerTone(model.DifficultyMedium, model.AnswerEvaluation{
		Score: 8, Confidence: model.ConfidenceHigh,
	}))
	assert.Equal(t, model.ToneNeutral, s.InterviewerTone(model.DifficultyHard, model.AnswerEvaluation{
		Score: 7, Confidence: model.ConfidenceHigh,
	}))
}

func TestAdvanceEndToEnd(t *testing.T) {
	s := NewAdaptiveService()

	// medium + 低分 + 犹豫 → easy / supportive
	state := AdaptiveState{CurrentDifficulty: model.DifficultyMedium}
	eval := model.AnswerEvaluation{Score: 3, Confidence: model.ConfidenceLow, Hesitation: true}

	newState, tone, err := s.Advance(state, eval)
	require.NoError(t, err)
	assert.Equal(t, model.DifficultyEasy, newState.CurrentDifficulty)
	assert.Equal(t, model.ToneSupportive, tone)
	require.NotNil(t, newState.LastEvaluation)
	assert.Equal(t, eval, *newState.LastEvaluation)

	// 非法评估不改变状态
	_, _, err = s.Advance(newState, model.AnswerEvaluation{Score: 42, Confidence: model.ConfidenceHigh})
	assert.ErrorIs(t, err, util.ErrInvalidEvaluation)
}
