package service

import (
	"testing"
	"vivaai_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInsightService() *InsightService {
	return NewInsightService(NewAnalyticsService(nil), nil)
}

func TestBehavioralInsightsEmpty(t *testing.T) {
	s := newInsightService()

	insights := s.BehavioralInsights(nil)
	assert.NotNil(t, insights)
	assert.Empty(t, insights)

	assert.Nil(t, s.CoachingSuggestion(nil))
}

func TestBehavioralInsightsCap(t *testing.T) {
	s := newInsightService()

	// 高犹豫 + 过短回答 + 类型差距：三条规则全命中，仍只出3条
	records := []model.Interview{
		rec(0, withType(model.TypeTechnical), withScore(9), withAnswerLength(20), withHesitation()),
		rec(1, withType(model.TypeTechnical), withScore(9), withAnswerLength(20), withHesitation()),
		rec(2, withType(model.TypeHR), withScore(3), withAnswerLength(20), withHesitation()),
		rec(3, withType(model.TypeHR), withScore(3), withAnswerLength(20), withHesitation()),
	}

	insights := s.BehavioralInsights(records)
	assert.LessOrEqual(t, len(insights), 3)
	assert.NotEmpty(t, insights)
}

func TestBehavioralInsightsHesitation(t *testing.T) {
	s := newInsightService()

	// 犹豫率 75% → 警告
	records := []model.Interview{
		rec(0, withHesitation()),
		rec(1, withHesitation()),
		rec(2, withHesitation()),
		rec(3),
	}
	insights := s.BehavioralInsights(records)
	require.NotEmpty(t, insights)
	assert.Equal(t, "High Hesitation Rate", insights[0].Title)
	assert.Equal(t, model.InsightWarning, insights[0].Type)

	// 无犹豫 → Strong Delivery
	records = []model.Interview{rec(0), rec(1), rec(2)}
	insights = s.BehavioralInsights(records)
	require.NotEmpty(t, insights)
	assert.Equal(t, "Strong Delivery", insights[0].Title)

	// 近期犹豫显著下降 → Hesitation Improving
	records = []model.Interview{
		rec(0), rec(1), rec(2), rec(3), rec(4),
		rec(5, withHesitation()),
		rec(6, withHesitation()),
		rec(7, withHesitation()),
	}
	insights = s.BehavioralInsights(records)
	require.NotEmpty(t, insights)
	assert.Equal(t, "Hesitation Improving", insights[0].Title)
	assert.Equal(t, model.InsightSuccess, insights[0].Type)
}

func TestBehavioralInsightsAnswerLength(t *testing.T) {
	s := newInsightService()

	insights := s.BehavioralInsights([]model.Interview{rec(0, withAnswerLength(30))})
	titles := insightTitles(insights)
	assert.Contains(t, titles, "Answers May Be Too Brief")

	insights = s.BehavioralInsights([]model.Interview{rec(0, withAnswerLength(500))})
	assert.Contains(t, insightTitles(insights), "Consider Conciseness")

	insights = s.BehavioralInsights([]model.Interview{rec(0, withAnswerLength(150))})
	assert.Contains(t, insightTitles(insights), "Ideal Answer Length")
}

func TestBehavioralInsightsPerformanceGap(t *testing.T) {
	s := newInsightService()

	// technical 8.0 vs hr 5.0，差距 ≥1.5 → Performance Gap
	records := []model.Interview{
		rec(0, withType(model.TypeTechnical), withScore(8)),
		rec(1, withType(model.TypeTechnical), withScore(8)),
		rec(2, withType(model.TypeHR), withScore(5)),
		rec(3, withType(model.TypeHR), withScore(5)),
	}

	insights := s.BehavioralInsights(records)
	var gap *model.BehavioralInsight
	for i := range insights {
		if insights[i].Title == "Performance Gap Detected" {
			gap = &insights[i]
		}
	}
	require.NotNil(t, gap)
	assert.Equal(t, model.InsightInfo, gap.Type)
	assert.Contains(t, gap.Message, "Technical")
	assert.Contains(t, gap.Message, "HR")
	assert.Contains(t, gap.Message, "8.0")
	assert.Contains(t, gap.Message, "5.0")
}

func insightTitles(insights []model.BehavioralInsight) []string {
	titles := make([]string, 0, len(insights))
	for _, i := range insights {
		titles = append(titles, i.Title)
	}
	return titles
}

func TestCoachingSuggestionHighHesitation(t *testing.T) {
	s := newInsightService()

	records := []model.Interview{
		rec(0, withHesitation(), withDifficulty(model.DifficultyEasy)),
		rec(1, withHesitation(), withDifficulty(model.DifficultyEasy)),
		rec(2, withDifficulty(model.DifficultyEasy)),
	}

	suggestion := s.CoachingSuggestion(records)
	require.NotNil(t, suggestion)
	assert.Equal(t, "Response Confidence", suggestion.ImprovementArea)
	assert.Equal(t, model.TypeBehavioral, suggestion.NextBestAction.InterviewType)
	assert.Equal(t, model.DifficultyEasy, suggestion.NextBestAction.Difficulty)
	assert.Equal(t, "Practice Easy Behavioral", suggestion.NextBestAction.Label)
}

func TestCoachingSuggestionLowConfidence(t *testing.T) {
	s := newInsightService()

	records := []model.Interview{
		rec(0, withConfidence(model.ConfidenceLow), withScore(7)),
		rec(1, withConfidence(model.ConfidenceLow), withScore(7)),
		rec(2, withConfidence(model.ConfidenceMedium), withScore(7)),
	}

	suggestion := s.CoachingSuggestion(records)
	require.NotNil(t, suggestion)
	assert.Equal(t, "Building Confidence", suggestion.ImprovementArea)
	assert.Equal(t, model.TypeHR, suggestion.NextBestAction.InterviewType)
	assert.Equal(t, model.DifficultyEasy, suggestion.NextBestAction.Difficulty)
}

func TestCoachingSuggestionFoundational(t *testing.T) {
	s := newInsightService()

	// 均分低且没有起色 → 回归基础，指向最弱类型
	records := []model.Interview{
		rec(0, withType(model.TypeTechnical), withScore(4)),
		rec(1, withType(model.TypeTechnical), withScore(4)),
		rec(2, withType(model.TypeHR), withScore(5)),
		rec(3, withType(model.TypeHR), withScore(5)),
	}

	suggestion := s.CoachingSuggestion(records)
	require.NotNil(t, suggestion)
	assert.Equal(t, "Foundational Skills", suggestion.ImprovementArea)
	assert.Equal(t, model.TypeTechnical, suggestion.NextBestAction.InterviewType)
	assert.Equal(t, "Retry Technical Interview", suggestion.NextBestAction.Label)
	assert.Equal(t, model.DifficultyEasy, suggestion.NextBestAction.Difficulty)
}

func TestCoachingSuggestionAdvance(t *testing.T) {
	s := newInsightService()

	// 近3条均分高于前3条，整体≥7，零犹豫 → 升档
	records := []model.Interview{
		rec(0, withScore(9), withConfidence(model.ConfidenceHigh)),
		rec(1, withScore(9), withConfidence(model.ConfidenceHigh)),
		rec(2, withScore(8), withConfidence(model.ConfidenceHigh)),
		rec(3, withScore(7), withConfidence(model.ConfidenceHigh)),
		rec(4, withScore(7), withConfidence(model.ConfidenceHigh)),
		rec(5, withScore(7), withConfidence(model.ConfidenceHigh)),
	}

	suggestion := s.CoachingSuggestion(records)
	require.NotNil(t, suggestion)
	assert.Equal(t, "Advancing Difficulty", suggestion.ImprovementArea)
	assert.Equal(t, model.DifficultyHard, suggestion.NextBestAction.Difficulty)
	assert.Equal(t, "Move to Hard Difficulty", suggestion.NextBestAction.Label)
}

func TestCoachingSuggestionDefault(t *testing.T) {
	s := newInsightService()

	// 稳定中游：无犹豫、信心中等、分数平稳 → 维持节奏
	records := []model.Interview{
		rec(0, withScore(6)),
		rec(1, withScore(6)),
		rec(2, withScore(6)),
		rec(3, withScore(6)),
	}

	suggestion := s.CoachingSuggestion(records)
	require.NotNil(t, suggestion)
	assert.Equal(t, "Consistent Practice", suggestion.ImprovementArea)
	assert.Equal(t, model.TypeBehavioral, suggestion.NextBestAction.InterviewType)
	assert.Equal(t, model.DifficultyMedium, suggestion.NextBestAction.Difficulty)
}
