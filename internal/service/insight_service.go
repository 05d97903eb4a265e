package service

import (
	"context"
	"fmt"
	"vivaai_backend/internal/model"
	"vivaai_backend/internal/repository"
)

const maxInsights = 3

// InsightService 把聚合统计翻译成行为洞察与单条教练建议。
// 规则全部确定性，每次读取重新计算，集合规模以用户历史为上界，不做缓存。
type InsightService struct {
	Analytics     *AnalyticsService
	InterviewRepo *repository.InterviewRepository
}

func NewInsightService(analytics *AnalyticsService, interviewRepo *repository.InterviewRepository) *InsightService {
	return &InsightService{Analytics: analytics, InterviewRepo: interviewRepo}
}

// BehavioralInsights 按固定顺序产出至多3条洞察：
// 犹豫趋势/水平 → 回答长度（必出一条） → 类型表现差距
func (s *InsightService) BehavioralInsights(records []model.Interview) []model.BehavioralInsight {
	if len(records) == 0 {
		return []model.BehavioralInsight{}
	}
	records = sortDesc(records)

	insights := make([]model.BehavioralInsight, 0, maxInsights)

	// 1. 犹豫频率分析
	overallRate := s.Analytics.HesitationRate(records)
	recentRate := s.Analytics.HesitationRate(recent(records, 5))
	olderRecords := olderThan(records, 5)
	olderRate := recentRate // 没有更早的记录时视为持平，压制"改善"分支
	if len(olderRecords) > 0 {
		olderRate = s.Analytics.HesitationRate(olderRecords)
	}

	if recentRate < olderRate-10 {
		insights = append(insights, model.BehavioralInsight{
			Type:    model.InsightSuccess,
			Title:   "Hesitation Improving",
			Message: fmt.Sprintf("Your hesitation dropped from %d%% to %d%% in recent sessions. Your answers are becoming more confident.", olderRate, recentRate),
		})
	} else if overallRate > 50 {
		insights = append(insights, model.BehavioralInsight{
			Type:    model.InsightWarning,
			Title:   "High Hesitation Rate",
			Message: fmt.Sprintf("You hesitated in %d%% of responses. Consider practicing common questions to build confidence.", overallRate),
		})
	} else if overallRate < 20 {
		insights = append(insights, model.BehavioralInsight{
			Type:    model.InsightSuccess,
			Title:   "Strong Delivery",
			Message: fmt.Sprintf("Only %d%% hesitation rate shows confident, well-prepared responses.", overallRate),
		})
	}

	// 2. 回答长度模式（必出一条）
	switch s.Analytics.AnswerLengthCategory(records) {
	case model.LengthTooShort:
		insights = append(insights, model.BehavioralInsight{
			Type:    model.InsightWarning,
			Title:   "Answers May Be Too Brief",
			Message: "Your average answer length is below recommended. Try adding more context and examples to strengthen your responses.",
		})
	case model.LengthTooLong:
		insights = append(insights, model.BehavioralInsight{
			Type:    model.InsightInfo,
			Title:   "Consider Conciseness",
			Message: "Your answers tend to be lengthy. Practice summarizing key points to keep responses focused and impactful.",
		})
	default:
		insights = append(insights, model.BehavioralInsight{
			Type:    model.InsightSuccess,
			Title:   "Ideal Answer Length",
			Message: "Your responses have appropriate depth without being too verbose. Keep maintaining this balance.",
		})
	}

	// 3. 最强与最弱面试类型
	performance := s.Analytics.PerformanceByType(records)
	if len(performance) >= 2 {
		strongest, weakest := performance[0], performance[0]
		for _, p := range performance[1:] {
			if p.AvgScore > strongest.AvgScore {
				strongest = p
			}
			if p.AvgScore < weakest.AvgScore {
				weakest = p
			}
		}

		if strongest.AvgScore-weakest.AvgScore >= 1.5 {
			insights = append(insights, model.BehavioralInsight{
				Type:  model.InsightInfo,
				Title: "Performance Gap Detected",
				Message: fmt.Sprintf("You excel in %s interviews (%.1f/10) but struggle with %s (%.1f/10). Focus on %s practice.",
					strongest.Type.Label(), strongest.AvgScore, weakest.Type.Label(), weakest.AvgScore, weakest.Type.Label()),
			})
		}
	}

	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}
	return insights
}

// CoachingSuggestion 优先级决策表，首个命中的分支胜出。无记录时返回 nil
func (s *InsightService) CoachingSuggestion(records []model.Interview) *model.CoachingSuggestion {
	if len(records) == 0 {
		return nil
	}
	records = sortDesc(records)

	avgScore := s.Analytics.AverageScore(records)
	hesitationRate := s.Analytics.HesitationRate(records)
	currentDifficulty := s.Analytics.CurrentDifficulty(records)
	performance := s.Analytics.PerformanceByType(records)
	overallConfidence := s.Analytics.OverallConfidence(records)

	// 近期趋势：最近3条 vs 第4~6条；不足4条时退化为与全量均值比较
	recentAvg := s.Analytics.AverageScore(recent(records, 3))
	previousAvg := avgScore
	if len(records) >= 4 {
		previousAvg = s.Analytics.AverageScore(window(records, 3, 6))
	}
	isImproving := recentAvg > previousAvg

	var weakest *model.TypePerformance
	for i := range performance {
		if weakest == nil || performance[i].AvgScore < weakest.AvgScore {
			weakest = &performance[i]
		}
	}

	// 优先级1：犹豫率过高
	if hesitationRate > 40 {
		practiceDifficulty := currentDifficulty
		if currentDifficulty == model.DifficultyHard {
			practiceDifficulty = model.DifficultyMedium
		}
		label := "Practice Medium Behavioral"
		if currentDifficulty == model.DifficultyEasy {
			label = "Practice Easy Behavioral"
		}
		return &model.CoachingSuggestion{
			ImprovementArea: "Response Confidence",
			ActionableTip:   "Practice the STAR method (Situation, Task, Action, Result) before answering. Take a 2-second pause to structure your thoughts instead of rushing into answers.",
			NextBestAction: model.NextBestAction{
				Label:         label,
				InterviewType: model.TypeBehavioral,
				Difficulty:    practiceDifficulty,
			},
		}
	}

	// 优先级2：整体信心持续偏低
	if overallConfidence == model.ConfidenceLow {
		return &model.CoachingSuggestion{
			ImprovementArea: "Building Confidence",
			ActionableTip:   "Record yourself answering questions and review them. Focus on maintaining steady pace and avoiding filler words like 'um' or 'like'.",
			NextBestAction: model.NextBestAction{
				Label:         "Start with Easy HR Interview",
				InterviewType: model.TypeHR,
				Difficulty:    model.DifficultyEasy,
			},
		}
	}

	// 优先级3：得分没有起色且均分偏低
	if !isImproving && avgScore < 6 {
		action := model.NextBestAction{
			Label:         "Start Easy Interview",
			InterviewType: model.TypeHR,
			Difficulty:    model.DifficultyEasy,
		}
		if weakest != nil {
			action.Label = fmt.Sprintf("Retry %s Interview", weakest.Type.Label())
			action.InterviewType = weakest.Type
		}
		return &model.CoachingSuggestion{
			ImprovementArea: "Foundational Skills",
			ActionableTip:   "Go back to basics: practice common questions in your weakest area. Quality repetition builds muscle memory for strong answers.",
			NextBestAction:  action,
		}
	}

	// 优先级4：具备升档条件
	if isImproving && avgScore >= 7 && hesitationRate < 30 {
		nextDifficulty := stepUp(currentDifficulty)
		targetType := model.TypeTechnical
		if weakest != nil {
			targetType = weakest.Type
		}
		return &model.CoachingSuggestion{
			ImprovementArea: "Advancing Difficulty",
			ActionableTip:   "You're showing consistent improvement. Challenge yourself with harder questions to prepare for real-world pressure.",
			NextBestAction: model.NextBestAction{
				Label:         fmt.Sprintf("Move to %s Difficulty", nextDifficulty.Label()),
				InterviewType: targetType,
				Difficulty:    nextDifficulty,
			},
		}
	}

	// 优先级5：某一类型明显拖后腿
	if weakest != nil && weakest.AvgScore < avgScore-1 {
		return &model.CoachingSuggestion{
			ImprovementArea: fmt.Sprintf("%s Interview Skills", weakest.Type.Label()),
			ActionableTip: fmt.Sprintf("Your %s interview score (%.1f/10) is below your average. Practice this type specifically to close the gap.",
				weakest.Type.Label(), weakest.AvgScore),
			NextBestAction: model.NextBestAction{
				Label:         fmt.Sprintf("Practice %s Interview", weakest.Type.Label()),
				InterviewType: weakest.Type,
				Difficulty:    currentDifficulty,
			},
		}
	}

	// 默认：维持节奏
	return &model.CoachingSuggestion{
		ImprovementArea: "Consistent Practice",
		ActionableTip:   "You're on track. Keep practicing regularly to maintain your edge. Try mixing different interview types to stay adaptable.",
		NextBestAction: model.NextBestAction{
			Label:         "Continue Current Practice",
			InterviewType: model.TypeBehavioral,
			Difficulty:    currentDifficulty,
		},
	}
}

func (s *InsightService) InsightsForUser(ctx context.Context, userID uint) ([]model.BehavioralInsight, error) {
	records, err := s.InterviewRepo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.BehavioralInsights(records), nil
}

func (s *InsightService) SuggestionForUser(ctx context.Context, userID uint) (*model.CoachingSuggestion, error) {
	records, err := s.InterviewRepo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.CoachingSuggestion(records), nil
}
