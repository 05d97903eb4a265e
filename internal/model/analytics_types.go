package model

// ScoreTrendPoint 按日期聚合的得分趋势点
type ScoreTrendPoint struct {
	Date  string  `json:"date"`
	Score float64 `json:"score"`
	Count int     `json:"count"`
}

// ConfidenceTrendPoint 按日期聚合的信心分布
type ConfidenceTrendPoint struct {
	Date   string `json:"date"`
	Low    int    `json:"low"`
	Medium int    `json:"medium"`
	High   int    `json:"high"`
}

// TypePerformance 各面试类型的平均表现
type TypePerformance struct {
	Type     InterviewType `json:"type"`
	AvgScore float64       `json:"avgScore"`
	Count    int           `json:"count"`
}

// TypeCount 面试类型占比（饼图数据）
type TypeCount struct {
	Type  InterviewType `json:"type"`
	Count int           `json:"count"`
}

// DifficultyCount 难度分布
type DifficultyCount struct {
	Difficulty Difficulty `json:"difficulty"`
	Count      int        `json:"count"`
}

type AnswerLengthCategory string

const (
	LengthTooShort AnswerLengthCategory = "too_short"
	LengthIdeal    AnswerLengthCategory = "ideal"
	LengthTooLong  AnswerLengthCategory = "too_long"
)

type InsightLevel string

const (
	InsightSuccess InsightLevel = "success"
	InsightWarning InsightLevel = "warning"
	InsightInfo    InsightLevel = "info"
)

// BehavioralInsight 行为模式洞察（仪表盘展示，最多3条）
type BehavioralInsight struct {
	Type    InsightLevel `json:"type"`
	Title   string       `json:"title"`
	Message string       `json:"message"`
}

// NextBestAction 建议的下一次练习
type NextBestAction struct {
	Label         string        `json:"label"`
	InterviewType InterviewType `json:"interviewType"`
	Difficulty    Difficulty    `json:"difficulty"`
}

// CoachingSuggestion 单条最高优先级的改进建议
type CoachingSuggestion struct {
	ImprovementArea string         `json:"improvementArea"`
	ActionableTip   string         `json:"actionableTip"`
	NextBestAction  NextBestAction `json:"nextBestAction"`
}

// AnalyticsOverview 表现快照
type AnalyticsOverview struct {
	TotalInterviews      int                  `json:"totalInterviews"`
	AverageScore         float64              `json:"averageScore"`
	OverallConfidence    Confidence           `json:"overallConfidence"`
	CurrentDifficulty    Difficulty           `json:"currentDifficulty"`
	HesitationRate       int                  `json:"hesitationRate"`
	AnswerLengthCategory AnswerLengthCategory `json:"answerLengthCategory"`
}

// CoachingFeedback AI 生成的近期表现点评
type CoachingFeedback struct {
	Strength        string `json:"strength"`
	Observation     string `json:"observation"`
	CoachingInsight string `json:"coachingInsight"`
	ActionableTip   string `json:"actionableTip"`
}
