package service

import (
	"context"
	"math"
	"sort"
	"vivaai_backend/internal/model"
	"vivaai_backend/internal/repository"
	"vivaai_backend/internal/util"
)

// AnalyticsService 对一个用户的作答记录集合做描述性统计。
// 所有聚合方法都是纯函数，对空集合有定义，输入约定为最新在前。
type AnalyticsService struct {
	InterviewRepo *repository.InterviewRepository
}

func NewAnalyticsService(interviewRepo *repository.InterviewRepository) *AnalyticsService {
	return &AnalyticsService{InterviewRepo: interviewRepo}
}

// round1 四舍五入保留1位小数
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// sortDesc 兜底排序：窗口计算强依赖最新在前，存储层不保证时在这里补一次
func sortDesc(records []model.Interview) []model.Interview {
	if sort.SliceIsSorted(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	}) {
		return records
	}
	sorted := make([]model.Interview, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}

// recent 前 n 条（最新的 n 条）
func recent(records []model.Interview, n int) []model.Interview {
	if len(records) < n {
		return records
	}
	return records[:n]
}

// olderThan 第 n 条之后的全部记录
func olderThan(records []model.Interview, n int) []model.Interview {
	if len(records) <= n {
		return nil
	}
	return records[n:]
}

// window 位置区间 [from, to)，越界自动截断
func window(records []model.Interview, from, to int) []model.Interview {
	if from >= len(records) {
		return nil
	}
	if to > len(records) {
		to = len(records)
	}
	return records[from:to]
}

// AverageScore 平均分，1位小数。空集合返回 0
func (s *AnalyticsService) AverageScore(records []model.Interview) float64 {
	if len(records) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range records {
		sum += r.Score
	}
	return round1(sum / float64(len(records)))
}

// OverallConfidence 全量多数票。平票按 high > low > medium 裁决，
// 该优先级照搬线上行为，不要按直觉"修正"。空集合返回 medium
func (s *AnalyticsService) OverallConfidence(records []model.Interview) model.Confidence {
	if len(records) == 0 {
		return model.ConfidenceMedium
	}

	var low, medium, high int
	for _, r := range records {
		switch r.Confidence {
		case model.ConfidenceLow:
			low++
		case model.ConfidenceMedium:
			medium++
		case model.ConfidenceHigh:
			high++
		}
	}

	if high >= medium && high >= low {
		return model.ConfidenceHigh
	}
	if low >= medium && low >= high {
		return model.ConfidenceLow
	}
	return model.ConfidenceMedium
}

// CurrentDifficulty 最近5条的多数票，平票按 hard > medium > easy。空集合返回 easy
func (s *AnalyticsService) CurrentDifficulty(records []model.Interview) model.Difficulty {
	if len(records) == 0 {
		return model.DifficultyEasy
	}

	var easy, medium, hard int
	for _, r := range recent(sortDesc(records), 5) {
		switch r.Difficulty {
		case model.DifficultyEasy:
			easy++
		case model.DifficultyMedium:
			medium++
		case model.DifficultyHard:
			hard++
		}
	}

	if hard >= medium && hard >= easy {
		return model.DifficultyHard
	}
	if medium >= easy {
		return model.DifficultyMedium
	}
	return model.DifficultyEasy
}

// HesitationRate 犹豫占比，整数百分比。空集合返回 0
func (s *AnalyticsService) HesitationRate(records []model.Interview) int {
	if len(records) == 0 {
		return 0
	}
	count := 0
	for _, r := range records {
		if r.Hesitation {
			count++
		}
	}
	return int(math.Round(float64(count) / float64(len(records)) * 100))
}

// GroupByDate 按自然日聚合平均分，返回时间升序（与输入的倒序相反）
func (s *AnalyticsService) GroupByDate(records []model.Interview) []model.ScoreTrendPoint {
	records = sortDesc(records)

	type bucket struct {
		sum   float64
		count int
	}
	buckets := make(map[string]*bucket)
	order := make([]string, 0)

	for _, r := range records {
		date := r.CreatedAt.Format(util.TrendDateFormat)
		b, ok := buckets[date]
		if !ok {
			b = &bucket{}
			buckets[date] = b
			order = append(order, date)
		}
		b.sum += r.Score
		b.count++
	}

	points := make([]model.ScoreTrendPoint, 0, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		date := order[i]
		b := buckets[date]
		points = append(points, model.ScoreTrendPoint{
			Date:  date,
			Score: round1(b.sum / float64(b.count)),
			Count: b.count,
		})
	}
	return points
}

// GroupConfidenceByDate 按自然日聚合信心分布，时间升序
func (s *AnalyticsService) GroupConfidenceByDate(records []model.Interview) []model.ConfidenceTrendPoint {
	records = sortDesc(records)

	buckets := make(map[string]*model.ConfidenceTrendPoint)
	order := make([]string, 0)

	for _, r := range records {
		date := r.CreatedAt.Format(util.TrendDateFormat)
		b, ok := buckets[date]
		if !ok {
			b = &model.ConfidenceTrendPoint{Date: date}
			buckets[date] = b
			order = append(order, date)
		}
		switch r.Confidence {
		case model.ConfidenceLow:
			b.Low++
		case model.ConfidenceMedium:
			b.Medium++
		case model.ConfidenceHigh:
			b.High++
		}
	}

	points := make([]model.ConfidenceTrendPoint, 0, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		points = append(points, *buckets[order[i]])
	}
	return points
}

// PerformanceByType 各类型平均分与场次，无记录的类型不输出
func (s *AnalyticsService) PerformanceByType(records []model.Interview) []model.TypePerformance {
	type agg struct {
		sum   float64
		count int
	}
	byType := make(map[model.InterviewType]*agg)
	for _, r := range records {
		a, ok := byType[r.InterviewType]
		if !ok {
			a = &agg{}
			byType[r.InterviewType] = a
		}
		a.sum += r.Score
		a.count++
	}

	result := make([]model.TypePerformance, 0, len(byType))
	for _, t := range model.AllInterviewTypes {
		a, ok := byType[t]
		if !ok {
			continue
		}
		result = append(result, model.TypePerformance{
			Type:     t,
			AvgScore: round1(a.sum / float64(a.count)),
			Count:    a.count,
		})
	}
	return result
}

// AnswerLengthCategory 平均回答长度分类。空集合视为 ideal
func (s *AnalyticsService) AnswerLengthCategory(records []model.Interview) model.AnswerLengthCategory {
	if len(records) == 0 {
		return model.LengthIdeal
	}
	sum := 0
	for _, r := range records {
		sum += r.AnswerLength
	}
	avg := float64(sum) / float64(len(records))

	if avg < 50 {
		return model.LengthTooShort
	}
	if avg > 300 {
		return model.LengthTooLong
	}
	return model.LengthIdeal
}

// TypeDistribution 类型占比，零计数不输出
func (s *AnalyticsService) TypeDistribution(records []model.Interview) []model.TypeCount {
	counts := make(map[model.InterviewType]int)
	for _, r := range records {
		counts[r.InterviewType]++
	}

	result := make([]model.TypeCount, 0, len(counts))
	for _, t := range model.AllInterviewTypes {
		if counts[t] == 0 {
			continue
		}
		result = append(result, model.TypeCount{Type: t, Count: counts[t]})
	}
	return result
}

// DifficultyDistribution 难度分布，零计数不输出
func (s *AnalyticsService) DifficultyDistribution(records []model.Interview) []model.DifficultyCount {
	counts := make(map[model.Difficulty]int)
	for _, r := range records {
		counts[r.Difficulty]++
	}

	result := make([]model.DifficultyCount, 0, len(counts))
	for _, d := range []model.Difficulty{model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard} {
		if counts[d] == 0 {
			continue
		}
		result = append(result, model.DifficultyCount{Difficulty: d, Count: counts[d]})
	}
	return result
}

// Overview 表现快照（仪表盘顶部卡片）
func (s *AnalyticsService) Overview(ctx context.Context, userID uint) (*model.AnalyticsOverview, error) {
	records, err := s.InterviewRepo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.AnalyticsOverview{
		TotalInterviews:      len(records),
		AverageScore:         s.AverageScore(records),
		OverallConfidence:    s.OverallConfidence(records),
		CurrentDifficulty:    s.CurrentDifficulty(records),
		HesitationRate:       s.HesitationRate(records),
		AnswerLengthCategory: s.AnswerLengthCategory(records),
	}, nil
}

func (s *AnalyticsService) ScoreTrendForUser(ctx context.Context, userID uint) ([]model.ScoreTrendPoint, error) {
	records, err := s.InterviewRepo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.GroupByDate(records), nil
}

func (s *AnalyticsService) ConfidenceTrendForUser(ctx context.Context, userID uint) ([]model.ConfidenceTrendPoint, error) {
	records, err := s.InterviewRepo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.GroupConfidenceByDate(records), nil
}

func (s *AnalyticsService) TypePerformanceForUser(ctx context.Context, userID uint) ([]model.TypePerformance, error) {
	records, err := s.InterviewRepo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.PerformanceByType(records), nil
}

func (s *AnalyticsService) TypeDistributionForUser(ctx context.Context, userID uint) ([]model.TypeCount, error) {
	records, err := s.InterviewRepo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.TypeDistribution(records), nil
}

func (s *AnalyticsService) DifficultyDistributionForUser(ctx context.Context, userID uint) ([]model.DifficultyCount, error) {
	records, err := s.InterviewRepo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.DifficultyDistribution(records), nil
}
