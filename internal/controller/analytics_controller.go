package controller

import (
	"context"
	"errors"
	"vivaai_backend/internal/model"
	"vivaai_backend/internal/service"
	"vivaai_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// RecentInterviewFinder 教练点评需要的最近作答查询入口
type RecentInterviewFinder interface {
	FindRecentByUser(ctx context.Context, userID uint, n int) ([]model.Interview, error)
}

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
	InsightService   *service.InsightService
	AIService        *service.AIService
	InterviewRepo    RecentInterviewFinder
}

func NewAnalyticsController(analyticsService *service.AnalyticsService, insightService *service.InsightService, aiService *service.AIService, interviewRepo RecentInterviewFinder) *AnalyticsController {
	return &AnalyticsController{
		AnalyticsService: analyticsService,
		InsightService:   insightService,
		AIService:        aiService,
		InterviewRepo:    interviewRepo,
	}
}

// Overview godoc
// @Summary 仪表盘总览
// @Description 总场次、平均分、总体信心、当前难度、犹豫率、答题长度画像
// @Tags 数据分析
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.AnalyticsOverview}
// @Router /api/analytics/overview [get]
func (c *AnalyticsController) Overview(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	overview, err := c.AnalyticsService.Overview(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}

// ScoreTrend godoc
// @Summary 得分趋势
// @Description 按日期聚合的平均分，日期升序
// @Tags 数据分析
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.ScoreTrendPoint}
// @Router /api/analytics/trend [get]
func (c *AnalyticsController) ScoreTrend(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	trend, err := c.AnalyticsService.ScoreTrendForUser(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, trend)
}

// ConfidenceTrend godoc
// @Summary 信心趋势
// @Description 按日期聚合的信心档位计数
// @Tags 数据分析
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.ConfidenceTrendPoint}
// @Router /api/analytics/confidence-trend [get]
func (c *AnalyticsController) ConfidenceTrend(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	trend, err := c.AnalyticsService.ConfidenceTrendForUser(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, trend)
}

// TypePerformance godoc
// @Summary 按面试类型的平均表现
// @Tags 数据分析
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.TypePerformance}
// @Router /api/analytics/types [get]
func (c *AnalyticsController) TypePerformance(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	performance, err := c.AnalyticsService.TypePerformanceForUser(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, performance)
}

// TypeDistribution godoc
// @Summary 面试类型分布
// @Tags 数据分析
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.TypeCount}
// @Router /api/analytics/type-distribution [get]
func (c *AnalyticsController) TypeDistribution(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	distribution, err := c.AnalyticsService.TypeDistributionForUser(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, distribution)
}

// DifficultyDistribution godoc
// @Summary 难度分布
// @Tags 数据分析
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.DifficultyCount}
// @Router /api/analytics/difficulty-distribution [get]
func (c *AnalyticsController) DifficultyDistribution(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	distribution, err := c.AnalyticsService.DifficultyDistributionForUser(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, distribution)
}

// Insights godoc
// @Summary 行为洞察
// @Description 最多 3 条规则驱动的行为洞察
// @Tags 数据分析
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.BehavioralInsight}
// @Router /api/analytics/insights [get]
func (c *AnalyticsController) Insights(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	insights, err := c.InsightService.InsightsForUser(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, insights)
}

// Coaching godoc
// @Summary 下一步练习建议
// @Description 规则驱动的单条练习建议，含推荐的下一场面试配置
// @Tags 数据分析
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.CoachingSuggestion}
// @Router /api/analytics/coaching [get]
func (c *AnalyticsController) Coaching(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	suggestion, err := c.InsightService.SuggestionForUser(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, suggestion)
}

// CoachingFeedbackRequest AI 教练点评请求
// swagger:model CoachingFeedbackRequest
type CoachingFeedbackRequest struct {
	InterviewType string `json:"interviewType" binding:"omitempty,oneof=hr behavioral technical"`
}

// CoachingFeedback godoc
// @Summary AI 教练点评
// @Description 基于最近 5 次作答生成 AI 教练点评
// @Tags 数据分析
// @Accept  json
// @Produce json
// @Security BearerAuth
// @Param   body body CoachingFeedbackRequest false "可选的面试类型"
// @Success 200 {object} util.Response{data=model.CoachingFeedback}
// @Failure 404 {object} util.Response "暂无作答记录"
// @Failure 502 {object} util.Response "点评服务不可用"
// @Router /api/coaching/feedback [post]
func (c *AnalyticsController) CoachingFeedback(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CoachingFeedbackRequest
	_ = ctx.ShouldBindJSON(&req)

	records, err := c.InterviewRepo.FindRecentByUser(ctx.Request.Context(), claims.UserID, 5)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if len(records) == 0 {
		util.Error(ctx, 404, "no interviews recorded yet")
		return
	}

	// 记录按最新在前返回，点评窗口要按时间正序
	scores := make([]float64, 0, len(records))
	confidences := make([]model.Confidence, 0, len(records))
	hesitations := 0
	for i := len(records) - 1; i >= 0; i-- {
		scores = append(scores, records[i].Score)
		confidences = append(confidences, records[i].Confidence)
		if records[i].Hesitation {
			hesitations++
		}
	}

	interviewType := model.InterviewType(req.InterviewType)
	if interviewType == "" {
		interviewType = records[0].InterviewType
	}

	feedback, err := c.AIService.CoachingFeedback(ctx.Request.Context(), service.CoachingRequest{
		LastFiveScores:      scores,
		ConfidenceTrend:     confidences,
		HesitationFrequency: float64(hesitations) / float64(len(records)),
		InterviewType:       interviewType,
	})
	if err != nil {
		if errors.Is(err, util.ErrUpstreamService) {
			util.BadGateway(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, feedback)
}
