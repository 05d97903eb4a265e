package controller

import (
	"errors"
	"vivaai_backend/internal/model"
	"vivaai_backend/internal/service"
	"vivaai_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	SessionService *service.SessionService
	StorageService *service.StorageService
}

func NewSessionController(sessionService *service.SessionService, storageService *service.StorageService) *SessionController {
	return &SessionController{
		SessionService: sessionService,
		StorageService: storageService,
	}
}

// StartSessionRequest 开始面试请求
// swagger:model StartSessionRequest
type StartSessionRequest struct {
	InterviewType string `json:"interviewType" binding:"required,oneof=hr behavioral technical"`
	Difficulty    string `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
}

// Start godoc
// @Summary 开始一场模拟面试
// @Description 创建面试会话并生成第一道题目
// @Tags 面试会话
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body StartSessionRequest true "面试类型与起始难度"
// @Success 201 {object} util.Response{data=service.InterviewSession} "会话已创建"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 502 {object} util.Response "出题服务不可用"
// @Router /api/sessions [post]
func (c *SessionController) Start(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req StartSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.SessionService.Start(ctx.Request.Context(), claims.UserID,
		model.InterviewType(req.InterviewType), model.Difficulty(req.Difficulty))
	if err != nil {
		writeSessionError(ctx, err)
		return
	}

	util.Created(ctx, session)
}

// SubmitAnswerRequest 提交作答请求
// swagger:model SubmitAnswerRequest
type SubmitAnswerRequest struct {
	Answer       string `json:"answer" binding:"required"`
	RecordingKey string `json:"recordingKey"`
}

// SubmitAnswer godoc
// @Summary 提交当前题目的作答
// @Description 评分、落库、步进难度与语气并返回下一道题
// @Tags 面试会话
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "会话ID"
// @Param   body body SubmitAnswerRequest true "作答内容"
// @Success 200 {object} util.Response{data=service.TurnResult} "步进成功"
// @Failure 400 {object} util.Response "评分结果非法"
// @Failure 404 {object} util.Response "会话不存在"
// @Failure 409 {object} util.Response "上一次作答还在处理中"
// @Failure 502 {object} util.Response "评分/出题服务不可用"
// @Router /api/sessions/{id}/answers [post]
func (c *SessionController) SubmitAnswer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.SessionService.SubmitAnswer(ctx.Request.Context(), claims.UserID,
		ctx.Param("id"), req.Answer, req.RecordingKey)
	if err != nil {
		writeSessionError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// Get godoc
// @Summary 查询进行中的会话
// @Tags 面试会话
// @Produce json
// @Security BearerAuth
// @Param   id path string true "会话ID"
// @Success 200 {object} util.Response{data=service.InterviewSession}
// @Failure 404 {object} util.Response "会话不存在"
// @Router /api/sessions/{id} [get]
func (c *SessionController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	session, err := c.SessionService.Get(claims.UserID, ctx.Param("id"))
	if err != nil {
		writeSessionError(ctx, err)
		return
	}
	util.Success(ctx, session)
}

// Abandon godoc
// @Summary 放弃当前面试会话
// @Description 丢弃会话状态，已评分的作答记录保留
// @Tags 面试会话
// @Produce json
// @Security BearerAuth
// @Param   id path string true "会话ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "会话不存在"
// @Router /api/sessions/{id} [delete]
func (c *SessionController) Abandon(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.SessionService.Abandon(claims.UserID, ctx.Param("id")); err != nil {
		writeSessionError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"abandoned": true})
}

// UploadRecording godoc
// @Summary 上传作答录音/录像
// @Description 校验格式、探测媒体元数据后写入存储后端，返回对象键
// @Tags 面试会话
// @Accept  multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param   sessionId formData string true "会话ID"
// @Param   file formData file true "录音/录像文件"
// @Success 201 {object} util.Response{data=service.RecordingUploadResult} "上传成功"
// @Failure 400 {object} util.Response "文件格式不支持"
// @Router /api/recordings/upload [post]
func (c *SessionController) UploadRecording(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	sessionID := ctx.PostForm("sessionId")
	if sessionID == "" {
		util.BadRequest(ctx, "sessionId is required")
		return
	}
	if _, err := c.SessionService.Get(claims.UserID, sessionID); err != nil {
		writeSessionError(ctx, err)
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	result, err := c.StorageService.UploadRecording(ctx.Request.Context(), claims.UserID, sessionID, file)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Created(ctx, result)
}

// writeSessionError 把会话层错误映射为 HTTP 状态码
func writeSessionError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSessionNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrSessionBusy):
		util.Error(ctx, 409, err.Error())
	case errors.Is(err, util.ErrInvalidEvaluation):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrUpstreamService):
		util.BadGateway(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
