package controller

import (
	"errors"
	"strconv"
	"vivaai_backend/internal/repository"
	"vivaai_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type InterviewController struct {
	InterviewRepo *repository.InterviewRepository
}

func NewInterviewController(interviewRepo *repository.InterviewRepository) *InterviewController {
	return &InterviewController{InterviewRepo: interviewRepo}
}

// List godoc
// @Summary 分页查询历史作答记录
// @Description 按时间倒序返回当前用户的作答记录
// @Tags 面试记录
// @Produce json
// @Security BearerAuth
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页条数" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/interviews [get]
func (c *InterviewController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	interviews, total, err := c.InterviewRepo.FindPageByUser(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  interviews,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// Get godoc
// @Summary 查询单条作答记录
// @Tags 面试记录
// @Produce json
// @Security BearerAuth
// @Param   id path int true "记录ID"
// @Success 200 {object} util.Response{data=model.Interview}
// @Failure 404 {object} util.Response "记录不存在"
// @Router /api/interviews/{id} [get]
func (c *InterviewController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}

	interview, err := c.InterviewRepo.FindByIDAndUser(id, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, interview)
}
