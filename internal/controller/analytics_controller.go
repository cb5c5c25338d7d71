package controller

import (
	"access_edu_backend/internal/service"
	"access_edu_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.QuizAnalyticsService
	LearningService  *service.LearningService
}

func NewAnalyticsController(analyticsService *service.QuizAnalyticsService, learningService *service.LearningService) *AnalyticsController {
	return &AnalyticsController{
		AnalyticsService: analyticsService,
		LearningService:  learningService,
	}
}

// @Summary 获取薄弱知识点
// @Description 统计当前用户在课程内最近几次测验中错误最多的知识点，并给出学习建议
// @Tags 学习分析
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "课程ID"
// @Success 200 {object} util.Response{data=model.WeakTopicReport}
// @Failure 400 {object} util.Response
// @Router /api/courses/{courseId}/weak-topics [get]
func (c *AnalyticsController) GetWeakTopics(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID, ok := uintParam(ctx, "courseId")
	if !ok {
		return
	}

	report, err := c.AnalyticsService.AnalyzeWeakTopics(ctx.Request.Context(), user.UserID, courseID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	util.Success(ctx, report)
}

// @Summary 获取分数趋势
// @Description 计算给定分数与当前用户在该测验上最近一次作答分数的差值，没有历史作答时 delta 为 null
// @Tags 学习分析
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "测验ID"
// @Param score query number true "当前分数 (0-100)"
// @Success 200 {object} util.Response{data=model.ImprovementTrend}
// @Failure 400 {object} util.Response
// @Router /api/quizzes/{quizId}/trend [get]
func (c *AnalyticsController) GetQuizTrend(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	quizID, ok := uintParam(ctx, "quizId")
	if !ok {
		return
	}

	score, err := strconv.ParseFloat(ctx.Query("score"), 64)
	if err != nil {
		util.BadRequest(ctx, "Invalid score")
		return
	}

	trend, err := c.AnalyticsService.DescribeTrend(ctx.Request.Context(), user.UserID, quizID, score, 0)
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	util.Success(ctx, trend)
}

// @Summary 获取课程进度
// @Description 当前用户在课程中的课时与测验完成情况，只读，不会颁发证书
// @Tags 学习分析
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "课程ID"
// @Success 200 {object} util.Response{data=model.CourseProgress}
// @Failure 404 {object} util.Response
// @Router /api/courses/{courseId}/progress [get]
func (c *AnalyticsController) GetCourseProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID, ok := uintParam(ctx, "courseId")
	if !ok {
		return
	}

	progress, err := c.LearningService.GetCourseProgress(ctx.Request.Context(), user.UserID, courseID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	util.Success(ctx, progress)
}
