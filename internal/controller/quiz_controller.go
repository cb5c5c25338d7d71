package controller

import (
	"access_edu_backend/internal/service"
	"access_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// @Summary 提交测验
// @Description 计分并保存一次作答，返回分数趋势、薄弱知识点分析和结业证书校验结果
// @Tags 测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "测验ID"
// @Param submission body service.QuizSubmission true "作答内容"
// @Success 201 {object} util.Response{data=service.QuizSubmissionResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{quizId}/attempts [post]
func (c *QuizController) SubmitAttempt(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	quizID, ok := uintParam(ctx, "quizId")
	if !ok {
		return
	}

	var req service.QuizSubmission
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.SubmitAttempt(ctx.Request.Context(), user.UserID, quizID, req)
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	util.Created(ctx, result)
}

// @Summary 获取作答记录
// @Description 当前用户在该测验上的全部作答，按次序升序
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "测验ID"
// @Success 200 {object} util.Response{data=util.ListResponse}
// @Router /api/quizzes/{quizId}/attempts [get]
func (c *QuizController) ListAttempts(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	quizID, ok := uintParam(ctx, "quizId")
	if !ok {
		return
	}

	attempts, err := c.QuizService.ListAttempts(ctx.Request.Context(), user.UserID, quizID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	util.Success(ctx, util.ListResponse{List: attempts, Total: int64(len(attempts))})
}
