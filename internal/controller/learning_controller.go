package controller

import (
	"access_edu_backend/internal/service"
	"access_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LearningController struct {
	LearningService *service.LearningService
}

func NewLearningController(learningService *service.LearningService) *LearningController {
	return &LearningController{LearningService: learningService}
}

// @Summary 完成课时
// @Description 标记课时已完成（重复调用无副作用），随后重新校验结业条件
// @Tags 学习模块
// @Produce json
// @Security BearerAuth
// @Param lessonId path int true "课时ID"
// @Success 200 {object} util.Response{data=service.LessonCompletionResult}
// @Failure 404 {object} util.Response
// @Router /api/lessons/{lessonId}/complete [post]
func (c *LearningController) CompleteLesson(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	lessonID, ok := uintParam(ctx, "lessonId")
	if !ok {
		return
	}

	result, err := c.LearningService.CompleteLesson(ctx.Request.Context(), user.UserID, lessonID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	util.Success(ctx, result)
}
