package controller

import (
	"access_edu_backend/internal/service"
	"access_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	CertificateService *service.CertificateService
	AnalyticsService   *service.QuizAnalyticsService
}

func NewCertificateController(certificateService *service.CertificateService, analyticsService *service.QuizAnalyticsService) *CertificateController {
	return &CertificateController{
		CertificateService: certificateService,
		AnalyticsService:   analyticsService,
	}
}

// @Summary 校验结业条件
// @Description 按当前课程目录重新校验，满足条件时颁发（或刷新）证书。可重复调用
// @Tags 证书
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "课程ID"
// @Success 200 {object} util.Response{data=model.CertificateResult}
// @Router /api/courses/{courseId}/certificate/check [post]
func (c *CertificateController) CheckCertificate(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID, ok := uintParam(ctx, "courseId")
	if !ok {
		return
	}

	result, err := c.AnalyticsService.CheckAndIssueCertificate(ctx.Request.Context(), user.UserID, courseID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 获取课程证书
// @Tags 证书
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Certificate}
// @Failure 404 {object} util.Response
// @Router /api/courses/{courseId}/certificate [get]
func (c *CertificateController) GetCertificate(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID, ok := uintParam(ctx, "courseId")
	if !ok {
		return
	}

	cert, err := c.CertificateService.GetCertificate(ctx.Request.Context(), user.UserID, courseID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	util.Success(ctx, cert)
}

// @Summary 我的证书
// @Tags 证书
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=util.ListResponse}
// @Router /api/certificates [get]
func (c *CertificateController) ListCertificates(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	certs, err := c.CertificateService.ListCertificates(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	util.Success(ctx, util.ListResponse{List: certs, Total: int64(len(certs))})
}

// @Summary 批量补发证书
// @Description 课程目录调整后，对课程下所有有学习记录的用户重新执行结业校验（教师/管理员）
// @Tags 证书
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "课程ID"
// @Success 200 {object} util.Response{data=service.ReconcileSummary}
// @Failure 404 {object} util.Response
// @Router /api/teacher/courses/{courseId}/certificates/reconcile [post]
func (c *CertificateController) ReconcileCourse(ctx *gin.Context) {
	courseID, ok := uintParam(ctx, "courseId")
	if !ok {
		return
	}

	summary, err := c.CertificateService.ReconcileCourse(ctx.Request.Context(), courseID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	util.Success(ctx, summary)
}
