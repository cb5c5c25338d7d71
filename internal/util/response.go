package util

import (
	"access_edu_backend/pkg/logger"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ListResponse 列表响应结构
type ListResponse struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
}

// 业务错误对应的状态码，未列出的错误按 500 处理
var errorStatus = []struct {
	err    error
	status int
}{
	{ErrCourseNotFound, http.StatusNotFound},
	{ErrLessonNotFound, http.StatusNotFound},
	{ErrQuizNotFound, http.StatusNotFound},
	{ErrCertificateNotFound, http.StatusNotFound},
	{ErrQuizNotPublished, http.StatusBadRequest},
	{ErrEmptySubmission, http.StatusBadRequest},
	{ErrQuizHasNoQuestions, http.StatusBadRequest},
	{ErrInvalidScore, http.StatusBadRequest},
	{ErrAttemptNumberTaken, http.StatusConflict},
}

// StatusOf 返回业务错误对应的 HTTP 状态码，包装过的错误同样适用
func StatusOf(err error) int {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Fail 按 StatusOf 写入错误响应。500 只返回通用信息，原始错误写入日志
func Fail(c *gin.Context, err error) {
	status := StatusOf(err)
	if status != http.StatusInternalServerError {
		Error(c, status, err.Error())
		return
	}
	logger.Log.Error("Internal server error",
		zap.String("method", c.Request.Method),
		zap.String("route", c.FullPath()),
		zap.Error(err),
	)
	Error(c, http.StatusInternalServerError, "Internal server error")
}
