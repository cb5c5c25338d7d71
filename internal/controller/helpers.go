package controller

import (
	"access_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// uintParam 读取路径中的 ID，非法时直接写入 400 响应
func uintParam(ctx *gin.Context, name string) (uint, bool) {
	id, ok := util.ParseID(ctx.Param(name))
	if !ok {
		util.BadRequest(ctx, "Invalid "+name)
		return 0, false
	}
	return id, true
}
