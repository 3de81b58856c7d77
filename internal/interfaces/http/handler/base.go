package handler

import (
	"github.com/gin-gonic/gin"

	"novel-assistant/internal/interfaces/http/dto"
	"novel-assistant/pkg/errors"
	"novel-assistant/pkg/logger"
)

// respondError 按错误类型映射 HTTP 状态
// AppError 使用其自身状态码，其余错误统一为 500，消息以 action 开头
func respondError(c *gin.Context, action string, err error) {
	ctx := c.Request.Context()
	if errors.IsAppError(err) {
		appErr := errors.AsAppError(err)
		if appErr.HTTPStatus >= 500 {
			logger.Error(ctx, action, err)
		}
		dto.ErrorWithDetail(c, appErr.HTTPStatus, action+": "+appErr.Message, &dto.ErrorDetail{
			ErrorCode: string(appErr.Code),
			Details:   appErr.Detail,
		})
		return
	}
	logger.Error(ctx, action, err)
	dto.InternalError(c, action+": "+err.Error())
}

// bindID 读取路径中的 ID，非法时直接返回 400
func bindID(c *gin.Context, name string) (int64, bool) {
	id, ok := dto.BindID(c, name)
	if !ok {
		dto.BadRequest(c, "invalid "+name)
	}
	return id, ok
}
