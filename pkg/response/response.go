package response

import (
	stderrors "errors"
	"net/http"

	apperrors "github.com/Sharruk/TravelGuard/pkg/errors"
	"github.com/Sharruk/TravelGuard/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	MsgInvalidRequest = "Invalid request"
	MsgInternalError  = "Internal server error"
)

// Success 直接输出数据本体，不额外包一层
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Fail 统一错误体 {"error": "<message>"}
func Fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// InvalidRequest 请求体校验失败；具体字段只进日志，不返回给调用方
func InvalidRequest(c *gin.Context, err error) {
	fields := []zap.Field{zap.String("path", c.FullPath())}
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		failed := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			failed = append(failed, fe.Namespace()+":"+fe.Tag())
		}
		fields = append(fields, zap.Strings("failed", failed))
	} else {
		fields = append(fields, zap.Error(err))
	}
	logger.Debug("invalid request body", fields...)
	Fail(c, http.StatusBadRequest, MsgInvalidRequest)
}

// Error 把业务错误映射到状态码；未分类的错误只记录日志，对外返回 500
func Error(c *gin.Context, err error) {
	if code := apperrors.GetCode(err); code != 0 && code < http.StatusInternalServerError {
		Fail(c, code, apperrors.GetMessage(err))
		return
	}
	logger.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
		zap.String("stack", apperrors.GetStack(err)),
	)
	Fail(c, http.StatusInternalServerError, MsgInternalError)
}
