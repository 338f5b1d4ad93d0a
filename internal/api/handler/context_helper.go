package handler

import (
	"github.com/gin-gonic/gin"

	"manage-rtc/backend/internal/dto"
	"manage-rtc/backend/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, "未认证")
		return "", false
	}
	return s, true
}

// MustGetCompanyID 从 Gin 上下文中安全提取 company_id。
func MustGetCompanyID(c *gin.Context) (string, bool) {
	v, exists := c.Get("company_id")
	if !exists {
		response.Unauthorized(c, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, "未认证")
		return "", false
	}
	return s, true
}

// MustGetActor 把认证上下文组装为业务操作人。
// user_name 允许为空，user_id 与 role 必须存在。
func MustGetActor(c *gin.Context) (*dto.Actor, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return nil, false
	}
	role, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, "未认证")
		return nil, false
	}
	roleStr, ok := role.(string)
	if !ok || roleStr == "" {
		response.Unauthorized(c, "未认证")
		return nil, false
	}
	return &dto.Actor{
		UserID:   userID,
		UserName: c.GetString("user_name"),
		Role:     roleStr,
	}, true
}
