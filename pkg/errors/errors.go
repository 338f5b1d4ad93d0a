package errors

import "errors"

// ErrCompanyNotFound 公司在注册库中不存在
var ErrCompanyNotFound = errors.New("公司不存在")

// ErrCompanyDisabled 公司已停用，拒绝打开其租户库
var ErrCompanyDisabled = errors.New("公司已停用")
