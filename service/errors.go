package service

import "errors"

// 业务错误类型，API 层通过 errors.Is 映射为 HTTP 状态码
var (
	ErrNotFound        = errors.New("记录不存在")
	ErrConflict        = errors.New("记录已存在")
	ErrUnauthenticated = errors.New("邮箱或密码错误")
	ErrForbidden       = errors.New("账号未激活")
	ErrValidation      = errors.New("参数错误")
)
