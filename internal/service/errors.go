package service

import "errors"

// 领域错误，handler层用errors.Is映射到HTTP状态码
var (
	// ErrNotFound 记录不存在，或存在但不属于调用方（对外不区分）
	ErrNotFound = errors.New("记录不存在")

	// ErrValidation 参数不合法（不支持的语言/框架等）
	ErrValidation = errors.New("参数校验失败")
)
