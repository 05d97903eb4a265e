package util

import "errors"

var (
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidEvaluation 评分服务返回了非法评估（分数越界或枚举非法），严禁静默钳制
	ErrInvalidEvaluation = errors.New("invalid evaluation input")

	// ErrUpstreamService 评分/出题网关不可用或报错，原样上抛，核心层不重试
	ErrUpstreamService = errors.New("upstream service error")

	ErrSessionNotFound = errors.New("interview session not found")
	ErrSessionBusy     = errors.New("session already has an answer in flight")
	ErrRecordNotFound  = errors.New("interview record not found")
)
