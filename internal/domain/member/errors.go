package member

import (
	apperrors "github.com/xiebiao/smartlibrary/pkg/errors"
)

// 读者领域错误定义
var (
	// ErrMemberNotFound 读者不存在
	ErrMemberNotFound = apperrors.New(apperrors.ErrCodeMemberNotFound, "读者不存在")

	// ErrLoanLimitExceeded 借阅数量达到上限
	ErrLoanLimitExceeded = apperrors.New(apperrors.ErrCodeLoanLimit, "借阅数量已达上限")

	// ErrAlreadyEnrolled 该用户已注册为读者
	ErrAlreadyEnrolled = apperrors.New(apperrors.ErrCodeDuplicateEntry, "该用户已注册为读者")

	// ErrInvalidName 读者姓名不合法
	ErrInvalidName = apperrors.New(apperrors.ErrCodeInvalidParams, "读者姓名不能为空")
)
