package club

import (
	apperrors "github.com/xiebiao/smartlibrary/pkg/errors"
)

// 读书会领域错误定义
var (
	// ErrClubNotFound 读书会不存在
	ErrClubNotFound = apperrors.New(apperrors.ErrCodeClubNotFound, "读书会不存在")

	// ErrClubFull 读书会人数已满
	ErrClubFull = apperrors.New(apperrors.ErrCodeClubFull, "读书会人数已满")

	// ErrAlreadyInClub 已加入该读书会
	ErrAlreadyInClub = apperrors.New(apperrors.ErrCodeAlreadyInClub, "已加入该读书会")

	// ErrNotInClub 未加入该读书会
	ErrNotInClub = apperrors.New(apperrors.ErrCodeBusinessError, "未加入该读书会")

	// ErrInvalidCapacity 人数上限不合法
	ErrInvalidCapacity = apperrors.New(apperrors.ErrCodeInvalidParams, "读书会人数上限必须大于0")
)
