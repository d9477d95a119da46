package book

import (
	apperrors "github.com/xiebiao/smartlibrary/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrISBNDuplicate ISBN已存在
	ErrISBNDuplicate = apperrors.New(apperrors.ErrCodeISBNDuplicate, "ISBN号已存在")

	// ErrNoCopiesAvailable 无可借副本
	ErrNoCopiesAvailable = apperrors.New(apperrors.ErrCodeNoCopies, "该图书暂无可借副本")

	// ErrOverCapacity 在馆副本数超出馆藏总数
	// 防御性校验:正常借还流程不会触发,一旦触发说明计数已被破坏
	ErrOverCapacity = apperrors.New(apperrors.ErrCodeOverCapacity, "在馆副本数超出馆藏总数")

	// ErrInvalidISBN ISBN格式不正确
	ErrInvalidISBN = apperrors.New(apperrors.ErrCodeInvalidParams, "ISBN格式不正确")

	// ErrInvalidCopies 无效的副本数
	ErrInvalidCopies = apperrors.New(apperrors.ErrCodeInvalidParams, "副本数必须大于0")

	// ErrInvalidYear 无效的出版年份
	ErrInvalidYear = apperrors.New(apperrors.ErrCodeInvalidParams, "出版年份不正确")
)
