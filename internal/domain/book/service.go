package book

import (
	"context"
	"regexp"
	"time"
)

// Service 图书领域服务
// 设计说明:
// 1. Service包含不属于单个实体的业务逻辑(如ISBN格式校验、重复检查)
// 2. Service依赖Repository接口,不依赖具体实现(依赖倒置)
type Service interface {
	// PublishBook 图书入馆(编目上架)
	PublishBook(ctx context.Context, isbn, title, author, publisher string, publicationYear, totalCopies int, description string) (*Book, error)

	// GetBook 查询图书详情
	GetBook(ctx context.Context, id uint) (*Book, error)

	// ListBooks 分页查询图书列表
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

type service struct {
	repo Repository
}

// NewService 创建图书服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// PublishBook 图书入馆
// 业务规则:
// 1. ISBN格式校验(ISBN-10或ISBN-13)
// 2. 副本数必须大于0
// 3. 出版年份合理性校验
// 4. ISBN唯一性由数据库UNIQUE索引保证,冲突由仓储层转换为ErrISBNDuplicate
func (s *service) PublishBook(ctx context.Context, isbn, title, author, publisher string, publicationYear, totalCopies int, description string) (*Book, error) {
	// 1. ISBN格式校验
	if !isValidISBN(isbn) {
		return nil, ErrInvalidISBN
	}

	// 2. 副本数校验
	if totalCopies <= 0 {
		return nil, ErrInvalidCopies
	}

	// 3. 出版年份校验(古籍按1450年活字印刷起算)
	if publicationYear < 1450 || publicationYear > time.Now().Year()+1 {
		return nil, ErrInvalidYear
	}

	// 4. 创建图书实体并持久化
	b := NewBook(isbn, title, author, publisher, publicationYear, totalCopies, description)
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err // 仓储层已转换为业务错误
	}

	return b, nil
}

// GetBook 查询图书详情
func (s *service) GetBook(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// ListBooks 分页查询图书列表
func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	// 默认分页参数
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.PageSize <= 0 || params.PageSize > 100 {
		params.PageSize = 20
	}

	return s.repo.List(ctx, params)
}

// isValidISBN ISBN格式校验
// 允许带连字符的ISBN-10/ISBN-13,只校验长度与字符,不校验校验位
func isValidISBN(isbn string) bool {
	pattern := `^(?:\d[\- ]?){9}[\dXx]$|^(?:\d[\- ]?){12}\d$`
	matched, _ := regexp.MatchString(pattern, isbn)
	return matched
}
