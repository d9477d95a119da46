package book

import (
	"context"

	"github.com/xiebiao/smartlibrary/internal/domain/book"
	"github.com/xiebiao/smartlibrary/internal/infrastructure/persistence/redis"
)

// PublishBookUseCase 图书入馆用例(编目上架)
type PublishBookUseCase struct {
	bookService book.Service
	cache       *redis.BookCache // 可为nil(未配置Redis时)
}

// NewPublishBookUseCase 创建图书入馆用例
func NewPublishBookUseCase(bookService book.Service, cache *redis.BookCache) *PublishBookUseCase {
	return &PublishBookUseCase{
		bookService: bookService,
		cache:       cache,
	}
}

// PublishBookRequest 入馆请求DTO
type PublishBookRequest struct {
	ISBN            string
	Title           string
	Author          string
	Publisher       string
	PublicationYear int
	TotalCopies     int
	Description     string
}

// PublishBookResponse 入馆响应DTO
type PublishBookResponse struct {
	ID              uint   `json:"id"`
	ISBN            string `json:"isbn"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Publisher       string `json:"publisher"`
	PublicationYear int    `json:"publication_year"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
}

// Execute 执行图书入馆
// 新书入馆时全部副本在架,AvailableCopies = TotalCopies
func (uc *PublishBookUseCase) Execute(ctx context.Context, req PublishBookRequest) (*PublishBookResponse, error) {
	b, err := uc.bookService.PublishBook(ctx,
		req.ISBN, req.Title, req.Author, req.Publisher,
		req.PublicationYear, req.TotalCopies, req.Description)
	if err != nil {
		return nil, err
	}

	return &PublishBookResponse{
		ID:              b.ID,
		ISBN:            b.ISBN,
		Title:           b.Title,
		Author:          b.Author,
		Publisher:       b.Publisher,
		PublicationYear: b.PublicationYear,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
	}, nil
}

// GetBookUseCase 图书详情查询用例
// 读路径走Cache-Aside:先查缓存,未命中回源数据库并写回
type GetBookUseCase struct {
	bookService book.Service
	cache       *redis.BookCache // 可为nil
}

// NewGetBookUseCase 创建图书详情查询用例
func NewGetBookUseCase(bookService book.Service, cache *redis.BookCache) *GetBookUseCase {
	return &GetBookUseCase{
		bookService: bookService,
		cache:       cache,
	}
}

// BookDetail 图书详情DTO
type BookDetail struct {
	ID              uint   `json:"id"`
	ISBN            string `json:"isbn"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Publisher       string `json:"publisher"`
	PublicationYear int    `json:"publication_year"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
	Description     string `json:"description"`
}

// Execute 执行详情查询
// 缓存里的AvailableCopies允许短暂滞后,借还事务不读缓存
func (uc *GetBookUseCase) Execute(ctx context.Context, bookID uint) (*BookDetail, error) {
	if uc.cache != nil {
		if b := uc.cache.Get(ctx, bookID); b != nil {
			return toBookDetail(b), nil
		}
	}

	b, err := uc.bookService.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		uc.cache.Set(ctx, b)
	}

	return toBookDetail(b), nil
}

func toBookDetail(b *book.Book) *BookDetail {
	return &BookDetail{
		ID:              b.ID,
		ISBN:            b.ISBN,
		Title:           b.Title,
		Author:          b.Author,
		Publisher:       b.Publisher,
		PublicationYear: b.PublicationYear,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		Description:     b.Description,
	}
}
