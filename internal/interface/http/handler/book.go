package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/smartlibrary/internal/application/book"
	"github.com/xiebiao/smartlibrary/internal/interface/http/dto"
	apperrors "github.com/xiebiao/smartlibrary/pkg/errors"
	"github.com/xiebiao/smartlibrary/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	publishBookUseCase *appbook.PublishBookUseCase
	getBookUseCase     *appbook.GetBookUseCase
	listBooksUseCase   *appbook.ListBooksUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	publishBookUseCase *appbook.PublishBookUseCase,
	getBookUseCase *appbook.GetBookUseCase,
	listBooksUseCase *appbook.ListBooksUseCase,
) *BookHandler {
	return &BookHandler{
		publishBookUseCase: publishBookUseCase,
		getBookUseCase:     getBookUseCase,
		listBooksUseCase:   listBooksUseCase,
	}
}

// PublishBook 图书入馆
// @Summary      图书入馆
// @Description  馆员编目新书上架,全部副本在架可借
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.PublishBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      403 {object} response.Response "仅限馆员"
// @Failure      409 {object} response.Response "ISBN已存在"
// @Router       /api/v1/books [post]
func (h *BookHandler) PublishBook(c *gin.Context) {
	var req dto.PublishBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.publishBookUseCase.Execute(c.Request.Context(), appbook.PublishBookRequest{
		ISBN:            req.ISBN,
		Title:           req.Title,
		Author:          req.Author,
		Publisher:       req.Publisher,
		PublicationYear: req.PublicationYear,
		TotalCopies:     req.TotalCopies,
		Description:     req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.BookResponse{
		ID:              result.ID,
		ISBN:            result.ISBN,
		Title:           result.Title,
		Author:          result.Author,
		Publisher:       result.Publisher,
		PublicationYear: result.PublicationYear,
		TotalCopies:     result.TotalCopies,
		AvailableCopies: result.AvailableCopies,
	})
}

// GetBook 查询图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "无效的图书ID")
		return
	}

	result, err := h.getBookUseCase.Execute(c.Request.Context(), uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.BookResponse{
		ID:              result.ID,
		ISBN:            result.ISBN,
		Title:           result.Title,
		Author:          result.Author,
		Publisher:       result.Publisher,
		PublicationYear: result.PublicationYear,
		TotalCopies:     result.TotalCopies,
		AvailableCopies: result.AvailableCopies,
		Description:     result.Description,
	})
}

// ListBooks 查询图书列表
// @Summary      图书列表
// @Description  分页查询馆藏,支持关键词搜索与排序
// @Tags         图书
// @Produce      json
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Param        keyword query string false "搜索关键词"
// @Param        sort_by query string false "排序方式" Enums(title_asc, year_desc, created_at_desc)
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req dto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.listBooksUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
		SortBy:   req.SortBy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]dto.BookListItem, len(result.List))
	for i, b := range result.List {
		list[i] = dto.BookListItem{
			ID:              b.ID,
			ISBN:            b.ISBN,
			Title:           b.Title,
			Author:          b.Author,
			Publisher:       b.Publisher,
			PublicationYear: b.PublicationYear,
			TotalCopies:     b.TotalCopies,
			AvailableCopies: b.AvailableCopies,
			CreatedAt:       b.CreatedAt,
		}
	}

	response.SuccessWithPage(c, list, result.Total, result.Page, result.PageSize)
}
