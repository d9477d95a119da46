package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apploan "github.com/xiebiao/smartlibrary/internal/application/loan"
	"github.com/xiebiao/smartlibrary/internal/interface/http/dto"
	apperrors "github.com/xiebiao/smartlibrary/pkg/errors"
	"github.com/xiebiao/smartlibrary/pkg/response"
)

// LoanHandler 借阅HTTP处理器
// 借还操作仅限馆员,路由挂在RequireLibrarian之后
type LoanHandler struct {
	checkoutUseCase  *apploan.CheckoutUseCase
	returnUseCase    *apploan.ReturnUseCase
	listLoansUseCase *apploan.ListLoansUseCase
}

// NewLoanHandler 创建借阅处理器
func NewLoanHandler(
	checkoutUseCase *apploan.CheckoutUseCase,
	returnUseCase *apploan.ReturnUseCase,
	listLoansUseCase *apploan.ListLoansUseCase,
) *LoanHandler {
	return &LoanHandler{
		checkoutUseCase:  checkoutUseCase,
		returnUseCase:    returnUseCase,
		listLoansUseCase: listLoansUseCase,
	}
}

// Checkout 办理借出
// @Summary      借出图书
// @Description  为读者办理借出:校验借阅上限与可借副本,创建借阅记录
// @Tags         借阅
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CheckoutRequest true "借出信息"
// @Success      200 {object} response.Response{data=dto.CheckoutResponse}
// @Failure      400 {object} response.Response "借阅上限/无可借副本"
// @Failure      403 {object} response.Response "仅限馆员"
// @Failure      404 {object} response.Response "图书或读者不存在"
// @Router       /api/v1/loans [post]
func (h *LoanHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.checkoutUseCase.Execute(c.Request.Context(), apploan.CheckoutRequest{
		BookID:   req.BookID,
		MemberID: req.MemberID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.CheckoutResponse{
		LoanID:   result.LoanID,
		BookID:   result.BookID,
		MemberID: result.MemberID,
		LoanDate: result.LoanDate,
		DueDate:  result.DueDate,
	})
}

// Return 办理归还
// @Summary      归还图书
// @Description  关闭借阅记录,副本回架,计算逾期罚款
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "借阅记录ID"
// @Success      200 {object} response.Response{data=dto.ReturnResponse}
// @Failure      400 {object} response.Response "已归还"
// @Failure      403 {object} response.Response "仅限馆员"
// @Failure      404 {object} response.Response "借阅记录不存在"
// @Router       /api/v1/loans/{id}/return [post]
func (h *LoanHandler) Return(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "无效的借阅记录ID")
		return
	}

	result, err := h.returnUseCase.Execute(c.Request.Context(), apploan.ReturnRequest{
		LoanID: uint(id),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.ReturnResponse{
		LoanID:     result.LoanID,
		BookID:     result.BookID,
		MemberID:   result.MemberID,
		ReturnDate: result.ReturnDate,
		Fine:       result.Fine,
		FineYuan:   result.FineYuan,
	})
}

// ListActive 未归还借阅列表
// @Summary      未归还借阅列表
// @Description  全部未归还借阅,按应还日期升序,含实时逾期状态
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]dto.LoanItem}
// @Failure      403 {object} response.Response "仅限馆员"
// @Router       /api/v1/loans [get]
func (h *LoanHandler) ListActive(c *gin.Context) {
	items, err := h.listLoansUseCase.ListActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toLoanItems(items))
}

// ListOverdue 逾期借阅列表
// @Summary      逾期借阅列表
// @Description  已逾期的未归还借阅,含逾期天数与应计罚款
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]dto.LoanItem}
// @Failure      403 {object} response.Response "仅限馆员"
// @Router       /api/v1/loans/overdue [get]
func (h *LoanHandler) ListOverdue(c *gin.Context) {
	items, err := h.listLoansUseCase.ListOverdue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toLoanItems(items))
}

func toLoanItems(items []*apploan.LoanItem) []dto.LoanItem {
	list := make([]dto.LoanItem, len(items))
	for i, item := range items {
		list[i] = dto.LoanItem{
			LoanID:      item.LoanID,
			BookID:      item.BookID,
			BookTitle:   item.BookTitle,
			MemberID:    item.MemberID,
			MemberName:  item.MemberName,
			LoanDate:    item.LoanDate,
			DueDate:     item.DueDate,
			Overdue:     item.Overdue,
			DaysOverdue: item.DaysOverdue,
			AccruedFine: item.AccruedFine,
		}
	}
	return list
}
