package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appmember "github.com/xiebiao/smartlibrary/internal/application/member"
	"github.com/xiebiao/smartlibrary/internal/interface/http/dto"
	"github.com/xiebiao/smartlibrary/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/smartlibrary/pkg/errors"
	"github.com/xiebiao/smartlibrary/pkg/response"
)

// MemberHandler 读者HTTP处理器
type MemberHandler struct {
	enrollUseCase    *appmember.EnrollUseCase
	getMemberUseCase *appmember.GetMemberUseCase
}

// NewMemberHandler 创建读者处理器
func NewMemberHandler(
	enrollUseCase *appmember.EnrollUseCase,
	getMemberUseCase *appmember.GetMemberUseCase,
) *MemberHandler {
	return &MemberHandler{
		enrollUseCase:    enrollUseCase,
		getMemberUseCase: getMemberUseCase,
	}
}

// Enroll 办理借书证
// @Summary      办理借书证
// @Description  当前登录用户注册为读者,取得借阅资格
// @Tags         读者
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.EnrollRequest true "读者信息"
// @Success      200 {object} response.Response{data=dto.MemberResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      409 {object} response.Response "已办理借书证"
// @Router       /api/v1/members [post]
func (h *MemberHandler) Enroll(c *gin.Context) {
	var req dto.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	userID := middleware.MustGetUserID(c)

	result, err := h.enrollUseCase.Execute(c.Request.Context(), appmember.EnrollRequest{
		UserID: userID,
		Name:   req.Name,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.MemberResponse{
		MemberID: result.MemberID,
		UserID:   result.UserID,
		Name:     result.Name,
	})
}

// GetMember 读者详情
// @Summary      读者详情
// @Tags         读者
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "读者ID"
// @Success      200 {object} response.Response{data=dto.MemberResponse}
// @Failure      404 {object} response.Response "读者不存在"
// @Router       /api/v1/members/{id} [get]
func (h *MemberHandler) GetMember(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "无效的读者ID")
		return
	}

	result, err := h.getMemberUseCase.Execute(c.Request.Context(), uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.MemberResponse{
		MemberID:     result.MemberID,
		UserID:       result.UserID,
		Name:         result.Name,
		CurrentLoans: result.CurrentLoans,
	})
}

// GetProfile 查询自己的读者信息
// @Summary      我的借书证
// @Tags         读者
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=dto.MemberResponse}
// @Failure      404 {object} response.Response "未办理借书证"
// @Router       /api/v1/members/me [get]
func (h *MemberHandler) GetProfile(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	result, err := h.getMemberUseCase.GetByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.MemberResponse{
		MemberID:     result.MemberID,
		UserID:       result.UserID,
		Name:         result.Name,
		CurrentLoans: result.CurrentLoans,
	})
}
