package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appclub "github.com/xiebiao/smartlibrary/internal/application/club"
	appmember "github.com/xiebiao/smartlibrary/internal/application/member"
	"github.com/xiebiao/smartlibrary/internal/interface/http/dto"
	"github.com/xiebiao/smartlibrary/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/smartlibrary/pkg/errors"
	"github.com/xiebiao/smartlibrary/pkg/response"
)

// ClubHandler 读书会HTTP处理器
type ClubHandler struct {
	createClubUseCase *appclub.CreateClubUseCase
	joinClubUseCase   *appclub.JoinClubUseCase
	leaveClubUseCase  *appclub.LeaveClubUseCase
	listClubsUseCase  *appclub.ListClubsUseCase
	getMemberUseCase  *appmember.GetMemberUseCase
}

// NewClubHandler 创建读书会处理器
func NewClubHandler(
	createClubUseCase *appclub.CreateClubUseCase,
	joinClubUseCase *appclub.JoinClubUseCase,
	leaveClubUseCase *appclub.LeaveClubUseCase,
	listClubsUseCase *appclub.ListClubsUseCase,
	getMemberUseCase *appmember.GetMemberUseCase,
) *ClubHandler {
	return &ClubHandler{
		createClubUseCase: createClubUseCase,
		joinClubUseCase:   joinClubUseCase,
		leaveClubUseCase:  leaveClubUseCase,
		listClubsUseCase:  listClubsUseCase,
		getMemberUseCase:  getMemberUseCase,
	}
}

// CreateClub 创建读书会
// @Summary      创建读书会
// @Tags         读书会
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateClubRequest true "读书会信息"
// @Success      200 {object} response.Response{data=dto.ClubResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      403 {object} response.Response "仅限馆员"
// @Router       /api/v1/clubs [post]
func (h *ClubHandler) CreateClub(c *gin.Context) {
	var req dto.CreateClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.createClubUseCase.Execute(c.Request.Context(), appclub.CreateClubRequest{
		Name:        req.Name,
		Description: req.Description,
		MaxMembers:  req.MaxMembers,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toClubResponse(result))
}

// ListClubs 读书会列表
// @Summary      读书会列表
// @Tags         读书会
// @Produce      json
// @Success      200 {object} response.Response{data=[]dto.ClubResponse}
// @Router       /api/v1/clubs [get]
func (h *ClubHandler) ListClubs(c *gin.Context) {
	clubs, err := h.listClubsUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]*dto.ClubResponse, len(clubs))
	for i, club := range clubs {
		list[i] = toClubResponse(club)
	}

	response.Success(c, list)
}

// JoinClub 加入读书会
// @Summary      加入读书会
// @Description  当前登录读者加入读书会,满员时拒绝
// @Tags         读书会
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "读书会ID"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "人数已满/已加入"
// @Failure      404 {object} response.Response "读书会不存在"
// @Router       /api/v1/clubs/{id}/join [post]
func (h *ClubHandler) JoinClub(c *gin.Context) {
	clubID, memberID, ok := h.resolveClubAndMember(c)
	if !ok {
		return
	}

	if err := h.joinClubUseCase.Execute(c.Request.Context(), clubID, memberID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// LeaveClub 退出读书会
// @Summary      退出读书会
// @Tags         读书会
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "读书会ID"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "未加入"
// @Failure      404 {object} response.Response "读书会不存在"
// @Router       /api/v1/clubs/{id}/leave [post]
func (h *ClubHandler) LeaveClub(c *gin.Context) {
	clubID, memberID, ok := h.resolveClubAndMember(c)
	if !ok {
		return
	}

	if err := h.leaveClubUseCase.Execute(c.Request.Context(), clubID, memberID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// resolveClubAndMember 解析路径中的读书会ID并查出当前用户的读者身份
func (h *ClubHandler) resolveClubAndMember(c *gin.Context) (clubID, memberID uint, ok bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "无效的读书会ID")
		return 0, 0, false
	}

	userID := middleware.MustGetUserID(c)
	m, err := h.getMemberUseCase.GetByUser(c.Request.Context(), userID)
	if err != nil {
		// 未办借书证不能加入读书会
		response.Error(c, err)
		return 0, 0, false
	}

	return uint(id), m.MemberID, true
}

func toClubResponse(info *appclub.ClubInfo) *dto.ClubResponse {
	return &dto.ClubResponse{
		ID:             info.ID,
		Name:           info.Name,
		Description:    info.Description,
		MaxMembers:     info.MaxMembers,
		CurrentMembers: info.CurrentMembers,
	}
}
