package dto

// EnrollRequest HTTP办证请求
type EnrollRequest struct {
	Name string `json:"name" binding:"required,min=2,max=50" example:"张伟"`
}

// MemberResponse HTTP读者响应
type MemberResponse struct {
	MemberID     uint   `json:"member_id" example:"10"`
	UserID       uint   `json:"user_id" example:"1"`
	Name         string `json:"name" example:"张伟"`
	CurrentLoans int    `json:"current_loans" example:"2"`
}

// CreateClubRequest HTTP创建读书会请求
type CreateClubRequest struct {
	Name        string `json:"name" binding:"required,max=100" example:"科幻读书会"`
	Description string `json:"description" binding:"max=2000" example:"每月共读一本科幻小说"`
	MaxMembers  int    `json:"max_members" binding:"required,min=1,max=500" example:"30"`
}

// ClubResponse HTTP读书会响应
type ClubResponse struct {
	ID             uint   `json:"id" example:"1"`
	Name           string `json:"name" example:"科幻读书会"`
	Description    string `json:"description" example:"每月共读一本科幻小说"`
	MaxMembers     int    `json:"max_members" example:"30"`
	CurrentMembers int    `json:"current_members" example:"12"`
}
