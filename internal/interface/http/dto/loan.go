package dto

// CheckoutRequest HTTP借出请求
type CheckoutRequest struct {
	BookID   uint `json:"book_id" binding:"required" example:"1"`
	MemberID uint `json:"member_id" binding:"required" example:"10"`
}

// CheckoutResponse HTTP借出响应
type CheckoutResponse struct {
	LoanID   uint   `json:"loan_id" example:"1"`
	BookID   uint   `json:"book_id" example:"1"`
	MemberID uint   `json:"member_id" example:"10"`
	LoanDate string `json:"loan_date" example:"2024-03-01"`
	DueDate  string `json:"due_date" example:"2024-03-08"`
}

// ReturnResponse HTTP归还响应
type ReturnResponse struct {
	LoanID     uint   `json:"loan_id" example:"1"`
	BookID     uint   `json:"book_id" example:"1"`
	MemberID   uint   `json:"member_id" example:"10"`
	ReturnDate string `json:"return_date" example:"2024-03-10"`
	Fine       int64  `json:"fine" example:"100"`       // 罚款金额(分)
	FineYuan   string `json:"fine_yuan" example:"1.00"` // 罚款金额(元)
}

// LoanItem HTTP借阅列表项
type LoanItem struct {
	LoanID      uint   `json:"loan_id" example:"1"`
	BookID      uint   `json:"book_id" example:"1"`
	BookTitle   string `json:"book_title" example:"Go语言实战"`
	MemberID    uint   `json:"member_id" example:"10"`
	MemberName  string `json:"member_name" example:"张伟"`
	LoanDate    string `json:"loan_date" example:"2024-03-01"`
	DueDate     string `json:"due_date" example:"2024-03-08"`
	Overdue     bool   `json:"overdue" example:"false"`
	DaysOverdue int    `json:"days_overdue" example:"0"`
	AccruedFine int64  `json:"accrued_fine" example:"0"` // 若今日归还需缴的罚款(分)
}
