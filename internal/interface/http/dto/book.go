package dto

// PublishBookRequest HTTP图书入馆请求
type PublishBookRequest struct {
	ISBN            string `json:"isbn" binding:"required,max=20" example:"978-7-115-42802-8"`
	Title           string `json:"title" binding:"required,max=200" example:"Go语言实战"`
	Author          string `json:"author" binding:"required,max=100" example:"威廉·肯尼迪"`
	Publisher       string `json:"publisher" binding:"omitempty,max=100" example:"人民邮电出版社"`
	PublicationYear int    `json:"publication_year" binding:"required" example:"2017"`
	TotalCopies     int    `json:"total_copies" binding:"required,min=1,max=1000" example:"3"`
	Description     string `json:"description" binding:"max=5000" example:"一本关于Go语言的实战书籍"`
}

// BookResponse HTTP图书响应
type BookResponse struct {
	ID              uint   `json:"id" example:"1"`
	ISBN            string `json:"isbn" example:"978-7-115-42802-8"`
	Title           string `json:"title" example:"Go语言实战"`
	Author          string `json:"author" example:"威廉·肯尼迪"`
	Publisher       string `json:"publisher" example:"人民邮电出版社"`
	PublicationYear int    `json:"publication_year" example:"2017"`
	TotalCopies     int    `json:"total_copies" example:"3"`
	AvailableCopies int    `json:"available_copies" example:"3"`
	Description     string `json:"description,omitempty"`
}

// ListBooksRequest HTTP图书列表请求
type ListBooksRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"Go"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=title_asc year_desc created_at_desc" example:"created_at_desc"`
}

// BookListItem HTTP图书列表项(不含Description)
type BookListItem struct {
	ID              uint   `json:"id" example:"1"`
	ISBN            string `json:"isbn" example:"978-7-115-42802-8"`
	Title           string `json:"title" example:"Go语言实战"`
	Author          string `json:"author" example:"威廉·肯尼迪"`
	Publisher       string `json:"publisher" example:"人民邮电出版社"`
	PublicationYear int    `json:"publication_year" example:"2017"`
	TotalCopies     int    `json:"total_copies" example:"3"`
	AvailableCopies int    `json:"available_copies" example:"2"`
	CreatedAt       string `json:"created_at" example:"2024-01-15 10:30:00"`
}
