package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 集成测试辅助工具
// 封装HTTP请求、JSON解析与常用的注册/办证/编目流程,
// 让测试文件只关注借阅业务本身。
//
// 运行前需要启动完整服务(MySQL+Redis+API),并设置环境变量:
//   SMARTLIBRARY_TEST_BASE_URL=http://localhost:8080/api/v1 go test ./test/integration/

const (
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

// BaseURL 从环境变量读取被测服务地址
func BaseURL(t *testing.T) string {
	url := os.Getenv("SMARTLIBRARY_TEST_BASE_URL")
	if url == "" {
		t.Skip("未设置SMARTLIBRARY_TEST_BASE_URL,跳过集成测试")
	}
	return url
}

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// LoginData 登录响应数据
type LoginData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// BookData 图书响应数据
type BookData struct {
	ID              uint   `json:"id"`
	ISBN            string `json:"isbn"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
}

// MemberData 读者响应数据
type MemberData struct {
	MemberID     uint   `json:"member_id"`
	UserID       uint   `json:"user_id"`
	Name         string `json:"name"`
	CurrentLoans int    `json:"current_loans"`
}

// CheckoutData 借出响应数据
type CheckoutData struct {
	LoanID   uint   `json:"loan_id"`
	BookID   uint   `json:"book_id"`
	MemberID uint   `json:"member_id"`
	LoanDate string `json:"loan_date"`
	DueDate  string `json:"due_date"`
}

// ReturnData 归还响应数据
type ReturnData struct {
	LoanID     uint   `json:"loan_id"`
	ReturnDate string `json:"return_date"`
	Fine       int64  `json:"fine"`
	FineYuan   string `json:"fine_yuan"`
}

// LoanItemData 借阅列表项
type LoanItemData struct {
	LoanID      uint   `json:"loan_id"`
	BookID      uint   `json:"book_id"`
	BookTitle   string `json:"book_title"`
	MemberID    uint   `json:"member_id"`
	MemberName  string `json:"member_name"`
	DueDate     string `json:"due_date"`
	Overdue     bool   `json:"overdue"`
	DaysOverdue int    `json:"days_overdue"`
	AccruedFine int64  `json:"accrued_fine"`
}

// ClubData 读书会响应数据
type ClubData struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	MaxMembers     int    `json:"max_members"`
	CurrentMembers int    `json:"current_members"`
}

// PostJSON 发送POST请求并解析JSON响应
// 使用require断言,任何基础设施层面的失败立即终止测试
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	jsonData, err := json.Marshal(data)
	require.NoError(t, err, "JSON序列化失败")

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	require.NoError(t, err, "创建HTTP请求失败")

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(body, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(body))

	return &result
}

// GetJSON 发送GET请求并解析JSON响应
func GetJSON(t *testing.T, url string, token string) *Response {
	req, err := http.NewRequest("GET", url, nil)
	require.NoError(t, err, "创建HTTP请求失败")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(body, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(body))

	return &result
}

// GenerateTestEmail 生成唯一的测试邮箱
// 时间戳保证重复运行时不会撞上邮箱唯一索引
func GenerateTestEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@test.com", prefix, time.Now().UnixNano())
}

// GenerateTestISBN 生成唯一的测试ISBN
// ISBN-13格式:978 + 10位数字,取时间戳后10位
func GenerateTestISBN() string {
	timestamp := time.Now().UnixNano()
	return fmt.Sprintf("978%010d", timestamp%10000000000)
}

// registerAndLogin 注册指定角色的用户并登录,返回Token
func registerAndLogin(t *testing.T, baseURL, nickname, role string) string {
	email := GenerateTestEmail(nickname)
	registerReq := map[string]string{
		"email":    email,
		"password": "Test1234",
		"nickname": nickname,
		"role":     role,
	}

	registerResp := PostJSON(t, baseURL+"/users/register", registerReq, "")
	require.Equal(t, 0, registerResp.Code, "注册失败: %s", registerResp.Message)

	loginReq := map[string]string{
		"email":    email,
		"password": "Test1234",
	}

	loginResp := PostJSON(t, baseURL+"/users/login", loginReq, "")
	require.Equal(t, 0, loginResp.Code, "登录失败: %s", loginResp.Message)

	var loginData LoginData
	err := json.Unmarshal(loginResp.Data, &loginData)
	require.NoError(t, err, "解析登录响应失败")

	return loginData.AccessToken
}

// RegisterTestLibrarian 注册馆员并返回Token
func RegisterTestLibrarian(t *testing.T, baseURL, nickname string) string {
	return registerAndLogin(t, baseURL, nickname, "librarian")
}

// RegisterTestMember 注册普通用户、办理借书证,返回Token与读者ID
// 封装了注册+登录+办证的完整流程
func RegisterTestMember(t *testing.T, baseURL, name string) (token string, memberID uint) {
	token = registerAndLogin(t, baseURL, name, "member")

	enrollReq := map[string]string{"name": name}
	enrollResp := PostJSON(t, baseURL+"/members", enrollReq, token)
	require.Equal(t, 0, enrollResp.Code, "办理借书证失败: %s", enrollResp.Message)

	var memberData MemberData
	err := json.Unmarshal(enrollResp.Data, &memberData)
	require.NoError(t, err, "解析办证响应失败")

	return token, memberData.MemberID
}

// CatalogTestBook 图书编目入馆并返回图书ID
func CatalogTestBook(t *testing.T, baseURL, librarianToken, title string, copies int) uint {
	bookReq := map[string]interface{}{
		"isbn":             GenerateTestISBN(),
		"title":            title,
		"author":           "测试作者",
		"publisher":        "测试出版社",
		"publication_year": 2020,
		"total_copies":     copies,
		"description":      "集成测试用图书",
	}

	bookResp := PostJSON(t, baseURL+"/books", bookReq, librarianToken)
	require.Equal(t, 0, bookResp.Code, "图书入馆失败: %s", bookResp.Message)

	var bookData BookData
	err := json.Unmarshal(bookResp.Data, &bookData)
	require.NoError(t, err, "解析图书响应失败")

	return bookData.ID
}

// CheckoutTestLoan 办理借出并返回借阅ID
func CheckoutTestLoan(t *testing.T, baseURL, librarianToken string, bookID, memberID uint) uint {
	checkoutReq := map[string]interface{}{
		"book_id":   bookID,
		"member_id": memberID,
	}

	resp := PostJSON(t, baseURL+"/loans", checkoutReq, librarianToken)
	require.Equal(t, 0, resp.Code, "办理借出失败: %s", resp.Message)

	var data CheckoutData
	err := json.Unmarshal(resp.Data, &data)
	require.NoError(t, err, "解析借出响应失败")

	return data.LoanID
}
