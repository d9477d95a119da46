package integration

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 借阅模块集成测试
//
// 借阅是本系统的核心,验证以下关键点:
// 1. 借出/归还的完整事务流程
// 2. 悲观锁防超借(SELECT FOR UPDATE)
// 3. 借阅上限与副本台账的一致性
// 4. 馆员权限控制

// TestLoanCheckout 测试借出功能
func TestLoanCheckout(t *testing.T) {
	baseURL := BaseURL(t)
	librarianToken := RegisterTestLibrarian(t, baseURL, "loan_librarian")

	t.Run("正常借出", func(t *testing.T) {
		bookID := CatalogTestBook(t, baseURL, librarianToken, "《借阅测试图书》", 3)
		_, memberID := RegisterTestMember(t, baseURL, "借阅读者")

		checkoutReq := map[string]interface{}{
			"book_id":   bookID,
			"member_id": memberID,
		}

		resp := PostJSON(t, baseURL+"/loans", checkoutReq, librarianToken)
		assert.Equal(t, 0, resp.Code, "借出应该成功: %s", resp.Message)

		var data CheckoutData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err, "解析响应数据失败")

		assert.NotZero(t, data.LoanID, "借阅ID应该大于0")
		assert.Equal(t, bookID, data.BookID)
		assert.Equal(t, memberID, data.MemberID)
		assert.NotEmpty(t, data.DueDate, "应还日期不应该为空")

		// 借出后可借副本数减1
		bookResp := GetJSON(t, fmt.Sprintf("%s/books/%d", baseURL, bookID), "")
		require.Equal(t, 0, bookResp.Code)

		var bookData BookData
		err = json.Unmarshal(bookResp.Data, &bookData)
		require.NoError(t, err)
		assert.Equal(t, 2, bookData.AvailableCopies, "可借副本数应该从3减到2")

		t.Logf("✓ 借出成功,借阅ID: %d,应还日期: %s", data.LoanID, data.DueDate)
	})

	t.Run("非馆员不能办理借出", func(t *testing.T) {
		bookID := CatalogTestBook(t, baseURL, librarianToken, "《权限测试图书》", 1)
		memberToken, memberID := RegisterTestMember(t, baseURL, "普通读者")

		checkoutReq := map[string]interface{}{
			"book_id":   bookID,
			"member_id": memberID,
		}

		resp := PostJSON(t, baseURL+"/loans", checkoutReq, memberToken)
		assert.NotEqual(t, 0, resp.Code, "普通读者办理借出应该被拒绝")

		t.Logf("✓ 非馆员正确被拒绝: %s", resp.Message)
	})

	t.Run("未登录不能办理借出", func(t *testing.T) {
		resp := PostJSON(t, baseURL+"/loans", map[string]interface{}{
			"book_id":   1,
			"member_id": 1,
		}, "")
		assert.NotEqual(t, 0, resp.Code, "未登录应该失败")

		t.Logf("✓ 未登录正确被拒绝: %s", resp.Message)
	})

	t.Run("图书不存在应失败", func(t *testing.T) {
		_, memberID := RegisterTestMember(t, baseURL, "找书读者")

		checkoutReq := map[string]interface{}{
			"book_id":   999999999,
			"member_id": memberID,
		}

		resp := PostJSON(t, baseURL+"/loans", checkoutReq, librarianToken)
		assert.NotEqual(t, 0, resp.Code, "图书不存在应该失败")
		assert.Contains(t, resp.Message, "图书", "错误信息应该提示图书相关")

		t.Logf("✓ 图书不存在正确返回错误: %s", resp.Message)
	})

	t.Run("超出借阅上限应失败", func(t *testing.T) {
		_, memberID := RegisterTestMember(t, baseURL, "多借读者")

		// 默认上限3本,先借满
		for i := 0; i < 3; i++ {
			bookID := CatalogTestBook(t, baseURL, librarianToken, fmt.Sprintf("《上限测试%d》", i), 1)
			CheckoutTestLoan(t, baseURL, librarianToken, bookID, memberID)
		}

		bookID := CatalogTestBook(t, baseURL, librarianToken, "《第四本》", 1)
		checkoutReq := map[string]interface{}{
			"book_id":   bookID,
			"member_id": memberID,
		}

		resp := PostJSON(t, baseURL+"/loans", checkoutReq, librarianToken)
		assert.NotEqual(t, 0, resp.Code, "超出借阅上限应该失败")
		assert.Contains(t, resp.Message, "上限", "错误信息应该提示借阅上限")

		t.Logf("✓ 借阅上限正确拦截: %s", resp.Message)
	})

	t.Run("无可借副本应失败", func(t *testing.T) {
		bookID := CatalogTestBook(t, baseURL, librarianToken, "《孤本》", 1)
		_, firstMember := RegisterTestMember(t, baseURL, "先到读者")
		_, secondMember := RegisterTestMember(t, baseURL, "后到读者")

		CheckoutTestLoan(t, baseURL, librarianToken, bookID, firstMember)

		checkoutReq := map[string]interface{}{
			"book_id":   bookID,
			"member_id": secondMember,
		}

		resp := PostJSON(t, baseURL+"/loans", checkoutReq, librarianToken)
		assert.NotEqual(t, 0, resp.Code, "无可借副本应该失败")

		t.Logf("✓ 无可借副本正确拦截: %s", resp.Message)
	})
}

// TestLoanReturn 测试归还功能
func TestLoanReturn(t *testing.T) {
	baseURL := BaseURL(t)
	librarianToken := RegisterTestLibrarian(t, baseURL, "return_librarian")

	t.Run("按时归还无罚款", func(t *testing.T) {
		bookID := CatalogTestBook(t, baseURL, librarianToken, "《归还测试图书》", 2)
		_, memberID := RegisterTestMember(t, baseURL, "守时读者")
		loanID := CheckoutTestLoan(t, baseURL, librarianToken, bookID, memberID)

		resp := PostJSON(t, fmt.Sprintf("%s/loans/%d/return", baseURL, loanID), nil, librarianToken)
		assert.Equal(t, 0, resp.Code, "归还应该成功: %s", resp.Message)

		var data ReturnData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err, "解析响应数据失败")

		assert.Equal(t, loanID, data.LoanID)
		assert.Zero(t, data.Fine, "借出当天归还不应该有罚款")
		assert.Equal(t, "0.00", data.FineYuan)

		// 归还后副本回到台账
		bookResp := GetJSON(t, fmt.Sprintf("%s/books/%d", baseURL, bookID), "")
		require.Equal(t, 0, bookResp.Code)

		var bookData BookData
		err = json.Unmarshal(bookResp.Data, &bookData)
		require.NoError(t, err)
		assert.Equal(t, 2, bookData.AvailableCopies, "归还后可借副本数应该恢复")

		t.Logf("✓ 归还成功,罚款: %s元", data.FineYuan)
	})

	t.Run("重复归还应失败", func(t *testing.T) {
		bookID := CatalogTestBook(t, baseURL, librarianToken, "《重复归还测试》", 1)
		_, memberID := RegisterTestMember(t, baseURL, "重复读者")
		loanID := CheckoutTestLoan(t, baseURL, librarianToken, bookID, memberID)

		first := PostJSON(t, fmt.Sprintf("%s/loans/%d/return", baseURL, loanID), nil, librarianToken)
		require.Equal(t, 0, first.Code, "第一次归还应该成功")

		second := PostJSON(t, fmt.Sprintf("%s/loans/%d/return", baseURL, loanID), nil, librarianToken)
		assert.NotEqual(t, 0, second.Code, "重复归还应该失败")

		// 台账不能多加:1册的书归还两次后仍然只有1册可借
		bookResp := GetJSON(t, fmt.Sprintf("%s/books/%d", baseURL, bookID), "")
		require.Equal(t, 0, bookResp.Code)

		var bookData BookData
		err := json.Unmarshal(bookResp.Data, &bookData)
		require.NoError(t, err)
		assert.Equal(t, 1, bookData.AvailableCopies, "重复归还不应该虚增副本")

		t.Logf("✓ 重复归还正确拦截: %s", second.Message)
	})

	t.Run("借阅记录不存在应失败", func(t *testing.T) {
		resp := PostJSON(t, baseURL+"/loans/999999999/return", nil, librarianToken)
		assert.NotEqual(t, 0, resp.Code, "借阅记录不存在应该失败")

		t.Logf("✓ 借阅记录不存在正确返回错误: %s", resp.Message)
	})
}

// TestLoanList 测试在借/逾期清单
func TestLoanList(t *testing.T) {
	baseURL := BaseURL(t)
	librarianToken := RegisterTestLibrarian(t, baseURL, "list_librarian")

	t.Run("在借清单包含新借出记录", func(t *testing.T) {
		bookID := CatalogTestBook(t, baseURL, librarianToken, "《清单测试图书》", 1)
		_, memberID := RegisterTestMember(t, baseURL, "清单读者")
		loanID := CheckoutTestLoan(t, baseURL, librarianToken, bookID, memberID)

		resp := GetJSON(t, baseURL+"/loans", librarianToken)
		require.Equal(t, 0, resp.Code, "查询在借清单失败: %s", resp.Message)

		var items []LoanItemData
		err := json.Unmarshal(resp.Data, &items)
		require.NoError(t, err, "解析清单失败")

		var found *LoanItemData
		for i := range items {
			if items[i].LoanID == loanID {
				found = &items[i]
				break
			}
		}
		require.NotNil(t, found, "在借清单应该包含刚借出的记录")
		assert.Equal(t, "《清单测试图书》", found.BookTitle)
		assert.False(t, found.Overdue, "刚借出的记录不应该逾期")
		assert.Zero(t, found.AccruedFine)

		t.Logf("✓ 在借清单共%d条,包含借阅%d", len(items), loanID)
	})

	t.Run("归还后从在借清单移除", func(t *testing.T) {
		bookID := CatalogTestBook(t, baseURL, librarianToken, "《移除测试图书》", 1)
		_, memberID := RegisterTestMember(t, baseURL, "移除读者")
		loanID := CheckoutTestLoan(t, baseURL, librarianToken, bookID, memberID)

		returnResp := PostJSON(t, fmt.Sprintf("%s/loans/%d/return", baseURL, loanID), nil, librarianToken)
		require.Equal(t, 0, returnResp.Code)

		resp := GetJSON(t, baseURL+"/loans", librarianToken)
		require.Equal(t, 0, resp.Code)

		var items []LoanItemData
		err := json.Unmarshal(resp.Data, &items)
		require.NoError(t, err)

		for _, item := range items {
			assert.NotEqual(t, loanID, item.LoanID, "已归还的记录不应该出现在在借清单")
		}

		t.Logf("✓ 借阅%d已从在借清单移除", loanID)
	})

	t.Run("逾期清单不含今日到期记录", func(t *testing.T) {
		// 新借出的记录7天后才到期,不应该出现在逾期清单
		bookID := CatalogTestBook(t, baseURL, librarianToken, "《逾期测试图书》", 1)
		_, memberID := RegisterTestMember(t, baseURL, "逾期读者")
		loanID := CheckoutTestLoan(t, baseURL, librarianToken, bookID, memberID)

		resp := GetJSON(t, baseURL+"/loans/overdue", librarianToken)
		require.Equal(t, 0, resp.Code, "查询逾期清单失败: %s", resp.Message)

		var items []LoanItemData
		err := json.Unmarshal(resp.Data, &items)
		require.NoError(t, err)

		for _, item := range items {
			assert.NotEqual(t, loanID, item.LoanID, "未到期的记录不应该出现在逾期清单")
			assert.True(t, item.Overdue, "逾期清单里的记录都应该标记为逾期")
			assert.Greater(t, item.DaysOverdue, 0)
		}

		t.Logf("✓ 逾期清单共%d条,均为逾期记录", len(items))
	})
}

// TestConcurrentCheckout 并发借出防超借测试
//
// 场景:某书只有5册可借,20名读者同时被办理借出
// 期望:恰好5人成功,15人失败,台账不出现负数
//
// 实现要点:
// - sync.WaitGroup 等待所有goroutine完成
// - sync.Mutex 保护成功/失败计数
func TestConcurrentCheckout(t *testing.T) {
	baseURL := BaseURL(t)
	librarianToken := RegisterTestLibrarian(t, baseURL, "concurrent_librarian")

	const (
		copies      = 5
		concurrency = 20
	)

	bookID := CatalogTestBook(t, baseURL, librarianToken, "《抢借测试图书》", copies)

	// 每个并发请求用不同的读者,避免撞上借阅上限
	memberIDs := make([]uint, concurrency)
	for i := 0; i < concurrency; i++ {
		_, memberIDs[i] = RegisterTestMember(t, baseURL, fmt.Sprintf("并发读者%d", i))
	}

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		successCount int
		failCount    int
	)

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(memberID uint) {
			defer wg.Done()

			checkoutReq := map[string]interface{}{
				"book_id":   bookID,
				"member_id": memberID,
			}
			resp := PostJSON(t, baseURL+"/loans", checkoutReq, librarianToken)

			mu.Lock()
			defer mu.Unlock()
			if resp.Code == 0 {
				successCount++
			} else {
				failCount++
			}
		}(memberIDs[i])
	}

	wg.Wait()

	t.Logf("抢借结果:成功%d人,失败%d人(副本%d册)", successCount, failCount, copies)

	assert.Equal(t, copies, successCount, "成功借出数应该等于副本数")
	assert.Equal(t, concurrency, successCount+failCount, "成功+失败应该等于总请求数")

	// 台账必须扣到0,不能为负
	bookResp := GetJSON(t, fmt.Sprintf("%s/books/%d", baseURL, bookID), "")
	require.Equal(t, 0, bookResp.Code)

	var bookData BookData
	err := json.Unmarshal(bookResp.Data, &bookData)
	require.NoError(t, err)
	assert.Equal(t, 0, bookData.AvailableCopies, "可借副本数应该恰好扣到0")
}
