package integration

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 读书会模块集成测试
// 验证名额上限与加入/退出的计数一致性

func createTestClub(t *testing.T, baseURL, librarianToken, name string, maxMembers int) uint {
	// 名称有唯一索引,加时间戳避免重复运行时冲突
	clubReq := map[string]interface{}{
		"name":        fmt.Sprintf("%s_%d", name, time.Now().UnixNano()),
		"description": "集成测试用读书会",
		"max_members": maxMembers,
	}

	resp := PostJSON(t, baseURL+"/clubs", clubReq, librarianToken)
	require.Equal(t, 0, resp.Code, "创建读书会失败: %s", resp.Message)

	var data ClubData
	err := json.Unmarshal(resp.Data, &data)
	require.NoError(t, err, "解析读书会响应失败")

	return data.ID
}

// TestClubJoin 测试加入读书会
func TestClubJoin(t *testing.T) {
	baseURL := BaseURL(t)
	librarianToken := RegisterTestLibrarian(t, baseURL, "club_librarian")

	t.Run("正常加入", func(t *testing.T) {
		clubID := createTestClub(t, baseURL, librarianToken, "科幻会", 10)
		memberToken, _ := RegisterTestMember(t, baseURL, "会员读者")

		resp := PostJSON(t, fmt.Sprintf("%s/clubs/%d/join", baseURL, clubID), nil, memberToken)
		assert.Equal(t, 0, resp.Code, "加入读书会应该成功: %s", resp.Message)

		t.Logf("✓ 加入读书会成功")
	})

	t.Run("重复加入应失败", func(t *testing.T) {
		clubID := createTestClub(t, baseURL, librarianToken, "重复会", 10)
		memberToken, _ := RegisterTestMember(t, baseURL, "重复会员")

		first := PostJSON(t, fmt.Sprintf("%s/clubs/%d/join", baseURL, clubID), nil, memberToken)
		require.Equal(t, 0, first.Code)

		second := PostJSON(t, fmt.Sprintf("%s/clubs/%d/join", baseURL, clubID), nil, memberToken)
		assert.NotEqual(t, 0, second.Code, "重复加入应该失败")

		t.Logf("✓ 重复加入正确拦截: %s", second.Message)
	})

	t.Run("名额已满应失败", func(t *testing.T) {
		clubID := createTestClub(t, baseURL, librarianToken, "小会", 1)

		firstToken, _ := RegisterTestMember(t, baseURL, "占位会员")
		first := PostJSON(t, fmt.Sprintf("%s/clubs/%d/join", baseURL, clubID), nil, firstToken)
		require.Equal(t, 0, first.Code)

		secondToken, _ := RegisterTestMember(t, baseURL, "迟到会员")
		second := PostJSON(t, fmt.Sprintf("%s/clubs/%d/join", baseURL, clubID), nil, secondToken)
		assert.NotEqual(t, 0, second.Code, "名额已满应该失败")

		t.Logf("✓ 名额上限正确拦截: %s", second.Message)
	})

	t.Run("退出后名额释放", func(t *testing.T) {
		clubID := createTestClub(t, baseURL, librarianToken, "流动会", 1)

		firstToken, _ := RegisterTestMember(t, baseURL, "先来会员")
		join := PostJSON(t, fmt.Sprintf("%s/clubs/%d/join", baseURL, clubID), nil, firstToken)
		require.Equal(t, 0, join.Code)

		leave := PostJSON(t, fmt.Sprintf("%s/clubs/%d/leave", baseURL, clubID), nil, firstToken)
		require.Equal(t, 0, leave.Code, "退出读书会失败: %s", leave.Message)

		secondToken, _ := RegisterTestMember(t, baseURL, "后来会员")
		rejoin := PostJSON(t, fmt.Sprintf("%s/clubs/%d/join", baseURL, clubID), nil, secondToken)
		assert.Equal(t, 0, rejoin.Code, "名额释放后应该可以加入: %s", rejoin.Message)

		t.Logf("✓ 退出后名额正确释放")
	})

	t.Run("未办借书证不能加入", func(t *testing.T) {
		clubID := createTestClub(t, baseURL, librarianToken, "门槛会", 10)
		// 只注册登录,不办借书证
		token := RegisterTestLibrarian(t, baseURL, "无证用户")

		resp := PostJSON(t, fmt.Sprintf("%s/clubs/%d/join", baseURL, clubID), nil, token)
		assert.NotEqual(t, 0, resp.Code, "未办借书证应该失败")

		t.Logf("✓ 未办借书证正确拦截: %s", resp.Message)
	})
}
