package club

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/smartlibrary/internal/domain/club"
	"github.com/xiebiao/smartlibrary/internal/domain/member"
	apperrors "github.com/xiebiao/smartlibrary/pkg/errors"
)

// fakeClubRepo 读书会仓储内存实现
type fakeClubRepo struct {
	clubs       map[uint]*club.Club
	memberships map[[2]uint]bool
	nextID      uint
}

func newFakeClubRepo() *fakeClubRepo {
	return &fakeClubRepo{
		clubs:       make(map[uint]*club.Club),
		memberships: make(map[[2]uint]bool),
		nextID:      1,
	}
}

func (r *fakeClubRepo) Create(ctx context.Context, c *club.Club) error {
	c.ID = r.nextID
	r.nextID++
	r.clubs[c.ID] = c
	return nil
}

func (r *fakeClubRepo) FindByID(ctx context.Context, id uint) (*club.Club, error) {
	c, ok := r.clubs[id]
	if !ok {
		return nil, club.ErrClubNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeClubRepo) List(ctx context.Context) ([]*club.Club, error) {
	var clubs []*club.Club
	for _, c := range r.clubs {
		clubs = append(clubs, c)
	}
	return clubs, nil
}

func (r *fakeClubRepo) LockByID(ctx context.Context, id uint) (*club.Club, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeClubRepo) UpdateMemberCount(ctx context.Context, id uint, delta int) error {
	c, ok := r.clubs[id]
	if !ok {
		return club.ErrClubNotFound
	}
	next := c.CurrentMembers + delta
	if next > c.MaxMembers {
		return club.ErrClubFull
	}
	c.CurrentMembers = next
	return nil
}

func (r *fakeClubRepo) AddMembership(ctx context.Context, clubID, memberID uint) error {
	key := [2]uint{clubID, memberID}
	if r.memberships[key] {
		return club.ErrAlreadyInClub
	}
	r.memberships[key] = true
	return nil
}

func (r *fakeClubRepo) RemoveMembership(ctx context.Context, clubID, memberID uint) error {
	key := [2]uint{clubID, memberID}
	if !r.memberships[key] {
		return club.ErrNotInClub
	}
	delete(r.memberships, key)
	return nil
}

func (r *fakeClubRepo) HasMembership(ctx context.Context, clubID, memberID uint) (bool, error) {
	return r.memberships[[2]uint{clubID, memberID}], nil
}

// fakeMemberRepo 最小读者仓储,只支持FindByID
type fakeMemberRepo struct {
	members map[uint]*member.Member
}

func (r *fakeMemberRepo) Create(ctx context.Context, m *member.Member) error { return nil }
func (r *fakeMemberRepo) FindByID(ctx context.Context, id uint) (*member.Member, error) {
	m, ok := r.members[id]
	if !ok {
		return nil, member.ErrMemberNotFound
	}
	return m, nil
}
func (r *fakeMemberRepo) FindByUserID(ctx context.Context, userID uint) (*member.Member, error) {
	return nil, member.ErrMemberNotFound
}
func (r *fakeMemberRepo) LockByID(ctx context.Context, id uint) (*member.Member, error) {
	return r.FindByID(ctx, id)
}
func (r *fakeMemberRepo) UpdateLoanCount(ctx context.Context, id uint, delta int) error { return nil }

// passthroughTx 直接执行fn,不做回滚(本包用例每步都有独立守卫)
type passthroughTx struct{}

func (passthroughTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newJoinFixture(maxMembers int) (*fakeClubRepo, *JoinClubUseCase) {
	clubRepo := newFakeClubRepo()
	clubRepo.clubs[1] = &club.Club{
		ID: 1, Name: "科幻读书会", MaxMembers: maxMembers,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	memberRepo := &fakeMemberRepo{members: map[uint]*member.Member{
		10: {ID: 10, Name: "张伟"},
		11: {ID: 11, Name: "李娜"},
	}}
	return clubRepo, NewJoinClubUseCase(clubRepo, memberRepo, passthroughTx{})
}

func TestJoinClub(t *testing.T) {
	clubRepo, uc := newJoinFixture(2)

	require.NoError(t, uc.Execute(context.Background(), 1, 10))
	assert.Equal(t, 1, clubRepo.clubs[1].CurrentMembers)

	ok, _ := clubRepo.HasMembership(context.Background(), 1, 10)
	assert.True(t, ok)
}

func TestJoinClub_Full(t *testing.T) {
	clubRepo, uc := newJoinFixture(1)
	ctx := context.Background()

	require.NoError(t, uc.Execute(ctx, 1, 10))

	// 满员后再加入被拒绝
	err := uc.Execute(ctx, 1, 11)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeClubFull, apperrors.GetAppError(err).Code)
	assert.Equal(t, 1, clubRepo.clubs[1].CurrentMembers)
}

func TestJoinClub_Duplicate(t *testing.T) {
	_, uc := newJoinFixture(5)
	ctx := context.Background()

	require.NoError(t, uc.Execute(ctx, 1, 10))

	err := uc.Execute(ctx, 1, 10)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeAlreadyInClub, apperrors.GetAppError(err).Code)
}

func TestJoinClub_NotFound(t *testing.T) {
	_, uc := newJoinFixture(5)
	ctx := context.Background()

	err := uc.Execute(ctx, 99, 10)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeClubNotFound, apperrors.GetAppError(err).Code)

	err = uc.Execute(ctx, 1, 99)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeMemberNotFound, apperrors.GetAppError(err).Code)
}

func TestLeaveClub(t *testing.T) {
	clubRepo, joinUC := newJoinFixture(2)
	ctx := context.Background()
	require.NoError(t, joinUC.Execute(ctx, 1, 10))

	leaveUC := NewLeaveClubUseCase(clubRepo, passthroughTx{})
	require.NoError(t, leaveUC.Execute(ctx, 1, 10))
	assert.Equal(t, 0, clubRepo.clubs[1].CurrentMembers)

	// 未加入的退出被拒绝
	err := leaveUC.Execute(ctx, 1, 11)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeBusinessError, apperrors.GetAppError(err).Code)
}

func TestCreateClub_Invalid(t *testing.T) {
	uc := NewCreateClubUseCase(newFakeClubRepo())
	ctx := context.Background()

	_, err := uc.Execute(ctx, CreateClubRequest{Name: "", MaxMembers: 5})
	require.Error(t, err)

	_, err = uc.Execute(ctx, CreateClubRequest{Name: "科幻读书会", MaxMembers: 0})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidParams, apperrors.GetAppError(err).Code)
}
