package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/smartlibrary/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明:
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数(MaxOpenConns、MaxIdleConns、ConnMaxLifetime)
// 3. 开发环境开启SQL日志,生产环境关闭
// 4. 自动迁移表结构(AutoMigrate)
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.Database.DSN()

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 生产环境应使用版本化的迁移脚本,不要依赖AutoMigrate
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&BookModel{},
		&MemberModel{},
		&LoanModel{},
		&ClubModel{},
		&ClubMemberModel{},
	)
}

// UserModel GORM用户模型
// 设计说明:
// 1. infrastructure层的数据模型,包含GORM tag
// 2. domain/user/entity.go是领域实体,不依赖GORM
// 3. Repository负责两者之间的转换
type UserModel struct {
	ID        uint           `gorm:"primaryKey"`
	Email     string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Nickname  string         `gorm:"size:50;not null;comment:昵称"`
	Role      string         `gorm:"size:20;not null;default:member;comment:角色(librarian/member)"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// BookModel GORM图书模型
// 设计说明:
// 1. ISBN有唯一索引,防止重复编目
// 2. AvailableCopies是在馆可借副本数,不变式 0 <= available <= total
//    由SQL层守卫和借还事务的行锁共同保证
type BookModel struct {
	ID              uint           `gorm:"primaryKey"`
	ISBN            string         `gorm:"uniqueIndex;size:20;not null;comment:ISBN号"`
	Title           string         `gorm:"index:idx_search;size:200;not null;comment:书名"`
	Author          string         `gorm:"index:idx_search;size:100;not null;comment:作者"`
	Publisher       string         `gorm:"size:100;comment:出版社"`
	PublicationYear int            `gorm:"comment:出版年份"`
	TotalCopies     int            `gorm:"not null;comment:馆藏总副本数"`
	AvailableCopies int            `gorm:"not null;comment:在馆可借副本数"`
	Description     string         `gorm:"type:text;comment:图书简介"`
	CreatedAt       time.Time      `gorm:"index;comment:创建时间"`
	UpdatedAt       time.Time      `gorm:"comment:更新时间"`
	DeletedAt       gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// MemberModel GORM读者模型
// CurrentLoans是当前未归还借阅数的冗余计数,
// 与loans表的真实计数由借还事务保持一致
type MemberModel struct {
	ID           uint      `gorm:"primaryKey"`
	UserID       uint      `gorm:"uniqueIndex;not null;comment:关联用户ID"`
	Name         string    `gorm:"size:50;not null;comment:读者姓名"`
	CurrentLoans int       `gorm:"not null;default:0;comment:当前未归还借阅数"`
	CreatedAt    time.Time `gorm:"comment:创建时间"`
	UpdatedAt    time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (MemberModel) TableName() string {
	return "members"
}

// LoanModel GORM借阅记录模型
// 设计说明:
// 1. ReturnDate为NULL表示未归还,借阅列表按此过滤
// 2. 复合索引(return_date, due_date)覆盖未归还/逾期两类查询
// 3. 借阅记录不做软删除,归还后保留作馆务审计
type LoanModel struct {
	ID         uint       `gorm:"primaryKey"`
	BookID     uint       `gorm:"index;not null;comment:图书ID"`
	MemberID   uint       `gorm:"index;not null;comment:读者ID"`
	LoanDate   time.Time  `gorm:"not null;comment:借出日期"`
	DueDate    time.Time  `gorm:"index:idx_active,priority:2;not null;comment:应还日期"`
	ReturnDate *time.Time `gorm:"index:idx_active,priority:1;comment:归还日期(NULL表示未归还)"`
	CreatedAt  time.Time  `gorm:"comment:创建时间"`
	UpdatedAt  time.Time  `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (LoanModel) TableName() string {
	return "loans"
}

// ClubModel GORM读书会模型
type ClubModel struct {
	ID             uint      `gorm:"primaryKey"`
	Name           string    `gorm:"uniqueIndex;size:100;not null;comment:名称"`
	Description    string    `gorm:"type:text;comment:简介"`
	MaxMembers     int       `gorm:"not null;comment:成员人数上限"`
	CurrentMembers int       `gorm:"not null;default:0;comment:当前成员数"`
	CreatedAt      time.Time `gorm:"comment:创建时间"`
	UpdatedAt      time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (ClubModel) TableName() string {
	return "clubs"
}

// ClubMemberModel GORM读书会成员关系模型
// 唯一索引(club_id, member_id)防止重复加入
type ClubMemberModel struct {
	ID       uint      `gorm:"primaryKey"`
	ClubID   uint      `gorm:"uniqueIndex:idx_club_member;not null;comment:读书会ID"`
	MemberID uint      `gorm:"uniqueIndex:idx_club_member;not null;comment:读者ID"`
	JoinedAt time.Time `gorm:"comment:加入时间"`
}

// TableName 指定表名
func (ClubMemberModel) TableName() string {
	return "club_members"
}
