//go:build wireinject
// +build wireinject

// Wire依赖注入配置
//
// Wire是编译期依赖注入工具:运行 `wire gen ./cmd/api` 生成wire_gen.go,
// main.go即可改调InitializeApp()替代手动组装。
// 与运行时反射注入不同,Wire在编译期生成代码,零运行时开销、类型安全。

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	appbook "github.com/xiebiao/smartlibrary/internal/application/book"
	appclub "github.com/xiebiao/smartlibrary/internal/application/club"
	apploan "github.com/xiebiao/smartlibrary/internal/application/loan"
	appmember "github.com/xiebiao/smartlibrary/internal/application/member"
	appuser "github.com/xiebiao/smartlibrary/internal/application/user"
	"github.com/xiebiao/smartlibrary/internal/domain/book"
	"github.com/xiebiao/smartlibrary/internal/domain/loan"
	"github.com/xiebiao/smartlibrary/internal/domain/member"
	"github.com/xiebiao/smartlibrary/internal/domain/user"
	"github.com/xiebiao/smartlibrary/internal/infrastructure/config"
	"github.com/xiebiao/smartlibrary/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/smartlibrary/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/smartlibrary/internal/interface/http/handler"
	"github.com/xiebiao/smartlibrary/internal/interface/http/middleware"
	"github.com/xiebiao/smartlibrary/pkg/jwt"
	"github.com/xiebiao/smartlibrary/pkg/mq"
	"github.com/xiebiao/smartlibrary/pkg/response"
)

// infrastructureSet 基础设施层:配置、数据库、Redis
var infrastructureSet = wire.NewSet(
	config.Load,
	mysql.NewDB,
	redis.NewClient,
)

// repositorySet 仓储层
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewBookRepository,
	mysql.NewMemberRepository,
	mysql.NewLoanRepository,
	mysql.NewClubRepository,
	mysql.NewTxManager,
	// TxManager以接口形态注入应用层,两个包各自声明了同签名接口
	wire.Bind(new(apploan.TxManager), new(*mysql.TxManager)),
	wire.Bind(new(appclub.TxManager), new(*mysql.TxManager)),
)

// domainSet 领域层:领域服务与策略
var domainSet = wire.NewSet(
	user.NewService,
	book.NewService,
	provideLoanPolicy,
	provideFinePolicy,
)

// applicationSet 应用层用例
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appbook.NewPublishBookUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewListBooksUseCase,
	appmember.NewEnrollUseCase,
	appmember.NewGetMemberUseCase,
	provideCheckoutUseCase,
	apploan.NewReturnUseCase,
	apploan.NewListLoansUseCase,
	appclub.NewCreateClubUseCase,
	appclub.NewJoinClubUseCase,
	appclub.NewLeaveClubUseCase,
	appclub.NewListClubsUseCase,
	provideEventPublisher,
)

// middlewareSet 中间件:JWT、会话、认证
var middlewareSet = wire.NewSet(
	provideJWTManager,
	provideSessionStore,
	provideBookCache,
	middleware.NewAuthMiddleware,
)

// handlerSet 接口层处理器
var handlerSet = wire.NewSet(
	handler.NewUserHandler,
	handler.NewBookHandler,
	handler.NewMemberHandler,
	handler.NewLoanHandler,
	handler.NewClubHandler,
)

// provideJWTManager 从配置提取JWT参数
// jwt.NewManager的参数不是完整Config,Wire无法自动提取,需要手写Provider
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

func provideBookCache(client *goredis.Client) *redis.BookCache {
	return redis.NewBookCache(client)
}

// provideLoanPolicy 借阅上限策略来自配置
func provideLoanPolicy(cfg *config.Config) member.LoanPolicy {
	return member.NewLoanPolicy(cfg.Loan.MaxLoans)
}

// provideFinePolicy 罚款费率来自配置
func provideFinePolicy(cfg *config.Config) loan.FinePolicy {
	return loan.NewFinePolicy(cfg.Loan.FineRatePerDay)
}

// provideEventPublisher 按配置决定是否启用消息队列
// 未启用时返回nil,用例对nil发布器做了保护
func provideEventPublisher(cfg *config.Config) (apploan.EventPublisher, error) {
	if !cfg.MQ.Enabled {
		return nil, nil
	}
	return mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
}

// provideCheckoutUseCase 借出用例的借阅期限是int参数,需要从配置提取
func provideCheckoutUseCase(
	loanRepo loan.Repository,
	bookRepo book.Repository,
	memberRepo member.Repository,
	policy member.LoanPolicy,
	cfg *config.Config,
	txManager apploan.TxManager,
	events apploan.EventPublisher,
) *apploan.CheckoutUseCase {
	return apploan.NewCheckoutUseCase(
		loanRepo, bookRepo, memberRepo,
		policy, cfg.Loan.LoanPeriodDays,
		txManager, events,
	)
}

// provideGinEngine 创建并配置Gin引擎
// 路由注册直接写在这里,避免与main.go的registerRoutes重复定义依赖
func provideGinEngine(
	cfg *config.Config,
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	memberHandler *handler.MemberHandler,
	loanHandler *handler.LoanHandler,
	clubHandler *handler.ClubHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.Metrics())

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		users := v1.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
			users.POST("/logout", authMiddleware.RequireAuth(), userHandler.Logout)
		}

		books := v1.Group("/books")
		{
			books.GET("", bookHandler.ListBooks)
			books.GET("/:id", bookHandler.GetBook)
			books.POST("", authMiddleware.RequireAuth(), authMiddleware.RequireLibrarian(), bookHandler.PublishBook)
		}

		members := v1.Group("/members")
		members.Use(authMiddleware.RequireAuth())
		{
			members.POST("", memberHandler.Enroll)
			members.GET("/me", memberHandler.GetProfile)
			members.GET("/:id", memberHandler.GetMember)
		}

		loans := v1.Group("/loans")
		loans.Use(authMiddleware.RequireAuth(), authMiddleware.RequireLibrarian())
		{
			loans.POST("", loanHandler.Checkout)
			loans.POST("/:id/return", loanHandler.Return)
			loans.GET("", loanHandler.ListActive)
			loans.GET("/overdue", loanHandler.ListOverdue)
		}

		clubs := v1.Group("/clubs")
		{
			clubs.GET("", clubHandler.ListClubs)
			clubs.POST("", authMiddleware.RequireAuth(), authMiddleware.RequireLibrarian(), clubHandler.CreateClub)
			clubs.POST("/:id/join", authMiddleware.RequireAuth(), clubHandler.JoinClub)
			clubs.POST("/:id/leave", authMiddleware.RequireAuth(), clubHandler.LeaveClub)
		}
	}

	return r
}

// InitializeApp 组装整个应用
// wire.Build在编译期分析依赖链,按正确顺序生成构造代码
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		provideGinEngine,
	)

	// 占位返回值,实际由wire_gen.go替代
	return nil, nil
}
