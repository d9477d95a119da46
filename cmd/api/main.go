package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
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
	"github.com/xiebiao/smartlibrary/pkg/metrics"
	"github.com/xiebiao/smartlibrary/pkg/mq"
	"github.com/xiebiao/smartlibrary/pkg/response"
	"github.com/xiebiao/smartlibrary/pkg/tracing"
)

// main 主程序入口
// 说明:手动依赖注入,wire.go提供等价的Wire注入配置
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())
	fmt.Printf("  - 借阅上限: %d本 / 期限: %d天 / 罚款: %d分每天\n",
		cfg.Loan.MaxLoans, cfg.Loan.LoanPeriodDays, cfg.Loan.FineRatePerDay)

	// 2. 初始化指标
	metrics.InitMetrics()

	// 3. 初始化链路追踪(可选)
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer("smartlibrary-api", cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatalf("初始化链路追踪失败: %v", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Printf("关闭链路追踪失败: %v", err)
			}
		}()
	}

	// 4. 初始化数据库与Redis连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 5. 初始化消息队列(可选,未配置时借还事件只落库不发布)
	var events apploan.EventPublisher
	if cfg.MQ.Enabled {
		publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
		if err != nil {
			log.Fatalf("初始化消息队列失败: %v", err)
		}
		defer publisher.Close()
		events = publisher
	}

	// 6. 依赖注入(手动组装)
	// 依赖链:Repository ← Service/Policy ← UseCase ← Handler

	// 基础设施层
	userRepo := mysql.NewUserRepository(db)
	bookRepo := mysql.NewBookRepository(db)
	memberRepo := mysql.NewMemberRepository(db)
	loanRepo := mysql.NewLoanRepository(db)
	clubRepo := mysql.NewClubRepository(db)
	txManager := mysql.NewTxManager(db)
	sessionStore := redis.NewSessionStore(redisClient)
	bookCache := redis.NewBookCache(redisClient)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)

	// 领域层
	userService := user.NewService(userRepo)
	bookService := book.NewService(bookRepo)
	loanPolicy := member.NewLoanPolicy(cfg.Loan.MaxLoans)
	finePolicy := loan.NewFinePolicy(cfg.Loan.FineRatePerDay)

	// 应用层
	registerUseCase := appuser.NewRegisterUseCase(userService)
	loginUseCase := appuser.NewLoginUseCase(userService, jwtManager, sessionStore)
	logoutUseCase := appuser.NewLogoutUseCase(sessionStore)
	publishBookUseCase := appbook.NewPublishBookUseCase(bookService, bookCache)
	getBookUseCase := appbook.NewGetBookUseCase(bookService, bookCache)
	listBooksUseCase := appbook.NewListBooksUseCase(bookService)
	enrollUseCase := appmember.NewEnrollUseCase(memberRepo, userRepo)
	getMemberUseCase := appmember.NewGetMemberUseCase(memberRepo)
	checkoutUseCase := apploan.NewCheckoutUseCase(
		loanRepo, bookRepo, memberRepo,
		loanPolicy, cfg.Loan.LoanPeriodDays,
		txManager, events,
	)
	returnUseCase := apploan.NewReturnUseCase(
		loanRepo, bookRepo, memberRepo,
		finePolicy, txManager, events,
	)
	listLoansUseCase := apploan.NewListLoansUseCase(loanRepo, finePolicy)
	createClubUseCase := appclub.NewCreateClubUseCase(clubRepo)
	joinClubUseCase := appclub.NewJoinClubUseCase(clubRepo, memberRepo, txManager)
	leaveClubUseCase := appclub.NewLeaveClubUseCase(clubRepo, txManager)
	listClubsUseCase := appclub.NewListClubsUseCase(clubRepo)

	// 接口层
	userHandler := handler.NewUserHandler(registerUseCase, loginUseCase, logoutUseCase)
	bookHandler := handler.NewBookHandler(publishBookUseCase, getBookUseCase, listBooksUseCase)
	memberHandler := handler.NewMemberHandler(enrollUseCase, getMemberUseCase)
	loanHandler := handler.NewLoanHandler(checkoutUseCase, returnUseCase, listLoansUseCase)
	clubHandler := handler.NewClubHandler(createClubUseCase, joinClubUseCase, leaveClubUseCase, listClubsUseCase, getMemberUseCase)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 7. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.Metrics())

	// 8. 注册路由
	registerRoutes(r, userHandler, bookHandler, memberHandler, loanHandler, clubHandler, authMiddleware)

	// 9. 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	fmt.Printf("\n🚀 服务启动成功！\n")
	fmt.Printf("   访问地址: http://localhost%s\n", addr)
	fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
	fmt.Printf("   API文档: http://localhost%s/swagger/index.html\n", addr)
	fmt.Printf("   指标采集: http://localhost%s/metrics\n", addr)
	fmt.Printf("\n按Ctrl+C停止服务\n\n")

	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务失败: %v", err)
	}
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	memberHandler *handler.MemberHandler,
	loanHandler *handler.LoanHandler,
	clubHandler *handler.ClubHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档(生产环境建议禁用或加访问控制)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		// 用户模块(公开接口)
		users := v1.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
			users.POST("/logout", authMiddleware.RequireAuth(), userHandler.Logout)
		}

		// 图书模块:查询公开,编目仅限馆员
		books := v1.Group("/books")
		{
			books.GET("", bookHandler.ListBooks)
			books.GET("/:id", bookHandler.GetBook)
			books.POST("", authMiddleware.RequireAuth(), authMiddleware.RequireLibrarian(), bookHandler.PublishBook)
		}

		// 读者模块(需要登录)
		members := v1.Group("/members")
		members.Use(authMiddleware.RequireAuth())
		{
			members.POST("", memberHandler.Enroll)
			members.GET("/me", memberHandler.GetProfile)
			members.GET("/:id", memberHandler.GetMember)
		}

		// 借阅模块(仅限馆员)
		loans := v1.Group("/loans")
		loans.Use(authMiddleware.RequireAuth(), authMiddleware.RequireLibrarian())
		{
			loans.POST("", loanHandler.Checkout)
			loans.POST("/:id/return", loanHandler.Return)
			loans.GET("", loanHandler.ListActive)
			loans.GET("/overdue", loanHandler.ListOverdue)
		}

		// 读书会模块:列表公开,创建仅限馆员,加入/退出需要借书证
		clubs := v1.Group("/clubs")
		{
			clubs.GET("", clubHandler.ListClubs)
			clubs.POST("", authMiddleware.RequireAuth(), authMiddleware.RequireLibrarian(), clubHandler.CreateClub)
			clubs.POST("/:id/join", authMiddleware.RequireAuth(), clubHandler.JoinClub)
			clubs.POST("/:id/leave", authMiddleware.RequireAuth(), clubHandler.LeaveClub)
		}
	}
}
