package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	httpadp "edulend-backend/internal/adapter/http"
	appmw "edulend-backend/internal/adapter/middleware"
	"edulend-backend/internal/adapter/repository/mysql"
	"edulend-backend/internal/config"
	"edulend-backend/internal/domain/access"
	achDomain "edulend-backend/internal/domain/achievement"
	eventDomain "edulend-backend/internal/domain/event"
	loanDomain "edulend-backend/internal/domain/loan"
	poolDomain "edulend-backend/internal/domain/pool"
	studentDomain "edulend-backend/internal/domain/student"
	tokenDomain "edulend-backend/internal/domain/token"
	"edulend-backend/internal/infrastructure/cache"
	"edulend-backend/internal/infrastructure/db"
	achuc "edulend-backend/internal/usecase/achievement"
	"edulend-backend/internal/usecase/lending"
	pooluc "edulend-backend/internal/usecase/pool"
	"edulend-backend/internal/usecase/registry"
	tokenuc "edulend-backend/internal/usecase/token"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	if err := migrate(gdb); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	uow := mysql.NewGormUoW(gdb)
	students := mysql.NewStudentRepository(gdb)
	loans := mysql.NewLoanRepository(gdb)
	poolRepo := mysql.NewPoolRepository(gdb)
	tokens := mysql.NewTokenRepository(gdb)
	achievements := mysql.NewAchievementRepository(gdb)
	accessRepo := mysql.NewAccessRepository(gdb)
	events := mysql.NewEventRepository(gdb)

	// seed the owner allow-list; the owner bootstraps every other role
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := accessRepo.Grant(ctx, access.CapOwner, cfg.OwnerAddress); err != nil {
		cancel()
		log.Fatalf("seed owner: %v", err)
	}
	cancel()

	registryUC := registry.NewUsecase(uow, students)
	tokenUC := tokenuc.NewUsecase(uow, tokens, tokenuc.Config{
		TreasuryAddress:    cfg.TreasuryAddress,
		CollateralRatioBps: cfg.CollateralRatioBps,
		FaucetAmount:       cfg.FaucetAmount,
		Decimals:           cfg.TokenDecimals,
	})
	lendingUC := lending.NewUsecase(uow, loans, cfg.TreasuryAddress)
	poolUC := pooluc.NewUsecase(uow, poolRepo, cfg.TreasuryAddress)
	achievementUC := achuc.NewUsecase(uow, achievements)

	h := httpadp.NewHandler()
	studentH := httpadp.NewStudentHandler(registryUC)
	loanH := httpadp.NewLoanHandler(lendingUC)
	poolH := httpadp.NewPoolHandler(poolUC)
	tokenH := httpadp.NewTokenHandler(tokenUC)
	achievementH := httpadp.NewAchievementHandler(achievementUC)
	eventH := httpadp.NewEventHandler(events)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())
	e.Use(appmw.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))

	// routes
	e.GET("/health", h.Health)

	e.POST("/students/:address/verify", studentH.VerifyStudent)
	e.GET("/students/:address", studentH.GetStudent)
	e.POST("/verifiers", studentH.AddVerifier)

	e.POST("/loans", loanH.RequestLoan)
	e.GET("/loans/:loan_id", loanH.GetLoan)
	e.GET("/loans/:loan_id/owed", loanH.GetTotalOwed)
	e.POST("/loans/:loan_id/fund", loanH.FundLoan)
	e.POST("/loans/:loan_id/repay", loanH.RepayLoan)
	e.POST("/loans/:loan_id/default", loanH.MarkDefaulted)
	e.GET("/students/:address/loans", loanH.GetStudentLoans)

	e.POST("/pool/contributions", poolH.Contribute)
	e.GET("/pool", poolH.GetState)
	e.GET("/pool/lenders/:address", poolH.GetLenderStats)

	e.POST("/collateral/deposits", tokenH.DepositCollateral)
	e.POST("/tokens/:symbol/mint", tokenH.Mint)
	e.POST("/tokens/:symbol/burns", tokenH.Burn)
	e.POST("/tokens/:symbol/transfers", tokenH.Transfer)
	e.POST("/tokens/:symbol/approvals", tokenH.Approve)
	e.POST("/tokens/:symbol/transfers-from", tokenH.TransferFrom)
	e.POST("/tokens/:symbol/minters", tokenH.AddMinter)
	e.POST("/tokens/:symbol/bridges", tokenH.AddBridge)
	e.POST("/tokens/MBTC/faucet", tokenH.Faucet)
	e.GET("/tokens/:symbol", tokenH.TokenInfo)
	e.GET("/tokens/:symbol/balances/:address", tokenH.BalanceOf)

	e.POST("/achievements", achievementH.Mint)
	e.GET("/achievements", achievementH.TotalSupply)
	e.GET("/achievements/:token_id", achievementH.GetAchievement)
	e.GET("/students/:address/achievements", achievementH.GetUserAchievements)

	e.GET("/events", eventH.ListEvents)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

func migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&studentDomain.Student{},
		&loanDomain.Loan{},
		&poolDomain.State{},
		&poolDomain.Position{},
		&tokenDomain.Account{},
		&tokenDomain.Allowance{},
		&tokenDomain.Supply{},
		&achDomain.Achievement{},
		&access.Grant{},
		&eventDomain.Event{},
	)
}
