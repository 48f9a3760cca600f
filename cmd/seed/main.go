package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/config"
	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/repository"
	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/seed"
	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/utils"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var tenantID int64

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机用户, 2: 插入随机员工, 3: 插入随机车辆, 4: 插入演示租户数据)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Int64Var(&tenantID, "tenant-id", 0, "目标租户 ID，0 表示使用配置中的默认租户")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if tenantID == 0 {
		tenantID = cfg.Roster.DefaultTenantID
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的用户数量")
			return
		}

		passwordHash, err := bcrypt.GenerateFromPassword([]byte(cfg.Seed.User.Password), bcrypt.DefaultCost)
		if err != nil {
			slog.Error("无法生成密码哈希", slog.String("error", err.Error()))
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			name := utils.GenerateRandomChineseName()
			username := utils.GenerateUsernameFromChineseName(name)

			user := &domain.User{
				Username:     username,
				PasswordHash: string(passwordHash),
				FullName:     name,
				Email:        utils.GenerateRandomEmail(username),
				Role:         domain.RoleDispatcher,
			}
			if err := repo.CreateUser(user); err != nil {
				slog.Error("无法插入用户", slog.String("error", err.Error()))
				continue
			}
			cnt++
		}

		slog.Info("插入用户成功", slog.Int("count", cnt))
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的员工数量")
			return
		}
		seed.SeedRandomEmployees(repo, tenantID, n)
	case 3:
		if n <= 0 {
			slog.Error("请输入合法的车辆数量")
			return
		}
		seed.SeedRandomVehicles(repo, tenantID, n)
	case 4:
		seed.SeedDemoTenant(repo, tenantID, cfg.Roster.DefaultRotationLength, cfg.Roster.DefaultTimeZone)
	default:
		slog.Error("指定的操作非法")
	}
}
