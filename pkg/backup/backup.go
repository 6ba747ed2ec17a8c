package backup

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/Sharruk/TravelGuard/pkg/errors"
	"github.com/Sharruk/TravelGuard/pkg/logger"
	"github.com/Sharruk/TravelGuard/pkg/scheduler"
	"github.com/Sharruk/TravelGuard/pkg/util"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Config struct {
	Driver   string
	DSN      string
	Dir      string
	Schedule string
}

// Backuper 按驱动类型生成数据库快照
type Backuper struct {
	db  *gorm.DB
	cfg Config
	now func() time.Time
}

func New(db *gorm.DB, cfg Config) *Backuper {
	cfg.Driver = util.DetectDriver(cfg.Driver, cfg.DSN)
	if cfg.Dir == "" {
		cfg.Dir = "backups"
	}
	return &Backuper{db: db, cfg: cfg, now: time.Now}
}

// Start 把备份任务注册到 cron
func (b *Backuper) Start(cr *scheduler.Cron) error {
	schedule := b.cfg.Schedule
	if schedule == "" {
		schedule = "@daily"
	}
	_, err := cr.Add(schedule, scheduler.FuncJob(func(ctx context.Context) {
		dst, err := b.Execute(ctx)
		if err != nil {
			logger.Warn("backup failed", zap.Error(err))
			return
		}
		logger.Info("backup completed", zap.String("file", dst))
	}))
	return err
}

// Execute 执行一次备份，返回生成的文件路径
func (b *Backuper) Execute(ctx context.Context) (string, error) {
	if err := os.MkdirAll(b.cfg.Dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create backup directory")
	}
	stamp := b.now().Format("20060102_150405")

	switch b.cfg.Driver {
	case "sqlite":
		dst := filepath.Join(b.cfg.Dir, fmt.Sprintf("tourist_safety_%s.db", stamp))
		return dst, b.backupSQLite(ctx, dst)
	case "mysql":
		dst := filepath.Join(b.cfg.Dir, fmt.Sprintf("tourist_safety_%s.sql", stamp))
		return dst, backupMySQL(ctx, b.cfg.DSN, dst)
	case "pg":
		dst := filepath.Join(b.cfg.Dir, fmt.Sprintf("tourist_safety_%s.sql", stamp))
		return dst, backupPostgres(ctx, b.cfg.DSN, dst)
	default:
		return "", fmt.Errorf("unsupported DB_DRIVER: %s", b.cfg.Driver)
	}
}

// sqlite 在线快照，不受并发写影响
func (b *Backuper) backupSQLite(ctx context.Context, dst string) error {
	if err := b.db.WithContext(ctx).Exec("VACUUM INTO ?", dst).Error; err != nil {
		return errors.Wrap(err, "sqlite vacuum into")
	}
	return nil
}

func backupMySQL(ctx context.Context, dsn, dst string) error {
	cfg, err := mysql.ParseDSN(strings.TrimPrefix(dsn, "mysql://"))
	if err != nil {
		return errors.Wrap(err, "parse mysql dsn")
	}
	host, port := cfg.Addr, "3306"
	if h, p, err := net.SplitHostPort(cfg.Addr); err == nil {
		host, port = h, p
	}
	args := []string{"-h", host, "-P", port, "-u", cfg.User, "--result-file=" + dst, cfg.DBName}
	cmd := exec.CommandContext(ctx, "mysqldump", args...)
	cmd.Env = append(os.Environ(), "MYSQL_PWD="+cfg.Passwd)
	if out, err := cmd.CombinedOutput(); err != nil {
		return errors.Wrapf(err, "mysqldump: %s", out)
	}
	return nil
}

func backupPostgres(ctx context.Context, dsn, dst string) error {
	if _, err := url.Parse(dsn); err != nil {
		return errors.Wrap(err, "parse postgres dsn")
	}
	cmd := exec.CommandContext(ctx, "pg_dump", "--dbname="+dsn, "--file="+dst)
	if out, err := cmd.CombinedOutput(); err != nil {
		return errors.Wrapf(err, "pg_dump: %s", out)
	}
	return nil
}
