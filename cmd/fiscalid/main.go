// Command fiscalid 验证税务标识，或以 HTTP 服务的形式提供验证接口
//
// 用法：
//
//	fiscalid [-config file] [-env file] validate [-kind vat_id] [-country IT] [-json] value...
//	fiscalid [-config file] [-env file] serve [-addr :8080]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/stivlo/obliquid-lib-sub001/internal/server"
	"github.com/stivlo/obliquid-lib-sub001/pkg/config"
	"github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/core"
	"github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/registry"
	"github.com/stivlo/obliquid-lib-sub001/pkg/logging"
)

// 退出码
const (
	exitOK      = 0
	exitInvalid = 1
	exitUsage   = 2
	exitFailure = 3
)

// shutdownTimeout 优雅关闭的超时时间
const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run 解析全局参数、加载配置并分发子命令，返回退出码
func run(args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("fiscalid", flag.ContinueOnError)
	global.SetOutput(stderr)
	configPath := global.String("config", "", "path to a YAML/JSON/TOML config file")
	envFile := global.String("env", "", "dotenv file to load before reading FISCALID_* variables (default .env if present)")
	if err := global.Parse(args); err != nil {
		return exitUsage
	}

	if err := loadEnv(*envFile); err != nil {
		fmt.Fprintf(stderr, "fiscalid: %v\n", err)
		return exitFailure
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "fiscalid: %v\n", err)
		return exitFailure
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(stderr, "fiscalid: %v\n", err)
		return exitFailure
	}
	defer func() { _ = logger.Sync() }()
	restore := logging.ReplaceGlobal(logger)
	defer restore()

	rest := global.Args()
	if len(rest) == 0 {
		fmt.Fprintln(stderr, "usage: fiscalid [-config file] [-env file] <validate|serve> [flags]")
		return exitUsage
	}

	switch rest[0] {
	case "validate":
		return runValidate(rest[1:], cfg, stdout, stderr)
	case "serve":
		return runServe(rest[1:], cfg, logger, stderr)
	default:
		fmt.Fprintf(stderr, "fiscalid: unknown command %q\n", rest[0])
		return exitUsage
	}
}

// loadEnv 加载 dotenv 文件；未显式指定且 .env 不存在时跳过
func loadEnv(path string) error {
	if path == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// cliResult validate 子命令的单条输出
type cliResult struct {
	Value     string `json:"value"`
	Valid     bool   `json:"valid"`
	Validator string `json:"validator"`
	Strength  string `json:"strength"`
}

// runValidate 验证命令行给出的候选值；全部有效返回 exitOK，否则返回 exitInvalid
func runValidate(args []string, cfg *config.Config, stdout, stderr io.Writer) int {
	fset := flag.NewFlagSet("validate", flag.ContinueOnError)
	fset.SetOutput(stderr)
	kindName := fset.String("kind", string(core.KindVATID), "identifier kind: personal_tax_id, vat_id, company_tax_id")
	country := fset.String("country", cfg.DefaultCountry, "ISO 3166-1 alpha-2 country code")
	asJSON := fset.Bool("json", false, "print results as JSON lines")
	if err := fset.Parse(args); err != nil {
		return exitUsage
	}
	if fset.NArg() == 0 {
		fmt.Fprintln(stderr, "usage: fiscalid validate [-kind vat_id] [-country IT] [-json] value...")
		return exitUsage
	}

	kind, err := core.ParseIdentifierKind(*kindName)
	if err != nil {
		fmt.Fprintf(stderr, "fiscalid: %v\n", err)
		return exitUsage
	}

	v, err := registry.Default().Lookup(kind, *country)
	if err != nil {
		fmt.Fprintf(stderr, "fiscalid: %v\n", err)
		return exitUsage
	}

	code := exitOK
	enc := json.NewEncoder(stdout)
	for _, value := range fset.Args() {
		res := cliResult{
			Value:     value,
			Valid:     v.Validate(value),
			Validator: v.Name(),
			Strength:  v.Strength().String(),
		}
		if !res.Valid {
			code = exitInvalid
		}

		if *asJSON {
			if err := enc.Encode(res); err != nil {
				fmt.Fprintf(stderr, "fiscalid: %v\n", err)
				return exitFailure
			}
			continue
		}

		status := "invalid"
		if res.Valid {
			status = "valid"
		}
		fmt.Fprintf(stdout, "%s\t%s\t%s\t%s\n", value, status, res.Validator, res.Strength)
	}
	return code
}

// runServe 启动 HTTP 服务，收到 SIGINT/SIGTERM 后优雅关闭
func runServe(args []string, cfg *config.Config, logger *zap.Logger, stderr io.Writer) int {
	fset := flag.NewFlagSet("serve", flag.ContinueOnError)
	fset.SetOutput(stderr)
	addr := fset.String("addr", cfg.Server.Addr, "listen address")
	if err := fset.Parse(args); err != nil {
		return exitUsage
	}

	// 配置已验证默认国家
	country, _ := core.ParseCountryCode(cfg.DefaultCountry)
	serverCfg := cfg.Server
	serverCfg.Addr = *addr
	srv, err := server.NewServer(serverCfg, country, logger)
	if err != nil {
		logger.Error("failed to create server", zap.Error(err))
		return exitFailure
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", zap.Error(err))
			return exitFailure
		}
		return exitOK
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
		return exitFailure
	}
	return exitOK
}
