package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/stesla/quagmire/internal/config"
	"github.com/stesla/quagmire/internal/display"
	"github.com/stesla/quagmire/internal/telnet"
	"github.com/stesla/quagmire/internal/tty"
)

const (
	exitFailure = 1
	exitUsage   = 64 // EX_USAGE
)

const usageLine = "Usage: quagmire [flags] <host> <port>"

var (
	configPath = flag.String("config", getEnvDefault("QUAGMIRE_CONFIG", defaultConfigPath()), "macro configuration file")
	charset    = flag.String("charset", getEnvDefault("QUAGMIRE_CHARSET", "US-ASCII"), "character set the server sends")
	logLevel   = flag.String("log-level", getEnvDefault("QUAGMIRE_LOG_LEVEL", "warn"), "minimum level to log")
	logFile    = flag.String("log-file", "", "log to this file instead of stderr")
)

func main() {
	os.Exit(run())
}

func run() int {
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), usageLine)
		flag.PrintDefaults()
	}
	flag.Parse()

	host, port, err := parseArgs(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, usageLine)
		return exitUsage
	}

	logger, logCloser, err := newLogger(*logLevel, *logFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	defer logCloser.Close()

	cfg, err := config.Load(*configPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || configExplicit() {
			logger.Error().Err(err).Str("path", *configPath).Msg("loading config")
			fmt.Fprintln(os.Stderr, err)
			return exitFailure
		}
		cfg = &config.Config{}
	}

	out, err := display.New(os.Stdout, *charset)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	echo, err := tty.New(os.Stdin)
	if err != nil {
		logger.Warn().Err(err).Msg("local echo control unavailable")
		echo = tty.Nop{}
	}
	defer echo.Close()
	_, isNop := echo.(tty.Nop)
	logger.Debug().Bool("tty", !isNop).Msg("terminal")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	inputs := make(chan input)
	go readInput(os.Stdin, inputs, logger)

	addr := net.JoinHostPort(host, strconv.Itoa(int(port)))
	conn, err := telnet.Dial(ctx, host, port, logger.With().Str("server", addr).Logger())
	if err != nil {
		logger.Error().Err(err).Str("server", addr).Msg("connection error")
		fmt.Fprintln(os.Stderr, "connection error:", err)
		return exitFailure
	}
	logger.Debug().Str("server", conn.RemoteAddr().String()).Msg("connected")

	newSession(conn, echo, cfg, out, logger).run(ctx, inputs)
	return 0
}

func parseArgs(args []string) (host string, port uint16, err error) {
	if len(args) != 2 {
		return "", 0, errors.New("expected host and port")
	}
	p, err := strconv.ParseUint(args[1], 10, 16)
	if err != nil {
		return "", 0, err
	}
	return args[0], uint16(p), nil
}

func configExplicit() (explicit bool) {
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicit = true
		}
	})
	return explicit || os.Getenv("QUAGMIRE_CONFIG") != ""
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".quagmire.toml"
	}
	return filepath.Join(home, ".quagmire.toml")
}

func getEnvDefault(name, defaultValue string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return defaultValue
}
