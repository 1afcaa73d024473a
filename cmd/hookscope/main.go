package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/mattjoyce/hookscope/internal/config"
	"github.com/mattjoyce/hookscope/internal/log"
	"github.com/mattjoyce/hookscope/internal/report"
	"github.com/mattjoyce/hookscope/internal/signature"
	"github.com/mattjoyce/hookscope/internal/webhook"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		return runServeWithSignals(args, stdout, stderr)
	}

	cmd := args[0]
	switch {
	case isHelpToken(cmd):
		printUsage(stdout)
		return 0
	case cmd == "serve":
		return runServeWithSignals(args[1:], stdout, stderr)
	case cmd == "sign":
		return runSign(args[1:], stdin, stdout, stderr)
	case cmd == "check":
		return runCheck(args[1:], stdout, stderr)
	case cmd == "version":
		fmt.Fprintf(stdout, "hookscope version %s\n", version)
		return 0
	case len(cmd) > 0 && cmd[0] == '-':
		// Bare flags mean serve, as in "hookscope -s secret -p 8080".
		return runServeWithSignals(args, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", cmd)
		printUsage(stderr)
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `hookscope - Inspect and verify inbound webhooks

Usage:
  hookscope [serve] [flags]

Commands:
  serve             Accept webhooks on every path and print each request (default)
  sign [file|-]     Print the sha256=<hex> signature for a body
  check             Validate configuration and print the effective settings
                    (--expect-fingerprint <hex> pins the config file digest)
  version           Show version information
  help              Show this help message

Serve Flags:
  -s, --secret             HMAC-SHA256 verification secret (default sk_prod_123456)
  -p, --port               Listening port (default 3000)
      --listen-host        Interface to bind (default 0.0.0.0)
      --signature-header   Header carrying sha256=<hex> (default X-Super-Signature)
      --max-body-size      Largest accepted body, e.g. 1MB (default 10MB)
      --color              auto, always or never
      --log-level          debug, info, warn or error
      --log-format         text or json
      --config             Path to a YAML configuration file or directory

Environment variables HOOKSCOPE_SECRET, HOOKSCOPE_PORT, ... override the
config file; flags override both.
`)
}

func isHelpToken(token string) bool {
	return token == "help" || token == "--help" || token == "-h"
}

// configFlags are the flags shared by every command that loads configuration.
type configFlags struct {
	path      string
	secret    string
	port      uint
	host      string
	header    string
	maxBody   config.ByteSize
	color     string
	logLevel  string
	logFormat string
}

func bindConfigFlags(fs *flag.FlagSet) *configFlags {
	f := &configFlags{maxBody: config.DefaultMaxBody}
	fs.StringVar(&f.path, "config", "", "Path to configuration file or directory")
	fs.StringVar(&f.secret, "secret", config.DefaultSecret, "HMAC-SHA256 verification secret")
	fs.StringVar(&f.secret, "s", config.DefaultSecret, "Shorthand for --secret")
	fs.UintVar(&f.port, "port", config.DefaultPort, "Listening port")
	fs.UintVar(&f.port, "p", config.DefaultPort, "Shorthand for --port")
	fs.StringVar(&f.host, "listen-host", config.DefaultHost, "Interface to bind")
	fs.StringVar(&f.header, "signature-header", config.DefaultHeader, "Header carrying the signature")
	fs.Var(&f.maxBody, "max-body-size", "Largest accepted request body (e.g. 1MB)")
	fs.StringVar(&f.color, "color", config.DefaultColor, "Console colors: auto, always, never")
	fs.StringVar(&f.logLevel, "log-level", config.DefaultLogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", config.DefaultLogFormat, "Log format: text, json")
	return f
}

// load builds the configuration, applying only the flags given explicitly so
// that file and environment values are not clobbered by flag defaults.
func (f *configFlags) load(fs *flag.FlagSet) (config.Config, error) {
	var o config.Overrides
	var portErr error

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "secret", "s":
			o.Secret = &f.secret
		case "port", "p":
			if f.port > math.MaxUint16 {
				portErr = fmt.Errorf("port %d out of range", f.port)
				return
			}
			p := uint16(f.port)
			o.Port = &p
		case "listen-host":
			o.Host = &f.host
		case "signature-header":
			o.SignatureHeader = &f.header
		case "max-body-size":
			o.MaxBodySize = &f.maxBody
		case "color":
			o.Color = &f.color
		case "log-level":
			o.LogLevel = &f.logLevel
		case "log-format":
			o.LogFormat = &f.logFormat
		}
	})
	if portErr != nil {
		return config.Config{}, portErr
	}

	return config.Load(f.path, o)
}

func parseFlags(fs *flag.FlagSet, args []string) (done bool, code int) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return true, 0
		}
		fmt.Fprintf(fs.Output(), "Failed to parse flags: %v\n", err)
		return true, 1
	}
	return false, 0
}

func runServeWithSignals(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return runServe(ctx, args, stdout, stderr)
}

func runServe(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cf := bindConfigFlags(fs)
	if done, code := parseFlags(fs, args); done {
		return code
	}

	cfg, err := cf.load(fs)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log.Setup(cfg.LogLevel, cfg.LogFormat, stderr)
	logger := log.WithComponent("main")
	logger.Info("hookscope starting", "version", version, "config", cfg.Source, "fingerprint", cfg.Fingerprint)

	theme, err := report.NewTheme(stdout, cfg.Color)
	if err != nil {
		logger.Error("invalid color mode", "color", cfg.Color, "error", err)
		return 1
	}

	sink := report.NewStreamSink(stdout)
	if err := sink.Write(report.Banner(startupInfo(cfg))); err != nil {
		logger.Error("failed to print startup banner", "error", err)
		return 1
	}

	wc := webhook.FromConfig(cfg)
	webhookLogger := log.WithComponent("webhook")
	handler := webhook.NewHandler(wc, report.NewFormatter(theme), sink, webhookLogger)
	server := webhook.New(wc, handler, webhookLogger)

	if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("webhook server stopped", "error", err)
		return 1
	}

	logger.Info("hookscope stopped")
	return 0
}

func startupInfo(cfg config.Config) report.StartupInfo {
	return report.StartupInfo{
		Secret:          cfg.Secret,
		Port:            cfg.Port,
		Listen:          cfg.Addr(),
		SignatureHeader: cfg.SignatureHeader,
		MaxBodySize:     cfg.MaxBodySize.Bytes(),
		ConfigSource:    cfg.Source,
	}
}

func runSign(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sign", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cf := bindConfigFlags(fs)
	if done, code := parseFlags(fs, args); done {
		return code
	}

	cfg, err := cf.load(fs)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return 1
	}

	var body []byte
	switch path := fs.Arg(0); path {
	case "", "-":
		body, err = io.ReadAll(stdin)
	default:
		body, err = os.ReadFile(path)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Failed to read body: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, signature.FormatHeader(signature.ComputeDigest(cfg.SecretBytes(), body)))
	return 0
}

func runCheck(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cf := bindConfigFlags(fs)
	expect := fs.String("expect-fingerprint", "", "Fail unless the config file has this BLAKE3 digest")
	if done, code := parseFlags(fs, args); done {
		return code
	}

	cfg, err := cf.load(fs)
	if err != nil {
		fmt.Fprintf(stderr, "Configuration invalid: %v\n", err)
		return 1
	}

	if *expect != "" {
		if cfg.Source == "" {
			fmt.Fprintln(stderr, "Configuration invalid: --expect-fingerprint requires --config")
			return 1
		}
		if err := config.VerifyFingerprint(cfg.Source, strings.TrimPrefix(*expect, "blake3:")); err != nil {
			fmt.Fprintf(stderr, "Configuration invalid: %v\n", err)
			return 1
		}
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to render config: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, "Configuration OK")
	if cfg.Source != "" {
		fmt.Fprintf(stdout, "Source: %s\n", cfg.Source)
		fmt.Fprintf(stdout, "Fingerprint: blake3:%s\n", cfg.Fingerprint)
	}
	fmt.Fprintf(stdout, "Listen: %s\n\n", cfg.Addr())
	fmt.Fprint(stdout, string(out))
	return 0
}
