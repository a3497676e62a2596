package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/wippyai/aspell-go/config"
	"github.com/wippyai/aspell-go/engine"
	"github.com/wippyai/aspell-go/keyinfo"
	"github.com/wippyai/aspell-go/speller"
)

// multiFlag collects repeated string flags.
type multiFlag []string

func (m *multiFlag) String() string     { return strings.Join(*m, ",") }
func (m *multiFlag) Set(v string) error { *m = append(*m, v); return nil }

func main() {
	var (
		configFile  = flag.String("config", "", "Path to TOML config (default "+config.DefaultPath+")")
		libPath     = flag.String("lib", "", "Path to libaspell shared library")
		wasmFile    = flag.String("wasm", "", "Path to wasm32-wasi build of libaspell")
		logLevel    = flag.String("log-level", "", "Log level (debug, info, warn, error)")
		listKeys    = flag.Bool("keys", false, "List configuration keys and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		options     multiFlag
		dirs        multiFlag
	)
	flag.Var(&options, "o", "Engine option key=value (repeatable)")
	flag.Var(&dirs, "dir", "Guest directory mount /host:/guest for -wasm (repeatable)")
	flag.Parse()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fatal(err)
	}
	if *libPath != "" {
		cfg.Library = *libPath
	}
	if *wasmFile != "" {
		cfg.Wasm = *wasmFile
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if err := applyFlags(&cfg, options, dirs); err != nil {
		fatal(err)
	}

	log, err := newLogger(cfg, *interactive)
	if err != nil {
		fatal(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(context.Background(), cfg, log, flag.Args(), *listKeys, *interactive); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.LoadDefault()
	}
	return config.Load(path)
}

// applyFlags appends -o pairs after the file's options so they win.
func applyFlags(cfg *config.Config, options, dirs []string) error {
	for _, o := range options {
		k, v, ok := strings.Cut(o, "=")
		if !ok {
			return fmt.Errorf("option %q: expected key=value", o)
		}
		cfg.Options = append(cfg.Options, []string{k, v})
	}
	for _, d := range dirs {
		host, guest, ok := strings.Cut(d, ":")
		if !ok {
			return fmt.Errorf("dir %q: expected /host:/guest", d)
		}
		if cfg.Dirs == nil {
			cfg.Dirs = make(map[string]string)
		}
		cfg.Dirs[host] = guest
	}
	return nil
}

func newLogger(cfg config.Config, interactive bool) (*zap.Logger, error) {
	lvl, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	// The TUI owns the terminal.
	if interactive && lvl < zapcore.ErrorLevel {
		lvl = zapcore.ErrorLevel
	}

	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.DisableStacktrace = true
	log, err := zc.Build()
	if err != nil {
		return nil, err
	}

	engine.SetLogger(log.Named("engine"))
	speller.SetLogger(log.Named("speller"))
	keyinfo.SetLogger(log.Named("keyinfo"))
	return log, nil
}

func openEngine(ctx context.Context, cfg config.Config) (engine.Loaded, error) {
	if cfg.Wasm != "" {
		data, err := os.ReadFile(cfg.Wasm)
		if err != nil {
			return nil, fmt.Errorf("read wasm: %w", err)
		}
		return engine.OpenWasm(ctx, data, engine.WasmConfig{
			Dirs:             cfg.Dirs,
			Stderr:           os.Stderr,
			MemoryLimitPages: cfg.WasmMemoryPages,
		})
	}

	return engine.OpenShared(cfg.Library)
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger, words []string, listKeys, interactive bool) error {
	opts, err := cfg.SpellerOptions()
	if err != nil {
		return err
	}

	eng, err := openEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer eng.Close(ctx)

	lib := speller.Open(eng, speller.WithLogger(log.Named("library")))
	defer lib.Close()

	if listKeys && len(opts) == 0 {
		keys, err := speller.DefaultConfigKeys(lib)
		if err != nil {
			return err
		}
		fmt.Println(formatKeys(keys))
		return nil
	}

	sp, err := speller.New(lib, opts...)
	if err != nil {
		return err
	}
	defer sp.Release()
	log.Debug("speller ready", zap.String("encoding", sp.Encoding()))

	switch {
	case listKeys:
		keys, err := sp.ConfigKeys()
		if err != nil {
			return err
		}
		fmt.Println(formatKeys(keys))
		return nil
	case interactive:
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("interactive mode needs a terminal")
		}
		return runInteractive(sp)
	case len(words) > 0:
		return checkAll(sp, words, os.Stdout)
	default:
		return checkStream(sp, os.Stdin, os.Stdout)
	}
}

func checkAll(sp *speller.Speller, words []string, w io.Writer) error {
	for _, word := range words {
		line, err := checkWord(sp, word)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

// checkStream checks every whitespace-separated word read from r.
func checkStream(sp *speller.Speller, r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if err := checkAll(sp, strings.Fields(sc.Text()), w); err != nil {
			return err
		}
	}
	return sc.Err()
}
