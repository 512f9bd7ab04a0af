package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/RichardMcSorley/aisle"
	"github.com/RichardMcSorley/aisle/fs"
	"github.com/RichardMcSorley/aisle/sqlite"
	"github.com/RichardMcSorley/aisle/viper"
	"github.com/alecthomas/kong"
)

func main() {
	// A first interrupt cancels the running discovery; results collected so
	// far are still saved. A second interrupt kills the process.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database and config paths. Set before calling Run().
	DBPath     string
	ConfigPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	RunService     aisle.RunService
	ProductService aisle.ProductService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:     defaultDBPath(),
		ConfigPath: defaultConfigPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: slog.New(slog.NewTextHandler(stderr, nil)),
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("aisle"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'aisle --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set AISLE_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	// Wire core services into dependencies
	m.RunService = sqlite.NewRunService(m.DB)
	m.ProductService = sqlite.NewProductService(m.DB)
	deps.DB = m.DB
	deps.Runs = m.RunService
	deps.Products = m.ProductService

	// Profiles are only needed for discovery; the stored-run commands must
	// keep working when the config file has moved or gone.
	switch cmd {
	case "discover":
		cfg, err := viper.Load(m.ConfigPath)
		if err != nil {
			fmt.Fprintf(stderr, "Hint: Set AISLE_CONFIG to use a different config path\n")
			return fmt.Errorf("failed to load config at %q: %w", m.ConfigPath, err)
		}
		deps.Config = cfg
	case "export":
		// Exports honor the configured output dir when the config file is
		// still around, and fall back to the default otherwise.
		if cfg, err := viper.Load(m.ConfigPath); err == nil {
			deps.Config = cfg
		} else {
			deps.Config = viper.DefaultConfig()
		}
	default:
		deps.Config = viper.DefaultConfig()
	}
	deps.Writer = fs.NewWriter(deps.Config.OutputDir)

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("AISLE_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "aisle.db"
	}
	dir := filepath.Join(home, ".aisle")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "aisle.db")
}

func defaultConfigPath() string {
	if path := os.Getenv("AISLE_CONFIG"); path != "" {
		return path
	}
	return "aisle.yaml"
}
