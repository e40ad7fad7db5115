// Package commands implements the hf command tree using Cobra.
package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/petal-labs/hfgo/cli/config"
	"github.com/petal-labs/hfgo/cli/keystore"
	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/hub"
	"github.com/petal-labs/hfgo/inference"
	_ "github.com/petal-labs/hfgo/providers/all"
)

// ConfigLoader loads CLI config from a path.
type ConfigLoader func(path string) (*config.Config, error)

// KeystoreFactory creates a keystore instance.
type KeystoreFactory func() (keystore.Keystore, error)

// AppOption customizes App dependencies.
type AppOption func(*App)

// App holds CLI state and runtime dependencies.
type App struct {
	root *cobra.Command

	loadConfig    ConfigLoader
	newKeystore   KeystoreFactory
	clientOptions []inference.Option
	hubOptions    []hub.Option
	stdin         io.Reader
	stdout        io.Writer
	stderr        io.Writer

	cfgFile     string
	envFile     string
	provider    string
	model       string
	endpointURL string
	token       string
	jsonOutput  bool
	verbose     bool

	cfg    *config.Config
	logger *zap.Logger
}

// WithConfigLoader injects a config loader dependency.
func WithConfigLoader(loader ConfigLoader) AppOption {
	return func(a *App) {
		if loader != nil {
			a.loadConfig = loader
		}
	}
}

// WithKeystoreFactory injects a keystore factory dependency.
func WithKeystoreFactory(factory KeystoreFactory) AppOption {
	return func(a *App) {
		if factory != nil {
			a.newKeystore = factory
		}
	}
}

// WithInferenceOptions appends options to every inference client the CLI
// creates.
func WithInferenceOptions(opts ...inference.Option) AppOption {
	return func(a *App) { a.clientOptions = append(a.clientOptions, opts...) }
}

// WithHubOptions appends options to every Hub client the CLI creates.
func WithHubOptions(opts ...hub.Option) AppOption {
	return func(a *App) { a.hubOptions = append(a.hubOptions, opts...) }
}

// WithIO injects process I/O streams.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) AppOption {
	return func(a *App) {
		if stdin != nil {
			a.stdin = stdin
		}
		if stdout != nil {
			a.stdout = stdout
		}
		if stderr != nil {
			a.stderr = stderr
		}
	}
}

// NewApp creates a new CLI app with default dependencies.
func NewApp(opts ...AppOption) *App {
	a := &App{
		loadConfig:  config.LoadConfig,
		newKeystore: keystore.NewKeystore,
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		logger:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(a)
	}

	a.root = a.newRootCommand()
	return a
}

func (a *App) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "hf",
		Short: "hf - Hugging Face inference from the command line",
		Long: `hf calls models through Hugging Face Inference Providers.

Use hf to chat with models, inspect provider mappings, generate client
snippets, run tool-using agents and serve the Responses API.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	// Global flags available to all commands.
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ~/.hfgo/config.yaml)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file to load if present")
	root.PersistentFlags().StringVar(&a.provider, "provider", "", "inference provider (e.g. together, hf-inference, auto)")
	root.PersistentFlags().StringVar(&a.model, "model", "", "Hub model id (e.g. meta-llama/Llama-3.1-8B-Instruct)")
	root.PersistentFlags().StringVar(&a.endpointURL, "endpoint-url", "", "dedicated inference endpoint URL")
	root.PersistentFlags().StringVar(&a.token, "token", "", "access token (default: keystore, then HF_TOKEN)")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "emit JSON output")
	root.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "enable debug logging")

	root.AddCommand(a.newChatCommand())
	root.AddCommand(a.newGenerateCommand())
	root.AddCommand(a.newSnippetCommand())
	root.AddCommand(a.newProvidersCommand())
	root.AddCommand(a.newModelsCommand())
	root.AddCommand(a.newAgentCommand())
	root.AddCommand(a.newServeCommand())
	root.AddCommand(a.newKeysCommand())
	root.AddCommand(a.newInitCommand())
	root.AddCommand(a.newVersionCommand())

	return root
}

// Execute runs the root command.
func (a *App) Execute() error {
	err := a.root.Execute()
	if err != nil {
		var ee *exitError
		if !errors.As(err, &ee) || !ee.reported {
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
		}
	}
	return err
}

// SetArgs sets the arguments Execute parses.
func (a *App) SetArgs(args []string) {
	a.root.SetArgs(args)
}

func (a *App) initConfig() error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return exitWithCode(ExitValidation, fmt.Errorf("load %s: %w", a.envFile, err))
		}
	}

	path := a.cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg, err := a.loadConfig(path)
	if err != nil {
		return exitWithCode(ExitValidation, fmt.Errorf("load config: %w", err))
	}
	a.cfg = cfg

	// Apply config defaults if flags not set.
	if a.provider == "" && cfg.DefaultProvider != "" {
		a.provider = cfg.DefaultProvider
	}
	if a.model == "" && cfg.DefaultModel != "" {
		a.model = cfg.DefaultModel
	}
	if a.endpointURL == "" && cfg.EndpointURL != "" {
		a.endpointURL = cfg.EndpointURL
	}

	logCfg := cfg.Log
	if a.verbose {
		logCfg.Level = "debug"
	}
	logger, err := core.NewLogger(logCfg)
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}
	a.logger = logger

	return nil
}

var defaultApp = NewApp()

// Execute runs the default app root command.
func Execute() error {
	return defaultApp.Execute()
}
