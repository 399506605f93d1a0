package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"task-tracker/internal/config"
	"task-tracker/internal/logging"
	"task-tracker/internal/repository/sqlstore"
	"task-tracker/internal/services"
	"task-tracker/internal/validation"
)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd        *cobra.Command
	loaderOpts []config.LoaderOption
	config     *config.Config
	log        *logrus.Logger
}

// NewRootCommand creates the root cobra command with global flags. The
// loader options apply to every run.
func NewRootCommand(opts ...config.LoaderOption) *RootCommand {
	root := &RootCommand{loaderOpts: opts}

	root.cmd = &cobra.Command{
		Use:   "tasks",
		Short: "A minimal task tracking web application",
		Long: `Tasks serves a small web application for listing, creating, editing and
deleting tasks, and offers the same store through administrative commands.

EXAMPLES:
  tasks serve                              # Run the web server on 127.0.0.1:8000
  tasks serve --port 9000                  # Run on another port
  tasks migrate                            # Apply pending migrations
  tasks list                               # Print all tasks
  tasks add "Buy milk" -d "two litres"     # Create a task
  tasks delete 3                           # Delete task 3

CONFIGURATION:
  Configuration follows this priority order:
  command-line flags > environment variables > .env file > tasks.yaml > defaults

  Database Configuration:
    TASKS_DB_DRIVER                        sqlite or mysql (default: sqlite)
    TASKS_DB_DIR                           Database directory (default: ~/.tasks)
    TASKS_DB_FILENAME                      Database filename (default: tasks.db)
    TASKS_DB_DSN                           Full data source name, overrides the above
    TASKS_DB_USERNAME, TASKS_DB_PASSWORD   MySQL credentials
    TASKS_DB_ADDRESS, TASKS_DB_NAME        MySQL address and schema
    TASKS_DB_QUERY_TIMEOUT                 Query timeout (default: 10s)
    TASKS_DB_WRITE_TIMEOUT                 Write timeout (default: 5s)

  Server Configuration:
    TASKS_HOST, TASKS_PORT                 Listen address (default: 127.0.0.1:8000)
    TASKS_SERVER_SHUTDOWN_TIMEOUT          Drain period on shutdown (default: 15s)
    TASKS_RATE_LIMIT_ENABLED               Enable rate limiting (default: true)
    TASKS_RATE_LIMIT_RPS                   Requests per second (default: 20)
    TASKS_RATE_LIMIT_BURST                 Burst size (default: 40)
    TASKS_METRICS_ENABLED                  Expose Prometheus metrics (default: true)
    TASKS_METRICS_PATH                     Metrics path (default: /metrics)
    TASKS_CSRF_ENABLED                     Require CSRF tokens on forms (default: true)
    TASKS_CSRF_KEY                         Hex encoded 32 byte token key (default: random)
    TASKS_CSRF_SECURE_COOKIE               Send the CSRF cookie over HTTPS only (default: false)

  Validation Configuration:
    TASKS_VALIDATION_TITLE_MAX             Max title length (default: 200)

  Logging Configuration:
    TASKS_LOG_LEVEL                        Log level (default: info)
    TASKS_LOG_FORMAT                       text or json (default: text)
    TASKS_DEBUG                            Force debug logging when set`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.loadConfig(cmd)
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Command returns the underlying cobra command
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// Execute runs the root command
func (r *RootCommand) Execute(ctx context.Context) error {
	return r.cmd.ExecuteContext(ctx)
}

// SetArgs sets the arguments used instead of os.Args
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// SetOutput redirects command output and errors
func (r *RootCommand) SetOutput(out, errOut io.Writer) {
	r.cmd.SetOut(out)
	r.cmd.SetErr(errOut)
}

// Config returns the configuration resolved for the last run
func (r *RootCommand) Config() *config.Config {
	return r.config
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "Path to a YAML configuration file (default: ./tasks.yaml if present)")

	// Database configuration
	flags.String("db-driver", "", "Database driver, sqlite or mysql (overrides TASKS_DB_DRIVER)")
	flags.String("db-dir", "", "Database directory (overrides TASKS_DB_DIR)")
	flags.String("db-filename", "", "Database filename (overrides TASKS_DB_FILENAME)")
	flags.String("db-dsn", "", "Data source name (overrides TASKS_DB_DSN)")
	flags.Duration("db-query-timeout", 0, "Database query timeout (overrides TASKS_DB_QUERY_TIMEOUT)")
	flags.Duration("db-write-timeout", 0, "Database write timeout (overrides TASKS_DB_WRITE_TIMEOUT)")

	// Server configuration
	flags.String("host", "", "Listen host (overrides TASKS_HOST)")
	flags.Int("port", 0, "Listen port (overrides TASKS_PORT)")

	// Validation configuration
	flags.Int("title-max-length", 0, "Maximum title length (overrides TASKS_VALIDATION_TITLE_MAX)")

	// Logging configuration
	flags.String("log-level", "", "Log level (overrides TASKS_LOG_LEVEL)")
	flags.String("log-format", "", "Log format, text or json (overrides TASKS_LOG_FORMAT)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Long:  "Serve the task pages until interrupted. In-flight requests are drained on SIGINT or SIGTERM.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withServices(cmd, func(store sqlstore.Repository, tasks services.TaskService) error {
				return NewServeCommand(tasks, r.config, r.log).Execute(cmd.Context(), args)
			})
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE:  r.runApp("migrate"),
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all tasks",
		Args:  cobra.NoArgs,
		RunE:  r.runApp("list"),
	}

	addCmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Create a task",
		Long: `Create a task. All arguments are joined to form the title.

Examples:
  tasks add "Write report"
  tasks add Buy milk --description "two litres"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description, _ := cmd.Flags().GetString("description")
			return r.withServices(cmd, func(store sqlstore.Repository, tasks services.TaskService) error {
				app := NewAppWithOutput(store, tasks, cmd.OutOrStdout())
				return NewAddCommand(app, description).Execute(cmd.Context(), args)
			})
		},
	}
	addCmd.Flags().StringP("description", "d", "", "Task description")

	deleteCmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a task",
		Long:  "Delete a task by id. This operation cannot be undone.",
		Args:  cobra.ExactArgs(1),
		RunE:  r.runApp("delete"),
	}

	r.cmd.AddCommand(
		serveCmd,
		migrateCmd,
		listCmd,
		addCmd,
		deleteCmd,
	)
}

// runApp dispatches a subcommand through the App registry
func (r *RootCommand) runApp(name string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return r.withServices(cmd, func(store sqlstore.Repository, tasks services.TaskService) error {
			app := NewAppWithOutput(store, tasks, cmd.OutOrStdout())
			return app.Run(cmd.Context(), append([]string{name}, args...))
		})
	}
}

// withServices opens the configured store for the duration of fn
func (r *RootCommand) withServices(cmd *cobra.Command, fn func(sqlstore.Repository, services.TaskService) error) error {
	if r.config == nil {
		return fmt.Errorf("configuration not initialized")
	}

	ctx := cmd.Context()
	factory := config.NewRepositoryFactory(config.GetEnvironment(), r.config)
	store, err := factory.CreateRepository(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	r.log.WithFields(logrus.Fields{
		"driver": r.config.Database.Driver,
	}).Debug("store opened")

	validator := validation.NewTaskValidatorWithLimits(r.config.Validation.TitleMaxLength)
	container := services.NewServiceContainer(store, validator)
	return fn(store, container.TaskService)
}

// loadConfig resolves the configuration cascade and builds the logger
func (r *RootCommand) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.NewLoader(r.loaderOpts...).LoadWithOverrides(overridesFromFlags(cmd.Flags()))
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	r.config = cfg
	r.log = logging.NewWithOutput(cfg.Logging, cmd.ErrOrStderr())
	return nil
}

// overridesFromFlags returns an override for every flag set on the command line
func overridesFromFlags(flags *pflag.FlagSet) *config.ConfigOverrides {
	overrides := &config.ConfigOverrides{}

	stringFlag := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}

	overrides.ConfigFile = stringFlag("config")
	overrides.DBDriver = stringFlag("db-driver")
	overrides.DBDir = stringFlag("db-dir")
	overrides.DBFilename = stringFlag("db-filename")
	overrides.DBDSN = stringFlag("db-dsn")
	overrides.Host = stringFlag("host")
	overrides.LogLevel = stringFlag("log-level")
	overrides.LogFormat = stringFlag("log-format")

	if flags.Changed("db-query-timeout") {
		v, _ := flags.GetDuration("db-query-timeout")
		overrides.DBQueryTimeout = &v
	}
	if flags.Changed("db-write-timeout") {
		v, _ := flags.GetDuration("db-write-timeout")
		overrides.DBWriteTimeout = &v
	}
	if flags.Changed("port") {
		v, _ := flags.GetInt("port")
		overrides.Port = &v
	}
	if flags.Changed("title-max-length") {
		v, _ := flags.GetInt("title-max-length")
		overrides.TitleMaxLength = &v
	}

	return overrides
}
