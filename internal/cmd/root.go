package cmd

import (
	gfconfig "github.com/fulmenhq/gofulmen/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/starfollow/starfollow/internal/observability"
)

const appName = "starfollow"

var (
	cfgFile string
	verbose bool

	// Version info set by main package
	versionInfo struct {
		Version   string
		Commit    string
		BuildDate string
	}
)

// SetVersionInfo is called by main package to set version information
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Follow the stargazers of a GitHub repository",
	Long: `starfollow enumerates the stargazers of a repository and follows each
one, pacing every call through a local token bucket and backing off when
the API reports an exhausted quota.

Use the subcommands to perform specific operations.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/starfollow/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (sets log level to debug)")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Initialize CLI logger early so we can use it in config loading
	observability.InitCLILogger(appName, verbose)

	if cfgFile != "" {
		// Use config file from flag
		viper.SetConfigFile(cfgFile)
	} else {
		if appConfigDir := gfconfig.GetAppConfigDir(appName); appConfigDir != "" {
			viper.AddConfigPath(appConfigDir)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("STARFOLLOW")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			observability.CLILogger.Debug("Using config file", zap.String("path", viper.ConfigFileUsed()))
		}
	} else if verbose {
		// It's OK if config file doesn't exist, we have defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			observability.CLILogger.Debug("No config file found, using defaults and environment variables")
		} else {
			observability.CLILogger.Warn("Error reading config file", zap.Error(err))
		}
	}

	setDefaults()

	// Honor the configured log level now that defaults and the config file
	// are merged; --verbose still wins.
	observability.ApplyLogLevel(appName, viper.GetString("logging.level"), verbose)
}

// setDefaults sets default configuration values
func setDefaults() {
	// API client defaults
	viper.SetDefault("github.base_url", "https://api.github.com")
	viper.SetDefault("github.timeout", "10s")
	viper.SetDefault("github.user_agent", appName)

	// Token bucket defaults: 5000 permits, full refill once per hour
	viper.SetDefault("bucket.capacity", 5000)
	viper.SetDefault("bucket.refill_window", "1h")

	// Pacing defaults: short pause after success, long after any failure
	viper.SetDefault("pacing.success_pause", "1.5s")
	viper.SetDefault("pacing.failure_pause", "5s")
	viper.SetDefault("pacing.reset_margin", "1s")

	// Pagination defaults
	viper.SetDefault("pager.page_size", 100)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
}
