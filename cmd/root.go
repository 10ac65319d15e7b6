package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/statforge/statforge/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "statforge",
	Short: "A chat assistant for tabletop role-playing sessions",
	Long: `statforge keeps track of player stats, affinities and talents for a
tabletop role-playing game, runs interactive stat checks over Telegram or a
local shell, and awards experience after every roll.

A game lives in a directory holding config.yaml, stats.txt, affinities.txt
and a players/ directory with one JSON record per player.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.statforge.yaml)")
	rootCmd.PersistentFlags().String("log_level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log_file", "", "optional log file, rotated automatically")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log_level"))
	viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log_file"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".statforge")
	}

	// A .env file next to the binary can hold the bot token, the same way
	// the environment variable TELEGRAM_TOKEN can.
	_ = godotenv.Load()

	viper.SetEnvPrefix("statforge")
	viper.AutomaticEnv()
	viper.BindEnv("telegram_token", "TELEGRAM_TOKEN")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	logging.Initialize(logging.Config{
		Level:    viper.GetString("log_level"),
		FilePath: viper.GetString("log_file"),
	})
}
