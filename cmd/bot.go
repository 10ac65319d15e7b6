package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/statforge/statforge/internal/config"
	"github.com/statforge/statforge/internal/logging"
	"github.com/statforge/statforge/internal/session"
	"github.com/statforge/statforge/internal/telegram"
)

var botToken string

// botCmd represents the bot command
var botCmd = &cobra.Command{
	Use:   "bot [game_dir]",
	Short: "Run the Telegram bot for a game directory",
	Long: `Loads the game directory, connects to the Telegram Bot API and serves
roll, dice, summary, ping and help commands until interrupted.

The bot token is taken from --token, the TELEGRAM_TOKEN environment
variable, a .env file, or the telegram_token entry of the config file,
in that order.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		gameDir := resolveGameDir(args)

		token := botToken
		if token == "" {
			token = viper.GetString("telegram_token")
		}
		if token == "" {
			fmt.Println("Error: no Telegram bot token configured.")
			fmt.Println("Run 'statforge token' to register one, or set TELEGRAM_TOKEN.")
			os.Exit(1)
		}

		game, err := config.LoadGame(gameDir)
		if err != nil {
			fmt.Printf("Failed to load game directory %s: %v\n", gameDir, err)
			os.Exit(1)
		}

		runner, err := session.NewRunner(game)
		if err != nil {
			fmt.Printf("Failed to bootstrap game session: %v\n", err)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logging.Info("starting telegram bot", "game_dir", gameDir, "players", game.Players.Len())
		bot := telegram.NewBot(token, runner)
		bot.Start(ctx)
		logging.Info("telegram bot stopped")
	},
}

// tokenCmd represents the token command
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Register the Telegram bot token",
	Run: func(cmd *cobra.Command, args []string) {
		if botToken == "" {
			fmt.Println("---")
			fmt.Println("Create your Telegram Bot & Get Token")
			fmt.Println("Open Telegram and search for the official @BotFather.")
			fmt.Println("Send the /newbot command and follow the prompts to name your bot and choose a unique username.")
			fmt.Println("BotFather will provide you with an HTTP API token, which statforge needs to serve commands.")
			fmt.Println("To use the bot in a group, add it to the group and allow it to read all messages in BotFather's privacy settings.")
			fmt.Println("---")
			fmt.Print("token: ")

			scanner := bufio.NewScanner(os.Stdin)
			if scanner.Scan() {
				botToken = strings.TrimSpace(scanner.Text())
			}
		}

		if botToken != "" {
			viper.Set("telegram_token", botToken)
			err := viper.WriteConfig()
			if err != nil {
				err = viper.SafeWriteConfig()
				if err != nil {
					home, _ := os.UserHomeDir()
					err = viper.WriteConfigAs(home + "/.statforge.yaml")
				}
			}
			if err == nil {
				fmt.Println("Telegram bot token saved successfully.")
			} else {
				fmt.Printf("Error saving configuration: %v\n", err)
			}
		}
	},
}

// resolveGameDir picks the game directory from the positional argument, the
// game_dir config entry, or the working directory.
func resolveGameDir(args []string) string {
	if len(args) >= 1 {
		return args[0]
	}
	if dir := viper.GetString("game_dir"); dir != "" {
		return dir
	}
	dir, err := os.Getwd()
	cobra.CheckErr(err)
	return dir
}

func init() {
	rootCmd.AddCommand(botCmd)
	rootCmd.AddCommand(tokenCmd)

	botCmd.Flags().StringVarP(&botToken, "token", "t", "", "Telegram bot API token")
	tokenCmd.Flags().StringVarP(&botToken, "token", "t", "", "Telegram bot API token")
}
