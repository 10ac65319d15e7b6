package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/statforge/statforge/internal/config"
	"github.com/statforge/statforge/internal/hierarchy"
	"github.com/statforge/statforge/internal/session"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl [game_dir]",
	Short: "Start the interactive REPL shell",
	Long: `Starts a local read-eval-print loop against a game directory, without
Telegram. Stat checks run the same drill-down and persist experience the
same way the bot does.
Usage:
	> roll`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		gameDir := resolveGameDir(args)

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

		identity, _ := cmd.Flags().GetString("player")
		if identity == "" {
			identity = hierarchy.Normalize(game.Config.GameMasterName)
		}

		fmt.Printf("Starting REPL for '%s' as '%s'...\nType 'exit' or 'quit' to leave.\n\n", gameDir, identity)

		if err := RunTUI(runner, identity); err != nil {
			fmt.Printf("Fatal TUI Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().StringP("player", "p", "", "Identity to play as (defaults to the game master)")
}
