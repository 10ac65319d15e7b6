package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const sampleConfig = `# Name of the game master. The game master has no player record; rolls
# made under this name are not persisted.
game_master_name: GM

# Experience awarded after a check.
experience_earned_after_success: 50
experience_earned_after_failure: 25

# Mastery curve tuning:
# mastery = 100 - 99 * exp(-experience / learning_constant)
# Talents and affinities shrink the learning constant by their percentage.
learning_constant: 334.6
talent_increase_percentage: 0.2
major_affinity_increase_percentage: 0.3
minor_affinity_increase_percentage: 0.15

# Optional CEL expression replacing the default curve. The variables
# 'experience' and 'coefficient' and the function 'exp' are available.
# mastery_expression: "100.0 - 99.0 * exp(-experience / coefficient)"

# Distribution of the d100. 'uniform' or 'normal' (with mean and std_dev).
roll_statistic_law:
  name: uniform
`

const sampleStats = `Physical
    Strength
    Stamina
    Agility
Mental
    Willpower
    Knowledge
Subterfuge
    Discretion
    Pickpocketing
Magic
`

const sampleAffinities = `Physical
    Strength
    Stamina
    Agility
Mental
    Willpower
    Knowledge
Subterfuge
    Discretion
    Pickpocketing
Magic
`

const samplePlayer = `{
  "affinities": {
    "major": [
      "Physical"
    ],
    "minor": [
      "Subterfuge"
    ]
  },
  "name": "Sample Player",
  "stats": {
    "Agility": 0,
    "Discretion": 0,
    "Knowledge": 0,
    "Magic": 0,
    "Pickpocketing": 0,
    "Stamina": 0,
    "Strength": 0,
    "Willpower": 0
  },
  "talents": [
    "Strength"
  ],
  "telegram_name": "sample_player"
}
`

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init [game_dir]",
	Short: "Create a sample game directory",
	Long: `Scaffolds a game directory with a commented config.yaml, a sample stat
tree, a matching affinity tree and one example player record. Edit the
files, then run 'statforge repl' or 'statforge bot' against the directory.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		gameDir := "game"
		if len(args) >= 1 {
			gameDir = args[0]
		}

		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(gameDir); err == nil && !force {
			fmt.Printf("Error: %s already exists (use --force to overwrite)\n", gameDir)
			os.Exit(1)
		}

		files := map[string]string{
			"config.yaml":                sampleConfig,
			"stats.txt":                  sampleStats,
			"affinities.txt":             sampleAffinities,
			"players/sample_player.json": samplePlayer,
		}

		if err := os.MkdirAll(filepath.Join(gameDir, "players"), 0755); err != nil {
			fmt.Printf("Error creating %s: %v\n", gameDir, err)
			os.Exit(1)
		}
		for name, content := range files {
			path := filepath.Join(gameDir, name)
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				fmt.Printf("Error writing %s: %v\n", path, err)
				os.Exit(1)
			}
			fmt.Println("Created", path)
		}

		fmt.Printf("\nGame directory ready. Try:\n  statforge repl %s --player sample_player\n", gameDir)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolP("force", "f", false, "Overwrite existing files")
}
