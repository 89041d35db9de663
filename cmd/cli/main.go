package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	authToken string
	apiURL    string = "http://localhost:8686"
	output    string = "text" // "text" or "json"
)

var rootCmd = &cobra.Command{
	Use:   "friendsnet",
	Short: "Friendsnet CLI - Browse your feed and manage your account",
	Long: `Friendsnet CLI provides command-line access to your Friendsnet account.
Browse your aggregated feed, inspect profiles, and manage follows.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if authToken == "" {
			authToken = os.Getenv("FRIENDSNET_TOKEN")
		}
		if authToken == "" && cmd.Name() != "help" && cmd.Parent() != nil {
			fmt.Fprintf(os.Stderr, "Error: FRIENDSNET_TOKEN environment variable not set\n")
			fmt.Fprintf(os.Stderr, "Please set your auth token: export FRIENDSNET_TOKEN=<your-token>\n")
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "Authentication token (defaults to FRIENDSNET_TOKEN env var)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", apiURL, "API server URL")
	rootCmd.PersistentFlags().StringVar(&output, "output", output, "Output format: text or json")

	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(followCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
