package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var followCmd = &cobra.Command{
	Use:   "follow <user-id>",
	Short: "Follow or unfollow a user",
	Long:  "Toggle the follow edge to the given user id: follows when not following, unfollows otherwise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggleFollow(args[0])
	},
}

func toggleFollow(userID string) error {
	result, body, err := apiRequest("PUT", "/api/v1/users/toggle-follow/"+userID)
	if err != nil {
		return err
	}

	if output == "json" {
		fmt.Println(string(body))
		return nil
	}

	if msg, ok := result["message"].(string); ok {
		fmt.Printf("✓ %s\n", msg)
	}
	return nil
}
