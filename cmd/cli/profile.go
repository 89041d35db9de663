package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile [username]",
	Short: "Show a profile",
	Long:  "Show your own profile, or another user's when a username is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/api/v1/users"
		if len(args) == 1 {
			path += "/" + args[0]
		}
		return showProfile(path)
	},
}

func showProfile(path string) error {
	result, body, err := apiRequest("GET", path)
	if err != nil {
		return err
	}

	if output == "json" {
		fmt.Println(string(body))
		return nil
	}

	user, ok := result["user"].(map[string]interface{})
	if !ok {
		return fmt.Errorf("unexpected response shape")
	}

	fmt.Printf("\nProfile\n")
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	if username, ok := user["username"].(string); ok {
		fmt.Printf("Username:  @%s\n", username)
	}
	if name, ok := user["name"].(string); ok {
		fmt.Printf("Name:      %s\n", name)
	}
	if bio, ok := user["bio"].(string); ok && bio != "" {
		fmt.Printf("Bio:       %s\n", bio)
	}
	if followers, ok := user["followers"].([]interface{}); ok {
		fmt.Printf("Followers: %d\n", len(followers))
	}
	if following, ok := user["following"].([]interface{}); ok {
		fmt.Printf("Following: %d\n", len(following))
	}
	if posts, ok := user["posts"].([]interface{}); ok {
		fmt.Printf("Posts:     %d\n", len(posts))
	}
	fmt.Printf("\n")

	return nil
}
