package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	feedPage  int
	feedLimit int
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Fetch your aggregated feed",
	Long: `Fetch a page of your aggregated feed: posts from people you follow,
most liked, most commented and trending posts, merged and deduplicated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showFeed(feedPage, feedLimit)
	},
}

func init() {
	feedCmd.Flags().IntVar(&feedPage, "page", 1, "Page number")
	feedCmd.Flags().IntVar(&feedLimit, "limit", 10, "Posts per page (max 10)")
}

func showFeed(page, limit int) error {
	result, body, err := apiRequest("GET", fmt.Sprintf("/api/v1/posts?page=%d&limit=%d", page, limit))
	if err != nil {
		return err
	}

	if output == "json" {
		fmt.Println(string(body))
		return nil
	}

	data, _ := result["data"].(map[string]interface{})
	if data == nil {
		return fmt.Errorf("unexpected response shape")
	}

	feed, _ := data["feed"].([]interface{})
	for _, entry := range feed {
		post, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		author := "unknown"
		if createdBy, ok := post["createdBy"].(map[string]interface{}); ok {
			if username, ok := createdBy["username"].(string); ok {
				author = username
			}
		}
		likes, _ := post["likes"].([]interface{})
		comments, _ := post["comments"].([]interface{})
		fmt.Printf("@%-20s %s\n", author, post["text"])
		fmt.Printf("  %v likes, %v comments [%v]\n", len(likes), len(comments), post["postType"])
	}

	if pagination, ok := data["pagination"].(map[string]interface{}); ok {
		fmt.Printf("\nPage %v of %v (%v posts total)\n",
			pagination["currentPage"], pagination["totalPages"], pagination["totalPosts"])
	}
	if categories, ok := data["categories"].(map[string]interface{}); ok {
		fmt.Printf("Sources: %v following, %v most liked, %v most commented, %v trending\n",
			categories["following"], categories["mostLiked"],
			categories["mostCommented"], categories["trending"])
	}

	return nil
}
