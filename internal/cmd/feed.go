package cmd

import (
	"github.com/spf13/cobra"
	"github.com/zfogg/socialcommerce/cli/pkg/config"
	"github.com/zfogg/socialcommerce/cli/pkg/service"
)

var (
	feedPage int
	feedUser string
)

func feedService() *service.FeedService {
	return service.NewFeedService(apiClient(), currentSession(), config.GetInt("feed.page_size"))
}

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "View the video feed",
	Long:  "View the home feed, or a user's posts with --user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if feedUser != "" {
			return feedService().ViewUserPosts(cmd.Context(), feedUser, feedPage)
		}
		return feedService().ViewFeed(cmd.Context(), feedPage)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <tag>",
	Short: "Search posts by tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return feedService().SearchPosts(cmd.Context(), args[0], feedPage)
	},
}

func init() {
	feedCmd.Flags().IntVar(&feedPage, "page", 0, "Page number, starting at 0")
	feedCmd.Flags().StringVar(&feedUser, "user", "", "Show this user's posts instead of the home feed")
	searchCmd.Flags().IntVar(&feedPage, "page", 0, "Page number, starting at 0")
}
