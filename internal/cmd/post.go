package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/zfogg/socialcommerce/cli/pkg/api"
)

var (
	postVideo    string
	postCaption  string
	postProducts []int64
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Post commands",
	Long:  "Create posts, like them and comment on them",
}

func parsePostID(s string) (int64, error) {
	return parseID("post", s)
}

var postCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Upload a video post with tagged products",
	RunE: func(cmd *cobra.Command, args []string) error {
		return feedService().CreatePost(cmd.Context(), api.CreatePostRequest{
			VideoPath:  postVideo,
			Caption:    postCaption,
			ProductIDs: postProducts,
		})
	},
}

var postLikeCmd = &cobra.Command{
	Use:   "like <post-id>",
	Short: "Like or unlike a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parsePostID(args[0])
		if err != nil {
			return err
		}
		return feedService().ToggleLike(cmd.Context(), id)
	},
}

var postCommentCmd = &cobra.Command{
	Use:   "comment <post-id> <text...>",
	Short: "Comment on a post",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parsePostID(args[0])
		if err != nil {
			return err
		}
		return feedService().Comment(cmd.Context(), id, strings.Join(args[1:], " "))
	},
}

func init() {
	postCreateCmd.Flags().StringVar(&postVideo, "video", "", "Path to the video file")
	postCreateCmd.Flags().StringVar(&postCaption, "caption", "", "Caption")
	postCreateCmd.Flags().Int64SliceVar(&postProducts, "product", nil, "Tagged product id (repeatable)")
	_ = postCreateCmd.MarkFlagRequired("video")

	postCmd.AddCommand(postCreateCmd)
	postCmd.AddCommand(postLikeCmd)
	postCmd.AddCommand(postCommentCmd)
}
