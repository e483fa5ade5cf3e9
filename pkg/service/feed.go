package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/zfogg/socialcommerce/cli/pkg/api"
	"github.com/zfogg/socialcommerce/cli/pkg/feed"
	"github.com/zfogg/socialcommerce/cli/pkg/formatter"
	"github.com/zfogg/socialcommerce/cli/pkg/logger"
	"github.com/zfogg/socialcommerce/cli/pkg/output"
	"github.com/zfogg/socialcommerce/cli/pkg/session"
)

// FeedService provides feed-related operations
type FeedService struct {
	api      *api.Client
	sess     *session.Session
	pageSize int
}

// NewFeedService creates a new feed service
func NewFeedService(c *api.Client, sess *session.Session, pageSize int) *FeedService {
	if pageSize <= 0 {
		pageSize = feed.DefaultPageSize
	}
	return &FeedService{api: c, sess: sess, pageSize: pageSize}
}

func (fs *FeedService) timeline(fetch feed.FetchFunc[api.Post]) *feed.Timeline {
	return feed.NewTimeline(feed.NewPaginator(fetch, fs.pageSize), fs.api)
}

// ViewFeed displays one page of the home feed
func (fs *FeedService) ViewFeed(ctx context.Context, page int) error {
	logger.Debug("Viewing feed", "page", page)

	tl := fs.timeline(fs.api.ListPosts)
	posts, err := tl.Load(ctx, page)
	if err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}
	if len(posts) == 0 {
		printf("No posts yet.\n")
		return nil
	}
	return displayPosts("Feed", posts, page, tl.HasMore())
}

// ViewUserPosts displays one page of a user's posts
func (fs *FeedService) ViewUserPosts(ctx context.Context, userID string, page int) error {
	logger.Debug("Viewing user posts", "user_id", userID, "page", page)

	tl := fs.timeline(func(ctx context.Context, pageSize, pageNumber int) ([]api.Post, error) {
		return fs.api.ListUserPosts(ctx, userID, pageSize, pageNumber)
	})
	posts, err := tl.Load(ctx, page)
	if err != nil {
		return fmt.Errorf("failed to fetch posts: %w", err)
	}
	if len(posts) == 0 {
		printf("No posts from this user.\n")
		return nil
	}
	return displayPosts("Posts", posts, page, tl.HasMore())
}

// SearchPosts searches posts by tag
func (fs *FeedService) SearchPosts(ctx context.Context, tag string, page int) error {
	tag = strings.TrimSpace(tag)
	logger.Debug("Searching posts", "tag", tag)

	tl := fs.timeline(func(ctx context.Context, pageSize, pageNumber int) ([]api.Post, error) {
		return fs.api.SearchPosts(ctx, tag, pageSize, pageNumber)
	})
	posts, err := tl.Load(ctx, page)
	if err != nil {
		return fmt.Errorf("failed to search posts: %w", err)
	}
	if len(posts) == 0 {
		printf("No posts found for \"%s\"\n", tag)
		return nil
	}
	return displayPosts(fmt.Sprintf("Search results for \"%s\"", tag), posts, page, tl.HasMore())
}

// ToggleLike likes or unlikes a post
func (fs *FeedService) ToggleLike(ctx context.Context, postID int64) error {
	if err := requireSession(fs.sess); err != nil {
		return err
	}

	post, err := fs.timeline(fs.api.ListPosts).ToggleLike(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to like post: %w", err)
	}

	if output.IsJSON() {
		return output.Print("", post)
	}
	// the backend did not echo the post
	if post.UserID == "" {
		output.PrintSuccess("Toggled like on post %d", postID)
		return nil
	}
	verb := "Unliked"
	if post.Liked {
		verb = "Liked"
	}
	output.PrintSuccess("%s post %d (%d like%s)", verb, postID, post.Likes, pluralize(post.Likes))
	return nil
}

// Comment adds a comment to a post
func (fs *FeedService) Comment(ctx context.Context, postID int64, text string) error {
	if err := requireSession(fs.sess); err != nil {
		return err
	}

	comment, err := fs.timeline(fs.api.ListPosts).AddComment(ctx, postID, text)
	if err != nil {
		return fmt.Errorf("failed to comment: %w", err)
	}

	if output.IsJSON() {
		return output.Print("", comment)
	}
	output.PrintSuccess("Comment posted on post %d", postID)
	return nil
}

// CreatePost uploads a video with tagged products
func (fs *FeedService) CreatePost(ctx context.Context, req api.CreatePostRequest) error {
	if err := requireSession(fs.sess); err != nil {
		return err
	}
	logger.Debug("Creating post", "video", req.VideoPath, "products", len(req.ProductIDs))

	post, err := fs.api.CreatePost(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	if output.IsJSON() {
		return output.Print("", post)
	}
	output.PrintSuccess("Post %d created", post.PostID)
	return nil
}

func displayPosts(title string, posts []api.Post, page int, hasMore bool) error {
	if output.IsJSON() {
		return output.Print("", posts)
	}

	formatter.Bold.Fprintf(output.Writer(), "%s (page %d)\n\n", title, page)
	for _, p := range posts {
		displayPost(p)
	}
	if hasMore {
		printf("More posts: --page %d\n", page+1)
	}
	return nil
}

func displayPost(p api.Post) {
	w := output.Writer()
	formatter.Bold.Fprintf(w, "#%d ", p.PostID)
	printf("%s", formatter.OrDash(p.FullName))
	if ago := formatter.TimeAgoString(p.CreatedAt); ago != "" {
		formatter.Faint.Fprintf(w, " · %s", ago)
	}
	printf("\n")

	if p.Caption != "" {
		printf("  %s\n", formatter.Truncate(p.Caption, 120))
	}

	heart := "♡"
	if p.Liked {
		heart = "♥"
	}
	printf("  %s %d  💬 %d\n", heart, p.Likes, len(p.Comments))

	for _, prod := range p.Products {
		printf("  🛍  %s %s  (id %s)\n", prod.Name, formatter.Price.Sprint(formatter.Money(prod.Amount)), strconv.FormatInt(prod.ID, 10))
	}
	if p.ContentURL != "" {
		formatter.Faint.Fprintf(w, "  %s\n", p.ContentURL)
	}
	printf("\n")
}
