package api

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	json "github.com/json-iterator/go"
	"github.com/zfogg/socialcommerce/cli/pkg/logger"
)

func pageParams(pageSize, pageNumber int) map[string]string {
	return map[string]string{
		"pageSize":   strconv.Itoa(pageSize),
		"pageNumber": strconv.Itoa(pageNumber),
	}
}

func decodePosts(body []byte, source string) ([]Post, error) {
	var posts []Post
	if err := json.Unmarshal(body, &posts); err != nil {
		return nil, fmt.Errorf("decode %s: %w", source, err)
	}
	for i := range posts {
		if posts[i].PostID == 0 {
			logger.Warn("Post is missing postId", "source", source, "index", i)
		}
		posts[i].Products = normalizeProducts(posts[i].Products, source)
	}
	return posts, nil
}

// ListPosts returns one page of the home feed
func (c *Client) ListPosts(ctx context.Context, pageSize, pageNumber int) ([]Post, error) {
	logger.Debug("Fetching posts", "page", pageNumber, "page_size", pageSize)

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(pageParams(pageSize, pageNumber)).
		Get("/posts")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return decodePosts(resp.Body(), "posts")
}

// ListUserPosts returns one page of a user's posts
func (c *Client) ListUserPosts(ctx context.Context, userID string, pageSize, pageNumber int) ([]Post, error) {
	logger.Debug("Fetching user posts", "user_id", userID, "page", pageNumber)

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("userId", userID).
		SetQueryParams(pageParams(pageSize, pageNumber)).
		Get("/posts/{userId}")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return decodePosts(resp.Body(), "user posts")
}

// SearchPosts finds posts by tag
func (c *Client) SearchPosts(ctx context.Context, tag string, pageSize, pageNumber int) ([]Post, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, fmt.Errorf("search tag is required")
	}

	logger.Debug("Searching posts", "tag", tag, "page", pageNumber)

	params := pageParams(pageSize, pageNumber)
	params["tag"] = tag

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("/posts/search")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return decodePosts(resp.Body(), "search")
}

// CreatePost uploads a video tagged with products
func (c *Client) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	if req.VideoPath == "" {
		return nil, fmt.Errorf("video file is required")
	}

	ids := req.ProductIDs
	if ids == nil {
		ids = []int64{}
	}
	productIDs, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}

	logger.Debug("Creating post", "caption", req.Caption, "product_ids", string(productIDs))

	resp, err := c.http.R().
		SetContext(ctx).
		SetFile("content", req.VideoPath).
		SetMultipartFormData(map[string]string{
			"caption":    req.Caption,
			"productIds": string(productIDs),
		}).
		Post("/posts")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var post Post
	if err := json.Unmarshal(resp.Body(), &post); err != nil {
		return nil, fmt.Errorf("decode post: %w", err)
	}
	post.Products = normalizeProducts(post.Products, "create post")
	return &post, nil
}

// LikePost toggles the caller's like. The updated post is returned when the
// backend echoes one, nil otherwise.
func (c *Client) LikePost(ctx context.Context, postID int64) (*Post, error) {
	logger.Debug("Toggling like", "post_id", postID)

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("postId", strconv.FormatInt(postID, 10)).
		Put("/posts/like/{postId}")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var post Post
	if err := json.Unmarshal(resp.Body(), &post); err != nil || post.PostID != postID {
		return nil, nil
	}
	post.Products = normalizeProducts(post.Products, "like")
	return &post, nil
}

// CommentOnPost adds a comment and returns it
func (c *Client) CommentOnPost(ctx context.Context, postID int64, text string) (*Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("comment cannot be empty")
	}

	logger.Debug("Commenting on post", "post_id", postID)

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("postId", strconv.FormatInt(postID, 10)).
		SetBody(map[string]string{"comment": text}).
		Post("/posts/comment/{postId}")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var comment Comment
	if err := json.Unmarshal(resp.Body(), &comment); err != nil {
		return nil, fmt.Errorf("decode comment: %w", err)
	}
	return &comment, nil
}
