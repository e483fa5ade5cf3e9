package feed

import (
	"context"
	"errors"
	"strings"

	"github.com/zfogg/socialcommerce/cli/pkg/api"
	"github.com/zfogg/socialcommerce/cli/pkg/logger"
	"github.com/zfogg/socialcommerce/cli/pkg/optimistic"
)

// ErrEmptyComment is returned for blank comments
var ErrEmptyComment = errors.New("comment cannot be empty")

// Interactor performs post interactions
type Interactor interface {
	LikePost(ctx context.Context, postID int64) (*api.Post, error)
	CommentOnPost(ctx context.Context, postID int64, text string) (*api.Comment, error)
}

// Timeline is a paged list of posts that can be liked and commented on
type Timeline struct {
	*Paginator[api.Post]
	interactor Interactor
}

// NewTimeline wraps pager
func NewTimeline(pager *Paginator[api.Post], interactor Interactor) *Timeline {
	return &Timeline{Paginator: pager, interactor: interactor}
}

func byID(postID int64) func(api.Post) bool {
	return func(p api.Post) bool { return p.PostID == postID }
}

// Post returns a loaded post
func (t *Timeline) Post(postID int64) (api.Post, bool) {
	return t.Find(byID(postID))
}

// ToggleLike flips the like locally, then asks the backend. On failure the
// post is restored; on success the backend's counts win when it sends them.
// Posts that are not loaded are only sent to the backend.
func (t *Timeline) ToggleLike(ctx context.Context, postID int64) (api.Post, error) {
	var (
		before api.Post
		known  bool
		echoed *api.Post
	)

	err := optimistic.Speculate(ctx,
		func() {
			known = t.Update(byID(postID), func(p *api.Post) {
				before = *p
				if p.Liked {
					p.Liked = false
					if p.Likes > 0 {
						p.Likes--
					}
				} else {
					p.Liked = true
					p.Likes++
				}
			})
		},
		func(ctx context.Context) error {
			var err error
			echoed, err = t.interactor.LikePost(ctx, postID)
			return err
		},
		func(_ context.Context, callErr error) error {
			if !known {
				return nil
			}
			t.Update(byID(postID), func(p *api.Post) {
				switch {
				case callErr != nil:
					logger.Debug("Like failed, restoring post", "post_id", postID, "error", callErr)
					p.Liked = before.Liked
					p.Likes = before.Likes
				case echoed != nil:
					p.Liked = echoed.Liked
					p.Likes = echoed.Likes
				}
			})
			return nil
		},
	)
	if err != nil {
		return before, err
	}

	if post, ok := t.Post(postID); ok {
		return post, nil
	}
	if echoed != nil {
		return *echoed, nil
	}
	return api.Post{PostID: postID}, nil
}

// AddComment posts text and appends the returned comment to the loaded post
func (t *Timeline) AddComment(ctx context.Context, postID int64, text string) (*api.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyComment
	}

	comment, err := t.interactor.CommentOnPost(ctx, postID, text)
	if err != nil {
		return nil, err
	}

	t.Update(byID(postID), func(p *api.Post) {
		p.Comments = append(p.Comments, *comment)
	})
	return comment, nil
}
