// Package feed computes per-viewer timelines from the follow graph.
package feed

import (
	"context"
	"fmt"
	"log"

	"github.com/anonto42/pulsefeed/backend/internal/models"
	"github.com/anonto42/pulsefeed/backend/internal/repositories"
	"github.com/anonto42/pulsefeed/backend/internal/social"
)

// PageSize bounds the composed feed length.
const PageSize = 20

// EnrichedPost is a post with its author snapshot, derived aggregate
// counts and the viewer's own like state.
type EnrichedPost struct {
	models.Post
	Author        models.UserCompact `json:"author"`
	LikesCount    int64              `json:"likes_count"`
	CommentsCount int64              `json:"comments_count"`
	IsLiked       bool               `json:"is_liked"`
}

// Composer builds a viewer's timeline: active posts authored by the
// viewer or by anyone the viewer follows, newest first.
type Composer struct {
	postRepository    repositories.PostRepository
	userRepository    repositories.UserRepository
	followRepository  repositories.FollowRepository
	likeRepository    repositories.LikeRepository
	commentRepository repositories.CommentRepository
}

// NewComposer creates a new Composer
func NewComposer(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
	likeRepo repositories.LikeRepository,
	commentRepo repositories.CommentRepository,
) *Composer {
	return &Composer{
		postRepository:    postRepo,
		userRepository:    userRepo,
		followRepository:  followRepo,
		likeRepository:    likeRepo,
		commentRepository: commentRepo,
	}
}

// Compose returns the viewer's feed. A follow-graph read failure fails
// the whole call rather than silently degrading to own-posts-only.
// Aggregate enrichment failures degrade: posts are returned with zero
// counts and the degradation is logged.
func (c *Composer) Compose(ctx context.Context, viewerID uint) ([]EnrichedPost, error) {
	followingIDs, err := c.followRepository.GetFollowingIDs(viewerID)
	if err != nil {
		return nil, fmt.Errorf("follow graph read for viewer %d: %w: %v", viewerID, social.ErrUnavailable, err)
	}

	authorIDs := append(followingIDs, viewerID)

	posts, err := c.postRepository.GetActivePostsByAuthorIDs(ctx, authorIDs, PageSize)
	if err != nil {
		return nil, fmt.Errorf("post read for viewer %d: %w: %v", viewerID, social.ErrUnavailable, err)
	}

	return c.enrich(posts, viewerID), nil
}

func (c *Composer) enrich(posts []models.Post, viewerID uint) []EnrichedPost {
	postIDs := make([]string, len(posts))
	authorSet := make(map[uint]bool)
	for i, p := range posts {
		postIDs[i] = p.ID.Hex()
		authorSet[p.AuthorID] = true
	}
	authorIDs := make([]uint, 0, len(authorSet))
	for id := range authorSet {
		authorIDs = append(authorIDs, id)
	}

	authorMap := make(map[uint]models.UserCompact)
	authors, err := c.userRepository.GetUsersByIDs(authorIDs)
	if err != nil {
		log.Printf("feed: author lookup degraded for viewer %d: %v", viewerID, err)
	}
	for _, a := range authors {
		authorMap[a.ID] = a.ToCompact()
	}

	likeCounts, err := c.likeRepository.GetLikesCountByPostIDs(postIDs)
	if err != nil {
		log.Printf("feed: like counts degraded for viewer %d: %v", viewerID, err)
		likeCounts = map[string]int64{}
	}

	commentCounts, err := c.commentRepository.GetCommentsCountByPostIDs(postIDs)
	if err != nil {
		log.Printf("feed: comment counts degraded for viewer %d: %v", viewerID, err)
		commentCounts = map[string]int64{}
	}

	likedMap, err := c.likeRepository.GetLikedPostIDs(viewerID, postIDs)
	if err != nil {
		log.Printf("feed: like state degraded for viewer %d: %v", viewerID, err)
		likedMap = map[string]bool{}
	}

	enriched := make([]EnrichedPost, len(posts))
	for i, p := range posts {
		pid := p.ID.Hex()
		enriched[i] = EnrichedPost{
			Post:          p,
			Author:        authorMap[p.AuthorID],
			LikesCount:    likeCounts[pid],
			CommentsCount: commentCounts[pid],
			IsLiked:       likedMap[pid],
		}
	}
	return enriched
}
