package feed

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/anonto42/pulsefeed/backend/internal/models"
	"github.com/anonto42/pulsefeed/backend/internal/repositories"
	"github.com/anonto42/pulsefeed/backend/internal/social"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeFollowRepo struct {
	repositories.FollowRepository
	following map[uint][]uint
	err       error
}

func (f *fakeFollowRepo) GetFollowingIDs(userID uint) ([]uint, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.following[userID], nil
}

type fakePostRepo struct {
	repositories.PostRepository
	posts []models.Post
	err   error
}

func (f *fakePostRepo) GetActivePostsByAuthorIDs(ctx context.Context, authorIDs []uint, limit int64) ([]models.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	authors := make(map[uint]bool)
	for _, id := range authorIDs {
		authors[id] = true
	}
	var out []models.Post
	for _, p := range f.posts {
		if p.IsActive && authors[p.AuthorID] {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeUserRepo struct {
	repositories.UserRepository
	users map[uint]models.User
}

func (f *fakeUserRepo) GetUsersByIDs(ids []uint) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeLikeRepo struct {
	repositories.LikeRepository
	counts   map[string]int64
	liked    map[uint]map[string]bool
	countErr error
}

func (f *fakeLikeRepo) GetLikesCountByPostIDs(postIDs []string) (map[string]int64, error) {
	if f.countErr != nil {
		return nil, f.countErr
	}
	out := make(map[string]int64)
	for _, id := range postIDs {
		if c, ok := f.counts[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (f *fakeLikeRepo) GetLikedPostIDs(userID uint, postIDs []string) (map[string]bool, error) {
	out := make(map[string]bool)
	for _, id := range postIDs {
		if f.liked[userID][id] {
			out[id] = true
		}
	}
	return out, nil
}

type fakeCommentRepo struct {
	repositories.CommentRepository
	counts map[string]int64
}

func (f *fakeCommentRepo) GetCommentsCountByPostIDs(postIDs []string) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, id := range postIDs {
		if c, ok := f.counts[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func newPost(authorID uint, createdAt time.Time, active bool) models.Post {
	return models.Post{
		ID:        primitive.NewObjectID(),
		AuthorID:  authorID,
		Content:   "post content",
		IsActive:  active,
		CreatedAt: createdAt,
	}
}

func newComposer(follows *fakeFollowRepo, posts *fakePostRepo, users *fakeUserRepo, likes *fakeLikeRepo, comments *fakeCommentRepo) *Composer {
	if users == nil {
		users = &fakeUserRepo{users: map[uint]models.User{}}
	}
	if likes == nil {
		likes = &fakeLikeRepo{}
	}
	if comments == nil {
		comments = &fakeCommentRepo{}
	}
	return NewComposer(posts, users, follows, likes, comments)
}

func TestComposeVisibility(t *testing.T) {
	now := time.Now()
	viewerPost := newPost(1, now.Add(-1*time.Minute), true)
	followedPost := newPost(2, now.Add(-2*time.Minute), true)
	followedInactive := newPost(2, now.Add(-3*time.Minute), false)
	strangerPost := newPost(3, now.Add(-4*time.Minute), true)

	composer := newComposer(
		&fakeFollowRepo{following: map[uint][]uint{1: {2}}},
		&fakePostRepo{posts: []models.Post{viewerPost, followedPost, followedInactive, strangerPost}},
		nil, nil, nil,
	)

	feed, err := composer.Compose(context.Background(), 1)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(feed) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(feed))
	}
	seen := map[string]bool{}
	for _, p := range feed {
		if p.AuthorID != 1 && p.AuthorID != 2 {
			t.Errorf("post by author %d outside visibility set", p.AuthorID)
		}
		if !p.IsActive {
			t.Errorf("inactive post %s in feed", p.ID.Hex())
		}
		if seen[p.ID.Hex()] {
			t.Errorf("duplicate post %s in feed", p.ID.Hex())
		}
		seen[p.ID.Hex()] = true
	}
}

func TestComposeOrderingAndPageSize(t *testing.T) {
	now := time.Now()
	var posts []models.Post
	for i := 0; i < PageSize+5; i++ {
		posts = append(posts, newPost(1, now.Add(-time.Duration(i)*time.Minute), true))
	}

	composer := newComposer(
		&fakeFollowRepo{following: map[uint][]uint{}},
		&fakePostRepo{posts: posts},
		nil, nil, nil,
	)

	feed, err := composer.Compose(context.Background(), 1)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(feed) != PageSize {
		t.Fatalf("expected %d posts, got %d", PageSize, len(feed))
	}
	for i := 1; i < len(feed); i++ {
		if feed[i].CreatedAt.After(feed[i-1].CreatedAt) {
			t.Errorf("feed not ordered by creation time at index %d", i)
		}
	}
}

func TestComposeFollowGraphFailure(t *testing.T) {
	composer := newComposer(
		&fakeFollowRepo{err: errors.New("connection refused")},
		&fakePostRepo{},
		nil, nil, nil,
	)

	_, err := composer.Compose(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error when follow graph is unavailable")
	}
	if !errors.Is(err, social.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestComposeEnrichment(t *testing.T) {
	now := time.Now()
	liked := newPost(2, now.Add(-1*time.Minute), true)
	unliked := newPost(2, now.Add(-2*time.Minute), true)
	likedID := liked.ID.Hex()

	composer := newComposer(
		&fakeFollowRepo{following: map[uint][]uint{1: {2}}},
		&fakePostRepo{posts: []models.Post{liked, unliked}},
		&fakeUserRepo{users: map[uint]models.User{2: {ID: 2, Username: "bob"}}},
		&fakeLikeRepo{
			counts: map[string]int64{likedID: 3},
			liked:  map[uint]map[string]bool{1: {likedID: true}},
		},
		&fakeCommentRepo{counts: map[string]int64{likedID: 2}},
	)

	feed, err := composer.Compose(context.Background(), 1)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(feed) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(feed))
	}

	first := feed[0]
	if first.ID.Hex() != likedID {
		t.Fatalf("expected liked post first, got %s", first.ID.Hex())
	}
	if first.Author.Username != "bob" {
		t.Errorf("expected author snapshot bob, got %q", first.Author.Username)
	}
	if first.LikesCount != 3 || first.CommentsCount != 2 || !first.IsLiked {
		t.Errorf("enrichment mismatch: likes=%d comments=%d isLiked=%v", first.LikesCount, first.CommentsCount, first.IsLiked)
	}
	if feed[1].IsLiked || feed[1].LikesCount != 0 {
		t.Errorf("unliked post should have zero like state, got likes=%d isLiked=%v", feed[1].LikesCount, feed[1].IsLiked)
	}
}

func TestComposeCountDegradation(t *testing.T) {
	now := time.Now()
	post := newPost(1, now, true)

	composer := newComposer(
		&fakeFollowRepo{following: map[uint][]uint{}},
		&fakePostRepo{posts: []models.Post{post}},
		&fakeUserRepo{users: map[uint]models.User{1: {ID: 1, Username: "alice"}}},
		&fakeLikeRepo{countErr: errors.New("timeout")},
		nil,
	)

	feed, err := composer.Compose(context.Background(), 1)
	if err != nil {
		t.Fatalf("count failure must degrade, not fail: %v", err)
	}
	if len(feed) != 1 {
		t.Fatalf("expected 1 post, got %d", len(feed))
	}
	if feed[0].LikesCount != 0 {
		t.Errorf("degraded like count should be zero, got %d", feed[0].LikesCount)
	}
	if feed[0].Author.Username != "alice" {
		t.Errorf("author snapshot should survive count degradation")
	}
}

func TestComposeStableAcrossCalls(t *testing.T) {
	now := time.Now()
	posts := []models.Post{
		newPost(1, now, true),
		newPost(1, now.Add(-time.Minute), true),
		newPost(1, now.Add(-2*time.Minute), true),
	}

	composer := newComposer(
		&fakeFollowRepo{following: map[uint][]uint{}},
		&fakePostRepo{posts: posts},
		nil, nil, nil,
	)

	first, err := composer.Compose(context.Background(), 1)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	second, err := composer.Compose(context.Background(), 1)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("length changed between calls: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("ordering changed between calls at index %d", i)
		}
	}
}
