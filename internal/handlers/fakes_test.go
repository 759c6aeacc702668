package handlers

import (
	"context"
	"fmt"
	"net/http/httptest"
	"time"

	"github.com/anonto42/pulsefeed/backend/internal/models"
	"github.com/anonto42/pulsefeed/backend/internal/notify"
	"github.com/anonto42/pulsefeed/backend/internal/repositories"
	"github.com/anonto42/pulsefeed/backend/internal/social"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. Unimplemented interface methods panic
// through the embedded nil interface, which keeps each test honest
// about what it exercises.

type fakeUserRepo struct {
	repositories.UserRepository
	users map[uint]models.User
}

func (f *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return &u, nil
	}
	return nil, social.ErrNotFound
}

type fakePostRepo struct {
	repositories.PostRepository
	posts map[string]models.Post
}

func (f *fakePostRepo) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	if p, ok := f.posts[id]; ok {
		return &p, nil
	}
	return nil, social.ErrNotFound
}

type fakeLikeRepo struct {
	repositories.LikeRepository
	rows map[string]bool // "postID/userID"
}

func likeKey(postID string, userID uint) string {
	return fmt.Sprintf("%s/%d", postID, userID)
}

func (f *fakeLikeRepo) CreateLike(like *models.Like) error {
	key := likeKey(like.PostID, like.UserID)
	if f.rows[key] {
		return fmt.Errorf("already liked: %w", social.ErrConflict)
	}
	f.rows[key] = true
	return nil
}

func (f *fakeLikeRepo) DeleteLike(postID string, userID uint) error {
	key := likeKey(postID, userID)
	if !f.rows[key] {
		return fmt.Errorf("like: %w", social.ErrNotFound)
	}
	delete(f.rows, key)
	return nil
}

type fakeFollowRepo struct {
	repositories.FollowRepository
	edges map[string]bool // "follower/following"
}

func followKey(followerID, followingID uint) string {
	return fmt.Sprintf("%d/%d", followerID, followingID)
}

func (f *fakeFollowRepo) IsFollowing(followerID, followingID uint) (bool, error) {
	return f.edges[followKey(followerID, followingID)], nil
}

func (f *fakeFollowRepo) CreateFollow(follow *models.Follow) error {
	key := followKey(follow.FollowerID, follow.FollowingID)
	if f.edges[key] {
		return fmt.Errorf("already following: %w", social.ErrConflict)
	}
	f.edges[key] = true
	return nil
}

func (f *fakeFollowRepo) DeleteFollow(followerID, followingID uint) error {
	key := followKey(followerID, followingID)
	if !f.edges[key] {
		return fmt.Errorf("follow edge: %w", social.ErrNotFound)
	}
	delete(f.edges, key)
	return nil
}

type fakeNotificationRepo struct {
	repositories.NotificationRepository
	nextID uint
	rows   []models.Notification
}

func (f *fakeNotificationRepo) CreateNotification(n *models.Notification) error {
	f.nextID++
	n.ID = f.nextID
	n.CreatedAt = time.Now().Add(time.Duration(f.nextID) * time.Millisecond)
	f.rows = append(f.rows, *n)
	return nil
}

func (f *fakeNotificationRepo) GetNotificationByID(id uint) (*models.Notification, error) {
	for _, row := range f.rows {
		if row.ID == id {
			out := row
			return &out, nil
		}
	}
	return nil, social.ErrNotFound
}

func (f *fakeNotificationRepo) GetByRecipientID(recipientID uint, limit int) ([]models.Notification, error) {
	var out []models.Notification
	for i := len(f.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if f.rows[i].RecipientID == recipientID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	for _, row := range f.rows {
		if row.RecipientID == recipientID && !row.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkAsRead(id uint) error {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].IsRead = true
			return nil
		}
	}
	return social.ErrNotFound
}

func (f *fakeNotificationRepo) MarkAllAsRead(recipientID uint) error {
	for i := range f.rows {
		if f.rows[i].RecipientID == recipientID {
			f.rows[i].IsRead = true
		}
	}
	return nil
}

// fixture wires fakes and a real notify.Service together the way the
// router does in production.
type fixture struct {
	users    *fakeUserRepo
	posts    *fakePostRepo
	likes    *fakeLikeRepo
	follows  *fakeFollowRepo
	notifs   *fakeNotificationRepo
	notifier *notify.Service
}

func newFixture() *fixture {
	users := &fakeUserRepo{users: map[uint]models.User{
		1: {ID: 1, Username: "alice"},
		2: {ID: 2, Username: "bob"},
		3: {ID: 3, Username: "carol"},
	}}
	notifs := &fakeNotificationRepo{}
	return &fixture{
		users:    users,
		posts:    &fakePostRepo{posts: map[string]models.Post{}},
		likes:    &fakeLikeRepo{rows: map[string]bool{}},
		follows:  &fakeFollowRepo{edges: map[string]bool{}},
		notifs:   notifs,
		notifier: notify.NewService(notifs, users, notify.NewHub()),
	}
}

func (fx *fixture) addPost(authorID uint) string {
	post := models.Post{
		ID:        primitive.NewObjectID(),
		AuthorID:  authorID,
		Content:   "hello",
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	id := post.ID.Hex()
	fx.posts.posts[id] = post
	return id
}

// authedContext builds an echo context carrying a JWT session for the
// given user. userID 0 means no session.
func authedContext(e *echo.Echo, method, target string, userID uint) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set("user", &models.JwtCustomClaims{UserID: userID})
	}
	return c, rec
}
