package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/anonto42/pulsefeed/backend/internal/models"
	"github.com/labstack/echo/v4"
)

func likeHandlerFixture() (*fixture, *LikeHandler, *echo.Echo) {
	fx := newFixture()
	return fx, NewLikeHandler(fx.likes, fx.posts, fx.notifier), echo.New()
}

func TestLikePostCreatesLikeAndNotification(t *testing.T) {
	fx, h, e := likeHandlerFixture()
	postID := fx.addPost(2) // bob's post

	c, rec := authedContext(e, http.MethodPost, "/", 1)
	c.SetParamNames("post_id")
	c.SetParamValues(postID)

	if err := h.LikePost(c); err != nil {
		t.Fatalf("LikePost: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if len(fx.notifs.rows) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(fx.notifs.rows))
	}
	row := fx.notifs.rows[0]
	if row.Type != models.NotificationLike || row.RecipientID != 2 || row.SenderID != 1 {
		t.Errorf("unexpected notification %+v", row)
	}
	if row.PostID != postID {
		t.Errorf("notification postID = %q, want %q", row.PostID, postID)
	}
}

func TestLikePostDuplicateIsConflict(t *testing.T) {
	fx, h, e := likeHandlerFixture()
	postID := fx.addPost(2)

	c, _ := authedContext(e, http.MethodPost, "/", 1)
	c.SetParamNames("post_id")
	c.SetParamValues(postID)
	if err := h.LikePost(c); err != nil {
		t.Fatalf("first LikePost: %v", err)
	}

	c, _ = authedContext(e, http.MethodPost, "/", 1)
	c.SetParamNames("post_id")
	c.SetParamValues(postID)
	err := h.LikePost(c)
	if err == nil {
		t.Fatal("duplicate like must fail")
	}
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}

	if len(fx.likes.rows) != 1 {
		t.Errorf("expected 1 like row, got %d", len(fx.likes.rows))
	}
	if len(fx.notifs.rows) != 1 {
		t.Errorf("duplicate like must not fan out again, got %d notifications", len(fx.notifs.rows))
	}
}

func TestLikeOwnPostSuppressesNotification(t *testing.T) {
	fx, h, e := likeHandlerFixture()
	postID := fx.addPost(1) // alice's own post

	c, rec := authedContext(e, http.MethodPost, "/", 1)
	c.SetParamNames("post_id")
	c.SetParamValues(postID)

	if err := h.LikePost(c); err != nil {
		t.Fatalf("LikePost: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if len(fx.notifs.rows) != 0 {
		t.Errorf("self-like must not create a notification, got %d", len(fx.notifs.rows))
	}
}

func TestLikePostUnauthenticated(t *testing.T) {
	fx, h, e := likeHandlerFixture()
	postID := fx.addPost(2)

	c, _ := authedContext(e, http.MethodPost, "/", 0)
	c.SetParamNames("post_id")
	c.SetParamValues(postID)

	err := h.LikePost(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestLikeUnknownPost(t *testing.T) {
	_, h, e := likeHandlerFixture()

	c, _ := authedContext(e, http.MethodPost, "/", 1)
	c.SetParamNames("post_id")
	c.SetParamValues("0123456789abcdef01234567")

	err := h.LikePost(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestUnlikePost(t *testing.T) {
	fx, h, e := likeHandlerFixture()
	postID := fx.addPost(2)

	c, _ := authedContext(e, http.MethodPost, "/", 1)
	c.SetParamNames("post_id")
	c.SetParamValues(postID)
	if err := h.LikePost(c); err != nil {
		t.Fatalf("LikePost: %v", err)
	}

	c, rec := authedContext(e, http.MethodDelete, "/", 1)
	c.SetParamNames("post_id")
	c.SetParamValues(postID)
	if err := h.UnlikePost(c); err != nil {
		t.Fatalf("UnlikePost: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}

	// The like notification is never retracted
	if len(fx.notifs.rows) != 1 {
		t.Errorf("unlike must not retract the notification, got %d rows", len(fx.notifs.rows))
	}

	c, _ = authedContext(e, http.MethodDelete, "/", 1)
	c.SetParamNames("post_id")
	c.SetParamValues(postID)
	err := h.UnlikePost(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusNotFound {
		t.Fatalf("second unlike should be 404, got %v", err)
	}
}
