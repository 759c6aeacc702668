package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anonto42/pulsefeed/backend/internal/models"
	"github.com/anonto42/pulsefeed/backend/internal/repositories"
	"github.com/anonto42/pulsefeed/backend/internal/social"
	"github.com/anonto42/pulsefeed/backend/validators"
	"github.com/labstack/echo/v4"
)

type fakeCommentRepo struct {
	repositories.CommentRepository
	nextID uint
	rows   []models.Comment
}

func (f *fakeCommentRepo) CreateComment(comment *models.Comment) error {
	f.nextID++
	comment.ID = f.nextID
	f.rows = append(f.rows, *comment)
	return nil
}

func (f *fakeCommentRepo) GetCommentByID(id uint) (*models.Comment, error) {
	for _, row := range f.rows {
		if row.ID == id {
			out := row
			return &out, nil
		}
	}
	return nil, social.ErrNotFound
}

func (f *fakeCommentRepo) GetCommentsByPostID(postID string) ([]models.Comment, error) {
	var out []models.Comment
	for _, row := range f.rows {
		if row.PostID == postID {
			out = append(out, row)
		}
	}
	return out, nil
}

func commentHandlerFixture() (*fixture, *fakeCommentRepo, *CommentHandler, *echo.Echo) {
	fx := newFixture()
	comments := &fakeCommentRepo{}
	e := echo.New()
	e.Validator = validators.NewValidator()
	return fx, comments, NewCommentHandler(comments, fx.posts, fx.users, fx.notifier), e
}

func commentContext(e *echo.Echo, postID string, userID uint, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set("user", &models.JwtCustomClaims{UserID: userID})
	}
	c.SetParamNames("post_id")
	c.SetParamValues(postID)
	return c, rec
}

func TestCreateCommentNotifiesAuthor(t *testing.T) {
	fx, comments, h, e := commentHandlerFixture()
	postID := fx.addPost(2)

	c, rec := commentContext(e, postID, 1, `{"content":"nice one"}`)
	if err := h.CreateComment(c); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if len(comments.rows) != 1 || comments.rows[0].Content != "nice one" {
		t.Fatalf("comment not stored: %+v", comments.rows)
	}
	if len(fx.notifs.rows) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(fx.notifs.rows))
	}
	row := fx.notifs.rows[0]
	if row.Type != models.NotificationComment || row.RecipientID != 2 || row.PostID != postID {
		t.Errorf("unexpected notification %+v", row)
	}
}

func TestCreateCommentOnOwnPostSuppressesNotification(t *testing.T) {
	fx, _, h, e := commentHandlerFixture()
	postID := fx.addPost(1)

	c, _ := commentContext(e, postID, 1, `{"content":"note to self"}`)
	if err := h.CreateComment(c); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if len(fx.notifs.rows) != 0 {
		t.Errorf("self-comment must not create a notification, got %d", len(fx.notifs.rows))
	}
}

func TestCreateCommentEmptyContent(t *testing.T) {
	fx, comments, h, e := commentHandlerFixture()
	postID := fx.addPost(2)

	c, _ := commentContext(e, postID, 1, `{"content":""}`)
	err := h.CreateComment(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	if len(comments.rows) != 0 || len(fx.notifs.rows) != 0 {
		t.Error("invalid comment must not create state")
	}
}

func TestCreateCommentUnknownPost(t *testing.T) {
	_, _, h, e := commentHandlerFixture()

	c, _ := commentContext(e, "0123456789abcdef01234567", 1, `{"content":"hello"}`)
	err := h.CreateComment(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestDeleteCommentAuthorOnly(t *testing.T) {
	fx, comments, h, e := commentHandlerFixture()
	postID := fx.addPost(2)

	c, _ := commentContext(e, postID, 1, `{"content":"mine"}`)
	if err := h.CreateComment(c); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	commentID := comments.rows[0].ID

	c, _ = authedContext(e, http.MethodDelete, "/", 2) // bob, not the author
	c.SetParamNames("id")
	c.SetParamValues("1")
	err := h.DeleteComment(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}

	if _, err := comments.GetCommentByID(commentID); err != nil {
		t.Errorf("comment should survive a forbidden delete: %v", err)
	}
}
