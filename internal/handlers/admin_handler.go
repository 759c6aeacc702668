package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/anonto42/pulsefeed/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// AdminHandler handles the admin dashboard endpoints
type AdminHandler struct {
	userRepository repositories.UserRepository
	postRepository repositories.PostRepository
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(userRepo repositories.UserRepository, postRepo repositories.PostRepository) *AdminHandler {
	return &AdminHandler{
		userRepository: userRepo,
		postRepository: postRepo,
	}
}

// RegisterAdminRoutes registers admin routes behind a role check
func (h *AdminHandler) RegisterAdminRoutes(g *echo.Group) {
	admin := g.Group("/admin", h.requireAdmin)
	admin.GET("/stats", h.GetStats)
	admin.GET("/users", h.GetUsers)
	admin.PUT("/posts/:id/active", h.SetPostActive)
}

// requireAdmin rejects non-admin sessions with 403
func (h *AdminHandler) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		currentUserID := getUserIDFromContext(c)
		if currentUserID == 0 {
			return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
		}
		user, err := h.userRepository.GetUserByID(currentUserID)
		if err != nil || !user.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
		}
		return next(c)
	}
}

// GetStats returns dashboard aggregates: totals, weekly deltas, role
// distribution and posts by category.
func (h *AdminHandler) GetStats(c echo.Context) error {
	ctx := c.Request().Context()
	weekAgo := time.Now().AddDate(0, 0, -7)

	totalUsers, err := h.userRepository.CountUsers()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	newUsersWeek, err := h.userRepository.CountUsersSince(weekAgo)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	roles, err := h.userRepository.RoleDistribution()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	totalPosts, err := h.postRepository.CountPosts(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	newPostsWeek, err := h.postRepository.CountPostsSince(ctx, weekAgo)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	categories, err := h.postRepository.CountPostsByCategory(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"total_users":       totalUsers,
			"total_posts":       totalPosts,
			"new_users_week":    newUsersWeek,
			"new_posts_week":    newPostsWeek,
			"role_distribution": roles,
			"posts_by_category": categories,
		},
	})
}

// GetUsers lists profiles with pagination for the admin table
func (h *AdminHandler) GetUsers(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 25
	}

	users, total, err := h.userRepository.GetUsers(page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"users": users},
		"meta":    echo.Map{"currentPage": page, "totalItems": total, "itemsPerPage": limit},
	})
}

// SetPostActive flips a post's soft-delete flag from the dashboard
func (h *AdminHandler) SetPostActive(c echo.Context) error {
	var req struct {
		Active bool `json:"active"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if err := h.postRepository.SetPostActive(c.Request().Context(), c.Param("id"), req.Active); err != nil {
		return httpError(err, "Post not found")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"active": req.Active}})
}
