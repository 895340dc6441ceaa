package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"bookshelf/internal/auth"
	"bookshelf/internal/domain"
	"bookshelf/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users  service.UserService
	books  service.BookService
	tokens *auth.TokenService
	logger *logrus.Logger
}

func NewHandler(users service.UserService, books service.BookService, tokens *auth.TokenService, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		users:  users,
		books:  books,
		tokens: tokens,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.POST("/auth/register", h.register)
		api.POST("/auth/login", h.login)
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		protected := api.Group("", h.requireAuth())
		{
			protected.POST("/books", h.createBook)
			protected.GET("/books", h.listBooks)
			protected.GET("/books/user", h.listMyBooks)
			protected.DELETE("/books/:id", h.deleteBook)
		}
	}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type createBookRequest struct {
	Title   string   `json:"title" binding:"required"`
	Caption string   `json:"caption" binding:"required"`
	Image   string   `json:"image" binding:"required"`
	Rating  *float64 `json:"rating" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, authResponse{
		Token: token,
		User:  userToResponse(user),
	})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, authResponse{
		Token: token,
		User:  userToResponse(user),
	})
}

func (h *Handler) createBook(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req createBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := h.books.Create(c.Request.Context(), owner.ID, service.CreateBookInput{
		Title:   req.Title,
		Caption: req.Caption,
		Image:   req.Image,
		Rating:  *req.Rating,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, bookToResponse(*book))
}

func (h *Handler) listBooks(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultPageSize)))
	if err != nil {
		limit = service.DefaultPageSize
	}

	result, err := h.books.List(c.Request.Context(), page, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	books := make([]BookResponse, len(result.Books))
	for i := range result.Books {
		books[i] = bookToResponse(result.Books[i])
	}

	c.JSON(http.StatusOK, BookPageResponse{
		Books:       books,
		CurrentPage: result.CurrentPage,
		TotalBooks:  result.TotalBooks,
		TotalPages:  result.TotalPages,
		HasMore:     result.HasMore,
	})
}

func (h *Handler) listMyBooks(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	books, err := h.books.ListByOwner(c.Request.Context(), owner.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]BookResponse, len(books))
	for i := range books {
		resp[i] = bookToResponse(books[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) deleteBook(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	if err := h.books.Delete(c.Request.Context(), owner.ID, id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "book deleted successfully"})
}

// respondError maps service errors onto HTTP statuses; unclassified errors
// are logged and reported as 500.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := httpStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func httpStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

type UserResponse struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	ProfileImage string `json:"profile_image"`
	CreatedAt    string `json:"created_at"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type OwnerResponse struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	ProfileImage string `json:"profile_image"`
}

type BookResponse struct {
	ID        int64          `json:"id"`
	Title     string         `json:"title"`
	Caption   string         `json:"caption"`
	Image     string         `json:"image"`
	Rating    float64        `json:"rating"`
	User      *OwnerResponse `json:"user,omitempty"`
	CreatedAt string         `json:"created_at"`
}

type BookPageResponse struct {
	Books       []BookResponse `json:"books"`
	CurrentPage int            `json:"current_page"`
	TotalBooks  int64          `json:"total_books"`
	TotalPages  int64          `json:"total_pages"`
	HasMore     bool           `json:"has_more"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		ProfileImage: user.ProfileImage,
		CreatedAt:    user.CreatedAt.Format(time.RFC3339),
	}
}

func bookToResponse(book domain.Book) BookResponse {
	resp := BookResponse{
		ID:        book.ID,
		Title:     book.Title,
		Caption:   book.Caption,
		Image:     book.ImageURL,
		Rating:    book.Rating,
		CreatedAt: book.CreatedAt.Format(time.RFC3339),
	}
	if book.Owner != nil {
		resp.User = &OwnerResponse{
			ID:           book.Owner.ID,
			Username:     book.Owner.Username,
			ProfileImage: book.Owner.ProfileImage,
		}
	}
	return resp
}
