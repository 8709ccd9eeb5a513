package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"blog-backend/internal/domains/article/model"
	"blog-backend/internal/domains/article/service"
	"blog-backend/internal/shared/middleware"
	"blog-backend/internal/shared/response"
)

// ArticleHandler is the thin HTTP layer over the article service.
type ArticleHandler struct {
	service service.Service
}

func NewArticleHandler(service service.Service) *ArticleHandler {
	return &ArticleHandler{service: service}
}

// Create handles POST /articles. The author is the authenticated caller.
func (h *ArticleHandler) Create(c *gin.Context) {
	authorID, ok := middleware.UserIDFromContext(c)
	if !ok {
		response.Unauthorized(c, "You need a valid JWT to access this request")
		return
	}

	var req model.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	article, err := h.service.Create(c.Request.Context(), req, authorID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, article)
}

// FindAll handles GET /articles
func (h *ArticleHandler) FindAll(c *gin.Context) {
	var q model.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Received wrong field value(s)")
		return
	}

	page, err := h.service.FindAll(c.Request.Context(), q)
	if err != nil {
		h.handleError(c, err)
		return
	}

	q = q.WithDefaults()
	response.SuccessWithMeta(c, http.StatusOK, page.Data, &response.Meta{
		Limit: q.Limit,
		Skip:  q.Skip,
		Total: page.Total,
	})
}

// FindOne handles GET /articles/:id
func (h *ArticleHandler) FindOne(c *gin.Context) {
	id, err := h.articleID(c)
	if err != nil {
		return
	}

	article, err := h.service.FindOne(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, article)
}

// Update handles PATCH /articles/:id
func (h *ArticleHandler) Update(c *gin.Context) {
	id, err := h.articleID(c)
	if err != nil {
		return
	}

	var patch model.UpdateArticleRequest
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	article, err := h.service.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, article)
}

// Remove handles DELETE /articles/:id
func (h *ArticleHandler) Remove(c *gin.Context) {
	id, err := h.articleID(c)
	if err != nil {
		return
	}

	if err := h.service.Remove(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, nil)
}

func (h *ArticleHandler) articleID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid article id")
		return 0, errors.New("invalid article id")
	}
	return id, nil
}

// handleError maps domain errors onto HTTP status codes.
func (h *ArticleHandler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	var verr validation.Error

	switch {
	case errors.Is(err, model.ErrArticleNotFound):
		response.NotFound(c, err.Error())

	case errors.As(err, &verrs) || errors.As(err, &verr):
		response.BadRequest(c, err.Error())

	default:
		response.InternalServerError(c, "We got an error in processing this request")
	}
}
