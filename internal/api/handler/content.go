package handler

import (
	"net/http"

	"childguard/backend/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) ListArticles(c *gin.Context) {
	articles, err := h.Storage.ListArticles()
	if err != nil {
		h.Logger.Error("failed to list articles", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching articles"})
		return
	}
	if articles == nil {
		articles = []models.Article{}
	}
	c.JSON(http.StatusOK, articles)
}

// ListResources searches the law directory by title or subtitle (?q=).
func (h *Handler) ListResources(c *gin.Context) {
	c.JSON(http.StatusOK, h.Laws.Resources(c.Query("q")))
}

// ListLaws returns the statutes referenced for ?category=.
func (h *Handler) ListLaws(c *gin.Context) {
	category := c.Query("category")
	c.JSON(http.StatusOK, gin.H{
		"category": category,
		"statutes": h.Laws.Lookup(category),
	})
}
