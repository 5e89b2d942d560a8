package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cookbook-app/backend/internal/service"
)

// TagHandler serves the tag catalog. Tags are read-only over HTTP; the
// set is seeded out of band.
type TagHandler struct {
	catalog *service.CatalogService
}

func NewTagHandler(catalog *service.CatalogService) *TagHandler {
	return &TagHandler{catalog: catalog}
}

// List returns every tag, unpaginated.
func (h *TagHandler) List(c *gin.Context) {
	tags, err := h.catalog.Tags(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

// Get returns one tag by id.
func (h *TagHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	tag, err := h.catalog.Tag(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}
