package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 6
	maxPageSize     = 100
)

// PageParams are the decoded page/limit query parameters.
type PageParams struct {
	Page  int
	Limit int
}

func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PaginatedResponse wraps a result page with the total count and
// absolute links to the neighbouring pages.
type PaginatedResponse struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// pageParams decodes page and limit with clamped defaults.
func pageParams(c *gin.Context) PageParams {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	return PageParams{Page: page, Limit: limit}
}

// pageURL rebuilds the request URL for another page, keeping every
// other query parameter intact.
func pageURL(r *http.Request, page int) *string {
	query := r.URL.Query()
	query.Set("page", strconv.Itoa(page))

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if forwarded := r.Header.Get("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}

	url := fmt.Sprintf("%s://%s%s?%s", scheme, r.Host, r.URL.Path, query.Encode())
	return &url
}

// paginate assembles the envelope around one page of results.
func paginate(c *gin.Context, params PageParams, count int64, results interface{}) PaginatedResponse {
	response := PaginatedResponse{
		Count:   count,
		Results: results,
	}
	if int64(params.Page*params.Limit) < count {
		response.Next = pageURL(c.Request, params.Page+1)
	}
	if params.Page > 1 {
		response.Previous = pageURL(c.Request, params.Page-1)
	}
	return response
}
