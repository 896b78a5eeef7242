package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/23f2000673/tds-virtual-ta/internal/core/domain"
	"github.com/23f2000673/tds-virtual-ta/internal/logger"
)

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Question string `json:"question"`
	Image    string `json:"image,omitempty"`
}

// HealthResponse is the body of a successful GET /health.
type HealthResponse struct {
	Status              string `json:"status"`
	APIKeySet           bool   `json:"api_key_set"`
	DiscourseChunks     int    `json:"discourse_chunks"`
	MarkdownChunks      int    `json:"markdown_chunks"`
	DiscourseEmbeddings int    `json:"discourse_embeddings"`
	MarkdownEmbeddings  int    `json:"markdown_embeddings"`
}

// ErrorResponse is returned for failed requests.
type ErrorResponse struct {
	Status string `json:"status,omitempty"`
	Error  string `json:"error"`
}

func (s *Server) handleQuery(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	answer, err := s.ports.Query.Ask(c.Request.Context(), domain.Query{
		Question: req.Question,
		Image:    req.Image,
	})
	if err != nil {
		logger.From(c.Request.Context()).Error("query failed: %v", err)
		_ = c.Error(err)
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	if answer.Links == nil {
		answer.Links = []domain.CitationLink{}
	}
	c.JSON(http.StatusOK, answer)
}

func (s *Server) handleHealth(c *gin.Context) {
	stats, err := s.ports.Query.Health(c.Request.Context())
	if err != nil {
		logger.From(c.Request.Context()).Error("health check failed: %v", err)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Status: "unhealthy", Error: err.Error()})
		return
	}

	forum := stats.For(domain.SourceForumPost)
	docs := stats.For(domain.SourceDocumentPage)
	c.JSON(http.StatusOK, HealthResponse{
		Status:              "healthy",
		APIKeySet:           stats.APIKeySet,
		DiscourseChunks:     forum.Chunks,
		MarkdownChunks:      docs.Chunks,
		DiscourseEmbeddings: forum.Embedded,
		MarkdownEmbeddings:  docs.Embedded,
	})
}

// statusFor maps pipeline errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case domain.IsClientError(err):
		return http.StatusBadRequest
	case domain.IsUpstreamError(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
