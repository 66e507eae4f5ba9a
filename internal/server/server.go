// Package server exposes the resolver behind a JSON API and a small chat page.
package server

import (
	"context"
	"embed"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/at-ishikawa/wikibot/internal/config"
	"github.com/at-ishikawa/wikibot/internal/resolver"
	"github.com/gin-gonic/gin"
)

//go:embed assets/index.html
var assets embed.FS

// historyLimit caps the in-memory answer history
const historyLimit = 100

// Resolver answers a single question. Satisfied by *resolver.Resolver.
type Resolver interface {
	Resolve(ctx context.Context, query string) resolver.FinalAnswer
}

// AskRequest is the JSON body of POST /api/v1/ask
type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

// AnswerRecord is one resolved question with its answer
type AnswerRecord struct {
	Question string               `json:"question"`
	Answer   resolver.FinalAnswer `json:"answer"`
	AskedAt  time.Time            `json:"asked_at"`
}

type Server struct {
	engine   *gin.Engine
	resolver Resolver

	mu      sync.Mutex
	records []AnswerRecord
}

func New(res Resolver, corsConfig config.CORSConfig) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware(corsConfig.AllowedOrigins))

	server := &Server{
		engine:   engine,
		resolver: res,
	}

	engine.GET("/", server.indexHandler)
	engine.GET("/healthz", server.healthHandler)
	api := engine.Group("/api/v1")
	api.POST("/ask", server.askHandler)
	api.GET("/history", server.historyHandler)

	return server
}

// Handler returns the HTTP handler for an http.Server
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) indexHandler(c *gin.Context) {
	page, err := assets.ReadFile("assets/index.html")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "page unavailable"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) askHandler(c *gin.Context) {
	var request AskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}
	if strings.TrimSpace(request.Question) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	answer := s.resolver.Resolve(c.Request.Context(), request.Question)
	record := AnswerRecord{
		Question: strings.TrimSpace(request.Question),
		Answer:   answer,
		AskedAt:  time.Now().UTC(),
	}
	s.appendRecord(record)

	c.JSON(http.StatusOK, record)
}

func (s *Server) historyHandler(c *gin.Context) {
	s.mu.Lock()
	records := make([]AnswerRecord, len(s.records))
	copy(records, s.records)
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (s *Server) appendRecord(record AnswerRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record)
	if len(s.records) > historyLimit {
		s.records = s.records[len(s.records)-historyLimit:]
	}
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowed[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Header("Access-Control-Max-Age", "3600")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
