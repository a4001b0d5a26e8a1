// internal/server/handlers.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"aidmatch-backend/internal/common/errors"
	"aidmatch-backend/internal/common/logger"
	"aidmatch-backend/internal/matching"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xeipuuv/gojsonschema"
)

// matchRequestSchema validates the inbound quiz answers payload before any
// normalization runs. Keys mirror the questionnaire field names.
const matchRequestSchema = `{
	"type": "object",
	"required": ["answers"],
	"properties": {
		"answers": {
			"type": "object",
			"required": ["gpa"],
			"properties": {
				"education_level": {"type": "string"},
				"school":          {"type": "string"},
				"major":           {"type": "string"},
				"gpa":             {"type": "string"},
				"location":        {"type": "string"},
				"is_pell_eligible": {"type": "string"}
			},
			"additionalProperties": false
		}
	},
	"additionalProperties": false
}`

// MatchRequest is the POST /api/v1/matches payload.
type MatchRequest struct {
	Answers map[string]string `json:"answers"`
}

// Pinger is the health-check capability of a backing service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server exposes the matching pipeline over HTTP.
type Server struct {
	matcher *matching.Matcher
	deps    map[string]Pinger
	schema  *gojsonschema.Schema
	logger  logger.Logger
}

func New(matcher *matching.Matcher, deps map[string]Pinger, log logger.Logger) (*Server, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(matchRequestSchema))
	if err != nil {
		return nil, fmt.Errorf("compile match request schema: %w", err)
	}

	return &Server{
		matcher: matcher,
		deps:    deps,
		schema:  schema,
		logger:  log.WithFields(map[string]interface{}{"component": "server"}),
	}, nil
}

// Router builds the gin engine with all routes and middleware attached.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), AccessLog(s.logger))

	router.GET("/healthz", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.POST("/matches", s.handleMatch)

	return router
}

func (s *Server) handleMatch(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		s.respondError(c, errors.NewInvalidRequestError("unreadable request body"))
		return
	}

	result, validationErr := s.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if validationErr != nil {
		s.respondError(c, errors.NewInvalidRequestError("request body is not valid JSON"))
		return
	}
	if !result.Valid() {
		details := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			details[i] = desc.String()
		}
		s.respondError(c, errors.NewInvalidRequestError(fmt.Sprintf("%v", details)))
		return
	}

	var req MatchRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		s.respondError(c, errors.NewInvalidRequestError(err.Error()))
		return
	}

	matchResult, err := s.matcher.MatchAnswers(c.Request.Context(), req.Answers)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, matchResult)
}

func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(s.deps))
	for name, dep := range s.deps {
		if err := dep.Ping(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	c.JSON(status, gin.H{"status": http.StatusText(status), "checks": checks})
}

func (s *Server) respondError(c *gin.Context, err error) {
	stdErr := errors.AsStandardError(err)
	status := errors.HTTPStatus(stdErr.Code)

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", map[string]interface{}{
			"requestId": c.GetString("requestId"),
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
		})
	}

	c.JSON(status, stdErr.ToResponse())
}
