package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pnl-projection-service/internal/projection"
	"pnl-projection-service/internal/storage"
)

// Defaults applied when a query parameter is absent.
const (
	defaultDays         = 30
	defaultSimulations  = 1000
	defaultHistoryLimit = 20
)

// intQuery parses an integer query parameter. An absent parameter yields the
// default; an unparseable one yields invalidErr, the same error its bounds
// violation would produce.
func intQuery(c *gin.Context, name string, def int, invalidErr error) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidErr
	}
	return v, nil
}

// boolQuery treats "true" and "1" as true, anything else as false.
func boolQuery(c *gin.Context, name string) bool {
	raw := c.Query(name)
	return raw == "true" || raw == "1"
}

func (s *Server) handleProjection(c *gin.Context) {
	days, err := intQuery(c, "days", defaultDays, projection.ErrInvalidDays)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	simulations, err := intQuery(c, "simulations", defaultSimulations, projection.ErrInvalidSimulations)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req := projection.Request{
		Days:        days,
		Simulations: simulations,
		Refresh:     boolQuery(c, "refresh"),
		Stability:   boolQuery(c, "stability"),
	}

	resp, err := s.projections.Project(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, projection.ErrInvalidDays) || errors.Is(err, projection.ErrInvalidSimulations) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.logger.Error("projection request failed",
			zap.Int("days", days),
			zap.Int("simulations", simulations),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHistory(c *gin.Context) {
	limit, err := intQuery(c, "limit", defaultHistoryLimit, storage.ErrInvalidInput)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	snapshots, err := s.projections.History(c.Request.Context(), limit)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		s.logger.Error("history request failed", zap.Int("limit", limit), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"snapshots": snapshots,
		"count":     len(snapshots),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   s.clock(),
	})
}

func (s *Server) handleStatus(c *gin.Context) {
	s.mu.RLock()
	merged := make(map[string]string, len(s.status))
	for k, v := range s.status {
		merged[k] = v
	}
	s.mu.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"uptime":     s.clock().Sub(s.startedAt).String(),
		"components": merged,
	})
}
