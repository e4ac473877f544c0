package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jshaha/cognitive-load-annotation/internal/repository"
)

type DashboardHandler struct {
	log *zap.Logger
}

func NewDashboardHandler(log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{log: log}
}

// Show renders the participant's annotation statistics: totals, average
// scores given, remaining articles and recent work.
func (h *DashboardHandler) Show(c *gin.Context) {
	ctx := c.Request.Context()
	user := currentUser(c)

	annotated, err := repository.CountUserAnnotations(ctx, user.ID)
	if err != nil {
		h.log.Error("Failed to count user annotations", zap.Error(err))
		c.String(http.StatusInternalServerError, "Could not load dashboard")
		return
	}

	averages, err := repository.UserAverageScores(ctx, user.ID)
	if err != nil {
		h.log.Error("Failed to compute user averages", zap.Error(err))
		c.String(http.StatusInternalServerError, "Could not load dashboard")
		return
	}

	totalArticles, err := repository.CountArticles(ctx)
	if err != nil {
		h.log.Error("Failed to count articles", zap.Error(err))
		c.String(http.StatusInternalServerError, "Could not load dashboard")
		return
	}

	recent, err := repository.RecentAnnotations(ctx, user.ID, 5)
	if err != nil {
		h.log.Error("Failed to load recent annotations", zap.Error(err))
		c.String(http.StatusInternalServerError, "Could not load dashboard")
		return
	}

	data := pageContext(c)
	data["totalAnnotations"] = annotated
	data["avgScores"] = averages
	data["totalArticles"] = totalArticles
	data["articlesRemaining"] = totalArticles - annotated
	data["recentAnnotations"] = recent
	c.HTML(http.StatusOK, "dashboard.tmpl", data)
}
