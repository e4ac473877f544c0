package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jshaha/cognitive-load-annotation/internal/models"
	"github.com/jshaha/cognitive-load-annotation/internal/repository"
	"github.com/jshaha/cognitive-load-annotation/internal/tracking"
)

type ArticleHandler struct {
	log     *zap.Logger
	ratings *models.RatingConfig
}

func NewArticleHandler(log *zap.Logger, ratings *models.RatingConfig) *ArticleHandler {
	return &ArticleHandler{log: log, ratings: ratings}
}

// Next sends the user to the article most in need of their rating: among
// articles they have not annotated, the one with the fewest annotations,
// ties broken randomly.
func (h *ArticleHandler) Next(c *gin.Context) {
	user := currentUser(c)

	article, err := repository.NextUnratedArticle(c.Request.Context(), user.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		setFlash(c, "You have rated all available articles!")
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	if err != nil {
		h.log.Error("Failed to pick next article", zap.Error(err))
		c.String(http.StatusInternalServerError, "Could not pick an article")
		return
	}

	c.Redirect(http.StatusFound, "/article/"+strconv.FormatUint(uint64(article.ID), 10))
}

// View renders the article reading page with the rating controls.
func (h *ArticleHandler) View(c *gin.Context) {
	user := currentUser(c)
	articleID, err := parseID(c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, "Article not found")
		return
	}

	article, err := repository.GetArticle(c.Request.Context(), articleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.String(http.StatusNotFound, "Article not found")
		return
	}
	if err != nil {
		h.log.Error("Failed to load article", zap.Uint("articleID", articleID), zap.Error(err))
		c.String(http.StatusInternalServerError, "Could not load article")
		return
	}

	rated, err := repository.HasAnnotated(c.Request.Context(), user.ID, articleID)
	if err != nil {
		h.log.Error("Failed to check for existing annotation", zap.Error(err))
		c.String(http.StatusInternalServerError, "Could not load article")
		return
	}
	if rated {
		setFlash(c, "You have already rated this article.")
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	data := pageContext(c)
	data["article"] = article
	data["scales"] = h.ratings.Scales
	c.HTML(http.StatusOK, "article.tmpl", data)
}

// Submit accepts the one JSON submission of a rating attempt: scores,
// comment, metrics, difficult passages and, optionally, the raw interaction
// trace. When a trace is present the metrics are recomputed from it
// server-side instead of trusting the client's numbers.
func (h *ArticleHandler) Submit(c *gin.Context) {
	user := currentUser(c)
	articleID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, tracking.SubmitResult{Error: "Article not found"})
		return
	}

	if _, err := repository.GetArticle(c.Request.Context(), articleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, tracking.SubmitResult{Error: "Article not found"})
			return
		}
		h.log.Error("Failed to load article for submission", zap.Error(err))
		c.JSON(http.StatusInternalServerError, tracking.SubmitResult{Error: "An error occurred while saving"})
		return
	}

	rated, err := repository.HasAnnotated(c.Request.Context(), user.ID, articleID)
	if err != nil {
		h.log.Error("Failed to check for existing annotation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, tracking.SubmitResult{Error: "An error occurred while saving"})
		return
	}
	if rated {
		c.JSON(http.StatusBadRequest, tracking.SubmitResult{Error: "You have already rated this article"})
		return
	}

	var payload tracking.SubmissionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.log.Warn("Failed to bind submission payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, tracking.SubmitResult{Error: "Invalid data"})
		return
	}
	if err := h.ratings.ValidateScores(payload.Scores); err != nil {
		c.JSON(http.StatusBadRequest, tracking.SubmitResult{Error: "Invalid data: " + err.Error()})
		return
	}

	metrics := payload.Metrics
	if len(payload.Trace) > 0 {
		replayed, err := tracking.Replay(payload.Trace)
		if err != nil {
			h.log.Warn("Rejected submission with invalid interaction trace",
				zap.Uint("userID", user.ID),
				zap.Error(err),
			)
			c.JSON(http.StatusBadRequest, tracking.SubmitResult{Error: "Invalid data"})
			return
		}
		metrics = replayed
	}

	annotation := models.Annotation{
		ArticleID:          articleID,
		UserID:             user.ID,
		OptionalComments:   payload.OptionalComments,
		TimeSpentSeconds:   metrics.TimeSpentSeconds,
		ActiveTimeSeconds:  metrics.ActiveTimeSeconds,
		ScrollDepthPercent: metrics.ScrollDepthPercent,
		ScrollBackCount:    metrics.ScrollBackCount,
		PauseCount:         metrics.PauseCount,
		MouseActivityScore: metrics.MouseActivityScore,
	}
	for key, value := range payload.Scores {
		annotation.SetScore(key, value)
	}
	for _, p := range payload.DifficultPassages {
		annotation.DifficultPassages = append(annotation.DifficultPassages, models.DifficultPassage{
			TextContent: p.TextContent,
			StartOffset: p.StartOffset,
			EndOffset:   p.EndOffset,
		})
	}

	if err := repository.CreateAnnotation(c.Request.Context(), &annotation); err != nil {
		h.log.Error("Failed to save annotation",
			zap.Uint("userID", user.ID),
			zap.Uint("articleID", articleID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, tracking.SubmitResult{Error: "An error occurred while saving"})
		return
	}

	setFlash(c, "Rating saved. Thank you!")
	c.JSON(http.StatusOK, tracking.SubmitResult{Success: true, Redirect: "/dashboard"})
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	return uint(id), err
}
