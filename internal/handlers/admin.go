package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jshaha/cognitive-load-annotation/internal/export"
	"github.com/jshaha/cognitive-load-annotation/internal/ingest"
	"github.com/jshaha/cognitive-load-annotation/internal/repository"
)

// Articles with fewer annotations than this show up as "needing ratings" on
// the admin dashboard.
const ratingTarget = 5

type AdminHandler struct {
	log *zap.Logger
}

func NewAdminHandler(log *zap.Logger) *AdminHandler {
	return &AdminHandler{log: log}
}

// Dashboard renders collection-wide statistics.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	totalArticles, err := repository.CountArticles(ctx)
	if err != nil {
		h.fail(c, "Failed to count articles", err)
		return
	}
	totalAnnotations, err := repository.CountAnnotations(ctx)
	if err != nil {
		h.fail(c, "Failed to count annotations", err)
		return
	}
	totalParticipants, err := repository.CountParticipants(ctx)
	if err != nil {
		h.fail(c, "Failed to count participants", err)
		return
	}
	needingRatings, err := repository.CountArticlesNeedingRatings(ctx, ratingTarget)
	if err != nil {
		h.fail(c, "Failed to count articles needing ratings", err)
		return
	}
	averages, err := repository.GlobalAverageScores(ctx)
	if err != nil {
		h.fail(c, "Failed to compute global averages", err)
		return
	}
	perDay, err := repository.AnnotationsPerDay(ctx, 30)
	if err != nil {
		h.fail(c, "Failed to bucket annotations per day", err)
		return
	}

	data := pageContext(c)
	data["totalArticles"] = totalArticles
	data["totalAnnotations"] = totalAnnotations
	data["totalParticipants"] = totalParticipants
	data["articlesNeedingRatings"] = needingRatings
	data["avgScores"] = averages
	data["annotationsByDay"] = perDay
	c.HTML(http.StatusOK, "admin_dashboard.tmpl", data)
}

func (h *AdminHandler) ShowUpload(c *gin.Context) {
	c.HTML(http.StatusOK, "admin_upload.tmpl", pageContext(c))
}

// Upload bulk-loads articles from an uploaded JSON, CSV or XLSX file.
func (h *AdminHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		setFlash(c, "No file uploaded.")
		c.Redirect(http.StatusFound, "/admin/upload")
		return
	}

	opened, err := file.Open()
	if err != nil {
		h.log.Error("Failed to open uploaded file", zap.Error(err))
		setFlash(c, "Could not read the uploaded file.")
		c.Redirect(http.StatusFound, "/admin/upload")
		return
	}
	defer opened.Close()

	articles, err := ingest.Parse(file.Filename, opened)
	if err != nil {
		setFlash(c, "Error parsing file: "+err.Error())
		c.Redirect(http.StatusFound, "/admin/upload")
		return
	}

	added, err := repository.CreateArticles(c.Request.Context(), articles)
	if err != nil {
		h.log.Error("Failed to store uploaded articles", zap.Error(err))
		setFlash(c, "Error saving articles.")
		c.Redirect(http.StatusFound, "/admin/upload")
		return
	}

	h.log.Info("Articles uploaded",
		zap.String("file", file.Filename),
		zap.Int("count", added),
	)
	setFlash(c, fmt.Sprintf("Successfully added %d articles.", added))
	c.Redirect(http.StatusFound, "/admin/upload")
}

// Articles lists every article with its annotation count, least-annotated
// first.
func (h *AdminHandler) Articles(c *gin.Context) {
	rows, err := repository.ArticlesWithCounts(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to list articles", err)
		return
	}

	data := pageContext(c)
	data["articles"] = rows
	c.HTML(http.StatusOK, "admin_articles.tmpl", data)
}

// Annotations shows all annotations collected for one article.
func (h *AdminHandler) Annotations(c *gin.Context) {
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
		h.fail(c, "Failed to load article", err)
		return
	}

	annotations, err := repository.AnnotationsForArticle(c.Request.Context(), articleID)
	if err != nil {
		h.fail(c, "Failed to load annotations", err)
		return
	}

	data := pageContext(c)
	data["article"] = article
	data["annotations"] = annotations
	c.HTML(http.StatusOK, "admin_annotations.tmpl", data)
}

// ExportCSV streams every annotation as a CSV attachment.
func (h *AdminHandler) ExportCSV(c *gin.Context) {
	annotations, err := repository.AllAnnotationsForExport(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to load annotations for export", err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename=annotations_export.csv`)
	if err := export.WriteAnnotations(c.Writer, annotations); err != nil {
		h.log.Error("Failed to stream CSV export", zap.Error(err))
	}
}

func (h *AdminHandler) fail(c *gin.Context, msg string, err error) {
	h.log.Error(msg, zap.Error(err))
	c.String(http.StatusInternalServerError, "Something went wrong")
}
