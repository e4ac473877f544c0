package repository

import (
	"context"
	"time"

	"github.com/jshaha/cognitive-load-annotation/internal/database"
	"github.com/jshaha/cognitive-load-annotation/internal/models"
)

// CreateAnnotation persists the annotation together with its difficult
// passages in one transaction (GORM saves the association children with the
// parent).
func CreateAnnotation(ctx context.Context, annotation *models.Annotation) error {
	return database.DB.WithContext(ctx).Create(annotation).Error
}

func HasAnnotated(ctx context.Context, userID, articleID uint) (bool, error) {
	var count int64
	err := database.DB.WithContext(ctx).Model(&models.Annotation{}).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Count(&count).Error
	return count > 0, err
}

func CountAnnotations(ctx context.Context) (int64, error) {
	var count int64
	err := database.DB.WithContext(ctx).Model(&models.Annotation{}).Count(&count).Error
	return count, err
}

func CountUserAnnotations(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := database.DB.WithContext(ctx).Model(&models.Annotation{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// averageRow matches the aliased AVG columns below.
type averageRow struct {
	MentalEffort        float64
	BackgroundKnowledge float64
	EmotionalDrain      float64
	Clarity             float64
}

const avgSelect = `
	AVG(mental_effort_score)        AS mental_effort,
	AVG(background_knowledge_score) AS background_knowledge,
	AVG(emotional_drain_score)      AS emotional_drain,
	AVG(clarity_score)              AS clarity`

// UserAverageScores returns the mean score the user gave per dimension, or
// nil when they have not annotated anything yet.
func UserAverageScores(ctx context.Context, userID uint) (*models.AverageScores, error) {
	count, err := CountUserAnnotations(ctx, userID)
	if err != nil || count == 0 {
		return nil, err
	}

	var row averageRow
	err = database.DB.WithContext(ctx).Model(&models.Annotation{}).
		Select(avgSelect).
		Where("user_id = ?", userID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &models.AverageScores{
		MentalEffort:        row.MentalEffort,
		BackgroundKnowledge: row.BackgroundKnowledge,
		EmotionalDrain:      row.EmotionalDrain,
		Clarity:             row.Clarity,
	}, nil
}

// GlobalAverageScores averages every dimension across all annotations, or
// nil when nothing has been collected.
func GlobalAverageScores(ctx context.Context) (*models.AverageScores, error) {
	count, err := CountAnnotations(ctx)
	if err != nil || count == 0 {
		return nil, err
	}

	var row averageRow
	err = database.DB.WithContext(ctx).Model(&models.Annotation{}).
		Select(avgSelect).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &models.AverageScores{
		MentalEffort:        row.MentalEffort,
		BackgroundKnowledge: row.BackgroundKnowledge,
		EmotionalDrain:      row.EmotionalDrain,
		Clarity:             row.Clarity,
	}, nil
}

// RecentAnnotations returns the user's latest annotations with their
// articles preloaded.
func RecentAnnotations(ctx context.Context, userID uint, limit int) ([]models.Annotation, error) {
	var annotations []models.Annotation
	err := database.DB.WithContext(ctx).
		Preload("Article").
		Where("user_id = ?", userID).
		Order("timestamp_submitted DESC").
		Limit(limit).
		Find(&annotations).Error
	return annotations, err
}

// AnnotationsForArticle lists all annotations of one article, newest first,
// with users and passages preloaded.
func AnnotationsForArticle(ctx context.Context, articleID uint) ([]models.Annotation, error) {
	var annotations []models.Annotation
	err := database.DB.WithContext(ctx).
		Preload("User").
		Preload("DifficultPassages").
		Where("article_id = ?", articleID).
		Order("timestamp_submitted DESC").
		Find(&annotations).Error
	return annotations, err
}

// AllAnnotationsForExport loads every annotation with the associations the
// CSV export needs.
func AllAnnotationsForExport(ctx context.Context) ([]models.Annotation, error) {
	var annotations []models.Annotation
	err := database.DB.WithContext(ctx).
		Preload("User").
		Preload("Article").
		Preload("DifficultPassages").
		Order("id ASC").
		Find(&annotations).Error
	return annotations, err
}

// CountArticlesNeedingRatings counts articles with fewer annotations than
// the given threshold.
func CountArticlesNeedingRatings(ctx context.Context, threshold int) (int64, error) {
	var count int64
	err := database.DB.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM (
			SELECT a.id
			FROM articles a
			LEFT JOIN annotations n ON n.article_id = a.id
			GROUP BY a.id
			HAVING COUNT(n.id) < ?
		) sub`, threshold).Scan(&count).Error
	return count, err
}

// DayCount is one day's worth of submitted annotations.
type DayCount struct {
	Day   string
	Count int
}

// AnnotationsPerDay buckets recent annotations by submission day, newest
// day first. Bucketing happens in Go so the query stays portable across
// sqlite and postgres.
func AnnotationsPerDay(ctx context.Context, days int) ([]DayCount, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)

	var stamps []time.Time
	err := database.DB.WithContext(ctx).Model(&models.Annotation{}).
		Where("timestamp_submitted >= ?", since).
		Order("timestamp_submitted DESC").
		Pluck("timestamp_submitted", &stamps).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	var order []string
	for _, ts := range stamps {
		day := ts.UTC().Format("2006-01-02")
		if _, seen := counts[day]; !seen {
			order = append(order, day)
		}
		counts[day]++
	}

	out := make([]DayCount, 0, len(order))
	for _, day := range order {
		out = append(out, DayCount{Day: day, Count: counts[day]})
	}
	return out, nil
}

// HasAnnotatedSince reports whether the user submitted anything at or after
// the given time. Used by the daily reminder.
func HasAnnotatedSince(ctx context.Context, userID uint, since time.Time) (bool, error) {
	var count int64
	err := database.DB.WithContext(ctx).Model(&models.Annotation{}).
		Where("user_id = ? AND timestamp_submitted >= ?", userID, since).
		Count(&count).Error
	return count > 0, err
}
