package models

import "time"

// Annotation is one user's completed rating of one article, together with
// the reading-behavior metrics measured while they read it. A user can
// annotate each article at most once.
type Annotation struct {
	ID        uint `gorm:"primaryKey"`
	ArticleID uint `gorm:"not null;uniqueIndex:idx_user_article"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_user_article"`

	Article Article `gorm:"foreignKey:ArticleID"`
	User    User    `gorm:"foreignKey:UserID"`

	// Rating scores on a 1-10 scale.
	MentalEffortScore        int `gorm:"not null"`
	BackgroundKnowledgeScore int `gorm:"not null"`
	EmotionalDrainScore      int `gorm:"not null"`
	ClarityScore             int `gorm:"not null"`

	OptionalComments string `gorm:"type:text"`

	// Passive reading metrics.
	TimeSpentSeconds   float64
	ActiveTimeSeconds  float64
	ScrollDepthPercent float64
	ScrollBackCount    int
	PauseCount         int
	MouseActivityScore float64

	TimestampSubmitted time.Time `gorm:"autoCreateTime;index"`

	DifficultPassages []DifficultPassage `gorm:"foreignKey:AnnotationID;constraint:OnDelete:CASCADE"`
}

// DifficultPassage is a highlighted span of the article body, recorded as
// character offsets into its concatenated visible text.
type DifficultPassage struct {
	ID           uint   `gorm:"primaryKey"`
	AnnotationID uint   `gorm:"not null;index"`
	TextContent  string `gorm:"type:text;not null"`
	StartOffset  int    `gorm:"not null"`
	EndOffset    int    `gorm:"not null"`
}

// SetScore assigns a rating value by its wire key. It reports false for
// unknown keys.
func (a *Annotation) SetScore(key string, value int) bool {
	switch key {
	case "mental_effort_score":
		a.MentalEffortScore = value
	case "background_knowledge_score":
		a.BackgroundKnowledgeScore = value
	case "emotional_drain_score":
		a.EmotionalDrainScore = value
	case "clarity_score":
		a.ClarityScore = value
	default:
		return false
	}
	return true
}

// AverageScores holds per-dimension mean ratings.
type AverageScores struct {
	MentalEffort        float64
	BackgroundKnowledge float64
	EmotionalDrain      float64
	Clarity             float64
}
