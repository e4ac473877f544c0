package models

import "time"

type Article struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:500;not null"`
	Source      string `gorm:"size:200"`
	URL         string `gorm:"size:1000"`
	PublishDate *time.Time
	FullText    string    `gorm:"type:text;not null"`
	DateAdded   time.Time `gorm:"autoCreateTime"`

	Annotations []Annotation `gorm:"foreignKey:ArticleID"`
}
