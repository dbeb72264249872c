package models

import (
	"time"

	"gorm.io/gorm"
)

const MaxTextLength = 200

type Question struct {
	gorm.Model

	QuestionText string    `gorm:"size:200;not null" form:"question_text" json:"question_text"`
	PubDate      time.Time `gorm:"index:idx_pub_date;not null" form:"pub_date" json:"pub_date"`

	Choices []Choice `gorm:"constraint:OnDelete:CASCADE" json:"choices,omitempty"`
}

func (q Question) String() string {
	return q.QuestionText
}

// WasPublishedRecently reports whether the question went public during the
// 24 hours before now. Scheduled questions are never recent.
func (q Question) WasPublishedRecently(now time.Time) bool {
	return q.PubDate.After(now.Add(-24*time.Hour)) && !q.PubDate.After(now)
}

func (q Question) WasPublishedRecentlyNow() bool {
	return q.WasPublishedRecently(time.Now())
}

// Visible is true once the publication time has arrived.
func (q Question) Visible(now time.Time) bool {
	return !q.PubDate.After(now)
}

func (q Question) TotalVotes() int {
	total := 0
	for _, c := range q.Choices {
		total += c.Votes
	}
	return total
}
