package models

import (
	"gorm.io/gorm"
)

type Choice struct {
	gorm.Model

	QuestionID uint   `gorm:"index:idx_question;not null" json:"question_id"`
	ChoiceText string `gorm:"size:200;not null" form:"choice_text" json:"choice_text"`
	Votes      int    `gorm:"not null;default:0" json:"votes"`
}

func (c Choice) String() string {
	return c.ChoiceText
}
