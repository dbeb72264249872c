package client

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
	"github.com/suwen-susan/swe1-app/models"
	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("question not found")
	ErrNoChoice    = errors.New("choice not found")
	ErrEmptyText   = errors.New("question text is required")
	ErrTextTooLong = fmt.Errorf("question text must be at most %d characters", models.MaxTextLength)
)

type Client struct {
	DB *gorm.DB

	// Now is the clock used for visibility checks. Nil means time.Now.
	Now func() time.Time
}

// CurrentTime is the UTC time visibility is judged against.
func (c Client) CurrentTime() time.Time {
	if c.Now == nil {
		return time.Now().UTC()
	}
	return c.Now().UTC()
}

// Published returns the questions whose publication time has arrived,
// newest first. A limit of zero or less returns all of them.
func (c Client) Published(limit int) ([]models.Question, error) {
	questions := []models.Question{}

	tx := c.DB.Where("pub_date <= ?", c.CurrentTime()).
		Order("pub_date desc").
		Order("id desc")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	if err := tx.Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}

	return questions, nil
}

// Visible loads a published question with its choices. Missing and
// scheduled questions both yield ErrNotFound.
func (c Client) Visible(id uint) (models.Question, error) {
	var q models.Question

	err := c.DB.Preload("Choices", func(db *gorm.DB) *gorm.DB {
		return db.Order("id asc")
	}).
		Where("pub_date <= ?", c.CurrentTime()).
		First(&q, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Question{}, ErrNotFound
	}
	if err != nil {
		return models.Question{}, fmt.Errorf("loading question %d: %w", id, err)
	}

	return q, nil
}

func (c Client) Count() (int64, error) {
	var count int64

	err := c.DB.Model(&models.Question{}).
		Where("pub_date <= ?", c.CurrentTime()).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting questions: %w", err)
	}

	return count, nil
}

// Vote adds one vote to a choice of a published question. The increment
// happens in SQL so concurrent votes are all counted.
func (c Client) Vote(questionID, choiceID uint) (models.Question, error) {
	q, err := c.Visible(questionID)
	if err != nil {
		return q, err
	}

	result := c.DB.Model(&models.Choice{}).
		Where("id = ? AND question_id = ?", choiceID, q.ID).
		UpdateColumn("votes", gorm.Expr("votes + ?", 1))
	if result.Error != nil {
		return q, fmt.Errorf("recording vote: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return q, ErrNoChoice
	}

	return q, nil
}

// Create stores a question with its choices. A zero pubDate publishes it
// immediately.
func (c Client) Create(text string, pubDate time.Time, choices ...string) (models.Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Question{}, ErrEmptyText
	}
	if utf8.RuneCountInString(text) > models.MaxTextLength {
		return models.Question{}, ErrTextTooLong
	}

	if pubDate.IsZero() {
		pubDate = c.CurrentTime()
	}

	q := models.Question{
		QuestionText: text,
		PubDate:      pubDate.UTC(),
	}
	for _, choice := range choices {
		choice = strings.TrimSpace(choice)
		if choice == "" {
			continue
		}
		q.Choices = append(q.Choices, models.Choice{ChoiceText: choice})
	}

	if err := c.DB.Create(&q).Error; err != nil {
		return models.Question{}, fmt.Errorf("creating question: %w", err)
	}

	log.WithFields(log.Fields{
		"id":       q.ID,
		"pub_date": q.PubDate,
		"choices":  len(q.Choices),
	}).Info("question created")

	return q, nil
}

func (c Client) Delete(id uint) error {
	q := models.Question{}
	q.ID = id

	result := c.DB.Select("Choices").Delete(&q)
	if result.Error != nil {
		return fmt.Errorf("deleting question %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	log.WithField("id", id).Info("question deleted")

	return nil
}

func (c Client) QuestionUrl(id uint) string {
	return fmt.Sprintf("/polls/%d/", id)
}

func (c Client) ResultsUrl(id uint) string {
	return fmt.Sprintf("/polls/%d/results/", id)
}

func (c Client) VoteUrl(id uint) string {
	return fmt.Sprintf("/polls/%d/vote/", id)
}
