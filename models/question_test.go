package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWasPublishedRecentlyWithOldQuestion(t *testing.T) {
	now := time.Now()
	q := Question{PubDate: now.Add(-24*time.Hour - time.Second)}

	assert.False(t, q.WasPublishedRecently(now))
}

func TestWasPublishedRecentlyWithRecentQuestion(t *testing.T) {
	now := time.Now()
	q := Question{PubDate: now.Add(-(23*time.Hour + 59*time.Minute + 59*time.Second))}

	assert.True(t, q.WasPublishedRecently(now))
}

func TestWasPublishedRecentlyWithFutureQuestion(t *testing.T) {
	now := time.Now()
	q := Question{PubDate: now.Add(30 * 24 * time.Hour)}

	assert.False(t, q.WasPublishedRecently(now))
}

func TestWasPublishedRecentlyBoundaries(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		pubDate time.Time
		want    bool
	}{
		{"exactly now", now, true},
		{"one nanosecond ahead", now.Add(time.Nanosecond), false},
		{"exactly one day ago", now.Add(-24 * time.Hour), false},
		{"just under one day ago", now.Add(-24*time.Hour + time.Nanosecond), true},
		{"one hour ago in another zone", now.Add(-time.Hour).In(time.FixedZone("UTC+9", 9*3600)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Question{PubDate: tt.pubDate}
			assert.Equal(t, tt.want, q.WasPublishedRecently(now))
		})
	}
}

func TestVisible(t *testing.T) {
	now := time.Now()

	assert.True(t, Question{PubDate: now.Add(-5 * 24 * time.Hour)}.Visible(now))
	assert.True(t, Question{PubDate: now}.Visible(now))
	assert.False(t, Question{PubDate: now.Add(time.Minute)}.Visible(now))
}

func TestTotalVotes(t *testing.T) {
	q := Question{
		QuestionText: "What's up?",
		Choices: []Choice{
			{ChoiceText: "Not much", Votes: 3},
			{ChoiceText: "The sky", Votes: 4},
		},
	}

	assert.Equal(t, 7, q.TotalVotes())
	assert.Equal(t, "What's up?", q.String())
	assert.Equal(t, "The sky", q.Choices[1].String())
}
