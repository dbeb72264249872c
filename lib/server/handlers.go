package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/suwen-susan/swe1-app/lib/client"
	"github.com/suwen-susan/swe1-app/models"
)

const noChoiceMessage = "You didn't select a choice."

type CreateQuestionRequest struct {
	QuestionText string     `json:"question_text"`
	PubDate      *time.Time `json:"pub_date"`
	Choices      []string   `json:"choices"`
}

// questionID parses the :id path parameter. Anything that is not a valid
// id cannot name a question, so it is reported as not found.
func questionID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, "question not found").SetInternal(err)
	}
	return uint(id), nil
}

func storeError(err error) error {
	switch {
	case errors.Is(err, client.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "question not found").SetInternal(err)
	case errors.Is(err, client.ErrEmptyText), errors.Is(err, client.ErrTextTooLong):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return err
	}
}

func (s *Server) index(c echo.Context) error {
	questions, err := s.app.Published(s.cfg.IndexSize)
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "index.html", map[string]interface{}{
		"LatestQuestions": questions,
	})
}

func (s *Server) count(c echo.Context) error {
	count, err := s.app.Count()
	if err != nil {
		return err
	}

	return c.String(http.StatusOK, fmt.Sprintf("%d", count))
}

func (s *Server) visibleQuestion(c echo.Context) (models.Question, error) {
	id, err := questionID(c)
	if err != nil {
		return models.Question{}, err
	}

	q, err := s.app.Visible(id)
	if err != nil {
		return models.Question{}, storeError(err)
	}
	return q, nil
}

func (s *Server) detail(c echo.Context) error {
	q, err := s.visibleQuestion(c)
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "detail.html", map[string]interface{}{
		"Question": q,
	})
}

func (s *Server) results(c echo.Context) error {
	q, err := s.visibleQuestion(c)
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "results.html", map[string]interface{}{
		"Question": q,
	})
}

func (s *Server) vote(c echo.Context) error {
	id, err := questionID(c)
	if err != nil {
		return err
	}

	choiceID, parseErr := strconv.ParseUint(c.FormValue("choice"), 10, 32)
	if parseErr == nil {
		_, err = s.app.Vote(id, uint(choiceID))
		if err == nil {
			return c.Redirect(http.StatusFound, s.app.ResultsUrl(id))
		}
		if !errors.Is(err, client.ErrNoChoice) {
			return storeError(err)
		}
	}

	// Redisplay the voting form.
	q, err := s.app.Visible(id)
	if err != nil {
		return storeError(err)
	}

	return c.Render(http.StatusBadRequest, "detail.html", map[string]interface{}{
		"Question":     q,
		"ErrorMessage": noChoiceMessage,
	})
}

func (s *Server) createQuestion(c echo.Context) error {
	var req CreateQuestionRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	var pubDate time.Time
	if req.PubDate != nil {
		pubDate = *req.PubDate
	}

	q, err := s.app.Create(req.QuestionText, pubDate, req.Choices...)
	if err != nil {
		return storeError(err)
	}

	return c.JSON(http.StatusCreated, q)
}

func (s *Server) deleteQuestion(c echo.Context) error {
	id, err := questionID(c)
	if err != nil {
		return err
	}

	if err := s.app.Delete(id); err != nil {
		return storeError(err)
	}

	// Deleted through the html form on the detail page.
	if c.FormValue("_method") != "" {
		return c.Redirect(http.StatusSeeOther, "/polls/")
	}

	return c.NoContent(http.StatusNoContent)
}
