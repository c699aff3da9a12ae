// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomtom215/srkverse/internal/apperr"
	"github.com/tomtom215/srkverse/internal/eventbus"
	"github.com/tomtom215/srkverse/internal/models"
)

// quizOptionCount is the number of answer options offered, the correct
// title included.
const quizOptionCount = 4

// FanMessageInput is a fan wall submission.
type FanMessageInput struct {
	Name    string `json:"name" validate:"required,notblank,max=100"`
	Email   string `json:"email" validate:"omitempty,email,max=254"`
	Message string `json:"message" validate:"required,notblank,max=2000"`
}

// FanMessageReceipt acknowledges a stored message.
type FanMessageReceipt struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// SubmitMessage stores a fan message and returns the reply shown to the fan.
func (s *Service) SubmitMessage(ctx context.Context, in FanMessageInput) (*FanMessageReceipt, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}

	msg := &models.FanMessage{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Message: strings.TrimSpace(in.Message),
	}
	if err := s.db.InsertFanMessage(ctx, msg); err != nil {
		return nil, err
	}
	s.publish(ctx, eventbus.TopicFanMessage, eventbus.FanMessageReceived{MessageID: msg.ID, Name: msg.Name})

	return &FanMessageReceipt{
		ID:      msg.ID,
		Message: fmt.Sprintf("Thank you %s for your message!", msg.Name),
	}, nil
}

// RecentMessages returns the newest fan messages, at most limit.
func (s *Service) RecentMessages(ctx context.Context, limit int) ([]models.FanMessage, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return s.db.ListFanMessages(ctx, limit)
}

// QuizAnswerInput is an answer to a quiz question.
type QuizAnswerInput struct {
	QuoteID string `json:"quote_id" validate:"required,notblank"`
	Answer  string `json:"answer" validate:"required,notblank,max=300"`
}

// Quiz draws a quote and asks which movie it is from. The correct title is
// one of the options but is never marked.
func (s *Service) Quiz(ctx context.Context) (*models.QuizQuestion, error) {
	q, err := s.db.RandomQuote(ctx, true)
	if err != nil {
		return nil, translate(err)
	}

	candidates, err := s.quizDistractors(ctx, q.MovieTitle)
	if err != nil {
		return nil, err
	}
	s.shuffle(candidates)
	if len(candidates) > quizOptionCount-1 {
		candidates = candidates[:quizOptionCount-1]
	}

	options := append(candidates, q.MovieTitle)
	s.shuffle(options)

	return &models.QuizQuestion{
		QuoteID:  q.ID,
		Question: fmt.Sprintf("Which movie is this quote from: '%s'?", q.Text),
		Options:  options,
	}, nil
}

// quizDistractors returns distinct titles other than answer, drawn from the
// catalog and from quote attributions.
func (s *Service) quizDistractors(ctx context.Context, answer string) ([]string, error) {
	quoteTitles, err := s.db.QuoteMovieTitles(ctx)
	if err != nil {
		return nil, err
	}
	movieTitles, err := s.db.MovieTitles(ctx)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{strings.ToLower(answer): true}
	out := []string{}
	for _, title := range append(quoteTitles, movieTitles...) {
		key := strings.ToLower(strings.TrimSpace(title))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, title)
	}
	return out, nil
}

// ValidateQuiz checks an answer. Comparison ignores case and surrounding
// whitespace.
func (s *Service) ValidateQuiz(ctx context.Context, in QuizAnswerInput) (*models.QuizResult, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}

	q, err := s.db.GetQuote(ctx, strings.TrimSpace(in.QuoteID))
	if err != nil {
		return nil, translate(err)
	}
	if q.MovieTitle == "" {
		return nil, apperr.New(apperr.KindValidation, "quote is not part of the quiz")
	}

	if strings.EqualFold(strings.TrimSpace(in.Answer), strings.TrimSpace(q.MovieTitle)) {
		return &models.QuizResult{Correct: true, Message: "Correct!"}, nil
	}
	return &models.QuizResult{
		Correct: false,
		Message: fmt.Sprintf("Not quite. That line is from %s.", q.MovieTitle),
	}, nil
}
