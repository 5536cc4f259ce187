package service

import (
	"context"
	"strings"
	"time"

	"bullpen/internal/apperrors"
	"bullpen/internal/entity"
	"bullpen/internal/models"
)

const (
	PollStatusOpen   = "open"
	PollStatusClosed = "closed"

	ChoiceBull = "bull"
	ChoiceBear = "bear"
)

// PollService handles sentiment poll voting. One vote per user per poll.
type PollService struct {
	stores *entity.Stores
}

func NewPollService(stores *entity.Stores) *PollService {
	return &PollService{stores: stores}
}

func (s *PollService) Get(ctx context.Context, pollID string) (*models.SentimentPoll, error) {
	return s.stores.Polls.GetByID(ctx, pollID)
}

// Vote records one vote and bumps the tally. A second vote from the same
// user is rejected.
func (s *PollService) Vote(ctx context.Context, pollID, userID, choice string) (*models.PollTallyResponse, error) {
	choice = strings.ToLower(choice)
	if choice != ChoiceBull && choice != ChoiceBear {
		return nil, apperrors.ErrValidation
	}

	poll, err := s.stores.Polls.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if poll.Status != PollStatusOpen || time.Now().After(poll.ClosesAt) {
		return nil, apperrors.ErrInvalidTransition
	}

	existing, err := s.stores.Polls.VoteByUser(ctx, pollID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrAlreadyExists
	}

	vote := &models.PollVote{
		PollID: pollID,
		UserID: userID,
		Choice: choice,
	}
	if err := s.stores.Polls.CreateVote(ctx, vote); err != nil {
		return nil, err
	}

	patch := map[string]any{}
	if choice == ChoiceBull {
		poll.BullVotes++
		patch["bull_votes"] = poll.BullVotes
	} else {
		poll.BearVotes++
		patch["bear_votes"] = poll.BearVotes
	}
	if err := s.stores.Polls.Update(ctx, pollID, patch); err != nil {
		return nil, err
	}

	return &models.PollTallyResponse{
		PollID:    pollID,
		BullVotes: poll.BullVotes,
		BearVotes: poll.BearVotes,
	}, nil
}

func (s *PollService) Tally(ctx context.Context, pollID string) (*models.PollTallyResponse, error) {
	poll, err := s.stores.Polls.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}
	return &models.PollTallyResponse{
		PollID:    poll.ID,
		BullVotes: poll.BullVotes,
		BearVotes: poll.BearVotes,
	}, nil
}
