// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/danielhkuo/livepoll/metrics"
	"github.com/danielhkuo/livepoll/models"
)

func (s *serviceSuite) TestVoteErrors() {
	owner := s.user("owner")
	poll := s.poll(owner, "A", "B")
	other := s.poll(owner, "C", "D")

	err := s.svc.Vote(s.ctx, owner, "missing", poll.Options[0].ID)
	s.ErrorIs(err, ErrNotFound)

	err = s.svc.Vote(s.ctx, owner, poll.ID, other.Options[0].ID)
	s.ErrorIs(err, ErrInvalidOption)

	s.Require().NoError(s.svc.Vote(s.ctx, owner, poll.ID, poll.Options[0].ID))
	err = s.svc.Vote(s.ctx, owner, poll.ID, poll.Options[0].ID)
	s.ErrorIs(err, ErrAlreadyVoted)

	s.Equal(1, s.count(`SELECT COUNT(*) FROM vote WHERE poll_id = $1`, poll.ID))
}

func (s *serviceSuite) TestVoteAfterExpiry() {
	owner := s.user("owner")
	voter := s.user("voter")
	poll := s.poll(owner, "A", "B")

	s.Require().NoError(s.svc.Vote(s.ctx, voter, poll.ID, poll.Options[1].ID))
	s.clock.Advance(2 * time.Hour)

	err := s.svc.Vote(s.ctx, voter, poll.ID, poll.Options[0].ID)
	s.ErrorIs(err, ErrExpired)

	got, err := s.svc.GetPoll(s.ctx, poll.ID)
	s.Require().NoError(err)
	s.True(got.Expired)
	s.Equal(1, got.Options[1].VoteCount)
	s.Require().NotNil(got.WinnerID)
	s.Equal(poll.Options[1].ID, *got.WinnerID)
	s.Equal("expired 1 hour ago", got.ExpiresLabel)

	// withdrawing still works
	s.Require().NoError(s.svc.RemoveVote(s.ctx, voter, poll.ID))
	got, err = s.svc.GetPoll(s.ctx, poll.ID)
	s.Require().NoError(err)
	s.Equal(0, got.TotalVotes)
	s.Nil(got.WinnerID)
}

func (s *serviceSuite) TestRemoveVoteIsIdempotent() {
	owner := s.user("owner")
	poll := s.poll(owner, "A", "B")

	before := len(s.notifier.Events())
	s.NoError(s.svc.RemoveVote(s.ctx, owner, poll.ID))
	s.Len(s.notifier.Events(), before)

	s.ErrorIs(s.svc.RemoveVote(s.ctx, owner, "missing"), ErrNotFound)
}

func (s *serviceSuite) TestVoteNotifiesAndCounts() {
	owner := s.user("owner")
	poll := s.poll(owner, "A", "B")

	s.Require().NoError(s.svc.Vote(s.ctx, owner, poll.ID, poll.Options[0].ID))
	s.Equal(models.LiveEvent{Type: models.EventVotesChanged, PollID: poll.ID}, s.lastEvent())

	s.Require().NoError(s.svc.Vote(s.ctx, owner, poll.ID, poll.Options[1].ID))
	s.Require().NoError(s.svc.RemoveVote(s.ctx, owner, poll.ID))

	s.Equal(2.0, testutil.ToFloat64(s.metrics.MetricsMap[metrics.MetricVotesCast]))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.MetricsMap[metrics.MetricVotesRemoved]))
}

func (s *serviceSuite) TestPercentagesAcrossVoters() {
	owner := s.user("owner")
	poll := s.poll(owner, "A", "B", "C")

	voters := []string{"v1", "v2", "v3"}
	for i, ext := range voters {
		target := poll.Options[0].ID
		if i == 2 {
			target = poll.Options[1].ID
		}
		s.Require().NoError(s.svc.Vote(s.ctx, s.user(ext), poll.ID, target))
	}

	got, err := s.svc.GetPoll(s.ctx, poll.ID)
	s.Require().NoError(err)
	s.Equal(3, got.TotalVotes)
	s.Equal(67, got.Options[0].Percentage)
	s.Equal(33, got.Options[1].Percentage)
	s.Equal(0, got.Options[2].Percentage)
	s.Nil(got.WinnerID, "no winner before expiry")
}

// Concurrent switches by one actor always leave exactly one vote behind.
func (s *serviceSuite) TestConcurrentVotesKeepOneVote() {
	owner := s.user("owner")
	voter := s.user("voter")
	poll := s.poll(owner, "A", "B", "C", "D")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			opt := poll.Options[i%len(poll.Options)]
			err := s.svc.Vote(s.ctx, voter, poll.ID, opt.ID)
			if err != nil && !errors.Is(err, ErrAlreadyVoted) {
				s.T().Errorf("Vote() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	s.Equal(1, s.count(`SELECT COUNT(*) FROM vote WHERE poll_id = $1 AND user_id = $2`, poll.ID, voter.ID))

	got, err := s.svc.GetPoll(s.ctx, poll.ID)
	s.Require().NoError(err)
	s.Equal(1, got.TotalVotes)
}
