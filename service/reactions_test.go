// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/danielhkuo/livepoll/models"
)

func (s *serviceSuite) TestReactionToggle() {
	owner := s.user("owner")
	poll := s.poll(owner, "A", "B")

	removed, err := s.svc.AddReaction(s.ctx, owner, poll.ID, "👍")
	s.Require().NoError(err)
	s.False(removed)

	// a different emoji still removes the existing reaction
	removed, err = s.svc.AddReaction(s.ctx, owner, poll.ID, "🎉")
	s.Require().NoError(err)
	s.True(removed)
	s.Equal(0, s.count(`SELECT COUNT(*) FROM reaction WHERE poll_id = $1`, poll.ID))

	removed, err = s.svc.AddReaction(s.ctx, owner, poll.ID, " 🎉 ")
	s.Require().NoError(err)
	s.False(removed)

	groups, err := s.svc.GetPollReactions(s.ctx, poll.ID)
	s.Require().NoError(err)
	s.Equal([]models.ReactionGroup{{Emoji: "🎉", Count: 1, UserIDs: []string{owner.ID}}}, groups)
	s.Equal(models.LiveEvent{Type: models.EventReactionsChanged, PollID: poll.ID}, s.lastEvent())
}

func (s *serviceSuite) TestReactionErrors() {
	owner := s.user("owner")
	poll := s.poll(owner, "A", "B")

	_, err := s.svc.AddReaction(s.ctx, owner, "missing", "👍")
	s.ErrorIs(err, ErrNotFound)

	_, err = s.svc.AddReaction(s.ctx, owner, poll.ID, "  ")
	s.ErrorIs(err, ErrValidation)

	_, err = s.svc.AddReaction(s.ctx, owner, poll.ID, strings.Repeat("x", MaxEmojiLen+1))
	s.ErrorIs(err, ErrValidation)
}

func (s *serviceSuite) TestGetPollReactionsGroups() {
	owner := s.user("owner")
	poll := s.poll(owner, "A", "B")
	u1, u2, u3 := s.user("u1"), s.user("u2"), s.user("u3")

	for _, r := range []struct {
		user  *models.User
		emoji string
	}{{u1, "🔥"}, {u2, "👍"}, {u3, "🔥"}} {
		_, err := s.svc.AddReaction(s.ctx, r.user, poll.ID, r.emoji)
		s.Require().NoError(err)
	}

	groups, err := s.svc.GetPollReactions(s.ctx, poll.ID)
	s.Require().NoError(err)
	s.Require().Len(groups, 2)

	byEmoji := map[string]models.ReactionGroup{}
	for _, g := range groups {
		byEmoji[g.Emoji] = g
	}
	s.Equal(2, byEmoji["🔥"].Count)
	s.ElementsMatch([]string{u1.ID, u3.ID}, byEmoji["🔥"].UserIDs)
	s.Equal(1, byEmoji["👍"].Count)
	s.Equal([]string{u2.ID}, byEmoji["👍"].UserIDs)
}

func (s *serviceSuite) TestGetPollReactionsEmpty() {
	groups, err := s.svc.GetPollReactions(s.ctx, "missing")
	s.Require().NoError(err)
	s.NotNil(groups)
	s.Empty(groups)
}

// Concurrent toggles by one actor never fail and leave at most one reaction.
func (s *serviceSuite) TestConcurrentReactionToggles() {
	owner := s.user("owner")
	reactor := s.user("reactor")
	poll := s.poll(owner, "A", "B")

	var added, removed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wasRemoved, err := s.svc.AddReaction(s.ctx, reactor, poll.ID, "🔥")
			if err != nil {
				s.T().Errorf("AddReaction() error = %v", err)
				return
			}
			if wasRemoved {
				removed.Add(1)
			} else {
				added.Add(1)
			}
		}()
	}
	wg.Wait()

	n := s.count(`SELECT COUNT(*) FROM reaction WHERE poll_id = $1 AND user_id = $2`, poll.ID, reactor.ID)
	s.LessOrEqual(n, 1)
	s.Equal(int64(n), added.Load()-removed.Load())
}
