// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"strings"
	"time"

	"github.com/danielhkuo/livepoll/models"
)

func strPtr(s string) *string { return &s }

func (s *serviceSuite) TestCreatePollValidation() {
	owner := s.user("owner")
	future := s.inAnHour()

	tests := []struct {
		name string
		req  models.CreatePollRequest
	}{
		{"empty title", models.CreatePollRequest{Title: "   ", Options: []string{"a", "b"}, ExpiresAt: future}},
		{"title too long", models.CreatePollRequest{Title: strings.Repeat("t", MaxTitleLen+1), Options: []string{"a", "b"}, ExpiresAt: future}},
		{"description too long", models.CreatePollRequest{Title: "t", Description: strPtr(strings.Repeat("d", MaxDescriptionLen+1)), Options: []string{"a", "b"}, ExpiresAt: future}},
		{"one option", models.CreatePollRequest{Title: "t", Options: []string{"a"}, ExpiresAt: future}},
		{"eleven options", models.CreatePollRequest{Title: "t", Options: strings.Split("a,b,c,d,e,f,g,h,i,j,k", ","), ExpiresAt: future}},
		{"blank option", models.CreatePollRequest{Title: "t", Options: []string{"a", "  "}, ExpiresAt: future}},
		{"option too long", models.CreatePollRequest{Title: "t", Options: []string{"a", strings.Repeat("o", MaxOptionLen+1)}, ExpiresAt: future}},
		{"duplicate after trim", models.CreatePollRequest{Title: "t", Options: []string{"a", " a "}, ExpiresAt: future}},
		{"expires now", models.CreatePollRequest{Title: "t", Options: []string{"a", "b"}, ExpiresAt: s.clock.Now().UnixMilli()}},
		{"expired", models.CreatePollRequest{Title: "t", Options: []string{"a", "b"}, ExpiresAt: s.clock.Now().Add(-time.Minute).UnixMilli()}},
		{"bad theme color", models.CreatePollRequest{Title: "t", Options: []string{"a", "b"}, ExpiresAt: future, ThemeColor: strPtr("blue")}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.svc.CreatePoll(s.ctx, owner, tt.req)
			s.ErrorIs(err, ErrValidation)
		})
	}

	s.Equal(0, s.count(`SELECT COUNT(*) FROM poll`))
	s.Equal(0, s.count(`SELECT COUNT(*) FROM poll_option`))
}

func (s *serviceSuite) TestCreatePollBoundaries() {
	owner := s.user("owner")

	_, err := s.svc.CreatePoll(s.ctx, owner, models.CreatePollRequest{
		Title:     strings.Repeat("t", MaxTitleLen),
		Options:   strings.Split("a,b,c,d,e,f,g,h,i,j", ","),
		ExpiresAt: s.clock.Now().UnixMilli() + 1,
	})
	s.NoError(err)

	// case-sensitive duplicates are distinct
	_, err = s.svc.CreatePoll(s.ctx, owner, models.CreatePollRequest{
		Title:     "t",
		Options:   []string{"Yes", "yes"},
		ExpiresAt: s.inAnHour(),
	})
	s.NoError(err)
}

func (s *serviceSuite) TestCreatePollStoresTrimmedFields() {
	owner := s.user("owner")

	id, err := s.svc.CreatePoll(s.ctx, owner, models.CreatePollRequest{
		Title:       "  Where to?  ",
		Description: strPtr("  pick one "),
		Options:     []string{" Paris", "Rome "},
		ExpiresAt:   s.inAnHour(),
	})
	s.Require().NoError(err)

	got, err := s.svc.GetPoll(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("Where to?", got.Title)
	s.Require().NotNil(got.Description)
	s.Equal("pick one", *got.Description)
	s.Equal(models.DefaultThemeColor, got.ThemeColor)
	s.Equal(owner.ID, got.CreatorID)
	s.Require().NotNil(got.Creator)
	s.Equal(owner.ID, got.Creator.ID)
	s.Require().Len(got.Options, 2)
	s.Equal("Paris", got.Options[0].Text)
	s.Equal("Rome", got.Options[1].Text)
	s.False(got.Expired)
	s.Nil(got.WinnerID)
	s.Equal("expires 1 hour from now", got.ExpiresLabel)
}

func (s *serviceSuite) TestCreatePollBlankDescriptionIsNil() {
	owner := s.user("owner")

	id, err := s.svc.CreatePoll(s.ctx, owner, models.CreatePollRequest{
		Title:       "t",
		Description: strPtr("   "),
		Options:     []string{"a", "b"},
		ExpiresAt:   s.inAnHour(),
		ThemeColor:  strPtr("#FF0000"),
	})
	s.Require().NoError(err)

	got, err := s.svc.GetPoll(s.ctx, id)
	s.Require().NoError(err)
	s.Nil(got.Description)
	s.Equal("#FF0000", got.ThemeColor)
}

func (s *serviceSuite) TestGetPollNotFound() {
	_, err := s.svc.GetPoll(s.ctx, "missing")
	s.ErrorIs(err, ErrNotFound)
}

func (s *serviceSuite) TestGetPollSkipsMissingOptions() {
	owner := s.user("owner")
	poll := s.poll(owner, "A", "B", "C")

	_, err := s.db.Exec(`DELETE FROM poll_option WHERE id = $1`, poll.Options[1].ID)
	s.Require().NoError(err)

	got, err := s.svc.GetPoll(s.ctx, poll.ID)
	s.Require().NoError(err)
	s.Require().Len(got.Options, 2)
	s.Equal("A", got.Options[0].Text)
	s.Equal("C", got.Options[1].Text)
}

func (s *serviceSuite) TestListPollsNewestFirst() {
	owner := s.user("owner")

	var ids []string
	for i := 0; i < ListPollsLimit+2; i++ {
		s.clock.Advance(time.Second)
		ids = append(ids, s.poll(owner, "A", "B").ID)
	}

	polls, err := s.svc.ListPolls(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(polls, ListPollsLimit)
	s.Equal(ids[len(ids)-1], polls[0].ID)
	s.Equal(ids[2], polls[len(polls)-1].ID)
	s.Len(polls[0].Options, 2)
	s.NotNil(polls[0].Creator)
}

func (s *serviceSuite) TestListPollsEmpty() {
	polls, err := s.svc.ListPolls(s.ctx)
	s.Require().NoError(err)
	s.Empty(polls)
}

func (s *serviceSuite) TestDeletePoll() {
	owner := s.user("owner")
	other := s.user("other")
	poll := s.poll(owner, "A", "B")

	s.Require().NoError(s.svc.Vote(s.ctx, other, poll.ID, poll.Options[0].ID))
	_, err := s.svc.AddReaction(s.ctx, other, poll.ID, "🔥")
	s.Require().NoError(err)
	parentID, err := s.svc.AddComment(s.ctx, other, models.AddCommentRequest{PollID: poll.ID, Body: "top"})
	s.Require().NoError(err)
	_, err = s.svc.AddComment(s.ctx, owner, models.AddCommentRequest{PollID: poll.ID, Body: "reply", ParentID: &parentID})
	s.Require().NoError(err)

	err = s.svc.DeletePoll(s.ctx, other, poll.ID)
	s.ErrorIs(err, ErrForbidden)
	s.Equal(1, s.count(`SELECT COUNT(*) FROM poll`))

	s.Require().NoError(s.svc.DeletePoll(s.ctx, owner, poll.ID))
	s.Equal(models.LiveEvent{Type: models.EventPollDeleted, PollID: poll.ID}, s.lastEvent())

	_, err = s.svc.GetPoll(s.ctx, poll.ID)
	s.ErrorIs(err, ErrNotFound)
	for _, table := range []string{"poll_option", "vote", "comment", "reaction"} {
		s.Equal(0, s.count(`SELECT COUNT(*) FROM `+table+` WHERE poll_id = $1`, poll.ID), table)
	}

	err = s.svc.DeletePoll(s.ctx, owner, poll.ID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *serviceSuite) TestDeletePollLeavesOtherPolls() {
	owner := s.user("owner")
	keep := s.poll(owner, "A", "B")
	drop := s.poll(owner, "C", "D")

	s.Require().NoError(s.svc.Vote(s.ctx, owner, keep.ID, keep.Options[0].ID))
	s.Require().NoError(s.svc.DeletePoll(s.ctx, owner, drop.ID))

	got, err := s.svc.GetPoll(s.ctx, keep.ID)
	s.Require().NoError(err)
	s.Equal(1, got.TotalVotes)
}
