// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"strings"
	"time"

	"github.com/danielhkuo/livepoll/models"
)

func (s *serviceSuite) TestAddCommentValidation() {
	owner := s.user("owner")
	poll := s.poll(owner, "A", "B")

	tests := []struct {
		name    string
		req     models.AddCommentRequest
		wantErr error
	}{
		{"blank body", models.AddCommentRequest{PollID: poll.ID, Body: "   "}, ErrEmptyBody},
		{"too long", models.AddCommentRequest{PollID: poll.ID, Body: strings.Repeat("x", MaxCommentLen+1)}, ErrTooLong},
		{"too long once markup is counted", models.AddCommentRequest{PollID: poll.ID, Body: "<b>" + strings.Repeat("x", MaxCommentLen) + "</b>"}, ErrTooLong},
		{"empty element", models.AddCommentRequest{PollID: poll.ID, Body: "<b></b>"}, ErrMarkup},
		{"script", models.AddCommentRequest{PollID: poll.ID, Body: "<script>alert(1)</script>hi"}, ErrMarkup},
		{"inline element", models.AddCommentRequest{PollID: poll.ID, Body: "a <b>bold</b> claim"}, ErrMarkup},
		{"html comment", models.AddCommentRequest{PollID: poll.ID, Body: "hi <!-- there -->"}, ErrMarkup},
		{"author name too long", models.AddCommentRequest{PollID: poll.ID, Body: "hi", AuthorName: strPtr(strings.Repeat("n", MaxAuthorNameLen+1))}, ErrValidation},
		{"author name markup", models.AddCommentRequest{PollID: poll.ID, Body: "hi", AuthorName: strPtr("<i>Tom</i>")}, ErrMarkup},
		{"missing poll", models.AddCommentRequest{PollID: "missing", Body: "hi"}, ErrNotFound},
		{"missing parent", models.AddCommentRequest{PollID: poll.ID, Body: "hi", ParentID: strPtr("missing")}, ErrNotFound},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.svc.AddComment(s.ctx, owner, tt.req)
			s.ErrorIs(err, tt.wantErr)
		})
	}

	s.Equal(0, s.count(`SELECT COUNT(*) FROM comment`))
}

func (s *serviceSuite) TestAddCommentLengthIsInCharacters() {
	owner := s.user("owner")
	poll := s.poll(owner, "A", "B")

	_, err := s.svc.AddComment(s.ctx, owner, models.AddCommentRequest{PollID: poll.ID, Body: strings.Repeat("é", MaxCommentLen)})
	s.NoError(err)
}

func (s *serviceSuite) TestAddCommentStoresTextAsWritten() {
	owner := s.user("owner")
	poll := s.poll(owner, "A", "B")

	bodies := []string{
		"x<y and y>z",
		"if x<y and y>z then x<z",
		"use <T any> generics",
		"Tom & Jerry's pick",
		"&lt;img src=x onerror=alert(1)&gt;",
	}
	for _, body := range bodies {
		s.clock.Advance(time.Second)
		_, err := s.svc.AddComment(s.ctx, owner, models.AddCommentRequest{
			PollID:     poll.ID,
			Body:       "  " + body + "\n",
			AuthorName: strPtr(" Tom & Jerry "),
		})
		s.Require().NoError(err, body)
	}

	threads, err := s.svc.GetPollComments(s.ctx, poll.ID)
	s.Require().NoError(err)
	s.Require().Len(threads, len(bodies))
	for i, thread := range threads {
		s.Equal(bodies[len(bodies)-1-i], thread.Body)
		s.Require().NotNil(thread.AuthorName)
		s.Equal("Tom & Jerry", *thread.AuthorName)
	}
	s.Equal(models.LiveEvent{Type: models.EventCommentsChanged, PollID: poll.ID}, s.lastEvent())
}

func (s *serviceSuite) TestRepliesStayOneLevelDeep() {
	owner := s.user("owner")
	poll := s.poll(owner, "A", "B")
	otherPoll := s.poll(owner, "C", "D")

	topID, err := s.svc.AddComment(s.ctx, owner, models.AddCommentRequest{PollID: poll.ID, Body: "top"})
	s.Require().NoError(err)
	s.clock.Advance(time.Second)
	replyID, err := s.svc.AddComment(s.ctx, owner, models.AddCommentRequest{PollID: poll.ID, Body: "first", ParentID: &topID})
	s.Require().NoError(err)
	s.clock.Advance(time.Second)
	_, err = s.svc.AddComment(s.ctx, owner, models.AddCommentRequest{PollID: poll.ID, Body: "second", ParentID: &topID})
	s.Require().NoError(err)

	_, err = s.svc.AddComment(s.ctx, owner, models.AddCommentRequest{PollID: poll.ID, Body: "nested", ParentID: &replyID})
	s.ErrorIs(err, ErrInvalidParent)

	_, err = s.svc.AddComment(s.ctx, owner, models.AddCommentRequest{PollID: otherPoll.ID, Body: "cross", ParentID: &topID})
	s.ErrorIs(err, ErrInvalidParent)

	threads, err := s.svc.GetPollComments(s.ctx, poll.ID)
	s.Require().NoError(err)
	s.Require().Len(threads, 1)
	s.Require().Len(threads[0].Replies, 2)
	s.Equal("first", threads[0].Replies[0].Body)
	s.Equal("second", threads[0].Replies[1].Body)
	s.Require().NotNil(threads[0].Replies[0].Author)
	s.Equal(owner.ID, threads[0].Replies[0].Author.ID)

	others, err := s.svc.GetPollComments(s.ctx, otherPoll.ID)
	s.Require().NoError(err)
	s.NotNil(others)
	s.Empty(others)
}

func (s *serviceSuite) TestCommentsNewestFirst() {
	owner := s.user("owner")
	poll := s.poll(owner, "A", "B")

	for _, body := range []string{"one", "two", "three"} {
		s.clock.Advance(time.Second)
		_, err := s.svc.AddComment(s.ctx, owner, models.AddCommentRequest{PollID: poll.ID, Body: body})
		s.Require().NoError(err)
	}

	threads, err := s.svc.GetPollComments(s.ctx, poll.ID)
	s.Require().NoError(err)
	s.Require().Len(threads, 3)
	s.Equal("three", threads[0].Body)
	s.Equal("two", threads[1].Body)
	s.Equal("one", threads[2].Body)
}

func (s *serviceSuite) TestDeleteComment() {
	owner := s.user("owner")
	other := s.user("other")
	poll := s.poll(owner, "A", "B")

	topID, err := s.svc.AddComment(s.ctx, other, models.AddCommentRequest{PollID: poll.ID, Body: "top"})
	s.Require().NoError(err)
	replyID, err := s.svc.AddComment(s.ctx, owner, models.AddCommentRequest{PollID: poll.ID, Body: "reply", ParentID: &topID})
	s.Require().NoError(err)

	s.ErrorIs(s.svc.DeleteComment(s.ctx, owner, "missing"), ErrNotFound)
	s.ErrorIs(s.svc.DeleteComment(s.ctx, owner, topID), ErrForbidden)

	// a reply can be removed on its own
	s.Require().NoError(s.svc.DeleteComment(s.ctx, owner, replyID))
	threads, err := s.svc.GetPollComments(s.ctx, poll.ID)
	s.Require().NoError(err)
	s.Require().Len(threads, 1)
	s.Empty(threads[0].Replies)

	_, err = s.svc.AddComment(s.ctx, owner, models.AddCommentRequest{PollID: poll.ID, Body: "again", ParentID: &topID})
	s.Require().NoError(err)

	// removing the top-level comment takes its replies along
	s.Require().NoError(s.svc.DeleteComment(s.ctx, other, topID))
	s.Equal(0, s.count(`SELECT COUNT(*) FROM comment WHERE poll_id = $1`, poll.ID))
	s.Equal(models.LiveEvent{Type: models.EventCommentsChanged, PollID: poll.ID}, s.lastEvent())
}
