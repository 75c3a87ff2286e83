// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"github.com/danielhkuo/livepoll/auth"
)

func (s *serviceSuite) TestUpsertUserCreatesThenRefreshes() {
	created, err := s.svc.UpsertUser(s.ctx, auth.Identity{
		ExternalID: "user_1",
		GivenName:  "Ada",
		FamilyName: "Lovelace",
		ImageURL:   "https://img.test/ada.png",
		Email:      "ada@example.com",
	})
	s.Require().NoError(err)
	s.Require().NotNil(created.Name)
	s.Equal("Ada Lovelace", *created.Name)
	s.Require().NotNil(created.Email)
	s.Equal("ada@example.com", *created.Email)

	updated, err := s.svc.UpsertUser(s.ctx, auth.Identity{ExternalID: "user_1", GivenName: "Ada"})
	s.Require().NoError(err)
	s.Equal(created.ID, updated.ID)
	s.Equal("Ada", *updated.Name)
	s.Nil(updated.Email)
	s.Nil(updated.ImageURL)

	s.Equal(1, s.count(`SELECT COUNT(*) FROM app_user`))
}

func (s *serviceSuite) TestUpsertUserWithoutNames() {
	u, err := s.svc.UpsertUser(s.ctx, auth.Identity{ExternalID: "anon"})
	s.Require().NoError(err)
	s.Nil(u.Name)
}

func (s *serviceSuite) TestUpsertUserRequiresExternalID() {
	_, err := s.svc.UpsertUser(s.ctx, auth.Identity{ExternalID: "  "})
	s.ErrorIs(err, ErrValidation)
}

func (s *serviceSuite) TestUserByExternalID() {
	u := s.user("user_1")

	got, err := s.svc.UserByExternalID(s.ctx, "user_1")
	s.Require().NoError(err)
	s.Equal(u.ID, got.ID)

	_, err = s.svc.UserByExternalID(s.ctx, "missing")
	s.ErrorIs(err, ErrNotFound)
}

func (s *serviceSuite) TestDeleteUserByExternalID() {
	s.user("user_1")

	s.Require().NoError(s.svc.DeleteUserByExternalID(s.ctx, "user_1"))
	_, err := s.svc.UserByExternalID(s.ctx, "user_1")
	s.ErrorIs(err, ErrNotFound)

	// absent users are ignored
	s.NoError(s.svc.DeleteUserByExternalID(s.ctx, "user_1"))
}

func (s *serviceSuite) TestResolveActorUpserts() {
	actor, err := s.svc.ResolveActor(s.ctx, auth.Identity{ExternalID: "session_user", GivenName: "Sam"})
	s.Require().NoError(err)
	s.NotEmpty(actor.ID)

	again, err := s.svc.ResolveActor(s.ctx, auth.Identity{ExternalID: "session_user", GivenName: "Sam"})
	s.Require().NoError(err)
	s.Equal(actor.ID, again.ID)
}

func (s *serviceSuite) TestDeletedCreatorResolvesToNil() {
	owner := s.user("owner")
	poll := s.poll(owner, "A", "B")
	s.Require().NotNil(poll.Creator)

	s.Require().NoError(s.svc.DeleteUserByExternalID(s.ctx, "owner"))

	got, err := s.svc.GetPoll(s.ctx, poll.ID)
	s.Require().NoError(err)
	s.Nil(got.Creator)
}
