package services

func (s *ServiceTestSuite) TestUpdateProfile() {
	alice := s.register("alice")
	s.register("bob")

	updated, err := s.users.UpdateProfile(s.ctx, alice.ID, UpdateProfileInput{
		FullName:    ptr("Alice Liddell"),
		Description: ptr("Down the rabbit hole"),
	})
	s.Require().NoError(err)
	s.Equal("alice", updated.Username)
	s.Equal("Alice Liddell", updated.FullName)
	s.Equal("Down the rabbit hole", updated.Description)

	_, err = s.users.UpdateProfile(s.ctx, alice.ID, UpdateProfileInput{Username: ptr("bob")})
	s.ErrorIs(err, ErrUsernameTaken)

	// Keeping one's own username is not a conflict.
	_, err = s.users.UpdateProfile(s.ctx, alice.ID, UpdateProfileInput{Username: ptr("alice")})
	s.NoError(err)
}

func (s *ServiceTestSuite) TestChangePassword() {
	alice := s.register("alice")

	err := s.users.ChangePassword(s.ctx, alice.ID, ChangePasswordInput{CurrentPassword: "wrong", NewPassword: "another123"})
	s.ErrorIs(err, ErrWrongPassword)

	err = s.users.ChangePassword(s.ctx, alice.ID, ChangePasswordInput{CurrentPassword: "secret123", NewPassword: "abc"})
	s.ErrorIs(err, ErrPasswordTooShort)

	s.Require().NoError(s.users.ChangePassword(s.ctx, alice.ID, ChangePasswordInput{CurrentPassword: "secret123", NewPassword: "another123"}))

	_, err = s.auth.Login(s.ctx, LoginInput{Username: "alice", Password: "secret123"})
	s.ErrorIs(err, ErrInvalidCredentials)
	_, err = s.auth.Login(s.ctx, LoginInput{Username: "alice", Password: "another123"})
	s.NoError(err)
}

func (s *ServiceTestSuite) TestSearchUsers() {
	alice := s.register("alice")
	s.register("alicia")
	s.register("bob")

	users, err := s.users.SearchUsers(s.ctx, alice.ID, "ALI")
	s.Require().NoError(err)
	s.Len(users, 2)

	_, err = s.users.SearchUsers(s.ctx, alice.ID, " ")
	s.ErrorIs(err, ErrValidation)

	_, err = s.users.SearchUsers(s.ctx, 0, "ali")
	s.ErrorIs(err, ErrUnauthenticated)
}
