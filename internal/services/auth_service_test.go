package services

func (s *ServiceTestSuite) TestRegisterAndLogin() {
	user, err := s.auth.Register(s.ctx, RegisterInput{Username: "  alice  ", Password: "secret123", FullName: "Alice A"})
	s.Require().NoError(err)
	s.Equal("alice", user.Username)
	s.NotEqual("secret123", user.PasswordHash)

	loggedIn, err := s.auth.Login(s.ctx, LoginInput{Username: "alice", Password: "secret123"})
	s.Require().NoError(err)
	s.Equal(user.ID, loggedIn.ID)

	_, err = s.auth.Login(s.ctx, LoginInput{Username: "alice", Password: "wrong-password"})
	s.ErrorIs(err, ErrInvalidCredentials)
	s.ErrorIs(err, ErrUnauthenticated)

	_, err = s.auth.Login(s.ctx, LoginInput{Username: "nobody", Password: "secret123"})
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceTestSuite) TestRegisterValidation() {
	s.register("alice")

	_, err := s.auth.Register(s.ctx, RegisterInput{Username: "alice", Password: "secret123"})
	s.ErrorIs(err, ErrUsernameTaken)
	s.ErrorIs(err, ErrConflict)

	_, err = s.auth.Register(s.ctx, RegisterInput{Username: "bob", Password: "123"})
	s.ErrorIs(err, ErrPasswordTooShort)

	_, err = s.auth.Register(s.ctx, RegisterInput{Username: "  ", Password: "secret123"})
	s.ErrorIs(err, ErrValidation)

	_, err = s.auth.Register(s.ctx, RegisterInput{Username: "ab", Password: "secret123"})
	s.ErrorIs(err, ErrValidation)
}

func (s *ServiceTestSuite) TestGetUser() {
	user := s.register("alice")

	found, err := s.auth.GetUser(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal("alice", found.Username)

	_, err = s.auth.GetUser(s.ctx, 0)
	s.ErrorIs(err, ErrUnauthenticated)

	_, err = s.auth.GetUser(s.ctx, 9999)
	s.ErrorIs(err, ErrUserNotFound)
}
