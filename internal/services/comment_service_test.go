package services

func (s *ServiceTestSuite) TestComments() {
	alice := s.register("alice")
	bob := s.register("bob")
	carol := s.register("carol")
	dave := s.register("dave")
	project := s.createProject(alice.ID, "Launch")
	s.addMember(alice.ID, project.ID, bob.ID)
	s.addMember(alice.ID, project.ID, carol.ID)
	task := s.createTask(alice.ID, CreateTaskInput{Name: "Bob's", ProjectID: &project.ID, PerformerID: &bob.ID})

	first, err := s.comments.AddComment(s.ctx, bob.ID, task.ID, "  started  ")
	s.Require().NoError(err)
	s.Equal("started", first.Content)
	s.Equal("bob", first.User.Username)

	_, err = s.comments.AddComment(s.ctx, alice.ID, task.ID, "thanks")
	s.Require().NoError(err)

	comments, err := s.comments.ListComments(s.ctx, alice.ID, task.ID)
	s.Require().NoError(err)
	s.Require().Len(comments, 2)
	s.Equal("started", comments[0].Content)
	s.Equal("thanks", comments[1].Content)

	_, err = s.comments.ListComments(s.ctx, carol.ID, task.ID)
	s.ErrorIs(err, ErrCommentsForbidden)
	_, err = s.comments.AddComment(s.ctx, carol.ID, task.ID, "me too")
	s.ErrorIs(err, ErrForbidden)

	_, err = s.comments.ListComments(s.ctx, dave.ID, task.ID)
	s.ErrorIs(err, ErrNotFound)

	_, err = s.comments.AddComment(s.ctx, bob.ID, task.ID, "   ")
	s.ErrorIs(err, ErrValidation)
}
