package services

func (s *ServiceTestSuite) TestGroupLifecycle() {
	alice := s.register("alice")
	project := s.createProject(alice.ID, "Launch")

	group, err := s.groups.CreateGroup(s.ctx, alice.ID, project.ID, " Doing ")
	s.Require().NoError(err)
	s.Equal("Doing", group.Name)

	renamed, err := s.groups.RenameGroup(s.ctx, alice.ID, project.ID, group.ID, "In progress")
	s.Require().NoError(err)
	s.Equal("In progress", renamed.Name)

	groups, err := s.groups.ListGroups(s.ctx, alice.ID, project.ID)
	s.Require().NoError(err)
	s.Require().Len(groups, 2)
	s.Equal("To do", groups[0].Name)
	s.Equal("In progress", groups[1].Name)

	_, err = s.groups.CreateGroup(s.ctx, alice.ID, project.ID, "")
	s.ErrorIs(err, ErrValidation)

	s.Require().NoError(s.groups.DeleteGroup(s.ctx, alice.ID, project.ID, group.ID))
	groups, err = s.groups.ListGroups(s.ctx, alice.ID, project.ID)
	s.Require().NoError(err)
	s.Len(groups, 1)
}

func (s *ServiceTestSuite) TestGroupManagementIsManagerOnly() {
	alice := s.register("alice")
	bob := s.register("bob")
	project := s.createProject(alice.ID, "Launch")
	s.addMember(alice.ID, project.ID, bob.ID)
	groupID := project.Groups[0].ID

	_, err := s.groups.CreateGroup(s.ctx, bob.ID, project.ID, "Mine")
	s.ErrorIs(err, ErrForbidden)
	_, err = s.groups.RenameGroup(s.ctx, bob.ID, project.ID, groupID, "Mine")
	s.ErrorIs(err, ErrForbidden)
	s.ErrorIs(s.groups.DeleteGroup(s.ctx, bob.ID, project.ID, groupID), ErrForbidden)

	groups, err := s.groups.ListGroups(s.ctx, bob.ID, project.ID)
	s.Require().NoError(err)
	s.Len(groups, 1)
}

func (s *ServiceTestSuite) TestGroupMustBelongToProject() {
	alice := s.register("alice")
	first := s.createProject(alice.ID, "First")
	second := s.createProject(alice.ID, "Second")

	_, err := s.groups.RenameGroup(s.ctx, alice.ID, first.ID, second.Groups[0].ID, "Moved")
	s.ErrorIs(err, ErrGroupNotFound)
	s.ErrorIs(s.groups.DeleteGroup(s.ctx, alice.ID, first.ID, second.Groups[0].ID), ErrGroupNotFound)
}

func (s *ServiceTestSuite) TestDeleteGroup_ActiveTaskGuard() {
	alice := s.register("alice")
	project := s.createProject(alice.ID, "Launch")
	groupID := project.Groups[0].ID
	task := s.createTask(alice.ID, CreateTaskInput{Name: "Blocker", ProjectID: &project.ID, GroupID: &groupID})

	err := s.groups.DeleteGroup(s.ctx, alice.ID, project.ID, groupID)
	s.ErrorIs(err, ErrGroupHasTasks)
	s.ErrorIs(err, ErrConflict)

	groups, err := s.groups.ListGroups(s.ctx, alice.ID, project.ID)
	s.Require().NoError(err)
	s.Require().Len(groups, 1)
	s.Equal(groupID, groups[0].ID)

	// A completed task still blocks deletion until it is archived.
	_, err = s.tasks.ToggleState(s.ctx, alice.ID, task.ID)
	s.Require().NoError(err)
	s.ErrorIs(s.groups.DeleteGroup(s.ctx, alice.ID, project.ID, groupID), ErrConflict)

	_, err = s.tasks.ArchiveTask(s.ctx, alice.ID, task.ID)
	s.Require().NoError(err)
	s.Require().NoError(s.groups.DeleteGroup(s.ctx, alice.ID, project.ID, groupID))

	archived, err := s.tasks.GetTask(s.ctx, alice.ID, task.ID)
	s.Require().NoError(err)
	s.Nil(archived.GroupID)
	s.True(archived.IsArchive)
}
