package services

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/Thanhfdq/task-app/internal/constants"
)

func (s *ServiceTestSuite) TestCreateProject_Defaults() {
	alice := s.register("alice")

	project, err := s.projects.CreateProject(s.ctx, alice.ID, CreateProjectInput{
		Name:      "Sprint 1",
		StartDate: day(2025, 1, 1),
		EndDate:   day(2025, 1, 31),
	})
	s.Require().NoError(err)
	s.Equal(alice.ID, project.ManagerID)
	s.Equal("alice", project.Manager.Username)
	s.Require().Len(project.Members, 1)
	s.Equal(alice.ID, project.Members[0].UserID)
	s.Require().Len(project.Groups, 1)
	s.Equal(constants.DefaultGroupName, project.Groups[0].Name)

	reloaded, err := s.projects.GetProject(s.ctx, alice.ID, project.ID)
	s.Require().NoError(err)
	s.Equal("Sprint 1", reloaded.Name)
	s.Equal("2025-01-01", reloaded.StartDate.Format(constants.DateLayout))
	s.Equal("2025-01-31", reloaded.EndDate.Format(constants.DateLayout))
}

func (s *ServiceTestSuite) TestCreateProject_Validation() {
	alice := s.register("alice")

	_, err := s.projects.CreateProject(s.ctx, alice.ID, CreateProjectInput{Name: " "})
	s.ErrorIs(err, ErrValidation)

	_, err = s.projects.CreateProject(s.ctx, alice.ID, CreateProjectInput{Name: "Backwards", StartDate: day(2025, 2, 1), EndDate: day(2025, 1, 1)})
	s.ErrorIs(err, ErrDateRange)

	_, err = s.projects.CreateProject(s.ctx, 0, CreateProjectInput{Name: "Anon"})
	s.ErrorIs(err, ErrUnauthenticated)
}

func (s *ServiceTestSuite) TestProjectVisibility() {
	alice := s.register("alice")
	bob := s.register("bob")
	carol := s.register("carol")
	project := s.createProject(alice.ID, "Launch")
	s.addMember(alice.ID, project.ID, bob.ID)

	_, err := s.projects.GetProject(s.ctx, carol.ID, project.ID)
	s.ErrorIs(err, ErrNotFound)
	_, err = s.groups.ListGroups(s.ctx, carol.ID, project.ID)
	s.ErrorIs(err, ErrNotFound)
	_, err = s.projects.ListMembers(s.ctx, carol.ID, project.ID)
	s.ErrorIs(err, ErrNotFound)
	_, err = s.tasks.ListProjectTasks(s.ctx, carol.ID, project.ID)
	s.ErrorIs(err, ErrNotFound)

	got, err := s.projects.GetProject(s.ctx, bob.ID, project.ID)
	s.Require().NoError(err)
	s.Equal(project.ID, got.ID)

	_, err = s.projects.UpdateProject(s.ctx, bob.ID, project.ID, UpdateProjectInput{Name: ptr("Hijacked")})
	s.ErrorIs(err, ErrForbidden)
	_, err = s.projects.ArchiveProject(s.ctx, bob.ID, project.ID)
	s.ErrorIs(err, ErrForbidden)
	s.ErrorIs(s.projects.DeleteProject(s.ctx, bob.ID, project.ID), ErrForbidden)

	_, err = s.projects.UpdateProject(s.ctx, carol.ID, project.ID, UpdateProjectInput{Name: ptr("Hijacked")})
	s.ErrorIs(err, ErrNotFound)

	listed, err := s.projects.ListProjects(s.ctx, carol.ID, nil)
	s.Require().NoError(err)
	s.Empty(listed)
}

func (s *ServiceTestSuite) TestUpdateProject() {
	alice := s.register("alice")
	project := s.createProject(alice.ID, "Launch")

	updated, err := s.projects.UpdateProject(s.ctx, alice.ID, project.ID, UpdateProjectInput{
		Description: ptr("Go to market"),
		Label:       ptr(" marketing "),
		StartDate:   day(2025, 3, 1),
		EndDate:     day(2025, 3, 31),
	})
	s.Require().NoError(err)
	s.Equal("Go to market", updated.Description)
	s.Equal("marketing", updated.Label)
	s.Equal("2025-03-31", updated.EndDate.Format(constants.DateLayout))

	_, err = s.projects.UpdateProject(s.ctx, alice.ID, project.ID, UpdateProjectInput{StartDate: day(2025, 4, 15)})
	s.ErrorIs(err, ErrDateRange)

	updated, err = s.projects.UpdateProject(s.ctx, alice.ID, project.ID, UpdateProjectInput{ClearEndDate: true})
	s.Require().NoError(err)
	s.Nil(updated.EndDate)
	s.Equal("2025-03-01", updated.StartDate.Format(constants.DateLayout))

	_, err = s.projects.UpdateProject(s.ctx, alice.ID, project.ID, UpdateProjectInput{Name: ptr("")})
	s.ErrorIs(err, ErrValidation)
}

func (s *ServiceTestSuite) TestUpdateProject_CloseAndReopen() {
	alice := s.register("alice")
	project := s.createProject(alice.ID, "Launch")

	closed, err := s.projects.UpdateProject(s.ctx, alice.ID, project.ID, UpdateProjectInput{ProjectState: ptr(true)})
	s.Require().NoError(err)
	s.True(closed.ProjectState)
	s.Require().NotNil(closed.CompleteDate)
	s.Equal("2025-03-15", closed.CompleteDate.Format(constants.DateLayout))

	reopened, err := s.projects.UpdateProject(s.ctx, alice.ID, project.ID, UpdateProjectInput{ProjectState: ptr(false)})
	s.Require().NoError(err)
	s.False(reopened.ProjectState)
	s.Nil(reopened.CompleteDate)

	closed, err = s.projects.UpdateProject(s.ctx, alice.ID, project.ID, UpdateProjectInput{ProjectState: ptr(true), CompleteDate: day(2025, 3, 10)})
	s.Require().NoError(err)
	s.Equal("2025-03-10", closed.CompleteDate.Format(constants.DateLayout))
}

func (s *ServiceTestSuite) TestArchiveRestoreProject() {
	alice := s.register("alice")
	project := s.createProject(alice.ID, "Launch")
	other := s.createProject(alice.ID, "Other")

	archived, err := s.projects.ArchiveProject(s.ctx, alice.ID, project.ID)
	s.Require().NoError(err)
	s.True(archived.IsArchive)

	archivedOnly := true
	listed, err := s.projects.ListProjects(s.ctx, alice.ID, &archivedOnly)
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.Equal(project.ID, listed[0].ID)

	recent, err := s.projects.RecentProjects(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Require().Len(recent, 1)
	s.Equal(other.ID, recent[0].ID)

	restored, err := s.projects.RestoreProject(s.ctx, alice.ID, project.ID)
	s.Require().NoError(err)
	s.False(restored.IsArchive)
}

func (s *ServiceTestSuite) TestDeleteProject_RemovesAttachments() {
	alice := s.register("alice")
	project := s.createProject(alice.ID, "Launch")
	task := s.createTask(alice.ID, CreateTaskInput{Name: "Task", ProjectID: &project.ID})

	_, err := s.files.UploadFiles(s.ctx, alice.ID, task.ID, []Upload{textUpload("notes.txt", "hello")})
	s.Require().NoError(err)
	dir := filepath.Join(s.store.Root(), strconv.FormatUint(task.ID, 10))
	s.DirExists(dir)

	s.Require().NoError(s.projects.DeleteProject(s.ctx, alice.ID, project.ID))

	_, err = s.projects.GetProject(s.ctx, alice.ID, project.ID)
	s.ErrorIs(err, ErrProjectNotFound)
	_, err = s.tasks.GetTask(s.ctx, alice.ID, task.ID)
	s.ErrorIs(err, ErrTaskNotFound)
	_, statErr := os.Stat(dir)
	s.True(os.IsNotExist(statErr))
}

func (s *ServiceTestSuite) TestMembers() {
	alice := s.register("alice")
	bob := s.register("bob")
	project := s.createProject(alice.ID, "Launch")

	added, err := s.projects.AddMember(s.ctx, alice.ID, project.ID, bob.ID)
	s.Require().NoError(err)
	s.Equal("bob", added.Username)

	_, err = s.projects.AddMember(s.ctx, alice.ID, project.ID, bob.ID)
	s.ErrorIs(err, ErrAlreadyMember)
	_, err = s.projects.AddMember(s.ctx, alice.ID, project.ID, alice.ID)
	s.ErrorIs(err, ErrConflict)
	_, err = s.projects.AddMember(s.ctx, alice.ID, project.ID, 9999)
	s.ErrorIs(err, ErrUserNotFound)
	_, err = s.projects.AddMember(s.ctx, bob.ID, project.ID, 9999)
	s.ErrorIs(err, ErrForbidden)

	members, err := s.projects.ListMembers(s.ctx, bob.ID, project.ID)
	s.Require().NoError(err)
	s.Len(members, 2)
}

func (s *ServiceTestSuite) TestRemoveMember_TaskGuard() {
	alice := s.register("alice")
	bob := s.register("bob")
	project := s.createProject(alice.ID, "Launch")
	s.addMember(alice.ID, project.ID, bob.ID)
	task := s.createTask(alice.ID, CreateTaskInput{Name: "Bob's job", ProjectID: &project.ID, PerformerID: &bob.ID})

	err := s.projects.RemoveMember(s.ctx, alice.ID, project.ID, bob.ID)
	s.ErrorIs(err, ErrMemberHasTasks)
	s.ErrorIs(err, ErrConflict)
	s.ErrorIs(s.projects.LeaveProject(s.ctx, bob.ID, project.ID), ErrConflict)

	members, err := s.projects.ListMembers(s.ctx, alice.ID, project.ID)
	s.Require().NoError(err)
	s.Len(members, 2)

	// Archived tasks no longer hold the member in the project.
	_, err = s.tasks.ArchiveTask(s.ctx, bob.ID, task.ID)
	s.Require().NoError(err)
	s.Require().NoError(s.projects.LeaveProject(s.ctx, bob.ID, project.ID))

	_, err = s.projects.GetProject(s.ctx, bob.ID, project.ID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *ServiceTestSuite) TestRemoveMember_Guards() {
	alice := s.register("alice")
	bob := s.register("bob")
	carol := s.register("carol")
	project := s.createProject(alice.ID, "Launch")
	s.addMember(alice.ID, project.ID, bob.ID)

	s.ErrorIs(s.projects.LeaveProject(s.ctx, alice.ID, project.ID), ErrMemberIsManager)
	s.ErrorIs(s.projects.RemoveMember(s.ctx, alice.ID, project.ID, alice.ID), ErrMemberIsManager)
	s.ErrorIs(s.projects.RemoveMember(s.ctx, alice.ID, project.ID, carol.ID), ErrNotMember)
	s.ErrorIs(s.projects.RemoveMember(s.ctx, bob.ID, project.ID, alice.ID), ErrForbidden)
	s.ErrorIs(s.projects.LeaveProject(s.ctx, carol.ID, project.ID), ErrNotFound)

	s.Require().NoError(s.projects.RemoveMember(s.ctx, alice.ID, project.ID, bob.ID))
	members, err := s.projects.ListMembers(s.ctx, alice.ID, project.ID)
	s.Require().NoError(err)
	s.Require().Len(members, 1)
	s.Equal("alice", members[0].Username)
}
