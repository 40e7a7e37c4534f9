package services

import (
	"errors"
	"time"

	"github.com/Thanhfdq/task-app/internal/duedate"
)

func (s *ServiceTestSuite) TestCreateTask_Project() {
	alice := s.register("alice")
	bob := s.register("bob")
	carol := s.register("carol")
	project := s.createProject(alice.ID, "Launch")
	s.addMember(alice.ID, project.ID, bob.ID)

	task, err := s.tasks.CreateTask(s.ctx, bob.ID, CreateTaskInput{
		Name:      "Write copy",
		Label:     " docs , ,urgent",
		ProjectID: &project.ID,
		StartDate: day(2025, 3, 1),
		EndDate:   day(2025, 3, 20),
		Progress:  40,
	})
	s.Require().NoError(err)
	s.Equal(bob.ID, task.PerformerID)
	s.Equal("docs,urgent", task.Label)
	s.Require().NotNil(task.GroupID)
	s.Equal(project.Groups[0].ID, *task.GroupID)
	s.Require().NotNil(task.Project)
	s.Equal("Launch", task.Project.Name)
	s.Equal("bob", task.Performer.Username)

	_, err = s.tasks.CreateTask(s.ctx, alice.ID, CreateTaskInput{Name: "Outsourced", ProjectID: &project.ID, PerformerID: &carol.ID})
	s.ErrorIs(err, ErrInvalidPerformer)

	_, err = s.tasks.CreateTask(s.ctx, carol.ID, CreateTaskInput{Name: "Sneaky", ProjectID: &project.ID})
	s.ErrorIs(err, ErrNotFound)

	other := s.createProject(alice.ID, "Other")
	_, err = s.tasks.CreateTask(s.ctx, alice.ID, CreateTaskInput{Name: "Cross", ProjectID: &project.ID, GroupID: &other.Groups[0].ID})
	s.ErrorIs(err, ErrGroupNotFound)
}

func (s *ServiceTestSuite) TestCreateTask_Validation() {
	alice := s.register("alice")

	_, err := s.tasks.CreateTask(s.ctx, alice.ID, CreateTaskInput{Name: ""})
	s.ErrorIs(err, ErrValidation)
	_, err = s.tasks.CreateTask(s.ctx, alice.ID, CreateTaskInput{Name: "Too much", Progress: 101})
	s.ErrorIs(err, ErrProgressRange)
	_, err = s.tasks.CreateTask(s.ctx, alice.ID, CreateTaskInput{Name: "Negative", Progress: -1})
	s.ErrorIs(err, ErrProgressRange)
	_, err = s.tasks.CreateTask(s.ctx, alice.ID, CreateTaskInput{Name: "Backwards", StartDate: day(2025, 3, 2), EndDate: day(2025, 3, 1)})
	s.ErrorIs(err, ErrDateRange)
	_, err = s.tasks.CreateTask(s.ctx, alice.ID, CreateTaskInput{Name: "Grouped", GroupID: ptr(uint64(1))})
	s.ErrorIs(err, ErrPersonalTaskGroup)
	_, err = s.tasks.CreateTask(s.ctx, 0, CreateTaskInput{Name: "Anon"})
	s.ErrorIs(err, ErrUnauthenticated)
}

func (s *ServiceTestSuite) TestPersonalTaskVisibility() {
	alice := s.register("alice")
	bob := s.register("bob")

	task := s.createTask(alice.ID, CreateTaskInput{Name: "Buy milk", PerformerID: &bob.ID})
	s.Equal(alice.ID, task.PerformerID)
	s.Nil(task.ProjectID)
	s.Nil(task.GroupID)

	_, err := s.tasks.GetTask(s.ctx, bob.ID, task.ID)
	s.ErrorIs(err, ErrTaskNotFound)
	_, err = s.tasks.ToggleState(s.ctx, bob.ID, task.ID)
	s.ErrorIs(err, ErrTaskNotFound)
	s.ErrorIs(s.tasks.DeleteTask(s.ctx, bob.ID, task.ID), ErrTaskNotFound)

	tasks, total, err := s.tasks.SearchTasks(s.ctx, SearchTasksInput{ActorID: bob.ID})
	s.Require().NoError(err)
	s.Zero(total)
	s.Empty(tasks)

	_, err = s.tasks.MoveTask(s.ctx, alice.ID, task.ID, 1)
	s.ErrorIs(err, ErrPersonalTaskMove)
}

func (s *ServiceTestSuite) TestToggleState_Involutive() {
	alice := s.register("alice")
	task := s.createTask(alice.ID, CreateTaskInput{Name: "Ship it"})
	s.False(task.TaskState)
	s.Nil(task.CompleteDate)

	done, err := s.tasks.ToggleState(s.ctx, alice.ID, task.ID)
	s.Require().NoError(err)
	s.True(done.TaskState)
	s.Require().NotNil(done.CompleteDate)
	s.True(done.CompleteDate.Equal(fixedNow))

	open, err := s.tasks.ToggleState(s.ctx, alice.ID, task.ID)
	s.Require().NoError(err)
	s.False(open.TaskState)
	s.Nil(open.CompleteDate)
}

func (s *ServiceTestSuite) TestArchiveRestore_KeepsOverdue() {
	alice := s.register("alice")
	project := s.createProject(alice.ID, "Launch")
	yesterday := fixedNow.AddDate(0, 0, -1)
	task := s.createTask(alice.ID, CreateTaskInput{Name: "Late", ProjectID: &project.ID, EndDate: &yesterday})
	s.Equal(duedate.StatusOverdue, duedate.Classify(task.TaskState, task.EndDate, fixedNow))

	_, err := s.tasks.ArchiveTask(s.ctx, alice.ID, task.ID)
	s.Require().NoError(err)

	active, err := s.tasks.ListProjectTasks(s.ctx, alice.ID, project.ID)
	s.Require().NoError(err)
	s.Empty(active)
	active, _, err = s.tasks.SearchTasks(s.ctx, SearchTasksInput{ActorID: alice.ID})
	s.Require().NoError(err)
	s.Empty(active)

	archived, err := s.tasks.ListArchivedProjectTasks(s.ctx, alice.ID, project.ID)
	s.Require().NoError(err)
	s.Require().Len(archived, 1)
	s.Equal(task.ID, archived[0].ID)

	restored, err := s.tasks.RestoreTask(s.ctx, alice.ID, task.ID)
	s.Require().NoError(err)
	s.False(restored.IsArchive)
	s.Equal(duedate.StatusOverdue, duedate.Classify(restored.TaskState, restored.EndDate, fixedNow))

	active, err = s.tasks.ListProjectTasks(s.ctx, alice.ID, project.ID)
	s.Require().NoError(err)
	s.Require().Len(active, 1)
	s.Equal(task.ID, active[0].ID)
}

func (s *ServiceTestSuite) TestMoveTask() {
	alice := s.register("alice")
	project := s.createProject(alice.ID, "Launch")
	todo := project.Groups[0].ID
	doing, err := s.groups.CreateGroup(s.ctx, alice.ID, project.ID, "Doing")
	s.Require().NoError(err)
	task := s.createTask(alice.ID, CreateTaskInput{Name: "Card", ProjectID: &project.ID, GroupID: &todo})

	moved, err := s.tasks.MoveTask(s.ctx, alice.ID, task.ID, doing.ID)
	s.Require().NoError(err)
	s.Equal(doing.ID, *moved.GroupID)
	s.Equal("Doing", moved.Group.Name)

	// Same group: nothing is written, so updated_at is unchanged.
	again, err := s.tasks.MoveTask(s.ctx, alice.ID, task.ID, doing.ID)
	s.Require().NoError(err)
	s.Equal(doing.ID, *again.GroupID)
	s.True(moved.UpdatedAt.Equal(again.UpdatedAt))

	other := s.createProject(alice.ID, "Other")
	_, err = s.tasks.MoveTask(s.ctx, alice.ID, task.ID, other.Groups[0].ID)
	s.ErrorIs(err, ErrGroupNotFound)
	_, err = s.tasks.MoveTask(s.ctx, alice.ID, task.ID, 9999)
	s.ErrorIs(err, ErrGroupNotFound)
}

func (s *ServiceTestSuite) TestUpdateTask() {
	alice := s.register("alice")
	bob := s.register("bob")
	project := s.createProject(alice.ID, "Launch")
	s.addMember(alice.ID, project.ID, bob.ID)
	task := s.createTask(alice.ID, CreateTaskInput{Name: "Draft", ProjectID: &project.ID, EndDate: day(2025, 4, 1)})

	updated, err := s.tasks.UpdateTask(s.ctx, bob.ID, task.ID, UpdateTaskInput{
		Name:        ptr("Final draft"),
		Progress:    ptr(80),
		PerformerID: &bob.ID,
		StartDate:   day(2025, 3, 20),
	})
	s.Require().NoError(err)
	s.Equal("Final draft", updated.Name)
	s.Equal(80, updated.Progress)
	s.Equal(bob.ID, updated.PerformerID)
	s.Equal("2025-03-20", updated.StartDate.Format("2006-01-02"))

	updated, err = s.tasks.UpdateTask(s.ctx, bob.ID, task.ID, UpdateTaskInput{ClearEndDate: true, ClearStartDate: true})
	s.Require().NoError(err)
	s.Nil(updated.EndDate)
	s.Nil(updated.StartDate)

	_, err = s.tasks.UpdateTask(s.ctx, bob.ID, task.ID, UpdateTaskInput{Progress: ptr(150)})
	s.ErrorIs(err, ErrProgressRange)
	_, err = s.tasks.UpdateTask(s.ctx, bob.ID, task.ID, UpdateTaskInput{Name: ptr("  ")})
	s.ErrorIs(err, ErrValidation)
	_, err = s.tasks.UpdateTask(s.ctx, bob.ID, task.ID, UpdateTaskInput{PerformerID: ptr(uint64(9999))})
	s.ErrorIs(err, ErrInvalidPerformer)
}

func (s *ServiceTestSuite) TestUpdateTask_ParentChecks() {
	alice := s.register("alice")
	project := s.createProject(alice.ID, "Launch")
	root := s.createTask(alice.ID, CreateTaskInput{Name: "Root", ProjectID: &project.ID})
	child := s.createTask(alice.ID, CreateTaskInput{Name: "Child", ProjectID: &project.ID, ParentTaskID: &root.ID})
	grandchild := s.createTask(alice.ID, CreateTaskInput{Name: "Grandchild", ProjectID: &project.ID, ParentTaskID: &child.ID})
	personal := s.createTask(alice.ID, CreateTaskInput{Name: "Personal"})

	_, err := s.tasks.UpdateTask(s.ctx, alice.ID, root.ID, UpdateTaskInput{ParentTaskID: &grandchild.ID})
	s.ErrorIs(err, ErrParentTaskCycle)
	_, err = s.tasks.UpdateTask(s.ctx, alice.ID, root.ID, UpdateTaskInput{ParentTaskID: &root.ID})
	s.ErrorIs(err, ErrParentTaskCycle)
	_, err = s.tasks.UpdateTask(s.ctx, alice.ID, root.ID, UpdateTaskInput{ParentTaskID: &personal.ID})
	s.ErrorIs(err, ErrParentTaskProject)
	_, err = s.tasks.CreateTask(s.ctx, alice.ID, CreateTaskInput{Name: "Orphan", ParentTaskID: ptr(uint64(9999))})
	s.ErrorIs(err, ErrParentTaskNotFound)

	cleared, err := s.tasks.UpdateTask(s.ctx, alice.ID, grandchild.ID, UpdateTaskInput{ClearParentTask: true})
	s.Require().NoError(err)
	s.Nil(cleared.ParentTaskID)
}

func (s *ServiceTestSuite) TestDeleteTask_Permissions() {
	alice := s.register("alice")
	bob := s.register("bob")
	carol := s.register("carol")
	project := s.createProject(alice.ID, "Launch")
	s.addMember(alice.ID, project.ID, bob.ID)
	s.addMember(alice.ID, project.ID, carol.ID)
	task := s.createTask(alice.ID, CreateTaskInput{Name: "Bob's", ProjectID: &project.ID, PerformerID: &bob.ID})
	other := s.createTask(alice.ID, CreateTaskInput{Name: "Alice's", ProjectID: &project.ID})

	s.ErrorIs(s.tasks.DeleteTask(s.ctx, carol.ID, task.ID), ErrForbidden)
	s.Require().NoError(s.tasks.DeleteTask(s.ctx, bob.ID, task.ID))
	s.Require().NoError(s.tasks.DeleteTask(s.ctx, alice.ID, other.ID))

	_, err := s.tasks.GetTask(s.ctx, alice.ID, task.ID)
	s.ErrorIs(err, ErrTaskNotFound)
}

func (s *ServiceTestSuite) TestDeleteTask_CascadesCommentsAndFiles() {
	alice := s.register("alice")
	task := s.createTask(alice.ID, CreateTaskInput{Name: "Doomed"})
	_, err := s.comments.AddComment(s.ctx, alice.ID, task.ID, "bye")
	s.Require().NoError(err)
	uploaded, err := s.files.UploadFiles(s.ctx, alice.ID, task.ID, []Upload{textUpload("a.txt", "a")})
	s.Require().NoError(err)

	s.Require().NoError(s.tasks.DeleteTask(s.ctx, alice.ID, task.ID))

	var comments, files int64
	s.Require().NoError(s.db.Table("comments").Where("task_id = ?", task.ID).Count(&comments).Error)
	s.Require().NoError(s.db.Table("task_files").Where("task_id = ?", task.ID).Count(&files).Error)
	s.Zero(comments)
	s.Zero(files)

	_, _, err = s.files.OpenFile(s.ctx, alice.ID, uploaded[0].ID)
	s.ErrorIs(err, ErrFileNotFound)
}

func (s *ServiceTestSuite) TestSearchTasks_Filters() {
	alice := s.register("alice")
	bob := s.register("bob")
	project := s.createProject(alice.ID, "Launch")
	s.addMember(alice.ID, project.ID, bob.ID)

	mine := s.createTask(alice.ID, CreateTaskInput{Name: "Mine", ProjectID: &project.ID, EndDate: day(2025, 3, 16)})
	s.createTask(alice.ID, CreateTaskInput{Name: "Bob's", ProjectID: &project.ID, PerformerID: &bob.ID, Label: "ops"})
	personal := s.createTask(alice.ID, CreateTaskInput{Name: "Personal", EndDate: day(2025, 3, 1)})
	_, err := s.tasks.ToggleState(s.ctx, alice.ID, personal.ID)
	s.Require().NoError(err)

	tasks, total, err := s.tasks.SearchTasks(s.ctx, SearchTasksInput{ActorID: alice.ID, AssignedToMe: true})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Equal(personal.ID, tasks[0].ID)
	s.Equal(mine.ID, tasks[1].ID)

	tasks, _, err = s.tasks.SearchTasks(s.ctx, SearchTasksInput{ActorID: alice.ID, State: "open"})
	s.Require().NoError(err)
	s.Len(tasks, 2)

	tasks, _, err = s.tasks.SearchTasks(s.ctx, SearchTasksInput{ActorID: alice.ID, State: "completed"})
	s.Require().NoError(err)
	s.Require().Len(tasks, 1)
	s.Equal(personal.ID, tasks[0].ID)

	tasks, _, err = s.tasks.SearchTasks(s.ctx, SearchTasksInput{ActorID: bob.ID, Label: "OPS"})
	s.Require().NoError(err)
	s.Len(tasks, 1)

	_, _, err = s.tasks.SearchTasks(s.ctx, SearchTasksInput{ActorID: alice.ID, State: "sideways"})
	s.ErrorIs(err, ErrInvalidTaskState)

	carol := s.register("carol")
	_, _, err = s.tasks.SearchTasks(s.ctx, SearchTasksInput{ActorID: carol.ID, ProjectID: &project.ID})
	s.ErrorIs(err, ErrNotFound)
}

func (s *ServiceTestSuite) TestGenerateTasks() {
	alice := s.register("alice")
	past := fixedNow.AddDate(0, 0, -3)
	future := fixedNow.AddDate(0, 0, 3)
	s.generator.tasks = []GeneratedTask{
		{Name: "  Book venue ", EndDate: &future},
		{Name: "Old", EndDate: &past},
		{Name: "   "},
	}

	tasks, err := s.tasks.GenerateTasks(s.ctx, GenerateTasksInput{ActorID: alice.ID, Text: "plan the offsite"})
	s.Require().NoError(err)
	s.Require().Len(tasks, 2)
	s.Equal("Book venue", tasks[0].Name)
	s.NotNil(tasks[0].EndDate)
	s.Nil(tasks[1].EndDate)

	_, err = s.tasks.GenerateTasks(s.ctx, GenerateTasksInput{ActorID: alice.ID, Text: " "})
	s.ErrorIs(err, ErrValidation)

	s.generator.tasks = nil
	_, err = s.tasks.GenerateTasks(s.ctx, GenerateTasksInput{ActorID: alice.ID, Text: "nothing"})
	s.ErrorIs(err, ErrAINoTasksGenerated)

	s.generator.err = errors.New("rate limited")
	_, err = s.tasks.GenerateTasks(s.ctx, GenerateTasksInput{ActorID: alice.ID, Text: "again"})
	s.ErrorIs(err, ErrStorage)

	s.tasks.generator = nil
	_, err = s.tasks.GenerateTasks(s.ctx, GenerateTasksInput{ActorID: alice.ID, Text: "again"})
	s.ErrorIs(err, ErrAIServiceNotEnabled)
}

func (s *ServiceTestSuite) TestToggleState_UsesClock() {
	alice := s.register("alice")
	task := s.createTask(alice.ID, CreateTaskInput{Name: "Clocked"})
	later := fixedNow.Add(48 * time.Hour)
	s.tasks.now = func() time.Time { return later }

	done, err := s.tasks.ToggleState(s.ctx, alice.ID, task.ID)
	s.Require().NoError(err)
	s.True(done.CompleteDate.Equal(later))
}
