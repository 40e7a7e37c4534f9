package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thanhfdq/task-app/internal/duedate"
	"github.com/Thanhfdq/task-app/internal/models"
	"github.com/Thanhfdq/task-app/internal/repository"
)

func TestToTaskDTO_ClassifiesAndFormats(t *testing.T) {
	today := time.Date(2025, 3, 15, 18, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	projectID := uint64(4)
	task := models.Task{
		ID:          9,
		Name:        "Demo",
		Label:       "a, b",
		EndDate:     &end,
		ProjectID:   &projectID,
		PerformerID: 2,
		Project:     &models.Project{ID: 4, Name: "Launch", ManagerID: 1},
		Performer:   models.User{ID: 2, Username: "bob"},
	}

	dto := ToTaskDTO(task, today)
	assert.Equal(t, duedate.StatusNearDue, dto.DueStatus)
	require.NotNil(t, dto.EndDate)
	assert.Equal(t, "2025-03-15", *dto.EndDate)
	assert.Nil(t, dto.StartDate)
	assert.Equal(t, []string{"a", "b"}, dto.Labels)
	require.NotNil(t, dto.Project)
	assert.Equal(t, "Launch", dto.Project.Name)
	require.NotNil(t, dto.Performer)
	assert.Equal(t, "bob", dto.Performer.Username)
	assert.Nil(t, dto.Group)

	task.TaskState = true
	assert.Equal(t, duedate.StatusDone, ToTaskDTO(task, today).DueStatus)
}

func TestToProjectDTO_DatesRoundTrip(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	project := models.Project{ID: 1, Name: "Sprint 1", StartDate: &start, EndDate: &end}

	raw, err := json.Marshal(ToProjectDTO(project))
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "Sprint 1", body["name"])
	assert.Equal(t, "2025-01-01", body["start_date"])
	assert.Equal(t, "2025-01-31", body["end_date"])
	assert.Nil(t, body["complete_date"])
	assert.NotContains(t, body, "manager")
}

func TestToMemberDTOs(t *testing.T) {
	rows := []repository.MemberTaskCount{{UserID: 3, Username: "carol", TaskCount: 0}}

	withCount := ToMemberDTOs(rows, true)
	require.NotNil(t, withCount[0].TaskCount)
	assert.Equal(t, int64(0), *withCount[0].TaskCount)

	assert.Nil(t, ToMemberDTOs(rows, false)[0].TaskCount)
}

func TestUserDTO_OmitsPassword(t *testing.T) {
	raw, err := json.Marshal(ToUserDTO(models.User{ID: 1, Username: "alice", PasswordHash: "secret"}))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
	assert.NotContains(t, string(raw), "password")
}
