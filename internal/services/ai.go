package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/Thanhfdq/task-app/internal/constants"
	"github.com/Thanhfdq/task-app/internal/utils"
)

// TaskGenerator turns free text into suggested tasks.
type TaskGenerator interface {
	GenerateTasksFromText(ctx context.Context, text string) ([]GeneratedTask, error)
}

type AIService struct {
	client *openai.Client
	model  string
}

// GeneratedTask is a suggestion returned by the model. It is never persisted.
type GeneratedTask struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	EndDate     *time.Time `json:"end_date"`
}

// generatedTaskPayload mirrors GeneratedTask with the date as the model writes it.
type generatedTaskPayload struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	EndDate     *string `json:"end_date"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4o,
	}
}

// GenerateTasksFromText analyzes text and extracts tasks using OpenAI GPT
func (s *AIService) GenerateTasksFromText(ctx context.Context, text string) ([]GeneratedTask, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	today := time.Now().Format(constants.DateLayout)
	prompt := fmt.Sprintf(`You extract actionable tasks from text.

Today: %s

Text:
%s

Reply with a JSON array of tasks in this shape:
[
  {
    "name": "short task name",
    "description": "details of the task",
    "end_date": "deadline as YYYY-MM-DD, or null when none is stated"
  }
]

Rules:
- Return [] when the text contains no tasks
- Convert relative deadlines such as "tomorrow" or "next week" into dates
- Return only the JSON array, without explanations`, today, text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)

	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return parseGeneratedTasks(resp.Choices[0].Message.Content)
}

// parseGeneratedTasks decodes the model output, tolerating a markdown code fence.
func parseGeneratedTasks(content string) ([]GeneratedTask, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var payload []generatedTaskPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	tasks := make([]GeneratedTask, 0, len(payload))
	for _, p := range payload {
		task := GeneratedTask{Name: p.Name, Description: p.Description}
		if p.EndDate != nil {
			if d, err := utils.ParseDate(*p.EndDate); err == nil {
				task.EndDate = &d
			}
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
