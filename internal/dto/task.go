package dto

import "tasknexus/internal/models"

// TaskDTO is a task annotated with the assignee's username, or null when
// unassigned.
type TaskDTO struct {
	models.Task
	AssigneeName *string `json:"assignee_name"`
}

// ToTaskDTO converts a task with its preloaded assignee
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{Task: task}
	if task.Assignee != nil {
		name := task.Assignee.Username
		dto.AssigneeName = &name
	}
	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = ToTaskDTO(t)
	}
	return dtos
}
