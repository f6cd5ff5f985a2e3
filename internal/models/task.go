package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusDone       TaskStatus = "done"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

type Task struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Status      TaskStatus     `gorm:"type:varchar(20);not null;default:'todo';index" json:"status"`
	Priority    TaskPriority   `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	DueDate     *time.Time     `gorm:"index" json:"due_date"`
	AssigneeID  *uint64        `json:"assignee_id"`
	Completed   bool           `gorm:"not null;default:false" json:"completed"`
	CreatorID   uint64         `gorm:"not null;index" json:"creator_id"`
	ProjectID   uint64         `gorm:"not null;index" json:"project_id"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Assignee *User   `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Creator  User    `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Project  Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}
