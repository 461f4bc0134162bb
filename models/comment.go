package models

import "time"

// TaskComment is immutable once written; there is no update or delete
// operation for comments.
type TaskComment struct {
	ID          int64     `json:"id" bson:"_id"`
	TaskID      int64     `json:"taskId" bson:"task_id"`
	Content     string    `json:"content" bson:"content"`
	AuthorEmail string    `json:"authorEmail" bson:"author_email"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
}
