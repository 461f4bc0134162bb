package models

// Mutation payloads. Every mutation answers with the affected entity (nil on
// failure), a success flag and a list of human-readable error strings; the
// request itself never fails at the protocol level.

type OrganizationPayload struct {
	Organization *Organization `json:"organization"`
	Success      bool          `json:"success"`
	Errors       []string      `json:"errors"`
}

type ProjectPayload struct {
	Project *Project `json:"project"`
	Success bool     `json:"success"`
	Errors  []string `json:"errors"`
}

type TaskPayload struct {
	Task    *Task    `json:"task"`
	Success bool     `json:"success"`
	Errors  []string `json:"errors"`
}

type TaskCommentPayload struct {
	Comment *TaskComment `json:"comment"`
	Success bool         `json:"success"`
	Errors  []string     `json:"errors"`
}
