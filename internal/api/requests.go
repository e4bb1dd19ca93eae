package api

// CreateTaskRequest is the request body for POST /api/tasks.
type CreateTaskRequest struct {
	Title       string `json:"title"       validate:"required,notblank"`
	Description string `json:"description" validate:"required,notblank"`
	Priority    string `json:"priority"    validate:"required,oneof=LOW MEDIUM HIGH"`
	Status      string `json:"status"      validate:"required,oneof=PENDING IN_PROGRESS DONE"`
	DueDate     string `json:"due_date"    validate:"required,calendar_date"`
}

// UpdateTaskRequest is the request body for PUT /api/tasks/{id}.
// Absent and null fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title"       validate:"omitnil,notblank"`
	Description *string `json:"description" validate:"omitnil,notblank"`
	Priority    *string `json:"priority"    validate:"omitnil,oneof=LOW MEDIUM HIGH"`
	Status      *string `json:"status"      validate:"omitnil,oneof=PENDING IN_PROGRESS DONE"`
	DueDate     *string `json:"due_date"    validate:"omitnil,calendar_date"`
}
