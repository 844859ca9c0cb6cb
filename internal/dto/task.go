package dto

// CreateTaskRequest - запрос на создание задачи (HTTP).
// Поле "workshop" по историческим причинам содержит id начальника цеха,
// по которому определяется цех задачи; клиенты уже отправляют его в таком виде.
type CreateTaskRequest struct {
	StartTime         string `json:"start_time"`
	EndTime           string `json:"end_time"`
	WorkshopForemanID int64  `json:"workshop"`
	ForemanID         int64  `json:"foreman_id"`
	TechnicianID      int64  `json:"technician_id"`
	TaskDescription   string `json:"task_description"`
	Important         bool   `json:"important"`
}

// UpdateTaskRequest - запрос на обновление задачи (HTTP)
type UpdateTaskRequest struct {
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	TaskDescription string `json:"task_description"`
	Important       bool   `json:"important"`
}

// UpdateTaskStatusRequest - смена статуса задачи
type UpdateTaskStatusRequest struct {
	TaskID int64  `json:"task_id"`
	Status string `json:"status"`
}

// TaskResponse - ответ с задачей (HTTP)
type TaskResponse struct {
	TaskID          int64  `json:"task_id"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	Workshop        string `json:"workshop"`
	ForemanID       int64  `json:"foreman_id"`
	TechnicianID    int64  `json:"technician_id"`
	TaskDescription string `json:"task_description"`
	Status          string `json:"status"`
	Important       bool   `json:"important"`
}
