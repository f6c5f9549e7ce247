package mq

// Routing keys published on the events exchange.
const (
	RoutingTaskCreated        = "task.created"
	RoutingTaskStatusChanged  = "task.status_changed"
	RoutingProjectMemberAdded = "project.member_added"
)

type TaskCreatedPayload struct {
	TaskID    int64  `json:"task_id"`
	ProjectID int64  `json:"project_id"`
	Title     string `json:"title"`
	Priority  string `json:"priority"`
}

type TaskStatusChangedPayload struct {
	TaskID    int64  `json:"task_id"`
	ProjectID int64  `json:"project_id"`
	Status    string `json:"status"`
}

type ProjectMemberAddedPayload struct {
	ProjectID int64 `json:"project_id"`
	MemberID  int64 `json:"member_id"`
}
