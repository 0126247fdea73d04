package audit

type LogResponse struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   *string        `json:"entity_id,omitempty"`
	UserID     *string        `json:"user_id,omitempty"`
	Changes    map[string]any `json:"changes,omitempty"`
	IPAddress  string         `json:"ip_address,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
	Status     string         `json:"status"`
	CreatedAt  string         `json:"created_at"`
}

type StatsResponse struct {
	TotalLogs       int64            `json:"total_logs"`
	SuccessCount    int64            `json:"success_count"`
	FailureCount    int64            `json:"failure_count"`
	ActionBreakdown map[string]int64 `json:"action_breakdown"`
}
