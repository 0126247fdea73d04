package leave

type CreateLeaveRequest struct {
	Date   string `form:"date" binding:"required"`
	Type   string `form:"type" binding:"required,oneof=FULL_DAY HALF_DAY_AM HALF_DAY_PM"`
	Reason string `form:"reason" binding:"required"`
}

type DecisionRequest struct {
	DecisionNote string `json:"decision_note"`
}

type ListFilters struct {
	Status    string
	StartDate string
	EndDate   string
	// LocationID scopes admin listings; empty means all locations.
	LocationID string
	// CaregiverID restricts the listing to one caregiver's own requests.
	CaregiverID string
}

type LeaveResponse struct {
	ID           string           `json:"id"`
	CaregiverID  string           `json:"caregiver_id"`
	LocationID   string           `json:"location_id"`
	Date         string           `json:"date"`
	Type         string           `json:"type"`
	Status       string           `json:"status"`
	Reason       string           `json:"reason,omitempty"`
	Attachments  []AttachmentMeta `json:"attachments,omitempty"`
	RequestedAt  string           `json:"requested_at"`
	DecidedAt    string           `json:"decided_at,omitempty"`
	DecidedBy    string           `json:"decided_by,omitempty"`
	DecisionNote string           `json:"decision_note,omitempty"`
}
