package roster

type CreateRosterRequest struct {
	LocationID        string         `json:"location_id" binding:"required,uuid"`
	CaregiverID       string         `json:"caregiver_id" binding:"required,uuid"`
	RoomBedID         string         `json:"room_bed_id" binding:"omitempty,uuid"`
	ShiftDate         string         `json:"shift_date" binding:"required"`
	ShiftType         string         `json:"shift_type" binding:"required,oneof=MORNING AFTERNOON NIGHT FULL_DAY"`
	StartTime         string         `json:"start_time" binding:"required"`
	EndTime           string         `json:"end_time" binding:"required"`
	Status            string         `json:"status" binding:"omitempty,oneof=DRAFT PUBLISHED ACTIVE COMPLETED CANCELLED"`
	IsRecurring       bool           `json:"is_recurring"`
	RecurrencePattern map[string]any `json:"recurrence_pattern"`
	Notes             string         `json:"notes"`
}

type UpdateRosterRequest struct {
	CaregiverID       string         `json:"caregiver_id" binding:"omitempty,uuid"`
	RoomBedID         string         `json:"room_bed_id" binding:"omitempty,uuid"`
	ShiftDate         string         `json:"shift_date"`
	ShiftType         string         `json:"shift_type" binding:"omitempty,oneof=MORNING AFTERNOON NIGHT FULL_DAY"`
	StartTime         string         `json:"start_time"`
	EndTime           string         `json:"end_time"`
	Status            string         `json:"status" binding:"omitempty,oneof=DRAFT PUBLISHED ACTIVE COMPLETED CANCELLED"`
	IsRecurring       *bool          `json:"is_recurring"`
	RecurrencePattern map[string]any `json:"recurrence_pattern"`
	Notes             *string        `json:"notes"`
}

type RosterResponse struct {
	ID                string         `json:"id"`
	LocationID        string         `json:"location_id"`
	CaregiverID       string         `json:"caregiver_id"`
	RoomBedID         string         `json:"room_bed_id,omitempty"`
	ShiftDate         string         `json:"shift_date"`
	ShiftType         string         `json:"shift_type"`
	StartTime         string         `json:"start_time"`
	EndTime           string         `json:"end_time"`
	Status            string         `json:"status"`
	ShiftStatus       string         `json:"shift_status"`
	IsRecurring       bool           `json:"is_recurring"`
	RecurrencePattern map[string]any `json:"recurrence_pattern,omitempty"`
	Notes             string         `json:"notes,omitempty"`
	ConfirmedAt       string         `json:"confirmed_at,omitempty"`
	StartedAt         string         `json:"started_at,omitempty"`
	CompletedAt       string         `json:"completed_at,omitempty"`
}
