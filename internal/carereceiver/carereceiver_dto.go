package carereceiver

type RegisterCareReceiverRequest struct {
	LocationID       string         `json:"location_id" binding:"required,uuid"`
	FirstName        string         `json:"first_name" binding:"required"`
	LastName         string         `json:"last_name" binding:"required"`
	DateOfBirth      string         `json:"date_of_birth" binding:"required"`
	Gender           string         `json:"gender"`
	CareLevel        string         `json:"care_level"`
	AdmissionDate    string         `json:"admission_date"`
	EmergencyContact map[string]any `json:"emergency_contact"`
	MedicalNotes     string         `json:"medical_notes"`
	// InitialRoomBedID, when set, places the resident on that bed in the
	// same request through the occupancy ledger.
	InitialRoomBedID string `json:"initial_room_bed_id" binding:"omitempty,uuid"`
}

type UpdateCareReceiverRequest struct {
	FirstName        string         `json:"first_name"`
	LastName         string         `json:"last_name"`
	CareLevel        string         `json:"care_level"`
	EmergencyContact map[string]any `json:"emergency_contact"`
	MedicalNotes     string         `json:"medical_notes"`
}

type CareReceiverResponse struct {
	ID               string         `json:"id"`
	LocationID       string         `json:"location_id"`
	CurrentRoomBedID string         `json:"current_room_bed_id,omitempty"`
	FirstName        string         `json:"first_name"`
	LastName         string         `json:"last_name"`
	DateOfBirth      string         `json:"date_of_birth,omitempty"`
	Gender           string         `json:"gender,omitempty"`
	CareLevel        string         `json:"care_level,omitempty"`
	Status           string         `json:"status"`
	AdmissionDate    string         `json:"admission_date,omitempty"`
	DischargeDate    string         `json:"discharge_date,omitempty"`
	EmergencyContact map[string]any `json:"emergency_contact,omitempty"`
	MedicalNotes     string         `json:"medical_notes,omitempty"`
}
