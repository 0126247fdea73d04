package roombed

type CreateRoomBedRequest struct {
	LocationID string         `json:"location_id" binding:"required,uuid"`
	RoomNumber string         `json:"room_number" binding:"required"`
	BedNumber  string         `json:"bed_number" binding:"required"`
	Floor      string         `json:"floor"`
	Wing       string         `json:"wing"`
	Features   map[string]any `json:"features"`
}

type AssignRequest struct {
	CareReceiverID string `json:"care_receiver_id" binding:"required,uuid"`
	RoomBedID      string `json:"room_bed_id" binding:"required,uuid"`
}

type RoomBedResponse struct {
	ID         string         `json:"id"`
	LocationID string         `json:"location_id"`
	RoomNumber string         `json:"room_number"`
	BedNumber  string         `json:"bed_number"`
	IsOccupied bool           `json:"is_occupied"`
	Floor      string         `json:"floor,omitempty"`
	Wing       string         `json:"wing,omitempty"`
	Features   map[string]any `json:"features,omitempty"`
}

type AssignmentResponse struct {
	Message string          `json:"message"`
	RoomBed RoomBedResponse `json:"room_bed"`
}
