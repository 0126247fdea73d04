package caregiver

type RegisterCaregiverRequest struct {
	LocationID string `json:"location_id" binding:"required,uuid"`
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone"`
	HireDate   string `json:"hire_date" binding:"omitempty,datetime=2006-01-02"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE INACTIVE"`
}

type CaregiverResponse struct {
	ID         string `json:"id"`
	LocationID string `json:"location_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Status     string `json:"status"`
	HireDate   string `json:"hire_date,omitempty"`

	// InitialPassword is only populated on registration, so the admin can
	// hand the generated credential over. It is never stored in clear.
	InitialPassword string `json:"initial_password,omitempty"`
}
