package agenda

type authResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

type availabilitySlot struct {
	StartDate  string `json:"start_date"` // YYYY-MM-DD
	StartTime  string `json:"start_time"` // HH:MM
	EndTime    string `json:"end_time"`   // HH:MM
	ResourceID string `json:"resource_id"`
	ActivityID string `json:"activity_id"`
	AreaID     string `json:"area_id"`
}

type availabilityResponse struct {
	Result         string             `json:"result"` // "OK" o código de error
	Availabilities []availabilitySlot `json:"availabilities"`
}

type reservationResponse struct {
	Result        string `json:"result"`
	AppointmentID string `json:"appointment_id"`
	Message       string `json:"message"`
}
