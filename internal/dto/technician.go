package dto

// CreateTechnicianRequest - запрос на создание технического работника (HTTP)
type CreateTechnicianRequest struct {
	Specialization string `json:"specialization"`
	FullName       string `json:"full_name"`
	Gender         string `json:"gender"`
	PhoneNumber    string `json:"phone_number"`
}

type UpdateTechnicianRequest struct {
	Specialization string `json:"specialization"`
	FullName       string `json:"full_name"`
	PhoneNumber    string `json:"phone_number"`
}

type TechnicianResponse struct {
	TechnicianID   int64  `json:"technician_id"`
	Specialization string `json:"specialization"`
	FullName       string `json:"full_name"`
	Gender         string `json:"gender"`
	PhoneNumber    string `json:"phone_number"`
}
