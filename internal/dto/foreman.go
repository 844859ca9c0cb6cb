package dto

// CreateForemanRequest - запрос на создание начальника цеха (HTTP)
type CreateForemanRequest struct {
	FullName    string `json:"full_name"`
	Gender      string `json:"gender"`
	Workshop    string `json:"workshop"` // пустая строка - цех не назначен
	PhoneNumber string `json:"phone_number"`
}

// UpdateForemanRequest - полная замена ФИО, цеха и телефона
type UpdateForemanRequest struct {
	FullName    string `json:"full_name"`
	Workshop    string `json:"workshop"`
	PhoneNumber string `json:"phone_number"`
}

type ForemanResponse struct {
	ForemanID   int64  `json:"foreman_id"`
	FullName    string `json:"full_name"`
	Gender      string `json:"gender"`
	Workshop    string `json:"workshop"`
	PhoneNumber string `json:"phone_number"`
}
