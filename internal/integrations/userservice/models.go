package userservice

// Profile профиль клиента из UserService
type Profile struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Phone *string `json:"phone,omitempty"`
}
