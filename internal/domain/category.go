package domain

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Department  string `json:"department,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}
