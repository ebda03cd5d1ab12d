package types

import "github.com/esc-directory/consultants/internal/services"

// ConsultantRequest is the body of POST and PUT /api/consultants.
type ConsultantRequest struct {
	Firm    string   `json:"firm"`
	Contact string   `json:"contact"`
	Email   string   `json:"email"`
	Phone   *string  `json:"phone"`
	Service string   `json:"service"`
	Regions []string `json:"regions"`
}

func (r ConsultantRequest) ToInput() services.ConsultantInput {
	return services.ConsultantInput{
		Firm:    r.Firm,
		Contact: r.Contact,
		Email:   r.Email,
		Phone:   r.Phone,
		Service: r.Service,
		Regions: r.Regions,
	}
}
