package handlers

import "hermanar_app/internal/models"

// CreateMemberWithFamilyRequest is the composite registration payload: the
// member plus an optional brand-new family name. When the name is present it
// wins over any family id already on the member.
type CreateMemberWithFamilyRequest struct {
	Member        models.Member `json:"member"`
	NewFamilyName *string       `json:"new_family_name"`
}

// UpdateMemberFamilyRequest relinks a member; a null family id unlinks it.
type UpdateMemberFamilyRequest struct {
	FamilyID *uint `json:"family_id"`
}

// MarkPaidRequest carries the payment details for the mark-paid transition.
type MarkPaidRequest struct {
	PaymentDate   string `json:"payment_date"`
	PaymentMethod string `json:"payment_method"`
}

// GenerateDuesRequest asks for bulk generation of one quarter's dues.
type GenerateDuesRequest struct {
	Year    int     `json:"year"`
	Quarter int     `json:"quarter"`
	Amount  float64 `json:"amount"`
}

// IDResponse returns the id of a newly created row.
type IDResponse struct {
	ID uint `json:"id"`
}

// CreatedResponse returns how many rows a bulk generation added.
type CreatedResponse struct {
	Created int `json:"created"`
}
