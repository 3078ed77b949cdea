package models

import "time"

// Family represents a household grouping of members. PrimaryAddressMemberID
// points at the member whose contact fields act as the family's address of
// record; it is backfilled after that member exists.
type Family struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FamilyName             string `gorm:"column:nombre_familia;uniqueIndex" json:"family_name" validate:"required"`
	PrimaryAddressMemberID *uint  `gorm:"column:hermano_direccion_id" json:"primary_address_member_id"`
}

// TableName keeps the historical table name.
func (Family) TableName() string { return "familias" }

// FamilyStats counts the members referencing a family.
type FamilyStats struct {
	TotalMembers  int `json:"total_members"`
	ActiveMembers int `json:"active_members"`
}

// PrimaryAddress is the contact projection pulled from the designated member.
type PrimaryAddress struct {
	Address    *string `json:"address"`
	Phone      *string `json:"phone"`
	Email      *string `json:"email"`
	MemberName string  `json:"member_name"`
}

// FamilyWithAddress is a family plus its optional primary-address projection.
// PrimaryAddress is nil when no member is designated or the designated member
// has no address on file.
type FamilyWithAddress struct {
	ID                     uint            `json:"id"`
	FamilyName             string          `json:"family_name"`
	PrimaryAddressMemberID *uint           `json:"primary_address_member_id"`
	PrimaryAddress         *PrimaryAddress `json:"primary_address,omitempty"`
}
