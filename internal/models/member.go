package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"hermanar_app/pkg/apperrors"
)

var validate = validator.New()

var memberNumberRe = regexp.MustCompile(`^[0-9]{5}$`)

// Member represents a registered person ("hermano"). Optional text fields are
// pointers: nil means absent, and blank input is normalized to nil before any
// write. Rows live in the hermanos table.
type Member struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Unique five-digit identifier, auto-assigned when left empty.
	MemberNumber string `gorm:"column:numero_hermano;uniqueIndex" json:"member_number"`

	FirstName     string  `gorm:"column:nombre" json:"first_name" validate:"required"`
	FirstSurname  string  `gorm:"column:primer_apellido" json:"first_surname" validate:"required"`
	SecondSurname *string `gorm:"column:segundo_apellido" json:"second_surname"`
	NationalID    *string `gorm:"column:dni" json:"national_id"`

	BirthDate     *string `gorm:"column:fecha_nacimiento" json:"birth_date"`
	BirthLocality *string `gorm:"column:localidad_nacimiento" json:"birth_locality"`
	BirthProvince *string `gorm:"column:provincia_nacimiento" json:"birth_province"`

	RegistrationDate string `gorm:"column:fecha_alta" json:"registration_date" validate:"required"`

	FamilyID *uint `gorm:"column:familia_id" json:"family_id"`

	Phone      *string `gorm:"column:telefono" json:"phone"`
	Email      *string `gorm:"column:email" json:"email" validate:"omitempty,email"`
	Address    *string `gorm:"column:direccion" json:"address"`
	Locality   *string `gorm:"column:localidad" json:"locality"`
	Province   *string `gorm:"column:provincia" json:"province"`
	PostalCode *string `gorm:"column:codigo_postal" json:"postal_code"`

	BaptismParish   *string `gorm:"column:parroquia_bautismo" json:"baptism_parish"`
	BaptismLocality *string `gorm:"column:localidad_bautismo" json:"baptism_locality"`
	BaptismProvince *string `gorm:"column:provincia_bautismo" json:"baptism_province"`

	MinorAuthorization bool    `gorm:"column:autorizacion_menores" json:"minor_authorization"`
	LegalRepName       *string `gorm:"column:nombre_representante_legal" json:"legal_rep_name"`
	LegalRepNationalID *string `gorm:"column:dni_representante_legal" json:"legal_rep_national_id"`

	Sponsor1 *string `gorm:"column:hermano_aval_1" json:"sponsor_1"`
	Sponsor2 *string `gorm:"column:hermano_aval_2" json:"sponsor_2"`

	Active bool    `gorm:"column:activo" json:"active"`
	Notes  *string `gorm:"column:observaciones" json:"notes"`
}

// TableName keeps the historical table name.
func (Member) TableName() string { return "hermanos" }

// Normalize applies the blank-to-nil pass over every optional text field and
// trims the required ones. Runs before create and update.
func (m *Member) Normalize() {
	m.MemberNumber = strings.TrimSpace(m.MemberNumber)
	m.FirstName = strings.TrimSpace(m.FirstName)
	m.FirstSurname = strings.TrimSpace(m.FirstSurname)
	m.RegistrationDate = strings.TrimSpace(m.RegistrationDate)

	for _, f := range []**string{
		&m.SecondSurname, &m.NationalID,
		&m.BirthDate, &m.BirthLocality, &m.BirthProvince,
		&m.Phone, &m.Email, &m.Address, &m.Locality, &m.Province, &m.PostalCode,
		&m.BaptismParish, &m.BaptismLocality, &m.BaptismProvince,
		&m.LegalRepName, &m.LegalRepNationalID,
		&m.Sponsor1, &m.Sponsor2, &m.Notes,
	} {
		*f = blankToNil(*f)
	}
}

// Validate checks required fields and, when a member number was supplied, that
// it is exactly five ASCII digits. Call after Normalize.
func (m *Member) Validate() error {
	if err := validate.Struct(m); err != nil {
		return apperrors.NewValidation("hermano", err.Error())
	}
	if m.MemberNumber != "" && !memberNumberRe.MatchString(m.MemberNumber) {
		return apperrors.NewValidation("numero_hermano", "debe tener exactamente 5 dígitos")
	}
	return nil
}

// FullName joins first name and surnames for display projections.
func (m *Member) FullName() string {
	parts := []string{m.FirstName, m.FirstSurname}
	if m.SecondSurname != nil {
		parts = append(parts, *m.SecondSurname)
	}
	return strings.Join(parts, " ")
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
