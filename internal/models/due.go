package models

import (
	"time"

	"hermanar_app/pkg/apperrors"
)

// Due represents one quarterly payment obligation ("cuota") for one member.
// At most one row exists per (member, year, quarter).
type Due struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	MemberID uint    `gorm:"column:hermano_id" json:"member_id"`
	Year     int     `gorm:"column:anio" json:"year"`
	Quarter  int     `gorm:"column:trimestre" json:"quarter"`
	Amount   float64 `gorm:"column:importe" json:"amount"`

	Paid          bool    `gorm:"column:pagado" json:"paid"`
	PaymentDate   *string `gorm:"column:fecha_pago" json:"payment_date"`
	PaymentMethod *string `gorm:"column:metodo_pago" json:"payment_method"`

	Notes *string `gorm:"column:observaciones" json:"notes"`
}

// TableName keeps the historical table name.
func (Due) TableName() string { return "cuotas" }

// Normalize applies the blank-to-nil pass over the optional text fields.
func (d *Due) Normalize() {
	for _, f := range []**string{&d.PaymentDate, &d.PaymentMethod, &d.Notes} {
		*f = blankToNil(*f)
	}
}

// Validate checks the quarter range and the remaining field constraints.
func (d *Due) Validate() error {
	if d.Quarter < 1 || d.Quarter > 4 {
		return apperrors.NewValidation("trimestre", "debe estar entre 1 y 4")
	}
	if d.Amount < 0 {
		return apperrors.NewValidation("importe", "no puede ser negativo")
	}
	if d.MemberID == 0 {
		return apperrors.NewValidation("hermano_id", "es obligatorio")
	}
	return nil
}

// DueStatistics aggregates collection and delinquency figures, optionally
// scoped to one year. A member with no dues in scope counts in neither
// standing bucket.
type DueStatistics struct {
	TotalCollected        float64 `json:"total_collected"`
	PendingCount          int     `json:"pending_count"`
	PaidCount             int     `json:"paid_count"`
	MembersInGoodStanding int     `json:"members_in_good_standing"`
	MembersDelinquent     int     `json:"members_delinquent"`
}
