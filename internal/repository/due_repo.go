package repository

import (
	"hermanar_app/internal/models"
	"hermanar_app/pkg/apperrors"
)

// DueRepository handles quarterly due records, bulk generation and statistics.
type DueRepository struct {
	store *Store
}

func NewDueRepository(store *Store) *DueRepository {
	return &DueRepository{store: store}
}

// List returns every due, newest period first.
func (r *DueRepository) List() ([]models.Due, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var dues []models.Due
	err := r.store.db.Order("anio DESC, trimestre DESC, hermano_id").Find(&dues).Error
	return dues, apperrors.Storage("list cuotas", err)
}

// ListByMember returns a member's dues, newest period first.
func (r *DueRepository) ListByMember(memberID uint) ([]models.Due, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var dues []models.Due
	err := r.store.db.
		Where("hermano_id = ?", memberID).
		Order("anio DESC, trimestre DESC").
		Find(&dues).Error
	return dues, apperrors.Storage("list cuotas del hermano", err)
}

// ListByYear returns the year's dues ordered by quarter and member.
func (r *DueRepository) ListByYear(year int) ([]models.Due, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var dues []models.Due
	err := r.store.db.
		Where("anio = ?", year).
		Order("trimestre, hermano_id").
		Find(&dues).Error
	return dues, apperrors.Storage("list cuotas del año", err)
}

// ListPending returns unpaid dues, oldest period first.
func (r *DueRepository) ListPending() ([]models.Due, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var dues []models.Due
	err := r.store.db.
		Where("pagado = ?", false).
		Order("anio ASC, trimestre ASC, hermano_id").
		Find(&dues).Error
	return dues, apperrors.Storage("list cuotas pendientes", err)
}

// Create inserts a single due record.
func (r *DueRepository) Create(d *models.Due) (uint, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	d.Normalize()
	if err := d.Validate(); err != nil {
		return 0, err
	}

	d.ID = 0
	if err := r.store.db.Create(d).Error; err != nil {
		return 0, apperrors.Storage("create cuota", err)
	}
	return d.ID, nil
}

// Update replaces every field of the due except id and creation time.
func (r *DueRepository) Update(id uint, d *models.Due) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	d.Normalize()
	if err := d.Validate(); err != nil {
		return err
	}

	d.ID = id
	err := r.store.db.Model(&models.Due{}).
		Where("id = ?", id).
		Select("*").Omit("id", "created_at").
		Updates(d).Error
	return apperrors.Storage("update cuota", err)
}

// MarkPaid records the payment date and method and flips the paid flag.
// Amount and notes are left untouched.
func (r *DueRepository) MarkPaid(id uint, paymentDate, paymentMethod string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	err := r.store.db.Model(&models.Due{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"pagado":      true,
			"fecha_pago":  paymentDate,
			"metodo_pago": paymentMethod,
		}).Error
	return apperrors.Storage("marcar cuota pagada", err)
}

// Delete removes a single due record.
func (r *DueRepository) Delete(id uint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	err := r.store.db.Delete(&models.Due{}, id).Error
	return apperrors.Storage("delete cuota", err)
}

// GenerateForQuarter creates an unpaid due of the given amount for every
// active member that does not already have one for (year, quarter). Running it
// again for the same period creates nothing. Returns the number of new rows.
func (r *DueRepository) GenerateForQuarter(year, quarter int, amount float64) (int, error) {
	if quarter < 1 || quarter > 4 {
		return 0, apperrors.NewValidation("trimestre", "debe estar entre 1 y 4")
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var memberIDs []uint
	err := r.store.db.Model(&models.Member{}).
		Where("activo = ?", true).
		Pluck("id", &memberIDs).Error
	if err != nil {
		return 0, apperrors.Storage("generar cuotas", err)
	}

	created := 0
	for _, memberID := range memberIDs {
		var count int64
		err := r.store.db.Model(&models.Due{}).
			Where("hermano_id = ? AND anio = ? AND trimestre = ?", memberID, year, quarter).
			Count(&count).Error
		if err != nil {
			return created, apperrors.Storage("generar cuotas", err)
		}
		if count > 0 {
			continue
		}

		due := models.Due{MemberID: memberID, Year: year, Quarter: quarter, Amount: amount}
		if err := r.store.db.Create(&due).Error; err != nil {
			return created, apperrors.Storage("generar cuotas", err)
		}
		created++
	}
	return created, nil
}

const statsTotalsQuery = `
	SELECT
		COALESCE(SUM(CASE WHEN pagado = 1 THEN importe ELSE 0 END), 0) AS total_collected,
		COUNT(CASE WHEN pagado = 0 THEN 1 END) AS pending_count,
		COUNT(CASE WHEN pagado = 1 THEN 1 END) AS paid_count
	FROM cuotas`

const statsStandingWithoutYear = `
	SELECT
		COUNT(DISTINCT CASE WHEN moroso = 0 THEN hermano_id END) AS good_standing,
		COUNT(DISTINCT CASE WHEN moroso = 1 THEN hermano_id END) AS delinquent
	FROM (
		SELECT
			hermano_id,
			CASE WHEN COUNT(CASE WHEN pagado = 0 THEN 1 END) > 0 THEN 1 ELSE 0 END AS moroso
		FROM cuotas
		GROUP BY hermano_id
	)`

const statsStandingWithYear = `
	SELECT
		COUNT(DISTINCT CASE WHEN moroso = 0 THEN hermano_id END) AS good_standing,
		COUNT(DISTINCT CASE WHEN moroso = 1 THEN hermano_id END) AS delinquent
	FROM (
		SELECT
			hermano_id,
			CASE WHEN COUNT(CASE WHEN pagado = 0 THEN 1 END) > 0 THEN 1 ELSE 0 END AS moroso
		FROM cuotas
		WHERE anio = ?
		GROUP BY hermano_id
	)`

// Statistics aggregates collected totals, pending/paid counts and per-member
// standing, optionally scoped to one year. The year filter is a parameterized
// query variant, never interpolated text.
func (r *DueRepository) Statistics(year *int) (*models.DueStatistics, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var totals struct {
		TotalCollected float64
		PendingCount   int
		PaidCount      int
	}
	totalsTx := r.store.db.Raw(statsTotalsQuery)
	if year != nil {
		totalsTx = r.store.db.Raw(statsTotalsQuery+" WHERE anio = ?", *year)
	}
	if err := totalsTx.Scan(&totals).Error; err != nil {
		return nil, apperrors.Storage("estadísticas de cuotas", err)
	}

	var standing struct {
		GoodStanding int
		Delinquent   int
	}
	standingTx := r.store.db.Raw(statsStandingWithoutYear)
	if year != nil {
		standingTx = r.store.db.Raw(statsStandingWithYear, *year)
	}
	if err := standingTx.Scan(&standing).Error; err != nil {
		return nil, apperrors.Storage("estadísticas de cuotas", err)
	}

	return &models.DueStatistics{
		TotalCollected:        totals.TotalCollected,
		PendingCount:          totals.PendingCount,
		PaidCount:             totals.PaidCount,
		MembersInGoodStanding: standing.GoodStanding,
		MembersDelinquent:     standing.Delinquent,
	}, nil
}
