package repository

import (
	"strings"

	"hermanar_app/internal/models"
	"hermanar_app/pkg/apperrors"
)

// FamilyRepository handles household groupings and their referential rules.
type FamilyRepository struct {
	store *Store
}

func NewFamilyRepository(store *Store) *FamilyRepository {
	return &FamilyRepository{store: store}
}

// List returns every family ordered by name.
func (r *FamilyRepository) List() ([]models.Family, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var families []models.Family
	err := r.store.db.Order("nombre_familia").Find(&families).Error
	return families, apperrors.Storage("list familias", err)
}

// FindByID returns the family or nil when no row exists.
func (r *FamilyRepository) FindByID(id uint) (*models.Family, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var families []models.Family
	if err := r.store.db.Where("id = ?", id).Limit(1).Find(&families).Error; err != nil {
		return nil, apperrors.Storage("get familia", err)
	}
	if len(families) == 0 {
		return nil, nil
	}
	return &families[0], nil
}

// GetByID is the strict variant: a missing row is ErrNotFound.
func (r *FamilyRepository) GetByID(id uint) (*models.Family, error) {
	family, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}
	if family == nil {
		return nil, apperrors.ErrNotFound
	}
	return family, nil
}

// Search matches the pattern as a substring of the family name.
func (r *FamilyRepository) Search(query string) ([]models.Family, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var families []models.Family
	err := r.store.db.
		Where("nombre_familia LIKE ?", "%"+query+"%").
		Order("nombre_familia").
		Find(&families).Error
	return families, apperrors.Storage("search familias", err)
}

// Create inserts a family.
func (r *FamilyRepository) Create(f *models.Family) (uint, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	f.FamilyName = strings.TrimSpace(f.FamilyName)
	if f.FamilyName == "" {
		return 0, apperrors.NewValidation("nombre_familia", "no puede estar vacío")
	}

	f.ID = 0
	if err := r.store.db.Create(f).Error; err != nil {
		return 0, apperrors.Storage("create familia", err)
	}
	return f.ID, nil
}

// Update replaces the family's name and primary-address reference.
func (r *FamilyRepository) Update(id uint, f *models.Family) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	f.FamilyName = strings.TrimSpace(f.FamilyName)
	if f.FamilyName == "" {
		return apperrors.NewValidation("nombre_familia", "no puede estar vacío")
	}

	f.ID = id
	err := r.store.db.Model(&models.Family{}).
		Where("id = ?", id).
		Select("*").Omit("id", "created_at").
		Updates(f).Error
	return apperrors.Storage("update familia", err)
}

// Delete removes the family unless any active member still references it.
func (r *FamilyRepository) Delete(id uint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var count int64
	err := r.store.db.Model(&models.Member{}).
		Where("familia_id = ? AND activo = ?", id, true).
		Count(&count).Error
	if err != nil {
		return apperrors.Storage("delete familia", err)
	}
	if count > 0 {
		return &apperrors.IntegrityError{
			Reason: "no se puede eliminar la familia porque tiene hermanos activos asociados",
		}
	}

	return apperrors.Storage("delete familia", r.store.db.Delete(&models.Family{}, id).Error)
}

// Stats counts total and active members referencing the family.
func (r *FamilyRepository) Stats(id uint) (*models.FamilyStats, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var row struct {
		TotalMembers  int
		ActiveMembers int
	}
	tx := r.store.db.Raw(`
		SELECT
			COUNT(h.id) AS total_members,
			COUNT(CASE WHEN h.activo = 1 THEN 1 END) AS active_members
		FROM familias f
		LEFT JOIN hermanos h ON f.id = h.familia_id
		WHERE f.id = ?
		GROUP BY f.id`, id).Scan(&row)
	if tx.Error != nil {
		return nil, apperrors.Storage("stats de familia", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &models.FamilyStats{TotalMembers: row.TotalMembers, ActiveMembers: row.ActiveMembers}, nil
}

// WithAddress returns the family plus the primary-address projection built
// from the designated member. The projection is omitted when no member is
// designated or the member has no address on file; a missing family is nil.
func (r *FamilyRepository) WithAddress(id uint) (*models.FamilyWithAddress, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var row struct {
		ID                     uint
		FamilyName             string
		PrimaryAddressMemberID *uint
		Address                *string
		Phone                  *string
		Email                  *string
		FirstName              *string
		FirstSurname           *string
		SecondSurname          *string
	}
	tx := r.store.db.Raw(`
		SELECT
			f.id,
			f.nombre_familia AS family_name,
			f.hermano_direccion_id AS primary_address_member_id,
			h.direccion AS address,
			h.telefono AS phone,
			h.email AS email,
			h.nombre AS first_name,
			h.primer_apellido AS first_surname,
			h.segundo_apellido AS second_surname
		FROM familias f
		LEFT JOIN hermanos h ON f.hermano_direccion_id = h.id
		WHERE f.id = ?`, id).Scan(&row)
	if tx.Error != nil {
		return nil, apperrors.Storage("familia con dirección", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return nil, nil
	}

	result := &models.FamilyWithAddress{
		ID:                     row.ID,
		FamilyName:             row.FamilyName,
		PrimaryAddressMemberID: row.PrimaryAddressMemberID,
	}
	if row.Address != nil {
		name := ""
		if row.FirstName != nil {
			name = *row.FirstName
		}
		if row.FirstSurname != nil {
			name = strings.TrimSpace(name + " " + *row.FirstSurname)
		}
		if row.SecondSurname != nil {
			name = strings.TrimSpace(name + " " + *row.SecondSurname)
		}
		result.PrimaryAddress = &models.PrimaryAddress{
			Address:    row.Address,
			Phone:      row.Phone,
			Email:      row.Email,
			MemberName: name,
		}
	}
	return result, nil
}
