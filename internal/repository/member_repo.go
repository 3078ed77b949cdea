package repository

import (
	"fmt"

	"hermanar_app/internal/models"
	"hermanar_app/pkg/apperrors"
)

// MemberRepository handles CRUD, search and lifecycle rules for members.
type MemberRepository struct {
	store *Store
}

func NewMemberRepository(store *Store) *MemberRepository {
	return &MemberRepository{store: store}
}

// List returns every member ordered by member number.
func (r *MemberRepository) List() ([]models.Member, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var members []models.Member
	err := r.store.db.Order("numero_hermano").Find(&members).Error
	return members, apperrors.Storage("list hermanos", err)
}

// ListActive returns members with the active flag set, ordered by member number.
func (r *MemberRepository) ListActive() ([]models.Member, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var members []models.Member
	err := r.store.db.Where("activo = ?", true).Order("numero_hermano").Find(&members).Error
	return members, apperrors.Storage("list hermanos activos", err)
}

// FindByID returns the member or nil when no row exists.
func (r *MemberRepository) FindByID(id uint) (*models.Member, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.findByID(id)
}

func (r *MemberRepository) findByID(id uint) (*models.Member, error) {
	var members []models.Member
	if err := r.store.db.Where("id = ?", id).Limit(1).Find(&members).Error; err != nil {
		return nil, apperrors.Storage("get hermano", err)
	}
	if len(members) == 0 {
		return nil, nil
	}
	return &members[0], nil
}

// GetByID is the strict variant: a missing row is ErrNotFound.
func (r *MemberRepository) GetByID(id uint) (*models.Member, error) {
	member, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, apperrors.ErrNotFound
	}
	return member, nil
}

// Search matches the pattern as a substring against name, both surnames,
// member number and national id.
func (r *MemberRepository) Search(query string) ([]models.Member, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	pattern := "%" + query + "%"
	var members []models.Member
	err := r.store.db.
		Where("nombre LIKE ? OR primer_apellido LIKE ? OR segundo_apellido LIKE ? OR numero_hermano LIKE ? OR dni LIKE ?",
			pattern, pattern, pattern, pattern, pattern).
		Order("numero_hermano").
		Find(&members).Error
	return members, apperrors.Storage("search hermanos", err)
}

// Create inserts a member. A blank member number is replaced by the next
// sequential five-digit numeral; a supplied one must already be five digits.
func (r *MemberRepository) Create(m *models.Member) (uint, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	m.Normalize()
	if err := m.Validate(); err != nil {
		return 0, err
	}

	if m.MemberNumber == "" {
		var count int64
		if err := r.store.db.Model(&models.Member{}).Count(&count).Error; err != nil {
			return 0, apperrors.Storage("create hermano", err)
		}
		m.MemberNumber = fmt.Sprintf("%05d", count+1)
	}

	m.ID = 0
	if err := r.store.db.Create(m).Error; err != nil {
		return 0, apperrors.Storage("create hermano", err)
	}
	return m.ID, nil
}

// Update replaces every field of the member except id and creation time. The
// member number is written as supplied, never regenerated.
func (r *MemberRepository) Update(id uint, m *models.Member) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	m.Normalize()
	if err := m.Validate(); err != nil {
		return err
	}

	m.ID = id
	err := r.store.db.Model(&models.Member{}).
		Where("id = ?", id).
		Select("*").Omit("id", "created_at").
		Updates(m).Error
	return apperrors.Storage("update hermano", err)
}

// UpdateFamily relinks (or unlinks, with nil) the member's family reference.
func (r *MemberRepository) UpdateFamily(id uint, familyID *uint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	err := r.store.db.Model(&models.Member{}).
		Where("id = ?", id).
		Update("familia_id", familyID).Error
	return apperrors.Storage("update familia del hermano", err)
}

// Delete removes the member row; dependent dues go with it via the schema's
// cascade.
func (r *MemberRepository) Delete(id uint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	err := r.store.db.Delete(&models.Member{}, id).Error
	return apperrors.Storage("delete hermano", err)
}

// SetInactive soft-deletes the member by clearing the active flag.
func (r *MemberRepository) SetInactive(id uint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	err := r.store.db.Model(&models.Member{}).
		Where("id = ?", id).
		Update("activo", false).Error
	return apperrors.Storage("set hermano inactivo", err)
}

// ListByFamily returns the family's members ordered by name.
func (r *MemberRepository) ListByFamily(familyID uint) ([]models.Member, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var members []models.Member
	err := r.store.db.
		Where("familia_id = ?", familyID).
		Order("nombre, primer_apellido").
		Find(&members).Error
	return members, apperrors.Storage("list hermanos de familia", err)
}
