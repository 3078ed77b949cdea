package services

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"hermanar_app/internal/models"
)

// MemberStore is the slice of the member repository the orchestration uses.
type MemberStore interface {
	Create(m *models.Member) (uint, error)
}

// FamilyStore is the slice of the family repository the orchestration uses.
type FamilyStore interface {
	Create(f *models.Family) (uint, error)
	Update(id uint, f *models.Family) error
}

// MemberService composes the repositories for cross-entity workflows.
type MemberService struct {
	members  MemberStore
	families FamilyStore
	logger   *zap.Logger
}

func NewMemberService(members MemberStore, families FamilyStore, logger *zap.Logger) *MemberService {
	return &MemberService{members: members, families: families, logger: logger}
}

// CreateWithFamily registers a member, optionally creating a brand-new family
// for it in the same logical operation:
//
//  1. When newFamilyName is set, a family row is created first (without a
//     primary-address reference, since the member does not exist yet) and its
//     id overrides whatever family the member payload carried.
//  2. The member is inserted.
//  3. The new family's primary-address reference is backfilled with the new
//     member's id. This last step failing is tolerated: the member id is still
//     returned and the family is simply left without an address of record.
//
// Family creation or member insertion failing aborts the whole operation.
// There is no transaction across the steps: a crash mid-way can leave a family
// without its backfill, which the single-user desktop model accepts.
func (s *MemberService) CreateWithFamily(m *models.Member, newFamilyName *string) (uint, error) {
	var created *models.Family

	if newFamilyName != nil && strings.TrimSpace(*newFamilyName) != "" {
		family := &models.Family{FamilyName: strings.TrimSpace(*newFamilyName)}
		familyID, err := s.families.Create(family)
		if err != nil {
			return 0, fmt.Errorf("creando familia %q: %w", family.FamilyName, err)
		}
		family.ID = familyID
		created = family
		m.FamilyID = &family.ID
	}

	memberID, err := s.members.Create(m)
	if err != nil {
		return 0, err
	}

	if created != nil {
		created.PrimaryAddressMemberID = &memberID
		if err := s.families.Update(created.ID, created); err != nil {
			s.logger.Warn("no se pudo establecer la dirección principal de la familia",
				zap.Uint("familia_id", created.ID),
				zap.Error(err))
		}
	}

	return memberID, nil
}
