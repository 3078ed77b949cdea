package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermanar_app/internal/models"
	"hermanar_app/pkg/apperrors"
)

func intPtr(n int) *int { return &n }

func seedMembers(t *testing.T, repo *MemberRepository, names ...string) []uint {
	t.Helper()
	ids := make([]uint, 0, len(names))
	for _, name := range names {
		id, err := repo.Create(newMember(name, "García"))
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestDueCreateValidates(t *testing.T) {
	store := newTestStore(t)
	members := NewMemberRepository(store)
	dues := NewDueRepository(store)

	ids := seedMembers(t, members, "Juan")

	for _, quarter := range []int{0, 5, -1} {
		_, err := dues.Create(&models.Due{MemberID: ids[0], Year: 2025, Quarter: quarter, Amount: 50})
		assert.True(t, apperrors.IsValidation(err), "quarter %d should fail validation", quarter)
	}

	_, err := dues.Create(&models.Due{MemberID: ids[0], Year: 2025, Quarter: 1, Amount: -10})
	assert.True(t, apperrors.IsValidation(err))

	_, err = dues.Create(&models.Due{Year: 2025, Quarter: 1, Amount: 50})
	assert.True(t, apperrors.IsValidation(err))
}

func TestDueGenerateForQuarter(t *testing.T) {
	store := newTestStore(t)
	members := NewMemberRepository(store)
	dues := NewDueRepository(store)

	ids := seedMembers(t, members, "Juan", "Ana", "Luis")
	require.NoError(t, members.SetInactive(ids[2]))

	created, err := dues.GenerateForQuarter(2025, 1, 25.50)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	generated, err := dues.ListByYear(2025)
	require.NoError(t, err)
	require.Len(t, generated, 2)
	for _, d := range generated {
		assert.Equal(t, 25.50, d.Amount)
		assert.False(t, d.Paid)
		assert.NotEqual(t, ids[2], d.MemberID)
	}
}

func TestDueGenerateIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	members := NewMemberRepository(store)
	dues := NewDueRepository(store)

	seedMembers(t, members, "Juan", "Ana", "Luis")

	created, err := dues.GenerateForQuarter(2025, 2, 30)
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	created, err = dues.GenerateForQuarter(2025, 2, 30)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	all, err := dues.ListByYear(2025)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestDueGenerateSkipsExistingDues(t *testing.T) {
	store := newTestStore(t)
	members := NewMemberRepository(store)
	dues := NewDueRepository(store)

	ids := seedMembers(t, members, "Juan", "Ana")
	_, err := dues.Create(&models.Due{MemberID: ids[0], Year: 2025, Quarter: 3, Amount: 40})
	require.NoError(t, err)

	created, err := dues.GenerateForQuarter(2025, 3, 40)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestDueGenerateRejectsBadQuarter(t *testing.T) {
	dues := NewDueRepository(newTestStore(t))

	_, err := dues.GenerateForQuarter(2025, 0, 25)
	assert.True(t, apperrors.IsValidation(err))
	_, err = dues.GenerateForQuarter(2025, 5, 25)
	assert.True(t, apperrors.IsValidation(err))
}

func TestDueMarkPaidLeavesAmountAndNotes(t *testing.T) {
	store := newTestStore(t)
	members := NewMemberRepository(store)
	dues := NewDueRepository(store)

	ids := seedMembers(t, members, "Juan")
	id, err := dues.Create(&models.Due{
		MemberID: ids[0],
		Year:     2025,
		Quarter:  1,
		Amount:   25.50,
		Notes:    strPtr("recordar recibo"),
	})
	require.NoError(t, err)

	require.NoError(t, dues.MarkPaid(id, "2025-04-01", "transferencia"))

	all, err := dues.ListByMember(ids[0])
	require.NoError(t, err)
	require.Len(t, all, 1)
	got := all[0]
	assert.True(t, got.Paid)
	require.NotNil(t, got.PaymentDate)
	assert.Equal(t, "2025-04-01", *got.PaymentDate)
	require.NotNil(t, got.PaymentMethod)
	assert.Equal(t, "transferencia", *got.PaymentMethod)
	assert.Equal(t, 25.50, got.Amount)
	require.NotNil(t, got.Notes)
	assert.Equal(t, "recordar recibo", *got.Notes)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestDueListPendingOldestFirst(t *testing.T) {
	store := newTestStore(t)
	members := NewMemberRepository(store)
	dues := NewDueRepository(store)

	ids := seedMembers(t, members, "Juan")
	periods := []struct {
		year, quarter int
	}{{2025, 2}, {2024, 4}, {2025, 1}}
	for _, p := range periods {
		_, err := dues.Create(&models.Due{MemberID: ids[0], Year: p.year, Quarter: p.quarter, Amount: 20})
		require.NoError(t, err)
	}

	paidID, err := dues.Create(&models.Due{MemberID: ids[0], Year: 2024, Quarter: 3, Amount: 20})
	require.NoError(t, err)
	require.NoError(t, dues.MarkPaid(paidID, "2024-10-01", "efectivo"))

	pending, err := dues.ListPending()
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, 2024, pending[0].Year)
	assert.Equal(t, 4, pending[0].Quarter)
	assert.Equal(t, 2025, pending[1].Year)
	assert.Equal(t, 1, pending[1].Quarter)
	assert.Equal(t, 2025, pending[2].Year)
	assert.Equal(t, 2, pending[2].Quarter)
}

func TestDueStatistics(t *testing.T) {
	store := newTestStore(t)
	members := NewMemberRepository(store)
	dues := NewDueRepository(store)

	ids := seedMembers(t, members, "Juan", "Ana", "Luis")

	// Juan pays both dues, Ana pays one of two, Luis has none.
	mustDue := func(member uint, quarter int, amount float64, paid bool) {
		id, err := dues.Create(&models.Due{MemberID: member, Year: 2025, Quarter: quarter, Amount: amount})
		require.NoError(t, err)
		if paid {
			require.NoError(t, dues.MarkPaid(id, "2025-06-01", "efectivo"))
		}
	}
	mustDue(ids[0], 1, 50, true)
	mustDue(ids[0], 2, 50, true)
	mustDue(ids[1], 1, 100, true)
	mustDue(ids[1], 2, 75, false)
	mustDue(ids[1], 3, 75, false)

	stats, err := dues.Statistics(nil)
	require.NoError(t, err)
	assert.Equal(t, 200.0, stats.TotalCollected)
	assert.Equal(t, 2, stats.PendingCount)
	assert.Equal(t, 3, stats.PaidCount)
	assert.Equal(t, 1, stats.MembersInGoodStanding)
	assert.Equal(t, 1, stats.MembersDelinquent)
}

func TestDueStatisticsByYear(t *testing.T) {
	store := newTestStore(t)
	members := NewMemberRepository(store)
	dues := NewDueRepository(store)

	ids := seedMembers(t, members, "Juan")

	// Paid in 2024, unpaid in 2025. The year filter must not mix them.
	id2024, err := dues.Create(&models.Due{MemberID: ids[0], Year: 2024, Quarter: 4, Amount: 60})
	require.NoError(t, err)
	require.NoError(t, dues.MarkPaid(id2024, "2024-12-01", "efectivo"))
	_, err = dues.Create(&models.Due{MemberID: ids[0], Year: 2025, Quarter: 1, Amount: 60})
	require.NoError(t, err)

	stats2024, err := dues.Statistics(intPtr(2024))
	require.NoError(t, err)
	assert.Equal(t, 60.0, stats2024.TotalCollected)
	assert.Equal(t, 0, stats2024.PendingCount)
	assert.Equal(t, 1, stats2024.PaidCount)
	assert.Equal(t, 1, stats2024.MembersInGoodStanding)
	assert.Equal(t, 0, stats2024.MembersDelinquent)

	stats2025, err := dues.Statistics(intPtr(2025))
	require.NoError(t, err)
	assert.Equal(t, 0.0, stats2025.TotalCollected)
	assert.Equal(t, 1, stats2025.PendingCount)
	assert.Equal(t, 0, stats2025.MembersInGoodStanding)
	assert.Equal(t, 1, stats2025.MembersDelinquent)
}

func TestDueStatisticsEmpty(t *testing.T) {
	dues := NewDueRepository(newTestStore(t))

	stats, err := dues.Statistics(nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, stats.TotalCollected)
	assert.Equal(t, 0, stats.PendingCount)
	assert.Equal(t, 0, stats.PaidCount)
	assert.Equal(t, 0, stats.MembersInGoodStanding)
	assert.Equal(t, 0, stats.MembersDelinquent)
}

func TestDueUpdateReplacesFields(t *testing.T) {
	store := newTestStore(t)
	members := NewMemberRepository(store)
	dues := NewDueRepository(store)

	ids := seedMembers(t, members, "Juan")
	id, err := dues.Create(&models.Due{MemberID: ids[0], Year: 2025, Quarter: 1, Amount: 25})
	require.NoError(t, err)

	updated := &models.Due{
		MemberID:      ids[0],
		Year:          2025,
		Quarter:       1,
		Amount:        30,
		Paid:          true,
		PaymentDate:   strPtr("2025-02-01"),
		PaymentMethod: strPtr("domiciliación"),
	}
	require.NoError(t, dues.Update(id, updated))

	all, err := dues.ListByMember(ids[0])
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 30.0, all[0].Amount)
	assert.True(t, all[0].Paid)
}
