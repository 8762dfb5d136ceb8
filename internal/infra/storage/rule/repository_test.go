package rule

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Create_StoresSelectorColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO availability_rules`).
		WithArgs(int64(1), int64(10), nil, nil, date, "10:00", 2, true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(5), now, now))

	rule, err := repo.Create(context.Background(), &domain.AvailabilityRule{
		ServiceID:       1,
		ServiceOptionID: 10,
		Day:             domain.SpecificDate(date),
		StartTime:       "10:00",
		BookingLimit:    2,
		IsActive:        true,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(5), rule.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(ruleColumns).
		AddRow(int64(1), int64(1), int64(10), nil, int64(2), nil, "10:00:00", int64(3), true, now, now).
		AddRow(int64(2), int64(1), int64(10), int64(4), nil, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), "14:00:00", int64(1), true, now, now)

	mock.ExpectQuery(`SELECT (.+) FROM availability_rules WHERE service_option_id = \$1 AND is_active = \$2 ORDER BY start_time ASC, id ASC`).
		WithArgs(int64(10), true).
		WillReturnRows(rows)

	rules, err := repo.List(context.Background(), Filter{ServiceOptionID: ptr.Ptr(int64(10))})

	require.NoError(t, err)
	require.Len(t, rules, 2)

	weekday, ok := rules[0].Day.Weekday()
	assert.True(t, ok)
	assert.Equal(t, time.Tuesday, weekday)
	assert.Equal(t, "10:00", rules[0].StartTime.String())
	assert.Nil(t, rules[0].TherapistID)

	assert.True(t, rules[1].Day.IsSpecificDate())
	assert.Equal(t, int64(4), *rules[1].TherapistID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List_RejectsBrokenSelector(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM availability_rules`).
		WillReturnRows(sqlmock.NewRows(ruleColumns).
			AddRow(int64(1), int64(1), int64(10), nil, nil, nil, "10:00", int64(1), true, now, now))

	_, err = repo.List(context.Background(), Filter{})

	assert.ErrorIs(t, err, ErrScanRow)
	assert.ErrorContains(t, err, "neither dayOfWeek nor specificDate")
}

func TestRepository_Delete_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectExec(`DELETE FROM availability_rules WHERE id = \$1`).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Delete(context.Background(), 9)

	assert.ErrorIs(t, err, ErrRuleNotFound)
}
