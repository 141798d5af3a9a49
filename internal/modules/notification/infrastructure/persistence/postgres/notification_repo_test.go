package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhquang4309/social-be/internal/modules/notification/domain"
	"github.com/minhquang4309/social-be/internal/modules/notification/infrastructure/persistence/postgres"
)

var notificationColumns = []string{"id", "recipient_id", "actor_id", "kind", "subject_id", "is_read", "created_at"}

func TestCreate_InsertsRow(t *testing.T) {
	db, mock, closeFn := newMockDB(t)
	defer closeFn()
	repo := postgres.NewPgNotificationRepository(db)

	n := &domain.Notification{
		ID:          uuid.New(),
		RecipientID: uuid.New(),
		ActorID:     uuid.New(),
		Kind:        domain.KindLike,
		CreatedAt:   time.Now().UTC(),
	}

	mock.ExpectExec(`INSERT INTO notifications`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), n)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindRecentDuplicate_MatchesFullTuple(t *testing.T) {
	db, mock, closeFn := newMockDB(t)
	defer closeFn()
	repo := postgres.NewPgNotificationRepository(db)

	postID := uuid.New()
	ev := domain.Event{
		RecipientID: uuid.New(),
		ActorID:     uuid.New(),
		Kind:        domain.KindLike,
		SubjectID:   &postID,
	}
	existingID := uuid.New()

	rows := sqlmock.NewRows(notificationColumns).
		AddRow(existingID, ev.RecipientID, ev.ActorID, string(ev.Kind), postID, false, time.Now().Add(-time.Hour))
	mock.ExpectQuery(`SELECT \* FROM notifications\s+WHERE recipient_id = \$1\s+AND actor_id = \$2\s+AND kind = \$3\s+AND subject_id IS NOT DISTINCT FROM \$4\s+AND created_at >= \$5`).
		WithArgs(ev.RecipientID, ev.ActorID, ev.Kind, ev.SubjectID, sqlmock.AnyArg()).
		WillReturnRows(rows)

	n, err := repo.FindRecentDuplicate(context.Background(), ev, 24*time.Hour)
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, existingID, n.ID)
}

func TestFindRecentDuplicate_NoMatchIsNotAnError(t *testing.T) {
	db, mock, closeFn := newMockDB(t)
	defer closeFn()
	repo := postgres.NewPgNotificationRepository(db)

	ev := domain.Event{
		RecipientID: uuid.New(),
		ActorID:     uuid.New(),
		Kind:        domain.KindFollow,
	}

	mock.ExpectQuery(`SELECT \* FROM notifications`).
		WillReturnRows(sqlmock.NewRows(notificationColumns))

	n, err := repo.FindRecentDuplicate(context.Background(), ev, 24*time.Hour)
	require.NoError(t, err)
	assert.Nil(t, n)
}

func TestListPage_ProbesForMore(t *testing.T) {
	db, mock, closeFn := newMockDB(t)
	defer closeFn()
	repo := postgres.NewPgNotificationRepository(db)

	recipientID := uuid.New()
	base := time.Now().UTC().Add(-time.Hour)

	// Three rows back for limit 2: the extra row only signals another page.
	rows := sqlmock.NewRows(notificationColumns)
	for i := 0; i < 3; i++ {
		rows.AddRow(uuid.New(), recipientID, uuid.New(), "LIKE", nil, false, base.Add(time.Duration(i)*time.Minute))
	}
	mock.ExpectQuery(`SELECT \* FROM notifications\s+WHERE recipient_id = \$1\s+AND \(\$2::timestamptz IS NULL OR created_at > \$2\)\s+ORDER BY created_at ASC`).
		WithArgs(recipientID, nil, 3).
		WillReturnRows(rows)

	page, err := repo.ListPage(context.Background(), recipientID, nil, 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.True(t, page.HasMore)
	require.NotNil(t, page.NextCursor)
	assert.Equal(t, page.Items[1].CreatedAt, *page.NextCursor)
}

func TestListPage_LastPageHasNoCursor(t *testing.T) {
	db, mock, closeFn := newMockDB(t)
	defer closeFn()
	repo := postgres.NewPgNotificationRepository(db)

	recipientID := uuid.New()
	cursor := time.Now().UTC().Add(-time.Hour)

	rows := sqlmock.NewRows(notificationColumns).
		AddRow(uuid.New(), recipientID, uuid.New(), "FOLLOW", nil, true, cursor.Add(time.Minute))
	mock.ExpectQuery(`SELECT \* FROM notifications`).
		WithArgs(recipientID, cursor, 21).
		WillReturnRows(rows)

	page, err := repo.ListPage(context.Background(), recipientID, &cursor, 20)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.False(t, page.HasMore)
	assert.Nil(t, page.NextCursor)
}

func TestMarkRead_GuardsOwnershipAndState(t *testing.T) {
	db, mock, closeFn := newMockDB(t)
	defer closeFn()
	repo := postgres.NewPgNotificationRepository(db)

	notificationID := uuid.New()
	recipientID := uuid.New()

	mock.ExpectExec(`UPDATE notifications\s+SET is_read = TRUE\s+WHERE id = \$1 AND recipient_id = \$2 AND is_read = FALSE`).
		WithArgs(notificationID, recipientID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.MarkRead(context.Background(), notificationID, recipientID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
}

func TestMarkRead_WrongRecipientAffectsNothing(t *testing.T) {
	db, mock, closeFn := newMockDB(t)
	defer closeFn()
	repo := postgres.NewPgNotificationRepository(db)

	notificationID := uuid.New()
	stranger := uuid.New()

	mock.ExpectExec(`UPDATE notifications`).
		WithArgs(notificationID, stranger).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.MarkRead(context.Background(), notificationID, stranger)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestMarkAllRead_ReturnsAffectedCount(t *testing.T) {
	db, mock, closeFn := newMockDB(t)
	defer closeFn()
	repo := postgres.NewPgNotificationRepository(db)

	recipientID := uuid.New()

	mock.ExpectExec(`UPDATE notifications\s+SET is_read = TRUE\s+WHERE recipient_id = \$1 AND is_read = FALSE`).
		WithArgs(recipientID).
		WillReturnResult(sqlmock.NewResult(0, 7))

	affected, err := repo.MarkAllRead(context.Background(), recipientID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), affected)
}

func TestUnreadCount(t *testing.T) {
	db, mock, closeFn := newMockDB(t)
	defer closeFn()
	repo := postgres.NewPgNotificationRepository(db)

	recipientID := uuid.New()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notifications\s+WHERE recipient_id = \$1 AND is_read = FALSE`).
		WithArgs(recipientID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	count, err := repo.UnreadCount(context.Background(), recipientID)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}
