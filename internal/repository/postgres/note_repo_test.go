package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/amine/notehub/internal/repository"
	"github.com/amine/notehub/internal/repository/postgres"
	"github.com/amine/notehub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteRepository_SearchSorting(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	base := time.Now().Add(-time.Hour)

	testutil.NewNoteBuilder().WithOwner(user).WithName("bravo").WithCreatedAt(base).Build(t, testDB.DB)
	testutil.NewNoteBuilder().WithOwner(user).WithName("alpha").WithCreatedAt(base.Add(time.Minute)).Build(t, testDB.DB)
	testutil.NewNoteBuilder().WithOwner(user).WithName("charlie").WithCreatedAt(base.Add(2 * time.Minute)).Build(t, testDB.DB)

	tests := []struct {
		name      string
		sortBy    string
		order     string
		wantFirst string
	}{
		{name: "name ascending", sortBy: "name", order: "ASC", wantFirst: "alpha"},
		{name: "name descending", sortBy: "name", order: "DESC", wantFirst: "charlie"},
		{name: "createdAt ascending", sortBy: "createdAt", order: "ASC", wantFirst: "bravo"},
		{name: "unknown sort falls back to updatedAt desc", sortBy: "password_hash", order: "DESC", wantFirst: "charlie"},
		{name: "unknown order falls back to desc", sortBy: "name", order: "sideways", wantFirst: "charlie"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notes, total, err := repos.Note.Search(ctx, repository.NoteFilter{
				UserID: user.ID,
				SortBy: tt.sortBy,
				Order:  tt.order,
			})
			require.NoError(t, err)
			assert.Equal(t, int64(3), total)
			require.NotEmpty(t, notes)
			assert.Equal(t, tt.wantFirst, notes[0].Name)
		})
	}
}

func TestNoteRepository_SearchLifecycle(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	testutil.NewNoteBuilder().WithOwner(user).WithName("active").Build(t, testDB.DB)
	testutil.NewNoteBuilder().WithOwner(user).WithName("archived").Archived().Build(t, testDB.DB)
	testutil.NewNoteBuilder().WithOwner(user).WithName("trashed").Trashed().Build(t, testDB.DB)
	testutil.NewNoteBuilder().WithOwner(user).WithName("archived and trashed").Archived().Trashed().Build(t, testDB.DB)

	tests := []struct {
		name      string
		lifecycle string
		want      int64
	}{
		{name: "default is active only", lifecycle: "", want: 1},
		{name: "all", lifecycle: repository.FilterAll, want: 4},
		{name: "archived includes trashed archives", lifecycle: repository.FilterArchived, want: 2},
		{name: "trashed includes archived trash", lifecycle: repository.FilterTrashed, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, total, err := repos.Note.Search(ctx, repository.NoteFilter{
				UserID:    user.ID,
				Lifecycle: tt.lifecycle,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, total)

			count, err := repos.Note.Count(ctx, user.ID, tt.lifecycle)
			require.NoError(t, err)
			assert.Equal(t, tt.want, count, "Count must agree with Search total")
		})
	}
}

func TestNoteRepository_SearchDateRange(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	base := time.Now().Add(-48 * time.Hour)

	testutil.NewNoteBuilder().WithOwner(user).WithName("old").WithCreatedAt(base).Build(t, testDB.DB)
	testutil.NewNoteBuilder().WithOwner(user).WithName("recent").WithCreatedAt(base.Add(24 * time.Hour)).Build(t, testDB.DB)

	from := base.Add(12 * time.Hour)
	notes, total, err := repos.Note.Search(ctx, repository.NoteFilter{
		UserID:   user.ID,
		FromDate: &from,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, notes, 1)
	assert.Equal(t, "recent", notes[0].Name)
}

func TestNoteRepository_LifecycleFlags(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	note := testutil.NewNoteBuilder().WithOwner(user).Build(t, testDB.DB)

	require.NoError(t, repos.Note.Archive(ctx, note.ID))
	got, err := repos.Note.GetByID(ctx, note.ID)
	require.NoError(t, err)
	assert.True(t, got.IsArchived)

	require.NoError(t, repos.Note.Trash(ctx, note.ID))
	got, err = repos.Note.GetByID(ctx, note.ID)
	require.NoError(t, err)
	assert.True(t, got.IsTrashed)
	assert.True(t, got.IsArchived, "trash does not touch the archive flag")

	require.NoError(t, repos.Note.Restore(ctx, note.ID))
	got, err = repos.Note.GetByID(ctx, note.ID)
	require.NoError(t, err)
	assert.False(t, got.IsArchived)
	assert.False(t, got.IsTrashed)
}

func TestNoteRepository_FindDueReminders(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	now := time.Now().Truncate(time.Second)

	inWindow := testutil.NewNoteBuilder().
		WithOwner(user).
		WithReminder(now.Add(-30 * time.Second)).
		Build(t, testDB.DB)

	// The window is half-open: a reminder exactly at `to` has not fired yet.
	testutil.NewNoteBuilder().
		WithOwner(user).
		WithReminder(now).
		Build(t, testDB.DB)

	testutil.NewNoteBuilder().
		WithOwner(user).
		WithReminder(now.Add(-2 * time.Minute)).
		Build(t, testDB.DB)

	notes, err := repos.Note.FindDueReminders(ctx, user.ID, now.Add(-time.Minute), now)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, inWindow.ID, notes[0].ID)
}

func TestNoteRepository_ClearReminderIsIdempotent(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	note := testutil.NewNoteBuilder().
		WithOwner(user).
		WithReminder(time.Now()).
		Build(t, testDB.DB)

	require.NoError(t, repos.Note.ClearReminder(ctx, note.ID))
	require.NoError(t, repos.Note.ClearReminder(ctx, note.ID))

	got, err := repos.Note.GetByID(ctx, note.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ReminderAt)
}

func TestTagRepository_FindOrCreate(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	first, err := repos.Tag.FindOrCreate(ctx, "work")
	require.NoError(t, err)

	second, err := repos.Tag.FindOrCreate(ctx, "work")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "repeated names resolve to the same row")

	other, err := repos.Tag.FindOrCreate(ctx, "home")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)

	all, err := repos.Tag.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestTagRepository_DeleteDetachesNotes(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	tag := testutil.SeedTag(t, testDB.DB, "doomed")
	note := testutil.NewNoteBuilder().WithOwner(user).WithTags(*tag).Build(t, testDB.DB)

	require.NoError(t, repos.Tag.Delete(ctx, tag.ID))

	// The note survives, only the association row is gone
	got, err := repos.Note.GetByID(ctx, note.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
}

func TestUserRepository_RefreshTokenHash(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	hash := "some-bcrypt-hash"
	require.NoError(t, repos.User.UpdateRefreshTokenHash(ctx, user.ID, &hash))

	got, err := repos.User.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RefreshTokenHash)
	assert.Equal(t, hash, *got.RefreshTokenHash)

	require.NoError(t, repos.User.UpdateRefreshTokenHash(ctx, user.ID, nil))

	got, err = repos.User.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, got.RefreshTokenHash)
}
