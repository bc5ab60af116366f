package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDB struct {
	truncated []string
	err       error
}

func (f *fakeDB) Truncate(_ context.Context, categories ...string) error {
	if f.err != nil {
		return f.err
	}
	f.truncated = append(f.truncated, categories...)
	return nil
}

type fakeArchive struct{ cleared []string }

func (f *fakeArchive) ClearCurrent(_ context.Context, category string) error {
	f.cleared = append(f.cleared, category)
	return nil
}

func TestReset(t *testing.T) {
	db, arc := &fakeDB{}, &fakeArchive{}
	r := &Resetter{DB: db, Archive: arc}

	require.NoError(t, r.Reset(context.Background(), "DMCO", "TMCO"))
	assert.Equal(t, []string{"DMCO", "TMCO"}, db.truncated)
	assert.Equal(t, []string{"DMCO", "TMCO"}, arc.cleared)
}

func TestReset_StopsOnError(t *testing.T) {
	db, arc := &fakeDB{err: errors.New("boom")}, &fakeArchive{}
	r := &Resetter{DB: db, Archive: arc}

	err := r.Reset(context.Background(), "DMCO")
	require.ErrorContains(t, err, "boom")
	assert.Empty(t, arc.cleared)
}

func TestReset_Invalid(t *testing.T) {
	assert.Error(t, (&Resetter{DB: &fakeDB{}}).Reset(context.Background()))
	assert.Error(t, (&Resetter{}).Reset(context.Background(), "DMCO"))
}

func TestReset_ArchiveOnly(t *testing.T) {
	arc := &fakeArchive{}
	require.NoError(t, (&Resetter{Archive: arc}).Reset(context.Background(), "S1cail"))
	assert.Equal(t, []string{"S1cail"}, arc.cleared)
}
