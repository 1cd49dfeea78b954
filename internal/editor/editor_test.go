package editor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	sections  Sections
	fetchErr  error
	saveErr   error
	saved     [][]Record
	fetchHook func()
}

func (f *fakeAPI) FetchContent(ctx context.Context, section string) (Sections, error) {
	if f.fetchHook != nil {
		f.fetchHook()
	}
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.sections, nil
}

func (f *fakeAPI) SaveContent(ctx context.Context, records []Record) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, records)
	return nil
}

func loadedController(t *testing.T) (*Controller, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{sections: Sections{
		"hero": {
			{ID: 1, Section: "hero", ContentKey: "a", ContentValue: "x", ContentType: "text", OrderIndex: 0},
			{ID: 2, Section: "hero", ContentKey: "b", ContentValue: "y", ContentType: "text", OrderIndex: 1},
		},
	}}
	ctl := NewController(api)
	require.NoError(t, ctl.Load(context.Background()))
	return ctl, api
}

func TestCancelRestoresOriginal(t *testing.T) {
	ctl, _ := loadedController(t)

	ctl.Mutate("hero", "a", "edited")
	ctl.Mutate("hero", "new_key", "added")
	require.True(t, ctl.HasChanges())

	ctl.Cancel()

	assert.False(t, ctl.HasChanges())
	sections := ctl.Sections()
	require.Len(t, sections["hero"], 2)
	assert.Equal(t, "x", sections["hero"][0].ContentValue)
}

func TestSaveSubmitsOnlyChangedRecords(t *testing.T) {
	ctl, api := loadedController(t)

	ctl.Mutate("hero", "b", "z")
	require.True(t, ctl.HasChanges())

	require.NoError(t, ctl.Save(context.Background()))

	require.Len(t, api.saved, 1)
	require.Len(t, api.saved[0], 1)
	assert.Equal(t, uint(2), api.saved[0][0].ID)
	assert.Equal(t, "z", api.saved[0][0].ContentValue)
	assert.False(t, ctl.HasChanges())
}

func TestSaveWithoutChangesIsNoop(t *testing.T) {
	ctl, api := loadedController(t)

	require.NoError(t, ctl.Save(context.Background()))
	assert.Empty(t, api.saved)
}

func TestMutateAppendsMissingKey(t *testing.T) {
	ctl, _ := loadedController(t)

	ctl.Mutate("hero", "team_photo", "/storage/team.jpg")

	sections := ctl.Sections()
	require.Len(t, sections["hero"], 3)
	added := sections["hero"][2]
	assert.Zero(t, added.ID)
	assert.Equal(t, "image", added.ContentType)
	assert.Equal(t, 2, added.OrderIndex)

	changed := ctl.Changed()
	require.Len(t, changed, 1)
	assert.Equal(t, "team_photo", changed[0].ContentKey)
}

func TestSaveOfAppendedRecordGoesClean(t *testing.T) {
	ctl, api := loadedController(t)

	ctl.Mutate("hero", "new_key", "added")
	require.NoError(t, ctl.Save(context.Background()))

	assert.False(t, ctl.HasChanges())
	assert.Empty(t, ctl.Changed())

	// A second save has nothing left to submit.
	require.NoError(t, ctl.Save(context.Background()))
	require.Len(t, api.saved, 1)
	require.Len(t, api.saved[0], 1)
	assert.Equal(t, "new_key", api.saved[0][0].ContentKey)
}

func TestMutateDoesNotTouchSnapshot(t *testing.T) {
	ctl, _ := loadedController(t)

	before := ctl.Sections()
	ctl.Mutate("hero", "a", "edited")
	ctl.Cancel()

	assert.Equal(t, before, ctl.Sections())
}

func TestSaveFailureKeepsWorkingCopy(t *testing.T) {
	ctl, api := loadedController(t)
	api.saveErr = errors.New("boom")

	ctl.Mutate("hero", "a", "edited")
	require.Error(t, ctl.Save(context.Background()))

	// Edits survive so the user can retry.
	assert.True(t, ctl.HasChanges())
	assert.Equal(t, "edited", ctl.Sections()["hero"][0].ContentValue)

	api.saveErr = nil
	require.NoError(t, ctl.Save(context.Background()))
	assert.False(t, ctl.HasChanges())
}

func TestLoadEmptyResponseIsError(t *testing.T) {
	ctl := NewController(&fakeAPI{sections: Sections{}})

	err := ctl.Load(context.Background())
	assert.ErrorIs(t, err, ErrEmptyContent)
	assert.Empty(t, ctl.Sections())
}

func TestLoadFailureLeavesStateEmpty(t *testing.T) {
	ctl := NewController(&fakeAPI{fetchErr: errors.New("down")})

	require.Error(t, ctl.Load(context.Background()))
	assert.Empty(t, ctl.Sections())
	assert.False(t, ctl.HasChanges())
}

func TestStaleLoadIsDiscarded(t *testing.T) {
	api := &fakeAPI{sections: Sections{
		"hero": {{ID: 1, Section: "hero", ContentKey: "a", ContentValue: "stale"}},
	}}
	ctl := NewController(api)

	first := true
	api.fetchHook = func() {
		if first {
			first = false
			// A newer load starts while the first fetch is in flight.
			fresh := &fakeAPI{sections: Sections{
				"hero": {{ID: 1, Section: "hero", ContentKey: "a", ContentValue: "fresh"}},
			}}
			inner := api.sections
			api.sections = fresh.sections
			require.NoError(t, ctl.Load(context.Background()))
			api.sections = inner
		}
	}

	err := ctl.Load(context.Background())
	assert.ErrorIs(t, err, ErrStaleLoad)
	assert.Equal(t, "fresh", ctl.Sections()["hero"][0].ContentValue)
}

func TestInferContentType(t *testing.T) {
	assert.Equal(t, "image", InferContentType("hero_image"))
	assert.Equal(t, "image", InferContentType("company_logo"))
	assert.Equal(t, "image", InferContentType("team_photo"))
	assert.Equal(t, "text", InferContentType("headline"))
}
