package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErr "github.com/esc-directory/consultants/pkg/errors"
)

func newTestDirectory(repo *fakeRepo) *directoryService {
	d := NewDirectoryService(repo).(*directoryService)
	d.now = func() time.Time { return fixedNow }
	return d
}

func TestDirectoryEmpty(t *testing.T) {
	ctx := context.Background()
	d := newTestDirectory(newFakeRepo())

	services, err := d.Services(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{}, services)

	regions, err := d.Regions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{}, regions)

	stats, err := d.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{LastUpdated: fixedNow}, *stats)
}

func TestDirectorySingleSeedScenario(t *testing.T) {
	repo := newFakeRepo()
	repo.put(builtIn("Abadi Architecture", "marhoads@abadiaccess.com", "ADA Review", "ESC 1", "ESC 2"))
	d := newTestDirectory(repo)

	regions, err := d.Regions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ESC 1", "ESC 2"}, regions)
}

func TestDirectoryAggregates(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.put(builtIn("Zeta Access", "z@zeta.example.com", "TAS Inspection", "ESC 11", "ESC 2"))
	repo.put(builtIn("Abadi Architecture", "marhoads@abadiaccess.com", "ADA Review", "ESC 2", "ESC 1"))
	custom := builtIn("Mesa Inspections", "info@mesa.example.com", "ADA Review", "ESC 1")
	custom.IsCustom = true
	repo.put(custom)
	d := newTestDirectory(repo)

	services, err := d.Services(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ADA Review", "TAS Inspection"}, services)

	regions, err := d.Regions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ESC 1", "ESC 11", "ESC 2"}, regions)

	stats, err := d.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{
		TotalConsultants:   3,
		CustomConsultants:  1,
		BuiltInConsultants: 2,
		TotalServices:      2,
		TotalRegions:       3,
		LastUpdated:        fixedNow,
	}, *stats)
}

func TestStatsCountsStayConsistent(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo)
	d := newTestDirectory(repo)

	repo.put(builtIn("Abadi Architecture", "marhoads@abadiaccess.com", "ADA Review", "ESC 1"))

	check := func() {
		t.Helper()
		stats, err := d.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, stats.TotalConsultants, stats.BuiltInConsultants+stats.CustomConsultants)
		assert.Equal(t, repo.count(), stats.TotalConsultants)
	}

	check()
	var ids []uint
	for i := 0; i < 3; i++ {
		in := validInput()
		in.Email = fmt.Sprintf("custom%d@example.com", i)
		c, err := svc.Create(ctx, in)
		require.NoError(t, err)
		ids = append(ids, c.ID)
		check()
	}
	_, err := svc.Delete(ctx, ids[1])
	require.NoError(t, err)
	check()

	stats, err := d.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.CustomConsultants)
	assert.Equal(t, 1, stats.BuiltInConsultants)
}

func TestDirectoryStoreFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.listErr = errors.New("connection refused")
	d := newTestDirectory(repo)

	_, err := d.Stats(context.Background())
	assert.True(t, appErr.IsCode(err, appErr.CodeInternal))
	_, err = d.Services(context.Background())
	assert.Error(t, err)
	_, err = d.Regions(context.Background())
	assert.Error(t, err)
}
