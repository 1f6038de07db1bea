package waits

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"totvs_automation/domain/entities"
	"totvs_automation/infrastructure/browser/browsertest"
)

func TestUntilReturnsTimeoutError(t *testing.T) {
	calls := 0
	err := Until(context.Background(), 30*time.Millisecond, 5*time.Millisecond, "never", func(ctx context.Context) (bool, error) {
		calls++
		return false, errors.New("not yet")
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, entities.ErrTimeout))

	var te *entities.TimeoutError
	require.True(t, errors.As(err, &te))
	require.Equal(t, "never", te.Op)
	require.EqualError(t, te.Last, "not yet")
	require.Greater(t, calls, 1)
}

func TestUntilStopsAtDeadlineWithLongInterval(t *testing.T) {
	calls := 0
	start := time.Now()
	err := Until(context.Background(), 30*time.Millisecond, 500*time.Millisecond, "slow poll", func(ctx context.Context) (bool, error) {
		calls++
		return false, nil
	})
	require.ErrorIs(t, err, entities.ErrTimeout)
	require.Less(t, time.Since(start), 300*time.Millisecond)
	require.Equal(t, 2, calls)
}

func TestUntilEvaluatesOnceWithZeroTimeout(t *testing.T) {
	calls := 0
	err := Until(context.Background(), 0, time.Millisecond, "once", func(ctx context.Context) (bool, error) {
		calls++
		return true, nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

func TestUntilStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Until(ctx, time.Second, time.Millisecond, "cancelled", func(ctx context.Context) (bool, error) {
		return false, nil
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestForElementStates(t *testing.T) {
	d := browsertest.NewDriver()
	hidden := browsertest.NewElement("input", "", nil)
	hidden.Hidden = true
	d.Put(entities.ByID, "hidden", hidden)
	d.Put(entities.ByID, "shown", browsertest.NewElement("input", "", nil))

	ctx := context.Background()
	_, err := ForElement(ctx, d, entities.ByID, "hidden", Present, 10*time.Millisecond)
	require.NoError(t, err)

	_, err = ForElement(ctx, d, entities.ByID, "hidden", Visible, 10*time.Millisecond)
	require.ErrorIs(t, err, entities.ErrTimeout)

	el, err := ForElement(ctx, d, entities.ByID, "shown", Clickable, 10*time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, el)
}

func TestForAnyElementPicksFirstMatchingCandidate(t *testing.T) {
	d := browsertest.NewDriver()
	want := browsertest.NewElement("form", "", nil)
	d.Put(entities.ByXPath, "//h1", want)

	el, err := ForAnyElement(context.Background(), d, []entities.Locator{
		{By: entities.ByCSS, Value: "#missing"},
		{By: entities.ByXPath, Value: "//h1"},
	}, Visible, 10*time.Millisecond)
	require.NoError(t, err)
	require.Same(t, want, el)
}

func TestForStale(t *testing.T) {
	el := browsertest.NewElement("tr", "", nil)
	require.ErrorIs(t, ForStale(context.Background(), el, 20*time.Millisecond), entities.ErrTimeout)

	el.Stale = true
	require.NoError(t, ForStale(context.Background(), el, time.Second))
}

func TestForTitlePrefix(t *testing.T) {
	d := browsertest.NewDriver()
	n := 0
	d.TitleFunc = func() string {
		n++
		if n < 3 {
			return "Escolha"
		}
		return "RES:CANCEL"
	}
	title, err := ForTitlePrefix(context.Background(), d, "RES:", 5*time.Second)
	require.NoError(t, err)
	require.Equal(t, "RES:CANCEL", title)
}

func TestTruthy(t *testing.T) {
	require.False(t, Truthy(nil))
	require.False(t, Truthy(false))
	require.False(t, Truthy(""))
	require.False(t, Truthy(float64(0)))
	require.True(t, Truthy(true))
	require.True(t, Truthy("x"))
	require.True(t, Truthy(float64(3)))
	require.True(t, Truthy(map[string]interface{}{}))
}
