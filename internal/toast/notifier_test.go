package toast

import (
	"testing"
	"time"

	"DemandCast/internal/domain/models"
	"DemandCast/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyAssignsUniqueIDs(t *testing.T) {
	n := NewNotifier(repository.NoopMetrics{}, WithDelay(time.Hour))
	defer n.Close()

	a := n.Notify("first", models.SeverityInfo)
	b := n.Notify("second", models.SeverityInfo)

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)

	active := n.Active()
	require.Len(t, active, 2)
	assert.Equal(t, "first", active[0].Message)
	assert.Equal(t, "second", active[1].Message)
}

func TestDismissRemovesOnlyTarget(t *testing.T) {
	n := NewNotifier(repository.NoopMetrics{}, WithDelay(time.Hour))
	defer n.Close()

	a := n.Notify("keep me", models.SeveritySuccess)
	b := n.Notify("drop me", models.SeverityError)

	n.Dismiss(b)

	active := n.Active()
	require.Len(t, active, 1)
	assert.Equal(t, a, active[0].ID)

	// Unknown id is a no-op.
	n.Dismiss("nope")
	assert.Len(t, n.Active(), 1)
}

func TestAutoDismissTimersAreIndependent(t *testing.T) {
	n := NewNotifier(repository.NoopMetrics{}, WithDelay(30*time.Millisecond))
	defer n.Close()

	n.Notify("early", models.SeverityInfo)
	time.Sleep(20 * time.Millisecond)
	late := n.Notify("late", models.SeverityInfo)

	require.Eventually(t, func() bool {
		active := n.Active()
		return len(active) == 1 && active[0].ID == late
	}, time.Second, 5*time.Millisecond, "the earlier toast should expire first")

	require.Eventually(t, func() bool {
		return len(n.Active()) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestSinkObservesEveryToast(t *testing.T) {
	var seen []models.Toast
	n := NewNotifier(repository.NoopMetrics{}, WithDelay(time.Hour), WithSink(func(t models.Toast) {
		seen = append(seen, t)
	}))
	defer n.Close()

	n.Notify("one", models.SeverityWarning)
	n.Notify("two", models.SeveritySuccess)

	require.Len(t, seen, 2)
	assert.Equal(t, models.SeverityWarning, seen[0].Severity)
	assert.Equal(t, "two", seen[1].Message)
}

func TestCloseStopsEverything(t *testing.T) {
	n := NewNotifier(repository.NoopMetrics{}, WithDelay(time.Hour))
	n.Notify("pending", models.SeverityInfo)
	n.Close()
	assert.Empty(t, n.Active())
}
