package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/domain"
)

var testNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func day(n int) time.Duration { return time.Duration(n) * 24 * time.Hour }

func TestSpreadDueDates(t *testing.T) {
	tests := []struct {
		name     string
		deadline time.Time
		n        int
		want     []time.Duration // offsets from testNow
	}{
		{
			name:     "three tasks across a week land on days 2 4 and 6",
			deadline: testNow.Add(day(7)),
			n:        3,
			want:     []time.Duration{day(2), day(4), day(6)},
		},
		{
			name:     "single task lands at the far end of the span",
			deadline: testNow.Add(day(10)),
			n:        1,
			want:     []time.Duration{day(9)},
		},
		{
			name:     "tight deadline pushes every task one day out",
			deadline: testNow.Add(12 * time.Hour),
			n:        5,
			want:     []time.Duration{day(1), day(1), day(1), day(1), day(1)},
		},
		{
			name:     "four tasks across nine days",
			deadline: testNow.Add(day(9)),
			n:        4,
			want:     []time.Duration{day(2), day(4), day(6), day(8)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SpreadDueDates(testNow, tt.deadline, tt.n)
			require.Len(t, got, tt.n)
			for i, offset := range tt.want {
				assert.WithinDuration(t, testNow.Add(offset), got[i], time.Second, "task %d", i+1)
			}
		})
	}
}

func TestSpreadDueDatesZeroTasks(t *testing.T) {
	assert.Nil(t, SpreadDueDates(testNow, testNow.Add(day(7)), 0))
	assert.Nil(t, SpreadDueDates(testNow, testNow.Add(day(7)), -1))
}

func TestSpreadDueDatesPastDeadline(t *testing.T) {
	deadline := testNow.Add(-day(2))

	got := SpreadDueDates(testNow, deadline, 3)

	require.Len(t, got, 3)
	for i, due := range got {
		assert.WithinDuration(t, deadline.Add(-day(1)), due, time.Second, "task %d", i+1)
		assert.True(t, due.Before(testNow), "task %d should come out in the past", i+1)
	}
}

func TestSpreadDueDatesTightDeadlineOvershootsIt(t *testing.T) {
	// With less than a day of headroom the one-day floor wins over the
	// deadline, every date lands after it.
	deadline := testNow.Add(12 * time.Hour)

	for _, due := range SpreadDueDates(testNow, deadline, 5) {
		assert.True(t, due.After(deadline))
	}
}

func TestSpreadDueDatesMonotonicWhenUnclamped(t *testing.T) {
	for days := 2; days <= 30; days += 4 {
		for n := 1; n <= 12; n++ {
			deadline := testNow.Add(day(days))
			dates := SpreadDueDates(testNow, deadline, n)
			require.Len(t, dates, n)
			for i := 1; i < len(dates); i++ {
				assert.False(t, dates[i].Before(dates[i-1]),
					"days=%d n=%d: task %d due before task %d", days, n, i+1, i)
			}
		}
	}
}

func TestSpreadDueDatesBounds(t *testing.T) {
	lower := testNow.Add(time.Hour)
	for days := 2; days <= 30; days += 4 {
		deadline := testNow.Add(day(days))
		for _, due := range SpreadDueDates(testNow, deadline, 8) {
			assert.False(t, due.Before(lower), "days=%d: due %v under the one hour floor", days, due)
			assert.False(t, due.After(deadline), "days=%d: due %v past the deadline", days, due)
		}
	}
}

func TestSpreadDueDatesLowClampCompressesEarlyTasks(t *testing.T) {
	// A large batch over a short span puts the first tentative date under the
	// one hour floor. That date is pushed to one day out, past its unclamped
	// successors, so ordering is locally compressed.
	deadline := testNow.Add(day(3))

	dates := SpreadDueDates(testNow, deadline, 50)

	require.Len(t, dates, 50)
	assert.WithinDuration(t, testNow.Add(day(1)), dates[0], time.Second)
	assert.True(t, dates[1].Before(dates[0]), "second task stays on its tentative date")
}

func newAllocator(goals *fakeGoalRepo, tasks *fakeTaskRepo, cache *fakeGoalCache) *AllocatorService {
	svc := NewAllocatorService(goals, tasks, nil, zap.NewNop())
	if cache != nil {
		svc.cache = cache
	}
	svc.now = func() time.Time { return testNow }
	return svc
}

func testGoal(deadline time.Time) *domain.Goal {
	return &domain.Goal{
		ID:        uuid.NewString(),
		OwnerID:   uuid.NewString(),
		Title:     "Pass the calculus final",
		Deadline:  deadline,
		CreatedAt: testNow.Add(-day(1)),
		UpdatedAt: testNow.Add(-day(1)),
	}
}

func TestAllocateTasks(t *testing.T) {
	goal := testGoal(testNow.Add(day(7)))
	tasks := newFakeTaskRepo()
	svc := newAllocator(newFakeGoalRepo(goal), tasks, nil)

	specs := []domain.SubtaskSpec{
		{Title: "Review limits", EstimatedMinutes: 90},
		{Title: "  Practice derivatives  ", Priority: domain.TaskPriorityHigh},
		{Title: "Mock exam", Description: "full length, timed"},
	}

	got, err := svc.AllocateTasks(context.Background(), goal.ID, specs)

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 1, tasks.saveCalls)

	assert.Equal(t, "Review limits", got[0].Title)
	assert.Equal(t, "Practice derivatives", got[1].Title, "titles are trimmed")
	assert.Equal(t, "Mock exam", got[2].Title)

	for i, task := range got {
		_, err := uuid.Parse(task.ID)
		assert.NoError(t, err, "task %d id should be a uuid", i+1)
		assert.Equal(t, goal.ID, task.GoalID)
		assert.Equal(t, goal.OwnerID, task.OwnerID)
		assert.Equal(t, domain.TaskStatusPending, task.Status)
		assert.Equal(t, i+1, task.OrderIndex)
		assert.WithinDuration(t, testNow.Add(day(2*(i+1))), task.DueDate, time.Second)
	}

	assert.Equal(t, domain.TaskPriorityMedium, got[0].Priority, "empty priority defaults to medium")
	assert.Equal(t, domain.TaskPriorityHigh, got[1].Priority)
	assert.Equal(t, 90, got[0].EstimatedMinutes)
}

func TestAllocateTasksEmptyBatch(t *testing.T) {
	goal := testGoal(testNow.Add(day(7)))
	tasks := newFakeTaskRepo()
	svc := newAllocator(newFakeGoalRepo(goal), tasks, nil)

	got, err := svc.AllocateTasks(context.Background(), goal.ID, nil)

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 0, tasks.saveCalls, "nothing to persist")
}

func TestAllocateTasksGoalNotFound(t *testing.T) {
	tasks := newFakeTaskRepo()
	svc := newAllocator(newFakeGoalRepo(), tasks, nil)

	// A bad payload does not mask the missing goal.
	_, err := svc.AllocateTasks(context.Background(), uuid.NewString(), []domain.SubtaskSpec{{Title: ""}})

	assert.ErrorIs(t, err, domain.ErrGoalNotFound)
	assert.Equal(t, 0, tasks.saveCalls)
}

func TestAllocateTasksValidation(t *testing.T) {
	goal := testGoal(testNow.Add(day(7)))

	tests := []struct {
		name  string
		specs []domain.SubtaskSpec
		field string
	}{
		{
			name:  "blank title",
			specs: []domain.SubtaskSpec{{Title: "ok"}, {Title: "   "}},
			field: "subtasks[1].title",
		},
		{
			name:  "unknown priority",
			specs: []domain.SubtaskSpec{{Title: "ok", Priority: "urgent"}},
			field: "subtasks[0].priority",
		},
		{
			name:  "negative estimate",
			specs: []domain.SubtaskSpec{{Title: "ok", EstimatedMinutes: -5}},
			field: "subtasks[0].estimated_minutes",
		},
		{
			name:  "negative order index",
			specs: []domain.SubtaskSpec{{Title: "ok", OrderIndex: -1}},
			field: "subtasks[0].order_index",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := newFakeTaskRepo()
			svc := newAllocator(newFakeGoalRepo(goal), tasks, nil)

			_, err := svc.AllocateTasks(context.Background(), goal.ID, tt.specs)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, 0, tasks.saveCalls, "invalid batches never reach storage")
		})
	}
}

func TestAllocateTasksExpiredGoal(t *testing.T) {
	goal := testGoal(testNow.Add(-day(2)))
	tasks := newFakeTaskRepo()
	svc := newAllocator(newFakeGoalRepo(goal), tasks, nil)

	got, err := svc.AllocateTasks(context.Background(), goal.ID, []domain.SubtaskSpec{{Title: "Cram"}})

	require.NoError(t, err, "expired goals still allocate")
	require.Len(t, got, 1)
	assert.WithinDuration(t, goal.Deadline.Add(-day(1)), got[0].DueDate, time.Second)
	assert.Equal(t, 1, tasks.saveCalls)
}

func TestAllocateTasksOrderIndexPassthrough(t *testing.T) {
	goal := testGoal(testNow.Add(day(7)))
	svc := newAllocator(newFakeGoalRepo(goal), newFakeTaskRepo(), nil)

	got, err := svc.AllocateTasks(context.Background(), goal.ID, []domain.SubtaskSpec{
		{Title: "a", OrderIndex: 10},
		{Title: "b"},
	})

	require.NoError(t, err)
	assert.Equal(t, 10, got[0].OrderIndex, "caller supplied index survives")
	assert.Equal(t, 2, got[1].OrderIndex, "missing index defaults to batch position")
	assert.True(t, got[0].DueDate.Before(got[1].DueDate),
		"spacing follows batch position, not the supplied index")
}

func TestAllocateTasksBatchFailure(t *testing.T) {
	goal := testGoal(testNow.Add(day(7)))
	tasks := newFakeTaskRepo()
	tasks.saveErr = errors.New("connection reset")
	svc := newAllocator(newFakeGoalRepo(goal), tasks, nil)

	_, err := svc.AllocateTasks(context.Background(), goal.ID, []domain.SubtaskSpec{{Title: "a"}})

	require.Error(t, err)
	assert.ErrorContains(t, err, "saving task batch")
}

func TestAllocateTasksReadsGoalFromCache(t *testing.T) {
	goal := testGoal(testNow.Add(day(7)))
	cache := newFakeGoalCache()
	cache.entries[goal.ID] = goal

	// The repository does not know the goal, only the cache does.
	svc := newAllocator(newFakeGoalRepo(), newFakeTaskRepo(), cache)

	got, err := svc.AllocateTasks(context.Background(), goal.ID, []domain.SubtaskSpec{{Title: "a"}})

	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestAllocateTasksCacheFailureFallsBack(t *testing.T) {
	goal := testGoal(testNow.Add(day(7)))
	cache := newFakeGoalCache()
	cache.getErr = errors.New("redis down")

	svc := newAllocator(newFakeGoalRepo(goal), newFakeTaskRepo(), cache)

	_, err := svc.AllocateTasks(context.Background(), goal.ID, []domain.SubtaskSpec{{Title: "a"}})

	require.NoError(t, err, "cache trouble must not block allocation")
}

func TestAllocateTasksPopulatesCache(t *testing.T) {
	goal := testGoal(testNow.Add(day(7)))
	cache := newFakeGoalCache()
	svc := newAllocator(newFakeGoalRepo(goal), newFakeTaskRepo(), cache)

	_, err := svc.AllocateTasks(context.Background(), goal.ID, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets, "repository hit should warm the cache")
}
