package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t0 = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	t1 = t0.Add(time.Minute)
)

func TestMergeProgress_InsertsVerbatim(t *testing.T) {
	got, changed := MergeProgress("acc", nil, ProgressUpdate{LessonID: "l1", Status: ProgressStarted, HomeworkPassed: true}, t0)

	require.True(t, changed)
	assert.Equal(t, Progress{AccountID: "acc", LessonID: "l1", Status: ProgressStarted, HomeworkPassed: true, UpdatedAt: t0}, got)
}

func TestMergeProgress_StartedToCompleted(t *testing.T) {
	existing := &Progress{AccountID: "acc", LessonID: "l1", Status: ProgressStarted, UpdatedAt: t0}

	got, changed := MergeProgress("acc", existing, ProgressUpdate{LessonID: "l1", Status: ProgressCompleted, HomeworkPassed: true}, t1)

	require.True(t, changed)
	assert.Equal(t, ProgressCompleted, got.Status)
	assert.True(t, got.HomeworkPassed)
	assert.Equal(t, t1, got.UpdatedAt)
}

func TestMergeProgress_CompletedIsLatched(t *testing.T) {
	existing := &Progress{AccountID: "acc", LessonID: "l1", Status: ProgressCompleted, HomeworkPassed: true, UpdatedAt: t0}

	for _, in := range []ProgressUpdate{
		{LessonID: "l1", Status: ProgressStarted},
		{LessonID: "l1", Status: ProgressCompleted, HomeworkPassed: false},
	} {
		got, changed := MergeProgress("acc", existing, in, t1)
		assert.False(t, changed)
		assert.Equal(t, *existing, got)
	}
}

func TestMergeProgress_StartedIgnoresStarted(t *testing.T) {
	existing := &Progress{AccountID: "acc", LessonID: "l1", Status: ProgressStarted, HomeworkPassed: false, UpdatedAt: t0}

	got, changed := MergeProgress("acc", existing, ProgressUpdate{LessonID: "l1", Status: ProgressStarted, HomeworkPassed: true}, t1)

	assert.False(t, changed)
	assert.False(t, got.HomeworkPassed)
	assert.Equal(t, t0, got.UpdatedAt)
}

func TestMergeProgress_Idempotent(t *testing.T) {
	in := ProgressUpdate{LessonID: "l1", Status: ProgressCompleted, HomeworkPassed: true}

	first, _ := MergeProgress("acc", nil, in, t0)
	second, changed := MergeProgress("acc", &first, in, t1)

	assert.False(t, changed)
	assert.Equal(t, first, second)
}

func TestMergeProgress_OrderIndependentOnceCompleted(t *testing.T) {
	started := ProgressUpdate{LessonID: "l1", Status: ProgressStarted}
	completed := ProgressUpdate{LessonID: "l1", Status: ProgressCompleted, HomeworkPassed: true}

	apply := func(seq ...ProgressUpdate) Progress {
		var cur *Progress
		for _, in := range seq {
			next, _ := MergeProgress("acc", cur, in, t0)
			cur = &next
		}
		return *cur
	}

	a := apply(completed, started, started)
	b := apply(started, completed, started)
	c := apply(started, started, completed)

	for _, p := range []Progress{a, b, c} {
		assert.Equal(t, ProgressCompleted, p.Status)
		assert.True(t, p.HomeworkPassed)
	}
}

func TestProgressStatus_IsValid(t *testing.T) {
	assert.True(t, ProgressStarted.IsValid())
	assert.True(t, ProgressCompleted.IsValid())
	assert.False(t, ProgressStatus("done").IsValid())
	assert.False(t, ProgressStatus("").IsValid())
}
