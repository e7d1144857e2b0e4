package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(tasks []Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestSortByPriority(t *testing.T) {
	tasks := []Task{
		{ID: 1, Priority: PriorityLow},
		{ID: 2, Priority: PriorityHigh},
		{ID: 3, Priority: PriorityMedium},
		{ID: 4, Priority: PriorityHigh},
		{ID: 5, Priority: PriorityLow},
		{ID: 6, Priority: PriorityMedium},
	}

	sorted := SortByPriority(tasks)

	assert.Equal(t, []int64{2, 4, 3, 6, 1, 5}, ids(sorted))
	// input untouched
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6}, ids(tasks))
}

func TestSortByPriority_UnknownLast(t *testing.T) {
	tasks := []Task{
		{ID: 1, Priority: "URGENT"},
		{ID: 2, Priority: PriorityLow},
	}
	assert.Equal(t, []int64{2, 1}, ids(SortByPriority(tasks)))
}

func TestSortByPriority_Empty(t *testing.T) {
	assert.Empty(t, SortByPriority(nil))
}

func TestTaskFilter_Apply(t *testing.T) {
	tasks := []Task{
		{ID: 1, Priority: PriorityLow, Completed: true},
		{ID: 2, Priority: PriorityLow, Completed: false},
		{ID: 3, Priority: PriorityHigh, Completed: true},
		{ID: 4, Priority: PriorityMedium, Completed: false},
	}

	tests := []struct {
		name   string
		filter TaskFilter
		want   []int64
	}{
		{"all", FilterAll, []int64{3, 4, 1, 2}},
		{"pending", FilterPending, []int64{4, 2}},
		{"completed", FilterCompleted, []int64{3, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(tasks)
			assert.Equal(t, tt.want, ids(got))
			for _, task := range got {
				assert.True(t, tt.filter.Match(task))
			}
		})
	}
}

func TestTaskFilter_NextAndParse(t *testing.T) {
	assert.Equal(t, FilterPending, FilterAll.Next())
	assert.Equal(t, FilterCompleted, FilterPending.Next())
	assert.Equal(t, FilterAll, FilterCompleted.Next())

	for _, f := range []TaskFilter{FilterAll, FilterPending, FilterCompleted} {
		parsed, err := ParseTaskFilter(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, parsed)
	}

	_, err := ParseTaskFilter("done")
	assert.Error(t, err)
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority(" high ")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParsePriority("critical")
	assert.Error(t, err)
}

func TestFindProject(t *testing.T) {
	projects := []Project{{ID: 1, Name: "P1"}, {ID: 2, Name: "P2"}}

	p, ok := FindProject(projects, 2)
	require.True(t, ok)
	assert.Equal(t, "P2", p.Name)

	_, ok = FindProject(projects, 3)
	assert.False(t, ok)
}
