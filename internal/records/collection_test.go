package records

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID    string
	Value string
}

func (i item) RecordID() string { return i.ID }

func TestNewCollectionRejectsDuplicates(t *testing.T) {
	_, err := NewCollection([]item{{ID: "a"}, {ID: "a"}})
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Panics(t, func() { MustCollection([]item{{ID: "b"}, {ID: "b"}}) })
}

func TestPrependSwapsSlice(t *testing.T) {
	c := MustCollection([]item{{ID: "a"}, {ID: "b"}})
	before := c.Snapshot()

	require.NoError(t, c.Prepend(item{ID: "c"}))
	after := c.Snapshot()

	assert.Equal(t, []item{{ID: "a"}, {ID: "b"}}, before)
	assert.Equal(t, "c", after[0].ID)
	assert.Equal(t, 3, c.Len())
	assert.ErrorIs(t, c.Prepend(item{ID: "a"}), ErrDuplicateID)
}

func TestUpdate(t *testing.T) {
	c := MustCollection([]item{{ID: "a", Value: "1"}, {ID: "b", Value: "2"}})
	before := c.Snapshot()

	updated, err := c.Update("b", func(i item) (item, error) {
		i.Value = "3"
		return i, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "3", updated.Value)
	assert.Equal(t, "2", before[1].Value)

	got, err := c.Get("b")
	require.NoError(t, err)
	assert.Equal(t, "3", got.Value)

	_, err = c.Update("missing", func(i item) (item, error) { return i, nil })
	assert.ErrorIs(t, err, ErrNotFound)

	boom := errors.New("boom")
	_, err = c.Update("a", func(i item) (item, error) { return i, boom })
	assert.ErrorIs(t, err, boom)

	_, err = c.Update("a", func(i item) (item, error) {
		i.ID = "z"
		return i, nil
	})
	assert.Error(t, err)
	got, _ = c.Get("a")
	assert.Equal(t, "1", got.Value)
}

func TestFilter(t *testing.T) {
	c := MustCollection([]item{{ID: "a", Value: "x"}, {ID: "b", Value: "y"}, {ID: "c", Value: "x"}})
	got := c.Filter(func(i item) bool { return i.Value == "x" })
	assert.Equal(t, []item{{ID: "a", Value: "x"}, {ID: "c", Value: "x"}}, got)
}
