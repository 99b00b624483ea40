package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryObserve(t *testing.T) {
	var s Summary
	a := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	b := a.Add(time.Hour)

	s.Observe(NewPoint(0, a))
	s.Observe(NewPoint(1, b))

	assert.Equal(t, 2, s.Count)
	assert.Equal(t, a, *s.First)
	assert.Equal(t, b, *s.Last)
}

func TestPointJSON(t *testing.T) {
	p := NewPoint(3, time.Date(2022, 1, 1, 0, 0, 0, 5000, time.UTC))
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"index":3,"time":"2022-01-01T00:00:00.000005Z","unix_micro":1640995200000005}`, string(data))
}
