package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nadavbarak14/hoopsync/internal/types"
)

func boolPtr(b bool) *bool { return &b }

func TestInferPBPLinks_AssistReboundStealScenario(t *testing.T) {
	events := []types.RawPBPEvent{
		{EventNumber: 1, Period: 1, Clock: "09:45", EventType: "shot", TeamExternalID: "100", Success: boolPtr(true)},
		{EventNumber: 2, Period: 1, Clock: "09:44", EventType: "assist", TeamExternalID: "100"},
		{EventNumber: 3, Period: 1, Clock: "09:30", EventType: "shot", TeamExternalID: "101", Success: boolPtr(false)},
		{EventNumber: 4, Period: 1, Clock: "09:28", EventType: "rebound", TeamExternalID: "101"},
		{EventNumber: 5, Period: 1, Clock: "05:30", EventType: "turnover", TeamExternalID: "100"},
		{EventNumber: 6, Period: 1, Clock: "05:29", EventType: "steal", TeamExternalID: "101"},
	}

	InferPBPLinks(events)

	assert.Equal(t, []int{1}, events[1].RelatedEventNumbers)
	assert.Equal(t, []int{3}, events[3].RelatedEventNumbers)
	assert.Equal(t, []int{5}, events[5].RelatedEventNumbers)
	assert.Nil(t, events[0].RelatedEventNumbers)
	assert.Nil(t, events[2].RelatedEventNumbers)
	assert.Nil(t, events[4].RelatedEventNumbers)
}

func TestInferPBPLinks_NeverCrossesPeriodBoundary(t *testing.T) {
	events := []types.RawPBPEvent{
		{EventNumber: 1, Period: 1, Clock: "00:01", EventType: "shot", TeamExternalID: "100", Success: boolPtr(true)},
		{EventNumber: 2, Period: 2, Clock: "09:59", EventType: "assist", TeamExternalID: "100"},
	}

	InferPBPLinks(events)

	assert.Nil(t, events[1].RelatedEventNumbers)
}
