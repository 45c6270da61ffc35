package motor

import (
	"testing"

	"github.com/pb33f/harview/motor/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSummary(t *testing.T) {
	capture, err := LoadCaptureBytes([]byte(sampleHAR))
	require.NoError(t, err)

	summary := ComputeSummary(capture.Records)

	assert.Equal(t, 3, summary.TotalRequests)
	assert.Equal(t, int64(2048+64), summary.TotalSize)
	assert.Equal(t, int64(2048), summary.TotalCompressedSize)
	assert.InDelta(t, 210, summary.TotalTime, 1e-9)

	assert.Equal(t, PhaseTotals{
		Blocked: 5,
		DNS:     10,
		Connect: 20,
		SSL:     15,
		Send:    1,
		Wait:    140,
		Receive: 34,
	}, summary.Phases)

	assert.Len(t, summary.RequestsByType, len(model.ResourceTypes))
	assert.Equal(t, 1, summary.RequestsByType[model.ResourceHTML])
	assert.Equal(t, 1, summary.RequestsByType[model.ResourceXHR])
	assert.Equal(t, 1, summary.RequestsByType[model.ResourceOther])
	assert.Equal(t, 0, summary.RequestsByType[model.ResourceFont])

	assert.Equal(t, map[int]int{200: 1, 404: 1, 0: 1}, summary.RequestsByStatus)
	assert.Equal(t, []string{"example.com", "api.example.com", ""}, summary.Domains)
}

func TestComputeSummary_Empty(t *testing.T) {
	summary := ComputeSummary(nil)

	assert.Zero(t, summary.TotalRequests)
	assert.NotNil(t, summary.Domains)
	assert.Empty(t, summary.Domains)
	assert.Empty(t, summary.RequestsByStatus)
	assert.Empty(t, summary.TopResourceTypes(5))
}

func TestSummary_TopResourceTypes(t *testing.T) {
	summary := Summary{RequestsByType: map[model.ResourceType]int{
		model.ResourceImage:      4,
		model.ResourceCSS:        2,
		model.ResourceJavaScript: 4,
		model.ResourceFont:       0,
		model.ResourceHTML:       1,
	}}

	assert.Equal(t, []ResourceCount{
		{Type: model.ResourceImage, Count: 4},
		{Type: model.ResourceJavaScript, Count: 4},
		{Type: model.ResourceCSS, Count: 2},
	}, summary.TopResourceTypes(3))

	assert.Len(t, summary.TopResourceTypes(-1), 4)
	assert.Empty(t, summary.TopResourceTypes(0))
}
