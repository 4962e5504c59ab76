package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStatusRank(t *testing.T) {
	assert.Equal(t, 0, JobPosted.Rank())
	assert.Equal(t, 1, JobAccepted.Rank())
	assert.Equal(t, 2, JobCompleted.Rank())
	assert.Equal(t, 3, JobDelivered.Rank())
	assert.Equal(t, -1, JobStatus("cancelled").Rank())
}

func TestJobOwned(t *testing.T) {
	job := Job{PostedBy: UserRef{ID: 7}}
	assert.True(t, job.Owned(7))
	assert.False(t, job.Owned(8))
}

func TestBidSuperseded(t *testing.T) {
	winner := int64(3)
	job := Job{AcceptedBidID: &winner}

	assert.False(t, Bid{ID: 3}.Superseded(job))
	assert.True(t, Bid{ID: 4}.Superseded(job))
	assert.False(t, Bid{ID: 4}.Superseded(Job{}), "open job supersedes nothing")
}

// The embedded price denominations must marshal as flat top-level keys, the
// way the backend expects them.
func TestJobSpecMarshalsFlatPrice(t *testing.T) {
	data, err := json.Marshal(JobSpec{
		CrafterName: "Thalrik",
		Money:       Money{Gold: 1, Silver: 2, Copper: 3},
	})
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, float64(1), raw["gold"])
	assert.Equal(t, float64(2), raw["silver"])
	assert.Equal(t, float64(3), raw["copper"])
	_, nested := raw["Money"]
	assert.False(t, nested)
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "5g 25s 0c", Money{Gold: 5, Silver: 25}.String())
}
