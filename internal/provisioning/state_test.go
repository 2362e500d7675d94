package provisioning

import (
	"sync"
	"testing"

	"github.com/rfleet/rfleet/internal/platform/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateTransitions(t *testing.T) {
	s := NewState()

	s.Transition("redis-prod-vpc", "vpc", "", StatusCreating)
	rec := s.Resource("redis-prod-vpc")
	require.NotNil(t, rec)
	assert.Equal(t, StatusCreating, rec.Status)
	assert.Empty(t, rec.ID)

	// ID arrives once the API returns, status moves to ready.
	s.Transition("redis-prod-vpc", "vpc", "vpc-123", StatusReady)
	rec = s.Resource("redis-prod-vpc")
	assert.Equal(t, "vpc-123", rec.ID)
	assert.Equal(t, StatusReady, rec.Status)

	// A later transition without an ID keeps the known one.
	s.Transition("redis-prod-vpc", "vpc", "", StatusDeleting)
	rec = s.Resource("redis-prod-vpc")
	assert.Equal(t, "vpc-123", rec.ID)
	assert.Equal(t, StatusDeleting, rec.Status)
}

func TestStateResource_Unknown(t *testing.T) {
	assert.Nil(t, NewState().Resource("nope"))
}

func TestStateResources_SortedSnapshot(t *testing.T) {
	s := NewState()
	s.Transition("b", "subnet", "subnet-2", StatusReady)
	s.Transition("a", "subnet", "subnet-1", StatusReady)

	records := s.Resources()
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].Name)
	assert.Equal(t, "b", records[1].Name)

	// Mutating the snapshot must not touch tracked state.
	records[0].Status = StatusFailed
	assert.Equal(t, StatusReady, s.Resource("a").Status)
}

func TestStateTransitions_Concurrent(t *testing.T) {
	s := NewState()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Transition("fleet", "asg", "", StatusUpdating)
		}()
		go func() {
			defer wg.Done()
			s.Transition("cluster", "eks", "", StatusCreating)
		}()
	}
	wg.Wait()
	assert.Len(t, s.Resources(), 2)
}

func TestSubnetIDs(t *testing.T) {
	ids := SubnetIDs([]*aws.Subnet{{ID: "subnet-a"}, {ID: "subnet-b"}})
	assert.Equal(t, []string{"subnet-a", "subnet-b"}, ids)
}
