package leads

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertLead(t *testing.T) {
	store := NewStoreWith([]Lead{
		{ID: "l1", Name: "Ada", Company: "Acme", Email: "ada@acme.io", Score: 80, Status: StatusQualified, Amount: Float(5000)},
		{ID: "l2", Name: "Bob", Company: "Globex", Email: "bob@globex.io", Score: 20, Status: StatusNew},
	})
	opps := NewOpportunityStore()
	c := NewConverter(store, opps)

	lead, ok := store.Get("l1")
	require.True(t, ok)
	opp, err := c.Convert(lead)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(opp.ID, "opp-"))
	assert.Equal(t, "Acme - Ada", opp.Name)
	assert.Equal(t, StageQualification, opp.Stage)
	assert.Equal(t, "Acme", opp.AccountName)
	assert.Equal(t, "l1", opp.LeadID)
	require.NotNil(t, opp.Amount)
	assert.Equal(t, 5000.0, *opp.Amount)

	assert.Equal(t, []string{"l2"}, ids(store.All()))
	assert.Equal(t, []Opportunity{opp}, opps.All())
}

func TestConvertRejectsUnqualified(t *testing.T) {
	store := NewStoreWith([]Lead{{ID: "l1", Name: "Eve", Status: StatusUnqualified}})
	opps := NewOpportunityStore()

	_, err := NewConverter(store, opps).Convert(Lead{ID: "l1", Status: StatusUnqualified})
	assert.ErrorIs(t, err, ErrUnqualifiedLead)
	assert.Len(t, store.All(), 1)
	assert.Zero(t, opps.Len())
}

func TestConvertUnknownLead(t *testing.T) {
	opps := NewOpportunityStore()

	_, err := NewConverter(NewStoreWith(nil), opps).Convert(Lead{ID: "ghost", Status: StatusNew})
	assert.ErrorIs(t, err, ErrLeadNotFound)
	assert.Zero(t, opps.Len())
}

func TestConvertUsesStoredLead(t *testing.T) {
	store := NewStoreWith([]Lead{{ID: "l1", Name: "Ada", Company: "Acme", Status: StatusNew}})
	_, ok := store.Update("l1", LeadUpdate{Amount: Float(750)})
	require.True(t, ok)

	// The caller's copy predates the edit.
	stale := Lead{ID: "l1", Name: "Ada", Company: "Acme", Status: StatusNew}
	opp, err := NewConverter(store, NewOpportunityStore()).Convert(stale)
	require.NoError(t, err)
	require.NotNil(t, opp.Amount)
	assert.Equal(t, 750.0, *opp.Amount)
}

func TestConvertWithoutAmount(t *testing.T) {
	store := NewStoreWith([]Lead{{ID: "l1", Name: "Ada", Status: StatusContacted}})
	opps := NewOpportunityStore()
	c := NewConverter(store, opps)
	c.newID = func() string { return "opp-fixed" }

	opp, err := c.Convert(Lead{ID: "l1"})
	require.NoError(t, err)
	assert.Equal(t, "opp-fixed", opp.ID)
	assert.Nil(t, opp.Amount)
}

func TestOpportunityIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewOpportunityID()
		assert.False(t, seen[id], id)
		seen[id] = true
	}
}
