package leads

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"sales-console/log"
)

// OpportunityStore holds opportunities in creation order. It starts empty and
// is safe for concurrent use.
type OpportunityStore struct {
	mu    sync.RWMutex
	items []Opportunity
}

func NewOpportunityStore() *OpportunityStore {
	return &OpportunityStore{}
}

// Add appends o.
func (s *OpportunityStore) Add(o Opportunity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, o)
}

// All returns a snapshot in creation order.
func (s *OpportunityStore) All() []Opportunity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Opportunity(nil), s.items...)
}

func (s *OpportunityStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// NewOpportunityID returns a fresh "opp-" prefixed id.
func NewOpportunityID() string {
	return "opp-" + uuid.NewString()
}

// Converter turns leads into opportunities.
type Converter struct {
	leads *Store
	opps  *OpportunityStore
	newID func() string
}

func NewConverter(leads *Store, opps *OpportunityStore) *Converter {
	return &Converter{leads: leads, opps: opps, newID: NewOpportunityID}
}

// Convert moves lead out of the lead store and records an opportunity for it
// in the Qualification stage. The stored copy of the lead is used, so edits
// saved since the caller read it carry over. Unqualified leads are rejected and
// left in place.
func (c *Converter) Convert(lead Lead) (Opportunity, error) {
	id := lead.ID
	lead, err := c.leads.take(id, func(l Lead) error {
		if !l.Convertible() {
			return ErrUnqualifiedLead
		}
		return nil
	})
	if err != nil {
		return Opportunity{}, fmt.Errorf("convert %s: %w", id, err)
	}

	opp := Opportunity{
		ID:          c.newID(),
		Name:        lead.Company + " - " + lead.Name,
		Stage:       StageQualification,
		AccountName: lead.Company,
		LeadID:      lead.ID,
	}
	if lead.Amount != nil {
		opp.Amount = Float(*lead.Amount)
	}
	c.opps.Add(opp)
	log.InfoLog.Printf("converted lead %s to opportunity %s", lead.ID, opp.ID)
	return opp, nil
}
