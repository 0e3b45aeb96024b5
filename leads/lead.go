// Package leads holds the sales console's domain: leads, opportunities, the
// persisted list filters and the engine that turns them into a paged view.
package leads

// Status is the qualification state of a lead.
type Status string

const (
	StatusNew         Status = "new"
	StatusContacted   Status = "contacted"
	StatusQualified   Status = "qualified"
	StatusUnqualified Status = "unqualified"
)

// Lead is an unconverted sales prospect.
type Lead struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Source  string `json:"source"`
	// Score ranks leads 0-100. Nothing in this package changes it.
	Score  int      `json:"score"`
	Status Status   `json:"status"`
	Amount *float64 `json:"amount,omitempty"`
}

// Convertible reports whether the lead may become an opportunity.
func (l Lead) Convertible() bool {
	return l.Status != StatusUnqualified
}

func (l Lead) equal(o Lead) bool {
	if l.ID != o.ID || l.Name != o.Name || l.Company != o.Company || l.Email != o.Email ||
		l.Source != o.Source || l.Score != o.Score || l.Status != o.Status {
		return false
	}
	if l.Amount == nil || o.Amount == nil {
		return l.Amount == nil && o.Amount == nil
	}
	return *l.Amount == *o.Amount
}

// LeadUpdate is a partial set of fields to merge into a lead. Nil fields are left
// alone. ClearAmount removes the amount and wins over Amount.
type LeadUpdate struct {
	Name        *string
	Company     *string
	Email       *string
	Source      *string
	Status      *Status
	Amount      *float64
	ClearAmount bool
}

// Apply returns a copy of l with u merged in.
func (l Lead) Apply(u LeadUpdate) Lead {
	if u.Name != nil {
		l.Name = *u.Name
	}
	if u.Company != nil {
		l.Company = *u.Company
	}
	if u.Email != nil {
		l.Email = *u.Email
	}
	if u.Source != nil {
		l.Source = *u.Source
	}
	if u.Status != nil {
		l.Status = *u.Status
	}
	switch {
	case u.ClearAmount:
		l.Amount = nil
	case u.Amount != nil:
		amount := *u.Amount
		l.Amount = &amount
	}
	return l
}

// Opportunity is a sales pursuit created by converting a lead. LeadID keeps
// pointing at the origin after the lead is gone.
type Opportunity struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Stage       string   `json:"stage"`
	AccountName string   `json:"accountName"`
	LeadID      string   `json:"leadId"`
	Amount      *float64 `json:"amount,omitempty"`
}

// StageQualification is the stage every new opportunity starts in.
const StageQualification = "Qualification"

// Float is a helper for optional amounts.
func Float(v float64) *float64 {
	return &v
}
