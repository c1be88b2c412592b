package domain

// Filter match modes offered by the product UI. The API only checks that an
// operator is present, so unknown values pass through unchanged.
const (
	FilterContains   = "Contains"
	FilterEquals     = "Equals"
	FilterStartsWith = "Starts with"
	FilterEndsWith   = "Ends with"
)

// Boolean operators combining the filters of a group.
const (
	OperatorAnd = "AND"
	OperatorOr  = "OR"
)

// ValidGroupOperator reports whether op is AND or OR.
func ValidGroupOperator(op string) bool {
	return op == OperatorAnd || op == OperatorOr
}

// NewGroupSentinel is the groupId value a client sends to force a fresh
// group when placing a filter, even if the record already has groups.
const NewGroupSentinel = "new"

// Filter is a single match criterion inside a filter group.
type Filter struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// FilterGroup combines its filters with a single boolean operator. A group
// may be empty right after creation, but filter deletion prunes any group it
// leaves empty.
type FilterGroup struct {
	ID       string   `json:"id"`
	Operator string   `json:"operator"`
	Filters  []Filter `json:"filters"`
}

// Record is a persona or authority level: a titled audience segment built
// from filter groups. Contacts is a display-formatted count regenerated
// whenever a filter is added; it is decorative, not a real aggregate.
type Record struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Key          string        `json:"key"`
	Contacts     string        `json:"contacts"`
	FilterGroups []FilterGroup `json:"filterGroups"`
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	out.FilterGroups = CloneGroups(r.FilterGroups)
	return &out
}

// CloneGroups returns a deep copy of a filter group list.
func CloneGroups(groups []FilterGroup) []FilterGroup {
	if groups == nil {
		return nil
	}
	out := make([]FilterGroup, len(groups))
	for i, g := range groups {
		out[i] = g
		if g.Filters != nil {
			out[i].Filters = append([]Filter{}, g.Filters...)
		}
	}
	return out
}

// FindGroup returns a pointer into the record's group list, or nil.
func (r *Record) FindGroup(id string) *FilterGroup {
	for i := range r.FilterGroups {
		if r.FilterGroups[i].ID == id {
			return &r.FilterGroups[i]
		}
	}
	return nil
}

// AddGroup appends g to the record's group list.
func (r *Record) AddGroup(g FilterGroup) {
	r.FilterGroups = append(r.FilterGroups, g)
}

// RemoveGroup deletes the group with the given id and returns it.
func (r *Record) RemoveGroup(id string) (FilterGroup, error) {
	for i := range r.FilterGroups {
		if r.FilterGroups[i].ID == id {
			removed := r.FilterGroups[i]
			r.FilterGroups = append(r.FilterGroups[:i], r.FilterGroups[i+1:]...)
			return removed, nil
		}
	}
	return FilterGroup{}, ErrNotFound
}

// SetGroupOperator merges a new operator onto the group. An empty op leaves
// the group untouched (partial merge).
func (r *Record) SetGroupOperator(id, op string) (*FilterGroup, error) {
	g := r.FindGroup(id)
	if g == nil {
		return nil, ErrNotFound
	}
	if op != "" {
		g.Operator = op
	}
	return g, nil
}

// PlaceFilter appends f to a group chosen by the placement policy:
// an explicit groupID targets that group (ErrNotFound if absent); the "new"
// sentinel, or a record with no groups at all, gets a fresh OR group with id
// freshGroupID; otherwise the record's first group takes the filter.
func (r *Record) PlaceFilter(f Filter, groupID, freshGroupID string) (*FilterGroup, error) {
	if groupID != "" && groupID != NewGroupSentinel {
		g := r.FindGroup(groupID)
		if g == nil {
			return nil, ErrNotFound
		}
		g.Filters = append(g.Filters, f)
		return g, nil
	}
	if len(r.FilterGroups) == 0 || groupID == NewGroupSentinel {
		r.AddGroup(FilterGroup{
			ID:       freshGroupID,
			Operator: OperatorOr,
			Filters:  []Filter{f},
		})
		return &r.FilterGroups[len(r.FilterGroups)-1], nil
	}
	first := &r.FilterGroups[0]
	first.Filters = append(first.Filters, f)
	return first, nil
}

// FilterUpdate carries the mutable filter fields; empty fields are ignored.
type FilterUpdate struct {
	Type     string `json:"type"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// UpdateFilter partial-merges upd onto the filter with the given id,
// scanning every group. First match wins; filter ids are unique within a
// record.
func (r *Record) UpdateFilter(id string, upd FilterUpdate) error {
	for gi := range r.FilterGroups {
		filters := r.FilterGroups[gi].Filters
		for fi := range filters {
			if filters[fi].ID != id {
				continue
			}
			if upd.Type != "" {
				filters[fi].Type = upd.Type
			}
			if upd.Operator != "" {
				filters[fi].Operator = upd.Operator
			}
			if upd.Value != "" {
				filters[fi].Value = upd.Value
			}
			return nil
		}
	}
	return ErrNotFound
}

// RemoveFilter deletes the filter with the given id and prunes any group the
// deletion left empty.
func (r *Record) RemoveFilter(id string) error {
	for gi := range r.FilterGroups {
		g := &r.FilterGroups[gi]
		for fi := range g.Filters {
			if g.Filters[fi].ID != id {
				continue
			}
			g.Filters = append(g.Filters[:fi], g.Filters[fi+1:]...)
			if len(g.Filters) == 0 {
				r.FilterGroups = append(r.FilterGroups[:gi], r.FilterGroups[gi+1:]...)
			}
			return nil
		}
	}
	return ErrNotFound
}
