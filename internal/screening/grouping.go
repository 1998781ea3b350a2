package screening

// identifierGroups maps an identifier value to the ids sharing it. Values and
// ids both keep first-seen order so flag output is reproducible.
type identifierGroups struct {
	order []string
	ids   map[string][]string
}

// group is one identifier value and the records that carry it.
type group struct {
	Value string
	IDs   []string
}

// groupBy buckets records by the identifier returned by key. Records where key
// returns "" are left out: a missing value never matches another.
func groupBy(records []ApplicationRecord, key func(ApplicationRecord) string) *identifierGroups {
	g := &identifierGroups{ids: make(map[string][]string)}
	for _, rec := range records {
		value := key(rec)
		if value == "" {
			continue
		}
		if _, seen := g.ids[value]; !seen {
			g.order = append(g.order, value)
		}
		g.ids[value] = append(g.ids[value], rec.ID)
	}
	return g
}

// Groups returns every bucket in first-seen order.
func (g *identifierGroups) Groups() []group {
	out := make([]group, 0, len(g.order))
	for _, value := range g.order {
		out = append(out, group{Value: value, IDs: g.ids[value]})
	}
	return out
}

// others returns ids without self, keeping order.
func others(ids []string, self string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != self {
			out = append(out, id)
		}
	}
	return out
}

func aadhaarKey(r ApplicationRecord) string { return r.AadhaarLast4 }
func bankKey(r ApplicationRecord) string    { return r.BankAccount }
func phoneKey(r ApplicationRecord) string   { return r.Phone }
