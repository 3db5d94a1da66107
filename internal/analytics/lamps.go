package analytics

import (
	"sort"
	"strings"

	"EUrbana.dashboard/internal/models"
)

var palette = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

const placeholderColor = "#E5E7EB"

// counter counts labels keeping first-seen order.
type counter struct {
	order []string
	n     map[string]int
}

func newCounter() *counter {
	return &counter{n: make(map[string]int)}
}

func (c *counter) add(label string) {
	if _, ok := c.n[label]; !ok {
		c.order = append(c.order, label)
	}
	c.n[label]++
}

// GroupByState counts lamps per state in first-seen order. Lamps without a
// state share the NoState bucket. Bucket values sum to len(lamps).
func (p *Pipeline) GroupByState(lamps []models.Lamp) []Slice {
	if len(lamps) == 0 {
		return []Slice{{ID: p.cfg.Labels.NoData, Label: p.cfg.Labels.NoData, Value: 1, Color: placeholderColor}}
	}
	c := newCounter()
	for _, l := range lamps {
		state := l.State
		if state == "" {
			state = p.cfg.Labels.NoState
		}
		c.add(state)
	}
	out := make([]Slice, 0, len(c.order))
	for _, state := range c.order {
		out = append(out, Slice{ID: state, Label: state, Value: c.n[state], Color: p.Condition(state).Color()})
	}
	return out
}

// GroupByCity counts lamps per city (falling back to the location text),
// most populated first. Ties keep first-seen order.
func (p *Pipeline) GroupByCity(lamps []models.Lamp) []Slice {
	if len(lamps) == 0 {
		return []Slice{{ID: p.cfg.Labels.NoData, Label: p.cfg.Labels.NoData, Value: 0, Color: placeholderColor}}
	}
	c := newCounter()
	for _, l := range lamps {
		c.add(p.cityOf(l))
	}
	out := make([]Slice, 0, len(c.order))
	for _, city := range c.order {
		out = append(out, Slice{ID: city, Label: city, Value: c.n[city]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	for i := range out {
		out[i].Color = palette[i%len(palette)]
	}
	return out
}

func (p *Pipeline) cityOf(l models.Lamp) string {
	switch {
	case l.City != "":
		return l.City
	case l.Location != "":
		return l.Location
	default:
		return p.cfg.Labels.Unspecified
	}
}

// FilterLamps applies the lamp table filters and returns the requested page.
// The identifier search is a case-insensitive substring match; city and
// state must match exactly. Page is clamped to the available range.
func (p *Pipeline) FilterLamps(lamps []models.Lamp, q LampQuery) LampPage {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	cities := make(map[string]struct{})
	matched := make([]models.Lamp, 0, len(lamps))
	for _, l := range lamps {
		if l.City != "" {
			cities[l.City] = struct{}{}
		}
		if search != "" && !strings.Contains(strings.ToLower(l.Identifier), search) {
			continue
		}
		if q.City != "" && l.City != q.City {
			continue
		}
		if q.State != "" && l.State != q.State {
			continue
		}
		matched = append(matched, l)
	}

	size := p.cfg.PageSize
	pages := (len(matched) + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * size
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}

	cityList := make([]string, 0, len(cities))
	for c := range cities {
		cityList = append(cityList, c)
	}
	sort.Strings(cityList)

	return LampPage{
		Items:  matched[start:end],
		Page:   page,
		Pages:  pages,
		Total:  len(matched),
		Cities: cityList,
	}
}
