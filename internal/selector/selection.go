package selector

// Aggregate is the derived checked state of a group of channels.
type Aggregate int

const (
	AggNone Aggregate = iota
	AggSome
	AggAll
)

// Selection holds the authoritative checked flag per channel, indexed by the
// channel's position in the original catalog order. Category and global
// aggregates are always recomputed from the flags, never cached.
type Selection struct {
	checked []bool
	count   int
}

// NewSelection returns an all-unchecked selection over n channels.
func NewSelection(n int) *Selection {
	return &Selection{checked: make([]bool, n)}
}

// Len reports the number of channels tracked.
func (s *Selection) Len() int {
	return len(s.checked)
}

// Checked reports whether channel i is checked.
func (s *Selection) Checked(i int) bool {
	return i >= 0 && i < len(s.checked) && s.checked[i]
}

// CountChecked returns the number of checked channels.
func (s *Selection) CountChecked() int {
	return s.count
}

// AllChecked reports the global flag: true iff every channel is checked.
func (s *Selection) AllChecked() bool {
	return len(s.checked) > 0 && s.count == len(s.checked)
}

// ToggleItem flips the checked flag of channel i.
func (s *Selection) ToggleItem(i int) {
	if i < 0 || i >= len(s.checked) {
		return
	}
	if s.checked[i] {
		s.checked[i] = false
		s.count--
	} else {
		s.checked[i] = true
		s.count++
	}
}

// ToggleGlobal sets every flag to the negation of the current global flag.
func (s *Selection) ToggleGlobal() {
	s.setAll(!s.AllChecked())
}

// ToggleCategory applies the category transition over the given member
// indices: a fully-checked category becomes unchecked, any other state
// (none or partial) becomes fully checked.
func (s *Selection) ToggleCategory(members []int) {
	s.setMembers(members, s.CategoryAggregate(members) != AggAll)
}

// CategoryAggregate recomputes the aggregate state over member indices.
func (s *Selection) CategoryAggregate(members []int) Aggregate {
	checked := 0
	for _, i := range members {
		if s.Checked(i) {
			checked++
		}
	}
	switch {
	case len(members) == 0 || checked == 0:
		return AggNone
	case checked == len(members):
		return AggAll
	default:
		return AggSome
	}
}

// CategoryCounts returns (checked, total) over member indices.
func (s *Selection) CategoryCounts(members []int) (int, int) {
	checked := 0
	for _, i := range members {
		if s.Checked(i) {
			checked++
		}
	}
	return checked, len(members)
}

// SelectedIndices returns the checked channel indices in ascending
// (original catalog) order.
func (s *Selection) SelectedIndices() []int {
	out := make([]int, 0, s.count)
	for i, ok := range s.checked {
		if ok {
			out = append(out, i)
		}
	}
	return out
}

func (s *Selection) setAll(v bool) {
	for i := range s.checked {
		s.checked[i] = v
	}
	if v {
		s.count = len(s.checked)
	} else {
		s.count = 0
	}
}

func (s *Selection) setMembers(members []int, v bool) {
	for _, i := range members {
		if i < 0 || i >= len(s.checked) || s.checked[i] == v {
			continue
		}
		s.checked[i] = v
		if v {
			s.count++
		} else {
			s.count--
		}
	}
}
