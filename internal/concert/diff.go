package concert

// Diff returns the concerts in current whose ID does not appear in previous.
// The result keeps the order of current.
func Diff(previous, current []*Concert) []*Concert {
	seen := make(map[string]bool, len(previous))
	for _, c := range previous {
		seen[c.ID()] = true
	}

	added := make([]*Concert, 0)
	for _, c := range current {
		if !seen[c.ID()] {
			added = append(added, c)
		}
	}

	return added
}
