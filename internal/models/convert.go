// ABOUTME: Narrowing helpers from generic Record slices to concrete kinds.
// ABOUTME: Records of other kinds are skipped.
package models

// Sessions narrows records to sessions.
func Sessions(records []Record) []*Session {
	return narrow[*Session](records)
}

// Goals narrows records to goals.
func Goals(records []Record) []*Goal {
	return narrow[*Goal](records)
}

// Categories narrows records to categories.
func Categories(records []Record) []*Category {
	return narrow[*Category](records)
}

// MediaItems narrows records to media.
func MediaItems(records []Record) []*Media {
	return narrow[*Media](records)
}

// SettingsItems narrows records to settings.
func SettingsItems(records []Record) []*Settings {
	return narrow[*Settings](records)
}

// Records widens a typed slice back to Records.
func Records[T Record](items []T) []Record {
	out := make([]Record, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

func narrow[T Record](records []Record) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if v, ok := r.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
