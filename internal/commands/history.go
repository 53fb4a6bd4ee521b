package commands

// History remembers submitted lines for Up/Down recall, like a shell.
type History struct {
	lines  []string
	cursor int
	max    int
}

// NewHistory returns a history keeping at most max lines (max <= 0 means 100).
func NewHistory(max int) *History {
	if max <= 0 {
		max = 100
	}
	return &History{max: max}
}

// Add records line and resets the recall cursor. Blank lines and immediate repeats are skipped.
func (h *History) Add(line string) {
	defer func() { h.cursor = len(h.lines) }()
	if line == "" || (len(h.lines) > 0 && h.lines[len(h.lines)-1] == line) {
		return
	}
	h.lines = append(h.lines, line)
	if over := len(h.lines) - h.max; over > 0 {
		h.lines = append(h.lines[:0], h.lines[over:]...)
	}
}

// Prev steps back and returns the older line; at the oldest line it stays there.
func (h *History) Prev() (string, bool) {
	if len(h.lines) == 0 {
		return "", false
	}
	if h.cursor > 0 {
		h.cursor--
	}
	return h.lines[h.cursor], true
}

// Next steps forward. Past the newest line it returns "" and false, meaning an empty prompt.
func (h *History) Next() (string, bool) {
	if h.cursor < len(h.lines) {
		h.cursor++
	}
	if h.cursor == len(h.lines) {
		return "", false
	}
	return h.lines[h.cursor], true
}
