package engine

// NotebookEntry is one recorded line of the player's notebook.
type NotebookEntry struct {
	Source string `json:"source"` // clue or character id the entry came from
	Text   string `json:"text"`
}

// Notebook receives notebook-recording side effects from the engine. The
// presentation layer supplies its own implementation; MemoryNotebook is
// the default.
type Notebook interface {
	Record(entry NotebookEntry)
}

// MemoryNotebook collects entries in memory, in recording order.
type MemoryNotebook struct {
	entries []NotebookEntry
}

var _ Notebook = (*MemoryNotebook)(nil)

func NewMemoryNotebook() *MemoryNotebook {
	return &MemoryNotebook{}
}

func (n *MemoryNotebook) Record(entry NotebookEntry) {
	n.entries = append(n.entries, entry)
}

// Entries returns a copy of the recorded entries.
func (n *MemoryNotebook) Entries() []NotebookEntry {
	return append([]NotebookEntry(nil), n.entries...)
}
