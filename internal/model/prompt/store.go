package prompt

// Store exposes sample prompt retrieval for HTTP handlers.
type Store interface {
	List() []SamplePrompt
	FindByID(id string) (SamplePrompt, bool)
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items []SamplePrompt
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied prompts.
func NewMemoryStore(items []SamplePrompt) *MemoryStore {
	return &MemoryStore{items: append([]SamplePrompt(nil), items...)}
}

// List returns the prompts in display order.
func (s *MemoryStore) List() []SamplePrompt {
	return append([]SamplePrompt(nil), s.items...)
}

// FindByID looks up a prompt by identifier.
func (s *MemoryStore) FindByID(id string) (SamplePrompt, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return SamplePrompt{}, false
}
