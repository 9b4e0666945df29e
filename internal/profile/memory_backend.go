package profile

type MemoryBackend struct {
	Profiles Store
}

func NewMemoryBackend() (*MemoryBackend, error) {
	return &MemoryBackend{Profiles: Store{}}, nil
}

func (m *MemoryBackend) Load() (Store, error) {
	profiles := Store{}
	for name, p := range m.Profiles {
		profiles[name] = p
	}

	return profiles, nil
}

func (m *MemoryBackend) Save(profiles Store) error {
	m.Profiles = profiles
	return nil
}
