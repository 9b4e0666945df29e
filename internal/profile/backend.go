package profile

type Backend interface {
	Load() (Store, error)
	Save(profiles Store) error
}
