package storage

// ModelStorage records which model each sender picked last. An empty model
// name means the sender never picked one.
type ModelStorage interface {
	GetModel(userId int64) (string, error)
	SetModel(userId int64, model string) error
	Close() error
}
