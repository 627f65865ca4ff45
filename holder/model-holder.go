package holder

import (
	"log/slog"

	"Espro/lib/sl"
	"Espro/storage"
)

// ModelHolder answers which model serves a given sender. Storage problems
// degrade to the default model, they never reach the user.
type ModelHolder struct {
	storage      storage.ModelStorage
	defaultModel string
	log          *slog.Logger
}

func NewModelHolder(store storage.ModelStorage, defaultModel string, log *slog.Logger) *ModelHolder {
	return &ModelHolder{
		storage:      store,
		defaultModel: defaultModel,
		log:          log.With(sl.Module("models")),
	}
}

func (h *ModelHolder) GetModel(userId int64) string {
	model, err := h.storage.GetModel(userId)
	if err != nil {
		h.log.Error("getting model preference", sl.Err(err))
		return h.defaultModel
	}
	if model == "" {
		return h.defaultModel
	}
	return model
}

func (h *ModelHolder) SetModel(userId int64, model string) {
	if err := h.storage.SetModel(userId, model); err != nil {
		h.log.Error("saving model preference", sl.Err(err))
	}
}

func (h *ModelHolder) Close() error {
	return h.storage.Close()
}
