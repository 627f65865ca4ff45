package ai

import (
	"sort"

	"Espro/core"
)

// Model describes one backend the gateway can run and how to read what it
// sends back.
type Model struct {
	Name                 string
	ModelID              int
	AcceptsImages        bool
	ReturnsMultiPartText bool
	ReturnsImageSet      bool
}

const VisionModel = "geminiVision"

var models = map[string]Model{
	"gpt":       {Name: "gpt", ModelID: 5},
	"llama":     {Name: "llama", ModelID: 18},
	"bard":      {Name: "bard", ModelID: 20, ReturnsImageSet: true},
	"mistral":   {Name: "mistral", ModelID: 21},
	"gemini":    {Name: "gemini", ModelID: 23},
	VisionModel: {Name: VisionModel, ModelID: 24, AcceptsImages: true, ReturnsMultiPartText: true},
}

// Resolve maps a model name to its registry entry. The match is exact and
// case-sensitive; anything unregistered fails closed.
func Resolve(name string) (Model, error) {
	model, ok := models[name]
	if !ok {
		return Model{}, core.ErrUnknownModel
	}
	return model, nil
}

// TextModels lists the model names a user can select with a command, in
// stable order. The vision model is routed to automatically and is not
// selectable.
func TextModels() []string {
	names := make([]string, 0, len(models)-1)
	for name, model := range models {
		if model.AcceptsImages {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
