package whisper

// Model is a ggml checkpoint usable by whisper-cli.
type Model struct {
	ID           string // e.g. "small"
	Name         string
	Filename     string // e.g. "ggml-small.bin"
	SizeBytes    uint64
	Multilingual bool // english-only checkpoints cannot transcribe zh
}

// ggml checkpoints published at huggingface.co/ggerganov/whisper.cpp
var models = []Model{
	{ID: "tiny", Name: "Tiny", Filename: "ggml-tiny.bin", SizeBytes: 75_000_000, Multilingual: true},
	{ID: "base", Name: "Base", Filename: "ggml-base.bin", SizeBytes: 142_000_000, Multilingual: true},
	{ID: "small", Name: "Small", Filename: "ggml-small.bin", SizeBytes: 466_000_000, Multilingual: true},
	{ID: "medium", Name: "Medium", Filename: "ggml-medium.bin", SizeBytes: 1_500_000_000, Multilingual: true},
	{ID: "large-v3", Name: "Large V3", Filename: "ggml-large-v3.bin", SizeBytes: 3_100_000_000, Multilingual: true},
	{ID: "large-v3-turbo", Name: "Large V3 Turbo", Filename: "ggml-large-v3-turbo.bin", SizeBytes: 1_600_000_000, Multilingual: true},

	{ID: "tiny.en", Name: "Tiny English", Filename: "ggml-tiny.en.bin", SizeBytes: 75_000_000},
	{ID: "base.en", Name: "Base English", Filename: "ggml-base.en.bin", SizeBytes: 142_000_000},
	{ID: "small.en", Name: "Small English", Filename: "ggml-small.en.bin", SizeBytes: 466_000_000},
}

var modelByID = func() map[string]Model {
	m := make(map[string]Model, len(models))
	for _, model := range models {
		m[model.ID] = model
	}
	return m
}()

// Lookup returns the model with the given id.
func Lookup(id string) (Model, bool) {
	m, ok := modelByID[id]
	return m, ok
}

// List returns all known models, multilingual first.
func List() []Model {
	return append([]Model(nil), models...)
}
