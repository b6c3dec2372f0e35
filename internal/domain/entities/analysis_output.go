package entities

// OutputKind tags the variant carried by an AnalysisOutput.
type OutputKind string

const (
	OutputKindEntity OutputKind = "entity"
)

// AnalysisOutput is one fact emitted by an analyzer. Key is the merge key of the
// fact (the repository name for entities) so that several analyzers converge on
// the same record.
type AnalysisOutput struct {
	Kind   OutputKind
	Key    string
	Entity *CatalogEntity
}

// AnalysisOutputs accumulates the outputs of every analyzer for a single
// repository. It is append-only: outputs are never removed or reordered.
type AnalysisOutputs struct {
	outputs []AnalysisOutput
}

// NewAnalysisOutputs creates an empty sink.
func NewAnalysisOutputs() *AnalysisOutputs {
	return &AnalysisOutputs{}
}

// Add appends an output.
func (o *AnalysisOutputs) Add(output AnalysisOutput) {
	o.outputs = append(o.outputs, output)
}

// AddEntity appends an entity output under the given merge key.
func (o *AnalysisOutputs) AddEntity(key string, entity *CatalogEntity) {
	o.Add(AnalysisOutput{Kind: OutputKindEntity, Key: key, Entity: entity})
}

// List returns a copy of every output in insertion order.
func (o *AnalysisOutputs) List() []AnalysisOutput {
	list := make([]AnalysisOutput, len(o.outputs))
	copy(list, o.outputs)
	return list
}

// Entity returns the first entity recorded under key, or nil.
// The returned pointer is shared: mutating it enriches the recorded entity.
func (o *AnalysisOutputs) Entity(key string) *CatalogEntity {
	for _, output := range o.outputs {
		if output.Kind == OutputKindEntity && output.Key == key && output.Entity != nil {
			return output.Entity
		}
	}
	return nil
}

// EntityOrNew returns the entity recorded under key, creating and recording a
// fresh Component named after key when there is none yet.
func (o *AnalysisOutputs) EntityOrNew(key string) *CatalogEntity {
	if entity := o.Entity(key); entity != nil {
		return entity
	}
	entity := NewComponentEntity(key)
	o.AddEntity(key, entity)
	return entity
}

// Entities returns a snapshot of all entity outputs.
func (o *AnalysisOutputs) Entities() []CatalogEntity {
	var result []CatalogEntity
	for _, output := range o.outputs {
		if output.Kind != OutputKindEntity || output.Entity == nil {
			continue
		}
		result = append(result, *output.Entity)
	}
	return result
}
