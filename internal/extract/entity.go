package extract

// Entity is one recognized span with its backend category label.
type Entity struct {
	Text  string
	Label string
}

// EntityRecognizer is the pluggable named-entity-recognition capability.
// Implementations must be safe for concurrent use, or the caller must
// serialize access to the shared instance.
type EntityRecognizer interface {
	FindEntities(text string) []Entity
}

// entityLabelSets maps a rule's semantic entity type to the backend category
// labels that satisfy it.
var entityLabelSets = map[string][]string{
	"DATE":     {"DATE", "TIME"},
	"MONEY":    {"MONEY"},
	"PERSON":   {"PERSON"},
	"ORG":      {"ORG"},
	"GPE":      {"GPE", "LOC"},
	"LOCATION": {"GPE", "LOC"},
}

// entityAdapter wraps an optional recognizer backend. Availability is decided
// once at construction; an unavailable adapter is a permanent no-op and never
// probes or fails per call.
type entityAdapter struct {
	rec       EntityRecognizer
	available bool
}

func newEntityAdapter(rec EntityRecognizer) *entityAdapter {
	return &entityAdapter{rec: rec, available: rec != nil}
}

// lookup returns the first entity whose label is in the target set for the
// requested semantic type.
func (a *entityAdapter) lookup(entityType, text string) (string, bool) {
	if !a.available {
		return "", false
	}
	labels, ok := entityLabelSets[entityType]
	if !ok {
		return "", false
	}
	for _, e := range a.rec.FindEntities(text) {
		for _, l := range labels {
			if e.Label == l && e.Text != "" {
				return e.Text, true
			}
		}
	}
	return "", false
}
