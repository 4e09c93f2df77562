package port

import "context"

// Entity is a span of text tagged with a label by a recogniser.
type Entity struct {
	Text  string
	Label string
	Start int
}

// LabelChemical marks spans believed to be drug or chemical names.
const LabelChemical = "CHEMICAL"

// EntityRecognizer finds labelled spans in free text.
type EntityRecognizer interface {
	Recognize(ctx context.Context, text string) ([]Entity, error)
}
