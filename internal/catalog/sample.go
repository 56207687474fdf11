package catalog

import (
	_ "embed"
	"fmt"
)

//go:embed sample.json
var sampleJSON string

// SampleName is the file name reported for the built-in preview catalog.
const SampleName = "sample.json"

// Sample returns the built-in catalog used before anything is uploaded.
func Sample() *Catalog {
	doc, err := Parse(SampleName, sampleJSON)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded sample: %v", err))
	}
	c, err := ValidateShape(doc)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded sample: %v", err))
	}
	return c
}
