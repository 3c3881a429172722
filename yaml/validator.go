// Package yaml enforces the front-matter contract on model output using
// gopkg.in/yaml.v3.
package yaml

import (
	"strings"

	"github.com/fwojciec/urlvault"
	"gopkg.in/yaml.v3"
)

// Delimiter opens and closes the front-matter block.
const Delimiter = "---"

// Ensure Validator implements urlvault.NoteValidator at compile time.
var _ urlvault.NoteValidator = (*Validator)(nil)

// Validator implements urlvault.NoteValidator.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate implements urlvault.NoteValidator.
func (v *Validator) Validate(text string) (string, error) {
	return EnsureFrontmatter(text)
}

// EnsureFrontmatter returns text unchanged when it starts with a delimited
// front-matter block that parses as a mapping. Checks run in order and the
// first failure is returned as EFORMAT:
//
//  1. the text starts with the delimiter at offset 0
//  2. a newline followed by the delimiter occurs after offset 3
//  3. the block between them is a YAML mapping
//
// Individual keys are not checked.
func EnsureFrontmatter(text string) (string, error) {
	if !strings.HasPrefix(text, Delimiter) {
		return "", urlvault.Errorf(urlvault.EFORMAT, "missing opening delimiter")
	}

	end := strings.Index(text[len(Delimiter):], "\n"+Delimiter)
	if end < 0 {
		return "", urlvault.Errorf(urlvault.EFORMAT, "missing closing delimiter")
	}
	block := text[len(Delimiter) : len(Delimiter)+end]

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(block), &doc); err != nil {
		return "", urlvault.Errorf(urlvault.EFORMAT, "invalid structured content: %v", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return "", urlvault.Errorf(urlvault.EFORMAT, "invalid structured content: front matter is not a mapping")
	}

	return text, nil
}
