package predictor

import (
	"encoding/json"
	"fmt"
	"os"
)

// LabelEncoder maps class names to integer codes. The code of a class is its
// index in Classes, matching a fitted scikit-learn LabelEncoder.
type LabelEncoder struct {
	classes []string
	codes   map[string]int
}

type encoderFile struct {
	Classes []string `json:"classes"`
}

// NewLabelEncoder builds an encoder over an ordered, duplicate-free vocabulary
func NewLabelEncoder(classes []string) (*LabelEncoder, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("encoder vocabulary is empty")
	}

	enc := &LabelEncoder{
		classes: append([]string(nil), classes...),
		codes:   make(map[string]int, len(classes)),
	}
	for i, c := range classes {
		if _, dup := enc.codes[c]; dup {
			return nil, fmt.Errorf("duplicate class %q in encoder vocabulary", c)
		}
		enc.codes[c] = i
	}
	return enc, nil
}

// LoadLabelEncoder reads a {"classes": [...]} file
func LoadLabelEncoder(path string) (*LabelEncoder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read encoder: %w", err)
	}
	var file encoderFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse encoder %s: %w", path, err)
	}
	enc, err := NewLabelEncoder(file.Classes)
	if err != nil {
		return nil, fmt.Errorf("invalid encoder %s: %w", path, err)
	}
	return enc, nil
}

// Encode returns the code of a class
func (e *LabelEncoder) Encode(class string) (int, error) {
	code, ok := e.codes[class]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, class)
	}
	return code, nil
}

// Decode returns the class of a code
func (e *LabelEncoder) Decode(code int) (string, error) {
	if code < 0 || code >= len(e.classes) {
		return "", fmt.Errorf("%w: code %d outside [0,%d)", ErrUnmappedLabel, code, len(e.classes))
	}
	return e.classes[code], nil
}

// Classes returns a copy of the vocabulary in code order
func (e *LabelEncoder) Classes() []string {
	return append([]string(nil), e.classes...)
}

// Len returns the vocabulary size
func (e *LabelEncoder) Len() int {
	return len(e.classes)
}
