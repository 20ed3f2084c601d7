package bank

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Decode parses raw dataset bytes into a Document. The bytes are checked
// against the embedded JSON Schema first so a missing field, a wrong type
// or an unknown key rejects the whole dataset up front.
func Decode(data []byte) (Document, error) {
	if err := checkSchema(data); err != nil {
		return Document{}, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decoding dataset: %w", err)
	}
	return doc, nil
}

func checkSchema(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaData),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("dataset is not valid JSON: %w", err)
	}
	if !result.Valid() {
		// Report the first violation; the dataset is rejected as a whole.
		desc := "schema violation"
		if errs := result.Errors(); len(errs) > 0 {
			desc = fmt.Sprintf("%s: %s", errs[0].Field(), errs[0].Description())
		}
		return fmt.Errorf("malformed dataset: %s", desc)
	}
	return nil
}

// EncodeCanonical serializes a document in the dataset's canonical form:
// two-space indentation, record fields in declaration order, tier order
// Easy/Medium/Hard, no HTML escaping, trailing newline. Decoding the
// shipped dataset and re-encoding it reproduces the file byte for byte.
func EncodeCanonical(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding dataset: %w", err)
	}
	return buf.Bytes(), nil
}
