package models

import "encoding/json"

// Measurement is one recorded reading event with metadata and zero or more
// binary attachments, addressed by opaque file IDs per attachment type code.
type Measurement struct {
	ID        string            `json:"_id"`
	Timestamp string            `json:"timestamp"`
	Name      string            `json:"name"`
	Bucket    string            `json:"bucket"`
	Files     map[string]string `json:"files"`

	// Raw holds the full server record so the metadata written to disk
	// round-trips fields this client does not model.
	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known fields and retains the raw record.
func (m *Measurement) UnmarshalJSON(data []byte) error {
	type plain Measurement
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*m = Measurement(p)
	m.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// MetadataJSON returns the indented JSON representation written to disk.
// It prefers the raw server record; measurements constructed in code
// (tests, fixtures) without a raw record are re-encoded from the struct.
func (m *Measurement) MetadataJSON() ([]byte, error) {
	if len(m.Raw) > 0 {
		var buf json.RawMessage = m.Raw
		var indented any
		if err := json.Unmarshal(buf, &indented); err != nil {
			return nil, err
		}
		return json.MarshalIndent(indented, "", "  ")
	}
	type plain Measurement
	p := plain(*m)
	return json.MarshalIndent(&p, "", "  ")
}

// MeasurementList is the response envelope of the data list endpoint.
type MeasurementList struct {
	Data []Measurement `json:"data"`
}
