package streamstats

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"
)

// BackupMarker marks a stream key as the backup variant of a stream.
const BackupMarker = "_backup"

type PulseKind int

const (
	// PulsePassthrough: the body exactly as the stats service sent it.
	PulsePassthrough PulseKind = iota
	// PulseEnvelopeEntry: the first envelope element, untouched.
	PulseEnvelopeEntry
	// PulseNormalized: the first envelope element reshaped into a Pulse.
	PulseNormalized
)

func (k PulseKind) String() string {
	switch k {
	case PulseEnvelopeEntry:
		return "envelope_entry"
	case PulseNormalized:
		return "normalized"
	default:
		return "passthrough"
	}
}

// PulseResult is what GetStreamMediaPulse returns. Pulse is set for
// PulseNormalized, Raw for the other kinds.
type PulseResult struct {
	Kind  PulseKind
	Pulse Pulse
	Raw   json.RawMessage
}

func (r *PulseResult) MarshalJSON() ([]byte, error) {
	if r.Kind == PulseNormalized {
		return json.Marshal(r.Pulse)
	}
	if len(r.Raw) == 0 {
		return []byte("null"), nil
	}
	return r.Raw, nil
}

// Pulse is the normalized live status of a stream: every field of the
// envelope's value plus name, hostId, isWowza and staticPrefix.
type Pulse map[string]interface{}

func (p Pulse) Name() string {
	s, _ := p["name"].(string)
	return s
}

func (p Pulse) HostID() string {
	s, _ := p["hostId"].(string)
	return s
}

func (p Pulse) IsWowza() bool {
	b, _ := p["isWowza"].(bool)
	return b
}

// StaticPrefix is the static_prefix of the envelope, or false when it had none.
func (p Pulse) StaticPrefix() interface{} {
	return p["staticPrefix"]
}

// PulseURI builds the pulse URI for streamKey. A backup marker is taken out of
// the key and appended to the end of the URI instead.
func (s *Service) PulseURI(streamKey string) string {
	backup := false
	if strings.Contains(streamKey, BackupMarker) {
		backup = true
		streamKey = strings.Replace(streamKey, BackupMarker, "", 1)
	}

	uri := s.statsBase + streamKey
	if backup {
		uri += BackupMarker
	}
	return uri
}

// GetStreamMediaPulse fetches the live pulse of a stream. With returnRawData
// the first envelope element is returned as-is. Otherwise, for the legacy
// pulse host, the first element is normalized into a Pulse. Any response that
// does not fit either case is returned unmodified; only transport failures are
// errors.
func (s *Service) GetStreamMediaPulse(ctx context.Context, streamKey string, returnRawData bool) (*PulseResult, error) {
	uri := s.PulseURI(streamKey)

	data, err := s.fetch(ctx, ProviderStats, uri)
	if err != nil {
		return nil, err
	}

	first, ok := firstEnvelopeEntry(data)
	if returnRawData && ok {
		return &PulseResult{Kind: PulseEnvelopeEntry, Raw: first}, nil
	}

	if strings.Contains(uri, s.legacyHost) && ok {
		if pulse, ok := BuildPulse(first); ok {
			return &PulseResult{Kind: PulseNormalized, Pulse: pulse}, nil
		}
	}

	return &PulseResult{Kind: PulsePassthrough, Raw: data}, nil
}

// BuildPulse reshapes one envelope element into a Pulse. It reports false when
// the element is not an object or its value is not an object.
func BuildPulse(entry json.RawMessage) (Pulse, bool) {
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(entry, &wrapper); err != nil || wrapper == nil {
		return nil, false
	}

	var value map[string]interface{}
	if err := decodeJSON(wrapper["value"], &value); err != nil || value == nil {
		return nil, false
	}

	pulse := Pulse(value)
	if raw, ok := wrapper["stream_id"]; ok {
		pulse["hostId"] = decodeValue(raw)
	}

	pulse["isWowza"] = false
	if raw, ok := wrapper["wowza"]; ok {
		pulse["isWowza"] = decodeValue(raw)
	}

	pulse["staticPrefix"] = false
	if raw, ok := wrapper["static_prefix"]; ok && truthy(raw) {
		pulse["staticPrefix"] = decodeValue(raw)
	}

	return pulse, true
}

// firstEnvelopeEntry returns element 0 of a JSON array body when it is truthy.
func firstEnvelopeEntry(data json.RawMessage) (json.RawMessage, bool) {
	var envelope []json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil || len(envelope) == 0 {
		return nil, false
	}
	if !truthy(envelope[0]) {
		return nil, false
	}
	return envelope[0], true
}

func decodeJSON(raw json.RawMessage, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}

func decodeValue(raw json.RawMessage) interface{} {
	var v interface{}
	if err := decodeJSON(raw, &v); err != nil {
		return nil
	}
	return v
}

// truthy reports whether a JSON value is anything but null, false, 0 or "".
func truthy(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	switch s {
	case "", "null", "false", `""`:
		return false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f != 0
	}
	return true
}
