package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// CurrentVersion is written into every envelope. Version 0 means the
// un-enveloped values the browser app kept in localStorage.
const CurrentVersion = 1

var (
	ErrMalformedPayload   = errors.New("malformed slot payload")
	ErrUnsupportedVersion = errors.New("unsupported slot version")
	ErrSlotMismatch       = errors.New("slot mismatch")
)

// Envelope - формат записи слота
type Envelope struct {
	Version int             `json:"version"`
	Slot    Slot            `json:"slot"`
	SavedAt time.Time       `json:"saved_at"`
	Data    json.RawMessage `json:"data"`
}

var nowFunc = func() time.Time { return time.Now().UTC() }

// Encode marshals v into a versioned envelope for slot.
func Encode(slot Slot, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", slot, err)
	}
	return json.Marshal(Envelope{
		Version: CurrentVersion,
		Slot:    slot,
		SavedAt: nowFunc(),
		Data:    data,
	})
}

// Decode reads payload into v and returns the detected format version.
// Enveloped data is decoded strictly; legacy values are accepted as-is.
func Decode(slot Slot, payload []byte, v any) (int, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return 0, fmt.Errorf("%w: %s is empty", ErrMalformedPayload, slot)
	}

	if env, ok := asEnvelope(trimmed); ok {
		if env.Version != CurrentVersion {
			return env.Version, fmt.Errorf("%w: %s has version %d", ErrUnsupportedVersion, slot, env.Version)
		}
		if env.Slot != slot {
			return env.Version, fmt.Errorf("%w: expected %s, got %q", ErrSlotMismatch, slot, env.Slot)
		}
		dec := json.NewDecoder(bytes.NewReader(env.Data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			return env.Version, fmt.Errorf("%w: %s: %v", ErrMalformedPayload, slot, err)
		}
		return env.Version, nil
	}

	if err := json.Unmarshal(trimmed, v); err == nil {
		return 0, nil
	}

	// The browser app stored language and theme without JSON quoting.
	if (slot == SlotLanguage || slot == SlotTheme) && !json.Valid(trimmed) {
		quoted, _ := json.Marshal(string(trimmed))
		if err := json.Unmarshal(quoted, v); err == nil {
			return 0, nil
		}
	}

	return 0, fmt.Errorf("%w: %s is neither an envelope nor a legacy value", ErrMalformedPayload, slot)
}

func asEnvelope(payload []byte) (Envelope, bool) {
	if payload[0] != '{' {
		return Envelope{}, false
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(payload, &probe); err != nil {
		return Envelope{}, false
	}
	_, hasVersion := probe["version"]
	_, hasData := probe["data"]
	if !hasVersion || !hasData {
		return Envelope{}, false
	}
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return Envelope{}, false
	}
	return env, true
}
