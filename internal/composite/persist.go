package composite

import (
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

// DefaultBlobName returns the conventional file name for a persisted
// composite with the given half-window.
func DefaultBlobName(dt int) string {
	return fmt.Sprintf("PROMICE_composite_%dBID.msgpack", dt)
}

// WriteBlob serializes the composite to a MessagePack file.
func (c *Composite) WriteBlob(path string) error {
	raw, err := msgpack.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode composite: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write composite blob: %w", err)
	}
	return nil
}

// ReadBlob loads a composite previously written with WriteBlob.
func ReadBlob(path string) (*Composite, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read composite blob: %w", err)
	}
	var c Composite
	if err := msgpack.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to decode composite: %w", err)
	}
	return &c, nil
}
