package canvas

import (
	"bytes"
	"encoding/json"
	"fmt"
)

func jsonUnmarshal(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding canvas response: %w", err)
	}
	return nil
}
