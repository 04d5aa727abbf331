package ws

import (
	"encoding/json"
	"fmt"
)

type unknownTypeError string

func (e unknownTypeError) Error() string {
	return fmt.Sprintf("unsupported message type %q", string(e))
}

func decodeData(data json.RawMessage, dst any) error {
	if len(data) == 0 {
		return fmt.Errorf("message data is required")
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("invalid message data: %w", err)
	}
	return nil
}
