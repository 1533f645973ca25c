package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

func unmarshalMetadata(data datatypes.JSON) (map[string]interface{}, error) {
	metadata := make(map[string]interface{})
	if len(data) == 0 {
		return metadata, nil
	}
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	return metadata, nil
}

// marshalMetadata stores an empty map as NULL.
func marshalMetadata(metadata map[string]interface{}) (datatypes.JSON, error) {
	if len(metadata) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return data, nil
}
