package helpers

import (
	"encoding/json"
	"fmt"
)

// ThreadJSON returns an import item for a damaged-delivery thread.
func ThreadJSON(threadID string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{
		"thread_id": %q,
		"topic": "Product Issue",
		"subject": "Blender arrived broken",
		"initiated_by": "customer",
		"order_id": "ORD-1001",
		"product": "Blender",
		"messages": [
			{"sender": "customer", "timestamp": "2024-01-01T10:00:00Z", "body": "My blender arrived broken and damaged."},
			{"sender": "company", "timestamp": "2024-01-01T11:00:00Z", "body": "Sorry about that, we will send a replacement."},
			{"sender": "customer", "timestamp": "2024-01-01T12:00:00Z", "body": "Thanks, that is great."}
		]
	}`, threadID))
}
