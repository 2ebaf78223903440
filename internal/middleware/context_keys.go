package middleware

import "context"

// processorIDKey is the key used to store the authenticated processor's ID.
const processorIDKey = contextKey("processorID")

// GetProcessorIDFromContext retrieves the ID of the processor that signed the webhook.
func GetProcessorIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(processorIDKey).(string)
	return id, ok && id != ""
}
