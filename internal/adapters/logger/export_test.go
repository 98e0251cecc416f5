package logger

// ExportErrorFormatting exports the private error formatting helpers for testing.
var (
	CollectErrorEntries = collectErrorEntries
	FormatErrorEntries  = formatErrorEntries
)

// EntryMessages returns the messages of collected entries.
func EntryMessages(entries []errorEntry) []string {
	msgs := make([]string, 0, len(entries))
	for _, e := range entries {
		msgs = append(msgs, e.message)
	}
	return msgs
}
