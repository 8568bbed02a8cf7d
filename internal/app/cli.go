package app

import "github.com/spf13/pflag"

// RegisterFlags registers all CLI flags on the given FlagSet
func RegisterFlags(flags *pflag.FlagSet) {
	flags.StringP("transport", "t", "", "Transport type: stdio or sse")
	flags.StringP("host", "H", "", "Host for SSE transport")
	flags.IntP("port", "p", 0, "Port for SSE transport")
	flags.StringP("auth-type", "a", "", "Authentication type: none, basic, or apikey")
	flags.StringP("auth-basic-username", "u", "", "Basic auth username")
	flags.StringP("auth-basic-password", "P", "", "Basic auth password")
	flags.StringSliceP("auth-api-keys", "k", nil, "API keys (comma-separated)")

	flags.StringP("pdf-dir", "d", "", "Default directory containing PDF files to ingest")
	flags.StringP("index-path", "i", "", "Path of the persisted paper index file")
	flags.IntP("workers", "w", 0, "Ingestion worker count (0 = auto)")
	flags.Int("top-k", 0, "Default number of search results")

	flags.String("llm-base-url", "", "OpenAI-compatible API base URL")
	flags.String("llm-model", "", "Chat model used for keywords and answers")
}
