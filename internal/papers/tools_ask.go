package papers

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/econsearch/papers-mcp/internal/domain"
)

// maxContextChars bounds how much full text per source is handed to the
// assistant.
const maxContextChars = 4000

// Assistant expands questions into keywords and composes answers from
// source contexts.
type Assistant interface {
	GenerateKeywords(ctx context.Context, question string, n int) []string
	AnswerWithContext(ctx context.Context, question string, contexts []string) (string, error)
}

// AskArgument defines question-answering parameters.
type AskArgument struct {
	Question string `json:"question" jsonschema_description:"Question to answer from the indexed papers"`
	TopK     int    `json:"top_k,omitempty" jsonschema_description:"Maximum number of papers to feed into the answer (default from configuration)"`
}

// AskHandler handles the ask_papers MCP tool.
type AskHandler struct {
	service   *Service
	assistant Assistant
}

// NewAskHandler creates a new ask handler.
func NewAskHandler(service *Service, assistant Assistant) *AskHandler {
	return &AskHandler{service: service, assistant: assistant}
}

// Handle expands the question into keywords, aggregates per-keyword
// search results, loads the top papers' text, and answers the question
// from those sources.
func (h *AskHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args AskArgument) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.Question) == "" {
		return errorResult("Question cannot be empty"), nil, nil
	}

	topK := args.TopK
	if topK <= 0 {
		topK = h.service.Settings().DefaultTopK
	}

	keywords, hits := h.aggregateSearch(ctx, args.Question, topK)
	if len(hits) == 0 {
		return textResult(fmt.Sprintf("No relevant documents found.\n\nKeywords tried: %s",
			strings.Join(keywords, "; "))), nil, nil
	}

	contexts := make([]string, len(hits))
	for i, hit := range hits {
		body, err := h.service.Body(ctx, hit.Record.Path, h.service.Settings().AskContextPages)
		if err != nil {
			slog.Warn("Skipping source body", "path", hit.Record.Path, "error", err)
			body = ""
		}
		contexts[i] = composeContext(hit.Record, body)
	}

	answer, err := h.assistant.AnswerWithContext(ctx, args.Question, contexts)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to compose answer: %s", err)), nil, nil
	}

	var sb strings.Builder
	sb.WriteString(answer)
	sb.WriteString("\n\n**Keywords**: ")
	sb.WriteString(strings.Join(keywords, "; "))
	sb.WriteString("\n\n**Sources**:\n")
	for i, hit := range hits {
		sb.WriteString(fmt.Sprintf("%d. %s (%s, score %.4f)\n", i+1, hit.Record.Title, hit.Record.Path, hit.Score))
	}
	return textResult(sb.String()), nil, nil
}

// aggregateSearch runs one search per generated keyword and sums the
// scores per paper, returning the topK aggregated hits.
func (h *AskHandler) aggregateSearch(ctx context.Context, question string, topK int) ([]string, []SearchResult) {
	nKeywords := topK * 2
	if nKeywords < 4 {
		nKeywords = 4
	}
	keywords := h.assistant.GenerateKeywords(ctx, question, nKeywords)

	scores := make(map[string]float64)
	records := make(map[string]domain.PaperRecord)
	for _, keyword := range keywords {
		for _, hit := range h.service.Search(keyword, topK*3) {
			scores[hit.Record.Path] += hit.Score
			records[hit.Record.Path] = hit.Record
		}
	}

	aggregated := make([]SearchResult, 0, len(scores))
	for path, score := range scores {
		aggregated = append(aggregated, SearchResult{Record: records[path], Score: score})
	}
	sort.Slice(aggregated, func(i, j int) bool {
		if aggregated[i].Score != aggregated[j].Score {
			return aggregated[i].Score > aggregated[j].Score
		}
		return aggregated[i].Record.Path < aggregated[j].Record.Path
	})
	if len(aggregated) > topK {
		aggregated = aggregated[:topK]
	}
	return keywords, aggregated
}

// composeContext builds one source block from a record and its text.
func composeContext(rec domain.PaperRecord, body string) string {
	var sb strings.Builder
	sb.WriteString("Title: " + rec.Title + "\n")
	if rec.Year != nil {
		sb.WriteString(fmt.Sprintf("Year: %d\n", *rec.Year))
	}
	if len(rec.Authors) > 0 {
		sb.WriteString("Authors: " + strings.Join(rec.Authors, ", ") + "\n")
	} else {
		sb.WriteString("Authors: Unknown\n")
	}
	if len(rec.Keywords) > 0 {
		sb.WriteString("Keywords: " + strings.Join(rec.Keywords, ", ") + "\n")
	}
	if rec.Abstract != "" {
		sb.WriteString("\n" + rec.Abstract + "\n")
	}
	if body != "" {
		if len(body) > maxContextChars {
			body = body[:maxContextChars]
		}
		sb.WriteString("\n" + body)
	}
	return sb.String()
}

// GetToolDefinition returns the MCP tool definition.
func (h *AskHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "ask_papers",
		Description: "Answer a question from the indexed papers, citing the sources used",
	}
}

// RegisterAskTool registers the ask tool with an MCP server.
func RegisterAskTool(server *mcp.Server, service *Service, assistant Assistant) {
	handler := NewAskHandler(service, assistant)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
