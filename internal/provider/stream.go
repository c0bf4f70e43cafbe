package provider

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	ssePrefix = "data:"
	sseDone   = "[DONE]"
)

// decodeStream consumes a server-sent-event response body and returns the
// accumulated assistant text plus the assembled tool calls for the turn.
// Content deltas are forwarded to onContent as they arrive. Tool-call
// fragments are merged into per-index accumulators: the first fragment at an
// index seeds the accumulator, later ones append to the name and arguments
// buffers regardless of how the server split them.
//
// A line that fails to parse is reported through warn and skipped; it does
// not terminate the stream. The "[DONE]" sentinel ends the stream cleanly.
func decodeStream(body io.Reader, onContent func(string), warn func(error)) (string, []openai.ToolCall, error) {
	var content strings.Builder
	calls := make(map[int]*openai.ToolCall)

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !strings.HasPrefix(line, ssePrefix) {
			// Blank separators and keep-alive comments carry no payload.
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, ssePrefix))
		if payload == sseDone {
			break
		}

		var chunk openai.ChatCompletionStreamResponse
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			if warn != nil {
				warn(fmt.Errorf("skipping malformed stream event: %w", err))
			}
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta

		if delta.Content != "" {
			content.WriteString(delta.Content)
			if onContent != nil {
				onContent(delta.Content)
			}
		}

		for _, frag := range delta.ToolCalls {
			idx := 0
			if frag.Index != nil {
				idx = *frag.Index
			}
			acc, ok := calls[idx]
			if !ok {
				cp := frag
				calls[idx] = &cp
				continue
			}
			if acc.ID == "" {
				acc.ID = frag.ID
			}
			acc.Function.Name += frag.Function.Name
			acc.Function.Arguments += frag.Function.Arguments
		}
	}
	if err := scanner.Err(); err != nil {
		return content.String(), nil, fmt.Errorf("reading stream: %w", err)
	}

	return content.String(), compactToolCalls(calls), nil
}

// compactToolCalls flattens the working set into a dense, index-ordered
// slice. Fragment indices may arrive out of order or with gaps; only the
// relative order is meaningful once the stream has ended.
func compactToolCalls(calls map[int]*openai.ToolCall) []openai.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	indices := make([]int, 0, len(calls))
	for idx := range calls {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	out := make([]openai.ToolCall, 0, len(indices))
	for _, idx := range indices {
		tc := *calls[idx]
		tc.Index = nil
		if tc.Type == "" {
			tc.Type = openai.ToolTypeFunction
		}
		out = append(out, tc)
	}
	return out
}
