package assistant

import (
	gocontext "context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/tara-vision/minicode/internal/provider"
	"github.com/tara-vision/minicode/internal/tools"
	"github.com/tara-vision/minicode/internal/ui"
)

const (
	apiResponseTimeout = 5 * time.Minute

	// maxToolRounds bounds the request/execute cycle for a single user input
	// so a model that keeps asking for tools cannot loop forever.
	maxToolRounds = 25
)

const systemPrompt = `You are minicode, an AI coding assistant running in the user's terminal.
You can read, write, and edit files, search the project, and run shell commands through the provided tools.

Guidelines:
- Explore the project with glob and grep before answering questions about it.
- Always read a file before editing it; edit requires an exact text match.
- Prefer small edits over rewriting whole files.
- Use diff to review changes and undo to discard a file's uncommitted edits.
- After gathering information, give a direct, concise answer.`

// Assistant owns the conversation state and drives the request/stream/
// execute-tools cycle. The conversation is mutated only here: append user
// message, append assistant message, append one tool result per call, or a
// full clear.
type Assistant struct {
	client        *provider.Client
	registry      *tools.Registry
	conversation  []openai.ChatCompletionMessage
	workingDir    string
	streaming     bool
	enableSpinner bool
	renderer      *ui.Renderer
}

func New(client *provider.Client, registry *tools.Registry, workingDir string, streaming, enableSpinner bool) *Assistant {
	renderer := ui.NewRenderer()
	client.Warn = func(err error) {
		fmt.Println(renderer.WarningMessage(err.Error()))
	}

	return &Assistant{
		client:   client,
		registry: registry,
		conversation: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt + fmt.Sprintf("\n\nCurrent working directory: %s", workingDir),
		}},
		workingDir:    workingDir,
		streaming:     streaming,
		enableSpinner: enableSpinner,
		renderer:      renderer,
	}
}

// Clear truncates the conversation back to just the system message.
func (a *Assistant) Clear() {
	a.conversation = a.conversation[:1]
}

// Messages returns the current conversation history.
func (a *Assistant) Messages() []openai.ChatCompletionMessage {
	return a.conversation
}

// ProcessMessage runs one full user turn: request a completion, execute any
// tool calls it asks for, and repeat until the model answers with text only.
// A returned error leaves the conversation collected so far intact, so the
// next turn can retry with full context.
func (a *Assistant) ProcessMessage(userMessage string) error {
	a.conversation = append(a.conversation, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userMessage,
	})

	ctx, cancel := gocontext.WithTimeout(gocontext.Background(), apiResponseTimeout)
	defer cancel()

	for round := 0; round < maxToolRounds; round++ {
		msg, streamed, err := a.requestCompletion(ctx)
		if err != nil {
			return err
		}

		a.conversation = append(a.conversation, msg)

		if len(msg.ToolCalls) == 0 {
			a.showFinalAnswer(msg.Content, streamed)
			return nil
		}

		if streamed && msg.Content != "" {
			fmt.Println()
		} else if !streamed && msg.Content != "" {
			fmt.Println(ui.RenderMarkdown(msg.Content))
		}

		// Strictly sequential: each call's result is appended before the
		// next call runs, keyed to the call that produced it.
		for _, call := range msg.ToolCalls {
			result := a.executeToolCall(call)
			a.conversation = append(a.conversation, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    result,
				ToolCallID: call.ID,
			})
		}
	}

	return fmt.Errorf("stopped after %d tool rounds without a final answer", maxToolRounds)
}

// requestCompletion sends the full history plus the tool schema and returns
// the assistant's message. In streaming mode content is echoed to the
// terminal as it arrives.
func (a *Assistant) requestCompletion(ctx gocontext.Context) (openai.ChatCompletionMessage, bool, error) {
	var spinner *ui.Spinner
	if a.enableSpinner {
		spinner = ui.NewSpinner()
		spinner.Start("Thinking...")
	}
	stopSpinner := func() {
		if spinner != nil {
			spinner.Stop()
			spinner = nil
		}
	}
	defer stopSpinner()

	defs := a.registry.Definitions()

	if !a.streaming {
		msg, err := a.client.Complete(ctx, a.conversation, defs)
		return msg, false, err
	}

	msg, err := a.client.Stream(ctx, a.conversation, defs, func(delta string) {
		stopSpinner()
		fmt.Print(delta)
	})
	return msg, true, err
}

func (a *Assistant) showFinalAnswer(content string, streamed bool) {
	if content == "" {
		return
	}
	if streamed {
		// Already echoed incrementally; just terminate the line.
		fmt.Println()
		return
	}
	fmt.Println(ui.RenderMarkdown(content))
}

// executeToolCall parses the assembled arguments and dispatches the tool.
// Malformed argument JSON is an error for this call only; sibling calls in
// the same round still run.
func (a *Assistant) executeToolCall(call openai.ToolCall) string {
	name := call.Function.Name

	var params map[string]interface{}
	var result string
	if err := json.Unmarshal([]byte(call.Function.Arguments), &params); err != nil {
		result = fmt.Sprintf("error: invalid tool arguments for %s: %v", name, err)
	} else {
		var spinner *ui.Spinner
		if a.enableSpinner {
			spinner = ui.NewSpinner()
			spinner.Start(fmt.Sprintf("Running %s...", name))
		}
		result = a.registry.Dispatch(name, params, a.workingDir)
		if spinner != nil {
			spinner.Stop()
		}
	}

	isError := strings.HasPrefix(result, "error:")
	fmt.Println(a.renderer.FormatToolStatus(name, params, result, isError))
	return result
}
