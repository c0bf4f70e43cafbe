package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/viper"

	"github.com/tara-vision/minicode/internal/assistant"
	"github.com/tara-vision/minicode/internal/provider"
	"github.com/tara-vision/minicode/internal/tools"
	"github.com/tara-vision/minicode/internal/ui"
)

func startREPL() {
	baseURL := viper.GetString("base_url")
	apiKey := viper.GetString("api_key")
	model := viper.GetString("model")
	maxTokens := viper.GetInt("max_tokens")
	streaming := !viper.GetBool("no_stream")
	enableSpinner := !viper.GetBool("no_spinner")

	workingDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	renderer := ui.NewRenderer()
	fmt.Print(renderer.WelcomeMessage())

	if apiKey == "" {
		fmt.Println(renderer.WarningMessage("No API key configured. Set MINICODE_API_KEY before sending a message."))
	}

	client := provider.NewClient(baseURL, apiKey, model, maxTokens)
	registry := tools.NewRegistry()
	asst := assistant.New(client, registry, workingDir, streaming, enableSpinner)
	fmt.Println()

	home, _ := os.UserHomeDir()
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ui.PromptStyle.Render("❯") + " ",
		HistoryFile:     filepath.Join(home, ".minicode", "history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    NewReplCompleter(workingDir),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up readline: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or Ctrl+C
			fmt.Println("\nGoodbye!")
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := handleCommand(line, asst, registry, renderer); quit {
				break
			}
			continue
		}

		if line == "exit" || line == "quit" {
			fmt.Println("Goodbye!")
			break
		}

		// Expand @ file references before sending.
		if strings.Contains(line, "@") {
			expanded, err := expandFileReferences(line, workingDir)
			if err != nil {
				fmt.Println(renderer.ErrorMessage(err))
				continue
			}
			line = expanded
		}

		// Errors during a turn are reported and swallowed; the loop keeps
		// accepting input with the conversation collected so far intact.
		if err := asst.ProcessMessage(line); err != nil {
			fmt.Println(renderer.ErrorMessage(err))
		}
		fmt.Println()
	}
}

// handleCommand dispatches slash commands. Returns true when the REPL
// should exit.
func handleCommand(cmd string, asst *assistant.Assistant, registry *tools.Registry, renderer *ui.Renderer) bool {
	switch cmd {
	case "/clear":
		asst.Clear()
		fmt.Println(renderer.SuccessMessage("Conversation cleared."))
		fmt.Println()

	case "/tools":
		fmt.Println("Registered tools:")
		for _, name := range registry.Names() {
			def, _ := registry.Get(name)
			fmt.Printf("  %-6s %s\n", name, def.Description)
		}
		fmt.Println()

	case "/help":
		fmt.Println("Available commands:")
		fmt.Println("  /clear   - Clear the conversation history")
		fmt.Println("  /tools   - List the tools available to the model")
		fmt.Println("  /help    - Show this help message")
		fmt.Println("  /quit    - Exit minicode (also 'exit' or 'quit')")
		fmt.Println()
		fmt.Println("File references:")
		fmt.Println("  @path    - Include a file's content in your message (Tab completes)")
		fmt.Println("  @        - Open an interactive file picker")
		fmt.Println()

	case "/quit", "/exit":
		fmt.Println("Goodbye!")
		return true

	default:
		fmt.Printf("Unknown command: %s\n", cmd)
		fmt.Println("Type '/help' for available commands.")
		fmt.Println()
	}
	return false
}
