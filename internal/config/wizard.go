package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
)

// DefaultPath is where the wizard writes its result.
const DefaultPath = ".taagent.yml"

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .taagent.yml. Credentials
// are never prompted for; they come from the environment.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to taagent! Let's configure your teaching assistant.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"openai", "openrouter", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.LLM.Provider = ProviderType(providerStr)

	// 2. Model.
	modelPrompt := promptui.Prompt{
		Label:   "Model",
		Default: DefaultModel(cfg.LLM.Provider),
	}
	if cfg.LLM.Model, err = modelPrompt.Run(); err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	// 3. Canvas instance.
	canvasPrompt := promptui.Prompt{
		Label:    "Canvas base URL (e.g. https://canvas.example.edu)",
		Default:  os.Getenv("CANVAS_API_URL"),
		Validate: validateURL,
	}
	if cfg.Canvas.BaseURL, err = canvasPrompt.Run(); err != nil {
		return nil, fmt.Errorf("canvas url: %w", err)
	}

	// 4. Default course context.
	coursePrompt := promptui.Prompt{
		Label:   "Default course ID",
		Default: cfg.Context.CourseID,
	}
	if cfg.Context.CourseID, err = coursePrompt.Run(); err != nil {
		return nil, fmt.Errorf("course id: %w", err)
	}
	courseNamePrompt := promptui.Prompt{
		Label:   "Default course name",
		Default: cfg.Context.CourseName,
	}
	if cfg.Context.CourseName, err = courseNamePrompt.Run(); err != nil {
		return nil, fmt.Errorf("course name: %w", err)
	}

	// 5. Slack workspaces.
	wsPrompt := promptui.Prompt{
		Label:   "Slack workspaces (comma-separated)",
		Default: "math,cse",
	}
	wsStr, err := wsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("slack workspaces: %w", err)
	}
	workspaces := splitAndTrim(wsStr)
	if len(workspaces) > 0 {
		cfg.Slack.DefaultWorkspace = strings.ToLower(workspaces[0])
		cfg.Context.SlackName = cfg.Slack.DefaultWorkspace
	}

	// Point at the environment variables that still need values.
	var unset []string
	if envVar := APIKeyEnvVar(cfg.LLM.Provider); envVar != "" && os.Getenv(envVar) == "" {
		unset = append(unset, envVar)
	}
	for _, name := range []string{"CANVAS_API_TOKEN", "DISCORD_TOKEN", "ZEROGPT_API_KEY"} {
		if os.Getenv(name) == "" {
			unset = append(unset, name)
		}
	}
	for _, ws := range workspaces {
		name := slackTokenPrefix + strings.ToUpper(ws)
		if os.Getenv(name) == "" {
			unset = append(unset, name)
		}
	}
	if len(unset) > 0 {
		fmt.Printf("\nNote: set %s in your environment (or .env) before running taagent serve.\n", strings.Join(unset, ", "))
	}

	if err := cfg.Save(DefaultPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", DefaultPath)
	return cfg, nil
}

func validateURL(s string) error {
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return fmt.Errorf("must start with http:// or https://")
	}
	return nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
