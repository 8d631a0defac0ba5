package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the document, chunking, retrieval, AI providers and
vector index.

Settings live in ~/.docqa/config.toml. API keys can also come from the
OPENAI_API_KEY and ANTHROPIC_API_KEY environment variables or a .env file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a single setting",
	Long: `Set a single setting by its dotted key, for example:

  docqa settings set chunking.size 800
  docqa settings set llm.provider anthropic

Run 'docqa settings keys' for the full list.`,
	// Values such as -1 must reach the settings service, not pflag.
	DisableFlagParsing: true,
	Args:               settingsSetArgs,
	RunE:               runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsReset,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that configured providers are reachable",
	Args:  cobra.NoArgs,
	RunE:  runSettingsCheck,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Interactively choose the embedding provider and model.`,
	Args:  cobra.NoArgs,
	RunE:  runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Interactively choose the language model provider and model.`,
	Args:  cobra.NoArgs,
	RunE:  runSettingsLLM,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	settingsCmd.AddCommand(settingsCheckCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	rootCmd.AddCommand(settingsCmd)
}

var errNoSettingsService = errors.New("settings service not configured")

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettingsService
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Document]")
	cmd.Printf("  Path: %s\n", settings.Document.Path)
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  Size: %d\n", settings.Chunking.Size)
	cmd.Printf("  Overlap: %d\n", settings.Chunking.Overlap)
	cmd.Printf("  Boundary: %s\n", settings.Chunking.Boundary)
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Max K: %d\n", settings.Retrieval.MaxK)
	cmd.Println()

	cmd.Println("[Embedding]")
	showProvider(cmd, settings.Embedding.Provider, settings.Embedding.Model,
		settings.Embedding.BaseURL, settings.Embedding.APIKey, settings.Embedding.IsConfigured())
	cmd.Printf("  Batch Size: %d\n", settings.Embedding.BatchSize)
	if settings.Embedding.RequestsPerSecond > 0 {
		cmd.Printf("  Rate Limit: %g req/s\n", settings.Embedding.RequestsPerSecond)
	}
	cmd.Println()

	cmd.Println("[LLM]")
	showProvider(cmd, settings.LLM.Provider, settings.LLM.Model,
		settings.LLM.BaseURL, settings.LLM.APIKey, settings.LLM.IsConfigured())
	if settings.LLM.Timeout > 0 {
		cmd.Printf("  Timeout: %s\n", settings.LLM.Timeout)
	}
	cmd.Println()

	cmd.Println("[Vector Index]")
	cmd.Printf("  Backend: %s\n", settings.VectorIndex.Backend)
	if settings.VectorIndex.Backend == domain.VectorBackendQdrant {
		cmd.Printf("  URL: %s\n", settings.VectorIndex.URL)
		cmd.Printf("  Collection: %s\n", settings.VectorIndex.Collection)
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'docqa settings embedding' or 'docqa settings llm' to fix provider issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func showProvider(cmd *cobra.Command, p domain.AIProvider, model, baseURL, apiKey string, configured bool) {
	cmd.Printf("  Provider: %s\n", p.Description())
	cmd.Printf("  Model: %s\n", model)
	if p == domain.AIProviderOllama && baseURL != "" {
		cmd.Printf("  Base URL: %s\n", baseURL)
	}
	if p.RequiresAPIKey() {
		if apiKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(apiKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !configured {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
}

// helpRequested reports whether args is a lone help flag, which cobra
// leaves unparsed when flag parsing is disabled.
func helpRequested(args []string) bool {
	return len(args) == 1 && (args[0] == "-h" || args[0] == "--help")
}

func settingsSetArgs(cmd *cobra.Command, args []string) error {
	if helpRequested(args) {
		return nil
	}
	return cobra.ExactArgs(2)(cmd, args)
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if helpRequested(args) {
		return cmd.Help()
	}
	if settingsService == nil {
		return errNoSettingsService
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	if strings.HasSuffix(key, "api_key") {
		value = maskAPIKey(value)
	}
	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettingsService
	}

	keys := settingsService.Keys()
	sort.Strings(keys)
	for _, k := range keys {
		cmd.Println(k)
	}
	return nil
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettingsService
	}

	defaults := settingsService.GetDefaults()
	if err := settingsService.Save(&defaults); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Println("Settings restored to defaults.")
	return nil
}

// Components reported by settings check, in display order.
var checkComponents = []struct {
	key   string
	label string
}{
	{"embedding", "Embedding"},
	{"llm", "LLM"},
	{"vector_index", "Vector index"},
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	if validator == nil {
		return errors.New("config validator not configured")
	}

	results := validator.ValidateAll(cmd.Context(), settings)
	failed := 0
	for _, c := range checkComponents {
		if err := results[c.key]; err != nil {
			failed++
			cmd.Printf("  %-13s FAILED: %v\n", c.label+":", err)
			continue
		}
		cmd.Printf("  %-13s OK\n", c.label+":")
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(checkComponents))
	}
	cmd.Println("All providers reachable.")
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettingsService
	}
	return configureProvider(cmd, bufio.NewReader(cmd.InOrStdin()), providerStep{
		title:     "Select Embedding Provider",
		prefix:    "embedding",
		check:     "embedding",
		providers: domain.AllEmbeddingProviders(),
		models:    domain.DefaultEmbeddingModels(),
	})
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettingsService
	}
	return configureProvider(cmd, bufio.NewReader(cmd.InOrStdin()), providerStep{
		title:     "Select LLM Provider",
		prefix:    "llm",
		check:     "llm",
		providers: domain.AllLLMProviders(),
		models:    domain.DefaultLLMModels(),
	})
}

// providerStep describes one interactive provider selection.
type providerStep struct {
	title     string
	prefix    string
	check     string
	providers []domain.AIProvider
	models    map[domain.AIProvider]string
}

func configureProvider(cmd *cobra.Command, reader *bufio.Reader, step providerStep) error {
	cmd.Println(step.title)
	for i, p := range step.providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(step.providers), 1)
	provider := step.providers[idx-1]

	defaultModel := step.models[provider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	if err := settingsService.Set(step.prefix+".provider", provider.String()); err != nil {
		return fmt.Errorf("failed to set provider: %w", err)
	}
	if err := settingsService.Set(step.prefix+".model", model); err != nil {
		return fmt.Errorf("failed to set model: %w", err)
	}

	if provider.RequiresAPIKey() {
		cmd.Print("Enter API key (blank to use the environment): ")
		apiKey := readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
		if apiKey != "" {
			if err := settingsService.Set(step.prefix+".api_key", apiKey); err != nil {
				return fmt.Errorf("failed to set API key: %w", err)
			}
		}
	}

	if validator != nil {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		cmd.Print("Validating configuration... ")
		if err := validator.ValidateAll(cmd.Context(), settings)[step.check]; err != nil {
			cmd.Printf("FAILED: %v\n", err)
			return fmt.Errorf("%s configuration validation failed: %w", step.prefix, err)
		}
		cmd.Println("OK")
	}

	cmd.Printf("%s provider configured: %s (%s)\n", strings.ToUpper(step.prefix[:1])+step.prefix[1:],
		provider.Description(), model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when in is a terminal, otherwise it
// falls back to a plain line from reader.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
