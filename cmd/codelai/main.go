// Command codelai translates the comments (and optionally the strings and
// identifiers) of source code using an AI model, from a browser page or the
// command line.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/codelai"
	"github.com/ZaguanLabs/codelai/config"
	"github.com/ZaguanLabs/codelai/server"
	"github.com/ZaguanLabs/codelai/session"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.Execute()
}

// globalFlags override the loaded configuration when set.
type globalFlags struct {
	configPath string
	provider   string
	model      string
	apiKey     string
	baseURL    string
}

func newRootCmd() *cobra.Command {
	var g globalFlags

	root := &cobra.Command{
		Use:   "codelai",
		Short: "Translate code comments with AI",
		Long: `codelai translates the human-readable text in source code using an AI
model while leaving the program logic untouched.

Modes:
  comments_only  translate comment text only
  full           also translate string literals and rename identifiers

Providers:
  gemini  Google Gemini (GEMINI_API_KEY or API_KEY)
  openai  OpenAI or any OpenAI-compatible endpoint (OPENAI_API_KEY)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "Path to a codelai.yaml config file")
	pf.StringVar(&g.provider, "provider", "", "AI provider: gemini or openai")
	pf.StringVar(&g.model, "model", "", "Model name (default depends on provider)")
	pf.StringVar(&g.apiKey, "api-key", "", "API key (default: provider env var)")
	pf.StringVar(&g.baseURL, "base-url", "", "Custom API base URL")

	root.AddCommand(
		newServeCmd(&g),
		newTranslateCmd(&g),
		newLanguagesCmd(),
		newVersionCmd(),
	)

	return root
}

// loadConfig reads the config file and environment, then applies flags.
func (g *globalFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	if g.provider != "" {
		cfg.SetProvider(g.provider)
	}
	if g.model != "" {
		cfg.Model = g.model
	}
	if g.apiKey != "" {
		cfg.APIKey = g.apiKey
	}
	if g.baseURL != "" {
		cfg.BaseURL = g.baseURL
	}
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			// Build details come from ldflags on the codelai package.
			fmt.Fprintf(out, "%s %s\n", codelai.Name, codelai.FullVersion())
			if codelai.GitCommit != "unknown" && codelai.GitCommit != "" {
				fmt.Fprintf(out, "  commit:  %s\n", codelai.GitCommit)
			}
			if codelai.BuildDate != "unknown" && codelai.BuildDate != "" {
				fmt.Fprintf(out, "  built:   %s\n", codelai.BuildDate)
			}
		},
	}
}

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported code languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME")
			for _, l := range codelai.SupportedLanguages {
				fmt.Fprintf(tw, "%s\t%s\n", l, l.DisplayName())
			}
			return tw.Flush()
		},
	}
}

func newServeCmd(g *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the translation page over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := log.New(cmd.ErrOrStderr(), "codelai: ", log.LstdFlags)
			translator, cleanup, err := buildTranslator(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			ctrl := session.New(translator, session.WithTargetLang(cfg.TargetLang))
			defer ctrl.Close()

			logger.Printf("provider %s, cache %s, timeout %v", cfg.Provider, cfg.Cache.Type, cfg.Timeout)
			return server.New(ctrl, logger).Run(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: server.addr or "+config.DefaultAddr+")")
	return cmd
}

type translateFlags struct {
	language string
	mode     string
	target   string
	output   string
	save     bool
	diff     bool
	dryRun   bool
	quiet    bool
}

func newTranslateCmd(g *globalFlags) *cobra.Command {
	var f translateFlags

	cmd := &cobra.Command{
		Use:   "translate [FILE]",
		Short: "Translate a source file (or stdin) and print the result",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, g, &f, args)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.language, "language", "l", "", "Code language (default: inferred from the file extension)")
	fl.StringVarP(&f.mode, "mode", "m", string(codelai.ModeFull), "Translation mode: comments_only or full")
	fl.StringVarP(&f.target, "to", "t", "", "Target natural language, e.g. es_ES (default: target_lang or en_US)")
	fl.StringVarP(&f.output, "output", "o", "", "Output file (default: stdout)")
	fl.BoolVar(&f.save, "save", false, "Write translated_<name> next to the input FILE (not available for stdin)")
	fl.BoolVar(&f.diff, "diff", false, "Print a line diff against the input instead of the translated code")
	fl.BoolVar(&f.dryRun, "dry-run", false, "Print the prompt without calling the API")
	fl.BoolVarP(&f.quiet, "quiet", "q", false, "Suppress progress output")

	return cmd
}

func runTranslate(cmd *cobra.Command, g *globalFlags, f *translateFlags, args []string) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if f.target != "" {
		cfg.TargetLang = f.target
	}

	mode, ok := codelai.ParseMode(f.mode)
	if !ok {
		return fmt.Errorf("unknown mode %q (want comments_only or full)", f.mode)
	}
	if f.save && f.output == "" && (len(args) == 0 || args[0] == "-") {
		return errors.New("--save needs an input FILE; use --output when reading stdin")
	}

	// The controller is built without a client first so dry runs need no key.
	ctrl, inputPath, err := loadInput(cmd, cfg, mode, f, args)
	if err != nil {
		return err
	}
	st := ctrl.State()

	if f.dryRun {
		fmt.Fprint(stdout, codelai.BuildPrompt(codelai.TranslationRequest{
			SourceCode: st.Input,
			Language:   st.Language,
			Mode:       st.Mode,
			TargetLang: st.TargetLang,
		}))
		fmt.Fprintln(stdout)
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	var logger *log.Logger
	if !f.quiet {
		logger = log.New(stderr, "", 0)
	}
	translator, cleanup, err := buildTranslator(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	ctrl = session.New(translator, session.WithTargetLang(st.TargetLang), session.WithMode(st.Mode))
	defer ctrl.Close()
	if err := ctrl.Upload(st.FileName, strings.NewReader(st.Input)); err != nil {
		return err
	}
	if err := ctrl.SetLanguage(st.Language); err != nil {
		return err
	}

	if !f.quiet {
		fmt.Fprintf(stderr, "Translating %s (%s, %s) to %s...\n", st.FileName, st.Language.DisplayName(), st.Mode, st.TargetLang)
	}

	start := time.Now()
	if err := ctrl.Translate(cmd.Context()); err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}
	elapsed := time.Since(start)

	att, ok := ctrl.Download()
	if !ok {
		return errors.New("translation produced no output")
	}

	dest := f.output
	if f.save && dest == "" {
		dest = filepath.Join(filepath.Dir(inputPath), att.Name)
	}

	if f.diff {
		changed := writeLineDiff(stdout, st.Input, att.Content)
		if !f.quiet {
			fmt.Fprintf(stderr, "Changed lines: %d\n", changed)
		}
	}

	if dest == "" {
		if f.diff {
			return nil
		}
		fmt.Fprint(stdout, att.Content)
		if !strings.HasSuffix(att.Content, "\n") {
			fmt.Fprintln(stdout)
		}
	} else {
		if err := os.WriteFile(dest, []byte(att.Content), 0o644); err != nil { // #nosec G306 - translated source is not secret
			return fmt.Errorf("writing output: %w", err)
		}
	}

	if !f.quiet {
		fmt.Fprintf(stderr, "Done in %v\n", elapsed.Round(time.Millisecond))
		if dest != "" {
			fmt.Fprintf(stderr, "  Written to: %s\n", dest)
		}
	}
	return nil
}

// loadInput reads FILE (or stdin) into a client-less controller carrying the
// requested selections.
func loadInput(cmd *cobra.Command, cfg *config.Config, mode codelai.Mode, f *translateFlags, args []string) (*session.Controller, string, error) {
	ctrl := session.New(nil, session.WithTargetLang(cfg.TargetLang), session.WithMode(mode))

	var inputPath string
	if len(args) == 0 || args[0] == "-" {
		if err := ctrl.Upload("stdin", cmd.InOrStdin()); err != nil {
			return nil, "", err
		}
	} else {
		inputPath = args[0]
		file, err := os.Open(inputPath) // #nosec G304 - CLI tool reads user-specified files
		if err != nil {
			return nil, "", fmt.Errorf("reading file: %w", err)
		}
		defer file.Close()
		if err := ctrl.Upload(filepath.Base(inputPath), file); err != nil {
			return nil, "", err
		}
	}

	if f.language != "" {
		if err := ctrl.SetLanguage(codelai.Language(strings.ToLower(f.language))); err != nil {
			return nil, "", err
		}
	}
	if strings.TrimSpace(ctrl.State().Input) == "" {
		return nil, "", errors.New("input is empty")
	}
	return ctrl, inputPath, nil
}
