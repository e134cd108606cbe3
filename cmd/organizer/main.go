package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	flags "github.com/jessevdk/go-flags"
	"google.golang.org/api/option"

	"github.com/chauminhvu/llm-based-gmail-organizer/pkg/ai"
	"github.com/chauminhvu/llm-based-gmail-organizer/pkg/classify"
	"github.com/chauminhvu/llm-based-gmail-organizer/pkg/config"
	"github.com/chauminhvu/llm-based-gmail-organizer/pkg/dataset"
	"github.com/chauminhvu/llm-based-gmail-organizer/pkg/labels"
	"github.com/chauminhvu/llm-based-gmail-organizer/pkg/logging"
	"github.com/chauminhvu/llm-based-gmail-organizer/pkg/mailbox"
	"github.com/chauminhvu/llm-based-gmail-organizer/pkg/organizer"
	"github.com/chauminhvu/llm-based-gmail-organizer/pkg/prompts"
)

// app carries the pieces every subcommand needs. Backend clients are built
// lazily so commands that never touch the mailbox or the model don't pay
// for OAuth or API setup.
type app struct {
	ctx     context.Context
	logger  *log.Logger
	cfg     *config.Config
	console *organizer.Console
}

func (a *app) mailbox() (mailbox.Mailbox, error) {
	httpClient, err := mailbox.NewOAuthHTTPClient(a.ctx, a.cfg.CredentialsPath, a.cfg.TokenPath)
	if err != nil {
		return nil, err
	}
	return mailbox.NewGmailClient(a.ctx, logging.ForComponent(a.logger, "gmail"), option.WithHTTPClient(httpClient))
}

func (a *app) model() (ai.Model, error) {
	return ai.NewModel(a.ctx, logging.ForComponent(a.logger, "ai"), ai.Options{
		Backend:       a.cfg.LLMBackend,
		GeminiAPIKey:  a.cfg.GeminiAPIKey,
		GeminiModel:   a.cfg.GeminiModel,
		BaseURL:       a.cfg.LocalLLMBaseURL,
		APIKey:        a.cfg.LocalLLMAPIKey,
		Model:         a.cfg.LocalLLMModel,
		ContextLength: a.cfg.LocalLLMContextLength,
	})
}

func (a *app) classifier() (*classify.Classifier, error) {
	model, err := a.model()
	if err != nil {
		return nil, err
	}
	composer, err := prompts.LoadComposer(a.cfg.PromptPath)
	if err != nil {
		return nil, err
	}
	return classify.NewClassifier(logging.ForComponent(a.logger, "classify"), model, composer), nil
}

type runCmd struct {
	app   *app
	Query string `short:"q" long:"query" default:"is:unread" description:"Mailbox search query"`
	Max   int    `short:"m" long:"max" default:"10" description:"Maximum messages to classify"`
}

func (c *runCmd) Execute([]string) error {
	a := c.app
	mbx, err := a.mailbox()
	if err != nil {
		return err
	}
	classifier, err := a.classifier()
	if err != nil {
		return err
	}
	org := organizer.New(
		a.logger,
		a.console,
		mbx,
		classify.NewBatch(logging.ForComponent(a.logger, "classify"), classifier, a.cfg.ClassifyDelay),
		labels.NewApplier(logging.ForComponent(a.logger, "labels"), mbx),
		dataset.NewStore(a.cfg.PendingFile),
		dataset.NewStore(a.cfg.VerifiedFile),
	)
	return org.Run(a.ctx, c.Query, c.Max)
}

type buildDatasetCmd struct {
	app   *app
	Query string `short:"q" long:"query" default:"is:inbox" description:"Mailbox search query"`
	Max   int    `short:"m" long:"max" default:"10" description:"Maximum messages to review"`
}

func (c *buildDatasetCmd) Execute([]string) error {
	a := c.app
	mbx, err := a.mailbox()
	if err != nil {
		return err
	}
	classifier, err := a.classifier()
	if err != nil {
		return err
	}
	builder := organizer.NewBuilder(a.logger, a.console, mbx, classifier, dataset.NewStore(a.cfg.VerifiedFile))
	return builder.Run(a.ctx, c.Query, c.Max)
}

type optimizeCmd struct {
	app   *app
	Query string `short:"q" long:"query" default:"is:inbox" description:"Mailbox search query"`
	Max   int    `short:"m" long:"max" default:"200" description:"Messages to sample for the analysis"`
}

func (c *optimizeCmd) Execute([]string) error {
	a := c.app
	mbx, err := a.mailbox()
	if err != nil {
		return err
	}
	model, err := a.model()
	if err != nil {
		return err
	}
	opt := organizer.NewOptimizer(a.logger, a.console, mbx, model, a.cfg.PromptPath)
	return opt.Run(a.ctx, c.Query, c.Max)
}

type exportCmd struct {
	app    *app
	Output string `short:"o" long:"output" default:"data/finetune.jsonl" description:"Destination JSONL file"`
}

func (c *exportCmd) Execute([]string) error {
	a := c.app
	records, err := dataset.NewStore(a.cfg.VerifiedFile).Load()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		a.console.Printf("Verified corpus is empty, nothing to export.\n")
		return nil
	}
	if err := dataset.ExportJSONL(c.Output, records); err != nil {
		return err
	}
	a.console.Printf("Exported %d training pairs to %s\n", len(records), c.Output)
	return nil
}

func main() {
	logger := logging.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}

	a := &app{
		ctx:     ctx,
		logger:  logger,
		cfg:     cfg,
		console: organizer.NewConsole(os.Stdin, os.Stdout),
	}

	parser := flags.NewParser(nil, flags.Default)
	parser.ShortDescription = "Gmail organizer"
	addCommand := func(name, short, long string, cmd flags.Commander) {
		if _, err := parser.AddCommand(name, short, long, cmd); err != nil {
			logger.Fatal("Failed to register command", "command", name, "error", err)
		}
	}
	addCommand("run", "Organize the inbox", "Fetch, classify, review and label new messages.", &runCmd{app: a})
	addCommand("build-dataset", "Grow the verified corpus interactively", "Review model predictions one message at a time.", &buildDatasetCmd{app: a})
	addCommand("optimize-categories", "Regenerate the categorization prompt", "Sample the inbox and let the model propose a better category set.", &optimizeCmd{app: a})
	addCommand("export", "Export training data", "Write the verified corpus as JSONL for fine-tuning.", &exportCmd{app: a})

	if _, err := parser.Parse(); err != nil {
		if fe, ok := err.(*flags.Error); ok && fe.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
}
