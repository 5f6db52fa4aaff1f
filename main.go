package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"resumecanvas/internal/app"
	"resumecanvas/internal/config"
	"resumecanvas/internal/pagination"
)

const usage = `usage: resumecanvas <command> [flags]

commands:
  render    paginate a resume JSON file and write it as PDF
  paginate  print the pages of a resume JSON file as JSON
  mcp       serve an editing session over MCP on stdin/stdout
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	// MCP owns stdout, so logs always go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log, os.Args[1], os.Args[2:]); err != nil {
		log.Error("resumecanvas: "+os.Args[1]+" failed", "error", err)
		cancel()
		os.Exit(1)
	}
}

func capacityFlags(fs *flag.FlagSet) *pagination.Capacities {
	caps := pagination.DefaultCapacities
	fs.IntVar(&caps.Experience, "experience", caps.Experience, "experience entries per page")
	fs.IntVar(&caps.Education, "education", caps.Education, "education entries per page")
	fs.IntVar(&caps.Projects, "projects", caps.Projects, "project entries per page")
	return &caps
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger, cmd string, args []string) error {
	switch cmd {
	case "render":
		fs := flag.NewFlagSet("render", flag.ContinueOnError)
		in := fs.String("in", "resume.json", "resume JSON path")
		out := fs.String("out", "output/resume.pdf", "PDF output path")
		watchIn := fs.Bool("watch", false, "re-render whenever the input changes")
		font := fs.String("font", cfg.FontPath, "font file (default: a system font)")
		caps := capacityFlags(fs)
		if err := fs.Parse(args); err != nil {
			return err
		}
		cfg.FontPath = *font
		a := app.New(cfg, log)
		if *watchIn {
			return a.Watch(ctx, *in, *out, *caps)
		}
		result, err := a.Render(*in, *out, *caps)
		if err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d pages)\n", *out, result.Pages)
		return nil

	case "paginate":
		fs := flag.NewFlagSet("paginate", flag.ContinueOnError)
		in := fs.String("in", "resume.json", "resume JSON path")
		caps := capacityFlags(fs)
		if err := fs.Parse(args); err != nil {
			return err
		}
		return app.New(cfg, log).Paginate(*in, *caps, os.Stdout)

	case "mcp":
		fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
		project := fs.String("project", "new", "project id to open, or \"new\"")
		caps := capacityFlags(fs)
		if err := fs.Parse(args); err != nil {
			return err
		}
		return app.New(cfg, log).ServeMCP(ctx, *project, *caps)

	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	}
	fmt.Fprint(os.Stderr, usage)
	return fmt.Errorf("unknown command %q", cmd)
}
