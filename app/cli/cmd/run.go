package cmd

import (
	"log"
	"os"
	"time"

	"conveyor/app/cli/cmd/common"
	"conveyor/pkg/api"
	"conveyor/pkg/loader"
	"conveyor/pkg/notify"
	"conveyor/pkg/runner"
	"conveyor/pkg/scheduler"
	"conveyor/pkg/store"
	"conveyor/pkg/util/context"

	"github.com/spf13/cobra"
)

type runOpts struct {
	event     string        // --event
	branch    string        // --branch
	commit    string        // --commit
	timeout   time.Duration // --timeout
	reportURL string        // --report-url
}

// NewRunCommand returns a new instance of a conveyor command
func NewRunCommand() *cobra.Command {
	var opts runOpts
	command := &cobra.Command{
		Use:   "run",
		Short: "run a pipeline definition file for a repository event",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			result, err := run(args[0], opts)
			if err != nil {
				log.Fatal(err)
			}
			// Exit status convention: zero iff nothing failed.
			if !result.Succeeded() && result.Status != api.StatusNotTriggered {
				os.Exit(1)
			}
		},
	}
	command.Flags().StringVarP(&opts.event, "event", "e", api.EventPush, "repository event tag (push, pull_request, ...)")
	command.Flags().StringVarP(&opts.branch, "branch", "b", "", "event branch")
	command.Flags().StringVarP(&opts.commit, "commit", "c", "", "event commit")
	command.Flags().DurationVarP(&opts.timeout, "timeout", "t", 0, "global run timeout (0 disables)")
	command.Flags().StringVar(&opts.reportURL, "report-url", "", "post the final result to this URL")

	return command
}

func run(path string, opts runOpts) (api.PipelineResult, error) {
	spec, err := loader.Load(path)
	if err != nil {
		return api.PipelineResult{}, err
	}

	s := store.NewInMemoryStore()
	var scOpts []scheduler.Option
	if opts.timeout > 0 {
		scOpts = append(scOpts, scheduler.WithTimeout(opts.timeout))
	}
	sc := scheduler.New(s, runner.New(), scOpts...)

	ctx := context.Background()
	evt := api.Event{Type: opts.event, Branch: opts.branch, Commit: opts.commit}

	result, err := sc.Execute(ctx, spec, evt)
	common.PrintResult(os.Stdout, result)
	if err != nil {
		return result, nil // definition error, already carried in the result
	}

	if opts.reportURL != "" && result.Status != api.StatusNotTriggered {
		if rerr := notify.NewHTTPReporter(opts.reportURL).Report(ctx, result); rerr != nil {
			ctx.Logger().Error(rerr)
		}
	}
	return result, nil
}
