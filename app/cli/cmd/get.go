package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"conveyor/app/cli/cmd/client"
	"conveyor/app/cli/cmd/common"

	"github.com/spf13/cobra"
)

// NewGetCommand returns a new instance of a conveyor command
func NewGetCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "get [runID]",
		Short: "list runs, or print the state of one run",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cli, err := client.New()
			if err != nil {
				log.Fatal(err)
			}
			ctx := context.Background()

			if len(args) == 0 {
				runs, err := cli.ListRuns(ctx)
				if err != nil {
					log.Fatal(err)
				}
				tw := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
				fmt.Fprintln(tw, "RUN ID\tPIPELINE")
				for id, name := range runs {
					fmt.Fprintf(tw, "%s\t%s\n", id, name)
				}
				tw.Flush()
				return
			}

			state, err := cli.RunState(ctx, args[0])
			if err != nil {
				log.Fatal(err)
			}
			common.PrintRun(os.Stdout, state)
		},
	}
	return command
}
