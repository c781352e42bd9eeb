package common

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"conveyor/pkg/api"
)

var statusIconMap = map[api.Status]string{
	api.StatusPending:   "◷",
	api.StatusRunning:   "●",
	api.StatusSucceeded: "✔",
	api.StatusFailed:    "✖",
	api.StatusSkipped:   "○",
}

// PrintRun prints the run state in the given writer.
func PrintRun(w io.Writer, run api.RunState) {
	fmt.Fprintln(w)

	// Header
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", run.Name)
	fmt.Fprintf(tw, "RunID:\t%s\n", run.RunID)
	fmt.Fprintf(tw, "Status:\t%s\n", run.Status)
	fmt.Fprintf(tw, "Created:\t%s\n", date(run.CreateTime))
	fmt.Fprintf(tw, "Started:\t%s\n", date(run.StartTime))
	fmt.Fprintf(tw, "Finished:\t%s\n", date(run.EndTime))
	fmt.Fprintf(tw, "Duration:\t%s\n", duration(run.StartTime, run.EndTime))
	tw.Flush()
	fmt.Fprintln(w)

	tw.Init(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "JOB\tDURATION\tPROGRESSION")
	fmt.Fprintf(tw, "%s %s\t\t\n", statusIconMap[run.Status], run.Name)
	for i, job := range run.Jobs {
		prefix := "├"
		if i == len(run.Jobs)-1 {
			prefix = "└"
		}
		label := job.Name
		if job.Reason != "" {
			label = fmt.Sprintf("%s (%s)", job.Name, job.Reason)
		}
		fmt.Fprintf(tw, "%s %s %s\t%s\t%s\n", prefix, statusIconMap[job.Status], label, duration(job.StartTime, job.EndTime), unitProgression(job.Units))
	}
	tw.Flush()
}

// PrintResult prints the final report: every job's outcome, including skipped
// ones with their cause, and the identifiers of failing units.
func PrintResult(w io.Writer, result api.PipelineResult) {
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "Pipeline:\t%s\n", result.Name)
	fmt.Fprintf(tw, "Status:\t%s\n", result.Status)
	if result.Error != "" {
		fmt.Fprintf(tw, "Error:\t%s\n", result.Error)
	}
	tw.Flush()

	if len(result.Jobs) == 0 {
		return
	}
	fmt.Fprintln(w)
	tw.Init(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "JOB\tSTATUS\tUNITS")
	names := make([]string, 0, len(result.Jobs))
	for name := range result.Jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		jr := result.Jobs[name]
		status := string(jr.Status)
		if jr.Reason != "" {
			status = fmt.Sprintf("%s (%s)", jr.Status, jr.Reason)
		}
		fmt.Fprintf(tw, "%s %s\t%s\t%d\n", statusIconMap[jr.Status], name, status, len(jr.Units))
	}
	tw.Flush()

	if len(result.Failures) > 0 {
		fmt.Fprintf(w, "\nFailing units: %s\n", strings.Join(result.Failures, ", "))
	}
}

// unitProgression returns a string to be printed for unit progression.
func unitProgression(units []api.UnitState) string {
	total := len(units)
	if total == 0 {
		return ""
	}
	finished := 0
	for _, u := range units {
		if u.Status.Finished() {
			finished++
		}
	}
	return fmt.Sprintf("%d/%d", finished, total)
}

func date(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2 Jan 2006 15:04:05.000")
}

func duration(start, end *time.Time) string {
	var d time.Duration
	if start == nil {
		return ""
	}
	if end == nil {
		d = time.Since(*start)
	} else {
		d = end.Sub(*start)
	}

	if d.Seconds() <= 60.0 {
		return fmt.Sprintf("%0.0fs", d.Seconds())
	} else if d.Minutes() <= 60.0 {
		m := int64(d.Minutes())
		s := math.Mod(d.Seconds(), 60)
		return fmt.Sprintf("%0.dm %0.0fs", m, s)
	}
	h := int64(d.Hours())
	m := int64(math.Mod(d.Minutes(), 60))
	s := math.Mod(d.Seconds(), 60)
	return fmt.Sprintf("%0.dh %0.dm %0.0fs", h, m, s)
}
