package options

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/pomo/pkg/timeutil"
)

const DefaultWindow = "7d"

// ReportOptions
type ReportOptions struct {
	Last string
}

func AddReportArgs(cmd *cobra.Command, o *ReportOptions) {
	cmd.Flags().StringVar(&o.Last, "last", DefaultWindow,
		"Time window to include, for example 3d or 2w.")
}

// Window returns the bounds of the report ending at now. A bare number
// counts days.
func (o *ReportOptions) Window(now time.Time) (time.Time, time.Time, error) {
	d, err := timeutil.ParseDuration(o.Last, 24*time.Hour)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("--last: %w", err)
	}
	return now.Add(-d), now, nil
}
