package options

import (
	"github.com/spf13/cobra"
)

// TaskOptions
type TaskOptions struct {
	Description string
	Estimate    int
	Tags        []string
}

func AddTaskArgs(cmd *cobra.Command, o *TaskOptions) {
	cmd.Flags().StringVarP(&o.Description, "description", "d", "",
		"Longer description of the task.")
	cmd.Flags().IntVarP(&o.Estimate, "estimate", "e", 1,
		"Pomodoros the task is expected to take.")
	cmd.Flags().StringSliceVarP(&o.Tags, "tag", "t", nil,
		"Tag the task, repeat for more tags.")
}

// StatusOptions
type StatusOptions struct {
	Status string
	All    bool
}

func AddStatusArgs(cmd *cobra.Command, o *StatusOptions) {
	cmd.Flags().StringVarP(&o.Status, "status", "s", "",
		"Only list tasks with this status: backlog, doing or done.")
	cmd.Flags().BoolVarP(&o.All, "all", "a", false,
		"Include done tasks.")
}
