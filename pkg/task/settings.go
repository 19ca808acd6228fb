package task

// Settings are the task preferences and the current task/slot pointers.
type Settings struct {
	CurrentTaskID     string `json:"currentTaskId,omitempty"`
	CurrentSlotID     string `json:"currentSlotId,omitempty"`
	AutoStartNextTask bool   `json:"autoStartNextTask"`
	ShowTaskInPopup   bool   `json:"showTaskInPopup"`
	KanbanView        bool   `json:"kanbanView"`
}

func DefaultSettings() Settings {
	return Settings{
		AutoStartNextTask: false,
		ShowTaskInPopup:   true,
		KanbanView:        true,
	}
}
