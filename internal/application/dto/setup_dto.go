package dto

// SetupOutput represents the result of a setup run
type SetupOutput struct {
	StagesRun []string `json:"stages_run"` // External stages executed during this invocation
	Stage     string   `json:"stage"`      // Setup stage after the run
	ElapsedMs int64    `json:"elapsed_ms"` // Wall time of the whole run
}
