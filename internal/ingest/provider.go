// Package ingest holds what the import providers share.
package ingest

// Result holds the outcome of an ingest operation.
type Result struct {
	MetricsReceived int      `json:"metrics_received"`
	MetricsInserted int64    `json:"metrics_inserted"`
	MetricsSkipped  int64    `json:"metrics_skipped"`
	MetricsRejected int      `json:"metrics_rejected"`
	RejectedNames   []string `json:"rejected_names,omitempty"`

	SleepNightsInserted int `json:"sleep_nights_inserted,omitempty"`

	WorkoutsReceived int `json:"workouts_received,omitempty"`
	WorkoutsInserted int `json:"workouts_inserted,omitempty"`

	SetsReceived int   `json:"sets_received,omitempty"`
	SetsInserted int64 `json:"sets_inserted,omitempty"`

	Message string `json:"message,omitempty"`
}
