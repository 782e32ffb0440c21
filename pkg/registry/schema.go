package registry

import (
	"fmt"
	"time"
)

// ActivityRegistry lists the gift-search task types and the contract of each.
type ActivityRegistry struct {
	Version    string     `json:"version"`
	Activities []Activity `json:"activities"`
}

type Activity struct {
	ID                   string                 `json:"id"`
	DisplayName          string                 `json:"displayName"`
	Description          string                 `json:"description"`
	Category             string                 `json:"category"`
	Version              string                 `json:"version"`
	TaskType             string                 `json:"taskType"`
	ImplementationStatus string                 `json:"implementationStatus"`
	InputSchema          map[string]interface{} `json:"inputSchema"`
	OutputSchema         map[string]interface{} `json:"outputSchema,omitempty"`
	ErrorCodes           []string               `json:"errorCodes"`
	Timeout              string                 `json:"timeout"`
	Retries              int                    `json:"retries"`
}

// TimeoutDuration parses Timeout. An empty timeout is zero.
func (a Activity) TimeoutDuration() (time.Duration, error) {
	if a.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(a.Timeout)
	if err != nil {
		return 0, fmt.Errorf("activity %q: invalid timeout %q: %w", a.TaskType, a.Timeout, err)
	}
	return d, nil
}

// TaskTypes returns the registered task types in registry order.
func (r *ActivityRegistry) TaskTypes() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.Activities))
	for _, a := range r.Activities {
		out = append(out, a.TaskType)
	}
	return out
}

// Validate checks that every activity has a unique task type, an object input
// schema the workers can validate job variables against, and a usable timeout.
func (r *ActivityRegistry) Validate() error {
	seen := map[string]bool{}
	for i, a := range r.Activities {
		if a.TaskType == "" {
			return fmt.Errorf("activity %d (%s) has no taskType", i, a.ID)
		}
		if seen[a.TaskType] {
			return fmt.Errorf("duplicate taskType %q", a.TaskType)
		}
		seen[a.TaskType] = true

		if t, _ := a.InputSchema["type"].(string); t != "object" {
			return fmt.Errorf("activity %q: inputSchema must be an object schema", a.TaskType)
		}
		if _, err := a.TimeoutDuration(); err != nil {
			return err
		}
		if a.Retries < 0 {
			return fmt.Errorf("activity %q: retries must not be negative", a.TaskType)
		}
	}
	return nil
}
