package tasks

import (
	"context"
	"fmt"
	"time"
)

// TaskGenerateQuarterDues is the task name for bulk dues generation.
const TaskGenerateQuarterDues = "generate_quarter_dues"

// DueGenerator is the slice of the due repository the generation task uses.
type DueGenerator interface {
	GenerateForQuarter(year, quarter int, amount float64) (int, error)
}

// RegisterDueTasks wires the dues-generation task into the registry. Arguments:
// "amount" (required), "year" and "quarter" (both optional, defaulting to the
// current period so a recurring task needs no per-run arguments).
func RegisterDueTasks(r *Registry, dues DueGenerator) {
	r.Register(TaskGenerateQuarterDues, func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
		amount, ok := floatArg(args, "amount")
		if !ok {
			return nil, fmt.Errorf("amount not provided or invalid")
		}

		now := time.Now()
		year := now.Year()
		if y, ok := floatArg(args, "year"); ok {
			year = int(y)
		}
		quarter := int(now.Month()-1)/3 + 1
		if q, ok := floatArg(args, "quarter"); ok {
			quarter = int(q)
		}

		created, err := dues.GenerateForQuarter(year, quarter, amount)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"status":  "success",
			"year":    year,
			"quarter": quarter,
			"created": created,
		}, nil
	})
}

// floatArg reads a numeric argument. JSON round-trips store numbers as
// float64, but callers constructing maps in Go pass ints too.
func floatArg(args map[string]interface{}, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case uint:
		return float64(v), true
	default:
		return 0, false
	}
}
