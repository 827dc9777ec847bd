package health

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata"
)

// ZoneCheck verifies that the competition time zone is loaded and still
// resolves from the embedded tz database.
func ZoneCheck(name string, loc *time.Location) CheckFunc {
	return func(ctx context.Context) error {
		if loc == nil {
			return fmt.Errorf("time zone %s not loaded", name)
		}
		if loc.String() != name {
			return fmt.Errorf("time zone is %s, expected %s", loc.String(), name)
		}
		if _, err := time.LoadLocation(name); err != nil {
			return fmt.Errorf("time zone %s: %w", name, err)
		}
		return nil
	}
}
