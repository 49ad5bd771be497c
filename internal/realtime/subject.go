package realtime

import (
	"fmt"
	"strings"
)

// ProgressSubject is the NATS subject carrying progress for one run.
func ProgressSubject(tenantID, runID string) string {
	return fmt.Sprintf("tenant.%s.run.%s.progress", tenantID, runID)
}

// progressWildcard matches the progress subjects of every run of a tenant.
func progressWildcard(tenantID string) string {
	return fmt.Sprintf("tenant.%s.run.*.progress", tenantID)
}

// parseRunIDFromSubject extracts runID from "tenant.<tid>.run.<runID>.progress"
func parseRunIDFromSubject(subject string) (string, error) {
	parts := strings.Split(subject, ".")
	if len(parts) != 5 {
		return "", fmt.Errorf("expected 5 parts, got %d", len(parts))
	}
	if parts[0] != "tenant" || parts[2] != "run" || parts[4] != "progress" {
		return "", fmt.Errorf("not a run progress subject")
	}
	if parts[3] == "" {
		return "", fmt.Errorf("empty run id")
	}
	return parts[3], nil
}
