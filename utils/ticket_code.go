package utils

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateTicketCode builds a human-readable code such as RT260314-091502-4F2A9C.
// The timestamp makes codes sortable, the suffix keeps same-second codes apart.
func GenerateTicketCode(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return "RT" + now.Format("060102-150405") + "-" + suffix
}
