package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateTicketCode(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 15, 2, 0, time.UTC)

	code := GenerateTicketCode(now)

	assert.Regexp(t, regexp.MustCompile(`^RT260314-091502-[0-9A-F]{6}$`), code)
	assert.NotEqual(t, code, GenerateTicketCode(now), "same-second codes should differ")
}
