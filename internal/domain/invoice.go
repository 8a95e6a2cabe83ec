package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewInvoiceNumber генерирует номер счета вида INV-YYYYMMDD-XXXXXXXX.
// Номер присваивается один раз при создании бронирования и больше не меняется
func NewInvoiceNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return "INV-" + now.UTC().Format("20060102") + "-" + suffix
}
