package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewOrderID builds the human-readable order identifier shown to customers:
// "ORD" + epoch millis + a 5-character random suffix. The suffix keeps two
// orders created within the same millisecond apart; the unique index on
// orders.orderId backstops the remaining collision chance.
func NewOrderID() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:5]
	return fmt.Sprintf("ORD%d%s", time.Now().UnixMilli(), suffix)
}
