package checkout

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateOrderNumber builds an order number of the form ORD + YYYYMMDD + six
// random digits. The date-plus-random scheme can collide, so callers insert
// under the orders.order_number unique index and retry with a fresh number on
// conflict.
func GenerateOrderNumber(now time.Time, rng *rand.Rand) string {
	return fmt.Sprintf("ORD%s%06d", now.UTC().Format("20060102"), rng.Intn(1000000))
}
