package property

import "time"

var testTime = time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
