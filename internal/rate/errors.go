package rate

import "errors"

// ErrRedisUnavailable wraps Redis transport failures. It is logged, never
// returned: the limiter absorbs outages per the availability policy.
var ErrRedisUnavailable = errors.New("redis unavailable")
