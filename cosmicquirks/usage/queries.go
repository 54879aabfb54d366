package usage

const (
	queryUserDailyUsage = `
		SELECT generations_used_today, last_generation_date, plan_type
		FROM users
		WHERE id = $1
	`

	queryIPDailyUsage = `
		SELECT generations_used
		FROM usage_tracking
		WHERE ip_address = $1 AND date = $2
	`

	// single atomic statements; never read-modify-write in application code
	queryIncrementUserUsage = `SELECT increment_user_usage($1, $2)`
	queryIncrementIPUsage   = `SELECT increment_ip_usage($1, $2)`

	// bookkeeping-only bulk reset; the read path never depends on it
	queryResetDailyUsage = `SELECT reset_daily_usage()`
)
