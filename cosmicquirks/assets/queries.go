package assets

// Candidate queries accept a nullable cutoff so cooldown filtering stays a
// single prepared statement: a NULL cutoff disables the recency predicate.
const queryCandidatesByTheme = `
	SELECT id, image_data, character_name, character_description,
	       question_theme, form_type, usage_count, last_used_at,
	       is_active, created_at
	FROM image_assets
	WHERE is_active = TRUE
	  AND form_type = $1
	  AND question_theme = $2
	  AND ($3::timestamptz IS NULL OR last_used_at IS NULL OR last_used_at < $3)
	ORDER BY usage_count ASC, created_at ASC
	LIMIT 10
`

const queryCandidatesAnyTheme = `
	SELECT id, image_data, character_name, character_description,
	       question_theme, form_type, usage_count, last_used_at,
	       is_active, created_at
	FROM image_assets
	WHERE is_active = TRUE
	  AND form_type = $1
	  AND ($2::timestamptz IS NULL OR last_used_at IS NULL OR last_used_at < $2)
	ORDER BY usage_count ASC, created_at ASC
	LIMIT 10
`

const queryMarkUsed = `
	UPDATE image_assets
	SET usage_count = usage_count + 1, last_used_at = NOW()
	WHERE id = $1
`

const queryInsertAsset = `
	INSERT INTO image_assets (
		image_data, character_name, character_description,
		question_theme, form_type, usage_count, is_active
	)
	VALUES ($1, $2, $3, $4, $5, 0, TRUE)
	RETURNING id, created_at
`

const queryCountAll = `
	SELECT COUNT(*) FROM image_assets
`

const queryCountActive = `
	SELECT COUNT(*) FROM image_assets WHERE is_active = TRUE
`

const queryActiveBreakdown = `
	SELECT question_theme, form_type, COUNT(*)
	FROM image_assets
	WHERE is_active = TRUE
	GROUP BY question_theme, form_type
`

const queryDeleteStaleUnused = `
	DELETE FROM image_assets
	WHERE usage_count = 0 AND created_at < $1
`

const queryDeactivateOverflow = `
	UPDATE image_assets
	SET is_active = FALSE
	WHERE id IN (
		SELECT id FROM image_assets
		WHERE is_active = TRUE
		ORDER BY usage_count ASC, last_used_at ASC NULLS FIRST, created_at ASC
		LIMIT $1
	)
`
