package predictions

const queryInsertPrediction = `
	INSERT INTO predictions (
		user_id, form_type, input_name, input_birthdate, question,
		character_name, character_description, prediction_text,
		character_image, image_variants, metadata, generation_source,
		is_active
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, TRUE)
	RETURNING id, created_at
`

const queryFindDuplicate = `
	SELECT id, created_at
	FROM predictions
	WHERE user_id = $1
	  AND character_name = $2
	  AND prediction_text = $3
	  AND question = $4
	  AND is_active = TRUE
	LIMIT 1
`

const queryListByUser = `
	SELECT id, user_id, form_type, input_name, input_birthdate, question,
	       character_name, character_description, prediction_text,
	       character_image, image_variants, metadata, generation_source,
	       is_active, created_at
	FROM predictions
	WHERE user_id = $1 AND is_active = TRUE
	ORDER BY created_at DESC
	LIMIT $2 OFFSET $3
`

const queryCountByUser = `
	SELECT COUNT(*) FROM predictions WHERE user_id = $1 AND is_active = TRUE
`

const queryDeactivate = `
	UPDATE predictions
	SET is_active = FALSE
	WHERE id = $1 AND user_id = $2 AND is_active = TRUE
`
