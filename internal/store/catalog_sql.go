package store

const (
	selectTypes = `SELECT kid, package, api_name, label, plural_label, key_prefix, table_name,
			default_field_kid, sharing_field_kid, is_basic, auto_linking, declared_in_code, created_at
		FROM sys_type
		ORDER BY n_id;`

	selectFields = `SELECT kid, type_kid, api_name, label, kind, length, number_kind, decimal_places,
			referenced_type_kid, cascade_delete, mirror_field, linking_type_kid,
			self_linking_field, foreign_linking_field, formula, dictionary_id, enum_values,
			autonumber_format, required, auto_set, track_history, default_value
		FROM sys_field
		ORDER BY type_kid, n_id;`

	insertType = `INSERT INTO sys_type (
			kid, package, api_name, label, plural_label, key_prefix, table_name,
			default_field_kid, sharing_field_kid, is_basic, auto_linking, declared_in_code, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`

	// key prefix, table name and creation timestamp are immutable and
	// deliberately absent from the SET list.
	updateType = `UPDATE sys_type
		SET package = $1, api_name = $2, label = $3, plural_label = $4,
			default_field_kid = $5, sharing_field_kid = $6, auto_linking = $7
		WHERE kid = $8;`

	deleteType = `DELETE FROM sys_type WHERE kid = $1;`

	insertField = `INSERT INTO sys_field (
			kid, type_kid, api_name, label, kind, length, number_kind, decimal_places,
			referenced_type_kid, cascade_delete, mirror_field, linking_type_kid,
			self_linking_field, foreign_linking_field, formula, dictionary_id, enum_values,
			autonumber_format, required, auto_set, track_history, default_value
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);`

	updateField = `UPDATE sys_field
		SET api_name = $1, label = $2, kind = $3, length = $4, number_kind = $5, decimal_places = $6,
			referenced_type_kid = $7, cascade_delete = $8, mirror_field = $9, linking_type_kid = $10,
			self_linking_field = $11, foreign_linking_field = $12, formula = $13, dictionary_id = $14,
			enum_values = $15, autonumber_format = $16, required = $17, auto_set = $18,
			track_history = $19, default_value = $20
		WHERE kid = $21;`

	deleteField = `DELETE FROM sys_field WHERE kid = $1;`

	nextKeyPrefixSequence = `SELECT nextval('sys_key_prefix_seq');`
	nextTypeSequence      = `SELECT nextval('sys_type_id_seq');`
	nextFieldSequence     = `SELECT nextval('sys_field_id_seq');`
)
