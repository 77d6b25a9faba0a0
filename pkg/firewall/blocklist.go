package firewall

// mutatingStatementFields are the Node oneof field names (in libpg_query's
// own proto schema, e.g. "insert_stmt") that identify a statement which
// writes data, changes schema, or runs an opaque administrative command.
// "select_stmt" is deliberately absent: a SELECT is the only statement kind
// this firewall ever lets through.
var mutatingStatementFields = map[string]bool{
	"insert_stmt":         true,
	"update_stmt":         true,
	"delete_stmt":         true,
	"truncate_stmt":       true,
	"drop_stmt":           true,
	"drop_role_stmt":      true,
	"create_stmt":         true,
	"create_table_as_stmt": true,
	"create_schema_stmt":  true,
	"create_function_stmt": true,
	"alter_table_stmt":    true,
	"alter_role_stmt":     true,
	"grant_stmt":          true,
	"grant_role_stmt":     true,
	"copy_stmt":           true,
	"vacuum_stmt":         true,
	"index_stmt":          true,
	"view_stmt":           true,
	"comment_stmt":        true,
	"rename_stmt":         true,
	"do_stmt":             true,
	"call_stmt":           true,
	"execute_stmt":        true,
	"prepare_stmt":        true,
	"transaction_stmt":    true,
	"lock_stmt":           true,
	"variable_set_stmt":   true,
	"refresh_mat_view_stmt": true,
	"security_label_stmt": true,
}

// blockedFunctions are normalized (lowercased) function names that are
// never allowed to appear anywhere in a query, including nested inside a
// subquery or an expression, regardless of statement-level classification.
var blockedFunctions = map[string]bool{
	"pg_sleep":              true,
	"pg_terminate_backend":  true,
	"pg_cancel_backend":     true,
	"lo_import":             true,
	"lo_export":             true,
	"dblink":                true,
	"dblink_exec":           true,
	"copy":                  true,
}
