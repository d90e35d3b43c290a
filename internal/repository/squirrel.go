package repository

import sq "github.com/Masterminds/squirrel"

// psql is the shared Squirrel statement builder configured for PostgreSQL dollar placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// workspaceColumns is the column list scanned by scanWorkspace, in order.
var workspaceColumns = []string{
	"id",
	"name",
	"owner_name",
	"autostart_schedule",
	"ttl_ms",
	"build_status",
	"build_transition",
	"build_updated_at",
	"build_deadline",
	"created_at",
}
