package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultNamespace is the schema namespace used when none is specified.
const DefaultNamespace = "public"

// Extractor reads catalog metadata for a namespace and produces a
// normalized TableDescriptor list. It performs no mutation and is a pure
// function of the catalog at call time.
type Extractor struct {
	pool *pgxpool.Pool
}

// NewExtractor creates an Extractor bound to a read-only connection pool.
func NewExtractor(pool *pgxpool.Pool) *Extractor {
	return &Extractor{pool: pool}
}

// Extract reads every base table (excluding views and system tables) in
// namespace, along with its columns and foreign keys, in table-name order.
// A catalog failure surfaces as a single error for the whole extraction;
// callers may proceed in degraded mode with an empty schema context.
func (e *Extractor) Extract(ctx context.Context, namespace string) ([]TableDescriptor, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	tableRows, err := e.pool.Query(ctx, `
		SELECT t.table_name,
		       COALESCE(obj_description(
		           (quote_ident(t.table_schema) || '.' || quote_ident(t.table_name))::regclass,
		           'pg_class'), '') AS table_comment
		FROM information_schema.tables t
		WHERE t.table_schema = $1
		  AND t.table_type = 'BASE TABLE'
		ORDER BY t.table_name
	`, namespace)
	if err != nil {
		return nil, fmt.Errorf("catalog: list tables: %w", err)
	}

	type tableRow struct {
		name    string
		comment string
	}
	var tables []tableRow
	for tableRows.Next() {
		var tr tableRow
		if err := tableRows.Scan(&tr.name, &tr.comment); err != nil {
			tableRows.Close()
			return nil, fmt.Errorf("catalog: scan table row: %w", err)
		}
		tables = append(tables, tr)
	}
	if err := tableRows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate tables: %w", err)
	}
	tableRows.Close()

	descriptors := make([]TableDescriptor, 0, len(tables))
	for _, tr := range tables {
		columns, err := e.columns(ctx, namespace, tr.name)
		if err != nil {
			return nil, fmt.Errorf("catalog: columns for %q: %w", tr.name, err)
		}
		foreignKeys, err := e.foreignKeys(ctx, namespace, tr.name)
		if err != nil {
			return nil, fmt.Errorf("catalog: foreign keys for %q: %w", tr.name, err)
		}
		descriptors = append(descriptors, TableDescriptor{
			TableName:    tr.name,
			TableComment: tr.comment,
			Columns:      columns,
			ForeignKeys:  foreignKeys,
		})
	}

	slog.Info("catalog extraction complete", "namespace", namespace, "tables", len(descriptors))
	return descriptors, nil
}

func (e *Extractor) columns(ctx context.Context, namespace, table string) ([]ColumnDescriptor, error) {
	rows, err := e.pool.Query(ctx, `
		SELECT c.column_name,
		       c.data_type,
		       c.is_nullable = 'YES' AS nullable,
		       COALESCE(c.column_default, ''),
		       COALESCE(col_description(
		           (quote_ident(c.table_schema) || '.' || quote_ident(c.table_name))::regclass,
		           c.ordinal_position), '')
		FROM information_schema.columns c
		WHERE c.table_schema = $1 AND c.table_name = $2
		ORDER BY c.ordinal_position
	`, namespace, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []ColumnDescriptor
	for rows.Next() {
		var col ColumnDescriptor
		if err := rows.Scan(&col.Name, &col.Type, &col.Nullable, &col.Default, &col.Comment); err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func (e *Extractor) foreignKeys(ctx context.Context, namespace, table string) ([]ForeignKey, error) {
	rows, err := e.pool.Query(ctx, `
		SELECT kcu.column_name,
		       ccu.table_name  AS ref_table,
		       ccu.column_name AS ref_column
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON tc.constraint_name = kcu.constraint_name
		 AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage ccu
		  ON tc.constraint_name = ccu.constraint_name
		 AND tc.table_schema = ccu.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
		  AND tc.table_schema = $1
		  AND tc.table_name = $2
	`, namespace, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []ForeignKey
	for rows.Next() {
		var fk ForeignKey
		if err := rows.Scan(&fk.Column, &fk.ReferencedTable, &fk.ReferencedColumn); err != nil {
			return nil, err
		}
		fks = append(fks, fk)
	}
	return fks, rows.Err()
}

// FormatForEmbedding renders each TableDescriptor into the SchemaDocument
// body the embedder sees. The body carries the table name and comment,
// every column as "name(type): comment", and foreign-key edges as
// "col → ref_table.ref_column" — enough signal for semantic retrieval to
// work from column comments alone.
func FormatForEmbedding(tables []TableDescriptor) []SchemaDocument {
	docs := make([]SchemaDocument, 0, len(tables))
	for _, t := range tables {
		var b strings.Builder
		fmt.Fprintf(&b, "Table %s (%s)\n", t.TableName, t.TableComment)
		for _, col := range t.Columns {
			fmt.Fprintf(&b, "%s(%s): %s\n", col.Name, col.Type, col.Comment)
		}
		if len(t.ForeignKeys) > 0 {
			edges := make([]string, 0, len(t.ForeignKeys))
			for _, fk := range t.ForeignKeys {
				edges = append(edges, fmt.Sprintf("%s → %s.%s", fk.Column, fk.ReferencedTable, fk.ReferencedColumn))
			}
			fmt.Fprintf(&b, "Foreign keys: %s\n", strings.Join(edges, "; "))
		}

		docs = append(docs, SchemaDocument{
			ID:   t.TableName,
			Body: b.String(),
			Metadata: DocumentMetadata{
				TableName:    t.TableName,
				TableComment: t.TableComment,
				ColumnCount:  len(t.Columns),
			},
		})
	}
	return docs
}
