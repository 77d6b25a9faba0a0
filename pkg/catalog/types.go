// Package catalog extracts table metadata from a PostgreSQL catalog and
// renders it into documents suitable for semantic embedding.
package catalog

// ColumnDescriptor describes one column of a base table.
type ColumnDescriptor struct {
	Name     string
	Type     string
	Nullable bool
	Default  string
	Comment  string
}

// ForeignKey describes a referrer-side foreign key edge.
type ForeignKey struct {
	Column         string
	ReferencedTable  string
	ReferencedColumn string
}

// TableDescriptor is the normalized form of one base table in a schema
// namespace, as produced by the Extractor. It is immutable once built.
type TableDescriptor struct {
	TableName   string
	TableComment string
	Columns     []ColumnDescriptor
	ForeignKeys []ForeignKey
}

// SchemaDocument is the embedded form of one TableDescriptor: the unit
// stored in the schema index.
type SchemaDocument struct {
	ID       string // equal to TableName, unique within the index
	Body     string
	Metadata DocumentMetadata
}

// DocumentMetadata is the side-channel metadata attached to a SchemaDocument.
type DocumentMetadata struct {
	TableName    string `json:"table_name"`
	TableComment string `json:"table_comment"`
	ColumnCount  int    `json:"column_count"`
}
