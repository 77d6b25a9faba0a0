package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatForEmbedding(t *testing.T) {
	tables := []TableDescriptor{
		{
			TableName:    "orders",
			TableComment: "customer orders",
			Columns: []ColumnDescriptor{
				{Name: "id", Type: "integer", Comment: "primary key"},
				{Name: "user_id", Type: "integer", Comment: "placing user"},
			},
			ForeignKeys: []ForeignKey{
				{Column: "user_id", ReferencedTable: "users", ReferencedColumn: "id"},
			},
		},
	}

	docs := FormatForEmbedding(tables)

	assert.Len(t, docs, 1)
	doc := docs[0]
	assert.Equal(t, "orders", doc.ID)
	assert.Equal(t, "orders", doc.Metadata.TableName)
	assert.Equal(t, 2, doc.Metadata.ColumnCount)
	assert.Contains(t, doc.Body, "Table orders (customer orders)")
	assert.Contains(t, doc.Body, "id(integer): primary key")
	assert.Contains(t, doc.Body, "user_id → users.id")
}

func TestFormatForEmbedding_NoForeignKeys(t *testing.T) {
	tables := []TableDescriptor{
		{TableName: "users", TableComment: "", Columns: []ColumnDescriptor{{Name: "id", Type: "integer"}}},
	}

	docs := FormatForEmbedding(tables)

	assert.Len(t, docs, 1)
	assert.False(t, strings.Contains(docs[0].Body, "Foreign keys"))
}

func TestFormatForEmbedding_Empty(t *testing.T) {
	docs := FormatForEmbedding(nil)
	assert.Empty(t, docs)
}
