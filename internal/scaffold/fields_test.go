package scaffold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFields(t *testing.T) {
	fields, err := ParseFields("title:string,pages:int,price:float,published:bool")
	require.NoError(t, err)
	require.Len(t, fields, 4)

	assert.Equal(t, Field{Name: "title", GoName: "Title", Type: "string"}, fields[0])
	assert.Equal(t, Field{Name: "pages", GoName: "Pages", Type: "int"}, fields[1])
	assert.Equal(t, Field{Name: "price", GoName: "Price", Type: "float64"}, fields[2])
	assert.Equal(t, Field{Name: "published", GoName: "Published", Type: "bool"}, fields[3])
}

func TestParseFieldsBareNameDefaultsToString(t *testing.T) {
	fields, err := ParseFields("title")
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "string", fields[0].Type)
}

func TestParseFieldsEmptySpecYieldsNameField(t *testing.T) {
	fields, err := ParseFields("")
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, Field{Name: "name", GoName: "Name", Type: "string"}, fields[0])
}

func TestParseFieldsSnakeCaseExport(t *testing.T) {
	fields, err := ParseFields("unit_price:float,created_at:time")
	require.NoError(t, err)
	assert.Equal(t, "UnitPrice", fields[0].GoName)
	assert.Equal(t, "CreatedAt", fields[1].GoName)
	assert.Equal(t, "time.Time", fields[1].Type)
	assert.True(t, NeedsTimeImport(fields))
}

func TestParseFieldsRejectsUnknownType(t *testing.T) {
	_, err := ParseFields("title:varchar")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "varchar")
}

func TestParseFieldsRejectsBadName(t *testing.T) {
	for _, spec := range []string{"Title:string", "9lives:int", "_x:int", "a-b:int"} {
		_, err := ParseFields(spec)
		assert.Error(t, err, "spec %q", spec)
	}
}

func TestPluralize(t *testing.T) {
	cases := map[string]string{
		"Book":     "books",
		"Class":    "classes",
		"Box":      "boxes",
		"Match":    "matches",
		"Category": "categories",
		"Day":      "days",
		"User":     "users",
	}
	for in, want := range cases {
		assert.Equal(t, want, Pluralize(in), "Pluralize(%q)", in)
	}
}
