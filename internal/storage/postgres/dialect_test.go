package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vvka-141/rawload/pkg/rawload"
)

func TestDialect(t *testing.T) {
	d := Dialect{}

	assert.Equal(t, "postgres", d.Name())
	assert.Equal(t, `"raw"."patient_visits"`, d.QuoteIdentifier("raw", "patient_visits"))
	assert.Equal(t, `"a""; DROP TABLE x; --"`, d.QuoteIdentifier(`a"; DROP TABLE x; --`))
	assert.Equal(t, "$1", d.Placeholder(1))
	assert.Equal(t, "$42", d.Placeholder(42))
	assert.Equal(t, "TIMESTAMP", d.TypeName(rawload.TypeTimestamp))
	assert.Equal(t, "FLOAT", d.TypeName(rawload.TypeFloat))
	assert.Equal(t, 65535, d.MaxBindParams())
}
