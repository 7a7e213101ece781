package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func TestParseClasses_Windows1252(t *testing.T) {
	src := "itemClsCd,itemClsNm,itemClsLvl,taxTyCd,useYn\n" +
		"50202300,Non alcoholic beverages,4,B,Y\n" +
		"50181900,Crème brûlée,4,b,Y\n" +
		"10000000,Live Plant,1,Z,N\n" +
		",sin código,1,A,Y\n" +
		"50202300,Non-alcoholic beverages,4,B,Y\n"
	encoded, err := charmap.Windows1252.NewEncoder().String(src)
	require.NoError(t, err)

	classes, err := parseClasses(transform.NewReader(strings.NewReader(encoded), charmap.Windows1252.NewDecoder()))
	require.NoError(t, err)
	require.Len(t, classes, 3)

	assert.Equal(t, "10000000", classes[0].Code)
	assert.False(t, classes[0].Active)
	assert.Empty(t, classes[0].TaxType, "tipo de impuesto inválido se descarta")

	assert.Equal(t, "Crème brûlée", classes[1].Name)
	assert.Equal(t, "B", classes[1].TaxType)

	assert.Equal(t, "Non-alcoholic beverages", classes[2].Name, "el código repetido conserva la última fila")
	assert.Equal(t, 4, classes[2].Level)
}

func TestParseClasses_SinColumnas(t *testing.T) {
	_, err := parseClasses(strings.NewReader("code,name\n1,x\n"))
	assert.Error(t, err)
}

func TestWriteSQL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSQL(&buf, []itemClass{{Code: "50202300", Name: "Chef's special", Level: 4, Active: true}}))

	out := buf.String()
	assert.Contains(t, out, "('50202300', 'Chef''s special', 4, NULL, true)")
	assert.Contains(t, out, "ON CONFLICT (code) DO UPDATE")
}
