package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVariablesThreeGrammars(t *testing.T) {
	text := "Hola @nombre_cliente, evento {nombre_evento} incluye [SERVICIOS_INCLUIDOS]."

	vars := ParseVariables(text)
	require.Len(t, vars, 3)

	assert.Equal(t, "nombre_cliente", vars[0].Key)
	assert.Equal(t, SyntaxAt, vars[0].Syntax)
	assert.Equal(t, "@nombre_cliente", vars[0].FullMatch)

	assert.Equal(t, "nombre_evento", vars[1].Key)
	assert.Equal(t, SyntaxBrace, vars[1].Syntax)

	assert.Equal(t, "SERVICIOS_INCLUIDOS", vars[2].Key)
	assert.Equal(t, SyntaxBracket, vars[2].Syntax)
	assert.Equal(t, "[SERVICIOS_INCLUIDOS]", vars[2].FullMatch)
}

func TestParseVariablesSortedByOffset(t *testing.T) {
	text := "[BLOQUE_FINAL] antes, @primero y {segundo}"

	vars := ParseVariables(text)
	require.Len(t, vars, 3)
	for i := 1; i < len(vars); i++ {
		assert.LessOrEqual(t, vars[i-1].Start, vars[i].Start)
	}
	assert.Equal(t, "BLOQUE_FINAL", vars[0].Key)
}

func TestParseVariablesNoDeduplicationAcrossSyntaxes(t *testing.T) {
	// The same key through two grammars yields two independent entries.
	text := "@total_contrato y {total_contrato}"

	vars := ParseVariables(text)
	require.Len(t, vars, 2)
	assert.Equal(t, vars[0].Key, vars[1].Key)
	assert.NotEqual(t, vars[0].Syntax, vars[1].Syntax)
}

func TestParseVariablesBracketGrammarIsStrict(t *testing.T) {
	vars := ParseVariables("[minusculas] [1LEADING] [OK_2]")
	require.Len(t, vars, 1)
	assert.Equal(t, "OK_2", vars[0].Key)
}

func TestParseVariablesOffsets(t *testing.T) {
	text := "xx @abc yy"
	vars := ParseVariables(text)
	require.Len(t, vars, 1)
	assert.Equal(t, 3, vars[0].Start)
	assert.Equal(t, 7, vars[0].End)
	assert.Equal(t, text[vars[0].Start:vars[0].End], vars[0].FullMatch)
}
