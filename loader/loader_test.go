package loader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ippvm/ipp"
)

func TestLoadXMLBasic(t *testing.T) {
	src := `<?xml version="1.0" encoding="UTF-8"?>
<program language="IPPcode19">
  <instruction order="2" opcode="WRITE">
    <arg1 type="string">hi</arg1>
  </instruction>
  <instruction order="1" opcode="DEFVAR">
    <arg1 type="var">GF@x</arg1>
  </instruction>
</program>`
	prog, err := LoadXML(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, 2, prog.Len())
	assert.Equal(t, ipp.OpDefVar, prog.At(0).Opcode)
	assert.Equal(t, ipp.OpWrite, prog.At(1).Opcode)
}

func TestLoadXMLUnknownOpcode(t *testing.T) {
	src := `<program language="IPPcode19">
  <instruction order="1" opcode="NOPE"></instruction>
</program>`
	_, err := LoadXML(strings.NewReader(src))
	require.Error(t, err)
	ippErr, ok := err.(*ipp.Error)
	require.True(t, ok)
	assert.Equal(t, ipp.CodeLexical, ippErr.Code)
}

func TestLoadXMLMalformed(t *testing.T) {
	_, err := LoadXML(strings.NewReader("<program><instruction></program>"))
	require.Error(t, err)
	ippErr, ok := err.(*ipp.Error)
	require.True(t, ok)
	assert.Equal(t, ipp.CodeXML, ippErr.Code)
}

func TestLoadXMLDuplicateOrder(t *testing.T) {
	src := `<program language="IPPcode19">
  <instruction order="1" opcode="CREATEFRAME"></instruction>
  <instruction order="1" opcode="CREATEFRAME"></instruction>
</program>`
	_, err := LoadXML(strings.NewReader(src))
	require.Error(t, err)
	ippErr, ok := err.(*ipp.Error)
	require.True(t, ok)
	assert.Equal(t, ipp.CodeLexical, ippErr.Code)
}

func TestLoadTextBasic(t *testing.T) {
	src := `
.IPPcode19
# a comment
DEFVAR GF@x
MOVE GF@x int@42
WRITE GF@x
`
	prog, err := LoadText(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, 3, prog.Len())
	assert.Equal(t, ipp.OpMove, prog.At(1).Opcode)
}

func TestLoadTextMissingHeader(t *testing.T) {
	_, err := LoadText(strings.NewReader("DEFVAR GF@x\n"))
	require.Error(t, err)
}

func TestLineSourceExhaustion(t *testing.T) {
	src := NewLineSource(strings.NewReader("one\ntwo"))
	line, ok, err := src.ReadLine()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "one", line)

	_, ok, err = src.ReadLine()
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = src.ReadLine()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileSourceExhaustionIsError32(t *testing.T) {
	src := NewFileSource(strings.NewReader("one"))
	line, ok, err := src.ReadLine()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "one", line)

	_, ok, err = src.ReadLine()
	require.Error(t, err)
	assert.False(t, ok)
	ippErr, isIPPErr := err.(*ipp.Error)
	require.True(t, isIPPErr)
	assert.Equal(t, ipp.CodeLexical, ippErr.Code)
}
