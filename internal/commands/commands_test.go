package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xsd "github.com/SaeedKokash/xsd-editor-app"
)

const sampleSchemaDoc = `<?xml version="1.0" encoding="UTF-8"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:complexType name="PartyType">
    <xs:sequence>
      <xs:element name="Nm" type="xs:string"/>
    </xs:sequence>
  </xs:complexType>
  <xs:element name="Party" type="PartyType"/>
</xs:schema>`

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseCommand(t *testing.T) {
	schemaPath := writeTempFile(t, "party.xsd", sampleSchemaDoc)

	cmd := ParseCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{schemaPath})
	require.NoError(t, cmd.Execute())

	var schema xsd.Schema
	require.NoError(t, json.Unmarshal(out.Bytes(), &schema))
	assert.NotNil(t, schema.Element("Party"))
	assert.NotNil(t, schema.ComplexType("PartyType"))
}

func TestParseCommandMissingFile(t *testing.T) {
	cmd := ParseCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "missing.xsd")})
	require.Error(t, cmd.Execute())
}

func TestParseThenGeneratePipeline(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeTempFile(t, "party.xsd", sampleSchemaDoc)
	modelPath := filepath.Join(dir, "model.json")
	outPath := filepath.Join(dir, "out.xsd")

	parse := ParseCmd()
	parse.SetOut(&bytes.Buffer{})
	parse.SetArgs([]string{schemaPath, "--output", modelPath})
	require.NoError(t, parse.Execute())

	generate := GenerateCmd()
	generate.SetOut(&bytes.Buffer{})
	generate.SetArgs([]string{modelPath, "--output", outPath})
	require.NoError(t, generate.Execute())

	regenerated, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(regenerated), `<xs:complexType name="PartyType">`)

	reparsed, err := xsd.ParseXSD(regenerated)
	require.NoError(t, err)
	assert.NotNil(t, reparsed.Element("Party"))
}

func TestValidateCommand(t *testing.T) {
	schemaPath := writeTempFile(t, "party.xsd", sampleSchemaDoc)

	valid := ValidateCmd()
	var out bytes.Buffer
	valid.SetOut(&out)
	valid.SetErr(&bytes.Buffer{})
	valid.SetArgs([]string{
		writeTempFile(t, "ok.xml", `<Party><Nm>Acme</Nm></Party>`),
		"--schema", schemaPath,
	})
	require.NoError(t, valid.Execute())
	assert.Contains(t, out.String(), "valid")

	invalid := ValidateCmd()
	invalid.SetOut(&bytes.Buffer{})
	invalid.SetErr(&bytes.Buffer{})
	invalid.SetArgs([]string{
		writeTempFile(t, "bad.xml", `<Party></Party>`),
		"--schema", schemaPath,
	})
	require.Error(t, invalid.Execute())
}
