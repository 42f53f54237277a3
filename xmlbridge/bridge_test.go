package xmlbridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseObjectForm(t *testing.T) {
	doc, err := Parse([]byte(`<?xml version="1.0"?>
<Document>
  <Party Ccy="USD">
    <Nm>Acme</Nm>
    <Tag>a</Tag>
    <Tag>b</Tag>
    <Empty/>
  </Party>
</Document>`))
	require.NoError(t, err)

	root := AsMap(doc["Document"])
	require.NotNil(t, root)
	party := AsMap(root["Party"])
	require.NotNil(t, party)

	assert.Equal(t, "USD", party["@_Ccy"])
	assert.Equal(t, "Acme", party["Nm"])
	assert.Equal(t, []any{"a", "b"}, party["Tag"])
	assert.Equal(t, "", party["Empty"])
}

func TestParseTextWithAttributes(t *testing.T) {
	doc, err := Parse([]byte(`<Amt Ccy="EUR">10.5</Amt>`))
	require.NoError(t, err)

	amt := AsMap(doc["Amt"])
	require.NotNil(t, amt)
	assert.Equal(t, "EUR", amt["@_Ccy"])
	assert.Equal(t, "10.5", amt[TextKey])
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte(`<a><b></a>`))
	require.Error(t, err)
}

func TestOccurrences(t *testing.T) {
	assert.Nil(t, Occurrences(nil))
	assert.Equal(t, []any{"x"}, Occurrences("x"))
	assert.Equal(t, []any{"x", "y"}, Occurrences([]any{"x", "y"}))

	m := map[string]any{"k": "v"}
	assert.Equal(t, []any{m}, Occurrences(m))
}

func TestElementKeys(t *testing.T) {
	obj := map[string]any{
		"@_attr": "1",
		TextKey:  "text",
		"Zeta":   "z",
		"Alpha":  "a",
	}
	assert.Equal(t, []string{"Alpha", "Zeta"}, ElementKeys(obj))
}

func TestEncodeDocument(t *testing.T) {
	root := NewNode("a").SetAttr("x", `1 "2"`).
		Add(NewNode("b").SetText("t & <")).
		Add(NewNode("c"))

	got := string(EncodeDocument(root))
	want := `<?xml version="1.0" encoding="UTF-8"?>
<a x="1 &quot;2&quot;">
  <b>t &amp; &lt;</b>
  <c/>
</a>
`
	assert.Equal(t, want, got)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	root := NewNode("Outer").
		SetAttr("id", "7").
		Add(NewNode("Inner").SetText("value")).
		Add(NewNode("Inner").SetText("other"))

	doc, err := Parse(EncodeDocument(root))
	require.NoError(t, err)

	outer := AsMap(doc["Outer"])
	require.NotNil(t, outer)
	assert.Equal(t, "7", outer["@_id"])
	assert.Equal(t, []any{"value", "other"}, outer["Inner"])
}
