package xsd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDocumentPlain(t *testing.T) {
	doc := map[string]any{"Party": map[string]any{"Nm": "Acme"}}
	payload, hasHeader := extractDocument(doc)

	assert.False(t, hasHeader)
	assert.Equal(t, doc, payload)
}

func TestExtractDocumentDataPDUWithDocument(t *testing.T) {
	doc := map[string]any{
		"DataPDU": map[string]any{
			"Body": map[string]any{
				"AppHdr":   map[string]any{"From": "BANKJOAX"},
				"Document": map[string]any{"MsgId": "1"},
			},
		},
	}
	payload, hasHeader := extractDocument(doc)

	assert.True(t, hasHeader)
	require.Contains(t, payload, "Document")
	assert.Len(t, payload, 1)
}

func TestExtractDocumentDataPDUSingleChild(t *testing.T) {
	doc := map[string]any{
		"DataPDU": map[string]any{
			"Body": map[string]any{
				"AppHdr": map[string]any{"From": "BANKJOAX"},
				"Pacs":   map[string]any{"MsgId": "1"},
			},
		},
	}
	payload, hasHeader := extractDocument(doc)

	assert.True(t, hasHeader)
	require.Contains(t, payload, "Pacs")
	assert.Len(t, payload, 1)
}

func TestExtractDocumentDataPDUMultipleChildren(t *testing.T) {
	doc := map[string]any{
		"DataPDU": map[string]any{
			"Body": map[string]any{
				"AppHdr": map[string]any{"From": "BANKJOAX"},
				"First":  map[string]any{},
				"Second": map[string]any{},
			},
		},
	}
	payload, hasHeader := extractDocument(doc)

	// Several candidates: the body minus the application header.
	assert.True(t, hasHeader)
	assert.NotContains(t, payload, "AppHdr")
	assert.Contains(t, payload, "First")
	assert.Contains(t, payload, "Second")
}

func TestExtractDocumentEnvelope(t *testing.T) {
	doc := map[string]any{
		"Envelope": map[string]any{
			"Body": map[string]any{
				"Payload": map[string]any{"Id": "7"},
			},
		},
	}
	payload, hasHeader := extractDocument(doc)

	assert.True(t, hasHeader)
	require.Contains(t, payload, "Payload")
	assert.Len(t, payload, 1)
}

func TestExtractDocumentEnvelopeMultipleChildren(t *testing.T) {
	doc := map[string]any{
		"Envelope": map[string]any{
			"Body": map[string]any{
				"A": map[string]any{},
				"B": map[string]any{},
			},
		},
	}
	payload, hasHeader := extractDocument(doc)

	// An ambiguous body is not unwrapped.
	assert.False(t, hasHeader)
	assert.Equal(t, doc, payload)
}

func TestExtractDocumentMessage(t *testing.T) {
	doc := map[string]any{
		"Message": map[string]any{
			"MsgHeader": map[string]any{"Id": "H"},
			"Content":   map[string]any{"Id": "1"},
		},
	}
	payload, hasHeader := extractDocument(doc)

	assert.True(t, hasHeader)
	require.Contains(t, payload, "Content")
	assert.Len(t, payload, 1)
}

func TestExtractDocumentMessageAmbiguous(t *testing.T) {
	doc := map[string]any{
		"Message": map[string]any{
			"Header": map[string]any{},
			"A":      map[string]any{},
			"B":      map[string]any{},
		},
	}
	payload, hasHeader := extractDocument(doc)

	assert.False(t, hasHeader)
	assert.Equal(t, doc, payload)
}
