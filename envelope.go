package xsd

import (
	"strings"

	"github.com/SaeedKokash/xsd-editor-app/xmlbridge"
)

// Transport envelope detection. Payloads frequently arrive wrapped in a
// messaging envelope (ISO 20022 DataPDU, SOAP Envelope, generic Message);
// the wrapper is stripped before schema validation and the report records
// that it happened.

// extractDocument unwraps a known envelope shape around the document payload.
// It returns the payload object and whether an envelope was detected. Objects
// without a recognized envelope come back unchanged.
func extractDocument(doc map[string]any) (map[string]any, bool) {
	if pdu := xmlbridge.AsMap(doc["DataPDU"]); pdu != nil {
		if body := xmlbridge.AsMap(pdu["Body"]); body != nil {
			return extractFromBody(body), true
		}
	}

	if envelope := xmlbridge.AsMap(doc["Envelope"]); envelope != nil {
		if body := xmlbridge.AsMap(envelope["Body"]); body != nil {
			if keys := xmlbridge.ElementKeys(body); len(keys) == 1 {
				return map[string]any{keys[0]: body[keys[0]]}, true
			}
		}
	}

	if message := xmlbridge.AsMap(doc["Message"]); message != nil {
		var keys []string
		for _, key := range xmlbridge.ElementKeys(message) {
			if !strings.Contains(key, "Header") {
				keys = append(keys, key)
			}
		}
		if len(keys) == 1 {
			return map[string]any{keys[0]: message[keys[0]]}, true
		}
	}

	return doc, false
}

// extractFromBody picks the document payload out of a DataPDU body: an
// explicit Document element wins, then a single non-header child, then the
// body itself minus the application header.
func extractFromBody(body map[string]any) map[string]any {
	if doc, ok := body["Document"]; ok {
		return map[string]any{"Document": doc}
	}

	var candidates []string
	for _, key := range xmlbridge.ElementKeys(body) {
		if key != "AppHdr" {
			candidates = append(candidates, key)
		}
	}
	if len(candidates) == 1 {
		return map[string]any{candidates[0]: body[candidates[0]]}
	}

	content := make(map[string]any, len(body))
	for key, value := range body {
		if key != "AppHdr" {
			content[key] = value
		}
	}
	return content
}
