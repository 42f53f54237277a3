package service

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
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
      <xs:element name="Ctry" type="xs:string" minOccurs="0"/>
    </xs:sequence>
  </xs:complexType>
  <xs:element name="Party" type="PartyType"/>
</xs:schema>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(DefaultConfig(), nil).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response) apiResponse {
	t.Helper()
	var out apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func uploadFile(t *testing.T, url, fileName, content string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("xsdFile", fileName)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	resp, err := http.Post(url+"/api/xsd/upload", writer.FormDataContentType(), &buf)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHandleUpload(t *testing.T) {
	srv := newTestServer(t)

	resp := uploadFile(t, srv.URL, "party.xsd", sampleSchemaDoc)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeResponse(t, resp)
	assert.True(t, out.Success)

	data, ok := out.Data.(map[string]any)
	require.True(t, ok)
	require.Contains(t, data, "schema")
	require.Contains(t, data, "metadata")

	metadata := data["metadata"].(map[string]any)
	assert.Equal(t, "party.xsd", metadata["fileName"])
}

func TestHandleUploadRejectsExtension(t *testing.T) {
	srv := newTestServer(t)

	resp := uploadFile(t, srv.URL, "party.txt", sampleSchemaDoc)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	out := decodeResponse(t, resp)
	assert.False(t, out.Success)
	assert.Equal(t, "File upload only supports XML/XSD files", out.Message)
}

func TestHandleUploadRejectsMalformed(t *testing.T) {
	srv := newTestServer(t)

	resp := uploadFile(t, srv.URL, "broken.xsd", `<xs:schema><xs:element`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	out := decodeResponse(t, resp)
	assert.False(t, out.Success)
	assert.Equal(t, "Error parsing XSD file", out.Message)
}

func TestHandleUploadMissingFile(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.Close())

	resp, err := http.Post(srv.URL+"/api/xsd/upload", writer.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func sampleSchema(t *testing.T) *xsd.Schema {
	t.Helper()
	schema, err := xsd.ParseXSD([]byte(sampleSchemaDoc))
	require.NoError(t, err)
	return schema
}

func TestHandleGenerate(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/xsd/generate", map[string]any{
		"schema":   sampleSchema(t),
		"fileName": "party.xsd",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/xml", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `filename="party.xsd"`)

	var body bytes.Buffer
	_, err := body.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, body.String(), `<xs:complexType name="PartyType">`)
}

func TestHandleGenerateNoSchema(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/xsd/generate", map[string]any{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	out := decodeResponse(t, resp)
	assert.Equal(t, "No schema data provided", out.Message)
}

func TestHandleValidateSchema(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/xsd/validate", map[string]any{
		"schema": sampleSchema(t),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeResponse(t, resp)
	require.True(t, out.Success)
	data := out.Data.(map[string]any)
	assert.Equal(t, true, data["valid"])
}

func TestHandleUpdateElement(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/xsd/update-element", map[string]any{
		"schema":      sampleSchema(t),
		"elementPath": "PartyType.0",
		"elementData": map[string]any{"type": "Max140Text"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeResponse(t, resp)
	require.True(t, out.Success)
	data := out.Data.(map[string]any)
	assert.Equal(t, "Element updated successfully", data["message"])

	encoded, err := json.Marshal(data["schema"])
	require.NoError(t, err)
	var updated xsd.Schema
	require.NoError(t, json.Unmarshal(encoded, &updated))
	assert.Equal(t, "Max140Text", updated.ComplexType("PartyType").Elements()[0].Type)
}

func TestHandleUpdateElementBadPath(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/xsd/update-element", map[string]any{
		"schema":      sampleSchema(t),
		"elementPath": "NoSuchType.0",
		"elementData": map[string]any{"type": "X"},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleValidateXML(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/xsd/validate-xml", map[string]any{
		"schema":     sampleSchema(t),
		"xmlContent": `<Party><Nm>Acme</Nm></Party>`,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeResponse(t, resp)
	require.True(t, out.Success)
	data := out.Data.(map[string]any)
	assert.Equal(t, true, data["isValid"])
	require.Contains(t, data, "summary")
}

func TestHandleValidateXMLInvalidInstance(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/xsd/validate-xml", map[string]any{
		"schema":     sampleSchema(t),
		"xmlContent": `<Party><Ctry>JO</Ctry></Party>`,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeResponse(t, resp)
	data := out.Data.(map[string]any)
	assert.Equal(t, false, data["isValid"])
	assert.NotEmpty(t, data["errors"])
}

func TestHandleValidateXMLMalformed(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/xsd/validate-xml", map[string]any{
		"schema":     sampleSchema(t),
		"xmlContent": `<Party><Nm>`,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	out := decodeResponse(t, resp)
	assert.False(t, out.Success)
	assert.Equal(t, "Invalid XML format", out.Message)
	assert.NotEmpty(t, out.Errors)
}

func TestHandleValidateXMLMissingContent(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/xsd/validate-xml", map[string]any{
		"schema": sampleSchema(t),
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
