package services

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDeposit() ArticleDeposit {
	start, end := 101, 112
	return ArticleDeposit{
		BatchID:      "batch-123",
		JournalTitle: "International Journal of Computer Science",
		ISSN:         "1234-5678",
		Year:         2026,
		Volume:       12,
		Issue:        3,
		ArticleTitle: "A Study of Things",
		Authors: []DepositAuthor{
			{GivenName: "Ada", Surname: "Lovelace"},
			{GivenName: "Alan", Surname: "Turing"},
		},
		DOI:         "10.5555/ijcs.2026.120307",
		ResourceURL: "https://journal.example.org/articles/IJCS-2026-0042",
		PageStart:   &start,
		PageEnd:     &end,
	}
}

func TestBuildDepositXML(t *testing.T) {
	client := &CrossrefClient{registrant: "Example Press"}

	out, err := client.BuildDepositXML(testDeposit())
	require.NoError(t, err)
	doc := string(out)

	assert.Contains(t, doc, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, doc, `version="4.4.2"`)
	assert.Contains(t, doc, "<doi_batch_id>batch-123</doi_batch_id>")
	assert.Contains(t, doc, "<registrant>Example Press</registrant>")
	assert.Contains(t, doc, "<full_title>International Journal of Computer Science</full_title>")
	assert.Contains(t, doc, "<issn>1234-5678</issn>")
	assert.Contains(t, doc, "<volume>12</volume>")
	assert.Contains(t, doc, "<issue>3</issue>")
	assert.Contains(t, doc, "<doi>10.5555/ijcs.2026.120307</doi>")
	assert.Contains(t, doc, "<resource>https://journal.example.org/articles/IJCS-2026-0042</resource>")
	assert.Contains(t, doc, `sequence="first"`)
	assert.Contains(t, doc, `sequence="additional"`)
	assert.Contains(t, doc, "<surname>Lovelace</surname>")
	assert.Contains(t, doc, "<first_page>101</first_page>")
	assert.Contains(t, doc, "<last_page>112</last_page>")
}

func TestBuildDepositXMLOmitsEmptySections(t *testing.T) {
	client := &CrossrefClient{}

	deposit := testDeposit()
	deposit.ISSN = ""
	deposit.Authors = nil
	deposit.PageStart = nil
	deposit.PageEnd = nil

	out, err := client.BuildDepositXML(deposit)
	require.NoError(t, err)
	doc := string(out)

	assert.NotContains(t, doc, "<issn>")
	assert.NotContains(t, doc, "<contributors>")
	assert.NotContains(t, doc, "<pages>")
}

func TestDeposit(t *testing.T) {
	var gotOperation, gotLogin, gotPasswd, gotFilename string
	var gotPayload []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotOperation = r.FormValue("operation")
		gotLogin = r.FormValue("login_id")
		gotPasswd = r.FormValue("login_passwd")

		file, header, err := r.FormFile("fname")
		require.NoError(t, err)
		defer file.Close()
		gotFilename = header.Filename
		gotPayload, _ = io.ReadAll(file)

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := &CrossrefClient{
		depositURL: srv.URL,
		login:      "user",
		password:   "secret",
		client:     srv.Client(),
	}

	require.NoError(t, client.Deposit(testDeposit()))

	assert.Equal(t, "doMDUpload", gotOperation)
	assert.Equal(t, "user", gotLogin)
	assert.Equal(t, "secret", gotPasswd)
	assert.Equal(t, "batch-123.xml", gotFilename)
	assert.Contains(t, string(gotPayload), "<doi>10.5555/ijcs.2026.120307</doi>")
}

func TestDepositRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := &CrossrefClient{
		depositURL: srv.URL,
		login:      "user",
		password:   "wrong",
		client:     srv.Client(),
	}

	err := client.Deposit(testDeposit())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crossref deposit rejected")
}

func TestDepositUnconfigured(t *testing.T) {
	client := &CrossrefClient{client: http.DefaultClient}
	err := client.Deposit(testDeposit())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestCheckStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "user", r.URL.Query().Get("usr"))
		assert.Equal(t, "secret", r.URL.Query().Get("pwd"))
		assert.Equal(t, "batch-123", r.URL.Query().Get("doi_batch_id"))
		assert.Equal(t, "result", r.URL.Query().Get("type"))
		io.WriteString(w, `<doi_batch_diagnostic status="completed"/>`)
	}))
	defer srv.Close()

	client := &CrossrefClient{
		statusURL: srv.URL,
		login:     "user",
		password:  "secret",
		client:    srv.Client(),
	}

	out, err := client.CheckStatus("batch-123")
	require.NoError(t, err)
	assert.Contains(t, out, `status="completed"`)
}
