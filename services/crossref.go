package services

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	defaultCrossrefDepositURL = "https://doi.crossref.org/servlet/deposit"
	defaultCrossrefStatusURL  = "https://doi.crossref.org/servlet/submissionDownload"
)

// CrossrefClient submits DOI deposits to Crossref and checks their status.
type CrossrefClient struct {
	depositURL string
	statusURL  string
	login      string
	password   string
	registrant string
	client     *http.Client
}

// NewCrossrefClient constructs a CrossrefClient from CROSSREF_* env vars.
func NewCrossrefClient(client *http.Client) *CrossrefClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	depositURL := os.Getenv("CROSSREF_DEPOSIT_URL")
	if depositURL == "" {
		depositURL = defaultCrossrefDepositURL
	}
	statusURL := os.Getenv("CROSSREF_STATUS_URL")
	if statusURL == "" {
		statusURL = defaultCrossrefStatusURL
	}

	return &CrossrefClient{
		depositURL: depositURL,
		statusURL:  statusURL,
		login:      os.Getenv("CROSSREF_LOGIN"),
		password:   os.Getenv("CROSSREF_PASSWORD"),
		registrant: os.Getenv("CROSSREF_REGISTRANT"),
		client:     client,
	}
}

// Configured reports whether deposit credentials are present.
func (c *CrossrefClient) Configured() bool {
	return c.login != "" && c.password != ""
}

// ArticleDeposit carries the metadata for one journal article deposit.
type ArticleDeposit struct {
	BatchID      string
	JournalTitle string
	ISSN         string
	Year         int
	Volume       int
	Issue        int
	ArticleTitle string
	Authors      []DepositAuthor
	DOI          string
	ResourceURL  string
	PageStart    *int
	PageEnd      *int
}

// DepositAuthor is one contributor in the deposit.
type DepositAuthor struct {
	GivenName string
	Surname   string
}

// Crossref deposit XML structures (schema 4.4.2 subset).
type crossrefDOIBatch struct {
	XMLName xml.Name     `xml:"doi_batch"`
	Version string       `xml:"version,attr"`
	Xmlns   string       `xml:"xmlns,attr"`
	Head    crossrefHead `xml:"head"`
	Body    crossrefBody `xml:"body"`
}

type crossrefHead struct {
	DOIBatchID string            `xml:"doi_batch_id"`
	Timestamp  int64             `xml:"timestamp"`
	Depositor  crossrefDepositor `xml:"depositor"`
	Registrant string            `xml:"registrant"`
}

type crossrefDepositor struct {
	Name  string `xml:"depositor_name"`
	Email string `xml:"email_address"`
}

type crossrefBody struct {
	Journal crossrefJournal `xml:"journal"`
}

type crossrefJournal struct {
	Metadata crossrefJournalMetadata `xml:"journal_metadata"`
	Issue    crossrefJournalIssue    `xml:"journal_issue"`
	Article  crossrefJournalArticle  `xml:"journal_article"`
}

type crossrefJournalMetadata struct {
	FullTitle string  `xml:"full_title"`
	ISSN      *string `xml:"issn,omitempty"`
}

type crossrefJournalIssue struct {
	PublicationDate crossrefPublicationDate `xml:"publication_date"`
	Volume          crossrefVolume          `xml:"journal_volume"`
	Issue           int                     `xml:"issue"`
}

type crossrefVolume struct {
	Volume int `xml:"volume"`
}

type crossrefPublicationDate struct {
	Year int `xml:"year"`
}

type crossrefJournalArticle struct {
	PublicationType string                  `xml:"publication_type,attr"`
	Titles          crossrefTitles          `xml:"titles"`
	Contributors    *crossrefContributors   `xml:"contributors,omitempty"`
	PublicationDate crossrefPublicationDate `xml:"publication_date"`
	Pages           *crossrefPages          `xml:"pages,omitempty"`
	DOIData         crossrefDOIData         `xml:"doi_data"`
}

type crossrefTitles struct {
	Title string `xml:"title"`
}

type crossrefContributors struct {
	PersonNames []crossrefPersonName `xml:"person_name"`
}

type crossrefPersonName struct {
	Sequence        string `xml:"sequence,attr"`
	ContributorRole string `xml:"contributor_role,attr"`
	GivenName       string `xml:"given_name"`
	Surname         string `xml:"surname"`
}

type crossrefPages struct {
	FirstPage int  `xml:"first_page"`
	LastPage  *int `xml:"last_page,omitempty"`
}

type crossrefDOIData struct {
	DOI      string `xml:"doi"`
	Resource string `xml:"resource"`
}

// BuildDepositXML renders the fixed-format deposit document for one article.
func (c *CrossrefClient) BuildDepositXML(deposit ArticleDeposit) ([]byte, error) {
	depositorName := os.Getenv("CROSSREF_DEPOSITOR_NAME")
	if depositorName == "" {
		depositorName = "Journal Manuscript System"
	}

	batch := crossrefDOIBatch{
		Version: "4.4.2",
		Xmlns:   "http://www.crossref.org/schema/4.4.2",
		Head: crossrefHead{
			DOIBatchID: deposit.BatchID,
			Timestamp:  time.Now().UnixNano() / int64(time.Millisecond),
			Depositor: crossrefDepositor{
				Name:  depositorName,
				Email: os.Getenv("CROSSREF_DEPOSITOR_EMAIL"),
			},
			Registrant: c.registrant,
		},
		Body: crossrefBody{
			Journal: crossrefJournal{
				Metadata: crossrefJournalMetadata{
					FullTitle: deposit.JournalTitle,
				},
				Issue: crossrefJournalIssue{
					PublicationDate: crossrefPublicationDate{Year: deposit.Year},
					Volume:          crossrefVolume{Volume: deposit.Volume},
					Issue:           deposit.Issue,
				},
				Article: crossrefJournalArticle{
					PublicationType: "full_text",
					Titles:          crossrefTitles{Title: deposit.ArticleTitle},
					PublicationDate: crossrefPublicationDate{Year: deposit.Year},
					DOIData: crossrefDOIData{
						DOI:      deposit.DOI,
						Resource: deposit.ResourceURL,
					},
				},
			},
		},
	}

	if deposit.ISSN != "" {
		issn := deposit.ISSN
		batch.Body.Journal.Metadata.ISSN = &issn
	}
	if len(deposit.Authors) > 0 {
		contributors := &crossrefContributors{}
		for i, author := range deposit.Authors {
			sequence := "additional"
			if i == 0 {
				sequence = "first"
			}
			contributors.PersonNames = append(contributors.PersonNames, crossrefPersonName{
				Sequence:        sequence,
				ContributorRole: "author",
				GivenName:       author.GivenName,
				Surname:         author.Surname,
			})
		}
		batch.Body.Journal.Article.Contributors = contributors
	}
	if deposit.PageStart != nil {
		batch.Body.Journal.Article.Pages = &crossrefPages{
			FirstPage: *deposit.PageStart,
			LastPage:  deposit.PageEnd,
		}
	}

	out, err := xml.MarshalIndent(batch, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// Deposit uploads the deposit XML as a multipart POST. Fire and forget: the
// caller gets an error only for transport or non-2xx responses; final
// registration status is asynchronous on Crossref's side.
func (c *CrossrefClient) Deposit(deposit ArticleDeposit) error {
	if !c.Configured() {
		return fmt.Errorf("crossref not configured (CROSSREF_LOGIN/CROSSREF_PASSWORD)")
	}

	payload, err := c.BuildDepositXML(deposit)
	if err != nil {
		return err
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	_ = writer.WriteField("operation", "doMDUpload")
	_ = writer.WriteField("login_id", c.login)
	_ = writer.WriteField("login_passwd", c.password)

	part, err := writer.CreateFormFile("fname", deposit.BatchID+".xml")
	if err != nil {
		return err
	}
	if _, err := part.Write(payload); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, c.depositURL, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("crossref deposit rejected: %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}
	return nil
}

// CheckStatus queries the submission result for a deposit batch and returns
// the raw result document.
func (c *CrossrefClient) CheckStatus(batchID string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("crossref not configured (CROSSREF_LOGIN/CROSSREF_PASSWORD)")
	}

	query := url.Values{}
	query.Set("usr", c.login)
	query.Set("pwd", c.password)
	query.Set("doi_batch_id", batchID)
	query.Set("type", "result")

	req, err := http.NewRequest(http.MethodGet, c.statusURL+"?"+query.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("crossref status check failed: %s", resp.Status)
	}

	out, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	return string(out), nil
}
