package guru

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/kamazuxa/tender/internal/models"
	"github.com/kamazuxa/tender/pkg/logger"
)

// DefaultBaseURL is the TenderGuru export API endpoint.
const DefaultBaseURL = "https://www.tenderguru.ru/api2.3"

// Client talks to the TenderGuru export API. Responses come in two shapes
// depending on the query mode: an object envelope with an Items list, or a
// bare array whose leading element carries only a Total counter. Both are
// decoded into explicit variant records and mapped to models.TenderInfo.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  logger.Logger
}

func NewClient(baseURL, apiKey string, log logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  log,
	}
}

// flexString tolerates providers that serialize the same field as a JSON
// string or a bare number.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

// exportRecord is the array-shaped export variant.
type exportRecord struct {
	TenderNumOuter  string           `json:"TenderNumOuter"`
	TenderName      string           `json:"TenderName"`
	Customer        string           `json:"Customer"`
	Region          string           `json:"Region"`
	Price           flexString       `json:"Price"`
	EndTime         string           `json:"EndTime"`
	TenderLink      string           `json:"TenderLink"`
	TenderLinkInner string           `json:"TenderLinkInner"`
	Info            string           `json:"Info"`
	Docs            *docsEnvelope    `json:"docsXML"`
	Total           *json.RawMessage `json:"Total"`
}

// itemsRecord is the Items-envelope variant returned by keyword queries.
type itemsRecord struct {
	Name       string     `json:"Name"`
	Customer   string     `json:"Customer"`
	Price      flexString `json:"Price"`
	DateEnd    string     `json:"DateEnd"`
	RegionName string     `json:"RegionName"`
	TenderLink string     `json:"TenderLink"`
}

type itemsEnvelope struct {
	Items []itemsRecord `json:"Items"`
}

type docsEnvelope struct {
	Document []docRecord `json:"document"`
}

type docRecord struct {
	Link string `json:"link"`
	Name string `json:"name"`
	Size string `json:"size"`
}

func (r exportRecord) toTenderInfo(regNumber string) *models.TenderInfo {
	info := &models.TenderInfo{
		RegNumber: r.TenderNumOuter,
		Name:      r.TenderName,
		Customer:  r.Customer,
		Price:     string(r.Price),
		Region:    r.Region,
		EndDate:   r.EndTime,
		URL:       r.TenderLink,
		Info:      r.Info,
	}
	if info.RegNumber == "" {
		info.RegNumber = regNumber
	}
	if r.Docs != nil {
		for _, d := range r.Docs.Document {
			if d.Link == "" {
				continue
			}
			info.Documents = append(info.Documents, models.DocumentLink{Name: d.Name, URL: d.Link})
		}
	}
	return info
}

func (r itemsRecord) toTenderInfo(regNumber string) *models.TenderInfo {
	return &models.TenderInfo{
		RegNumber: regNumber,
		Name:      r.Name,
		Customer:  r.Customer,
		Price:     string(r.Price),
		Region:    r.RegionName,
		EndDate:   r.DateEnd,
		URL:       r.TenderLink,
	}
}

// GetTender resolves a tender by its registry number.
func (c *Client) GetTender(ctx context.Context, regNumber string) (*models.TenderInfo, error) {
	if regNumber == "" {
		return nil, fmt.Errorf("empty registry number")
	}

	body, err := c.export(ctx, url.Values{"regNumber": {regNumber}})
	if err != nil {
		return nil, err
	}

	info, err := decodeTender(body, regNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to decode tender %s: %w", regNumber, err)
	}

	c.logger.Info("tender resolved",
		logger.String("regNumber", regNumber),
		logger.String("name", info.Name),
		logger.Int("documents", len(info.Documents)),
	)
	return info, nil
}

// decodeTender maps either export shape onto a TenderInfo.
func decodeTender(body []byte, regNumber string) (*models.TenderInfo, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty response")
	}

	if trimmed[0] == '{' {
		var env itemsEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, err
		}
		if len(env.Items) == 0 {
			return nil, fmt.Errorf("tender not found")
		}
		return env.Items[0].toTenderInfo(regNumber), nil
	}

	var records []exportRecord
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, err
	}
	for _, rec := range records {
		// Counter-only elements carry Total and nothing else.
		if rec.TenderNumOuter == "" && rec.TenderName == "" && rec.Total != nil {
			continue
		}
		return rec.toTenderInfo(regNumber), nil
	}
	return nil, fmt.Errorf("tender not found")
}

func (c *Client) export(ctx context.Context, params url.Values) ([]byte, error) {
	params.Set("dtype", "json")
	params.Set("api_code", c.apiKey)

	endpoint := fmt.Sprintf("%s/export?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build export request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("export request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("export request returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read export response: %w", err)
	}
	return body, nil
}
