package ebay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"ebayinsights-backend/lib/restyutil"
	"ebayinsights-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("ebayinsights.lib.scrapers.ebay")

// ErrRequestFailed is wrapped by every error FindCompletedItems returns.
var ErrRequestFailed = errors.New("ebay request failed")

const (
	DefaultBaseUrl  = "https://svcs.ebay.com"
	DefaultGlobalID = "EBAY-GB"
	findingPath     = "/services/search/FindingService/v1"
	serviceVersion  = "1.13.0"
	// the Finding API caps entriesPerPage at 100
	pageSize = 100
)

type Config struct {
	AppID    string `json:"app_id"`
	BaseUrl  string `json:"base_url"`
	GlobalID string `json:"global_id"`
	// when set, every request/response pair is written into this directory
	DebugDir string `json:"debug_dir"`
}

type Client struct {
	http     *resty.Client
	appID    string
	globalID string
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.AppID == "" {
		return nil, fmt.Errorf("ebay: app id is required")
	}
	if cfg.BaseUrl == "" {
		cfg.BaseUrl = DefaultBaseUrl
	}
	if cfg.GlobalID == "" {
		cfg.GlobalID = DefaultGlobalID
	}

	client := resty.New()
	client.SetBaseURL(cfg.BaseUrl)
	client.SetTimeout(time.Second * 30)
	client.SetHeader("accept", "application/json")

	var output restyutil.InstrumentOutput
	if cfg.DebugDir != "" {
		fsOutput, err := restyutil.NewFilesystemOutput(cfg.DebugDir)
		if err != nil {
			return nil, err
		}
		output = fsOutput
	}
	restyutil.InstrumentClient(client, telemetry.Tracer("ebayinsights.lib.scrapers.ebay/http"), output)

	return &Client{
		http:     client,
		appID:    cfg.AppID,
		globalID: cfg.GlobalID,
	}, nil
}

func requestFailed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrRequestFailed, fmt.Sprintf(format, args...))
}

func (c *Client) fetchPage(ctx context.Context, searchTerm string, page, entries int) (apiResponse, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"OPERATION-NAME":                 "findCompletedItems",
			"SERVICE-VERSION":                serviceVersion,
			"SECURITY-APPNAME":               c.appID,
			"GLOBAL-ID":                      c.globalID,
			"RESPONSE-DATA-FORMAT":           "JSON",
			"REST-PAYLOAD":                   "",
			"keywords":                       searchTerm,
			"itemFilter(0).name":             "SoldItemsOnly",
			"itemFilter(0).value":            "true",
			"sortOrder":                      "EndTimeSoonest",
			"paginationInput.entriesPerPage": strconv.Itoa(entries),
			"paginationInput.pageNumber":     strconv.Itoa(page),
		}).
		Get(findingPath)
	if err != nil {
		return apiResponse{}, requestFailed("page %d: %s", page, err.Error())
	}
	if res.IsError() {
		return apiResponse{}, requestFailed("page %d: status %d", page, res.StatusCode())
	}

	// the content type is not always application/json, so resty's automatic
	// unmarshalling cannot be relied on
	var envelope findCompletedItemsEnvelope
	err = json.Unmarshal(res.Body(), &envelope)
	if err != nil {
		return apiResponse{}, requestFailed("page %d: decode response: %s", page, err.Error())
	}

	response, ok := first(envelope.Response)
	if !ok {
		return apiResponse{}, requestFailed("page %d: empty response", page)
	}
	ack := firstString(response.Ack)
	if ack != "Success" && ack != "Warning" {
		message := "unknown error"
		if errMsg, ok := first(response.ErrorMessage); ok {
			if detail, ok := first(errMsg.Error); ok && len(detail.Message) > 0 {
				message = firstString(detail.Message)
			}
		}
		return apiResponse{}, requestFailed("page %d: ack %q: %s", page, ack, message)
	}
	return response, nil
}

// FindCompletedItems fetches up to maxResults sold listings for the search
// term. The result is all or nothing, an error on any page discards every
// page fetched before it.
func (c *Client) FindCompletedItems(ctx context.Context, searchTerm string, maxResults int) ([]RawItem, error) {
	ctx, span := tracer.Start(ctx, "FindCompletedItems")
	defer span.End()

	span.SetAttributes(
		attribute.String("search_term", searchTerm),
		attribute.Int("max_results", maxResults),
	)

	if maxResults <= 0 {
		return nil, nil
	}

	// entries per page must stay constant across pages for pageNumber to
	// address the right offset
	entries := min(pageSize, maxResults)

	var items []RawItem
	for page := 1; len(items) < maxResults; page++ {
		response, err := c.fetchPage(ctx, searchTerm, page, entries)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to fetch page")
			return nil, err
		}

		var pageItems []apiItem
		if result, ok := first(response.SearchResult); ok {
			pageItems = result.Item
		}
		for _, item := range pageItems {
			items = append(items, item.toRawItem())
		}

		totalPages := 1
		if pagination, ok := first(response.PaginationOutput); ok {
			parsed, err := strconv.Atoi(firstString(pagination.TotalPages))
			if err == nil {
				totalPages = parsed
			}
		}
		if len(pageItems) == 0 || page >= totalPages {
			break
		}
	}

	if len(items) > maxResults {
		items = items[:maxResults]
	}
	span.SetAttributes(attribute.Int("fetched", len(items)))
	return items, nil
}
