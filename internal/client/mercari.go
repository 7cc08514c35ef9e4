package client

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"mercari/shopper/internal/config"
	"mercari/shopper/internal/domain"
	"mercari/shopper/internal/proxy"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

const searchPath = "/v2/entities:search"

var numericID = regexp.MustCompile(`^\d+$`)

// SearchClient runs a marketplace search for already-resolved parameters.
type SearchClient interface {
	Search(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error)
}

type mercariClient struct {
	rl            ratelimit.Limiter
	config        config.SearchConfig
	searchURL     string
	httpClient    *resty.Client
	breaker       *gobreaker.CircuitBreaker
	dpop          *dpopSigner
	proxySupplier proxy.ProxySupplier
}

func NewSearchClient(cfg config.SearchConfig, proxySupplier proxy.ProxySupplier) (SearchClient, error) {
	signer, err := newDPoPSigner()
	if err != nil {
		return nil, err
	}

	client := resty.New().
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(1*time.Second).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "*/*").
		SetHeader("X-Platform", "web")

	if proxySupplier != nil {
		if proxyURL := proxySupplier.Get(); proxyURL != "" {
			client.SetProxy(proxyURL)
			log.Infof("🔗 Using initial proxy: %s", proxyURL)
		}
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "mercari-search",
		MaxRequests: 1,
		Timeout:     time.Duration(cfg.BreakerTimeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warnf("🚦 Circuit breaker '%s' changed from %v to %v", name, from, to)
		},
		IsSuccessful: func(err error) bool {
			// A response we could not decode is not the endpoint being down.
			return err == nil || errors.Is(err, ErrMalformedResponse)
		},
	})

	return &mercariClient{
		rl:            ratelimit.New(cfg.MaxRequestsPerSecond),
		config:        cfg,
		searchURL:     strings.TrimRight(cfg.BaseURL, "/") + searchPath,
		httpClient:    client,
		breaker:       breaker,
		dpop:          signer,
		proxySupplier: proxySupplier,
	}, nil
}

func (c *mercariClient) Search(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error) {
	body := c.buildRequest(params)

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doSearch(ctx, body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: search temporarily disabled: %v", ErrTransport, err)
		}
		return nil, err
	}

	result := out.(*domain.SearchResult)
	log.Debugf("Search %q returned %d items (%d found)", params.Query, len(result.Items), result.TotalFound)
	return result, nil
}

func (c *mercariClient) doSearch(ctx context.Context, body searchRequest) (*domain.SearchResult, error) {
	c.rl.Take()

	resp, err := c.post(ctx, body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() == http.StatusForbidden {
		log.Warnf("🚫 Search rejected with %d", resp.StatusCode())
		if c.proxySupplier != nil {
			if newProxy := c.proxySupplier.Get(); newProxy != "" {
				log.Infof("🔄 Switching to new proxy: %s", newProxy)
				c.httpClient.SetProxy(newProxy)
			}

			resp, err = c.post(ctx, body)
			if err != nil {
				return nil, err
			}
		}
	}

	if resp.IsError() {
		return nil, fmt.Errorf("%w: search HTTP error: %d %s", ErrTransport, resp.StatusCode(), resp.Status())
	}

	return decodeSearchResponse([]byte(resp.String()))
}

func (c *mercariClient) post(ctx context.Context, body searchRequest) (*resty.Response, error) {
	proof, err := c.dpop.Sign(http.MethodPost, c.searchURL)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("DPoP", proof).
		SetBody(body).
		Post(c.searchURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: request cancelled: %v", ErrTransport, ctx.Err())
		}
		return nil, fmt.Errorf("%w: failed to reach search API: %v", ErrTransport, err)
	}
	return resp, nil
}

type searchCondition struct {
	Keyword          string        `json:"keyword"`
	ExcludeKeyword   string        `json:"excludeKeyword"`
	Sort             string        `json:"sort"`
	Order            string        `json:"order"`
	Status           []string      `json:"status"`
	SizeID           []int         `json:"sizeId"`
	CategoryID       []json.Number `json:"categoryId"`
	BrandID          []int         `json:"brandId"`
	SellerID         []string      `json:"sellerId"`
	PriceMin         int64         `json:"priceMin"`
	PriceMax         int64         `json:"priceMax"`
	ItemConditionID  []int         `json:"itemConditionId"`
	ShippingPayerID  []int         `json:"shippingPayerId"`
	ShippingFromArea []int         `json:"shippingFromArea"`
	ShippingMethod   []string      `json:"shippingMethod"`
	ColorID          []int         `json:"colorId"`
	HasCoupon        bool          `json:"hasCoupon"`
	Attributes       []string      `json:"attributes"`
	ItemTypes        []string      `json:"itemTypes"`
	SkuIDs           []string      `json:"skuIds"`
}

type searchRequest struct {
	UserID          string          `json:"userId"`
	PageSize        int             `json:"pageSize"`
	PageToken       string          `json:"pageToken"`
	SearchSessionID string          `json:"searchSessionId"`
	IndexRouting    string          `json:"indexRouting"`
	ThumbnailTypes  []string        `json:"thumbnailTypes"`
	SearchCondition searchCondition `json:"searchCondition"`
	DefaultDatasets []string        `json:"defaultDatasets"`
	ServiceFrom     string          `json:"serviceFrom"`
}

func (c *mercariClient) buildRequest(params domain.SearchParams) searchRequest {
	cond := searchCondition{
		Keyword:          params.Query,
		Sort:             string(domain.SortScore),
		Order:            string(domain.OrderDesc),
		Status:           []string{"STATUS_ON_SALE"},
		SizeID:           []int{},
		CategoryID:       []json.Number{},
		BrandID:          []int{},
		SellerID:         []string{},
		ItemConditionID:  []int{},
		ShippingPayerID:  []int{},
		ShippingFromArea: []int{},
		ShippingMethod:   []string{},
		ColorID:          []int{},
		Attributes:       []string{},
		ItemTypes:        []string{},
		SkuIDs:           []string{},
	}

	if params.Sort != "" {
		cond.Sort = string(params.Sort)
	}
	if params.Order != "" {
		cond.Order = string(params.Order)
	}
	if params.PriceMin != nil {
		cond.PriceMin = *params.PriceMin
	}
	if params.PriceMax != nil {
		cond.PriceMax = *params.PriceMax
	}

	for _, id := range params.CategoryIDs {
		if !numericID.MatchString(id) {
			log.Warnf("Category id %q is not numeric, the search API cannot filter on it", id)
			continue
		}
		cond.CategoryID = append(cond.CategoryID, json.Number(id))
	}
	for _, ic := range params.ItemConditionIDs {
		cond.ItemConditionID = append(cond.ItemConditionID, int(ic))
	}
	for _, sp := range params.ShippingPayerIDs {
		cond.ShippingPayerID = append(cond.ShippingPayerID, int(sp))
	}

	return searchRequest{
		PageSize:        c.config.PageSize,
		SearchSessionID: newSearchSessionID(),
		IndexRouting:    "INDEX_ROUTING_UNSPECIFIED",
		ThumbnailTypes:  []string{},
		SearchCondition: cond,
		DefaultDatasets: []string{"DATASET_TYPE_MERCARI", "DATASET_TYPE_BEYOND"},
		ServiceFrom:     "suruga",
	}
}

func newSearchSessionID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// flexInt decodes numbers the API sends either as JSON numbers or as numeric strings.
type flexInt int64

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			return nil
		}
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("expected integer, got %s", b)
	}
	*f = flexInt(n)
	return nil
}

type searchResponse struct {
	Meta struct {
		NextPageToken string  `json:"nextPageToken"`
		NumFound      flexInt `json:"numFound"`
	} `json:"meta"`
	Items []struct {
		ID              string  `json:"id"`
		Name            string  `json:"name"`
		Price           flexInt `json:"price"`
		ItemConditionID flexInt `json:"itemConditionId"`
	} `json:"items"`
}

func decodeSearchResponse(body []byte) (*domain.SearchResult, error) {
	var raw searchResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: search response: %v", ErrMalformedResponse, err)
	}

	result := &domain.SearchResult{
		TotalFound: int(raw.Meta.NumFound),
		Items:      make([]domain.SearchResultItem, 0, len(raw.Items)),
	}
	for _, item := range raw.Items {
		result.Items = append(result.Items, domain.SearchResultItem{
			ID:              item.ID,
			Name:            item.Name,
			Price:           int64(item.Price),
			ItemConditionID: domain.ItemCondition(item.ItemConditionID),
		})
	}

	return result, nil
}
