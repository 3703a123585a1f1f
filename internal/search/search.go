package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"

	"github.com/Skotchmaster/storefront/internal/models"
)

type Config struct {
	URL      string
	User     string
	Password string
	Index    string
	// Transport overrides the HTTP transport, used by tests.
	Transport http.RoundTripper
}

type ProductIndex struct {
	es    *elasticsearch.Client
	index string
}

type productDoc struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	SKU           string  `json:"sku,omitempty"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stockQuantity"`
	CategoryID    uint    `json:"categoryId"`
	CategoryName  string  `json:"categoryName,omitempty"`
	IsActive      bool    `json:"isActive"`
}

const indexMapping = `{
  "mappings": {
    "properties": {
      "id":            {"type": "long"},
      "name":          {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
      "description":   {"type": "text"},
      "sku":           {"type": "keyword"},
      "price":         {"type": "scaled_float", "scaling_factor": 100},
      "stockQuantity": {"type": "integer"},
      "categoryId":    {"type": "long"},
      "categoryName":  {"type": "keyword"},
      "isActive":      {"type": "boolean"}
    }
  }
}`

func New(cfg Config) (*ProductIndex, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("elasticsearch url is empty")
	}
	if cfg.Index == "" {
		cfg.Index = "products"
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	return &ProductIndex{es: client, index: cfg.Index}, nil
}

// EnsureIndex creates the product index with its mapping when it is missing.
func (p *ProductIndex) EnsureIndex(ctx context.Context) error {
	res, err := p.es.Indices.Exists([]string{p.index}, p.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = p.es.Indices.Create(p.index,
		p.es.Indices.Create.WithContext(ctx),
		p.es.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer res.Body.Close()
	return responseError("create index", res)
}

func (p *ProductIndex) IndexProduct(ctx context.Context, prod models.Product) error {
	doc := productDoc{
		ID:            prod.ID,
		Name:          prod.Name,
		Price:         prod.Price.InexactFloat64(),
		StockQuantity: prod.StockQuantity,
		CategoryID:    prod.CategoryID,
		IsActive:      prod.IsActive,
	}
	if prod.Description != nil {
		doc.Description = *prod.Description
	}
	if prod.SKU != nil {
		doc.SKU = *prod.SKU
	}
	if prod.Category != nil {
		doc.CategoryName = prod.Category.Name
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode product: %w", err)
	}

	res, err := p.es.Index(p.index, bytes.NewReader(body),
		p.es.Index.WithContext(ctx),
		p.es.Index.WithDocumentID(docID(prod.ID)),
	)
	if err != nil {
		return fmt.Errorf("index product %d: %w", prod.ID, err)
	}
	defer res.Body.Close()
	return responseError("index product", res)
}

func (p *ProductIndex) DeleteProduct(ctx context.Context, id uint) error {
	res, err := p.es.Delete(p.index, docID(id), p.es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	return responseError("delete product", res)
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID string `json:"_id"`
		} `json:"hits"`
	} `json:"hits"`
}

// SearchProducts returns the total hit count and the ids of the requested
// page in relevance order.
func (p *ProductIndex) SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []uint, error) {
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     q,
						"fields":    []string{"name^2", "description"},
						"fuzziness": "AUTO",
					},
				},
				"filter": []any{
					map[string]any{"term": map[string]any{"isActive": true}},
				},
			},
		},
		"_source": false,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return 0, nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := p.es.Search(
		p.es.Search.WithContext(ctx),
		p.es.Search.WithIndex(p.index),
		p.es.Search.WithBody(&buf),
		p.es.Search.WithFrom(offset),
		p.es.Search.WithSize(limit),
		p.es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search products: %w", err)
	}
	defer res.Body.Close()
	if err := responseError("search products", res); err != nil {
		return 0, nil, err
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return 0, nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]uint, 0, len(sr.Hits.Hits))
	for _, h := range sr.Hits.Hits {
		id, err := strconv.ParseUint(h.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return sr.Hits.Total.Value, ids, nil
}

func docID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func responseError(op string, res *esapi.Response) error {
	if !res.IsError() {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
	return fmt.Errorf("%s: elasticsearch %s: %s", op, res.Status(), bytes.TrimSpace(body))
}
