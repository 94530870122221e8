package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Skotchmaster/shopfront/internal/models"
	"github.com/elastic/go-elasticsearch/v9"
)

var searchFields = []string{"title^2", "description", "category", "brand"}

// ProductIndex keeps product documents in one index, keyed by product id.
type ProductIndex struct {
	Client *elasticsearch.Client
	Name   string
}

func NewProductIndex(client *elasticsearch.Client, name string) *ProductIndex {
	return &ProductIndex{Client: client, Name: name}
}

func (x *ProductIndex) IndexProduct(ctx context.Context, p *models.Product) error {
	body, err := json.Marshal(p)
	if err != nil {
		return err
	}
	res, err := x.Client.Index(x.Name, bytes.NewReader(body),
		x.Client.Index.WithContext(ctx),
		x.Client.Index.WithDocumentID(p.ID.String()),
	)
	if err != nil {
		return fmt.Errorf("index product: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index product", res.Status(), res.Body)
	}
	return nil
}

func (x *ProductIndex) DeleteProduct(ctx context.Context, id string) error {
	res, err := x.Client.Delete(x.Name, id, x.Client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return responseError("delete product", res.Status(), res.Body)
	}
	return nil
}

func (x *ProductIndex) Search(ctx context.Context, keyword string, from, size int) ([]models.Product, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     keyword,
				"fields":    searchFields,
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, err
	}

	res, err := x.Client.Search(
		x.Client.Search.WithContext(ctx),
		x.Client.Search.WithIndex(x.Name),
		x.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError("search products", res.Status(), res.Body)
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}

	products := make([]models.Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		products[i] = hit.Source
	}
	return products, nil
}

func responseError(op, status string, body io.Reader) error {
	b, _ := io.ReadAll(io.LimitReader(body, 512))
	return fmt.Errorf("%s: %s: %s", op, status, bytes.TrimSpace(b))
}
