// internal/store/indexer.go
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"data-workers/internal/common/logger"
	"data-workers/internal/dataset"
	"data-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
)

// IndexResult reports one bulk request.
type IndexResult struct {
	Index   string `json:"index"`
	Indexed int    `json:"indexed"`
	Failed  int    `json:"failed"`
}

// RecordIndexer writes cleaned rows to <prefix>-<kind>s with the esapi Bulk
// endpoint. Row ids become document ids so re-exports overwrite.
type RecordIndexer struct {
	client *elasticsearch.Client
	prefix string
	logger logger.Logger
}

func NewRecordIndexer(client *elasticsearch.Client, prefix string, log logger.Logger) *RecordIndexer {
	if prefix == "" {
		prefix = "cleaned"
	}
	return &RecordIndexer{
		client: client,
		prefix: prefix,
		logger: log.WithFields(map[string]interface{}{"store": "indexer"}),
	}
}

func (i *RecordIndexer) IndexName(kind models.EntityKind) string {
	return strings.ToLower(i.prefix + "-" + string(kind) + "s")
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		Status int `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error,omitempty"`
	} `json:"items"`
}

// Index sends every row of ds in one bulk request.
func (i *RecordIndexer) Index(ctx context.Context, ds *models.Dataset) (*IndexResult, error) {
	index := i.IndexName(ds.Kind)
	result := &IndexResult{Index: index}
	if len(ds.Rows) == 0 {
		return result, nil
	}

	idField := dataset.IDField(ds.Kind)
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for n, row := range ds.Rows {
		docID := dataset.ToText(row[idField])
		if docID == "" {
			docID = fmt.Sprintf("%s-%d", ds.ID, n)
		}
		meta := map[string]interface{}{"index": map[string]interface{}{"_id": docID}}
		doc := row.Clone()
		doc["datasetId"] = ds.ID
		doc["datasetVersion"] = ds.Version
		if err := enc.Encode(meta); err != nil {
			return nil, err
		}
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encode row %d: %w", n, err)
		}
	}

	res, err := i.client.Bulk(
		bytes.NewReader(buf.Bytes()),
		i.client.Bulk.WithContext(ctx),
		i.client.Bulk.WithIndex(index),
	)
	if err != nil {
		return nil, fmt.Errorf("bulk index %s: %w", index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("bulk index %s: %s", index, res.Status())
	}

	var br bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&br); err != nil {
		return nil, fmt.Errorf("decode bulk response: %w", err)
	}
	for _, item := range br.Items {
		for _, op := range item {
			if op.Error != nil || op.Status > 299 {
				result.Failed++
				if op.Error != nil {
					i.logger.Warn("document rejected", map[string]interface{}{
						"index":  index,
						"type":   op.Error.Type,
						"reason": op.Error.Reason,
					})
				}
				continue
			}
			result.Indexed++
		}
	}
	return result, nil
}
