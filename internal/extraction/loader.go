package extraction

import (
	"encoding/json"
	"fmt"
	"os"
)

type mongoDate struct {
	Date string `json:"$date"`
}

type rawDocument struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	Status        string    `json:"status"`
	CreatedAt     mongoDate `json:"createdAt"`
	ExtractedData *struct {
		LLMData map[string]any `json:"llmData"`
	} `json:"extractedData"`
}

// LoadFile reads a document batch exported from the extraction pipeline.
func LoadFile(path string) ([]Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Parse decodes a JSON array of extraction documents.
func Parse(raw []byte) ([]Document, error) {
	var rows []rawDocument
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode document batch: %w", err)
	}

	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		doc := Document{
			ID:     row.ID,
			Name:   row.Name,
			Status: row.Status,
		}
		if t, ok := ParseDate(row.CreatedAt.Date); ok {
			doc.CreatedAt = t
		}
		if row.ExtractedData != nil {
			doc.Data = row.ExtractedData.LLMData
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
